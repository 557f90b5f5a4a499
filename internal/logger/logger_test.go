package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultWriter(t *testing.T) {
	logger := New(Config{Level: slog.LevelInfo, Format: FormatJSON})
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.Logger)
}

func TestNew_CustomWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	logger.Info("catalog ready")

	assert.Contains(t, buf.String(), "catalog ready")
	assert.Contains(t, buf.String(), `"level":"INFO"`)
}

func TestNew_FormatAutoDetection(t *testing.T) {
	tests := []struct {
		environment string
		wantJSON    bool
	}{
		{"production", true},
		{"development", false},
		{"staging", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: slog.LevelInfo, Environment: tt.environment, Writer: &buf})
			logger.Info("hello")

			assert.Equal(t, tt.wantJSON, json.Valid(bytes.TrimSpace(buf.Bytes())))
		})
	}
}

func TestNew_RequestIDFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-abc")
	logger.InfoContext(ctx, "Book added", "id", "3")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "req-abc", record[RequestIDKey])
	assert.Equal(t, "3", record["id"])
}

func TestNew_NoRequestIDWithoutContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	logger.Info("no request")

	assert.NotContains(t, buf.String(), RequestIDKey)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestConsoleHandler_Enabled(t *testing.T) {
	handler := NewConsoleHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	assert.False(t, handler.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelError))
}

func TestNewConsoleHandler_NilOptions(t *testing.T) {
	handler := NewConsoleHandler(&bytes.Buffer{}, nil)

	assert.True(t, handler.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, handler.Enabled(context.Background(), slog.LevelDebug))
}

func TestConsoleHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewConsoleHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Debug("Book not found", "id", "99")

	output := buf.String()
	assert.Contains(t, output, "DBG")
	assert.Contains(t, output, "Book not found")
	assert.Contains(t, output, "id=99")
	assert.True(t, strings.HasSuffix(output, "\n"))
}

func TestConsoleHandler_QuotesStringsWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewConsoleHandler(&buf, nil))

	logger.Info("Book added", "title", "City of Glass", "author", "Auster")

	assert.Contains(t, buf.String(), `title="City of Glass"`)
	assert.Contains(t, buf.String(), "author=Auster")
}

func TestConsoleHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	handler := NewConsoleHandler(&buf, nil).WithAttrs([]slog.Attr{
		slog.String("component", "catalog"),
		slog.Int("version", 1),
	})

	slog.New(handler).Info("started", "books", 2)

	output := buf.String()
	assert.Contains(t, output, "component=catalog")
	assert.Contains(t, output, "version=1")
	assert.Contains(t, output, "books=2")
	assert.Less(t, strings.Index(output, "component="), strings.Index(output, "books="))
}

func TestConsoleHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	handler := NewConsoleHandler(&buf, nil)

	assert.Same(t, handler, handler.WithGroup(""))

	logger := slog.New(handler.WithGroup("http").WithAttrs([]slog.Attr{slog.String("method", "POST")}))
	logger.Info("request", "status", 200)

	output := buf.String()
	assert.Contains(t, output, "http.method=POST")
	assert.Contains(t, output, "http.status=200")
}

func TestConsoleHandler_WithSource(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewConsoleHandler(&buf, &slog.HandlerOptions{AddSource: true}))

	logger.Info("with source")

	assert.Contains(t, buf.String(), "logger_test.go:")
}

func TestNew_ExplicitConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: FormatConsole, Environment: "production", Writer: &buf})

	logger.Info("Server ready", "url", "http://localhost:4000/")

	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
	assert.Contains(t, buf.String(), "url=http://localhost:4000/")
}

func TestConsoleHandler_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewConsoleHandler(&buf, nil))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("line", "n", i)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, strings.Count(buf.String(), "\n"))
}

func TestFormatLevel(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, "DBG"},
		{slog.LevelInfo, "INF"},
		{slog.LevelWarn, "WRN"},
		{slog.LevelError, "ERR"},
		{slog.LevelError + 4, "ERROR+4"},
	}

	for _, tt := range tests {
		got, color := formatLevel(tt.level)
		assert.Equal(t, tt.want, got)
		assert.NotEmpty(t, color)
	}
}

func TestFormatValue(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.Equal(t, "plain", formatValue(slog.StringValue("plain")))
	assert.Equal(t, `"two words"`, formatValue(slog.StringValue("two words")))
	assert.Equal(t, "2024-01-02T03:04:05Z", formatValue(slog.TimeValue(ts)))
	assert.Equal(t, "1.5s", formatValue(slog.DurationValue(1500*time.Millisecond)))
	assert.Equal(t, "42", formatValue(slog.IntValue(42)))
	assert.Equal(t, "true", formatValue(slog.BoolValue(true)))
}

func TestLogger_Component(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	logger.Component("graphql").Info("ready")

	assert.Contains(t, buf.String(), `"component":"graphql"`)
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Format: "json", Writer: &buf})

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
