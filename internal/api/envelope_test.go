package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/listenupapp/bookcatalog/internal/errors"
	"github.com/listenupapp/bookcatalog/internal/http/response"
)

func TestEnvelopeTransformer_AlwaysIncludesVersion(t *testing.T) {
	tests := []struct {
		name   string
		status string
		input  any
	}{
		{name: "success response", status: "200", input: map[string]string{"key": "value"}},
		{name: "created response", status: "201", input: map[string]string{"id": "3"}},
		{name: "bad request error", status: "400", input: errors.New("invalid input")},
		{name: "not found error", status: "404", input: errors.New("resource not found")},
		{
			name:   "api error with details",
			status: "409",
			input: &APIError{
				Code:    "CONFLICT",
				Message: "book id out of order",
				Details: map[string]string{"id": "7"},
			},
		},
		{name: "huma error model", status: "422", input: &huma.ErrorModel{Status: 422, Detail: "validation failed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := EnvelopeTransformer(nil, tt.status, tt.input)
			require.NoError(t, err)

			jsonBytes, err := json.Marshal(result)
			require.NoError(t, err)

			var env map[string]any
			require.NoError(t, json.Unmarshal(jsonBytes, &env))
			require.Contains(t, env, "v", "Envelope must contain version field 'v'")
			assert.Equal(t, float64(response.Version), env["v"])
		})
	}
}

func TestEnvelopeTransformer_NilPassesThrough(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "204", nil)

	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestEnvelopeTransformer_SuccessResponse(t *testing.T) {
	data := map[string]string{"title": "Dune"}

	result, err := EnvelopeTransformer(nil, "200", data)
	require.NoError(t, err)

	env, ok := result.(response.Envelope)
	require.True(t, ok, "Expected response.Envelope type")
	assert.True(t, env.Success)
	assert.Equal(t, data, env.Data)
	assert.Empty(t, env.Error)
}

func TestEnvelopeTransformer_AlreadyWrapped(t *testing.T) {
	wrapped := response.OK("x")

	result, err := EnvelopeTransformer(nil, "200", wrapped)

	require.NoError(t, err)
	assert.Equal(t, wrapped, result)
}

func TestEnvelopeTransformer_ErrorResponse(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "400", errors.New("validation failed"))
	require.NoError(t, err)

	env, ok := result.(response.Envelope)
	require.True(t, ok)
	assert.False(t, env.Success)
	assert.Nil(t, env.Data)
	assert.Equal(t, "validation failed", env.Error)
	assert.Equal(t, "VALIDATION", env.Code)
}

func TestEnvelopeTransformer_APIErrorWithDetails(t *testing.T) {
	apiErr := &APIError{
		Code:    "NOT_FOUND",
		Message: "book not found",
		Details: map[string]string{"id": "99"},
	}

	result, err := EnvelopeTransformer(nil, "404", apiErr)
	require.NoError(t, err)

	env, ok := result.(response.Envelope)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", env.Code)
	assert.Equal(t, "book not found", env.Message)
	assert.Equal(t, "book not found", env.Error)
	assert.Equal(t, map[string]string{"id": "99"}, env.Details)
}

func TestEnvelopeTransformer_HumaErrorModel(t *testing.T) {
	model := &huma.ErrorModel{
		Status: http.StatusUnprocessableEntity,
		Title:  "Unprocessable Entity",
		Errors: []*huma.ErrorDetail{{Message: "expected required property author to be present", Location: "body"}},
	}

	result, err := EnvelopeTransformer(nil, "422", model)
	require.NoError(t, err)

	env, ok := result.(response.Envelope)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION", env.Code)
	assert.Equal(t, "Unprocessable Entity", env.Message)
	assert.Equal(t, model.Errors, env.Details)
}

func TestToAPIError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"not found", domainerrors.NotFound("book not found"), http.StatusNotFound, "NOT_FOUND", "book not found"},
		{"validation", domainerrors.Validation("bad"), http.StatusBadRequest, "VALIDATION", "bad"},
		{"unavailable", domainerrors.Unavailable("catalog is closed"), http.StatusServiceUnavailable, "UNAVAILABLE", "catalog is closed"},
		{"internal hidden", domainerrors.Internal("disk full"), http.StatusInternalServerError, "INTERNAL", "internal server error"},
		{"plain error hidden", errors.New("boom"), http.StatusInternalServerError, "INTERNAL", "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := toAPIError(tt.err)
			assert.Equal(t, tt.status, apiErr.GetStatus())
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestRegisterErrorHandler(t *testing.T) {
	RegisterErrorHandler()

	t.Run("domain error wins", func(t *testing.T) {
		err := huma.NewError(http.StatusInternalServerError, "ignored", domainerrors.NotFound("book not found"))
		assert.Equal(t, http.StatusNotFound, err.GetStatus())
		assert.Equal(t, "book not found", err.Error())
	})

	t.Run("status mapped to code", func(t *testing.T) {
		err := huma.NewError(http.StatusUnprocessableEntity, "validation failed",
			&huma.ErrorDetail{Message: "expected string", Location: "body.title"})

		apiErr, ok := err.(*APIError)
		require.True(t, ok)
		assert.Equal(t, "VALIDATION", apiErr.Code)
		details, ok := apiErr.Details.([]*huma.ErrorDetail)
		require.True(t, ok)
		assert.Equal(t, "body.title", details[0].Location)
	})
}

func TestStatusToCode(t *testing.T) {
	assert.Equal(t, "VALIDATION", statusToCode(http.StatusBadRequest))
	assert.Equal(t, "VALIDATION", statusToCode(http.StatusUnprocessableEntity))
	assert.Equal(t, "NOT_FOUND", statusToCode(http.StatusNotFound))
	assert.Equal(t, "CONFLICT", statusToCode(http.StatusConflict))
	assert.Equal(t, "RATE_LIMITED", statusToCode(http.StatusTooManyRequests))
	assert.Equal(t, "UNAVAILABLE", statusToCode(http.StatusServiceUnavailable))
	assert.Equal(t, "INTERNAL", statusToCode(http.StatusInternalServerError))
}
