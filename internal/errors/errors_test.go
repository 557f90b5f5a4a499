package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeAlreadyExists, http.StatusConflict},
		{CodeConflict, http.StatusConflict},
		{CodeValidation, http.StatusBadRequest},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeUnavailable, http.StatusServiceUnavailable},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFoundf("book %s not found", "99")

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrValidation))
	assert.Equal(t, "book 99 not found", err.Error())
}

func TestError_WrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	err := Wrap(cause, CodeInternal, "append book")

	assert.Equal(t, "append book: disk on fire", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, ErrInternal))
}

func TestError_WrappedInFmtError(t *testing.T) {
	err := fmt.Errorf("service: %w", AlreadyExists("book 1 already exists"))

	var domainErr *Error
	require.True(t, As(err, &domainErr))
	assert.Equal(t, CodeAlreadyExists, domainErr.Code)
	assert.Equal(t, CodeAlreadyExists, CodeOf(err))
}

func TestCodeOf_PlainError(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(New("boom")))
}

func TestError_Extensions(t *testing.T) {
	plain := Validation("bad input")
	assert.Equal(t, map[string]any{"code": "VALIDATION"}, plain.Extensions())

	detailed := ValidationWithDetails("bad input", map[string]string{"title": "is required"})
	ext := detailed.Extensions()
	assert.Equal(t, "VALIDATION", ext["code"])
	assert.Equal(t, map[string]string{"title": "is required"}, ext["details"])
}

func TestError_WithDetailsDoesNotMutateSentinel(t *testing.T) {
	derived := ErrNotFound.WithDetails("x")

	assert.Nil(t, ErrNotFound.Details)
	assert.Equal(t, "x", derived.Details)
	assert.True(t, Is(derived, ErrNotFound))
}
