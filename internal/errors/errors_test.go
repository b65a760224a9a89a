package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFoundf("anime %d not found", 42)

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrRateLimited))
	assert.Equal(t, "anime 42 not found", err.Error())
}

func TestError_WrappedCauseStillMatches(t *testing.T) {
	rateLimited := ErrRateLimited.WithCause(fmt.Errorf("status 429"))
	exhausted := ErrUpstreamUnavailable.WithCause(rateLimited)

	assert.True(t, Is(exhausted, ErrUpstreamUnavailable))
	assert.True(t, Is(exhausted, ErrRateLimited), "cause chain should be visible")
	assert.Equal(t, CodeUpstreamUnavailable, CodeOf(exhausted))
}

func TestError_WithDetailsKeepsCode(t *testing.T) {
	err := ErrValidation.WithDetails(map[string]string{"page": "must be greater than or equal to 0"})

	assert.Equal(t, CodeValidation, err.Code)
	assert.NotNil(t, err.Details)
	assert.Nil(t, ErrValidation.Details, "sentinel must not be mutated")
}

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeUpstreamUnavailable, http.StatusServiceUnavailable},
		{CodeNotFound, http.StatusNotFound},
		{CodeInvalidResponse, http.StatusBadGateway},
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodePersistence, http.StatusInternalServerError},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestCodeOf_PlainError(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(fmt.Errorf("boom")))
}
