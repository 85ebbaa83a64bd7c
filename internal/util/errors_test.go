package util

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		field          string
		message        string
		cause          error
		expectedString string
	}{
		{
			name:           "with field",
			field:          "spec.listener.port",
			message:        "port out of range",
			expectedString: "config error at spec.listener.port: port out of range",
		},
		{
			name:           "without field",
			message:        "invalid configuration",
			expectedString: "config error: invalid configuration",
		},
		{
			name:           "with cause",
			field:          "spec.routes[0].upstream.uri",
			message:        "invalid upstream",
			cause:          errors.New("missing host"),
			expectedString: "config error at spec.routes[0].upstream.uri: invalid upstream",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var err *ConfigError
			if tt.cause != nil {
				err = NewConfigErrorWithCause(tt.field, tt.message, tt.cause)
			} else {
				err = NewConfigError(tt.field, tt.message)
			}

			assert.Equal(t, tt.expectedString, err.Error())
			assert.Equal(t, tt.cause, err.Unwrap())
			assert.ErrorIs(t, err, ErrConfigInvalid)
		})
	}
}

func TestRouteNotFoundError(t *testing.T) {
	t.Parallel()

	err := NewRouteNotFoundError("GET", "/nowhere")

	assert.Equal(t, "no route found for GET /nowhere", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, errors.Is(err, &RouteNotFoundError{}))
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestUpstreamError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := NewUpstreamError("http://localhost:8081", "dial failed", cause)

	assert.Equal(t, "upstream http://localhost:8081 error: dial failed: connection refused", err.Error())
	assert.ErrorIs(t, err, ErrUpstreamUnavail)
	assert.ErrorIs(t, err, cause)

	noCause := &UpstreamError{Upstream: "u", Message: "down"}
	assert.Equal(t, "upstream u error: down", noCause.Error())
}

func TestTimeoutError(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("wrapped: %w", errors.New("deadline"))
	err := NewTimeoutError("upstream response", 2*time.Second, cause)

	assert.Equal(t, "timeout after 2s during upstream response", err.Error())
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, cause, err.Unwrap())
}
