package common

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name            string
		originalError   error
		message         string
		expectedMessage string
	}{
		{
			name:            "wrap simple error",
			originalError:   errors.New("original error"),
			message:         "wrapper message",
			expectedMessage: "wrapper message: original error",
		},
		{
			name:            "empty wrapper message",
			originalError:   errors.New("original error"),
			message:         "",
			expectedMessage: ": original error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrappedError := WrapError(tt.originalError, tt.message)
			assert.Error(t, wrappedError)
			assert.Equal(t, tt.expectedMessage, wrappedError.Error())
			assert.ErrorIs(t, wrappedError, tt.originalError)
		})
	}
}

func TestWrapError_Nil(t *testing.T) {
	assert.NoError(t, WrapError(nil, "context"))
	assert.NoError(t, WrapErrorf(nil, "context %d", 1))
}

func TestColumnError(t *testing.T) {
	err := WrapError(NewColumnError("remove_missing_link", "Link URL"), "stage skipped")

	assert.ErrorIs(t, err, ErrMissingColumn)
	var colErr *ColumnError
	assert.True(t, errors.As(err, &colErr))
	assert.Equal(t, "Link URL", colErr.Column)
	assert.Equal(t, "stage skipped: stage 'remove_missing_link' requires column 'Link URL'", err.Error())
}

func TestConfigurationError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ConfigurationError
		expected string
	}{
		{
			name:     "section and field",
			err:      NewConfigurationError("geocode_config", "min_delay", "must be positive"),
			expected: "configuration error in section 'geocode_config', field 'min_delay': must be positive",
		},
		{
			name:     "section only",
			err:      NewConfigurationError("url_config", "", "missing"),
			expected: "configuration error in section 'url_config': missing",
		},
		{
			name:     "reason only",
			err:      NewConfigurationError("", "", "broken"),
			expected: "configuration error: broken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrInvalidConfiguration)
		})
	}
}

func TestNetworkAndHTTPErrors(t *testing.T) {
	cause := errors.New("no such host")
	netErr := NewNetworkError("https://nominatim.example/reverse", "request failed", cause)
	assert.Equal(t, "network error for 'https://nominatim.example/reverse': request failed: no such host", netErr.Error())
	assert.ErrorIs(t, netErr, cause)

	httpErr := NewHTTPErrorWithURL(http.StatusTooManyRequests, "rate limited", "https://api.example/x")
	assert.Equal(t, "HTTP 429 error for 'https://api.example/x': rate limited", httpErr.Error())

	var hErr *HTTPError
	assert.True(t, errors.As(WrapError(httpErr, "lookup"), &hErr))
	assert.Equal(t, http.StatusTooManyRequests, hErr.StatusCode)
}

func TestErrorCollector(t *testing.T) {
	var ec ErrorCollector
	assert.False(t, ec.HasErrors())
	assert.NoError(t, ec.Error())

	ec.AddWithContext(nil, "docs/skip.md")
	ec.AddWithContext(errors.New("first"), "docs/b.md")
	assert.Equal(t, 1, ec.Count())
	assert.Equal(t, "docs/b.md: first", ec.Error().Error())

	ec.AddWithContext(errors.New("second"), "docs/a.md")
	assert.True(t, ec.HasErrors())
	assert.Equal(t, 2, ec.Count())
	assert.Equal(t, "multiple errors occurred: [docs/b.md: first; docs/a.md: second]", ec.Error().Error())
}

func TestValidationError_IsInvalidInput(t *testing.T) {
	err := WrapError(NewValidationError("mode", "heavy", "unknown mode"), "normalize-urls")

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, NewConfigurationError("url_config", "base_url", "empty"), ErrInvalidInput)
	assert.Equal(t, "normalize-urls: validation failed for field 'mode': unknown mode (value: heavy)", err.Error())
}
