package urlhandler

import "errors"

// ErrInvalidBaseURL is returned when the normalizer base is not an absolute http(s) URL
var ErrInvalidBaseURL = errors.New("base URL must be an absolute http(s) URL")
