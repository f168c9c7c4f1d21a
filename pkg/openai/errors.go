package openai

import "errors"

// ErrInvalidResponse is returned when a 200 response body cannot be decoded.
var ErrInvalidResponse = errors.New("openai: invalid response body")
