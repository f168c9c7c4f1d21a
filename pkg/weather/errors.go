package weather

import "errors"

var (
	// ErrUnavailable means the provider could not be reached.
	ErrUnavailable = errors.New("weather: provider unavailable")
	// ErrMalformedResponse means a 200 response lacked the expected fields.
	ErrMalformedResponse = errors.New("weather: malformed response")
)
