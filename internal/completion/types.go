package completion

import "time"

// DefaultTimeout bounds a single completion when Options.Timeout is unset.
const DefaultTimeout = 30 * time.Second

// Options configures a Client.
type Options struct {
	// Fallback is the in-band text returned when the call fails.
	Fallback string
	Timeout  time.Duration
}

// Result is the outcome of a completion. Err is informational only: when it is
// set, Text already holds the fallback and Fallback is true.
type Result struct {
	Text     string
	Provider string
	Fallback bool
	Err      error
}
