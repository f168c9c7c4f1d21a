package completion

import "errors"

var (
	ErrProviderPanic = errors.New("completion: provider panicked")
)
