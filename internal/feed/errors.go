package feed

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrFetchFailed      = errors.New("market update fetch failed")
	ErrDisconnected     = errors.New("realtime channel disconnected")
	ErrChannelExhausted = errors.New("realtime channel retries exhausted")
)

// FetchError is returned by FetchSnapshot. It matches ErrFetchFailed and the cause.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch market updates: %v", e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{ErrFetchFailed, e.Err}
}
