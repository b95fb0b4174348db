package dispatch

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when a session already has a send in flight
var ErrBusy = errors.New("a message is already being sent")

// NetworkError is a connect, write or timeout failure.
// Sends are never retried.
type NetworkError struct {
	Address string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("failed to send message to %s: %v", e.Address, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
