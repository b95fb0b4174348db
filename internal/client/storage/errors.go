package storage

import (
	"errors"
	"fmt"
)

// Common client storage errors
var (
	// ErrIO marks every persistence read/write failure.
	// Callers test for it with errors.Is and degrade to in-memory operation.
	ErrIO = errors.New("storage i/o failure")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = fmt.Errorf("storage is closed: %w", ErrIO)

	// ErrUnknownKind indicates that record kind is not one of the known stores
	ErrUnknownKind = errors.New("unknown record kind")
)

// ioError связывает ошибку бэкенда с ErrIO, сохраняя исходную причину
type ioError struct {
	op   string
	kind Kind
	err  error
}

func (e *ioError) Error() string {
	return fmt.Sprintf("failed to %s %s records: %v", e.op, e.kind, e.err)
}

func (e *ioError) Unwrap() []error {
	return []error{ErrIO, e.err}
}

// IOFailure wraps a backend error so that errors.Is(err, ErrIO) holds
// while the original cause stays reachable through errors.Is/As.
func IOFailure(op string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &ioError{op: op, kind: kind, err: err}
}
