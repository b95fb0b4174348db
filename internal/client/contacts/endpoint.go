package contacts

import (
	"errors"
	"strings"
)

// Separator joins note and address in the display form
const Separator = " - "

// ErrInvalidFormat is matched by every FormatError
var ErrInvalidFormat = errors.New("invalid endpoint format")

// FormatError is a composite string that no parse strategy accepted.
// Input keeps the original text so the caller can leave it for correction.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return ErrInvalidFormat.Error()
}

// Is makes errors.Is(err, ErrInvalidFormat) hold
func (e *FormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

// Endpoint is a listener address with a human-readable note
type Endpoint struct {
	Address string
	Note    string
}

// String returns the canonical "note - address" form
func (e Endpoint) String() string {
	return e.Note + Separator + e.Address
}

// parseStrategy tries one way of splitting the composite string
type parseStrategy func(text string) (Endpoint, bool)

// strategies are applied in order; the first match wins
var strategies = []parseStrategy{
	splitOn(Separator),
	// Починка ввода без пробелов: "Room A-10.0.0.5"
	splitOn("-"),
}

func splitOn(sep string) parseStrategy {
	return func(text string) (Endpoint, bool) {
		note, address, found := strings.Cut(text, sep)
		if !found {
			return Endpoint{}, false
		}
		return Endpoint{
			Address: strings.TrimSpace(address),
			Note:    strings.TrimSpace(note),
		}, true
	}
}

// ParseEndpoint parses "note - address", repairing "note-address".
// The note may be empty; an empty address is a FormatError.
func ParseEndpoint(raw string) (Endpoint, error) {
	text := strings.TrimSpace(raw)
	for _, try := range strategies {
		ep, ok := try(text)
		if !ok {
			continue
		}
		if ep.Address == "" {
			return Endpoint{}, &FormatError{Input: raw}
		}
		return ep, nil
	}
	return Endpoint{}, &FormatError{Input: raw}
}
