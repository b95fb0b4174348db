// Package dispatch sends one-shot text messages to a classroom listener over TCP.
//
// Dispatcher performs the blocking send. Session wraps it with the
// Idle → Sending → {Succeeded, Failed} → Idle state machine and delivers
// exactly one outcome per send back to the interaction loop.
package dispatch

import (
	"encoding/json"
	"fmt"

	"github.com/iudanet/teachconnect/internal/validation"
)

// Payload is the wire message: {"name": <sender>, "message": <body>}
type Payload struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Validate checks address and both payload fields before any I/O
func (p Payload) Validate(address string) error {
	return validation.Required(
		validation.Field{Name: "address", Value: address},
		validation.Field{Name: "name", Value: p.Name},
		validation.Field{Name: "message", Value: p.Message},
	)
}

// Encode returns the UTF-8 JSON form sent on the wire
func (p Payload) Encode() ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return data, nil
}
