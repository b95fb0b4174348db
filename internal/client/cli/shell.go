// Package cli is the terminal shell of the client: a login screen followed
// by the messaging screen.
package cli

import (
	"context"
	"errors"
	"io"

	"github.com/iudanet/teachconnect/internal/client/app"
	"github.com/iudanet/teachconnect/internal/client/dispatch"
	"github.com/iudanet/teachconnect/internal/client/iocli"
)

// ErrDeclined is returned when the operator refuses to register another
// account. It is an intentional exit, not a failure.
var ErrDeclined = errors.New("registration declined")

// Shell drives both screens from one interaction loop
type Shell struct {
	io      iocli.IO
	svc     app.Service
	mailbox *dispatch.Mailbox
	session *dispatch.Session

	user   string
	name   string
	target string
}

// New creates a shell over svc
func New(svc app.Service, io iocli.IO) *Shell {
	mailbox := dispatch.NewMailbox(1)
	return &Shell{
		io:      io,
		svc:     svc,
		mailbox: mailbox,
		session: svc.NewSession(mailbox),
	}
}

// Run shows the login screen and, after a successful login, the messaging screen.
// It returns nil when the operator quits or input ends.
func (s *Shell) Run(ctx context.Context) error {
	ok, err := s.runLogin(ctx)
	if err != nil || !ok {
		return err
	}
	return s.runMessaging(ctx)
}

// readLines feeds input lines to the loop until input ends
func (s *Shell) readLines() <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		for {
			line, err := s.io.ReadInput("")
			if err != nil {
				if !errors.Is(err, io.EOF) {
					s.io.Printf("Error: failed to read input: %v\n", err)
				}
				return
			}
			lines <- line
		}
	}()
	return lines
}
