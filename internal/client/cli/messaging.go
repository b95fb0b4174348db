package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"text/template"

	"github.com/iudanet/teachconnect/internal/client/contacts"
	"github.com/iudanet/teachconnect/internal/client/dispatch"
	"github.com/iudanet/teachconnect/internal/validation"
)

var statusTmpl = template.Must(template.New("status").Parse(statusTemplate))

// runMessaging is the interaction loop of the messaging screen.
// Send outcomes arrive through the mailbox and are handled here, never on
// the sending goroutine.
func (s *Shell) runMessaging(ctx context.Context) error {
	s.selectDefaults()

	s.io.Println()
	s.io.Println("=== Messaging ===")
	s.printSelection()
	s.io.Println("Type 'help' for commands.")

	lines := s.readLines()
	for {
		s.io.Printf("> ")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case deliver := <-s.mailbox.C():
			s.io.Println()
			deliver()
		case line, ok := <-lines:
			if !ok {
				s.awaitSend(ctx)
				return nil
			}
			if quit := s.handle(ctx, line); quit {
				s.awaitSend(ctx)
				return nil
			}
		}
	}
}

// selectDefaults picks the first saved name and endpoint
func (s *Shell) selectDefaults() {
	if names := s.svc.CurrentNames(); len(names) > 0 {
		s.name = names[0]
	}
	if endpoints := s.svc.CurrentEndpoints(); len(endpoints) > 0 {
		s.target = endpoints[0]
	}
}

// awaitSend delivers the outcome of an in-flight send before leaving
func (s *Shell) awaitSend(ctx context.Context) {
	if s.session.Busy() {
		s.io.Println("Waiting for the message to be sent...")
	}
	for s.session.Busy() {
		select {
		case deliver := <-s.mailbox.C():
			deliver()
		case <-ctx.Done():
			return
		}
	}
}

func (s *Shell) handle(ctx context.Context, line string) bool {
	command, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(command) {
	case "":
	case "names":
		printList(s, "Names", s.svc.CurrentNames())
	case "endpoints":
		printList(s, "Endpoints", s.svc.CurrentEndpoints())
	case "name":
		s.chooseName(ctx, arg)
	case "endpoint":
		s.chooseEndpoint(ctx, arg)
	case "target":
		s.target = arg
		s.printSelection()
	case "send":
		s.send(ctx, arg)
	case "status":
		s.printStatus()
	case "help":
		s.io.Printf("%s", helpText)
	case "quit", "exit":
		return true
	default:
		s.io.Printf("Unknown command: %s\n", command)
	}
	return false
}

func printList(s *Shell, title string, items []string) {
	if len(items) == 0 {
		s.io.Printf("No saved %s\n", strings.ToLower(title))
		return
	}
	s.io.Printf("%s:\n", title)
	for i, item := range items {
		s.io.Printf("  %d) %s\n", i+1, item)
	}
}

// pick returns item N of items when arg is a valid 1-based index
func pick(items []string, arg string) (string, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(items) {
		return "", false
	}
	return items[n-1], true
}

func (s *Shell) chooseName(ctx context.Context, arg string) {
	if arg == "" {
		s.io.Println("Usage: name <text|N>")
		return
	}
	if name, ok := pick(s.svc.CurrentNames(), arg); ok {
		s.name = name
		s.printSelection()
		return
	}

	if err := s.svc.ConfirmName(ctx, arg); err != nil {
		// Имя всё равно выбрано, не удалось только сохранить
		s.io.Printf("Warning: %v\n", err)
	}
	s.name = arg
	s.printSelection()
}

func (s *Shell) chooseEndpoint(ctx context.Context, arg string) {
	if arg == "" {
		s.io.Println("Usage: endpoint <note - address|N>")
		return
	}
	if ep, ok := pick(s.svc.CurrentEndpoints(), arg); ok {
		s.target = ep
		s.printSelection()
		return
	}

	ep, err := s.svc.ConfirmEndpoint(ctx, arg)
	switch {
	case errors.Is(err, contacts.ErrInvalidFormat):
		s.io.Println("✗ Invalid endpoint format, expected \"note - address\"")
		return
	case err != nil:
		s.io.Printf("Warning: %v\n", err)
	}
	s.target = ep.String()
	s.printSelection()
}

func (s *Shell) send(ctx context.Context, message string) {
	err := s.svc.Dispatch(ctx, s.session, s.name, s.target, message,
		func(ep contacts.Endpoint) {
			s.target = ep.String()
			s.io.Printf("✓ Message sent to %s\n", s.target)
			s.io.Println("The target computer re-enables message receiving in 10 seconds.")
		},
		func(err error) {
			s.io.Println("✗ Send failed: check the network connection or whether the program is running in the target classroom")
			s.io.Printf("Error: %v\n", err)
		},
	)

	var verr *validation.Error
	switch {
	case err == nil:
		s.io.Println("Sending...")
	case errors.As(err, &verr):
		s.io.Printf("✗ Required: %s\n", strings.Join(verr.Fields, ", "))
	case errors.Is(err, dispatch.ErrBusy):
		s.io.Println("✗ A message is already being sent, wait for the result")
	default:
		s.io.Printf("✗ Send failed: %v\n", err)
	}
}

func (s *Shell) printSelection() {
	name, target := s.name, s.target
	if name == "" {
		name = "(not set)"
	}
	if target == "" {
		target = "(not set)"
	}
	s.io.Printf("Name: %s | Endpoint: %s\n", name, target)
}

func (s *Shell) printStatus() {
	view := struct {
		User, Name, Target, State, Last string
	}{
		User:   s.user,
		Name:   s.name,
		Target: s.target,
		State:  s.session.State().String(),
	}
	if last := s.session.Last(); last != dispatch.Idle {
		view.Last = last.String()
	}
	if err := statusTmpl.Execute(s.io, view); err != nil {
		s.io.Printf("Error: %v\n", err)
	}
}
