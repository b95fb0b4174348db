// Package app is the command interface the presentation shell talks to.
// It combines the credential store, the contacts cache and the dispatcher.
package app

import (
	"context"
	"log/slog"
	"net"
	"strings"

	"github.com/iudanet/teachconnect/internal/client/auth"
	"github.com/iudanet/teachconnect/internal/client/contacts"
	"github.com/iudanet/teachconnect/internal/client/dispatch"
)

//go:generate moq -out service_mock.go . Service

// Service определяет операции, доступные оболочке
type Service interface {
	Authenticate(ctx context.Context, username, password string) bool
	Register(ctx context.Context, username, password string) error
	IsRegistered(ctx context.Context) bool

	CurrentNames() []string
	CurrentEndpoints() []string
	ConfirmName(ctx context.Context, text string) error
	ConfirmEndpoint(ctx context.Context, text string) (contacts.Endpoint, error)

	NewSession(poster dispatch.Poster) *dispatch.Session
	Dispatch(ctx context.Context, session *dispatch.Session, senderName, target, body string,
		onSuccess func(contacts.Endpoint), onFailure func(error)) error
}

type service struct {
	credentials *auth.Store
	contacts    *contacts.Cache
	sender      dispatch.Sender
	audit       *slog.Logger
	logger      *slog.Logger
}

// NewService creates the shell-facing service.
// audit receives the MESSAGE and ERROR lines of the run log.
func NewService(credentials *auth.Store, cache *contacts.Cache, sender dispatch.Sender, audit, logger *slog.Logger) Service {
	return &service{
		credentials: credentials,
		contacts:    cache,
		sender:      sender,
		audit:       audit,
		logger:      logger,
	}
}

func (s *service) Authenticate(ctx context.Context, username, password string) bool {
	ok := s.credentials.Verify(ctx, username, password)
	if !ok {
		s.audit.WarnContext(ctx, "LOGIN", slog.String("user", strings.TrimSpace(username)), slog.String("result", "rejected"))
		return false
	}
	s.audit.InfoContext(ctx, "LOGIN", slog.String("user", strings.TrimSpace(username)), slog.String("result", "ok"))
	return true
}

func (s *service) Register(ctx context.Context, username, password string) error {
	if err := s.credentials.Register(ctx, username, password); err != nil {
		s.audit.ErrorContext(ctx, "ERROR", slog.String("op", "register"), slog.String("error", err.Error()))
		return err
	}
	s.audit.InfoContext(ctx, "REGISTER", slog.String("user", strings.TrimSpace(username)))
	return nil
}

func (s *service) IsRegistered(ctx context.Context) bool {
	return s.credentials.IsRegistered(ctx)
}

func (s *service) CurrentNames() []string {
	return s.contacts.ListNames()
}

func (s *service) CurrentEndpoints() []string {
	return s.contacts.ListEndpoints()
}

// ConfirmName remembers the sender name right away
func (s *service) ConfirmName(ctx context.Context, text string) error {
	return s.contacts.RecordName(ctx, text)
}

// ConfirmEndpoint parses and remembers "note - address"
func (s *service) ConfirmEndpoint(ctx context.Context, text string) (contacts.Endpoint, error) {
	ep, err := s.contacts.RecordEndpoint(ctx, text)
	if err != nil {
		s.audit.ErrorContext(ctx, "ERROR", slog.String("op", "endpoint"), slog.String("error", err.Error()))
		return ep, err
	}
	return ep, nil
}

// NewSession creates a send session whose callbacks go through poster
func (s *service) NewSession(poster dispatch.Poster) *dispatch.Session {
	return dispatch.NewSession(s.sender, poster, s.logger)
}

// Dispatch sends body from senderName to target through session.
// target is either "note - address" or a bare address.
// Name and endpoint are recorded only after the send succeeded.
func (s *service) Dispatch(
	ctx context.Context,
	session *dispatch.Session,
	senderName, target, body string,
	onSuccess func(contacts.Endpoint),
	onFailure func(error),
) error {
	ep := s.resolve(target)
	payload := dispatch.Payload{Name: strings.TrimSpace(senderName), Message: strings.TrimSpace(body)}

	if err := payload.Validate(ep.Address); err != nil {
		s.audit.ErrorContext(ctx, "ERROR", slog.String("op", "send"), slog.String("error", err.Error()))
		return err
	}

	s.audit.InfoContext(ctx, "MESSAGE",
		slog.String("ip", ep.Address),
		slog.String("name", payload.Name),
		slog.String("message", payload.Message))

	err := session.Dispatch(ctx, ep.Address, payload, func() {
		s.recordContact(ctx, payload.Name, ep)
		if onSuccess != nil {
			onSuccess(ep)
		}
	}, func(err error) {
		s.audit.ErrorContext(ctx, "ERROR",
			slog.String("ip", ep.Address),
			slog.String("error", err.Error()))
		if onFailure != nil {
			onFailure(err)
		}
	})
	if err != nil {
		s.audit.ErrorContext(ctx, "ERROR", slog.String("op", "send"), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// recordContact persists the contact of a delivered message.
// Cache failures are logged; the message itself is already sent.
func (s *service) recordContact(ctx context.Context, name string, ep contacts.Endpoint) {
	if err := s.contacts.RecordName(ctx, name); err != nil {
		s.logger.WarnContext(ctx, "failed to record name", slog.Any("error", err))
		s.audit.ErrorContext(ctx, "ERROR", slog.String("op", "record name"), slog.String("error", err.Error()))
	}
	if err := s.contacts.SaveEndpoint(ctx, ep); err != nil {
		s.logger.WarnContext(ctx, "failed to record endpoint", slog.Any("error", err))
		s.audit.ErrorContext(ctx, "ERROR", slog.String("op", "record endpoint"), slog.String("error", err.Error()))
	}
}

// resolve turns the target field into an endpoint.
// A known address is taken as is with its stored note. "note - address" is
// parsed; "note-address" only when the address part is an IP, so hostnames
// with hyphens stay whole. Anything else is a bare address.
func (s *service) resolve(target string) contacts.Endpoint {
	target = strings.TrimSpace(target)
	if note, ok := s.contacts.Note(target); ok {
		return contacts.Endpoint{Address: target, Note: note}
	}
	ep, err := contacts.ParseEndpoint(target)
	if err == nil && (strings.Contains(target, contacts.Separator) || net.ParseIP(ep.Address) != nil) {
		return ep
	}
	return contacts.Endpoint{Address: target}
}
