package dispatch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// State of a session's send
type State int

const (
	Idle State = iota
	Sending
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Sending:
		return "sending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Sender performs one blocking send; *Dispatcher implements it
type Sender interface {
	Send(ctx context.Context, address string, payload Payload) error
}

// Poster runs fn on the interaction loop
type Poster interface {
	Post(fn func())
}

// PosterFunc adapts a function to Poster
type PosterFunc func(fn func())

func (f PosterFunc) Post(fn func()) {
	f(fn)
}

// Inline runs callbacks on the sending goroutine
var Inline Poster = PosterFunc(func(fn func()) { fn() })

// Outcome is the single result of a send started with Start
type Outcome struct {
	ID  string
	Err error
}

// Session owns at most one in-flight send.
// The session stays busy until the outcome is delivered on the loop.
type Session struct {
	id     string
	sender Sender
	poster Poster
	logger *slog.Logger

	mu    sync.Mutex
	state State
	last  State
}

// NewSession creates an idle session. A nil poster delivers inline.
func NewSession(sender Sender, poster Poster, logger *slog.Logger) *Session {
	if poster == nil {
		poster = Inline
	}
	id := uuid.New().String()
	return &Session{
		id:     id,
		sender: sender,
		poster: poster,
		logger: logger.With(slog.String("session", id)),
		state:  Idle,
		last:   Idle,
	}
}

// ID returns the session identifier used in logs
func (s *Session) ID() string {
	return s.id
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Last returns the terminal state of the previous send, Idle if none finished
func (s *Session) Last() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Busy reports whether a send has not delivered its outcome yet
func (s *Session) Busy() bool {
	return s.State() != Idle
}

// Dispatch starts a send in the background. Validation errors and ErrBusy
// are returned synchronously; otherwise exactly one of onSuccess or onFailure
// runs through the session's Poster after the socket operation completes.
func (s *Session) Dispatch(ctx context.Context, address string, payload Payload, onSuccess func(), onFailure func(error)) error {
	return s.begin(ctx, address, payload, func(deliver func()) {
		s.poster.Post(deliver)
	}, func(_ string, err error) {
		if err != nil {
			if onFailure != nil {
				onFailure(err)
			}
			return
		}
		if onSuccess != nil {
			onSuccess()
		}
	})
}

// Start is the channel form of Dispatch: the channel yields one Outcome and closes.
// It does not go through the Poster.
func (s *Session) Start(ctx context.Context, address string, payload Payload) (<-chan Outcome, error) {
	out := make(chan Outcome, 1)
	err := s.begin(ctx, address, payload, func(deliver func()) {
		deliver()
	}, func(id string, err error) {
		out <- Outcome{ID: id, Err: err}
		close(out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) begin(
	ctx context.Context,
	address string,
	payload Payload,
	post func(deliver func()),
	complete func(id string, err error),
) error {
	if err := payload.Validate(address); err != nil {
		return err
	}

	s.mu.Lock()
	if s.state != Idle {
		s.mu.Unlock()
		return ErrBusy
	}
	s.state = Sending
	s.mu.Unlock()

	sendID := uuid.New().String()
	logger := s.logger.With(slog.String("send", sendID))
	logger.DebugContext(ctx, "send started", slog.String("address", address))

	var once sync.Once
	go func() {
		err := s.sender.Send(ctx, address, payload)

		s.mu.Lock()
		if err != nil {
			s.state = Failed
		} else {
			s.state = Succeeded
		}
		s.last = s.state
		s.mu.Unlock()

		if err != nil {
			logger.WarnContext(ctx, "send failed", slog.String("address", address), slog.Any("error", err))
		} else {
			logger.DebugContext(ctx, "send succeeded", slog.String("address", address))
		}

		post(func() {
			once.Do(func() {
				// Сессия свободна до вызова колбэка, чтобы он мог начать новую отправку
				s.mu.Lock()
				s.state = Idle
				s.mu.Unlock()
				complete(sendID, err)
			})
		})
	}()

	return nil
}
