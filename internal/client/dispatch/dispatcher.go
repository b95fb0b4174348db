package dispatch

import (
	"context"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultPort is the listener port of the classroom receiver
	DefaultPort = 11224
	// DefaultTimeout bounds connect and write of one send
	DefaultTimeout = 10 * time.Second
)

// Dialer opens the stream connection. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Dispatcher sends payloads. Every Send owns its own connection, so a
// Dispatcher is safe for concurrent use.
type Dispatcher struct {
	port    int
	timeout time.Duration
	dialer  Dialer
	logger  *slog.Logger
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithPort overrides the listener port
func WithPort(port int) Option {
	return func(d *Dispatcher) {
		if port > 0 {
			d.port = port
		}
	}
}

// WithTimeout overrides the send timeout
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// WithDialer replaces the network dialer
func WithDialer(dialer Dialer) Option {
	return func(d *Dispatcher) {
		if dialer != nil {
			d.dialer = dialer
		}
	}
}

// New creates a Dispatcher with DefaultPort and DefaultTimeout
func New(logger *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		port:    DefaultPort,
		timeout: DefaultTimeout,
		dialer:  &net.Dialer{},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Port returns the listener port
func (d *Dispatcher) Port() int {
	return d.port
}

// Timeout returns the send timeout
func (d *Dispatcher) Timeout() time.Duration {
	return d.timeout
}

// Send delivers payload to address in a single write and closes the connection.
// Success means the write completed; the protocol has no acknowledgment.
func (d *Dispatcher) Send(ctx context.Context, address string, payload Payload) error {
	if err := payload.Validate(address); err != nil {
		return err
	}

	data, err := payload.Encode()
	if err != nil {
		return err
	}

	target := net.JoinHostPort(strings.TrimSpace(address), strconv.Itoa(d.port))

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	conn, err := d.dialer.DialContext(ctx, "tcp", target)
	if err != nil {
		return &NetworkError{Address: target, Err: err}
	}
	defer func() {
		if err := conn.Close(); err != nil {
			d.logger.DebugContext(ctx, "failed to close connection",
				slog.String("address", target), slog.Any("error", err))
		}
	}()

	// Дедлайн записи совпадает с общим таймаутом отправки
	deadline, _ := ctx.Deadline()
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return &NetworkError{Address: target, Err: err}
	}

	if _, err := conn.Write(data); err != nil {
		return &NetworkError{Address: target, Err: err}
	}

	d.logger.DebugContext(ctx, "message sent",
		slog.String("address", target), slog.Int("bytes", len(data)))
	return nil
}
