package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// AuditTimeLayout is the timestamp format of audit lines
const AuditTimeLayout = "2006-01-02 15:04:05.000000"

// AuditHandler is a slog.Handler that writes one line per record:
//
//	[2006-01-02 15:04:05.000000] MESSAGE: ip=10.0.0.5, name=Alice, message=hi
//
// The record message is the context, attributes follow as key=value pairs.
// All levels are written. Handlers derived with WithAttrs/WithGroup share the writer lock.
type AuditHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	prefix string
	now    func() time.Time
}

// Compile-time check that AuditHandler implements slog.Handler
var _ slog.Handler = (*AuditHandler)(nil)

// NewAuditHandler creates a handler writing to w
func NewAuditHandler(w io.Writer) *AuditHandler {
	return &AuditHandler{mu: &sync.Mutex{}, w: w, now: time.Now}
}

// Enabled always reports true: the audit trail keeps everything
func (h *AuditHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle formats and writes the record
func (h *AuditHandler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time
	if ts.IsZero() {
		ts = h.now()
	}

	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(ts.Format(AuditTimeLayout))
	b.WriteString("] ")
	b.WriteString(r.Message)
	b.WriteByte(':')

	first := true
	write := func(key string, v slog.Value) {
		if first {
			b.WriteByte(' ')
			first = false
		} else {
			b.WriteString(", ")
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(v.String())
	}

	for _, a := range h.attrs {
		appendAttr(write, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(write, h.prefix, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

// WithAttrs returns a handler that adds attrs to every line
func (h *AuditHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		// группа применяется к атрибутам сразу
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

// WithGroup prefixes keys of subsequent attributes with name
func (h *AuditHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func appendAttr(write func(string, slog.Value), prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if a.Key != "" {
			groupPrefix = prefix + a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(write, groupPrefix, ga)
		}
		return
	}
	write(prefix+a.Key, a.Value)
}
