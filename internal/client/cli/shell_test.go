package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/teachconnect/internal/client/app"
	"github.com/iudanet/teachconnect/internal/client/auth"
	"github.com/iudanet/teachconnect/internal/client/contacts"
	"github.com/iudanet/teachconnect/internal/client/dispatch"
	"github.com/iudanet/teachconnect/internal/client/iocli"
	"github.com/iudanet/teachconnect/internal/client/storage"
	"github.com/iudanet/teachconnect/internal/client/storage/storagetest"
	"github.com/iudanet/teachconnect/internal/logging"
)

// stubSender запоминает отправленное и возвращает заданную ошибку
type stubSender struct {
	mu   sync.Mutex
	err  error
	sent []dispatch.Payload
	to   []string
}

func (s *stubSender) Send(ctx context.Context, address string, payload dispatch.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, payload)
	s.to = append(s.to, address)
	return s.err
}

type harness struct {
	mem    *storagetest.Memory
	svc    app.Service
	sender *stubSender
}

func newHarness(t *testing.T, sendErr error) *harness {
	t.Helper()
	mem := storagetest.NewMemory()
	logger := logging.Discard()
	sender := &stubSender{err: sendErr}
	svc := app.NewService(
		auth.NewStore(mem, logger),
		contacts.NewCache(context.Background(), mem, logger),
		sender,
		slog.New(logging.NewAuditHandler(&bytes.Buffer{})),
		logger,
	)
	return &harness{mem: mem, svc: svc, sender: sender}
}

func (h *harness) run(t *testing.T, script string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	shell := New(h.svc, iocli.New(strings.NewReader(script), &out))
	err := shell.Run(context.Background())
	return out.String(), err
}

func TestShell_LoginAndSend(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.svc.Register(context.Background(), "teacher", "secret"))

	out, err := h.run(t, strings.Join([]string{
		"login", "teacher", "wrong",
		"login", "teacher", "secret",
		"name Alice",
		"target Room A-10.0.0.5",
		"send hello class",
		"quit",
	}, "\n")+"\n")
	require.NoError(t, err)

	assert.Contains(t, out, "Status: registered")
	assert.Contains(t, out, "✗ Invalid username or password")
	assert.Contains(t, out, "✓ Logged in as teacher")
	assert.Contains(t, out, "✓ Message sent to Room A - 10.0.0.5")
	assert.Contains(t, out, "re-enables message receiving in 10 seconds")

	require.Len(t, h.sender.sent, 1)
	assert.Equal(t, dispatch.Payload{Name: "Alice", Message: "hello class"}, h.sender.sent[0])
	assert.Equal(t, "10.0.0.5", h.sender.to[0])

	assert.Equal(t, []string{"Alice"}, h.svc.CurrentNames())
	assert.Equal(t, []string{"Room A - 10.0.0.5"}, h.svc.CurrentEndpoints())
}

func TestShell_SendFailureLeavesCaches(t *testing.T) {
	h := newHarness(t, &dispatch.NetworkError{Address: "10.0.0.5:11224", Err: errors.New("connection refused")})
	require.NoError(t, h.svc.Register(context.Background(), "teacher", "secret"))

	out, err := h.run(t, "login\nteacher\nsecret\ntarget Room A - 10.0.0.5\nsend\nsend hi\n")
	require.NoError(t, err)

	// Пустое имя проверяется до отправки
	assert.Contains(t, out, "✗ Required: name, message")

	// Имя не задано, поэтому отправки тоже не было
	assert.Empty(t, h.sender.sent)
	assert.Empty(t, h.svc.CurrentEndpoints())

	out, err = h.run(t, "login\nteacher\nsecret\ntarget Room A - 10.0.0.5\nname Bob\nsend hi\n")
	require.NoError(t, err)
	assert.Contains(t, out, "✗ Send failed")
	assert.Contains(t, out, "connection refused")
	assert.Empty(t, h.svc.CurrentEndpoints())
	assert.Equal(t, 0, h.mem.Saves(storage.KindEndpoints))
}

func TestShell_DefaultsToFirstSavedEntries(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	require.NoError(t, h.svc.Register(ctx, "teacher", "secret"))
	require.NoError(t, h.svc.ConfirmName(ctx, "Bob"))
	require.NoError(t, h.svc.ConfirmName(ctx, "Carol"))
	_, err := h.svc.ConfirmEndpoint(ctx, "Lab - 10.0.0.7")
	require.NoError(t, err)

	out, err := h.run(t, "login\nteacher\nsecret\nnames\nname 2\nsend hi\nstatus\nquit\n")
	require.NoError(t, err)

	assert.Contains(t, out, "Name: Bob | Endpoint: Lab - 10.0.0.7")
	assert.Contains(t, out, "  2) Carol")
	assert.Contains(t, out, "Name: Carol | Endpoint: Lab - 10.0.0.7")
	assert.Contains(t, out, "User:     teacher")

	require.Len(t, h.sender.sent, 1)
	assert.Equal(t, "Carol", h.sender.sent[0].Name)
	assert.Equal(t, "10.0.0.7", h.sender.to[0])
}

func TestShell_EndpointFormatError(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.svc.Register(context.Background(), "teacher", "secret"))

	out, err := h.run(t, "login\nteacher\nsecret\nendpoint garbage\nendpoint Room B-10.0.0.6\nendpoints\nquit\n")
	require.NoError(t, err)

	assert.Contains(t, out, "✗ Invalid endpoint format")
	assert.Contains(t, out, "Name: (not set) | Endpoint: Room B - 10.0.0.6")
	assert.Contains(t, out, "  1) Room B - 10.0.0.6")
}

func TestShell_Register(t *testing.T) {
	h := newHarness(t, nil)

	out, err := h.run(t, "register\n\n\nregister\nalice\npw\nregister\ny\nalice\nother\nquit\n")
	require.NoError(t, err)

	assert.Contains(t, out, "Status: not registered")
	assert.Contains(t, out, "✗ Username and password cannot be empty")
	assert.Contains(t, out, "✓ Registration successful")
	assert.Contains(t, out, "✗ Username already exists")
	assert.True(t, h.svc.Authenticate(context.Background(), "alice", "pw"))
}

func TestShell_RegisterDeclined(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.svc.Register(context.Background(), "teacher", "secret"))

	out, err := h.run(t, "register\nn\n")
	assert.ErrorIs(t, err, ErrDeclined)
	assert.Contains(t, out, "already registered")
}

func TestShell_InputEndsDuringLogin(t *testing.T) {
	h := newHarness(t, nil)
	_, err := h.run(t, "")
	assert.NoError(t, err)
}

func TestShell_UnknownCommands(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.svc.Register(context.Background(), "teacher", "secret"))

	out, err := h.run(t, "dance\nlogin\nteacher\nsecret\nfly\nhelp\nquit\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Unknown command: dance")
	assert.Contains(t, out, "Unknown command: fly")
	assert.Contains(t, out, "=== Commands ===")
}

func TestPick(t *testing.T) {
	items := []string{"a", "b"}

	got, ok := pick(items, "2")
	assert.True(t, ok)
	assert.Equal(t, "b", got)

	for _, arg := range []string{"0", "3", "-1", "x", ""} {
		_, ok := pick(items, arg)
		assert.False(t, ok, arg)
	}
}
