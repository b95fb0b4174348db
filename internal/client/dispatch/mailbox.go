package dispatch

// Mailbox is a Poster backed by a channel. The interaction loop receives
// from C and runs each function it gets.
type Mailbox struct {
	ch chan func()
}

// NewMailbox creates a mailbox buffering up to size callbacks
func NewMailbox(size int) *Mailbox {
	if size < 1 {
		size = 1
	}
	return &Mailbox{ch: make(chan func(), size)}
}

// Post queues fn for the loop
func (m *Mailbox) Post(fn func()) {
	m.ch <- fn
}

// C returns the channel the loop drains
func (m *Mailbox) C() <-chan func() {
	return m.ch
}
