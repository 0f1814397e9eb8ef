// Package actor provides the single-threaded-mailbox primitive shared by
// the Project, Analyzer, Indexer and Debug controller components: each
// wraps a Mailbox and runs its own Run loop, processing messages
// sequentially so no cross-component interaction needs its own locking.
package actor

import "context"

// Mailbox is a bounded, ordered FIFO of closures. Posting a function onto
// it and having the actor's loop invoke closures one at a time is how the
// teacher's message bus (internal/bus.MessageBus) models independent
// per-channel handlers, generalized here to an arbitrary typed message.
type Mailbox struct {
	ch chan func()
}

// NewMailbox creates a mailbox with the given bounded capacity.
func NewMailbox(capacity int) *Mailbox {
	return &Mailbox{ch: make(chan func(), capacity)}
}

// Post enqueues a unit of work, blocking if the mailbox is full.
func (m *Mailbox) Post(ctx context.Context, fn func()) {
	select {
	case m.ch <- fn:
	case <-ctx.Done():
	}
}

// Run drains the mailbox sequentially until ctx is cancelled. This is the
// actor's single goroutine: every message it ever processes runs here, and
// nowhere else, which is what makes call-id replies impossible to reorder.
func (m *Mailbox) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-m.ch:
			fn()
		}
	}
}
