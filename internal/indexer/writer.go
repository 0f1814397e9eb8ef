package indexer

import "context"

// writeEvent is either an insert of a freshly-scanned symbol, or the
// walk-completion signal the caller blocks on.
type writeEvent struct {
	insert *SymbolResult
	stop   chan struct{} // non-nil on the StopEvent
}

// writerActor is the producer/consumer writer pipeline's consumer side: a
// dedicated goroutine draining a bounded mailbox sequentially while the
// classpath walker produces as fast as disk permits.
type writerActor struct {
	mailbox chan writeEvent
	store   *Store
}

func newWriterActor(store *Store, capacity int) *writerActor {
	return &writerActor{
		mailbox: make(chan writeEvent, capacity),
		store:   store,
	}
}

// run drains the mailbox until ctx is cancelled or a StopEvent arrives.
func (w *writerActor) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-w.mailbox:
			if ev.stop != nil {
				close(ev.stop)
				return
			}
			if ev.insert != nil {
				_ = w.store.Insert(*ev.insert)
			}
		}
	}
}

// Enqueue posts a scanned symbol onto the writer's mailbox, blocking if it
// is full (the walker runs as fast as disk permits; the writer drains
// sequentially).
func (w *writerActor) Enqueue(ctx context.Context, r SymbolResult) {
	select {
	case w.mailbox <- writeEvent{insert: &r}:
	case <-ctx.Done():
	}
}

// Stop posts the walk-completion signal and blocks until the writer
// acknowledges it by draining everything enqueued before this call.
func (w *writerActor) Stop(ctx context.Context) {
	done := make(chan struct{})
	select {
	case w.mailbox <- writeEvent{stop: done}:
	case <-ctx.Done():
		return
	}
	select {
	case <-done:
	case <-ctx.Done():
	}
}
