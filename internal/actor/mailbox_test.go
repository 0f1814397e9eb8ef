package actor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMailboxRunsInPostOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewMailbox(8)
	go m.Run(ctx)

	var order []int
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		i := i
		m.Post(ctx, func() {
			order = append(order, i)
			if i == 4 {
				close(done)
			}
		})
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("mailbox did not drain in time")
	}
	require.Equal(t, []int{0, 1, 2, 3, 4}, order, "a single mailbox goroutine must preserve post order")
}

func TestMailboxPostUnblocksOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewMailbox(1)

	// Fill the buffer, then cancel before Run ever drains it: the second
	// Post must not block forever.
	m.Post(context.Background(), func() {})
	cancel()

	done := make(chan struct{})
	go func() {
		m.Post(ctx, func() {})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Post did not respect context cancellation")
	}
}

func TestMailboxRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewMailbox(1)

	runDone := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(runDone)
	}()
	cancel()

	select {
	case <-runDone:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}
