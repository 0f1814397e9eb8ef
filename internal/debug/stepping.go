package debug

import (
	"context"

	"github.com/adamchandra/ensime/internal/jdwp"
)

// StepKind is the client-facing step direction.
type StepKind int

const (
	StepInto StepKind = iota
	StepOver
	StepOut
)

func (k StepKind) jdwpDepth() int32 {
	switch k {
	case StepOver:
		return jdwp.StepDepthOver
	case StepOut:
		return jdwp.StepDepthOut
	default:
		return jdwp.StepDepthInto
	}
}

// Step installs a step request and resumes the VM. Per spec.md §4.4, the
// platform debug API disallows more than one concurrent step request per
// thread; since at most one stepping operation is outstanding across all
// threads by UX contract, a blanket delete of every existing step request
// is always safe before installing the new one.
func (c *Controller) Step(ctx context.Context, threadID int64, kind StepKind) error {
	result := make(chan error, 1)
	c.mailbox.Post(ctx, func() {
		result <- c.withConn(func(conn *jdwp.Conn) error {
			if err := conn.ClearAllSteps(ctx); err != nil {
				return err
			}
			if _, err := conn.SetStepRequest(ctx, jdwp.ThreadID(threadID), kind.jdwpDepth()); err != nil {
				return err
			}
			return conn.Resume(ctx)
		})
	})
	return <-result
}

// Resume resumes every suspended thread.
func (c *Controller) Resume(ctx context.Context) error {
	result := make(chan error, 1)
	c.mailbox.Post(ctx, func() {
		result <- c.withConn(func(conn *jdwp.Conn) error { return conn.Resume(ctx) })
	})
	return <-result
}
