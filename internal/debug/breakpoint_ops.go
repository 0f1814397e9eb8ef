package debug

import (
	"context"

	"github.com/adamchandra/ensime/internal/jdwp"
)

// SetBreakpoint implements spec.md §4.4's resolution algorithm: look up
// loaded classes matching the file's basename, ask for locations of the
// line in every method, install a breakpoint at each, and fall back to
// pending when nothing resolves yet. Either way the RPC itself succeeds —
// "pending" is not an error.
func (c *Controller) SetBreakpoint(ctx context.Context, file string, line int) error {
	result := make(chan error, 1)
	c.mailbox.Post(ctx, func() {
		result <- c.doSetBreakpoint(ctx, file, line)
	})
	return <-result
}

func (c *Controller) doSetBreakpoint(ctx context.Context, file string, line int) error {
	pos := SourcePosition{File: file, Line: line}
	return c.withConn(func(conn *jdwp.Conn) error {
		return c.installOrPend(ctx, conn, pos)
	})
}

func (c *Controller) installOrPend(ctx context.Context, conn *jdwp.Conn, pos SourcePosition) error {
	classes := c.sourceMap.ClassesFor(basenameOf(pos.File))
	locs, err := resolveLocations(ctx, conn, classes, pos.Line)
	if err != nil {
		return err
	}
	if len(locs) == 0 {
		c.breakpoints.markPending(pos)
		return nil
	}

	var ids []jdwp.RequestID
	for _, loc := range locs {
		id, err := conn.SetBreakpoint(ctx, loc)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		c.breakpoints.markPending(pos)
		return nil
	}
	c.breakpoints.markActive(pos, &installedBreakpoint{requestIDs: ids})
	return nil
}

// ClearBreakpoint removes a breakpoint whether it is currently active or
// pending; the final state always reflects the last-arrived RPC in
// mailbox order (spec.md §9's Open Question), since this runs on the
// actor's own goroutine like every other request.
func (c *Controller) ClearBreakpoint(ctx context.Context, file string, line int) error {
	result := make(chan error, 1)
	c.mailbox.Post(ctx, func() {
		result <- c.doClearBreakpoint(ctx, file, line)
	})
	return <-result
}

func (c *Controller) doClearBreakpoint(ctx context.Context, file string, line int) error {
	pos := SourcePosition{File: file, Line: line}
	if installed, ok := c.breakpoints.takeActive(pos); ok {
		return c.withConn(func(conn *jdwp.Conn) error {
			for _, id := range installed.requestIDs {
				_ = conn.ClearEvent(ctx, jdwp.EventBreakpoint, id)
			}
			return nil
		})
	}
	c.breakpoints.removePending(pos)
	return nil
}

// ClearAllBreakpoints removes every active and pending breakpoint.
func (c *Controller) ClearAllBreakpoints(ctx context.Context) error {
	result := make(chan error, 1)
	c.mailbox.Post(ctx, func() {
		result <- c.withConn(func(conn *jdwp.Conn) error {
			err := conn.ClearAllBreakpoints(ctx)
			c.breakpoints.reset()
			return err
		})
	})
	return <-result
}

// retryPending re-attempts every pending breakpoint for a basename,
// called after a ClassPrepareEvent registers the new class.
func (c *Controller) retryPending(ctx context.Context, conn *jdwp.Conn, sourceFile string) {
	basename := basenameOf(sourceFile)
	for _, pos := range c.breakpoints.pendingForBasename(basename) {
		_ = c.installOrPend(ctx, conn, pos)
	}
}
