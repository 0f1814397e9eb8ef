package debug

import (
	"context"

	"github.com/adamchandra/ensime/internal/jdwp"
)

// pumpEvents is the event-pump thread spec.md §4.4/§5 describes: it never
// touches the controller's maps directly except through the dedicated
// sourceMap/breakpoints/pins helpers (each independently synchronized),
// and it never blocks the actor's own mailbox goroutine. Translated
// results are posted back onto the mailbox so emission order per source
// is preserved.
func (c *Controller) pumpEvents(ctx context.Context, conn *jdwp.Conn) {
	for composite := range conn.Events() {
		for _, item := range composite.Events {
			c.translateEvent(ctx, conn, item)
		}
	}
	// The events channel only closes when the connection's reader loop
	// exits, i.e. the VM died or the socket dropped.
	c.mailbox.Post(ctx, func() {
		if c.state == StateDisconnected {
			return // already handled via an explicit Disconnect call
		}
		_ = c.doDisconnect(ctx)
		c.emit(VMDisconnectEvent{})
	})
}

func (c *Controller) translateEvent(ctx context.Context, conn *jdwp.Conn, item jdwp.EventItem) {
	switch item.Kind {
	case jdwp.EventVMStart:
		c.mailbox.Post(ctx, func() {
			c.initSourceMap(ctx, conn)
			c.emit(VMStartEvent{})
		})
	case jdwp.EventVMDeath:
		c.mailbox.Post(ctx, func() {
			_ = c.doDisconnect(ctx)
			c.emit(VMDisconnectEvent{})
		})
	case jdwp.EventBreakpoint:
		c.mailbox.Post(ctx, func() { c.handleBreak(ctx, conn, item) })
	case jdwp.EventSingleStep:
		c.mailbox.Post(ctx, func() { c.handleStep(ctx, conn, item) })
	case jdwp.EventException:
		c.mailbox.Post(ctx, func() { c.handleException(ctx, conn, item) })
	case jdwp.EventThreadStart:
		c.mailbox.Post(ctx, func() { c.emit(ThreadStartEvent{ThreadID: int64(item.Thread)}) })
	case jdwp.EventThreadDeath:
		c.mailbox.Post(ctx, func() { c.emit(ThreadDeathEvent{ThreadID: int64(item.Thread)}) })
	case jdwp.EventClassPrepare:
		c.mailbox.Post(ctx, func() { c.handleClassPrepare(ctx, conn, item) })
	}
}

// initSourceMap indexes every currently loaded class by basename, the
// VMStart handler spec.md §4.4 describes.
func (c *Controller) initSourceMap(ctx context.Context, conn *jdwp.Conn) {
	classes, err := conn.AllClasses(ctx)
	if err != nil {
		return
	}
	for _, cl := range classes {
		src, err := conn.SourceFile(ctx, cl.ID)
		if err != nil || src == "" {
			continue
		}
		c.sourceMap.Add(src, cl.ID)
	}
}

func (c *Controller) handleClassPrepare(ctx context.Context, conn *jdwp.Conn, item jdwp.EventItem) {
	src, err := conn.SourceFile(ctx, item.ClassID)
	if err != nil || src == "" {
		return
	}
	c.sourceMap.Add(src, item.ClassID)
	c.retryPending(ctx, conn, src)
}

func (c *Controller) handleBreak(ctx context.Context, conn *jdwp.Conn, item jdwp.EventItem) {
	pos, threadName, ok := c.resolveEventLocation(ctx, conn, item.Location, item.Thread)
	if !ok {
		c.log.Warn("breakpoint event at unresolvable location")
		return
	}
	c.emit(BreakEvent{ThreadID: int64(item.Thread), ThreadName: threadName, Pos: pos})
}

func (c *Controller) handleStep(ctx context.Context, conn *jdwp.Conn, item jdwp.EventItem) {
	pos, threadName, ok := c.resolveEventLocation(ctx, conn, item.Location, item.Thread)
	if !ok {
		c.log.Warn("step event at unresolvable location")
		return
	}
	c.emit(StepEvent{ThreadID: int64(item.Thread), ThreadName: threadName, Pos: pos})
}

func (c *Controller) handleException(ctx context.Context, conn *jdwp.Conn, item jdwp.EventItem) {
	threadName, _ := conn.ThreadName(ctx, item.Thread)
	c.pins.Pin(ctx, conn, jdwp.Value{Tag: jdwp.TagObject, Object: item.Exception})

	var catchPos *SourcePosition
	if item.CatchLoc != nil {
		if pos, _, ok := c.resolveEventLocation(ctx, conn, *item.CatchLoc, item.Thread); ok {
			catchPos = &pos
		}
	}
	c.emit(ExceptionEvent{
		ExceptionID: int64(item.Exception),
		ThreadID:    int64(item.Thread),
		ThreadName:  threadName,
		CatchPos:    catchPos,
	})
}

// resolveEventLocation maps a JDWP location back to a canonical source
// position by looking up the declaring class's source file name and the
// line containing the code index.
func (c *Controller) resolveEventLocation(ctx context.Context, conn *jdwp.Conn, loc jdwp.Location, thread jdwp.ThreadID) (SourcePosition, string, bool) {
	src, err := conn.SourceFile(ctx, loc.ClassID)
	if err != nil || src == "" {
		return SourcePosition{}, "", false
	}
	_, _, lines, err := conn.LineTable(ctx, loc.ClassID, loc.MethodID)
	if err != nil {
		return SourcePosition{}, "", false
	}
	line := lineForCodeIndex(lines, loc.CodeIndex)
	if line == 0 {
		return SourcePosition{}, "", false
	}
	name, _ := conn.ThreadName(ctx, thread)
	return SourcePosition{File: src, Line: line}, name, true
}

// lineForCodeIndex finds the line-table entry with the greatest code
// index not exceeding codeIndex — line tables are sorted by code index,
// and entries mark the start of a line's bytecode range.
func lineForCodeIndex(lines []jdwp.LineTableEntry, codeIndex int64) int {
	bestIdx := int64(-1)
	bestLine := int32(0)
	for _, e := range lines {
		if e.CodeIndex <= codeIndex && e.CodeIndex > bestIdx {
			bestIdx = e.CodeIndex
			bestLine = e.LineNumber
		}
	}
	return int(bestLine)
}
