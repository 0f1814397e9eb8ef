package project

import (
	"context"

	"github.com/adamchandra/ensime/internal/analyzer"
	"github.com/adamchandra/ensime/internal/debug"
	"github.com/adamchandra/ensime/internal/indexer"
	"github.com/adamchandra/ensime/internal/telemetry"
	"github.com/adamchandra/ensime/internal/wire"
)

// pumpEvents drains one component's event channel for as long as ctx is
// live, translating each event to its wire shape and forwarding it
// unsolicited. Each component gets its own pump so one source's events
// never wait behind another's (spec.md §5: events from one source retain
// emission order; across sources, no ordering guarantee).
func (r *Router) pumpEvents(ctx context.Context, events <-chan any, source string) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			_, span := r.tel.StartEvent(ctx, source)
			if v, ok := encodeEvent(ev); ok {
				r.sendAsyncEvent(v)
			} else {
				r.log.Debug("dropping unencodable event", "source", source, "event", ev)
			}
			telemetry.EndWithError(span, nil)
		}
	}
}

func encodeEvent(ev any) (wire.Value, bool) {
	switch e := ev.(type) {
	case indexer.ReadyEvent:
		return protocolEvent("indexer-ready"), true

	case analyzer.FullTypeCheckCompleteEvent:
		return protocolEvent("full-type-check-complete"), true
	case analyzer.AnalyzerReadyEvent:
		return protocolEvent("analyzer-ready"), true

	case debug.VMStartEvent:
		return protocolEvent("debug-vm-start"), true
	case debug.VMDisconnectEvent:
		return protocolEvent("debug-vm-disconnect"), true
	case debug.BreakEvent:
		return wire.List(
			wire.Keyword("debug-break"),
			wire.Int(e.ThreadID),
			wire.Str(e.ThreadName),
			encodeSourcePosition(e.Pos),
		), true
	case debug.StepEvent:
		return wire.List(
			wire.Keyword("debug-step"),
			wire.Int(e.ThreadID),
			wire.Str(e.ThreadName),
			encodeSourcePosition(e.Pos),
		), true
	case debug.ExceptionEvent:
		catch := wire.Nil
		if e.CatchPos != nil {
			catch = encodeSourcePosition(*e.CatchPos)
		}
		return wire.List(
			wire.Keyword("debug-exception"),
			wire.Int(e.ExceptionID),
			wire.Int(e.ThreadID),
			wire.Str(e.ThreadName),
			catch,
		), true
	case debug.ThreadStartEvent:
		return wire.List(wire.Keyword("debug-thread-start"), wire.Int(e.ThreadID)), true
	case debug.ThreadDeathEvent:
		return wire.List(wire.Keyword("debug-thread-death"), wire.Int(e.ThreadID)), true

	default:
		return wire.Value{}, false
	}
}

func protocolEvent(tag string) wire.Value {
	return wire.List(wire.Keyword(tag))
}

func encodeSourcePosition(p debug.SourcePosition) wire.Value {
	return wire.List(wire.Keyword("file"), wire.Str(p.File), wire.Keyword("line"), wire.Int(int64(p.Line)))
}
