// Package project implements the Project router: the central actor that
// owns the client socket, routes incoming RPCs to the Analyzer, Indexer and
// Debug controller by operation name, and multiplexes their asynchronous
// events back onto the wire (spec.md §4.5).
package project

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/adamchandra/ensime/internal/analyzer"
	"github.com/adamchandra/ensime/internal/debug"
	"github.com/adamchandra/ensime/internal/indexer"
	"github.com/adamchandra/ensime/internal/protocol"
	"github.com/adamchandra/ensime/internal/telemetry"
	"github.com/adamchandra/ensime/internal/wire"
)

// Handler answers one RPC form's arguments with either an ok wire.Value or
// an *protocol.AbortError; it never panics its way out of the router.
type Handler func(ctx context.Context, args []wire.Value) (wire.Value, error)

// Router is the Project actor that owns the client socket. Unlike Analyzer/
// Indexer/Debug it has no mailbox of its own: each owning component already
// serializes the requests routed to it through its own mailbox, so the
// router only needs to dispatch each inbound frame to the right one and
// serialize outgoing writes — the one shared mutable resource spec.md §5
// calls out for the socket writer.
type Router struct {
	log *slog.Logger

	// ClientID identifies this connection in logs and spans; it has no
	// wire-protocol meaning of its own.
	ClientID uuid.UUID

	conn     net.Conn
	writeMu  sync.Mutex
	handlers map[string]Handler
	tel      *telemetry.Provider

	Analyzer *analyzer.Analyzer
	Indexer  *indexer.Indexer
	Debug    *debug.Controller
}

// New constructs a Router bound to one already-accepted client connection.
// tel may be nil, in which case spans are skipped entirely.
func New(conn net.Conn, an *analyzer.Analyzer, ix *indexer.Indexer, dbg *debug.Controller, tel *telemetry.Provider, log *slog.Logger) *Router {
	id := uuid.New()
	r := &Router{
		log:      log.With("client", id),
		ClientID: id,
		conn:     conn,
		handlers: make(map[string]Handler),
		tel:      tel,
		Analyzer: an,
		Indexer:  ix,
		Debug:    dbg,
	}
	r.registerHandlers()
	return r
}

// Run starts the read loop plus the three event-forwarding pumps; it blocks
// until the connection closes or ctx is cancelled.
func (r *Router) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go r.pumpEvents(ctx, r.Analyzer.Events(), "analyzer")
	go r.pumpEvents(ctx, r.Indexer.Events(), "indexer")
	go r.pumpEvents(ctx, r.Debug.Events(), "debug")

	for {
		v, err := wire.ReadFrame(r.conn)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				r.log.Warn("client connection read failed", "error", err)
			}
			return
		}
		// Dispatched synchronously: no RPC reachable through the handler
		// table blocks longer than a single debuggee round-trip (Indexer's
		// multi-hour Initialize is invoked only from cmd/ensimed's startup
		// and config-reload paths, never through this table), so processing
		// one frame at a time here is what keeps frame arrival order equal
		// to mailbox enqueue order for every component (spec.md §9's
		// concurrent SetBreakpoint/ClearBreakpoint ordering requirement).
		r.dispatch(ctx, v)
	}
}

func (r *Router) dispatch(ctx context.Context, v wire.Value) {
	req, ok := protocol.ParseRequestFrame(v)
	if !ok {
		r.sendProtocolError(protocol.ErrMalformedRPC, "not a swank-rpc request frame")
		return
	}

	form, ok := req.Form.AsList()
	if !ok || len(form) == 0 {
		r.sendRPCError(protocol.ErrUnrecognizedForm, "empty or non-list form", req.CallID)
		return
	}
	op, ok := form[0].AsString()
	if !ok {
		r.sendRPCError(protocol.ErrUnrecognizedForm, "form head is not an operation name", req.CallID)
		return
	}

	handler, ok := r.handlers[op]
	if !ok {
		r.sendRPCError(protocol.ErrUnrecognizedRPC, "unrecognized operation "+op, req.CallID)
		return
	}

	ctx, span := r.tel.StartRPC(ctx, op)
	result, err := r.safeCall(ctx, handler, form[1:])
	telemetry.EndWithError(span, err)
	if err != nil {
		var abort *protocol.AbortError
		if errors.As(err, &abort) {
			r.sendRPCError(abort.Kind, abort.Detail, req.CallID)
			return
		}
		r.sendRPCError(protocol.ErrRPCException, err.Error(), req.CallID)
		return
	}
	r.sendRPCResult(result, req.CallID)
}

// safeCall recovers a panicking handler into an rpc-exception instead of
// taking the whole router down, since a single malformed request must never
// be fatal to the connection.
func (r *Router) safeCall(ctx context.Context, h Handler, args []wire.Value) (result wire.Value, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = protocol.Abort(protocol.ErrRPCException, "handler panic")
		}
	}()
	return h(ctx, args)
}

// sendRPCResult writes `(:return (:ok value) call-id)`.
func (r *Router) sendRPCResult(value wire.Value, callID protocol.CallID) {
	r.writeFrame(protocol.EncodeOKReply(value, callID))
}

// sendRPCError writes `(:return (:abort kind detail) call-id)`.
func (r *Router) sendRPCError(kind protocol.ErrorKind, detail string, callID protocol.CallID) {
	r.writeFrame(protocol.EncodeAbortReply(kind, detail, callID))
}

// sendProtocolError writes an unsolicited error frame with no call-id.
func (r *Router) sendProtocolError(kind protocol.ErrorKind, detail string) {
	r.writeFrame(protocol.EncodeEvent("protocol-error", wire.Int(int64(kind)), wire.Str(detail)))
}

// sendAsyncEvent writes an unsolicited event frame.
func (r *Router) sendAsyncEvent(v wire.Value) {
	r.writeFrame(v)
}

func (r *Router) writeFrame(v wire.Value) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	if err := wire.WriteFrame(r.conn, v); err != nil {
		r.log.Warn("client connection write failed", "error", err)
	}
}
