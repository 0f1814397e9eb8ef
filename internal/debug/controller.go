package debug

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/adamchandra/ensime/internal/actor"
	"github.com/adamchandra/ensime/internal/jdwp"
)

// Controller is the debug actor: a single-threaded mailbox owning at most
// one target VM. Its VM handle is the one deliberately shared mutable
// object in the system (spec.md §5), guarded by connMu because events
// arrive from the JDWP connection's own reader goroutine while RPC
// handlers run on the actor's mailbox goroutine.
type Controller struct {
	mailbox *actor.Mailbox
	log     *slog.Logger
	events  chan any

	state State

	connMu sync.Mutex
	conn   *jdwp.Conn
	vm     *jdwp.SpawnedVM // non-nil only when this VM was launched, not attached

	breakpoints *breakpointSet
	sourceMap   *sourceMap
	pins        *pinTable

	classPrepareReq jdwp.RequestID
	exceptionReq    jdwp.RequestID
	threadStartReq  jdwp.RequestID
	threadDeathReq  jdwp.RequestID
}

// New constructs a Controller with no VM attached.
func New(log *slog.Logger) *Controller {
	return &Controller{
		mailbox:     actor.NewMailbox(64),
		log:         log,
		events:      make(chan any, 32),
		state:       StateDisconnected,
		breakpoints: newBreakpointSet(),
		sourceMap:   newSourceMap(),
		pins:        newPinTable(),
	}
}

// Run starts the actor's mailbox loop; call in its own goroutine.
func (c *Controller) Run(ctx context.Context) { c.mailbox.Run(ctx) }

// Events returns the channel the Project router drains for asynchronous
// debug events.
func (c *Controller) Events() <-chan any { return c.events }

func (c *Controller) emit(ev any) {
	select {
	case c.events <- ev:
	default:
		c.log.Warn("debug event channel full, dropping", "event", ev)
	}
}

// withConn runs fn with the current connection under connMu, returning an
// error if no VM is attached.
func (c *Controller) withConn(fn func(*jdwp.Conn) error) error {
	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()
	if conn == nil {
		return fmt.Errorf("no target VM connected")
	}
	return fn(conn)
}

// Start launches commandLine as the target VM and begins the session.
func (c *Controller) Start(ctx context.Context, commandLine []string) error {
	result := make(chan error, 1)
	c.mailbox.Post(ctx, func() {
		result <- c.doStart(ctx, commandLine)
	})
	return <-result
}

func (c *Controller) doStart(ctx context.Context, commandLine []string) error {
	c.state = StateConnecting
	spawned, err := jdwp.Start(ctx, commandLine)
	if err != nil {
		c.state = StateDisconnected
		return err
	}
	c.connMu.Lock()
	c.conn = spawned.Conn
	c.vm = spawned
	c.connMu.Unlock()
	c.onConnected(ctx, spawned.Conn)
	return nil
}

// Attach connects to an already-running VM.
func (c *Controller) Attach(ctx context.Context, host string, port int) error {
	result := make(chan error, 1)
	c.mailbox.Post(ctx, func() {
		result <- c.doAttach(ctx, host, port)
	})
	return <-result
}

func (c *Controller) doAttach(ctx context.Context, host string, port int) error {
	c.state = StateConnecting
	conn, err := jdwp.Attach(ctx, host, port)
	if err != nil {
		c.state = StateDisconnected
		return err
	}
	c.connMu.Lock()
	c.conn = conn
	c.vm = nil
	c.connMu.Unlock()
	c.onConnected(ctx, conn)
	return nil
}

// onConnected installs the event pump and blanket event requests, and
// flips to Running. Called from the actor's own goroutine (doStart/
// doAttach run inside a mailbox.Post closure), so it may touch actor state
// directly.
func (c *Controller) onConnected(ctx context.Context, conn *jdwp.Conn) {
	c.state = StateRunning
	if id, err := conn.SetClassPrepareRequest(ctx); err == nil {
		c.classPrepareReq = id
	}
	if id, err := conn.SetExceptionRequest(ctx); err == nil {
		c.exceptionReq = id
	}
	if start, death, err := conn.SetThreadLifecycleRequests(ctx); err == nil {
		c.threadStartReq, c.threadDeathReq = start, death
	}
	go c.pumpEvents(ctx, conn)
}

// Disconnect tears down the current VM session: active breakpoints
// migrate back to pending so a subsequent start/attach re-installs them.
func (c *Controller) Disconnect(ctx context.Context) error {
	result := make(chan error, 1)
	c.mailbox.Post(ctx, func() {
		result <- c.doDisconnect(ctx)
	})
	return <-result
}

func (c *Controller) doDisconnect(ctx context.Context) error {
	c.connMu.Lock()
	conn := c.conn
	vm := c.vm
	c.conn = nil
	c.vm = nil
	c.connMu.Unlock()

	if conn != nil {
		_ = conn.Dispose(ctx)
		conn.Close()
	}
	if vm != nil && vm.Process != nil && vm.Process.Process != nil {
		_ = vm.Process.Process.Kill()
	}

	c.breakpoints.migrateActiveToPending()
	c.sourceMap.Reset()
	c.pins.Clear()
	c.state = StateDisconnected
	return nil
}

// State returns the controller's current lifecycle state.
func (c *Controller) State() State { return c.state }
