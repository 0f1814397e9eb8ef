package jdwp

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

const handshakeMagic = "JDWP-Handshake"

// replyError is a non-zero JDWP error code returned in a reply packet.
type replyError struct {
	Code uint16
}

func (e *replyError) Error() string { return fmt.Sprintf("jdwp: error code %d", e.Code) }

// Conn is a live JDWP connection to a target VM: one writer, one reader
// goroutine correlating replies by request id (the same call-id
// correlation shape the RPC fabric uses on the client-facing socket), and
// an event queue for Composite event packets.
type Conn struct {
	conn    net.Conn
	nextID  uint32
	ids     IDSizes

	mu      sync.Mutex
	pending map[uint32]chan packet

	events chan CompositeEvent

	closeOnce sync.Once
	closed    chan struct{}
}

// Dial performs the JDWP handshake over an already-connected socket
// (either freshly net.Dial'ed for attach, or the loopback side of a
// spawned VM for start) and begins the reader loop.
func Dial(ctx context.Context, conn net.Conn) (*Conn, error) {
	if err := handshake(conn); err != nil {
		conn.Close()
		return nil, err
	}
	c := &Conn{
		conn:    conn,
		ids:     defaultIDSizes,
		pending: make(map[uint32]chan packet),
		events:  make(chan CompositeEvent, 64),
		closed:  make(chan struct{}),
	}
	go c.readLoop()

	if sizes, err := c.idSizes(ctx); err == nil {
		c.ids = sizes
	}
	return c, nil
}

func handshake(conn net.Conn) error {
	if _, err := conn.Write([]byte(handshakeMagic)); err != nil {
		return err
	}
	buf := make([]byte, len(handshakeMagic))
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	defer conn.SetReadDeadline(time.Time{})
	n := 0
	for n < len(buf) {
		m, err := conn.Read(buf[n:])
		if err != nil {
			return err
		}
		n += m
	}
	if !bytes.Equal(buf, []byte(handshakeMagic)) {
		return fmt.Errorf("jdwp: bad handshake reply %q", buf)
	}
	return nil
}

// Events returns the channel the debug controller's event pump drains.
func (c *Conn) Events() <-chan CompositeEvent { return c.events }

// Close tears down the connection; idempotent.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return c.conn.Close()
}

func (c *Conn) readLoop() {
	defer close(c.events)
	r := bufio.NewReader(c.conn)
	for {
		p, err := readPacket(r)
		if err != nil {
			c.failAllPending(err)
			return
		}
		if p.isReply() {
			c.deliverReply(p)
			continue
		}
		if p.CommandSet == csEvent && p.Command == cmdEventComposite {
			if ev, err := parseComposite(p.Data, c.ids); err == nil {
				select {
				case c.events <- ev:
				case <-c.closed:
					return
				}
			}
			continue
		}
		// Unrecognized inbound command packets (e.g. a VM->debugger
		// request) are not used by this controller; drop silently.
	}
}

func (c *Conn) deliverReply(p packet) {
	c.mu.Lock()
	ch, ok := c.pending[p.ID]
	if ok {
		delete(c.pending, p.ID)
	}
	c.mu.Unlock()
	if ok {
		ch <- p
	}
}

func (c *Conn) failAllPending(err error) {
	c.mu.Lock()
	pending := c.pending
	c.pending = make(map[uint32]chan packet)
	c.mu.Unlock()
	for _, ch := range pending {
		close(ch)
	}
}

// command sends a command packet and blocks for its matching reply.
func (c *Conn) command(ctx context.Context, commandSet, command byte, data []byte) (*decoder, error) {
	id := atomic.AddUint32(&c.nextID, 1)
	replyCh := make(chan packet, 1)

	c.mu.Lock()
	c.pending[id] = replyCh
	c.mu.Unlock()

	if err := writeCommandPacket(c.conn, id, commandSet, command, data); err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return nil, err
	}

	select {
	case p, ok := <-replyCh:
		if !ok {
			return nil, fmt.Errorf("jdwp: connection closed waiting for reply")
		}
		if p.ErrorCode != 0 {
			return nil, &replyError{Code: p.ErrorCode}
		}
		return newDecoder(p.Data, c.ids), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.closed:
		return nil, fmt.Errorf("jdwp: connection closed")
	}
}

func (c *Conn) enc() *encoder { return newEncoder(c.ids) }

func (c *Conn) idSizes(ctx context.Context) (IDSizes, error) {
	d, err := c.command(ctx, csVirtualMachine, cmdVMIDSizes, nil)
	if err != nil {
		return IDSizes{}, err
	}
	fieldSz, _ := d.u32()
	methodSz, _ := d.u32()
	objSz, _ := d.u32()
	refSz, _ := d.u32()
	frameSz, _ := d.u32()
	return IDSizes{
		FieldIDSize:         int(fieldSz),
		MethodIDSize:        int(methodSz),
		ObjectIDSize:        int(objSz),
		ReferenceTypeIDSize: int(refSz),
		FrameIDSize:         int(frameSz),
	}, nil
}
