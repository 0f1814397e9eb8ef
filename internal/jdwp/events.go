package jdwp

import "context"

// modKind tags each EventRequest.Set modifier.
const (
	modLocationOnly byte = 7
	modCount        byte = 1
	modExceptionOnly byte = 8
	modClassMatch   byte = 5
	modStep         byte = 10
	modThreadOnly   byte = 3
)

// RequestID identifies an installed event request, returned by Set and
// used by Clear.
type RequestID int32

// SetBreakpoint installs a Breakpoint event request at loc, suspending
// every thread when it fires (spec.md's SUSPEND_ALL policy).
func (c *Conn) SetBreakpoint(ctx context.Context, loc Location) (RequestID, error) {
	e := c.enc()
	e.u8(byte(EventBreakpoint))
	e.u8(byte(SuspendAll))
	e.u32(1) // one modifier
	e.u8(modLocationOnly)
	e.location(loc)
	return c.setRequest(ctx, e)
}

// SetExceptionRequest installs a blanket Exception event request (caught
// and uncaught), used so the debug controller is told whenever the target
// throws.
func (c *Conn) SetExceptionRequest(ctx context.Context) (RequestID, error) {
	e := c.enc()
	e.u8(byte(EventException))
	e.u8(byte(SuspendAll))
	e.u32(1)
	e.u8(modExceptionOnly)
	e.refTypeID(0) // refType 0 = any
	e.u8(1)        // caught
	e.u8(1)        // uncaught
	return c.setRequest(ctx, e)
}

// SetClassPrepareRequest installs a blanket ClassPrepare request so the
// controller learns about every class as it loads, to retry pending
// breakpoints.
func (c *Conn) SetClassPrepareRequest(ctx context.Context) (RequestID, error) {
	e := c.enc()
	e.u8(byte(EventClassPrepare))
	e.u8(byte(SuspendNone))
	e.u32(0)
	return c.setRequest(ctx, e)
}

// SetThreadLifecycleRequests installs ThreadStart/ThreadDeath requests.
func (c *Conn) SetThreadLifecycleRequests(ctx context.Context) (start, death RequestID, err error) {
	start, err = c.setBareRequest(ctx, EventThreadStart)
	if err != nil {
		return
	}
	death, err = c.setBareRequest(ctx, EventThreadDeath)
	return
}

func (c *Conn) setBareRequest(ctx context.Context, kind EventKind) (RequestID, error) {
	e := c.enc()
	e.u8(byte(kind))
	e.u8(byte(SuspendNone))
	e.u32(0)
	return c.setRequest(ctx, e)
}

// SetStepRequest installs a single-step request with a count filter of 1
// (spec.md §4.4: at most one outstanding step request across all threads).
func (c *Conn) SetStepRequest(ctx context.Context, thread ThreadID, depth int32) (RequestID, error) {
	e := c.enc()
	e.u8(byte(EventSingleStep))
	e.u8(byte(SuspendAll))
	e.u32(2) // step modifier + count modifier
	e.u8(modStep)
	e.objectID(thread)
	e.u32(StepSizeLine)
	e.u32(uint32(depth))
	e.u8(modCount)
	e.u32(1)
	return c.setRequest(ctx, e)
}

func (c *Conn) setRequest(ctx context.Context, e *encoder) (RequestID, error) {
	d, err := c.command(ctx, csEventRequest, cmdEventRequestSet, e.bytes())
	if err != nil {
		return 0, err
	}
	id, err := d.u32()
	return RequestID(id), err
}

// ClearEvent removes a single installed request.
func (c *Conn) ClearEvent(ctx context.Context, kind EventKind, id RequestID) error {
	e := c.enc()
	e.u8(byte(kind))
	e.u32(uint32(id))
	_, err := c.command(ctx, csEventRequest, cmdEventRequestClear, e.bytes())
	return err
}

// ClearAllBreakpoints removes every installed Breakpoint request.
func (c *Conn) ClearAllBreakpoints(ctx context.Context) error {
	e := c.enc()
	e.u8(byte(EventBreakpoint))
	_, err := c.command(ctx, csEventRequest, cmdEventRequestClearAll, e.bytes())
	return err
}

// ClearAllSteps removes every installed step request: the platform API
// disallows more than one concurrent request per thread, so stepping
// always clears the whole kind before installing a fresh one.
func (c *Conn) ClearAllSteps(ctx context.Context) error {
	e := c.enc()
	e.u8(byte(EventSingleStep))
	_, err := c.command(ctx, csEventRequest, cmdEventRequestClearAll, e.bytes())
	return err
}

// EventItem is one event inside a Composite packet.
type EventItem struct {
	Kind       EventKind
	RequestID  RequestID
	Thread     ThreadID
	Location   Location
	Exception  ObjectID
	CatchLoc   *Location
	ClassID    ReferenceTypeID
	ClassSig   string
	ClassStatus int32
}

// CompositeEvent is one Event.Composite packet: a suspend policy plus the
// batch of events that fired together (JDWP batches simultaneous events,
// e.g. a breakpoint and a class-unload, into one packet).
type CompositeEvent struct {
	SuspendPolicy SuspendPolicy
	Events        []EventItem
}

func parseComposite(data []byte, ids IDSizes) (CompositeEvent, error) {
	d := newDecoder(data, ids)
	policy, err := d.u8()
	if err != nil {
		return CompositeEvent{}, err
	}
	count, err := d.u32()
	if err != nil {
		return CompositeEvent{}, err
	}
	ce := CompositeEvent{SuspendPolicy: SuspendPolicy(policy)}
	for i := uint32(0); i < count; i++ {
		kindByte, err := d.u8()
		if err != nil {
			return ce, err
		}
		kind := EventKind(kindByte)
		item := EventItem{Kind: kind}

		switch kind {
		case EventVMStart, EventVMDeath:
			if _, err := d.u32(); err != nil { // requestID
				return ce, err
			}
			if kind == EventVMStart {
				if _, err := d.objectID(); err != nil { // thread
					return ce, err
				}
			}
		case EventBreakpoint, EventSingleStep:
			reqID, err := d.u32()
			if err != nil {
				return ce, err
			}
			thread, err := d.objectID()
			if err != nil {
				return ce, err
			}
			loc, err := d.location()
			if err != nil {
				return ce, err
			}
			item.RequestID = RequestID(reqID)
			item.Thread = thread
			item.Location = loc
		case EventException:
			reqID, err := d.u32()
			if err != nil {
				return ce, err
			}
			thread, err := d.objectID()
			if err != nil {
				return ce, err
			}
			loc, err := d.location()
			if err != nil {
				return ce, err
			}
			excTag, err := d.u8()
			if err != nil {
				return ce, err
			}
			_ = excTag
			exc, err := d.objectID()
			if err != nil {
				return ce, err
			}
			catchTag, err := d.u8()
			if err != nil {
				return ce, err
			}
			catchClass, err := d.refTypeID()
			if err != nil {
				return ce, err
			}
			catchMethod, err := d.methodID()
			if err != nil {
				return ce, err
			}
			catchIdx, err := d.i64()
			if err != nil {
				return ce, err
			}
			item.RequestID = RequestID(reqID)
			item.Thread = thread
			item.Location = loc
			item.Exception = exc
			if catchClass != 0 || catchMethod != 0 {
				cl := Location{TypeTag: catchTag, ClassID: catchClass, MethodID: catchMethod, CodeIndex: catchIdx}
				item.CatchLoc = &cl
			}
		case EventThreadStart, EventThreadDeath:
			reqID, err := d.u32()
			if err != nil {
				return ce, err
			}
			thread, err := d.objectID()
			if err != nil {
				return ce, err
			}
			item.RequestID = RequestID(reqID)
			item.Thread = thread
		case EventClassPrepare:
			reqID, err := d.u32()
			if err != nil {
				return ce, err
			}
			thread, err := d.objectID()
			if err != nil {
				return ce, err
			}
			tag, err := d.u8()
			if err != nil {
				return ce, err
			}
			classID, err := d.refTypeID()
			if err != nil {
				return ce, err
			}
			sig, err := d.str()
			if err != nil {
				return ce, err
			}
			status, err := d.u32()
			if err != nil {
				return ce, err
			}
			item.RequestID = RequestID(reqID)
			item.Thread = thread
			item.ClassID = classID
			item.ClassSig = sig
			item.ClassStatus = int32(status)
			_ = tag
		default:
			// Unhandled event kinds (e.g. MonitorContendedEnter) are not
			// requested by this controller and should not appear.
		}
		ce.Events = append(ce.Events, item)
	}
	return ce, nil
}
