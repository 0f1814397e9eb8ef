package jdwp

import "context"

// FrameInfo is one entry of ThreadReference.Frames.
type FrameInfo struct {
	ID       FrameID
	Location Location
}

// Frames returns up to length frames of thread starting at startFrame (0
// is the current, innermost frame); length -1 means "to the end".
func (c *Conn) Frames(ctx context.Context, thread ThreadID, startFrame, length int32) ([]FrameInfo, error) {
	e := c.enc()
	e.objectID(thread)
	e.u32(uint32(startFrame))
	e.u32(uint32(length))
	d, err := c.command(ctx, csThreadReference, cmdThreadRefFrames, e.bytes())
	if err != nil {
		return nil, err
	}
	count, err := d.u32()
	if err != nil {
		return nil, err
	}
	out := make([]FrameInfo, 0, count)
	for i := uint32(0); i < count; i++ {
		id, err := d.frameID()
		if err != nil {
			return nil, err
		}
		loc, err := d.location()
		if err != nil {
			return nil, err
		}
		out = append(out, FrameInfo{ID: id, Location: loc})
	}
	return out, nil
}

// FrameCount returns the number of frames currently on thread's stack.
func (c *Conn) FrameCount(ctx context.Context, thread ThreadID) (int32, error) {
	e := c.enc()
	e.objectID(thread)
	d, err := c.command(ctx, csThreadReference, cmdThreadRefFrameCount, e.bytes())
	if err != nil {
		return 0, err
	}
	n, err := d.u32()
	return int32(n), err
}

// SlotValue is one requested (slot, type-tag) pair for StackFrame.GetValues.
type SlotValue struct {
	Slot int32
	Tag  byte
}

// GetFrameValues reads the requested local-variable slots of one stack
// frame.
func (c *Conn) GetFrameValues(ctx context.Context, thread ThreadID, frame FrameID, slots []SlotValue) ([]Value, error) {
	e := c.enc()
	e.objectID(thread)
	e.frameID(frame)
	e.u32(uint32(len(slots)))
	for _, s := range slots {
		e.u32(uint32(s.Slot))
		e.u8(s.Tag)
	}
	d, err := c.command(ctx, csStackFrame, cmdStackFrameGetValues, e.bytes())
	if err != nil {
		return nil, err
	}
	count, err := d.u32()
	if err != nil {
		return nil, err
	}
	out := make([]Value, 0, count)
	for i := uint32(0); i < count; i++ {
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// SetFrameValues mutates local-variable slots of one stack frame, the
// primitive SetValue(StackSlot(...)) uses: only stack-slot locations are
// mutable per spec.md §4.4.
func (c *Conn) SetFrameValues(ctx context.Context, thread ThreadID, frame FrameID, slots []int32, values []Value) error {
	e := c.enc()
	e.objectID(thread)
	e.frameID(frame)
	e.u32(uint32(len(slots)))
	for i, s := range slots {
		e.u32(uint32(s))
		e.untaggedValue(values[i])
	}
	_, err := c.command(ctx, csStackFrame, cmdStackFrameSetValues, e.bytes())
	return err
}

// ThisObject returns the receiver (`this`) of a stack frame, or an
// ObjectID of 0 for a static frame.
func (c *Conn) ThisObject(ctx context.Context, thread ThreadID, frame FrameID) (ObjectID, error) {
	e := c.enc()
	e.objectID(thread)
	e.frameID(frame)
	d, err := c.command(ctx, csStackFrame, cmdStackFrameThisObject, e.bytes())
	if err != nil {
		return 0, err
	}
	_, err = d.u8() // tag
	if err != nil {
		return 0, err
	}
	return d.objectID()
}
