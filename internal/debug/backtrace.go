package debug

import (
	"context"

	"github.com/adamchandra/ensime/internal/jdwp"
)

// LocalVar is one (offset, name, typeName, valueSummary) entry of a
// backtrace frame.
type LocalVar struct {
	Offset    int32
	Name      string
	TypeName  string
	ValueText string
}

// BacktraceFrame is one frame spec.md §4.4 describes: per-field
// absence-of-information falls back to sensible defaults rather than
// failing the whole backtrace.
type BacktraceFrame struct {
	Index       int
	Locals      []LocalVar
	NumArgs     int32
	ClassName   string
	MethodName  string
	PCPosition  SourcePosition
	ThisObjectID int64 // -1 if absent
}

// Backtrace returns frames [fromIndex, fromIndex+count), or to the end of
// the stack when count == -1.
func (c *Controller) Backtrace(ctx context.Context, threadID int64, fromIndex, count int) ([]BacktraceFrame, error) {
	result := make(chan struct {
		frames []BacktraceFrame
		err    error
	}, 1)
	c.mailbox.Post(ctx, func() {
		frames, err := c.doBacktrace(ctx, threadID, fromIndex, count)
		result <- struct {
			frames []BacktraceFrame
			err    error
		}{frames, err}
	})
	r := <-result
	return r.frames, r.err
}

func (c *Controller) doBacktrace(ctx context.Context, threadID int64, fromIndex, count int) ([]BacktraceFrame, error) {
	var out []BacktraceFrame
	err := c.withConn(func(conn *jdwp.Conn) error {
		jdwpFrames, err := conn.Frames(ctx, jdwp.ThreadID(threadID), int32(fromIndex), int32(count))
		if err != nil {
			return err
		}
		out = make([]BacktraceFrame, 0, len(jdwpFrames))
		for i, f := range jdwpFrames {
			frame, err := c.buildFrame(ctx, conn, jdwp.ThreadID(threadID), fromIndex+i, f)
			if err != nil {
				continue // a single unreadable frame is dropped, not fatal
			}
			out = append(out, frame)
		}
		return nil
	})
	return out, err
}

func (c *Controller) buildFrame(ctx context.Context, conn *jdwp.Conn, thread jdwp.ThreadID, index int, f jdwp.FrameInfo) (BacktraceFrame, error) {
	frame := BacktraceFrame{
		Index:        index,
		ClassName:    "Class",
		MethodName:   "Method",
		ThisObjectID: -1,
		PCPosition:   SourcePosition{File: "", Line: 0},
	}

	if src, err := conn.SourceFile(ctx, f.Location.ClassID); err == nil && src != "" {
		frame.PCPosition.File = src
	}

	vars, argCount, varErr := conn.VariableTable(ctx, f.Location.ClassID, f.Location.MethodID)
	frame.NumArgs = argCount

	if _, _, lines, err := conn.LineTable(ctx, f.Location.ClassID, f.Location.MethodID); err == nil {
		frame.PCPosition.Line = lineForCodeIndex(lines, f.Location.CodeIndex)
	}

	if methods, err := conn.Methods(ctx, f.Location.ClassID); err == nil {
		for _, m := range methods {
			if m.ID == f.Location.MethodID {
				frame.MethodName = m.Name
				break
			}
		}
	}
	if sig, err := conn.Signature(ctx, f.Location.ClassID); err == nil && sig != "" {
		frame.ClassName = jniSignatureToName(sig)
	}

	if varErr == nil {
		slots := make([]jdwp.SlotValue, 0, len(vars))
		live := make([]jdwp.VariableEntry, 0, len(vars))
		for _, v := range vars {
			if !variableLiveAt(v, f.Location.CodeIndex) {
				continue
			}
			slots = append(slots, jdwp.SlotValue{Slot: v.Slot, Tag: signatureTag(v.Signature)})
			live = append(live, v)
		}
		if len(slots) > 0 {
			if values, err := conn.GetFrameValues(ctx, thread, f.ID, slots); err == nil {
				for i, v := range values {
					summary, _ := c.valueSummary(ctx, conn, v)
					frame.Locals = append(frame.Locals, LocalVar{
						Offset:    live[i].Slot,
						Name:      live[i].Name,
						TypeName:  live[i].Signature,
						ValueText: summary,
					})
				}
			}
		}
	}

	if this, err := conn.ThisObject(ctx, thread, f.ID); err == nil && this != 0 {
		frame.ThisObjectID = int64(this)
		c.pins.Pin(ctx, conn, jdwp.Value{Tag: jdwp.TagObject, Object: this})
	}

	return frame, nil
}

func variableLiveAt(v jdwp.VariableEntry, codeIndex int64) bool {
	return codeIndex >= v.CodeIndex && codeIndex < v.CodeIndex+int64(v.Length)
}
