package debug

import (
	"context"
	"fmt"

	"github.com/adamchandra/ensime/internal/jdwp"
)

const toStringMethodName = "toString"
const toStringDescriptor = "()Ljava/lang/String;"

// DebugToString implements spec.md §4.4's toString invocation: arrays
// render as "<array of N element(s)>", strings return their raw
// characters, primitives/null fall back to the value summary, and
// everything else invokes the target's toString() on the given thread
// single-threaded.
func (c *Controller) DebugToString(ctx context.Context, threadID int64, loc DebugLocation) (string, error) {
	result := make(chan struct {
		s   string
		err error
	}, 1)
	c.mailbox.Post(ctx, func() {
		s, err := c.doDebugToString(ctx, threadID, loc)
		result <- struct {
			s   string
			err error
		}{s, err}
	})
	r := <-result
	return r.s, r.err
}

func (c *Controller) doDebugToString(ctx context.Context, threadID int64, loc DebugLocation) (string, error) {
	var out string
	err := c.withConn(func(conn *jdwp.Conn) error {
		v, err := c.resolveLocationValue(ctx, conn, loc)
		if err != nil {
			return err
		}
		switch v.Tag {
		case jdwp.TagArray:
			length, err := conn.ArrayLength(ctx, jdwp.ArrayID(v.Object))
			if err != nil {
				return err
			}
			out = fmt.Sprintf("<array of %d element(s)>", length)
			return nil
		case jdwp.TagString:
			s, err := conn.StringValue(ctx, v.Object)
			if err != nil {
				return err
			}
			out = s
			return nil
		}
		if !jdwp.IsObjectTag(v.Tag) || v.Object == 0 {
			out, err = c.valueSummary(ctx, conn, v)
			return err
		}

		_, classID, err := conn.ReferenceTypeOf(ctx, v.Object)
		if err != nil {
			return err
		}
		methods, err := conn.Methods(ctx, classID)
		if err != nil {
			return err
		}
		var methodID jdwp.MethodID
		found := false
		for _, m := range methods {
			if m.Name == toStringMethodName && m.Signature == toStringDescriptor {
				methodID = m.ID
				found = true
				break
			}
		}
		if !found {
			out, err = c.valueSummary(ctx, conn, v)
			return err
		}
		result, err := conn.InvokeMethod(ctx, v.Object, jdwp.ThreadID(threadID), classID, methodID, nil, jdwp.InvokeSingleThreaded)
		if err != nil {
			return err
		}
		if !jdwp.IsObjectTag(result.Tag) || result.Object == 0 {
			out = "null"
			return nil
		}
		out, err = conn.StringValue(ctx, result.Object)
		return err
	})
	return out, err
}
