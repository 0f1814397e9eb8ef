package debug

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/adamchandra/ensime/internal/jdwp"
)

// SetValue mirrors text into a stack slot matching its declared variable
// type. Only stack-slot locations are mutable (spec.md §4.4); any other
// location replies failure but never aborts the connection.
func (c *Controller) SetValue(ctx context.Context, loc DebugLocation, text string) error {
	result := make(chan error, 1)
	c.mailbox.Post(ctx, func() {
		result <- c.doSetValue(ctx, loc, text)
	})
	return <-result
}

func (c *Controller) doSetValue(ctx context.Context, loc DebugLocation, text string) error {
	if loc.Kind != LocStackSlot {
		return fmt.Errorf("only stack-slot locations are mutable")
	}
	return c.withConn(func(conn *jdwp.Conn) error {
		frames, err := conn.Frames(ctx, jdwp.ThreadID(loc.ThreadID), int32(loc.FrameIndex), 1)
		if err != nil || len(frames) == 0 {
			return fmt.Errorf("no such stack frame")
		}
		tag, err := c.slotTag(ctx, conn, frames[0].Location, loc.SlotOffset)
		if err != nil {
			return err
		}
		v, err := mirrorValue(ctx, conn, tag, text)
		if err != nil {
			return err
		}
		return conn.SetFrameValues(ctx, jdwp.ThreadID(loc.ThreadID), frames[0].ID, []int32{loc.SlotOffset}, []jdwp.Value{v})
	})
}

// mirrorValue implements spec.md §4.4's mutation rules: numerics parse
// base-10, char takes text's first rune, string trims a matching pair of
// surrounding double quotes. Unsupported target types report failure
// rather than guessing.
func mirrorValue(ctx context.Context, conn *jdwp.Conn, tag byte, text string) (jdwp.Value, error) {
	switch tag {
	case jdwp.TagString:
		id, err := conn.CreateString(ctx, trimQuotes(text))
		if err != nil {
			return jdwp.Value{}, err
		}
		return jdwp.Value{Tag: tag, Object: id}, nil
	case jdwp.TagBoolean:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return jdwp.Value{}, err
		}
		return jdwp.Value{Tag: tag, Bool: b}, nil
	case jdwp.TagByte:
		n, err := strconv.ParseInt(text, 10, 8)
		if err != nil {
			return jdwp.Value{}, err
		}
		return jdwp.Value{Tag: tag, Byte: byte(n)}, nil
	case jdwp.TagChar:
		r := []rune(text)
		if len(r) == 0 {
			return jdwp.Value{}, fmt.Errorf("empty text for char slot")
		}
		return jdwp.Value{Tag: tag, Char: r[0]}, nil
	case jdwp.TagShort:
		n, err := strconv.ParseInt(text, 10, 16)
		if err != nil {
			return jdwp.Value{}, err
		}
		return jdwp.Value{Tag: tag, Short: int16(n)}, nil
	case jdwp.TagInt:
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return jdwp.Value{}, err
		}
		return jdwp.Value{Tag: tag, Int: int32(n)}, nil
	case jdwp.TagLong:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return jdwp.Value{}, err
		}
		return jdwp.Value{Tag: tag, Long: n}, nil
	case jdwp.TagFloat:
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return jdwp.Value{}, err
		}
		return jdwp.Value{Tag: tag, Float: float32(f)}, nil
	case jdwp.TagDouble:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return jdwp.Value{}, err
		}
		return jdwp.Value{Tag: tag, Double: f}, nil
	default:
		return jdwp.Value{}, fmt.Errorf("unsupported mutation target type %q", tag)
	}
}

func trimQuotes(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}
