package debug

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/adamchandra/ensime/internal/jdwp"
)

// referenceCellRE matches the standard runtime's boxed reference-cell
// types (spec.md §4.4's "regular expression"): values of these types
// render as their wrapped `elem`, not as "Instance of ...".
var referenceCellRE = regexp.MustCompile(`^scala\.runtime\.(Object|Int|Long|Double|Float|Boolean|Byte|Char|Short)Ref$`)

// DebugValueReq resolves a DebugLocation to its current value, pinning
// any object it returns (spec.md's scenario 5: stepping stops, a field
// lookup on a pinned object returns a new pinned id for the result).
func (c *Controller) DebugValueReq(ctx context.Context, loc DebugLocation) (summary string, pinnedID int64, err error) {
	result := make(chan struct {
		s   string
		id  int64
		err error
	}, 1)
	c.mailbox.Post(ctx, func() {
		s, id, e := c.doDebugValueReq(ctx, loc)
		result <- struct {
			s   string
			id  int64
			err error
		}{s, id, e}
	})
	r := <-result
	return r.s, r.id, r.err
}

func (c *Controller) doDebugValueReq(ctx context.Context, loc DebugLocation) (string, int64, error) {
	var summary string
	var pinnedID int64
	err := c.withConn(func(conn *jdwp.Conn) error {
		v, err := c.resolveLocationValue(ctx, conn, loc)
		if err != nil {
			return err
		}
		pinnedID = c.pins.Pin(ctx, conn, v)
		summary, err = c.valueSummary(ctx, conn, v)
		return err
	})
	return summary, pinnedID, err
}

func (c *Controller) resolveLocationValue(ctx context.Context, conn *jdwp.Conn, loc DebugLocation) (jdwp.Value, error) {
	switch loc.Kind {
	case LocObjectReference:
		id, tag, ok := c.pins.Lookup(loc.ObjectID)
		if !ok {
			return jdwp.Value{}, fmt.Errorf("unknown pinned object %d", loc.ObjectID)
		}
		return jdwp.Value{Tag: tag, Object: id}, nil

	case LocObjectField:
		_, classID, err := conn.ReferenceTypeOf(ctx, jdwp.ObjectID(loc.ObjectID))
		if err != nil {
			return jdwp.Value{}, err
		}
		fields, err := conn.Fields(ctx, classID)
		if err != nil {
			return jdwp.Value{}, err
		}
		for _, f := range fields {
			if f.Name != loc.FieldName {
				continue
			}
			values, err := conn.GetFieldValues(ctx, jdwp.ObjectID(loc.ObjectID), []jdwp.FieldID{f.ID})
			if err != nil {
				return jdwp.Value{}, err
			}
			return values[0], nil
		}
		return jdwp.Value{}, fmt.Errorf("no field %q", loc.FieldName)

	case LocArrayElement:
		values, err := conn.GetArrayValues(ctx, jdwp.ArrayID(loc.ObjectID), int32(loc.Index), 1)
		if err != nil {
			return jdwp.Value{}, err
		}
		if len(values) == 0 {
			return jdwp.Value{}, fmt.Errorf("array index %d out of range", loc.Index)
		}
		return values[0], nil

	case LocStackSlot:
		frames, err := conn.Frames(ctx, jdwp.ThreadID(loc.ThreadID), int32(loc.FrameIndex), 1)
		if err != nil || len(frames) == 0 {
			return jdwp.Value{}, fmt.Errorf("no such stack frame")
		}
		tag, err := c.slotTag(ctx, conn, frames[0].Location, loc.SlotOffset)
		if err != nil {
			tag = jdwp.TagObject
		}
		values, err := conn.GetFrameValues(ctx, jdwp.ThreadID(loc.ThreadID), frames[0].ID, []jdwp.SlotValue{{Slot: loc.SlotOffset, Tag: tag}})
		if err != nil {
			return jdwp.Value{}, err
		}
		return values[0], nil

	default:
		return jdwp.Value{}, fmt.Errorf("unknown debug location kind")
	}
}

func (c *Controller) slotTag(ctx context.Context, conn *jdwp.Conn, loc jdwp.Location, slot int32) (byte, error) {
	vars, _, err := conn.VariableTable(ctx, loc.ClassID, loc.MethodID)
	if err != nil {
		return 0, err
	}
	for _, v := range vars {
		if v.Slot == slot {
			return signatureTag(v.Signature), nil
		}
	}
	return 0, fmt.Errorf("slot %d not found", slot)
}

// valueSummary renders a value per spec.md §4.4: booleans/numbers as
// decimal, chars single-quoted, strings double-quoted, arrays showing up
// to three elements, boxed reference cells dereferenced through `elem`,
// and other references as "Instance of <local type name>".
func (c *Controller) valueSummary(ctx context.Context, conn *jdwp.Conn, v jdwp.Value) (string, error) {
	switch v.Tag {
	case jdwp.TagBoolean:
		return strconv.FormatBool(v.Bool), nil
	case jdwp.TagByte:
		return strconv.Itoa(int(v.Byte)), nil
	case jdwp.TagChar:
		return "'" + string(v.Char) + "'", nil
	case jdwp.TagShort:
		return strconv.Itoa(int(v.Short)), nil
	case jdwp.TagInt:
		return strconv.Itoa(int(v.Int)), nil
	case jdwp.TagLong:
		return strconv.FormatInt(v.Long, 10), nil
	case jdwp.TagFloat:
		return strconv.FormatFloat(float64(v.Float), 'g', -1, 32), nil
	case jdwp.TagDouble:
		return strconv.FormatFloat(v.Double, 'g', -1, 64), nil
	case jdwp.TagVoid:
		return "()", nil
	case jdwp.TagString:
		s, err := conn.StringValue(ctx, v.Object)
		if err != nil {
			return "", err
		}
		return strconv.Quote(s), nil
	case jdwp.TagArray:
		return c.arraySummary(ctx, conn, jdwp.ArrayID(v.Object))
	default:
		if v.Object == 0 {
			return "null", nil
		}
		typeName, err := c.runtimeTypeName(ctx, conn, v.Object)
		if err != nil {
			return "", err
		}
		if isBoxedReferenceCell(typeName) {
			return c.dereferenceCell(ctx, conn, v.Object, typeName)
		}
		return "Instance of " + lastSegment(typeName), nil
	}
}

func (c *Controller) arraySummary(ctx context.Context, conn *jdwp.Conn, arr jdwp.ArrayID) (string, error) {
	length, err := conn.ArrayLength(ctx, arr)
	if err != nil {
		return "", err
	}
	shown := length
	if shown > 3 {
		shown = 3
	}
	elems := make([]string, 0, shown)
	if shown > 0 {
		values, err := conn.GetArrayValues(ctx, arr, 0, shown)
		if err != nil {
			return "", err
		}
		for _, v := range values {
			s, err := c.valueSummary(ctx, conn, v)
			if err != nil {
				return "", err
			}
			elems = append(elems, s)
		}
	}
	return "Array[" + strings.Join(elems, ", ") + "]", nil
}

func (c *Controller) runtimeTypeName(ctx context.Context, conn *jdwp.Conn, obj jdwp.ObjectID) (string, error) {
	_, classID, err := conn.ReferenceTypeOf(ctx, obj)
	if err != nil {
		return "", err
	}
	sig, err := conn.Signature(ctx, classID)
	if err != nil {
		return "", err
	}
	return jniSignatureToName(sig), nil
}

func jniSignatureToName(sig string) string {
	s := strings.TrimPrefix(sig, "L")
	s = strings.TrimSuffix(s, ";")
	return strings.ReplaceAll(s, "/", ".")
}

func lastSegment(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func (c *Controller) dereferenceCell(ctx context.Context, conn *jdwp.Conn, obj jdwp.ObjectID, typeName string) (string, error) {
	_, classID, err := conn.ReferenceTypeOf(ctx, obj)
	if err != nil {
		return "", err
	}
	fields, err := conn.Fields(ctx, classID)
	if err != nil {
		return "", err
	}
	for _, f := range fields {
		if f.Name != "elem" {
			continue
		}
		values, err := conn.GetFieldValues(ctx, obj, []jdwp.FieldID{f.ID})
		if err != nil {
			return "", err
		}
		return c.valueSummary(ctx, conn, values[0])
	}
	return "Instance of " + lastSegment(typeName), nil
}
