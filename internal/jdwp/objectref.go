package jdwp

import (
	"context"
	"math"
)

// ReferenceTypeOf returns an object's runtime reference type, used to
// resolve which declaring class backs a field lookup.
func (c *Conn) ReferenceTypeOf(ctx context.Context, obj ObjectID) (byte, ReferenceTypeID, error) {
	e := c.enc()
	e.objectID(obj)
	d, err := c.command(ctx, csObjectReference, cmdObjRefReferenceType, e.bytes())
	if err != nil {
		return 0, 0, err
	}
	tag, err := d.u8()
	if err != nil {
		return 0, 0, err
	}
	id, err := d.refTypeID()
	return tag, id, err
}

// GetFieldValues reads one or more fields of obj, used by
// ObjectField(objectId, fieldName) after the field is resolved to a
// FieldID via ReferenceType.Fields by the debug controller.
func (c *Conn) GetFieldValues(ctx context.Context, obj ObjectID, fields []FieldID) ([]Value, error) {
	e := c.enc()
	e.objectID(obj)
	e.u32(uint32(len(fields)))
	for _, f := range fields {
		e.fieldID(f)
	}
	d, err := c.command(ctx, csObjectReference, cmdObjRefGetValues, e.bytes())
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

// SetFieldValues mutates one or more fields of obj.
func (c *Conn) SetFieldValues(ctx context.Context, obj ObjectID, fields []FieldID, values []Value) error {
	e := c.enc()
	e.objectID(obj)
	e.u32(uint32(len(fields)))
	for i, f := range fields {
		e.fieldID(f)
		e.untaggedValue(values[i])
	}
	_, err := c.command(ctx, csObjectReference, cmdObjRefSetValues, e.bytes())
	return err
}

func (e *encoder) untaggedValue(v Value) {
	switch v.Tag {
	case TagBoolean:
		if v.Bool {
			e.u8(1)
		} else {
			e.u8(0)
		}
	case TagByte:
		e.u8(v.Byte)
	case TagChar:
		e.u16(uint16(v.Char))
	case TagShort:
		e.u16(uint16(v.Short))
	case TagInt:
		e.u32(uint32(v.Int))
	case TagLong:
		e.i64(v.Long)
	case TagFloat:
		e.u32(math.Float32bits(v.Float))
	case TagDouble:
		e.i64(int64(math.Float64bits(v.Double)))
	default:
		if IsObjectTag(v.Tag) {
			e.objectID(v.Object)
		}
	}
}

// DisableCollection pins obj against garbage collection; the pinning
// table calls this for every object it starts tracking.
func (c *Conn) DisableCollection(ctx context.Context, obj ObjectID) error {
	e := c.enc()
	e.objectID(obj)
	_, err := c.command(ctx, csObjectReference, cmdObjRefDisableCollection, e.bytes())
	return err
}

// EnableCollection releases a previous DisableCollection pin.
func (c *Conn) EnableCollection(ctx context.Context, obj ObjectID) error {
	e := c.enc()
	e.objectID(obj)
	_, err := c.command(ctx, csObjectReference, cmdObjRefEnableCollection, e.bytes())
	return err
}

// InvokeMethod invokes an instance method on obj in the context of thread,
// used by DebugToString for generic objects.
func (c *Conn) InvokeMethod(ctx context.Context, obj ObjectID, thread ThreadID, class ReferenceTypeID, method MethodID, args []Value, options int32) (Value, error) {
	e := c.enc()
	e.objectID(obj)
	e.objectID(thread)
	e.refTypeID(class)
	e.methodID(method)
	e.u32(uint32(len(args)))
	for _, a := range args {
		e.value(a)
	}
	e.u32(uint32(options))
	d, err := c.command(ctx, csObjectReference, cmdObjRefInvokeMethod, e.bytes())
	if err != nil {
		return Value{}, err
	}
	result, err := d.value()
	if err != nil {
		return Value{}, err
	}
	// The reply also carries a thrown-exception tagged-objectID, which is
	// not read: an exception thrown by the invoked method is not reported,
	// and only a failed JDWP command surfaces as the returned error.
	return result, nil
}

// StringValue returns the UTF-8 characters of a java.lang.String object.
func (c *Conn) StringValue(ctx context.Context, str StringID) (string, error) {
	e := c.enc()
	e.objectID(str)
	d, err := c.command(ctx, csStringReference, cmdStringRefValue, e.bytes())
	if err != nil {
		return "", err
	}
	return d.str()
}

// ArrayLength returns an array's element count.
func (c *Conn) ArrayLength(ctx context.Context, arr ArrayID) (int32, error) {
	e := c.enc()
	e.objectID(arr)
	d, err := c.command(ctx, csArrayReference, cmdArrayRefLength, e.bytes())
	if err != nil {
		return 0, err
	}
	n, err := d.u32()
	return int32(n), err
}

// GetArrayValues reads length elements of arr starting at firstIndex.
func (c *Conn) GetArrayValues(ctx context.Context, arr ArrayID, firstIndex, length int32) ([]Value, error) {
	e := c.enc()
	e.objectID(arr)
	e.u32(uint32(firstIndex))
	e.u32(uint32(length))
	d, err := c.command(ctx, csArrayReference, cmdArrayRefGetValues, e.bytes())
	if err != nil {
		return nil, err
	}
	tag, err := d.u8()
	if err != nil {
		return nil, err
	}
	count, err := d.u32()
	if err != nil {
		return nil, err
	}
	out := make([]Value, 0, count)
	for i := uint32(0); i < count; i++ {
		var v Value
		if IsObjectTag(tag) {
			v, err = d.value()
		} else {
			v, err = d.untaggedValue(tag)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
