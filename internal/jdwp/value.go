package jdwp

import "math"

// Value tags from the JDWP spec's "tagged-objectID"/"value" encoding.
const (
	TagArray       byte = '['
	TagByte        byte = 'B'
	TagChar        byte = 'C'
	TagObject      byte = 'L'
	TagFloat       byte = 'F'
	TagDouble      byte = 'D'
	TagInt         byte = 'I'
	TagLong        byte = 'J'
	TagShort       byte = 'S'
	TagVoid        byte = 'V'
	TagBoolean     byte = 'Z'
	TagString      byte = 's'
	TagThread      byte = 't'
	TagThreadGroup byte = 'g'
	TagClassLoader byte = 'l'
	TagClassObject byte = 'c'
)

// IsObjectTag reports whether tag carries an ObjectID payload (as opposed
// to a primitive encoded inline).
func IsObjectTag(tag byte) bool {
	switch tag {
	case TagArray, TagObject, TagString, TagThread, TagThreadGroup, TagClassLoader, TagClassObject:
		return true
	default:
		return false
	}
}

// Value is a single JDWP tagged value: a primitive or an object handle.
type Value struct {
	Tag     byte
	Bool    bool
	Byte    byte
	Char    rune
	Short   int16
	Int     int32
	Long    int64
	Float   float32
	Double  float64
	Object  ObjectID // valid when IsObjectTag(Tag)
}

func (e *encoder) value(v Value) {
	e.u8(v.Tag)
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
	case TagVoid:
		// no payload
	default:
		if IsObjectTag(v.Tag) {
			e.objectID(v.Object)
		}
	}
}

func (d *decoder) value() (Value, error) {
	tag, err := d.u8()
	if err != nil {
		return Value{}, err
	}
	v := Value{Tag: tag}
	switch tag {
	case TagBoolean:
		b, err := d.u8()
		if err != nil {
			return Value{}, err
		}
		v.Bool = b != 0
	case TagByte:
		b, err := d.u8()
		if err != nil {
			return Value{}, err
		}
		v.Byte = b
	case TagChar:
		c, err := d.u16()
		if err != nil {
			return Value{}, err
		}
		v.Char = rune(c)
	case TagShort:
		s, err := d.u16()
		if err != nil {
			return Value{}, err
		}
		v.Short = int16(s)
	case TagInt:
		i, err := d.u32()
		if err != nil {
			return Value{}, err
		}
		v.Int = int32(i)
	case TagLong:
		l, err := d.i64()
		if err != nil {
			return Value{}, err
		}
		v.Long = l
	case TagFloat:
		bits, err := d.u32()
		if err != nil {
			return Value{}, err
		}
		v.Float = math.Float32frombits(bits)
	case TagDouble:
		bits, err := d.i64()
		if err != nil {
			return Value{}, err
		}
		v.Double = math.Float64frombits(uint64(bits))
	case TagVoid:
		// no payload
	default:
		if IsObjectTag(tag) {
			oid, err := d.objectID()
			if err != nil {
				return Value{}, err
			}
			v.Object = oid
		}
	}
	return v, nil
}

// untaggedValue decodes a value whose tag is known from context (used by
// GetValues replies, which repeat the requested tag rather than the one
// SetValues wrote).
func (d *decoder) untaggedValue(tag byte) (Value, error) {
	v := Value{Tag: tag}
	switch tag {
	case TagBoolean:
		b, err := d.u8()
		if err != nil {
			return Value{}, err
		}
		v.Bool = b != 0
	case TagByte:
		b, err := d.u8()
		if err != nil {
			return Value{}, err
		}
		v.Byte = b
	case TagChar:
		c, err := d.u16()
		if err != nil {
			return Value{}, err
		}
		v.Char = rune(c)
	case TagShort:
		s, err := d.u16()
		if err != nil {
			return Value{}, err
		}
		v.Short = int16(s)
	case TagInt:
		i, err := d.u32()
		if err != nil {
			return Value{}, err
		}
		v.Int = int32(i)
	case TagLong:
		l, err := d.i64()
		if err != nil {
			return Value{}, err
		}
		v.Long = l
	case TagFloat:
		bits, err := d.u32()
		if err != nil {
			return Value{}, err
		}
		v.Float = math.Float32frombits(bits)
	case TagDouble:
		bits, err := d.i64()
		if err != nil {
			return Value{}, err
		}
		v.Double = math.Float64frombits(uint64(bits))
	default:
		oid, err := d.objectID()
		if err != nil {
			return Value{}, err
		}
		v.Object = oid
	}
	return v, nil
}
