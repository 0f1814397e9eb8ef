package jdwp

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// encoder builds a JDWP command body. ID widths are fixed at construction
// time from the connection's negotiated IDSizes.
type encoder struct {
	buf  bytes.Buffer
	ids  IDSizes
}

func newEncoder(ids IDSizes) *encoder { return &encoder{ids: ids} }

func (e *encoder) u8(v byte)     { e.buf.WriteByte(v) }
func (e *encoder) u16(v uint16)  { var b [2]byte; binary.BigEndian.PutUint16(b[:], v); e.buf.Write(b[:]) }
func (e *encoder) u32(v uint32)  { var b [4]byte; binary.BigEndian.PutUint32(b[:], v); e.buf.Write(b[:]) }
func (e *encoder) i64(v int64)   { var b [8]byte; binary.BigEndian.PutUint64(b[:], uint64(v)); e.buf.Write(b[:]) }
func (e *encoder) objectID(id ObjectID) { e.sizedID(int64(id), e.ids.ObjectIDSize) }
func (e *encoder) refTypeID(id ReferenceTypeID) { e.sizedID(int64(id), e.ids.ReferenceTypeIDSize) }
func (e *encoder) methodID(id MethodID) { e.sizedID(int64(id), e.ids.MethodIDSize) }
func (e *encoder) fieldID(id FieldID)   { e.sizedID(int64(id), e.ids.FieldIDSize) }
func (e *encoder) frameID(id FrameID)   { e.sizedID(int64(id), e.ids.FrameIDSize) }

func (e *encoder) sizedID(v int64, size int) {
	b := make([]byte, size)
	switch size {
	case 8:
		binary.BigEndian.PutUint64(b, uint64(v))
	case 4:
		binary.BigEndian.PutUint32(b, uint32(v))
	default:
		binary.BigEndian.PutUint64(make([]byte, 8), uint64(v))
	}
	e.buf.Write(b)
}

func (e *encoder) str(s string) {
	e.u32(uint32(len(s)))
	e.buf.WriteString(s)
}

func (e *encoder) location(loc Location) {
	e.u8(loc.TypeTag)
	e.refTypeID(loc.ClassID)
	e.methodID(loc.MethodID)
	e.i64(loc.CodeIndex)
}

func (e *encoder) bytes() []byte { return e.buf.Bytes() }

// decoder reads a JDWP reply body sequentially.
type decoder struct {
	data []byte
	pos  int
	ids  IDSizes
}

func newDecoder(data []byte, ids IDSizes) *decoder { return &decoder{data: data, ids: ids} }

func (d *decoder) remaining() int { return len(d.data) - d.pos }

func (d *decoder) take(n int) ([]byte, error) {
	if d.remaining() < n {
		return nil, fmt.Errorf("jdwp: truncated reply, want %d have %d", n, d.remaining())
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *decoder) u8() (byte, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *decoder) u16() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (d *decoder) u32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (d *decoder) i64() (int64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

func (d *decoder) sizedID(size int) (int64, error) {
	b, err := d.take(size)
	if err != nil {
		return 0, err
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return int64(v), nil
}

func (d *decoder) objectID() (ObjectID, error) {
	v, err := d.sizedID(d.ids.ObjectIDSize)
	return ObjectID(v), err
}

func (d *decoder) refTypeID() (ReferenceTypeID, error) {
	v, err := d.sizedID(d.ids.ReferenceTypeIDSize)
	return ReferenceTypeID(v), err
}

func (d *decoder) methodID() (MethodID, error) {
	v, err := d.sizedID(d.ids.MethodIDSize)
	return MethodID(v), err
}

func (d *decoder) fieldID() (FieldID, error) {
	v, err := d.sizedID(d.ids.FieldIDSize)
	return FieldID(v), err
}

func (d *decoder) frameID() (FrameID, error) {
	v, err := d.sizedID(d.ids.FrameIDSize)
	return FrameID(v), err
}

func (d *decoder) str() (string, error) {
	n, err := d.u32()
	if err != nil {
		return "", err
	}
	b, err := d.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *decoder) location() (Location, error) {
	tag, err := d.u8()
	if err != nil {
		return Location{}, err
	}
	classID, err := d.refTypeID()
	if err != nil {
		return Location{}, err
	}
	methodID, err := d.methodID()
	if err != nil {
		return Location{}, err
	}
	idx, err := d.i64()
	if err != nil {
		return Location{}, err
	}
	return Location{TypeTag: tag, ClassID: classID, MethodID: methodID, CodeIndex: idx}, nil
}
