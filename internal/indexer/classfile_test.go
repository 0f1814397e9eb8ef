package indexer

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// classBuilder assembles a minimal, well-formed .class byte stream so the
// parser can be exercised without a real javac-produced fixture on disk.
type classBuilder struct {
	buf  bytes.Buffer
	pool [][]byte // already-encoded constant pool entries, 1-indexed conceptually
}

func newClassBuilder() *classBuilder { return &classBuilder{} }

func (c *classBuilder) addUTF8(s string) int {
	var e bytes.Buffer
	e.WriteByte(cpUTF8)
	binary.Write(&e, binary.BigEndian, uint16(len(s)))
	e.WriteString(s)
	c.pool = append(c.pool, e.Bytes())
	return len(c.pool) // 1-indexed
}

func (c *classBuilder) addClass(nameIdx int) int {
	var e bytes.Buffer
	e.WriteByte(cpClass)
	binary.Write(&e, binary.BigEndian, uint16(nameIdx))
	c.pool = append(c.pool, e.Bytes())
	return len(c.pool)
}

func (c *classBuilder) build(thisClassIdx int, accessFlags uint16, fields, methods [][2]string) []byte {
	// Encode member tables first so their UTF8 name/descriptor entries land
	// in the constant pool before the pool itself is emitted.
	encodeMembers := func(members [][2]string) []byte {
		var mb bytes.Buffer
		binary.Write(&mb, binary.BigEndian, uint16(len(members)))
		for _, m := range members {
			nameIdx := c.addUTF8(m[0])
			descIdx := c.addUTF8(m[1])
			binary.Write(&mb, binary.BigEndian, uint16(AccessPublic))
			binary.Write(&mb, binary.BigEndian, uint16(nameIdx))
			binary.Write(&mb, binary.BigEndian, uint16(descIdx))
			binary.Write(&mb, binary.BigEndian, uint16(0)) // attributes_count
		}
		return mb.Bytes()
	}
	fieldsEncoded := encodeMembers(fields)
	methodsEncoded := encodeMembers(methods)

	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(classMagic))
	binary.Write(&buf, binary.BigEndian, uint16(0))  // minor
	binary.Write(&buf, binary.BigEndian, uint16(52)) // major
	binary.Write(&buf, binary.BigEndian, uint16(len(c.pool)+1))
	for _, e := range c.pool {
		buf.Write(e)
	}
	binary.Write(&buf, binary.BigEndian, accessFlags)
	binary.Write(&buf, binary.BigEndian, uint16(thisClassIdx))
	binary.Write(&buf, binary.BigEndian, uint16(0)) // super_class
	binary.Write(&buf, binary.BigEndian, uint16(0)) // interfaces_count
	buf.Write(fieldsEncoded)
	buf.Write(methodsEncoded)
	return buf.Bytes()
}

func TestReadClassHeaderFullSimple(t *testing.T) {
	cb := newClassBuilder()
	nameIdx := cb.addUTF8("com/foo/Bar")
	classIdx := cb.addClass(nameIdx)

	raw := cb.build(classIdx, AccessPublic, nil, nil)

	header, err := ReadClassHeaderFull(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, "com/foo/Bar", header.ClassName)
	require.Equal(t, AccessPublic, header.AccessFlags)
	require.Empty(t, header.Fields)
	require.Empty(t, header.Methods)
}

func TestReadClassHeaderFullWithMembers(t *testing.T) {
	cb := newClassBuilder()
	nameIdx := cb.addUTF8("com/foo/Baz")
	classIdx := cb.addClass(nameIdx)

	raw := cb.build(classIdx, AccessPublic, [][2]string{{"count", "I"}}, [][2]string{{"doThing", "()V"}})

	header, err := ReadClassHeaderFull(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, "com/foo/Baz", header.ClassName)
	require.Len(t, header.Fields, 1)
	require.Equal(t, "count", header.Fields[0].Name)
	require.Len(t, header.Methods, 1)
	require.Equal(t, "doThing", header.Methods[0].Name)
}

func TestReadClassHeaderFullRejectsBadMagic(t *testing.T) {
	_, err := ReadClassHeaderFull(bytes.NewReader([]byte{0, 0, 0, 0}))
	require.Error(t, err)
}
