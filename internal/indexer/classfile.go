package indexer

import (
	"encoding/binary"
	"fmt"
	"io"
)

// classMagic is the .class file magic number (0xCAFEBABE).
const classMagic = 0xCAFEBABE

const (
	cpUTF8              = 1
	cpInteger           = 3
	cpFloat             = 4
	cpLong              = 5
	cpDouble            = 6
	cpClass             = 7
	cpString            = 8
	cpFieldref          = 9
	cpMethodref         = 10
	cpInterfaceMethodref = 11
	cpNameAndType       = 12
	cpMethodHandle      = 15
	cpMethodType        = 16
	cpDynamic           = 17
	cpInvokeDynamic     = 18
	cpModule            = 19
	cpPackage           = 20
)

// AccessPublic is the public access modifier bit shared by class, method
// and field access-flag tables.
const AccessPublic = 0x0001

// ClassHeader is the symbolic header of a .class file: enough to build
// index entries without decoding any method body bytecode.
type ClassHeader struct {
	AccessFlags int
	ClassName   string // internal form, slashes, e.g. "com/foo/Bar"
	Methods     []MemberHeader
	Fields      []MemberHeader
}

// MemberHeader describes one method or field entry.
type MemberHeader struct {
	AccessFlags int
	Name        string
}

// ReadClassHeaderFull reads a .class file's constant pool, access flags,
// this-class, and method/field tables, without decoding Code attributes
// (attribute bodies are length-prefixed and skipped wholesale).
func ReadClassHeaderFull(r io.Reader) (*ClassHeader, error) {
	br := &byteReader{r: r}

	magic, err := br.u4()
	if err != nil {
		return nil, err
	}
	if magic != classMagic {
		return nil, fmt.Errorf("not a class file: bad magic %#x", magic)
	}
	if _, err := br.u2(); err != nil {
		return nil, err
	}
	if _, err := br.u2(); err != nil {
		return nil, err
	}

	cpCount, err := br.u2()
	if err != nil {
		return nil, err
	}
	pool, err := readConstantPool(br, int(cpCount))
	if err != nil {
		return nil, err
	}

	accessFlags, err := br.u2()
	if err != nil {
		return nil, err
	}
	thisClass, err := br.u2()
	if err != nil {
		return nil, err
	}
	if _, err := br.u2(); err != nil {
		return nil, err
	}

	ifaceCount, err := br.u2()
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(ifaceCount); i++ {
		if _, err := br.u2(); err != nil {
			return nil, err
		}
	}

	fields, err := readMembers(br, pool)
	if err != nil {
		return nil, err
	}
	methods, err := readMembers(br, pool)
	if err != nil {
		return nil, err
	}

	className, err := pool.className(int(thisClass))
	if err != nil {
		return nil, err
	}

	return &ClassHeader{
		AccessFlags: int(accessFlags),
		ClassName:   className,
		Methods:     methods,
		Fields:      fields,
	}, nil
}

func readMembers(br *byteReader, pool constantPool) ([]MemberHeader, error) {
	count, err := br.u2()
	if err != nil {
		return nil, err
	}
	members := make([]MemberHeader, 0, count)
	for i := 0; i < int(count); i++ {
		accessFlags, err := br.u2()
		if err != nil {
			return nil, err
		}
		nameIdx, err := br.u2()
		if err != nil {
			return nil, err
		}
		if _, err := br.u2(); err != nil { // descriptor_index
			return nil, err
		}
		name, err := pool.utf8(int(nameIdx))
		if err != nil {
			return nil, err
		}
		attrCount, err := br.u2()
		if err != nil {
			return nil, err
		}
		for a := 0; a < int(attrCount); a++ {
			if err := skipAttribute(br); err != nil {
				return nil, err
			}
		}
		members = append(members, MemberHeader{AccessFlags: int(accessFlags), Name: name})
	}
	return members, nil
}

func skipAttribute(br *byteReader) error {
	if _, err := br.u2(); err != nil { // attribute_name_index
		return err
	}
	length, err := br.u4()
	if err != nil {
		return err
	}
	return br.skip(int(length))
}

// --- constant pool ---

type cpEntry struct {
	tag    int
	utf8   string
	nameIdx int // for Class entries: index of the UTF8 name
}

type constantPool []cpEntry

func readConstantPool(br *byteReader, count int) (constantPool, error) {
	pool := make(constantPool, count) // index 0 unused; entries 1..count-1
	for i := 1; i < count; i++ {
		tag, err := br.u1()
		if err != nil {
			return nil, err
		}
		switch tag {
		case cpUTF8:
			length, err := br.u2()
			if err != nil {
				return nil, err
			}
			data, err := br.read(int(length))
			if err != nil {
				return nil, err
			}
			pool[i] = cpEntry{tag: tag, utf8: string(data)}
		case cpClass, cpString, cpMethodType, cpModule, cpPackage:
			idx, err := br.u2()
			if err != nil {
				return nil, err
			}
			pool[i] = cpEntry{tag: tag, nameIdx: int(idx)}
		case cpFieldref, cpMethodref, cpInterfaceMethodref, cpNameAndType, cpDynamic, cpInvokeDynamic:
			if _, err := br.u2(); err != nil {
				return nil, err
			}
			if _, err := br.u2(); err != nil {
				return nil, err
			}
		case cpInteger, cpFloat:
			if _, err := br.u4(); err != nil {
				return nil, err
			}
		case cpLong, cpDouble:
			if _, err := br.u4(); err != nil {
				return nil, err
			}
			if _, err := br.u4(); err != nil {
				return nil, err
			}
			i++ // 8-byte constants occupy two pool slots
		case cpMethodHandle:
			if _, err := br.u1(); err != nil {
				return nil, err
			}
			if _, err := br.u2(); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unknown constant pool tag %d", tag)
		}
	}
	return pool, nil
}

func (p constantPool) utf8(idx int) (string, error) {
	if idx <= 0 || idx >= len(p) {
		return "", fmt.Errorf("constant pool index out of range: %d", idx)
	}
	if p[idx].tag != cpUTF8 {
		return "", fmt.Errorf("constant pool entry %d is not UTF8", idx)
	}
	return p[idx].utf8, nil
}

func (p constantPool) className(idx int) (string, error) {
	if idx <= 0 || idx >= len(p) {
		return "", fmt.Errorf("constant pool index out of range: %d", idx)
	}
	if p[idx].tag != cpClass {
		return "", fmt.Errorf("constant pool entry %d is not a Class", idx)
	}
	return p.utf8(p[idx].nameIdx)
}

// --- low-level reader ---

type byteReader struct {
	r io.Reader
}

func (b *byteReader) read(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(b.r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (b *byteReader) skip(n int) error {
	_, err := io.CopyN(io.Discard, b.r, int64(n))
	return err
}

func (b *byteReader) u1() (uint8, error) {
	buf, err := b.read(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (b *byteReader) u2() (uint16, error) {
	buf, err := b.read(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf), nil
}

func (b *byteReader) u4() (uint32, error) {
	buf, err := b.read(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf), nil
}
