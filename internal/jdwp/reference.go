package jdwp

import "context"

// MethodInfo is one entry of ReferenceType.Methods.
type MethodInfo struct {
	ID        MethodID
	Name      string
	Signature string
	ModBits   int32
}

// Methods returns every declared method of a reference type, used by
// breakpoint resolution to ask for line-table locations in each one.
func (c *Conn) Methods(ctx context.Context, class ReferenceTypeID) ([]MethodInfo, error) {
	e := c.enc()
	e.refTypeID(class)
	d, err := c.command(ctx, csReferenceType, cmdRefTypeMethods, e.bytes())
	if err != nil {
		return nil, err
	}
	count, err := d.u32()
	if err != nil {
		return nil, err
	}
	out := make([]MethodInfo, 0, count)
	for i := uint32(0); i < count; i++ {
		id, err := d.methodID()
		if err != nil {
			return nil, err
		}
		name, err := d.str()
		if err != nil {
			return nil, err
		}
		sig, err := d.str()
		if err != nil {
			return nil, err
		}
		mod, err := d.u32()
		if err != nil {
			return nil, err
		}
		out = append(out, MethodInfo{ID: id, Name: name, Signature: sig, ModBits: int32(mod)})
	}
	return out, nil
}

// Signature returns a reference type's JNI-style type signature (e.g.
// "Ljava/lang/String;"), used to turn a runtime ObjectID into a printable
// type name for value summaries.
func (c *Conn) Signature(ctx context.Context, class ReferenceTypeID) (string, error) {
	e := c.enc()
	e.refTypeID(class)
	d, err := c.command(ctx, csReferenceType, cmdRefTypeSignature, e.bytes())
	if err != nil {
		return "", err
	}
	return d.str()
}

// FieldInfo is one entry of ReferenceType.Fields.
type FieldInfo struct {
	ID        FieldID
	Name      string
	Signature string
	ModBits   int32
}

// Fields returns every declared field of a reference type, used to
// resolve an ObjectField(objectId, fieldName) location to a FieldID.
func (c *Conn) Fields(ctx context.Context, class ReferenceTypeID) ([]FieldInfo, error) {
	e := c.enc()
	e.refTypeID(class)
	d, err := c.command(ctx, csReferenceType, cmdRefTypeFields, e.bytes())
	if err != nil {
		return nil, err
	}
	count, err := d.u32()
	if err != nil {
		return nil, err
	}
	out := make([]FieldInfo, 0, count)
	for i := uint32(0); i < count; i++ {
		id, err := d.fieldID()
		if err != nil {
			return nil, err
		}
		name, err := d.str()
		if err != nil {
			return nil, err
		}
		sig, err := d.str()
		if err != nil {
			return nil, err
		}
		mod, err := d.u32()
		if err != nil {
			return nil, err
		}
		out = append(out, FieldInfo{ID: id, Name: name, Signature: sig, ModBits: int32(mod)})
	}
	return out, nil
}

// SourceFile returns the declared source file name (basename, not a path)
// of a reference type.
func (c *Conn) SourceFile(ctx context.Context, class ReferenceTypeID) (string, error) {
	e := c.enc()
	e.refTypeID(class)
	d, err := c.command(ctx, csReferenceType, cmdRefTypeSourceFile, e.bytes())
	if err != nil {
		return "", err
	}
	return d.str()
}

// LineTableEntry maps a bytecode index to a source line.
type LineTableEntry struct {
	CodeIndex int64
	LineNumber int32
}

// LineTable returns a method's line number table: the (start, end) code
// index bounds plus one entry per line, used to find every code index
// that corresponds to a requested source line.
func (c *Conn) LineTable(ctx context.Context, class ReferenceTypeID, method MethodID) (start, end int64, lines []LineTableEntry, err error) {
	e := c.enc()
	e.refTypeID(class)
	e.methodID(method)
	d, derr := c.command(ctx, csMethod, cmdMethodLineTable, e.bytes())
	if derr != nil {
		return 0, 0, nil, derr
	}
	start, err = d.i64()
	if err != nil {
		return
	}
	end, err = d.i64()
	if err != nil {
		return
	}
	count, err := d.u32()
	if err != nil {
		return
	}
	lines = make([]LineTableEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		idx, err2 := d.i64()
		if err2 != nil {
			return start, end, lines, err2
		}
		line, err2 := d.u32()
		if err2 != nil {
			return start, end, lines, err2
		}
		lines = append(lines, LineTableEntry{CodeIndex: idx, LineNumber: int32(line)})
	}
	return start, end, lines, nil
}

// VariableEntry is one entry of Method.VariableTable: the slot, its
// declared name and type signature, and the code-index range it's live
// for, used to label stack-frame locals by name in the backtrace.
type VariableEntry struct {
	CodeIndex int64
	Name      string
	Signature string
	Length    int32
	Slot      int32
}

// VariableTable returns a method's local-variable table.
func (c *Conn) VariableTable(ctx context.Context, class ReferenceTypeID, method MethodID) ([]VariableEntry, int32, error) {
	e := c.enc()
	e.refTypeID(class)
	e.methodID(method)
	d, err := c.command(ctx, csMethod, cmdMethodVariableTable, e.bytes())
	if err != nil {
		return nil, 0, err
	}
	argCount, err := d.u32()
	if err != nil {
		return nil, 0, err
	}
	count, err := d.u32()
	if err != nil {
		return nil, 0, err
	}
	out := make([]VariableEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		idx, err := d.i64()
		if err != nil {
			return nil, 0, err
		}
		name, err := d.str()
		if err != nil {
			return nil, 0, err
		}
		sig, err := d.str()
		if err != nil {
			return nil, 0, err
		}
		length, err := d.u32()
		if err != nil {
			return nil, 0, err
		}
		slot, err := d.u32()
		if err != nil {
			return nil, 0, err
		}
		out = append(out, VariableEntry{CodeIndex: idx, Name: name, Signature: sig, Length: int32(length), Slot: int32(slot)})
	}
	return out, int32(argCount), nil
}
