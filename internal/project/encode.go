package project

import (
	"fmt"

	"github.com/adamchandra/ensime/internal/analyzer"
	"github.com/adamchandra/ensime/internal/debug"
	"github.com/adamchandra/ensime/internal/indexer"
	"github.com/adamchandra/ensime/internal/wire"
)

// --- argument decoding -----------------------------------------------

func argString(args []wire.Value, i int) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("missing argument %d", i)
	}
	s, ok := args[i].AsString()
	if !ok {
		return "", fmt.Errorf("argument %d is not a string", i)
	}
	return s, nil
}

func argInt(args []wire.Value, i int) (int64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("missing argument %d", i)
	}
	n, ok := args[i].AsInt()
	if !ok {
		return 0, fmt.Errorf("argument %d is not an integer", i)
	}
	return n, nil
}

func argBool(args []wire.Value, i int) bool {
	if i >= len(args) {
		return false
	}
	return args[i].AsBool()
}

func argStringList(args []wire.Value, i int) ([]string, error) {
	if i >= len(args) {
		return nil, nil
	}
	list, ok := args[i].AsList()
	if !ok {
		return nil, fmt.Errorf("argument %d is not a list", i)
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		s, ok := v.AsString()
		if !ok {
			return nil, fmt.Errorf("argument %d contains a non-string element", i)
		}
		out = append(out, s)
	}
	return out, nil
}

// decodeSourceEdits parses a list of (:insert offset text) / (:delete from to)
// / (:replace from to text) forms into analyzer.SourceEdit values.
func decodeSourceEdits(v wire.Value) ([]analyzer.SourceEdit, error) {
	list, ok := v.AsList()
	if !ok {
		return nil, fmt.Errorf("edits argument is not a list")
	}
	out := make([]analyzer.SourceEdit, 0, len(list))
	for _, ev := range list {
		elems, ok := ev.AsList()
		if !ok || len(elems) == 0 {
			return nil, fmt.Errorf("malformed edit entry")
		}
		tag, _ := elems[0].AsString()
		switch tag {
		case "insert":
			off, _ := elems[1].AsInt()
			text, _ := elems[2].AsString()
			out = append(out, analyzer.SourceEdit{Kind: analyzer.EditInsert, From: int(off), Text: text})
		case "delete":
			from, _ := elems[1].AsInt()
			to, _ := elems[2].AsInt()
			out = append(out, analyzer.SourceEdit{Kind: analyzer.EditDelete, From: int(from), To: int(to)})
		case "replace":
			from, _ := elems[1].AsInt()
			to, _ := elems[2].AsInt()
			text, _ := elems[3].AsString()
			out = append(out, analyzer.SourceEdit{Kind: analyzer.EditReplace, From: int(from), To: int(to), Text: text})
		default:
			return nil, fmt.Errorf("unrecognized edit tag %q", tag)
		}
	}
	return out, nil
}

// decodeDebugLocation parses a (:kind ...) tagged form into a
// debug.DebugLocation.
func decodeDebugLocation(v wire.Value) (debug.DebugLocation, error) {
	elems, ok := v.AsList()
	if !ok || len(elems) == 0 {
		return debug.DebugLocation{}, fmt.Errorf("malformed debug location")
	}
	tag, _ := elems[0].AsString()
	switch tag {
	case "reference":
		id, _ := elems[1].AsInt()
		return debug.DebugLocation{Kind: debug.LocObjectReference, ObjectID: id}, nil
	case "field":
		id, _ := elems[1].AsInt()
		name, _ := elems[2].AsString()
		return debug.DebugLocation{Kind: debug.LocObjectField, ObjectID: id, FieldName: name}, nil
	case "element":
		id, _ := elems[1].AsInt()
		idx, _ := elems[2].AsInt()
		return debug.DebugLocation{Kind: debug.LocArrayElement, ObjectID: id, Index: int(idx)}, nil
	case "slot":
		thread, _ := elems[1].AsInt()
		frame, _ := elems[2].AsInt()
		slot, _ := elems[3].AsInt()
		return debug.DebugLocation{Kind: debug.LocStackSlot, ThreadID: thread, FrameIndex: int(frame), SlotOffset: int32(slot)}, nil
	default:
		return debug.DebugLocation{}, fmt.Errorf("unrecognized debug location tag %q", tag)
	}
}

// --- result encoding ---------------------------------------------------

func encodeSymbolResult(r indexer.SymbolResult) wire.Value {
	elems := []wire.Value{
		wire.Keyword("name"), wire.Str(r.Name),
		wire.Keyword("local-name"), wire.Str(r.LocalName),
		wire.Keyword("decl-as"), wire.Keyword(string(r.DeclaredAs)),
	}
	if r.Pos != nil {
		elems = append(elems, wire.Keyword("pos"), encodeIndexPosition(*r.Pos))
	}
	if r.Owner != "" {
		elems = append(elems, wire.Keyword("owner"), wire.Str(r.Owner))
	}
	return wire.ListOf(elems)
}

func encodeIndexPosition(p indexer.Position) wire.Value {
	return wire.List(wire.Keyword("file"), wire.Str(p.File), wire.Keyword("offset"), wire.Int(int64(p.Offset)))
}

func encodeSymbolResultList(rs []indexer.SymbolResult) wire.Value {
	elems := make([]wire.Value, len(rs))
	for i, r := range rs {
		elems[i] = encodeSymbolResult(r)
	}
	return wire.ListOf(elems)
}

func encodeImportSuggestions(m map[string][]indexer.ImportSuggestion) wire.Value {
	elems := make([]wire.Value, 0, len(m)*2)
	for name, suggestions := range m {
		ranked := make([]wire.Value, len(suggestions))
		for i, s := range suggestions {
			ranked[i] = encodeSymbolResult(s.Result)
		}
		elems = append(elems, wire.Str(name), wire.ListOf(ranked))
	}
	return wire.ListOf(elems)
}

func encodeCompletionList(cs []analyzer.Completion) wire.Value {
	elems := make([]wire.Value, len(cs))
	for i, c := range cs {
		elems[i] = wire.List(
			wire.Keyword("name"), wire.Str(c.Name),
			wire.Keyword("type-sig"), wire.Str(c.TypeSig),
			wire.Keyword("to-insert"), wire.Str(c.ToInsert),
			wire.Keyword("relevance"), wire.Int(int64(c.Relevance)),
		)
	}
	return wire.ListOf(elems)
}

func encodeSourceRangeList(rs []analyzer.SourceRange) wire.Value {
	elems := make([]wire.Value, len(rs))
	for i, rg := range rs {
		elems[i] = wire.List(
			wire.Keyword("file"), wire.Str(rg.File),
			wire.Keyword("start"), wire.Int(int64(rg.Start)),
			wire.Keyword("end"), wire.Int(int64(rg.End)),
		)
	}
	return wire.ListOf(elems)
}

func encodeTypeInfo(t *analyzer.TypeInfo) wire.Value {
	if t == nil {
		return wire.Nil
	}
	elems := []wire.Value{
		wire.Keyword("name"), wire.Str(t.Name),
		wire.Keyword("full-name"), wire.Str(t.FullName),
		wire.Keyword("decl-as"), wire.Keyword(string(t.DeclaredAs)),
	}
	if t.Pos != nil {
		elems = append(elems, wire.Keyword("pos"), wire.List(
			wire.Keyword("file"), wire.Str(t.Pos.File),
			wire.Keyword("offset"), wire.Int(int64(t.Pos.Offset)),
		))
	}
	if len(t.Members) > 0 {
		members := make([]wire.Value, len(t.Members))
		for i := range t.Members {
			members[i] = encodeTypeInfo(&t.Members[i])
		}
		elems = append(elems, wire.Keyword("members"), wire.ListOf(members))
	}
	return wire.ListOf(elems)
}

func encodeSymbolInfo(s *analyzer.SymbolInfo) wire.Value {
	if s == nil {
		return wire.Nil
	}
	return wire.List(
		wire.Keyword("name"), wire.Str(s.Name),
		wire.Keyword("local-name"), wire.Str(s.LocalName),
		wire.Keyword("type"), encodeTypeInfo(&s.Type),
	)
}

func encodeDesignationList(ds []analyzer.Designation) wire.Value {
	elems := make([]wire.Value, len(ds))
	for i, d := range ds {
		elems[i] = wire.List(
			wire.Keyword("start"), wire.Int(int64(d.Start)),
			wire.Keyword("end"), wire.Int(int64(d.End)),
			wire.Keyword("kind"), wire.Str(d.Kind),
		)
	}
	return wire.ListOf(elems)
}

func encodeBool(b bool) wire.Value { return wire.Bool(b) }

func encodeBacktraceFrame(f debug.BacktraceFrame) wire.Value {
	locals := make([]wire.Value, len(f.Locals))
	for i, l := range f.Locals {
		locals[i] = wire.List(
			wire.Keyword("offset"), wire.Int(int64(l.Offset)),
			wire.Keyword("name"), wire.Str(l.Name),
			wire.Keyword("type-name"), wire.Str(l.TypeName),
			wire.Keyword("value"), wire.Str(l.ValueText),
		)
	}
	return wire.List(
		wire.Keyword("index"), wire.Int(int64(f.Index)),
		wire.Keyword("locals"), wire.ListOf(locals),
		wire.Keyword("num-args"), wire.Int(int64(f.NumArgs)),
		wire.Keyword("class-name"), wire.Str(f.ClassName),
		wire.Keyword("method-name"), wire.Str(f.MethodName),
		wire.Keyword("pc-file"), wire.Str(f.PCPosition.File),
		wire.Keyword("pc-line"), wire.Int(int64(f.PCPosition.Line)),
		wire.Keyword("this-object-id"), wire.Int(f.ThisObjectID),
	)
}

func encodeBacktrace(fs []debug.BacktraceFrame) wire.Value {
	elems := make([]wire.Value, len(fs))
	for i, f := range fs {
		elems[i] = encodeBacktraceFrame(f)
	}
	return wire.ListOf(elems)
}
