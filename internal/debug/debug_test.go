package debug

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adamchandra/ensime/internal/jdwp"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 100}))
}

func TestBreakpointSetStartsEmptyAndDisjoint(t *testing.T) {
	s := newBreakpointSet()
	pos := SourcePosition{File: "Foo.scala", Line: 42}

	require.False(t, s.isActive(pos))
	require.Empty(t, s.pendingForBasename("Foo.scala"))

	s.markPending(pos)
	require.False(t, s.isActive(pos))
	require.Equal(t, []SourcePosition{pos}, s.pendingForBasename("Foo.scala"))

	s.markActive(pos, &installedBreakpoint{requestIDs: []jdwp.RequestID{1, 2}})
	require.True(t, s.isActive(pos))
	require.Empty(t, s.pendingForBasename("Foo.scala"), "markActive must remove the position from pending")
}

func TestBreakpointSetTakeActiveRemoves(t *testing.T) {
	s := newBreakpointSet()
	pos := SourcePosition{File: "Foo.scala", Line: 10}
	s.markActive(pos, &installedBreakpoint{requestIDs: []jdwp.RequestID{7}})

	b, ok := s.takeActive(pos)
	require.True(t, ok)
	require.Equal(t, []jdwp.RequestID{7}, b.requestIDs)
	require.False(t, s.isActive(pos))

	_, ok = s.takeActive(pos)
	require.False(t, ok, "taking an already-removed breakpoint must fail")
}

func TestBreakpointSetMigrateActiveToPending(t *testing.T) {
	s := newBreakpointSet()
	a := SourcePosition{File: "A.scala", Line: 1}
	b := SourcePosition{File: "B.scala", Line: 2}
	s.markActive(a, &installedBreakpoint{})
	s.markActive(b, &installedBreakpoint{})

	s.migrateActiveToPending()

	require.False(t, s.isActive(a))
	require.False(t, s.isActive(b))
	require.Equal(t, []SourcePosition{a}, s.pendingForBasename("A.scala"))
	require.Equal(t, []SourcePosition{b}, s.pendingForBasename("B.scala"))
}

func TestBreakpointSetResetClearsBoth(t *testing.T) {
	s := newBreakpointSet()
	active := SourcePosition{File: "A.scala", Line: 1}
	pending := SourcePosition{File: "B.scala", Line: 2}
	s.markActive(active, &installedBreakpoint{})
	s.markPending(pending)

	s.reset()

	require.False(t, s.isActive(active))
	require.Empty(t, s.pendingForBasename("B.scala"))
	require.Empty(t, s.allActive())
}

func TestBreakpointSetRemovePending(t *testing.T) {
	s := newBreakpointSet()
	pos := SourcePosition{File: "Foo.scala", Line: 5}
	s.markPending(pos)
	s.removePending(pos)
	require.Empty(t, s.pendingForBasename("Foo.scala"))
}

func TestSourceMapAddAndClassesFor(t *testing.T) {
	m := newSourceMap()
	m.Add("Foo.scala", jdwp.ReferenceTypeID(1))
	m.Add("Foo.scala", jdwp.ReferenceTypeID(2))
	m.Add("Bar.scala", jdwp.ReferenceTypeID(3))

	classes := m.ClassesFor("Foo.scala")
	require.ElementsMatch(t, []jdwp.ReferenceTypeID{1, 2}, classes)
	require.Empty(t, m.ClassesFor("Nonexistent.scala"))

	m.Reset()
	require.Empty(t, m.ClassesFor("Foo.scala"))
}

func TestBasenameOf(t *testing.T) {
	require.Equal(t, "Foo.scala", basenameOf("/src/main/scala/com/foo/Foo.scala"))
	require.Equal(t, "Foo.scala", basenameOf("Foo.scala"))
}

func TestSignatureTag(t *testing.T) {
	cases := map[string]byte{
		"I":                  jdwp.TagInt,
		"J":                  jdwp.TagLong,
		"Z":                  jdwp.TagBoolean,
		"C":                  jdwp.TagChar,
		"[I":                 jdwp.TagArray,
		"Ljava/lang/String;": jdwp.TagString,
		"Lcom/foo/Bar;":      jdwp.TagObject,
		"":                   jdwp.TagObject,
	}
	for sig, want := range cases {
		require.Equal(t, want, signatureTag(sig), "signature %q", sig)
	}
}

func TestIsBoxedReferenceCell(t *testing.T) {
	require.True(t, isBoxedReferenceCell("scala.runtime.ObjectRef"))
	require.True(t, isBoxedReferenceCell("scala.runtime.IntRef"))
	require.False(t, isBoxedReferenceCell("scala.collection.immutable.List"))
	require.False(t, isBoxedReferenceCell("com.foo.ObjectRef"))
}

func TestValueSummaryPrimitives(t *testing.T) {
	c := New(testLogger())
	ctx := context.Background()

	cases := []struct {
		v    jdwp.Value
		want string
	}{
		{jdwp.Value{Tag: jdwp.TagBoolean, Bool: true}, "true"},
		{jdwp.Value{Tag: jdwp.TagInt, Int: 42}, "42"},
		{jdwp.Value{Tag: jdwp.TagLong, Long: 9000000000}, "9000000000"},
		{jdwp.Value{Tag: jdwp.TagChar, Char: 'x'}, "'x'"},
		{jdwp.Value{Tag: jdwp.TagVoid}, "()"},
		{jdwp.Value{Tag: jdwp.TagObject, Object: 0}, "null"},
	}
	for _, tc := range cases {
		got, err := c.valueSummary(ctx, nil, tc.v)
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}
}

func TestMirrorValuePrimitives(t *testing.T) {
	ctx := context.Background()

	v, err := mirrorValue(ctx, nil, jdwp.TagInt, "42")
	require.NoError(t, err)
	require.Equal(t, int32(42), v.Int)

	v, err = mirrorValue(ctx, nil, jdwp.TagBoolean, "true")
	require.NoError(t, err)
	require.True(t, v.Bool)

	v, err = mirrorValue(ctx, nil, jdwp.TagChar, "xyz")
	require.NoError(t, err)
	require.Equal(t, 'x', v.Char)

	v, err = mirrorValue(ctx, nil, jdwp.TagLong, "123456789012")
	require.NoError(t, err)
	require.Equal(t, int64(123456789012), v.Long)

	_, err = mirrorValue(ctx, nil, jdwp.TagChar, "")
	require.Error(t, err, "empty text for a char slot must fail")

	_, err = mirrorValue(ctx, nil, jdwp.TagInt, "not-a-number")
	require.Error(t, err)

	_, err = mirrorValue(ctx, nil, jdwp.TagThread, "anything")
	require.Error(t, err, "unsupported mutation target types must fail, never panic")
}

func TestTrimQuotes(t *testing.T) {
	require.Equal(t, "hello", trimQuotes(`"hello"`))
	require.Equal(t, "hello", trimQuotes("hello"))
	require.Equal(t, `"unbalanced`, trimQuotes(`"unbalanced`))
}

func TestPinTableLookupAndClear(t *testing.T) {
	p := newPinTable()
	p.entries[17] = pinnedEntry{id: jdwp.ObjectID(17), tag: jdwp.TagObject}

	id, tag, ok := p.Lookup(17)
	require.True(t, ok)
	require.Equal(t, jdwp.ObjectID(17), id)
	require.Equal(t, jdwp.TagObject, tag)

	_, _, ok = p.Lookup(99)
	require.False(t, ok)

	p.Clear()
	_, _, ok = p.Lookup(17)
	require.False(t, ok, "Clear must evict every pinned entry")
}

func TestStateString(t *testing.T) {
	require.Equal(t, "disconnected", StateDisconnected.String())
	require.Equal(t, "connecting", StateConnecting.String())
	require.Equal(t, "running", StateRunning.String())
}
