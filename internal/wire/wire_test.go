package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseValueRoundTrip(t *testing.T) {
	cases := []Value{
		Int(42),
		Int(-7),
		Str(`hello "world"`),
		Keyword("swank-rpc"),
		Symbol("nil-like-but-not"),
		Nil,
		True,
		List(Keyword("swank-rpc"), List(Symbol("completions"), Str("/a.scala"), Int(10)), Int(1)),
	}
	for _, c := range cases {
		text := WriteValue(c)
		got, err := ParseValue(text)
		require.NoError(t, err)
		require.Equal(t, WriteValue(c), WriteValue(got))
	}
}

func TestParseValueTrailingGarbageErrors(t *testing.T) {
	_, err := ParseValue("(:ok 1) garbage")
	require.Error(t, err)
}

func TestParseValueUnterminatedList(t *testing.T) {
	_, err := ParseValue("(:ok 1")
	require.Error(t, err)
}

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	req := List(Keyword("swank-rpc"), List(Symbol("reload-all")), Int(3))
	require.NoError(t, WriteFrame(&buf, req))

	got, err := ReadFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, WriteValue(req), WriteValue(got))
}

func TestFrameHeaderIsHexByteCount(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, Str("ab")))
	header := buf.String()[:6]
	require.Equal(t, "000004", header) // `"ab"` is 4 bytes
}

func TestKeywordArg(t *testing.T) {
	v := List(Keyword("root-dir"), Str("/proj"), Keyword("name"), Str("foo"))
	got, ok := v.KeywordArg("name")
	s, _ := got.AsString()
	require.True(t, ok)
	require.Equal(t, "foo", s)

	_, ok = v.KeywordArg("missing")
	require.False(t, ok)
}
