package indexer

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitTypeName(t *testing.T) {
	require.Equal(t, []string{"Foo", "Bar", "Baz"}, SplitTypeName("FooBarBaz"))
	require.Nil(t, SplitTypeName(""))
	require.Equal(t, []string{"U", "R", "L", "Parser"}, SplitTypeName("URLParser"))
}

func TestTokenize(t *testing.T) {
	require.Equal(t, "foo.bar bazqux foo bar baz qux", Tokenize("Foo.Bar BazQux"))
}

func TestTokenizeIdempotentTokenSet(t *testing.T) {
	once := Tokenize("Foo.Bar BazQux")
	twice := Tokenize(once)
	require.Equal(t, tokenSet(once), tokenSet(twice))
}

func tokenSet(s string) []string {
	seen := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		seen[tok] = true
	}
	out := make([]string, 0, len(seen))
	for tok := range seen {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}
