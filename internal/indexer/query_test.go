package indexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func typeDoc(fqn string) IndexDocument {
	local := fqn
	if idx := lastDot(fqn); idx >= 0 {
		local = fqn[idx+1:]
	}
	return NewIndexDocument(SymbolResult{
		Name:       fqn,
		LocalName:  local,
		DeclaredAs: DeclaredClass,
	})
}

func lastDot(s string) int {
	idx := -1
	for i, r := range s {
		if r == '.' {
			idx = i
		}
	}
	return idx
}

// TestImportSuggestionsOrdersByEditDistanceThenLength exercises the spec's
// worked import-suggestion scenario: querying "List" against an index
// containing java.util.List, scala.collection.immutable.List and
// com.foo.Listicle must return all three, with the exact-name matches first
// (shorter fully-qualified name wins the tie) and the edit-distance-4
// Listicle match last.
func TestImportSuggestionsOrdersByEditDistanceThenLength(t *testing.T) {
	docs := []IndexDocument{
		typeDoc("java.util.List"),
		typeDoc("scala.collection.immutable.List"),
		typeDoc("com.foo.Listicle"),
	}

	out := ImportSuggestions(docs, []string{"List"}, 0)
	suggestions := out["List"]
	require.Len(t, suggestions, 3)

	names := make([]string, len(suggestions))
	for i, s := range suggestions {
		names[i] = s.Result.Name
	}
	require.Equal(t, []string{
		"java.util.List",
		"scala.collection.immutable.List",
		"com.foo.Listicle",
	}, names)

	require.Equal(t, 0, suggestions[0].EditDistance)
	require.Equal(t, 0, suggestions[1].EditDistance)
	require.Equal(t, 4, suggestions[2].EditDistance)
}

func TestKeywordSearchTypesOnlyFiltersMethods(t *testing.T) {
	docs := []IndexDocument{
		typeDoc("com.foo.Widget"),
		NewIndexDocument(SymbolResult{
			Name:       "com.foo.Widget.render",
			LocalName:  "render",
			DeclaredAs: DeclaredMethod,
			Owner:      "com.foo.Widget",
		}),
	}
	results := KeywordSearch(docs, []string{"widget"}, 0, true, false)
	require.Len(t, results, 1)
	require.Equal(t, "com.foo.Widget", results[0].Name)
}

func TestKeywordSearchPrefixRanksShorterNameHigher(t *testing.T) {
	docs := []IndexDocument{
		typeDoc("com.foo.bar.baz.qux.Connection"),
		typeDoc("net.io.Connection"),
	}
	results := KeywordSearch(docs, []string{"conn"}, 0, true, false)
	require.Len(t, results, 2)
	require.Equal(t, "net.io.Connection", results[0].Name)
}

func TestKeywordSearchEmptyKeywordsReturnsNil(t *testing.T) {
	docs := []IndexDocument{typeDoc("com.foo.Widget")}
	require.Nil(t, KeywordSearch(docs, []string{"", "  "}, 0, false, false))
}
