package indexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevenshteinMemoDistance(t *testing.T) {
	m := NewLevenshteinMemo()
	require.Equal(t, 0, m.Distance("List", "List"))
	require.Equal(t, 1, m.Distance("List", "Lists"))
	require.Equal(t, 4, m.Distance("List", "Listicle"))
}

func TestLevenshteinMemoCachesAcrossCalls(t *testing.T) {
	m := NewLevenshteinMemo()
	first := m.Distance("Analyzer", "Analyser")
	second := m.Distance("Analyzer", "Analyser")
	require.Equal(t, first, second)
	require.Equal(t, 1, first)
}

func TestFuzzySimilarityIdenticalIsOne(t *testing.T) {
	require.Equal(t, 1.0, fuzzySimilarity("list", "list"))
}

func TestFuzzySimilarityTransposition(t *testing.T) {
	// Damerau-Levenshtein counts an adjacent swap as a single edit, so two
	// four-letter strings differing only by a transposed pair stay close.
	sim := fuzzySimilarity("form", "from")
	require.InDelta(t, 0.75, sim, 0.001)
}

func TestFuzzySimilarityBelowThresholdForUnrelatedWords(t *testing.T) {
	require.Less(t, fuzzySimilarity("list", "xyzzyplugh"), fuzzyMinSimilarity)
}
