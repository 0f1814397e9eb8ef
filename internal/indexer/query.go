package indexer

import (
	"sort"
	"strings"
)

// scoredDoc pairs a document with its accumulated query score.
type scoredDoc struct {
	doc   IndexDocument
	score float64
}

// lengthNormBoost overrides field-length normalization to be strictly
// proportional to the inverse field length (boost * 1/length), so short
// fully-qualified names are ranked ahead of long ones with identical term
// matches. This is the load-bearing similarity override spec.md calls out.
const lengthNormBoost = 1.0

func fieldLengthNorm(name string) float64 {
	if len(name) == 0 {
		return lengthNormBoost
	}
	return lengthNormBoost / float64(len(name))
}

// KeywordSearch runs a keyword query over docs per spec.md §4.2's query
// construction: keywords lowercased, empty ones dropped; field is
// localNameTags when typesOnly else tags; fuzzy keywords combine as SHOULD,
// prefix keywords combine as MUST; a mandatory docType=type clause is
// added when typesOnly.
func KeywordSearch(docs []IndexDocument, keywords []string, limit int, typesOnly, fuzzy bool) []SymbolResult {
	clauses := normalizeKeywords(keywords)
	if len(clauses) == 0 {
		return nil
	}

	var candidates []scoredDoc
	for _, doc := range docs {
		if typesOnly && doc.DocType != DocTypeType {
			continue
		}
		field := doc.Tags
		if typesOnly {
			field = doc.LocalNameTags
		}
		fieldTokens := strings.Fields(field)

		matched := 0
		total := 0.0
		for _, kw := range clauses {
			best := bestTokenScore(fieldTokens, kw, fuzzy)
			if best <= 0 {
				continue
			}
			matched++
			total += best * fieldLengthNorm(doc.Name)
		}

		if fuzzy {
			if matched == 0 {
				continue // SHOULD: at least one clause must match
			}
		} else if matched != len(clauses) {
			continue // MUST: every clause must match
		}

		candidates = append(candidates, scoredDoc{doc: doc, score: total})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	results := make([]SymbolResult, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, c.doc.SymbolResult)
	}
	return results
}

func normalizeKeywords(keywords []string) []string {
	var out []string
	for _, k := range keywords {
		lower := strings.ToLower(strings.TrimSpace(k))
		if lower == "" {
			continue
		}
		out = append(out, lower)
	}
	return out
}

// bestTokenScore returns the best relevance score >0 a keyword achieves
// against any token in fieldTokens: for fuzzy, similarity when it clears
// fuzzyMinSimilarity; for prefix, a rewrite that preserves relevance
// scoring (proportional to overlap) rather than constant scoring, so
// length normalization still ranks shorter matches higher.
func bestTokenScore(fieldTokens []string, keyword string, fuzzy bool) float64 {
	best := 0.0
	for _, tok := range fieldTokens {
		var score float64
		if fuzzy {
			sim := fuzzySimilarity(keyword, tok)
			// A token that extends the keyword as a literal prefix always
			// qualifies, mirroring Lucene's fuzzy automaton (which widens
			// its edit budget with term length): a short, pure-insertion
			// suffix should not be rejected just because the continuous
			// similarity score dips under the floor.
			if sim < fuzzyMinSimilarity && !strings.HasPrefix(tok, keyword) {
				continue
			}
			score = sim
		} else {
			if !strings.HasPrefix(tok, keyword) {
				continue
			}
			score = float64(len(keyword)) / float64(len(tok))
		}
		if score > best {
			best = score
		}
	}
	return best
}

// ImportSuggestion is one ranked candidate for a requested type name.
type ImportSuggestion struct {
	Result     SymbolResult
	EditDistance int
}

// ImportSuggestions builds, for each requested type name, the keyword set
// {name} ∪ camel-case splits of name, runs a types-only fuzzy search,
// dedupes, and ranks by (editDistance(result.localName, name) ascending,
// length(result.name) ascending), memoizing Levenshtein distances across
// the whole call.
func ImportSuggestions(docs []IndexDocument, typeNames []string, limit int) map[string][]ImportSuggestion {
	memo := NewLevenshteinMemo()
	out := make(map[string][]ImportSuggestion, len(typeNames))

	for _, name := range typeNames {
		keywords := append([]string{name}, SplitTypeName(name)...)
		matches := KeywordSearch(docs, keywords, 0, true, true)

		seen := make(map[string]bool, len(matches))
		suggestions := make([]ImportSuggestion, 0, len(matches))
		for _, m := range matches {
			if seen[m.Name] {
				continue
			}
			seen[m.Name] = true
			suggestions = append(suggestions, ImportSuggestion{
				Result:       m,
				EditDistance: memo.Distance(m.LocalName, name),
			})
		}

		sort.SliceStable(suggestions, func(i, j int) bool {
			if suggestions[i].EditDistance != suggestions[j].EditDistance {
				return suggestions[i].EditDistance < suggestions[j].EditDistance
			}
			return len(suggestions[i].Result.Name) < len(suggestions[j].Result.Name)
		})

		if limit > 0 && len(suggestions) > limit {
			suggestions = suggestions[:limit]
		}
		out[name] = suggestions
	}
	return out
}
