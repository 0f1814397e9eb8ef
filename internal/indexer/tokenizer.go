package indexer

import (
	"strings"
	"unicode"
)

// SplitTypeName splits on camel-case boundaries: every uppercase character
// preceded by anything starts a new token. The trailing run of characters
// after the last boundary is also a token.
//
//	SplitTypeName("FooBarBaz") = ["Foo","Bar","Baz"]
//	SplitTypeName("")          = []
//	SplitTypeName("URLParser") = ["U","R","L","Parser"]
func SplitTypeName(name string) []string {
	if name == "" {
		return nil
	}
	var tokens []string
	runes := []rune(name)
	start := 0
	for i := 1; i < len(runes); i++ {
		if unicode.IsUpper(runes[i]) {
			tokens = append(tokens, string(runes[start:i]))
			start = i
		}
	}
	tokens = append(tokens, string(runes[start:]))
	return tokens
}

// Tokenize lowercases text, splits it on spaces, dots, and camel-case
// boundaries, and joins the result as: the original lowercased string,
// followed by one space-separated token per split.
//
//	Tokenize("Foo.Bar BazQux") == "foo.bar bazqux foo bar baz qux"
func Tokenize(text string) string {
	lower := strings.ToLower(text)
	var tokens []string
	for _, field := range splitSpaceAndDot(text) {
		for _, camel := range SplitTypeName(field) {
			if camel == "" {
				continue
			}
			tokens = append(tokens, strings.ToLower(camel))
		}
	}
	parts := append([]string{lower}, tokens...)
	return strings.Join(parts, " ")
}

func splitSpaceAndDot(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == '.'
	})
}
