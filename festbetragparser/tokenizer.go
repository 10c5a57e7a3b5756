package festbetragparser

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Token is one whitespace-separated field of a source line, classified as
// numeric or textual. The lists use the German decimal comma, so a token is
// numeric when it parses after replacing every comma with a dot.
type Token struct {
	Raw     string
	Index   int
	Numeric bool
	Value   decimal.Decimal
}

// Tokenize splits a line into whitespace tokens and classifies every token.
// The classification is the named first stage of the extraction pipeline:
// raw line -> tokens -> numeric-token index list -> derived field spans.
func Tokenize(line string) []Token {
	fields := strings.Fields(line)
	tokens := make([]Token, 0, len(fields))

	for i, field := range fields {
		token := Token{Raw: field, Index: i}

		if value, err := decimal.NewFromString(strings.ReplaceAll(field, ",", ".")); err == nil {
			token.Numeric = true
			token.Value = value
		}

		tokens = append(tokens, token)
	}

	return tokens
}

// NumericIndices returns the positions of all numeric tokens, in appearance
// order. Field extraction counts from both ends of this list.
func NumericIndices(tokens []Token) []int {
	indices := make([]int, 0, len(tokens))
	for _, token := range tokens {
		if token.Numeric {
			indices = append(indices, token.Index)
		}
	}
	return indices
}

// IsDarreichungsformToken reports whether a token looks like a dosage-form
// code: all-alphabetic and all-uppercase (TABL, FTBL, IJLG, ...). A short
// uppercase manufacturer fragment also satisfies this, which the source data
// does not disambiguate; the extractor takes the first candidate and leaves
// unknown codes to surface through the normalizer passthrough.
func IsDarreichungsformToken(raw string) bool {
	if raw == "" {
		return false
	}
	for _, r := range raw {
		if !unicode.IsLetter(r) || !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
