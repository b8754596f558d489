package usecase

import (
	"strings"
	"unicode"
)

// maxKeywordTokens matches Firestore's array-contains-any limit.
const maxKeywordTokens = 30

// KeywordTokens lower-cases text and splits it into unique word tokens of at
// least two characters, in first-seen order.
func KeywordTokens(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
		if len(tokens) == maxKeywordTokens {
			break
		}
	}
	return tokens
}
