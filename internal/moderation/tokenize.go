package moderation

import (
	"strings"
	"unicode"
)

// tokenize lowercases content and splits it into word tokens. Apostrophes
// are kept inside words ("don't" stays one token); everything else that is
// not a letter or digit is a delimiter.
func tokenize(content string) []string {
	lower := strings.ToLower(content)
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}
