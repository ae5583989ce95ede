package moderation

import (
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// spamPhrases is the fixed phrase list matched case-insensitively as
// substrings. Each phrase hit contributes the same weight.
var spamPhrases = []string{
	"click here",
	"buy now",
	"free gift",
	"limited time offer",
	"act now",
	"make money fast",
	"work from home",
	"100% free",
	"risk free",
	"no credit check",
	"earn extra cash",
	"double your income",
	"get paid to",
	"lose weight fast",
	"miracle cure",
	"order now",
	"special promotion",
	"winner winner",
	"you have been selected",
	"claim your prize",
	"crypto giveaway",
	"free bitcoin",
	"investment opportunity",
	"guaranteed returns",
	"dm me",
	"check my profile",
	"follow me for",
	"subscribe to my",
	"onlyfans",
	"hot singles",
	"cheap followers",
	"seo services",
}

var (
	// phonePattern matches phone-number shapes such as +1-555-123-4567,
	// (555) 123-4567, and 555.123.4567. It is anchored to whitespace or
	// string boundaries so short numbers and version strings do not match.
	phonePattern = regexp.MustCompile(`(?:^|\s)(\+?\d{1,3}[-.\s]?)?\(?\d{2,4}\)?[-.\s]?\d{3,4}[-.\s]?\d{3,4}(?:\s|$)`)

	// emailPattern matches email-shaped strings.
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
)

// Spam score contributions. Contributions add and the sum is clamped to
// [0,1]; the thresholds in punctuationBurst gate the bonus.
const (
	spamPhraseWeight       = 0.15
	spamPunctuationBonus   = 0.25
	spamPhoneWeight        = 0.4
	spamEmailWeight        = 0.3
	spamPunctuationCount   = 5
	spamPunctuationDensity = 0.10
)

// SpamScorer computes a [0,1] spam probability from phrase matches and
// format signals. The phrase list is matched with Aho-Corasick so the cost
// stays linear in content length regardless of list size.
type SpamScorer struct {
	matcher *ahocorasick.Matcher
	phrases []string
}

// NewSpamScorer builds a scorer over the default phrase list.
func NewSpamScorer() *SpamScorer {
	return NewSpamScorerWithPhrases(spamPhrases)
}

// NewSpamScorerWithPhrases builds a scorer over a custom phrase list.
// Phrases are matched case-insensitively.
func NewSpamScorerWithPhrases(phrases []string) *SpamScorer {
	patterns := make([][]byte, len(phrases))
	lowered := make([]string, len(phrases))
	for i, p := range phrases {
		lowered[i] = strings.ToLower(p)
		patterns[i] = []byte(lowered[i])
	}
	return &SpamScorer{
		matcher: ahocorasick.NewMatcher(patterns),
		phrases: lowered,
	}
}

// Score returns the spam probability for content, clamped to [0,1].
func (s *SpamScorer) Score(content string) float64 {
	if content == "" {
		return 0
	}

	score := 0.0

	hits := s.matcher.Match([]byte(strings.ToLower(content)))
	score += float64(len(hits)) * spamPhraseWeight

	if punctuationBurst(content) {
		score += spamPunctuationBonus
	}
	if phonePattern.MatchString(content) {
		score += spamPhoneWeight
	}
	if emailPattern.MatchString(content) {
		score += spamEmailWeight
	}

	if score > 1 {
		return 1
	}
	return score
}

// punctuationBurst reports whether exclamation/question marks exceed 5
// absolute or 10% of content length.
func punctuationBurst(content string) bool {
	count := strings.Count(content, "!") + strings.Count(content, "?")
	if count > spamPunctuationCount {
		return true
	}
	return len(content) > 0 && float64(count)/float64(len(content)) > spamPunctuationDensity
}
