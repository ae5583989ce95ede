package moderation

import (
	"regexp"
	"unicode"
)

// Compiled patterns for format heuristics. These are compiled once at
// package init and reused for every call, making them safe and efficient
// for concurrent use.
var (
	// htmlTagPattern matches anything that looks like an HTML tag. This is
	// a blunt denylist rather than a parser: comments are plain text or
	// Markdown, so any tag syntax is grounds for rejection.
	htmlTagPattern = regexp.MustCompile(`<[a-zA-Z!/][^>]*>`)

	// htmlEntityPattern matches HTML entities such as &amp; or &#x27;.
	htmlEntityPattern = regexp.MustCompile(`&#?[a-zA-Z0-9]{2,8};`)

	// scriptProtocolPattern matches javascript:/vbscript: protocol strings.
	scriptProtocolPattern = regexp.MustCompile(`(?i)\b(javascript|vbscript)\s*:`)

	// eventHandlerPattern matches inline event-handler attributes (onclick=,
	// onerror=, ...).
	eventHandlerPattern = regexp.MustCompile(`(?i)\bon\w+\s*=`)

	// styleAttrPattern matches style= attributes and CSS @import.
	styleAttrPattern = regexp.MustCompile(`(?i)(\bstyle\s*=|@import\b)`)

	// urlPattern matches http/https URLs, www. URLs, and bare domains with
	// common TLDs. The first two alternatives are greedy on purpose: a URL
	// anywhere outside an embed is disallowed.
	urlPattern = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+|\b[a-z0-9-]+(\.[a-z0-9-]+)*\.(com|net|org|io|co|xyz|info|biz|ru|cn|tk|ml|ga|cf)\b(/\S*)?)`)

	// rawLinkPattern counts raw URL occurrences for the link budget score.
	rawLinkPattern = regexp.MustCompile(`(?i)https?://\S+`)

	// Embed syntaxes exempt from the link rule. Markdown images, the custom
	// video embed, and raw media tags are stripped before the URL scan; a
	// naive URL regex would otherwise flag the embed syntax itself.
	embedPatterns = []*regexp.Regexp{
		regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`),
		regexp.MustCompile(`!video\[[^\]]*\]\([^)]*\)`),
		regexp.MustCompile(`(?is)<img[^>]*>`),
		regexp.MustCompile(`(?is)<video[^>]*>(.*?</video>)?`),
		regexp.MustCompile(`(?is)<iframe[^>]*>(.*?</iframe>)?`),
	}
)

// CapsRatio returns the fraction of letters that are uppercase. Non-letters
// are excluded from the denominator; content with no letters scores 0.
func CapsRatio(content string) float64 {
	letters, upper := 0, 0
	for _, r := range content {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(upper) / float64(letters)
}

// HasExcessiveRepetition reports whether any single character repeats 5 or
// more times consecutively. RE2 has no backreferences, so this is a linear
// scan rather than a (.)\1{4,} regex.
func HasExcessiveRepetition(content string) bool {
	const threshold = 5

	count := 1
	prev := rune(-1)
	for _, r := range content {
		if r == prev {
			count++
			if count >= threshold {
				return true
			}
		} else {
			count = 1
			prev = r
		}
	}
	return false
}

// ContainsEmbeddedCode reports whether content carries HTML, CSS, or
// JavaScript syntax: tags, entities, script protocols, inline event
// handlers, style attributes, or @import. Deliberately conservative — it
// over-blocks rather than under-blocks, since comments are plain text or
// Markdown.
func ContainsEmbeddedCode(content string) bool {
	return htmlTagPattern.MatchString(content) ||
		htmlEntityPattern.MatchString(content) ||
		scriptProtocolPattern.MatchString(content) ||
		eventHandlerPattern.MatchString(content) ||
		styleAttrPattern.MatchString(content)
}

// stripEmbeds removes recognized embed syntaxes from a working copy of the
// content so that URLs inside embeds do not trip the link scan.
func stripEmbeds(content string) string {
	stripped := content
	for _, p := range embedPatterns {
		stripped = p.ReplaceAllString(stripped, " ")
	}
	return stripped
}

// ContainsDisallowedLink reports whether content carries a URL outside of a
// recognized embed. Links inside Markdown images, video embeds, and raw
// media tags are allowed; everything else is not.
func ContainsDisallowedLink(content string) bool {
	return urlPattern.MatchString(stripEmbeds(content))
}

// CountLinks returns the number of raw URLs outside recognized embeds.
func CountLinks(content string) int {
	return len(rawLinkPattern.FindAllString(stripEmbeds(content), -1))
}

// TotalLinks returns the number of raw URLs anywhere in the content,
// embeds included. Embeds are exempt from the hard link rule but still
// count against the link budget.
func TotalLinks(content string) int {
	return len(rawLinkPattern.FindAllString(content, -1))
}
