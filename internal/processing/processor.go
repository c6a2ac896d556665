package processing

import (
	"crypto/sha1"
	"encoding/hex"
	"html"
	"regexp"
	"strings"
)

var (
	whitespace  = regexp.MustCompile(`\s+`)
	punctuation = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	htmlTag     = regexp.MustCompile(`<[^>]*>`)
	bracketTag  = regexp.MustCompile(`\[[^\]]*\]`)
)

// Normalize lowercases the input, strips every rune that is not a letter,
// digit, or whitespace, and squeezes whitespace runs into single spaces.
func Normalize(input string) string {
	if input == "" {
		return ""
	}
	clean := strings.ToLower(input)
	clean = punctuation.ReplaceAllString(clean, "")
	clean = whitespace.ReplaceAllString(clean, " ")
	return strings.TrimSpace(clean)
}

// Tokenize normalizes the input and returns the set of words longer than
// minLen runes. Short words carry too little signal for headline matching.
func Tokenize(input string, minLen int) TokenSet {
	tokens := make(TokenSet)
	for _, word := range strings.Fields(Normalize(input)) {
		if len([]rune(word)) > minLen {
			tokens[word] = struct{}{}
		}
	}
	return tokens
}

// CleanTitle prepares a headline for display: HTML entities are decoded,
// bracketed tags like [Video] are dropped, and a trailing " - Outlet" or
// " | Outlet" attribution is removed when it names the article's own source.
// Trailing chunks that do not match the source are kept; they may be part of
// the headline itself.
func CleanTitle(title, sourceName string) string {
	clean := html.UnescapeString(title)
	clean = bracketTag.ReplaceAllString(clean, " ")
	if trimmed := strings.TrimSpace(sourceName); trimmed != "" {
		for _, sep := range []string{" - ", " | "} {
			idx := strings.LastIndex(clean, sep)
			if idx <= 0 {
				continue
			}
			if strings.EqualFold(strings.TrimSpace(clean[idx+len(sep):]), trimmed) {
				clean = clean[:idx]
				break
			}
		}
	}
	clean = whitespace.ReplaceAllString(clean, " ")
	return strings.TrimSpace(clean)
}

// StripHTML removes markup tags and decodes entities from provider
// descriptions, which frequently arrive as HTML fragments.
func StripHTML(input string) string {
	clean := htmlTag.ReplaceAllString(input, " ")
	clean = html.UnescapeString(clean)
	clean = whitespace.ReplaceAllString(clean, " ")
	return strings.TrimSpace(clean)
}

// Truncate shortens a string to at most max runes, appending an ellipsis
// when anything was cut.
func Truncate(input string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(input)
	if len(runes) <= max {
		return input
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// Slug builds a lowercase hyphen-separated identifier from a title,
// truncated to at most maxLen runes. Titles that normalize to nothing fall
// back to a short hash so the result is deterministic and never empty.
func Slug(input string, maxLen int) string {
	norm := Normalize(input)
	if norm == "" {
		sum := sha1.Sum([]byte(input))
		return hex.EncodeToString(sum[:])[:12]
	}
	slug := strings.ReplaceAll(norm, " ", "-")
	runes := []rune(slug)
	if maxLen > 0 && len(runes) > maxLen {
		slug = strings.TrimRight(string(runes[:maxLen]), "-")
	}
	return slug
}
