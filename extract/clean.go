package extract

import (
	"regexp"
	"strings"
)

// CleanText normalises extracted text for storage and search.
// It collapses whitespace, removes zero-width characters, and trims.
func CleanText(text string) string {
	// Remove zero-width characters.
	text = strings.Map(func(r rune) rune {
		switch r {
		case '\u200b', '\u200c', '\u200d', '\ufeff', '\u00ad':
			return -1
		}
		return r
	}, text)

	// Collapse multiple whitespace to single space.
	text = collapseWhitespace(text)

	// Trim leading/trailing whitespace.
	text = strings.TrimSpace(text)

	return text
}

var multiSpaceRe = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return multiSpaceRe.ReplaceAllString(s, " ")
}
