package scraper

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const minNameLength = 3

// Checked in this order; only the first one present splits the text.
var nameSeparators = []string{"\n", "–", "|", ":"}

// CleanName reduces a raw list fragment to a person's name. Address lines,
// district suffixes and trailing punctuation are dropped. The result can be
// empty; callers should also check ValidName.
func CleanName(raw string) string {
	text := strings.TrimSpace(raw)

	for _, sep := range nameSeparators {
		if idx := strings.Index(text, sep); idx >= 0 {
			text = strings.TrimSpace(text[:idx])
			break
		}
	}

	if strings.IndexFunc(text, unicode.IsDigit) >= 0 {
		var kept []string
		for _, tok := range strings.Fields(text) {
			if strings.IndexFunc(tok, unicode.IsDigit) >= 0 {
				break
			}
			kept = append(kept, tok)
		}
		text = strings.Join(kept, " ")
	}

	return strings.TrimRightFunc(text, func(r rune) bool {
		return r == '.' || r == ',' || r == ';' || r == ':' || unicode.IsSpace(r)
	})
}

func ValidName(name string) bool {
	return utf8.RuneCountInString(name) >= minNameLength
}
