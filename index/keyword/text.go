package keyword

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Stop words dropped from both documents and queries. Korean particles and
// single-syllable fillers sit next to the usual English ones.
var stopWords = map[string]bool{
	"이": true, "그": true, "저": true, "것": true, "수": true, "있": true,
	"하": true, "되": true, "될": true, "한": true, "일": true, "때": true,
	"중": true, "및": true, "등": true,
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true,
}

// Tokenize normalizes text to NFC, lowercases it, replaces every rune that is
// not a letter, number, mark, underscore or space with a space, and splits on
// whitespace. Tokens of one rune and stop words are removed.
func Tokenize(text string) []string {
	text = cases.Lower(language.Und).String(norm.NFC.String(text))

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r), unicode.IsMark(r), r == '_':
			return r
		case unicode.IsSpace(r):
			return r
		default:
			return ' '
		}
	}, text)

	words := strings.Fields(cleaned)
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if len([]rune(w)) <= 1 || stopWords[w] {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}
