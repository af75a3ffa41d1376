// Package tokenize extracts weighted tokens from HTML documents: lowercase,
// Porter-stemmed, alphanumeric words, tripled in weight inside important
// tags, with stopwords dropped everywhere except important tags.
package tokenize

import (
	"regexp"
	"strings"

	"github.com/surgebase/porter2"
)

// ImportantMult is the occurrence multiplier applied to tokens found
// inside an important tag (spec's IMPORTANT_MULT).
const ImportantMult = 3

// wordRE extracts maximal runs of ASCII letters and digits, equivalent to
// running a punctuation-aware word tokenizer and then keeping only the
// pieces that are entirely alphanumeric.
var wordRE = regexp.MustCompile(`[A-Za-z0-9]+`)

// Words splits text into lowercased, alphanumeric-only words. Punctuation
// and whitespace are treated purely as separators; a word like "don't"
// yields two tokens ("don", "t"), matching the effect of tokenizing first
// and then discarding any piece that isn't entirely alphanumeric.
func Words(text string) []string {
	matches := wordRE.FindAllString(text, -1)
	words := make([]string, len(matches))
	for i, m := range matches {
		words[i] = strings.ToLower(m)
	}
	return words
}

// Stem returns the Porter2 stem of a lowercased word.
func Stem(word string) string {
	return porter2.Stem(word)
}
