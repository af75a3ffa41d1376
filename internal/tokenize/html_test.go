package tokenize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSimpleTag(t *testing.T) {
	doc := Parse("<p>alpha alpha</p>")
	require.Equal(t, 2, doc.Counts[Stem("alpha")])
}

func TestParseImportantTagWeighting(t *testing.T) {
	// <title>beta</title><p>beta</p> -> 3 from title + 1 from p.
	doc := Parse("<title>beta</title><p>beta</p>")
	require.Equal(t, 4, doc.Counts[Stem("beta")])
}

func TestParseStopwordDroppedOutsideImportantTag(t *testing.T) {
	doc := Parse("<p>the cat</p>")
	_, hasThe := doc.Counts[Stem("the")]
	require.False(t, hasThe)
	require.Equal(t, 1, doc.Counts[Stem("cat")])
}

func TestParseStopwordRetainedInsideImportantTag(t *testing.T) {
	doc := Parse("<h1>the</h1>")
	require.Equal(t, ImportantMult, doc.Counts[Stem("the")])
}

func TestParseDoubleCountsNestedImportantTags(t *testing.T) {
	// <h1><b>word</b></h1>: both the h1 traversal and the b traversal
	// tally "word" independently, per spec.md's Open Questions.
	doc := Parse("<h1><b>word</b></h1>")
	require.Equal(t, 2*ImportantMult, doc.Counts[Stem("word")])
}

func TestParseOnlyWhitespace(t *testing.T) {
	doc := Parse("<p>   </p>")
	require.Empty(t, doc.Counts)
}

func TestParseUntaggedTextIsNotIndexed(t *testing.T) {
	doc := Parse("loose text with no tags")
	require.Empty(t, doc.Counts)
}
