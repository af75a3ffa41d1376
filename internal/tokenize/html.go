package tokenize

import (
	"strings"

	"golang.org/x/net/html"
)

// TextTags are tags whose content is indexed at normal weight.
var TextTags = map[string]bool{
	"p": true, "ul": true, "ol": true, "li": true, "table": true,
	"tr": true, "td": true, "cite": true, "q": true,
}

// ImportantTags are tags whose content is indexed at ImportantMult weight
// and whose stopwords are retained rather than dropped.
var ImportantTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "b": true, "strong": true,
	"title": true,
}

// Document is the result of parsing one HTML document: the full visible
// text (used for near-duplicate shingling) and the weighted token tally
// (used for indexing).
type Document struct {
	Text   string
	Counts map[string]int
}

// Parse decodes HTML content with a lenient parser (golang.org/x/net/html
// recovers from malformed markup the same way the source's XML-mode
// BeautifulSoup parser tolerates non-XML input) and extracts the document
// text plus the weighted token tally across TextTags and ImportantTags.
//
// Tags are visited independently in document order: a tag nested inside
// another indexed tag (e.g. <h1><b>word</b></h1>) contributes tokens from
// both traversals. This double-counting is preserved per spec.md's Open
// Questions rather than deduplicated.
func Parse(content string) Document {
	node, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return Document{Counts: map[string]int{}}
	}

	var textBuf strings.Builder
	counts := make(map[string]int)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			textBuf.WriteString(n.Data)
			textBuf.WriteByte(' ')
		}
		if n.Type == html.ElementNode {
			name := n.Data
			important := ImportantTags[name]
			if important || TextTags[name] {
				tallyTag(n, important, counts)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)

	return Document{Text: textBuf.String(), Counts: counts}
}

// tallyTag extracts the concatenated text of n's descendants, tokenizes
// it, and tallies stemmed tokens into counts at normal or important
// weight, dropping stopwords unless the tag is important.
func tallyTag(n *html.Node, important bool, counts map[string]int) {
	text := tagText(n)
	weight := 1
	if important {
		weight = ImportantMult
	}
	for _, word := range Words(text) {
		token := Stem(word)
		if IsStopword(token) && !important {
			continue
		}
		counts[token] += weight
	}
}

func tagText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
