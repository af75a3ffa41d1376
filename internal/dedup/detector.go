package dedup

import "strings"

// ShingleN is the n-gram size used to shingle document text before
// hashing (spec's SHINGLE_N).
const ShingleN = 3

// SimilarityThreshold is the Jaccard threshold above which two documents
// are considered near-duplicates (spec's SIMILARITY_THRESHOLD).
const SimilarityThreshold = 0.7

// Detector is the stateful near-duplicate filter a build run owns: one
// LSH index accumulated across the whole corpus.
type Detector struct {
	lsh *LSH
}

// NewDetector builds a Detector tuned to SimilarityThreshold over
// NumPerm-permutation signatures.
func NewDetector() *Detector {
	return &Detector{lsh: NewLSH(SimilarityThreshold, NumPerm)}
}

// IsNearDuplicate shingles text into 3-grams of whitespace-split tokens,
// builds a MinHash signature, and queries the LSH index. If any prior
// document collides, it reports a duplicate and leaves the index
// unchanged; otherwise it inserts docid's signature and reports false.
func (d *Detector) IsNearDuplicate(text string, docid int) bool {
	m := NewMinHash()
	for _, shingle := range shingles(text, ShingleN) {
		m.Update([]byte(shingle))
	}

	if candidates := d.lsh.Query(m); len(candidates) > 0 {
		return true
	}
	d.lsh.Insert(docid, m)
	return false
}

// shingles returns the set of n-gram shingles of text's whitespace-split
// tokens, each shingle rendered as its tokens joined by a single space
// (matching nltk.ngrams(text.split(), n) followed by " ".join(shingle)).
// Unlike nltk.ngrams, a non-empty text with fewer than n tokens yields a
// single shingle of all its tokens rather than none; empty text yields nil.
func shingles(text string, n int) []string {
	tokens := strings.Fields(text)
	if len(tokens) < n {
		if len(tokens) == 0 {
			return nil
		}
		return []string{strings.Join(tokens, " ")}
	}

	seen := make(map[string]bool)
	var out []string
	for i := 0; i+n <= len(tokens); i++ {
		s := strings.Join(tokens[i:i+n], " ")
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
