// Package shard defines the on-disk posting-shard format shared by the
// indexer and the search engine: the five-way alphabetic partition of the
// vocabulary, the posting-list type, and the binary codec used to persist
// both shard files and the docid->URL map.
package shard

import (
	"fmt"
	"path/filepath"
)

// RangeKey identifies one of the five disjoint vocabulary partitions a
// token's first character is routed to.
type RangeKey string

const (
	RangeAF    RangeKey = "a-f"
	RangeGL    RangeKey = "g-l"
	RangeMR    RangeKey = "m-r"
	RangeSZ    RangeKey = "s-z"
	RangeDigit RangeKey = "0-9"
)

// Keys lists all range keys in a fixed, stable order; callers that need to
// enumerate every shard file (clean build, search construction) range over
// this rather than a map.
var Keys = []RangeKey{RangeAF, RangeGL, RangeMR, RangeSZ, RangeDigit}

// Partition maps a token's first rune to its range key. It is a pure
// function: a token belongs to exactly one shard for the lifetime of the
// index.
func Partition(first rune) RangeKey {
	switch {
	case first >= 'a' && first <= 'f':
		return RangeAF
	case first >= 'g' && first <= 'l':
		return RangeGL
	case first >= 'm' && first <= 'r':
		return RangeMR
	case first >= 's' && first <= 'z':
		return RangeSZ
	default:
		return RangeDigit
	}
}

// Posting is a single (docid, weighted occurrence count) pair.
type Posting struct {
	DocID uint32
	Count uint32
}

// Postings is an ordered posting list; order corresponds to docid
// insertion order, ascending as a consequence of sequential docid
// assignment during build.
type Postings []Posting

// Index is one shard's content: token -> posting list.
type Index map[string]Postings

// FileName returns the path of the on-disk shard file for key under
// indexDir.
func FileName(indexDir string, key RangeKey) string {
	return filepath.Join(indexDir, fmt.Sprintf("index_range_%s.idx", key))
}
