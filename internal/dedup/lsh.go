package dedup

import (
	"encoding/binary"
	"hash/fnv"
)

// LSH is a banded-MinHash locality-sensitive-hash index: documents whose
// signatures collide in any band are returned as duplicate candidates.
// Query is approximate; false positives and negatives are expected and
// tolerated per spec.md §4.3.
type LSH struct {
	threshold float64
	bands     int
	rows      int
	tables    []map[uint64][]int // one bucket map per band, bucket hash -> docids
}

// NewLSH builds an LSH index tuned so that two signatures whose true
// Jaccard similarity is near threshold have a high probability of
// colliding in at least one band.
func NewLSH(threshold float64, numPerm int) *LSH {
	bands, rows := optimalBandRows(threshold, numPerm)
	tables := make([]map[uint64][]int, bands)
	for i := range tables {
		tables[i] = make(map[uint64][]int)
	}
	return &LSH{threshold: threshold, bands: bands, rows: rows, tables: tables}
}

// bucketHash folds one band's slice of the signature into a single
// uint64 bucket key.
func (l *LSH) bucketHash(band int, m *MinHash) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	start := band * l.rows
	for i := 0; i < l.rows; i++ {
		binary.LittleEndian.PutUint64(buf[:], m.values[start+i])
		h.Write(buf[:])
	}
	return h.Sum64()
}

// Query returns the docids of any previously inserted signature that
// collides with m in at least one band.
func (l *LSH) Query(m *MinHash) []int {
	seen := map[int]bool{}
	var result []int
	for band, table := range l.tables {
		key := l.bucketHash(band, m)
		for _, docid := range table[key] {
			if !seen[docid] {
				seen[docid] = true
				result = append(result, docid)
			}
		}
	}
	return result
}

// Insert registers docid's signature in every band's bucket table.
func (l *LSH) Insert(docid int, m *MinHash) {
	for band, table := range l.tables {
		key := l.bucketHash(band, m)
		table[key] = append(table[key], docid)
	}
}
