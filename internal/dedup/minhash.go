// Package dedup implements MinHash/LSH near-duplicate detection over
// 3-gram shingles, the fallback construction spec.md §9 calls for when no
// MinHash+LSH library is available (none appears anywhere in the
// retrieval pack - see DESIGN.md).
package dedup

import (
	"hash/fnv"
	"math"
	"math/rand"
)

// NumPerm is the number of independent hash permutations per MinHash
// signature.
const NumPerm = 128

// mersennePrime is used as the modulus for the permutation functions,
// following the standard MinHash construction (e.g. the datasketch
// library's choice of 2^61-1).
const mersennePrime = (1 << 61) - 1
const maxHash = (1 << 32) - 1

var permA, permB [NumPerm]uint64

func init() {
	// A fixed seed keeps permutations identical across process runs so
	// signatures computed in one build are comparable to signatures
	// computed in another - not required by the spec, but avoids
	// surprising nondeterminism in tests.
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < NumPerm; i++ {
		permA[i] = uint64(rng.Int63n(mersennePrime-1)) + 1
		permB[i] = uint64(rng.Int63n(mersennePrime))
	}
}

// MinHash is a 128-permutation MinHash signature.
type MinHash struct {
	values [NumPerm]uint64
}

// NewMinHash returns an empty signature, every slot initialized to the
// maximum possible hash value so the first Update always lowers it.
func NewMinHash() *MinHash {
	m := &MinHash{}
	for i := range m.values {
		m.values[i] = maxHash
	}
	return m
}

// Update folds one shingle's bytes into the signature.
func (m *MinHash) Update(b []byte) {
	h := fnv.New64a()
	h.Write(b)
	base := h.Sum64() & maxHash

	for i := 0; i < NumPerm; i++ {
		v := (permA[i]*base + permB[i]) % mersennePrime & maxHash
		if v < m.values[i] {
			m.values[i] = v
		}
	}
}

// Jaccard estimates the Jaccard similarity between two signatures as the
// fraction of permutation slots that agree.
func (m *MinHash) Jaccard(other *MinHash) float64 {
	matches := 0
	for i := 0; i < NumPerm; i++ {
		if m.values[i] == other.values[i] {
			matches++
		}
	}
	return float64(matches) / float64(NumPerm)
}

// optimalBandRows picks (bands, rows) with bands*rows == numPerm whose
// implied per-band collision threshold (1/bands)^(1/rows) is closest to
// the target Jaccard threshold - the standard MinHash-LSH banding
// tradeoff (more bands -> more false positives, fewer -> more false
// negatives).
func optimalBandRows(threshold float64, numPerm int) (bands, rows int) {
	bestDiff := math.MaxFloat64
	bands, rows = numPerm, 1
	for b := 1; b <= numPerm; b++ {
		if numPerm%b != 0 {
			continue
		}
		r := numPerm / b
		t := math.Pow(1.0/float64(b), 1.0/float64(r))
		if diff := math.Abs(t - threshold); diff < bestDiff {
			bestDiff = diff
			bands, rows = b, r
		}
	}
	return bands, rows
}
