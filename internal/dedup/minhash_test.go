package dedup

import "testing"

func TestMinHashSelfJaccardIsOne(t *testing.T) {
	m := NewMinHash()
	m.Update([]byte("quick brown fox"))
	m.Update([]byte("brown fox jumps"))

	if j := m.Jaccard(m); j != 1.0 {
		t.Fatalf("self-Jaccard = %v, want 1.0", j)
	}
}

func TestOptimalBandRowsDividesNumPerm(t *testing.T) {
	bands, rows := optimalBandRows(SimilarityThreshold, NumPerm)
	if bands*rows != NumPerm {
		t.Fatalf("bands*rows = %d, want %d", bands*rows, NumPerm)
	}
}
