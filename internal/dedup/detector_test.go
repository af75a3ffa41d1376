package dedup

import "testing"

func TestIsNearDuplicateIdenticalText(t *testing.T) {
	d := NewDetector()
	text := "the quick brown fox jumps over the lazy dog again and again for good measure"

	if d.IsNearDuplicate(text, 1) {
		t.Fatal("first insertion must not be reported as duplicate")
	}
	if !d.IsNearDuplicate(text, 2) {
		t.Fatal("identical text must be reported as duplicate")
	}
}

func TestIsNearDuplicateDistinctText(t *testing.T) {
	d := NewDetector()
	a := "completely unrelated content about gardening and soil composition types"
	b := "a totally different article discussing orbital mechanics and rocket fuel"

	if d.IsNearDuplicate(a, 1) {
		t.Fatal("first insertion must not be reported as duplicate")
	}
	if d.IsNearDuplicate(b, 2) {
		t.Fatal("unrelated text should not be reported as duplicate")
	}
}

func TestShinglesShortText(t *testing.T) {
	got := shingles("one two", 3)
	if len(got) != 1 || got[0] != "one two" {
		t.Fatalf("shingles(%q) = %v, want single shingle of the whole text", "one two", got)
	}
}

func TestShinglesEmptyText(t *testing.T) {
	if got := shingles("", 3); got != nil {
		t.Fatalf("shingles(\"\") = %v, want nil", got)
	}
}
