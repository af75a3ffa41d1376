package search

import "math"

// tfWeight is the log-scaled term-frequency weight spec.md §4.4 defines:
// 1 + log10(x) for x > 0, else 0.
func tfWeight(x float64) float64 {
	if x > 0 {
		return 1 + math.Log10(x)
	}
	return 0
}

// idfOf computes N / df, not log(N/df) - the source's ratio form, which
// spec.md §4.4 and §9 require preserving bit-for-bit rather than
// "fixing" to the textbook logarithmic IDF.
func idfOf(numDocs, df int) float64 {
	if df == 0 {
		return 0
	}
	return float64(numDocs) / float64(df)
}

// vectorNorm is the Euclidean norm of a sparse term-weight vector.
func vectorNorm(vec map[string]float64) float64 {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	return math.Sqrt(sum)
}
