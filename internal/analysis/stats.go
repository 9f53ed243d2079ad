package analysis

import (
	"math"
)

// jaccard computes |a ∩ b| / |a ∪ b| over two string sets. An empty union
// yields 0.0 rather than a division error.
func jaccard(a, b map[string]bool) float64 {
	intersection := 0
	for name := range a {
		if b[name] {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// pearson computes the Pearson correlation coefficient between two equal
// length samples. It returns NaN when the correlation is undefined: fewer
// than two observations, or a sample with zero variance.
func pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n != len(ys) || n < 2 {
		return math.NaN()
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	denom := math.Sqrt(varX * varY)
	if denom == 0 {
		return math.NaN()
	}
	return cov / denom
}

// nanMatrix builds a size x size matrix filled with NaN.
func nanMatrix(size int) [][]float64 {
	matrix := make([][]float64, size)
	for i := range matrix {
		matrix[i] = make([]float64, size)
		for j := range matrix[i] {
			matrix[i][j] = math.NaN()
		}
	}
	return matrix
}
