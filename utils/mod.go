package utils

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// SampleIndex maps a uniform draw u in [0, 1) to an index chosen in
// proportion to weights. Weights must be non-negative with a positive sum.
func SampleIndex(weights []float64, u float64) int {
	if len(weights) == 0 {
		panic("no weights to sample from")
	}
	total := 0.0
	for _, w := range weights {
		total += w
	}
	x := u * total
	for i, w := range weights {
		x -= w
		if x < 0 {
			return i
		}
	}
	// Rounding can leave x at zero; fall back to the last positive weight.
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i
		}
	}
	return len(weights) - 1
}
