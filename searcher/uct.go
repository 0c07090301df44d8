package searcher

import "math"

type uct struct {
	numerator float64
}

// newUCT precomputes c^2*ln(N) for a parent visited N times.
func newUCT(cSquared float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{numerator: cSquared * math.Log(N)}
}

func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCT = q/n + sqrt(c^2*ln(N)/n)
	return q/n + math.Sqrt(u.numerator/n)
}

// widening returns how many children a node visited n times may have.
func widening(k, alpha float64, n uint32) float64 {
	return k*math.Pow(float64(n), alpha) + 1
}
