package game

import (
	"sync/atomic"

	"golang.org/x/exp/rand"
	"lukechampine.com/frand"
)

// HitProbability is the chance that two six-sided dice sum to less than 7.
const HitProbability = 15.0 / 36.0

// Random is the uniform source used for dice and for sampling in search.
type Random interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntRange returns a value in [lo, hi], both inclusive.
	IntRange(lo, hi int) int
}

type randomSource struct {
	rng *rand.Rand
}

// NewRandom returns a deterministic source seeded with seed. It must not be
// shared between goroutines.
func NewRandom(seed uint64) Random {
	return randomSource{rng: rand.New(rand.NewSource(seed))}
}

// NewLockedRandom returns a source that is safe for concurrent use.
func NewLockedRandom(seed uint64) Random {
	src := &rand.LockedSource{}
	src.Seed(seed)
	return randomSource{rng: rand.New(src)}
}

func (r randomSource) Float64() float64 {
	return r.rng.Float64()
}

func (r randomSource) IntRange(lo, hi int) int {
	if hi < lo {
		panic("empty range")
	}
	return lo + r.rng.Intn(hi-lo+1)
}

var defaultRandom atomic.Value

func init() {
	defaultRandom.Store(randomHolder{NewLockedRandom(frand.Uint64n(1 << 63))})
}

// atomic.Value needs one concrete type for every Store.
type randomHolder struct {
	Random
}

// DefaultRandom is the process-wide source for callers without their own.
func DefaultRandom() Random {
	return defaultRandom.Load().(randomHolder).Random
}

// SetDefaultRandom replaces the process-wide source, typically with a seeded
// one in tests.
func SetDefaultRandom(r Random) {
	defaultRandom.Store(randomHolder{r})
}

// RollVolley throws two dice and reports a hit when they sum to less than 7.
func RollVolley(r Random) VolleyResult {
	roll := r.IntRange(1, 6) + r.IntRange(1, 6)
	if roll < 7 {
		return VolleyHit
	}
	return VolleyMiss
}
