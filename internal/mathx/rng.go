// Package mathx holds the deterministic randomness and vector helpers shared
// by the simulation packages.
package mathx

import "math/rand"

// RNG is a self-reseeding pseudo-random source. Every environment instance
// owns exactly one RNG seeded independently of any other instance's state,
// and every call to Advance folds the stream's own output back into its
// seed. Two RNGs constructed with the same seed and driven through the same
// call sequence produce byte-identical output forever, which is what lets a
// (seed, action-sequence) pair reproduce a run exactly.
type RNG struct {
	r    *rand.Rand
	seed int64
}

// NewRNG creates a deterministic RNG from seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewSource(seed)), seed: seed}
}

// Advance reseeds the stream from its own next output. Its only caller is
// ResetEnv, once per reset; it is not called per simulation step.
func (g *RNG) Advance() {
	g.seed = g.r.Int63()
	g.r.Seed(g.seed)
}

// Seed returns the RNG's current reseed value, useful for logging/replay.
func (g *RNG) Seed() int64 { return g.seed }

// Float64 returns a pseudo-random float64 in [0, 1).
func (g *RNG) Float64() float64 { return g.r.Float64() }

// Intn returns a pseudo-random int in [0, n).
func (g *RNG) Intn(n int) int { return g.r.Intn(n) }

// UniformRange returns a pseudo-random float64 in [lo, hi).
func (g *RNG) UniformRange(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + g.r.Float64()*(hi-lo)
}

// NormFloat64 returns a standard-normal pseudo-random float64.
func (g *RNG) NormFloat64() float64 { return g.r.NormFloat64() }

// Shuffle permutes n elements in place via swap, matching rand.Shuffle.
func (g *RNG) Shuffle(n int, swap func(i, j int)) { g.r.Shuffle(n, swap) }
</content>
