package mathx

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat/distuv"
)

// Vec2 is a thin alias over gonum's r2.Vec so the rest of the sim packages
// never import gonum directly; box2d has its own B2Vec2 and the conversion
// lives entirely in internal/physics.
type Vec2 = r2.Vec

// Add returns a+b.
func Add(a, b Vec2) Vec2 { return r2.Add(a, b) }

// Sub returns a-b.
func Sub(a, b Vec2) Vec2 { return r2.Sub(a, b) }

// Scale returns v scaled by s.
func Scale(s float64, v Vec2) Vec2 { return r2.Scale(s, v) }

// Norm returns the Euclidean length of v.
func Norm(v Vec2) float64 { return math.Hypot(v.X, v.Y) }

// Normalize returns v scaled to unit length, or the zero vector if v is
// (near) zero.
func Normalize(v Vec2) Vec2 {
	n := Norm(v)
	if n < 1e-9 {
		return Vec2{}
	}
	return Scale(1/n, v)
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vec2) float64 { return Norm(Sub(a, b)) }

// FromAngle returns a unit vector pointing at angle radians.
func FromAngle(angle float64) Vec2 {
	return Vec2{X: math.Cos(angle), Y: math.Sin(angle)}
}

// Angle returns the angle of v in radians.
func Angle(v Vec2) float64 { return math.Atan2(v.Y, v.X) }

// GaussianJitter returns angle perturbed by a normal sample centered on
// angle with the given standard deviation (radians). Used for the machine
// gun's heat-dependent sway, where imprecision clusters around true aim
// rather than spreading evenly (shotgun spread is a deliberate uniform
// cone instead, and stays on RNG.UniformRange).
func GaussianJitter(rng *RNG, angle, stddev float64) float64 {
	if stddev <= 0 {
		return angle
	}
	dist := distuv.Normal{Mu: angle, Sigma: stddev, Src: rngSource{rng}}
	return dist.Rand()
}

// rngSource adapts *RNG to the standard math/rand.Source interface so
// distuv can draw from the same deterministic stream every other part of
// the step uses, instead of spinning up an independent math/rand source.
type rngSource struct{ rng *RNG }

func (s rngSource) Int63() int64    { return s.rng.r.Int63() }
func (s rngSource) Seed(seed int64) { s.rng.r.Seed(seed) }
</content>
