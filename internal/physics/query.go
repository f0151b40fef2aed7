package physics

import (
	"github.com/ByteArena/box2d"

	"dronearena/internal/mathx"
)

// queryAABBCallback adapts a per-fixture predicate to box2d's own
// B2QueryCallbackInterface, so OverlapCircle walks box2d's broad-phase tree
// instead of a linear scan with a guessed bounding radius.
type queryAABBCallback struct {
	report func(fixture *box2d.B2Fixture) bool
}

func (c *queryAABBCallback) ReportFixture(fixture *box2d.B2Fixture) bool {
	return c.report(fixture)
}

// OverlapCircle returns every tracked body whose real fixture shape
// overlaps a circle at center with the given radius. Grounded on the
// teacher's hitbox.go shaped hit tests (circle/cone/rect) — generalized
// into the physics collaborator's own overlap-query surface (spec.md §6)
// instead of a per-weapon hitbox type — but routed through box2d's own
// broad-phase (QueryAABB) and narrow-phase (B2TestOverlap) instead of a
// hand-rolled bounding-radius guess, so wall polygons and pickup circles
// are tested against their actual shapes.
func (w *World) OverlapCircle(center mathx.Vec2, radius float64, filter func(*Body) bool) []*Body {
	query := box2d.MakeB2CircleShape()
	query.SetRadius(radius)
	query.M_p = box2d.MakeB2Vec2(center.X, center.Y)
	queryXf := box2d.MakeB2Transform()
	queryXf.SetIdentity()

	aabb := box2d.B2AABB{
		LowerBound: box2d.MakeB2Vec2(center.X-radius, center.Y-radius),
		UpperBound: box2d.MakeB2Vec2(center.X+radius, center.Y+radius),
	}

	seen := make(map[*Body]bool)
	var hits []*Body
	cb := &queryAABBCallback{report: func(fixture *box2d.B2Fixture) bool {
		body := w.bodies[fixture.GetBody()]
		if body == nil || seen[body] {
			return true
		}
		if filter != nil && !filter(body) {
			return true
		}
		if box2d.B2TestOverlap(&query, 0, fixture.GetShape(), 0, queryXf, fixture.GetBody().GetTransform()) {
			seen[body] = true
			hits = append(hits, body)
		}
		return true
	}}
	w.b2.QueryAABB(cb, aabb)
	return hits
}

// ShapeDistance returns the true surface-to-surface distance between a's
// and b's box2d fixture shapes (via box2d's own GJK distance query), used
// by spawn placement to keep new entities from overlapping existing ones
// (spec.md §4.1 "rejection sampling against existing occupants"). Falls
// back to center-to-center distance if either body has no fixture.
func ShapeDistance(a, b *Body) float64 {
	fixtureA := a.b2.GetFixtureList()
	fixtureB := b.b2.GetFixtureList()
	if fixtureA == nil || fixtureB == nil {
		return mathx.Distance(a.Position(), b.Position())
	}

	var proxyA, proxyB box2d.B2DistanceProxy
	proxyA.Set(fixtureA.GetShape(), 0)
	proxyB.Set(fixtureB.GetShape(), 0)

	input := box2d.B2DistanceInput{
		ProxyA:     proxyA,
		ProxyB:     proxyB,
		TransformA: a.b2.GetTransform(),
		TransformB: b.b2.GetTransform(),
		UseRadii:   true,
	}
	cache := box2d.B2SimplexCache{}
	output := box2d.B2DistanceOutput{}
	box2d.B2Distance(&output, &cache, &input)
	return output.Distance
}

// rayCastCallback adapts box2d's B2RayCastCallbackInterface to return the
// closest accepted fixture's owning Body. Returning the hit fraction from
// ReportFixture clips the ray to that point so box2d only keeps walking
// toward closer fixtures; returning -1 ignores a filtered-out fixture
// without clipping the ray at all.
type rayCastCallback struct {
	lookup      func(*box2d.B2Body) *Body
	filter      func(*Body) bool
	closest     *Body
	closestFrac float64
}

func (c *rayCastCallback) ReportFixture(fixture *box2d.B2Fixture, point box2d.B2Vec2, normal box2d.B2Vec2, fraction float64) float64 {
	body := c.lookup(fixture.GetBody())
	if body == nil || (c.filter != nil && !c.filter(body)) {
		return -1
	}
	c.closest = body
	c.closestFrac = fraction
	return fraction
}

// RayCast returns the closest tracked body (passing filter) whose real
// fixture shape intersects the segment from origin along dir for up to
// maxDistance, or nil. Stands in for box2d's native ray-cast query for the
// simulation's own line-of-sight/aim-assist checks; actual projectile
// travel still goes through full physics stepping.
func (w *World) RayCast(origin, dir mathx.Vec2, maxDistance float64, filter func(*Body) bool) *Body {
	dir = mathx.Normalize(dir)
	end := mathx.Vec2{X: origin.X + dir.X*maxDistance, Y: origin.Y + dir.Y*maxDistance}
	cb := &rayCastCallback{lookup: func(b *box2d.B2Body) *Body { return w.bodies[b] }, filter: filter, closestFrac: 1}
	w.b2.RayCast(cb, box2d.MakeB2Vec2(origin.X, origin.Y), box2d.MakeB2Vec2(end.X, end.Y))
	return cb.closest
}
