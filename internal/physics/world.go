// Package physics wraps github.com/ByteArena/box2d with the narrow surface
// the simulation core needs: world/body/shape creation, a contact and
// sensor listener, broad queries, and explosion impulses. Everything else
// about rigid-body dynamics is the physics engine's problem, not this
// package's — spec.md treats the solver as an external collaborator, and
// this is the glue code that talks to a real one instead of a stand-in.
package physics

import (
	"github.com/ByteArena/box2d"

	"dronearena/internal/mathx"
)

// EntityKind tags what a body represents, for contact resolution.
type EntityKind uint8

const (
	EntityInvalid EntityKind = iota
	EntityWall
	EntityFloatingWall
	EntityProjectile
	EntityDrone
	EntityWeaponPickup
)

// Body is a handle to a box2d body plus the bookkeeping the sim layer needs
// to go from "box2d says these two fixtures touched" back to "this
// projectile hit that drone". box2d's own body type carries no notion of
// the game's entity IDs, so this package keeps that mapping itself rather
// than reaching for an unstable user-data field.
type Body struct {
	b2   *box2d.B2Body
	Kind EntityKind
	// Ref is an opaque index the sim package uses to recover its own
	// drone/projectile/wall slice index from a contact event.
	Ref int
}

// Position returns the body's current center position.
func (b *Body) Position() mathx.Vec2 {
	p := b.b2.GetPosition()
	return mathx.Vec2{X: p.X, Y: p.Y}
}

// Angle returns the body's current rotation in radians.
func (b *Body) Angle() float64 { return b.b2.GetAngle() }

// Velocity returns the body's current linear velocity.
func (b *Body) Velocity() mathx.Vec2 {
	v := b.b2.GetLinearVelocity()
	return mathx.Vec2{X: v.X, Y: v.Y}
}

// SetVelocity overwrites the body's linear velocity directly (used for
// projectile launch, kill, respawn and mine placement; drone movement
// input goes through ApplyImpulse).
func (b *Body) SetVelocity(v mathx.Vec2) {
	b.b2.SetLinearVelocity(box2d.B2Vec2{X: v.X, Y: v.Y})
}

// ApplyImpulse applies a linear impulse at the body's center of mass and
// wakes the body if it was asleep.
func (b *Body) ApplyImpulse(impulse mathx.Vec2) {
	b.b2.ApplyLinearImpulse(box2d.B2Vec2{X: impulse.X, Y: impulse.Y}, b.b2.GetWorldCenter(), true)
}

// Teleport resets position and angle directly, used for respawns.
func (b *Body) Teleport(pos mathx.Vec2, angle float64) {
	b.b2.SetTransform(box2d.B2Vec2{X: pos.X, Y: pos.Y}, angle)
}

// World wraps a box2d world plus the entity-tag bookkeeping for contacts.
type World struct {
	b2       box2d.B2World
	bodies   map[*box2d.B2Body]*Body
	listener *contactBridge
}

// NewWorld creates a world with no gravity (a top-down arena has none) and
// installs the contact/sensor listener.
func NewWorld() *World {
	w := &World{
		b2:     box2d.MakeB2World(box2d.MakeB2Vec2(0, 0)),
		bodies: make(map[*box2d.B2Body]*Body),
	}
	w.listener = newContactBridge(w)
	w.b2.SetContactListener(w.listener)
	return w
}

// Events returns and clears the contact/sensor events accumulated by the
// listener during the last Step call.
func (w *World) Events() []ContactEvent {
	return w.listener.drain()
}

// CreateCircleBody creates a dynamic or static circular body, registers it
// under kind/ref, and applies filter.
func (w *World) CreateCircleBody(pos mathx.Vec2, radius, density float64, dynamic bool, filter Filter, sensor bool, kind EntityKind, ref int) *Body {
	def := box2d.NewB2BodyDef()
	def.Position = box2d.MakeB2Vec2(pos.X, pos.Y)
	if dynamic {
		def.Type = box2d.B2BodyType.DynamicBody
	} else {
		def.Type = box2d.B2BodyType.StaticBody
	}
	def.LinearDamping = 0
	b2body := w.b2.CreateBody(def)

	shape := box2d.MakeB2CircleShape()
	shape.SetRadius(radius)

	fd := box2d.MakeB2FixtureDef()
	fd.Shape = &shape
	fd.Density = density
	fd.IsSensor = sensor
	fd.Filter = box2d.MakeB2Filter()
	fd.Filter.CategoryBits = uint16(filter.Category)
	fd.Filter.MaskBits = uint16(filter.Mask)
	fd.Filter.GroupIndex = filter.Group
	b2body.CreateFixtureFromDef(&fd)

	body := &Body{b2: b2body, Kind: kind, Ref: ref}
	w.bodies[b2body] = body
	return body
}

// CreateBoxBody creates a static or dynamic axis-aligned box body (walls
// and floating walls).
func (w *World) CreateBoxBody(pos mathx.Vec2, halfW, halfH float64, dynamic bool, filter Filter, kind EntityKind, ref int) *Body {
	def := box2d.NewB2BodyDef()
	def.Position = box2d.MakeB2Vec2(pos.X, pos.Y)
	if dynamic {
		def.Type = box2d.B2BodyType.DynamicBody
		def.LinearDamping = 0.75
	} else {
		def.Type = box2d.B2BodyType.StaticBody
	}
	b2body := w.b2.CreateBody(def)

	shape := box2d.MakeB2PolygonShape()
	shape.SetAsBox(halfW, halfH)

	fd := box2d.MakeB2FixtureDef()
	fd.Shape = &shape
	fd.Density = 4.0
	fd.Filter = box2d.MakeB2Filter()
	fd.Filter.CategoryBits = uint16(filter.Category)
	fd.Filter.MaskBits = uint16(filter.Mask)
	b2body.CreateFixtureFromDef(&fd)

	body := &Body{b2: b2body, Kind: kind, Ref: ref}
	w.bodies[b2body] = body
	return body
}

// Destroy removes body from the world and the bookkeeping map.
func (w *World) Destroy(b *Body) {
	delete(w.bodies, b.b2)
	w.b2.DestroyBody(b.b2)
}

// Step advances the simulation by dt using the velocity/position iteration
// counts box2d recommends for real-time stepping.
func (w *World) Step(dt float64, velocityIterations, positionIterations int) {
	w.b2.Step(dt, velocityIterations, positionIterations)
}

func (w *World) lookup(f *box2d.B2Fixture) *Body {
	return w.bodies[f.GetBody()]
}
</content>
