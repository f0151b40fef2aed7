package physics

import "github.com/ByteArena/box2d"

// ContactKind distinguishes a solid contact begin/end from a sensor
// (weapon pickup) overlap begin/end, mirroring spec.md §6's description of
// the physics collaborator surfacing both kinds of event.
type ContactKind uint8

const (
	ContactBegin ContactKind = iota
	ContactEnd
	SensorBegin
	SensorEnd
)

// ContactEvent is one queued event drained by World.Events after a Step.
type ContactEvent struct {
	Kind ContactKind
	A, B *Body
}

// contactBridge implements box2d.B2ContactListenerInterface and buffers
// events for the sim step loop to process after Step returns, instead of
// mutating game state from inside the solver callback.
type contactBridge struct {
	world  *World
	events []ContactEvent
}

func newContactBridge(w *World) *contactBridge {
	return &contactBridge{world: w}
}

func (c *contactBridge) drain() []ContactEvent {
	ev := c.events
	c.events = nil
	return ev
}

func (c *contactBridge) push(kind ContactKind, contact box2d.B2ContactInterface) {
	fa := contact.GetFixtureA()
	fb := contact.GetFixtureB()
	a := c.world.lookup(fa)
	b := c.world.lookup(fb)
	if a == nil || b == nil {
		return
	}
	c.events = append(c.events, ContactEvent{Kind: kind, A: a, B: b})
}

func (c *contactBridge) BeginContact(contact box2d.B2ContactInterface) {
	if contact.GetFixtureA().IsSensor() || contact.GetFixtureB().IsSensor() {
		c.push(SensorBegin, contact)
		return
	}
	c.push(ContactBegin, contact)
}

func (c *contactBridge) EndContact(contact box2d.B2ContactInterface) {
	if contact.GetFixtureA().IsSensor() || contact.GetFixtureB().IsSensor() {
		c.push(SensorEnd, contact)
		return
	}
	c.push(ContactEnd, contact)
}

func (c *contactBridge) PreSolve(contact box2d.B2ContactInterface, oldManifold box2d.B2Manifold) {
}

func (c *contactBridge) PostSolve(contact box2d.B2ContactInterface, impulse *box2d.B2ContactImpulse) {
}
</content>
