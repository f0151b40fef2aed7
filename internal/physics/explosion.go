package physics

import "dronearena/internal/mathx"

// ApplyExplosion pushes (or, with a negative impulsePerLength, pulls) every
// dynamic body within radius+falloff of center, matching the
// imploder/flak-cannon/mine-launcher/burst "explosive" weapon behavior
// spec.md §4.4 describes: full impulsePerLength magnitude inside radius,
// decaying linearly to zero over the next falloff distance, and no effect
// beyond radius+falloff. A negative impulsePerLength (the imploder) pulls
// bodies toward center instead of away from it.
func (w *World) ApplyExplosion(center mathx.Vec2, radius, falloff, impulsePerLength float64, filter func(*Body) bool) []*Body {
	var affected []*Body
	for _, b := range w.bodies {
		if filter != nil && !filter(b) {
			continue
		}
		delta := mathx.Sub(b.Position(), center)
		dist := mathx.Norm(delta)
		if dist < 1e-6 {
			continue
		}
		scale := 1.0
		if dist > radius {
			if falloff <= 0 || dist > radius+falloff {
				continue
			}
			scale = (radius + falloff - dist) / falloff
		}
		impulse := mathx.Scale(impulsePerLength*scale, mathx.Normalize(delta))
		b.ApplyImpulse(impulse)
		affected = append(affected, b)
	}
	return affected
}
</content>
