package combat

import (
	"math"
	"sort"
)

// Normalizers for observation encoding. Positions and velocities are
// scaled by the nominal arena half-extent and the drone speed limit so
// that typical values land near [-1, 1].
const (
	obsPosNorm  = 500.0
	obsVelNorm  = 200.0
	obsDistNorm = 1000.0
	obsWindNorm = 10.0
)

// encodeObservations builds the per-agent observation set. Every
// vector has the fixed length Config.ObservationSize regardless of
// how many drones are still alive.
func (w *World) encodeObservations() map[string][]float64 {
	obs := make(map[string][]float64, len(w.drones))
	for _, d := range w.drones {
		obs[d.ID] = w.observe(d)
	}
	return obs
}

// observe encodes one drone's view: a self block, distance-ordered
// enemy and ally slots (zero-filled beyond the living count), and an
// environment block.
func (w *World) observe(d *Drone) []float64 {
	out := make([]float64, 0, w.cfg.ObservationSize())

	// Self block (13 values).
	out = append(out,
		d.Position.X/obsPosNorm, d.Position.Y/obsPosNorm, d.Position.Z/obsPosNorm,
		d.Velocity.X/obsVelNorm, d.Velocity.Y/obsVelNorm, d.Velocity.Z/obsVelNorm,
		d.Orientation.X/math.Pi, d.Orientation.Y/math.Pi, d.Orientation.Z/math.Pi,
		d.HP/MaxHP, d.Shield/MaxShield, d.Energy/MaxEnergy, float64(d.Ammo)/MaxAmmo,
	)

	// Enemy slots (teamSize x 10 values).
	enemies := w.sortedByDistance(d, func(o *Drone) bool {
		return o.Team != d.Team && o.IsAlive
	})
	for i := 0; i < w.cfg.TeamSize; i++ {
		if i < len(enemies) {
			e := enemies[i]
			relPos := e.Position.Sub(d.Position)
			relVel := e.Velocity.Sub(d.Velocity)
			out = append(out,
				relPos.X/obsPosNorm, relPos.Y/obsPosNorm, relPos.Z/obsPosNorm,
				relVel.X/obsVelNorm, relVel.Y/obsVelNorm, relVel.Z/obsVelNorm,
				d.DistanceTo(e)/obsDistNorm, d.AngleTo(e)/math.Pi, e.HP/MaxHP, 0,
			)
		} else {
			out = append(out, make([]float64, 10)...)
		}
	}

	// Ally slots ((teamSize-1) x 8 values).
	allies := w.sortedByDistance(d, func(o *Drone) bool {
		return o.Team == d.Team && o.ID != d.ID && o.IsAlive
	})
	for i := 0; i < w.cfg.TeamSize-1; i++ {
		if i < len(allies) {
			a := allies[i]
			relPos := a.Position.Sub(d.Position)
			relVel := a.Velocity.Sub(d.Velocity)
			out = append(out,
				relPos.X/obsPosNorm, relPos.Y/obsPosNorm, relPos.Z/obsPosNorm,
				relVel.X/obsVelNorm, relVel.Y/obsVelNorm, relVel.Z/obsVelNorm,
				a.HP/MaxHP, 1,
			)
		} else {
			out = append(out, make([]float64, 8)...)
		}
	}

	// Environment block (6 values): wind and position within bounds.
	span := w.cfg.MapBounds.Span()
	out = append(out,
		w.wind.X/obsWindNorm, w.wind.Y/obsWindNorm, w.wind.Z/obsWindNorm,
		(d.Position.X-w.cfg.MapBounds.Lo)/span,
		(d.Position.Y-w.cfg.MapBounds.Lo)/span,
		(d.Position.Z-w.cfg.MapBounds.Lo)/span,
	)

	return out
}

// sortedByDistance returns the drones matching keep, ordered by
// ascending distance from d. The sort is stable so equal distances
// preserve arena insertion order.
func (w *World) sortedByDistance(d *Drone, keep func(*Drone) bool) []*Drone {
	var matched []*Drone
	for _, o := range w.drones {
		if keep(o) {
			matched = append(matched, o)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return d.DistanceTo(matched[i]) < d.DistanceTo(matched[j])
	})
	return matched
}
