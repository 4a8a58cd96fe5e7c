package skirmish

import (
	"math"
	"strings"

	"github.com/skyforge/combat-simulations/pkg/combat"
)

// Engagement envelopes for the scripted pursuit behavior.
const (
	gunRange        = 400.0
	gunConeRadians  = 0.20
	missileRange    = 250.0
	missileCone     = 0.35
	flareRadius     = 80.0
	steeringGain    = 2.5
	missileAmmoBias = 3 // fire a missile every Nth aligned tick in range
)

// pursuitController is a deterministic scripted policy driving every
// drone on both teams. It steers each drone toward its nearest living
// enemy and picks weapons by range and alignment. It exists so the
// simulation can exercise the full engine without a learned policy.
type pursuitController struct {
	tick int
}

func newPursuitController() *pursuitController {
	return &pursuitController{}
}

// Actions computes one action per living drone from the render
// snapshot. Dead drones get no entry, so the world freezes them.
func (c *pursuitController) Actions(snap combat.Snapshot) map[string]combat.Action {
	c.tick++

	actions := make(map[string]combat.Action, len(snap.Drones))
	for _, d := range snap.Drones {
		if !d.IsAlive {
			continue
		}

		target, ok := nearestEnemy(snap, d)
		if !ok {
			actions[d.ID] = combat.Action{}
			continue
		}

		actions[d.ID] = c.pursue(snap, d, target)
	}
	return actions
}

func (c *pursuitController) pursue(snap combat.Snapshot, d, target combat.DroneSnapshot) combat.Action {
	dx := target.Position[0] - d.Position[0]
	dy := target.Position[1] - d.Position[1]
	dz := target.Position[2] - d.Position[2]
	dist := math.Sqrt(dx*dx + dy*dy + dz*dz)

	desiredYaw := math.Atan2(dy, dx)
	desiredPitch := math.Atan2(dz, math.Hypot(dx, dy))

	pitch, yaw := d.Orientation[1], d.Orientation[2]
	pitchErr := angleDelta(desiredPitch - pitch)
	yawErr := angleDelta(desiredYaw - yaw)

	action := combat.Action{
		Continuous: [4]float64{
			1.0, // full throttle toward the target
			clamp(pitchErr*steeringGain, -1, 1),
			clamp(yawErr*steeringGain, -1, 1),
			0,
		},
	}

	aligned := math.Abs(pitchErr) < gunConeRadians && math.Abs(yawErr) < gunConeRadians
	roughlyAligned := math.Abs(pitchErr) < missileCone && math.Abs(yawErr) < missileCone

	switch {
	case missileInbound(snap, d):
		action.Discrete = combat.ActionDeployFlare
	case roughlyAligned && dist < missileRange && c.tick%missileAmmoBias == 0:
		action.Discrete = combat.ActionFireMissile
	case aligned && dist < gunRange:
		action.Discrete = combat.ActionFireGun
	case dist > gunRange:
		action.Discrete = combat.ActionBoost
	default:
		action.Discrete = combat.ActionIdle
	}

	return action
}

// nearestEnemy scans the snapshot in order, so equal distances resolve
// the same way every run.
func nearestEnemy(snap combat.Snapshot, d combat.DroneSnapshot) (combat.DroneSnapshot, bool) {
	var best combat.DroneSnapshot
	bestDist := math.Inf(1)
	found := false

	for _, other := range snap.Drones {
		if other.Team == d.Team || !other.IsAlive {
			continue
		}
		dx := other.Position[0] - d.Position[0]
		dy := other.Position[1] - d.Position[1]
		dz := other.Position[2] - d.Position[2]
		dist := math.Sqrt(dx*dx + dy*dy + dz*dz)
		if dist < bestDist {
			bestDist = dist
			best = other
			found = true
		}
	}
	return best, found
}

// missileInbound reports whether any missile is close enough to the
// drone to justify burning a flare.
func missileInbound(snap combat.Snapshot, d combat.DroneSnapshot) bool {
	for _, p := range snap.Projectiles {
		if !strings.HasPrefix(p.ID, "missile_") {
			continue
		}
		dx := p.Position[0] - d.Position[0]
		dy := p.Position[1] - d.Position[1]
		dz := p.Position[2] - d.Position[2]
		if math.Sqrt(dx*dx+dy*dy+dz*dz) < flareRadius {
			return true
		}
	}
	return false
}

func angleDelta(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
