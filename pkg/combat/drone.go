package combat

import "math"

// Team tags. Exactly two teams exist; friendly fire is excluded by
// comparing team tags at collision time.
const (
	TeamRed  = "red"
	TeamBlue = "blue"
)

// Discrete action codes.
const (
	ActionIdle        = 0
	ActionFireGun     = 1
	ActionFireMissile = 2
	ActionDeployFlare = 3
	ActionBoost       = 4
)

// Flight and resource limits for every drone.
const (
	MaxSpeed        = 200.0
	MaxAcceleration = 50.0
	MaxTurnRate     = 2.0
	Drag            = 0.02

	MaxHP       = 100.0
	MaxShield   = 50.0
	MaxEnergy   = 100.0
	MaxAmmo     = 500
	MaxMissiles = 4

	ShieldRegen = 2.0
	EnergyRegen = 5.0
	BoostCost   = 20.0
	MissileCost = 15.0
	FlareCost   = 10.0

	missileCooldownDuration = 5.0
	flareCooldownDuration   = 8.0
	boostMultiplier         = 1.5
	// Below this speed the energy regeneration rate is boosted.
	lowSpeedThreshold = 60.0
)

// Action is the per-tick command for one drone.
type Action struct {
	// Discrete selects the weapon/system action: 0 idle, 1 fire gun,
	// 2 fire missile, 3 deploy flare, 4 boost. Out-of-range codes
	// behave as idle.
	Discrete int
	// Continuous is (throttle, pitch rate, yaw rate, roll rate).
	// Each component is clamped to [-1, 1] before use.
	Continuous [4]float64
}

// Events reports the weapon events a drone emitted this tick. The
// world turns them into projectile and flare spawns.
type Events struct {
	FireGun     bool
	FireMissile bool
	DeployFlare bool
}

// Drone is one combat unit. All state is mutated only by the World
// via action application and damage application.
type Drone struct {
	ID   string
	Team string

	Position    Vec3
	Velocity    Vec3
	Orientation Vec3 // roll, pitch, yaw; each wrapped to [-pi, pi)

	HP     float64
	Shield float64
	Energy float64

	Ammo     int
	Missiles int

	IsAlive    bool
	IsBoosting bool

	MissileCooldown float64
	FlareCooldown   float64

	DamageDealt float64
	DamageTaken float64
	Kills       int
}

// NewDrone creates a drone at the given spawn pose with full resources.
func NewDrone(id, team string, position, orientation Vec3) *Drone {
	d := &Drone{ID: id, Team: team}
	d.Reset(position, orientation)
	return d
}

// Reset restores the drone to its spawn pose with full resources and
// zeroed combat stats.
func (d *Drone) Reset(position, orientation Vec3) {
	d.Position = position
	d.Velocity = Vec3{}
	d.Orientation = orientation
	d.HP = MaxHP
	d.Shield = MaxShield
	d.Energy = MaxEnergy
	d.Ammo = MaxAmmo
	d.Missiles = MaxMissiles
	d.IsAlive = true
	d.IsBoosting = false
	d.DamageDealt = 0
	d.DamageTaken = 0
	d.Kills = 0
	d.MissileCooldown = 0
	d.FlareCooldown = 0
}

// ApplyAction advances the drone by one tick: cooldown decay, gated
// discrete action, continuous flight control, physics integration,
// and passive regeneration. A dead drone ignores the call entirely.
func (d *Drone) ApplyAction(action Action, dt float64) Events {
	var events Events
	if !d.IsAlive {
		return events
	}

	d.MissileCooldown = math.Max(0, d.MissileCooldown-dt)
	d.FlareCooldown = math.Max(0, d.FlareCooldown-dt)

	// Discrete action gates. A gate failure or unknown code falls
	// through to the final branch, which clears the boost flag.
	switch {
	case action.Discrete == ActionFireGun && d.Ammo > 0:
		d.Ammo--
		events.FireGun = true
	case action.Discrete == ActionFireMissile && d.Missiles > 0 && d.MissileCooldown <= 0 && d.Energy >= MissileCost:
		d.Missiles--
		d.Energy -= MissileCost
		d.MissileCooldown = missileCooldownDuration
		events.FireMissile = true
	case action.Discrete == ActionDeployFlare && d.FlareCooldown <= 0 && d.Energy >= FlareCost:
		d.Energy -= FlareCost
		d.FlareCooldown = flareCooldownDuration
		events.DeployFlare = true
	case action.Discrete == ActionBoost && d.Energy >= BoostCost*dt:
		d.Energy -= BoostCost * dt
		d.IsBoosting = true
	default:
		d.IsBoosting = false
	}

	// Continuous flight control.
	throttle := clampUnit(action.Continuous[0])
	pitchRate := clampUnit(action.Continuous[1]) * MaxTurnRate
	yawRate := clampUnit(action.Continuous[2]) * MaxTurnRate
	rollRate := clampUnit(action.Continuous[3]) * MaxTurnRate

	d.Orientation.X = wrapAngle(d.Orientation.X + rollRate*dt)
	d.Orientation.Y = wrapAngle(d.Orientation.Y + pitchRate*dt)
	d.Orientation.Z = wrapAngle(d.Orientation.Z + yawRate*dt)

	forward := d.Forward()

	accelMag := throttle * MaxAcceleration
	if d.IsBoosting {
		accelMag *= boostMultiplier
	}
	accel := forward.Scale(accelMag)

	speed := d.Velocity.Norm()
	if speed > 0 {
		accel = accel.Sub(d.Velocity.Scale(Drag * speed))
	}

	d.Velocity = d.Velocity.Add(accel.Scale(dt))
	speed = d.Velocity.Norm()
	if speed > MaxSpeed {
		// Rescale rather than clip per component, so direction holds.
		d.Velocity = d.Velocity.Scale(MaxSpeed / speed)
		speed = MaxSpeed
	}

	d.Position = d.Position.Add(d.Velocity.Scale(dt))

	// Passive regeneration.
	if d.Shield < MaxShield {
		d.Shield = math.Min(MaxShield, d.Shield+ShieldRegen*dt)
	}
	if d.Energy < MaxEnergy {
		regen := EnergyRegen
		if speed < lowSpeedThreshold {
			regen *= 1.5
		}
		d.Energy = math.Min(MaxEnergy, d.Energy+regen*dt)
	}

	return events
}

// TakeDamage applies damage with shield-first absorption and reports
// whether the hit was lethal. A dead drone is not affected. The
// cumulative damage-taken stat records the original amount regardless
// of how much the shield absorbed.
func (d *Drone) TakeDamage(amount float64) bool {
	if !d.IsAlive {
		return false
	}

	d.DamageTaken += amount
	if d.Shield > 0 {
		absorbed := math.Min(d.Shield, amount)
		d.Shield -= absorbed
		amount -= absorbed
	}
	if amount > 0 {
		d.HP -= amount
	}

	if d.HP <= 0 {
		d.HP = 0
		d.IsAlive = false
		return true
	}
	return false
}

// Forward returns the unit vector the drone's nose points along,
// derived from yaw and pitch.
func (d *Drone) Forward() Vec3 {
	pitch, yaw := d.Orientation.Y, d.Orientation.Z
	return Vec3{
		X: math.Cos(pitch) * math.Cos(yaw),
		Y: math.Cos(pitch) * math.Sin(yaw),
		Z: math.Sin(pitch),
	}
}

// DistanceTo returns the Euclidean distance to another drone.
func (d *Drone) DistanceTo(other *Drone) float64 {
	return other.Position.Sub(d.Position).Norm()
}

// AngleTo returns the angle between the drone's forward vector and
// the direction to another drone. Near-zero separation returns zero
// rather than dividing by zero.
func (d *Drone) AngleTo(other *Drone) float64 {
	toOther := other.Position.Sub(d.Position)
	dist := toOther.Norm()
	if dist < 1e-6 {
		return 0
	}
	dot := clampUnit(d.Forward().Dot(toOther.Scale(1 / dist)))
	return math.Acos(dot)
}

// CanSee reports whether another drone lies within the given
// field-of-view cone (full angle, in radians).
func (d *Drone) CanSee(other *Drone, fov float64) bool {
	return d.AngleTo(other) <= fov/2
}
