package combat

import (
	"math"
	"testing"
)

func newTestDrone(id, team string) *Drone {
	return NewDrone(id, team, Vec3{Z: 100}, Vec3{})
}

func TestApplyActionGates(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(*Drone)
		action Action
		check  func(*testing.T, *Drone, Events)
	}{
		{
			name:   "fire gun consumes ammo and emits event",
			action: Action{Discrete: ActionFireGun},
			check: func(t *testing.T, d *Drone, ev Events) {
				if !ev.FireGun {
					t.Errorf("Expected fire gun event")
				}
				if d.Ammo != MaxAmmo-1 {
					t.Errorf("Expected ammo %d, got %d", MaxAmmo-1, d.Ammo)
				}
			},
		},
		{
			name:   "fire gun without ammo is suppressed",
			setup:  func(d *Drone) { d.Ammo = 0 },
			action: Action{Discrete: ActionFireGun},
			check: func(t *testing.T, d *Drone, ev Events) {
				if ev.FireGun {
					t.Errorf("Expected no fire gun event with empty magazine")
				}
			},
		},
		{
			name:   "fire missile consumes munition, energy, and resets cooldown",
			action: Action{Discrete: ActionFireMissile},
			check: func(t *testing.T, d *Drone, ev Events) {
				if !ev.FireMissile {
					t.Errorf("Expected fire missile event")
				}
				if d.Missiles != MaxMissiles-1 {
					t.Errorf("Expected %d missiles, got %d", MaxMissiles-1, d.Missiles)
				}
				if d.MissileCooldown != missileCooldownDuration {
					t.Errorf("Expected cooldown %v, got %v", missileCooldownDuration, d.MissileCooldown)
				}
			},
		},
		{
			name:   "fire missile on cooldown is suppressed",
			setup:  func(d *Drone) { d.MissileCooldown = 3.0 },
			action: Action{Discrete: ActionFireMissile},
			check: func(t *testing.T, d *Drone, ev Events) {
				if ev.FireMissile {
					t.Errorf("Expected no missile event while on cooldown")
				}
				if d.Missiles != MaxMissiles {
					t.Errorf("Missile count changed on gated action: %d", d.Missiles)
				}
			},
		},
		{
			name:   "fire missile without energy is suppressed",
			setup:  func(d *Drone) { d.Energy = MissileCost - 1 },
			action: Action{Discrete: ActionFireMissile},
			check: func(t *testing.T, d *Drone, ev Events) {
				if ev.FireMissile {
					t.Errorf("Expected no missile event without energy")
				}
			},
		},
		{
			name:   "deploy flare consumes energy and resets cooldown",
			action: Action{Discrete: ActionDeployFlare},
			check: func(t *testing.T, d *Drone, ev Events) {
				if !ev.DeployFlare {
					t.Errorf("Expected deploy flare event")
				}
				if d.FlareCooldown != flareCooldownDuration {
					t.Errorf("Expected flare cooldown %v, got %v", flareCooldownDuration, d.FlareCooldown)
				}
			},
		},
		{
			name:   "boost consumes energy and sets flag",
			action: Action{Discrete: ActionBoost},
			check: func(t *testing.T, d *Drone, ev Events) {
				if !d.IsBoosting {
					t.Errorf("Expected boosting flag set")
				}
				if d.Energy >= MaxEnergy {
					t.Errorf("Expected boost to consume energy")
				}
			},
		},
		{
			name:   "out-of-range code behaves as idle and clears boost",
			setup:  func(d *Drone) { d.IsBoosting = true },
			action: Action{Discrete: 42},
			check: func(t *testing.T, d *Drone, ev Events) {
				if ev.FireGun || ev.FireMissile || ev.DeployFlare {
					t.Errorf("Expected no events for unknown code")
				}
				if d.IsBoosting {
					t.Errorf("Expected boosting flag cleared")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDrone("red_0", TeamRed)
			if tt.setup != nil {
				tt.setup(d)
			}
			ev := d.ApplyAction(tt.action, 0.1)
			tt.check(t, d, ev)
		})
	}
}

func TestApplyActionDeadDroneIsNoOp(t *testing.T) {
	d := newTestDrone("red_0", TeamRed)
	d.HP = 0
	d.IsAlive = false
	d.MissileCooldown = 2.0
	before := *d

	ev := d.ApplyAction(Action{Discrete: ActionFireGun, Continuous: [4]float64{1, 1, 1, 1}}, 0.1)

	if ev.FireGun || ev.FireMissile || ev.DeployFlare {
		t.Errorf("Dead drone emitted events: %+v", ev)
	}
	if *d != before {
		t.Errorf("Dead drone state changed: %+v != %+v", *d, before)
	}
}

func TestApplyActionCooldownDecay(t *testing.T) {
	d := newTestDrone("red_0", TeamRed)
	d.MissileCooldown = 0.25
	d.FlareCooldown = 0.05

	d.ApplyAction(Action{}, 0.1)

	if math.Abs(d.MissileCooldown-0.15) > 1e-12 {
		t.Errorf("Expected missile cooldown 0.15, got %v", d.MissileCooldown)
	}
	if d.FlareCooldown != 0 {
		t.Errorf("Expected flare cooldown floored at zero, got %v", d.FlareCooldown)
	}
}

func TestApplyActionOrientationWraps(t *testing.T) {
	d := newTestDrone("red_0", TeamRed)
	d.Orientation.Z = math.Pi - 0.01

	// Full positive yaw rate for one tick pushes yaw past pi.
	d.ApplyAction(Action{Continuous: [4]float64{0, 0, 1, 0}}, 0.1)

	if d.Orientation.Z >= math.Pi || d.Orientation.Z < -math.Pi {
		t.Errorf("Yaw not wrapped: %v", d.Orientation.Z)
	}
	if d.Orientation.Z > 0 {
		t.Errorf("Expected yaw to wrap to the negative side, got %v", d.Orientation.Z)
	}
}

func TestApplyActionSpeedClampRescales(t *testing.T) {
	d := newTestDrone("red_0", TeamRed)
	d.Velocity = Vec3{X: MaxSpeed, Y: MaxSpeed, Z: 0}

	// A tiny dt keeps drag from shedding the excess speed before the
	// clamp fires.
	d.ApplyAction(Action{}, 0.001)

	speed := d.Velocity.Norm()
	if math.Abs(speed-MaxSpeed) > 1e-9 {
		t.Errorf("Expected speed clamped to %v, got %v", float64(MaxSpeed), speed)
	}
	// Rescaling preserves direction; component clipping would zero the
	// smaller axis instead.
	if math.Abs(d.Velocity.X-d.Velocity.Y) > 1e-6 {
		t.Errorf("Velocity direction lost during clamp: %+v", d.Velocity)
	}
}

func TestApplyActionRegeneration(t *testing.T) {
	d := newTestDrone("red_0", TeamRed)
	d.Shield = 10
	d.Energy = 50

	d.ApplyAction(Action{}, 0.1)

	if math.Abs(d.Shield-(10+ShieldRegen*0.1)) > 1e-12 {
		t.Errorf("Expected shield regen, got %v", d.Shield)
	}
	// Stationary drone regenerates energy at the boosted low-speed rate.
	want := 50 + EnergyRegen*1.5*0.1
	if math.Abs(d.Energy-want) > 1e-12 {
		t.Errorf("Expected energy %v, got %v", want, d.Energy)
	}
}

func TestTakeDamageShieldAbsorbsFirst(t *testing.T) {
	d := newTestDrone("blue_0", TeamBlue)

	killed := d.TakeDamage(30)

	if killed {
		t.Errorf("30 damage against full shield should not kill")
	}
	if d.Shield != MaxShield-30 {
		t.Errorf("Expected shield %v, got %v", MaxShield-30, d.Shield)
	}
	if d.HP != MaxHP {
		t.Errorf("HP changed while shield absorbed the hit: %v", d.HP)
	}
	if d.DamageTaken != 30 {
		t.Errorf("Expected damage taken 30, got %v", d.DamageTaken)
	}
}

func TestTakeDamageCarriesThroughShield(t *testing.T) {
	d := newTestDrone("blue_0", TeamBlue)
	d.Shield = 10

	d.TakeDamage(25)

	if d.Shield != 0 {
		t.Errorf("Expected shield depleted, got %v", d.Shield)
	}
	if d.HP != MaxHP-15 {
		t.Errorf("Expected hp %v, got %v", MaxHP-15, d.HP)
	}
}

func TestTakeDamageLethalClampsAndKills(t *testing.T) {
	d := newTestDrone("blue_0", TeamBlue)
	d.Shield = 0
	d.HP = 5

	killed := d.TakeDamage(40)

	if !killed {
		t.Errorf("Expected lethal hit to report a kill")
	}
	if d.HP != 0 {
		t.Errorf("Expected hp clamped to 0, got %v", d.HP)
	}
	if d.IsAlive {
		t.Errorf("Expected alive flag cleared")
	}

	// Further damage is a no-op on a dead drone.
	if d.TakeDamage(100) {
		t.Errorf("Dead drone reported another kill")
	}
	if d.HP != 0 || d.DamageTaken != 40 {
		t.Errorf("Dead drone state changed: hp=%v damageTaken=%v", d.HP, d.DamageTaken)
	}
}

func TestGeometryQueries(t *testing.T) {
	a := NewDrone("red_0", TeamRed, Vec3{X: 0, Y: 0, Z: 100}, Vec3{})
	b := NewDrone("blue_0", TeamBlue, Vec3{X: 100, Y: 0, Z: 100}, Vec3{Z: math.Pi})

	if dist := a.DistanceTo(b); dist != 100 {
		t.Errorf("Expected distance 100, got %v", dist)
	}

	// b is dead ahead of a (yaw 0 points along +x).
	if angle := a.AngleTo(b); angle > 1e-9 {
		t.Errorf("Expected zero bearing angle, got %v", angle)
	}

	if !a.CanSee(b, math.Pi/3) {
		t.Errorf("Expected line of sight to a target dead ahead")
	}

	// A target directly behind is outside any forward cone.
	c := NewDrone("blue_1", TeamBlue, Vec3{X: -100, Y: 0, Z: 100}, Vec3{})
	if a.CanSee(c, math.Pi/3) {
		t.Errorf("Expected no line of sight to a target behind")
	}
}

func TestAngleToNearZeroDistance(t *testing.T) {
	a := NewDrone("red_0", TeamRed, Vec3{X: 1, Y: 2, Z: 3}, Vec3{})
	b := NewDrone("blue_0", TeamBlue, Vec3{X: 1, Y: 2, Z: 3}, Vec3{})

	if angle := a.AngleTo(b); angle != 0 {
		t.Errorf("Expected epsilon guard to return 0, got %v", angle)
	}
}
