package combat

import (
	"math"
	"testing"
)

func TestProjectileUpdate(t *testing.T) {
	p := &Projectile{
		Kind:     KindBullet,
		Position: Vec3{X: 10},
		Velocity: Vec3{X: 600},
		Lifetime: 0.25,
	}

	if !p.Update(0.1) {
		t.Fatalf("Projectile expired with lifetime remaining")
	}
	if p.Position.X != 70 {
		t.Errorf("Expected position x 70, got %v", p.Position.X)
	}
	if math.Abs(p.Lifetime-0.15) > 1e-12 {
		t.Errorf("Expected lifetime 0.15, got %v", p.Lifetime)
	}

	p.Update(0.1)
	if p.Update(0.1) {
		t.Errorf("Projectile still active past its lifetime")
	}
}

func TestMissileTrackingBlendsTowardTarget(t *testing.T) {
	m := &Projectile{
		Kind:     KindMissile,
		Position: Vec3{},
		Velocity: Vec3{X: missileSpeed},
		Tracking: missileTracking,
		TargetID: "blue_0",
	}
	target := Vec3{X: 100, Y: 100}

	before := m.Velocity.Normalized().Dot(target.Normalized())
	m.UpdateTracking(target, 0.1)
	after := m.Velocity.Normalized().Dot(target.Normalized())

	if after <= before {
		t.Errorf("Heading did not move toward target: dot %v -> %v", before, after)
	}
	if math.Abs(m.Velocity.Norm()-missileSpeed) > 1e-9 {
		t.Errorf("Tracking changed speed: %v", m.Velocity.Norm())
	}
}

func TestMissileTrackingDegenerateGeometry(t *testing.T) {
	m := &Projectile{
		Kind:     KindMissile,
		Position: Vec3{X: 50},
		Velocity: Vec3{X: missileSpeed},
		Tracking: missileTracking,
	}

	// Target on top of the missile: heading unchanged.
	m.UpdateTracking(Vec3{X: 50}, 0.1)
	if m.Velocity != (Vec3{X: missileSpeed}) {
		t.Errorf("Heading changed on zero-distance target: %+v", m.Velocity)
	}

	// Stationary missile: nothing to steer.
	m.Velocity = Vec3{}
	m.UpdateTracking(Vec3{X: 500}, 0.1)
	if m.Velocity != (Vec3{}) {
		t.Errorf("Stationary missile gained velocity: %+v", m.Velocity)
	}
}

func TestFlareDescendsAndExpires(t *testing.T) {
	f := &Flare{
		Position: Vec3{Z: 100},
		Lifetime: 0.15,
		Radius:   flareRadius,
	}

	if !f.Update(0.1) {
		t.Fatalf("Flare expired with lifetime remaining")
	}
	want := 100 - flareDescentRate*0.1
	if math.Abs(f.Position.Z-want) > 1e-12 {
		t.Errorf("Expected altitude %v, got %v", want, f.Position.Z)
	}

	if f.Update(0.1) {
		t.Errorf("Flare still active past its lifetime")
	}
}

func TestFlareDistraction(t *testing.T) {
	f := &Flare{Position: Vec3{X: 100, Z: 50}, Radius: flareRadius}

	if !f.CanDistract(Vec3{X: 120, Z: 50}) {
		t.Errorf("Point inside radius not distracted")
	}
	if f.CanDistract(Vec3{X: 200, Z: 50}) {
		t.Errorf("Point outside radius distracted")
	}
	// Containment is strict: a point exactly on the boundary is out.
	if f.CanDistract(Vec3{X: 100 + flareRadius, Z: 50}) {
		t.Errorf("Boundary point should not distract")
	}
}
