package combat

// Ballistics constants for the two projectile types and the flare.
const (
	bulletSpeed      = 600.0
	bulletDamage     = 8.0
	bulletLifetime   = 1.2
	bulletSpread     = 0.08
	muzzleOffset     = 5.0
	missileSpeed     = 150.0
	missileDamage    = 40.0
	missileLifetime  = 3.5
	missileTracking  = 0.8
	flareLifetime    = 3.0
	flareRadius      = 50.0
	flareDescentRate = 5.0
)

// ProjectileKind distinguishes direct-fire rounds from homing
// munitions; the two use different hit radii and only munitions track.
type ProjectileKind int

const (
	KindBullet ProjectileKind = iota
	KindMissile
)

// Projectile is a ballistic entity owned by the drone that fired it.
// Missiles additionally carry a target lock; an empty TargetID on a
// missile means the lock is broken, and a broken lock is never
// reacquired.
type Projectile struct {
	ID        string
	OwnerID   string
	OwnerTeam string
	Kind      ProjectileKind

	Position Vec3
	Velocity Vec3
	Damage   float64
	Lifetime float64

	TargetID string
	Tracking float64
}

// Update integrates position by velocity, burns lifetime, and reports
// whether the projectile is still active.
func (p *Projectile) Update(dt float64) bool {
	p.Position = p.Position.Add(p.Velocity.Scale(dt))
	p.Lifetime -= dt
	return p.Lifetime > 0
}

// UpdateTracking blends the missile's heading toward the target's
// current position by the tracking coefficient, preserving speed.
// This approximates proportional navigation. Degenerate geometry
// (target on top of the missile, or a stationary missile) leaves the
// heading unchanged.
func (p *Projectile) UpdateTracking(targetPos Vec3, dt float64) {
	toTarget := targetPos.Sub(p.Position)
	dist := toTarget.Norm()
	if dist < 1e-6 {
		return
	}

	desired := toTarget.Scale(1 / dist)
	speed := p.Velocity.Norm()
	if speed < 1e-6 {
		return
	}

	current := p.Velocity.Scale(1 / speed)
	blend := p.Tracking * dt
	newDir := current.Scale(1 - blend).Add(desired.Scale(blend)).Normalized()
	p.Velocity = newDir.Scale(speed)
}

// Flare is a countermeasure decoy. It descends at a fixed rate and
// breaks the lock of any missile that enters its distraction radius.
type Flare struct {
	ID       string
	OwnerID  string
	Position Vec3
	Lifetime float64
	Radius   float64
}

// Update burns lifetime and lets the flare fall; it reports whether
// the flare is still active.
func (f *Flare) Update(dt float64) bool {
	f.Lifetime -= dt
	f.Position.Z -= flareDescentRate * dt
	return f.Lifetime > 0
}

// CanDistract reports whether a point lies inside the flare's
// distraction radius.
func (f *Flare) CanDistract(point Vec3) bool {
	return point.Sub(f.Position).Norm() < f.Radius
}
