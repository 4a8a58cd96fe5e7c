package combat

import (
	"fmt"
	"math"
	"math/rand"
)

// episodeState tracks the World's lifecycle. Only Reset moves the
// world back to stateReady; a finished episode ignores further ticks.
type episodeState int

const (
	stateUninitialized episodeState = iota
	stateReady
	stateRunning
	stateFinished
)

// Info is the per-tick episode summary returned alongside
// observations.
type Info struct {
	Step      int    `json:"step"`
	RedAlive  int    `json:"red_alive"`
	BlueAlive int    `json:"blue_alive"`
	Winner    string `json:"winner,omitempty"`
}

// StepResult is everything one tick produces for external callers.
type StepResult struct {
	Observations map[string][]float64
	Rewards      map[string]float64
	Terminated   map[string]bool
	Truncated    map[string]bool
	Info         Info
}

// hitEvent records one projectile impact for reward computation.
type hitEvent struct {
	AttackerID string
	TargetID   string
	Damage     float64
	Killed     bool
}

// firedEvent pairs a drone with the weapon events it emitted this
// tick, preserving arena order for deterministic spawning.
type firedEvent struct {
	drone  *Drone
	events Events
}

// World owns every drone, projectile, and flare of one episode and is
// the only component with cross-entity knowledge (targeting,
// collisions, team membership). It is single-threaded: callers must
// not invoke Step concurrently against the same instance.
type World struct {
	cfg *Config
	rng *rand.Rand

	// drones is the fixed-capacity arena in insertion order; index is
	// the side table from agent id to arena slot. All cross-entity
	// iteration walks the arena, never a Go map, so a fixed seed and
	// action sequence reproduce identical trajectories.
	drones []*Drone
	index  map[string]int

	projectiles []*Projectile
	flares      []*Flare

	wind      Vec3
	stepCount int
	state     episodeState

	nextShotID  int
	nextFlareID int
}

// NewWorld validates the configuration and creates an uninitialized
// world. Reset must be called before the first Step.
func NewWorld(cfg *Config) (*World, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid combat config: %w", err)
	}

	return &World{
		cfg:   cfg,
		index: make(map[string]int),
		state: stateUninitialized,
	}, nil
}

// Config returns the engine configuration the world was built with.
func (w *World) Config() *Config {
	return w.cfg
}

// AgentIDs returns every agent id in arena insertion order.
func (w *World) AgentIDs() []string {
	ids := make([]string, 0, len(w.drones))
	for _, d := range w.drones {
		ids = append(ids, d.ID)
	}
	return ids
}

// Spawn geometry: opposing teams face each other across the x axis,
// laterally offset on y by slot index.
const (
	spawnOffset = 120.0
	spawnHeight = 100.0
	spawnSpread = 50.0
)

// Reset reseeds the episode random stream, recreates every drone at
// its symmetric spawn pose, clears projectiles and flares, draws a
// new wind vector, and zeroes the step counter.
func (w *World) Reset(seed int64) (map[string][]float64, Info) {
	w.rng = rand.New(rand.NewSource(seed))
	w.stepCount = 0
	w.projectiles = w.projectiles[:0]
	w.flares = w.flares[:0]
	w.nextShotID = 0
	w.nextFlareID = 0

	w.drones = w.drones[:0]
	w.index = make(map[string]int)

	for i := 0; i < w.cfg.TeamSize; i++ {
		pos := Vec3{
			X: -spawnOffset,
			Y: (float64(i) - float64(w.cfg.TeamSize)/2) * spawnSpread,
			Z: spawnHeight,
		}
		w.addDrone(NewDrone(fmt.Sprintf("%s_%d", TeamRed, i), TeamRed, pos, Vec3{}))
	}
	for i := 0; i < w.cfg.TeamSize; i++ {
		pos := Vec3{
			X: spawnOffset,
			Y: (float64(i) - float64(w.cfg.TeamSize)/2) * spawnSpread,
			Z: spawnHeight,
		}
		w.addDrone(NewDrone(fmt.Sprintf("%s_%d", TeamBlue, i), TeamBlue, pos, Vec3{Z: math.Pi}))
	}

	w.wind = Vec3{
		X: w.uniform(-5, 5),
		Y: w.uniform(-5, 5),
		Z: w.uniform(-5, 5),
	}

	w.state = stateReady
	return w.encodeObservations(), w.info()
}

// Step performs one fixed-duration tick. It returns an error only
// when called before the first Reset; once the episode is finished,
// further calls are no-ops repeating the terminal result with zero
// rewards.
func (w *World) Step(actions map[string]Action) (*StepResult, error) {
	if w.state == stateUninitialized {
		return nil, fmt.Errorf("step called before reset")
	}
	if w.state == stateFinished {
		return w.terminalResult(), nil
	}
	w.state = stateRunning

	w.stepCount++
	dt := w.cfg.Dt

	// Phase order is determinism-critical; see each phase method.
	fired := w.applyActions(actions, dt)
	w.spawnWeapons(fired)
	w.advanceProjectiles(dt)
	events := w.resolveCollisions()
	w.expireFlares(dt)
	w.clampBounds()
	rewards := w.computeRewards(events)
	terminated, truncated := w.computeDone()

	redAlive, blueAlive := w.aliveCounts()
	if redAlive == 0 || blueAlive == 0 || w.stepCount >= w.cfg.MaxSteps {
		w.state = stateFinished
	}

	return &StepResult{
		Observations: w.encodeObservations(),
		Rewards:      rewards,
		Terminated:   terminated,
		Truncated:    truncated,
		Info:         w.info(),
	}, nil
}

// applyActions runs each drone's action in arena insertion order.
// A drone with no entry in the action map performs no physical update
// this tick: no integration, no cooldown decay, no regeneration.
func (w *World) applyActions(actions map[string]Action, dt float64) []firedEvent {
	var fired []firedEvent
	for _, d := range w.drones {
		action, ok := actions[d.ID]
		if !ok || !d.IsAlive {
			continue
		}
		ev := d.ApplyAction(action, dt)
		if ev.FireGun || ev.FireMissile || ev.DeployFlare {
			fired = append(fired, firedEvent{drone: d, events: ev})
		}
	}
	return fired
}

// spawnWeapons turns this tick's fire and deploy events into live
// projectiles and flares.
func (w *World) spawnWeapons(fired []firedEvent) {
	for _, f := range fired {
		if f.events.FireGun {
			w.fireGun(f.drone)
		}
		if f.events.FireMissile {
			w.fireMissile(f.drone)
		}
		if f.events.DeployFlare {
			w.deployFlare(f.drone)
		}
	}
}

// fireGun spawns a direct-fire round along the firer's forward vector
// perturbed by a small uniform angular spread.
func (w *World) fireGun(d *Drone) {
	dir := d.Forward()
	dir.X += w.uniform(-bulletSpread, bulletSpread)
	dir.Y += w.uniform(-bulletSpread, bulletSpread)
	dir.Z += w.uniform(-bulletSpread, bulletSpread)
	dir = dir.Normalized()

	w.projectiles = append(w.projectiles, &Projectile{
		ID:        fmt.Sprintf("bullet_%d", w.nextShotID),
		OwnerID:   d.ID,
		OwnerTeam: d.Team,
		Kind:      KindBullet,
		Position:  d.Position.Add(dir.Scale(muzzleOffset)),
		Velocity:  dir.Scale(bulletSpeed).Add(d.Velocity),
		Damage:    bulletDamage,
		Lifetime:  bulletLifetime,
	})
	w.nextShotID++
}

// fireMissile spawns a homing munition locked onto the nearest living
// enemy of the firer. Distance ties resolve to the earlier arena slot.
func (w *World) fireMissile(d *Drone) {
	targetID := ""
	best := math.Inf(1)
	for _, e := range w.drones {
		if e.Team == d.Team || !e.IsAlive {
			continue
		}
		if dist := d.DistanceTo(e); dist < best {
			best = dist
			targetID = e.ID
		}
	}

	dir := d.Forward()
	w.projectiles = append(w.projectiles, &Projectile{
		ID:        fmt.Sprintf("missile_%d", w.nextShotID),
		OwnerID:   d.ID,
		OwnerTeam: d.Team,
		Kind:      KindMissile,
		Position:  d.Position.Add(dir.Scale(muzzleOffset)),
		Velocity:  dir.Scale(missileSpeed),
		Damage:    missileDamage,
		Lifetime:  missileLifetime,
		TargetID:  targetID,
		Tracking:  missileTracking,
	})
	w.nextShotID++
}

// deployFlare spawns a countermeasure at the deploying drone's
// current position.
func (w *World) deployFlare(d *Drone) {
	w.flares = append(w.flares, &Flare{
		ID:       fmt.Sprintf("flare_%d", w.nextFlareID),
		OwnerID:  d.ID,
		Position: d.Position,
		Lifetime: flareLifetime,
		Radius:   flareRadius,
	})
	w.nextFlareID++
}

// advanceProjectiles re-resolves each missile's target by id, applies
// flare distraction, then integrates motion and drops expired rounds.
// A lock broken by a flare is never restored.
func (w *World) advanceProjectiles(dt float64) {
	active := w.projectiles[:0]
	for _, p := range w.projectiles {
		if p.Kind == KindMissile && p.TargetID != "" {
			distracted := false
			for _, f := range w.flares {
				if f.CanDistract(p.Position) {
					distracted = true
					break
				}
			}
			if distracted {
				p.TargetID = ""
			} else if target, ok := w.drone(p.TargetID); ok && target.IsAlive {
				p.UpdateTracking(target.Position, dt)
			}
		}
		if p.Update(dt) {
			active = append(active, p)
		}
	}
	w.projectiles = active
}

// resolveCollisions walks projectiles in list order; the first living
// enemy drone inside the type-specific hit radius absorbs the damage
// and the projectile is consumed. At most one hit per projectile.
func (w *World) resolveCollisions() []hitEvent {
	var events []hitEvent
	remaining := w.projectiles[:0]

	for _, p := range w.projectiles {
		radius := w.cfg.BulletHitRadius
		if p.Kind == KindMissile {
			radius = w.cfg.MissileHitRadius
		}

		hit := false
		for _, d := range w.drones {
			if !d.IsAlive || d.Team == p.OwnerTeam {
				continue
			}
			if p.Position.Sub(d.Position).Norm() < radius {
				killed := d.TakeDamage(p.Damage)
				if attacker, ok := w.drone(p.OwnerID); ok {
					attacker.DamageDealt += p.Damage
					if killed {
						attacker.Kills++
					}
				}
				events = append(events, hitEvent{
					AttackerID: p.OwnerID,
					TargetID:   d.ID,
					Damage:     p.Damage,
					Killed:     killed,
				})
				hit = true
				break
			}
		}
		if !hit {
			remaining = append(remaining, p)
		}
	}

	w.projectiles = remaining
	return events
}

// expireFlares advances flares and drops the expired ones.
func (w *World) expireFlares(dt float64) {
	active := w.flares[:0]
	for _, f := range w.flares {
		if f.Update(dt) {
			active = append(active, f)
		}
	}
	w.flares = active
}

// clampBounds keeps every living drone inside the horizontal bounds
// and the height band, reflecting and damping velocity on the clamped
// axis. Hitting the floor costs a fixed fall-damage hit.
func (w *World) clampBounds() {
	const damping = 0.5
	const fallDamage = 5.0
	bounds := w.cfg.MapBounds
	height := w.cfg.MapHeight

	for _, d := range w.drones {
		if !d.IsAlive {
			continue
		}

		if d.Position.X < bounds.Lo {
			d.Position.X = bounds.Lo
			d.Velocity.X = math.Abs(d.Velocity.X) * damping
		} else if d.Position.X > bounds.Hi {
			d.Position.X = bounds.Hi
			d.Velocity.X = -math.Abs(d.Velocity.X) * damping
		}

		if d.Position.Y < bounds.Lo {
			d.Position.Y = bounds.Lo
			d.Velocity.Y = math.Abs(d.Velocity.Y) * damping
		} else if d.Position.Y > bounds.Hi {
			d.Position.Y = bounds.Hi
			d.Velocity.Y = -math.Abs(d.Velocity.Y) * damping
		}

		if d.Position.Z < height.Lo {
			d.Position.Z = height.Lo
			d.Velocity.Z = math.Abs(d.Velocity.Z) * damping
			d.TakeDamage(fallDamage)
		} else if d.Position.Z > height.Hi {
			d.Position.Z = height.Hi
			d.Velocity.Z = -math.Abs(d.Velocity.Z) * damping
		}
	}
}

// computeRewards grants every living agent the survival reward and
// settles this tick's hit events. A target that died this tick still
// pays its damage and death penalties.
func (w *World) computeRewards(events []hitEvent) map[string]float64 {
	rewards := make(map[string]float64, len(w.drones))
	for _, d := range w.drones {
		if d.IsAlive {
			rewards[d.ID] = w.cfg.SurvivalReward
		} else {
			rewards[d.ID] = 0
		}
	}

	for _, ev := range events {
		if _, ok := rewards[ev.AttackerID]; ok {
			rewards[ev.AttackerID] += ev.Damage * w.cfg.DamageReward
			if ev.Killed {
				rewards[ev.AttackerID] += w.cfg.KillReward
			}
		}
		if _, ok := rewards[ev.TargetID]; ok {
			rewards[ev.TargetID] -= ev.Damage * w.cfg.DamagePenalty
			if ev.Killed {
				rewards[ev.TargetID] -= w.cfg.DeathPenalty
			}
		}
	}

	return rewards
}

// computeDone returns the per-agent terminated and truncated flags.
// Both carry the same boolean for every agent.
func (w *World) computeDone() (terminated, truncated map[string]bool) {
	redAlive, blueAlive := w.aliveCounts()
	done := redAlive == 0 || blueAlive == 0
	cutoff := w.stepCount >= w.cfg.MaxSteps

	terminated = make(map[string]bool, len(w.drones))
	truncated = make(map[string]bool, len(w.drones))
	for _, d := range w.drones {
		terminated[d.ID] = done
		truncated[d.ID] = cutoff
	}
	return terminated, truncated
}

// terminalResult repeats the terminal observation set with zero
// rewards for ticks arriving after the episode has finished.
func (w *World) terminalResult() *StepResult {
	rewards := make(map[string]float64, len(w.drones))
	for _, d := range w.drones {
		rewards[d.ID] = 0
	}
	terminated, truncated := w.computeDone()

	return &StepResult{
		Observations: w.encodeObservations(),
		Rewards:      rewards,
		Terminated:   terminated,
		Truncated:    truncated,
		Info:         w.info(),
	}
}

func (w *World) info() Info {
	redAlive, blueAlive := w.aliveCounts()

	winner := ""
	if blueAlive == 0 && redAlive > 0 {
		winner = TeamRed
	} else if redAlive == 0 && blueAlive > 0 {
		winner = TeamBlue
	}

	return Info{
		Step:      w.stepCount,
		RedAlive:  redAlive,
		BlueAlive: blueAlive,
		Winner:    winner,
	}
}

func (w *World) aliveCounts() (red, blue int) {
	for _, d := range w.drones {
		if !d.IsAlive {
			continue
		}
		if d.Team == TeamRed {
			red++
		} else {
			blue++
		}
	}
	return red, blue
}

func (w *World) addDrone(d *Drone) {
	w.index[d.ID] = len(w.drones)
	w.drones = append(w.drones, d)
}

func (w *World) drone(id string) (*Drone, bool) {
	i, ok := w.index[id]
	if !ok {
		return nil, false
	}
	return w.drones[i], true
}

// uniform draws from [lo, hi) on the episode's seeded stream.
func (w *World) uniform(lo, hi float64) float64 {
	return lo + w.rng.Float64()*(hi-lo)
}
