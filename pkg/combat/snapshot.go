package combat

// Snapshot is the read-only, renderer-facing view of the world.
// Visualization layers consume it; they never mutate engine state.
type Snapshot struct {
	Step        int                  `json:"step"`
	Drones      []DroneSnapshot      `json:"drones"`
	Projectiles []ProjectileSnapshot `json:"projectiles"`
}

// DroneSnapshot is one drone's renderable state.
type DroneSnapshot struct {
	ID          string     `json:"id"`
	Team        string     `json:"team"`
	Position    [3]float64 `json:"position"`
	Velocity    [3]float64 `json:"velocity"`
	Orientation [3]float64 `json:"orientation"`
	HP          float64    `json:"hp"`
	Shield      float64    `json:"shield"`
	IsAlive     bool       `json:"is_alive"`
}

// ProjectileSnapshot is one in-flight projectile's renderable state.
type ProjectileSnapshot struct {
	ID       string     `json:"id"`
	Position [3]float64 `json:"position"`
}

// RenderSnapshot copies the current world state into a snapshot.
// Dead drones stay in the list for final-state reporting.
func (w *World) RenderSnapshot() Snapshot {
	snap := Snapshot{
		Step:        w.stepCount,
		Drones:      make([]DroneSnapshot, 0, len(w.drones)),
		Projectiles: make([]ProjectileSnapshot, 0, len(w.projectiles)),
	}

	for _, d := range w.drones {
		snap.Drones = append(snap.Drones, DroneSnapshot{
			ID:          d.ID,
			Team:        d.Team,
			Position:    d.Position.Array(),
			Velocity:    d.Velocity.Array(),
			Orientation: d.Orientation.Array(),
			HP:          d.HP,
			Shield:      d.Shield,
			IsAlive:     d.IsAlive,
		})
	}

	for _, p := range w.projectiles {
		snap.Projectiles = append(snap.Projectiles, ProjectileSnapshot{
			ID:       p.ID,
			Position: p.Position.Array(),
		})
	}

	return snap
}
