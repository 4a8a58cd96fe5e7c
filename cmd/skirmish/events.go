package skirmish

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/skyforge/combat-simulations/pkg/combat"
	"github.com/skyforge/combat-simulations/pkg/logger"
)

// eventReporter logs notable combat events by diffing consecutive
// snapshots. It keeps no engine state of its own.
type eventReporter struct {
	log      logger.Logger
	redTint  func(a ...interface{}) string
	blueTint func(a ...interface{}) string
}

func newEventReporter(log logger.Logger) *eventReporter {
	return &eventReporter{
		log:      log,
		redTint:  color.New(color.FgRed, color.Bold).SprintFunc(),
		blueTint: color.New(color.FgCyan, color.Bold).SprintFunc(),
	}
}

func (r *eventReporter) tint(team, s string) string {
	if team == combat.TeamRed {
		return r.redTint(s)
	}
	return r.blueTint(s)
}

// Observe reports drones destroyed between two consecutive snapshots.
func (r *eventReporter) Observe(prev, cur combat.Snapshot) {
	alive := make(map[string]bool, len(prev.Drones))
	for _, d := range prev.Drones {
		alive[d.ID] = d.IsAlive
	}

	for _, d := range cur.Drones {
		if alive[d.ID] && !d.IsAlive {
			r.log.Infof("step %d: %s destroyed", cur.Step, r.tint(d.Team, d.ID))
		}
	}
}

// Summary reports the outcome of a finished episode.
func (r *eventReporter) Summary(episode int, info combat.Info) {
	outcome := "draw (step limit reached)"
	if info.Winner != "" {
		outcome = r.tint(info.Winner, fmt.Sprintf("team %s wins", info.Winner))
	}

	r.log.Infof("episode %d finished after %d steps: %s (red alive %d, blue alive %d)",
		episode, info.Step, outcome, info.RedAlive, info.BlueAlive)
}
