package skirmish

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/skyforge/combat-simulations/pkg/combat"
	"github.com/skyforge/combat-simulations/pkg/logger"
	"github.com/skyforge/combat-simulations/pkg/simulation"
)

// SkirmishSimulation runs scripted team-versus-team combat episodes
// on the combat engine.
type SkirmishSimulation struct {
	config   *Config
	mu       sync.Mutex
	stopChan chan struct{}
}

// NewSkirmishSimulation creates a new instance of the skirmish simulation
func NewSkirmishSimulation() simulation.Simulation {
	return &SkirmishSimulation{
		stopChan: make(chan struct{}),
	}
}

// Name returns the simulation name
func (s *SkirmishSimulation) Name() string {
	return "Aerial Skirmish"
}

// Description returns the simulation description
func (s *SkirmishSimulation) Description() string {
	return "Two drone teams fight with guns, homing missiles and flares inside a bounded arena"
}

// Configure sets up the simulation with provided parameters
func (s *SkirmishSimulation) Configure(params map[string]interface{}) error {
	config, err := ValidateAndParse(params)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	s.config = config
	return nil
}

// Run executes the configured number of episodes
func (s *SkirmishSimulation) Run(ctx context.Context) error {
	if s.config == nil {
		return fmt.Errorf("simulation not configured")
	}

	runID := uuid.New().String()[:8]
	log := logger.WithPrefix("skirmish").WithField("run", runID)

	worldCfg, err := combat.LoadConfigOrDefault(s.config.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load world config: %w", err)
	}
	worldCfg.TeamSize = s.config.TeamSize
	worldCfg.MaxSteps = s.config.MaxSteps
	if err := worldCfg.Validate(); err != nil {
		return fmt.Errorf("invalid world config: %w", err)
	}

	world, err := combat.NewWorld(worldCfg)
	if err != nil {
		return fmt.Errorf("failed to create world: %w", err)
	}

	log.Infof("Running %d episode(s), %dv%d, seed %d",
		s.config.Episodes, s.config.TeamSize, s.config.TeamSize, s.config.Seed)

	for episode := 0; episode < s.config.Episodes; episode++ {
		if err := s.runEpisode(ctx, log, world, runID, episode); err != nil {
			return err
		}
	}

	return nil
}

func (s *SkirmishSimulation) runEpisode(ctx context.Context, log logger.Logger, world *combat.World, runID string, episode int) error {
	world.Reset(s.config.Seed + int64(episode))

	controller := newPursuitController()
	reporter := newEventReporter(log)

	var recorder *replayRecorder
	if s.config.RecordReplay {
		var err error
		recorder, err = newReplayRecorder(s.config.ReplayDir, runID, episode)
		if err != nil {
			return err
		}
		defer func() {
			if err := recorder.Close(); err != nil {
				log.Errorf("Failed to close replay: %v", err)
			}
		}()
		log.Infof("Recording replay to %s", recorder.Path())
	}

	snap := world.RenderSnapshot()
	if recorder != nil {
		if err := recorder.Record(snap); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopChan:
			log.Info("Simulation stopped by user")
			return nil
		default:
		}

		result, err := world.Step(controller.Actions(snap))
		if err != nil {
			return fmt.Errorf("step failed: %w", err)
		}

		prev := snap
		snap = world.RenderSnapshot()
		reporter.Observe(prev, snap)

		if recorder != nil {
			if err := recorder.Record(snap); err != nil {
				return err
			}
		}

		if episodeOver(result) {
			reporter.Summary(episode, result.Info)
			return nil
		}
	}
}

// episodeOver reports whether every agent is terminated or truncated.
// The engine sets the same flag for all agents, so one true entry is
// enough.
func episodeOver(result *combat.StepResult) bool {
	for _, done := range result.Terminated {
		if done {
			return true
		}
	}
	for _, done := range result.Truncated {
		if done {
			return true
		}
	}
	return false
}

// Stop gracefully shuts down the simulation
func (s *SkirmishSimulation) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
	return nil
}

// init registers the simulation
func init() {
	if err := simulation.DefaultRegistry.Register("Aerial Skirmish", NewSkirmishSimulation); err != nil {
		logger.Errorf("Failed to register simulation: %v", err)
	}
}
