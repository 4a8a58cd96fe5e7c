package combat

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads an engine configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Start from defaults so a partial file only overrides what it names.
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadConfigOrDefault loads config from a file when a path is given,
// falling back to the default configuration, and always applies
// environment variable overrides.
func LoadConfigOrDefault(path string) (*Config, error) {
	var config *Config

	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	} else {
		config = DefaultConfig()
	}

	MergeWithEnvironment(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed after overrides: %w", err)
	}

	return config, nil
}

// SaveConfig saves an engine configuration to a YAML file.
func SaveConfig(config *Config, path string) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// MergeWithEnvironment merges config with environment variables.
// Invalid values are ignored; the final Validate call is the arbiter.
func MergeWithEnvironment(config *Config) {
	if teamSize := os.Getenv("COMBAT_TEAM_SIZE"); teamSize != "" {
		if size, err := strconv.Atoi(teamSize); err == nil && size > 0 {
			config.TeamSize = size
		}
	}

	if maxSteps := os.Getenv("COMBAT_MAX_STEPS"); maxSteps != "" {
		if steps, err := strconv.Atoi(maxSteps); err == nil && steps > 0 {
			config.MaxSteps = steps
		}
	}

	if dt := os.Getenv("COMBAT_TICK_SECONDS"); dt != "" {
		if tick, err := strconv.ParseFloat(dt, 64); err == nil && tick > 0 {
			config.Dt = tick
		}
	}

	if survival := os.Getenv("COMBAT_SURVIVAL_REWARD"); survival != "" {
		if reward, err := strconv.ParseFloat(survival, 64); err == nil && reward >= 0 {
			config.SurvivalReward = reward
		}
	}

	if kill := os.Getenv("COMBAT_KILL_REWARD"); kill != "" {
		if reward, err := strconv.ParseFloat(kill, 64); err == nil && reward >= 0 {
			config.KillReward = reward
		}
	}
}
