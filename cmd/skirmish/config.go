package skirmish

import "fmt"

// Config holds the configuration for the skirmish simulation
type Config struct {
	TeamSize     int
	Episodes     int
	Seed         int64
	MaxSteps     int
	ConfigPath   string
	RecordReplay bool
	ReplayDir    string
}

// ValidateAndParse validates and parses the raw parameters into a Config
func ValidateAndParse(params map[string]interface{}) (*Config, error) {
	config := &Config{}

	if v, ok := params["team_size"]; ok {
		n, err := asInt(v)
		if err != nil {
			return nil, fmt.Errorf("team_size must be an integer")
		}
		config.TeamSize = n
	}
	if config.TeamSize < 1 || config.TeamSize > 8 {
		return nil, fmt.Errorf("team_size must be between 1 and 8")
	}

	if v, ok := params["episodes"]; ok {
		n, err := asInt(v)
		if err != nil {
			return nil, fmt.Errorf("episodes must be an integer")
		}
		config.Episodes = n
	}
	if config.Episodes < 1 || config.Episodes > 100 {
		return nil, fmt.Errorf("episodes must be between 1 and 100")
	}

	if v, ok := params["seed"]; ok {
		n, err := asInt(v)
		if err != nil {
			return nil, fmt.Errorf("seed must be an integer")
		}
		config.Seed = int64(n)
	}

	if v, ok := params["max_steps"]; ok {
		n, err := asInt(v)
		if err != nil {
			return nil, fmt.Errorf("max_steps must be an integer")
		}
		config.MaxSteps = n
	}
	if config.MaxSteps < 1 {
		return nil, fmt.Errorf("max_steps must be positive")
	}

	if v, ok := params["config"]; ok && v != nil {
		config.ConfigPath = fmt.Sprintf("%v", v)
	}

	if v, ok := params["record_replay"]; ok {
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("record_replay must be a boolean")
		}
		config.RecordReplay = b
	}

	config.ReplayDir = "replays"
	if v, ok := params["replay_dir"]; ok && v != nil {
		if s := fmt.Sprintf("%v", v); s != "" {
			config.ReplayDir = s
		}
	}

	return config, nil
}

func asInt(v interface{}) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(val), nil
	default:
		return 0, fmt.Errorf("not an integer: %v", v)
	}
}
