package skirmish

import "testing"

func validParams() map[string]interface{} {
	return map[string]interface{}{
		"team_size": 3,
		"episodes":  2,
		"seed":      42,
		"max_steps": 1000,
	}
}

func TestValidateAndParse(t *testing.T) {
	cfg, err := ValidateAndParse(validParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TeamSize != 3 || cfg.Episodes != 2 || cfg.Seed != 42 || cfg.MaxSteps != 1000 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.ReplayDir != "replays" {
		t.Errorf("expected default replay dir, got %q", cfg.ReplayDir)
	}
}

func TestValidateAndParseAcceptsFloatValues(t *testing.T) {
	// Survey and YAML both hand integers back as float64 sometimes.
	params := validParams()
	params["team_size"] = float64(4)
	params["seed"] = float64(7)

	cfg, err := ValidateAndParse(params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TeamSize != 4 || cfg.Seed != 7 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestValidateAndParseRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"team size zero", func(p map[string]interface{}) { p["team_size"] = 0 }},
		{"team size too large", func(p map[string]interface{}) { p["team_size"] = 9 }},
		{"team size not a number", func(p map[string]interface{}) { p["team_size"] = "three" }},
		{"episodes zero", func(p map[string]interface{}) { p["episodes"] = 0 }},
		{"episodes too many", func(p map[string]interface{}) { p["episodes"] = 101 }},
		{"max steps zero", func(p map[string]interface{}) { p["max_steps"] = 0 }},
		{"record replay not boolean", func(p map[string]interface{}) { p["record_replay"] = "yes" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(params)
			if _, err := ValidateAndParse(params); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestValidateAndParseReplayOptions(t *testing.T) {
	params := validParams()
	params["record_replay"] = true
	params["replay_dir"] = "out/replays"

	cfg, err := ValidateAndParse(params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.RecordReplay {
		t.Error("expected replay recording enabled")
	}
	if cfg.ReplayDir != "out/replays" {
		t.Errorf("unexpected replay dir %q", cfg.ReplayDir)
	}
}
