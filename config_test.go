package store

import "testing"

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig(map[string]string{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.DevelopmentMode {
		t.Fatalf("expected development mode off by default")
	}
	if !cfg.Activity.Enabled {
		t.Fatalf("expected activity enabled by default")
	}
}

func TestParseConfigReadsVariables(t *testing.T) {
	cfg, err := ParseConfig(map[string]string{
		"STATESTORE_DEVELOPMENT_MODE": "true",
		"STATESTORE_ACTIVITY_ENABLED": "false",
		"STATESTORE_ACTIVITY_CHANNEL": "audit",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !cfg.DevelopmentMode || cfg.Activity.Enabled || cfg.Activity.Channel != "audit" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestParseConfigRejectsInvalidBool(t *testing.T) {
	if _, err := ParseConfig(map[string]string{"STATESTORE_DEVELOPMENT_MODE": "maybe"}); err == nil {
		t.Fatalf("expected invalid boolean to fail")
	}
}

func TestDevelopmentModeCapturedAtConstruction(t *testing.T) {
	cfg := Config{DevelopmentMode: true}
	ops := NewOperations(nil, nil, cfg)
	cfg.DevelopmentMode = false
	if !ops.DevelopmentMode() {
		t.Fatalf("expected development mode captured at construction")
	}
}
