package config

import (
	"testing"

	"github.com/ngoclaw/loopguard/tool"
)

func TestDefault_IsValid(t *testing.T) {
	errs, _ := Validate(Default())
	if len(errs) != 0 {
		t.Fatalf("expected default config to be valid, got errors: %v", errs)
	}
}

func TestGetPreset_DeepCopy(t *testing.T) {
	a := GetPreset(PresetStrict)
	b := GetPreset(PresetStrict)
	a.ExactMatchThreshold = 999
	if b.ExactMatchThreshold == 999 {
		t.Fatal("expected GetPreset to return independent copies")
	}
}

func TestGetPreset_Values(t *testing.T) {
	strict := GetPreset(PresetStrict)
	if strict.ExactMatchThreshold != 2 || strict.SemanticSimilarityThreshold != 0.75 {
		t.Fatalf("unexpected strict preset: %+v", strict)
	}
	permissive := GetPreset(PresetPermissive)
	if permissive.ExactMatchThreshold != 5 || permissive.SemanticSimilarityThreshold != 0.95 {
		t.Fatalf("unexpected permissive preset: %+v", permissive)
	}
	dev := GetPreset(PresetDevelopment)
	if dev.SemanticSimilarityEnabled || dev.PatternDetectionEnabled || dev.AutoEscalationEnabled {
		t.Fatalf("expected development preset to disable semantic/pattern/escalation: %+v", dev)
	}
}

func TestGetPreset_Unknown(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Fatal("expected nil for unknown preset")
	}
}

func TestValidate_OutOfRange(t *testing.T) {
	cfg := Default()
	cfg.ExactMatchThreshold = 0
	cfg.SemanticSimilarityThreshold = 2
	cfg.MinPatternLength = 10
	cfg.MaxPatternLength = 2
	errs, _ := Validate(cfg)
	if len(errs) < 3 {
		t.Fatalf("expected at least 3 validation errors, got %v", errs)
	}
}

func TestValidate_WarnsOnMissingSupportingValue(t *testing.T) {
	cfg := Default()
	cfg.AutoEscalationEnabled = true
	cfg.EscalationCooldownMs = 0
	_, warnings := Validate(cfg)
	found := false
	for _, w := range warnings {
		if w.Field == "escalation_cooldown_ms" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a warning about escalation_cooldown_ms")
	}
}

func TestParse_NilYieldsDefaults(t *testing.T) {
	cfg, _ := Parse(nil, nil)
	if cfg.ExactMatchThreshold != Default().ExactMatchThreshold {
		t.Fatal("expected defaults for nil input")
	}
}

func TestParse_InvalidJSONYieldsDefaults(t *testing.T) {
	cfg, _ := Parse("{not valid json", nil)
	if cfg.ExactMatchThreshold != Default().ExactMatchThreshold {
		t.Fatal("expected defaults for invalid JSON")
	}
}

func TestParse_ClampsOutOfRange(t *testing.T) {
	cfg, _ := Parse(`{"exact_match_threshold": 9999}`, nil)
	if cfg.ExactMatchThreshold != 100 {
		t.Fatalf("expected clamp to 100, got %d", cfg.ExactMatchThreshold)
	}
}

func TestParse_PreservesUnknownFields(t *testing.T) {
	cfg, _ := Parse(`{"exact_match_threshold": 5, "some_future_field": "x"}`, nil)
	if cfg.Extra["some_future_field"] != "x" {
		t.Fatalf("expected unknown field preserved, got %v", cfg.Extra)
	}
}

func TestSerialize_RoundTrip(t *testing.T) {
	cfg := Default()
	b, err := Serialize(cfg)
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}
	parsed, _ := Parse(string(b), nil)
	if parsed.ExactMatchThreshold != cfg.ExactMatchThreshold {
		t.Fatalf("round trip mismatch: %+v vs %+v", parsed, cfg)
	}
}

func TestMerge_ToolSpecificConfigKeyWise(t *testing.T) {
	base := Default()
	base.ToolSpecificConfig["shell"] = ToolOverride{MaxIdenticalCalls: 2}
	override := Default()
	override.ToolSpecificConfig = map[string]ToolOverride{"grep": {MaxIdenticalCalls: 9}}
	merged := Merge(base, override)
	if _, ok := merged.ToolSpecificConfig["shell"]; !ok {
		t.Fatal("expected base tool override to survive merge")
	}
	if merged.ToolSpecificConfig["grep"].MaxIdenticalCalls != 9 {
		t.Fatal("expected override tool entry to be present")
	}
}

func TestForTool_FallsBackToCategory(t *testing.T) {
	cfg := Default()
	o := cfg.ForTool("shell")
	want := ForCategory(tool.CategoryShellCommands)
	if o != want {
		t.Fatalf("expected category default for shell, got %+v want %+v", o, want)
	}
}

func TestForTool_ExplicitOverrideWins(t *testing.T) {
	cfg := Default()
	cfg.ToolSpecificConfig["shell"] = ToolOverride{MaxIdenticalCalls: 42, LookbackWindow: 1, SemanticMatchThreshold: 1}
	o := cfg.ForTool("shell")
	if o.MaxIdenticalCalls != 42 {
		t.Fatalf("expected explicit override to win, got %+v", o)
	}
}
