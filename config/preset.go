package config

// Preset names the engine's four built-in named configurations (spec §4.7;
// the name list itself is a SPEC_FULL.md supplement, mirroring the teacher's
// pattern of exposing discoverable named knobs on AgentConfig).
type Preset string

const (
	PresetStrict      Preset = "strict"
	PresetBalanced     Preset = "balanced"
	PresetPermissive  Preset = "permissive"
	PresetDevelopment Preset = "development"
)

// ListPresets returns every known preset name.
func ListPresets() []string {
	return []string{string(PresetStrict), string(PresetBalanced), string(PresetPermissive), string(PresetDevelopment)}
}

// GetPreset returns a deep copy of the named preset, or nil if unknown
// (spec §4.7: "get_preset returns a deep copy").
func GetPreset(name Preset) *Config {
	base := Default()
	switch name {
	case PresetStrict:
		base.ExactMatchThreshold = 2
		base.SemanticSimilarityThreshold = 0.75
	case PresetBalanced:
		// Default() already is "balanced".
	case PresetPermissive:
		base.ExactMatchThreshold = 5
		base.SemanticSimilarityThreshold = 0.95
	case PresetDevelopment:
		base.ExactMatchThreshold = 10
		base.SemanticSimilarityEnabled = false
		base.PatternDetectionEnabled = false
		base.AutoEscalationEnabled = false
	default:
		return nil
	}
	return base.Clone()
}
