package config

import (
	"encoding/json"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ngoclaw/loopguard/internal/logger"
)

// knownFields lists the JSON keys Config itself understands; anything else
// in a parsed map is preserved verbatim in Config.Extra (spec §4.7: "unknown
// fields preserved").
var knownFields = map[string]bool{
	"enabled": true, "time_window_ms": true, "exact_match_threshold": true, "exact_match_lookback_window": true,
	"semantic_similarity_enabled": true, "semantic_similarity_threshold": true, "semantic_match_threshold": true,
	"pattern_detection_enabled": true, "min_pattern_length": true, "max_pattern_length": true,
	"pattern_repetition_threshold": true, "tool_specific_config": true, "degradation_levels": true,
	"auto_escalation_enabled": true, "escalation_cooldown_ms": true,
}

// Parse accepts nil, a JSON string, a map[string]any, or a *Config/Config
// value and returns a fully clamped Config plus any validation warnings
// that survive clamping. Invalid JSON yields Default() (spec §4.7).
func Parse(v any, log *zap.Logger) (*Config, []Issue) {
	log = logger.OrNop(log)

	var cfg *Config
	switch t := v.(type) {
	case nil:
		cfg = Default()
	case *Config:
		cfg = t.Clone()
	case Config:
		cfg = t.Clone()
	case string:
		cfg = Default()
		if t != "" {
			var raw map[string]any
			if err := json.Unmarshal([]byte(t), &raw); err != nil {
				log.Warn("config: invalid JSON, falling back to defaults", zap.Error(err))
			} else {
				cfg = fromMap(raw)
			}
		}
	case map[string]any:
		cfg = fromMap(t)
	default:
		cfg = Default()
	}

	clampToBounds(cfg)
	_, warnings := Validate(cfg)
	for _, w := range warnings {
		log.Warn("config: validation warning", zap.String("field", w.Field), zap.String("message", w.Message))
	}
	return cfg, warnings
}

func fromMap(raw map[string]any) *Config {
	cfg := Default()
	b, err := json.Marshal(raw)
	if err == nil {
		// Ignore unmarshal errors on individual fields — best-effort overlay
		// on top of defaults, per §7 "never abort" policy.
		_ = json.Unmarshal(b, cfg)
	}
	if cfg.ToolSpecificConfig == nil {
		cfg.ToolSpecificConfig = map[string]ToolOverride{}
	}
	extra := make(map[string]any)
	for k, val := range raw {
		if !knownFields[k] {
			extra[k] = val
		}
	}
	if len(extra) > 0 {
		cfg.Extra = extra
	}
	return cfg
}

// Serialize emits cfg as 2-space-indented UTF-8 JSON (spec §6: "round-trip a
// config to UTF-8 JSON with 2-space indentation").
func Serialize(cfg *Config) ([]byte, error) {
	return json.MarshalIndent(asWire(cfg), "", "  ")
}

// asWire flattens Config.Extra into the top-level JSON object so Serialize
// round-trips unknown fields rather than nesting them under "Extra".
func asWire(cfg *Config) map[string]any {
	b, _ := json.Marshal(cfg)
	var out map[string]any
	_ = json.Unmarshal(b, &out)
	for k, v := range cfg.Extra {
		out[k] = v
	}
	return out
}

// ToYAML is the host-convenience export alongside the spec-mandated JSON
// path (SPEC_FULL.md §1 addendum), using the teacher's structured
// serialization library of choice.
func ToYAML(cfg *Config) ([]byte, error) {
	return yaml.Marshal(asWire(cfg))
}

// FromYAML parses YAML into a Config via the same defaulting/clamping path
// as Parse.
func FromYAML(data []byte, log *zap.Logger) (*Config, []Issue, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, err
	}
	cfg, warnings := Parse(raw, log)
	return cfg, warnings, nil
}

// Merge overlays override onto base: every scalar field of override wins,
// zero values included (a *Config does not record which fields were set);
// tool_specific_config is merged key-wise (same tool fully replaced);
// degradation_levels is fully replaced when override supplies any entries
// (spec §4.7).
func Merge(base, override *Config) *Config {
	if override == nil {
		return base.Clone()
	}
	if base == nil {
		return override.Clone()
	}
	out := base.Clone()

	out.Enabled = override.Enabled
	out.TimeWindowMs = override.TimeWindowMs
	out.ExactMatchThreshold = override.ExactMatchThreshold
	out.ExactMatchLookbackWindow = override.ExactMatchLookbackWindow
	out.SemanticSimilarityEnabled = override.SemanticSimilarityEnabled
	out.SemanticSimilarityThreshold = override.SemanticSimilarityThreshold
	out.SemanticMatchThreshold = override.SemanticMatchThreshold
	out.PatternDetectionEnabled = override.PatternDetectionEnabled
	out.MinPatternLength = override.MinPatternLength
	out.MaxPatternLength = override.MaxPatternLength
	out.PatternRepetitionThreshold = override.PatternRepetitionThreshold
	out.AutoEscalationEnabled = override.AutoEscalationEnabled
	out.EscalationCooldownMs = override.EscalationCooldownMs

	for k, v := range override.ToolSpecificConfig {
		out.ToolSpecificConfig[k] = v
	}
	if len(override.DegradationLevels) > 0 {
		out.DegradationLevels = append([]DegradationRule(nil), override.DegradationLevels...)
	}
	for k, v := range override.Extra {
		if out.Extra == nil {
			out.Extra = map[string]any{}
		}
		out.Extra[k] = v
	}
	return out
}
