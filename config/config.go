// Package config implements the loop-prevention engine's configuration
// surface (component C7): defaults, presets, per-tool/category overrides,
// validation, merge, and JSON/YAML (de)serialization.
package config

import (
	"github.com/ngoclaw/loopguard/entity"
	"github.com/ngoclaw/loopguard/tool"
)

// ToolOverride replaces a category default wholesale for one tool name
// (spec §4.7: "tool_specific_config ... same tool fully replaced by
// override").
type ToolOverride struct {
	MaxIdenticalCalls      int `json:"max_identical_calls" yaml:"max_identical_calls"`
	LookbackWindow         int `json:"lookback_window" yaml:"lookback_window"`
	SemanticMatchThreshold int `json:"semantic_match_threshold" yaml:"semantic_match_threshold"`
}

// categoryDefault is the (max_identical_calls, lookback_window,
// semantic_match_threshold) triple spec §4.7 lists per tool category.
type categoryDefault struct {
	MaxIdenticalCalls      int
	LookbackWindow         int
	SemanticMatchThreshold int
}

var categoryDefaults = map[tool.Category]categoryDefault{
	tool.CategoryFileOperations:   {3, 5, 3},
	tool.CategoryShellCommands:    {2, 4, 2},
	tool.CategorySearchTools:      {3, 8, 5},
	tool.CategoryCodeModification: {2, 4, 3},
	tool.CategoryCommunication:    {2, 3, 2},
}

// DegradationRule maps a consecutive-error-count threshold onto an overall
// DegradationLevel. Rules are searched highest Level first; the first
// satisfied rule wins (same "highest first" search spec §4.4 specifies for
// the per-cycle ladder, generalized here to config.DegradationLevels — see
// DESIGN.md Open Question decision).
type DegradationRule struct {
	Level                 entity.DegradationLevel `json:"level" yaml:"level"`
	ConsecutiveErrorCount int                     `json:"consecutive_error_count" yaml:"consecutive_error_count"`
}

// Config mirrors spec §4.7's field list exactly.
type Config struct {
	Enabled bool `json:"enabled" yaml:"enabled"`

	// TimeWindowMs bounds C1's sliding history window (spec §3/§4.1:
	// "prune_history(history, config)" reads config.time_window_ms). Spec
	// §4.7's Config field list omits it by name; it is carried here because
	// C1's pruning operation cannot function without it (see DESIGN.md Open
	// Question decision).
	TimeWindowMs int64 `json:"time_window_ms" yaml:"time_window_ms"`

	ExactMatchThreshold      int `json:"exact_match_threshold" yaml:"exact_match_threshold"`
	ExactMatchLookbackWindow int `json:"exact_match_lookback_window" yaml:"exact_match_lookback_window"`

	SemanticSimilarityEnabled   bool    `json:"semantic_similarity_enabled" yaml:"semantic_similarity_enabled"`
	SemanticSimilarityThreshold float64 `json:"semantic_similarity_threshold" yaml:"semantic_similarity_threshold"`
	SemanticMatchThreshold      int     `json:"semantic_match_threshold" yaml:"semantic_match_threshold"`

	PatternDetectionEnabled    bool `json:"pattern_detection_enabled" yaml:"pattern_detection_enabled"`
	MinPatternLength           int  `json:"min_pattern_length" yaml:"min_pattern_length"`
	MaxPatternLength           int  `json:"max_pattern_length" yaml:"max_pattern_length"`
	PatternRepetitionThreshold int  `json:"pattern_repetition_threshold" yaml:"pattern_repetition_threshold"`

	ToolSpecificConfig map[string]ToolOverride `json:"tool_specific_config" yaml:"tool_specific_config"`
	DegradationLevels  []DegradationRule       `json:"degradation_levels" yaml:"degradation_levels"`

	AutoEscalationEnabled bool  `json:"auto_escalation_enabled" yaml:"auto_escalation_enabled"`
	EscalationCooldownMs  int64 `json:"escalation_cooldown_ms" yaml:"escalation_cooldown_ms"`

	// Extra preserves unrecognized keys from a parsed map/JSON input so
	// Serialize round-trips them (spec §4.7: "unknown fields preserved").
	Extra map[string]any `json:"-" yaml:"-"`
}

// Default returns the engine's built-in defaults (equivalent to the
// "balanced" preset).
func Default() *Config {
	return &Config{
		Enabled: true,

		TimeWindowMs: 300_000,

		ExactMatchThreshold:      3,
		ExactMatchLookbackWindow: 20,

		SemanticSimilarityEnabled:   true,
		SemanticSimilarityThreshold: 0.85,
		SemanticMatchThreshold:      3,

		PatternDetectionEnabled:    true,
		MinPatternLength:           2,
		MaxPatternLength:           4,
		PatternRepetitionThreshold: 2,

		ToolSpecificConfig: map[string]ToolOverride{},
		DegradationLevels: []DegradationRule{
			{Level: 4, ConsecutiveErrorCount: 12},
			{Level: 3, ConsecutiveErrorCount: 8},
			{Level: 2, ConsecutiveErrorCount: 5},
			{Level: 1, ConsecutiveErrorCount: 3},
		},

		AutoEscalationEnabled: true,
		EscalationCooldownMs:  60_000,
	}
}

// Clone returns a deep copy so callers (e.g. GetPreset) never hand out
// aliased mutable state.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	out.ToolSpecificConfig = make(map[string]ToolOverride, len(c.ToolSpecificConfig))
	for k, v := range c.ToolSpecificConfig {
		out.ToolSpecificConfig[k] = v
	}
	out.DegradationLevels = append([]DegradationRule(nil), c.DegradationLevels...)
	if c.Extra != nil {
		out.Extra = make(map[string]any, len(c.Extra))
		for k, v := range c.Extra {
			out.Extra[k] = v
		}
	}
	return &out
}

// ForCategory returns the category-default thresholds for cat (spec §4.7:
// "used when no tool override"). CategoryOther has no defaults and yields a
// zero-valued ToolOverride; Config.ForTool is what falls back to the global
// thresholds for it.
func ForCategory(cat tool.Category) ToolOverride {
	d, ok := categoryDefaults[cat]
	if !ok {
		return ToolOverride{}
	}
	return ToolOverride{
		MaxIdenticalCalls:      d.MaxIdenticalCalls,
		LookbackWindow:         d.LookbackWindow,
		SemanticMatchThreshold: d.SemanticMatchThreshold,
	}
}

// ForTool resolves the effective thresholds for a tool name: an explicit
// tool_specific_config entry wins; otherwise its category default; the
// "other" category falls back to the global exact/semantic thresholds.
func (c *Config) ForTool(toolName string) ToolOverride {
	if c.ToolSpecificConfig != nil {
		if o, ok := c.ToolSpecificConfig[toolName]; ok {
			return o
		}
	}
	cat := tool.CategoryOf(toolName)
	if cat == tool.CategoryOther {
		return ToolOverride{
			MaxIdenticalCalls:      c.ExactMatchThreshold,
			LookbackWindow:         c.ExactMatchLookbackWindow,
			SemanticMatchThreshold: c.SemanticMatchThreshold,
		}
	}
	return ForCategory(cat)
}
