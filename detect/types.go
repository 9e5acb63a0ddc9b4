// Package detect implements the pattern detectors (component C3: exact
// repeat, oscillation, gradual-change, pattern-cycle enumeration) and the
// cycle-detection coordinator (component C4) that fuses them into a single
// recommendation.
//
// Grounded on the teacher's internal/domain/service/guardrails.go
// LoopDetector (name-window + exact-match sliding-window detection) for the
// exact-repeat shape, and state_machine.go's listener-notified transition
// graph for the degradation ladder, and the supplemental Listeners hook
// (SPEC_FULL.md §5).
package detect

// LoopType is the classification a CycleDecision reports (spec §4.4).
type LoopType string

const (
	LoopTypeExact    LoopType = "exact"
	LoopTypeSemantic LoopType = "semantic"
	LoopTypePattern  LoopType = "pattern"
	LoopTypeNone     LoopType = "null"
)

// SuggestedAction is the pre-call recommendation a CycleDecision carries.
type SuggestedAction string

const (
	ActionContinue       SuggestedAction = "continue"
	ActionSwitchStrategy SuggestedAction = "switch-strategy"
	ActionClarify        SuggestedAction = "clarify"
	ActionEscalate       SuggestedAction = "escalate"
)

// RecommendedAction is the post-call aggregate recommendation
// (LoopDetectionResult.RecommendedAction).
type RecommendedAction string

const (
	RecommendedContinue RecommendedAction = "continue"
	RecommendedWarn     RecommendedAction = "warn"
	RecommendedDegrade  RecommendedAction = "degrade"
	RecommendedEscalate RecommendedAction = "escalate"
	RecommendedHalt     RecommendedAction = "halt"
)

// CycleDecision is the pre-call result of DetectCycle (spec §4.4,
// `detect_cycle`).
type CycleDecision struct {
	IsLoop          bool            `json:"is_loop"`
	LoopType        LoopType        `json:"loop_type"`
	Confidence      float64         `json:"confidence"`
	SuggestedAction SuggestedAction `json:"suggested_action"`
	MatchedEntries  []string        `json:"matched_entries"` // matching ExecutionRecord IDs
}

// LoopPattern is one detected pattern contributing to a LoopDetectionResult.
type LoopPattern struct {
	Type        string  `json:"type"`
	Confidence  float64 `json:"confidence"`
	Occurrences int     `json:"occurrences"`
	Description string  `json:"description"`
}

// LoopDetectionResult is the post-call aggregate result of DetectCycles
// (spec §4.4, `detect_cycles`).
type LoopDetectionResult struct {
	Patterns          []LoopPattern     `json:"patterns"`
	RecommendedAction RecommendedAction `json:"recommended_action"`
	Suggestions       []string          `json:"suggestions"`
}

// PatternCycle is a detected cycle: a repeating tool-name sequence and how
// many times it repeated backward from the end of history (spec §4.3,
// "Pattern cycles").
type PatternCycle struct {
	Pattern     []string `json:"pattern"`
	Repetitions int      `json:"repetitions"`
}

// OscillationResult is the result of the oscillation detector (spec §4.3).
type OscillationResult struct {
	Detected    bool     `json:"detected"`
	Tools       []string `json:"tools"`
	CycleLength int      `json:"cycle_length"`
	Occurrences int      `json:"occurrences"`
	Confidence  float64  `json:"confidence"`
}

// GradualChangeType is the monotone-sequence shape DetectGradualChange
// reports.
type GradualChangeType string

const (
	GradualIncrement GradualChangeType = "increment"
	GradualAppend    GradualChangeType = "append"
	GradualModify    GradualChangeType = "modify"
)

// GradualChangeResult is the result of the gradual-change detector (spec
// §4.3).
type GradualChangeResult struct {
	Detected      bool              `json:"detected"`
	ChangingField string            `json:"changing_field"`
	ChangeType    GradualChangeType `json:"change_type"`
	Occurrences   int               `json:"occurrences"`
}
