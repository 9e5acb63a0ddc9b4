package entity

// DegradationLevel is the 0..4 ladder describing how constrained the agent
// currently is.
type DegradationLevel int

const (
	DegradationNormal     DegradationLevel = 0
	DegradationWarning    DegradationLevel = 1
	DegradationRestricted DegradationLevel = 2
	DegradationMinimal    DegradationLevel = 3
	DegradationHalted     DegradationLevel = 4
)

func (d DegradationLevel) String() string {
	switch d {
	case DegradationNormal:
		return "normal"
	case DegradationWarning:
		return "warning"
	case DegradationRestricted:
		return "restricted"
	case DegradationMinimal:
		return "minimal"
	case DegradationHalted:
		return "halted"
	default:
		return "unknown"
	}
}

// MaxHistorySize bounds ExecutionHistory regardless of the configured time
// window (spec §3).
const MaxHistorySize = 100

// DetectionState is the mutable coordination object threaded through every
// engine call by the host. It is owned exclusively by the caller — per
// component/instance, never shared across goroutines without external
// synchronization (spec §5).
type DetectionState struct {
	ExecutionHistory        []ExecutionRecord `json:"execution_history"`
	ConsecutiveErrorCount   int               `json:"consecutive_error_count"`
	ToolSpecificErrorCounts map[string]int    `json:"tool_specific_error_counts"`
	SimilarActionCount      int               `json:"similar_action_count"`
	LastStrategySwitch      int64             `json:"last_strategy_switch"`
	DegradationLevel        DegradationLevel  `json:"degradation_level"`

	// RecoveryAttemptCount/RecoverySuccessCount feed the health monitor's
	// recovery_penalty (spec §4.6); the host bumps these alongside calls to
	// recovery.Registry.AttemptRecovery/RecordOutcome.
	RecoveryAttemptCount int `json:"recovery_attempt_count"`
	RecoverySuccessCount int `json:"recovery_success_count"`
}

// NewDetectionState returns a zeroed, ready-to-use state.
func NewDetectionState() *DetectionState {
	return &DetectionState{
		ToolSpecificErrorCounts: make(map[string]int),
	}
}
