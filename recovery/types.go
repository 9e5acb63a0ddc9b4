// Package recovery implements the pattern→strategy recovery registry
// (component C5): built-in strategies as data, pattern matching, per-attempt
// cooldown/exhaustion tracking, and the attempt_recovery entry point.
package recovery

// PatternKind is the matching mode an ErrorPattern uses (spec §4.5).
type PatternKind string

const (
	PatternExact    PatternKind = "exact"
	PatternContains PatternKind = "contains"
	PatternRegex    PatternKind = "regex"
)

// ErrorPattern is one matcher within a Strategy's pattern list (spec §3).
type ErrorPattern struct {
	Kind      PatternKind `json:"kind"`
	Value     string      `json:"value"`
	ErrorType string      `json:"error_type,omitempty"`
	ToolName  string      `json:"tool_name,omitempty"`
}

// ActionType is the stable wire value for RecoveryAction.Type (spec §6).
type ActionType string

const (
	ActionRetry               ActionType = "retry"
	ActionRetryWithModification ActionType = "retry_with_modification"
	ActionSkip                ActionType = "skip"
	ActionAlternativeTool     ActionType = "alternative_tool"
	ActionClearState          ActionType = "clear_state"
	ActionResetContext        ActionType = "reset_context"
)

// RecoveryAction is the tagged union of corrective actions a Strategy can
// apply (spec §3). Only the fields relevant to Type are meaningful.
type RecoveryAction struct {
	Type           ActionType        `json:"type"`
	DelayMs        int64             `json:"delay_ms,omitempty"`
	Modifications  map[string]any    `json:"modifications,omitempty"`
	Reason         string            `json:"reason,omitempty"`
	ToolName       string            `json:"tool_name,omitempty"`
	ArgsMapping    map[string]string `json:"args_mapping,omitempty"`
	Fields         []string          `json:"fields,omitempty"`
	PreserveFields []string          `json:"preserve_fields,omitempty"`
}

// Strategy is an immutable registry entry (spec §3, "Recovery Strategy").
type Strategy struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Patterns    []ErrorPattern `json:"patterns"`
	Priority    int            `json:"priority"`
	MaxAttempts int            `json:"max_attempts"`
	CooldownMs  int64          `json:"cooldown_ms"`
	Action      RecoveryAction `json:"action"`
}

// ErrorInfo is the input `error` value AttemptRecovery/GetRecoveryStrategies
// match against.
type ErrorInfo struct {
	Tool    string
	Type    string
	Message string
}

// AttemptKey identifies one (error_tool, error_type, strategy_id) attempt
// tracker (spec §3, "Attempt Tracker").
type AttemptKey struct {
	Tool       string
	ErrorType  string
	StrategyID string
}

// AttemptState is the per-key attempt tracker.
type AttemptState struct {
	Attempts              int   `json:"attempts"`
	LastAttemptTimestamp  int64 `json:"last_attempt_timestamp"`
	SuccessCount          int   `json:"success_count"`
	FailureCount          int   `json:"failure_count"`
}

// RecoveryResult is the outcome of AttemptRecovery (spec §6).
type RecoveryResult struct {
	Success     bool            `json:"success"`
	ShouldRetry bool            `json:"should_retry"`
	Message     string          `json:"message"`
	StrategyID  string          `json:"strategy_id,omitempty"`
	Action      *RecoveryAction `json:"action,omitempty"`
}

// StrategyStats is a read-only rollup over a strategy's attempt trackers
// (SPEC_FULL.md §5 supplement, grounded in the teacher's
// monitoring.Monitor.GetStats() convention).
type StrategyStats struct {
	StrategyID   string `json:"strategy_id"`
	Attempts     int    `json:"attempts"`
	SuccessCount int    `json:"success_count"`
	FailureCount int    `json:"failure_count"`
}
