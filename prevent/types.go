// Package prevent implements proactive prevention (component C8):
// pre-execution argument/prerequisite checks, learned-pattern matching, and
// action-risk assessment.
package prevent

// RiskLevel is the coarse band AssessActionRisk maps its numeric score
// onto (spec §4.8).
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// PreCheckResult is perform_pre_execution_checks's return value (spec
// §4.8).
type PreCheckResult struct {
	CanProceed bool      `json:"can_proceed"`
	Blockers   []string  `json:"blockers"`
	Warnings   []string  `json:"warnings"`
	RiskLevel  RiskLevel `json:"risk_level"`
}

// ExecutionContext carries the host-supplied environment perform_pre_execution_checks
// and AssessActionRisk reason about (spec §4.8: "ctx").
type ExecutionContext struct {
	AvailableFiles      []string
	CheckpointAvailable bool
	ModifiedFilesCount  int
}

// LearnedPattern is one (tool, error_type) failure association the
// prevention engine has observed (spec §4.8, "learned-pattern matching").
type LearnedPattern struct {
	Tool         string
	ErrorType    string
	Occurrences  int
	LastArgsHash string
}
