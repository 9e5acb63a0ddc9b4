package health

// NeedsPreventiveAction selects at most one corrective action from health's
// status/issues, in priority order (spec §4.6): a critical status outranks
// everything; then an exhausted recovery loop; then a high error rate; then
// slow performance; then any other unhealthy status. Returns nil when
// nothing is warranted.
func NeedsPreventiveAction(h Health) *PreventiveAction {
	if h.Status == StatusCritical {
		return &PreventiveAction{Type: ActionRequestReview}
	}
	if hasIssue(h, IssueRecoveryExhausted) {
		return &PreventiveAction{Type: ActionCheckpoint}
	}
	if hasIssue(h, IssueHighErrorRate) {
		return &PreventiveAction{Type: ActionSlowDown, DelayMs: 2000}
	}
	if hasIssue(h, IssueSlowPerformance) {
		return &PreventiveAction{Type: ActionReduceComplexity}
	}
	if h.Status == StatusUnhealthy {
		return &PreventiveAction{Type: ActionSlowDown, DelayMs: 1000}
	}
	return nil
}

func hasIssue(h Health, t IssueType) bool {
	for _, i := range h.Issues {
		if i.Type == t {
			return true
		}
	}
	return false
}
