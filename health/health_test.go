package health

import (
	"testing"

	"github.com/ngoclaw/loopguard/entity"
)

func errorRecord(i int) entity.ExecutionRecord {
	return entity.ExecutionRecord{
		ID: "r", Timestamp: int64(i), ToolName: "shell",
		Result: entity.ResultError, ErrorType: "runtime", ErrorMessage: "boom", DurationMs: 50,
	}
}

// TestHealthCritical_S6 exercises spec scenario S6: 10 consecutive error
// records produce a critical status, a high_error_rate issue, and a
// request_review preventive action.
func TestHealthCritical_S6(t *testing.T) {
	state := entity.NewDetectionState()
	for i := 0; i < 10; i++ {
		state.ExecutionHistory = append(state.ExecutionHistory, errorRecord(i))
	}

	metrics := BuildMetrics(state)
	h := Score(metrics, 9)

	if h.Status != StatusCritical {
		t.Fatalf("expected critical status, got %s (score=%.1f)", h.Status, h.Score)
	}
	if !hasIssue(h, IssueHighErrorRate) {
		t.Fatalf("expected high_error_rate issue, got %+v", h.Issues)
	}
	action := NeedsPreventiveAction(h)
	if action == nil || action.Type != ActionRequestReview {
		t.Fatalf("expected request_review action, got %+v", action)
	}
}

func TestHealthy_NoHistory(t *testing.T) {
	state := entity.NewDetectionState()
	metrics := BuildMetrics(state)
	h := Score(metrics, 0)
	if h.Status != StatusHealthy {
		t.Fatalf("expected healthy with no history, got %s (score=%.1f)", h.Status, h.Score)
	}
	if NeedsPreventiveAction(h) != nil {
		t.Fatal("expected no preventive action needed for a fresh state")
	}
}

func TestDurationPenalty_AppliesAfterFiveMinutes(t *testing.T) {
	state := entity.NewDetectionState()
	state.ExecutionHistory = append(state.ExecutionHistory, entity.ExecutionRecord{
		ID: "ok", Timestamp: 0, ToolName: "shell", Result: entity.ResultSuccess, DurationMs: 10,
	})
	metrics := BuildMetrics(state)

	fresh := Score(metrics, 1000)
	stale := Score(metrics, 400_000)
	if stale.Score >= fresh.Score {
		t.Fatalf("expected stale score to be penalized below fresh score: fresh=%.1f stale=%.1f", fresh.Score, stale.Score)
	}
}

func TestRecoveryExhausted_TriggersCheckpoint(t *testing.T) {
	state := entity.NewDetectionState()
	state.RecoveryAttemptCount = 8
	state.RecoverySuccessCount = 1
	for i := 0; i < 3; i++ {
		state.ExecutionHistory = append(state.ExecutionHistory, entity.ExecutionRecord{
			ID: "ok", Timestamp: int64(i), ToolName: "shell", Result: entity.ResultSuccess, DurationMs: 10,
		})
	}
	metrics := BuildMetrics(state)
	h := Score(metrics, 2)
	if !hasIssue(h, IssueRecoveryExhausted) {
		t.Fatalf("expected recovery_exhausted issue, got %+v", h.Issues)
	}
	action := NeedsPreventiveAction(h)
	if action == nil || action.Type != ActionCheckpoint {
		t.Fatalf("expected checkpoint action, got %+v", action)
	}
}
