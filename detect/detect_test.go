package detect

import (
	"testing"

	"github.com/ngoclaw/loopguard/config"
	"github.com/ngoclaw/loopguard/entity"
	"github.com/ngoclaw/loopguard/history"
)

func appendCall(t *testing.T, hist []entity.ExecutionRecord, tool string, args entity.Args, ts int64, result entity.Result) []entity.ExecutionRecord {
	t.Helper()
	rec := history.NewRecord(tool, args, result, ts, 1, "", "")
	return history.Add(hist, rec, 0)
}

func TestDetectOscillation_S2(t *testing.T) {
	var hist []entity.ExecutionRecord
	seq := []string{"A", "B", "A", "B", "A", "B"}
	for i, tool := range seq {
		hist = appendCall(t, hist, tool, entity.Args{"x": 1}, int64(i), entity.ResultSuccess)
	}
	result := DetectOscillation(hist)
	if !result.Detected || result.CycleLength != 2 || result.Occurrences != 3 {
		t.Fatalf("expected cycle_length=2 occurrences=3, got %+v", result)
	}
}

func TestDetectGradualChange_S3(t *testing.T) {
	var hist []entity.ExecutionRecord
	timeouts := []float64{1000, 2000, 3000, 4000, 5000}
	for i, timeout := range timeouts {
		hist = appendCall(t, hist, "shell", entity.Args{"timeout": timeout}, int64(i), entity.ResultSuccess)
	}
	result := DetectGradualChange(hist, "shell")
	if !result.Detected || result.ChangingField != "timeout" || result.ChangeType != GradualIncrement || result.Occurrences != 5 {
		t.Fatalf("expected increment on timeout x5, got %+v", result)
	}
}

func TestDetectGradualChange_Append(t *testing.T) {
	var hist []entity.ExecutionRecord
	values := []string{"a", "ab", "abc", "abcd"}
	for i, v := range values {
		hist = appendCall(t, hist, "write_file", entity.Args{"content": v}, int64(i), entity.ResultSuccess)
	}
	result := DetectGradualChange(hist, "write_file")
	if !result.Detected || result.ChangeType != GradualAppend {
		t.Fatalf("expected append detection, got %+v", result)
	}
}

func TestDetectCycle_ExactRepeat(t *testing.T) {
	var hist []entity.ExecutionRecord
	args := entity.Args{"path": "/a"}
	for i := 0; i < 3; i++ {
		hist = appendCall(t, hist, "read_file", args, int64(i), entity.ResultSuccess)
	}
	state := &entity.DetectionState{ExecutionHistory: hist, ToolSpecificErrorCounts: map[string]int{}}
	cfg := config.Default()
	cfg.ExactMatchThreshold = 3

	decision := DetectCycle("read_file", args, state, cfg, nil)
	if !decision.IsLoop || decision.LoopType != LoopTypeExact {
		t.Fatalf("expected exact-repeat loop, got %+v", decision)
	}
}

func TestDegradationLadder_Monotonic(t *testing.T) {
	threshold := 2
	cases := []struct {
		count int
		want  SuggestedAction
	}{
		{threshold, ActionSwitchStrategy},
		{2 * threshold, ActionClarify},
		{3 * threshold, ActionEscalate},
	}
	for _, c := range cases {
		got := ladderAction(c.count, threshold)
		if got != c.want {
			t.Fatalf("count=%d: expected %s, got %s", c.count, c.want, got)
		}
	}
}

func TestUpdateState_ConsecutiveErrorCount(t *testing.T) {
	state := entity.NewDetectionState()
	cfg := config.Default()

	rec1 := history.NewRecord("shell", nil, entity.ResultError, 1, 1, "timeout", "boom")
	state = UpdateState(state, rec1, cfg)
	if state.ConsecutiveErrorCount != 1 {
		t.Fatalf("expected 1 consecutive error, got %d", state.ConsecutiveErrorCount)
	}

	rec2 := history.NewRecord("shell", nil, entity.ResultError, 2, 1, "timeout", "boom")
	state = UpdateState(state, rec2, cfg)
	if state.ConsecutiveErrorCount != 2 {
		t.Fatalf("expected 2 consecutive errors, got %d", state.ConsecutiveErrorCount)
	}

	rec3 := history.NewRecord("shell", nil, entity.ResultSuccess, 3, 1, "", "")
	state = UpdateState(state, rec3, cfg)
	if state.ConsecutiveErrorCount != 0 {
		t.Fatalf("expected reset to 0, got %d", state.ConsecutiveErrorCount)
	}
}

func TestDetectCycles_NoPatternsContinues(t *testing.T) {
	state := entity.NewDetectionState()
	cfg := config.Default()
	result := DetectCycles(state, "read_file", "deadbeef", cfg, nil)
	if result.RecommendedAction != RecommendedContinue {
		t.Fatalf("expected continue with empty history, got %s", result.RecommendedAction)
	}
}

func TestListeners_NotifyFansOutInOrder(t *testing.T) {
	var calls []string
	var l Listeners
	l.Add(func(tool string, decision CycleDecision) { calls = append(calls, "first:"+tool) })
	l.Add(func(tool string, decision CycleDecision) { calls = append(calls, "second:"+tool) })

	l.Notify("read_file", CycleDecision{IsLoop: true})

	if len(calls) != 2 || calls[0] != "first:read_file" || calls[1] != "second:read_file" {
		t.Fatalf("expected both listeners notified in order, got %v", calls)
	}
}

func TestShouldEscalate_RespectsCooldown(t *testing.T) {
	state := entity.NewDetectionState()
	state.ConsecutiveErrorCount = 999
	state.LastStrategySwitch = 1000
	cfg := config.Default()
	cfg.EscalationCooldownMs = 5000

	if ShouldEscalate(state, cfg, 2000, nil) {
		t.Fatal("expected escalation suppressed inside cooldown")
	}
	if !ShouldEscalate(state, cfg, 10000, nil) {
		t.Fatal("expected escalation allowed outside cooldown")
	}
}
