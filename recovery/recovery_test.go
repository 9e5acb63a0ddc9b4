package recovery

import (
	"strings"
	"testing"
)

func TestBuiltinStrategies_Loaded(t *testing.T) {
	r := NewRegistry(nil)
	list := r.List()
	if len(list) != 6 {
		t.Fatalf("expected 6 built-in strategies, got %d", len(list))
	}
	if list[0].ID != "rate_limit" {
		t.Fatalf("expected rate_limit first (priority 95), got %s", list[0].ID)
	}
}

func TestGetRecoveryStrategies_MatchesByMessage(t *testing.T) {
	r := NewRegistry(nil)
	strategies := r.GetRecoveryStrategies(ErrorInfo{Tool: "read_file", Message: "Error: no such file or directory"})
	if len(strategies) == 0 {
		t.Fatal("expected at least one matching strategy")
	}
	if strategies[0].ID != "file_not_found" {
		t.Fatalf("expected file_not_found to match, got %s", strategies[0].ID)
	}
}

func TestGetRecoveryStrategies_RegexPattern(t *testing.T) {
	r := NewRegistry(nil)
	strategies := r.GetRecoveryStrategies(ErrorInfo{Message: "cannot locate file /tmp/x"})
	found := false
	for _, s := range strategies {
		if s.ID == "file_not_found" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected file_not_found to match via regex pattern")
	}
}

// TestRecoveryCooldown_S5 exercises spec scenario S5: a strategy with
// max_attempts=1, cooldown_ms=0. First attempt succeeds; the second is
// exhausted (max_attempts reached) and reports failure with "exhausted" in
// the message.
func TestRecoveryCooldown_S5(t *testing.T) {
	r := NewRegistry(nil)
	r.Clear()
	if err := r.Register(Strategy{
		ID:          "single-shot",
		Priority:    50,
		MaxAttempts: 1,
		CooldownMs:  0,
		Patterns:    []ErrorPattern{{Kind: PatternContains, Value: "boom"}},
		Action:      RecoveryAction{Type: ActionRetry},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	errInfo := ErrorInfo{Tool: "shell", Type: "runtime", Message: "boom: it went boom"}

	first := r.AttemptRecovery(errInfo, 1000)
	if !first.Success || first.StrategyID != "single-shot" {
		t.Fatalf("expected first attempt to succeed, got %+v", first)
	}

	second := r.AttemptRecovery(errInfo, 1000)
	if second.Success {
		t.Fatalf("expected second attempt to fail once max_attempts exhausted, got %+v", second)
	}
	if !strings.Contains(second.Message, "exhausted") {
		t.Fatalf("expected exhaustion message, got %q", second.Message)
	}
}

func TestAttemptRecovery_RespectsCooldownWindow(t *testing.T) {
	r := NewRegistry(nil)
	r.Clear()
	_ = r.Register(Strategy{
		ID:          "cooldown-strategy",
		Priority:    50,
		MaxAttempts: 5,
		CooldownMs:  10_000,
		Patterns:    []ErrorPattern{{Kind: PatternExact, Value: "retry me"}},
		Action:      RecoveryAction{Type: ActionRetry},
	})
	errInfo := ErrorInfo{Message: "retry me"}

	first := r.AttemptRecovery(errInfo, 0)
	if !first.Success {
		t.Fatalf("expected first attempt to succeed, got %+v", first)
	}
	tooSoon := r.AttemptRecovery(errInfo, 5000)
	if tooSoon.Success {
		t.Fatalf("expected attempt inside cooldown to fail, got %+v", tooSoon)
	}
	later := r.AttemptRecovery(errInfo, 11_000)
	if !later.Success {
		t.Fatalf("expected attempt after cooldown to succeed, got %+v", later)
	}
}

func TestIsRecoverable_FallbackUnderThreeAttempts(t *testing.T) {
	r := NewRegistry(nil)
	r.Clear()
	errInfo := ErrorInfo{Message: "no matching strategy at all"}
	if !r.IsRecoverable(errInfo, 0, 0) {
		t.Fatal("expected fallback true when attempt_count < 3, even with no matching strategy")
	}
	if r.IsRecoverable(errInfo, 5, 0) {
		t.Fatal("expected false once attempt_count >= 3 and nothing matches")
	}
}

func TestRecordOutcome_UpdatesStats(t *testing.T) {
	r := NewRegistry(nil)
	r.Clear()
	_ = r.Register(Strategy{
		ID: "s1", Priority: 10, MaxAttempts: 3, CooldownMs: 0,
		Patterns: []ErrorPattern{{Kind: PatternContains, Value: "x"}},
		Action:   RecoveryAction{Type: ActionRetry},
	})
	r.AttemptRecovery(ErrorInfo{Message: "x failed"}, 0)
	r.RecordOutcome("", "", "s1", true)
	r.RecordOutcome("", "", "s1", false)

	stats := r.Stats()
	if len(stats) != 1 || stats[0].SuccessCount != 1 || stats[0].FailureCount != 1 {
		t.Fatalf("expected 1 success 1 failure, got %+v", stats)
	}
}

func TestUnregister_RemovesStrategy(t *testing.T) {
	r := NewRegistry(nil)
	if err := r.Unregister("rate_limit"); err != nil {
		t.Fatalf("unregister: %v", err)
	}
	if err := r.Unregister("rate_limit"); err == nil {
		t.Fatal("expected error unregistering already-removed strategy")
	}
}
