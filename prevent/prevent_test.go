package prevent

import "testing"

func TestPerformPreExecutionChecks_BlocksFatalCommand(t *testing.T) {
	s := NewStore()
	result := s.PerformPreExecutionChecks("shell", map[string]any{"command": "rm -rf /"}, ExecutionContext{})
	if result.CanProceed {
		t.Fatal("expected rm -rf / to block execution")
	}
	if len(result.Blockers) == 0 {
		t.Fatal("expected at least one blocker")
	}
	if result.RiskLevel != RiskCritical {
		t.Fatalf("expected critical risk level, got %s", result.RiskLevel)
	}
}

func TestPerformPreExecutionChecks_PrerequisiteMissing(t *testing.T) {
	s := NewStore()
	ctx := ExecutionContext{AvailableFiles: []string{"a.go", "b.go"}}
	result := s.PerformPreExecutionChecks("read_file", map[string]any{"path": "missing.go"}, ctx)
	if result.CanProceed {
		t.Fatal("expected missing prerequisite to block")
	}
}

func TestPerformPreExecutionChecks_PrerequisiteSatisfied(t *testing.T) {
	s := NewStore()
	ctx := ExecutionContext{AvailableFiles: []string{"a.go"}}
	result := s.PerformPreExecutionChecks("read_file", map[string]any{"path": "a.go"}, ctx)
	if !result.CanProceed {
		t.Fatalf("expected a.go to satisfy prerequisite, got %+v", result)
	}
}

func TestSchemaValidation_SearchFilesRequiresPattern(t *testing.T) {
	s := NewStore()
	result := s.PerformPreExecutionChecks("search_files", map[string]any{"path": "."}, ExecutionContext{})
	if result.CanProceed {
		t.Fatal("expected missing required 'pattern' field to block search_files")
	}
}

func TestAssessActionRisk_LowForSafeRead(t *testing.T) {
	_, level := AssessActionRisk("read_file", map[string]any{"path": "a.go"}, ExecutionContext{}, nil)
	if level != RiskLow {
		t.Fatalf("expected low risk for a plain read, got %s", level)
	}
}

func TestLearnFromAction_AccumulatesOccurrences(t *testing.T) {
	s := NewStore()
	s.LearnFromAction("shell", "hash1", false, "timeout")
	s.LearnFromAction("shell", "hash2", false, "timeout")
	s.LearnFromAction("shell", "hash3", true, "timeout")

	patterns := s.Patterns("shell")
	if len(patterns) != 1 || patterns[0].Occurrences != 2 {
		t.Fatalf("expected 2 occurrences after 2 failures + 1 success, got %+v", patterns)
	}
	warnings := s.MatchErrorPatterns("shell")
	if len(warnings) != 1 {
		t.Fatalf("expected a warning once occurrences >= 2, got %+v", warnings)
	}
}

func TestRiskBands_Monotonic(t *testing.T) {
	low := bandFor(10)
	med := bandFor(45)
	high := bandFor(65)
	crit := bandFor(90)
	if low != RiskLow || med != RiskMedium || high != RiskHigh || crit != RiskCritical {
		t.Fatalf("unexpected bands: %s %s %s %s", low, med, high, crit)
	}
}
