package recovery

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	pkgerrors "github.com/ngoclaw/loopguard/pkg/errors"

	"github.com/ngoclaw/loopguard/internal/logger"
)

// Registry is the pattern→strategy recovery registry. It is NOT a
// module-level global (SPEC_FULL.md §2 design note) — callers own an
// instance, typically via the root loopguard.Engine. Spec §5 treats the
// registry as the one process-wide, mutex-guarded piece of shared state in
// the whole engine; a single coarse lock is sufficient since access is
// infrequent.
type Registry struct {
	mu         sync.Mutex
	strategies map[string]entry
	attempts   map[AttemptKey]*AttemptState
	logger     *zap.Logger
}

type entry struct {
	strategy Strategy
	patterns []compiledPattern
}

// NewRegistry returns a Registry preloaded with the six built-in strategies
// (spec §4.5).
func NewRegistry(log *zap.Logger) *Registry {
	r := &Registry{
		strategies: make(map[string]entry),
		attempts:   make(map[AttemptKey]*AttemptState),
		logger:     logger.OrNop(log),
	}
	for _, s := range BuiltinStrategies() {
		_ = r.Register(s)
	}
	return r
}

// Register adds or replaces a strategy by ID.
func (r *Registry) Register(s Strategy) error {
	if s.ID == "" {
		return pkgerrors.NewValidationError("strategy id must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[s.ID] = entry{strategy: s, patterns: compilePatterns(s.Patterns)}
	return nil
}

// Unregister removes a strategy by ID.
func (r *Registry) Unregister(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.strategies[id]; !ok {
		return pkgerrors.NewNotFoundError("no such strategy: " + id)
	}
	delete(r.strategies, id)
	return nil
}

// List returns every registered strategy, highest priority first.
func (r *Registry) List() []Strategy {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Strategy, 0, len(r.strategies))
	for _, e := range r.strategies {
		out = append(out, e.strategy)
	}
	sortByPriorityDesc(out)
	return out
}

// Clear removes every registered strategy and every attempt tracker.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies = make(map[string]entry)
	r.attempts = make(map[AttemptKey]*AttemptState)
}

// ResetAttempts clears the attempt tracker for one (tool, errorType,
// strategyID), or every tracker when all three are empty.
func (r *Registry) ResetAttempts(tool, errorType, strategyID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tool == "" && errorType == "" && strategyID == "" {
		r.attempts = make(map[AttemptKey]*AttemptState)
		return
	}
	delete(r.attempts, AttemptKey{Tool: tool, ErrorType: errorType, StrategyID: strategyID})
}

// GetRecoveryStrategies returns every strategy with a matching pattern,
// sorted descending by priority (spec §4.5).
func (r *Registry) GetRecoveryStrategies(err ErrorInfo) []Strategy {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.matchingLocked(err)
}

func (r *Registry) matchingLocked(err ErrorInfo) []Strategy {
	var out []Strategy
	for _, e := range r.strategies {
		if anyMatches(e.patterns, err) {
			out = append(out, e.strategy)
		}
	}
	sortByPriorityDesc(out)
	return out
}

func sortByPriorityDesc(strategies []Strategy) {
	sort.SliceStable(strategies, func(i, j int) bool {
		return strategies[i].Priority > strategies[j].Priority
	})
}

// IsRecoverable reports whether error is recoverable: true if any matching
// strategy still has attempts remaining and is past its cooldown, or if
// attemptCount < 3 regardless (spec §4.5). nowMs resolves the cooldown
// check; spec's `is_recoverable(error, attempt_count)` signature omits a
// clock input, which this implementation needs — see DESIGN.md.
func (r *Registry) IsRecoverable(err ErrorInfo, attemptCount int, nowMs int64) bool {
	if attemptCount < 3 {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.matchingLocked(err) {
		key := AttemptKey{Tool: err.Tool, ErrorType: err.Type, StrategyID: s.ID}
		state := r.attempts[key]
		if state == nil {
			return true
		}
		if state.Attempts < s.MaxAttempts && nowMs-state.LastAttemptTimestamp >= s.CooldownMs {
			return true
		}
	}
	return false
}

// AttemptRecovery iterates matching strategies in priority order, skipping
// any that are exhausted or on cooldown, and applies the first viable one
// (spec §4.5). Each attempt bumps Attempts and stamps
// LastAttemptTimestamp; call RecordOutcome afterward to update
// SuccessCount/FailureCount once the caller knows whether the action
// worked.
func (r *Registry) AttemptRecovery(err ErrorInfo, nowMs int64) RecoveryResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.matchingLocked(err) {
		key := AttemptKey{Tool: err.Tool, ErrorType: err.Type, StrategyID: s.ID}
		state := r.attempts[key]
		if state == nil {
			state = &AttemptState{}
			r.attempts[key] = state
		}
		if state.Attempts >= s.MaxAttempts {
			continue
		}
		if state.Attempts > 0 && nowMs-state.LastAttemptTimestamp < s.CooldownMs {
			continue
		}

		state.Attempts++
		state.LastAttemptTimestamp = nowMs

		action := s.Action
		r.logger.Warn("recovery: applying strategy",
			zap.String("strategy_id", s.ID), zap.String("tool", err.Tool), zap.String("error_type", err.Type))
		return RecoveryResult{
			Success:     true,
			ShouldRetry: action.Type == ActionRetry || action.Type == ActionRetryWithModification,
			Message:     "applying recovery strategy " + s.ID,
			StrategyID:  s.ID,
			Action:      &action,
		}
	}

	return RecoveryResult{Success: false, ShouldRetry: false, Message: "recovery strategies exhausted for this error"}
}

// RecordOutcome updates the attempt tracker's success/failure tally for a
// previously-attempted (tool, errorType, strategyID) after the caller
// learns whether the applied action resolved the error.
func (r *Registry) RecordOutcome(tool, errorType, strategyID string, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := AttemptKey{Tool: tool, ErrorType: errorType, StrategyID: strategyID}
	state := r.attempts[key]
	if state == nil {
		state = &AttemptState{}
		r.attempts[key] = state
	}
	if success {
		state.SuccessCount++
	} else {
		state.FailureCount++
	}
}

// Stats returns a read-only rollup of attempts/successes/failures per
// strategy (SPEC_FULL.md §5 supplement).
func (r *Registry) Stats() []StrategyStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	totals := map[string]*StrategyStats{}
	for key, state := range r.attempts {
		s, ok := totals[key.StrategyID]
		if !ok {
			s = &StrategyStats{StrategyID: key.StrategyID}
			totals[key.StrategyID] = s
		}
		s.Attempts += state.Attempts
		s.SuccessCount += state.SuccessCount
		s.FailureCount += state.FailureCount
	}
	out := make([]StrategyStats, 0, len(totals))
	for _, s := range totals {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StrategyID < out[j].StrategyID })
	return out
}
