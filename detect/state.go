package detect

import (
	"go.uber.org/zap"

	"github.com/ngoclaw/loopguard/config"
	"github.com/ngoclaw/loopguard/entity"
	"github.com/ngoclaw/loopguard/history"
	"github.com/ngoclaw/loopguard/internal/logger"
)

// UpdateState appends entry to state's history via C1 and recomputes the
// derived counters DetectionState owns: consecutive_error_count,
// tool_specific_error_counts, and similar_action_count (spec §4.4,
// `update_loop_detection_state`). It returns the same *state for call-site
// chaining; state is mutated in place, matching the host-owned,
// single-threaded-per-state ownership model of spec §5.
func UpdateState(state *entity.DetectionState, entry entity.ExecutionRecord, cfg *config.Config) *entity.DetectionState {
	if state == nil {
		state = entity.NewDetectionState()
	}
	if state.ToolSpecificErrorCounts == nil {
		state.ToolSpecificErrorCounts = map[string]int{}
	}

	timeWindowMs := int64(0)
	if cfg != nil {
		timeWindowMs = cfg.TimeWindowMs
	}

	priorMatch := history.IdenticalCallCount(state.ExecutionHistory, entry.ToolName, entry.ArgsHash, entry.Timestamp, timeWindowMs) > 0

	state.ExecutionHistory = history.Add(state.ExecutionHistory, entry, timeWindowMs)

	if entry.IsError() {
		state.ConsecutiveErrorCount++
		state.ToolSpecificErrorCounts[entry.ToolName]++
	} else {
		state.ConsecutiveErrorCount = 0
		state.ToolSpecificErrorCounts[entry.ToolName] = 0
	}

	if priorMatch {
		state.SimilarActionCount++
	}

	return state
}

// ShouldEscalate reports whether the host should auto-escalate (spec §4.4,
// `should_escalate`): true if auto_escalation_enabled and
// (degradation_level >= RESTRICTED or consecutive_error_count >=
// max_allowed); suppressed while inside escalation_cooldown_ms of
// last_strategy_switch. max_allowed reuses exact_match_threshold as the
// general consecutive-error ceiling — spec §4.7 names no separate field for
// it (see DESIGN.md Open Question decision).
func ShouldEscalate(state *entity.DetectionState, cfg *config.Config, nowMs int64, log *zap.Logger) bool {
	log = logger.OrNop(log)
	if state == nil || cfg == nil || !cfg.AutoEscalationEnabled {
		return false
	}
	if state.LastStrategySwitch > 0 && nowMs-state.LastStrategySwitch < cfg.EscalationCooldownMs {
		return false
	}
	maxAllowed := cfg.ExactMatchThreshold
	escalate := state.DegradationLevel >= entity.DegradationRestricted || state.ConsecutiveErrorCount >= maxAllowed
	if escalate {
		log.Warn("detect: auto-escalation triggered",
			zap.Int("degradation_level", int(state.DegradationLevel)),
			zap.Int("consecutive_error_count", state.ConsecutiveErrorCount))
	}
	return escalate
}

// ApplyDegradationLevel recomputes state.DegradationLevel from cfg's
// DegradationLevels rules, searched highest level first (SPEC_FULL.md §4,
// supplementing spec §3's degradation_level field with the mechanism that
// updates it).
func ApplyDegradationLevel(state *entity.DetectionState, cfg *config.Config) {
	if state == nil || cfg == nil {
		return
	}
	best := entity.DegradationNormal
	for _, rule := range cfg.DegradationLevels {
		if state.ConsecutiveErrorCount >= rule.ConsecutiveErrorCount && rule.Level > best {
			best = rule.Level
		}
	}
	state.DegradationLevel = best
}
