package detect

import (
	"go.uber.org/zap"

	"github.com/ngoclaw/loopguard/config"
	"github.com/ngoclaw/loopguard/entity"
	"github.com/ngoclaw/loopguard/internal/logger"
)

// DetectCycles is the post-call aggregate API (spec §4.4, `detect_cycles`):
// runs the exact-repeat and error-cycle detectors (plus oscillation, whose
// pattern-type suggestion text spec §4.4 calls out by name — see
// DESIGN.md), assembles a LoopPattern[], and derives a recommended action.
func DetectCycles(state *entity.DetectionState, tool, argsHash string, cfg *config.Config, log *zap.Logger) LoopDetectionResult {
	log = logger.OrNop(log)
	if state == nil || cfg == nil || !cfg.Enabled {
		return LoopDetectionResult{RecommendedAction: RecommendedContinue}
	}

	var patterns []LoopPattern

	override := cfg.ForTool(tool)
	lookbackWindow := cfg.ExactMatchLookbackWindow
	if override.LookbackWindow > 0 {
		lookbackWindow = override.LookbackWindow
	}
	threshold := cfg.ExactMatchThreshold
	if override.MaxIdenticalCalls > 0 {
		threshold = override.MaxIdenticalCalls
	}
	if count := ExactRepeatCount(state.ExecutionHistory, tool, argsHash, lookbackWindow); count >= threshold {
		patterns = append(patterns, LoopPattern{
			Type:        "exact_repeat",
			Confidence:  minF(float64(count)/float64(3*threshold), 1),
			Occurrences: count,
			Description: "the same tool call repeated with identical arguments",
		})
	}

	if osc := DetectOscillation(state.ExecutionHistory); osc.Detected {
		patterns = append(patterns, LoopPattern{
			Type:        "oscillation",
			Confidence:  osc.Confidence,
			Occurrences: osc.Occurrences,
			Description: "tools alternating in a short repeating cycle",
		})
	}

	if ec, detected := detectErrorCycle(state, tool, cfg); detected {
		patterns = append(patterns, ec)
	}

	result := LoopDetectionResult{
		Patterns:          patterns,
		RecommendedAction: recommendAction(patterns),
		Suggestions:       suggestionsFor(patterns),
	}
	if result.RecommendedAction != RecommendedContinue {
		log.Warn("detect: recommended action", zap.String("action", string(result.RecommendedAction)), zap.Int("patterns", len(patterns)))
	}
	return result
}

// detectErrorCycle reports an error_cycle pattern using both the overall
// consecutive_error_count and the per-tool error count, triggering at the
// first threshold breach (spec §4.4, "Error cycle detection").
func detectErrorCycle(state *entity.DetectionState, tool string, cfg *config.Config) (LoopPattern, bool) {
	override := cfg.ForTool(tool)
	perToolThreshold := override.MaxIdenticalCalls
	if perToolThreshold <= 0 {
		perToolThreshold = cfg.ExactMatchThreshold
	}

	toolErrors := state.ToolSpecificErrorCounts[tool]
	if state.ConsecutiveErrorCount >= cfg.ExactMatchThreshold {
		return LoopPattern{
			Type:        "error_cycle",
			Confidence:  minF(float64(state.ConsecutiveErrorCount)/float64(3*cfg.ExactMatchThreshold), 1),
			Occurrences: state.ConsecutiveErrorCount,
			Description: "consecutive tool-call failures",
		}, true
	}
	if toolErrors >= perToolThreshold {
		return LoopPattern{
			Type:        "error_cycle",
			Confidence:  minF(float64(toolErrors)/float64(3*perToolThreshold), 1),
			Occurrences: toolErrors,
			Description: "repeated failures from the same tool",
		}, true
	}
	return LoopPattern{}, false
}

// recommendAction derives the aggregate recommendation from the assembled
// patterns (spec §4.4, `detect_cycles`).
func recommendAction(patterns []LoopPattern) RecommendedAction {
	if len(patterns) == 0 {
		return RecommendedContinue
	}
	maxConfidence := 0.0
	totalOccurrences := 0
	hasErrorCycle := false
	for _, p := range patterns {
		if p.Confidence > maxConfidence {
			maxConfidence = p.Confidence
		}
		totalOccurrences += p.Occurrences
		if p.Type == "error_cycle" {
			hasErrorCycle = true
		}
	}

	switch {
	case hasErrorCycle && totalOccurrences >= 5:
		return RecommendedHalt
	case maxConfidence >= 0.9 || totalOccurrences >= 6:
		return RecommendedEscalate
	case maxConfidence >= 0.7 || totalOccurrences >= 4:
		return RecommendedDegrade
	case maxConfidence >= 0.5 || totalOccurrences >= 2:
		return RecommendedWarn
	default:
		return RecommendedContinue
	}
}

// suggestionsFor returns deduplicated, pattern-type-specific suggestion
// strings (spec §4.4).
func suggestionsFor(patterns []LoopPattern) []string {
	seen := map[string]bool{}
	var out []string
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, p := range patterns {
		switch p.Type {
		case "exact_repeat":
			add("try an alternative approach")
			add("verify the arguments are correct")
		case "oscillation":
			add("break the task into smaller steps")
			add("request clarification")
		case "error_cycle":
			add("check the error details before retrying")
			add("consider a different tool")
		}
	}
	return out
}
