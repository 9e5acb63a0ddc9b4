package detect

import (
	"go.uber.org/zap"

	"github.com/ngoclaw/loopguard/config"
	"github.com/ngoclaw/loopguard/entity"
	"github.com/ngoclaw/loopguard/history"
	"github.com/ngoclaw/loopguard/internal/logger"
	"github.com/ngoclaw/loopguard/similarity"
)

// DetectCycle is the pre-call entry point (spec §4.4, `detect_cycle`). It
// evaluates exact, semantic, and pattern signals in that order and returns
// the first that fires.
func DetectCycle(tool string, args entity.Args, state *entity.DetectionState, cfg *config.Config, log *zap.Logger) CycleDecision {
	log = logger.OrNop(log)
	if state == nil || cfg == nil || !cfg.Enabled {
		return CycleDecision{LoopType: LoopTypeNone, SuggestedAction: ActionContinue}
	}

	override := cfg.ForTool(tool)
	lookbackWindow := cfg.ExactMatchLookbackWindow
	if override.LookbackWindow > 0 {
		lookbackWindow = override.LookbackWindow
	}

	argsHash := history.HashArgs(args)
	exactCount := ExactRepeatCount(state.ExecutionHistory, tool, argsHash, lookbackWindow)
	threshold := cfg.ExactMatchThreshold
	if override.MaxIdenticalCalls > 0 {
		threshold = override.MaxIdenticalCalls
	}

	if exactCount >= threshold {
		action := ladderAction(exactCount, threshold)
		log.Warn("detect: exact-repeat cycle", zap.String("tool", tool), zap.Int("count", exactCount), zap.Int("threshold", threshold))
		return CycleDecision{
			IsLoop:          true,
			LoopType:        LoopTypeExact,
			Confidence:      1.0,
			SuggestedAction: action,
			MatchedEntries:  MatchingIDs(state.ExecutionHistory, tool, argsHash, lookbackWindow),
		}
	}

	if cfg.SemanticSimilarityEnabled {
		matches, maxSim := checkForSimilarActions(state.ExecutionHistory, tool, args, cfg.SemanticSimilarityThreshold, lookbackWindow)
		semanticThreshold := cfg.SemanticMatchThreshold
		if override.SemanticMatchThreshold > 0 {
			semanticThreshold = override.SemanticMatchThreshold
		}
		if len(matches) >= semanticThreshold {
			action := ladderAction(len(matches), semanticThreshold)
			log.Warn("detect: semantic cycle", zap.String("tool", tool), zap.Int("matches", len(matches)), zap.Float64("max_similarity", maxSim))
			return CycleDecision{
				IsLoop:          true,
				LoopType:        LoopTypeSemantic,
				Confidence:      maxSim,
				SuggestedAction: action,
				MatchedEntries:  ids(matches),
			}
		}
	}

	if cfg.PatternDetectionEnabled {
		cycles := DetectPatternCycles(state.ExecutionHistory, cfg.MinPatternLength, cfg.MaxPatternLength)
		for _, c := range cycles {
			if c.Repetitions >= cfg.PatternRepetitionThreshold {
				log.Warn("detect: pattern cycle", zap.Strings("pattern", c.Pattern), zap.Int("repetitions", c.Repetitions))
				return CycleDecision{
					IsLoop:          true,
					LoopType:        LoopTypePattern,
					Confidence:      minF(float64(c.Repetitions)/3, 1),
					SuggestedAction: ActionSwitchStrategy,
				}
			}
		}
	}

	return CycleDecision{LoopType: LoopTypeNone, SuggestedAction: ActionContinue}
}

// ladderAction implements the degradation ladder shared by exact and
// semantic decisions (spec §4.4): switch-strategy at count>=threshold,
// clarify at >=2T, escalate at >=3T, searched highest first.
func ladderAction(count, threshold int) SuggestedAction {
	switch {
	case threshold <= 0:
		return ActionSwitchStrategy
	case count >= 3*threshold:
		return ActionEscalate
	case count >= 2*threshold:
		return ActionClarify
	default:
		return ActionSwitchStrategy
	}
}

// checkForSimilarActions finds lookback-window records for tool whose args
// are at least threshold similar to args, returning the matches and the
// highest observed similarity.
func checkForSimilarActions(hist []entity.ExecutionRecord, tool string, args entity.Args, threshold float64, lookbackWindow int) ([]entity.ExecutionRecord, float64) {
	var matches []entity.ExecutionRecord
	maxSim := 0.0
	for _, r := range lookback(hist, lookbackWindow) {
		if r.ToolName != tool {
			continue
		}
		sim := similarity.Args(args, r.ToolArgs, tool)
		if sim >= threshold {
			matches = append(matches, r)
			if sim > maxSim {
				maxSim = sim
			}
		}
	}
	return matches, maxSim
}

func ids(records []entity.ExecutionRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
