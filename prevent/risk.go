package prevent

import "strings"

var mutatorTools = map[string]bool{
	"write_file": true, "apply_patch": true, "edit_file": true, "insert": true,
	"replace": true, "shell": true, "execute_command": true, "bash": true,
}

// AssessActionRisk computes a weighted [0,100] risk score and its band
// (spec §4.8). patterns supplies the learned-pattern history used for the
// historical_errors component.
func AssessActionRisk(tool string, args map[string]any, ctx ExecutionContext, patterns []LearnedPattern) (float64, RiskLevel) {
	destructive := destructivePotential(tool, args)
	scope := operationScope(args, ctx)
	rollback := rollbackAvailability(ctx)
	historical := historicalErrors(tool, patterns)

	score := 0.4*destructive + 0.3*scope + 0.2*rollback + 0.1*historical
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, bandFor(score)
}

func destructivePotential(tool string, args map[string]any) float64 {
	score := 0.0
	if mutatorTools[strings.ToLower(tool)] {
		score += 40
	}
	if cmd := commandArg(args); cmd != "" {
		if containsAny(cmd, cautionCommands) {
			score = 100
		} else if containsAny(cmd, []string{"rm ", "del ", "drop "}) {
			score += 30
		}
	}
	if score > 100 {
		score = 100
	}
	return score
}

func operationScope(args map[string]any, ctx ExecutionContext) float64 {
	score := 0.0
	if cmd := commandArg(args); cmd != "" {
		if strings.Contains(cmd, "*") {
			score += 25
		}
		if containsAny(cmd, []string{"-r", "--recursive"}) {
			score += 25
		}
	}
	if p, ok := args["pattern"].(string); ok && strings.Contains(p, "*") {
		score += 15
	}
	if ctx.ModifiedFilesCount > 10 {
		score += 30
	} else if ctx.ModifiedFilesCount > 3 {
		score += 15
	}
	if score > 100 {
		score = 100
	}
	return score
}

func rollbackAvailability(ctx ExecutionContext) float64 {
	if ctx.CheckpointAvailable {
		return 10
	}
	return 50
}

func historicalErrors(tool string, patterns []LearnedPattern) float64 {
	total := 0
	for _, p := range patterns {
		if strings.EqualFold(p.Tool, tool) {
			total += p.Occurrences
		}
	}
	score := float64(total) * 15
	if score > 100 {
		score = 100
	}
	return score
}

func bandFor(score float64) RiskLevel {
	switch {
	case score < 30:
		return RiskLow
	case score < 60:
		return RiskMedium
	case score < 80:
		return RiskHigh
	default:
		return RiskCritical
	}
}
