package recovery

import (
	"regexp"
	"strings"
)

// compiledPattern pairs an ErrorPattern with its pre-compiled regex (nil for
// non-regex kinds, or a regex that failed to compile — see matches).
type compiledPattern struct {
	ErrorPattern
	re *regexp.Regexp
}

func compilePatterns(patterns []ErrorPattern) []compiledPattern {
	out := make([]compiledPattern, len(patterns))
	for i, p := range patterns {
		out[i] = compiledPattern{ErrorPattern: p}
		if p.Kind == PatternRegex {
			// Invalid regex -> no match, never a hard error (spec §7 policy).
			if re, err := regexp.Compile("(?i)" + p.Value); err == nil {
				out[i].re = re
			}
		}
	}
	return out
}

func (p compiledPattern) matches(err ErrorInfo) bool {
	if p.ErrorType != "" && !strings.EqualFold(p.ErrorType, err.Type) {
		return false
	}
	if p.ToolName != "" && !strings.EqualFold(p.ToolName, err.Tool) {
		return false
	}
	msg := strings.ToLower(err.Message)
	switch p.Kind {
	case PatternExact:
		return msg == strings.ToLower(p.Value)
	case PatternContains:
		return strings.Contains(msg, strings.ToLower(p.Value))
	case PatternRegex:
		return p.re != nil && p.re.MatchString(err.Message)
	default:
		return false
	}
}

func anyMatches(patterns []compiledPattern, err ErrorInfo) bool {
	for _, p := range patterns {
		if p.matches(err) {
			return true
		}
	}
	return false
}
