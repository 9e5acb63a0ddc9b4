package prevent

import (
	"strconv"
	"strings"
	"sync"
)

// Store holds the learned-pattern memory the prevention engine accumulates
// across failures, plus the pre-execution check entry point. It is owned
// per engine instance (spec §9 design note: "module-level registries are a
// source-code convenience... prefer a value that owns these as fields").
type Store struct {
	mu       sync.Mutex
	patterns map[string]*LearnedPattern
}

// NewStore returns an empty learned-pattern store.
func NewStore() *Store {
	return &Store{patterns: make(map[string]*LearnedPattern)}
}

func patternKey(tool, errorType string) string {
	return strings.ToLower(tool) + "\x00" + strings.ToLower(errorType)
}

// LearnFromAction registers or strengthens a learned pattern when an
// action failed; a successful action is a no-op (spec §4.8:
// "learn_from_action(tool, args, result, ctx)").
func (s *Store) LearnFromAction(tool string, argsHash string, success bool, errorType string) {
	if success {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := patternKey(tool, errorType)
	p, ok := s.patterns[key]
	if !ok {
		p = &LearnedPattern{Tool: tool, ErrorType: errorType}
		s.patterns[key] = p
	}
	p.Occurrences++
	p.LastArgsHash = argsHash
}

// Patterns returns a snapshot of everything learned for tool (or
// everything, if tool is empty).
func (s *Store) Patterns(tool string) []LearnedPattern {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LearnedPattern, 0, len(s.patterns))
	for _, p := range s.patterns {
		if tool == "" || strings.EqualFold(p.Tool, tool) {
			out = append(out, *p)
		}
	}
	return out
}

// MatchErrorPatterns reports the learned patterns whose tool matches and
// that have failed at least twice, surfaced as human-readable warnings (spec §4.8:
// "match_error_patterns").
func (s *Store) MatchErrorPatterns(tool string) []string {
	var warnings []string
	for _, p := range s.Patterns(tool) {
		if p.Occurrences >= 2 {
			warnings = append(warnings, tool+" has previously failed with "+p.ErrorType+" "+strconv.Itoa(p.Occurrences)+" times")
		}
	}
	return warnings
}

// PerformPreExecutionChecks is the C8 entry point the host calls before
// every tool invocation (spec §4.8).
func (s *Store) PerformPreExecutionChecks(tool string, args map[string]any, ctx ExecutionContext) PreCheckResult {
	var blockers, warnings []string

	blockers = append(blockers, validateShape(tool, args)...)
	warnings = append(warnings, validateRegexArgs(args)...)
	blockers = append(blockers, checkPrerequisites(tool, args, ctx)...)
	warnings = append(warnings, s.MatchErrorPatterns(tool)...)

	fatal := false
	if cmd := commandArg(args); cmd != "" && containsAny(cmd, fatalCommands) {
		blockers = append(blockers, "command matches a known-fatal pattern: "+cmd)
		fatal = true
	}

	score, level := AssessActionRisk(tool, args, ctx, s.Patterns(tool))
	if level == RiskCritical {
		warnings = append(warnings, "risk assessment flagged this action as critical")
	}
	if fatal {
		// A known-fatal command is always reported at the top risk band.
		level = RiskCritical
	}
	_ = score

	return PreCheckResult{
		CanProceed: len(blockers) == 0,
		Blockers:   blockers,
		Warnings:   warnings,
		RiskLevel:  level,
	}
}
