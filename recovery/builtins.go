package recovery

// BuiltinStrategies returns the six built-in strategies from spec §4.5,
// expressed purely as data so adding a strategy never requires a code
// change. Pattern substring lists beyond file_not_found's (the only one
// spec.md enumerates verbatim) are this module's own reasonable choices for
// the named error categories — see DESIGN.md.
func BuiltinStrategies() []Strategy {
	return []Strategy{
		{
			ID:          "rate_limit",
			Name:        "Rate limit backoff",
			Description: "Retries after a rate-limit response once the window should have reset.",
			Priority:    95,
			MaxAttempts: 5,
			CooldownMs:  30_000,
			Patterns: []ErrorPattern{
				{Kind: PatternContains, Value: "rate limit"},
				{Kind: PatternContains, Value: "too many requests"},
				{Kind: PatternContains, Value: "429"},
				{Kind: PatternContains, Value: "quota exceeded"},
			},
			Action: RecoveryAction{Type: ActionRetry, DelayMs: 30_000},
		},
		{
			ID:          "timeout",
			Name:        "Timeout retry",
			Description: "Retries a call that exceeded its deadline.",
			Priority:    90,
			MaxAttempts: 3,
			CooldownMs:  5_000,
			Patterns: []ErrorPattern{
				{Kind: PatternContains, Value: "timeout"},
				{Kind: PatternContains, Value: "timed out"},
				{Kind: PatternContains, Value: "deadline exceeded"},
			},
			Action: RecoveryAction{Type: ActionRetry, DelayMs: 5_000},
		},
		{
			ID:          "connection_error",
			Name:        "Connection retry",
			Description: "Retries after a transient network failure.",
			Priority:    85,
			MaxAttempts: 3,
			CooldownMs:  10_000,
			Patterns: []ErrorPattern{
				{Kind: PatternContains, Value: "connection refused"},
				{Kind: PatternContains, Value: "connection reset"},
				{Kind: PatternContains, Value: "econnrefused"},
				{Kind: PatternContains, Value: "network error"},
			},
			Action: RecoveryAction{Type: ActionRetry, DelayMs: 10_000},
		},
		{
			ID:          "file_not_found",
			Name:        "File not found fallback",
			Description: "Falls back to a search tool when a path doesn't exist.",
			Priority:    80,
			MaxAttempts: 2,
			CooldownMs:  5_000,
			Patterns: []ErrorPattern{
				{Kind: PatternContains, Value: "file not found"},
				{Kind: PatternContains, Value: "no such file"},
				{Kind: PatternContains, Value: "does not exist"},
				{Kind: PatternContains, Value: "enoent"},
				{Kind: PatternRegex, Value: `cannot (find|locate|open) file`},
			},
			Action: RecoveryAction{Type: ActionAlternativeTool, ToolName: "search"},
		},
		{
			ID:          "syntax_error",
			Name:        "Syntax error state clear",
			Description: "Clears cached/parsed state after a syntax error so the next attempt re-derives it.",
			Priority:    75,
			MaxAttempts: 2,
			CooldownMs:  3_000,
			Patterns: []ErrorPattern{
				{Kind: PatternContains, Value: "syntax error"},
				{Kind: PatternContains, Value: "unexpected token"},
				{Kind: PatternContains, Value: "parse error"},
			},
			Action: RecoveryAction{Type: ActionClearState, Fields: []string{"cachedContent", "parsedData"}},
		},
		{
			ID:          "permission_denied",
			Name:        "Permission denied skip",
			Description: "Skips an operation the agent has no permission to perform.",
			Priority:    70,
			MaxAttempts: 1,
			CooldownMs:  10_000,
			Patterns: []ErrorPattern{
				{Kind: PatternContains, Value: "permission denied"},
				{Kind: PatternContains, Value: "access denied"},
				{Kind: PatternContains, Value: "eacces"},
				{Kind: PatternContains, Value: "forbidden"},
			},
			Action: RecoveryAction{Type: ActionSkip, Reason: "insufficient permissions"},
		},
	}
}
