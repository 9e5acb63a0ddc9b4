package detect

import "github.com/ngoclaw/loopguard/entity"

// lookback returns the trailing lookback records of hist (count-bounded,
// per config's exact_match_lookback_window — a call count, grounded in the
// teacher's LoopDetector.windowSize slice-length bound, not a duration; C1's
// own time_window_ms pruning already bounds hist by time before this runs).
func lookback(hist []entity.ExecutionRecord, window int) []entity.ExecutionRecord {
	if window <= 0 || len(hist) <= window {
		return hist
	}
	return hist[len(hist)-window:]
}

// ExactRepeatCount returns how many records within the trailing lookback
// window match (tool, argsHash) (spec §4.3, "Exact-repeat").
func ExactRepeatCount(hist []entity.ExecutionRecord, tool, argsHash string, lookbackWindow int) int {
	count := 0
	for _, r := range lookback(hist, lookbackWindow) {
		if r.ToolName == tool && r.ArgsHash == argsHash {
			count++
		}
	}
	return count
}

// MatchingIDs returns the IDs of lookback-window records matching (tool,
// argsHash), for CycleDecision.MatchedEntries.
func MatchingIDs(hist []entity.ExecutionRecord, tool, argsHash string, lookbackWindow int) []string {
	var ids []string
	for _, r := range lookback(hist, lookbackWindow) {
		if r.ToolName == tool && r.ArgsHash == argsHash {
			ids = append(ids, r.ID)
		}
	}
	return ids
}
