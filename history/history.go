// Package history implements the engine's append-only sliding window of
// execution records (component C1): hashing, pruning, and the derived
// counters the rest of the engine reads off of it.
//
// Grounded on the teacher's internal/domain/service/tool_cache.go, which
// hashes (tool, args) via sha256(...)[:16] for short-term dedup caching —
// the same technique, generalized here to the time-windowed history the
// loop detectors consume.
package history

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/ngoclaw/loopguard/entity"
)

// HashArgs returns the 16-hex-character canonical hash of args. Two calls
// with equal tool_args (up to key order and nested map shape) always
// produce equal hashes — encoding/json sorts map keys at every level, and
// routing through entity.ValueOf first normalizes any custom map/slice
// types the caller passed in, so the JSON encoding is a pure function of
// the logical argument tree, not of incidental Go types.
func HashArgs(args entity.Args) string {
	normalized := entity.ValueOf(args).Any()
	b, err := json.Marshal(normalized)
	if err != nil {
		// Unmarshalable argument tree (e.g. a channel smuggled into args) —
		// fall back to the Go-syntax rendering, which is still a pure
		// function of the input.
		b = []byte(fmt.Sprintf("%#v", normalized))
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])[:16]
}

// NewRecord builds an ExecutionRecord with a fresh ID and computed hash.
// nowMs is the timestamp the tool returned at (spec §9: callers inject the
// clock rather than the record reading it directly).
func NewRecord(tool string, args entity.Args, result entity.Result, nowMs int64, durationMs int64, errType, errMsg string) entity.ExecutionRecord {
	cloned := entity.CloneArgs(args)
	return entity.ExecutionRecord{
		ID:           fmt.Sprintf("%d-%s", nowMs, uuid.New().String()[:8]),
		Timestamp:    nowMs,
		ToolName:     tool,
		ToolArgs:     cloned,
		ArgsHash:     HashArgs(cloned),
		Result:       result,
		ErrorType:    errType,
		ErrorMessage: errMsg,
		DurationMs:   durationMs,
	}
}

// Prune returns only the records within timeWindowMs of nowMs, preserving
// order. A non-positive window disables pruning (the whole history is
// in-window).
func Prune(hist []entity.ExecutionRecord, nowMs int64, timeWindowMs int64) []entity.ExecutionRecord {
	if timeWindowMs <= 0 || len(hist) == 0 {
		return hist
	}
	cutoff := nowMs - timeWindowMs
	start := 0
	for start < len(hist) && hist[start].Timestamp < cutoff {
		start++
	}
	if start == 0 {
		return hist
	}
	out := make([]entity.ExecutionRecord, len(hist)-start)
	copy(out, hist[start:])
	return out
}

// Add returns a new history with entry appended, records older than the
// time window dropped, and the result capped at entity.MaxHistorySize —
// keeping only the most recent entries (spec §4.1, invariant 2 of §3).
func Add(hist []entity.ExecutionRecord, entry entity.ExecutionRecord, timeWindowMs int64) []entity.ExecutionRecord {
	pruned := Prune(hist, entry.Timestamp, timeWindowMs)
	out := make([]entity.ExecutionRecord, len(pruned)+1)
	copy(out, pruned)
	out[len(pruned)] = entry
	if len(out) > entity.MaxHistorySize {
		out = out[len(out)-entity.MaxHistorySize:]
	}
	return out
}

// ForTool returns the in-window records for a given tool, newest last.
func ForTool(hist []entity.ExecutionRecord, tool string, nowMs, timeWindowMs int64) []entity.ExecutionRecord {
	pruned := Prune(hist, nowMs, timeWindowMs)
	out := make([]entity.ExecutionRecord, 0, len(pruned))
	for _, r := range pruned {
		if r.ToolName == tool {
			out = append(out, r)
		}
	}
	return out
}

// IdenticalCallCount counts in-window records matching (tool, argsHash).
func IdenticalCallCount(hist []entity.ExecutionRecord, tool, argsHash string, nowMs, timeWindowMs int64) int {
	pruned := Prune(hist, nowMs, timeWindowMs)
	count := 0
	for _, r := range pruned {
		if r.ToolName == tool && r.ArgsHash == argsHash {
			count++
		}
	}
	return count
}

// ConsecutiveErrorCount scans the suffix of hist and stops at the first
// non-error record (spec §3 invariant 3, §4.1).
func ConsecutiveErrorCount(hist []entity.ExecutionRecord) int {
	count := 0
	for i := len(hist) - 1; i >= 0; i-- {
		if !hist[i].IsError() {
			break
		}
		count++
	}
	return count
}

// ToolErrorCounts tallies in-window error counts per tool.
func ToolErrorCounts(hist []entity.ExecutionRecord, nowMs, timeWindowMs int64) map[string]int {
	pruned := Prune(hist, nowMs, timeWindowMs)
	counts := make(map[string]int)
	for _, r := range pruned {
		if r.IsError() {
			counts[r.ToolName]++
		}
	}
	return counts
}
