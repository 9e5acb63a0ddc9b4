package detect

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/ngoclaw/loopguard/entity"
)

const gradualLookback = 10

// DetectGradualChange inspects the last 10 records for tool and reports the
// first argument key (in a stable key order) whose values across those
// records form a monotone numeric sequence, a strictly-growing string
// prefix chain, or a sequence of small successive string edits (spec §4.3,
// "Gradual-change").
func DetectGradualChange(hist []entity.ExecutionRecord, tool string) GradualChangeResult {
	records := recordsForTool(hist, tool, gradualLookback)
	if len(records) < 3 {
		return GradualChangeResult{}
	}

	for _, key := range candidateKeys(records) {
		values := valuesForKey(records, key)
		if len(values) < 3 {
			continue
		}
		if changeType, ok := classifySequence(values); ok {
			return GradualChangeResult{
				Detected:      true,
				ChangingField: key,
				ChangeType:    changeType,
				Occurrences:   len(values),
			}
		}
	}
	return GradualChangeResult{}
}

func recordsForTool(hist []entity.ExecutionRecord, tool string, limit int) []entity.ExecutionRecord {
	var matched []entity.ExecutionRecord
	for _, r := range hist {
		if r.ToolName == tool {
			matched = append(matched, r)
		}
	}
	if len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}
	return matched
}

// candidateKeys returns, in sorted order, every argument key present in at
// least three of records (spec §4.3: "for every argument key present in at
// least three of them").
func candidateKeys(records []entity.ExecutionRecord) []string {
	counts := map[string]int{}
	for _, r := range records {
		for k := range r.ToolArgs {
			counts[k]++
		}
	}
	var keys []string
	for k, c := range counts {
		if c >= 3 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func valuesForKey(records []entity.ExecutionRecord, key string) []entity.Value {
	var out []entity.Value
	for _, r := range records {
		if v, ok := r.ToolArgs[key]; ok {
			out = append(out, entity.ValueOf(v))
		}
	}
	return out
}

func classifySequence(values []entity.Value) (GradualChangeType, bool) {
	if allNumeric(values) {
		if strictlyMonotone(values) {
			return GradualIncrement, true
		}
		return "", false
	}
	if allString(values) {
		if strictlyGrowingPrefixChain(values) {
			return GradualAppend, true
		}
		if successiveSimilarButDifferent(values) {
			return GradualModify, true
		}
	}
	return "", false
}

func allNumeric(values []entity.Value) bool {
	for _, v := range values {
		if v.Kind != entity.KindNumber {
			return false
		}
	}
	return true
}

func allString(values []entity.Value) bool {
	for _, v := range values {
		if v.Kind != entity.KindString {
			return false
		}
	}
	return true
}

func strictlyMonotone(values []entity.Value) bool {
	increasing, decreasing := true, true
	for i := 1; i < len(values); i++ {
		if values[i].N <= values[i-1].N {
			increasing = false
		}
		if values[i].N >= values[i-1].N {
			decreasing = false
		}
	}
	return increasing || decreasing
}

func strictlyGrowingPrefixChain(values []entity.Value) bool {
	for i := 1; i < len(values); i++ {
		prev, curr := values[i-1].S, values[i].S
		if len(curr) <= len(prev) || !strings.HasPrefix(curr, prev) {
			return false
		}
	}
	return true
}

// successiveSimilarButDifferent requires every consecutive pair to have a
// Levenshtein similarity strictly between 0.7 and 1.0 (spec §4.3,
// "modify").
func successiveSimilarButDifferent(values []entity.Value) bool {
	for i := 1; i < len(values); i++ {
		a, b := values[i-1].S, values[i].S
		if a == b {
			return false
		}
		sim := levenshteinSimilarity(a, b)
		if sim <= 0.7 || sim >= 1.0 {
			return false
		}
	}
	return true
}

func levenshteinSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(dist)/float64(maxLen)
}
