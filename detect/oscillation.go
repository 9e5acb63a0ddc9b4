package detect

import "github.com/ngoclaw/loopguard/entity"

// oscillationWindow is the default trailing window W the oscillation
// detector considers (spec §4.3: "over the last W records (default 20)").
const oscillationWindow = 20

var oscillationLengths = []int{2, 3, 4}

// DetectOscillation looks for a short tool-name cycle (length 2, 3, or 4)
// repeating at the tail of hist. It operates purely on tool-name sequences —
// argument identity is not required (spec §4.3).
func DetectOscillation(hist []entity.ExecutionRecord) OscillationResult {
	names := toolNames(hist, oscillationWindow)

	for _, length := range oscillationLengths {
		occ := trailingRepetitions(names, length)
		if occ >= 2 {
			pattern := append([]string(nil), names[len(names)-length:]...)
			return OscillationResult{
				Detected:    true,
				Tools:       pattern,
				CycleLength: length,
				Occurrences: occ,
				Confidence:  minF(1, float64(occ)/4),
			}
		}
	}
	return OscillationResult{}
}

// toolNames returns up to the last window tool names from hist, oldest
// first.
func toolNames(hist []entity.ExecutionRecord, window int) []string {
	start := 0
	if len(hist) > window {
		start = len(hist) - window
	}
	names := make([]string, len(hist)-start)
	for i, r := range hist[start:] {
		names[i] = r.ToolName
	}
	return names
}

// trailingRepetitions counts how many consecutive length-L strides at the
// end of names match the final stride, walking backwards and stopping at
// the first mismatch (spec §4.3, "Oscillation").
func trailingRepetitions(names []string, length int) int {
	if len(names) < length*2 {
		return 0
	}
	last := names[len(names)-length:]
	occurrences := 1
	for end := len(names) - length; end >= length; end -= length {
		candidate := names[end-length : end]
		if !sameStride(last, candidate) {
			break
		}
		occurrences++
	}
	return occurrences
}

func sameStride(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
