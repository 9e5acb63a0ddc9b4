package detect

import "github.com/ngoclaw/loopguard/entity"

// DetectPatternCycles enumerates, for every pattern length L in
// [minLength, maxLength], the trailing L-tool-name stride and how many
// times it repeats backwards in stride L, returning every (pattern,
// repetitions) pair with repetitions >= 2 (spec §4.3, "Pattern cycles").
func DetectPatternCycles(hist []entity.ExecutionRecord, minLength, maxLength int) []PatternCycle {
	if minLength < 1 {
		minLength = 1
	}
	names := toolNames(hist, len(hist))

	var cycles []PatternCycle
	for length := minLength; length <= maxLength; length++ {
		occ := trailingRepetitions(names, length)
		if occ >= 2 {
			cycles = append(cycles, PatternCycle{
				Pattern:     append([]string(nil), names[len(names)-length:]...),
				Repetitions: occ,
			})
		}
	}
	return cycles
}
