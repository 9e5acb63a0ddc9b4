package health

import "github.com/ngoclaw/loopguard/entity"

const recentWindow = 10

// BuildMetrics aggregates a rolling health snapshot from state's execution
// history (spec §4.6). With no calls recorded yet, both success rates are 1.
func BuildMetrics(state *entity.DetectionState) Metrics {
	m := Metrics{OverallSuccessRate: 1, RecentSuccessRate: 1}
	if state == nil {
		return m
	}
	hist := state.ExecutionHistory
	m.TotalCalls = len(hist)

	var totalDuration int64
	for _, r := range hist {
		totalDuration += r.DurationMs
		if r.IsError() {
			m.ErrorCount++
			if r.Timestamp > m.LastErrorTimestamp {
				m.LastErrorTimestamp = r.Timestamp
			}
		} else {
			m.SuccessCount++
			if r.Timestamp > m.LastSuccessTimestamp {
				m.LastSuccessTimestamp = r.Timestamp
			}
		}
	}
	if m.TotalCalls > 0 {
		m.OverallSuccessRate = float64(m.SuccessCount) / float64(m.TotalCalls)
		m.AverageDurationMs = float64(totalDuration) / float64(m.TotalCalls)
	}

	recent := hist
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}
	if len(recent) > 0 {
		successes := 0
		for _, r := range recent {
			if !r.IsError() {
				successes++
			} else {
				m.RecentErrors = append(m.RecentErrors, r.ErrorMessage)
			}
		}
		m.RecentSuccessRate = float64(successes) / float64(len(recent))
	}

	m.RecoveryAttempts = state.RecoveryAttemptCount
	m.RecoverySuccesses = state.RecoverySuccessCount
	return m
}
