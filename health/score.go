package health

// Score computes the 0-100 health score and status band for metrics as of
// nowMs (spec §4.6).
func Score(m Metrics, nowMs int64) Health {
	score := 100.0
	score -= 40 * (1 - m.OverallSuccessRate)
	score -= 30 * (1 - m.RecentSuccessRate)
	score -= durationPenalty(m, nowMs)
	score -= recoveryPenalty(m)
	score = clamp(score, 0, 100)

	h := Health{Score: score, Status: statusFor(score)}
	h.Issues = detectIssues(m)
	return h
}

func durationPenalty(m Metrics, nowMs int64) float64 {
	if m.SuccessCount == 0 {
		return 0
	}
	elapsed := nowMs - m.LastSuccessTimestamp
	const fiveMinutesMs = 300_000
	if elapsed <= fiveMinutesMs {
		return 0
	}
	penalty := float64(elapsed-fiveMinutesMs) / 60_000
	if penalty > 20 {
		penalty = 20
	}
	return penalty
}

func recoveryPenalty(m Metrics) float64 {
	if m.RecoveryAttempts == 0 {
		return 0
	}
	successRate := float64(m.RecoverySuccesses) / float64(m.RecoveryAttempts)
	return 10 * (1 - successRate)
}

func statusFor(score float64) Status {
	switch {
	case score >= 80:
		return StatusHealthy
	case score >= 60:
		return StatusDegraded
	case score >= 40:
		return StatusUnhealthy
	default:
		return StatusCritical
	}
}

func detectIssues(m Metrics) []Issue {
	var issues []Issue

	if m.RecentSuccessRate < 0.5 && len(m.RecentErrors) > 0 {
		severity := 0.1
		switch {
		case m.RecentSuccessRate < 0.2:
			severity = 0.9
		case m.RecentSuccessRate < 0.3:
			severity = 0.6
		default:
			severity = 0.3
		}
		issues = append(issues, Issue{Type: IssueHighErrorRate, Severity: severity, Message: "recent success rate has dropped"})
	}

	if m.AverageDurationMs > 10_000 {
		severity := 0.4
		switch {
		case m.AverageDurationMs > 30_000:
			severity = 0.9
		case m.AverageDurationMs > 20_000:
			severity = 0.6
		}
		issues = append(issues, Issue{Type: IssueSlowPerformance, Severity: severity, Message: "average call duration is elevated"})
	}

	if len(m.RecentErrors) >= 4 {
		unique := map[string]struct{}{}
		for _, e := range m.RecentErrors {
			unique[e] = struct{}{}
		}
		if len(unique) < len(m.RecentErrors)/2 {
			issues = append(issues, Issue{Type: IssueRepeatedFailures, Severity: 0.5, Message: "the same errors keep recurring"})
		}
	}

	if m.RecoveryAttempts > 5 {
		successRate := 0.0
		if m.RecoveryAttempts > 0 {
			successRate = float64(m.RecoverySuccesses) / float64(m.RecoveryAttempts)
		}
		if successRate < 0.3 {
			issues = append(issues, Issue{Type: IssueRecoveryExhausted, Severity: 0.8, Message: "recovery strategies are no longer working"})
		}
	}

	return issues
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
