// Package loopguard is the composition root: it wires history, similarity,
// detect, recovery, health, and prevent into the host-facing API an
// embedding agent calls around every tool invocation (spec §2, §6).
//
// There is no hidden module-level state. Engine owns everything that used
// to live in a registry singleton; a package-level DefaultEngine is offered
// purely as syntactic sugar for callers who only ever need one (spec §9
// design note).
package loopguard

import (
	"go.uber.org/zap"

	"github.com/ngoclaw/loopguard/config"
	"github.com/ngoclaw/loopguard/detect"
	"github.com/ngoclaw/loopguard/entity"
	"github.com/ngoclaw/loopguard/health"
	"github.com/ngoclaw/loopguard/history"
	"github.com/ngoclaw/loopguard/prevent"
	"github.com/ngoclaw/loopguard/recovery"
)

// Engine is the stateful facade a host embeds: one per agent/session. It
// owns its Config, its recovery Registry, and its learned-pattern Store;
// callers own the DetectionState and thread it through every call (spec
// §3: "the mutable coordination object owned by the host").
type Engine struct {
	Config   *config.Config
	Recovery *recovery.Registry
	Prevent  *prevent.Store
	Clock    entity.Clock

	// Listeners observes every DetectCycle decision; attach telemetry
	// sinks via Listeners.Add before the engine starts handling calls
	// (detect.Listener/Listeners — spec §5 supplement).
	Listeners detect.Listeners

	logger *zap.Logger
}

// Option configures a new Engine.
type Option func(*Engine)

// WithConfig overrides the default balanced config.
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) { e.Config = cfg }
}

// WithLogger attaches a structured logger; nil falls back to a no-op.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.logger = log }
}

// WithClock overrides the wall clock, for deterministic tests.
func WithClock(clock entity.Clock) Option {
	return func(e *Engine) { e.Clock = clock }
}

// New returns a ready-to-use Engine with balanced defaults.
func New(opts ...Option) *Engine {
	e := &Engine{
		Config: config.Default(),
		Clock:  entity.SystemClock,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Recovery = recovery.NewRegistry(e.logger)
	e.Prevent = prevent.NewStore()
	return e
}

// DefaultEngine is a ready-to-use balanced-config Engine for hosts that only
// ever need one loop-prevention instance. Purely a convenience: it carries
// no special status and a host embedding more than one agent/session should
// call New directly instead, one Engine per session (spec §9 design note).
var DefaultEngine = New()

// PreCheck runs C8's pre-execution checks ahead of a prospective tool call.
func (e *Engine) PreCheck(tool string, args map[string]any, ctx prevent.ExecutionContext) prevent.PreCheckResult {
	return e.Prevent.PerformPreExecutionChecks(tool, args, ctx)
}

// DetectCycle runs C4's pre-call cycle check and fans the decision out to
// any attached Listeners.
func (e *Engine) DetectCycle(tool string, args entity.Args, state *entity.DetectionState) detect.CycleDecision {
	decision := detect.DetectCycle(tool, args, state, e.Config, e.logger)
	e.Listeners.Notify(tool, decision)
	return decision
}

// RecordCall appends a completed tool invocation to state's history and
// refreshes its derived counters (C1 append + C4 state update, spec §2's
// "after each tool returns, the host calls C1 to append").
func (e *Engine) RecordCall(state *entity.DetectionState, tool string, args entity.Args, result entity.Result, durationMs int64, errType, errMsg string) entity.ExecutionRecord {
	now := e.Clock()
	entry := history.NewRecord(tool, args, result, now, durationMs, errType, errMsg)
	detect.UpdateState(state, entry, e.Config)
	detect.ApplyDegradationLevel(state, e.Config)
	return entry
}

// DetectCycles runs C3/C4's post-call aggregate pattern scan.
func (e *Engine) DetectCycles(state *entity.DetectionState, tool, argsHash string) detect.LoopDetectionResult {
	return detect.DetectCycles(state, tool, argsHash, e.Config, e.logger)
}

// AttemptRecovery runs C5 after an error result, and mirrors the outcome
// into state's rolling recovery totals for the health monitor.
func (e *Engine) AttemptRecovery(state *entity.DetectionState, tool, errType, message string) recovery.RecoveryResult {
	result := e.Recovery.AttemptRecovery(recovery.ErrorInfo{Tool: tool, Type: errType, Message: message}, e.Clock())
	if result.Success {
		state.RecoveryAttemptCount++
	}
	return result
}

// RecordRecoveryOutcome tells the registry and the health-relevant state
// counters whether an applied recovery action actually resolved the error.
func (e *Engine) RecordRecoveryOutcome(state *entity.DetectionState, tool, errType, strategyID string, success bool) {
	e.Recovery.RecordOutcome(tool, errType, strategyID, success)
	if success {
		state.RecoverySuccessCount++
	}
}

// Health runs C6 over state as of now.
func (e *Engine) Health(state *entity.DetectionState) health.Health {
	metrics := health.BuildMetrics(state)
	return health.Score(metrics, e.Clock())
}

// LearnFromFailure feeds C8's learned-pattern store after a failed call.
func (e *Engine) LearnFromFailure(tool, argsHash, errType string) {
	e.Prevent.LearnFromAction(tool, argsHash, false, errType)
}

// ShouldEscalate runs C4's escalation check against the current
// consecutive-error run and cooldown.
func (e *Engine) ShouldEscalate(state *entity.DetectionState) bool {
	return detect.ShouldEscalate(state, e.Config, e.Clock(), e.logger)
}
