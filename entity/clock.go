package entity

import "time"

// Clock returns the current wall-clock time in milliseconds. Every
// timestamp the engine produces flows through one of these so tests can
// inject a deterministic clock instead of reading the wall clock directly
// (spec §9 design note: "Tests must be able to override it").
type Clock func() int64

// SystemClock is the default Clock, backed by the real wall clock.
func SystemClock() int64 {
	return time.Now().UnixMilli()
}
