package pkg

import (
	"context"
	"os"
	"time"
)

// StabilityState is the terminal state of a stability check.
type StabilityState int

const (
	// StabilityStable means the file size stopped changing and the file is
	// safe to ingest.
	StabilityStable StabilityState = iota
	// StabilityUnstable means the file never settled within the polling
	// budget.
	StabilityUnstable
	// StabilityVanished means the file disappeared before or during the
	// check. Treated as a quiet skip, not an error.
	StabilityVanished
	// StabilityCanceled means the surrounding watch session shut down while
	// the check was in flight.
	StabilityCanceled
)

func (s StabilityState) String() string {
	switch s {
	case StabilityStable:
		return "stable"
	case StabilityUnstable:
		return "unstable"
	case StabilityVanished:
		return "vanished"
	case StabilityCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// unmatchableSize is stored as the last observed size after a transient read
// failure so the next successful read can never spuriously count as a match.
const unmatchableSize int64 = -1

// StabilityGate decides whether a file has finished being written by polling
// its size until it repeats a fixed number of times. External writers give no
// completion signal, so size stability is a heuristic proxy, and the attempt
// bound keeps a never-finishing write from stalling the watcher forever.
type StabilityGate struct {
	// Interval is the pause between size polls.
	Interval time.Duration
	// RequiredMatches is how many consecutive equal sizes count as stable.
	RequiredMatches int
	// MaxAttempts bounds the total number of polls before giving up.
	MaxAttempts int

	// fileSize is swappable in tests.
	fileSize func(path string) (int64, error)
}

// NewStabilityGate returns a gate with the production polling constants:
// a 5 second interval, 3 consecutive matches, and 360 attempts (30 minutes).
func NewStabilityGate() *StabilityGate {
	return &StabilityGate{
		Interval:        5 * time.Second,
		RequiredMatches: 3,
		MaxAttempts:     360,
		fileSize:        statSize,
	}
}

func statSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// AwaitStable blocks until the file at path reaches a terminal stability
// state. The context cancels an in-flight check when the watch session shuts
// down.
func (g *StabilityGate) AwaitStable(ctx context.Context, path string) StabilityState {
	sizeOf := g.fileSize
	if sizeOf == nil {
		sizeOf = statSize
	}

	lastSize, err := sizeOf(path)
	if os.IsNotExist(err) {
		return StabilityVanished
	}
	if err != nil {
		lastSize = unmatchableSize
	}

	matches := 0
	for attempts := 0; attempts < g.MaxAttempts; attempts++ {
		select {
		case <-ctx.Done():
			return StabilityCanceled
		case <-time.After(g.Interval):
		}

		size, err := sizeOf(path)
		switch {
		case os.IsNotExist(err):
			return StabilityVanished
		case err != nil:
			// Transient read failure: restart the match count and poison
			// the comparison size.
			matches = 0
			lastSize = unmatchableSize
		case size == lastSize:
			matches++
			if matches >= g.RequiredMatches {
				return StabilityStable
			}
		default:
			matches = 0
			lastSize = size
		}
	}

	return StabilityUnstable
}
