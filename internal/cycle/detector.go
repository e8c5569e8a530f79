// Package cycle drives the sparse board engine forward looking for a fixed
// point or a short-period oscillation, publishing per-generation progress
// as it goes.
package cycle

import (
	"gameoflife/internal/apierr"
	"gameoflife/internal/cellgrid"
)

// historyWindow is the size of the sliding fingerprint history used to
// detect oscillation. 20 generations comfortably covers every natural
// short-period Life oscillator (blinker/toad/beacon = 2, pulsar = 3,
// pentadecathlon = 15); longer periods degrade to Timeout. Widening the
// window, should a longer-period oscillator matter, is a single-constant
// change.
const historyWindow = 20

// Status tags the three shapes a Result can take.
type Status int

const (
	Stable Status = iota
	Oscillating
	Timeout
)

// Result is the outcome of a Run: exactly one of the three variants spec.md
// §3 describes, discriminated by Status.
type Result struct {
	Status     Status
	Generation int
	Period     int // only meaningful when Status == Oscillating
	State      [][]int
}

// ProgressFunc is invoked synchronously, once per generation, in strictly
// increasing generation order. If it panics, Run does not recover: the
// panic propagates to the caller, which is the documented failure mode for
// a misbehaving callback.
type ProgressFunc func(generation int, state [][]int)

// Run advances seed until it finds a fixed point, a short-period
// oscillation, or exhausts maxAttempts. maxAttempts must be positive; the
// seed itself is attempt 0 and is always eligible to be reported stable.
func Run(seed cellgrid.Board, maxAttempts int, progress ProgressFunc) (Result, error) {
	if maxAttempts <= 0 {
		return Result{}, apierr.New(apierr.InvalidInput, "maxAttempts must be positive")
	}

	current := seed
	generation := 0
	emit(progress, generation, current)

	next := current.NextGeneration()
	if current.Fingerprint() == next.Fingerprint() {
		return Result{Status: Stable, Generation: 0, State: current.ToDense()}, nil
	}

	history := newHistory(historyWindow)
	history.push(current.Fingerprint())
	current = next
	generation = 1
	emit(progress, generation, current)

	for i := 1; i < maxAttempts; i++ {
		curHash := current.Fingerprint()
		next := current.NextGeneration()
		nextHash := next.Fingerprint()
		generation = i + 1

		emit(progress, generation, next)

		if curHash == nextHash {
			return Result{Status: Stable, Generation: i, State: current.ToDense()}, nil
		}

		if j, found := history.indexOf(nextHash); found {
			period := history.len() - j + 1
			return Result{Status: Oscillating, Generation: generation, Period: period, State: next.ToDense()}, nil
		}

		history.push(curHash)
		current = next
	}

	return Result{Status: Timeout, Generation: maxAttempts, State: current.ToDense()}, nil
}

func emit(progress ProgressFunc, generation int, b cellgrid.Board) {
	if progress != nil {
		progress(generation, b.ToDense())
	}
}

// history is a bounded FIFO of fingerprints; the oldest entry is dropped
// once the window is exceeded, matching spec.md's "sliding history window".
type history struct {
	window  int
	entries []string
}

func newHistory(window int) *history {
	return &history{window: window, entries: make([]string, 0, window)}
}

func (h *history) push(fingerprint string) {
	h.entries = append(h.entries, fingerprint)
	if len(h.entries) > h.window {
		h.entries = h.entries[1:]
	}
}

func (h *history) len() int {
	return len(h.entries)
}

// indexOf returns the 0-based position (oldest first) of fingerprint in the
// history, if present.
func (h *history) indexOf(fingerprint string) (int, bool) {
	for i, e := range h.entries {
		if e == fingerprint {
			return i, true
		}
	}
	return 0, false
}
