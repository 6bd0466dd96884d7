package producer

import (
	"math"
	"math/rand/v2"
)

// maxFirstValue is the upper bound (inclusive) of the walk's first value.
const maxFirstValue = 5

// Walk is a random walk over non-negative integers.
//
// The first value is drawn uniformly from [0, 5]. Every later value is the
// previous one plus a step from {-1, 0, +1}, floored at zero. There is no
// upper bound: over a long run the walk can drift arbitrarily high.
//
// Walk is not safe for concurrent use; it is owned by the producer goroutine.
type Walk struct {
	first   func() int
	step    func() int
	last    int
	started bool
}

// NewWalk creates a [Walk] that draws from rng.
func NewWalk(rng *rand.Rand) *Walk {
	return NewWalkFunc(
		func() int { return rng.IntN(maxFirstValue + 1) },
		func() int { return rng.IntN(3) - 1 },
	)
}

// NewWalkFunc creates a [Walk] from explicit draw functions.
//
// first supplies the initial value and step supplies each subsequent step.
// Tests use this to force a known sequence of steps.
func NewWalkFunc(first, step func() int) *Walk {
	return &Walk{first: first, step: step}
}

// Next returns the next value of the walk.
func (w *Walk) Next() int {
	if !w.started {
		w.started = true
		w.last = max(0, w.first())
		return w.last
	}
	w.last = max(0, w.last+w.step())
	return w.last
}

// Wave returns the series B value for a tick index: 5 + 2*sin(0.3*index).
func Wave(index int64) float64 {
	return 5 + 2*math.Sin(0.3*float64(index))
}
