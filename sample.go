package liveplot

import "time"

// Sample is one committed point of the live series, as seen by
// [WithSampleCallback] consumers.
//
// Sample is a plain value; the callback receives its own copy.
type Sample struct {
	// Index is the 1-based tick count of the commit.
	Index int64

	// ValueA is the random-walk value. Never negative.
	ValueA int

	// ValueB is the sine value 5 + 2*sin(0.3*Index).
	ValueB float64

	// Elapsed is the time taken to compute and commit the sample.
	Elapsed time.Duration
}
