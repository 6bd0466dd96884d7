package store

import "errors"

// ErrInvalidCapacity is returned when a store is constructed with a
// non-positive capacity.
var ErrInvalidCapacity = errors.New("capacity must be positive")

// Sample is one committed clock tick.
type Sample struct {
	// Index is the timestep, starting at 1 and increasing by exactly 1.
	Index int64 `json:"index"`

	// ValueA is the random-walk value. Never negative.
	ValueA int `json:"value_a"`

	// ValueB is the sine-wave value derived from Index.
	ValueB float64 `json:"value_b"`
}

// Snapshot is a point-in-time copy of every sample in the store.
//
// The three slices always have the same length and Indices is strictly
// ascending. A Snapshot shares no memory with the store.
type Snapshot struct {
	Indices []int64   `json:"indices"`
	SeriesA []int     `json:"series_a"`
	SeriesB []float64 `json:"series_b"`
}

// Len returns the number of samples in the snapshot.
func (s Snapshot) Len() int {
	return len(s.Indices)
}

// Samples returns the snapshot as a slice of [Sample] values.
func (s Snapshot) Samples() []Sample {
	out := make([]Sample, len(s.Indices))
	for i := range s.Indices {
		out[i] = Sample{Index: s.Indices[i], ValueA: s.SeriesA[i], ValueB: s.SeriesB[i]}
	}
	return out
}

// Store defines the interface for the bounded sample window.
//
// Store implementations must be safe for concurrent access. Append is called
// by a single producer; Snapshot may be called from any goroutine.
type Store interface {
	// Append commits the next sample and evicts the oldest one if the store
	// is over capacity. The index is assigned by the store.
	Append(valueA int, valueB float64) Sample

	// Snapshot returns an independent copy of the current window.
	Snapshot() Snapshot

	// Len returns the number of samples currently held.
	Len() int

	// Capacity returns the maximum number of samples retained.
	Capacity() int

	// Subscribe returns a channel that receives committed samples.
	// The returned channel has a buffer; slow consumers may miss samples.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan Sample

	// Unsubscribe removes a subscription and closes the channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan Sample)
}
