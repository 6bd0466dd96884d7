// Package store provides the bounded, concurrently-accessed time-series store.
//
// This package is internal to LivePlot and owns the in-memory sample window.
// One producer appends samples; any number of readers take snapshots.
//
// The main components are:
//
//   - [Store]: Interface defining append, snapshot and subscription operations
//   - [MemoryStore]: In-memory implementation of Store with pub/sub
//   - [Sample]: One committed (index, valueA, valueB) triple
//   - [Snapshot]: An independent point-in-time copy of the whole window
//
// The store keeps at most capacity samples. Appending past capacity evicts the
// oldest sample in the same critical section, so readers never see a window
// with mismatched series lengths. Subscribers receive committed samples via
// channels with non-blocking sends (slow subscribers will miss samples rather
// than block the producer).
//
// Users of the liveplot library should not need to interact with this
// package directly. The store is created and wired by LivePlot.
package store
