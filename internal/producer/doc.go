// Package producer drives the time-series store forward at a fixed cadence.
//
// This package is internal to LivePlot. A single [Producer] goroutine wakes
// on every tick, computes the next value for each series and commits it to
// the store in one append.
//
// The main components are:
//
//   - [Producer]: Ticker-driven loop with idempotent Start/Stop
//   - [Walk]: Random walk floored at zero, used for series A
//   - [Wave]: Deterministic sine of the tick index, used for series B
//   - [State]: Diagnostic view of where the loop currently is
//
// A commit the store rejects is fatal. The producer stops, logs the failure
// with a correlation ID and reports it through [Producer.Err] and
// [Producer.Done]; it never retries.
//
// Users of the liveplot library should not need to interact with this
// package directly. The producer is started automatically by LivePlot.
package producer
