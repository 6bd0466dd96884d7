package store

import (
	"fmt"
	"sync"
)

// subscriberBuffer is the per-subscriber channel depth.
const subscriberBuffer = 100

// MemoryStore is an in-memory implementation of [Store].
//
// MemoryStore holds three parallel slices (indices, series A, series B) under
// one RWMutex. Append takes the write lock for the append-and-evict step only;
// Snapshot takes the read lock for the copy only. Neither lock is held while
// subscribers are notified or while a caller consumes a snapshot.
type MemoryStore struct {
	mu        sync.RWMutex
	capacity  int
	lastIndex int64
	indices   []int64
	seriesA   []int
	seriesB   []float64

	subscribers map[chan Sample]struct{}
	subMu       sync.RWMutex
}

// NewMemoryStore creates an empty [MemoryStore] holding at most capacity samples.
//
// Returns an error wrapping [ErrInvalidCapacity] if capacity is zero or negative.
func NewMemoryStore(capacity int) (*MemoryStore, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidCapacity, capacity)
	}

	return &MemoryStore{
		capacity:    capacity,
		indices:     make([]int64, 0, capacity),
		seriesA:     make([]int, 0, capacity),
		seriesB:     make([]float64, 0, capacity),
		subscribers: make(map[chan Sample]struct{}),
	}, nil
}

// Append commits a sample and notifies all subscribers.
//
// The index counter is incremented and the sample appended to the end of the
// window. If the window then exceeds capacity, exactly one sample is removed
// from the front. The whole step is indivisible with respect to Snapshot.
func (m *MemoryStore) Append(valueA int, valueB float64) Sample {
	m.mu.Lock()
	m.lastIndex++
	sample := Sample{Index: m.lastIndex, ValueA: valueA, ValueB: valueB}

	if len(m.indices) == m.capacity {
		// shift left in place so the backing arrays never grow past capacity
		copy(m.indices, m.indices[1:])
		copy(m.seriesA, m.seriesA[1:])
		copy(m.seriesB, m.seriesB[1:])
		last := m.capacity - 1
		m.indices[last] = sample.Index
		m.seriesA[last] = sample.ValueA
		m.seriesB[last] = sample.ValueB
	} else {
		m.indices = append(m.indices, sample.Index)
		m.seriesA = append(m.seriesA, sample.ValueA)
		m.seriesB = append(m.seriesB, sample.ValueB)
	}
	m.mu.Unlock()

	m.notifySubscribers(sample)
	return sample
}

// Snapshot returns a copy of the current window.
//
// The returned slices are freshly allocated; later appends do not affect them.
// An empty store yields three empty, non-nil slices.
func (m *MemoryStore) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		Indices: make([]int64, len(m.indices)),
		SeriesA: make([]int, len(m.seriesA)),
		SeriesB: make([]float64, len(m.seriesB)),
	}
	copy(snap.Indices, m.indices)
	copy(snap.SeriesA, m.seriesA)
	copy(snap.SeriesB, m.seriesB)
	return snap
}

// Len returns the number of samples currently held.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.indices)
}

// Capacity returns the maximum number of samples retained.
func (m *MemoryStore) Capacity() int {
	return m.capacity
}

// LastIndex returns the index of the most recently committed sample,
// or 0 if nothing has been appended yet.
func (m *MemoryStore) LastIndex() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastIndex
}

// Subscribe creates a new subscription and returns a channel for receiving samples.
//
// The returned channel has a buffer of 100 samples. If the buffer fills
// (slow consumer), new samples are dropped for this subscriber.
//
// Caller must call [MemoryStore.Unsubscribe] when done to prevent resource leaks.
func (m *MemoryStore) Subscribe() <-chan Sample {
	ch := make(chan Sample, subscriberBuffer)

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
//
// Safe to call multiple times or with an unknown channel.
func (m *MemoryStore) Unsubscribe(ch <-chan Sample) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for subCh := range m.subscribers {
		if subCh == ch {
			delete(m.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// notifySubscribers sends the sample to all active subscribers without blocking.
func (m *MemoryStore) notifySubscribers(sample Sample) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for ch := range m.subscribers {
		select {
		case ch <- sample:
		default:
			// subscriber is slow, drop the sample
		}
	}
}
