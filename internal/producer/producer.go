package producer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jpalmerr/liveplot/internal/store"
)

var (
	// ErrInvalidInterval is returned when the tick interval is zero or negative.
	ErrInvalidInterval = errors.New("tick interval must be positive")

	// ErrNilStore is returned when the producer has nowhere to commit samples.
	ErrNilStore = errors.New("store cannot be nil")

	// ErrCommitRejected reports a commit the store did not accept. It is fatal.
	ErrCommitRejected = errors.New("commit rejected")
)

// Appender is the part of the store the producer writes to.
type Appender interface {
	Append(valueA int, valueB float64) store.Sample
}

// SampleFunc is called after every successful commit with the committed
// sample and the time spent computing and committing it.
type SampleFunc func(sample store.Sample, elapsed time.Duration)

// State is the producer loop's current phase.
type State int32

const (
	StateIdle State = iota
	StateComputeSample
	StateCommit
	StateSleeping
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateComputeSample:
		return "compute_sample"
	case StateCommit:
		return "commit"
	case StateSleeping:
		return "sleeping"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Option configures a [Producer] during construction.
type Option func(*Producer)

// WithWalk replaces the default random walk used for series A.
func WithWalk(w *Walk) Option {
	return func(p *Producer) {
		if w != nil {
			p.walk = w
		}
	}
}

// WithSeed seeds the default random walk so runs are reproducible.
func WithSeed(seed uint64) Option {
	return func(p *Producer) {
		p.walk = NewWalk(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
	}
}

// WithOnSample registers a function called after every commit.
// Nil functions are ignored.
func WithOnSample(fn SampleFunc) Option {
	return func(p *Producer) {
		if fn != nil {
			p.onSample = append(p.onSample, fn)
		}
	}
}

// Producer appends one sample to the store on every tick.
//
// The first sample is committed as soon as the producer starts; after that one
// sample is committed per interval. The producer keeps its own tick counter
// and checks it against the index the store assigns, so a store that was
// written to by someone else is detected on the next commit.
//
// All lifecycle methods (Start, Stop) are safe for concurrent use.
type Producer struct {
	sink     Appender
	interval time.Duration
	walk     *Walk
	logger   *slog.Logger
	onSample []SampleFunc

	// index is only touched by the loop goroutine
	index int64
	state atomic.Int32

	mu        sync.Mutex
	started   bool
	stopped   bool
	cancel    context.CancelFunc
	err       error
	wg        sync.WaitGroup
	done      chan struct{}
	closeOnce sync.Once
}

// NewProducer creates a [Producer] that commits to sink every interval.
//
// Returns an error wrapping [ErrNilStore] or [ErrInvalidInterval] when the
// arguments are unusable. A nil logger falls back to [slog.Default].
func NewProducer(sink Appender, interval time.Duration, logger *slog.Logger, opts ...Option) (*Producer, error) {
	if sink == nil {
		return nil, ErrNilStore
	}
	if interval <= 0 {
		return nil, fmt.Errorf("%w, got %s", ErrInvalidInterval, interval)
	}
	if logger == nil {
		logger = slog.Default()
	}

	p := &Producer{
		sink:     sink,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.walk == nil {
		p.walk = NewWalk(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	}

	return p, nil
}

// Interval returns the configured tick interval.
func (p *Producer) Interval() time.Duration {
	return p.interval
}

// State returns the loop's current phase.
func (p *Producer) State() State {
	return State(p.state.Load())
}

// Done returns a channel that is closed when the loop exits, either because
// the producer was stopped or because a commit failed.
func (p *Producer) Done() <-chan struct{} {
	return p.done
}

// Err returns the fatal error that stopped the loop, or nil.
func (p *Producer) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Start begins the tick loop in a background goroutine.
//
// Start is non-blocking. The loop commits one sample immediately, then one
// per interval until [Producer.Stop] is called, ctx is cancelled, or a commit
// fails. If ctx is nil, context.Background() is used.
// Start is idempotent; calls after the first, or after Stop, are no-ops.
func (p *Producer) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.started = true

	if ctx == nil {
		ctx = context.Background()
	}
	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		defer p.closeOnce.Do(func() { close(p.done) })
		defer p.state.Store(int32(StateIdle))

		if err := p.tick(); err != nil {
			p.fail(err)
			return
		}

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				p.state.Store(int32(StateIdle))
				if err := p.tick(); err != nil {
					p.fail(err)
					return
				}
			}
		}
	}()
}

// Stop halts the loop and waits for it to exit.
//
// Stop is idempotent and safe to call multiple times. Calling Stop before
// Start is a safe no-op that still closes the Done channel.
func (p *Producer) Stop() {
	p.mu.Lock()
	if !p.stopped {
		p.stopped = true
		if p.cancel != nil {
			p.cancel()
		}
	}
	p.mu.Unlock()

	p.wg.Wait()
	p.closeOnce.Do(func() { close(p.done) })
}

// tick computes and commits one sample.
func (p *Producer) tick() error {
	start := time.Now()

	p.state.Store(int32(StateComputeSample))
	next := p.index + 1
	valueA := p.walk.Next()
	valueB := Wave(next)

	p.state.Store(int32(StateCommit))
	sample, err := p.commit(valueA, valueB)
	if err != nil {
		return err
	}
	if sample.Index != next {
		return fmt.Errorf("%w: store assigned index %d, expected %d", ErrCommitRejected, sample.Index, next)
	}
	p.index = next

	p.state.Store(int32(StateSleeping))
	elapsed := time.Since(start)
	for _, fn := range p.onSample {
		p.invokeSafe(fn, sample, elapsed)
	}
	return nil
}

// commit appends to the sink, turning a panic into an error.
func (p *Producer) commit(valueA int, valueB float64) (sample store.Sample, err error) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			p.logger.Error("store append panic",
				"correlation_id", correlationID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			err = fmt.Errorf("%w: append panicked (correlation_id: %s)", ErrCommitRejected, correlationID)
		}
	}()
	return p.sink.Append(valueA, valueB), nil
}

// fail records a fatal error. The loop exits right after.
func (p *Producer) fail(err error) {
	p.mu.Lock()
	if p.err == nil {
		p.err = err
	}
	p.mu.Unlock()

	p.logger.Error("producer stopped", "error", err, "last_index", p.index)
}

// invokeSafe calls a sample hook with panic recovery.
// Panics are logged but do not stop the producer.
func (p *Producer) invokeSafe(fn SampleFunc, sample store.Sample, elapsed time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("sample callback panicked",
				"panic", r,
				"index", sample.Index,
			)
		}
	}()
	fn(sample, elapsed)
}
