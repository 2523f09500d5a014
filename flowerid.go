// Package flowerid generates compact, sortable, collision-resistant unique
// identifiers ("Flower IDs") for distributed systems with multiple
// independent generators.
//
// # Overview
//
// A Flower ID is a 64-bit value that is:
//   - Sortable by time (IDs generated later are numerically larger)
//   - Unique across systems, given distinct generator IDs per instance
//   - Generated without coordination between instances
//   - Representable as an integer, 8 big-endian bytes, or an 11-character
//     URL-safe base64 string
//
// # ID Structure (64 bits)
//
//	┌──────┬──────────────────────────┬───────────────┬───────────────┐
//	│ sign │   42 bits: timestamp     │  11 bits:     │  10 bits:     │
//	│ (0)  │   ms or s since epoch    │  sequence     │  generator    │
//	│      │   offset (2017-01-01)    │  (0-2047)     │  (0-1023)     │
//	└──────┴──────────────────────────┴───────────────┴───────────────┘
//
// # The Generator
//
// A Generator produces a strictly increasing sequence of IDs for one
// generator ID. Within one clock tick it counts up an 11-bit sequence;
// when the tick advances the sequence resets to zero. On sequence
// exhaustion it either blocks until the next tick (WaitForNextTick, the
// default) or fails immediately (FailFast). A wall clock that reads
// earlier than the last emitted tick fails the call with
// ErrSystemTimeInPast and leaves state untouched; the generator performs
// no skew correction.
//
// Uniqueness across instances relies solely on distinct, externally
// assigned generator IDs. There is no ordering guarantee between
// independent instances.
//
// # Usage
//
//	gen, err := flowerid.NewGenerator(0x12c)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fid, err := gen.Next()
//	fmt.Println(fid) // e.g. V-q48AQglKA
//
//	// Extended configuration
//	cfg := flowerid.DefaultConfig(42)
//	cfg.TimeUnit = flowerid.Seconds
//	cfg.WaitPolicy = flowerid.FailFast
//	gen, err = flowerid.NewGeneratorWithConfig(cfg)
//
// Generators are safe for concurrent use; the codec functions and the FID
// type are pure values, safe for unrestricted concurrent use.
package flowerid

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// WaitPolicy selects the behavior when the sequence counter is exhausted
// within a single clock tick.
type WaitPolicy int

const (
	// WaitForNextTick blocks the call until the clock advances past the
	// current tick, then continues with a fresh sequence. The default.
	WaitForNextTick WaitPolicy = iota

	// FailFast fails the call immediately with ErrSequenceOverflow and
	// leaves state unchanged, so calls keep failing until the tick advances.
	FailFast
)

// String returns the policy name.
func (p WaitPolicy) String() string {
	switch p {
	case WaitForNextTick:
		return "wait-for-next-tick"
	case FailFast:
		return "fail-fast"
	default:
		return "unknown"
	}
}

// TimeUnit selects the precision of the timestamp field.
type TimeUnit int

const (
	// Milliseconds ticks once per millisecond: ~139 years of lifespan and
	// up to 2048 IDs per millisecond. The default.
	Milliseconds TimeUnit = iota

	// Seconds ticks once per second: effectively unbounded lifespan, up to
	// 2048 IDs per second. For low-volume, long-lived systems.
	Seconds
)

// Duration returns the length of one tick.
func (u TimeUnit) Duration() time.Duration {
	if u == Seconds {
		return time.Second
	}
	return time.Millisecond
}

// String returns the unit name.
func (u TimeUnit) String() string {
	switch u {
	case Milliseconds:
		return "milliseconds"
	case Seconds:
		return "seconds"
	default:
		return "unknown"
	}
}

// Config holds the generator configuration.
//
// The zero value is not usable directly; start from DefaultConfig and
// override fields as needed.
type Config struct {
	// Generator is the 10-bit ID of this generator instance (0-1023).
	// Must be unique across all instances producing IDs for the same
	// namespace; collision avoidance across instances is entirely the
	// caller's responsibility.
	Generator uint16

	// TimestampOffset is a signed adjustment in seconds added to the wall
	// clock before range checking, letting the timestamp field count from a
	// custom epoch. DefaultTimestampOffset places the epoch at 2017-01-01.
	TimestampOffset int64

	// LastTimestamp seeds the last-emitted-tick state (in the configured
	// time unit). Normally zero; must not exceed MaxTimestamp.
	LastTimestamp uint64

	// Sequence seeds the within-tick counter. Normally zero; must not
	// exceed MaxSequence.
	Sequence uint16

	// WaitPolicy selects the sequence-exhaustion behavior.
	WaitPolicy WaitPolicy

	// TimeUnit selects millisecond or second ticks.
	TimeUnit TimeUnit

	// TimeSource supplies the wall clock. Nil means time.Now. Tests inject
	// a deterministic source to simulate tick advancement and regression
	// without sleeping.
	TimeSource func() time.Time
}

// DefaultConfig returns the configuration used by NewGenerator: 2017-01-01
// epoch offset, millisecond ticks, block-and-retry on sequence exhaustion,
// zeroed counters, real wall clock.
func DefaultConfig(generator uint16) Config {
	return Config{
		Generator:       generator,
		TimestampOffset: DefaultTimestampOffset,
		WaitPolicy:      WaitForNextTick,
		TimeUnit:        Milliseconds,
	}
}

// Validate checks the configuration and fills in the time source default.
//
// Field bound violations fail with the corresponding *OverflowError
// (generator, sequence, then timestamp, mirroring construction); other bad
// values fail with *ConfigError.
func (c *Config) Validate() error {
	if c.Generator > MaxGenerator {
		return newOverflowError(FieldGenerator, uint64(c.Generator), uint64(MaxGenerator))
	}
	if c.Sequence > MaxSequence {
		return newOverflowError(FieldSequence, uint64(c.Sequence), uint64(MaxSequence))
	}
	if c.LastTimestamp > MaxTimestamp {
		return newOverflowError(FieldTimestamp, c.LastTimestamp, MaxTimestamp)
	}
	if c.WaitPolicy != WaitForNextTick && c.WaitPolicy != FailFast {
		return newConfigError("WaitPolicy", fmt.Sprintf("%d", c.WaitPolicy), "must be WaitForNextTick or FailFast")
	}
	if c.TimeUnit != Milliseconds && c.TimeUnit != Seconds {
		return newConfigError("TimeUnit", fmt.Sprintf("%d", c.TimeUnit), "must be Milliseconds or Seconds")
	}
	if c.TimeSource == nil {
		c.TimeSource = time.Now
	}
	return nil
}

// Metrics holds runtime counters for monitoring.
//
// All counters are monotonically increasing. Use GetMetrics for a
// consistent snapshot.
type Metrics struct {
	Generated        int64 // IDs successfully generated
	SequenceWaits    int64 // Sequence exhaustion events that waited for the next tick
	ClockRegressions int64 // Calls rejected because the clock read earlier than the last tick
	WaitTimeUs       int64 // Total time spent waiting for tick advancement, in microseconds
}

// Generator produces strictly increasing Flower IDs for one generator ID.
//
// # Thread Safety
//
// All methods are safe for concurrent use. The mutex is held for the full
// read-clock-through-construct critical section so that two concurrent
// calls never observe the same (timestamp, sequence) pair and the
// regression check is atomic with the sequence increment.
//
// # Blocking
//
// Next may block only in the WaitForNextTick sequence-exhaustion path,
// waiting for the clock to advance; this is the only suspension point.
// NextWithContext additionally honors cancellation during that wait.
//
// # Lifecycle
//
// A Generator owns no resources beyond its mutex; there is nothing to
// close or release. Create it once, share the pointer, let it be
// garbage-collected.
//
// Hot-path fields are grouped ahead of the atomic counters so the metrics
// traffic stays off the mutex's cache line.
type Generator struct {
	mu            sync.Mutex
	generator     uint16
	offset        int64
	lastTimestamp uint64
	sequence      uint16
	waitPolicy    WaitPolicy
	timeUnit      TimeUnit
	now           func() time.Time

	generated        atomic.Int64
	sequenceWaits    atomic.Int64
	clockRegressions atomic.Int64
	waitTimeUs       atomic.Int64
}

// NewGenerator creates a generator with the defaults of DefaultConfig:
// 2017-01-01 epoch offset, millisecond ticks, block-and-retry on sequence
// exhaustion.
//
// Fails with ErrGeneratorOverflow if generator exceeds 1023.
//
// Example:
//
//	gen, err := flowerid.NewGenerator(42)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fid, err := gen.Next()
func NewGenerator(generator uint16) (*Generator, error) {
	return NewGeneratorWithConfig(DefaultConfig(generator))
}

// NewGeneratorWithConfig creates a generator from an explicit
// configuration: custom epoch offset, initial tick/sequence state, wait
// policy, time unit, and time source.
//
// Example:
//
//	cfg := flowerid.DefaultConfig(42)
//	cfg.WaitPolicy = flowerid.FailFast
//	cfg.TimeUnit = flowerid.Seconds
//	gen, err := flowerid.NewGeneratorWithConfig(cfg)
func NewGeneratorWithConfig(cfg Config) (*Generator, error) {
	if err := (&cfg).Validate(); err != nil {
		return nil, err
	}
	return &Generator{
		generator:     cfg.Generator,
		offset:        cfg.TimestampOffset,
		lastTimestamp: cfg.LastTimestamp,
		sequence:      cfg.Sequence,
		waitPolicy:    cfg.WaitPolicy,
		timeUnit:      cfg.TimeUnit,
		now:           cfg.TimeSource,
	}, nil
}

// Next generates the next Flower ID.
//
// Successive calls on one instance return strictly increasing IDs. Under
// the WaitForNextTick policy this call can block until the clock advances
// past an exhausted tick and cannot be canceled; use NextWithContext for a
// bounded wait.
//
// Errors: ErrSystemTimeInPast on clock regression, ErrSequenceOverflow
// under FailFast on an exhausted tick, ErrTimestampOverflow at end of the
// timestamp range. No failure mutates generator state.
func (g *Generator) Next() (FID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.nextLocked(context.Background(), false)
}

// NextWithContext is Next with cancellation support.
//
// Cancellation is honored before any work and during the
// sequence-exhaustion wait, returning ErrCanceled. The default
// block-until-advance contract of Next is otherwise preserved.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
//	defer cancel()
//	fid, err := gen.NextWithContext(ctx)
func (g *Generator) NextWithContext(ctx context.Context) (FID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.nextLocked(ctx, true)
}

// MustNext generates an ID and panics on error. Only for contexts where
// generation failure is unrecoverable.
func (g *Generator) MustNext() FID {
	fid, err := g.Next()
	if err != nil {
		panic(err)
	}
	return fid
}

// nextLocked implements ID generation. The caller holds g.mu.
//
// The candidate (tick, sequence) pair is computed first and committed only
// after every check passes, so no error path leaves partial state behind.
// Under FailFast the sequence deliberately remains at the bound, keeping
// subsequent calls in the same tick failing until the clock advances.
func (g *Generator) nextLocked(ctx context.Context, cancelable bool) (FID, error) {
	if cancelable {
		select {
		case <-ctx.Done():
			return 0, ErrCanceled
		default:
		}
	}

	now, err := g.currentTick()
	if err != nil {
		g.clockRegressions.Add(1)
		return 0, err
	}

	var seq uint16
	switch {
	case now < g.lastTimestamp:
		g.clockRegressions.Add(1)
		return 0, &ClockError{Now: now, Last: g.lastTimestamp, Generator: g.generator}

	case now > g.lastTimestamp:
		seq = 0

	default: // same tick
		next := uint32(g.sequence) + 1
		if next > uint32(MaxSequence) {
			if g.waitPolicy == FailFast {
				return 0, newOverflowError(FieldSequence, uint64(next), uint64(MaxSequence))
			}
			g.sequenceWaits.Add(1)
			now, err = g.waitNextTick(ctx, cancelable)
			if err != nil {
				return 0, err
			}
			seq = 0
		} else {
			seq = uint16(next)
		}
	}

	if now > MaxTimestamp {
		return 0, newOverflowError(FieldTimestamp, now, MaxTimestamp)
	}

	fid, err := NewFID(now, seq, g.generator)
	if err != nil {
		return 0, err
	}

	g.lastTimestamp = now
	g.sequence = seq
	g.generated.Add(1)
	return fid, nil
}

// NextBatch generates count IDs in a single operation.
//
// The mutex is acquired once for the entire batch, which is considerably
// faster than calling Next in a loop. If generation fails partway
// (regression, cancellation, overflow), the IDs generated so far are
// returned together with the error, so callers can still use the partial
// batch.
//
// Example:
//
//	ids, err := gen.NextBatch(ctx, 1000)
//	if err != nil {
//	    log.Printf("batch incomplete: %d generated: %v", len(ids), err)
//	}
func (g *Generator) NextBatch(ctx context.Context, count int) ([]FID, error) {
	if count <= 0 {
		return []FID{}, nil
	}

	ids := make([]FID, 0, count)

	g.mu.Lock()
	defer g.mu.Unlock()

	for i := 0; i < count; i++ {
		// Cancellation checked once per ID inside nextLocked; cheap enough
		// to keep the batch responsive without batching the check.
		fid, err := g.nextLocked(ctx, true)
		if err != nil {
			return ids, err
		}
		ids = append(ids, fid)
	}
	return ids, nil
}

// GeneratorID returns the generator ID of this instance. Immutable after
// creation.
func (g *Generator) GeneratorID() uint16 {
	return g.generator
}

// GetMetrics returns a consistent snapshot of the runtime counters.
// Lock-free; safe to call concurrently with generation.
func (g *Generator) GetMetrics() Metrics {
	return Metrics{
		Generated:        g.generated.Load(),
		SequenceWaits:    g.sequenceWaits.Load(),
		ClockRegressions: g.clockRegressions.Load(),
		WaitTimeUs:       g.waitTimeUs.Load(),
	}
}

// ResetMetrics zeroes all counters. Primarily for tests; production
// counters should normally stay monotonic for rate calculation.
func (g *Generator) ResetMetrics() {
	g.generated.Store(0)
	g.sequenceWaits.Store(0)
	g.clockRegressions.Store(0)
	g.waitTimeUs.Store(0)
}

// currentTick reads the wall clock, applies the epoch offset, and converts
// to the configured time unit.
//
// A wall clock earlier than the epoch offset is a regression by
// definition: the field cannot represent it.
func (g *Generator) currentTick() (uint64, error) {
	ms := g.now().UnixMilli() + g.offset*1000
	if ms < 0 {
		return 0, &ClockError{Generator: g.generator, BeforeEpoch: true}
	}
	if g.timeUnit == Seconds {
		return uint64(ms / 1000), nil
	}
	return uint64(ms), nil
}

// waitNextTick blocks until the clock advances past lastTimestamp,
// returning the new tick. The caller holds g.mu for the whole wait, per
// the exclusive-ownership contract.
//
// Sleeps one millisecond per round in millisecond mode and 100ms in
// seconds mode, then yields; regression observed while waiting aborts with
// ErrSystemTimeInPast like any other read.
func (g *Generator) waitNextTick(ctx context.Context, cancelable bool) (uint64, error) {
	waitStart := time.Now()
	step := time.Millisecond
	if g.timeUnit == Seconds {
		step = 100 * time.Millisecond
	}

	for {
		if cancelable {
			select {
			case <-time.After(step):
			case <-ctx.Done():
				return 0, ErrCanceled
			}
		} else {
			time.Sleep(step)
		}

		now, err := g.currentTick()
		if err != nil {
			g.clockRegressions.Add(1)
			return 0, err
		}
		if now < g.lastTimestamp {
			g.clockRegressions.Add(1)
			return 0, &ClockError{Now: now, Last: g.lastTimestamp, Generator: g.generator}
		}
		if now > g.lastTimestamp {
			g.waitTimeUs.Add(time.Since(waitStart).Microseconds())
			return now, nil
		}
		runtime.Gosched()
	}
}
