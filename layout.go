// Package flowerid - layout.go defines the fixed bit layout of a Flower ID.
//
// Unlike generators with pluggable layouts, the flowerid wire format is fixed:
// every implementation (and every language binding) must agree on the exact
// bit positions, or IDs stop being comparable and decodable across systems.
// The layout is therefore a set of named constants rather than configuration.

package flowerid

import (
	"fmt"
	"time"
)

// Bit layout of a 64-bit Flower ID, most significant bit first:
//
//	┌──────┬──────────────────────────┬───────────────┬───────────────┐
//	│ sign │   42 bits: timestamp     │  11 bits:     │  10 bits:     │
//	│ (0)  │   ms or s since epoch    │  sequence     │  generator    │
//	│      │   offset (2017-01-01)    │  (0-2047)     │  (0-1023)     │
//	└──────┴──────────────────────────┴───────────────┴───────────────┘
const (
	// TimestampBits is the width of the timestamp field (42 bits).
	// With millisecond ticks this covers ~139 years from the epoch offset;
	// with second ticks the field never overflows in practice.
	TimestampBits = 42

	// SequenceBits is the width of the per-tick sequence counter (11 bits).
	// Up to 2048 IDs per tick per generator.
	SequenceBits = 11

	// GeneratorBits is the width of the generator ID field (10 bits).
	// Up to 1024 independent generators.
	GeneratorBits = 10

	// SequenceShift positions the sequence field above the generator field.
	SequenceShift = GeneratorBits // 10

	// TimestampShift positions the timestamp field above sequence and generator.
	TimestampShift = SequenceBits + GeneratorBits // 21

	// MaxTimestamp is the largest encodable timestamp value (2^42 - 1).
	MaxTimestamp uint64 = 1<<TimestampBits - 1 // 4398046511103

	// MaxSequence is the largest encodable sequence value (2^11 - 1).
	MaxSequence uint16 = 1<<SequenceBits - 1 // 2047

	// MaxGenerator is the largest encodable generator ID (2^10 - 1).
	MaxGenerator uint16 = 1<<GeneratorBits - 1 // 1023

	// TimestampMask isolates the timestamp field in a packed ID.
	TimestampMask uint64 = MaxTimestamp << TimestampShift

	// SequenceMask isolates the sequence field in a packed ID.
	SequenceMask uint64 = uint64(MaxSequence) << SequenceShift

	// GeneratorMask isolates the generator field in a packed ID.
	GeneratorMask uint64 = uint64(MaxGenerator)

	// DefaultTimestampOffset is the default signed adjustment, in seconds,
	// added to the wall clock before packing. -1483228800 places the field's
	// zero point at 2017-01-01T00:00:00Z, maximizing usable lifespan.
	DefaultTimestampOffset int64 = -1483228800
)

// Capacity describes the theoretical limits of the flowerid layout for a
// given time unit. Useful for capacity planning and documentation.
type Capacity struct {
	// MaxGenerators is the number of distinct generator IDs (1024).
	MaxGenerators int64

	// IDsPerTick is the number of IDs one generator can produce per tick (2048).
	IDsPerTick int64

	// Lifespan is the duration before the timestamp field overflows,
	// measured from the epoch offset. Capped at the time.Duration limit.
	Lifespan time.Duration

	// ThroughputPerGenerator is the sustained max IDs/sec for one generator.
	ThroughputPerGenerator int64

	// TimeUnit is the tick duration the capacity was computed for.
	TimeUnit time.Duration
}

// CapacityFor returns the layout capacity for the given time unit
// (Milliseconds or Seconds).
func CapacityFor(unit TimeUnit) Capacity {
	tick := unit.Duration()

	// 2^42 seconds exceeds the int64-nanosecond range of time.Duration;
	// saturate instead of overflowing.
	ticks := float64(uint64(1) << TimestampBits)
	lifespan := time.Duration(1<<63 - 1)
	if ticks*tick.Seconds()*float64(time.Second) < float64(lifespan) {
		lifespan = time.Duration(ticks * float64(tick))
	}

	perTick := int64(MaxSequence) + 1
	return Capacity{
		MaxGenerators:          int64(MaxGenerator) + 1,
		IDsPerTick:             perTick,
		Lifespan:               lifespan,
		ThroughputPerGenerator: int64(float64(perTick) / tick.Seconds()),
		TimeUnit:               tick,
	}
}

// String returns a human-readable description of the capacity.
func (c Capacity) String() string {
	years := int(c.Lifespan.Hours() / 24 / 365)
	return fmt.Sprintf("MaxGenerators: %d, IDsPerTick: %d, Throughput: %d/sec, Lifespan: %d years, TimeUnit: %v",
		c.MaxGenerators, c.IDsPerTick, c.ThroughputPerGenerator, years, c.TimeUnit)
}

// pack composes a Flower ID from bounded field values. Callers must have
// validated the bounds; pack itself never fails.
func pack(timestamp uint64, sequence, generator uint16) uint64 {
	return timestamp<<TimestampShift |
		uint64(sequence)<<SequenceShift |
		uint64(generator)
}
