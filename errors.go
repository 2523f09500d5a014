// Package flowerid - errors.go provides the error taxonomy with rich context.
//
// Every failure in this package maps to exactly one sentinel kind so that
// callers (and foreign-language bindings layered on top) can distinguish
// them with errors.Is. The concrete error types carry the details needed
// for debugging: which field overflowed and by how much, what the clock
// read was, what size a buffer actually had.

package flowerid

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Use errors.Is to classify any error returned by
// this package; the concrete types below unwrap to one of these.
var (
	// ErrInvalidArgument is returned for malformed input not covered by a
	// more specific kind.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTimestampOverflow is returned when a timestamp exceeds the 42-bit bound.
	ErrTimestampOverflow = errors.New("timestamp overflow")

	// ErrSequenceOverflow is returned when a sequence exceeds the 11-bit bound.
	// During generation this surfaces only under the FailFast wait policy.
	ErrSequenceOverflow = errors.New("sequence overflow")

	// ErrGeneratorOverflow is returned when a generator ID exceeds the 10-bit bound.
	ErrGeneratorOverflow = errors.New("generator overflow")

	// ErrSystemTimeInPast is returned when the wall clock reads earlier than
	// the generator's last recorded tick (or earlier than its epoch offset).
	// Check NTP configuration if this occurs frequently.
	ErrSystemTimeInPast = errors.New("system time is in past")

	// ErrWrongSliceSize is returned when byte-decoding input is not exactly 8 bytes.
	ErrWrongSliceSize = errors.New("wrong slice size")

	// ErrBase64Decode is returned when string-decoding input is not valid
	// URL-safe base64 of the canonical length.
	ErrBase64Decode = errors.New("base64 decode error")

	// ErrBufferWrongSize is returned when a caller-supplied output buffer
	// cannot hold the fixed-size result.
	ErrBufferWrongSize = errors.New("buffer wrong size")

	// ErrInvalidConfig is returned when generator configuration fails
	// validation for a reason other than a field bound.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrCanceled is returned by NextWithContext and NextBatch when the
	// context is canceled before an ID could be produced.
	ErrCanceled = errors.New("context canceled")
)

// Field identifies one of the three encoded fields of a Flower ID.
type Field int

const (
	// FieldTimestamp is the 42-bit timestamp field.
	FieldTimestamp Field = iota

	// FieldSequence is the 11-bit sequence field.
	FieldSequence

	// FieldGenerator is the 10-bit generator ID field.
	FieldGenerator
)

// String returns the field name.
func (f Field) String() string {
	switch f {
	case FieldTimestamp:
		return "timestamp"
	case FieldSequence:
		return "sequence"
	case FieldGenerator:
		return "generator"
	default:
		return "unknown"
	}
}

// OverflowError reports a field value that exceeds its bit-width bound.
//
// Returned by the FID constructor, by generator construction, and by Next
// when the timestamp reaches end of range or the sequence is exhausted
// under the FailFast policy.
//
// Example usage:
//
//	if _, err := flowerid.New(ts, seq, gen); err != nil {
//	    var ovf *flowerid.OverflowError
//	    if errors.As(err, &ovf) {
//	        log.Printf("field %s value %d exceeds max %d", ovf.Field, ovf.Value, ovf.Max)
//	    }
//	}
type OverflowError struct {
	// Field is the field whose bound was violated.
	Field Field

	// Value is the offending value.
	Value uint64

	// Max is the largest value the field can hold.
	Max uint64
}

// Error implements the error interface.
func (e *OverflowError) Error() string {
	return fmt.Sprintf("%s overflow: value %d exceeds maximum %d", e.Field, e.Value, e.Max)
}

// Unwrap returns the sentinel kind for errors.Is compatibility.
func (e *OverflowError) Unwrap() error {
	switch e.Field {
	case FieldTimestamp:
		return ErrTimestampOverflow
	case FieldSequence:
		return ErrSequenceOverflow
	case FieldGenerator:
		return ErrGeneratorOverflow
	default:
		return ErrInvalidArgument
	}
}

// ClockError reports a wall-clock reading earlier than the generator's last
// recorded tick. The generator makes no attempt to correct for clock skew;
// it detects regression and rejects the call, leaving state untouched.
type ClockError struct {
	// Now is the tick value read from the clock (in the generator's time unit).
	Now uint64

	// Last is the last tick the generator emitted an ID for.
	Last uint64

	// Generator is the ID of the generator that observed the regression.
	Generator uint16

	// BeforeEpoch is true when the wall clock read was earlier than the
	// configured epoch offset, in which case Now and Last are zero.
	BeforeEpoch bool
}

// Error implements the error interface.
func (e *ClockError) Error() string {
	if e.BeforeEpoch {
		return fmt.Sprintf("system time is in past: wall clock is before the configured epoch offset (generator=%d)", e.Generator)
	}
	return fmt.Sprintf("system time is in past: now=%d last=%d drift=%d ticks (generator=%d)",
		e.Now, e.Last, e.Last-e.Now, e.Generator)
}

// Unwrap returns ErrSystemTimeInPast for errors.Is compatibility.
func (e *ClockError) Unwrap() error {
	return ErrSystemTimeInPast
}

// Drift returns the number of ticks the clock is behind the last emitted tick.
func (e *ClockError) Drift() uint64 {
	if e.BeforeEpoch || e.Now > e.Last {
		return 0
	}
	return e.Last - e.Now
}

// CodecError reports a size or encoding failure in one of the codec
// operations (bytes or canonical string form).
type CodecError struct {
	// Op names the failing operation: "from-bytes", "put-bytes",
	// "encode-string", "parse".
	Op string

	// Got is the observed input or buffer size in bytes.
	Got int

	// Want is the required size in bytes.
	Want int

	// Kind is the sentinel this error unwraps to.
	Kind error
}

// Error implements the error interface.
func (e *CodecError) Error() string {
	return fmt.Sprintf("flowerid %s: %v (got %d bytes, want %d)", e.Op, e.Kind, e.Got, e.Want)
}

// Unwrap returns the sentinel kind for errors.Is compatibility.
func (e *CodecError) Unwrap() error {
	return e.Kind
}

// ConfigError reports a generator configuration field that failed
// validation for a reason other than a layout bound.
type ConfigError struct {
	// Field is the name of the configuration field.
	Field string

	// Value is the invalid value, formatted for logging.
	Value string

	// Reason is a human-readable explanation of the failure.
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s=%s (%s)", e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidConfig for errors.Is compatibility.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// IsOverflow reports whether err is or wraps an OverflowError of any field.
func IsOverflow(err error) bool {
	var ovf *OverflowError
	return errors.As(err, &ovf)
}

// IsClockError reports whether err is or wraps a ClockError.
func IsClockError(err error) bool {
	var ce *ClockError
	return errors.As(err, &ce)
}

// GetOverflowError extracts the OverflowError from an error chain.
func GetOverflowError(err error) (*OverflowError, bool) {
	var ovf *OverflowError
	if errors.As(err, &ovf) {
		return ovf, true
	}
	return nil, false
}

// GetClockError extracts the ClockError from an error chain.
func GetClockError(err error) (*ClockError, bool) {
	var ce *ClockError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

func newOverflowError(field Field, value, max uint64) *OverflowError {
	return &OverflowError{Field: field, Value: value, Max: max}
}

func newConfigError(field, value, reason string) *ConfigError {
	return &ConfigError{Field: field, Value: value, Reason: reason}
}
