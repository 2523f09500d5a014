package flowerid

import (
	"errors"
	"strings"
	"testing"
)

// TestOverflowErrorUnwrap checks that each field unwraps to its sentinel.
func TestOverflowErrorUnwrap(t *testing.T) {
	tests := []struct {
		field    Field
		sentinel error
		name     string
	}{
		{FieldTimestamp, ErrTimestampOverflow, "timestamp"},
		{FieldSequence, ErrSequenceOverflow, "sequence"},
		{FieldGenerator, ErrGeneratorOverflow, "generator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newOverflowError(tt.field, 9999, 100)
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.sentinel)
			}
			if tt.field.String() != tt.name {
				t.Errorf("Field.String() = %q, want %q", tt.field.String(), tt.name)
			}
			msg := err.Error()
			if !strings.Contains(msg, tt.name) || !strings.Contains(msg, "9999") || !strings.Contains(msg, "100") {
				t.Errorf("Error() = %q missing field, value, or max", msg)
			}
		})
	}

	// Each field unwraps to its own sentinel only.
	err := newOverflowError(FieldSequence, 2048, 2047)
	if errors.Is(err, ErrTimestampOverflow) || errors.Is(err, ErrGeneratorOverflow) {
		t.Error("sequence overflow matched a foreign sentinel")
	}
}

// TestClockError checks message forms, unwrapping, and drift.
func TestClockError(t *testing.T) {
	err := &ClockError{Now: 990, Last: 1000, Generator: 7}
	if !errors.Is(err, ErrSystemTimeInPast) {
		t.Error("ClockError does not unwrap to ErrSystemTimeInPast")
	}
	if err.Drift() != 10 {
		t.Errorf("Drift() = %d, want 10", err.Drift())
	}
	if !strings.Contains(err.Error(), "990") || !strings.Contains(err.Error(), "1000") {
		t.Errorf("Error() = %q missing tick values", err.Error())
	}

	before := &ClockError{Generator: 7, BeforeEpoch: true}
	if !errors.Is(before, ErrSystemTimeInPast) {
		t.Error("before-epoch ClockError does not unwrap to ErrSystemTimeInPast")
	}
	if before.Drift() != 0 {
		t.Errorf("before-epoch Drift() = %d, want 0", before.Drift())
	}
	if !strings.Contains(before.Error(), "epoch") {
		t.Errorf("before-epoch Error() = %q does not mention the epoch", before.Error())
	}
}

// TestCodecErrorUnwrap checks codec errors against their sentinels.
func TestCodecErrorUnwrap(t *testing.T) {
	fid := MustFID(1, 2, 3)

	if _, err := ParseBytes(make([]byte, 3)); !errors.Is(err, ErrWrongSliceSize) {
		t.Errorf("ParseBytes error = %v, want ErrWrongSliceSize", err)
	}
	if err := fid.PutBytes(make([]byte, 3)); !errors.Is(err, ErrBufferWrongSize) {
		t.Errorf("PutBytes error = %v, want ErrBufferWrongSize", err)
	}
	if _, err := Parse("short"); !errors.Is(err, ErrBase64Decode) {
		t.Errorf("Parse error = %v, want ErrBase64Decode", err)
	}

	var ce *CodecError
	_, err := ParseBytes(make([]byte, 3))
	if !errors.As(err, &ce) {
		t.Fatalf("ParseBytes error is not *CodecError: %v", err)
	}
	if ce.Got != 3 || ce.Want != BinaryLen {
		t.Errorf("CodecError sizes = (got %d, want %d), expected (3, %d)", ce.Got, ce.Want, BinaryLen)
	}
}

// TestConfigErrorUnwrap checks configuration errors.
func TestConfigErrorUnwrap(t *testing.T) {
	cfg := DefaultConfig(1)
	cfg.TimeUnit = TimeUnit(42)
	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Validate() error = %v, want ErrInvalidConfig", err)
	}

	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("error is not *ConfigError: %v", err)
	}
	if ce.Field != "TimeUnit" {
		t.Errorf("ConfigError.Field = %q, want %q", ce.Field, "TimeUnit")
	}
	if !strings.Contains(err.Error(), "TimeUnit") {
		t.Errorf("Error() = %q does not name the field", err.Error())
	}
}

// TestErrorHelpers checks the convenience classification helpers.
func TestErrorHelpers(t *testing.T) {
	ovfErr := error(newOverflowError(FieldGenerator, 1024, 1023))
	clkErr := error(&ClockError{Now: 1, Last: 2})

	if !IsOverflow(ovfErr) || IsOverflow(clkErr) || IsOverflow(nil) {
		t.Error("IsOverflow() misclassified")
	}
	if !IsClockError(clkErr) || IsClockError(ovfErr) || IsClockError(nil) {
		t.Error("IsClockError() misclassified")
	}

	if ovf, ok := GetOverflowError(ovfErr); !ok || ovf.Field != FieldGenerator {
		t.Error("GetOverflowError() failed on a genuine overflow")
	}
	if _, ok := GetOverflowError(clkErr); ok {
		t.Error("GetOverflowError() matched a clock error")
	}
	if ce, ok := GetClockError(clkErr); !ok || ce.Last != 2 {
		t.Error("GetClockError() failed on a genuine clock error")
	}
	if _, ok := GetClockError(ovfErr); ok {
		t.Error("GetClockError() matched an overflow")
	}
}
