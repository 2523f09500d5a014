// Package flowerid - id.go provides the FID value type with codec and
// utility methods.
//
// FID wraps a uint64 Flower ID and provides conversion between the three
// representations (64-bit integer, 8-byte big-endian binary, 11-character
// URL-safe base64 string), component extraction, validation, comparison,
// and integration with JSON, text, binary, and SQL interfaces.

package flowerid

import (
	"database/sql/driver"
	"encoding/binary"
	"fmt"
	"strconv"
	"time"
)

// FID is a strongly-typed Flower ID.
//
// # Type Safety
//
// Using a custom type instead of raw uint64 provides:
//   - Type safety: Prevents mixing IDs with regular integers
//   - Interface implementations: Works seamlessly with JSON, SQL, etc.
//   - Value semantics: Freely copyable, comparable with ==, < and >
//
// # Ordering
//
// The raw numeric order of two FIDs equals their
// chronological-then-sequence-then-generator order, because the timestamp
// occupies the most significant field bits. Sorting FIDs as integers sorts
// them by creation time.
//
// # Interface Implementations
//
//   - json.Marshaler/Unmarshaler: canonical base64 string in JSON
//   - encoding.TextMarshaler/Unmarshaler: for XML, YAML, TOML
//   - encoding.BinaryMarshaler/Unmarshaler: 8-byte big-endian
//   - sql.Scanner/driver.Valuer: BIGINT database columns
//   - fmt.Stringer: canonical 11-character base64 form
//
// Example:
//
//	fid, _ := flowerid.NewFID(3020801146913, 37, 160)
//	fmt.Println(fid)          // V-q48AQglKA
//	fmt.Println(fid.Uint64()) // 6335079166850929824
//	fmt.Println(fid.Generator()) // 160
type FID uint64

// NewFID creates a Flower ID from its three components.
//
// Each field is validated against its bit-width bound, in field order:
// timestamp (42 bits), sequence (11 bits), generator (10 bits). The first
// violated bound fails with an *OverflowError unwrapping to
// ErrTimestampOverflow, ErrSequenceOverflow, or ErrGeneratorOverflow.
// Bounds are never silently truncated.
//
// The sign bit of the packed value is always zero: the timestamp bound
// keeps the most significant bit clear.
//
// Example:
//
//	fid, err := flowerid.NewFID(0x204dc595637, 0x4ac, 0x12c)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(fid) // QJuLKsbysSw
func NewFID(timestamp uint64, sequence, generator uint16) (FID, error) {
	if timestamp > MaxTimestamp {
		return 0, newOverflowError(FieldTimestamp, timestamp, MaxTimestamp)
	}
	if sequence > MaxSequence {
		return 0, newOverflowError(FieldSequence, uint64(sequence), uint64(MaxSequence))
	}
	if generator > MaxGenerator {
		return 0, newOverflowError(FieldGenerator, uint64(generator), uint64(MaxGenerator))
	}
	return FID(pack(timestamp, sequence, generator)), nil
}

// MustFID is like NewFID but panics on a bound violation.
// Use only with compile-time-known valid components.
func MustFID(timestamp uint64, sequence, generator uint16) FID {
	fid, err := NewFID(timestamp, sequence, generator)
	if err != nil {
		panic(err)
	}
	return fid
}

// Uint64 returns the ID as its raw 64-bit value.
func (id FID) Uint64() uint64 {
	return uint64(id)
}

// Int64 returns the ID as an int64.
//
// The value is never negative for IDs produced by this package (the sign
// bit is reserved zero), so the conversion is lossless. Use this when
// interfacing with APIs or database columns that expect signed integers.
func (id FID) Int64() int64 {
	return int64(id)
}

// Timestamp returns the 42-bit timestamp component: ticks (milliseconds or,
// in seconds mode, seconds) since the generator's epoch offset.
func (id FID) Timestamp() uint64 {
	return uint64(id) & TimestampMask >> TimestampShift
}

// Sequence returns the 11-bit sequence component (0-2047).
func (id FID) Sequence() uint16 {
	return uint16(uint64(id) & SequenceMask >> SequenceShift)
}

// Generator returns the 10-bit generator ID component (0-1023).
func (id FID) Generator() uint16 {
	return uint16(uint64(id) & GeneratorMask)
}

// Components returns all three components at once.
//
// Example:
//
//	ts, seq, gen := fid.Components()
//	fmt.Printf("generator %d emitted sequence %d at tick %d\n", gen, seq, ts)
func (id FID) Components() (timestamp uint64, sequence, generator uint16) {
	return id.Timestamp(), id.Sequence(), id.Generator()
}

// Bytes returns the 8-byte big-endian binary form.
//
// Big-endian keeps the byte form prefix-comparable the same way the
// integer form is, and is portable across systems.
func (id FID) Bytes() [8]byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return b
}

// PutBytes writes the 8-byte big-endian binary form into dst.
// Fails with ErrBufferWrongSize unless dst is exactly 8 bytes.
func (id FID) PutBytes(dst []byte) error {
	if len(dst) != BinaryLen {
		return &CodecError{Op: "put-bytes", Got: len(dst), Want: BinaryLen, Kind: ErrBufferWrongSize}
	}
	binary.BigEndian.PutUint64(dst, uint64(id))
	return nil
}

// ParseBytes decodes the 8-byte big-endian binary form.
// Fails with ErrWrongSliceSize unless the input is exactly 8 bytes.
//
// Example:
//
//	fid, err := flowerid.ParseBytes([]byte{0x57, 0xea, 0xb8, 0xf0, 0x04, 0x20, 0x94, 0xa0})
func ParseBytes(b []byte) (FID, error) {
	if len(b) != BinaryLen {
		return 0, &CodecError{Op: "from-bytes", Got: len(b), Want: BinaryLen, Kind: ErrWrongSliceSize}
	}
	return FID(binary.BigEndian.Uint64(b)), nil
}

// String returns the canonical string form: the URL-safe unpadded base64
// encoding of the 8 big-endian bytes, exactly 11 characters.
//
// This implements fmt.Stringer, so FIDs print in canonical form by default.
//
// Example:
//
//	fmt.Println(fid) // V-q48AQglKA
func (id FID) String() string {
	var dst [EncodedLen]byte
	b := id.Bytes()
	// dst is exactly EncodedLen; encodeString cannot fail here.
	_ = encodeString(dst[:], b)
	return string(dst[:])
}

// EncodeString writes the canonical 11-character form into dst.
// Fails with ErrBufferWrongSize unless dst is exactly 11 bytes.
func (id FID) EncodeString(dst []byte) error {
	return encodeString(dst, id.Bytes())
}

// Parse decodes the canonical 11-character string form.
//
// Fails with ErrBase64Decode on wrong length, characters outside the
// URL-safe alphabet, or non-canonical trailing bits.
//
// Example:
//
//	fid, err := flowerid.Parse("V-q48AQglKA")
func Parse(s string) (FID, error) {
	b, err := decodeString(s)
	if err != nil {
		return 0, err
	}
	return FID(binary.BigEndian.Uint64(b[:])), nil
}

// Hex returns a minimal-length lowercase hexadecimal form. Debug encoding;
// the canonical interchange form is String.
func (id FID) Hex() string {
	return encodeHex(uint64(id))
}

// ParseHex parses a hexadecimal string (either case) into an FID.
func ParseHex(s string) (FID, error) {
	v, err := decodeHex(s)
	if err != nil {
		return 0, err
	}
	return FID(v), nil
}

// Base2 returns the binary string form. Useful for inspecting the bit
// layout while debugging; not intended for interchange.
func (id FID) Base2() string {
	return strconv.FormatUint(uint64(id), 2)
}

// Time returns the timestamp component as a time.Time, assuming the default
// epoch offset (2017-01-01) and millisecond ticks. For IDs produced with a
// custom offset or seconds-mode ticks, use TimeIn.
func (id FID) Time() time.Time {
	return id.TimeIn(DefaultTimestampOffset, Milliseconds)
}

// TimeIn returns the timestamp component as a time.Time for a specific
// epoch offset (seconds, as configured on the producing generator) and
// time unit.
//
// Example:
//
//	t := fid.TimeIn(flowerid.DefaultTimestampOffset, flowerid.Seconds)
func (id FID) TimeIn(offset int64, unit TimeUnit) time.Time {
	ts := int64(id.Timestamp())
	switch unit {
	case Seconds:
		return time.Unix(ts-offset, 0)
	default:
		ms := ts - offset*1000
		return time.Unix(ms/1000, ms%1000*int64(time.Millisecond))
	}
}

// Age returns the duration since the ID was generated, assuming the default
// epoch offset and millisecond ticks.
func (id FID) Age() time.Duration {
	return time.Since(id.Time())
}

// IsValid reports whether the ID is structurally plausible: the reserved
// sign bit is clear and the timestamp is not more than a day in the future
// relative to the default epoch offset with millisecond ticks (allows for
// clock skew between producers and consumers).
//
// IDs decoded from forged or corrupted input can carry a set sign bit;
// this package never produces one.
func (id FID) IsValid() bool {
	if uint64(id)>>63 != 0 {
		return false
	}
	return id.Time().Before(time.Now().Add(24 * time.Hour))
}

// Before reports whether this ID was generated before other.
// Equivalent to numeric comparison because of the field layout.
func (id FID) Before(other FID) bool {
	return id < other
}

// After reports whether this ID was generated after other.
func (id FID) After(other FID) bool {
	return id > other
}

// Equal reports whether two IDs are identical.
func (id FID) Equal(other FID) bool {
	return id == other
}

// Compare returns -1, 0, or 1 ordering this ID against other.
// Useful with sort and ordered containers.
func (id FID) Compare(other FID) int {
	switch {
	case id < other:
		return -1
	case id > other:
		return 1
	default:
		return 0
	}
}

// Shard distributes the ID over numShards partitions by modulo.
// Even distribution, but not time-ordered within a shard.
func (id FID) Shard(numShards int64) int64 {
	if numShards <= 0 {
		return 0
	}
	return int64(uint64(id) % uint64(numShards))
}

// ShardByGenerator routes all IDs from the same generator to the same
// shard. Useful for affinity-based partitioning.
func (id FID) ShardByGenerator(numShards int64) int64 {
	if numShards <= 0 {
		return 0
	}
	return int64(id.Generator()) % numShards
}

// MarshalJSON implements json.Marshaler.
//
// The ID marshals as its canonical base64 string. A string (rather than a
// JSON number) also avoids precision loss in JavaScript, whose Number type
// cannot represent integers above 2^53.
//
// Example:
//
//	type Order struct {
//	    ID flowerid.FID `json:"id"`
//	}
//	// Marshals as: {"id": "V-q48AQglKA"}
func (id FID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
//
// Accepts the canonical 11-character string, a decimal string, or a JSON
// number. The decimal form of an ID generated after the epoch is always
// longer than 11 digits, so the two string forms are disambiguated by
// length.
func (id *FID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return &CodecError{Op: "parse", Got: 0, Want: EncodedLen, Kind: ErrInvalidArgument}
	}

	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
		if len(s) == EncodedLen {
			fid, err := Parse(s)
			if err != nil {
				return err
			}
			*id = fid
			return nil
		}
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: not a flowerid string or integer: %q", ErrInvalidArgument, string(data))
	}
	*id = FID(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler using the canonical string
// form, so FIDs are readable in XML, YAML, TOML, and CSV.
func (id FID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// Accepts the canonical string form or a decimal integer.
func (id *FID) UnmarshalText(text []byte) error {
	if len(text) == EncodedLen {
		fid, err := Parse(string(text))
		if err == nil {
			*id = fid
			return nil
		}
	}
	v, err := strconv.ParseUint(string(text), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: not a flowerid string or integer: %q", ErrInvalidArgument, string(text))
	}
	*id = FID(v)
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler as the 8-byte
// big-endian form, for binary protocols and formats like gob or CBOR.
func (id FID) MarshalBinary() ([]byte, error) {
	b := id.Bytes()
	return b[:], nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
// Fails with ErrWrongSliceSize unless the input is exactly 8 bytes.
func (id *FID) UnmarshalBinary(data []byte) error {
	fid, err := ParseBytes(data)
	if err != nil {
		return err
	}
	*id = fid
	return nil
}

// Scan implements sql.Scanner for reading from database columns.
//
// Supported source types:
//   - int64: BIGINT columns (the recommended storage)
//   - string, []byte: canonical 11-character form or decimal text
//   - nil: zero FID
func (id *FID) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*id = 0
		return nil
	case int64:
		*id = FID(v)
		return nil
	case []byte:
		return id.UnmarshalText(v)
	case string:
		return id.UnmarshalText([]byte(v))
	default:
		return fmt.Errorf("%w: cannot scan %T into FID", ErrInvalidArgument, value)
	}
}

// Value implements driver.Valuer for writing to database columns.
// Stores as int64 for BIGINT columns in PostgreSQL, MySQL, SQLite, etc.
func (id FID) Value() (driver.Value, error) {
	return int64(id), nil
}
