package flowerid

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

// Reference vectors, cross-checked against non-Go implementations of the
// same layout.
var fidVectors = []struct {
	name      string
	timestamp uint64
	sequence  uint16
	generator uint16
	value     uint64
	bin       []byte
	str       string
}{
	{
		name:      "reference",
		timestamp: 3020801146913,
		sequence:  37,
		generator: 160,
		value:     6335079166850929824,
		bin:       []byte{0x57, 0xea, 0xb8, 0xf0, 0x04, 0x20, 0x94, 0xa0},
		str:       "V-q48AQglKA",
	},
	{
		name:      "doc example",
		timestamp: 0x204dc595637,
		sequence:  0x4ac,
		generator: 0x12c,
		value:     0x409b8b2ac6f2b12c,
		bin:       []byte{0x40, 0x9b, 0x8b, 0x2a, 0xc6, 0xf2, 0xb1, 0x2c},
		str:       "QJuLKsbysSw",
	},
	{
		name:      "alternate",
		timestamp: 0x1f37b5bfdfa,
		sequence:  0x02f8,
		generator: 0x01cc,
		value:     0x3e6f6b7fbf4be1cc,
		bin:       []byte{0x3e, 0x6f, 0x6b, 0x7f, 0xbf, 0x4b, 0xe1, 0xcc},
		str:       "Pm9rf79L4cw",
	},
}

// TestFIDVectors verifies all three representations against known vectors.
func TestFIDVectors(t *testing.T) {
	for _, v := range fidVectors {
		t.Run(v.name, func(t *testing.T) {
			fid, err := NewFID(v.timestamp, v.sequence, v.generator)
			if err != nil {
				t.Fatalf("NewFID() error = %v", err)
			}
			if fid.Uint64() != v.value {
				t.Errorf("Uint64() = %d, want %d", fid.Uint64(), v.value)
			}
			b := fid.Bytes()
			if !bytes.Equal(b[:], v.bin) {
				t.Errorf("Bytes() = %x, want %x", b, v.bin)
			}
			if fid.String() != v.str {
				t.Errorf("String() = %q, want %q", fid.String(), v.str)
			}

			// Decode from each representation.
			if got := FID(v.value); got != fid {
				t.Errorf("FID(%d) = %v, want %v", v.value, got, fid)
			}
			got, err := ParseBytes(v.bin)
			if err != nil {
				t.Fatalf("ParseBytes() error = %v", err)
			}
			if got != fid {
				t.Errorf("ParseBytes() = %v, want %v", got, fid)
			}
			got, err = Parse(v.str)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got != fid {
				t.Errorf("Parse() = %v, want %v", got, fid)
			}
		})
	}
}

// TestNewFIDBounds tests field bound rejection at the exact boundaries.
func TestNewFIDBounds(t *testing.T) {
	tests := []struct {
		name      string
		timestamp uint64
		sequence  uint16
		generator uint16
		wantErr   error
	}{
		{"All zero", 0, 0, 0, nil},
		{"All max", MaxTimestamp, MaxSequence, MaxGenerator, nil},
		{"Timestamp bound-1", MaxTimestamp, 0, 0, nil},
		{"Timestamp bound", MaxTimestamp + 1, 0, 0, ErrTimestampOverflow},
		{"Sequence bound-1", 0, MaxSequence, 0, nil},
		{"Sequence bound", 0, MaxSequence + 1, 0, ErrSequenceOverflow},
		{"Generator bound-1", 0, 0, MaxGenerator, nil},
		{"Generator bound", 0, 0, MaxGenerator + 1, ErrGeneratorOverflow},
		// All three violated: timestamp reported first.
		{"Field order", MaxTimestamp + 1, MaxSequence + 1, MaxGenerator + 1, ErrTimestampOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fid, err := NewFID(tt.timestamp, tt.sequence, tt.generator)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("NewFID() error = %v, want nil", err)
				}
				ts, seq, gen := fid.Components()
				if ts != tt.timestamp || seq != tt.sequence || gen != tt.generator {
					t.Errorf("Components() = (%d, %d, %d), want (%d, %d, %d)",
						ts, seq, gen, tt.timestamp, tt.sequence, tt.generator)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewFID() error = %v, want %v", err, tt.wantErr)
			}
			var ovf *OverflowError
			if !errors.As(err, &ovf) {
				t.Errorf("NewFID() error is not *OverflowError: %v", err)
			}
		})
	}
}

// TestMustFID verifies the panic contract.
func TestMustFID(t *testing.T) {
	fid := MustFID(1, 2, 3)
	if fid.Timestamp() != 1 || fid.Sequence() != 2 || fid.Generator() != 3 {
		t.Errorf("MustFID() components = (%d, %d, %d)", fid.Timestamp(), fid.Sequence(), fid.Generator())
	}

	defer func() {
		if recover() == nil {
			t.Error("MustFID() did not panic on overflow")
		}
	}()
	MustFID(MaxTimestamp+1, 0, 0)
}

// TestFIDOrdering verifies that numeric order equals chronological order.
func TestFIDOrdering(t *testing.T) {
	// Earlier timestamp with maximal low fields still sorts before a later
	// timestamp with minimal low fields.
	older := MustFID(100, MaxSequence, MaxGenerator)
	newer := MustFID(101, 0, 0)

	if !(older < newer) {
		t.Errorf("numeric order broken: %d >= %d", older, newer)
	}
	if !older.Before(newer) || !newer.After(older) {
		t.Error("Before()/After() disagree with timestamp order")
	}
	if older.Compare(newer) != -1 || newer.Compare(older) != 1 || older.Compare(older) != 0 {
		t.Error("Compare() returned wrong ordering")
	}
	if !older.Equal(older) || older.Equal(newer) {
		t.Error("Equal() returned wrong result")
	}

	// Same timestamp: sequence is the tie-breaker.
	a := MustFID(100, 1, MaxGenerator)
	b := MustFID(100, 2, 0)
	if !a.Before(b) {
		t.Error("sequence tie-break broken")
	}
}

// TestPutBytes tests the caller-supplied buffer variant.
func TestPutBytes(t *testing.T) {
	fid := MustFID(3020801146913, 37, 160)

	dst := make([]byte, 8)
	if err := fid.PutBytes(dst); err != nil {
		t.Fatalf("PutBytes() error = %v", err)
	}
	want := fid.Bytes()
	if !bytes.Equal(dst, want[:]) {
		t.Errorf("PutBytes() wrote %x, want %x", dst, want)
	}

	for _, n := range []int{0, 7, 9} {
		if err := fid.PutBytes(make([]byte, n)); !errors.Is(err, ErrBufferWrongSize) {
			t.Errorf("PutBytes(len %d) error = %v, want ErrBufferWrongSize", n, err)
		}
	}
}

// TestParseBytesErrors tests slice size validation.
func TestParseBytesErrors(t *testing.T) {
	for _, n := range []int{0, 1, 7, 9, 16} {
		if _, err := ParseBytes(make([]byte, n)); !errors.Is(err, ErrWrongSliceSize) {
			t.Errorf("ParseBytes(len %d) error = %v, want ErrWrongSliceSize", n, err)
		}
	}
}

// TestEncodeString tests the caller-supplied buffer variant.
func TestEncodeString(t *testing.T) {
	fid := MustFID(3020801146913, 37, 160)

	dst := make([]byte, 11)
	if err := fid.EncodeString(dst); err != nil {
		t.Fatalf("EncodeString() error = %v", err)
	}
	if string(dst) != "V-q48AQglKA" {
		t.Errorf("EncodeString() wrote %q, want %q", dst, "V-q48AQglKA")
	}

	for _, n := range []int{0, 10, 12} {
		if err := fid.EncodeString(make([]byte, n)); !errors.Is(err, ErrBufferWrongSize) {
			t.Errorf("EncodeString(len %d) error = %v, want ErrBufferWrongSize", n, err)
		}
	}
}

// TestParseErrors tests canonical string validation.
func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"Empty", ""},
		{"Too short", "V-q48AQglK"},
		{"Too long", "V-q48AQglKAA"},
		{"Padded", "V-q48AQglKA="},
		{"Invalid character", "V-q48AQglK!"},
		{"Standard alphabet plus", "V+q48AQglKA"},
		{"Non-canonical trailing bits", "V-q48AQglKB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.in); !errors.Is(err, ErrBase64Decode) {
				t.Errorf("Parse(%q) error = %v, want ErrBase64Decode", tt.in, err)
			}
		})
	}
}

// TestHexAndBase2 tests the debug encodings.
func TestHexAndBase2(t *testing.T) {
	fid := MustFID(3020801146913, 37, 160)

	if fid.Hex() != "57eab8f0042094a0" {
		t.Errorf("Hex() = %q, want %q", fid.Hex(), "57eab8f0042094a0")
	}
	parsed, err := ParseHex("57EAB8F0042094A0") // either case accepted
	if err != nil {
		t.Fatalf("ParseHex() error = %v", err)
	}
	if parsed != fid {
		t.Errorf("ParseHex() = %v, want %v", parsed, fid)
	}

	if _, err := ParseHex(""); err == nil {
		t.Error("ParseHex(\"\") did not fail")
	}
	if _, err := ParseHex("xyz"); err == nil {
		t.Error("ParseHex(\"xyz\") did not fail")
	}
	if _, err := ParseHex("00000000000000000"); err == nil {
		t.Error("ParseHex() accepted 17 characters")
	}

	if FID(0).Hex() != "0" {
		t.Errorf("FID(0).Hex() = %q, want \"0\"", FID(0).Hex())
	}
	if FID(5).Base2() != "101" {
		t.Errorf("Base2() = %q, want \"101\"", FID(5).Base2())
	}
}

// TestFIDTime tests timestamp-to-time conversion.
func TestFIDTime(t *testing.T) {
	epoch := time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)

	zero := MustFID(0, 0, 0)
	if !zero.Time().Equal(epoch) {
		t.Errorf("Time() at tick 0 = %v, want %v", zero.Time(), epoch)
	}

	oneSec := MustFID(1000, 0, 0)
	if !oneSec.Time().Equal(epoch.Add(time.Second)) {
		t.Errorf("Time() at tick 1000 = %v, want %v", oneSec.Time(), epoch.Add(time.Second))
	}

	// Seconds mode: one tick is one second.
	if !oneSec.TimeIn(DefaultTimestampOffset, Seconds).Equal(epoch.Add(1000 * time.Second)) {
		t.Errorf("TimeIn(Seconds) = %v", oneSec.TimeIn(DefaultTimestampOffset, Seconds))
	}

	// Zero offset counts from the Unix epoch.
	if got := MustFID(5000, 0, 0).TimeIn(0, Milliseconds); got.UnixMilli() != 5000 {
		t.Errorf("TimeIn(0, Milliseconds).UnixMilli() = %d, want 5000", got.UnixMilli())
	}
}

// TestFIDIsValid tests the structural plausibility check.
func TestFIDIsValid(t *testing.T) {
	gen, err := NewGenerator(7)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	fid, err := gen.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if !fid.IsValid() {
		t.Errorf("freshly generated ID reported invalid: %v", fid)
	}

	// Forged sign bit.
	if FID(1 << 63).IsValid() {
		t.Error("IsValid() accepted a set sign bit")
	}

	// Timestamp far in the future.
	if MustFID(MaxTimestamp, 0, 0).IsValid() {
		t.Error("IsValid() accepted a far-future timestamp")
	}
}

// TestFIDJSON tests JSON marshaling and the accepted input forms.
func TestFIDJSON(t *testing.T) {
	fid := MustFID(3020801146913, 37, 160)

	data, err := json.Marshal(fid)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `"V-q48AQglKA"` {
		t.Errorf("Marshal() = %s, want %q", data, `"V-q48AQglKA"`)
	}

	inputs := []string{
		`"V-q48AQglKA"`,         // canonical string
		`"6335079166850929824"`, // decimal string
		`6335079166850929824`,   // number
	}
	for _, in := range inputs {
		var got FID
		if err := json.Unmarshal([]byte(in), &got); err != nil {
			t.Errorf("Unmarshal(%s) error = %v", in, err)
			continue
		}
		if got != fid {
			t.Errorf("Unmarshal(%s) = %v, want %v", in, got, fid)
		}
	}

	var got FID
	if err := json.Unmarshal([]byte(`"not-an-id!"`), &got); err == nil {
		t.Error("Unmarshal() accepted malformed input")
	}

	// Struct round-trip.
	type record struct {
		ID FID `json:"id"`
	}
	data, _ = json.Marshal(record{ID: fid})
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("Unmarshal(record) error = %v", err)
	}
	if rec.ID != fid {
		t.Errorf("record round-trip = %v, want %v", rec.ID, fid)
	}
}

// TestFIDText tests encoding.TextMarshaler/Unmarshaler.
func TestFIDText(t *testing.T) {
	fid := MustFID(3020801146913, 37, 160)

	text, err := fid.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(text) != "V-q48AQglKA" {
		t.Errorf("MarshalText() = %q", text)
	}

	var got FID
	if err := got.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if got != fid {
		t.Errorf("text round-trip = %v, want %v", got, fid)
	}

	if err := got.UnmarshalText([]byte("6335079166850929824")); err != nil {
		t.Fatalf("UnmarshalText(decimal) error = %v", err)
	}
	if got != fid {
		t.Errorf("decimal text = %v, want %v", got, fid)
	}

	if err := got.UnmarshalText([]byte("???")); err == nil {
		t.Error("UnmarshalText() accepted malformed input")
	}
}

// TestFIDBinary tests encoding.BinaryMarshaler/Unmarshaler.
func TestFIDBinary(t *testing.T) {
	fid := MustFID(3020801146913, 37, 160)

	data, err := fid.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}
	if len(data) != 8 {
		t.Fatalf("MarshalBinary() length = %d, want 8", len(data))
	}

	var got FID
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary() error = %v", err)
	}
	if got != fid {
		t.Errorf("binary round-trip = %v, want %v", got, fid)
	}

	if err := got.UnmarshalBinary(data[:4]); !errors.Is(err, ErrWrongSliceSize) {
		t.Errorf("UnmarshalBinary(short) error = %v, want ErrWrongSliceSize", err)
	}
}

// TestFIDSQL tests sql.Scanner and driver.Valuer.
func TestFIDSQL(t *testing.T) {
	fid := MustFID(3020801146913, 37, 160)

	v, err := fid.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if v.(int64) != fid.Int64() {
		t.Errorf("Value() = %v, want %d", v, fid.Int64())
	}

	sources := []interface{}{
		fid.Int64(),
		"V-q48AQglKA",
		"6335079166850929824",
		[]byte("V-q48AQglKA"),
	}
	for _, src := range sources {
		var got FID
		if err := got.Scan(src); err != nil {
			t.Errorf("Scan(%T %v) error = %v", src, src, err)
			continue
		}
		if got != fid {
			t.Errorf("Scan(%T) = %v, want %v", src, got, fid)
		}
	}

	var got FID = 1
	if err := got.Scan(nil); err != nil || got != 0 {
		t.Errorf("Scan(nil) = (%v, %v), want (0, nil)", got, err)
	}
	if err := got.Scan(3.14); err == nil {
		t.Error("Scan(float64) did not fail")
	}
}

// TestFIDShard tests the shard helpers.
func TestFIDShard(t *testing.T) {
	fid := MustFID(3020801146913, 37, 160)

	if s := fid.Shard(10); s != int64(fid.Uint64()%10) {
		t.Errorf("Shard(10) = %d", s)
	}
	if s := fid.ShardByGenerator(10); s != 0 { // 160 % 10
		t.Errorf("ShardByGenerator(10) = %d, want 0", s)
	}
	if fid.Shard(0) != 0 || fid.ShardByGenerator(-1) != 0 {
		t.Error("shard helpers did not clamp non-positive shard counts")
	}

	// All IDs from one generator land on the same shard.
	other := MustFID(1, 0, 160)
	if fid.ShardByGenerator(7) != other.ShardByGenerator(7) {
		t.Error("ShardByGenerator() split IDs from the same generator")
	}
}
