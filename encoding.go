// Package flowerid - encoding.go implements the canonical string codec and
// auxiliary debug encodings.
//
// The canonical string form of a Flower ID is the URL-safe base64 encoding
// (RFC 4648 §5 alphabet, A-Z a-z 0-9 - _) of the 8 big-endian bytes with the
// trailing padding stripped: always exactly 11 characters. Decoding is
// strict: wrong length, characters outside the alphabet, and non-canonical
// trailing bits are all rejected, so every FID has exactly one string form.
//
// Hex is kept as a debug encoding with table-driven decoding.

package flowerid

import (
	"encoding/base64"
)

const (
	// EncodedLen is the exact length of the canonical string form.
	EncodedLen = 11

	// BinaryLen is the exact length of the binary form.
	BinaryLen = 8

	// MaxHexLen is the longest accepted hex input (16 chars for 64 bits).
	MaxHexLen = 16
)

// b64 is the strict unpadded URL-safe encoding used for the canonical form.
// Strict mode rejects non-zero trailing bits, so "V-q48AQglKB" does not
// alias "V-q48AQglKA".
var b64 = base64.URLEncoding.WithPadding(base64.NoPadding).Strict()

// encodeString writes the canonical 11-character form of the 8-byte binary
// representation into dst. dst must be exactly EncodedLen bytes.
func encodeString(dst []byte, src [8]byte) error {
	if len(dst) != EncodedLen {
		return &CodecError{Op: "encode-string", Got: len(dst), Want: EncodedLen, Kind: ErrBufferWrongSize}
	}
	b64.Encode(dst, src[:])
	return nil
}

// decodeString parses the canonical 11-character form back into 8 bytes.
func decodeString(s string) ([8]byte, error) {
	var out [8]byte
	if len(s) != EncodedLen {
		return out, &CodecError{Op: "parse", Got: len(s), Want: EncodedLen, Kind: ErrBase64Decode}
	}
	n, err := b64.Decode(out[:], []byte(s))
	if err != nil || n != BinaryLen {
		return out, &CodecError{Op: "parse", Got: n, Want: BinaryLen, Kind: ErrBase64Decode}
	}
	return out, nil
}

// Hex uses lowercase hexadecimal characters.
const encodeHexMap = "0123456789abcdef"

// decodeHexMap provides O(1) character-to-value lookups. Initialized once at
// package init time and read-only afterwards, so it is safe for concurrent
// access without synchronization. Invalid characters are marked with 0xFF.
var decodeHexMap [256]byte

func init() {
	for i := 0; i < 256; i++ {
		decodeHexMap[i] = 0xFF
	}
	for i := 0; i < len(encodeHexMap); i++ {
		decodeHexMap[encodeHexMap[i]] = byte(i)
		if encodeHexMap[i] >= 'a' && encodeHexMap[i] <= 'f' {
			decodeHexMap[encodeHexMap[i]-32] = byte(i)
		}
	}
}

// encodeHex encodes a uint64 to a minimal-length lowercase hex string
// using bitshifting (4 bits per character).
func encodeHex(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [MaxHexLen]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = encodeHexMap[v&0xF]
		v >>= 4
	}
	return string(buf[i:])
}

// decodeHex parses a hex string (either case) into a uint64.
func decodeHex(s string) (uint64, error) {
	if len(s) == 0 || len(s) > MaxHexLen {
		return 0, &CodecError{Op: "parse-hex", Got: len(s), Want: MaxHexLen, Kind: ErrInvalidArgument}
	}
	var v uint64
	for i := 0; i < len(s); i++ {
		d := decodeHexMap[s[i]]
		if d == 0xFF {
			return 0, &CodecError{Op: "parse-hex", Got: len(s), Want: MaxHexLen, Kind: ErrInvalidArgument}
		}
		v = v<<4 | uint64(d)
	}
	return v, nil
}
