package drisl

import (
	"bytes"
	"encoding/hex"
	"errors"
	"math"
	"strings"
	"testing"
)

func unhex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

func mustDecode(t *testing.T, b []byte) *Value {
	t.Helper()
	v, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode(%x) error: %v", b, err)
	}
	return v
}

func mustEncode(t *testing.T, v *Value) []byte {
	t.Helper()
	b, err := Encode(v)
	if err != nil {
		t.Fatalf("Encode(%s) error: %v", v, err)
	}
	return b
}

func TestDecodeScalars(t *testing.T) {
	cases := []struct {
		hex  string
		want *Value
	}{
		{"f6", Null()},
		{"f4", Bool(false)},
		{"f5", Bool(true)},
		{"00", Int(0)},
		{"01", Int(1)},
		{"0a", Int(10)},
		{"17", Int(23)},
		{"1818", Int(24)},
		{"18ff", Int(255)},
		{"190100", Int(256)},
		{"19ffff", Int(65535)},
		{"1a00010000", Int(65536)},
		{"1a000f4240", Int(1000000)},
		{"1affffffff", Int(math.MaxUint32)},
		{"1b0000000100000000", Int(math.MaxUint32 + 1)},
		{"1bffffffffffffffff", Uint(math.MaxUint64)},
		{"20", Int(-1)},
		{"37", Int(-24)},
		{"3818", Int(-25)},
		{"38ff", Int(-256)},
		{"390100", Int(-257)},
		{"3b7fffffffffffffff", Int(math.MinInt64)},
		{"3bffffffffffffffff", NegInt(math.MaxUint64)}, // -2^64
		{"fb0000000000000000", Float(0)},
		{"fb8000000000000000", Float(math.Copysign(0, -1))},
		{"fb3ff8000000000000", Float(1.5)},
		{"fb3ff199999999999a", Float(1.1)},
		{"fbc010666666666666", Float(-4.1)},
		{"fb7ff0000000000000", Float(math.Inf(1))},
		{"fbfff0000000000000", Float(math.Inf(-1))},
		{"fb7ff8000000000000", Float(math.NaN())},
		{"60", Text("")},
		{"6161", Text("a")},
		{"6449455446", Text("IETF")},
		{"62c3bc", Text("ü")},
		{"40", Bytes([]byte{})},
		{"4401020304", Bytes([]byte{1, 2, 3, 4})},
		{"d82a450001020304", Link([]byte{1, 2, 3, 4})},
	}
	for _, tc := range cases {
		enc := unhex(t, tc.hex)
		got := mustDecode(t, enc)
		if !got.Equal(tc.want) {
			t.Errorf("Decode(%s) = %s, want %s", tc.hex, got, tc.want)
		}
		// The same bytes must come back out.
		if re := mustEncode(t, got); !bytes.Equal(re, enc) {
			t.Errorf("re-encode of %s = %x", tc.hex, re)
		}
	}
}

func TestDecodeContainers(t *testing.T) {
	cases := []struct {
		hex  string
		want *Value
	}{
		{"80", Array()},
		{"83010203", Array(Int(1), Int(2), Int(3))},
		{"8301820203820405", Array(Int(1), Array(Int(2), Int(3)), Array(Int(4), Int(5)))},
		{"a0", Map()},
		{"a26161016162 02", Map(Field("a", Int(1)), Field("b", Int(2)))},
		{"a26161a1616201616380", Map(
			Field("a", Map(Field("b", Int(1)))),
			Field("c", Array()),
		)},
		// Bytewise key order on the encoded key: "b" (0x61 0x62)
		// sorts before "aa" (0x62 0x61 0x61).
		{"a26162016261610 2", Map(Field("b", Int(1)), Field("aa", Int(2)))},
		// Bytes keys sort before longer bytes keys.
		{"a2410001420001 02", Map(
			Entry{Key: Bytes([]byte{0x00}), Value: Int(1)},
			Entry{Key: Bytes([]byte{0x00, 0x01}), Value: Int(2)},
		)},
	}
	for _, tc := range cases {
		enc := unhex(t, tc.hex)
		got := mustDecode(t, enc)
		if !got.Equal(tc.want) {
			t.Errorf("Decode(%s) = %s, want %s", tc.hex, got, tc.want)
		}
		if re := mustEncode(t, got); !bytes.Equal(re, enc) {
			t.Errorf("re-encode of %s = %x", tc.hex, re)
		}
	}
}

func TestDecodeRejectsNonMinimalInts(t *testing.T) {
	cases := []string{
		"1800", // 0 with one-byte argument
		"1817", // 23 with one-byte argument
		"190017",
		"1900ff", // 255 fits one byte
		"1a0000ffff",
		"1a00000001",
		"1b00000000ffffffff",
		"3800", // -1 widened
		"390018",
		// Length prefixes obey the same rule.
		"5801ff",     // one-byte bytes with widened length
		"7802 6162",  // two-byte text with widened length
		"9801 00",   // one-element array
		"b90001",    // widened map length
		"d9002a 4100", // tag 42 with a widened argument
	}
	for _, c := range cases {
		if _, err := Decode(unhex(t, c)); !errors.Is(err, ErrNonCanonicalInt) {
			t.Errorf("Decode(%s) err = %v, want ErrNonCanonicalInt", c, err)
		}
	}
}

func TestDecodeRejectsNonCanonicalFloats(t *testing.T) {
	cases := []string{
		"f93c00",             // half precision 1.0
		"f97e00",             // half precision NaN
		"fa47c35000",         // single precision
		"fb7ff8000000000001", // NaN with payload bits
		"fb7ff0000000000001", // signaling NaN
		"fbfff8000000000000", // negative NaN
	}
	for _, c := range cases {
		if _, err := Decode(unhex(t, c)); !errors.Is(err, ErrNonCanonicalFloat) {
			t.Errorf("Decode(%s) err = %v, want ErrNonCanonicalFloat", c, err)
		}
	}
}

func TestDecodeRejectsIndefiniteLength(t *testing.T) {
	cases := []string{
		"5f4101ff", // indefinite bytes
		"7f6161ff", // indefinite text
		"9f01ff",   // indefinite array
		"bf616101ff",
		"ff", // stray break
	}
	for _, c := range cases {
		if _, err := Decode(unhex(t, c)); !errors.Is(err, ErrIndefiniteLength) {
			t.Errorf("Decode(%s) err = %v, want ErrIndefiniteLength", c, err)
		}
	}
}

func TestDecodeRejectsUnknownTagsAndSimples(t *testing.T) {
	cases := []string{
		"f7",   // undefined
		"f0",   // unassigned simple value 16
		"f820", // two-byte simple value
		"c0",   // tag 0 (datetime) outside the subset
		"c101", // tag 1
		"d9d9f700",
		"1c", // reserved additional info on an int head
		"3d",
		"5e",
	}
	for _, c := range cases {
		if _, err := Decode(unhex(t, c)); !errors.Is(err, ErrUnknownTag) {
			t.Errorf("Decode(%s) err = %v, want ErrUnknownTag", c, err)
		}
	}
}

func TestDecodeRejectsMalformedLinks(t *testing.T) {
	cases := []string{
		"d82a6161",     // text content
		"d82a00",       // integer content
		"d82a40",       // empty byte string
		"d82a4100",     // identity prefix with no CID bytes
		"d82a420101",   // missing zero multibase prefix
		"d82ad82a4100", // nested tag
	}
	for _, c := range cases {
		if _, err := Decode(unhex(t, c)); !errors.Is(err, ErrInvalidLink) {
			t.Errorf("Decode(%s) err = %v, want ErrInvalidLink", c, err)
		}
	}
}

func TestDecodeRejectsBadMapKeys(t *testing.T) {
	unsorted := []string{
		"a2616202616101",     // "b" before "a"
		"a261610161610 2",    // duplicate "a"
		"a262616101616202",   // "aa" before "b" (longer encoded key first)
		"a2420001014100 02",  // bytes keys out of order
		"a3616101616303616202", // sorted, then regression: a, c, b
	}
	for _, c := range unsorted {
		if _, err := Decode(unhex(t, c)); !errors.Is(err, ErrUnsortedKeys) {
			t.Errorf("Decode(%s) err = %v, want ErrUnsortedKeys", c, err)
		}
	}
	badKind := []string{
		"a10101",   // integer key
		"a1f60101", // null key
		"a1800101", // array key
	}
	for _, c := range badKind {
		if _, err := Decode(unhex(t, c)); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Decode(%s) err = %v, want ErrInvalidKey", c, err)
		}
	}
}

func TestDecodeRejectsInvalidUTF8(t *testing.T) {
	cases := []string{
		"61ff",
		"62c328", // truncated multibyte sequence
		"6461626380", // 0x80 continuation with no lead byte
	}
	for _, c := range cases {
		if _, err := Decode(unhex(t, c)); !errors.Is(err, ErrInvalidUTF8) {
			t.Errorf("Decode(%s) err = %v, want ErrInvalidUTF8", c, err)
		}
	}
}

func TestDecodeRejectsTrailingData(t *testing.T) {
	var de *DecodeError
	_, err := Decode(unhex(t, "0100"))
	if !errors.Is(err, ErrTrailingData) {
		t.Fatalf("err = %v, want ErrTrailingData", err)
	}
	if !errors.As(err, &de) || de.Offset != 1 {
		t.Fatalf("trailing data offset = %+v, want 1", err)
	}
}

func TestDecodeDepthLimit(t *testing.T) {
	nest := func(n int) []byte {
		b := bytes.Repeat([]byte{0x81}, n)
		return append(b, 0x00)
	}
	if _, err := Decode(nest(DefaultMaxDepth - 1)); err != nil {
		t.Fatalf("depth %d rejected: %v", DefaultMaxDepth-1, err)
	}
	if _, err := Decode(nest(DefaultMaxDepth)); !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("depth %d err = %v, want ErrDepthExceeded", DefaultMaxDepth, err)
	}
	// Maps count toward the same limit.
	deepMap := append(bytes.Repeat([]byte{0xa1, 0x61, 0x61}, DefaultMaxDepth), 0x00)
	if _, err := Decode(deepMap); !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("deep map err = %v, want ErrDepthExceeded", err)
	}
}

func TestDecodeTruncationBoundary(t *testing.T) {
	// Removing the last byte of any encoded value must yield
	// ErrTruncated, never a different value.
	values := []*Value{
		Int(0), Int(24), Int(256), Int(-1000000), Uint(math.MaxUint64),
		Float(1.1), Float(math.NaN()),
		Text("streaming"), Bytes([]byte{1, 2, 3}),
		Link([]byte{0x12, 0x20, 0xaa}),
		Array(Int(1), Text("two"), Null()),
		Map(Field("a", Int(1)), Field("b", Array(Bool(true)))),
	}
	for _, v := range values {
		enc := mustEncode(t, v)
		for cut := 0; cut < len(enc); cut++ {
			_, err := Decode(enc[:cut])
			if !errors.Is(err, ErrTruncated) {
				t.Fatalf("Decode(%x cut to %d) err = %v, want ErrTruncated", enc, cut, err)
			}
		}
	}
}

func TestDecodeFirst(t *testing.T) {
	enc := unhex(t, "01 6161 f5")
	v, rest, err := DecodeFirst(enc)
	if err != nil {
		t.Fatalf("DecodeFirst error: %v", err)
	}
	if !v.Equal(Int(1)) || len(rest) != 3 {
		t.Fatalf("DecodeFirst = %s rest %x", v, rest)
	}
	v, rest, err = DecodeFirst(rest)
	if err != nil || !v.Equal(Text("a")) || len(rest) != 1 {
		t.Fatalf("second DecodeFirst = %s rest %x err %v", v, rest, err)
	}
}

func TestDecodeErrorCarriesOffset(t *testing.T) {
	// Error surfaces inside the second map value.
	enc := unhex(t, "a26161016162f7")
	_, err := Decode(enc)
	if !errors.Is(err, ErrUnknownTag) {
		t.Fatalf("err = %v, want ErrUnknownTag", err)
	}
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("err %T does not wrap DecodeError", err)
	}
	if de.Offset != int64(len(enc)) {
		t.Fatalf("offset = %d, want %d", de.Offset, len(enc))
	}
	if !strings.Contains(de.Error(), "at byte") {
		t.Fatalf("error text %q lacks offset", de.Error())
	}
}
