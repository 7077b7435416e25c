package drisl

import (
	"bytes"
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// DefaultMaxDepth bounds recursion into nested arrays and maps when no
// explicit limit is configured.
const DefaultMaxDepth = 128

// canonicalNaN is the only NaN bit pattern the format permits.
const canonicalNaN = 0x7ff8000000000000

// linkTag is the only tag number in the DRISL subset; it wraps a CID.
const linkTag = 42

// Decode parses exactly one canonical value from b. Bytes remaining
// after the value fail with ErrTrailingData.
func Decode(b []byte) (*Value, error) {
	v, rest, err := DecodeFirst(b)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, &DecodeError{Offset: int64(len(b) - len(rest)), Err: ErrTrailingData}
	}
	return v, nil
}

// DecodeFirst parses the first canonical value from b and returns the
// unconsumed remainder. Use it to walk back-to-back values when the
// streaming Decoder is not wanted.
func DecodeFirst(b []byte) (*Value, []byte, error) {
	src := NewBytesSource(b)
	d := decodeState{src: src, maxDepth: DefaultMaxDepth}
	v, err := d.decodeValue(0)
	if err != nil {
		return nil, nil, err
	}
	return v, b[src.Offset():], nil
}

// decodeState drives one single-value decode over a shared Source. It
// consumes exactly the bytes belonging to the value and no more, which
// the streaming Decoder relies on to delimit concatenated values.
type decodeState struct {
	src      Source
	maxDepth int
}

// errAt tags err with the current consumed-byte offset.
func (d *decodeState) errAt(err error) error {
	if _, ok := err.(*DecodeError); ok {
		return err
	}
	return &DecodeError{Offset: d.src.Offset(), Err: err}
}

func (d *decodeState) takeByte() (byte, error) {
	b, err := d.src.Take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// readArg reads the head argument for additional info, enforcing the
// minimal-width rule: each wider encoding is only legal for values the
// next narrower one cannot hold.
func (d *decodeState) readArg(info byte) (uint64, error) {
	if info < 24 {
		return uint64(info), nil
	}
	switch info {
	case 24:
		w, err := d.takeByte()
		if err != nil {
			return 0, err
		}
		if w < 24 {
			return 0, ErrNonCanonicalInt
		}
		return uint64(w), nil
	case 25:
		b, err := d.src.Take(2)
		if err != nil {
			return 0, err
		}
		arg := uint64(binary.BigEndian.Uint16(b))
		if arg <= math.MaxUint8 {
			return 0, ErrNonCanonicalInt
		}
		return arg, nil
	case 26:
		b, err := d.src.Take(4)
		if err != nil {
			return 0, err
		}
		arg := uint64(binary.BigEndian.Uint32(b))
		if arg <= math.MaxUint16 {
			return 0, ErrNonCanonicalInt
		}
		return arg, nil
	case 27:
		b, err := d.src.Take(8)
		if err != nil {
			return 0, err
		}
		arg := binary.BigEndian.Uint64(b)
		if arg <= math.MaxUint32 {
			return 0, ErrNonCanonicalInt
		}
		return arg, nil
	case 28, 29, 30:
		return 0, ErrUnknownTag
	default: // 31
		return 0, ErrIndefiniteLength
	}
}

// length converts a head argument into a byte or element count.
func length(arg uint64) (int, error) {
	if arg > math.MaxInt {
		// No input this process can hold satisfies the announced length.
		return 0, ErrTruncated
	}
	return int(arg), nil
}

func (d *decodeState) decodeValue(depth int) (*Value, error) {
	if depth >= d.maxDepth {
		return nil, d.errAt(ErrDepthExceeded)
	}
	head, err := d.takeByte()
	if err != nil {
		return nil, d.errAt(err)
	}
	major := head >> 5
	info := head & 0x1f

	if major == 7 {
		return d.decodeSimple(info)
	}

	arg, err := d.readArg(info)
	if err != nil {
		return nil, d.errAt(err)
	}

	switch major {
	case 0:
		return &Value{kind: KindInt, num: arg}, nil
	case 1:
		return &Value{kind: KindInt, neg: true, num: arg}, nil
	case 2:
		raw, err := d.takeCopy(arg)
		if err != nil {
			return nil, err
		}
		return &Value{kind: KindBytes, raw: raw}, nil
	case 3:
		raw, err := d.takeCopy(arg)
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(raw) {
			return nil, d.errAt(ErrInvalidUTF8)
		}
		return &Value{kind: KindText, s: string(raw)}, nil
	case 4:
		return d.decodeArray(arg, depth)
	case 5:
		return d.decodeMap(arg, depth)
	default: // 6
		return d.decodeTag(arg, depth)
	}
}

// takeCopy consumes arg bytes and returns a copy owned by the caller;
// Source buffers are reused across calls.
func (d *decodeState) takeCopy(arg uint64) ([]byte, error) {
	n, err := length(arg)
	if err != nil {
		return nil, d.errAt(err)
	}
	b, err := d.src.Take(n)
	if err != nil {
		return nil, d.errAt(err)
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// capHint bounds preallocation for attacker-controlled counts.
func capHint(n int) int {
	const max = 4096
	if n > max {
		return max
	}
	return n
}

func (d *decodeState) decodeArray(arg uint64, depth int) (*Value, error) {
	n, err := length(arg)
	if err != nil {
		return nil, d.errAt(err)
	}
	list := make([]*Value, 0, capHint(n))
	for i := 0; i < n; i++ {
		el, err := d.decodeValue(depth + 1)
		if err != nil {
			return nil, err
		}
		list = append(list, el)
	}
	return &Value{kind: KindArray, list: list}, nil
}

func (d *decodeState) decodeMap(arg uint64, depth int) (*Value, error) {
	n, err := length(arg)
	if err != nil {
		return nil, d.errAt(err)
	}
	entries := make([]Entry, 0, capHint(n))
	var prev []byte
	for i := 0; i < n; i++ {
		key, err := d.decodeValue(depth + 1)
		if err != nil {
			return nil, err
		}
		if key.kind != KindText && key.kind != KindBytes {
			return nil, d.errAt(ErrInvalidKey)
		}
		// The decoded key is canonical, so re-encoding it reproduces its
		// wire bytes; strictly-greater ordering rejects duplicates and
		// disorder in one check.
		enc := encodedKey(key)
		if prev != nil && bytes.Compare(prev, enc) >= 0 {
			return nil, d.errAt(ErrUnsortedKeys)
		}
		prev = enc
		val, err := d.decodeValue(depth + 1)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Key: key, Value: val})
	}
	return &Value{kind: KindMap, entries: entries}, nil
}

func (d *decodeState) decodeTag(arg uint64, depth int) (*Value, error) {
	if arg != linkTag {
		return nil, d.errAt(ErrUnknownTag)
	}
	content, err := d.decodeValue(depth + 1)
	if err != nil {
		return nil, err
	}
	if content.kind != KindBytes || len(content.raw) < 2 || content.raw[0] != 0x00 {
		return nil, d.errAt(ErrInvalidLink)
	}
	return &Value{kind: KindLink, raw: content.raw[1:]}, nil
}

func (d *decodeState) decodeSimple(info byte) (*Value, error) {
	switch info {
	case 20:
		return &Value{kind: KindBool}, nil
	case 21:
		return &Value{kind: KindBool, b: true}, nil
	case 22:
		return &Value{kind: KindNull}, nil
	case 25, 26:
		// Half and single precision floats are narrower re-encodings of
		// values the format pins to binary64.
		return nil, d.errAt(ErrNonCanonicalFloat)
	case 27:
		b, err := d.src.Take(8)
		if err != nil {
			return nil, d.errAt(err)
		}
		bits := binary.BigEndian.Uint64(b)
		f := math.Float64frombits(bits)
		if math.IsNaN(f) && bits != canonicalNaN {
			return nil, d.errAt(ErrNonCanonicalFloat)
		}
		return &Value{kind: KindFloat, f: f}, nil
	case 31:
		// A break code with no open indefinite-length item.
		return nil, d.errAt(ErrIndefiniteLength)
	default:
		// Undefined, unassigned simple values, and reserved info.
		return nil, d.errAt(ErrUnknownTag)
	}
}
