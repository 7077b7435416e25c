package drisl

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// Encode returns the canonical byte encoding of v. For any value the
// output is byte-identical across calls and is the only encoding Decode
// accepts for it.
func Encode(v *Value) ([]byte, error) {
	return AppendEncode(nil, v)
}

// AppendEncode appends the canonical encoding of v to dst.
func AppendEncode(dst []byte, v *Value) ([]byte, error) {
	return appendValue(dst, v)
}

// appendHead writes the minimal-width head for major/arg.
func appendHead(dst []byte, major byte, arg uint64) []byte {
	mt := major << 5
	switch {
	case arg < 24:
		return append(dst, mt|byte(arg))
	case arg <= math.MaxUint8:
		return append(dst, mt|24, byte(arg))
	case arg <= math.MaxUint16:
		dst = append(dst, mt|25)
		return binary.BigEndian.AppendUint16(dst, uint16(arg))
	case arg <= math.MaxUint32:
		dst = append(dst, mt|26)
		return binary.BigEndian.AppendUint32(dst, uint32(arg))
	default:
		dst = append(dst, mt|27)
		return binary.BigEndian.AppendUint64(dst, arg)
	}
}

func appendValue(dst []byte, v *Value) ([]byte, error) {
	if v == nil {
		return append(dst, 0xf6), nil
	}
	switch v.kind {
	case KindNull:
		return append(dst, 0xf6), nil
	case KindBool:
		if v.b {
			return append(dst, 0xf5), nil
		}
		return append(dst, 0xf4), nil
	case KindInt:
		if v.neg {
			return appendHead(dst, 1, v.num), nil
		}
		return appendHead(dst, 0, v.num), nil
	case KindFloat:
		bits := math.Float64bits(v.f)
		if math.IsNaN(v.f) {
			bits = canonicalNaN
		}
		dst = append(dst, 0xfb)
		return binary.BigEndian.AppendUint64(dst, bits), nil
	case KindText:
		if !utf8.ValidString(v.s) {
			return nil, ErrInvalidUTF8
		}
		dst = appendHead(dst, 3, uint64(len(v.s)))
		return append(dst, v.s...), nil
	case KindBytes:
		dst = appendHead(dst, 2, uint64(len(v.raw)))
		return append(dst, v.raw...), nil
	case KindLink:
		if len(v.raw) == 0 {
			return nil, ErrInvalidLink
		}
		dst = appendHead(dst, 6, linkTag)
		dst = appendHead(dst, 2, uint64(len(v.raw)+1))
		dst = append(dst, 0x00)
		return append(dst, v.raw...), nil
	case KindArray:
		dst = appendHead(dst, 4, uint64(len(v.list)))
		var err error
		for _, el := range v.list {
			if dst, err = appendValue(dst, el); err != nil {
				return nil, err
			}
		}
		return dst, nil
	case KindMap:
		return appendMap(dst, v.entries)
	default:
		return nil, fmt.Errorf("drisl: cannot encode kind %s", v.kind)
	}
}

// appendMap emits entries in their stored order and verifies the map
// invariant: keys strictly ascending by encoded bytes. Map construction
// sorts, so the only violation a caller can produce is a duplicate.
func appendMap(dst []byte, entries []Entry) ([]byte, error) {
	dst = appendHead(dst, 5, uint64(len(entries)))
	var prev []byte
	var err error
	for _, e := range entries {
		if e.Key == nil || (e.Key.kind != KindText && e.Key.kind != KindBytes) {
			return nil, ErrInvalidKey
		}
		if e.Key.kind == KindText && !utf8.ValidString(e.Key.s) {
			return nil, ErrInvalidUTF8
		}
		enc := encodedKey(e.Key)
		if prev != nil {
			switch bytes.Compare(prev, enc) {
			case 0:
				return nil, ErrDuplicateKey
			case 1:
				return nil, ErrUnsortedKeys
			}
		}
		prev = enc
		dst = append(dst, enc...)
		if dst, err = appendValue(dst, e.Value); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// encodedKey returns the canonical encoding of a text or bytes key.
// Keys of those kinds cannot fail to encode.
func encodedKey(key *Value) []byte {
	if key.kind == KindText {
		dst := appendHead(nil, 3, uint64(len(key.s)))
		return append(dst, key.s...)
	}
	dst := appendHead(nil, 2, uint64(len(key.raw)))
	return append(dst, key.raw...)
}
