package drisl

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the type of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindText
	KindBytes
	KindArray
	KindMap
	KindLink
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBytes:
		return "bytes"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindLink:
		return "link"
	default:
		return "unknown"
	}
}

// Value is a decoded DRISL value. Values are immutable once constructed;
// a map or array owns its children outright (tree ownership, no cycles).
//
// Integers cover the full wire range [-2^64, 2^64-1]. A negative integer
// is stored as its encoded argument arg, where the logical value is
// -1-arg; AsInt and AsUint report a range error when the value does not
// fit the requested Go type.
type Value struct {
	kind Kind

	b   bool
	neg bool
	num uint64 // integer argument (see type comment)
	f   float64
	s   string
	raw []byte // bytes payload, or CID bytes for links

	list    []*Value
	entries []Entry
}

// Entry is a single key/value pair in a map. Keys are text or byte
// strings; a map's entries are always sorted ascending by the canonical
// encoding of the key, with no duplicates.
type Entry struct {
	Key   *Value
	Value *Value
}

// Field builds a map entry with a text key.
func Field(key string, value *Value) Entry {
	return Entry{Key: Text(key), Value: value}
}

// Null returns the null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Bool returns a boolean value.
func Bool(v bool) *Value {
	return &Value{kind: KindBool, b: v}
}

// Int returns an integer value.
func Int(v int64) *Value {
	if v < 0 {
		return &Value{kind: KindInt, neg: true, num: uint64(-(v + 1))}
	}
	return &Value{kind: KindInt, num: uint64(v)}
}

// Uint returns an integer value for the full unsigned 64-bit range.
func Uint(v uint64) *Value {
	return &Value{kind: KindInt, num: v}
}

// NegInt returns the negative integer -1-arg. It reaches the part of the
// wire range below math.MinInt64 that Int cannot express.
func NegInt(arg uint64) *Value {
	return &Value{kind: KindInt, neg: true, num: arg}
}

// Float returns a float value. All NaN inputs collapse to the single
// NaN bit pattern the wire format permits.
func Float(v float64) *Value {
	if math.IsNaN(v) {
		v = math.Float64frombits(canonicalNaN)
	}
	return &Value{kind: KindFloat, f: v}
}

// Text returns a text string value. The string must be valid UTF-8;
// encoding rejects anything else.
func Text(v string) *Value {
	return &Value{kind: KindText, s: v}
}

// Bytes returns a byte string value. The slice is not copied.
func Bytes(v []byte) *Value {
	return &Value{kind: KindBytes, raw: v}
}

// Array returns an array value.
func Array(values ...*Value) *Value {
	return &Value{kind: KindArray, list: values}
}

// Map returns a map value. Entries are sorted ascending by the canonical
// encoding of their keys; duplicate keys are reported by Encode. Panics
// if an entry key is not a text or byte string.
func Map(entries ...Entry) *Value {
	for _, e := range entries {
		if e.Key == nil || (e.Key.kind != KindText && e.Key.kind != KindBytes) {
			panic("drisl: map key must be text or bytes")
		}
	}
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return bytes.Compare(encodedKey(sorted[i].Key), encodedKey(sorted[j].Key)) < 0
	})
	return &Value{kind: KindMap, entries: sorted}
}

// Link returns a link value holding raw CID bytes. The slice is not
// copied. On the wire a link is tag 42 around the CID prefixed with a
// zero multibase byte.
func Link(cid []byte) *Value {
	return &Value{kind: KindLink, raw: cid}
}

// Kind returns the value kind. A nil value reports KindNull.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether the value is null.
func (v *Value) IsNull() bool {
	return v == nil || v.kind == KindNull
}

// AsBool returns the boolean value.
func (v *Value) AsBool() (bool, error) {
	if v == nil || v.kind != KindBool {
		return false, kindError("bool", v)
	}
	return v.b, nil
}

// AsInt returns the integer as an int64, or a range error when it does
// not fit.
func (v *Value) AsInt() (int64, error) {
	if v == nil || v.kind != KindInt {
		return 0, kindError("int", v)
	}
	if v.neg {
		if v.num > math.MaxInt64 {
			return 0, fmt.Errorf("drisl: integer %s out of int64 range", v.intString())
		}
		return -1 - int64(v.num), nil
	}
	if v.num > math.MaxInt64 {
		return 0, fmt.Errorf("drisl: integer %s out of int64 range", v.intString())
	}
	return int64(v.num), nil
}

// AsUint returns the integer as a uint64, or a range error when it is
// negative.
func (v *Value) AsUint() (uint64, error) {
	if v == nil || v.kind != KindInt {
		return 0, kindError("int", v)
	}
	if v.neg {
		return 0, fmt.Errorf("drisl: integer %s out of uint64 range", v.intString())
	}
	return v.num, nil
}

// IntParts exposes the raw integer representation: the logical value is
// arg when neg is false, -1-arg when neg is true.
func (v *Value) IntParts() (neg bool, arg uint64, err error) {
	if v == nil || v.kind != KindInt {
		return false, 0, kindError("int", v)
	}
	return v.neg, v.num, nil
}

// AsFloat returns the float value.
func (v *Value) AsFloat() (float64, error) {
	if v == nil || v.kind != KindFloat {
		return 0, kindError("float", v)
	}
	return v.f, nil
}

// AsText returns the text string value.
func (v *Value) AsText() (string, error) {
	if v == nil || v.kind != KindText {
		return "", kindError("text", v)
	}
	return v.s, nil
}

// AsBytes returns the byte string value. The returned slice must not be
// modified.
func (v *Value) AsBytes() ([]byte, error) {
	if v == nil || v.kind != KindBytes {
		return nil, kindError("bytes", v)
	}
	return v.raw, nil
}

// AsLink returns the raw CID bytes of a link. The returned slice must
// not be modified.
func (v *Value) AsLink() ([]byte, error) {
	if v == nil || v.kind != KindLink {
		return nil, kindError("link", v)
	}
	return v.raw, nil
}

// AsArray returns the array elements.
func (v *Value) AsArray() ([]*Value, error) {
	if v == nil || v.kind != KindArray {
		return nil, kindError("array", v)
	}
	return v.list, nil
}

// AsMap returns the map entries in canonical key order.
func (v *Value) AsMap() ([]Entry, error) {
	if v == nil || v.kind != KindMap {
		return nil, kindError("map", v)
	}
	return v.entries, nil
}

// Len returns the element count of an array or map, and 0 otherwise.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.kind {
	case KindArray:
		return len(v.list)
	case KindMap:
		return len(v.entries)
	}
	return 0
}

// Get returns the value stored under a text key, or nil.
func (v *Value) Get(key string) *Value {
	if v == nil || v.kind != KindMap {
		return nil
	}
	for _, e := range v.entries {
		if e.Key.kind == KindText && e.Key.s == key {
			return e.Value
		}
	}
	return nil
}

// Index returns the i-th element of an array.
func (v *Value) Index(i int) (*Value, error) {
	if v == nil || v.kind != KindArray {
		return nil, kindError("array", v)
	}
	if i < 0 || i >= len(v.list) {
		return nil, fmt.Errorf("drisl: index %d out of bounds (len=%d)", i, len(v.list))
	}
	return v.list[i], nil
}

// Equal reports whether two values are the same logical value. Floats
// compare by bit pattern, so 0.0 and -0.0 differ and the canonical NaN
// equals itself.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v.IsNull() && o.IsNull()
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.neg == o.neg && v.num == o.num
	case KindFloat:
		return math.Float64bits(v.f) == math.Float64bits(o.f)
	case KindText:
		return v.s == o.s
	case KindBytes, KindLink:
		return bytes.Equal(v.raw, o.raw)
	case KindArray:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.entries) != len(o.entries) {
			return false
		}
		for i := range v.entries {
			if !v.entries[i].Key.Equal(o.entries[i].Key) ||
				!v.entries[i].Value.Equal(o.entries[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders the value in a compact diagnostic notation.
func (v *Value) String() string {
	if v == nil {
		return "null"
	}
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return v.intString()
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindText:
		return strconv.Quote(v.s)
	case KindBytes:
		return "h'" + hex.EncodeToString(v.raw) + "'"
	case KindLink:
		return "42(h'00" + hex.EncodeToString(v.raw) + "')"
	case KindArray:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, el := range v.list {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(el.String())
		}
		sb.WriteByte(']')
		return sb.String()
	case KindMap:
		var sb strings.Builder
		sb.WriteByte('{')
		for i, e := range v.entries {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(e.Key.String())
			sb.WriteString(": ")
			sb.WriteString(e.Value.String())
		}
		sb.WriteByte('}')
		return sb.String()
	}
	return "unknown"
}

// intString formats the full integer range, including -2^64 which no Go
// integer type holds.
func (v *Value) intString() string {
	if !v.neg {
		return strconv.FormatUint(v.num, 10)
	}
	if v.num == math.MaxUint64 {
		return "-18446744073709551616"
	}
	return "-" + strconv.FormatUint(v.num+1, 10)
}

func kindError(want string, v *Value) error {
	if v == nil {
		return fmt.Errorf("drisl: expected %s, got nil value", want)
	}
	return fmt.Errorf("drisl: expected %s, got %s", want, v.kind)
}
