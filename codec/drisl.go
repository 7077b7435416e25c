package codec

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/n0-computer/dasl/drisl"
)

// DRISL is a Codec that binds Go structs to canonical DRISL bytes
// through fxamacker/cbor. The zero value is NOT ready to use; construct
// with NewDRISL or MustDRISL.
//
// Encode marshals with a deterministic profile (bytewise-lexical key
// sort, binary64 floats, no indefinite lengths) and then runs the
// output through the native validator, so a successful Encode always
// yields bytes Decode accepts. Decode validates canonical form first
// and only then unmarshals into V; non-canonical input never reaches
// the reflection layer.
type DRISL[V any] struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var _ Codec[struct{}] = DRISL[struct{}]{}

// NewDRISL constructs a DRISL codec.
func NewDRISL[V any]() (DRISL[V], error) {
	em, err := cbor.EncOptions{
		Sort:          cbor.SortBytewiseLexical,
		ShortestFloat: cbor.ShortestFloatNone,
		NaNConvert:    cbor.NaNConvertNone,
		InfConvert:    cbor.InfConvertNone,
		IndefLength:   cbor.IndefLengthForbidden,
	}.EncMode()
	if err != nil {
		return DRISL[V]{}, err
	}
	dm, err := cbor.DecOptions{
		// When the target is any-typed, decode maps as map[string]any
		// rather than the CBOR default map[any]any.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		return DRISL[V]{}, err
	}
	return DRISL[V]{enc: em, dec: dm}, nil
}

// MustDRISL is like NewDRISL but panics on error. Handy for
// package-level variables in tests and examples.
func MustDRISL[V any]() DRISL[V] {
	c, err := NewDRISL[V]()
	if err != nil {
		panic(err)
	}
	return c
}

// Encode encodes v as canonical DRISL bytes.
func (c DRISL[V]) Encode(v V) ([]byte, error) {
	b, err := c.enc.Marshal(v)
	if err != nil {
		return nil, err
	}
	if _, err := drisl.Decode(b); err != nil {
		// The value reached an encoding outside the subset (for
		// example a NaN with payload bits). Surface it rather than
		// emitting non-canonical bytes.
		return nil, fmt.Errorf("codec: encoded form not canonical: %w", err)
	}
	return b, nil
}

// Decode validates b as canonical DRISL and decodes it into a V.
func (c DRISL[V]) Decode(b []byte) (V, error) {
	var v V
	if _, err := drisl.Decode(b); err != nil {
		return v, err
	}
	err := c.dec.Unmarshal(b, &v)
	return v, err
}
