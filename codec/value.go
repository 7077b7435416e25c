package codec

import "github.com/n0-computer/dasl/drisl"

// Value is the identity codec for generic drisl Values. Useful when a
// caller keeps the decoded tree as-is and only needs the Codec shape.
type Value struct{}

var _ Codec[*drisl.Value] = Value{}

func (Value) Encode(v *drisl.Value) ([]byte, error) { return drisl.Encode(v) }
func (Value) Decode(b []byte) (*drisl.Value, error) { return drisl.Decode(b) }
