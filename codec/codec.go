// Package codec binds application types to DRISL bytes. The native
// drisl package works on generic Values; this package layers typed
// encode/decode on top, with the canonical validator as the gate on
// both directions.
package codec

// Codec encodes/decodes values V to []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
