// Package transcode canonicalizes foreign documents into DRISL values.
// JSON, YAML, and msgpack inputs that express the same logical document
// all reduce to the same canonical bytes, which is the point of a
// deterministic format: equality checks, hashing, and deduplication
// work on the encoding itself.
package transcode

import (
	"fmt"

	"github.com/n0-computer/dasl/drisl"
)

// FromGo maps plain Go values into a drisl Value tree. Supported inputs
// are nil, bool, all integer and float types, string, []byte, []any,
// map[string]any, and *drisl.Value (passed through). Map entries come
// out in canonical key order regardless of Go map iteration.
func FromGo(v any) (*drisl.Value, error) {
	switch t := v.(type) {
	case nil:
		return drisl.Null(), nil
	case *drisl.Value:
		return t, nil
	case bool:
		return drisl.Bool(t), nil
	case int:
		return drisl.Int(int64(t)), nil
	case int8:
		return drisl.Int(int64(t)), nil
	case int16:
		return drisl.Int(int64(t)), nil
	case int32:
		return drisl.Int(int64(t)), nil
	case int64:
		return drisl.Int(t), nil
	case uint:
		return drisl.Uint(uint64(t)), nil
	case uint8:
		return drisl.Uint(uint64(t)), nil
	case uint16:
		return drisl.Uint(uint64(t)), nil
	case uint32:
		return drisl.Uint(uint64(t)), nil
	case uint64:
		return drisl.Uint(t), nil
	case float32:
		return drisl.Float(float64(t)), nil
	case float64:
		return drisl.Float(t), nil
	case string:
		return drisl.Text(t), nil
	case []byte:
		return drisl.Bytes(t), nil
	case []any:
		list := make([]*drisl.Value, len(t))
		for i, el := range t {
			cv, err := FromGo(el)
			if err != nil {
				return nil, err
			}
			list[i] = cv
		}
		return drisl.Array(list...), nil
	case map[string]any:
		entries := make([]drisl.Entry, 0, len(t))
		for k, el := range t {
			cv, err := FromGo(el)
			if err != nil {
				return nil, err
			}
			entries = append(entries, drisl.Field(k, cv))
		}
		return drisl.Map(entries...), nil
	default:
		return nil, fmt.Errorf("transcode: unsupported type %T", v)
	}
}
