package transcode

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/n0-computer/dasl/drisl"
)

// FromMsgpack parses a msgpack document into a drisl Value. Msgpack
// distinguishes binary from text, so byte strings survive the trip,
// unlike JSON input.
func FromMsgpack(b []byte) (*drisl.Value, error) {
	var doc any
	if err := msgpack.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("transcode: parse msgpack: %w", err)
	}
	return fromMsgpackValue(doc)
}

func fromMsgpackValue(v any) (*drisl.Value, error) {
	switch t := v.(type) {
	case map[string]any:
		entries := make([]drisl.Entry, 0, len(t))
		for k, el := range t {
			cv, err := fromMsgpackValue(el)
			if err != nil {
				return nil, err
			}
			entries = append(entries, drisl.Field(k, cv))
		}
		return drisl.Map(entries...), nil
	case map[any]any:
		entries := make([]drisl.Entry, 0, len(t))
		for k, el := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("transcode: unsupported msgpack map key %T", k)
			}
			cv, err := fromMsgpackValue(el)
			if err != nil {
				return nil, err
			}
			entries = append(entries, drisl.Field(ks, cv))
		}
		return drisl.Map(entries...), nil
	case []any:
		list := make([]*drisl.Value, len(t))
		for i, el := range t {
			cv, err := fromMsgpackValue(el)
			if err != nil {
				return nil, err
			}
			list[i] = cv
		}
		return drisl.Array(list...), nil
	default:
		return FromGo(v)
	}
}
