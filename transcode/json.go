package transcode

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/n0-computer/dasl/drisl"
)

// FromJSON parses a JSON document into a drisl Value. Numbers without a
// fraction or exponent become integers; everything else becomes a
// binary64 float. Duplicate object keys take the last value, matching
// encoding/json semantics.
func FromJSON(b []byte) (*drisl.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("transcode: parse json: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("transcode: trailing data after json document")
	}
	return fromJSONValue(doc)
}

func fromJSONValue(v any) (*drisl.Value, error) {
	switch t := v.(type) {
	case json.Number:
		return fromNumber(t)
	case []any:
		list := make([]*drisl.Value, len(t))
		for i, el := range t {
			cv, err := fromJSONValue(el)
			if err != nil {
				return nil, err
			}
			list[i] = cv
		}
		return drisl.Array(list...), nil
	case map[string]any:
		entries := make([]drisl.Entry, 0, len(t))
		for k, el := range t {
			cv, err := fromJSONValue(el)
			if err != nil {
				return nil, err
			}
			entries = append(entries, drisl.Field(k, cv))
		}
		return drisl.Map(entries...), nil
	default:
		return FromGo(v)
	}
}

func fromNumber(n json.Number) (*drisl.Value, error) {
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return drisl.Int(i), nil
	}
	if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
		return drisl.Uint(u), nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("transcode: number %q: %w", n.String(), err)
	}
	return drisl.Float(f), nil
}

// ToJSON renders a drisl Value as JSON for inspection. Byte strings and
// links have no JSON form; they appear as single-entry objects
// {"$bytes": "<hex>"} and {"$link": "<hex>"}, and a bytes map key is
// rendered as "0x<hex>". The output is for humans and tooling, not a
// reversible encoding.
func ToJSON(v *drisl.Value) ([]byte, error) {
	doc, err := toJSONValue(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

func toJSONValue(v *drisl.Value) (any, error) {
	switch v.Kind() {
	case drisl.KindNull:
		return nil, nil
	case drisl.KindBool:
		b, _ := v.AsBool()
		return b, nil
	case drisl.KindInt:
		if i, err := v.AsInt(); err == nil {
			return i, nil
		}
		if u, err := v.AsUint(); err == nil {
			return u, nil
		}
		// Below int64: JSON numbers lose it, fall back to a string.
		return v.String(), nil
	case drisl.KindFloat:
		f, _ := v.AsFloat()
		return f, nil
	case drisl.KindText:
		s, _ := v.AsText()
		return s, nil
	case drisl.KindBytes:
		b, _ := v.AsBytes()
		return map[string]any{"$bytes": hex.EncodeToString(b)}, nil
	case drisl.KindLink:
		cid, _ := v.AsLink()
		return map[string]any{"$link": hex.EncodeToString(cid)}, nil
	case drisl.KindArray:
		els, _ := v.AsArray()
		list := make([]any, len(els))
		for i, el := range els {
			cv, err := toJSONValue(el)
			if err != nil {
				return nil, err
			}
			list[i] = cv
		}
		return list, nil
	case drisl.KindMap:
		entries, _ := v.AsMap()
		doc := make(map[string]any, len(entries))
		for _, e := range entries {
			var key string
			if s, err := e.Key.AsText(); err == nil {
				key = s
			} else {
				kb, _ := e.Key.AsBytes()
				key = "0x" + hex.EncodeToString(kb)
			}
			cv, err := toJSONValue(e.Value)
			if err != nil {
				return nil, err
			}
			doc[key] = cv
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("transcode: unsupported kind %s", v.Kind())
	}
}
