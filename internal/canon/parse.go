package canon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Parse inverts MarshalCanonical: it reads a serialized canonical value
// back into its tree form. Numbers with a fraction or exponent become
// Reals (re-rounded to RealPrecision), everything else an Int. Maps tagged
// with "$object" or "$exception" are restored to their composite variants.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse canonical value: %w", err)
	}
	return fromRaw(raw)
}

func fromRaw(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(v), nil
	case string:
		return String(norm.NFC.String(v)), nil
	case json.Number:
		return fromNumber(v)
	case []any:
		seq := make(Seq, len(v))
		for i, elem := range v {
			val, err := fromRaw(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			seq[i] = val
		}
		return seq, nil
	case map[string]any:
		return fromRawMap(v)
	default:
		return nil, fmt.Errorf("unsupported JSON shape %T", raw)
	}
}

func fromNumber(n json.Number) (Value, error) {
	s := n.String()
	if strings.ContainsAny(s, ".eE") {
		f, err := n.Float64()
		if err != nil {
			return nil, fmt.Errorf("parse real %q: %w", s, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("non-finite real %q", s)
		}
		return Real(roundReal(f)), nil
	}
	i, err := n.Int64()
	if err != nil {
		return nil, fmt.Errorf("parse integer %q: %w", s, err)
	}
	return Int(i), nil
}

func fromRawMap(raw map[string]any) (Value, error) {
	if typ, ok := raw[tagObject].(string); ok && len(raw) == 2 {
		if rawFields, ok := raw["fields"].(map[string]any); ok {
			fields := make(Map, len(rawFields))
			for k, elem := range rawFields {
				val, err := fromRaw(elem)
				if err != nil {
					return nil, fmt.Errorf("field %q: %w", k, err)
				}
				fields[norm.NFC.String(k)] = val
			}
			return Object{Type: typ, Fields: fields}, nil
		}
	}
	if kind, ok := raw[tagException].(string); ok && len(raw) == 2 {
		if msg, ok := raw["message"].(string); ok {
			return Exception{Kind: norm.NFC.String(kind), Message: norm.NFC.String(msg)}, nil
		}
	}

	m := make(Map, len(raw))
	for k, elem := range raw {
		val, err := fromRaw(elem)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", k, err)
		}
		m[norm.NFC.String(k)] = val
	}
	return m, nil
}
