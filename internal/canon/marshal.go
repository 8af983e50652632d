package canon

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Serialization tags for shapes plain JSON cannot express on its own.
// A value that begins with one of these keys is unambiguous on parse
// because canonical Maps never co-occur them with the paired field.
const (
	tagObject    = "$object"
	tagException = "$exception"
)

// MarshalCanonical produces the byte-stable serialized form of a canonical
// value: sorted keys, NFC-normalized strings, no HTML escaping, and reals
// always carrying a decimal point so Int and Real never collide on parse.
// This is the only serialization digests are computed over.
func MarshalCanonical(v Value) []byte {
	return AppendCanonical(nil, v)
}

// AppendCanonical appends the canonical serialization of v to dst.
func AppendCanonical(dst []byte, v Value) []byte {
	switch val := v.(type) {
	case Null:
		return append(dst, "null"...)
	case Bool:
		if val {
			return append(dst, "true"...)
		}
		return append(dst, "false"...)
	case Int:
		return strconv.AppendInt(dst, int64(val), 10)
	case Real:
		return appendReal(dst, float64(val))
	case String:
		return appendString(dst, string(val))
	case Seq:
		dst = append(dst, '[')
		for i, elem := range val {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = AppendCanonical(dst, elem)
		}
		return append(dst, ']')
	case Map:
		return appendMap(dst, val)
	case Object:
		dst = append(dst, '{')
		dst = appendString(dst, tagObject)
		dst = append(dst, ':')
		dst = appendString(dst, val.Type)
		dst = append(dst, ',')
		dst = appendString(dst, "fields")
		dst = append(dst, ':')
		dst = appendMap(dst, val.Fields)
		return append(dst, '}')
	case Exception:
		dst = append(dst, '{')
		dst = appendString(dst, tagException)
		dst = append(dst, ':')
		dst = appendString(dst, val.Kind)
		dst = append(dst, ',')
		dst = appendString(dst, "message")
		dst = append(dst, ':')
		dst = appendString(dst, val.Message)
		return append(dst, '}')
	default:
		// Value is sealed; this is unreachable for well-formed trees.
		panic("canon: unknown Value variant")
	}
}

func appendMap(dst []byte, m Map) []byte {
	dst = append(dst, '{')
	for i, k := range m.SortedKeys() {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = appendString(dst, k)
		dst = append(dst, ':')
		dst = AppendCanonical(dst, m[k])
	}
	return append(dst, '}')
}

// appendReal formats a rounded real. The shortest round-tripping form is
// used, with ".0" appended to integral values so the parser can tell a
// Real from an Int.
func appendReal(dst []byte, f float64) []byte {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return append(dst, s...)
}

// appendString encodes a JSON string with NFC normalization and HTML
// escaping disabled, the same way the store file is written.
func appendString(dst []byte, s string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		// Encoding a string cannot fail.
		panic("canon: encode string: " + err.Error())
	}
	b := buf.Bytes()
	if n := len(b); n > 0 && b[n-1] == '\n' {
		b = b[:n-1]
	}
	return append(dst, b...)
}
