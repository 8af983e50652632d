package canon

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// RealPrecision is the number of decimal places reals are rounded to
// before encoding. Rounding happens once, at canonicalization, so platform
// float noise cannot leak into stored snapshots.
const RealPrecision = 9

const realScale = 1e9 // 10^RealPrecision

// SerializationError reports a value that has no canonical representation:
// a reference cycle, an unsupported shape, or a non-finite number.
type SerializationError struct {
	Type   string // Go type of the offending value
	Reason string
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("cannot canonicalize %s: %s", e.Type, e.Reason)
}

func serializationErr(t reflect.Type, reason string) *SerializationError {
	name := "<nil>"
	if t != nil {
		name = t.String()
	}
	return &SerializationError{Type: name, Reason: reason}
}

// Canonicalize converts a runtime value into its canonical tree.
//
// Supported shapes: nil, booleans, all integer widths, float32/64, strings,
// []byte (as text), slices and arrays, maps with string keys, structs
// (exported fields captured as a tagged Object), pointers and interfaces
// (dereferenced), error values (tagged Exception), and time.Time (RFC 3339
// text). Anything else fails with *SerializationError.
//
// Canonicalization is deterministic: observably equal inputs always yield
// structurally identical trees.
func Canonicalize(v any) (Value, error) {
	if err, ok := v.(error); ok {
		return CanonicalizeError(err), nil
	}
	c := &canonicalizer{visiting: make(map[uintptr]struct{})}
	return c.walk(reflect.ValueOf(v))
}

// CanonicalizeError converts a raised error into its canonical Exception.
// Kind is the error's dynamic Go type name with any leading '*' trimmed;
// the message is the Error() text, never a stack trace.
func CanonicalizeError(err error) Exception {
	kind := strings.TrimPrefix(reflect.TypeOf(err).String(), "*")
	return Exception{
		Kind:    kind,
		Message: norm.NFC.String(err.Error()),
	}
}

type canonicalizer struct {
	// visiting holds the addresses of pointers, maps, and slices on the
	// current walk path. Revisiting one means a reference cycle.
	visiting map[uintptr]struct{}
}

func (c *canonicalizer) walk(rv reflect.Value) (Value, error) {
	if !rv.IsValid() {
		return Null{}, nil
	}

	// Errors reached through containers canonicalize as exceptions too.
	if rv.CanInterface() {
		if err, ok := rv.Interface().(error); ok && err != nil {
			return CanonicalizeError(err), nil
		}
		if t, ok := rv.Interface().(time.Time); ok {
			return String(t.UTC().Format(time.RFC3339Nano)), nil
		}
	}

	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, serializationErr(rv.Type(), fmt.Sprintf("unsigned value %d overflows int64", u))
		}
		return Int(int64(u)), nil

	case reflect.Float32, reflect.Float64:
		return canonicalizeReal(rv.Float(), rv.Type())

	case reflect.String:
		return String(norm.NFC.String(rv.String())), nil

	case reflect.Slice:
		if rv.IsNil() {
			return Null{}, nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return String(norm.NFC.String(string(rv.Bytes()))), nil
		}
		if err := c.enter(rv.Pointer(), rv.Type()); err != nil {
			return nil, err
		}
		defer c.leave(rv.Pointer())
		return c.walkSeq(rv)

	case reflect.Array:
		return c.walkSeq(rv)

	case reflect.Map:
		if rv.IsNil() {
			return Null{}, nil
		}
		if rv.Type().Key().Kind() != reflect.String {
			return nil, serializationErr(rv.Type(), "map keys must be strings")
		}
		if err := c.enter(rv.Pointer(), rv.Type()); err != nil {
			return nil, err
		}
		defer c.leave(rv.Pointer())
		m := make(Map, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			elem, err := c.walk(iter.Value())
			if err != nil {
				return nil, err
			}
			m[norm.NFC.String(iter.Key().String())] = elem
		}
		return m, nil

	case reflect.Struct:
		return c.walkStruct(rv)

	case reflect.Pointer:
		if rv.IsNil() {
			return Null{}, nil
		}
		if err := c.enter(rv.Pointer(), rv.Type()); err != nil {
			return nil, err
		}
		defer c.leave(rv.Pointer())
		return c.walk(rv.Elem())

	case reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}
		return c.walk(rv.Elem())

	default:
		return nil, serializationErr(rv.Type(), "unsupported shape")
	}
}

func (c *canonicalizer) walkSeq(rv reflect.Value) (Value, error) {
	seq := make(Seq, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		elem, err := c.walk(rv.Index(i))
		if err != nil {
			return nil, err
		}
		seq[i] = elem
	}
	return seq, nil
}

// walkStruct captures a struct's exported fields as a tagged Object.
// Unexported fields are invisible to callers and therefore excluded.
func (c *canonicalizer) walkStruct(rv reflect.Value) (Value, error) {
	t := rv.Type()
	fields := make(Map)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		elem, err := c.walk(rv.Field(i))
		if err != nil {
			return nil, err
		}
		fields[norm.NFC.String(f.Name)] = elem
	}
	name := t.Name()
	if name == "" {
		name = "struct"
	}
	return Object{Type: name, Fields: fields}, nil
}

func canonicalizeReal(f float64, t reflect.Type) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, serializationErr(t, "non-finite real")
	}
	return Real(roundReal(f)), nil
}

// roundReal rounds to RealPrecision decimal places. Magnitudes at or above
// 1e15 carry no fractional precision in a float64, and scaling them by
// realScale can overflow to Inf, so they pass through unrounded.
func roundReal(f float64) float64 {
	if math.Abs(f) >= 1e15 {
		return f
	}
	return math.Round(f*realScale) / realScale
}

func (c *canonicalizer) enter(addr uintptr, t reflect.Type) error {
	if _, ok := c.visiting[addr]; ok {
		return serializationErr(t, "reference cycle detected")
	}
	c.visiting[addr] = struct{}{}
	return nil
}

func (c *canonicalizer) leave(addr uintptr) {
	delete(c.visiting, addr)
}
