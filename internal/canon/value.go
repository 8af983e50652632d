package canon

import (
	"slices"
)

// Value is a sealed interface over the canonical value vocabulary.
// Only Null, Bool, Int, Real, String, Seq, Map, Object, and Exception
// implement it.
type Value interface {
	value() // sealed
}

// Null represents the absence of a value.
// An explicit type keeps the sealed interface total over nil results.
type Null struct{}

func (Null) value() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) value() {}

// Int represents an integer value. Always int64; unsigned inputs that do
// not fit are rejected at canonicalization.
type Int int64

func (Int) value() {}

// Real represents a fixed-precision real number. The canonicalizer rounds
// every real to RealPrecision decimal places before constructing one, so
// two Reals are comparable bit-for-bit.
type Real float64

func (Real) value() {}

// String represents a text value.
type String string

func (String) value() {}

// Seq represents an ordered sequence of values.
type Seq []Value

func (Seq) value() {}

// Map represents a mapping from text keys to values.
// Use SortedKeys for deterministic iteration.
type Map map[string]Value

func (Map) value() {}

// Object represents a named composite value: a runtime object captured as
// its type name plus its exposed field set.
type Object struct {
	Type   string
	Fields Map
}

func (Object) value() {}

// Exception represents a captured error: the error's declared kind and its
// message text. Stack traces are deliberately excluded as they are
// non-deterministic noise.
type Exception struct {
	Kind    string
	Message string
}

func (Exception) value() {}

// SortedKeys returns the map's keys in ascending byte order.
func (m Map) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Equal reports whether two canonical values are structurally identical.
// It is consistent with Digest: Equal(a, b) iff Digest(a) == Digest(b).
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Int:
		bv, ok := b.(Int)
		return ok && av == bv
	case Real:
		bv, ok := b.(Real)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Seq:
		bv, ok := b.(Seq)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Map:
		bv, ok := b.(Map)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			w, ok := bv[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	case Object:
		bv, ok := b.(Object)
		return ok && av.Type == bv.Type && Equal(av.Fields, bv.Fields)
	case Exception:
		bv, ok := b.(Exception)
		return ok && av == bv
	default:
		return false
	}
}
