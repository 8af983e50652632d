package canon

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizePrimitives(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Null{}},
		{"bool", true, Bool(true)},
		{"int", 42, Int(42)},
		{"int64", int64(-7), Int(-7)},
		{"uint", uint(9), Int(9)},
		{"string", "hello", String("hello")},
		{"bytes", []byte("raw"), String("raw")},
		{"nil slice", []int(nil), Null{}},
		{"nil map", map[string]int(nil), Null{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonicalize(tt.in)
			require.NoError(t, err)
			assert.True(t, Equal(tt.want, got), "got %#v", got)
		})
	}
}

func TestCanonicalizeComposites(t *testing.T) {
	got, err := Canonicalize(map[string]any{
		"items": []any{1, "two", 3.5},
		"ok":    true,
	})
	require.NoError(t, err)

	want := Map{
		"items": Seq{Int(1), String("two"), Real(3.5)},
		"ok":    Bool(true),
	}
	assert.True(t, Equal(want, got))
}

func TestCanonicalizeFloatRounding(t *testing.T) {
	// Ninth decimal is the last one kept.
	a, err := Canonicalize(1.0000000004)
	require.NoError(t, err)
	b, err := Canonicalize(1.0000000001)
	require.NoError(t, err)
	assert.True(t, Equal(a, b), "sub-precision noise must round away")

	c, err := Canonicalize(1.5000000004)
	require.NoError(t, err)
	d, err := Canonicalize(1.5)
	require.NoError(t, err)
	assert.Equal(t, Digest(c), Digest(d))
}

func TestCanonicalizeLargeFloats(t *testing.T) {
	// Scaling by the rounding factor must not push a finite float to Inf.
	for _, f := range []float64{1e300, -1e300, 1e15, math.MaxFloat64} {
		got, err := Canonicalize(f)
		require.NoError(t, err, "float %v", f)
		require.True(t, Equal(Real(f), got), "float %v, got %#v", f, got)

		// The serialized form stays valid and round-trips exactly.
		data := MarshalCanonical(got)
		back, err := Parse(data)
		require.NoError(t, err, "parse %q", data)
		assert.Equal(t, Digest(got), Digest(back), "float %v", f)
	}
}

func TestCanonicalizeRejectsNonFiniteFloats(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Canonicalize(f)
		var serr *SerializationError
		require.ErrorAs(t, err, &serr, "float %v", f)
	}
}

func TestCanonicalizeRejectsNonStringMapKeys(t *testing.T) {
	_, err := Canonicalize(map[int]string{1: "x"})
	var serr *SerializationError
	require.ErrorAs(t, err, &serr)
}

func TestCanonicalizeRejectsCycles(t *testing.T) {
	type node struct {
		Next *node
	}
	n := &node{}
	n.Next = n

	_, err := Canonicalize(n)
	var serr *SerializationError
	require.ErrorAs(t, err, &serr)
}

func TestCanonicalizeStruct(t *testing.T) {
	type report struct {
		Count  int
		Label  string
		hidden int // unexported fields are skipped
	}
	got, err := Canonicalize(report{Count: 3, Label: "daily", hidden: 1})
	require.NoError(t, err)

	obj, ok := got.(Object)
	require.True(t, ok, "got %#v", got)
	assert.Equal(t, "report", obj.Type)
	assert.True(t, Equal(Map{"Count": Int(3), "Label": String("daily")}, obj.Fields))
}

func TestCanonicalizeTime(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 12, 30, 0, 0, time.UTC)
	got, err := Canonicalize(ts)
	require.NoError(t, err)
	assert.True(t, Equal(String("2024-03-05T12:30:00Z"), got))
}

func TestCanonicalizeError(t *testing.T) {
	exc := CanonicalizeError(errors.New("boom"))
	assert.Equal(t, "errors.errorString", exc.Kind)
	assert.Equal(t, "boom", exc.Message)

	wrapped := CanonicalizeError(fmt.Errorf("ctx: %w", errors.New("boom")))
	assert.Equal(t, "fmt.wrapError", wrapped.Kind)
	assert.Equal(t, "ctx: boom", wrapped.Message)
}

func TestCanonicalizeErrorValue(t *testing.T) {
	// A value implementing error canonicalizes as an exception, not an
	// object.
	got, err := Canonicalize(errors.New("boom"))
	require.NoError(t, err)
	_, ok := got.(Exception)
	assert.True(t, ok, "got %#v", got)
}

func TestCanonicalizeUnicodeNormalization(t *testing.T) {
	// Same text, composed vs decomposed form.
	composed, err := Canonicalize("caf\u00e9")
	require.NoError(t, err)
	decomposed, err := Canonicalize("cafe\u0301")
	require.NoError(t, err)

	assert.True(t, Equal(composed, decomposed))
	assert.Equal(t, Digest(composed), Digest(decomposed))
}
