package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalDeterminism(t *testing.T) {
	v := Map{
		"zeta":  Int(1),
		"alpha": Seq{String("x"), Bool(false)},
		"mid":   Map{"inner": Real(2.5)},
	}

	first := MarshalCanonical(v)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, MarshalCanonical(v))
	}
	assert.Equal(t, `{"alpha":["x",false],"mid":{"inner":2.5},"zeta":1}`, string(first))
}

func TestMarshalCanonicalSortsKeysByByteOrder(t *testing.T) {
	v := Map{"b": Int(2), "a": Int(1), "B": Int(3)}
	// Uppercase sorts before lowercase in byte order.
	assert.Equal(t, `{"B":3,"a":1,"b":2}`, string(MarshalCanonical(v)))
}

func TestMarshalCanonicalRealAlwaysHasDecimalPoint(t *testing.T) {
	assert.Equal(t, "2.0", string(MarshalCanonical(Real(2))))
	assert.Equal(t, "2.5", string(MarshalCanonical(Real(2.5))))
	assert.Equal(t, "2", string(MarshalCanonical(Int(2))))
}

func TestMarshalCanonicalNoHTMLEscaping(t *testing.T) {
	assert.Equal(t, `"<a href=\"x\">&</a>"`, string(MarshalCanonical(String(`<a href="x">&</a>`))))
}

func TestMarshalCanonicalTaggedShapes(t *testing.T) {
	obj := Object{Type: "report", Fields: Map{"count": Int(3)}}
	assert.Equal(t, `{"$object":"report","fields":{"count":3}}`, string(MarshalCanonical(obj)))

	exc := Exception{Kind: "errors.errorString", Message: "boom"}
	assert.Equal(t, `{"$exception":"errors.errorString","message":"boom"}`, string(MarshalCanonical(exc)))
}

func TestParseRoundTrip(t *testing.T) {
	values := []Value{
		Null{},
		Bool(true),
		Int(-42),
		Real(3.5),
		String("hello"),
		Seq{Int(1), Null{}, String("x")},
		Map{"a": Int(1), "nested": Map{"b": Seq{Real(0.5)}}},
		Object{Type: "report", Fields: Map{"count": Int(3)}},
		Exception{Kind: "errors.errorString", Message: "boom"},
	}
	for _, v := range values {
		data := MarshalCanonical(v)
		parsed, err := Parse(data)
		require.NoError(t, err, "parse %s", data)
		assert.True(t, Equal(v, parsed), "round trip %s", data)
		assert.Equal(t, Digest(v), Digest(parsed))
	}
}

func TestParseDistinguishesIntFromReal(t *testing.T) {
	i, err := Parse([]byte("2"))
	require.NoError(t, err)
	r, err := Parse([]byte("2.0"))
	require.NoError(t, err)

	assert.False(t, Equal(i, r), "2 and 2.0 are different values")
	assert.NotEqual(t, Digest(i), Digest(r))
}

func TestParseRejectsMalformedInput(t *testing.T) {
	for _, data := range []string{"", "{", `{"a":}`, "tru"} {
		_, err := Parse([]byte(data))
		assert.Error(t, err, "input %q", data)
	}
}

func TestParsePlainMapWithTagLikeKey(t *testing.T) {
	// A map carrying only "$object" (without "fields") stays a plain map.
	parsed, err := Parse([]byte(`{"$object":"x"}`))
	require.NoError(t, err)
	_, isMap := parsed.(Map)
	assert.True(t, isMap, "got %#v", parsed)
}
