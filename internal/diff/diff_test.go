package diff

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edopica/expect-test/internal/canon"
)

func TestDiffEqualValues(t *testing.T) {
	values := []canon.Value{
		canon.Null{},
		canon.Int(7),
		canon.Map{"a": canon.Seq{canon.Real(1.5)}},
		canon.Object{Type: "report", Fields: canon.Map{"n": canon.Int(1)}},
	}
	for _, v := range values {
		assert.Empty(t, Diff(v, v), "value %#v", v)
	}
}

func TestDiffRootChange(t *testing.T) {
	changes := Diff(canon.Int(100), canon.Int(101))

	require.Len(t, changes, 1)
	assert.Equal(t, "(root)", changes[0].Path.String())
	assert.Equal(t, Changed, changes[0].Kind)
	assert.True(t, canon.Equal(canon.Int(100), changes[0].Old))
	assert.True(t, canon.Equal(canon.Int(101), changes[0].New))
}

func TestDiffMapsSortedOrder(t *testing.T) {
	old := canon.Map{"kept": canon.Int(1), "gone": canon.Int(2), "edited": canon.Int(3)}
	new := canon.Map{"kept": canon.Int(1), "added": canon.Int(4), "edited": canon.Int(5)}

	changes := Diff(old, new)
	require.Len(t, changes, 3)

	// Union keys visited in sorted order: added, edited, gone.
	assert.Equal(t, "added", changes[0].Path.String())
	assert.Equal(t, Added, changes[0].Kind)
	assert.Nil(t, changes[0].Old)

	assert.Equal(t, "edited", changes[1].Path.String())
	assert.Equal(t, Changed, changes[1].Kind)

	assert.Equal(t, "gone", changes[2].Path.String())
	assert.Equal(t, Removed, changes[2].Kind)
	assert.Nil(t, changes[2].New)
}

func TestDiffNestedPaths(t *testing.T) {
	old := canon.Map{"users": canon.Seq{
		canon.Map{"name": canon.String("ada")},
	}}
	new := canon.Map{"users": canon.Seq{
		canon.Map{"name": canon.String("grace")},
	}}

	changes := Diff(old, new)
	require.Len(t, changes, 1)
	assert.Equal(t, "users[0].name", changes[0].Path.String())
}

func TestDiffSequencesPositional(t *testing.T) {
	old := canon.Seq{canon.Int(1), canon.Int(2), canon.Int(3)}
	new := canon.Seq{canon.Int(0), canon.Int(1), canon.Int(2), canon.Int(3)}

	// A head insertion shifts everything: three changed positions plus a
	// trailing addition.
	changes := Diff(old, new)
	require.Len(t, changes, 4)
	assert.Equal(t, "[0]", changes[0].Path.String())
	assert.Equal(t, Changed, changes[0].Kind)
	assert.Equal(t, "[3]", changes[3].Path.String())
	assert.Equal(t, Added, changes[3].Kind)
}

func TestDiffSequenceTruncation(t *testing.T) {
	old := canon.Seq{canon.Int(1), canon.Int(2)}
	new := canon.Seq{canon.Int(1)}

	changes := Diff(old, new)
	require.Len(t, changes, 1)
	assert.Equal(t, "[1]", changes[0].Path.String())
	assert.Equal(t, Removed, changes[0].Kind)
}

func TestDiffObjects(t *testing.T) {
	old := canon.Object{Type: "report", Fields: canon.Map{"count": canon.Int(1)}}
	sameType := canon.Object{Type: "report", Fields: canon.Map{"count": canon.Int(2)}}
	otherType := canon.Object{Type: "summary", Fields: canon.Map{"count": canon.Int(1)}}

	changes := Diff(old, sameType)
	require.Len(t, changes, 1)
	assert.Equal(t, "count", changes[0].Path.String())

	// A type change is one whole-node change, not a field walk.
	changes = Diff(old, otherType)
	require.Len(t, changes, 1)
	assert.Equal(t, "(root)", changes[0].Path.String())
}

func TestDiffShapeMismatch(t *testing.T) {
	changes := Diff(canon.Seq{canon.Int(1)}, canon.Map{"a": canon.Int(1)})

	require.Len(t, changes, 1)
	assert.Equal(t, "(root)", changes[0].Path.String())
	assert.Equal(t, Changed, changes[0].Kind)
}

func TestDiffAgreesWithDigest(t *testing.T) {
	pairs := []struct {
		a, b canon.Value
	}{
		{canon.Int(1), canon.Int(1)},
		{canon.Int(1), canon.Real(1)},
		{canon.Map{"a": canon.Int(1)}, canon.Map{"a": canon.Int(1)}},
		{canon.Map{"a": canon.Int(1)}, canon.Map{"a": canon.Int(2)}},
		{canon.Seq{}, canon.Seq{}},
	}
	for _, p := range pairs {
		empty := len(Diff(p.a, p.b)) == 0
		assert.Equal(t, canon.Digest(p.a) == canon.Digest(p.b), empty,
			"diff emptiness must match digest equality for %#v vs %#v", p.a, p.b)
	}
}

func TestRender(t *testing.T) {
	changes := Diff(
		canon.Map{"count": canon.Int(100), "gone": canon.Bool(true)},
		canon.Map{"count": canon.Int(101)},
	)

	want := "@ count (changed)\n- 100\n+ 101\n\n@ gone (removed)\n- true\n"
	assert.Equal(t, want, Render(changes))
}

func TestRenderEmpty(t *testing.T) {
	assert.Equal(t, "", Render(nil))
}

func TestRenderGolden(t *testing.T) {
	old := canon.Map{
		"totals": canon.Map{"count": canon.Int(3), "sum": canon.Real(10.5)},
		"users":  canon.Seq{canon.String("ada")},
	}
	new := canon.Map{
		"totals": canon.Map{"count": canon.Int(4)},
		"users":  canon.Seq{canon.String("ada"), canon.String("grace")},
		"note":   canon.String("weekly"),
	}

	g := goldie.New(t)
	g.Assert(t, "render", []byte(Render(Diff(old, new))))
}
