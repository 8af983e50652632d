// Package diff computes structural differences between canonical values.
//
// The diff is path-scoped and deterministic: traversal is depth-first with
// map keys in sorted order, so the same pair of trees always yields the
// same change list. Sequences are compared by index only; inserting an
// element in the middle of a sequence reports every later position as
// changed. That positional behavior is a documented limitation, not a bug.
package diff

import (
	"fmt"
	"strings"

	"github.com/edopica/expect-test/internal/canon"
)

// Kind classifies a single change.
type Kind string

const (
	// Added means the path exists only in the new value.
	Added Kind = "added"
	// Removed means the path exists only in the old value.
	Removed Kind = "removed"
	// Changed means the path exists in both but the values differ.
	Changed Kind = "changed"
)

// Step is one segment of a change path: either a map/object key or a
// sequence index.
type Step struct {
	Key   string
	Index int
	// indexed distinguishes Index 0 from an unset index.
	indexed bool
}

// KeyStep returns a path step addressing a map key or object field.
func KeyStep(key string) Step { return Step{Key: key} }

// IndexStep returns a path step addressing a sequence position.
func IndexStep(i int) Step { return Step{Index: i, indexed: true} }

// IsIndex reports whether the step addresses a sequence position.
func (s Step) IsIndex() bool { return s.indexed }

// Path locates a change within a canonical tree. An empty path addresses
// the root.
type Path []Step

// String renders a path as "users[0].name". The empty path renders as
// "(root)".
func (p Path) String() string {
	if len(p) == 0 {
		return "(root)"
	}
	var b strings.Builder
	for i, s := range p {
		if s.IsIndex() {
			fmt.Fprintf(&b, "[%d]", s.Index)
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.Key)
	}
	return b.String()
}

// Change is a single path-scoped difference. Old is nil for Added, New is
// nil for Removed, and both are set for Changed.
type Change struct {
	Path Path
	Kind Kind
	Old  canon.Value
	New  canon.Value
}

// Diff computes the ordered list of changes that turn old into new.
// An empty result means the trees are structurally equal, which is
// consistent with digest equality.
func Diff(old, new canon.Value) []Change {
	return walk(nil, old, new, nil)
}

func walk(path Path, old, new canon.Value, acc []Change) []Change {
	switch ov := old.(type) {
	case canon.Map:
		if nv, ok := new.(canon.Map); ok {
			return walkMaps(path, ov, nv, acc)
		}
	case canon.Seq:
		if nv, ok := new.(canon.Seq); ok {
			return walkSeqs(path, ov, nv, acc)
		}
	case canon.Object:
		// Objects align only when the type name matches; otherwise the
		// whole subtree is reported as one change.
		if nv, ok := new.(canon.Object); ok && ov.Type == nv.Type {
			return walkMaps(path, ov.Fields, nv.Fields, acc)
		}
	}
	if canon.Equal(old, new) {
		return acc
	}
	return append(acc, Change{Path: clonePath(path), Kind: Changed, Old: old, New: new})
}

func walkMaps(path Path, old, new canon.Map, acc []Change) []Change {
	for _, k := range unionKeys(old, new) {
		ov, inOld := old[k]
		nv, inNew := new[k]
		p := append(path, KeyStep(k))
		switch {
		case !inNew:
			acc = append(acc, Change{Path: clonePath(p), Kind: Removed, Old: ov})
		case !inOld:
			acc = append(acc, Change{Path: clonePath(p), Kind: Added, New: nv})
		default:
			acc = walk(p, ov, nv, acc)
		}
	}
	return acc
}

func walkSeqs(path Path, old, new canon.Seq, acc []Change) []Change {
	n := min(len(old), len(new))
	for i := 0; i < n; i++ {
		acc = walk(append(path, IndexStep(i)), old[i], new[i], acc)
	}
	for i := n; i < len(old); i++ {
		acc = append(acc, Change{Path: clonePath(append(path, IndexStep(i))), Kind: Removed, Old: old[i]})
	}
	for i := n; i < len(new); i++ {
		acc = append(acc, Change{Path: clonePath(append(path, IndexStep(i))), Kind: Added, New: new[i]})
	}
	return acc
}

func unionKeys(a, b canon.Map) []string {
	merged := make(canon.Map, len(a)+len(b))
	for k := range a {
		merged[k] = canon.Null{}
	}
	for k := range b {
		merged[k] = canon.Null{}
	}
	return merged.SortedKeys()
}

// clonePath detaches a path from the shared traversal buffer so stored
// changes are not aliased by later appends.
func clonePath(p Path) Path {
	if len(p) == 0 {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}
