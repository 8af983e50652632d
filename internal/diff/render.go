package diff

import (
	"fmt"
	"strings"

	"github.com/edopica/expect-test/internal/canon"
)

// Render formats a change list as plain text for terminal prompts and CLI
// output. Old values are prefixed with "-", new values with "+", one change
// block per path:
//
//	@ count
//	- 100
//	+ 101
//
// Colorization is deliberately left to callers.
func Render(changes []Change) string {
	var b strings.Builder
	for i, c := range changes {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "@ %s (%s)\n", c.Path, c.Kind)
		if c.Old != nil {
			fmt.Fprintf(&b, "- %s\n", canon.MarshalCanonical(c.Old))
		}
		if c.New != nil {
			fmt.Fprintf(&b, "+ %s\n", canon.MarshalCanonical(c.New))
		}
	}
	return b.String()
}
