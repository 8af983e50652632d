package engine

import (
	"errors"
	"fmt"

	"github.com/edopica/expect-test/internal/diff"
)

// ErrRunAborted is returned by every evaluation after the user quits from
// the interactive prompt. The run-level abort is latched: no later
// evaluation in the process prompts or touches a store.
var ErrRunAborted = errors.New("run aborted by user")

// MismatchError reports an evaluation that failed against its baseline.
type MismatchError struct {
	Key        string
	Changes    []diff.Change
	NoBaseline bool
}

func (e *MismatchError) Error() string {
	if e.NoBaseline {
		return fmt.Sprintf("snapshot %q: no accepted baseline", e.Key)
	}
	return fmt.Sprintf("snapshot %q: value differs from baseline in %d place(s)", e.Key, len(e.Changes))
}
