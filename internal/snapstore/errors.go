package snapstore

import (
	"fmt"
	"time"
)

// CorruptError reports a persisted store file that failed to parse. The
// file is left exactly as found: no auto-repair, no truncation, so nothing
// is lost to a bad parse.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("snapshot store %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// LockTimeoutError reports failure to acquire the store's exclusive lock
// within the configured bound. The in-memory working copy is unaffected.
type LockTimeoutError struct {
	Path    string
	Timeout time.Duration
}

func (e *LockTimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for lock on %s", e.Timeout, e.Path)
}
