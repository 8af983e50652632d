package engine

import "time"

// Config carries the engine's runtime knobs. Zero values are filled in by
// DefaultConfig; callers override fields before constructing a Runner.
type Config struct {
	// SnapshotDir is the directory holding the per-module store files.
	SnapshotDir string

	// DefaultPolicy resolves mismatches when no per-evaluation override
	// is given.
	DefaultPolicy Policy

	// ShowDiffs prints the structural diff before prompting or failing.
	ShowDiffs bool

	// CIMode forces every mismatch and missing baseline to fail, so an
	// unattended run can never mutate stores or block on a prompt.
	CIMode bool

	// LockTimeout bounds waits on another process's store lock.
	LockTimeout time.Duration
}

// DefaultConfig returns the interactive developer-workstation defaults.
func DefaultConfig() Config {
	return Config{
		SnapshotDir:   "snapshots",
		DefaultPolicy: PolicyInteractive,
		ShowDiffs:     true,
	}
}
