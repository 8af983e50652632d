// Package expecttest is a snapshot ("expect") testing library: a test
// computes a value, the library canonicalizes it and compares it against
// the accepted baseline stored next to the repository, and mismatches are
// resolved interactively or by policy.
//
// Typical use:
//
//	var et = expecttest.New()
//
//	func TestReport(t *testing.T) {
//		et.Check(t, "report_totals", buildReport())
//	}
//
// The first run records a baseline; later runs pass while the value's
// canonical form is unchanged and fail (or prompt, or auto-accept,
// depending on policy) when it drifts.
package expecttest

import (
	"os"
	"runtime"
	"strings"
	"testing"

	"github.com/edopica/expect-test/internal/diff"
	"github.com/edopica/expect-test/internal/engine"
	"github.com/edopica/expect-test/internal/runlog"
)

// Re-exported policy names, for configuration call sites.
const (
	PolicyInteractive = engine.PolicyInteractive
	PolicyAcceptNew   = engine.PolicyAcceptNew
	PolicyKeepOld     = engine.PolicyKeepOld
	PolicyFail        = engine.PolicyFail
)

// Tester evaluates snapshot checks for one test binary run. Construct one
// per package (a package-level var is idiomatic) so an abort latched in one
// test stops the rest of the run.
type Tester struct {
	runner *engine.Runner
	log    *runlog.Log
}

// Option customizes a Tester.
type Option func(*config)

type config struct {
	engine     engine.Config
	engineOpts []engine.Option
	runLogPath string
}

// WithSnapshotDir places the per-module store files under dir.
func WithSnapshotDir(dir string) Option {
	return func(c *config) { c.engine.SnapshotDir = dir }
}

// WithPolicy sets the mismatch resolution policy.
func WithPolicy(p engine.Policy) Option {
	return func(c *config) { c.engine.DefaultPolicy = p }
}

// WithoutDiffs suppresses diff rendering before prompts and failures.
func WithoutDiffs() Option {
	return func(c *config) { c.engine.ShowDiffs = false }
}

// WithRunLog records every evaluation outcome in a SQLite log at path.
func WithRunLog(path string) Option {
	return func(c *config) { c.runLogPath = path }
}

// WithEngineOptions forwards options to the underlying engine, for tests
// that inject prompts or clocks.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(c *config) { c.engineOpts = append(c.engineOpts, opts...) }
}

// InCI reports whether the process is running under a CI system, detected
// from the conventional CI environment variable.
func InCI() bool {
	v := strings.ToLower(os.Getenv("CI"))
	return v != "" && v != "0" && v != "false"
}

// New builds a Tester. CI mode is detected from the environment: under CI
// every mismatch fails and stores are never mutated.
func New(opts ...Option) *Tester {
	c := config{engine: engine.DefaultConfig()}
	c.engine.CIMode = InCI()
	for _, opt := range opts {
		opt(&c)
	}

	t := &Tester{}
	if c.runLogPath != "" {
		if log, err := runlog.Open(c.runLogPath); err == nil {
			t.log = log
			c.engineOpts = append(c.engineOpts, engine.WithRunLog(log))
		}
	}
	t.runner = engine.NewRunner(c.engine, c.engineOpts...)
	return t
}

// Check snapshots value under key. The snapshot module is derived from the
// caller's source file, so checks in foo_test.go land in
// foo_test.snapshots.json.
func (et *Tester) Check(t testing.TB, key string, value any) bool {
	t.Helper()
	return et.check(t, key, func() (any, error) { return value, nil })
}

// CheckFn snapshots the result of compute. Returned errors and panics are
// captured as exception values and snapshot like any other result, so a
// test can pin down failure modes too.
func (et *Tester) CheckFn(t testing.TB, key string, compute func() (any, error)) bool {
	t.Helper()
	return et.check(t, key, compute)
}

func (et *Tester) check(t testing.TB, key string, compute func() (any, error)) bool {
	t.Helper()

	src := engine.SourceLocation{File: "unknown", Line: 0}
	// Two frames up: check's caller is Check/CheckFn's caller.
	if _, file, line, ok := runtime.Caller(2); ok {
		src = engine.SourceLocation{File: file, Line: line}
	}

	res, err := et.runner.Evaluate(key, compute, src)
	switch res.Outcome {
	case engine.OutcomeAborted:
		t.Fatalf("snapshot %q: run aborted by user, %d later evaluation(s) not reached",
			key, et.runner.Skipped())
		return false
	case engine.OutcomeFailed:
		if len(res.Changes) > 0 {
			t.Errorf("snapshot %q differs from baseline:\n%s", key, diff.Render(res.Changes))
		} else {
			t.Errorf("snapshot %q: %v", key, err)
		}
		return false
	default:
		if err != nil {
			t.Errorf("snapshot %q: %v", key, err)
			return false
		}
		return true
	}
}

// Aborted reports whether a previous check quit the run.
func (et *Tester) Aborted() bool { return et.runner.Aborted() }

// Close releases the run log, if one was attached.
func (et *Tester) Close() error {
	if et.log != nil {
		return et.log.Close()
	}
	return nil
}
