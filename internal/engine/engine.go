// Package engine evaluates computed values against accepted snapshot
// baselines and resolves mismatches according to the configured policy.
//
// The engine is deliberately single-threaded: evaluations mutate per-module
// working copies and an interactive prompt cannot meaningfully interleave.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/edopica/expect-test/internal/canon"
	"github.com/edopica/expect-test/internal/diff"
	"github.com/edopica/expect-test/internal/runlog"
	"github.com/edopica/expect-test/internal/snapstore"
)

// SourceLocation is the call site an evaluation was issued from. The file
// name determines which module store the snapshot lives in.
type SourceLocation struct {
	File string
	Line int
}

// Module derives the snapshot module name from the source file: the base
// name with its extension stripped.
func (s SourceLocation) Module() string {
	base := filepath.Base(s.File)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Result is the outcome of one evaluation.
type Result struct {
	Outcome Outcome
	Key     string
	Digest  string
	// Changes holds the structural diff when the outcome involved a
	// mismatch (updated, failed); empty otherwise.
	Changes []diff.Change
}

// Runner evaluates snapshots for one process run.
type Runner struct {
	cfg    Config
	prompt Prompt
	logger *slog.Logger
	log    *runlog.Log
	now    func() time.Time

	stores  map[string]*snapstore.Store
	aborted bool
	skipped int
}

// Option customizes a Runner.
type Option func(*Runner)

// WithPrompt replaces the interactive prompt.
func WithPrompt(p Prompt) Option {
	return func(r *Runner) { r.prompt = p }
}

// WithLogger replaces the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithClock injects the timestamp source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithRunLog attaches an evaluation audit log.
func WithRunLog(l *runlog.Log) Option {
	return func(r *Runner) { r.log = l }
}

// NewRunner builds a Runner over cfg. Missing config fields fall back to
// DefaultConfig values.
func NewRunner(cfg Config, opts ...Option) *Runner {
	def := DefaultConfig()
	if cfg.SnapshotDir == "" {
		cfg.SnapshotDir = def.SnapshotDir
	}
	if cfg.DefaultPolicy == "" {
		cfg.DefaultPolicy = def.DefaultPolicy
	}
	r := &Runner{
		cfg:    cfg,
		prompt: NewTerminalPrompt(os.Stdin, os.Stderr),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
		stores: make(map[string]*snapstore.Store),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Aborted reports whether the user quit the run.
func (r *Runner) Aborted() bool { return r.aborted }

// Skipped returns how many evaluations were refused after the abort.
func (r *Runner) Skipped() int { return r.skipped }

// capture runs compute, converting a returned error or a panic into a
// canonical exception value so failures snapshot like any other result.
func capture(compute func() (any, error)) (val canon.Value, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if e, ok := rec.(error); ok {
				val = canon.CanonicalizeError(e)
			} else {
				val = canon.CanonicalizeError(fmt.Errorf("panic: %v", rec))
			}
			err = nil
		}
	}()

	out, cerr := compute()
	if cerr != nil {
		return canon.CanonicalizeError(cerr), nil
	}
	return canon.Canonicalize(out)
}

// storeFor lazily loads the working copy for the module owning file.
func (r *Runner) storeFor(src SourceLocation) (*snapstore.Store, string, error) {
	module := src.Module()
	if s, ok := r.stores[module]; ok {
		return s, module, nil
	}
	s, err := snapstore.Load(r.cfg.SnapshotDir, module, snapstore.Options{LockTimeout: r.cfg.LockTimeout})
	if err != nil {
		return nil, module, err
	}
	r.stores[module] = s
	return s, module, nil
}

// Evaluate computes a value, compares it against the accepted baseline for
// key, and resolves any mismatch under the configured default policy. A
// non-nil error accompanies the failed and aborted outcomes; the Result is
// valid either way.
func (r *Runner) Evaluate(key string, compute func() (any, error), src SourceLocation) (Result, error) {
	return r.EvaluateWith(key, compute, src, r.cfg.DefaultPolicy)
}

// EvaluateWith is Evaluate with a per-call policy override. CI mode still
// forces mismatches to fail regardless of policy.
func (r *Runner) EvaluateWith(key string, compute func() (any, error), src SourceLocation, policy Policy) (Result, error) {
	if r.aborted {
		r.skipped++
		return Result{Outcome: OutcomeAborted, Key: key}, ErrRunAborted
	}

	value, err := capture(compute)
	if err != nil {
		return Result{Key: key}, fmt.Errorf("snapshot %q: %w", key, err)
	}
	digest := canon.Digest(value)

	store, module, err := r.storeFor(src)
	if err != nil {
		return Result{Key: key}, err
	}

	res, err := r.resolve(store, key, value, digest, src, policy)
	res.Key = key
	res.Digest = digest

	r.logger.Debug("snapshot evaluated",
		slog.String("module", module),
		slog.String("key", key),
		slog.String("outcome", string(res.Outcome)),
	)
	if r.log != nil {
		if lerr := r.log.Record(context.Background(), module, key, string(res.Outcome), digest, r.now()); lerr != nil {
			r.logger.Warn("run log write failed", slog.String("error", lerr.Error()))
		}
	}
	return res, err
}

func (r *Runner) resolve(store *snapstore.Store, key string, value canon.Value, digest string, src SourceLocation, policy Policy) (Result, error) {
	baseline, ok := store.Lookup(key)
	if !ok {
		if r.cfg.CIMode {
			return Result{Outcome: OutcomeFailed}, &MismatchError{Key: key, NoBaseline: true}
		}
		store.Put(key, value, src.File, src.Line, r.now())
		if err := store.Flush(); err != nil {
			return Result{Outcome: OutcomeFailed}, err
		}
		return Result{Outcome: OutcomeCreated}, nil
	}

	// Digest short-circuit: equal digests mean equal canonical values.
	if baseline.Hash == digest {
		return Result{Outcome: OutcomeMatched}, nil
	}

	changes := diff.Diff(baseline.Value, value)
	if len(changes) == 0 {
		// A stale hash with an equal value heals in place.
		store.Put(key, value, src.File, src.Line, r.now())
		if err := store.Flush(); err != nil {
			return Result{Outcome: OutcomeFailed, Changes: changes}, err
		}
		return Result{Outcome: OutcomeMatched}, nil
	}

	if policy == "" {
		policy = r.cfg.DefaultPolicy
	}
	if r.cfg.CIMode {
		policy = PolicyFail
	}

	switch policy {
	case PolicyAcceptNew:
		return r.accept(store, key, value, src, changes)
	case PolicyKeepOld, PolicyFail:
		return Result{Outcome: OutcomeFailed, Changes: changes}, &MismatchError{Key: key, Changes: changes}
	case PolicyInteractive:
		return r.interact(store, key, value, src, changes)
	default:
		return Result{Outcome: OutcomeFailed, Changes: changes}, fmt.Errorf("unknown policy %q", policy)
	}
}

func (r *Runner) accept(store *snapstore.Store, key string, value canon.Value, src SourceLocation, changes []diff.Change) (Result, error) {
	store.Put(key, value, src.File, src.Line, r.now())
	if err := store.Flush(); err != nil {
		return Result{Outcome: OutcomeFailed, Changes: changes}, err
	}
	return Result{Outcome: OutcomeUpdated, Changes: changes}, nil
}

func (r *Runner) interact(store *snapstore.Store, key string, value canon.Value, src SourceLocation, changes []diff.Change) (Result, error) {
	if r.cfg.ShowDiffs {
		r.prompt.ShowDiff(key, changes)
	}
	for {
		cmd, err := r.prompt.ReadCommand(key)
		if err != nil {
			return Result{Outcome: OutcomeFailed, Changes: changes}, err
		}
		switch cmd {
		case CommandAccept:
			return r.accept(store, key, value, src, changes)
		case CommandReject:
			return Result{Outcome: OutcomeFailed, Changes: changes}, &MismatchError{Key: key, Changes: changes}
		case CommandDiff:
			r.prompt.ShowDiff(key, changes)
		case CommandQuit:
			r.aborted = true
			return Result{Outcome: OutcomeAborted, Changes: changes}, ErrRunAborted
		default:
			return Result{Outcome: OutcomeFailed, Changes: changes}, fmt.Errorf("unknown command %q", cmd)
		}
	}
}
