package engine

import "fmt"

// Policy is the configured rule for resolving a mismatch between a new
// value and its accepted snapshot.
type Policy string

const (
	// PolicyInteractive prompts the developer per mismatch.
	PolicyInteractive Policy = "interactive"
	// PolicyAcceptNew overwrites the baseline with the new value.
	PolicyAcceptNew Policy = "accept_new"
	// PolicyKeepOld keeps the baseline and fails the evaluation.
	PolicyKeepOld Policy = "keep_old"
	// PolicyFail fails the evaluation, leaving the baseline untouched.
	PolicyFail Policy = "fail"
)

// ParsePolicy validates a policy name from configuration.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyInteractive, PolicyAcceptNew, PolicyKeepOld, PolicyFail:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("unknown policy %q (want interactive, accept_new, keep_old, or fail)", s)
	}
}

// Outcome is the result of one evaluation. Produced fresh per evaluation,
// never persisted.
type Outcome string

const (
	// OutcomeCreated means no baseline existed and one was recorded.
	OutcomeCreated Outcome = "created"
	// OutcomeMatched means the value equals the baseline.
	OutcomeMatched Outcome = "matched"
	// OutcomeUpdated means a mismatch was resolved by accepting the new value.
	OutcomeUpdated Outcome = "updated"
	// OutcomeFailed means a mismatch was kept as a failure.
	OutcomeFailed Outcome = "failed"
	// OutcomeAborted means the user quit the run from the prompt.
	OutcomeAborted Outcome = "aborted"
)

// Passed reports whether the outcome maps to a passing test result.
func (o Outcome) Passed() bool {
	switch o {
	case OutcomeCreated, OutcomeMatched, OutcomeUpdated:
		return true
	default:
		return false
	}
}
