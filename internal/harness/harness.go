package harness

import (
	"fmt"
	"time"

	"github.com/edopica/expect-test/internal/canon"
	"github.com/edopica/expect-test/internal/engine"
	"github.com/edopica/expect-test/internal/snapstore"
	"github.com/edopica/expect-test/internal/testutil"
)

// FixedTimestamp pins every accepted snapshot's timestamp so store files
// compare byte for byte against golden copies.
var FixedTimestamp = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// StepResult records what one step actually did.
type StepResult struct {
	Key     string `json:"key"`
	Outcome string `json:"outcome"`
	Error   string `json:"error,omitempty"`
}

// RunResult is the outcome of executing a scenario.
type RunResult struct {
	Scenario  string       `json:"scenario"`
	Steps     []StepResult `json:"steps"`
	StorePath string       `json:"-"`
}

// Run executes a scenario against a store under dir (typically t.TempDir()).
// The scenario name doubles as the snapshot module, so each scenario gets
// its own store file.
func Run(scenario *Scenario, dir string) (*RunResult, error) {
	commands, err := parseCommands(scenario.Commands)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	if err := seed(scenario, dir); err != nil {
		return nil, err
	}

	policy := engine.PolicyInteractive
	if scenario.Policy != "" {
		policy, err = engine.ParsePolicy(scenario.Policy)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
	}

	runner := engine.NewRunner(engine.Config{
		SnapshotDir:   dir,
		DefaultPolicy: policy,
		ShowDiffs:     true,
		CIMode:        scenario.CI,
	},
		engine.WithPrompt(testutil.NewScriptedPrompt(commands...)),
		engine.WithClock(func() time.Time { return FixedTimestamp }),
	)

	result := &RunResult{
		Scenario:  scenario.Name,
		StorePath: snapstore.Path(dir, scenario.Name),
	}
	for i, step := range scenario.Steps {
		value := step.Value
		src := engine.SourceLocation{File: scenario.Name + ".go", Line: i + 1}
		res, err := runner.Evaluate(step.Key, func() (any, error) { return value, nil }, src)

		sr := StepResult{Key: step.Key, Outcome: string(res.Outcome)}
		if err != nil {
			sr.Error = err.Error()
		}
		result.Steps = append(result.Steps, sr)
	}
	return result, nil
}

// seed writes the scenario's pre-accepted baselines directly to the store.
func seed(scenario *Scenario, dir string) error {
	if len(scenario.Seed) == 0 {
		return nil
	}
	store, err := snapstore.Load(dir, scenario.Name, snapstore.Options{})
	if err != nil {
		return fmt.Errorf("scenario %s: seed store: %w", scenario.Name, err)
	}
	for i, step := range scenario.Seed {
		value, err := canon.Canonicalize(step.Value)
		if err != nil {
			return fmt.Errorf("scenario %s: seed %q: %w", scenario.Name, step.Key, err)
		}
		store.Put(step.Key, value, scenario.Name+".go", i+1, FixedTimestamp)
	}
	return store.Flush()
}

func parseCommands(names []string) ([]engine.Command, error) {
	commands := make([]engine.Command, 0, len(names))
	for _, name := range names {
		switch name {
		case "y":
			commands = append(commands, engine.CommandAccept)
		case "n":
			commands = append(commands, engine.CommandReject)
		case "d":
			commands = append(commands, engine.CommandDiff)
		case "q":
			commands = append(commands, engine.CommandQuit)
		default:
			return nil, fmt.Errorf("unknown command %q", name)
		}
	}
	return commands, nil
}
