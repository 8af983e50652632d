package harness

import (
	"os"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// RunWithGolden executes a scenario in a throwaway directory, asserts each
// step's expected outcome, and compares the final store file against the
// golden copy in testdata/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) {
	t.Helper()

	dir := t.TempDir()
	result, err := Run(scenario, dir)
	require.NoError(t, err)

	for i, step := range scenario.Steps {
		if step.Outcome == "" {
			continue
		}
		require.Equalf(t, step.Outcome, result.Steps[i].Outcome,
			"scenario %s step %d (%s)", scenario.Name, i, step.Key)
	}

	data, err := os.ReadFile(result.StorePath)
	if os.IsNotExist(err) {
		// Nothing was ever flushed; golden is the absence marker.
		data = []byte("(no store file)\n")
	} else {
		require.NoError(t, err)
	}

	g := goldie.New(t)
	g.Assert(t, scenario.Name, data)
}
