package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, scenario := range scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			RunWithGolden(t, scenario)
		})
	}
}

func TestLoadScenario_RejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: bad\nsteps:\n  - key: k\n    value: 1\nbogus: true\n"), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestLoadScenario_RequiresNameAndSteps(t *testing.T) {
	dir := t.TempDir()

	noName := filepath.Join(dir, "noname.yaml")
	require.NoError(t, os.WriteFile(noName, []byte("steps:\n  - key: k\n    value: 1\n"), 0o644))
	_, err := LoadScenario(noName)
	require.ErrorContains(t, err, "missing name")

	noSteps := filepath.Join(dir, "nosteps.yaml")
	require.NoError(t, os.WriteFile(noSteps, []byte("name: empty\n"), 0o644))
	_, err = LoadScenario(noSteps)
	require.ErrorContains(t, err, "no steps")
}

func TestRun_RejectsUnknownCommand(t *testing.T) {
	_, err := Run(&Scenario{
		Name:     "bad_command",
		Commands: []string{"x"},
		Steps:    []Step{{Key: "k", Value: 1}},
	}, t.TempDir())
	require.ErrorContains(t, err, `unknown command "x"`)
}
