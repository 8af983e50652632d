// Package harness runs declarative snapshot-evaluation scenarios: a YAML
// file describes a sequence of checks, the scripted prompt answers, and the
// expected outcomes, and the harness executes them against a throwaway
// store and compares the resulting store file against a golden copy.
package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance scenario for the evaluation engine.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Policy is the mismatch resolution policy ("interactive",
	// "accept_new", "keep_old", "fail"). Defaults to "interactive".
	Policy string `yaml:"policy,omitempty"`

	// CI forces CI mode: mismatches and missing baselines fail.
	CI bool `yaml:"ci,omitempty"`

	// Commands scripts the interactive prompt ("y", "n", "d", "q"),
	// consumed in order across all steps.
	Commands []string `yaml:"commands,omitempty"`

	// Seed pre-populates baselines before the steps run. Each entry is
	// accepted as-is, keyed by step key.
	Seed []Step `yaml:"seed,omitempty"`

	// Steps is the evaluation sequence.
	Steps []Step `yaml:"steps"`
}

// Step is one snapshot evaluation within a scenario.
type Step struct {
	// Key is the snapshot key.
	Key string `yaml:"key"`

	// Value is the computed value, decoded from YAML.
	Value interface{} `yaml:"value"`

	// Outcome is the expected outcome name ("created", "matched",
	// "updated", "failed", "aborted"). Empty skips the assertion.
	Outcome string `yaml:"outcome,omitempty"`
}

// LoadScenario parses a scenario file. Unknown fields are rejected so
// schema drift in scenario files fails loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s: missing name", path)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s: no steps", path)
	}
	return &s, nil
}

// LoadScenarios loads every .yaml scenario under dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scenario directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".yaml" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	scenarios := make([]*Scenario, 0, len(names))
	for _, name := range names {
		s, err := LoadScenario(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}
