package cli

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/edopica/expect-test/internal/engine"
)

// DefaultConfigFile is looked up in the working directory when --config is
// not given.
const DefaultConfigFile = ".expecttest.yaml"

// FileConfig is the on-disk project configuration. Unknown keys are
// rejected so typos fail loudly instead of silently using defaults.
type FileConfig struct {
	SnapshotDir   string `yaml:"snapshot_dir"`
	DefaultPolicy string `yaml:"default_policy"`
	ShowDiffs     *bool  `yaml:"show_diffs"`
	RunLog        string `yaml:"run_log"`
}

// LoadConfig reads and validates a config file. A missing default config
// file is not an error; an explicitly named missing file is.
func LoadConfig(path string, explicit bool) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &FileConfig{}, nil
		}
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("read config %s", path), err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var cfg FileConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("parse config %s", path), err)
	}

	if cfg.DefaultPolicy != "" {
		if _, err := engine.ParsePolicy(cfg.DefaultPolicy); err != nil {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("config %s", path), err)
		}
	}
	return &cfg, nil
}

// EngineConfig merges file settings over the engine defaults, then applies
// the --dir flag when set.
func (c *FileConfig) EngineConfig(dirFlag string) engine.Config {
	cfg := engine.DefaultConfig()
	if c.SnapshotDir != "" {
		cfg.SnapshotDir = c.SnapshotDir
	}
	if c.DefaultPolicy != "" {
		cfg.DefaultPolicy = engine.Policy(c.DefaultPolicy)
	}
	if c.ShowDiffs != nil {
		cfg.ShowDiffs = *c.ShowDiffs
	}
	if dirFlag != "" {
		cfg.SnapshotDir = dirFlag
	}
	return cfg
}
