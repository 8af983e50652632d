package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Dir        string // snapshot directory override
	ConfigPath string // explicit config file
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the expecttest CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "expecttest",
		Short:         "Inspect and manage snapshot stores",
		Long:          "Tools for inspecting, pruning, and auditing expect-test snapshot stores.",
		SilenceUsage:  true, // Don't print usage on errors - commands own their error output
		SilenceErrors: true, // Don't print errors - commands own their error output
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Dir, "dir", "", "snapshot directory (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default "+DefaultConfigFile+")")

	// Add subcommands
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewForgetCommand(opts))
	cmd.AddCommand(NewRunsCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// loadOptions resolves the effective snapshot directory from flags and the
// config file.
func loadOptions(opts *RootOptions) (string, *FileConfig, error) {
	path := opts.ConfigPath
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	cfg, err := LoadConfig(path, explicit)
	if err != nil {
		return "", nil, err
	}
	return cfg.EngineConfig(opts.Dir).SnapshotDir, cfg, nil
}
