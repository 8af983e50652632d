package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewForgetCommand creates the `forget` command: drop an accepted snapshot
// so the next evaluation records a fresh baseline.
func NewForgetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "forget <module> <key>",
		Short:         "Remove an accepted snapshot from its module store",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			module, key := args[0], args[1]
			formatter := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}
			dir, _, err := loadOptions(opts)
			if err != nil {
				return outputCommandError(formatter, ErrCodeConfig, err.Error(), nil)
			}

			store, err := openStore(dir, module)
			if err != nil {
				return outputCommandError(formatter, errCodeFor(err), err.Error(), nil)
			}
			if !store.Delete(key) {
				return outputCommandError(formatter, ErrCodeNotFound,
					fmt.Sprintf("no snapshot %q in module %q", key, module), nil)
			}
			if err := store.Flush(); err != nil {
				return outputCommandError(formatter, ErrCodeWriteFailed,
					fmt.Sprintf("flush store for module %q: %v", module, err), nil)
			}

			formatter.VerboseLog("flushed %s", store.Path())
			return formatter.Success(fmt.Sprintf("forgot snapshot %q in module %q", key, module))
		},
	}
}
