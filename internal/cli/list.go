package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// moduleListing is the JSON payload for one module in `list` output.
type moduleListing struct {
	Module string   `json:"module"`
	Keys   []string `json:"keys"`
}

// NewListCommand creates the `list` command: enumerate snapshot keys.
func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list [module]",
		Short:         "List snapshot keys, for one module or all of them",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			var modules []string
			if len(args) == 1 {
				modules = []string{args[0]}
			} else {
				modules, err = discoverModules(dir)
				if err != nil {
					return outputCommandError(formatter, ErrCodeGeneric, err.Error(), nil)
				}
			}

			listings := make([]moduleListing, 0, len(modules))
			for _, module := range modules {
				store, err := openStore(dir, module)
				if err != nil {
					return outputCommandError(formatter, errCodeFor(err), err.Error(), nil)
				}
				listings = append(listings, moduleListing{Module: module, Keys: store.Keys()})
			}

			if opts.Format == "json" {
				return formatter.Success(listings)
			}

			var b strings.Builder
			for _, l := range listings {
				fmt.Fprintf(&b, "%s (%d snapshots)\n", l.Module, len(l.Keys))
				for _, key := range l.Keys {
					fmt.Fprintf(&b, "  %s\n", key)
				}
			}
			if b.Len() == 0 {
				b.WriteString("no snapshot stores found\n")
			}
			fmt.Fprint(cmd.OutOrStdout(), b.String())
			return nil
		},
	}
}
