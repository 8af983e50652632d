package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/edopica/expect-test/internal/canon"
)

// snapshotView is the JSON payload for one record in `show` output.
type snapshotView struct {
	Module     string          `json:"module"`
	Key        string          `json:"key"`
	Value      json.RawMessage `json:"value"`
	Hash       string          `json:"hash"`
	Timestamp  string          `json:"timestamp"`
	FilePath   string          `json:"file_path"`
	LineNumber int             `json:"line_number"`
}

// NewShowCommand creates the `show` command: print one snapshot record.
func NewShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <module> <key>",
		Short:         "Show an accepted snapshot and its provenance",
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
			rec, ok := store.Lookup(key)
			if !ok {
				return outputCommandError(formatter, ErrCodeNotFound,
					fmt.Sprintf("no snapshot %q in module %q", key, module), nil)
			}

			view := snapshotView{
				Module:     module,
				Key:        rec.Key,
				Value:      canon.MarshalCanonical(rec.Value),
				Hash:       rec.Hash,
				Timestamp:  rec.Timestamp.UTC().Format(time.RFC3339Nano),
				FilePath:   rec.FilePath,
				LineNumber: rec.LineNumber,
			}
			if opts.Format == "json" {
				return formatter.Success(view)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "module:    %s\n", view.Module)
			fmt.Fprintf(out, "key:       %s\n", view.Key)
			fmt.Fprintf(out, "hash:      %s\n", view.Hash)
			fmt.Fprintf(out, "accepted:  %s\n", view.Timestamp)
			fmt.Fprintf(out, "location:  %s:%d\n", view.FilePath, view.LineNumber)
			fmt.Fprintf(out, "value:     %s\n", view.Value)
			return nil
		},
	}
}
