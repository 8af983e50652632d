package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/edopica/expect-test/internal/runlog"
)

// NewRunsCommand creates the `runs` command: audit past evaluation runs.
func NewRunsCommand(opts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:           "runs [run-id]",
		Short:         "List recorded runs, or the evaluations of one run",
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
			_, cfg, err := loadOptions(opts)
			if err != nil {
				return outputCommandError(formatter, ErrCodeConfig, err.Error(), nil)
			}
			if cfg.RunLog == "" {
				return outputCommandError(formatter, ErrCodeRunLog, "no run_log configured", nil)
			}
			if _, err := os.Stat(cfg.RunLog); err != nil {
				return outputCommandError(formatter, ErrCodeRunLog,
					fmt.Sprintf("run log %s: %v", cfg.RunLog, err), nil)
			}

			log, err := runlog.OpenForQuery(cfg.RunLog)
			if err != nil {
				return outputCommandError(formatter, ErrCodeRunLog,
					fmt.Sprintf("open run log: %v", err), nil)
			}
			defer log.Close()

			if len(args) == 1 {
				evals, err := log.Evaluations(cmd.Context(), args[0])
				if err != nil {
					return outputCommandError(formatter, ErrCodeRunLog,
						fmt.Sprintf("query evaluations: %v", err), nil)
				}
				if opts.Format == "json" {
					return formatter.Success(evals)
				}
				out := cmd.OutOrStdout()
				for _, e := range evals {
					fmt.Fprintf(out, "%-8s  %s/%s  %s\n", e.Outcome, e.Module, e.Key, e.CreatedAt)
				}
				if len(evals) == 0 {
					fmt.Fprintln(out, "no evaluations recorded for run")
				}
				return nil
			}

			runs, err := log.Runs(cmd.Context(), limit)
			if err != nil {
				return outputCommandError(formatter, ErrCodeRunLog,
					fmt.Sprintf("query runs: %v", err), nil)
			}
			if opts.Format == "json" {
				return formatter.Success(runs)
			}
			out := cmd.OutOrStdout()
			for _, r := range runs {
				fmt.Fprintf(out, "%s  started %s  %d evaluations, %d failed\n",
					r.ID, r.StartedAt, r.Evaluations, r.Failed)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "no runs recorded")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")
	return cmd
}
