package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/aleister1102/urlpurifier/internal/common/errorwrapper"
	"github.com/aleister1102/urlpurifier/internal/datastore"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit int
		runID string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the most recent recorded clean runs, or show one run",
		RunE: func(cmd *cobra.Command, args []string) error {
			if runID != "" {
				return a.showRun(cmd.Context(), runID)
			}
			if !cmd.Flags().Changed("limit") {
				limit = a.cfg.StorageConfig.HistoryLimit
			}
			if limit <= 0 {
				return errorwrapper.NewValidationError("limit", limit, "limit must be positive")
			}

			store, err := datastore.NewHistoryStore(a.cfg.StorageConfig.HistoryDBPath, a.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return errorwrapper.WrapError(err, "could not read run history")
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN ID\tSTARTED\tSOURCE\tMODE\tURLS\tCHANGED\tREMOVED\tERRORS")
			for _, run := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
					run.RunID,
					run.StartedAt.Local().Format(time.RFC3339),
					run.Source,
					modeLabel(run.StrongBlocklist, run.AmazonMode),
					run.Stats.TotalURLs,
					run.Stats.TotalChanged,
					run.Stats.TotalParamsRemoved,
					run.Stats.TotalErrors,
				)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of runs to list (default from storage_config.history_limit)")
	cmd.Flags().StringVar(&runID, "run", "", "Show the details of a single run")
	return cmd
}

func (a *app) showRun(ctx context.Context, runID string) error {
	store, err := datastore.NewHistoryStore(a.cfg.StorageConfig.HistoryDBPath, a.logger)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.GetRun(ctx, runID)
	if err != nil {
		return errorwrapper.WrapError(err, "could not read run")
	}

	exportPath := "-"
	if run.ExportPath.Valid {
		exportPath = run.ExportPath.String
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "run id:\t%s\n", run.RunID)
	fmt.Fprintf(tw, "started:\t%s\n", run.StartedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(tw, "duration:\t%s\n", run.FinishedAt.Sub(run.StartedAt))
	fmt.Fprintf(tw, "source:\t%s\n", run.Source)
	fmt.Fprintf(tw, "mode:\t%s\n", modeLabel(run.StrongBlocklist, run.AmazonMode))
	fmt.Fprintf(tw, "urls:\t%d\n", run.Stats.TotalURLs)
	fmt.Fprintf(tw, "changed:\t%d\n", run.Stats.TotalChanged)
	fmt.Fprintf(tw, "params removed:\t%d\n", run.Stats.TotalParamsRemoved)
	fmt.Fprintf(tw, "errors:\t%d\n", run.Stats.TotalErrors)
	fmt.Fprintf(tw, "export:\t%s\n", exportPath)
	return tw.Flush()
}

func modeLabel(strong, amazon bool) string {
	switch {
	case strong && amazon:
		return "strong+amazon"
	case strong:
		return "strong"
	case amazon:
		return "amazon"
	default:
		return "default"
	}
}
