// Command jobs runs a single pipeline job or one dispatcher pass and exits.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/YasirGaji/thegoldmetrics/internal/app"
	"github.com/YasirGaji/thegoldmetrics/internal/config"
	"github.com/YasirGaji/thegoldmetrics/internal/model"
	"github.com/spf13/cobra"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	root := &cobra.Command{
		Use:          "jobs",
		Short:        "Run The Gold Metrics pipeline jobs",
		SilenceUsage: true,
	}

	for _, job := range []struct {
		name  string
		short string
	}{
		{model.JobRecordPrice, "Fetch the gold price and store a snapshot (once per hour)"},
		{model.JobDailyPost, "Fetch the gold price and publish the daily social post"},
		{model.JobIngestNews, "Embed and store the latest market news"},
	} {
		name := job.name
		root.AddCommand(&cobra.Command{
			Use:   name,
			Short: job.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd.Context(), func(a *app.App) error {
					result := a.Jobs.Run(cmd.Context(), name)
					if err := printJSON(result); err != nil {
						return err
					}
					if !result.Success {
						return errJobFailed
					}
					return nil
				})
			},
		})
	}

	root.AddCommand(&cobra.Command{
		Use:   "dispatch",
		Short: "Run whichever jobs are due at the current Lagos hour",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				report := a.Dispatcher.Dispatch(cmd.Context())
				if err := printJSON(report); err != nil {
					return err
				}
				if !report.Success {
					return errJobFailed
				}
				return nil
			})
		},
	})

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

var errJobFailed = errors.New("job failed")

func withApp(ctx context.Context, run func(a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	a, err := app.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return run(a)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
