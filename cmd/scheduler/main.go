// Command scheduler triggers the dispatcher at the top of every hour, for
// deployments without an external cron service calling /cron/dispatcher.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YasirGaji/thegoldmetrics/internal/app"
	"github.com/YasirGaji/thegoldmetrics/internal/config"
	"github.com/robfig/cron/v3"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("error building app: %v", err)
	}
	defer a.Close()

	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	_, err = c.AddFunc("0 * * * *", func() {
		report := a.Dispatcher.Dispatch(ctx)
		slog.Info("scheduled dispatch finished",
			"success", report.Success, "jobs_executed", report.JobsExecuted, "time_lagos", report.TimeLagos)
	})
	if err != nil {
		log.Fatalf("error scheduling dispatcher: %v", err)
	}

	c.Start()
	slog.Info("scheduler started", "schedule", "0 * * * *")

	<-ctx.Done()
	slog.Info("shutting down scheduler")
	<-c.Stop().Done()
}
