package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/application/workers"
	"leadqualifier/internal/platform/config"

	"github.com/robfig/cron/v3"
)

const shutdownTimeout = 10 * time.Second

type WorkerApp struct {
	reporter workers.AnalyticsReporter
	schedule string
	runtime  *runtime
	logger   *slog.Logger
}

func BuildWorker(ctx context.Context) (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := NewLogger(cfg, "worker", os.Stderr)

	schedule := strings.TrimSpace(cfg.ReportSchedule)
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid REPORT_SCHEDULE %q: %w", schedule, err)
	}

	rt, err := buildRuntime(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &WorkerApp{
		reporter: rt.module.Reporter,
		schedule: schedule,
		runtime:  rt,
		logger:   logger,
	}, nil
}

// Run reports once immediately, then on every schedule tick until ctx ends.
func (w *WorkerApp) Run(ctx context.Context) error {
	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := scheduler.AddFunc(w.schedule, func() {
		// Failures are logged by the reporter; the next tick retries.
		_ = w.reporter.RunOnce(ctx)
	}); err != nil {
		return fmt.Errorf("schedule analytics report: %w", err)
	}

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"schedule", w.schedule,
	)

	_ = w.reporter.RunOnce(ctx)
	scheduler.Start()
	<-ctx.Done()

	stopped := scheduler.Stop()
	select {
	case <-stopped.Done():
	case <-time.After(shutdownTimeout):
	}
	w.logger.Info("worker app stopped",
		"event", "bootstrap_worker_stopped",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return nil
}

func (w *WorkerApp) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return w.runtime.close(ctx)
}
