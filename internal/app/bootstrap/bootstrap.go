package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	leadqualification "leadqualifier/contexts/sales-intelligence/lead-qualification-service"
	consoleadapter "leadqualifier/contexts/sales-intelligence/lead-qualification-service/adapters/console"
	csvadapter "leadqualifier/contexts/sales-intelligence/lead-qualification-service/adapters/csv"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/adapters/llm"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/adapters/memory"
	postgresadapter "leadqualifier/contexts/sales-intelligence/lead-qualification-service/adapters/postgres"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/application/commands"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/services"
	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/ports"
	"leadqualifier/internal/platform/config"
	"leadqualifier/internal/platform/db"
	"leadqualifier/internal/platform/httpserver"
	"leadqualifier/internal/platform/messaging"
	"leadqualifier/internal/platform/metrics"
	"leadqualifier/internal/platform/tracing"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server  *httpserver.Server
	runtime *runtime
	cfg     config.Config
	logger  *slog.Logger
}

// CLIApp exposes the wired module to one-shot commands.
type CLIApp struct {
	Module  leadqualification.Module
	Printer consoleadapter.Printer
	runtime *runtime
	cfg     config.Config
	logger  *slog.Logger
}

// runtime owns the infrastructure handles shared by every process.
type runtime struct {
	module   leadqualification.Module
	database *db.Database
	kafka    *messaging.Kafka
	metrics  *metrics.Registry
	shutdown tracing.ShutdownFunc
}

func BuildAPI(ctx context.Context) (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := NewLogger(cfg, "api", os.Stderr)

	rt, err := buildRuntime(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	server := httpserver.New(rt.module, logger, normalizeAddr(cfg.HTTPPort), httpserver.Options{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Metrics:            rt.metrics,
		Tracing:            cfg.EnableTracing,
	})
	return &APIApp{
		server:  server,
		runtime: rt,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

func BuildCLI(ctx context.Context, out io.Writer) (*CLIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	// CLI output goes to out; logs stay on stderr so reports remain pipeable.
	logger := NewLogger(cfg, "cli", os.Stderr)

	rt, err := buildRuntime(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &CLIApp{
		Module:  rt.module,
		Printer: consoleadapter.Printer{Out: out},
		runtime: rt,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

// NewLogger builds the process logger at the configured level.
func NewLogger(cfg config.Config, process string, out io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("service", cfg.ServiceName, "process", process)
}

func buildRuntime(ctx context.Context, cfg config.Config, logger *slog.Logger) (*runtime, error) {
	rt := &runtime{shutdown: func(context.Context) error { return nil }}
	if cfg.EnableMetrics {
		rt.metrics = metrics.New()
	}

	shutdown, err := tracing.Init(ctx, cfg.ServiceName, cfg.OTLPEndpoint, cfg.EnableTracing)
	if err != nil {
		return nil, err
	}
	rt.shutdown = shutdown

	location, err := cfg.Location()
	if err != nil {
		_ = rt.close(ctx)
		return nil, err
	}

	var (
		leads  ports.LeadRepository
		events ports.EventRepository
	)
	switch cfg.DatabaseDriver {
	case config.DatabaseDriverMemory:
		store := memory.NewStore(nil)
		leads, events = store, store
	default:
		database, err := connect(cfg)
		if err != nil {
			_ = rt.close(ctx)
			return nil, err
		}
		rt.database = database
		if err := postgresadapter.Migrate(database.DB); err != nil {
			_ = rt.close(ctx)
			return nil, fmt.Errorf("migrate %s: %w", database.Dialect, err)
		}
		repo := postgresadapter.NewRepository(database.DB, logger)
		leads, events = repo, repo
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		_ = rt.close(ctx)
		return nil, err
	}
	rt.kafka = kafka

	classifier, err := buildClassifier(cfg, rt.metrics, logger)
	if err != nil {
		_ = rt.close(ctx)
		return nil, err
	}

	rt.module = leadqualification.NewModule(leadqualification.Dependencies{
		Leads:            leads,
		Events:           events,
		Clock:            postgresadapter.SystemClock{},
		IDGenerator:      postgresadapter.UUIDGenerator{},
		Publisher:        kafka,
		InteractionTopic: cfg.InteractionTopic,
		Classifier:       classifier,
		Location:         location,
		ReportWindowDays: cfg.ReportWindowDays,
		SeedConcurrency:  cfg.SeedConcurrency,
		SeedAugmentDelay: cfg.SeedAugmentDelay,
		Logger:           logger,
	})
	return rt, nil
}

func connect(cfg config.Config) (*db.Database, error) {
	switch cfg.DatabaseDriver {
	case config.DatabaseDriverPostgres:
		return db.ConnectPostgres(cfg.PostgresDSN)
	case config.DatabaseDriverSQLite:
		return db.ConnectSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}

func buildClassifier(cfg config.Config, registry *metrics.Registry, logger *slog.Logger) (services.Classifier, error) {
	classifierConfig := services.ClassifierConfig{
		AugmentationEnabled: cfg.EnableAugmentation,
		Timeout:             cfg.AugmentationTimeout,
	}
	if !cfg.EnableAugmentation {
		return services.NewClassifier(classifierConfig, nil, logger), nil
	}

	var recorder llm.OutcomeRecorder
	if registry != nil {
		recorder = registry
	}
	augmenter, err := llm.NewOpenAIAugmenter(llm.Config{
		APIKey:     cfg.OpenAIAPIKey,
		BaseURL:    cfg.OpenAIBaseURL,
		Model:      cfg.OpenAIModel,
		MaxRetries: cfg.AugmentationMaxRetries,
	}, recorder, logger)
	if err != nil {
		return services.Classifier{}, fmt.Errorf("build augmenter: %w", err)
	}
	return services.NewClassifier(classifierConfig, augmenter, logger), nil
}

func (r *runtime) close(ctx context.Context) error {
	var errs []error
	if r.kafka != nil {
		errs = append(errs, r.kafka.Close())
	}
	if r.database != nil {
		errs = append(errs, r.database.Close())
	}
	if r.shutdown != nil {
		errs = append(errs, r.shutdown(ctx))
	}
	return errors.Join(errs...)
}

// seed loads the CSV at path through the module's seed use case.
func seed(ctx context.Context, module leadqualification.Module, path string, force bool) (commands.SeedLeadsResult, error) {
	records, err := csvadapter.FileSource{Path: path}.ReadSeedLeads(ctx)
	if err != nil {
		return commands.SeedLeadsResult{}, err
	}
	return module.SeedLeads.Execute(ctx, commands.SeedLeadsCommand{
		Records: records,
		Force:   force,
	})
}

func (a *APIApp) Run(ctx context.Context) error {
	if a.cfg.SeedOnStartup && strings.TrimSpace(a.cfg.SeedCSVPath) != "" {
		if _, err := seed(ctx, a.runtime.module, a.cfg.SeedCSVPath, false); err != nil {
			return fmt.Errorf("seed leads: %w", err)
		}
	}

	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"database", a.cfg.DatabaseDriver,
		"augmentation", a.cfg.EnableAugmentation,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (a *APIApp) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return a.runtime.close(ctx)
}

// Seed loads the CSV at path, or the configured SEED_CSV_PATH when path is empty.
func (c *CLIApp) Seed(ctx context.Context, path string, force bool) (commands.SeedLeadsResult, error) {
	if strings.TrimSpace(path) == "" {
		path = c.cfg.SeedCSVPath
	}
	if strings.TrimSpace(path) == "" {
		return commands.SeedLeadsResult{}, errors.New("seed file is required (--file or SEED_CSV_PATH)")
	}
	return seed(ctx, c.Module, path, force)
}

func (c *CLIApp) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return c.runtime.close(ctx)
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8000"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
