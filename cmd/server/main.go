package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/medtrail/symptom-timeline/pkg/config"
	"github.com/medtrail/symptom-timeline/pkg/hcl"
	"github.com/medtrail/symptom-timeline/pkg/http"
	"github.com/medtrail/symptom-timeline/pkg/narrative"
	"github.com/medtrail/symptom-timeline/pkg/storage"
	"github.com/medtrail/symptom-timeline/pkg/temporal"
	"github.com/medtrail/symptom-timeline/pkg/timeline"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup logger
	var logHandler slog.Handler
	switch cfg.LogLevel {
	case "debug":
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	case "warn":
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn})
	case "error":
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})
	default:
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	logger.Info("Starting Symptom Timeline Service..",
		"http_addr", cfg.GetHTTPAddr(),
		"temporal_addr", cfg.TemporalHostPort,
		"namespace", cfg.TemporalNamespace,
		"task_queue", temporal.TaskQueue,
		"narrative_enabled", cfg.NarrativeEnabled(),
	)

	// Load detection rule overrides
	rules, err := hcl.LoadRuleSet(cfg.RuleSetPath)
	if err != nil {
		logger.Error("Failed to load rule set", "error", err, "path", cfg.RuleSetPath)
		os.Exit(1)
	}

	// Create Temporal client
	temporalClient, err := client.Dial(client.Options{
		HostPort:  cfg.TemporalHostPort,
		Namespace: cfg.TemporalNamespace,
	})
	if err != nil {
		logger.Error("Failed to create Temporal client", "error", err)
		os.Exit(1)
	}
	defer temporalClient.Close()

	// Select the entry store
	var store storage.EntryStore
	if cfg.PostgresDSN != "" {
		pg, err := storage.OpenPostgres(context.Background(), cfg.PostgresDSN)
		if err != nil {
			logger.Error("Failed to connect to Postgres", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		if err := pg.EnsureSchema(context.Background()); err != nil {
			logger.Error("Failed to ensure schema", "error", err)
			os.Exit(1)
		}
		store = pg
		logger.Info("Using Postgres entry store")
	} else {
		store = storage.NewMemoryStore()
		logger.Warn("No Postgres DSN configured, using in-memory entry store")
	}

	// Optional narrative collaborator
	var narrativeAnalyzer timeline.NarrativeAnalyzer
	if cfg.NarrativeEnabled() {
		narrativeAnalyzer = narrative.NewClient(narrative.Config{
			BaseURL:      cfg.NarrativeBaseURL,
			APIKey:       cfg.NarrativeAPIKey,
			Model:        cfg.NarrativeModel,
			BackupModels: cfg.NarrativeBackupModels,
			Timeout:      cfg.NarrativeTimeout,
		}, logger)
	}

	analyzer := timeline.NewAnalyzer(
		timeline.WithRuleSet(rules),
		timeline.WithLogger(logger),
	)

	activities := temporal.NewActivitiesImpl(logger, analyzer, store, narrativeAnalyzer)

	// Create and start Temporal worker
	w := worker.New(temporalClient, temporal.TaskQueue, worker.Options{})

	w.RegisterWorkflow(temporal.IngestionWorkflow)
	w.RegisterWorkflow(temporal.AnalysisWorkflow)

	w.RegisterActivityWithOptions(activities.AppendEntriesActivity, activity.RegisterOptions{Name: temporal.AppendEntriesActivityName})
	w.RegisterActivityWithOptions(activities.LoadEntriesActivity, activity.RegisterOptions{Name: temporal.LoadEntriesActivityName})
	w.RegisterActivityWithOptions(activities.AnalyzeTimelineActivity, activity.RegisterOptions{Name: temporal.AnalyzeTimelineActivityName})
	w.RegisterActivityWithOptions(activities.NarrativeActivity, activity.RegisterOptions{Name: temporal.NarrativeActivityName})

	// Start worker in background
	go func() {
		logger.Info("Starting Temporal worker", "task_queue", temporal.TaskQueue)
		if err := w.Run(worker.InterruptCh()); err != nil {
			logger.Error("Temporal worker failed", "error", err)
			os.Exit(1)
		}
	}()

	// Create and start HTTP server
	server := http.NewServer(logger, temporalClient, cfg.GetHTTPAddr())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := server.Start(ctx); err != nil {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	logger.Info("Received shutdown signal, stopping services...")

	cancel()

	logger.Info("Symptom Timeline Service stopped")
}
