package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	content "agora/contexts/community-content/content-service"
	contentpostgres "agora/contexts/community-content/content-service/adapters/postgres"
	contentworkers "agora/contexts/community-content/content-service/application/workers"
	interaction "agora/contexts/community-content/interaction-service"
	interactionpostgres "agora/contexts/community-content/interaction-service/adapters/postgres"
	notification "agora/contexts/community-content/notification-service"
	notificationpostgres "agora/contexts/community-content/notification-service/adapters/postgres"
	notificationworkers "agora/contexts/community-content/notification-service/application/workers"
	authorization "agora/contexts/identity-access/authorization-service"
	authpostgres "agora/contexts/identity-access/authorization-service/adapters/postgres"
	report "agora/contexts/moderation-safety/report-service"
	reportpostgres "agora/contexts/moderation-safety/report-service/adapters/postgres"
	"agora/internal/platform/config"
	"agora/internal/platform/db"
	"agora/internal/platform/httpserver"
	"agora/internal/platform/messaging"
	"agora/internal/shared/outbox"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres          *db.Postgres
	interactionRelay  outbox.Relay
	reportRelay       outbox.Relay
	retentionSweeper  notificationworkers.RetentionSweeper
	counterReconciler contentworkers.CounterReconciler
	cfg               config.Config
	logger            *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	modules := buildModules(pg, logger)
	server := httpserver.New(
		modules.content,
		modules.interactions,
		modules.reports,
		modules.notifications,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	modules := buildModules(pg, logger)
	notificationRepo := notificationpostgres.NewRepository(pg.DB, logger)
	contentRepo := contentpostgres.NewRepository(pg.DB, logger)

	return &WorkerApp{
		postgres: pg,
		interactionRelay: outbox.Relay{
			Store:     outbox.NewPostgresStore(pg.DB, "community-content/interaction-service"),
			Publisher: kafka,
			BatchSize: 100,
			Logger:    logger,
		},
		reportRelay: outbox.Relay{
			Store:     outbox.NewPostgresStore(pg.DB, "moderation-safety/report-service"),
			Publisher: kafka,
			BatchSize: 100,
			Logger:    logger,
		},
		retentionSweeper: notificationworkers.RetentionSweeper{
			Repo:      notificationRepo,
			Clock:     authpostgres.SystemClock{},
			Retention: cfg.NotificationRetention,
			Logger:    logger,
		},
		counterReconciler: contentworkers.CounterReconciler{
			Repo:      contentRepo,
			Service:   modules.content.Service,
			Window:    cfg.RecountWindow,
			BatchSize: cfg.RecountBatchSize,
			Logger:    logger,
		},
		cfg:    cfg,
		logger: logger,
	}, nil
}

type moduleSet struct {
	authorization authorization.Module
	content       content.Module
	interactions  interaction.Module
	reports       report.Module
	notifications notification.Module
}

// buildModules wires the Postgres-backed modules and the cross-context glue:
// capability checks come from identity-access, like counts from the
// interaction ledger, and fan-out goes to the notification service.
func buildModules(pg *db.Postgres, logger *slog.Logger) moduleSet {
	clock := authpostgres.SystemClock{}
	idGen := authpostgres.UUIDGenerator{}

	authModule := authorization.NewModule(authorization.Dependencies{
		Actors: authpostgres.NewRepository(pg.DB, logger),
		Logger: logger,
	})

	notificationModule := notification.NewModule(notification.Dependencies{
		Repository: notificationpostgres.NewRepository(pg.DB, logger),
		Clock:      clock,
		IDGen:      idGen,
		Logger:     logger,
	})

	interactionModule := interaction.NewModule(interaction.Dependencies{
		Repository: interactionpostgres.NewRepository(pg.DB, logger),
		Actors:     interactionActors{authz: authModule.Service},
		Notifier:   likeNotifier{notifications: notificationModule.Service},
		Clock:      clock,
		IDGen:      idGen,
		Logger:     logger,
	})

	contentModule := content.NewModule(content.Dependencies{
		Repository:   contentpostgres.NewRepository(pg.DB, logger),
		Capabilities: contentCapabilities{authz: authModule.Service},
		Notifier:     threadNotifier{notifications: notificationModule.Service},
		Ledger:       interactionLedger{interactions: interactionModule.Service},
		Clock:        clock,
		IDGen:        idGen,
		Logger:       logger,
	})

	reportModule := report.NewModule(report.Dependencies{
		Repository:   reportpostgres.NewRepository(pg.DB, logger),
		Capabilities: reportCapabilities{authz: authModule.Service},
		Clock:        clock,
		IDGen:        idGen,
		Logger:       logger,
	})

	return moduleSet{
		authorization: authModule,
		content:       contentModule,
		interactions:  interactionModule,
		reports:       reportModule,
		notifications: notificationModule,
	}
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.cfg.WorkerPollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.cfg.WorkerPollInterval.String(),
	)

	for {
		w.runJobs(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// runJobs executes one pass of every enabled job. A failed pass is logged and
// retried on the next tick; only shutdown stops the loop.
func (w *WorkerApp) runJobs(ctx context.Context) {
	if w.cfg.EnableOutboxRelay {
		if _, err := w.interactionRelay.RunOnce(ctx); err != nil {
			w.logJobError("interaction_relay", err)
		}
		if _, err := w.reportRelay.RunOnce(ctx); err != nil {
			w.logJobError("report_relay", err)
		}
	}
	if w.cfg.EnableNotificationRetention {
		if err := w.retentionSweeper.RunOnce(ctx); err != nil {
			w.logJobError("retention_sweeper", err)
		}
	}
	if w.cfg.EnableCounterReconciliation {
		if _, err := w.counterReconciler.RunOnce(ctx); err != nil {
			w.logJobError("counter_reconciler", err)
		}
	}
}

func (w *WorkerApp) logJobError(job string, err error) {
	w.logger.Error("worker job pass failed",
		"event", "bootstrap_worker_job_failed",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"job", job,
		"error", err.Error(),
	)
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
