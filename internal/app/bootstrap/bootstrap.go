package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	roleregistry "provenance/contexts/identity-access/role-registry"
	registryevents "provenance/contexts/identity-access/role-registry/adapters/events"
	registrypostgres "provenance/contexts/identity-access/role-registry/adapters/postgres"
	productledger "provenance/contexts/supply-chain/product-ledger"
	ledgerevents "provenance/contexts/supply-chain/product-ledger/adapters/events"
	ledgermemory "provenance/contexts/supply-chain/product-ledger/adapters/memory"
	ledgerpostgres "provenance/contexts/supply-chain/product-ledger/adapters/postgres"
	ledgerworkers "provenance/contexts/supply-chain/product-ledger/application/workers"
	ledgerports "provenance/contexts/supply-chain/product-ledger/ports"
	"provenance/internal/platform/config"
	"provenance/internal/platform/db"
	"provenance/internal/platform/httpserver"
	"provenance/internal/platform/messaging"
	"provenance/internal/shared/events"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

const custodyTopic = "custody.notifications"

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	bus          *messaging.Bus
	outboxRelay  ledgerworkers.OutboxRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

// BuildAPI wires the registry and ledger modules. With POSTGRES_DSN set the
// durable adapters are used and notifications go through the outbox; without
// it the process runs fully in memory for local development.
func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	bus, err := messaging.NewBus(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		logger.Warn("POSTGRES_DSN not set, using in-memory adapters",
			"event", "bootstrap_memory_mode",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		registryModule := roleregistry.NewInMemoryModule(cfg.AdminID, logger)
		ledgerStore := ledgermemory.NewStore()
		ledgerModule := productledger.NewModule(productledger.Dependencies{
			Repository:           ledgerStore,
			Grants:               ledgerStore,
			Roles:                ledgerports.RoleDirectoryFunc(registryModule.RoleDirectory()),
			Clock:                ledgerStore,
			IDGenerator:          ledgerStore,
			Notifications:        ledgerevents.BusPublisher{Bus: bus, Topic: custodyTopic},
			AdminID:              cfg.AdminID,
			AllowTransferReoffer: cfg.AllowTransferReoffer,
			Logger:               logger,
		})
		server := httpserver.New(registryModule, ledgerModule, logger, normalizeAddr(cfg.HTTPPort))
		return &APIApp{server: server, logger: logger}, nil
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	registryRepo := registrypostgres.NewRepository(pg.DB, logger)
	if err := registryRepo.Migrate(); err != nil {
		_ = pg.Close()
		return nil, err
	}
	ledgerRepo := ledgerpostgres.NewRepository(pg.DB, logger)
	if err := ledgerRepo.Migrate(); err != nil {
		_ = pg.Close()
		return nil, err
	}

	registryModule := roleregistry.NewModule(roleregistry.Dependencies{
		Repository:    registryRepo,
		Clock:         registrypostgres.SystemClock{},
		IDGenerator:   registrypostgres.UUIDGenerator{},
		Notifications: registryevents.BusPublisher{Bus: bus, Topic: "registry.notifications"},
		AdminID:       cfg.AdminID,
		Logger:        logger,
	})
	ledgerModule := productledger.NewModule(productledger.Dependencies{
		Repository:           ledgerRepo,
		Grants:               ledgerRepo,
		Roles:                ledgerports.RoleDirectoryFunc(registryModule.RoleDirectory()),
		Clock:                ledgerpostgres.SystemClock{},
		IDGenerator:          ledgerpostgres.UUIDGenerator{},
		Notifications:        ledgerpostgres.NewOutboxPublisher(pg.DB),
		AdminID:              cfg.AdminID,
		AllowTransferReoffer: cfg.AllowTransferReoffer,
		Logger:               logger,
	})

	server := httpserver.New(registryModule, ledgerModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

// BuildWorker wires the outbox relay and the logging notification consumer.
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

	bus, err := messaging.NewBus(cfg.KafkaBrokers, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	repo := ledgerpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		bus:      bus,
		outboxRelay: ledgerworkers.OutboxRelay{
			Outbox:    repo,
			Publisher: ledgerevents.BusPublisher{Bus: bus, Topic: custodyTopic},
			Clock:     ledgerpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
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
	// Logging consumer standing in for downstream observers.
	err := w.bus.Subscribe(ctx, custodyTopic, "custody-notification-log-cg",
		func(_ context.Context, event events.Envelope) error {
			w.logger.Info("custody notification consumed",
				"event", "worker_notification_consumed",
				"module", "internal/app/bootstrap",
				"layer", "worker",
				"event_id", event.EventID,
				"event_type", event.EventType,
				"entity_id", event.EntityID,
			)
			return nil
		})
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
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
