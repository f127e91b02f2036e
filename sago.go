// Package sago provides a library for continuous re-research of companies a
// venture firm previously passed on.
//
// Sago tracks companies, runs periodic three-way research rounds (financials,
// public sentiment, customer base) against a research backend, asks an LLM
// whether the new evidence changes the original no-invest call, and escalates
// actionable decisions by email.
//
// Basic usage:
//
//	client, err := sago.New(
//	    sago.WithSQLite("sago.db"),
//	    sago.WithExa(os.Getenv("EXA_API_KEY")),
//	    sago.WithAnthropic(os.Getenv("ANTHROPIC_API_KEY")),
//	    sago.WithResend(os.Getenv("RESEND_API_KEY"), "Sago <companies@example.com>"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Track a company and start its research loop
//	c, err := client.Companies.Create(ctx, company.New("Acme", ...))
//	run, err := client.Monitors.Start(ctx, c.ID(), userID)
package sago

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/sagohq/sago/application/handler"
	"github.com/sagohq/sago/application/service"
	"github.com/sagohq/sago/infrastructure/notify"
	"github.com/sagohq/sago/infrastructure/persistence"
	"github.com/sagohq/sago/internal/config"
	"github.com/sagohq/sago/internal/database"
)

// Client is the main entry point for the sago library.
// The background engine starts automatically on creation unless WithoutEngine
// is set.
//
// Access resources via struct fields:
//
//	client.Companies.List(ctx)
//	client.Monitors.Start(ctx, companyID, userID)
//	client.Rounds.ListByCompany(ctx, companyID)
type Client struct {
	// Public resource fields (direct service access)
	Companies service.Companies
	Users     service.Users
	Monitors  service.Monitors
	Rounds    service.Rounds

	db database.Database

	// Stores (shared by services and transition handlers)
	companyStore persistence.CompanyStore
	userStore    persistence.UserStore
	roundStore   persistence.RoundStore
	runStore     persistence.RunStore

	collector service.Collector
	registry  *handler.Registry
	engine    *service.Engine

	logger  *slog.Logger
	apiKeys []string
	closed  atomic.Bool
	mu      sync.Mutex
}

// New creates a new Client with the given options.
// The background engine is started automatically.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = config.DefaultLogger()
	}

	ctx := context.Background()

	// Open database
	db := cfg.db
	if !cfg.dbSet {
		if cfg.dbURL == "" {
			return nil, ErrNoDatabase
		}
		opened, err := database.NewDatabase(ctx, cfg.dbURL)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		db = opened
	}

	// Run auto migration
	if err := persistence.AutoMigrate(db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("auto migrate: %w", err), errClose)
	}

	// Create stores
	companyStore := persistence.NewCompanyStore(db)
	userStore := persistence.NewUserStore(db)
	roundStore := persistence.NewRoundStore(db)
	runStore := persistence.NewRunStore(db)

	client := &Client{
		db:           db,
		companyStore: companyStore,
		userStore:    userStore,
		roundStore:   roundStore,
		runStore:     runStore,
		logger:       logger,
		apiKeys:      cfg.apiKeys,
	}

	// Initialize service fields directly
	client.Companies = service.NewCompanies(companyStore, runStore, logger)
	client.Users = service.NewUsers(userStore, logger)
	client.Monitors = service.NewMonitors(runStore, companyStore, userStore, logger)
	client.Rounds = service.NewRounds(roundStore)

	if !cfg.engineDisabled {
		if cfg.researchProvider == nil {
			_ = db.Close()
			return nil, ErrNoResearchProvider
		}
		if cfg.decisionModel == nil {
			_ = db.Close()
			return nil, ErrNoDecisionModel
		}

		notifier := cfg.notifier
		if notifier == nil {
			logger.Warn("no notifier configured, escalations will only be logged")
			notifier = notify.NewLogNotifier(logger)
		}

		client.collector = service.NewCollector(cfg.researchProvider, logger)
		client.registry = client.registerHandlers(cfg, notifier)
		client.engine = service.NewEngine(runStore, client.registry, cfg.engine, logger)
		client.engine.Start(ctx)
	}

	return client, nil
}

// Close releases all resources and stops the background engine.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.engine != nil {
		c.engine.Stop()
	}

	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	c.logger.Info("sago client closed")
	return nil
}

// Engine returns the run engine, or nil when the engine is disabled.
// Exposed for tests that drive transitions synchronously.
func (c *Client) Engine() *service.Engine {
	return c.engine
}

// APIKeys returns the configured API keys for HTTP write protection.
func (c *Client) APIKeys() []string {
	keys := make([]string, len(c.apiKeys))
	copy(keys, c.apiKeys)
	return keys
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}
