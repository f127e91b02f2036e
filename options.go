package sago

import (
	"log/slog"

	"github.com/sagohq/sago/domain/decision"
	"github.com/sagohq/sago/domain/research"
	"github.com/sagohq/sago/infrastructure/notify"
	"github.com/sagohq/sago/infrastructure/provider"
	exaresearch "github.com/sagohq/sago/infrastructure/research"
	"github.com/sagohq/sago/internal/config"
	"github.com/sagohq/sago/internal/database"
)

// clientConfig holds configuration for Client construction.
// Use newClientConfig() to create with defaults from internal/config.
type clientConfig struct {
	dbURL            string
	db               database.Database
	dbSet            bool
	researchProvider research.Provider
	decisionModel    decision.Model
	notifier         notify.Notifier
	logger           *slog.Logger
	apiKeys          []string
	monitor          config.MonitorConfig
	engine           config.EngineConfig
	engineDisabled   bool
}

// newClientConfig creates a clientConfig with defaults from internal/config.
// This ensures all defaults come from the single source of truth.
func newClientConfig() *clientConfig {
	return &clientConfig{
		monitor: config.NewMonitorConfig(),
		engine:  config.NewEngineConfig(),
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithSQLite configures SQLite as the database.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.dbURL = "sqlite:///" + path
	}
}

// WithPostgres configures PostgreSQL as the database.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.dbURL = dsn
	}
}

// WithDatabaseURL configures the database from a URL
// (sqlite:///path or postgres://...).
func WithDatabaseURL(url string) Option {
	return func(c *clientConfig) {
		c.dbURL = url
	}
}

// WithDatabase uses an already-open database. The Client takes ownership and
// closes it on Close. Intended for tests.
func WithDatabase(db database.Database) Option {
	return func(c *clientConfig) {
		c.db = db
		c.dbSet = true
	}
}

// WithExa sets Exa as the research backend.
func WithExa(apiKey string, opts ...exaresearch.ExaOption) Option {
	return func(c *clientConfig) {
		c.researchProvider = exaresearch.NewExaClient(apiKey, opts...)
	}
}

// WithResearchProvider sets a custom research backend.
func WithResearchProvider(p research.Provider) Option {
	return func(c *clientConfig) {
		c.researchProvider = p
	}
}

// WithAnthropic sets Anthropic Claude as the decision model.
func WithAnthropic(apiKey string, opts ...provider.AnthropicOption) Option {
	return func(c *clientConfig) {
		c.decisionModel = provider.NewDecisionModel(provider.NewAnthropicProvider(apiKey, opts...))
	}
}

// WithOpenAI sets OpenAI as the decision model.
func WithOpenAI(apiKey string, opts ...provider.OpenAIOption) Option {
	return func(c *clientConfig) {
		c.decisionModel = provider.NewDecisionModel(provider.NewOpenAIProvider(apiKey, opts...))
	}
}

// WithDecisionModel sets a custom decision model.
func WithDecisionModel(m decision.Model) Option {
	return func(c *clientConfig) {
		c.decisionModel = m
	}
}

// WithResend sets Resend as the escalation email channel.
func WithResend(apiKey, from string, opts ...notify.ResendOption) Option {
	return func(c *clientConfig) {
		c.notifier = notify.NewResendNotifier(apiKey, from, opts...)
	}
}

// WithNotifier sets a custom escalation notifier.
func WithNotifier(n notify.Notifier) Option {
	return func(c *clientConfig) {
		c.notifier = n
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// WithAPIKeys sets the API keys for HTTP API write protection.
func WithAPIKeys(keys ...string) Option {
	return func(c *clientConfig) {
		c.apiKeys = keys
	}
}

// WithMonitorConfig sets the research loop cadence and round policy.
func WithMonitorConfig(cfg config.MonitorConfig) Option {
	return func(c *clientConfig) {
		c.monitor = cfg
	}
}

// WithEngineConfig sets the engine worker pool configuration.
func WithEngineConfig(cfg config.EngineConfig) Option {
	return func(c *clientConfig) {
		c.engine = cfg
	}
}

// WithoutEngine disables the background engine. Monitoring state can still be
// inspected and mutated through the services, but runs will not advance.
// Intended for read-only deployments and tests that drive transitions by hand.
func WithoutEngine() Option {
	return func(c *clientConfig) {
		c.engineDisabled = true
	}
}
