package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/sagohq/sago/domain/round"
)

// EnvConfig holds all environment-based configuration. Nested structs use an
// underscore delimiter (e.g. RESEARCH_ENDPOINT_BASE_URL).
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DBURL is the database connection URL.
	// Env: DB_URL (default: sqlite:///sago.db)
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// APIKeys is a comma-separated list of valid API keys.
	// Env: API_KEYS
	APIKeys string `envconfig:"API_KEYS"`

	// DashboardBaseURL is the base URL embedded in escalation deep links.
	// Env: DASHBOARD_BASE_URL
	DashboardBaseURL string `envconfig:"DASHBOARD_BASE_URL" default:"https://sago.lpm.sh"`

	// Monitor configures the research loop.
	Monitor MonitorEnv `envconfig:"MONITOR"`

	// Engine configures the run engine worker pool.
	Engine EngineEnv `envconfig:"ENGINE"`

	// ResearchEndpoint configures the research backend.
	ResearchEndpoint EndpointEnv `envconfig:"RESEARCH_ENDPOINT"`

	// DecisionEndpoint configures the decision model.
	DecisionEndpoint EndpointEnv `envconfig:"DECISION_ENDPOINT"`

	// DecisionProvider selects the decision model client: anthropic or openai.
	// Env: DECISION_PROVIDER (default: anthropic)
	DecisionProvider string `envconfig:"DECISION_PROVIDER" default:"anthropic"`

	// ResendAPIKey authenticates against the Resend email API.
	// Env: RESEND_API_KEY
	ResendAPIKey string `envconfig:"RESEND_API_KEY"`

	// ResendFrom is the escalation email sender address.
	// Env: RESEND_FROM
	ResendFrom string `envconfig:"RESEND_FROM" default:"Sago <companies@sago.lpm.sh>"`
}

// MonitorEnv holds environment configuration for the research loop.
type MonitorEnv struct {
	// CadenceSeconds is the wait between rounds.
	// Env: MONITOR_CADENCE_SECONDS (default: 21 days)
	CadenceSeconds int `envconfig:"CADENCE_SECONDS" default:"1814400"`

	// AbandonedRounds is the numbering policy for discarded rounds
	// (reuse or skip). Env: MONITOR_ABANDONED_ROUNDS (default: reuse)
	AbandonedRounds string `envconfig:"ABANDONED_ROUNDS" default:"reuse"`
}

// EngineEnv holds environment configuration for the engine.
type EngineEnv struct {
	// WorkerCount is the number of engine workers.
	// Env: ENGINE_WORKER_COUNT (default: 1)
	WorkerCount int `envconfig:"WORKER_COUNT" default:"1"`

	// PollPeriodSeconds is how often each worker checks for due runs.
	// Env: ENGINE_POLL_PERIOD_SECONDS (default: 1)
	PollPeriodSeconds float64 `envconfig:"POLL_PERIOD_SECONDS" default:"1"`

	// LeaseSeconds is how long a claimed run is invisible to other workers.
	// Env: ENGINE_LEASE_SECONDS (default: 300)
	LeaseSeconds int `envconfig:"LEASE_SECONDS" default:"300"`

	// RetryBackoffSeconds is the re-wake delay after a failed transition.
	// Env: ENGINE_RETRY_BACKOFF_SECONDS (default: 60)
	RetryBackoffSeconds int `envconfig:"RETRY_BACKOFF_SECONDS" default:"60"`
}

// EndpointEnv holds environment configuration for an external HTTP service.
type EndpointEnv struct {
	// BaseURL is the base URL for the endpoint. Env: *_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// Model is the model identifier for LLM endpoints. Env: *_MODEL
	Model string `envconfig:"MODEL"`

	// APIKey authenticates against the endpoint. Env: *_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// TimeoutSeconds is the per-request timeout. Env: *_TIMEOUT_SECONDS
	TimeoutSeconds int `envconfig:"TIMEOUT_SECONDS" default:"60"`

	// MaxRetries is the retry attempt limit. Env: *_MAX_RETRIES
	MaxRetries int `envconfig:"MAX_RETRIES" default:"5"`

	// PollIntervalSeconds is the poll interval for async task endpoints.
	// Env: *_POLL_INTERVAL_SECONDS
	PollIntervalSeconds float64 `envconfig:"POLL_INTERVAL_SECONDS" default:"5"`
}

// LoadConfig loads configuration from an optional .env file and the
// environment, returning the resolved AppConfig.
func LoadConfig(envFile string) (AppConfig, error) {
	if err := LoadDotEnv(envFile); err != nil {
		return AppConfig{}, fmt.Errorf("load env file: %w", err)
	}

	var env EnvConfig
	if err := envconfig.Process("", &env); err != nil {
		return AppConfig{}, fmt.Errorf("process environment: %w", err)
	}

	return env.Resolve()
}

// Resolve converts the raw environment values into an AppConfig.
func (e EnvConfig) Resolve() (AppConfig, error) {
	cfg := NewAppConfig()
	cfg.host = e.Host
	cfg.port = e.Port
	cfg.dbURL = e.DBURL
	cfg.logLevel = e.LogLevel
	cfg.logFormat = parseLogFormat(e.LogFormat)
	cfg.apiKeys = splitAPIKeys(e.APIKeys)
	cfg.dashboardBaseURL = e.DashboardBaseURL

	policy := round.AbandonPolicy(e.Monitor.AbandonedRounds)
	if !policy.Valid() {
		return AppConfig{}, fmt.Errorf("invalid MONITOR_ABANDONED_ROUNDS %q (want reuse or skip)", e.Monitor.AbandonedRounds)
	}
	cfg.monitor = NewMonitorConfig().
		WithCadence(time.Duration(e.Monitor.CadenceSeconds) * time.Second).
		WithAbandonedRounds(policy)

	cfg.engine = NewEngineConfig().
		WithWorkerCount(e.Engine.WorkerCount).
		WithPollPeriod(time.Duration(e.Engine.PollPeriodSeconds * float64(time.Second))).
		WithLease(time.Duration(e.Engine.LeaseSeconds) * time.Second).
		WithRetryBackoff(time.Duration(e.Engine.RetryBackoffSeconds) * time.Second)

	cfg.researchEndpoint = resolveEndpoint(e.ResearchEndpoint)
	cfg.decisionEndpoint = resolveEndpoint(e.DecisionEndpoint)
	cfg.decisionProvider = e.DecisionProvider
	cfg.resendAPIKey = e.ResendAPIKey
	cfg.resendFrom = e.ResendFrom

	return cfg, nil
}

func resolveEndpoint(e EndpointEnv) Endpoint {
	ep := NewEndpoint().
		WithBaseURL(e.BaseURL).
		WithModel(e.Model).
		WithAPIKey(e.APIKey)
	if e.TimeoutSeconds > 0 {
		ep = ep.WithTimeout(time.Duration(e.TimeoutSeconds) * time.Second)
	}
	if e.MaxRetries > 0 {
		ep.maxRetries = e.MaxRetries
	}
	if e.PollIntervalSeconds > 0 {
		ep = ep.WithPollInterval(time.Duration(e.PollIntervalSeconds * float64(time.Second)))
	}
	return ep
}
