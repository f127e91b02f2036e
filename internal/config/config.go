// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sagohq/sago/domain/round"
)

// Default configuration values.
const (
	DefaultHost               = "0.0.0.0"
	DefaultPort               = 8080
	DefaultLogLevel           = "INFO"
	DefaultCadence            = 21 * 24 * time.Hour
	DefaultEngineWorkerCount  = 1
	DefaultEnginePollPeriod   = time.Second
	DefaultEngineLease        = 5 * time.Minute
	DefaultEngineRetryBackoff = time.Minute
	DefaultEndpointTimeout    = 60 * time.Second
	DefaultEndpointMaxRetries = 5
	DefaultEndpointDelay      = 2 * time.Second
	DefaultEndpointBackoff    = 2.0
	DefaultResearchPoll       = 5 * time.Second
	DefaultDashboardBaseURL   = "https://sago.lpm.sh"
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// MonitorConfig configures the research loop cadence and round policy.
type MonitorConfig struct {
	cadence         time.Duration
	abandonedRounds round.AbandonPolicy
}

// NewMonitorConfig creates a MonitorConfig with defaults.
func NewMonitorConfig() MonitorConfig {
	return MonitorConfig{
		cadence:         DefaultCadence,
		abandonedRounds: round.PolicyReuseNumber,
	}
}

// Cadence returns the wait interval between rounds.
func (m MonitorConfig) Cadence() time.Duration { return m.cadence }

// AbandonedRounds returns the numbering policy for discarded rounds.
func (m MonitorConfig) AbandonedRounds() round.AbandonPolicy { return m.abandonedRounds }

// WithCadence returns a copy with the given cadence.
func (m MonitorConfig) WithCadence(d time.Duration) MonitorConfig {
	m.cadence = d
	return m
}

// WithAbandonedRounds returns a copy with the given policy.
func (m MonitorConfig) WithAbandonedRounds(p round.AbandonPolicy) MonitorConfig {
	m.abandonedRounds = p
	return m
}

// EngineConfig configures the run engine worker pool.
type EngineConfig struct {
	workerCount  int
	pollPeriod   time.Duration
	lease        time.Duration
	retryBackoff time.Duration
}

// NewEngineConfig creates an EngineConfig with defaults.
func NewEngineConfig() EngineConfig {
	return EngineConfig{
		workerCount:  DefaultEngineWorkerCount,
		pollPeriod:   DefaultEnginePollPeriod,
		lease:        DefaultEngineLease,
		retryBackoff: DefaultEngineRetryBackoff,
	}
}

// WorkerCount returns the number of engine workers.
func (e EngineConfig) WorkerCount() int { return e.workerCount }

// PollPeriod returns how often each worker checks for due runs.
func (e EngineConfig) PollPeriod() time.Duration { return e.pollPeriod }

// Lease returns how long a claimed run stays invisible to other workers.
func (e EngineConfig) Lease() time.Duration { return e.lease }

// RetryBackoff returns the re-wake delay after a failed transition.
func (e EngineConfig) RetryBackoff() time.Duration { return e.retryBackoff }

// WithWorkerCount returns a copy with the given worker count.
func (e EngineConfig) WithWorkerCount(n int) EngineConfig {
	e.workerCount = n
	return e
}

// WithPollPeriod returns a copy with the given poll period.
func (e EngineConfig) WithPollPeriod(d time.Duration) EngineConfig {
	e.pollPeriod = d
	return e
}

// WithLease returns a copy with the given lease duration.
func (e EngineConfig) WithLease(d time.Duration) EngineConfig {
	e.lease = d
	return e
}

// WithRetryBackoff returns a copy with the given retry backoff.
func (e EngineConfig) WithRetryBackoff(d time.Duration) EngineConfig {
	e.retryBackoff = d
	return e
}

// Endpoint configures an external HTTP service (research backend, decision
// model, or notification channel).
type Endpoint struct {
	baseURL       string
	model         string
	apiKey        string
	timeout       time.Duration
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
	pollInterval  time.Duration
}

// NewEndpoint creates an Endpoint with defaults.
func NewEndpoint() Endpoint {
	return Endpoint{
		timeout:       DefaultEndpointTimeout,
		maxRetries:    DefaultEndpointMaxRetries,
		initialDelay:  DefaultEndpointDelay,
		backoffFactor: DefaultEndpointBackoff,
		pollInterval:  DefaultResearchPoll,
	}
}

// BaseURL returns the base URL for the endpoint.
func (e Endpoint) BaseURL() string { return e.baseURL }

// Model returns the model identifier, if the endpoint is an LLM.
func (e Endpoint) Model() string { return e.model }

// APIKey returns the API key.
func (e Endpoint) APIKey() string { return e.apiKey }

// Timeout returns the per-request timeout.
func (e Endpoint) Timeout() time.Duration { return e.timeout }

// MaxRetries returns the retry attempt limit.
func (e Endpoint) MaxRetries() int { return e.maxRetries }

// InitialDelay returns the first retry delay.
func (e Endpoint) InitialDelay() time.Duration { return e.initialDelay }

// BackoffFactor returns the retry backoff multiplier.
func (e Endpoint) BackoffFactor() float64 { return e.backoffFactor }

// PollInterval returns the poll interval for async task endpoints.
func (e Endpoint) PollInterval() time.Duration { return e.pollInterval }

// WithBaseURL returns a copy with the given base URL.
func (e Endpoint) WithBaseURL(url string) Endpoint {
	e.baseURL = url
	return e
}

// WithModel returns a copy with the given model.
func (e Endpoint) WithModel(model string) Endpoint {
	e.model = model
	return e
}

// WithAPIKey returns a copy with the given API key.
func (e Endpoint) WithAPIKey(key string) Endpoint {
	e.apiKey = key
	return e
}

// WithTimeout returns a copy with the given timeout.
func (e Endpoint) WithTimeout(d time.Duration) Endpoint {
	e.timeout = d
	return e
}

// WithPollInterval returns a copy with the given poll interval.
func (e Endpoint) WithPollInterval(d time.Duration) Endpoint {
	e.pollInterval = d
	return e
}

// AppConfig is the resolved application configuration.
type AppConfig struct {
	host             string
	port             int
	dbURL            string
	logLevel         string
	logFormat        LogFormat
	apiKeys          []string
	dashboardBaseURL string
	monitor          MonitorConfig
	engine           EngineConfig
	researchEndpoint Endpoint
	decisionEndpoint Endpoint
	decisionProvider string
	resendAPIKey     string
	resendFrom       string
}

// NewAppConfig creates an AppConfig with defaults.
func NewAppConfig() AppConfig {
	return AppConfig{
		host:             DefaultHost,
		port:             DefaultPort,
		logLevel:         DefaultLogLevel,
		logFormat:        LogFormatPretty,
		dashboardBaseURL: DefaultDashboardBaseURL,
		monitor:          NewMonitorConfig(),
		engine:           NewEngineConfig(),
		researchEndpoint: NewEndpoint(),
		decisionEndpoint: NewEndpoint(),
	}
}

// Host returns the server bind host.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port.
func (c AppConfig) Port() int { return c.port }

// Addr returns the host:port bind address.
func (c AppConfig) Addr() string { return fmt.Sprintf("%s:%d", c.host, c.port) }

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log verbosity level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log output format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// APIKeys returns the accepted API keys.
func (c AppConfig) APIKeys() []string {
	result := make([]string, len(c.apiKeys))
	copy(result, c.apiKeys)
	return result
}

// DashboardBaseURL returns the base URL used in escalation deep links.
func (c AppConfig) DashboardBaseURL() string { return c.dashboardBaseURL }

// Monitor returns the research loop configuration.
func (c AppConfig) Monitor() MonitorConfig { return c.monitor }

// Engine returns the engine configuration.
func (c AppConfig) Engine() EngineConfig { return c.engine }

// ResearchEndpoint returns the research backend endpoint.
func (c AppConfig) ResearchEndpoint() Endpoint { return c.researchEndpoint }

// DecisionEndpoint returns the decision model endpoint.
func (c AppConfig) DecisionEndpoint() Endpoint { return c.decisionEndpoint }

// DecisionProvider returns the decision model provider name
// ("anthropic" or "openai").
func (c AppConfig) DecisionProvider() string { return c.decisionProvider }

// ResendAPIKey returns the Resend API key.
func (c AppConfig) ResendAPIKey() string { return c.resendAPIKey }

// ResendFrom returns the escalation email sender.
func (c AppConfig) ResendFrom() string { return c.resendFrom }

// WithHost returns a copy with the given bind host.
func (c AppConfig) WithHost(host string) AppConfig {
	c.host = host
	return c
}

// WithPort returns a copy with the given port.
func (c AppConfig) WithPort(port int) AppConfig {
	c.port = port
	return c
}

// DefaultLogger returns a plain text slog logger at INFO level.
func DefaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func parseLogFormat(s string) LogFormat {
	if strings.EqualFold(s, string(LogFormatJSON)) {
		return LogFormatJSON
	}
	return LogFormatPretty
}

func splitAPIKeys(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	return keys
}
