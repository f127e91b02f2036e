package main

import (
	"log/slog"

	"github.com/sagohq/sago"
	"github.com/sagohq/sago/infrastructure/notify"
	"github.com/sagohq/sago/infrastructure/provider"
	"github.com/sagohq/sago/infrastructure/research"
	"github.com/sagohq/sago/internal/config"
)

// defaultDBPath is used when DB_URL is not set.
const defaultDBPath = "sago.db"

// clientOptions translates the resolved AppConfig into sago client options.
// When the research backend or decision model is not configured the engine is
// disabled: the API stays available read-only and runs simply stop advancing.
func clientOptions(cfg config.AppConfig, logger *slog.Logger) []sago.Option {
	opts := []sago.Option{
		sago.WithLogger(logger),
		sago.WithMonitorConfig(cfg.Monitor()),
		sago.WithEngineConfig(cfg.Engine()),
	}

	if cfg.DBURL() != "" {
		opts = append(opts, sago.WithDatabaseURL(cfg.DBURL()))
	} else {
		opts = append(opts, sago.WithSQLite(defaultDBPath))
	}

	if keys := cfg.APIKeys(); len(keys) > 0 {
		opts = append(opts, sago.WithAPIKeys(keys...))
	}

	engineReady := true

	if re := cfg.ResearchEndpoint(); re.APIKey() != "" {
		exaOpts := []research.ExaOption{
			research.WithExaTimeout(re.Timeout()),
			research.WithExaPollInterval(re.PollInterval()),
			research.WithExaMaxRetries(re.MaxRetries()),
		}
		if re.BaseURL() != "" {
			exaOpts = append(exaOpts, research.WithExaBaseURL(re.BaseURL()))
		}
		opts = append(opts, sago.WithExa(re.APIKey(), exaOpts...))
	} else {
		logger.Warn("RESEARCH_ENDPOINT_API_KEY not set, research is unavailable")
		engineReady = false
	}

	if de := cfg.DecisionEndpoint(); de.APIKey() != "" {
		opts = append(opts, decisionOption(cfg, de))
	} else {
		logger.Warn("DECISION_ENDPOINT_API_KEY not set, decisions are unavailable")
		engineReady = false
	}

	if cfg.ResendAPIKey() != "" {
		opts = append(opts, sago.WithResend(cfg.ResendAPIKey(), cfg.ResendFrom(),
			notify.WithDashboardBaseURL(cfg.DashboardBaseURL())))
	}

	if !engineReady {
		opts = append(opts, sago.WithoutEngine())
	}

	return opts
}

// decisionOption builds the decision model option for the configured provider.
func decisionOption(cfg config.AppConfig, de config.Endpoint) sago.Option {
	if cfg.DecisionProvider() == "openai" {
		oaOpts := []provider.OpenAIOption{
			provider.WithOpenAITimeout(de.Timeout()),
			provider.WithOpenAIMaxRetries(de.MaxRetries()),
		}
		if de.Model() != "" {
			oaOpts = append(oaOpts, provider.WithOpenAIModel(de.Model()))
		}
		if de.BaseURL() != "" {
			oaOpts = append(oaOpts, provider.WithOpenAIBaseURL(de.BaseURL()))
		}
		return sago.WithOpenAI(de.APIKey(), oaOpts...)
	}

	anOpts := []provider.AnthropicOption{
		provider.WithAnthropicTimeout(de.Timeout()),
		provider.WithAnthropicMaxRetries(de.MaxRetries()),
	}
	if de.Model() != "" {
		anOpts = append(anOpts, provider.WithAnthropicModel(de.Model()))
	}
	if de.BaseURL() != "" {
		anOpts = append(anOpts, provider.WithAnthropicBaseURL(de.BaseURL()))
	}
	return sago.WithAnthropic(de.APIKey(), anOpts...)
}
