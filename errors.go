package sago

import "errors"

// Construction and lifecycle errors.
var (
	// ErrNoDatabase is returned by New when no database option is set.
	ErrNoDatabase = errors.New("no database configured: use WithSQLite, WithPostgres or WithDatabaseURL")

	// ErrNoResearchProvider is returned by New when the engine is enabled but
	// no research backend is configured.
	ErrNoResearchProvider = errors.New("no research provider configured: use WithExa or WithResearchProvider")

	// ErrNoDecisionModel is returned by New when the engine is enabled but no
	// decision model is configured.
	ErrNoDecisionModel = errors.New("no decision model configured: use WithAnthropic, WithOpenAI or WithDecisionModel")

	// ErrClientClosed is returned when using a closed Client.
	ErrClientClosed = errors.New("client is closed")
)
