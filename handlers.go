package sago

import (
	"github.com/sagohq/sago/application/handler"
	"github.com/sagohq/sago/domain/monitor"
	"github.com/sagohq/sago/infrastructure/notify"
)

// registerHandlers builds the transition handler registry. Every live state
// gets exactly one handler; the engine treats a missing handler as a failed
// transition.
func (c *Client) registerHandlers(cfg *clientConfig, notifier notify.Notifier) *handler.Registry {
	registry := handler.NewRegistry()

	registry.Register(monitor.StateScheduling,
		handler.NewSchedule(c.roundStore, cfg.monitor.Cadence(), c.logger))
	registry.Register(monitor.StateWaiting,
		handler.NewWait())
	registry.Register(monitor.StateResearching,
		handler.NewResearch(c.companyStore, c.roundStore, c.collector, cfg.monitor.AbandonedRounds(), c.logger))
	registry.Register(monitor.StateFinalizing,
		handler.NewFinalize(c.roundStore, c.logger))
	registry.Register(monitor.StateDeciding,
		handler.NewDecide(c.companyStore, c.roundStore, cfg.decisionModel, c.logger))
	registry.Register(monitor.StateNotifying,
		handler.NewNotify(c.userStore, c.companyStore, notifier, c.logger))

	return registry
}
