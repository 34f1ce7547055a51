package commands

import (
	"dockassign/internal/config"
	"dockassign/internal/reassign"
	"dockassign/internal/service"
)

// workflowOptions maps settings onto workflow options.
func workflowOptions(cfg *config.Config) reassign.Options {
	s := cfg.Settings
	return reassign.Options{
		Filtered: s.List.Strategy == config.StrategyFiltered,
		Trackers: s.List.Trackers,
		Statuses: s.List.Statuses,
		Lookback: s.List.Lookback,
		Strict:   s.Match.Strict,
		Logger:   cfg.Logger(),
	}
}

func newWorkflow(cfg *config.Config, svc service.Service) *reassign.Workflow {
	return reassign.New(svc, workflowOptions(cfg))
}
