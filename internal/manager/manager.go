package manager

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"cinebatch/internal/ingest"
	"cinebatch/internal/logger"
)

// Manager runs the configured ingestion pass on a cron schedule. Runs
// never overlap: the pipeline is sequential, so a tick that fires while
// a run is active is skipped.
type Manager struct {
	runner   *ingest.Runner
	log      *logger.Logger
	cron     *cron.Cron
	schedule string
	running  chan struct{}
}

func New(runner *ingest.Runner, log *logger.Logger, schedule string) *Manager {
	return &Manager{
		runner:   runner,
		log:      log,
		cron:     cron.New(),
		schedule: schedule,
		running:  make(chan struct{}, 1),
	}
}

func (m *Manager) Start(ctx context.Context) error {
	_, err := m.cron.AddFunc(m.schedule, func() { m.runOnce(ctx) })
	if err != nil {
		return fmt.Errorf("error scheduling ingestion run: %v", err)
	}

	m.cron.Start()
	m.log.Info("manager", "Start", fmt.Sprintf("Scheduled ingestion runs: %s", m.schedule))
	return nil
}

func (m *Manager) Stop() {
	if m.cron != nil {
		m.cron.Stop()
	}
}

func (m *Manager) runOnce(ctx context.Context) {
	select {
	case m.running <- struct{}{}:
		defer func() { <-m.running }()
	default:
		m.log.Warning("manager", "runOnce", "Previous ingestion run still active, skipping this tick")
		return
	}

	if err := m.runner.Run(ctx); err != nil {
		m.log.Error("manager", "runOnce", fmt.Sprintf("Scheduled ingestion run failed: %v", err))
	}
}
