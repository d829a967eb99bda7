package importer

import (
	"context"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/djewell11/cmti-tools/internal/domain"
)

// TableLoader fetches a source's current table. Implementations read a
// CSV export, call an API, or replay a fixture.
type TableLoader func(ctx context.Context) (*domain.Table, error)

// Schedule pairs a source's row builder and loader with a cron
// expression.
type Schedule struct {
	Builder RowBuilder
	Loader  TableLoader
	Cron    string
}

// Scheduler re-imports sources on cron schedules, so the inventory tracks
// upstream datasets that are republished periodically.
type Scheduler struct {
	cron     *cron.Cron
	pipeline *Pipeline
	logger   *slog.Logger
	mu       sync.Mutex
	entries  map[string]cron.EntryID // source name → cron entry
}

func NewScheduler(pipeline *Pipeline, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{
		cron:     cron.New(),
		pipeline: pipeline,
		logger:   logger,
		entries:  make(map[string]cron.EntryID),
	}
}

// Add registers a source schedule. Re-adding a source replaces its
// existing entry.
func (s *Scheduler) Add(sched Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	source := sched.Builder.Source()
	if entryID, ok := s.entries[source]; ok {
		s.cron.Remove(entryID)
	}

	entryID, err := s.cron.AddFunc(sched.Cron, func() {
		ctx := context.Background()
		table, err := sched.Loader(ctx)
		if err != nil {
			s.logger.Warn("scheduled load failed", "source", source, "error", err)
			return
		}
		if _, err := s.pipeline.Run(ctx, sched.Builder, table); err != nil {
			s.logger.Warn("scheduled import failed", "source", source, "error", err)
		}
	})
	if err != nil {
		return domain.ErrValidation("invalid cron schedule %q for source %s: %v",
			sched.Cron, source, err)
	}

	s.entries[source] = entryID
	s.logger.Info("scheduled source import", "source", source, "schedule", sched.Cron)
	return nil
}

// Start begins running registered schedules.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("import scheduler started")
}

// Stop stops the scheduler without interrupting a run in flight.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("import scheduler stopped")
}
