package backup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/YoshitsuguKoike/taskplan/internal/app"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/repository"
)

// SnapshotSource provides the snapshot to back up
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*repository.Snapshot, error)
}

// Result describes the outcome of one backup run
type Result struct {
	At       time.Time
	Entities int
	Err      error
}

// Scheduler copies the current snapshot to a secondary repository on a cron schedule
type Scheduler struct {
	source SnapshotSource
	target repository.SnapshotRepository
	spec   string
	logger app.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	entryID cron.EntryID
	last    Result
	runs    int
	now     func() time.Time
}

// NewScheduler validates the cron spec (standard five fields or a
// descriptor such as "@hourly" and "@every 30m") and creates a scheduler.
func NewScheduler(spec string, source SnapshotSource, target repository.SnapshotRepository, logger app.Logger) (*Scheduler, error) {
	if source == nil || target == nil {
		return nil, errors.New("backup: source and target are required")
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("backup: invalid schedule %q: %w", spec, err)
	}
	return &Scheduler{
		source: source,
		target: target,
		spec:   spec,
		logger: app.OrDefault(logger),
		now:    time.Now,
	}, nil
}

// RunOnce takes one backup immediately
func (s *Scheduler) RunOnce(ctx context.Context) error {
	res := Result{At: s.now()}
	snap, err := s.source.Snapshot(ctx)
	if err == nil {
		res.Entities = snap.Len()
		err = s.target.Save(ctx, snap)
	}
	res.Err = err

	s.mu.Lock()
	s.last = res
	s.runs++
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("backup failed: %v", err)
		return fmt.Errorf("backup: %w", err)
	}
	s.logger.Debug("backup saved %d entities", res.Entities)
	return nil
}

// Start begins running backups on the schedule
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return errors.New("backup: scheduler already started")
	}

	c := cron.New()
	id, err := c.AddFunc(s.spec, func() {
		_ = s.RunOnce(context.Background())
	})
	if err != nil {
		return fmt.Errorf("backup: register schedule: %w", err)
	}
	s.cron = c
	s.entryID = id
	c.Start()
	s.logger.Info("backup scheduled (%s)", s.spec)
	return nil
}

// Stop stops the schedule and waits for a running backup until ctx is done
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c == nil {
		return nil
	}

	select {
	case <-c.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next returns the next scheduled run, false when not started
func (s *Scheduler) Next() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return time.Time{}, false
	}
	return s.cron.Entry(s.entryID).Next, true
}

// Last returns the most recent run and the number of runs so far
func (s *Scheduler) Last() (Result, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.runs
}
