package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a named unit of periodic work. Schedule is a six-field cron expression
// (seconds first).
type Job struct {
	Name     string
	Schedule string
	Timeout  time.Duration
	Run      func(ctx context.Context) error
}

type JobHistory struct {
	LastRun     time.Time
	LastSuccess time.Time
	LastError   string
	Runs        int
	Failures    int
}

type Scheduler struct {
	cron    *cron.Cron
	log     *slog.Logger
	mu      sync.RWMutex
	jobs    map[string]Job
	history map[string]*JobHistory
}

func New(log *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		log:     log,
		jobs:    make(map[string]Job),
		history: make(map[string]*JobHistory),
	}
}

func (s *Scheduler) Add(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.Name]; exists {
		return fmt.Errorf("job %s already exists", job.Name)
	}
	if _, err := s.cron.AddFunc(job.Schedule, func() { s.run(job) }); err != nil {
		return fmt.Errorf("schedule job %s: %w", job.Name, err)
	}
	s.jobs[job.Name] = job
	s.history[job.Name] = &JobHistory{}
	s.log.Info("job scheduled", slog.String("job", job.Name), slog.String("schedule", job.Schedule))
	return nil
}

func (s *Scheduler) Start() {
	s.log.Info("scheduler starting", slog.Int("jobs", len(s.jobs)))
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunNow runs a job synchronously, outside its schedule.
func (s *Scheduler) RunNow(name string) error {
	s.mu.RLock()
	job, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %s not found", name)
	}
	return s.run(job)
}

func (s *Scheduler) History(name string) (JobHistory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.history[name]
	if !ok {
		return JobHistory{}, false
	}
	return *h, true
}

func (s *Scheduler) run(job Job) error {
	ctx := context.Background()
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}
	start := time.Now()
	err := job.Run(ctx)

	s.mu.Lock()
	h := s.history[job.Name]
	h.LastRun = start
	h.Runs++
	if err != nil {
		h.Failures++
		h.LastError = err.Error()
	} else {
		h.LastSuccess = start
		h.LastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error("job failed", slog.String("job", job.Name), slog.String("err", err.Error()), slog.Duration("took", time.Since(start)))
		return err
	}
	s.log.Debug("job done", slog.String("job", job.Name), slog.Duration("took", time.Since(start)))
	return nil
}
