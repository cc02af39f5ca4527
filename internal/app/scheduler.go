package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Время на одну фоновую задачу
const jobTimeout = 5 * time.Minute

// Job - фоновая задача планировщика
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
}

// NewScheduler создаёт планировщик, расписания считаются в часовом поясе loc
func NewScheduler(loc *time.Location, logger *zap.Logger, jobs ...Job) (*Scheduler, error) {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}

	for _, job := range jobs {
		if _, err := s.cron.AddFunc(job.Spec, s.wrap(job)); err != nil {
			cancel()
			return nil, fmt.Errorf("schedule job %s (%q): %w", job.Name, job.Spec, err)
		}
	}

	return s, nil
}

// Start запускает фоновые задачи
func (s *Scheduler) Start() {
	s.logger.Info("Starting background scheduler", zap.Int("jobs", len(s.cron.Entries())))
	s.cron.Start()
}

// Stop останавливает планировщик и ждёт завершения запущенных задач
func (s *Scheduler) Stop(ctx context.Context) {
	s.logger.Info("Stopping background scheduler")
	s.cancel()

	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("Background jobs did not finish in time")
	}
}

func (s *Scheduler) wrap(job Job) func() {
	return func() {
		ctx, cancel := context.WithTimeout(s.ctx, jobTimeout)
		defer cancel()

		start := time.Now()
		if err := job.Run(ctx); err != nil {
			s.logger.Error("Background job failed", zap.String("job", job.Name), zap.Error(err))
			return
		}
		s.logger.Debug("Background job completed",
			zap.String("job", job.Name),
			zap.Duration("duration", time.Since(start)))
	}
}
