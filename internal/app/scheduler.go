package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Materializer превращает активные шаблоны расписаний в блоки
type Materializer interface {
	MaterializeAll(ctx context.Context, weeksAhead int) (int, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	materializer Materializer
	interval     time.Duration
	weeksAhead   int
	logger       *zap.Logger
	stopChan     chan struct{}
	stopOnce     sync.Once
	done         chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(materializer Materializer, interval time.Duration, weeksAhead int, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		materializer: materializer,
		interval:     interval,
		weeksAhead:   weeksAhead,
		logger:       logger,
		stopChan:     make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler",
		zap.Duration("interval", s.interval),
		zap.Int("weeks_ahead", s.weeksAhead),
	)

	go s.runMaterializeTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт завершения текущего прохода
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	<-s.done
}

// runMaterializeTask периодически создаёт блоки по шаблонам расписаний
func (s *Scheduler) runMaterializeTask(ctx context.Context) {
	defer close(s.done)

	// Первый запуск сразу при старте
	s.materialize(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.materialize(ctx)
		case <-s.stopChan:
			s.logger.Info("Block materialization task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Block materialization task cancelled")
			return
		}
	}
}

func (s *Scheduler) materialize(ctx context.Context) {
	// Блоки всегда доступны на weeksAhead недель вперёд
	created, err := s.materializer.MaterializeAll(ctx, s.weeksAhead)
	if err != nil {
		s.logger.Error("Failed to materialize blocks", zap.Error(err))
		return
	}

	s.logger.Debug("Block materialization pass completed", zap.Int("blocks_created", created))
}
