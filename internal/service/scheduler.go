package service

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// StartSessionEviction запускает периодическое закрытие простаивающих сессий.
// Вызывающий останавливает планировщик через Shutdown.
func StartSessionEviction(sessions *Sessions, every, maxIdle time.Duration, logger *zap.SugaredLogger) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			if n := sessions.EvictIdle(maxIdle); n > 0 {
				logger.Infow("idle sessions evicted", "count", n, "remaining", sessions.Len())
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("schedule eviction: %w", err)
	}

	sched.Start()
	return sched, nil
}
