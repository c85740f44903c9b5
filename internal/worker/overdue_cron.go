package worker

// overdue_cron.go
// Background goroutine that periodically looks for production jobs past
// their due date and notifies admins in-app. Ticks hourly; a Redis key
// with a daily TTL keeps one reminder per job per day across restarts.

import (
	"context"
	"fmt"
	"time"

	"github.com/qureshi08/NPF-1/internal/dto"
	"github.com/qureshi08/NPF-1/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	overdueTickInterval = time.Hour
	overdueSeenPrefix   = "overdue_notified:"
)

// OverdueCronConfig holds the dependencies for the overdue job reminder.
type OverdueCronConfig struct {
	ProductionRepo repository.ProductionRepository
	Dispatcher     *Dispatcher
	RDB            *redis.Client
}

// StartOverdueCron launches the reminder goroutine. It respects the
// context for graceful shutdown.
func StartOverdueCron(ctx context.Context, cfg OverdueCronConfig) {
	go func() {
		ticker := time.NewTicker(overdueTickInterval)
		defer ticker.Stop()

		log.Info().Msg("overdue_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("overdue_cron: shutting down")
				return
			case <-ticker.C:
				checkOverdueJobs(ctx, cfg)
			}
		}
	}()
}

func checkOverdueJobs(ctx context.Context, cfg OverdueCronConfig) {
	jobs, _, err := cfg.ProductionRepo.List(ctx, dto.ProductionJobFilter{
		Overdue: true,
		Page:    1,
		Limit:   100,
	})
	if err != nil {
		log.Error().Err(err).Msg("overdue_cron: query failed")
		return
	}

	for _, job := range jobs {
		seenKey := overdueSeenPrefix + job.ID.String()
		set, err := cfg.RDB.SetNX(ctx, seenKey, 1, 24*time.Hour).Result()
		if err != nil || !set {
			continue // already reminded today
		}

		link := "/production/" + job.ID.String()
		msg := fmt.Sprintf("Production job %q is overdue (due %s)",
			job.ProductName, job.DueDate.Format("2006-01-02"))
		_ = cfg.Dispatcher.EnqueueNotify(ctx, NotifyJobPayload{
			Broadcast: true,
			Message:   msg,
			Type:      "warning",
			Link:      &link,
		})
	}
}
