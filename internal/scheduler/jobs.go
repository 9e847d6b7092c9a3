package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/AngelCh415/clinicpulse/internal/models"
)

type Ingester interface {
	Run(ctx context.Context, since *time.Time) error
}

type Scanner interface {
	Scan() []models.NotificationEvent
}

// RefreshJob reloads the whole snapshot from the upstream source.
func RefreshJob(schedule string, ing Ingester, timeout time.Duration) Job {
	return Job{
		Name:     "ingest-refresh",
		Schedule: schedule,
		Timeout:  timeout,
		Run: func(ctx context.Context) error {
			return ing.Run(ctx, nil)
		},
	}
}

// NotifyJob rescans the snapshot so call reminders surface within their
// window even when nobody is polling the API.
func NotifyJob(schedule string, sc Scanner, log *slog.Logger) Job {
	return Job{
		Name:     "notification-scan",
		Schedule: schedule,
		Run: func(ctx context.Context) error {
			events := sc.Scan()
			counts := make(map[models.NotificationType]int)
			for _, e := range events {
				counts[e.Type]++
			}
			attrs := []any{slog.Int("total", len(events))}
			for _, t := range models.NotificationTypes {
				attrs = append(attrs, slog.Int(string(t), counts[t]))
			}
			log.Info("notification scan", attrs...)
			return nil
		},
	}
}
