package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vidhiq/vidhiq-backend/internal/entity"
	"github.com/vidhiq/vidhiq-backend/internal/infra/queue"
	"github.com/vidhiq/vidhiq-backend/internal/logger"
)

type notificationProducer interface {
	PublishNotification(ctx context.Context, payload queue.NotificationPayload) error
}

// FollowUpWorker periodically finds leads that are still awaiting payment and
// queues an ops reminder for each. Read-only over leads; reminders are
// best-effort like every other notification.
type FollowUpWorker struct {
	leads        entity.LeadRepositoryInterface
	producer     notificationProducer
	staleAfter   time.Duration
	tickInterval time.Duration
	batchSize    int
}

func NewFollowUpWorker(leads entity.LeadRepositoryInterface, producer notificationProducer) *FollowUpWorker {
	return &FollowUpWorker{
		leads:        leads,
		producer:     producer,
		staleAfter:   24 * time.Hour,
		tickInterval: time.Hour,
		batchSize:    50,
	}
}

func (w *FollowUpWorker) Start(ctx context.Context) {
	logger.L().Info("follow-up worker started",
		zap.Duration("stale_after", w.staleAfter),
		zap.Duration("tick", w.tickInterval),
	)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.L().Info("follow-up worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *FollowUpWorker) sweep(ctx context.Context) {
	stale, err := w.leads.FindStalePending(ctx, w.staleAfter, w.batchSize)
	if err != nil {
		logger.L().Error("failed to scan for stale pending leads", zap.Error(err))
		return
	}
	if len(stale) == 0 {
		return
	}

	queued := 0
	for _, lead := range stale {
		payload := queue.NotificationPayload{
			Kind:     queue.KindFollowUp,
			LeadID:   lead.ID,
			CustomID: lead.CustomID,
			Service:  lead.Service,
		}
		if err := w.producer.PublishNotification(ctx, payload); err != nil {
			logger.L().Warn("failed to queue follow-up reminder",
				zap.String("custom_id", lead.CustomID), zap.Error(err))
			continue
		}
		queued++
	}

	logger.L().Info("follow-up sweep complete",
		zap.Int("stale", len(stale)), zap.Int("queued", queued))
}
