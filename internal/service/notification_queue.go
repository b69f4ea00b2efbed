package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/athaan-fi-beit/backend/internal/domain"
	"github.com/athaan-fi-beit/backend/internal/metrics"
	"github.com/athaan-fi-beit/backend/internal/queue/client"
	"github.com/athaan-fi-beit/backend/internal/queue/task"

	"github.com/hibiken/asynq"
)

var errQueueClientMissing = errors.New("queue client is not configured")

// queuedNotifier publishes notification tasks; the worker sends them later
// through EmailService.
type queuedNotifier struct {
	metrics *metrics.Metrics
}

func newQueuedNotifier(metrics *metrics.Metrics) *queuedNotifier {
	return &queuedNotifier{metrics: metrics}
}

func (n *queuedNotifier) NotifyAdmin(ctx context.Context, registrant *domain.Registrant) error {
	t, err := task.NewSendAdminNotificationTask(registrant)
	if err != nil {
		return fmt.Errorf("new admin notification task failed: %w", err)
	}
	return n.enqueue(ctx, metrics.NotificationAdmin, t)
}

func (n *queuedNotifier) NotifyRegistrant(ctx context.Context, registrant *domain.Registrant) error {
	t, err := task.NewSendWelcomeEmailTask(registrant)
	if err != nil {
		return fmt.Errorf("new welcome email task failed: %w", err)
	}
	return n.enqueue(ctx, metrics.NotificationWelcome, t)
}

func (n *queuedNotifier) enqueue(ctx context.Context, kind string, t *asynq.Task) error {
	c := client.GetClient(ctx)
	if c == nil {
		n.metrics.ObserveNotification(kind, metrics.ResultFailed)
		return errQueueClientMissing
	}

	if _, err := c.EnqueueContext(ctx, t); err != nil {
		n.metrics.ObserveNotification(kind, metrics.ResultFailed)
		return fmt.Errorf("enqueue %s task failed: %w", t.Type(), err)
	}

	n.metrics.ObserveNotification(kind, metrics.ResultEnqueued)

	return nil
}
