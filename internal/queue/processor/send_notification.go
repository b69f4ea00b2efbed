package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/athaan-fi-beit/backend/internal/queue/task"
	"github.com/athaan-fi-beit/backend/internal/worker"

	"github.com/hibiken/asynq"
)

type sendAdminNotificationProcessor struct {
	workers *worker.Workers
}

func NewSendAdminNotificationProcessor(workers *worker.Workers) *sendAdminNotificationProcessor {
	return &sendAdminNotificationProcessor{
		workers: workers,
	}
}

func (p *sendAdminNotificationProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	data, err := unmarshalNotification(t)
	if err != nil {
		return err
	}

	if err = p.workers.EmailSender.SendAdminNotification(ctx, data.Registrant()); err != nil {
		return fmt.Errorf("send admin notification failed: %w", err)
	}

	return nil
}

type sendWelcomeEmailProcessor struct {
	workers *worker.Workers
}

func NewSendWelcomeEmailProcessor(workers *worker.Workers) *sendWelcomeEmailProcessor {
	return &sendWelcomeEmailProcessor{
		workers: workers,
	}
}

func (p *sendWelcomeEmailProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	data, err := unmarshalNotification(t)
	if err != nil {
		return err
	}

	if err = p.workers.EmailSender.SendWelcomeEmail(ctx, data.Registrant()); err != nil {
		return fmt.Errorf("send welcome email failed: %w", err)
	}

	return nil
}

// A payload that cannot be decoded will never succeed, so it skips retries.
func unmarshalNotification(t *asynq.Task) (task.SendNotification, error) {
	var data task.SendNotification
	if err := json.Unmarshal(t.Payload(), &data); err != nil {
		return data, fmt.Errorf("process %s task json unmarshal failed: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	return data, nil
}
