package task

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/athaan-fi-beit/backend/internal/domain"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	SendAdminNotificationTaskName = "sendAdminNotificationTask"
	SendWelcomeEmailTaskName      = "sendWelcomeEmailTask"
	NotificationQueueName         = "notificationQueue"

	notificationMaxRetry = 3
)

type SendNotification struct {
	RegistrantID uuid.UUID `json:"registrant_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
}

func (n SendNotification) Registrant() *domain.Registrant {
	return &domain.Registrant{
		ID:        n.RegistrantID,
		Name:      n.Name,
		Email:     n.Email,
		Phone:     n.Phone,
		CreatedAt: n.CreatedAt,
	}
}

func NewSendAdminNotificationTask(registrant *domain.Registrant) (*asynq.Task, error) {
	return newSendNotificationTask(SendAdminNotificationTaskName, registrant)
}

func NewSendWelcomeEmailTask(registrant *domain.Registrant) (*asynq.Task, error) {
	return newSendNotificationTask(SendWelcomeEmailTaskName, registrant)
}

func newSendNotificationTask(name string, registrant *domain.Registrant) (*asynq.Task, error) {
	data := SendNotification{
		RegistrantID: registrant.ID,
		Name:         registrant.Name,
		Email:        registrant.Email,
		Phone:        registrant.Phone,
		CreatedAt:    registrant.CreatedAt,
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("json data marshal failed: %w", err)
	}

	return asynq.NewTask(
		name,
		payload,
		asynq.MaxRetry(notificationMaxRetry),
		asynq.Queue(NotificationQueueName),
	), nil
}
