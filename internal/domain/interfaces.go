package domain

import (
	"context"

	"kashika/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BookingNotifier turns a submission into the admin and user notifications.
type BookingNotifier interface {
	Notify(ctx context.Context, sub models.Submission) BookingOutcome
}

// BookingOutcome is the joined result of both notification dispatches.
type BookingOutcome interface {
	Succeeded() bool
	Status() string
	Message() string
	Err() error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}
