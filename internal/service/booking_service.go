package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"kashika/internal/config"
	"kashika/internal/domain"
	"kashika/internal/events"
	"kashika/internal/mail"
	"kashika/internal/metrics"
	"kashika/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrAdminNotification = errors.New("admin notification failed")
	ErrUserNotification  = errors.New("user confirmation failed")
)

const (
	OutcomeFullSuccess = "full_success"
	OutcomeAdminFailed = "admin_failed"
	OutcomeUserFailed  = "user_failed"
	OutcomeBothFailed  = "both_failed"

	kindAdmin = "admin"
	kindUser  = "user"
)

// Dispatch is the result of sending one notification.
type Dispatch struct {
	Message  mail.Message
	Receipt  mail.Receipt
	Err      error
	Duration time.Duration
}

// Outcome joins the admin and user dispatches of one submission.
type Outcome struct {
	RequestID string
	Admin     Dispatch
	User      Dispatch
}

func (o Outcome) Succeeded() bool {
	return o.Admin.Err == nil && o.User.Err == nil
}

func (o Outcome) Status() string {
	switch {
	case o.Admin.Err != nil && o.User.Err != nil:
		return OutcomeBothFailed
	case o.Admin.Err != nil:
		return OutcomeAdminFailed
	case o.User.Err != nil:
		return OutcomeUserFailed
	default:
		return OutcomeFullSuccess
	}
}

// Message is the user-facing summary returned by the booking endpoint.
func (o Outcome) Message() string {
	switch o.Status() {
	case OutcomeBothFailed:
		return models.MsgBothSendsFailed
	case OutcomeAdminFailed:
		return models.MsgAdminSendFailed
	case OutcomeUserFailed:
		return models.MsgUserSendFailed
	default:
		return models.MsgEmailsSent
	}
}

// Err wraps each failed dispatch with its sentinel; nil on full success.
func (o Outcome) Err() error {
	var errs []error
	if o.Admin.Err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrAdminNotification, o.Admin.Err))
	}
	if o.User.Err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrUserNotification, o.User.Err))
	}
	return errors.Join(errs...)
}

type BookingService struct {
	sender       mail.Sender
	eventBus     domain.EventPublisher
	logger       *zerolog.Logger
	adminAddress string
	from         string
	brand        string
	supportPhone string
	newID        func() string
}

func NewBookingService(sender mail.Sender, cfg config.MailConfig, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &BookingService{
		sender:       sender,
		eventBus:     eventBus,
		logger:       logger,
		adminAddress: cfg.User,
		from:         mail.FormatAddress(cfg.FromName, cfg.User),
		brand:        cfg.FromName,
		supportPhone: cfg.SupportPhone,
		newID:        uuid.NewString,
	}
}

// BuildMessages renders the admin notification and the user confirmation.
func (s *BookingService) BuildMessages(sub models.Submission) (admin, user mail.Message, err error) {
	data := newEmailData(sub, s.brand, s.supportPhone)

	adminHTML, err := renderEmail(adminTemplate, data)
	if err != nil {
		return mail.Message{}, mail.Message{}, err
	}
	userHTML, err := renderEmail(userTemplate, data)
	if err != nil {
		return mail.Message{}, mail.Message{}, err
	}

	admin = mail.Message{
		From:    s.from,
		To:      s.adminAddress,
		Subject: models.AdminSubject,
		HTML:    adminHTML,
	}
	user = mail.Message{
		From:    s.from,
		To:      sub.Email.String(),
		Subject: models.UserSubject,
		HTML:    userHTML,
	}
	return admin, user, nil
}

// Notify always attempts both dispatches concurrently and returns once both have settled.
func (s *BookingService) Notify(ctx context.Context, sub models.Submission) domain.BookingOutcome {
	return s.notify(ctx, sub)
}

func (s *BookingService) notify(ctx context.Context, sub models.Submission) Outcome {
	outcome := Outcome{RequestID: s.newID()}
	logger := s.logger.With().Str("request_id", outcome.RequestID).Logger()

	s.publishEvent(events.EventBookingReceived, sub, outcome)

	admin, user, err := s.BuildMessages(sub)
	if err != nil {
		logger.Error().Err(err).Msg("build notification messages")
		outcome.Admin.Err = err
		outcome.User.Err = err
		s.finish(&logger, sub, outcome)
		return outcome
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		outcome.Admin = s.dispatch(ctx, &logger, kindAdmin, admin)
	}()
	go func() {
		defer wg.Done()
		outcome.User = s.dispatch(ctx, &logger, kindUser, user)
	}()
	wg.Wait()

	s.finish(&logger, sub, outcome)
	return outcome
}

func (s *BookingService) dispatch(ctx context.Context, logger *zerolog.Logger, kind string, msg mail.Message) Dispatch {
	start := time.Now()
	receipt, err := s.sender.Send(ctx, msg)
	d := Dispatch{Message: msg, Receipt: receipt, Err: err, Duration: time.Since(start)}

	if err != nil {
		metrics.IncMailSend(kind, "error")
		logger.Error().Err(err).Str("kind", kind).Str("to", msg.To).Dur("duration", d.Duration).Msg("send email")
		return d
	}

	metrics.IncMailSend(kind, "ok")
	logger.Info().
		Str("kind", kind).
		Str("provider", receipt.Provider).
		Str("message_id", receipt.MessageID).
		Str("response", receipt.Response).
		Dur("duration", d.Duration).
		Msg("email sent")
	return d
}

func (s *BookingService) finish(logger *zerolog.Logger, sub models.Submission, outcome Outcome) {
	metrics.IncBookingOutcome(outcome.Status())
	if outcome.Succeeded() {
		logger.Info().Str("outcome", outcome.Status()).Msg("booking notifications sent")
	} else {
		logger.Warn().Err(outcome.Err()).Str("outcome", outcome.Status()).Msg("booking notifications incomplete")
	}
	s.publishEvent(events.EventBookingNotified, sub, outcome)
}

func (s *BookingService) publishEvent(eventType string, sub models.Submission, outcome Outcome) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		RequestID: outcome.RequestID,
		Name:      sub.Name.String(),
		Email:     sub.Email.String(),
		Mobile:    sub.Mobile.String(),
		City:      sub.City.String(),
		Date:      sub.Date.String(),
		Adults:    sub.Adults.String(),
		Children:  sub.Children.String(),
	}
	if eventType == events.EventBookingNotified {
		payload.Outcome = outcome.Status()
		if outcome.Admin.Err != nil {
			payload.AdminErr = outcome.Admin.Err.Error()
		}
		if outcome.User.Err != nil {
			payload.UserErr = outcome.User.Err.Error()
		}
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("publish event")
	}
}
