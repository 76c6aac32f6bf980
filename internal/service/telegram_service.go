package service

import (
	"fmt"
	"strings"

	"kashika/internal/domain"
	"kashika/internal/events"
	"kashika/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramNotifier mirrors booking outcomes into the agency's Telegram chat.
type TelegramNotifier struct {
	bot    domain.TelegramSender
	chatID int64
	logger *zerolog.Logger
}

func NewTelegramNotifier(bot domain.TelegramSender, chatID int64, logger *zerolog.Logger) *TelegramNotifier {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &TelegramNotifier{bot: bot, chatID: chatID, logger: logger}
}

// Subscribe attaches the notifier to booking_notified events. Digests are sent in the
// background so chat latency never holds up the publisher; failures are logged.
func (n *TelegramNotifier) Subscribe(bus *events.EventBus) {
	bus.Subscribe(events.EventBookingNotified, func(event *events.Event) error {
		go func() {
			if err := n.HandleBookingNotified(event); err != nil {
				n.logger.Warn().Err(err).Msg("telegram booking digest")
			}
		}()
		return nil
	})
}

func (n *TelegramNotifier) HandleBookingNotified(event *events.Event) error {
	var payload events.BookingEventPayload
	if err := event.Decode(&payload); err != nil {
		return fmt.Errorf("decode booking event: %w", err)
	}

	msg := tgbotapi.NewMessage(n.chatID, formatBookingDigest(payload))
	msg.ParseMode = models.ParseModeHTML
	msg.DisableWebPagePreview = true
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

func formatBookingDigest(p events.BookingEventPayload) string {
	esc := escapeTelegramHTML
	var b strings.Builder
	b.WriteString("<b>New booking request</b>\n")
	fmt.Fprintf(&b, "Name: %s\n", esc(p.Name))
	fmt.Fprintf(&b, "Mobile: %s\n", esc(p.Mobile))
	fmt.Fprintf(&b, "Email: %s\n", esc(p.Email))
	fmt.Fprintf(&b, "City: %s\n", esc(p.City))
	fmt.Fprintf(&b, "Date: %s\n", esc(p.Date))
	fmt.Fprintf(&b, "Adults/Children: %s/%s\n", esc(p.Adults), esc(p.Children))

	switch p.Outcome {
	case OutcomeFullSuccess:
		b.WriteString("Emails: sent")
	case OutcomeAdminFailed:
		b.WriteString("Emails: admin notification FAILED")
	case OutcomeUserFailed:
		b.WriteString("Emails: user confirmation FAILED")
	case OutcomeBothFailed:
		b.WriteString("Emails: both FAILED")
	}
	return b.String()
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeTelegramHTML(s string) string {
	return htmlEscaper.Replace(s)
}
