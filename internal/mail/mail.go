// Package mail delivers transactional email through SMTP or SendGrid.
package mail

import (
	"context"
	"fmt"
	netmail "net/mail"

	"kashika/internal/config"
)

// Message is one outbound email. From may carry a display name ("Name <addr>").
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Receipt describes an accepted delivery.
type Receipt struct {
	Provider  string
	MessageID string
	Response  string
}

// Sender delivers a single message and reports a receipt or an error.
type Sender interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, msg Message) (Receipt, error)

func (f SenderFunc) Send(ctx context.Context, msg Message) (Receipt, error) {
	return f(ctx, msg)
}

// NewSender builds the provider selected in config.
func NewSender(cfg config.MailConfig) (Sender, error) {
	switch cfg.Provider {
	case config.ProviderSMTP, "":
		return NewSMTPSender(SMTPOptions{
			Host:          cfg.SMTPHost,
			Port:          cfg.SMTPPort,
			Username:      cfg.User,
			Password:      cfg.Password,
			TLSSkipVerify: cfg.TLSSkipVerify,
		})
	case config.ProviderSendGrid:
		return NewSendGridSender(cfg.Password, cfg.SendGridHost)
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}

// FormatAddress renders a display-name address, quoting the name when needed.
func FormatAddress(name, address string) string {
	if name == "" {
		return address
	}
	return (&netmail.Address{Name: name, Address: address}).String()
}

func parseAddress(raw string) (*netmail.Address, error) {
	addr, err := netmail.ParseAddress(raw)
	if err != nil {
		return nil, fmt.Errorf("parse address %q: %w", raw, err)
	}
	return addr, nil
}
