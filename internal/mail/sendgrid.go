package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendGridEndpoint = "/v3/mail/send"

// SendGridSender delivers through the SendGrid v3 mail API.
type SendGridSender struct {
	apiKey string
	host   string
}

func NewSendGridSender(apiKey, host string) (*SendGridSender, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("sendgrid api key is required")
	}
	if host == "" {
		host = "https://api.sendgrid.com"
	}
	return &SendGridSender{apiKey: apiKey, host: strings.TrimRight(host, "/")}, nil
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) (Receipt, error) {
	from, err := parseAddress(msg.From)
	if err != nil {
		return Receipt{}, err
	}
	to, err := parseAddress(msg.To)
	if err != nil {
		return Receipt{}, err
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(sgmail.NewEmail(from.Name, from.Address))
	m.Subject = msg.Subject
	p := sgmail.NewPersonalization()
	p.AddTos(sgmail.NewEmail(to.Name, to.Address))
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/html", msg.HTML))

	request := sendgrid.GetRequest(s.apiKey, sendGridEndpoint, s.host)
	request.Method = "POST"
	request.Body = sgmail.GetRequestBody(m)

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return Receipt{}, fmt.Errorf("sendgrid request: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return Receipt{}, fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}

	receipt := Receipt{
		Provider: "sendgrid",
		Response: fmt.Sprintf("%d", response.StatusCode),
	}
	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		receipt.MessageID = ids[0]
	}
	return receipt, nil
}
