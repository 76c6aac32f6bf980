// Package bookingform submits the booking form to the booking endpoint and reports the
// result back to whoever renders the form.
package bookingform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"kashika/internal/models"

	"github.com/rs/zerolog"
)

// Form is the rendered booking form.
type Form interface {
	// Values returns the named fields; missing fields are sent empty.
	Values() map[string]string
	SetSubmitEnabled(enabled bool)
	Reset()
}

// Notifier surfaces a short message to the user.
type Notifier interface {
	Alert(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) Alert(message string) { f(message) }

type Controller struct {
	endpoint string
	client   *http.Client
	form     Form
	notifier Notifier
	logger   *zerolog.Logger
}

type Option func(*Controller)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Controller) { c.client = client }
}

func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

func New(endpoint string, form Form, notifier Notifier, opts ...Option) *Controller {
	nop := zerolog.Nop()
	c := &Controller{
		endpoint: endpoint,
		client:   &http.Client{},
		form:     form,
		notifier: notifier,
		logger:   &nop,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Payload keeps exactly the booking fields, filling missing ones with "".
func Payload(values map[string]string) map[string]string {
	out := make(map[string]string, len(models.BookingFields))
	for _, field := range models.BookingFields {
		out[field] = values[field]
	}
	return out
}

// Submit posts the form once. Any JSON reply counts as settled: its message is shown and
// the form is cleared. Transport and decode failures show a generic error and keep the
// form as entered.
func (c *Controller) Submit(ctx context.Context) (models.BookingResponse, error) {
	c.form.SetSubmitEnabled(false)
	defer c.form.SetSubmitEnabled(true)

	resp, err := c.post(ctx, Payload(c.form.Values()))
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", c.endpoint).Msg("submit booking form")
		c.notifier.Alert(models.MsgSubmitError)
		return models.BookingResponse{}, err
	}

	message := resp.Message
	if message == "" {
		message = models.MsgSubmitCompleted
	}
	c.notifier.Alert(message)
	c.form.Reset()
	return resp, nil
}

func (c *Controller) post(ctx context.Context, payload map[string]string) (models.BookingResponse, error) {
	var out models.BookingResponse

	body, err := json.Marshal(payload)
	if err != nil {
		return out, fmt.Errorf("encode form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return out, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return out, fmt.Errorf("post booking: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	c.logger.Debug().Int("status", resp.StatusCode).Bool("success", out.Success).Msg("booking form submitted")
	return out, nil
}
