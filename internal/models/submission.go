package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Text is a free-form form field. It decodes from JSON strings, numbers, booleans and
// null, since browsers and scripts disagree on how to send "2 adults".
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.(type) {
	case float64, bool:
		*t = Text(data)
		return nil
	default:
		return fmt.Errorf("unsupported value for text field: %s", data)
	}
}

func (t Text) String() string { return string(t) }

// Submission is one booking request as entered on the site. Nothing is required.
type Submission struct {
	Name     Text `json:"name" schema:"name"`
	Mobile   Text `json:"mobile" schema:"mobile"`
	Email    Text `json:"email" schema:"email"`
	City     Text `json:"city" schema:"city"`
	Date     Text `json:"date" schema:"date"`
	Adults   Text `json:"adults" schema:"adults"`
	Children Text `json:"children" schema:"children"`
	Message  Text `json:"message,omitempty" schema:"message"`
}

// MessageOrDefault returns the free-text message or the placeholder used in emails.
func (s Submission) MessageOrDefault() string {
	if s.Message == "" {
		return NoMessagePlaceholder
	}
	return string(s.Message)
}

// BookingResponse is the body returned by the booking endpoint.
type BookingResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
