package service

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"kashika/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var emailTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	adminTemplate = "admin_email.html"
	userTemplate  = "user_email.html"
)

type emailData struct {
	Brand        string
	SupportPhone string
	Name         string
	Mobile       string
	Email        string
	City         string
	Date         string
	Adults       string
	Children     string
	Message      string
}

func newEmailData(sub models.Submission, brand, supportPhone string) emailData {
	return emailData{
		Brand:        brand,
		SupportPhone: supportPhone,
		Name:         sub.Name.String(),
		Mobile:       sub.Mobile.String(),
		Email:        sub.Email.String(),
		City:         sub.City.String(),
		Date:         sub.Date.String(),
		Adults:       sub.Adults.String(),
		Children:     sub.Children.String(),
		Message:      sub.MessageOrDefault(),
	}
}

func renderEmail(name string, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
