package models

const (
	FieldName     = "name"
	FieldMobile   = "mobile"
	FieldEmail    = "email"
	FieldCity     = "city"
	FieldDate     = "date"
	FieldAdults   = "adults"
	FieldChildren = "children"
	FieldMessage  = "message"
)

// BookingFields lists the booking form fields in submission order.
var BookingFields = []string{
	FieldName, FieldMobile, FieldEmail, FieldCity, FieldDate, FieldAdults, FieldChildren, FieldMessage,
}

const (
	NoMessagePlaceholder = "No message provided."

	MsgEmailsSent       = "Emails sent successfully."
	MsgAdminSendFailed  = "Failed to send email to admin."
	MsgUserSendFailed   = "Failed to send email to user."
	MsgBothSendsFailed  = "Failed to send emails to admin and user."
	MsgInvalidBody      = "Invalid request body."
	MsgSubmitCompleted  = "Submission completed."
	MsgSubmitError      = "Error submitting the form."
	AdminSubject        = "New Travel Package Booking Request Received"
	UserSubject         = "Thank you for reaching out to Kashika Travel"
	BookPackagePath     = "/book-package"
	DefaultIntervalMS   = 5000
	DefaultBreakpointPx = 550
	MobileSlideIndex    = 1
)

const ParseModeHTML = "HTML"
