package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// RequestDecisionEmailData holds data for the participation-decision email
// sent to a requester after the organizer confirms or rejects their request.
type RequestDecisionEmailData struct {
	Email      string
	Name       string
	EventTitle string
	Decision   string // "confirmed" or "rejected"
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendRequestDecision(ctx context.Context, data *RequestDecisionEmailData) error
}
