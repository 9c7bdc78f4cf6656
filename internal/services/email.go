package services

import (
	"context"
	"fmt"
	"log"

	"explorewithme/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendRequestDecision sends the participation-decision email using the
// "request_decision" template.
func (s *emailService) SendRequestDecision(ctx context.Context, data *domain.RequestDecisionEmailData) error {
	if data == nil {
		return fmt.Errorf("request decision data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("request_decision", data)
	if err != nil {
		return fmt.Errorf("failed to render request_decision template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send request decision email: %w", err)
	}
	log.Printf("[EMAIL] Request %s notice sent to %s", data.Decision, data.Email)
	return nil
}
