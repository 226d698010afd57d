package services

import (
	"context"
	"fmt"
	"log"

	"eventcalendar/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendEventInvitation sends a participant invitation using the "event_invitation" template.
func (s *emailService) SendEventInvitation(ctx context.Context, data *domain.EventInvitationEmailData) error {
	if data == nil {
		return fmt.Errorf("invitation data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("event_invitation", data)
	if err != nil {
		return fmt.Errorf("failed to render event_invitation template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}
	log.Printf("[EMAIL] Event invitation sent to %s", data.Email)
	return nil
}

// SendEventReminder sends the daily upcoming-events email using the "event_reminder" template.
func (s *emailService) SendEventReminder(ctx context.Context, data *domain.EventReminderEmailData) error {
	if data == nil {
		return fmt.Errorf("reminder data is nil")
	}
	if len(data.Entries) == 0 {
		return nil
	}
	subject, htmlBody, textBody, err := s.renderer.Render("event_reminder", data)
	if err != nil {
		return fmt.Errorf("failed to render event_reminder template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send reminder email: %w", err)
	}
	log.Printf("[EMAIL] Event reminder sent to %s (%d events)", data.Email, len(data.Entries))
	return nil
}
