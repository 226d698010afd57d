package domain

import (
	"context"
	"time"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// EventInvitationEmailData holds data for the participant invitation email.
type EventInvitationEmailData struct {
	Email      string
	Handle     string
	OwnerName  string
	EventTitle string
	StartDate  time.Time
}

// ReminderEntry is one upcoming event row in a reminder email.
type ReminderEntry struct {
	Title     string
	StartDate time.Time
	EndDate   time.Time
}

// EventReminderEmailData holds data for the daily upcoming-events email.
type EventReminderEmailData struct {
	Email   string
	Handle  string
	Entries []ReminderEntry
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendEventInvitation(ctx context.Context, data *EventInvitationEmailData) error
	SendEventReminder(ctx context.Context, data *EventReminderEmailData) error
}
