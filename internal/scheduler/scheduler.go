// Package scheduler runs the daily reminder job that emails every
// participant a digest of their events starting in the next 24 hours.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"eventcalendar/internal/domain"
)

type Scheduler struct {
	cron         *cron.Cron
	eventRepo    domain.EventRepository
	userRepo     domain.UserRepository
	emailService domain.EmailService
	reminderHour int
	logger       *slog.Logger
	now          func() time.Time
}

func New(eventRepo domain.EventRepository, userRepo domain.UserRepository, emailService domain.EmailService, reminderHour int, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:         cron.New(),
		eventRepo:    eventRepo,
		userRepo:     userRepo,
		emailService: emailService,
		reminderHour: reminderHour,
		logger:       logger,
		now:          time.Now,
	}
}

// Start registers the daily job and runs the cron loop until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	spec := fmt.Sprintf("0 %d * * *", s.reminderHour)
	if _, err := s.cron.AddFunc(spec, s.sendReminders); err != nil {
		return fmt.Errorf("add reminder job: %w", err)
	}
	s.cron.Start()
	s.logger.Info("scheduler started", "reminder_hour", s.reminderHour)

	<-ctx.Done()
	stopped := s.cron.Stop()
	<-stopped.Done()
	s.logger.Info("scheduler stopped")
	return nil
}

// sendReminders groups tomorrow's events by participant and emails each one
// a digest. A failure for one recipient never blocks the others.
func (s *Scheduler) sendReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	from := s.now()
	to := from.Add(24 * time.Hour)
	events, err := s.eventRepo.ListBetween(ctx, from, to)
	if err != nil {
		s.logger.Error("reminder job: list events", "err", err)
		return
	}
	if len(events) == 0 {
		return
	}

	byUser := make(map[string][]domain.ReminderEntry)
	for _, e := range events {
		entry := domain.ReminderEntry{Title: e.Title, StartDate: e.StartDate, EndDate: e.EndDate}
		for _, p := range e.Participants {
			byUser[p] = append(byUser[p], entry)
		}
	}

	sent := 0
	for userID, entries := range byUser {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			s.logger.Warn("reminder job: resolve participant", "user_id", userID, "err", err)
			continue
		}
		if user.Email == "" {
			continue
		}
		data := &domain.EventReminderEmailData{
			Email:   user.Email,
			Handle:  user.Handle,
			Entries: entries,
		}
		if err := s.emailService.SendEventReminder(ctx, data); err != nil {
			s.logger.Error("reminder job: send", "user_id", userID, "err", err)
			continue
		}
		sent++
	}
	s.logger.Info("reminder job finished", "events", len(events), "recipients", len(byUser), "sent", sent)
}
