package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"eventcalendar/internal/domain"
	"eventcalendar/internal/recurrence"
)

type eventService struct {
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	writeRetry     domain.RetryPolicy
	contextTimeout time.Duration
}

// NewEventService creates an EventService. The retry policy governs only the
// per-instance writes during series materialization; every other operation
// surfaces persistence failures immediately.
func NewEventService(eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	writeRetry domain.RetryPolicy,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		writeRetry:     writeRetry,
		contextTimeout: timeout,
	}
}

// CreateEvent persists the event described by input. With a recurrence rule
// it materializes every occurrence within one year of the start as an
// independent instance sharing a pre-allocated series id. Instance writes run
// concurrently and are retried individually; if any write still fails the
// call returns a PersistenceError without rolling back instances already
// written. Series creation is best-effort, not atomic.
func (s *eventService) CreateEvent(ctx context.Context, actorID string, input domain.CreateEventInput) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.Participants[0] != actorID {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	duration := input.EndDate.Sub(input.StartDate)

	if input.Recurrence == nil {
		event := &domain.Event{
			Title:        input.Title,
			StartDate:    input.StartDate,
			EndDate:      input.EndDate,
			Description:  input.Description,
			Participants: input.Participants,
			Private:      input.Private,
			Owner:        input.Participants[0],
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.saveWithRetry(ctx, event); err != nil {
			return nil, err
		}
		s.sendInvitations(ctx, event)
		return []*domain.Event{event}, nil
	}

	dates, err := recurrence.Expand(input.StartDate, input.Recurrence.Frequency, input.Recurrence.Interval, recurrence.DefaultHorizon(input.StartDate))
	if err != nil {
		return nil, err
	}

	// Pre-allocated key, not derived from content, so series identity is
	// unique regardless of timing collisions.
	seriesID := s.eventRepo.NewID()

	events := make([]*domain.Event, len(dates))
	var g errgroup.Group
	for i, date := range dates {
		event := &domain.Event{
			Title:        input.Title,
			StartDate:    date,
			EndDate:      date.Add(duration),
			Description:  input.Description,
			Participants: input.Participants,
			Private:      input.Private,
			Recurrence:   input.Recurrence,
			SeriesID:     &seriesID,
			Owner:        input.Participants[0],
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		events[i] = event
		g.Go(func() error {
			return s.saveWithRetry(ctx, event)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.sendInvitations(ctx, events[0])
	return events, nil
}

func (s *eventService) saveWithRetry(ctx context.Context, event *domain.Event) error {
	err := s.writeRetry.Do(ctx, func() error {
		return s.eventRepo.Create(ctx, event)
	})
	if err != nil {
		return &domain.PersistenceError{Op: "create event", Err: err}
	}
	return nil
}

// sendInvitations emails every participant except the owner. Failures are
// logged and never fail event creation.
func (s *eventService) sendInvitations(ctx context.Context, event *domain.Event) {
	if s.emailService == nil {
		return
	}
	ownerName := event.Owner
	if owner, err := s.userRepo.GetByID(ctx, event.Owner); err == nil {
		ownerName = owner.Handle
	}
	for _, pid := range event.Participants {
		if pid == event.Owner {
			continue
		}
		user, err := s.userRepo.GetByID(ctx, pid)
		if err != nil {
			continue
		}
		data := &domain.EventInvitationEmailData{
			Email:      user.Email,
			Handle:     user.Handle,
			OwnerName:  ownerName,
			EventTitle: event.Title,
			StartDate:  event.StartDate,
		}
		if err := s.emailService.SendEventInvitation(ctx, data); err != nil {
			log.Printf("[EVENT] invitation email to %s failed: %v", user.Email, err)
		}
	}
}

func (s *eventService) GetEventByID(ctx context.Context, actorID, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !event.VisibleTo(actorID, s.isAdmin(ctx, actorID)) {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

// UpdateEvent applies the patch to a standalone event, or re-spaces the whole
// series when the target is a series member. Member ordinals are assigned
// after sorting by the existing start date, so a repository that returns
// members in arbitrary order cannot scramble the series.
func (s *eventService) UpdateEvent(ctx context.Context, actorID, eventID string, patch domain.EventPatch) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !patch.EndDate.After(patch.StartDate) {
		return fmt.Errorf("%w: start date must be before end date", domain.ErrInvalidInput)
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if err := s.authorizeMutation(ctx, actorID, event); err != nil {
		return err
	}

	if !event.IsSeriesMember() {
		// A standalone event never becomes a series member.
		if patch.Recurrence != nil {
			return fmt.Errorf("%w: cannot add recurrence to an existing event", domain.ErrInvalidInput)
		}
		if _, err := s.eventRepo.Update(ctx, eventID, patch); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return &domain.PersistenceError{Op: "update event", Err: err}
		}
		return nil
	}

	newDuration := patch.EndDate.Sub(patch.StartDate)

	rec := patch.Recurrence
	if rec == nil {
		rec = event.Recurrence
	}
	if rec == nil {
		return fmt.Errorf("%w: series member without recurrence", domain.ErrInvalidRecurrence)
	}
	interval := rec.Interval
	if interval < 1 {
		interval = 1
	}

	members, err := s.eventRepo.ListBySeriesID(ctx, *event.SeriesID)
	if err != nil {
		return fmt.Errorf("list series members: %w", err)
	}
	if len(members) == 0 {
		return domain.ErrNotFound
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].StartDate.Before(members[j].StartDate)
	})

	now := time.Now()
	for i, m := range members {
		start, err := recurrence.Step(patch.StartDate, rec.Frequency, i, interval)
		if err != nil {
			return err
		}
		m.StartDate = start
		m.EndDate = start.Add(newDuration)
		if patch.Title != nil {
			m.Title = *patch.Title
		}
		if patch.Description != nil {
			m.Description = *patch.Description
		}
		m.Recurrence = rec
		m.UpdatedAt = now
		// Participants, privacy, owner and series id are never touched here.
	}

	if err := s.eventRepo.UpdateSeries(ctx, members); err != nil {
		return &domain.PersistenceError{Op: "update series", Err: err}
	}
	return nil
}

// DeleteEvent removes one instance or the whole series depending on scope.
// Series scope on a standalone event degrades to a single delete. Deleting an
// already-deleted event returns ErrNotFound, never a silent success.
func (s *eventService) DeleteEvent(ctx context.Context, actorID, eventID string, scope domain.DeleteScope) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if err := s.authorizeMutation(ctx, actorID, event); err != nil {
		return err
	}

	if scope == domain.DeleteScopeSeries && event.IsSeriesMember() {
		if err := s.eventRepo.DeleteSeries(ctx, *event.SeriesID); err != nil {
			return &domain.PersistenceError{Op: "delete series", Err: err}
		}
		return nil
	}

	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return &domain.PersistenceError{Op: "delete event", Err: err}
	}
	return nil
}

func (s *eventService) ListEventsForUser(ctx context.Context, userID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) ListEventsBetween(ctx context.Context, actorID string, from, to time.Time) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end before range start", domain.ErrInvalidInput)
	}
	events, err := s.eventRepo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	admin := s.isAdmin(ctx, actorID)
	visible := make([]*domain.Event, 0, len(events))
	for _, e := range events {
		if e.VisibleTo(actorID, admin) {
			visible = append(visible, e)
		}
	}
	return visible, nil
}

// authorizeMutation allows the owner and admins to mutate an event.
func (s *eventService) authorizeMutation(ctx context.Context, actorID string, event *domain.Event) error {
	if event.Owner == actorID {
		return nil
	}
	if s.isAdmin(ctx, actorID) {
		return nil
	}
	return domain.ErrForbidden
}

func (s *eventService) isAdmin(ctx context.Context, userID string) bool {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false
	}
	return user.IsAdmin()
}
