package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"eventcalendar/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventRepo struct {
	domain.EventRepository
	events  []*domain.Event
	listErr error
	gotFrom time.Time
	gotTo   time.Time
}

func (f *fakeEventRepo) ListBetween(_ context.Context, from, to time.Time) ([]*domain.Event, error) {
	f.gotFrom, f.gotTo = from, to
	return f.events, f.listErr
}

type fakeUserRepo struct {
	domain.UserRepository
	users map[string]*domain.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

type fakeEmailService struct {
	reminders []*domain.EventReminderEmailData
	sendErr   error
}

func (f *fakeEmailService) SendEventInvitation(_ context.Context, _ *domain.EventInvitationEmailData) error {
	return nil
}

func (f *fakeEmailService) SendEventReminder(_ context.Context, data *domain.EventReminderEmailData) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.reminders = append(f.reminders, data)
	return nil
}

func newTestScheduler(er *fakeEventRepo, ur *fakeUserRepo, es *fakeEmailService) *Scheduler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(er, ur, es, 7, logger)
	s.now = func() time.Time { return time.Date(2024, 3, 4, 7, 0, 0, 0, time.UTC) }
	return s
}

func TestScheduler_SendReminders(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	events := []*domain.Event{
		{ID: "ev-1", Title: "Standup", StartDate: start, EndDate: start.Add(time.Hour), Participants: []string{"user-1", "user-2"}},
		{ID: "ev-2", Title: "Review", StartDate: start.Add(5 * time.Hour), EndDate: start.Add(6 * time.Hour), Participants: []string{"user-1"}},
	}
	er := &fakeEventRepo{events: events}
	ur := &fakeUserRepo{users: map[string]*domain.User{
		"user-1": {ID: "user-1", Handle: "alice", Email: "alice@example.com"},
		"user-2": {ID: "user-2", Handle: "bob", Email: "bob@example.com"},
	}}
	es := &fakeEmailService{}

	s := newTestScheduler(er, ur, es)
	s.sendReminders()

	assert.Equal(t, time.Date(2024, 3, 4, 7, 0, 0, 0, time.UTC), er.gotFrom)
	assert.Equal(t, time.Date(2024, 3, 5, 7, 0, 0, 0, time.UTC), er.gotTo)

	require.Len(t, es.reminders, 2)
	byHandle := map[string]*domain.EventReminderEmailData{}
	for _, r := range es.reminders {
		byHandle[r.Handle] = r
	}
	require.Contains(t, byHandle, "alice")
	require.Contains(t, byHandle, "bob")
	assert.Len(t, byHandle["alice"].Entries, 2)
	assert.Len(t, byHandle["bob"].Entries, 1)
	assert.Equal(t, "Standup", byHandle["bob"].Entries[0].Title)
}

func TestScheduler_SendReminders_NoEvents(t *testing.T) {
	er := &fakeEventRepo{}
	es := &fakeEmailService{}
	s := newTestScheduler(er, &fakeUserRepo{}, es)
	s.sendReminders()
	assert.Empty(t, es.reminders)
}

func TestScheduler_SendReminders_SkipsUnknownAndEmptyEmail(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	er := &fakeEventRepo{events: []*domain.Event{
		{ID: "ev-1", Title: "Standup", StartDate: start, EndDate: start.Add(time.Hour), Participants: []string{"ghost", "user-3"}},
	}}
	ur := &fakeUserRepo{users: map[string]*domain.User{
		"user-3": {ID: "user-3", Handle: "carol"},
	}}
	es := &fakeEmailService{}

	s := newTestScheduler(er, ur, es)
	s.sendReminders()

	assert.Empty(t, es.reminders)
}

func TestScheduler_SendReminders_ListError(t *testing.T) {
	er := &fakeEventRepo{listErr: errors.New("db down")}
	es := &fakeEmailService{}
	s := newTestScheduler(er, &fakeUserRepo{}, es)
	s.sendReminders()
	assert.Empty(t, es.reminders)
}
