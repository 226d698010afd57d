package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

// Sentinel errors for event operations.
var (
	ErrNotFound          = errors.New("event not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidRecurrence = errors.New("invalid recurrence")
)

// PersistenceError reports a write that failed after all retry attempts (or a
// batch write that failed outright). The last underlying error is attached.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: persistence failure: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Frequency is the unit a recurrence rule advances by.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// MaxRecurrenceInterval bounds Recurrence.Interval.
const MaxRecurrenceInterval = 100

// Recurrence describes how a series repeats. A nil *Recurrence means the
// event does not repeat; the standalone/series distinction is carried by the
// pointer, never by zero values.
type Recurrence struct {
	Frequency Frequency `json:"frequency"`
	Interval  int       `json:"interval"`
}

// DeleteScope selects whether a delete targets one instance or the whole
// series. The caller decides; the service never infers it.
type DeleteScope string

const (
	DeleteScopeSingle DeleteScope = "single"
	DeleteScopeSeries DeleteScope = "series"
)

// Event is one scheduled calendar entry. Instances created from a recurrence
// rule share a SeriesID; standalone events have none.
type Event struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	StartDate    time.Time   `json:"start_date"`
	EndDate      time.Time   `json:"end_date"`
	Description  string      `json:"description"`
	Participants []string    `json:"participants"`
	Private      bool        `json:"private"`
	Recurrence   *Recurrence `json:"recurrence,omitempty"`
	SeriesID     *string     `json:"series_id,omitempty"`
	// Owner is set from Participants[0] at creation and never re-derived,
	// so reordering participants later cannot silently change ownership.
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Duration returns the event length.
func (e *Event) Duration() time.Duration {
	return e.EndDate.Sub(e.StartDate)
}

// IsSeriesMember reports whether the event belongs to a recurring series.
func (e *Event) IsSeriesMember() bool {
	return e.SeriesID != nil
}

// HasParticipant reports whether userID is in the participant list.
func (e *Event) HasParticipant(userID string) bool {
	for _, p := range e.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// VisibleTo reports whether the event may be shown to the given user.
// Private events are visible only to participants and admins.
func (e *Event) VisibleTo(userID string, isAdmin bool) bool {
	if !e.Private {
		return true
	}
	return isAdmin || e.HasParticipant(userID)
}

// CreateEventInput carries the template for a new event or series.
type CreateEventInput struct {
	Title        string      `json:"title"`
	StartDate    time.Time   `json:"start_date"`
	EndDate      time.Time   `json:"end_date"`
	Description  string      `json:"description"`
	Participants []string    `json:"participants"`
	Private      bool        `json:"private"`
	Recurrence   *Recurrence `json:"recurrence,omitempty"`
}

const (
	minTitleLen       = 3
	maxTitleLen       = 30
	minDescriptionLen = 10
	maxDescriptionLen = 500
)

// Validate checks the template before any persistence I/O. Lengths count
// UTF-8 code points. Only weekly/monthly/yearly recurrence is accepted at
// creation time.
func (in CreateEventInput) Validate() error {
	if n := utf8.RuneCountInString(in.Title); n < minTitleLen || n > maxTitleLen {
		return fmt.Errorf("%w: title must be between %d and %d characters", ErrInvalidInput, minTitleLen, maxTitleLen)
	}
	if !in.EndDate.After(in.StartDate) {
		return fmt.Errorf("%w: start date must be before end date", ErrInvalidInput)
	}
	if n := utf8.RuneCountInString(in.Description); n < minDescriptionLen || n > maxDescriptionLen {
		return fmt.Errorf("%w: description must be between %d and %d characters", ErrInvalidInput, minDescriptionLen, maxDescriptionLen)
	}
	if len(in.Participants) == 0 {
		return fmt.Errorf("%w: at least one participant is required", ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(in.Participants))
	for _, p := range in.Participants {
		if p == "" {
			return fmt.Errorf("%w: empty participant id", ErrInvalidInput)
		}
		if _, ok := seen[p]; ok {
			return fmt.Errorf("%w: duplicate participant %q", ErrInvalidInput, p)
		}
		seen[p] = struct{}{}
	}
	if in.Recurrence != nil {
		switch in.Recurrence.Frequency {
		case FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		default:
			return fmt.Errorf("%w: frequency %q not allowed at creation", ErrInvalidRecurrence, in.Recurrence.Frequency)
		}
		if in.Recurrence.Interval < 1 || in.Recurrence.Interval > MaxRecurrenceInterval {
			return fmt.Errorf("%w: interval must be between 1 and %d", ErrInvalidInput, MaxRecurrenceInterval)
		}
	}
	return nil
}

// EventPatch carries the fields an update may change. StartDate and EndDate
// are always required; nil optional fields keep the stored value.
type EventPatch struct {
	Title       *string
	Description *string
	StartDate   time.Time
	EndDate     time.Time
	Recurrence  *Recurrence
}

// EventRepository defines the persistence contract the event service depends
// on. No ordering is guaranteed by the List methods unless stated, and no
// transactional guarantee exists beyond a single call.
type EventRepository interface {
	// NewID pre-allocates a key independent of any record content.
	NewID() string
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListBySeriesID(ctx context.Context, seriesID string) ([]*Event, error)
	ListByParticipant(ctx context.Context, userID string) ([]*Event, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*Event, error)
	// Update merges the patch into the stored record.
	Update(ctx context.Context, id string, patch EventPatch) (*Event, error)
	// UpdateSeries rewrites every given member in one batched write.
	UpdateSeries(ctx context.Context, members []*Event) error
	Delete(ctx context.Context, id string) error
	DeleteSeries(ctx context.Context, seriesID string) error
}

// EventService defines event business operations. Every operation takes the
// acting user's id explicitly; there is no ambient session state.
type EventService interface {
	CreateEvent(ctx context.Context, actorID string, input CreateEventInput) ([]*Event, error)
	GetEventByID(ctx context.Context, actorID, eventID string) (*Event, error)
	UpdateEvent(ctx context.Context, actorID, eventID string, patch EventPatch) error
	DeleteEvent(ctx context.Context, actorID, eventID string, scope DeleteScope) error
	ListEventsForUser(ctx context.Context, userID string) ([]*Event, error)
	ListEventsBetween(ctx context.Context, actorID string, from, to time.Time) ([]*Event, error)
}
