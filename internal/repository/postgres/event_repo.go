package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventcalendar/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

// NewID returns a fresh key so callers can assign series ids before any
// instance row exists.
func (r *eventRepository) NewID() string {
	return uuid.NewString()
}

const eventColumns = `id, title, start_date, end_date, description, participants, private, recurrence_frequency, recurrence_interval, series_id, owner_id, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (id, title, start_date, end_date, description, participants, private, recurrence_frequency, recurrence_interval, series_id, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	var freqNull sql.NullString
	var intervalNull sql.NullInt64
	if e.Recurrence != nil {
		freqNull = sql.NullString{String: string(e.Recurrence.Frequency), Valid: true}
		intervalNull = sql.NullInt64{Int64: int64(e.Recurrence.Interval), Valid: true}
	}
	var seriesNull sql.NullString
	if e.SeriesID != nil {
		seriesNull = sql.NullString{String: *e.SeriesID, Valid: true}
	}
	if e.ID == "" {
		e.ID = r.NewID()
	}
	_, err := r.DB.ExecContext(ctx, query,
		e.ID, e.Title, e.StartDate, e.EndDate, e.Description, pq.Array(e.Participants),
		e.Private, freqNull, intervalNull, seriesNull, e.Owner, e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func scanEvent(scan func(dest ...interface{}) error) (*domain.Event, error) {
	e := &domain.Event{}
	var participants pq.StringArray
	var freqNull sql.NullString
	var intervalNull sql.NullInt64
	var seriesNull sql.NullString
	err := scan(
		&e.ID, &e.Title, &e.StartDate, &e.EndDate, &e.Description, &participants,
		&e.Private, &freqNull, &intervalNull, &seriesNull, &e.Owner, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Participants = []string(participants)
	if freqNull.Valid {
		e.Recurrence = &domain.Recurrence{
			Frequency: domain.Frequency(freqNull.String),
			Interval:  int(intervalNull.Int64),
		}
	}
	if seriesNull.Valid {
		e.SeriesID = &seriesNull.String
	}
	return e, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`
	row := r.DB.QueryRowContext(ctx, query, id)
	e, err := scanEvent(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) listQuery(ctx context.Context, query string, args ...interface{}) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) ListBySeriesID(ctx context.Context, seriesID string) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE series_id = $1
	`
	return r.listQuery(ctx, query, seriesID)
}

func (r *eventRepository) ListByParticipant(ctx context.Context, userID string) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE $1 = ANY(participants)
		ORDER BY start_date ASC
	`
	return r.listQuery(ctx, query, userID)
}

func (r *eventRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE start_date >= $1 AND start_date <= $2
		ORDER BY start_date ASC
	`
	return r.listQuery(ctx, query, from, to)
}

func (r *eventRepository) Update(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if patch.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", n))
		args = append(args, *patch.Title)
		n++
	}
	if patch.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, *patch.Description)
		n++
	}
	if !patch.StartDate.IsZero() {
		setClauses = append(setClauses, fmt.Sprintf("start_date = $%d", n))
		args = append(args, patch.StartDate)
		n++
	}
	if !patch.EndDate.IsZero() {
		setClauses = append(setClauses, fmt.Sprintf("end_date = $%d", n))
		args = append(args, patch.EndDate)
		n++
	}
	if patch.Recurrence != nil {
		setClauses = append(setClauses, fmt.Sprintf("recurrence_frequency = $%d", n))
		args = append(args, string(patch.Recurrence.Frequency))
		n++
		setClauses = append(setClauses, fmt.Sprintf("recurrence_interval = $%d", n))
		args = append(args, patch.Recurrence.Interval)
		n++
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING `+eventColumns+`
	`, strings.Join(setClauses, ", "), n)
	row := r.DB.QueryRowContext(ctx, query, args...)
	e, err := scanEvent(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// UpdateSeries rewrites every member row inside one transaction so a series
// re-spacing either lands completely or not at all.
func (r *eventRepository) UpdateSeries(ctx context.Context, members []*domain.Event) error {
	if len(members) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	query := `
		UPDATE events
		SET title = $1, start_date = $2, end_date = $3, description = $4,
		    recurrence_frequency = $5, recurrence_interval = $6, updated_at = NOW()
		WHERE id = $7
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, m := range members {
		var freqNull sql.NullString
		var intervalNull sql.NullInt64
		if m.Recurrence != nil {
			freqNull = sql.NullString{String: string(m.Recurrence.Frequency), Valid: true}
			intervalNull = sql.NullInt64{Int64: int64(m.Recurrence.Interval), Valid: true}
		}
		result, err := stmt.ExecContext(ctx, m.Title, m.StartDate, m.EndDate, m.Description, freqNull, intervalNull, m.ID)
		if err != nil {
			return err
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return domain.ErrNotFound
		}
	}
	return tx.Commit()
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) DeleteSeries(ctx context.Context, seriesID string) error {
	query := `DELETE FROM events WHERE series_id = $1`
	result, err := r.DB.ExecContext(ctx, query, seriesID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
