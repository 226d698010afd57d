package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"eventcalendar/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

var eventCols = []string{
	"id", "title", "start_date", "end_date", "description", "participants",
	"private", "recurrence_frequency", "recurrence_interval", "series_id",
	"owner_id", "created_at", "updated_at",
}

func sampleEventRow(rows *sqlmock.Rows, id string, start time.Time, seriesID interface{}, freq, interval interface{}) *sqlmock.Rows {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return rows.AddRow(
		id, "Standup", start, start.Add(time.Hour), "Daily planning call",
		"{user-1,user-2}", false, freq, interval, seriesID,
		"user-1", created, created,
	)
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	seriesID := "series-1"

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
	}{
		{
			name: "series member with recurrence",
			event: &domain.Event{
				ID:           "ev-1",
				Title:        "Standup",
				StartDate:    start,
				EndDate:      start.Add(time.Hour),
				Description:  "Daily planning call",
				Participants: []string{"user-1", "user-2"},
				Recurrence:   &domain.Recurrence{Frequency: domain.FrequencyWeekly, Interval: 1},
				SeriesID:     &seriesID,
				Owner:        "user-1",
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO events`).
					WithArgs("ev-1", "Standup", start, start.Add(time.Hour), "Daily planning call",
						pq.Array([]string{"user-1", "user-2"}), false,
						sql.NullString{String: "weekly", Valid: true},
						sql.NullInt64{Int64: 1, Valid: true},
						sql.NullString{String: "series-1", Valid: true},
						"user-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantErr: false,
		},
		{
			name: "standalone writes null recurrence and series",
			event: &domain.Event{
				ID:           "ev-2",
				Title:        "One-off",
				StartDate:    start,
				EndDate:      start.Add(time.Hour),
				Description:  "A standalone entry",
				Participants: []string{"user-1"},
				Owner:        "user-1",
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO events`).
					WithArgs("ev-2", "One-off", start, start.Add(time.Hour), "A standalone entry",
						pq.Array([]string{"user-1"}), false,
						sql.NullString{}, sql.NullInt64{}, sql.NullString{},
						"user-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantErr: false,
		},
		{
			name: "db error",
			event: &domain.Event{
				ID:           "ev-3",
				Title:        "Standup",
				StartDate:    start,
				EndDate:      start.Add(time.Hour),
				Participants: []string{"user-1"},
				Owner:        "user-1",
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	t.Run("series member", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sampleEventRow(sqlmock.NewRows(eventCols), "ev-1", start, "series-1", "weekly", 2)
		mock.ExpectQuery(`SELECT id, title, start_date`).
			WithArgs("ev-1").
			WillReturnRows(rows)

		repo := NewEventRepository(db)
		got, err := repo.GetByID(ctx, "ev-1")
		require.NoError(t, err)
		require.Equal(t, "ev-1", got.ID)
		require.Equal(t, []string{"user-1", "user-2"}, got.Participants)
		require.NotNil(t, got.Recurrence)
		require.Equal(t, domain.FrequencyWeekly, got.Recurrence.Frequency)
		require.Equal(t, 2, got.Recurrence.Interval)
		require.NotNil(t, got.SeriesID)
		require.Equal(t, "series-1", *got.SeriesID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("standalone has nil recurrence", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sampleEventRow(sqlmock.NewRows(eventCols), "ev-2", start, nil, nil, nil)
		mock.ExpectQuery(`SELECT id, title, start_date`).
			WithArgs("ev-2").
			WillReturnRows(rows)

		repo := NewEventRepository(db)
		got, err := repo.GetByID(ctx, "ev-2")
		require.NoError(t, err)
		require.Nil(t, got.Recurrence)
		require.Nil(t, got.SeriesID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, title, start_date`).
			WithArgs("ev-missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(db)
		got, err := repo.GetByID(ctx, "ev-missing")
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.Nil(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_ListBySeriesID(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(eventCols)
	sampleEventRow(rows, "ev-1", start, "series-1", "weekly", 1)
	sampleEventRow(rows, "ev-2", start.AddDate(0, 0, 7), "series-1", "weekly", 1)
	mock.ExpectQuery(`WHERE series_id = \$1`).
		WithArgs("series-1").
		WillReturnRows(rows)

	repo := NewEventRepository(db)
	got, err := repo.ListBySeriesID(ctx, "series-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "ev-1", got[0].ID)
	require.Equal(t, "ev-2", got[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_ListByParticipant(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sampleEventRow(sqlmock.NewRows(eventCols), "ev-1", start, nil, nil, nil)
		mock.ExpectQuery(`WHERE \$1 = ANY\(participants\)`).
			WithArgs("user-2").
			WillReturnRows(rows)

		repo := NewEventRepository(db)
		got, err := repo.ListByParticipant(ctx, "user-2")
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`WHERE \$1 = ANY\(participants\)`).
			WithArgs("user-none").
			WillReturnRows(sqlmock.NewRows(eventCols))

		repo := NewEventRepository(db)
		got, err := repo.ListByParticipant(ctx, "user-none")
		require.NoError(t, err)
		require.Empty(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_ListBetween(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sampleEventRow(sqlmock.NewRows(eventCols), "ev-1", from.Add(72*time.Hour), nil, nil, nil)
	mock.ExpectQuery(`WHERE start_date >= \$1 AND start_date <= \$2`).
		WithArgs(from, to).
		WillReturnRows(rows)

	repo := NewEventRepository(db)
	got, err := repo.ListBetween(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	t.Run("title and dates", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		title := "Planning"
		rows := sampleEventRow(sqlmock.NewRows(eventCols), "ev-1", start, nil, nil, nil)
		mock.ExpectQuery(`UPDATE events SET`).
			WithArgs(title, start, start.Add(2*time.Hour), "ev-1").
			WillReturnRows(rows)

		repo := NewEventRepository(db)
		got, err := repo.Update(ctx, "ev-1", domain.EventPatch{
			Title:     &title,
			StartDate: start,
			EndDate:   start.Add(2 * time.Hour),
		})
		require.NoError(t, err)
		require.Equal(t, "ev-1", got.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty patch fetches current row", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sampleEventRow(sqlmock.NewRows(eventCols), "ev-1", start, nil, nil, nil)
		mock.ExpectQuery(`SELECT id, title, start_date`).
			WithArgs("ev-1").
			WillReturnRows(rows)

		repo := NewEventRepository(db)
		got, err := repo.Update(ctx, "ev-1", domain.EventPatch{})
		require.NoError(t, err)
		require.Equal(t, "ev-1", got.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		title := "Planning"
		mock.ExpectQuery(`UPDATE events SET`).
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(db)
		got, err := repo.Update(ctx, "ev-missing", domain.EventPatch{Title: &title})
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.Nil(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_UpdateSeries(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	rec := &domain.Recurrence{Frequency: domain.FrequencyWeekly, Interval: 1}
	members := []*domain.Event{
		{ID: "ev-1", Title: "Standup", StartDate: start, EndDate: start.Add(time.Hour), Description: "Daily planning call", Recurrence: rec},
		{ID: "ev-2", Title: "Standup", StartDate: start.AddDate(0, 0, 7), EndDate: start.AddDate(0, 0, 7).Add(time.Hour), Description: "Daily planning call", Recurrence: rec},
	}

	t.Run("commits when all rows land", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		stmt := mock.ExpectPrepare(`UPDATE events`)
		for _, m := range members {
			stmt.ExpectExec().
				WithArgs(m.Title, m.StartDate, m.EndDate, m.Description,
					sql.NullString{String: "weekly", Valid: true},
					sql.NullInt64{Int64: 1, Valid: true}, m.ID).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectCommit()

		repo := NewEventRepository(db)
		require.NoError(t, repo.UpdateSeries(ctx, members))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when a member row is gone", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		stmt := mock.ExpectPrepare(`UPDATE events`)
		stmt.ExpectExec().
			WithArgs(members[0].Title, members[0].StartDate, members[0].EndDate, members[0].Description,
				sql.NullString{String: "weekly", Valid: true},
				sql.NullInt64{Int64: 1, Valid: true}, members[0].ID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		stmt.ExpectExec().
			WithArgs(members[1].Title, members[1].StartDate, members[1].EndDate, members[1].Description,
				sql.NullString{String: "weekly", Valid: true},
				sql.NullInt64{Int64: 1, Valid: true}, members[1].ID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		repo := NewEventRepository(db)
		err = repo.UpdateSeries(ctx, members)
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty slice is a no-op", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewEventRepository(db)
		require.NoError(t, repo.UpdateSeries(ctx, nil))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		mock       func(mock sqlmock.Sqlmock)
		wantErr    bool
		isNotFound bool
	}{
		{
			name: "success",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs("ev-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			id:   "ev-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs("ev-missing").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr:    true,
			isNotFound: true,
		},
		{
			name: "db error",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs("ev-1").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Delete(ctx, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				if tt.isNotFound {
					require.True(t, errors.Is(err, domain.ErrNotFound))
				}
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_DeleteSeries(t *testing.T) {
	ctx := context.Background()

	t.Run("removes every member", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM events WHERE series_id = \$1`).
			WithArgs("series-1").
			WillReturnResult(sqlmock.NewResult(0, 5))

		repo := NewEventRepository(db)
		require.NoError(t, repo.DeleteSeries(ctx, "series-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown series", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM events WHERE series_id = \$1`).
			WithArgs("series-missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewEventRepository(db)
		err = repo.DeleteSeries(ctx, "series-missing")
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
