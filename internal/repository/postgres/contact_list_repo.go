package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventcalendar/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type contactListRepository struct {
	DB *sql.DB
}

func NewContactListRepository(db *sql.DB) domain.ContactListRepository {
	return &contactListRepository{
		DB: db,
	}
}

func (r *contactListRepository) Create(ctx context.Context, l *domain.ContactList) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	query := `
		INSERT INTO contact_lists (id, owner_id, name, contacts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.DB.ExecContext(ctx, query, l.ID, l.Owner, l.Name, pq.Array(l.Contacts), l.CreatedAt, l.UpdatedAt)
	return err
}

func (r *contactListRepository) GetByID(ctx context.Context, id string) (*domain.ContactList, error) {
	query := `
		SELECT id, owner_id, name, contacts, created_at, updated_at
		FROM contact_lists
		WHERE id = $1
	`
	l := &domain.ContactList{}
	var contacts pq.StringArray
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&l.ID, &l.Owner, &l.Name, &contacts, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrListNotFound
		}
		return nil, err
	}
	l.Contacts = []string(contacts)
	return l, nil
}

func (r *contactListRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.ContactList, error) {
	query := `
		SELECT id, owner_id, name, contacts, created_at, updated_at
		FROM contact_lists
		WHERE owner_id = $1
		ORDER BY name ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	lists := make([]*domain.ContactList, 0)
	for rows.Next() {
		l := &domain.ContactList{}
		var contacts pq.StringArray
		if err := rows.Scan(&l.ID, &l.Owner, &l.Name, &contacts, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		l.Contacts = []string(contacts)
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

func (r *contactListRepository) Update(ctx context.Context, l *domain.ContactList) error {
	query := `
		UPDATE contact_lists
		SET name = $1, contacts = $2, updated_at = NOW()
		WHERE id = $3
	`
	result, err := r.DB.ExecContext(ctx, query, l.Name, pq.Array(l.Contacts), l.ID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrListNotFound
	}
	return nil
}

func (r *contactListRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM contact_lists WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrListNotFound
	}
	return nil
}
