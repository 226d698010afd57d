package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventcalendar/internal/domain"

	"github.com/google/uuid"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{
		DB: db,
	}
}

const userColumns = `id, handle, email, first_name, last_name, phone, role, password_hash, salt, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	query := `
		INSERT INTO users (id, handle, email, first_name, last_name, phone, role, password_hash, salt, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.DB.ExecContext(ctx, query,
		u.ID, u.Handle, u.Email, u.FirstName, u.LastName, u.Phone, u.Role,
		u.PasswordHash, u.Salt, u.CreatedAt, u.UpdatedAt,
	)
	return err
}

func scanUser(scan func(dest ...interface{}) error) (*domain.User, error) {
	u := &domain.User{}
	var phoneNull sql.NullString
	err := scan(
		&u.ID, &u.Handle, &u.Email, &u.FirstName, &u.LastName, &phoneNull,
		&u.Role, &u.PasswordHash, &u.Salt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if phoneNull.Valid {
		u.Phone = phoneNull.String
	}
	return u, nil
}

func (r *userRepository) getBy(ctx context.Context, where string, arg interface{}) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE ` + where + ` = $1
	`
	row := r.DB.QueryRowContext(ctx, query, arg)
	u, err := scanUser(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *userRepository) GetByHandle(ctx context.Context, handle string) (*domain.User, error) {
	return r.getBy(ctx, "handle", handle)
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.getBy(ctx, "phone", phone)
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY handle ASC
	`
	return r.listQuery(ctx, query)
}

// searchColumns whitelists the fields reachable from the search endpoint so
// the field name can be spliced into the query safely.
var searchColumns = map[domain.UserSearchField]string{
	domain.SearchByHandle:    "handle",
	domain.SearchByEmail:     "email",
	domain.SearchByFirstName: "first_name",
	domain.SearchByLastName:  "last_name",
}

func (r *userRepository) Search(ctx context.Context, field domain.UserSearchField, term string) ([]*domain.User, error) {
	col, ok := searchColumns[field]
	if !ok {
		return nil, fmt.Errorf("search users: %w", domain.ErrInvalidInput)
	}
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE ` + col + ` ILIKE $1
		ORDER BY handle ASC
	`
	return r.listQuery(ctx, query, "%"+term+"%")
}

func (r *userRepository) listQuery(ctx context.Context, query string, args ...interface{}) ([]*domain.User, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) UpdateRole(ctx context.Context, userID, role string) error {
	query := `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.DB.ExecContext(ctx, query, role, userID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
