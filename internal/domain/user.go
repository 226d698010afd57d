package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateHandle    = errors.New("handle already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Application roles.
const (
	RoleAdmin  = "admin"
	RoleUser   = "user"
	RoleBanned = "banned"
)

// ValidRole reports whether role is one of the known application roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleUser, RoleBanned:
		return true
	}
	return false
}

// User represents a registered user
type User struct {
	ID           string    `json:"id"`
	Handle       string    `json:"handle"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// UserSearchField selects the field SearchUsers filters on.
type UserSearchField string

const (
	SearchByHandle    UserSearchField = "handle"
	SearchByEmail     UserSearchField = "email"
	SearchByFirstName UserSearchField = "first_name"
	SearchByLastName  UserSearchField = "last_name"
)

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, handle, role string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByHandle(ctx context.Context, handle string) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Search(ctx context.Context, field UserSearchField, term string) ([]*User, error)
	UpdateRole(ctx context.Context, userID, role string) error
}

// UserService resolves participants for display and serves the admin user
// management surface.
type UserService interface {
	// ResolveParticipants maps participant ids to user records,
	// order-preserving, silently dropping ids with no matching user.
	ResolveParticipants(ctx context.Context, ids []string) ([]*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByHandle(ctx context.Context, handle string) (*User, error)
	GetUserByPhone(ctx context.Context, phone string) (*User, error)
	SearchUsers(ctx context.Context, field UserSearchField, term string) ([]*User, error)
	UpdateUserRole(ctx context.Context, actorID, userID, role string) error
}

// AuthService registers users and authenticates logins.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Login(ctx context.Context, handle, password string) (token string, user *User, err error)
}

// RegisterInput carries the fields for a new registration.
type RegisterInput struct {
	Handle    string `json:"handle"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}
