package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"eventcalendar/internal/domain"
)

const (
	minHandleLen   = 3
	maxHandleLen   = 32
	minPasswordLen = 8
)

var (
	emailRegexp  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	handleRegexp = regexp.MustCompile(`^[a-z0-9_-]+$`)
)

type authService struct {
	userRepo       domain.UserRepository
	hasher         domain.PasswordHasher
	tokenIssuer    domain.TokenIssuer
	tokenExpiry    time.Duration
	contextTimeout time.Duration
}

// NewAuthService creates an AuthService with the given repository and auth ports.
func NewAuthService(userRepo domain.UserRepository,
	hasher domain.PasswordHasher,
	tokenIssuer domain.TokenIssuer,
	tokenExpiry time.Duration,
	timeout time.Duration,
) domain.AuthService {
	return &authService{
		userRepo:       userRepo,
		hasher:         hasher,
		tokenIssuer:    tokenIssuer,
		tokenExpiry:    tokenExpiry,
		contextTimeout: timeout,
	}
}

func (s *authService) Register(ctx context.Context, input domain.RegisterInput) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	handle := strings.TrimSpace(strings.ToLower(input.Handle))
	if len(handle) < minHandleLen || len(handle) > maxHandleLen || !handleRegexp.MatchString(handle) {
		return nil, fmt.Errorf("%w: invalid handle", domain.ErrInvalidInput)
	}
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	if len(input.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}

	if _, err := s.userRepo.GetByHandle(ctx, handle); err == nil {
		return nil, domain.ErrDuplicateHandle
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("check handle: %w", err)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		Handle:       handle,
		Email:        email,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Phone:        strings.TrimSpace(input.Phone),
		Role:         domain.RoleUser,
		PasswordHash: hash,
		Salt:         salt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, handle, password string) (string, *domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	handle = strings.TrimSpace(strings.ToLower(handle))
	user, err := s.userRepo.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("get user: %w", err)
	}
	if user.Role == domain.RoleBanned {
		return "", nil, domain.ErrForbidden
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	token, err := s.tokenIssuer.Issue(user.ID, user.Handle, user.Role, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}
