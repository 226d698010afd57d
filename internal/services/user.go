package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventcalendar/internal/domain"
)

type userService struct {
	userRepo       domain.UserRepository
	contextTimeout time.Duration
}

// NewUserService creates a UserService over the given repository.
func NewUserService(userRepo domain.UserRepository, timeout time.Duration) domain.UserService {
	return &userService{userRepo: userRepo, contextTimeout: timeout}
}

// ResolveParticipants maps participant ids to user records for display.
// Order is preserved and ids with no matching user are silently dropped;
// a stale participant reference never fails the caller.
func (s *userService) ResolveParticipants(ctx context.Context, ids []string) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	users := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				continue
			}
			return nil, fmt.Errorf("resolve participant %s: %w", id, err)
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *userService) GetUserByHandle(ctx context.Context, handle string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByHandle(ctx, strings.TrimSpace(handle))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by handle: %w", err)
	}
	return user, nil
}

func (s *userService) GetUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by phone: %w", err)
	}
	return user, nil
}

// SearchUsers returns users whose given field contains term, or every user
// when term is empty (the admin dashboard's unfiltered listing).
func (s *userService) SearchUsers(ctx context.Context, field domain.UserSearchField, term string) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	term = strings.TrimSpace(term)
	var (
		users []*domain.User
		err   error
	)
	if term == "" {
		users, err = s.userRepo.List(ctx)
	} else {
		switch field {
		case domain.SearchByHandle, domain.SearchByEmail, domain.SearchByFirstName, domain.SearchByLastName:
		default:
			return nil, fmt.Errorf("%w: unknown search field %q", domain.ErrInvalidInput, field)
		}
		users, err = s.userRepo.Search(ctx, field, term)
	}
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}

// UpdateUserRole assigns a role to a user. Only admins may do this, and an
// admin cannot change their own role (no accidental self-demotion).
func (s *userService) UpdateUserRole(ctx context.Context, actorID, userID, role string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !domain.ValidRole(role) {
		return fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrForbidden
		}
		return fmt.Errorf("get actor: %w", err)
	}
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if actorID == userID {
		return fmt.Errorf("%w: cannot change own role", domain.ErrInvalidInput)
	}
	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("update role: %w", err)
	}
	return nil
}
