package services

import (
	"context"
	"testing"
	"time"

	"eventcalendar/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserService(ur *fakeUserRepo) domain.UserService {
	return NewUserService(ur, 5*time.Second)
}

func TestUserService_ResolveParticipants(t *testing.T) {
	ctx := context.Background()
	svc := newTestUserService(testUsers())

	t.Run("order preserved", func(t *testing.T) {
		users, err := svc.ResolveParticipants(ctx, []string{"user-2", "admin-1", "user-1"})
		require.NoError(t, err)
		require.Len(t, users, 3)
		assert.Equal(t, "bob", users[0].Handle)
		assert.Equal(t, "root", users[1].Handle)
		assert.Equal(t, "alice", users[2].Handle)
	})

	t.Run("unmatched ids dropped silently", func(t *testing.T) {
		users, err := svc.ResolveParticipants(ctx, []string{"user-1", "ghost", "user-2"})
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "alice", users[0].Handle)
		assert.Equal(t, "bob", users[1].Handle)
	})

	t.Run("empty input", func(t *testing.T) {
		users, err := svc.ResolveParticipants(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, users)
	})
}

func TestUserService_SearchUsers(t *testing.T) {
	ctx := context.Background()
	svc := newTestUserService(testUsers())

	t.Run("by handle", func(t *testing.T) {
		users, err := svc.SearchUsers(ctx, domain.SearchByHandle, "bob")
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "user-2", users[0].ID)
	})

	t.Run("empty term lists everyone", func(t *testing.T) {
		users, err := svc.SearchUsers(ctx, domain.SearchByHandle, "")
		require.NoError(t, err)
		assert.Len(t, users, 3)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := svc.SearchUsers(ctx, domain.UserSearchField("shoe_size"), "42")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestUserService_UpdateUserRole(t *testing.T) {
	ctx := context.Background()

	t.Run("admin bans a user", func(t *testing.T) {
		ur := testUsers()
		svc := newTestUserService(ur)
		err := svc.UpdateUserRole(ctx, "admin-1", "user-2", domain.RoleBanned)
		require.NoError(t, err)
		u, _ := ur.GetByID(ctx, "user-2")
		assert.Equal(t, domain.RoleBanned, u.Role)
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		svc := newTestUserService(testUsers())
		err := svc.UpdateUserRole(ctx, "user-1", "user-2", domain.RoleBanned)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		svc := newTestUserService(testUsers())
		err := svc.UpdateUserRole(ctx, "admin-1", "user-2", "superuser")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("cannot change own role", func(t *testing.T) {
		svc := newTestUserService(testUsers())
		err := svc.UpdateUserRole(ctx, "admin-1", "admin-1", domain.RoleUser)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("target missing", func(t *testing.T) {
		svc := newTestUserService(testUsers())
		err := svc.UpdateUserRole(ctx, "admin-1", "ghost", domain.RoleUser)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}
