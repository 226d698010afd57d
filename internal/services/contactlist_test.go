package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"eventcalendar/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeContactListRepo is an in-memory ContactListRepository for tests.
type fakeContactListRepo struct {
	byID   map[string]*domain.ContactList
	nextID int
}

func newFakeContactListRepo() *fakeContactListRepo {
	return &fakeContactListRepo{byID: make(map[string]*domain.ContactList), nextID: 1}
}

func (f *fakeContactListRepo) Create(ctx context.Context, l *domain.ContactList) error {
	l.ID = fmt.Sprintf("list-%d", f.nextID)
	f.nextID++
	cp := *l
	f.byID[l.ID] = &cp
	return nil
}

func (f *fakeContactListRepo) GetByID(ctx context.Context, id string) (*domain.ContactList, error) {
	if l, ok := f.byID[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, domain.ErrListNotFound
}

func (f *fakeContactListRepo) ListByOwner(ctx context.Context, ownerID string) ([]*domain.ContactList, error) {
	var out []*domain.ContactList
	for _, l := range f.byID {
		if l.Owner == ownerID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeContactListRepo) Update(ctx context.Context, l *domain.ContactList) error {
	if _, ok := f.byID[l.ID]; !ok {
		return domain.ErrListNotFound
	}
	cp := *l
	f.byID[l.ID] = &cp
	return nil
}

func (f *fakeContactListRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrListNotFound
	}
	delete(f.byID, id)
	return nil
}

func newTestContactListService(lr *fakeContactListRepo) domain.ContactListService {
	return NewContactListService(lr, testUsers(), 5*time.Second)
}

func TestContactListService_CreateAndList(t *testing.T) {
	ctx := context.Background()
	lr := newFakeContactListRepo()
	svc := newTestContactListService(lr)

	list, err := svc.CreateContactList(ctx, "user-1", "Friends")
	require.NoError(t, err)
	assert.NotEmpty(t, list.ID)
	assert.Equal(t, "user-1", list.Owner)
	assert.Empty(t, list.Contacts)

	lists, err := svc.ListContactLists(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, lists, 1)

	lists, err = svc.ListContactLists(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, lists)

	_, err = svc.CreateContactList(ctx, "user-1", "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestContactListService_AddContact(t *testing.T) {
	ctx := context.Background()
	lr := newFakeContactListRepo()
	svc := newTestContactListService(lr)

	list, err := svc.CreateContactList(ctx, "user-1", "Friends")
	require.NoError(t, err)

	list, err = svc.AddContact(ctx, "user-1", list.ID, "user-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"user-2"}, list.Contacts)

	// Adding the same contact again is a no-op.
	list, err = svc.AddContact(ctx, "user-1", list.ID, "user-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"user-2"}, list.Contacts)

	_, err = svc.AddContact(ctx, "user-1", list.ID, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = svc.AddContact(ctx, "user-2", list.ID, "admin-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestContactListService_RemoveContact(t *testing.T) {
	ctx := context.Background()
	lr := newFakeContactListRepo()
	svc := newTestContactListService(lr)

	list, err := svc.CreateContactList(ctx, "user-1", "Friends")
	require.NoError(t, err)
	_, err = svc.AddContact(ctx, "user-1", list.ID, "user-2")
	require.NoError(t, err)
	_, err = svc.AddContact(ctx, "user-1", list.ID, "admin-1")
	require.NoError(t, err)

	list, err = svc.RemoveContact(ctx, "user-1", list.ID, "user-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"admin-1"}, list.Contacts)

	// Removing an absent contact is harmless.
	list, err = svc.RemoveContact(ctx, "user-1", list.ID, "ghost")
	require.NoError(t, err)
	assert.Equal(t, []string{"admin-1"}, list.Contacts)
}

func TestContactListService_RenameAndDelete(t *testing.T) {
	ctx := context.Background()
	lr := newFakeContactListRepo()
	svc := newTestContactListService(lr)

	list, err := svc.CreateContactList(ctx, "user-1", "Friends")
	require.NoError(t, err)

	renamed, err := svc.RenameContactList(ctx, "user-1", list.ID, "Close friends")
	require.NoError(t, err)
	assert.Equal(t, "Close friends", renamed.Name)

	err = svc.DeleteContactList(ctx, "user-2", list.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = svc.DeleteContactList(ctx, "user-1", list.ID)
	require.NoError(t, err)

	_, err = svc.GetContactList(ctx, "user-1", list.ID)
	assert.ErrorIs(t, err, domain.ErrListNotFound)
}
