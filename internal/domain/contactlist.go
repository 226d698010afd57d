package domain

import (
	"context"
	"errors"
	"time"
)

// ErrListNotFound is returned when a contact list does not exist.
var ErrListNotFound = errors.New("contact list not found")

// ContactList is a named set of contact user ids owned by one user. It is
// consumed as a participant-selection source when creating events.
type ContactList struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Name      string    `json:"name"`
	Contacts  []string  `json:"contacts"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasContact reports whether contactID is already in the list.
func (l *ContactList) HasContact(contactID string) bool {
	for _, c := range l.Contacts {
		if c == contactID {
			return true
		}
	}
	return false
}

// ContactListRepository defines the interface for contact list storage
type ContactListRepository interface {
	Create(ctx context.Context, list *ContactList) error
	GetByID(ctx context.Context, id string) (*ContactList, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*ContactList, error)
	// Update persists name and contacts of an existing list.
	Update(ctx context.Context, list *ContactList) error
	Delete(ctx context.Context, id string) error
}

// ContactListService manages a user's contact lists. Mutations are allowed
// only for the owning user.
type ContactListService interface {
	CreateContactList(ctx context.Context, ownerID, name string) (*ContactList, error)
	GetContactList(ctx context.Context, actorID, listID string) (*ContactList, error)
	ListContactLists(ctx context.Context, ownerID string) ([]*ContactList, error)
	RenameContactList(ctx context.Context, actorID, listID, name string) (*ContactList, error)
	AddContact(ctx context.Context, actorID, listID, contactID string) (*ContactList, error)
	RemoveContact(ctx context.Context, actorID, listID, contactID string) (*ContactList, error)
	DeleteContactList(ctx context.Context, actorID, listID string) error
}
