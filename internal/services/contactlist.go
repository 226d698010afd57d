package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventcalendar/internal/domain"
)

type contactListService struct {
	listRepo       domain.ContactListRepository
	userRepo       domain.UserRepository
	contextTimeout time.Duration
}

// NewContactListService creates a ContactListService. The user repository is
// used to verify that added contacts exist.
func NewContactListService(listRepo domain.ContactListRepository, userRepo domain.UserRepository, timeout time.Duration) domain.ContactListService {
	return &contactListService{
		listRepo:       listRepo,
		userRepo:       userRepo,
		contextTimeout: timeout,
	}
}

func (s *contactListService) CreateContactList(ctx context.Context, ownerID, name string) (*domain.ContactList, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: list name is required", domain.ErrInvalidInput)
	}
	now := time.Now()
	list := &domain.ContactList{
		Owner:     ownerID,
		Name:      name,
		Contacts:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.listRepo.Create(ctx, list); err != nil {
		return nil, fmt.Errorf("create contact list: %w", err)
	}
	return list, nil
}

func (s *contactListService) GetContactList(ctx context.Context, actorID, listID string) (*domain.ContactList, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.getOwned(ctx, actorID, listID)
}

func (s *contactListService) ListContactLists(ctx context.Context, ownerID string) ([]*domain.ContactList, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	lists, err := s.listRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list contact lists: %w", err)
	}
	if lists == nil {
		lists = []*domain.ContactList{}
	}
	return lists, nil
}

func (s *contactListService) RenameContactList(ctx context.Context, actorID, listID, name string) (*domain.ContactList, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: list name is required", domain.ErrInvalidInput)
	}
	list, err := s.getOwned(ctx, actorID, listID)
	if err != nil {
		return nil, err
	}
	list.Name = name
	list.UpdatedAt = time.Now()
	if err := s.listRepo.Update(ctx, list); err != nil {
		return nil, fmt.Errorf("update contact list: %w", err)
	}
	return list, nil
}

// AddContact appends contactID to the list if not already present. Adding an
// existing contact is a no-op, not an error.
func (s *contactListService) AddContact(ctx context.Context, actorID, listID, contactID string) (*domain.ContactList, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	list, err := s.getOwned(ctx, actorID, listID)
	if err != nil {
		return nil, err
	}
	if list.HasContact(contactID) {
		return list, nil
	}
	if _, err := s.userRepo.GetByID(ctx, contactID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	list.Contacts = append(list.Contacts, contactID)
	list.UpdatedAt = time.Now()
	if err := s.listRepo.Update(ctx, list); err != nil {
		return nil, fmt.Errorf("update contact list: %w", err)
	}
	return list, nil
}

func (s *contactListService) RemoveContact(ctx context.Context, actorID, listID, contactID string) (*domain.ContactList, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	list, err := s.getOwned(ctx, actorID, listID)
	if err != nil {
		return nil, err
	}
	kept := list.Contacts[:0]
	for _, c := range list.Contacts {
		if c != contactID {
			kept = append(kept, c)
		}
	}
	list.Contacts = kept
	list.UpdatedAt = time.Now()
	if err := s.listRepo.Update(ctx, list); err != nil {
		return nil, fmt.Errorf("update contact list: %w", err)
	}
	return list, nil
}

func (s *contactListService) DeleteContactList(ctx context.Context, actorID, listID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getOwned(ctx, actorID, listID); err != nil {
		return err
	}
	if err := s.listRepo.Delete(ctx, listID); err != nil {
		return fmt.Errorf("delete contact list: %w", err)
	}
	return nil
}

func (s *contactListService) getOwned(ctx context.Context, actorID, listID string) (*domain.ContactList, error) {
	list, err := s.listRepo.GetByID(ctx, listID)
	if err != nil {
		if errors.Is(err, domain.ErrListNotFound) {
			return nil, domain.ErrListNotFound
		}
		return nil, fmt.Errorf("get contact list: %w", err)
	}
	if list.Owner != actorID {
		return nil, domain.ErrForbidden
	}
	return list, nil
}
