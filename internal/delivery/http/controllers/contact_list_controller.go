package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"eventcalendar/internal/delivery/http/helpers"
	"eventcalendar/internal/delivery/http/middleware"
	"eventcalendar/internal/domain"
)

type ContactListController struct {
	Logger  *slog.Logger
	Service domain.ContactListService
}

func NewContactListController(logger *slog.Logger, svc domain.ContactListService) *ContactListController {
	return &ContactListController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *ContactListController) writeListError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrListNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "contact list not found")
	case errors.Is(err, domain.ErrUserNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// ContactListRequest is the request body for creating or renaming a contact list.
type ContactListRequest struct {
	Name string `json:"name"`
}

// Validate implements Validator.
func (cl ContactListRequest) Validate() []string {
	if strings.TrimSpace(cl.Name) == "" {
		return []string{"name is required"}
	}
	return nil
}

// ContactListSuccessResponse is the success response envelope for single contact list endpoints.
type ContactListSuccessResponse struct {
	Data  *domain.ContactList `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// ContactListsSuccessResponse is the success response envelope for GET /contact-lists (200).
type ContactListsSuccessResponse struct {
	Data  []*domain.ContactList `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// CreateContactList godoc
// @Summary Create a contact list
// @Tags contact-lists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ContactListRequest true "List name"
// @Success 201 {object} controllers.ContactListSuccessResponse "data contains the created list"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /contact-lists [post]
func (c *ContactListController) CreateContactList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req ContactListRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	list, err := c.Service.CreateContactList(r.Context(), userID, req.Name)
	if err != nil {
		c.writeListError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, list)
}

// ListContactLists godoc
// @Summary List the current user's contact lists
// @Tags contact-lists
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ContactListsSuccessResponse "data is an array of lists"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /contact-lists [get]
func (c *ContactListController) ListContactLists(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	lists, err := c.Service.ListContactLists(r.Context(), userID)
	if err != nil {
		c.writeListError(w, r, err)
		return
	}
	if lists == nil {
		lists = []*domain.ContactList{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, lists)
}

// GetContactList godoc
// @Summary Get a contact list by ID
// @Tags contact-lists
// @Produce json
// @Security BearerAuth
// @Param listID path string true "List ID (UUID)"
// @Success 200 {object} controllers.ContactListSuccessResponse "data contains the list"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /contact-lists/{listID} [get]
func (c *ContactListController) GetContactList(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("listID")
	if listID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing listID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	list, err := c.Service.GetContactList(r.Context(), userID, listID)
	if err != nil {
		c.writeListError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}

// RenameContactList godoc
// @Summary Rename a contact list
// @Tags contact-lists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param listID path string true "List ID (UUID)"
// @Param body body ContactListRequest true "New name"
// @Success 200 {object} controllers.ContactListSuccessResponse "data contains the updated list"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /contact-lists/{listID} [patch]
func (c *ContactListController) RenameContactList(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("listID")
	if listID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing listID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req ContactListRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	list, err := c.Service.RenameContactList(r.Context(), userID, listID, req.Name)
	if err != nil {
		c.writeListError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}

// AddContactRequest is the request body for POST /contact-lists/{listID}/contacts.
type AddContactRequest struct {
	ContactID string `json:"contact_id"`
}

// Validate implements Validator.
func (a AddContactRequest) Validate() []string {
	if a.ContactID == "" {
		return []string{"contact_id is required"}
	}
	return nil
}

// AddContact godoc
// @Summary Add a contact to a list
// @Description Adds a user to the contact list. Adding a user already on the list is a no-op.
// @Tags contact-lists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param listID path string true "List ID (UUID)"
// @Param body body AddContactRequest true "User to add"
// @Success 200 {object} controllers.ContactListSuccessResponse "data contains the updated list"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (list or user)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /contact-lists/{listID}/contacts [post]
func (c *ContactListController) AddContact(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("listID")
	if listID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing listID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req AddContactRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	list, err := c.Service.AddContact(r.Context(), userID, listID, req.ContactID)
	if err != nil {
		c.writeListError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}

// RemoveContact godoc
// @Summary Remove a contact from a list
// @Tags contact-lists
// @Produce json
// @Security BearerAuth
// @Param listID path string true "List ID (UUID)"
// @Param contactID path string true "User ID of the contact to remove"
// @Success 200 {object} controllers.ContactListSuccessResponse "data contains the updated list"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /contact-lists/{listID}/contacts/{contactID} [delete]
func (c *ContactListController) RemoveContact(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("listID")
	contactID := r.PathValue("contactID")
	if listID == "" || contactID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing listID or contactID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	list, err := c.Service.RemoveContact(r.Context(), userID, listID, contactID)
	if err != nil {
		c.writeListError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}

// DeleteContactListResponse is the data payload for DELETE /contact-lists/{listID} (200).
type DeleteContactListResponse struct {
	Status string `json:"status"`
}

// DeleteContactListSuccessResponse is the success response envelope for DELETE /contact-lists/{listID} (200).
type DeleteContactListSuccessResponse struct {
	Data  DeleteContactListResponse `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// DeleteContactList godoc
// @Summary Delete a contact list
// @Tags contact-lists
// @Produce json
// @Security BearerAuth
// @Param listID path string true "List ID (UUID)"
// @Success 200 {object} controllers.DeleteContactListSuccessResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /contact-lists/{listID} [delete]
func (c *ContactListController) DeleteContactList(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("listID")
	if listID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing listID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.DeleteContactList(r.Context(), userID, listID); err != nil {
		c.writeListError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteContactListResponse{Status: "deleted"})
}
