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

type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// SearchUsersSuccessResponse is the success response envelope for GET /users (200).
type SearchUsersSuccessResponse struct {
	Data  []*domain.User    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SearchUsers godoc
// @Summary List or search users
// @Description Without query params, lists all users. With field and q, filters on one of handle, email, first_name or last_name by case-insensitive substring.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param field query string false "Search field: handle, email, first_name or last_name (default handle)"
// @Param q query string false "Search term"
// @Success 200 {object} controllers.SearchUsersSuccessResponse "data is an array of users"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (unknown field)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users [get]
func (c *UserController) SearchUsers(w http.ResponseWriter, r *http.Request) {
	_, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	field := domain.UserSearchField(r.URL.Query().Get("field"))
	if field == "" {
		field = domain.SearchByHandle
	}
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	users, err := c.Service.SearchUsers(r.Context(), field, term)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unknown search field")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if users == nil {
		users = []*domain.User{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, users)
}

// GetUserSuccessResponse is the success response envelope for GET /users/{userID} (200).
type GetUserSuccessResponse struct {
	Data  *domain.User      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetUserByID godoc
// @Summary Get a user by ID
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID (UUID)"
// @Success 200 {object} controllers.GetUserSuccessResponse "data contains the user"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID} [get]
func (c *UserController) GetUserByID(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if userID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing userID")
		return
	}
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	user, err := c.Service.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// ResolveParticipantsRequest is the request body for POST /users/resolve.
type ResolveParticipantsRequest struct {
	IDs []string `json:"ids"`
}

// Validate implements Validator.
func (rr ResolveParticipantsRequest) Validate() []string {
	if len(rr.IDs) == 0 {
		return []string{"ids is required"}
	}
	return nil
}

// ResolveParticipants godoc
// @Summary Resolve participant IDs to user records
// @Description Maps a list of user IDs to user records for display, keeping the input order. IDs with no matching user are dropped from the result.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ResolveParticipantsRequest true "User IDs to resolve"
// @Success 200 {object} controllers.SearchUsersSuccessResponse "data is an array of users"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/resolve [post]
func (c *UserController) ResolveParticipants(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req ResolveParticipantsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	users, err := c.Service.ResolveParticipants(r.Context(), req.IDs)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if users == nil {
		users = []*domain.User{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, users)
}

// UpdateUserRoleRequest is the request body for PATCH /users/{userID}/role.
type UpdateUserRoleRequest struct {
	Role string `json:"role"`
}

// Validate implements Validator.
func (u UpdateUserRoleRequest) Validate() []string {
	if u.Role == "" {
		return []string{"role is required"}
	}
	return nil
}

// UpdateUserRoleResponse is the data payload for PATCH /users/{userID}/role (200).
type UpdateUserRoleResponse struct {
	Status string `json:"status"`
}

// UpdateUserRoleSuccessResponse is the success response envelope for PATCH /users/{userID}/role (200).
type UpdateUserRoleSuccessResponse struct {
	Data  UpdateUserRoleResponse `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// UpdateUserRole godoc
// @Summary Change a user's role
// @Description Sets the target user's role to admin, user or banned. Only admins can change roles, and not their own.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID (UUID)"
// @Param body body UpdateUserRoleRequest true "New role"
// @Success 200 {object} controllers.UpdateUserRoleSuccessResponse "data contains status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (unknown role or self change)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (caller is not admin)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/role [patch]
func (c *UserController) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	targetID := r.PathValue("userID")
	if targetID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing userID")
		return
	}
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req UpdateUserRoleRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.UpdateUserRole(r.Context(), actorID, targetID, req.Role); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, UpdateUserRoleResponse{Status: "updated"})
}
