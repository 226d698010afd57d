package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"eventcalendar/internal/delivery/http/helpers"
	"eventcalendar/internal/delivery/http/middleware"
	"eventcalendar/internal/domain"
)

// CreateEventRequest is the request body for POST /events. The authenticated
// user must be the first participant. When recurrence is set, a whole series
// of instances is created up to the expansion horizon.
type CreateEventRequest struct {
	Title        string             `json:"title"`
	StartDate    time.Time          `json:"start_date"`
	EndDate      time.Time          `json:"end_date"`
	Description  string             `json:"description"`
	Participants []string           `json:"participants"`
	Private      bool               `json:"private"`
	Recurrence   *domain.Recurrence `json:"recurrence"`
}

// CreateEventSuccessResponse is the success response envelope for POST /events (201).
type CreateEventSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// writeEventError maps the event service's sentinel errors onto HTTP codes.
// Unexpected errors are logged and reported as 500.
func (c *EventController) writeEventError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidRecurrence):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// CreateEvent godoc
// @Summary Create an event or a recurring series
// @Description Creates a calendar event. The authenticated user must be the first participant and becomes the owner. With recurrence set, every instance up to one year from the start is created and returned; instances share a series id.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.CreateEventSuccessResponse "data contains the created instances"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (caller is not the first participant)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	created, err := c.Service.CreateEvent(r.Context(), userID, domain.CreateEventInput{
		Title:        req.Title,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Description:  req.Description,
		Participants: req.Participants,
		Private:      req.Private,
		Recurrence:   req.Recurrence,
	})
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, created)
}

// GetEventSuccessResponse is the success response envelope for GET /events/{eventID} (200).
type GetEventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetEventByID godoc
// @Summary Get an event by ID
// @Description Returns a single event. Private events are only visible to their participants and admins.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.GetEventSuccessResponse "data contains the event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (private event)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEventByID(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := c.Service.GetEventByID(r.Context(), userID, eventID)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}.
// All fields optional; omitted fields are unchanged. Updating a series member
// re-spaces every member of the series from the new start date.
type UpdateEventRequest struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	StartDate   time.Time          `json:"start_date"`
	EndDate     time.Time          `json:"end_date"`
	Recurrence  *domain.Recurrence `json:"recurrence"`
}

// Validate implements Validator. Date fields must come as a pair.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.StartDate.IsZero() != u.EndDate.IsZero() {
		errs = append(errs, "start_date and end_date must be provided together")
	}
	return errs
}

// UpdateEventResponse is the data payload for PATCH /events/{eventID} (200).
type UpdateEventResponse struct {
	Status string `json:"status"`
}

// UpdateEventSuccessResponse is the success response envelope for PATCH /events/{eventID} (200).
type UpdateEventSuccessResponse struct {
	Data  UpdateEventResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// UpdateEvent godoc
// @Summary Update an event or a whole series
// @Description Updates title, description, dates and recurrence. Only the owner or an admin can update. For a series member the new dates and recurrence re-space every member while each keeps its position in the series. Participants and privacy are not changed by this endpoint.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.UpdateEventSuccessResponse "data contains status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner or admin)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	err := c.Service.UpdateEvent(r.Context(), userID, eventID, domain.EventPatch{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Recurrence:  req.Recurrence,
	})
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, UpdateEventResponse{Status: "updated"})
}

// DeleteEventResponse is the data payload for DELETE /events/{eventID} (200).
type DeleteEventResponse struct {
	Status string `json:"status"`
}

// DeleteEventSuccessResponse is the success response envelope for DELETE /events/{eventID} (200).
type DeleteEventSuccessResponse struct {
	Data  DeleteEventResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes a single event, or the whole series with scope=series. Only the owner or an admin can delete.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param scope query string false "Delete scope: single (default) or series"
// @Success 200 {object} controllers.DeleteEventSuccessResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner or admin)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	scope := domain.DeleteScopeSingle
	if r.URL.Query().Get("scope") == string(domain.DeleteScopeSeries) {
		scope = domain.DeleteScopeSeries
	}
	if err := c.Service.DeleteEvent(r.Context(), userID, eventID, scope); err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteEventResponse{Status: "deleted"})
}

// ListEventsSuccessResponse is the success response envelope for event list endpoints (200).
type ListEventsSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListMyEvents godoc
// @Summary List events for the current user
// @Description Returns every event the authenticated user participates in, ordered by start date.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListEventsSuccessResponse "data is an array of events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/me [get]
func (c *EventController) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	events, err := c.Service.ListEventsForUser(r.Context(), userID)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// ListEvents godoc
// @Summary List events in a date range
// @Description Returns events starting within [from, to]. Private events where the caller is not a participant are omitted unless the caller is an admin. Dates are RFC 3339.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param from query string true "Range start (RFC 3339)"
// @Param to query string true "Range end (RFC 3339)"
// @Success 200 {object} controllers.ListEventsSuccessResponse "data is an array of events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid from date")
		return
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid to date")
		return
	}
	events, err := c.Service.ListEventsBetween(r.Context(), userID, from, to)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}
