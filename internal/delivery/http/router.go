package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventcalendar/internal/delivery/http/controllers"
	"eventcalendar/internal/delivery/http/middleware"
	"eventcalendar/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(
	verifier domain.TokenVerifier,
	eventController *controllers.EventController,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	contactListController *controllers.ContactListController,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier)

	// Auth
	mux.HandleFunc("POST /auth/register", authController.Register)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Events
	mux.HandleFunc("POST /events", auth(eventController.CreateEvent))
	mux.HandleFunc("GET /events", auth(eventController.ListEvents))
	mux.HandleFunc("GET /events/me", auth(eventController.ListMyEvents))
	mux.HandleFunc("GET /events/{eventID}", auth(eventController.GetEventByID))
	mux.HandleFunc("PATCH /events/{eventID}", auth(eventController.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(eventController.DeleteEvent))

	// Users
	mux.HandleFunc("GET /users", auth(userController.SearchUsers))
	mux.HandleFunc("POST /users/resolve", auth(userController.ResolveParticipants))
	mux.HandleFunc("GET /users/{userID}", auth(userController.GetUserByID))
	mux.HandleFunc("PATCH /users/{userID}/role", auth(userController.UpdateUserRole))

	// Contact lists
	mux.HandleFunc("POST /contact-lists", auth(contactListController.CreateContactList))
	mux.HandleFunc("GET /contact-lists", auth(contactListController.ListContactLists))
	mux.HandleFunc("GET /contact-lists/{listID}", auth(contactListController.GetContactList))
	mux.HandleFunc("PATCH /contact-lists/{listID}", auth(contactListController.RenameContactList))
	mux.HandleFunc("DELETE /contact-lists/{listID}", auth(contactListController.DeleteContactList))
	mux.HandleFunc("POST /contact-lists/{listID}/contacts", auth(contactListController.AddContact))
	mux.HandleFunc("DELETE /contact-lists/{listID}/contacts/{contactID}", auth(contactListController.RemoveContact))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
