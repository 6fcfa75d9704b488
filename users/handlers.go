package users

// This file maps the HTTP surface to the service.

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/notefeed-go/apperror"
	"github.com/user/notefeed-go/auth"
)

// Handlers wraps the UserService to provide HTTP handlers.
type Handlers struct {
	service *UserService
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *UserService) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers the user routes on the given chi router.
// The identity middleware runs upstream; only /me demands a caller.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Get("/me", h.handleMe)
	r.Get("/{username}", h.handleByUsername)
}

// handleMe godoc
// @Summary Current user's profile
// @Description Returns the profile of the authenticated caller.
// @Tags Users
// @Produce json
// @Success 200 {object} users.UserResponse
// @Failure 401 {object} apperror.ErrorResponse "Unauthenticated"
// @Failure 404 {object} apperror.ErrorResponse "User no longer exists"
// @Security BearerAuth
// @Router /api/v1/users/me [get]
func (h *Handlers) handleMe(w http.ResponseWriter, r *http.Request) {
	caller := auth.IdentityFromContext(r.Context())

	user, err := h.service.Me(r.Context(), caller)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	auth.WriteJSON(w, http.StatusOK, user)
}

// handleByUsername godoc
// @Summary User by username
// @Description Returns a single user's profile. No authentication required.
// @Tags Users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} users.UserResponse
// @Failure 404 {object} apperror.ErrorResponse "User not found"
// @Router /api/v1/users/{username} [get]
func (h *Handlers) handleByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		auth.WriteError(w, r, apperror.NewValidationError("username is required", nil))
		return
	}

	user, err := h.service.ByUsername(r.Context(), username)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	auth.WriteJSON(w, http.StatusOK, user)
}

// handleList godoc
// @Summary List users
// @Description Returns all users. No authentication required.
// @Tags Users
// @Produce json
// @Success 200 {array} users.UserResponse
// @Router /api/v1/users [get]
func (h *Handlers) handleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.All(r.Context())
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	auth.WriteJSON(w, http.StatusOK, users)
}
