package auth

// HTTP handlers for the auth endpoints, plus the shared writeJSON/WriteError
// response helpers the other feature packages reuse.

import (
	"encoding/json"
	"net/http"

	"github.com/user/notefeed-go/apperror"
)

// Handlers wraps the AuthService to provide HTTP handlers.
type Handlers struct {
	service *AuthService
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *AuthService) *Handlers {
	return &Handlers{service: service}
}

// HandleSignUp godoc
// @Summary User Sign-Up
// @Description Registers a new user and returns a signed identity token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param signUpBody body auth.SignUpRequest true "User registration details"
// @Success 201 {object} auth.TokenResponse "Account created, token issued"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Invalid input or account creation failure"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /auth/signup [post]
func (h *Handlers) HandleSignUp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignUpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewValidationError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if req.Username == "" || req.Email == "" || req.Password == "" {
			WriteError(w, r, apperror.NewValidationError("username, email, and password are required", nil))
			return
		}

		token, err := h.service.SignUp(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, TokenResponse{Token: token})
	}
}

// HandleSignIn godoc
// @Summary User Sign-In
// @Description Authenticates an existing user by username or email and returns a signed identity token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param signInBody body auth.SignInRequest true "User sign-in credentials"
// @Success 200 {object} auth.TokenResponse "Sign-in successful, token issued"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Invalid input or missing fields"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized - Invalid credentials"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /auth/signin [post]
func (h *Handlers) HandleSignIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignInRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewValidationError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if req.Login == "" || req.Password == "" {
			WriteError(w, r, apperror.NewValidationError("login and password are required", nil))
			return
		}

		token, err := h.service.SignIn(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, TokenResponse{Token: token})
	}
}

// writeJSON serializes `data` to JSON and writes it with the given status.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil { // Avoid writing nil, which would serialize as "null"
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		}
	}
}

// WriteJSON is the exported variant for sibling feature packages, keeping
// every response body shaped the same way.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, data)
}

// WriteError converts any error into the standardized apperror response.
// Errors that are not already AppErrors become generic internal errors, so
// nothing unclassified leaks to clients.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("an unexpected error occurred: "+err.Error(), err)
	}

	writeJSON(w, appErr.StatusCode(), appErr.ToResponse())
}
