package auth

// This file defines the request/response payloads for the auth endpoints.

// SignUpRequest represents the registration request payload.
type SignUpRequest struct {
	Username string `json:"username" example:"newuser"`
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"strongpassword123"`
}

// SignInRequest represents the sign-in request payload.
// Login accepts either a username or an email address.
type SignInRequest struct {
	Login    string `json:"login" example:"user@example.com"`
	Password string `json:"password" example:"strongpassword123"`
}

// TokenResponse is returned on successful sign-up or sign-in.
type TokenResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}
