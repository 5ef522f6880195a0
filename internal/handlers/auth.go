package handlers

import (
	"net/http"
	"strings"

	"expense-journal/internal/models"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates an account and returns it with a token.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		WriteError(w, http.StatusBadRequest, "Please provide email, password, and name")
		return
	}

	user, token, err := h.auth.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.writeServiceError(w, r, err, "User not found", "Error registering user")
		return
	}

	writeData(w, http.StatusCreated, authResponse{User: user, Token: token})
}

// Login exchanges credentials for a token.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "Please provide email and password")
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err, "User not found", "Error logging in")
		return
	}

	writeData(w, http.StatusOK, authResponse{User: user, Token: token})
}

// Profile returns the authenticated user's account.
func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.Profile(r.Context(), GetUserFromContext(r).ID)
	if err != nil {
		h.writeServiceError(w, r, err, "User not found", "Error fetching profile")
		return
	}

	writeData(w, http.StatusOK, map[string]any{"user": user})
}
