package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/meetkit/interviewd/internal/store"
)

// AddUserRequest is the body for POST /api/users.
type AddUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// handleAddUser creates a user.
// POST /api/users → 201 + row; 409 if username or email already exists
func (s *Service) handleAddUser(w http.ResponseWriter, r *http.Request) {
	var req AddUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Email == "" {
		http.Error(w, "username and email required", http.StatusBadRequest)
		return
	}

	u, err := s.store.CreateUser(r.Context(), req.Username, req.Email)
	if errors.Is(err, store.ErrConflict) {
		http.Error(w, "User already exists", http.StatusConflict)
		return
	}
	if err != nil {
		s.logger.Error("create user failed", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(u)
}
