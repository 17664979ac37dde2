package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/meetkit/interviewd/internal/store"
)

// AddUserMeetingRequest is the body for POST /api/user-meetings.
type AddUserMeetingRequest struct {
	UserID    int64 `json:"user_id"`
	MeetingID int64 `json:"meeting_id"`
}

// handleAddUserMeeting associates a user with a meeting.
// POST /api/user-meetings → 201 + row; 409 on a duplicate pair
func (s *Service) handleAddUserMeeting(w http.ResponseWriter, r *http.Request) {
	var req AddUserMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID <= 0 || req.MeetingID <= 0 {
		http.Error(w, "user_id and meeting_id required", http.StatusBadRequest)
		return
	}

	um, err := s.store.CreateUserMeeting(r.Context(), req.UserID, req.MeetingID)
	if errors.Is(err, store.ErrConflict) {
		http.Error(w, "Association already exists", http.StatusConflict)
		return
	}
	if err != nil {
		s.logger.Error("create user-meeting failed", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(um)
}

// handleListUserMeetings lists associations, optionally filtered by user.
// GET /api/user-meetings[?user_id=] → 200 + rows
func (s *Service) handleListUserMeetings(w http.ResponseWriter, r *http.Request) {
	var userID int64
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		var err error
		userID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "Invalid user_id", http.StatusBadRequest)
			return
		}
	}

	ums, err := s.store.ListUserMeetings(r.Context(), userID)
	if err != nil {
		s.logger.Error("list user-meetings failed", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if ums == nil {
		ums = []*store.UserMeeting{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ums)
}

// handleDeleteUserMeeting removes one association.
// DELETE /api/user-meetings?user_id=&meeting_id= → 200
func (s *Service) handleDeleteUserMeeting(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user_id", http.StatusBadRequest)
		return
	}
	meetingID, err := strconv.ParseInt(r.URL.Query().Get("meeting_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid meeting_id", http.StatusBadRequest)
		return
	}

	if err := s.store.DeleteUserMeeting(r.Context(), userID, meetingID); err != nil {
		s.logger.Error("delete user-meeting failed", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
