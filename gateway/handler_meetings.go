package gateway

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// AddMeetingRequest is the body for POST /api/meetings.
type AddMeetingRequest struct {
	OwnerID int64  `json:"owner_id"`
	Time    string `json:"time"`
}

// handleAddMeeting creates a meeting with a generated unique room URL.
// POST /api/meetings → 201 + row
func (s *Service) handleAddMeeting(w http.ResponseWriter, r *http.Request) {
	var req AddMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.OwnerID <= 0 || req.Time == "" {
		http.Error(w, "owner_id and time required", http.StatusBadRequest)
		return
	}

	m, err := s.store.CreateMeeting(r.Context(), req.OwnerID, req.Time)
	if err != nil {
		s.logger.Error("create meeting failed", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(m)
}

// handleDeleteMeeting removes a meeting.
// DELETE /api/meetings?meeting_id= → 200
func (s *Service) handleDeleteMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("meeting_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid meeting_id", http.StatusBadRequest)
		return
	}

	if err := s.store.DeleteMeeting(r.Context(), id); err != nil {
		s.logger.Error("delete meeting failed", "meeting_id", id, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
