package gateway

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/meetkit/interviewd/internal/store"
)

// AddQuestionRequest is the body for POST /api/interviews.
type AddQuestionRequest struct {
	MeetingID int64  `json:"meeting_id"`
	Question  string `json:"question"`
}

// handleListQuestions returns a meeting's question bank.
// GET /api/interviews?id=<meetingID> → 200 + rows
func (s *Service) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	meetingID, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	qs, err := s.store.ListQuestions(r.Context(), meetingID)
	if err != nil {
		s.logger.Error("list questions failed", "meeting_id", meetingID, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if qs == nil {
		qs = []*store.Question{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(qs)
}

// handleAddQuestion adds a question to a meeting's bank. Blank or
// whitespace-only text is rejected before any persistence call.
// POST /api/interviews → 201 + row; 400 on blank text
func (s *Service) handleAddQuestion(w http.ResponseWriter, r *http.Request) {
	var req AddQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.MeetingID <= 0 {
		http.Error(w, "meeting_id required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		http.Error(w, "question text is empty", http.StatusBadRequest)
		return
	}

	q, err := s.store.InsertQuestion(r.Context(), req.MeetingID, strings.TrimSpace(req.Question))
	if err != nil {
		s.logger.Error("insert question failed", "meeting_id", req.MeetingID, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(q)
}
