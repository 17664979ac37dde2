package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meetkit/interviewd/realtime"
	"github.com/meetkit/interviewd/session"
)

// EnterRoomRequest is the body for POST /api/rooms/enter. RoomID empty
// opens a fresh room; set, it joins that room. Never both.
type EnterRoomRequest struct {
	RoomID      string               `json:"room_id,omitempty"`
	Interviewee *session.Interviewee `json:"interviewee,omitempty"`
}

// EnterRoomResponse describes the room the caller ended up in.
type EnterRoomResponse struct {
	RoomID       string `json:"room_id"`
	Created      bool   `json:"created"`
	Participants int    `json:"participants"`
}

// handleEnterRoom opens or joins a room and attaches a session to it.
// POST /api/rooms/enter → 201 (opened) or 200 (joined); 404 unknown room
func (s *Service) handleEnterRoom(w http.ResponseWriter, r *http.Request) {
	var req EnterRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	room, created, err := s.hub.Enter(req.RoomID)
	if errors.Is(err, realtime.ErrNoSuchRoom) {
		http.Error(w, "No such room", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("enter room failed", "room_id", req.RoomID, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	sess := s.sessions.Create(room.ID)
	if req.Interviewee != nil {
		sess.SetInterviewee(*req.Interviewee)
	}

	w.Header().Set("Content-Type", "application/json")
	if created {
		w.WriteHeader(http.StatusCreated)
	}
	json.NewEncoder(w).Encode(EnterRoomResponse{
		RoomID:       room.ID,
		Created:      created,
		Participants: room.Participants(),
	})
}

// handleCloseRoom tears down the room and its session.
// DELETE /api/rooms/{roomID} → 200; 404 unknown room
func (s *Service) handleCloseRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")
	if err := s.hub.CloseRoom(roomID); err != nil {
		http.Error(w, "No such room", http.StatusNotFound)
		return
	}
	s.sessions.Remove(roomID)
	w.WriteHeader(http.StatusOK)
}

// room resolves the path's roomID to an open room, writing a 404 on a
// miss. Callers return immediately on nil.
func (s *Service) room(w http.ResponseWriter, r *http.Request) *realtime.Room {
	room := s.hub.Room(chi.URLParam(r, "roomID"))
	if room == nil {
		http.Error(w, "No such room", http.StatusNotFound)
	}
	return room
}

// liveSession resolves the path's roomID to its session, writing a 404 on
// a miss.
func (s *Service) liveSession(w http.ResponseWriter, r *http.Request) *session.Session {
	sess := s.sessions.Get(chi.URLParam(r, "roomID"))
	if sess == nil {
		http.Error(w, "No such room", http.StatusNotFound)
	}
	return sess
}

// handleEvents streams the room's event feed as server-sent events until
// the client disconnects or the room closes.
// GET /api/rooms/{roomID}/events
func (s *Service) handleEvents(w http.ResponseWriter, r *http.Request) {
	room := s.room(w, r)
	if room == nil {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events, cancel := room.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				s.logger.Error("event encode failed", "room_id", room.ID, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, payload)
			flusher.Flush()
			if ev.Kind == realtime.EventClosed {
				return
			}
		}
	}
}

// SetCodeRequest is the body for POST /api/rooms/{roomID}/code.
type SetCodeRequest struct {
	Author string `json:"author,omitempty"`
	Text   string `json:"text"`
}

// handleSetCode applies a shared code pad update (last writer wins) and
// fans it out to subscribers.
func (s *Service) handleSetCode(w http.ResponseWriter, r *http.Request) {
	room := s.room(w, r)
	if room == nil {
		return
	}
	var req SetCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	room.SetCode(req.Author, req.Text)
	w.WriteHeader(http.StatusOK)
}

// TextRequest carries one plain-text field for the question and notes
// endpoints.
type TextRequest struct {
	Text string `json:"text"`
}

// handleSetQuestion updates the session's live prompt.
func (s *Service) handleSetQuestion(w http.ResponseWriter, r *http.Request) {
	sess := s.liveSession(w, r)
	if sess == nil {
		return
	}
	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	sess.SetQuestion(req.Text)
	w.WriteHeader(http.StatusOK)
}

// handleSetNotes updates the session's live notes.
func (s *Service) handleSetNotes(w http.ResponseWriter, r *http.Request) {
	sess := s.liveSession(w, r)
	if sess == nil {
		return
	}
	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	sess.SetNotes(req.Text)
	w.WriteHeader(http.StatusOK)
}

// handleSetInterviewee records interviewee metadata for the upload path.
func (s *Service) handleSetInterviewee(w http.ResponseWriter, r *http.Request) {
	sess := s.liveSession(w, r)
	if sess == nil {
		return
	}
	var req session.Interviewee
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	sess.SetInterviewee(req)
	w.WriteHeader(http.StatusOK)
}

// handleSetWhiteboard replaces the whiteboard image with the raw PNG body.
// PUT /api/rooms/{roomID}/whiteboard
func (s *Service) handleSetWhiteboard(w http.ResponseWriter, r *http.Request) {
	sess := s.liveSession(w, r)
	if sess == nil {
		return
	}
	png, err := io.ReadAll(io.LimitReader(r.Body, s.maxChunkSize))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	sess.SetWhiteboard(png)
	w.WriteHeader(http.StatusOK)
}

// handleCaptureSnapshot freezes the live screen plus the shared code pad
// into a new snapshot and notifies subscribers.
// POST /api/rooms/{roomID}/snapshots → 201 + snapshot
func (s *Service) handleCaptureSnapshot(w http.ResponseWriter, r *http.Request) {
	room := s.room(w, r)
	if room == nil {
		return
	}
	sess := s.liveSession(w, r)
	if sess == nil {
		return
	}

	snap := sess.CaptureCurrent(room.Code())
	room.Broadcast(realtime.Event{Kind: realtime.EventSnapshot, RoomID: room.ID, Data: snap.ID})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(snap)
}

// handleClearScreen blanks the live screen. Stored snapshots are untouched.
// POST /api/rooms/{roomID}/clear
func (s *Service) handleClearScreen(w http.ResponseWriter, r *http.Request) {
	room := s.room(w, r)
	if room == nil {
		return
	}
	sess := s.liveSession(w, r)
	if sess == nil {
		return
	}
	sess.ClearScreen()
	room.Broadcast(realtime.Event{Kind: realtime.EventCleared, RoomID: room.ID})
	w.WriteHeader(http.StatusOK)
}

// handleRoomQuestions refreshes and returns the session's question cache.
// GET /api/rooms/{roomID}/questions?meeting_id= → 200 + rows
func (s *Service) handleRoomQuestions(w http.ResponseWriter, r *http.Request) {
	sess := s.liveSession(w, r)
	if sess == nil {
		return
	}
	meetingID, err := strconv.ParseInt(r.URL.Query().Get("meeting_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid meeting_id", http.StatusBadRequest)
		return
	}

	qs, err := sess.Questions.Fetch(r.Context(), meetingID)
	if err != nil {
		s.logger.Error("fetch questions failed", "room_id", sess.RoomID, "meeting_id", meetingID, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(qs)
}

// RoomAddQuestionRequest is the body for POST /api/rooms/{roomID}/questions.
type RoomAddQuestionRequest struct {
	MeetingID int64  `json:"meeting_id"`
	Question  string `json:"question"`
}

// handleRoomAddQuestion persists a new question through the session's
// cache. Blank text is rejected before any write.
func (s *Service) handleRoomAddQuestion(w http.ResponseWriter, r *http.Request) {
	sess := s.liveSession(w, r)
	if sess == nil {
		return
	}
	var req RoomAddQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.MeetingID <= 0 {
		http.Error(w, "meeting_id required", http.StatusBadRequest)
		return
	}

	q, err := sess.Questions.Add(r.Context(), req.MeetingID, req.Question)
	if errors.Is(err, session.ErrEmptyQuestion) {
		http.Error(w, "question text is empty", http.StatusBadRequest)
		return
	}
	if err != nil {
		s.logger.Error("add question failed", "room_id", sess.RoomID, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(q)
}

// handleRecorderStart begins a media capture.
// POST /api/rooms/{roomID}/recorder/start → 200; 409 if already recording
func (s *Service) handleRecorderStart(w http.ResponseWriter, r *http.Request) {
	sess := s.liveSession(w, r)
	if sess == nil {
		return
	}
	if err := sess.Recorder().Start(); err != nil {
		http.Error(w, "Recording already started", http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// handleRecorderStop ends a media capture.
// POST /api/rooms/{roomID}/recorder/stop → 200; 409 if not recording
func (s *Service) handleRecorderStop(w http.ResponseWriter, r *http.Request) {
	sess := s.liveSession(w, r)
	if sess == nil {
		return
	}
	if err := sess.Recorder().Stop(); err != nil {
		http.Error(w, "Not recording", http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// handleRecorderChunk buffers one media chunk from the client stream.
// POST /api/rooms/{roomID}/recorder/chunks → 200; 409 if not recording
func (s *Service) handleRecorderChunk(w http.ResponseWriter, r *http.Request) {
	sess := s.liveSession(w, r)
	if sess == nil {
		return
	}
	chunk, err := io.ReadAll(io.LimitReader(r.Body, s.maxChunkSize))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := sess.Recorder().AppendChunk(chunk); err != nil {
		http.Error(w, "Not recording", http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusOK)
}
