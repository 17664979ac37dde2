// Package gateway exposes interviewd over HTTP (chi) and MCP: the CRUD
// endpoints for users, meetings, and user-meeting associations, the
// question-bank endpoints, and the room/session surface (snapshots,
// recorder, events, export).
package gateway

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/meetkit/interviewd/export"
	"github.com/meetkit/interviewd/internal/store"
	"github.com/meetkit/interviewd/realtime"
	"github.com/meetkit/interviewd/session"
)

// Service wires the store, the room hub, the session registry, and the
// exporter behind the HTTP and MCP surfaces.
type Service struct {
	logger   *slog.Logger
	store    *store.Store
	hub      *realtime.Hub
	sessions *session.Registry
	exporter *export.Exporter

	maxChunkSize int64
}

// NewService creates the gateway service.
func NewService(logger *slog.Logger, st *store.Store, hub *realtime.Hub, sessions *session.Registry, exporter *export.Exporter, maxChunkSize int64) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if maxChunkSize <= 0 {
		maxChunkSize = 10 << 20
	}
	return &Service{
		logger:       logger,
		store:        st,
		hub:          hub,
		sessions:     sessions,
		exporter:     exporter,
		maxChunkSize: maxChunkSize,
	}
}

// RegisterHTTP mounts all endpoints on r.
func (s *Service) RegisterHTTP(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/meetings", s.handleAddMeeting)
		r.Delete("/meetings", s.handleDeleteMeeting)

		r.Post("/users", s.handleAddUser)

		r.Post("/user-meetings", s.handleAddUserMeeting)
		r.Get("/user-meetings", s.handleListUserMeetings)
		r.Delete("/user-meetings", s.handleDeleteUserMeeting)

		r.Get("/interviews", s.handleListQuestions)
		r.Post("/interviews", s.handleAddQuestion)

		r.Route("/rooms", func(r chi.Router) {
			r.Post("/enter", s.handleEnterRoom)
			r.Route("/{roomID}", func(r chi.Router) {
				r.Delete("/", s.handleCloseRoom)
				r.Get("/events", s.handleEvents)

				r.Post("/code", s.handleSetCode)
				r.Post("/question", s.handleSetQuestion)
				r.Post("/notes", s.handleSetNotes)
				r.Put("/whiteboard", s.handleSetWhiteboard)
				r.Post("/interviewee", s.handleSetInterviewee)

				r.Post("/snapshots", s.handleCaptureSnapshot)
				r.Post("/clear", s.handleClearScreen)

				r.Get("/questions", s.handleRoomQuestions)
				r.Post("/questions", s.handleRoomAddQuestion)

				r.Post("/recorder/start", s.handleRecorderStart)
				r.Post("/recorder/stop", s.handleRecorderStop)
				r.Post("/recorder/chunks", s.handleRecorderChunk)

				r.Post("/export", s.handleExport)
			})
		})
	})
}
