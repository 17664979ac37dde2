package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/meetkit/interviewd/export"
	"github.com/meetkit/interviewd/session"
)

// ExportRequest is the body for POST /api/rooms/{roomID}/export. Format
// defaults to "pdf"; "html" and "markdown" return a textual rendition
// instead of the document.
type ExportRequest struct {
	Mode   export.Mode `json:"mode"`
	Format string      `json:"format,omitempty"`
}

// handleExport builds the session document and delivers it per the
// requested mode. A running recording aborts with 409 before any page is
// generated.
func (s *Service) handleExport(w http.ResponseWriter, r *http.Request) {
	sess := s.liveSession(w, r)
	if sess == nil {
		return
	}
	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// The still-recording precondition covers every format, not just the
	// PDF path through the exporter.
	if req.Format == "html" || req.Format == "markdown" {
		if sess.Recorder().IsRecordingStarted() {
			s.logger.Warn("export aborted: recording still in progress", "room_id", sess.RoomID)
			http.Error(w, "Recording still in progress", http.StatusConflict)
			return
		}
	}

	switch req.Format {
	case "", "pdf":
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(export.HTMLSummary(sess.RoomID, sess.Snapshots())))
		return
	case "markdown":
		md, err := export.MarkdownSummary(sess.RoomID, sess.Snapshots())
		if err != nil {
			s.logger.Error("markdown summary failed", "room_id", sess.RoomID, "error", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(md))
		return
	default:
		http.Error(w, "Unknown format", http.StatusBadRequest)
		return
	}

	res, err := s.exporter.Export(r.Context(), sess, req.Mode)
	switch {
	case errors.Is(err, session.ErrStillRecording):
		http.Error(w, "Recording still in progress", http.StatusConflict)
		return
	case errors.Is(err, export.ErrMissingInterviewee):
		http.Error(w, "Interviewee name and cloud folder id required", http.StatusBadRequest)
		return
	case errors.Is(err, export.ErrNoUploadSink):
		http.Error(w, "No upload sink configured", http.StatusBadRequest)
		return
	case errors.Is(err, export.ErrUnknownMode):
		http.Error(w, "Unknown mode", http.StatusBadRequest)
		return
	case err != nil:
		s.logger.Error("export failed", "room_id", sess.RoomID, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	// Download mode with content streams the PDF itself; everything else
	// reports the outcome as JSON.
	if req.Mode == export.ModeDownload && res.Filename != "" {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "attachment; filename=\""+res.Filename+"\"")
		w.Write(res.Artifact)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
