// Package session owns the server-side state of one interview room: the
// live screen (current question, notes, whiteboard), the append-only
// snapshot list, the media recorder, and the cached question bank.
package session

import (
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/meetkit/interviewd/idgen"
)

// sanitizer strips all markup from interviewer-supplied text before it is
// stored or exported.
var sanitizer = bluemonday.StrictPolicy()

// Snapshot is a point-in-time capture of question, notes, shared code, and
// whiteboard image. Immutable once created.
type Snapshot struct {
	ID         string `json:"id"`
	Question   string `json:"question"`
	Notes      string `json:"notes"`
	Code       string `json:"code"`
	Whiteboard []byte `json:"-"` // PNG bytes; omitted from JSON bodies
	CapturedAt int64  `json:"captured_at"`
}

// Interviewee is the session metadata required by the upload export path.
type Interviewee struct {
	Name          string `json:"name"`
	CloudFolderID string `json:"cloud_folder_id"`
}

// Session is the state of one active interview room. It is owned by the
// room for its whole lifetime and destroyed when the room closes.
type Session struct {
	RoomID string

	// Questions is the meeting question cache; set by the Registry when the
	// room opens, nil for sessions constructed directly in tests.
	Questions *QuestionCache

	mu          sync.Mutex
	interviewee Interviewee
	question    string // live prompt shown to both parties
	notes       string
	whiteboard  []byte
	snapshots   []Snapshot

	recorder  *Recorder
	newSnapID idgen.Generator
}

// New creates a session for roomID.
func New(roomID string) *Session {
	return &Session{
		RoomID:    roomID,
		recorder:  NewRecorder(),
		newSnapID: idgen.Prefixed("snap_", idgen.Default),
	}
}

// Recorder returns the session's media recorder.
func (s *Session) Recorder() *Recorder { return s.recorder }

// SetInterviewee records the interviewee metadata used by the upload path.
func (s *Session) SetInterviewee(i Interviewee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interviewee = i
}

// Interviewee returns the stored interviewee metadata.
func (s *Session) Interviewee() Interviewee {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interviewee
}

// SetQuestion updates the live prompt. Markup is stripped.
func (s *Session) SetQuestion(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.question = sanitizer.Sanitize(text)
}

// SetNotes updates the live notes. Markup is stripped.
func (s *Session) SetNotes(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = sanitizer.Sanitize(text)
}

// SetWhiteboard replaces the current whiteboard image (PNG bytes).
func (s *Session) SetWhiteboard(png []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.whiteboard = png
}

// Question returns the live prompt.
func (s *Session) Question() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.question
}

// Notes returns the live notes.
func (s *Session) Notes() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes
}

// Whiteboard returns the current whiteboard image.
func (s *Session) Whiteboard() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.whiteboard
}

// CaptureSnapshot constructs an immutable Snapshot from the given state and
// appends it to the session's ordered list. Missing inputs are captured as
// empty values, never rejected.
func (s *Session) CaptureSnapshot(question, notes, code string, whiteboard []byte) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	wb := make([]byte, len(whiteboard))
	copy(wb, whiteboard)

	snap := Snapshot{
		ID:         s.newSnapID(),
		Question:   question,
		Notes:      notes,
		Code:       code,
		Whiteboard: wb,
		CapturedAt: time.Now().UnixMilli(),
	}
	s.snapshots = append(s.snapshots, snap)
	return snap
}

// CaptureCurrent captures the session's live question/notes/whiteboard plus
// the given shared-code text.
func (s *Session) CaptureCurrent(code string) Snapshot {
	s.mu.Lock()
	q, n, wb := s.question, s.notes, s.whiteboard
	s.mu.Unlock()
	return s.CaptureSnapshot(q, n, code, wb)
}

// ClearScreen resets the live prompt, notes, and whiteboard to blank
// defaults. The stored snapshot list is untouched.
func (s *Session) ClearScreen() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.question = ""
	s.notes = ""
	s.whiteboard = nil
}

// Snapshots returns the ordered snapshot list (a copy; snapshots themselves
// are immutable).
func (s *Session) Snapshots() []Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Snapshot, len(s.snapshots))
	copy(out, s.snapshots)
	return out
}
