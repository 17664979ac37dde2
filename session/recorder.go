package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Recorder state machine: idle → recording → stopped.
type recorderState int

const (
	recorderIdle recorderState = iota
	recorderRecording
	recorderStopped
)

var (
	// ErrAlreadyRecording is returned by Start while a capture is running.
	ErrAlreadyRecording = errors.New("session: recording already started")

	// ErrNotRecording is returned by Stop/AppendChunk outside the recording state.
	ErrNotRecording = errors.New("session: not recording")

	// ErrStillRecording is returned by Save (and checked by the exporter)
	// while a capture is still running.
	ErrStillRecording = errors.New("session: recording still in progress")
)

// Recorder tracks one session's media capture. The client streams capture
// chunks up; the server only buffers them, it never transcodes.
type Recorder struct {
	mu     sync.Mutex
	state  recorderState
	chunks [][]byte
}

// NewRecorder returns an idle recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Start transitions idle→recording and resets the chunk buffer.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == recorderRecording {
		return ErrAlreadyRecording
	}
	r.state = recorderRecording
	r.chunks = nil
	return nil
}

// Stop transitions recording→stopped.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != recorderRecording {
		return ErrNotRecording
	}
	r.state = recorderStopped
	return nil
}

// AppendChunk buffers one media chunk. Only valid while recording.
func (r *Recorder) AppendChunk(b []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != recorderRecording {
		return ErrNotRecording
	}
	chunk := make([]byte, len(b))
	copy(chunk, b)
	r.chunks = append(r.chunks, chunk)
	return nil
}

// IsRecordingStarted reports whether a capture is currently running.
// Pure query, no side effects.
func (r *Recorder) IsRecordingStarted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == recorderRecording
}

// HasMedia reports whether any chunks were buffered.
func (r *Recorder) HasMedia() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.chunks) > 0
}

// Media returns the buffered capture as one byte slice.
func (r *Recorder) Media() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []byte
	for _, c := range r.chunks {
		out = append(out, c...)
	}
	return out
}

// Save writes the buffered capture to dir/name. Only meaningful after Stop:
// it returns ErrStillRecording while recording so a capture is never
// silently truncated.
func (r *Recorder) Save(dir, name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == recorderRecording {
		return "", ErrStillRecording
	}
	if len(r.chunks) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("recorder save: mkdir: %w", err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("recorder save: %w", err)
	}
	defer f.Close()
	for _, c := range r.chunks {
		if _, err := f.Write(c); err != nil {
			return "", fmt.Errorf("recorder save: write: %w", err)
		}
	}
	return path, nil
}
