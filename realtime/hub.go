// Package realtime provides the room lobby and the live session channel:
// named rooms, a last-writer collaborative code pad, and event fanout to
// subscribed clients (served over SSE by the gateway).
package realtime

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/meetkit/interviewd/idgen"
)

var (
	// ErrRoomExists is returned by OpenRoom for an already-open room id.
	ErrRoomExists = errors.New("realtime: room already open")

	// ErrNoSuchRoom is returned when joining or addressing an unknown room.
	ErrNoSuchRoom = errors.New("realtime: no such room")
)

// Hub manages all open rooms.
type Hub struct {
	logger    *slog.Logger
	newRoomID idgen.Generator

	mu    sync.Mutex
	rooms map[string]*Room
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:    logger,
		newRoomID: idgen.NanoID(10),
		rooms:     make(map[string]*Room),
	}
}

// OpenRoom creates a named room. Fails if the id is already open.
func (h *Hub) OpenRoom(id string) (*Room, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[id]; ok {
		return nil, ErrRoomExists
	}
	r := newRoom(id)
	h.rooms[id] = r
	h.logger.Info("room opened", "room_id", id)
	return r, nil
}

// JoinRoom attaches a participant to an existing room.
func (h *Hub) JoinRoom(id string) (*Room, error) {
	h.mu.Lock()
	r, ok := h.rooms[id]
	h.mu.Unlock()
	if !ok {
		return nil, ErrNoSuchRoom
	}
	r.addParticipant()
	h.logger.Info("room joined", "room_id", id, "participants", r.Participants())
	return r, nil
}

// Enter is the mutually-exclusive entry point: an explicit id joins that
// room, an empty id opens a fresh room with a generated identifier. Never
// both. Returns the room and whether it was newly opened.
func (h *Hub) Enter(id string) (*Room, bool, error) {
	if id != "" {
		r, err := h.JoinRoom(id)
		return r, false, err
	}
	r, err := h.OpenRoom(h.newRoomID())
	if err != nil {
		return nil, false, err
	}
	return r, true, nil
}

// Room returns the open room with the given id, or nil.
func (h *Hub) Room(id string) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rooms[id]
}

// CloseRoom tears a room down, notifying and closing all subscribers.
func (h *Hub) CloseRoom(id string) error {
	h.mu.Lock()
	r, ok := h.rooms[id]
	if ok {
		delete(h.rooms, id)
	}
	h.mu.Unlock()
	if !ok {
		return ErrNoSuchRoom
	}
	r.close()
	h.logger.Info("room closed", "room_id", id)
	return nil
}

// Len returns the number of open rooms.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms)
}
