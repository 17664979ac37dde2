package realtime

import "sync"

// Event kinds broadcast on a room's channel.
const (
	EventCode        = "code"        // shared code pad changed
	EventParticipant = "participant" // someone joined
	EventSnapshot    = "snapshot"    // a snapshot was captured
	EventCleared     = "cleared"     // live screen was cleared
	EventClosed      = "closed"      // room torn down
)

// Event is one room notification delivered to subscribers.
type Event struct {
	Kind   string `json:"kind"`
	RoomID string `json:"room_id"`
	Author string `json:"author,omitempty"`
	Data   string `json:"data,omitempty"`
}

// subscriberBuffer is the per-subscriber channel depth. A subscriber that
// falls further behind than this loses events rather than blocking the room.
const subscriberBuffer = 16

// Room is one open interview room: a participant count, a last-writer code
// pad, and a set of event subscribers.
type Room struct {
	ID string

	mu           sync.Mutex
	code         string
	codeAuthor   string
	participants int
	subs         map[int]chan Event
	nextSub      int
	closed       bool
}

func newRoom(id string) *Room {
	return &Room{
		ID:           id,
		participants: 1, // the opener
		subs:         make(map[int]chan Event),
	}
}

func (r *Room) addParticipant() {
	r.mu.Lock()
	r.participants++
	r.mu.Unlock()
	r.Broadcast(Event{Kind: EventParticipant, RoomID: r.ID})
}

// Participants returns the current participant count.
func (r *Room) Participants() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.participants
}

// SetCode applies a pad update: last writer wins, then every subscriber is
// notified. The final value is what the exporter reads at capture time.
func (r *Room) SetCode(author, text string) {
	r.mu.Lock()
	r.code = text
	r.codeAuthor = author
	r.mu.Unlock()
	r.Broadcast(Event{Kind: EventCode, RoomID: r.ID, Author: author, Data: text})
}

// Code returns the pad's current text.
func (r *Room) Code() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.code
}

// Subscribe registers an event channel. The returned cancel func must be
// called when the consumer goes away.
func (r *Room) Subscribe() (<-chan Event, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if r.closed {
		close(ch)
		return ch, func() {}
	}
	id := r.nextSub
	r.nextSub++
	r.subs[id] = ch

	cancel := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if sub, ok := r.subs[id]; ok {
			delete(r.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Broadcast delivers ev to every subscriber. Slow subscribers are skipped,
// never blocked on.
func (r *Room) Broadcast(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	for _, ch := range r.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// close shuts the room down: a final closed event, then all subscriber
// channels are closed.
func (r *Room) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	for id, ch := range r.subs {
		select {
		case ch <- Event{Kind: EventClosed, RoomID: r.ID}:
		default:
		}
		close(ch)
		delete(r.subs, id)
	}
}
