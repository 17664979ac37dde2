package realtime

import (
	"errors"
	"testing"
)

func TestOpenJoinClose(t *testing.T) {
	h := NewHub(nil)

	r, err := h.OpenRoom("room-a")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if r.Participants() != 1 {
		t.Fatalf("participants after open: got %d", r.Participants())
	}

	if _, err := h.OpenRoom("room-a"); !errors.Is(err, ErrRoomExists) {
		t.Fatalf("double open: got %v, want ErrRoomExists", err)
	}

	r2, err := h.JoinRoom("room-a")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if r2 != r {
		t.Fatal("join must return the same room")
	}
	if r.Participants() != 2 {
		t.Fatalf("participants after join: got %d", r.Participants())
	}

	if _, err := h.JoinRoom("missing"); !errors.Is(err, ErrNoSuchRoom) {
		t.Fatalf("join missing: got %v, want ErrNoSuchRoom", err)
	}

	if err := h.CloseRoom("room-a"); err != nil {
		t.Fatalf("close: %v", err)
	}
	if h.Room("room-a") != nil {
		t.Fatal("room must be gone after close")
	}
	if err := h.CloseRoom("room-a"); !errors.Is(err, ErrNoSuchRoom) {
		t.Fatalf("double close: got %v, want ErrNoSuchRoom", err)
	}
}

func TestEnterSelectsOpenOrJoin(t *testing.T) {
	h := NewHub(nil)

	// Empty id opens a fresh room with a generated identifier.
	r1, created, err := h.Enter("")
	if err != nil {
		t.Fatalf("enter blank: %v", err)
	}
	if !created {
		t.Fatal("blank enter must open, not join")
	}
	if r1.ID == "" {
		t.Fatal("generated room id is empty")
	}

	// Explicit id joins, never opens.
	r2, created, err := h.Enter(r1.ID)
	if err != nil {
		t.Fatalf("enter existing: %v", err)
	}
	if created || r2 != r1 {
		t.Fatal("explicit enter must join the existing room")
	}

	if _, _, err := h.Enter("never-opened"); !errors.Is(err, ErrNoSuchRoom) {
		t.Fatalf("enter unknown id: got %v, want ErrNoSuchRoom", err)
	}
}

func TestCodePadLastWriterWins(t *testing.T) {
	h := NewHub(nil)
	r, _ := h.OpenRoom("room-a")

	ch, cancel := r.Subscribe()
	defer cancel()

	r.SetCode("alice", "x := 1")
	r.SetCode("bob", "x := 2")

	if got := r.Code(); got != "x := 2" {
		t.Fatalf("code: got %q, want last write", got)
	}

	ev := <-ch
	if ev.Kind != EventCode || ev.Author != "alice" {
		t.Fatalf("first event: got %+v", ev)
	}
	ev = <-ch
	if ev.Author != "bob" || ev.Data != "x := 2" {
		t.Fatalf("second event: got %+v", ev)
	}
}

func TestSubscribeCancelStopsDelivery(t *testing.T) {
	h := NewHub(nil)
	r, _ := h.OpenRoom("room-a")

	ch, cancel := r.Subscribe()
	cancel()

	// Channel is closed; broadcast after cancel must not panic.
	r.Broadcast(Event{Kind: EventCode, RoomID: r.ID})
	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel after cancel")
	}
}

func TestCloseRoomNotifiesSubscribers(t *testing.T) {
	h := NewHub(nil)
	r, _ := h.OpenRoom("room-a")

	ch, _ := r.Subscribe()
	if err := h.CloseRoom("room-a"); err != nil {
		t.Fatalf("close: %v", err)
	}

	ev, ok := <-ch
	if !ok || ev.Kind != EventClosed {
		t.Fatalf("close event: got %+v ok=%v", ev, ok)
	}
	if _, ok := <-ch; ok {
		t.Fatal("channel must be closed after the final event")
	}
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub(nil)
	r, _ := h.OpenRoom("room-a")

	_, cancel := r.Subscribe()
	defer cancel()

	// Overflow the buffer; broadcasts must not block.
	for i := 0; i < subscriberBuffer*3; i++ {
		r.SetCode("alice", "spam")
	}
}
