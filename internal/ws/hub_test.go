package ws

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/encoding/json"

	"rankr-backend/internal/models"
)

type stubConn struct {
	mu         sync.Mutex
	frames     [][]byte
	closed     bool
	failWrites bool
}

func (s *stubConn) WriteMessage(_ int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites {
		return errors.New("write failed")
	}
	s.frames = append(s.frames, append([]byte(nil), data...))
	return nil
}

func (s *stubConn) SetWriteDeadline(time.Time) error { return nil }

func (s *stubConn) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *stubConn) events(t *testing.T) []models.Event {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Event, 0, len(s.frames))
	for _, frame := range s.frames {
		var event models.Event
		if err := json.Unmarshal(frame, &event); err != nil {
			t.Fatalf("bad frame %s: %v", frame, err)
		}
		out = append(out, event)
	}
	return out
}

func (s *stubConn) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func TestHubMultiTabRefcount(t *testing.T) {
	hub := NewHub()

	tab1 := NewClient(&stubConn{}, "ABC123", "user-1", "alice")
	tab2 := NewClient(&stubConn{}, "ABC123", "user-1", "alice")
	other := NewClient(&stubConn{}, "ABC123", "user-2", "bob")

	if first := hub.Join(tab1); !first {
		t.Error("Join(tab1) = false, want first connection true")
	}
	if first := hub.Join(tab2); first {
		t.Error("Join(tab2) = true, want silent join for second tab")
	}
	if first := hub.Join(other); !first {
		t.Error("Join(other participant) = false, want true")
	}

	if last := hub.Leave(tab1); last {
		t.Error("Leave(tab1) = true, want false while tab2 is open")
	}
	if last := hub.Leave(tab2); !last {
		t.Error("Leave(tab2) = false, want true for last connection")
	}
	if last := hub.Leave(other); !last {
		t.Error("Leave(other) = false, want true")
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()

	connA := &stubConn{}
	connB := &stubConn{}
	connOther := &stubConn{}
	hub.Join(NewClient(connA, "ABC123", "user-1", "alice"))
	hub.Join(NewClient(connB, "ABC123", "user-2", "bob"))
	hub.Join(NewClient(connOther, "ZZZ999", "user-3", "carol"))

	hub.Broadcast("ABC123", models.Event{Type: models.EventVoteStarted})

	for name, conn := range map[string]*stubConn{"A": connA, "B": connB} {
		events := conn.events(t)
		if len(events) != 1 || events[0].Type != models.EventVoteStarted {
			t.Errorf("conn %s events = %+v, want one vote_started", name, events)
		}
	}
	if got := connOther.events(t); len(got) != 0 {
		t.Errorf("other room received %+v", got)
	}

	// Broadcasting into an unknown room is a no-op.
	hub.Broadcast("NOROOM", models.Event{Type: models.EventPollDeleted})
}

func TestHubBroadcastEvictsFailedWriter(t *testing.T) {
	hub := NewHub()

	healthy := &stubConn{}
	broken := &stubConn{failWrites: true}
	hub.Join(NewClient(healthy, "ABC123", "user-1", "alice"))
	hub.Join(NewClient(broken, "ABC123", "user-2", "bob"))

	hub.Broadcast("ABC123", models.Event{Type: models.EventVoteStarted})

	if !broken.isClosed() {
		t.Error("failed writer was not closed")
	}
	if events := healthy.events(t); len(events) != 1 {
		t.Errorf("healthy conn events = %+v, want the broadcast to still arrive", events)
	}
}
