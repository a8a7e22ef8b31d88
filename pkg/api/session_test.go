package api

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/yourusername/pegengine/pkg/engine"
)

func testBoard(t *testing.T) *engine.Board {
	t.Helper()
	b, ok := engine.LookupBoard("english")
	if !ok {
		t.Fatal("english board missing")
	}
	return b
}

func TestSessionStoreCreateGet(t *testing.T) {
	st := NewSessionStore(time.Minute, 0)

	s, err := st.Create(testBoard(t), "english", false)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if len(s.ID) != 24 {
		t.Errorf("ID %q length = %d, want 24", s.ID, len(s.ID))
	}

	got, err := st.Get(s.ID)
	if err != nil || got != s {
		t.Fatalf("Get(%q) = %v, %v; want the created session", s.ID, got, err)
	}
	if _, err := st.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrSessionNotFound", err)
	}

	other, _ := st.Create(testBoard(t), "english", false)
	if other.ID == s.ID {
		t.Error("two sessions share an ID")
	}
	if st.Len() != 2 {
		t.Errorf("Len = %d, want 2", st.Len())
	}
}

func TestSessionStoreDelete(t *testing.T) {
	st := NewSessionStore(0, 0)
	s, _ := st.Create(testBoard(t), "english", false)

	if !st.Delete(s.ID) {
		t.Error("Delete of a live session returned false")
	}
	if st.Delete(s.ID) {
		t.Error("second Delete returned true")
	}
	if st.Len() != 0 {
		t.Errorf("Len = %d, want 0", st.Len())
	}
}

func TestSessionStoreLimit(t *testing.T) {
	st := NewSessionStore(0, 2)
	for i := 0; i < 2; i++ {
		if _, err := st.Create(testBoard(t), "english", false); err != nil {
			t.Fatalf("Create %d error: %v", i, err)
		}
	}
	if _, err := st.Create(testBoard(t), "english", false); !errors.Is(err, ErrTooManySessions) {
		t.Errorf("Create over limit error = %v, want ErrTooManySessions", err)
	}
}

func TestSessionStoreSweep(t *testing.T) {
	tests := []struct {
		name    string
		ttl     time.Duration
		advance time.Duration
		want    int
	}{
		{"fresh", time.Minute, 0, 0},
		{"expired", time.Minute, 2 * time.Minute, 1},
		{"no ttl", 0, time.Hour, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := NewSessionStore(tt.ttl, 0)
			st.Create(testBoard(t), "english", false)

			if got := st.Sweep(time.Now().Add(tt.advance)); got != tt.want {
				t.Errorf("Sweep = %d, want %d", got, tt.want)
			}
			if st.Len() != 1-tt.want {
				t.Errorf("Len = %d, want %d", st.Len(), 1-tt.want)
			}
		})
	}
}

func TestSessionDoTouches(t *testing.T) {
	st := NewSessionStore(time.Minute, 0)
	s, _ := st.Create(testBoard(t), "english", false)

	// pretend the session went idle, then use it
	s.mu.Lock()
	s.lastUsed = time.Now().Add(-time.Hour)
	s.mu.Unlock()
	s.Do(func(g *engine.Game) {})

	if n := st.Sweep(time.Now()); n != 0 {
		t.Errorf("Sweep removed %d sessions after Do, want 0", n)
	}
}

func TestSessionDoSerialises(t *testing.T) {
	st := NewSessionStore(0, 0)
	s, _ := st.Create(testBoard(t), "english", false)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Do(func(g *engine.Game) {
				g.Select(engine.Pos(3, 1))
				if g.Move(engine.DirDown) {
					g.Undo()
				}
			})
		}()
	}
	wg.Wait()

	s.Do(func(g *engine.Game) {
		if g.RemainingPegCount() != 32 || len(g.Operations()) != 0 {
			t.Errorf("after concurrent move/undo = %d pegs, %d ops; want 32, 0",
				g.RemainingPegCount(), len(g.Operations()))
		}
	})
}
