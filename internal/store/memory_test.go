package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/robalobadob/connections/apps/go-server/internal/game"
	"github.com/robalobadob/connections/apps/go-server/internal/grid"
	"github.com/robalobadob/connections/apps/go-server/internal/puzzle/puzzletest"
)

func TestMemory_SaveUpdate(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	s := game.New(puzzletest.New(t), game.WithSeed(1))

	if err := m.Save(ctx, s); err != nil {
		t.Fatal(err)
	}
	var got *game.Session
	if err := m.Update(ctx, s.ID, func(g *game.Session) error { got = g; return nil }); err != nil || got != s {
		t.Fatalf("Update saw %p, %v; want %p", got, err, s)
	}
	if m.Len() != 1 {
		t.Fatalf("Len = %d", m.Len())
	}
	if err := m.Update(ctx, "missing", func(*game.Session) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update(missing) err = %v", err)
	}
}

func TestMemory_EvictIdle(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	m := st.(*memory)
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	idle := game.New(puzzletest.New(t), game.WithSeed(1))
	busy := game.New(puzzletest.New(t), game.WithSeed(2))
	_ = st.Save(ctx, idle)
	_ = st.Save(ctx, busy)

	clock = clock.Add(2 * time.Hour)
	if err := st.Update(ctx, busy.ID, func(*game.Session) error { return nil }); err != nil {
		t.Fatal(err)
	}

	if n := st.Evict(clock.Add(-3 * time.Hour)); n != 0 {
		t.Fatalf("evicted %d with an old cutoff", n)
	}
	if n := st.Evict(clock.Add(-time.Hour)); n != 1 || st.Len() != 1 {
		t.Fatalf("evicted %d, len %d; want 1, 1", n, st.Len())
	}
	if err := st.Update(ctx, idle.ID, func(*game.Session) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update(evicted) err = %v", err)
	}
	if err := st.Update(ctx, busy.ID, func(*game.Session) error { return nil }); err != nil {
		t.Fatalf("Update(busy) err = %v", err)
	}
}

func TestSweep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	st := NewMemoryStore()
	_ = st.Save(ctx, game.New(puzzletest.New(t), game.WithSeed(1)))

	done := make(chan struct{})
	go func() {
		Sweep(ctx, st, time.Nanosecond, time.Millisecond)
		close(done)
	}()
	deadline := time.Now().Add(2 * time.Second)
	for st.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("Sweep never evicted the idle session")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Sweep did not stop on cancel")
	}
}

func TestMemory_UpdateSerializes(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	s := game.New(puzzletest.New(t), game.WithSeed(2))
	_ = m.Save(ctx, s)

	// Each worker toggles the same cell twice; interleaving would leave it selected
	// or trip ErrSelectionFull.
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.Update(ctx, s.ID, func(s *game.Session) error {
				counter++
				if err := s.Toggle(grid.Coord{Row: 2, Col: 1}); err != nil {
					return err
				}
				return s.Toggle(grid.Coord{Row: 2, Col: 1})
			})
			if err != nil {
				t.Errorf("Update: %v", err)
			}
		}()
	}
	wg.Wait()

	if counter != 32 {
		t.Fatalf("counter = %d, want 32", counter)
	}
	if s.Phase() != grid.Idle {
		t.Fatalf("phase = %v, want idle", s.Phase())
	}
}

func TestMemory_UpdatePassesErrors(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	s := game.New(puzzletest.New(t), game.WithSeed(3))
	_ = m.Save(ctx, s)

	err := m.Update(ctx, s.ID, func(s *game.Session) error {
		_, err := s.SubmitGuess()
		return err
	})
	if !errors.Is(err, game.ErrIncompleteSelection) {
		t.Fatalf("err = %v, want ErrIncompleteSelection", err)
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	called := false
	err = m.Update(cctx, s.ID, func(*game.Session) error { called = true; return nil })
	if !errors.Is(err, context.Canceled) || called {
		t.Fatalf("cancelled Update: err=%v called=%v", err, called)
	}
}
