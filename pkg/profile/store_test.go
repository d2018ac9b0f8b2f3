package profile

import (
	"sync"
	"testing"
	"time"
)

func TestStore_GetCreatesDefaultProfile(t *testing.T) {
	s := NewStore(StoreOptions{})

	p := s.Get("fresh")
	if p.SessionID != "fresh" {
		t.Fatalf("expected session id fresh, got %q", p.SessionID)
	}
	if p.CompanySize != SizeUnknown {
		t.Fatalf("expected company size unknown, got %q", p.CompanySize)
	}
	if len(p.History) != 0 {
		t.Fatalf("expected empty history, got %d turns", len(p.History))
	}
}

func TestStore_UpdateAccumulatesHistory(t *testing.T) {
	s := NewStore(StoreOptions{})

	for i := 0; i < 3; i++ {
		_, err := s.Update("s1", func(p *ClientProfile) error {
			p.AppendTurn(Turn{Role: "user", Content: "hello"})
			return nil
		})
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}
	}

	p := s.Get("s1")
	if len(p.History) != 3 {
		t.Fatalf("expected 3 turns after 3 updates, got %d", len(p.History))
	}
}

func TestStore_UpdateSerializesConcurrentWrites(t *testing.T) {
	s := NewStore(StoreOptions{})
	const writers = 16

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Update("s1", func(p *ClientProfile) error {
				p.AppendTurn(Turn{Role: "user", Content: "concurrent"})
				return nil
			})
		}()
	}
	wg.Wait()

	p := s.Get("s1")
	if len(p.History) != writers {
		t.Fatalf("expected %d turns, got %d (lost update)", writers, len(p.History))
	}
}

func TestStore_SnapshotsAreIsolated(t *testing.T) {
	s := NewStore(StoreOptions{})
	_, _ = s.Update("s1", func(p *ClientProfile) error {
		p.AppendTurn(Turn{Role: "user", Content: "original"})
		return nil
	})

	snap := s.Get("s1")
	snap.History[0].Content = "mutated"
	snap.Name = "mutated"

	again := s.Get("s1")
	if again.History[0].Content != "original" || again.Name != "" {
		t.Fatal("snapshot mutation leaked into the store")
	}
}

func TestStore_EvictsOverCapacity(t *testing.T) {
	s := NewStore(StoreOptions{MaxSessions: 2, TTL: time.Hour})

	s.Upsert("a", NewClientProfile("a"))
	s.Upsert("b", NewClientProfile("b"))
	s.Upsert("c", NewClientProfile("c"))

	if n := s.Len(); n != 2 {
		t.Fatalf("expected 2 live sessions, got %d", n)
	}
}

func TestStore_PurgeIdleRemovesStaleSessions(t *testing.T) {
	s := NewStore(StoreOptions{TTL: time.Minute})

	stale := NewClientProfile("stale")
	stale.LastUpdated = time.Now().Add(-2 * time.Minute)
	s.Upsert("stale", stale)
	s.Upsert("live", NewClientProfile("live"))

	if purged := s.PurgeIdle(); purged != 1 {
		t.Fatalf("expected 1 purged, got %d", purged)
	}
	if n := s.Len(); n != 1 {
		t.Fatalf("expected 1 live session, got %d", n)
	}
}

func TestAppendTurn_TimestampsNonDecreasing(t *testing.T) {
	p := NewClientProfile("s1")
	now := time.Now()

	p.AppendTurn(Turn{Role: "user", Content: "first", Timestamp: now})
	p.AppendTurn(Turn{Role: "user", Content: "second", Timestamp: now.Add(-time.Hour)})

	if p.History[1].Timestamp.Before(p.History[0].Timestamp) {
		t.Fatal("expected backward timestamp to be clamped")
	}
}

func TestMergeIdentity_NeverOverwrites(t *testing.T) {
	p := NewClientProfile("s1")
	p.MergeIdentity("Dana", "dana@acme.com", "", "", "", "")
	p.MergeIdentity("Other", "other@acme.com", "555-0100", "Acme", "", "")

	if p.Name != "Dana" || p.Email != "dana@acme.com" {
		t.Fatalf("identity overwritten: %q %q", p.Name, p.Email)
	}
	if p.Phone != "555-0100" || p.Company != "Acme" {
		t.Fatalf("empty fields not filled: %q %q", p.Phone, p.Company)
	}
}

func TestRecentUserTurns_ChronologicalOrder(t *testing.T) {
	p := NewClientProfile("s1")
	p.AppendTurn(Turn{Role: "user", Content: "one"})
	p.AppendTurn(Turn{Role: "assistant", Content: "reply"})
	p.AppendTurn(Turn{Role: "user", Content: "two"})
	p.AppendTurn(Turn{Role: "user", Content: "three"})

	got := p.RecentUserTurns(2)
	if len(got) != 2 || got[0].Content != "two" || got[1].Content != "three" {
		t.Fatalf("unexpected recent user turns: %+v", got)
	}
}
