package leads

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "leads.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_LeadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saved, err := store.InsertLead(ctx, Lead{
		SessionID:           "s1",
		Name:                "Dana",
		Email:               "dana@acme.com",
		Company:             "Acme",
		ConversationSummary: "warehouse lighting",
		InterestLevel:       "high",
		EstimatedValue:      "$50,000 - $200,000",
	})
	if err != nil {
		t.Fatalf("insert lead: %v", err)
	}
	if saved.ID == "" || saved.CapturedAt.IsZero() {
		t.Fatalf("expected generated id and timestamp, got %+v", saved)
	}

	listed, err := store.ListLeads(ctx, 10)
	if err != nil {
		t.Fatalf("list leads: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 lead, got %d", len(listed))
	}
	got := listed[0]
	if got.Email != "dana@acme.com" || got.ConversationSummary != "warehouse lighting" {
		t.Fatalf("unexpected lead: %+v", got)
	}
}

func TestSQLiteStore_EscalationRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saved, err := store.InsertEscalation(ctx, EscalationEvent{
		SessionID:   "s1",
		Reason:      "angry customer",
		Urgency:     "high",
		ProfileJSON: `{"session_id":"s1"}`,
	})
	if err != nil {
		t.Fatalf("insert escalation: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected generated id")
	}

	listed, err := store.ListEscalations(ctx, 10)
	if err != nil {
		t.Fatalf("list escalations: %v", err)
	}
	if len(listed) != 1 || listed[0].Reason != "angry customer" {
		t.Fatalf("unexpected escalations: %+v", listed)
	}
}

func TestSQLiteStore_ListMultipleLeads(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, email := range []string{"first@a.com", "second@a.com"} {
		if _, err := store.InsertLead(ctx, Lead{SessionID: "s1", Email: email}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	listed, err := store.ListLeads(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 leads, got %d", len(listed))
	}
}
