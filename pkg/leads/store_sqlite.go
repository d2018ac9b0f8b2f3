package leads

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore is the append-only sink for captured leads and
// escalation events.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates/opens the leads database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create leads db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Single-process sink. One shared connection avoids writer lock
	// contention with SQLite under concurrent goroutines.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &SQLiteStore{db: db}
	if err := store.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) init() error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA synchronous=NORMAL;`,
		`PRAGMA busy_timeout=5000;`,
		`CREATE TABLE IF NOT EXISTS leads (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			company TEXT NOT NULL DEFAULT '',
			website TEXT NOT NULL DEFAULT '',
			position TEXT NOT NULL DEFAULT '',
			note TEXT NOT NULL DEFAULT '',
			conversation_summary TEXT NOT NULL DEFAULT '',
			interest_level TEXT NOT NULL DEFAULT '',
			estimated_value TEXT NOT NULL DEFAULT '',
			captured_at_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS leads_session_idx ON leads(session_id, captured_at_ms DESC);`,
		`CREATE TABLE IF NOT EXISTS escalations (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			reason TEXT NOT NULL,
			urgency TEXT NOT NULL DEFAULT '',
			conversation_summary TEXT NOT NULL DEFAULT '',
			profile_json TEXT NOT NULL DEFAULT '{}',
			raised_at_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS escalations_session_idx ON escalations(session_id, raised_at_ms DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init leads schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) InsertLead(ctx context.Context, lead Lead) (Lead, error) {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.CapturedAt.IsZero() {
		lead.CapturedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO leads (id, session_id, name, email, phone, company, website, position, note,
			conversation_summary, interest_level, estimated_value, captured_at_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lead.ID, lead.SessionID, lead.Name, lead.Email, lead.Phone, lead.Company, lead.Website,
		lead.Position, lead.Note, lead.ConversationSummary, lead.InterestLevel, lead.EstimatedValue,
		lead.CapturedAt.UnixMilli())
	if err != nil {
		return Lead{}, fmt.Errorf("insert lead: %w", err)
	}
	return lead, nil
}

func (s *SQLiteStore) InsertEscalation(ctx context.Context, ev EscalationEvent) (EscalationEvent, error) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.RaisedAt.IsZero() {
		ev.RaisedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO escalations (id, session_id, reason, urgency, conversation_summary, profile_json, raised_at_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.SessionID, ev.Reason, ev.Urgency, ev.ConversationSummary, ev.ProfileJSON,
		ev.RaisedAt.UnixMilli())
	if err != nil {
		return EscalationEvent{}, fmt.Errorf("insert escalation: %w", err)
	}
	return ev, nil
}

func (s *SQLiteStore) ListLeads(ctx context.Context, limit int) ([]Lead, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, name, email, phone, company, website, position, note,
			conversation_summary, interest_level, estimated_value, captured_at_ms
		 FROM leads ORDER BY captured_at_ms DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var out []Lead
	for rows.Next() {
		var lead Lead
		var capturedMS int64
		if err := rows.Scan(&lead.ID, &lead.SessionID, &lead.Name, &lead.Email, &lead.Phone,
			&lead.Company, &lead.Website, &lead.Position, &lead.Note, &lead.ConversationSummary,
			&lead.InterestLevel, &lead.EstimatedValue, &capturedMS); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		lead.CapturedAt = time.UnixMilli(capturedMS)
		out = append(out, lead)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ListEscalations(ctx context.Context, limit int) ([]EscalationEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, reason, urgency, conversation_summary, profile_json, raised_at_ms
		 FROM escalations ORDER BY raised_at_ms DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list escalations: %w", err)
	}
	defer rows.Close()

	var out []EscalationEvent
	for rows.Next() {
		var ev EscalationEvent
		var raisedMS int64
		if err := rows.Scan(&ev.ID, &ev.SessionID, &ev.Reason, &ev.Urgency,
			&ev.ConversationSummary, &ev.ProfileJSON, &raisedMS); err != nil {
			return nil, fmt.Errorf("scan escalation: %w", err)
		}
		ev.RaisedAt = time.UnixMilli(raisedMS)
		out = append(out, ev)
	}
	return out, rows.Err()
}
