package profile

import (
	"time"
)

// CompanySize buckets a company by headcount/revenue class.
type CompanySize string

const (
	SizeSMB        CompanySize = "smb"
	SizeEnterprise CompanySize = "enterprise"
	SizeFortune500 CompanySize = "fortune500"
	SizeUnknown    CompanySize = "unknown"
)

// MessageLength buckets the average message length across a conversation.
type MessageLength string

const (
	LengthShort  MessageLength = "short"
	LengthMedium MessageLength = "medium"
	LengthLong   MessageLength = "long"
)

// InterestLevel buckets the average engagement score across a conversation.
type InterestLevel string

const (
	InterestLow    InterestLevel = "low"
	InterestMedium InterestLevel = "medium"
	InterestHigh   InterestLevel = "high"
)

// Turn is one role-tagged message in a session, after multi-modal
// normalization. Engagement is 0-100; HasEngagement distinguishes a
// genuine zero from an unscored turn.
type Turn struct {
	Role          string    `json:"role"` // "user" or "assistant"
	Content       string    `json:"content"`
	Timestamp     time.Time `json:"timestamp"`
	Sentiment     string    `json:"sentiment,omitempty"`
	Engagement    int       `json:"engagement,omitempty"`
	HasEngagement bool      `json:"has_engagement,omitempty"`
}

// ClientProfile is the accumulated state for one session. Identity
// fields fill opportunistically from request metadata; derived fields
// come from enrichment and behavioral aggregation.
type ClientProfile struct {
	SessionID string `json:"session_id"`

	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Company  string `json:"company,omitempty"`
	Website  string `json:"website,omitempty"`
	Position string `json:"position,omitempty"`

	Industry           string        `json:"industry,omitempty"`
	CompanySize        CompanySize   `json:"company_size,omitempty"`
	CommunicationStyle string        `json:"communication_style,omitempty"`
	MessageLength      MessageLength `json:"message_length,omitempty"`
	InterestLevel      InterestLevel `json:"interest_level,omitempty"`

	History     []Turn    `json:"history"`
	LastUpdated time.Time `json:"last_updated"`
}

// NewClientProfile returns the default profile created on the first
// turn of a never-seen session.
func NewClientProfile(sessionID string) *ClientProfile {
	return &ClientProfile{
		SessionID:   sessionID,
		CompanySize: SizeUnknown,
		History:     []Turn{},
		LastUpdated: time.Now(),
	}
}

// AppendTurn appends to the conversation history. History is
// append-only and timestamps are non-decreasing: a clock step backward
// is clamped to the previous turn's timestamp.
func (p *ClientProfile) AppendTurn(t Turn) {
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}
	if n := len(p.History); n > 0 && t.Timestamp.Before(p.History[n-1].Timestamp) {
		t.Timestamp = p.History[n-1].Timestamp
	}
	p.History = append(p.History, t)
	p.LastUpdated = time.Now()
}

// MergeIdentity fills empty identity fields from user-supplied info.
// Existing values are never overwritten.
func (p *ClientProfile) MergeIdentity(name, email, phone, company, website, position string) {
	set := func(dst *string, v string) {
		if *dst == "" && v != "" {
			*dst = v
			p.LastUpdated = time.Now()
		}
	}
	set(&p.Name, name)
	set(&p.Email, email)
	set(&p.Phone, phone)
	set(&p.Company, company)
	set(&p.Website, website)
	set(&p.Position, position)
}

// Clone returns a deep copy safe to hand outside the store's key lock.
func (p *ClientProfile) Clone() *ClientProfile {
	cp := *p
	cp.History = make([]Turn, len(p.History))
	copy(cp.History, p.History)
	return &cp
}

// RecentTurns returns the last n turns, newest last.
func (p *ClientProfile) RecentTurns(n int) []Turn {
	if n <= 0 || len(p.History) == 0 {
		return nil
	}
	if len(p.History) <= n {
		out := make([]Turn, len(p.History))
		copy(out, p.History)
		return out
	}
	out := make([]Turn, n)
	copy(out, p.History[len(p.History)-n:])
	return out
}

// RecentUserTurns returns the last n user-role turns, oldest first.
func (p *ClientProfile) RecentUserTurns(n int) []Turn {
	if n <= 0 {
		return nil
	}
	var out []Turn
	for i := len(p.History) - 1; i >= 0 && len(out) < n; i-- {
		if p.History[i].Role == "user" {
			out = append(out, p.History[i])
		}
	}
	// reverse back to chronological order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
