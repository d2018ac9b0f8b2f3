// Package leads holds the materialized side-effect projections of a
// conversation: captured sales leads and escalation events, plus the
// sqlite sink that records them.
package leads

import "time"

// Lead is a read-only projection captured when the model requests lead
// collection and the profile has a contact email.
type Lead struct {
	ID                  string    `json:"id"`
	SessionID           string    `json:"session_id"`
	Name                string    `json:"name,omitempty"`
	Email               string    `json:"email"`
	Phone               string    `json:"phone,omitempty"`
	Company             string    `json:"company,omitempty"`
	Website             string    `json:"website,omitempty"`
	Position            string    `json:"position,omitempty"`
	Note                string    `json:"note,omitempty"`
	ConversationSummary string    `json:"conversation_summary"`
	InterestLevel       string    `json:"interest_level,omitempty"`
	EstimatedValue      string    `json:"estimated_value"`
	CapturedAt          time.Time `json:"captured_at"`
}

// EscalationEvent is raised whenever the model requests a human
// hand-off, whether or not contact info is known.
type EscalationEvent struct {
	ID                  string    `json:"id"`
	SessionID           string    `json:"session_id"`
	Reason              string    `json:"reason"`
	Urgency             string    `json:"urgency"`
	ConversationSummary string    `json:"conversation_summary"`
	ProfileJSON         string    `json:"profile_json"`
	RaisedAt            time.Time `json:"raised_at"`
}
