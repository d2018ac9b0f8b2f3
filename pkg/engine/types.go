package engine

import (
	"github.com/dotsetgreg/leadpilot/pkg/collab"
	"github.com/dotsetgreg/leadpilot/pkg/normalize"
)

// IncomingMessage is one message in the turn request. Only the latest
// message is processed; earlier entries are client-side echo of the
// transcript and are ignored in favor of the server-held history.
type IncomingMessage struct {
	Role        string                 `json:"role"`
	Content     string                 `json:"content"`
	Type        string                 `json:"type,omitempty"` // text | image | voice | document
	Attachments []normalize.Attachment `json:"attachments,omitempty"`
}

type VisitorInfo struct {
	Page      string `json:"page,omitempty"`
	Referrer  string `json:"referrer,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
}

type ClientInfo struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Company  string `json:"company,omitempty"`
	Website  string `json:"website,omitempty"`
	Position string `json:"position,omitempty"`
}

// TurnRequest is one turn-processing call.
type TurnRequest struct {
	Messages    []IncomingMessage `json:"messages"`
	SessionID   string            `json:"sessionId,omitempty"`
	VisitorInfo *VisitorInfo      `json:"visitorInfo,omitempty"`
	ClientInfo  *ClientInfo       `json:"clientInfo,omitempty"`
}

// ProfileSummary is the derived-field digest returned on every turn.
type ProfileSummary struct {
	InterestLevel      string `json:"interestLevel,omitempty"`
	CommunicationStyle string `json:"communicationStyle,omitempty"`
	EstimatedBudget    string `json:"estimatedBudget,omitempty"`
	Industry           string `json:"industry,omitempty"`
}

type LeadData struct {
	Name                string `json:"name,omitempty"`
	Email               string `json:"email"`
	Phone               string `json:"phone,omitempty"`
	Company             string `json:"company,omitempty"`
	Website             string `json:"website,omitempty"`
	Position            string `json:"position,omitempty"`
	ConversationSummary string `json:"conversationSummary"`
	InterestLevel       string `json:"interestLevel,omitempty"`
	EstimatedValue      string `json:"estimatedValue"`
}

type EscalateData struct {
	ClientProfile       ProfileSummary `json:"clientProfile"`
	Urgency             string         `json:"urgency"`
	ConversationSummary string         `json:"conversationSummary"`
}

// TurnResponse is the reply plus any side-effect payloads.
type TurnResponse struct {
	Reply           string               `json:"reply"`
	SessionID       string               `json:"sessionId"`
	ClientProfile   ProfileSummary       `json:"clientProfile"`
	LeadCollected   bool                 `json:"leadCollected,omitempty"`
	LeadData        *LeadData            `json:"leadData,omitempty"`
	Escalate        bool                 `json:"escalate,omitempty"`
	EscalateReason  string               `json:"escalateReason,omitempty"`
	EscalateData    *EscalateData        `json:"escalateData,omitempty"`
	CompanyAnalysis *collab.CompanyIntel `json:"companyAnalysis,omitempty"`
	VoiceResponse   string               `json:"voiceResponse,omitempty"` // base64-encoded audio
}
