// Package collab defines the external collaborator contracts the turn
// pipeline consumes: media understanding, turn classification, and
// company intelligence. Production adapters talk to OpenAI-compatible
// endpoints; tests swap in fakes.
package collab

import "context"

// Classification is the per-turn sentiment/engagement/urgency result.
type Classification struct {
	Sentiment  string `json:"sentiment"`  // positive | neutral | negative | frustrated
	Engagement int    `json:"engagement"` // 0-100
	Urgency    string `json:"urgency"`    // low | medium | high
}

// CompanyIntel is the ephemeral enrichment result. Only Industry and
// Size are merged into the profile; BudgetEstimate feeds opportunity
// sizing for the current turn.
type CompanyIntel struct {
	Industry       string `json:"industry"`
	Size           string `json:"size"` // smb | enterprise | fortune500 | unknown
	BudgetEstimate string `json:"budgetEstimate"`
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

type ImageDescriber interface {
	// Describe accepts either a fetchable URL or inline bytes.
	Describe(ctx context.Context, url string, data []byte) (string, error)
}

type DocumentExtractor interface {
	Extract(ctx context.Context, doc []byte) (string, error)
}

type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (Classification, error)
}

type CompanyEnricher interface {
	Analyze(ctx context.Context, name, website string) (CompanyIntel, error)
}

// RoleClassifier maps a job title to a communication style such as
// "technical", "executive", or "conversational".
type RoleClassifier interface {
	ClassifyRole(ctx context.Context, title string) (string, error)
}
