package providers

import "context"

// Message is one chat-completions message. Content is either a plain
// string or a multi-part array (vision requests).
type Message struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

func TextMessage(role, content string) Message {
	return Message{Role: role, Content: content}
}

// UsageInfo reports token accounting from the provider, when present.
type UsageInfo struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type LLMResponse struct {
	Content      string
	FinishReason string
	Usage        *UsageInfo
}

// LLMProvider is the single completion contract the engine consumes:
// prompt in, text out, one call per turn.
type LLMProvider interface {
	Chat(ctx context.Context, messages []Message, model string, options map[string]interface{}) (*LLMResponse, error)
	GetDefaultModel() string
}
