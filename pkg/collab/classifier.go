package collab

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dotsetgreg/leadpilot/pkg/providers"
)

const classifySystemPrompt = `You score one chat message from a prospective customer.
Respond with ONLY a JSON object, no prose, no code fences:
{"sentiment":"positive|neutral|negative|frustrated","engagement":<integer 0-100>,"urgency":"low|medium|high"}
Engagement reflects how invested the sender is in continuing the conversation.`

// LLMClassifier scores turns for sentiment, engagement, and urgency
// with a single strict-JSON model call.
type LLMClassifier struct {
	provider providers.LLMProvider
	model    string
}

func NewLLMClassifier(provider providers.LLMProvider, model string) *LLMClassifier {
	return &LLMClassifier{provider: provider, model: model}
}

func (c *LLMClassifier) Classify(ctx context.Context, text string) (Classification, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Classification{Sentiment: "neutral", Engagement: 50, Urgency: "low"}, nil
	}

	resp, err := c.provider.Chat(ctx, []providers.Message{
		providers.TextMessage("system", classifySystemPrompt),
		providers.TextMessage("user", text),
	}, c.model, map[string]interface{}{
		"max_tokens":  120,
		"temperature": 0.0,
	})
	if err != nil {
		return Classification{}, fmt.Errorf("classify turn: %w", err)
	}

	var result Classification
	if err := json.Unmarshal([]byte(stripJSONFences(resp.Content)), &result); err != nil {
		return Classification{}, fmt.Errorf("parse classification %q: %w", resp.Content, err)
	}
	if result.Engagement < 0 {
		result.Engagement = 0
	}
	if result.Engagement > 100 {
		result.Engagement = 100
	}
	if result.Sentiment == "" {
		result.Sentiment = "neutral"
	}
	if result.Urgency == "" {
		result.Urgency = "low"
	}
	return result, nil
}

// stripJSONFences tolerates models that wrap JSON in markdown fences.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	if start := strings.Index(s, "{"); start > 0 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}
	return strings.TrimSpace(s)
}
