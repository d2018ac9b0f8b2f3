package collab

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dotsetgreg/leadpilot/pkg/providers"
)

const enrichSystemPrompt = `You are a B2B company research assistant.
Given a company name and website, estimate its profile from general knowledge.
Respond with ONLY a JSON object, no prose, no code fences:
{"industry":"<short industry label>","size":"smb|enterprise|fortune500|unknown","budgetEstimate":"<one-line spend estimate for commercial lighting projects>"}`

const roleSystemPrompt = `You map a job title to the communication style a salesperson should use.
Respond with ONLY a JSON object, no prose, no code fences:
{"communicationStyle":"technical|executive|conversational"}`

// LLMEnricher resolves company intelligence and role-derived
// communication style through strict-JSON model calls.
type LLMEnricher struct {
	provider providers.LLMProvider
	model    string
}

func NewLLMEnricher(provider providers.LLMProvider, model string) *LLMEnricher {
	return &LLMEnricher{provider: provider, model: model}
}

func (e *LLMEnricher) Analyze(ctx context.Context, name, website string) (CompanyIntel, error) {
	name = strings.TrimSpace(name)
	website = strings.TrimSpace(website)
	if name == "" {
		return CompanyIntel{}, fmt.Errorf("company name is required")
	}

	resp, err := e.provider.Chat(ctx, []providers.Message{
		providers.TextMessage("system", enrichSystemPrompt),
		providers.TextMessage("user", fmt.Sprintf("Company: %s\nWebsite: %s", name, website)),
	}, e.model, map[string]interface{}{
		"max_tokens":  200,
		"temperature": 0.2,
	})
	if err != nil {
		return CompanyIntel{}, fmt.Errorf("analyze company %q: %w", name, err)
	}

	var intel CompanyIntel
	if err := json.Unmarshal([]byte(stripJSONFences(resp.Content)), &intel); err != nil {
		return CompanyIntel{}, fmt.Errorf("parse company intel %q: %w", resp.Content, err)
	}
	switch intel.Size {
	case "smb", "enterprise", "fortune500":
	default:
		intel.Size = "unknown"
	}
	return intel, nil
}

func (e *LLMEnricher) ClassifyRole(ctx context.Context, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("job title is required")
	}

	resp, err := e.provider.Chat(ctx, []providers.Message{
		providers.TextMessage("system", roleSystemPrompt),
		providers.TextMessage("user", title),
	}, e.model, map[string]interface{}{
		"max_tokens":  60,
		"temperature": 0.0,
	})
	if err != nil {
		return "", fmt.Errorf("classify role %q: %w", title, err)
	}

	var result struct {
		CommunicationStyle string `json:"communicationStyle"`
	}
	if err := json.Unmarshal([]byte(stripJSONFences(resp.Content)), &result); err != nil {
		return "", fmt.Errorf("parse role classification %q: %w", resp.Content, err)
	}
	if result.CommunicationStyle == "" {
		return "", fmt.Errorf("empty communication style for %q", title)
	}
	return result.CommunicationStyle, nil
}
