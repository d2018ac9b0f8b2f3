// Package engine runs the per-turn sales pipeline: normalize the
// incoming message, score it, fold it into the session profile, enrich
// with company intelligence, synthesize a personalized instruction,
// invoke the model once, and dispatch any directives embedded in the
// reply.
package engine

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dotsetgreg/leadpilot/pkg/collab"
	"github.com/dotsetgreg/leadpilot/pkg/directives"
	"github.com/dotsetgreg/leadpilot/pkg/logger"
	"github.com/dotsetgreg/leadpilot/pkg/normalize"
	"github.com/dotsetgreg/leadpilot/pkg/profile"
	"github.com/dotsetgreg/leadpilot/pkg/providers"
	"github.com/dotsetgreg/leadpilot/pkg/signals"
)

const modelContextWindow = 8

type Options struct {
	Model        string
	MaxTokens    int
	Temperature  float64
	ModelTimeout time.Duration
	ContactLine  string
}

type Engine struct {
	store      *profile.Store
	normalizer *normalize.Normalizer
	extractor  *signals.Extractor
	enricher   collab.CompanyEnricher
	roles      collab.RoleClassifier
	provider   providers.LLMProvider
	dispatcher *directives.Dispatcher
	opts       Options
}

func New(
	store *profile.Store,
	normalizer *normalize.Normalizer,
	extractor *signals.Extractor,
	enricher collab.CompanyEnricher,
	roles collab.RoleClassifier,
	provider providers.LLMProvider,
	dispatcher *directives.Dispatcher,
	opts Options,
) *Engine {
	if opts.ModelTimeout <= 0 {
		opts.ModelTimeout = 60 * time.Second
	}
	return &Engine{
		store:      store,
		normalizer: normalizer,
		extractor:  extractor,
		enricher:   enricher,
		roles:      roles,
		provider:   provider,
		dispatcher: dispatcher,
		opts:       opts,
	}
}

// ProcessTurn handles one chat turn end to end. On model failure the
// returned response carries the fixed fallback reply and the error
// wraps ErrModelInvocation; every other collaborator failure is
// non-fatal and only narrows the response.
func (e *Engine) ProcessTurn(ctx context.Context, req *TurnRequest) (*TurnResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if e.provider == nil {
		return nil, ErrConfiguration
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	latest := req.Messages[len(req.Messages)-1]
	role := latest.Role
	if role == "" {
		role = "user"
	}

	// Attachments flatten into the turn text; a failing attachment
	// only loses its own block.
	normalized := e.normalizer.Normalize(ctx, latest.Content, latest.Attachments)

	classification, scored := e.extractor.Score(ctx, sessionID, normalized)

	snapshot, err := e.store.Update(sessionID, func(p *profile.ClientProfile) error {
		if ci := req.ClientInfo; ci != nil {
			p.MergeIdentity(ci.Name, ci.Email, ci.Phone, ci.Company, ci.Website, ci.Position)
		}
		extractIdentity(p, normalized)

		turn := profile.Turn{Role: role, Content: normalized}
		if scored {
			turn.Sentiment = classification.Sentiment
			turn.Engagement = classification.Engagement
			turn.HasEngagement = true
		}
		p.AppendTurn(turn)
		signals.Recompute(p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	// Enrichment and role classification run outside the key lock;
	// their results are merged in a second, cheap update.
	intel := e.maybeEnrich(ctx, snapshot)
	style := e.maybeClassifyRole(ctx, snapshot)
	if intel != nil || style != "" {
		snapshot, err = e.store.Update(sessionID, func(p *profile.ClientProfile) error {
			if intel != nil {
				p.Industry = intel.Industry
				p.CompanySize = profile.CompanySize(intel.Size)
			}
			if style != "" {
				p.CommunicationStyle = style
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("merge enrichment: %w", err)
		}
	}

	systemPrompt := BuildPrompt(snapshot, intel)
	rawReply, invokeErr := e.invokeModel(ctx, systemPrompt, snapshot)

	if invokeErr != nil {
		logger.ErrorCF("engine", "Model invocation failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      invokeErr.Error(),
		})
		return &TurnResponse{
			Reply:         e.fallbackReply(),
			SessionID:     sessionID,
			ClientProfile: summarize(snapshot, intel),
		}, fmt.Errorf("%w: %v", ErrModelInvocation, invokeErr)
	}

	parsed, cleanReply := directives.Parse(rawReply)

	outcome := e.dispatcher.Dispatch(ctx, parsed, &directives.Request{
		Profile: snapshot,
		Reply:   cleanReply,
		Urgency: classification.Urgency,
		Intel:   intel,
	})

	resp := &TurnResponse{
		Reply:         cleanReply,
		SessionID:     sessionID,
		ClientProfile: summarize(snapshot, intel),
	}
	applyOutcome(resp, outcome, snapshot)

	logger.InfoCF("engine", "Turn processed", map[string]interface{}{
		"session_id":   sessionID,
		"history_len":  len(snapshot.History),
		"directives":   len(parsed),
		"lead":         resp.LeadCollected,
		"escalate":     resp.Escalate,
	})
	return resp, nil
}

func validate(req *TurnRequest) error {
	if req == nil || len(req.Messages) == 0 {
		return fmt.Errorf("%w: messages are required", ErrValidation)
	}
	latest := req.Messages[len(req.Messages)-1]
	if strings.TrimSpace(latest.Content) == "" && len(latest.Attachments) == 0 {
		return fmt.Errorf("%w: latest message is empty", ErrValidation)
	}
	return nil
}

// maybeEnrich runs company intelligence when company and website are
// both known and the profile has not been enriched yet. Failure is
// non-fatal.
func (e *Engine) maybeEnrich(ctx context.Context, p *profile.ClientProfile) *collab.CompanyIntel {
	if e.enricher == nil || p.Company == "" || p.Website == "" || p.Industry != "" {
		return nil
	}
	intel, err := e.enricher.Analyze(ctx, p.Company, p.Website)
	if err != nil {
		logger.WarnCF("engine", "Company enrichment failed", map[string]interface{}{
			"session_id": p.SessionID,
			"company":    p.Company,
			"error":      err.Error(),
		})
		return nil
	}
	return &intel
}

// maybeClassifyRole derives communication style from the job title.
// Failure silently leaves the field unset.
func (e *Engine) maybeClassifyRole(ctx context.Context, p *profile.ClientProfile) string {
	if e.roles == nil || p.Position == "" || p.CommunicationStyle != "" {
		return ""
	}
	style, err := e.roles.ClassifyRole(ctx, p.Position)
	if err != nil {
		logger.WarnCF("engine", "Role classification failed", map[string]interface{}{
			"session_id": p.SessionID,
			"position":   p.Position,
			"error":      err.Error(),
		})
		return ""
	}
	return style
}

func (e *Engine) invokeModel(ctx context.Context, systemPrompt string, p *profile.ClientProfile) (string, error) {
	messages := []providers.Message{providers.TextMessage("system", systemPrompt)}
	for _, t := range p.RecentTurns(modelContextWindow) {
		messages = append(messages, providers.TextMessage(t.Role, t.Content))
	}

	callCtx, cancel := context.WithTimeout(ctx, e.opts.ModelTimeout)
	defer cancel()

	resp, err := e.provider.Chat(callCtx, messages, e.opts.Model, map[string]interface{}{
		"max_tokens":  e.opts.MaxTokens,
		"temperature": e.opts.Temperature,
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("empty model reply")
	}
	return resp.Content, nil
}

func (e *Engine) fallbackReply() string {
	reply := "I'm sorry, I'm having trouble responding right now. Please try again in a moment."
	if e.opts.ContactLine != "" {
		reply += " " + e.opts.ContactLine
	}
	return reply
}

func summarize(p *profile.ClientProfile, intel *collab.CompanyIntel) ProfileSummary {
	summary := ProfileSummary{
		InterestLevel:      string(p.InterestLevel),
		CommunicationStyle: p.CommunicationStyle,
		Industry:           p.Industry,
	}
	if intel != nil {
		summary.EstimatedBudget = intel.BudgetEstimate
		if summary.Industry == "" {
			summary.Industry = intel.Industry
		}
	}
	return summary
}

func applyOutcome(resp *TurnResponse, outcome *directives.Outcome, p *profile.ClientProfile) {
	if outcome == nil {
		return
	}
	if outcome.Lead != nil {
		resp.LeadCollected = true
		resp.LeadData = &LeadData{
			Name:                outcome.Lead.Name,
			Email:               outcome.Lead.Email,
			Phone:               outcome.Lead.Phone,
			Company:             outcome.Lead.Company,
			Website:             outcome.Lead.Website,
			Position:            outcome.Lead.Position,
			ConversationSummary: outcome.Lead.ConversationSummary,
			InterestLevel:       outcome.Lead.InterestLevel,
			EstimatedValue:      outcome.Lead.EstimatedValue,
		}
	}
	if outcome.Escalation != nil {
		resp.Escalate = true
		resp.EscalateReason = outcome.Escalation.Reason
		resp.EscalateData = &EscalateData{
			ClientProfile: ProfileSummary{
				InterestLevel:      string(p.InterestLevel),
				CommunicationStyle: p.CommunicationStyle,
				Industry:           p.Industry,
			},
			Urgency:             outcome.Escalation.Urgency,
			ConversationSummary: outcome.Escalation.ConversationSummary,
		}
	}
	if outcome.CompanyAnalysis != nil {
		resp.CompanyAnalysis = outcome.CompanyAnalysis
	}
	if len(outcome.VoiceAudio) > 0 {
		resp.VoiceResponse = base64.StdEncoding.EncodeToString(outcome.VoiceAudio)
	}
}
