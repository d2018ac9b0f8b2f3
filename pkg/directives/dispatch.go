package directives

import (
	"context"
	"encoding/json"

	"github.com/dotsetgreg/leadpilot/pkg/bus"
	"github.com/dotsetgreg/leadpilot/pkg/collab"
	"github.com/dotsetgreg/leadpilot/pkg/leads"
	"github.com/dotsetgreg/leadpilot/pkg/logger"
	"github.com/dotsetgreg/leadpilot/pkg/profile"
	"github.com/dotsetgreg/leadpilot/pkg/voice"
)

// Request carries everything dispatch needs about the current turn.
type Request struct {
	Profile *profile.ClientProfile
	Reply   string // cleaned reply, used as voice synthesis input
	Urgency string // from this turn's classification
	// Intel is set when enrichment already ran earlier in this turn;
	// ANALYZE_COMPANY then emits nothing.
	Intel *collab.CompanyIntel
}

// Outcome is the explicit result of dispatching every directive in a
// reply. Unmet preconditions leave the corresponding field nil.
type Outcome struct {
	Lead            *leads.Lead
	Escalation      *leads.EscalationEvent
	CompanyAnalysis *collab.CompanyIntel
	VoiceAudio      []byte
}

type handler func(ctx context.Context, d Directive, req *Request, out *Outcome)

// Dispatcher maps each directive variant to its side-effect handler.
type Dispatcher struct {
	enricher    collab.CompanyEnricher
	synthesizer voice.Synthesizer
	events      *bus.EventBus
	handlers    map[string]handler
}

func NewDispatcher(enricher collab.CompanyEnricher, synthesizer voice.Synthesizer, events *bus.EventBus) *Dispatcher {
	d := &Dispatcher{
		enricher:    enricher,
		synthesizer: synthesizer,
		events:      events,
	}
	d.handlers = map[string]handler{
		CollectLead{}.Kind():    d.handleCollectLead,
		Escalate{}.Kind():       d.handleEscalate,
		AnalyzeCompany{}.Kind(): d.handleAnalyzeCompany,
		VoiceResponse{}.Kind():  d.handleVoiceResponse,
	}
	return d
}

// Dispatch runs every parsed directive through its handler and returns
// the combined outcome. Handlers never fail the turn: collaborator
// errors are logged and leave their field unset.
func (d *Dispatcher) Dispatch(ctx context.Context, parsed []Directive, req *Request) *Outcome {
	out := &Outcome{}
	for _, dir := range parsed {
		h, ok := d.handlers[dir.Kind()]
		if !ok {
			continue
		}
		h(ctx, dir, req, out)
	}
	return out
}

func (d *Dispatcher) handleCollectLead(_ context.Context, dir Directive, req *Request, out *Outcome) {
	cl, ok := dir.(CollectLead)
	if !ok {
		return
	}
	// Precondition: no contact email, no lead. The marker is already
	// stripped; the drop is silent apart from this log line.
	if req.Profile.Email == "" {
		logger.InfoCF("directives", "Lead capture skipped, no email on profile", map[string]interface{}{
			"session_id": req.Profile.SessionID,
		})
		return
	}

	lead := &leads.Lead{
		SessionID:           req.Profile.SessionID,
		Name:                req.Profile.Name,
		Email:               req.Profile.Email,
		Phone:               req.Profile.Phone,
		Company:             req.Profile.Company,
		Website:             req.Profile.Website,
		Position:            req.Profile.Position,
		Note:                cl.Note,
		ConversationSummary: Summarize(req.Profile),
		InterestLevel:       string(req.Profile.InterestLevel),
		EstimatedValue:      EstimateValue(req.Profile),
	}
	out.Lead = lead

	if d.events != nil {
		d.events.Publish(bus.Event{
			Kind:      bus.EventLeadCaptured,
			SessionID: req.Profile.SessionID,
			Lead:      lead,
		})
	}
}

func (d *Dispatcher) handleEscalate(_ context.Context, dir Directive, req *Request, out *Outcome) {
	esc, ok := dir.(Escalate)
	if !ok {
		return
	}

	snapshot, err := json.Marshal(req.Profile)
	if err != nil {
		snapshot = []byte("{}")
	}
	urgency := req.Urgency
	if urgency == "" {
		urgency = "medium"
	}

	event := &leads.EscalationEvent{
		SessionID:           req.Profile.SessionID,
		Reason:              esc.Reason,
		Urgency:             urgency,
		ConversationSummary: Summarize(req.Profile),
		ProfileJSON:         string(snapshot),
	}
	out.Escalation = event

	if d.events != nil {
		d.events.Publish(bus.Event{
			Kind:       bus.EventEscalationRaised,
			SessionID:  req.Profile.SessionID,
			Escalation: event,
		})
	}
}

func (d *Dispatcher) handleAnalyzeCompany(ctx context.Context, dir Directive, req *Request, out *Outcome) {
	ac, ok := dir.(AnalyzeCompany)
	if !ok {
		return
	}
	// Enrichment already ran earlier this turn: precondition unmet,
	// nothing emitted.
	if req.Intel != nil {
		return
	}
	if d.enricher == nil {
		return
	}

	intel, err := d.enricher.Analyze(ctx, ac.Name, ac.Website)
	if err != nil {
		logger.WarnCF("directives", "On-demand company analysis failed", map[string]interface{}{
			"session_id": req.Profile.SessionID,
			"company":    ac.Name,
			"error":      err.Error(),
		})
		return
	}
	out.CompanyAnalysis = &intel
}

func (d *Dispatcher) handleVoiceResponse(ctx context.Context, dir Directive, req *Request, out *Outcome) {
	if _, ok := dir.(VoiceResponse); !ok {
		return
	}
	if d.synthesizer == nil {
		logger.WarnCF("directives", "Voice response requested but no synthesizer configured", map[string]interface{}{
			"session_id": req.Profile.SessionID,
		})
		return
	}

	audio, err := d.synthesizer.Synthesize(ctx, req.Reply)
	if err != nil {
		logger.WarnCF("directives", "Voice synthesis failed", map[string]interface{}{
			"session_id": req.Profile.SessionID,
			"error":      err.Error(),
		})
		return
	}
	out.VoiceAudio = audio
}
