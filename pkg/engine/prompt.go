package engine

import (
	"fmt"
	"strings"

	"github.com/dotsetgreg/leadpilot/pkg/collab"
	"github.com/dotsetgreg/leadpilot/pkg/profile"
)

const transcriptWindow = 4

const basePersona = `You are Lumen, the sales assistant for a commercial lighting company.
You help visitors scope projects, answer product questions, and qualify opportunities.
Be concise, concrete, and helpful. Never invent prices; offer to prepare a quote instead.

You can trigger actions by embedding these markers anywhere in your reply
(they are stripped before the visitor sees the message):
- [COLLECT_LEAD: short note] when the visitor is ready to be contacted by sales.
- [ESCALATE: reason] when a human needs to take over now.
- [ANALYZE_COMPANY: name, website] when you learn where the visitor works.
- [VOICE_RESPONSE] when the visitor sent a voice message and would appreciate one back.`

// BuildPrompt assembles the per-turn system instruction from the
// profile, the most recent company intelligence, and a compact
// transcript of the last turns. Pure construction: no profile mutation,
// no I/O.
func BuildPrompt(p *profile.ClientProfile, intel *collab.CompanyIntel) string {
	var sb strings.Builder
	sb.WriteString(basePersona)

	var facts []string
	addFact := func(label, value string) {
		if value != "" {
			facts = append(facts, fmt.Sprintf("- %s: %s", label, value))
		}
	}
	addFact("Name", p.Name)
	addFact("Company", p.Company)
	addFact("Position", p.Position)
	addFact("Industry", p.Industry)
	if p.CompanySize != "" && p.CompanySize != profile.SizeUnknown {
		addFact("Company size", string(p.CompanySize))
	}
	addFact("Communication style", p.CommunicationStyle)
	addFact("Interest level", string(p.InterestLevel))
	addFact("Typical message length", string(p.MessageLength))

	if len(facts) > 0 {
		sb.WriteString("\n\n## What you know about this visitor\n")
		sb.WriteString(strings.Join(facts, "\n"))
	}

	if intel != nil {
		sb.WriteString("\n\n## Company intelligence\n")
		sb.WriteString(fmt.Sprintf("- Industry: %s\n- Size: %s\n- Budget estimate: %s",
			intel.Industry, intel.Size, intel.BudgetEstimate))
	}

	if recent := p.RecentTurns(transcriptWindow); len(recent) > 0 {
		sb.WriteString("\n\n## Recent conversation\n")
		for _, t := range recent {
			sb.WriteString(fmt.Sprintf("%s: %s\n", t.Role, t.Content))
		}
	}

	sb.WriteString("\nAdapt your tone to the visitor's communication style and keep the conversation moving toward a concrete next step.")
	return sb.String()
}
