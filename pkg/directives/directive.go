// Package directives parses bracket-delimited markers out of model
// replies and dispatches their side effects. Markers are always
// stripped from the user-visible reply, whether or not a directive's
// precondition holds.
package directives

import (
	"regexp"
	"strings"
)

// Directive is one recognized marker, as a tagged variant. Malformed
// markers (an ANALYZE_COMPANY with no company name) are stripped but
// produce no variant.
type Directive interface {
	Kind() string
}

type CollectLead struct {
	Note string
}

func (CollectLead) Kind() string { return "collect_lead" }

type Escalate struct {
	Reason string
}

func (Escalate) Kind() string { return "escalate" }

type AnalyzeCompany struct {
	Name    string
	Website string
}

func (AnalyzeCompany) Kind() string { return "analyze_company" }

type VoiceResponse struct{}

func (VoiceResponse) Kind() string { return "voice_response" }

var (
	collectLeadRe    = regexp.MustCompile(`\[COLLECT_LEAD:\s*([^\]]*)\]`)
	escalateRe       = regexp.MustCompile(`\[ESCALATE:\s*([^\]]*)\]`)
	analyzeCompanyRe = regexp.MustCompile(`\[ANALYZE_COMPANY:\s*([^\]]*)\]`)
	voiceResponseRe  = regexp.MustCompile(`\[VOICE_RESPONSE\]`)

	spaceRunRe    = regexp.MustCompile(`[ \t]{2,}`)
	spaceBeforeNL = regexp.MustCompile(`[ \t]+\n`)
	newlineRunRe  = regexp.MustCompile(`\n{3,}`)
)

// Parse scans a raw model reply for directive markers. It returns the
// recognized directives, in marker order per kind, and the reply with
// every recognized marker removed and whitespace tidied.
func Parse(raw string) ([]Directive, string) {
	var found []Directive
	clean := raw

	for _, m := range collectLeadRe.FindAllStringSubmatch(raw, -1) {
		found = append(found, CollectLead{Note: strings.TrimSpace(m[1])})
	}
	clean = collectLeadRe.ReplaceAllString(clean, "")

	for _, m := range escalateRe.FindAllStringSubmatch(raw, -1) {
		found = append(found, Escalate{Reason: strings.TrimSpace(m[1])})
	}
	clean = escalateRe.ReplaceAllString(clean, "")

	for _, m := range analyzeCompanyRe.FindAllStringSubmatch(raw, -1) {
		name, website := splitCompanyArgs(m[1])
		if name == "" {
			continue // malformed marker: stripped, no directive
		}
		found = append(found, AnalyzeCompany{Name: name, Website: website})
	}
	clean = analyzeCompanyRe.ReplaceAllString(clean, "")

	if voiceResponseRe.MatchString(raw) {
		found = append(found, VoiceResponse{})
	}
	clean = voiceResponseRe.ReplaceAllString(clean, "")

	return found, tidyWhitespace(clean)
}

func splitCompanyArgs(args string) (name, website string) {
	parts := strings.SplitN(args, ",", 2)
	name = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		website = strings.TrimSpace(parts[1])
	}
	return name, website
}

// tidyWhitespace collapses the gaps left behind by stripped markers
// without flattening intentional line breaks.
func tidyWhitespace(s string) string {
	s = spaceRunRe.ReplaceAllString(s, " ")
	s = spaceBeforeNL.ReplaceAllString(s, "\n")
	s = newlineRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
