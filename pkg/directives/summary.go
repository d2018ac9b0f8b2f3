package directives

import (
	"strings"

	"github.com/dotsetgreg/leadpilot/pkg/profile"
)

// topicVocabulary maps conversation keywords to topic labels, checked
// in order so summaries read consistently.
var topicVocabulary = []struct {
	keyword string
	label   string
}{
	{"parking", "parking area lighting"},
	{"warehouse", "warehouse lighting"},
	{"stadium", "stadium lighting"},
	{"price", "pricing discussion"},
	{"quote", "pricing discussion"},
}

const generalInquiry = "general inquiry"

// Summarize keyword-matches the last 5 user turns against the topic
// vocabulary and joins the labels; a conversation matching nothing is a
// general inquiry.
func Summarize(p *profile.ClientProfile) string {
	var text strings.Builder
	for _, t := range p.RecentUserTurns(5) {
		text.WriteString(strings.ToLower(t.Content))
		text.WriteString(" ")
	}
	haystack := text.String()

	var labels []string
	seen := map[string]struct{}{}
	for _, entry := range topicVocabulary {
		if !strings.Contains(haystack, entry.keyword) {
			continue
		}
		if _, ok := seen[entry.label]; ok {
			continue
		}
		seen[entry.label] = struct{}{}
		labels = append(labels, entry.label)
	}

	if len(labels) == 0 {
		return generalInquiry
	}
	return strings.Join(labels, ", ")
}

// Opportunity value brackets. Keyword brackets outrank the size-based
// defaults: a stadium conversation with an enterprise profile resolves
// to the stadium bracket.
const (
	ValueStadium    = "$100,000 - $500,000"
	ValueIndustrial = "$50,000 - $200,000"
	ValueEnterprise = "$25,000 - $100,000"
	ValueSMB        = "$10,000 - $50,000"
	ValueUnknown    = "$5,000 - $25,000"
)

// EstimateValue computes the estimated opportunity value from the full
// conversation text and the profile's company size. The keyword
// override always wins when present.
func EstimateValue(p *profile.ClientProfile) string {
	var text strings.Builder
	for _, t := range p.History {
		text.WriteString(strings.ToLower(t.Content))
		text.WriteString(" ")
	}
	haystack := text.String()

	if strings.Contains(haystack, "stadium") || strings.Contains(haystack, "sports") {
		return ValueStadium
	}
	if strings.Contains(haystack, "warehouse") || strings.Contains(haystack, "industrial") {
		return ValueIndustrial
	}

	switch p.CompanySize {
	case profile.SizeEnterprise, profile.SizeFortune500:
		return ValueEnterprise
	case profile.SizeSMB:
		return ValueSMB
	default:
		return ValueUnknown
	}
}
