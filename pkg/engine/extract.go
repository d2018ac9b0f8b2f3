package engine

import (
	"regexp"
	"strings"

	"github.com/dotsetgreg/leadpilot/pkg/profile"
)

var (
	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRegex = regexp.MustCompile(`\+?[0-9][0-9()\-\s.]{6,18}[0-9]`)
	nameRegex  = regexp.MustCompile(`(?i)\b(?:my name is|i am|i'm)\s+([A-Z][a-zA-Z\-]+(?:\s+[A-Z][a-zA-Z\-]+)?)`)
)

// extractIdentity fills empty identity fields from free text. Explicit
// clientInfo always wins; this only catches contact details volunteered
// mid-conversation.
func extractIdentity(p *profile.ClientProfile, text string) {
	if p.Email == "" {
		if m := emailRegex.FindString(text); m != "" {
			p.Email = m
		}
	}
	if p.Phone == "" {
		if m := phoneRegex.FindString(text); m != "" {
			// Avoid swallowing plain numbers from quantities or prices.
			digits := strings.Count(m, "0") + strings.Count(m, "1") + strings.Count(m, "2") +
				strings.Count(m, "3") + strings.Count(m, "4") + strings.Count(m, "5") +
				strings.Count(m, "6") + strings.Count(m, "7") + strings.Count(m, "8") +
				strings.Count(m, "9")
			if digits >= 7 {
				p.Phone = strings.TrimSpace(m)
			}
		}
	}
	if p.Name == "" {
		if m := nameRegex.FindStringSubmatch(text); len(m) == 2 {
			p.Name = strings.TrimSpace(m[1])
		}
	}
}
