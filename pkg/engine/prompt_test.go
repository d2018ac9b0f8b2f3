package engine

import (
	"strings"
	"testing"

	"github.com/dotsetgreg/leadpilot/pkg/collab"
	"github.com/dotsetgreg/leadpilot/pkg/profile"
)

func TestBuildPrompt_IncludesDirectiveInstructions(t *testing.T) {
	p := profile.NewClientProfile("s1")

	prompt := BuildPrompt(p, nil)
	for _, marker := range []string{"[COLLECT_LEAD", "[ESCALATE", "[ANALYZE_COMPANY", "[VOICE_RESPONSE]"} {
		if !strings.Contains(prompt, marker) {
			t.Fatalf("prompt missing %s instructions", marker)
		}
	}
}

func TestBuildPrompt_IncludesKnownFactsOnly(t *testing.T) {
	p := profile.NewClientProfile("s1")
	p.Name = "Dana"
	p.Company = "Acme"

	prompt := BuildPrompt(p, nil)
	if !strings.Contains(prompt, "- Name: Dana") || !strings.Contains(prompt, "- Company: Acme") {
		t.Fatal("expected known facts in prompt")
	}
	if strings.Contains(prompt, "- Position:") {
		t.Fatal("empty fields must not appear")
	}
	if strings.Contains(prompt, "unknown") {
		t.Fatal("unknown company size must not appear as a fact")
	}
}

func TestBuildPrompt_CompanyIntelligenceSection(t *testing.T) {
	p := profile.NewClientProfile("s1")
	intel := &collab.CompanyIntel{Industry: "logistics", Size: "enterprise", BudgetEstimate: "$100k+"}

	prompt := BuildPrompt(p, intel)
	if !strings.Contains(prompt, "## Company intelligence") || !strings.Contains(prompt, "logistics") {
		t.Fatal("expected company intelligence section")
	}
}

func TestBuildPrompt_RecentTranscriptWindow(t *testing.T) {
	p := profile.NewClientProfile("s1")
	for _, msg := range []string{"one", "two", "three", "four", "five"} {
		p.AppendTurn(profile.Turn{Role: "user", Content: msg})
	}

	prompt := BuildPrompt(p, nil)
	if strings.Contains(prompt, "user: one") {
		t.Fatal("transcript should only cover the last turns")
	}
	if !strings.Contains(prompt, "user: five") {
		t.Fatal("latest turn missing from transcript")
	}
}

func TestBuildPrompt_IsPure(t *testing.T) {
	p := profile.NewClientProfile("s1")
	p.AppendTurn(profile.Turn{Role: "user", Content: "hello"})
	before := len(p.History)

	_ = BuildPrompt(p, nil)
	_ = BuildPrompt(p, nil)

	if len(p.History) != before {
		t.Fatal("BuildPrompt mutated the profile")
	}
}
