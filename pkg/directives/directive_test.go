package directives

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_CollectLead(t *testing.T) {
	found, clean := Parse("Great, I'll have someone reach out. [COLLECT_LEAD: ready for quote]")

	require.Len(t, found, 1)
	lead, ok := found[0].(CollectLead)
	require.True(t, ok)
	require.Equal(t, "ready for quote", lead.Note)
	require.Equal(t, "Great, I'll have someone reach out.", clean)
}

func TestParse_EscalateMidSentence(t *testing.T) {
	found, clean := Parse("Sure thing. [ESCALATE: angry customer] Thanks!")

	require.Len(t, found, 1)
	esc, ok := found[0].(Escalate)
	require.True(t, ok)
	require.Equal(t, "angry customer", esc.Reason)
	require.Equal(t, "Sure thing. Thanks!", clean)
}

func TestParse_AnalyzeCompanyWithWebsite(t *testing.T) {
	found, clean := Parse("Got it! [ANALYZE_COMPANY: Acme Corp, acme.com]")

	require.Len(t, found, 1)
	ac, ok := found[0].(AnalyzeCompany)
	require.True(t, ok)
	require.Equal(t, "Acme Corp", ac.Name)
	require.Equal(t, "acme.com", ac.Website)
	require.Equal(t, "Got it!", clean)
}

func TestParse_AnalyzeCompanyEmptyNameIsStrippedButIgnored(t *testing.T) {
	found, clean := Parse("Interesting. [ANALYZE_COMPANY: ]")

	require.Empty(t, found)
	require.Equal(t, "Interesting.", clean)
}

func TestParse_VoiceResponse(t *testing.T) {
	found, clean := Parse("[VOICE_RESPONSE]Here's what I'd suggest.")

	require.Len(t, found, 1)
	require.Equal(t, "voice_response", found[0].Kind())
	require.Equal(t, "Here's what I'd suggest.", clean)
}

func TestParse_MultipleMarkersAllStripped(t *testing.T) {
	raw := "Perfect. [COLLECT_LEAD: hot lead] [ESCALATE: wants a call today] I'll get things moving."
	found, clean := Parse(raw)

	require.Len(t, found, 2)
	require.Equal(t, "Perfect. I'll get things moving.", clean)
	require.NotContains(t, clean, "[")
}

func TestParse_NoMarkers(t *testing.T) {
	found, clean := Parse("Just a plain answer.")

	require.Empty(t, found)
	require.Equal(t, "Just a plain answer.", clean)
}

func TestParse_PreservesLineBreaks(t *testing.T) {
	_, clean := Parse("Line one. [COLLECT_LEAD: x]\n\nLine two.")

	require.Equal(t, "Line one.\n\nLine two.", clean)
}
