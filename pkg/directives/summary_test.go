package directives

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dotsetgreg/leadpilot/pkg/profile"
)

func historyOf(contents ...string) *profile.ClientProfile {
	p := profile.NewClientProfile("test")
	for _, c := range contents {
		p.AppendTurn(profile.Turn{Role: "user", Content: c})
	}
	return p
}

func TestSummarize_TopicLabels(t *testing.T) {
	p := historyOf(
		"We need lighting for our parking area",
		"Also a warehouse retrofit",
		"What would a quote look like?",
	)

	require.Equal(t, "parking area lighting, warehouse lighting, pricing discussion", Summarize(p))
}

func TestSummarize_DeduplicatesLabels(t *testing.T) {
	p := historyOf("what's the price?", "can I get a quote?")

	require.Equal(t, "pricing discussion", Summarize(p))
}

func TestSummarize_FallsBackToGeneralInquiry(t *testing.T) {
	p := historyOf("hello", "tell me about your products")

	require.Equal(t, "general inquiry", Summarize(p))
}

func TestSummarize_OnlyConsidersLastFiveUserTurns(t *testing.T) {
	p := historyOf("stadium project", "a", "b", "c", "d", "e", "f")

	require.Equal(t, "general inquiry", Summarize(p))
}

func TestSummarize_IgnoresAssistantTurns(t *testing.T) {
	p := profile.NewClientProfile("test")
	p.AppendTurn(profile.Turn{Role: "user", Content: "hello"})
	p.AppendTurn(profile.Turn{Role: "assistant", Content: "we do stadium lighting"})

	require.Equal(t, "general inquiry", Summarize(p))
}

func TestEstimateValue_KeywordOverrideBeatsCompanySize(t *testing.T) {
	p := historyOf("we're planning a stadium installation")
	p.CompanySize = profile.SizeEnterprise

	require.Equal(t, ValueStadium, EstimateValue(p))
}

func TestEstimateValue_IndustrialKeyword(t *testing.T) {
	p := historyOf("lighting for our industrial site")

	require.Equal(t, ValueIndustrial, EstimateValue(p))
}

func TestEstimateValue_SizeDefaults(t *testing.T) {
	cases := []struct {
		size profile.CompanySize
		want string
	}{
		{profile.SizeEnterprise, ValueEnterprise},
		{profile.SizeFortune500, ValueEnterprise},
		{profile.SizeSMB, ValueSMB},
		{profile.SizeUnknown, ValueUnknown},
	}
	for _, tc := range cases {
		p := historyOf("hello there")
		p.CompanySize = tc.size
		require.Equal(t, tc.want, EstimateValue(p), "size %s", tc.size)
	}
}

func TestEstimateValue_ScansFullHistoryNotJustRecentTurns(t *testing.T) {
	p := historyOf("sports arena lighting", "a", "b", "c", "d", "e", "f")

	require.Equal(t, ValueStadium, EstimateValue(p))
}
