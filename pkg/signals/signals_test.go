package signals

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/dotsetgreg/leadpilot/pkg/collab"
	"github.com/dotsetgreg/leadpilot/pkg/profile"
)

type fakeClassifier struct {
	result collab.Classification
	err    error
}

func (f *fakeClassifier) Classify(_ context.Context, _ string) (collab.Classification, error) {
	return f.result, f.err
}

func TestExtractor_ScoreFailureIsNonFatal(t *testing.T) {
	e := NewExtractor(&fakeClassifier{err: fmt.Errorf("model down")})

	_, ok := e.Score(context.Background(), "s1", "hello")
	if ok {
		t.Fatal("expected ok=false on classifier failure")
	}
}

func TestExtractor_Score(t *testing.T) {
	want := collab.Classification{Sentiment: "positive", Engagement: 80, Urgency: "low"}
	e := NewExtractor(&fakeClassifier{result: want})

	got, ok := e.Score(context.Background(), "s1", "hello")
	if !ok || got != want {
		t.Fatalf("expected %+v ok=true, got %+v ok=%v", want, got, ok)
	}
}

func TestRecompute_NoOpBelowTwoTurns(t *testing.T) {
	p := profile.NewClientProfile("s1")
	p.AppendTurn(profile.Turn{Role: "user", Content: strings.Repeat("x", 300)})

	Recompute(p)
	if p.MessageLength != "" || p.InterestLevel != "" {
		t.Fatalf("expected no aggregates with one turn, got %q/%q", p.MessageLength, p.InterestLevel)
	}
}

func TestRecompute_AggregatesOverEntireHistory(t *testing.T) {
	p := profile.NewClientProfile("s1")
	p.AppendTurn(profile.Turn{Role: "user", Content: strings.Repeat("x", 300), Engagement: 90, HasEngagement: true})
	p.AppendTurn(profile.Turn{Role: "user", Content: strings.Repeat("x", 300), Engagement: 90, HasEngagement: true})

	Recompute(p)
	if p.MessageLength != profile.LengthLong {
		t.Fatalf("expected long, got %q", p.MessageLength)
	}
	if p.InterestLevel != profile.InterestHigh {
		t.Fatalf("expected high, got %q", p.InterestLevel)
	}
}

func TestRecompute_UnscoredTurnsCountAsNeutralEngagement(t *testing.T) {
	p := profile.NewClientProfile("s1")
	// one scored at 90, one unscored (counts as 50): average 70 => medium
	p.AppendTurn(profile.Turn{Role: "user", Content: "a", Engagement: 90, HasEngagement: true})
	p.AppendTurn(profile.Turn{Role: "user", Content: "b"})

	Recompute(p)
	if p.InterestLevel != profile.InterestMedium {
		t.Fatalf("expected medium, got %q", p.InterestLevel)
	}
}

func TestMessageLengthBucket(t *testing.T) {
	cases := []struct {
		avg  float64
		want profile.MessageLength
	}{
		{0, profile.LengthShort},
		{49.9, profile.LengthShort},
		{50, profile.LengthMedium},
		{200, profile.LengthMedium},
		{200.1, profile.LengthLong},
	}
	for _, tc := range cases {
		if got := MessageLengthBucket(tc.avg); got != tc.want {
			t.Fatalf("avg %.1f: expected %q, got %q", tc.avg, tc.want, got)
		}
	}
}

func TestInterestLevelBucket(t *testing.T) {
	cases := []struct {
		avg  float64
		want profile.InterestLevel
	}{
		{0, profile.InterestLow},
		{39.9, profile.InterestLow},
		{40, profile.InterestMedium},
		{70, profile.InterestMedium},
		{70.1, profile.InterestHigh},
	}
	for _, tc := range cases {
		if got := InterestLevelBucket(tc.avg); got != tc.want {
			t.Fatalf("avg %.1f: expected %q, got %q", tc.avg, tc.want, got)
		}
	}
}

func TestAverageContentLength_CountsRunes(t *testing.T) {
	history := []profile.Turn{{Content: "héllo"}} // 5 runes, 6 bytes
	if got := averageContentLength(history); got != 5 {
		t.Fatalf("expected 5 runes, got %.1f", got)
	}
}
