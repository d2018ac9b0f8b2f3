// Package signals turns normalized text into per-turn scores and rolls
// whole-history behavioral aggregates into profile buckets.
package signals

import (
	"context"

	"github.com/dotsetgreg/leadpilot/pkg/collab"
	"github.com/dotsetgreg/leadpilot/pkg/logger"
	"github.com/dotsetgreg/leadpilot/pkg/profile"
)

// Aggregation only kicks in once a conversation has this many turns.
const minHistoryForAggregates = 2

// defaultEngagement substitutes for turns the classifier never scored.
const defaultEngagement = 50

type Extractor struct {
	classifier collab.SentimentClassifier
}

func NewExtractor(classifier collab.SentimentClassifier) *Extractor {
	return &Extractor{classifier: classifier}
}

// Score classifies one normalized turn. Classification failure is
// non-fatal: the turn is returned unscored and the error logged.
func (e *Extractor) Score(ctx context.Context, sessionID, text string) (collab.Classification, bool) {
	result, err := e.classifier.Classify(ctx, text)
	if err != nil {
		logger.WarnCF("signals", "Turn classification failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return collab.Classification{}, false
	}
	return result, true
}

// Recompute refreshes messageLength and interestLevel on the profile.
// It is a no-op until the history has at least two turns; aggregates
// always cover the entire history, not a sliding window.
func Recompute(p *profile.ClientProfile) {
	if len(p.History) < minHistoryForAggregates {
		return
	}
	p.MessageLength = MessageLengthBucket(averageContentLength(p.History))
	p.InterestLevel = InterestLevelBucket(averageEngagement(p.History))
}

func averageContentLength(history []profile.Turn) float64 {
	if len(history) == 0 {
		return 0
	}
	total := 0
	for _, t := range history {
		total += len([]rune(t.Content))
	}
	return float64(total) / float64(len(history))
}

func averageEngagement(history []profile.Turn) float64 {
	if len(history) == 0 {
		return 0
	}
	total := 0
	for _, t := range history {
		if t.HasEngagement {
			total += t.Engagement
		} else {
			total += defaultEngagement
		}
	}
	return float64(total) / float64(len(history))
}

// MessageLengthBucket maps an average content length to a bucket.
// Boundaries are half-open on the low side: exactly 50 is medium,
// exactly 200 is medium.
func MessageLengthBucket(avg float64) profile.MessageLength {
	switch {
	case avg < 50:
		return profile.LengthShort
	case avg <= 200:
		return profile.LengthMedium
	default:
		return profile.LengthLong
	}
}

// InterestLevelBucket maps an average engagement score to a bucket.
// Exactly 40 is medium, exactly 70 is medium.
func InterestLevelBucket(avg float64) profile.InterestLevel {
	switch {
	case avg < 40:
		return profile.InterestLow
	case avg <= 70:
		return profile.InterestMedium
	default:
		return profile.InterestHigh
	}
}
