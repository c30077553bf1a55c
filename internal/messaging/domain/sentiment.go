package domain

import "strings"

// Sentiment is the classification of a prospect's reply.
type Sentiment string

const (
	// SentimentPositive means the prospect shows clear interest.
	SentimentPositive Sentiment = "positive"
	// SentimentNeutral means the prospect needs more nurturing.
	SentimentNeutral Sentiment = "neutral"
	// SentimentNegative means the prospect is not interested.
	SentimentNegative Sentiment = "negative"
)

// ParseSentiment normalizes model output into a known sentiment. Unrecognized
// output falls back to neutral so an odd completion never derails a sequence.
func ParseSentiment(s string) Sentiment {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, known := range []Sentiment{SentimentPositive, SentimentNegative, SentimentNeutral} {
		if strings.Contains(normalized, string(known)) {
			return known
		}
	}
	return SentimentNeutral
}
