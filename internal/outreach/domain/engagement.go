package domain

import "time"

// EngagementLevel buckets a recipient's interaction history.
type EngagementLevel string

const (
	EngagementHigh   EngagementLevel = "high_engagement"
	EngagementMedium EngagementLevel = "medium_engagement"
	EngagementNone   EngagementLevel = "no_engagement"
)

// FollowUpDelay returns how long to wait before the next touch: engaged
// recipients get a quick follow-up, silent ones get more room.
func (l EngagementLevel) FollowUpDelay() time.Duration {
	switch l {
	case EngagementHigh:
		return 24 * time.Hour
	case EngagementMedium:
		return 2 * 24 * time.Hour
	default:
		return 4 * 24 * time.Hour
	}
}

// Engagement summarizes a recipient's tracked events.
type Engagement struct {
	Level           EngagementLevel
	Opens           int
	Clicks          int
	LastInteraction *time.Time
}

// AnalyzeEngagement derives the engagement level from event history. Any
// click outweighs opens; opens without clicks rank medium.
func AnalyzeEngagement(events []*EmailEvent) Engagement {
	var e Engagement
	for _, event := range events {
		switch event.Type {
		case EventOpen:
			e.Opens++
		case EventClick:
			e.Clicks++
		}
		if e.LastInteraction == nil || event.OccurredAt.After(*e.LastInteraction) {
			occurred := event.OccurredAt
			e.LastInteraction = &occurred
		}
	}

	switch {
	case e.Clicks > 0:
		e.Level = EngagementHigh
	case e.Opens > 0:
		e.Level = EngagementMedium
	default:
		e.Level = EngagementNone
	}
	return e
}
