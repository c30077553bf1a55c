// Package domain models engagement history as a period series and derives
// demand signals from it.
package domain

import "time"

// Interaction is one tracked engagement signal.
type Interaction struct {
	OccurredAt time.Time
	Kind       string
}

// Interaction kinds that count toward engagement volume.
const (
	KindOpen  = "open"
	KindClick = "click"
)

// Period aggregates the interactions that fell into one bucket.
type Period struct {
	Start  time.Time
	Opens  int
	Clicks int
	Events int
}

// Series is a fixed-length sequence of consecutive periods, oldest first.
type Series struct {
	Periods []Period
}

// Trend describes how engagement volume is moving across the series.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendSteady  Trend = "steady"
	TrendFalling Trend = "falling"
)

// BuildSeries buckets interactions into count consecutive periods of length
// each, starting at start. Interactions outside the covered range are
// dropped.
func BuildSeries(interactions []Interaction, start time.Time, length time.Duration, count int) Series {
	if count <= 0 || length <= 0 {
		return Series{}
	}

	periods := make([]Period, count)
	for i := range periods {
		periods[i].Start = start.Add(time.Duration(i) * length)
	}

	end := start.Add(time.Duration(count) * length)
	for _, in := range interactions {
		if in.OccurredAt.Before(start) || !in.OccurredAt.Before(end) {
			continue
		}
		idx := int(in.OccurredAt.Sub(start) / length)
		periods[idx].Events++
		switch in.Kind {
		case KindOpen:
			periods[idx].Opens++
		case KindClick:
			periods[idx].Clicks++
		}
	}
	return Series{Periods: periods}
}

// Trend compares the most recent period's volume against the average of the
// preceding ones, with a 10% band counting as steady.
func (s Series) Trend() Trend {
	if len(s.Periods) < 2 {
		return TrendSteady
	}

	last := float64(s.Periods[len(s.Periods)-1].Events)
	var sum float64
	for _, p := range s.Periods[:len(s.Periods)-1] {
		sum += float64(p.Events)
	}
	baseline := sum / float64(len(s.Periods)-1)

	switch {
	case last > baseline*1.1:
		return TrendRising
	case last < baseline*0.9:
		return TrendFalling
	default:
		return TrendSteady
	}
}

// ProjectNext extrapolates the next period's volume linearly from the last
// two periods, floored at zero.
func (s Series) ProjectNext() int {
	switch len(s.Periods) {
	case 0:
		return 0
	case 1:
		return s.Periods[0].Events
	}

	last := s.Periods[len(s.Periods)-1].Events
	prev := s.Periods[len(s.Periods)-2].Events
	projected := 2*last - prev
	if projected < 0 {
		return 0
	}
	return projected
}
