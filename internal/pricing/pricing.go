// Package pricing maps golfer performance onto market prices
package pricing

import (
	"math"
)

const (
	MinPrice      int64 = 3_500_000
	MaxPrice      int64 = 14_500_000
	PriceStep     int64 = 100_000
	CurveExponent       = 1.3

	// MinSampleEvents is the number of events below which a golfer's average
	// is blended toward the league average
	MinSampleEvents = 5
	// LeagueAveragePerEvent is the points per event assumed for an unknown golfer
	LeagueAveragePerEvent = 3.0
)

// Price maps a normalized performance figure in [0,1] to a price. Inputs
// outside the range are clamped and NaN is treated as no data.
func Price(normalized float64) int64 {
	if math.IsNaN(normalized) {
		return MinPrice
	}
	clamped := math.Min(1, math.Max(0, normalized))

	factor := math.Pow(clamped, CurveExponent)
	raw := float64(MinPrice) + factor*float64(MaxPrice-MinPrice)

	price := int64(math.Round(raw/float64(PriceStep))) * PriceStep
	if price < MinPrice {
		return MinPrice
	}
	if price > MaxPrice {
		return MaxPrice
	}
	return price
}

// Sample is a golfer's points history over the pricing window
type Sample struct {
	Events int     `json:"events"`
	Points float64 `json:"points"`
}

// Dampen returns points per event. Samples smaller than MinSampleEvents are
// padded with league-average events. A golfer with no events sits at the
// league average.
func Dampen(s Sample) float64 {
	if s.Events < 0 {
		s.Events = 0
	}
	if s.Events >= MinSampleEvents {
		return s.Points / float64(s.Events)
	}
	missing := float64(MinSampleEvents - s.Events)
	return (s.Points + missing*LeagueAveragePerEvent) / MinSampleEvents
}

// NormalizeField scales every golfer's dampened average against the best in
// the field, giving values in [0,1]. An empty or pointless field maps to 0.
func NormalizeField(samples map[string]Sample) map[string]float64 {
	averages := make(map[string]float64, len(samples))
	best := 0.0
	for id, s := range samples {
		avg := math.Max(0, Dampen(s))
		averages[id] = avg
		best = math.Max(best, avg)
	}

	out := make(map[string]float64, len(samples))
	for id, avg := range averages {
		if best == 0 {
			out[id] = 0
			continue
		}
		out[id] = avg / best
	}
	return out
}
