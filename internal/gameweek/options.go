package gameweek

import (
	"time"
)

// DefaultWeekHistory bounds week options when no season start is known
const DefaultWeekHistory = 12

// Option is one selectable period in a picker
type Option struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	Start time.Time `json:"startDate"`
	End   time.Time `json:"endDate"`
}

func optionFor(p Period) Option {
	return Option{Key: p.Key, Label: p.Label, Start: p.Start, End: p.End}
}

// WeekOptions lists gameweeks newest first, from the week containing now back
// to the week containing seasonStart. Without a season start the last
// DefaultWeekHistory weeks are listed.
func WeekOptions(seasonStart *time.Time, now time.Time) []Option {
	latest := SaturdayOfWeek(now)

	limit := DefaultWeekHistory
	if seasonStart != nil {
		floor := SaturdayOfWeek(*seasonStart)
		if latest.Before(floor) {
			return []Option{}
		}
		limit = civilDays(floor, latest)/daysPerWeek + 1
	}

	options := make([]Option, 0, limit)
	for i := 0; i < limit; i++ {
		options = append(options, optionFor(WeekPeriod(latest.AddDate(0, 0, -daysPerWeek*i), seasonStart)))
	}
	return options
}

// MonthOptions lists calendar months newest first, from now back to the month
// the season started in.
func MonthOptions(seasonStart, now time.Time) []Option {
	latest := MonthStart(now)
	floor := MonthStart(seasonStart.In(now.Location()))

	options := []Option{}
	for cur := latest; !cur.Before(floor); cur = cur.AddDate(0, -1, 0) {
		options = append(options, optionFor(MonthPeriod(cur)))
	}
	return options
}
