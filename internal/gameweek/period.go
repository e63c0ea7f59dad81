package gameweek

import (
	"fmt"
	"strings"
	"time"
)

type PeriodType string

const (
	PeriodWeek   PeriodType = "week"
	PeriodMonth  PeriodType = "month"
	PeriodSeason PeriodType = "season"
)

// ParsePeriodType accepts week, month or season in any case
func ParsePeriodType(s string) (PeriodType, error) {
	switch p := PeriodType(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodWeek, PeriodMonth, PeriodSeason:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period %q: expected week, month or season", s)
	}
}

// Paginated reports whether entries for this period type are served in pages
func (p PeriodType) Paginated() bool {
	return p == PeriodWeek || p == PeriodMonth
}

// Period is a half-open [Start, End) leaderboard window
type Period struct {
	Type  PeriodType `json:"type"`
	Start time.Time  `json:"startDate"`
	End   time.Time  `json:"endDate"`
	Label string     `json:"label"`
	Key   string     `json:"key"`
}

// Contains reports whether t falls inside the window
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// WeekPeriod returns the gameweek containing anchor. The label carries the
// gameweek number when a season start is known and the week is in season.
func WeekPeriod(anchor time.Time, seasonStart *time.Time) Period {
	start := SaturdayOfWeek(anchor)
	end := start.AddDate(0, 0, daysPerWeek)
	return Period{
		Type:  PeriodWeek,
		Start: start,
		End:   end,
		Label: weekLabel(start, end, seasonStart),
		Key:   start.Format(KeyLayout),
	}
}

// MonthPeriod returns the calendar month containing anchor
func MonthPeriod(anchor time.Time) Period {
	start := MonthStart(anchor)
	return Period{
		Type:  PeriodMonth,
		Start: start,
		End:   start.AddDate(0, 1, 0),
		Label: start.Format("January 2006"),
		Key:   start.Format(KeyLayout),
	}
}

// SeasonPeriod covers a stored season's [start, end)
func SeasonPeriod(start, end time.Time, name string) Period {
	start = DayStart(start)
	if name == "" {
		name = fmt.Sprintf("Season %d", start.Year())
	}
	return Period{
		Type:  PeriodSeason,
		Start: start,
		End:   DayStart(end),
		Label: name,
		Key:   start.Format(KeyLayout),
	}
}

// Previous returns the period immediately before p. Seasons have no previous
// period of their own; callers decide what a season compares against.
func Previous(p Period, seasonStart *time.Time) (Period, bool) {
	switch p.Type {
	case PeriodWeek:
		return WeekPeriod(p.Start.AddDate(0, 0, -daysPerWeek), seasonStart), true
	case PeriodMonth:
		return MonthPeriod(p.Start.AddDate(0, -1, 0)), true
	default:
		return Period{}, false
	}
}

// Navigation reports whether the periods either side of p are selectable
// within [seasonStart, now]. Season periods do not navigate.
func Navigation(p Period, seasonStart, now time.Time) (hasPrevious, hasNext bool) {
	if p.Type == PeriodSeason {
		return false, false
	}
	hasPrevious = p.Start.After(DayStart(seasonStart))
	hasNext = !p.End.After(now)
	return hasPrevious, hasNext
}

func weekLabel(start, end time.Time, seasonStart *time.Time) string {
	last := end.AddDate(0, 0, -1)
	span := fmt.Sprintf("%s - %s", start.Format("2 Jan"), last.Format("2 Jan 2006"))
	if seasonStart != nil {
		if gw := GameweekNumber(start, *seasonStart); gw >= 1 {
			return fmt.Sprintf("GW %d: %s", gw, span)
		}
	}
	return span
}
