// Package gameweek does the calendar arithmetic behind leaderboard periods.
// A gameweek runs from Saturday 00:00 to the following Saturday 00:00 in the
// location of the dates passed in.
package gameweek

import (
	"time"
)

// KeyLayout is the canonical date format used for period keys and query params
const KeyLayout = "2006-01-02"

const daysPerWeek = 7

// DayStart truncates t to midnight in its own location
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SaturdayOfWeek returns the Saturday that starts the week containing t.
// Saturday maps to itself, Sunday goes back one day and Friday goes back six.
func SaturdayOfWeek(t time.Time) time.Time {
	d := DayStart(t)
	back := (int(d.Weekday()) - int(time.Saturday) + daysPerWeek) % daysPerWeek
	return d.AddDate(0, 0, -back)
}

// SeasonFirstSaturday returns the Saturday gameweek 1 starts on. A season that
// does not start on a Saturday rounds forward to the next one.
func SeasonFirstSaturday(seasonStart time.Time) time.Time {
	d := DayStart(seasonStart)
	fwd := (int(time.Saturday) - int(d.Weekday()) + daysPerWeek) % daysPerWeek
	return d.AddDate(0, 0, fwd)
}

// GameweekNumber numbers the week containing d relative to the season. The
// first Saturday of the season is gameweek 1; anything earlier is below 1.
func GameweekNumber(d, seasonStart time.Time) int {
	first := SeasonFirstSaturday(seasonStart)
	week := SaturdayOfWeek(d)
	return floorDiv(civilDays(first, week), daysPerWeek) + 1
}

// MonthStart returns midnight on the first day of t's month
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// Clamp bounds an anchor date to [seasonStart, now]
func Clamp(anchor, seasonStart, now time.Time) time.Time {
	if anchor.Before(seasonStart) {
		anchor = seasonStart
	}
	if anchor.After(now) {
		anchor = now
	}
	return anchor
}

// civilDays counts calendar days from a to b, ignoring DST shifts
func civilDays(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
