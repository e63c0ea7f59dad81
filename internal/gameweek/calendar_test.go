package gameweek

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSaturdayOfWeek(t *testing.T) {
	saturday := date(2025, time.March, 1)

	t.Run("idempotent on saturday", func(t *testing.T) {
		assert.Equal(t, saturday, SaturdayOfWeek(saturday))
		assert.Equal(t, saturday, SaturdayOfWeek(SaturdayOfWeek(saturday)))
	})

	t.Run("whole week maps to its saturday", func(t *testing.T) {
		for i := 0; i < 7; i++ {
			d := saturday.AddDate(0, 0, i).Add(13*time.Hour + 27*time.Minute)
			assert.Equal(t, saturday, SaturdayOfWeek(d), d.Weekday().String())
		}
		assert.Equal(t, saturday.AddDate(0, 0, 7), SaturdayOfWeek(saturday.AddDate(0, 0, 7)))
	})

	t.Run("keeps location", func(t *testing.T) {
		loc := time.FixedZone("BST", 3600)
		d := time.Date(2025, time.June, 4, 22, 0, 0, 0, loc)
		got := SaturdayOfWeek(d)
		assert.Equal(t, time.Date(2025, time.May, 31, 0, 0, 0, 0, loc), got)
	})
}

func TestSeasonFirstSaturday(t *testing.T) {
	assert.Equal(t, date(2025, time.March, 1), SeasonFirstSaturday(date(2025, time.March, 1)))
	assert.Equal(t, date(2025, time.March, 8), SeasonFirstSaturday(date(2025, time.March, 2)))
	assert.Equal(t, date(2025, time.March, 8), SeasonFirstSaturday(date(2025, time.March, 7)))
}

func TestGameweekNumber(t *testing.T) {
	seasonStart := date(2025, time.March, 1)

	assert.Equal(t, 1, GameweekNumber(seasonStart, seasonStart))
	for w := 0; w < 30; w++ {
		d := seasonStart.AddDate(0, 0, 7*w)
		assert.Equal(t, w+1, GameweekNumber(d, seasonStart))
		assert.Equal(t, w+1, GameweekNumber(d.AddDate(0, 0, 6), seasonStart))
	}

	assert.Equal(t, 0, GameweekNumber(date(2025, time.February, 28), seasonStart))
	assert.Less(t, GameweekNumber(date(2025, time.January, 10), seasonStart), 1)
}

func TestGameweekRoundingAsymmetry(t *testing.T) {
	// Wednesday start: gameweek 1 begins the following Saturday, while the
	// days before it fall into the week that began the previous Saturday.
	seasonStart := date(2025, time.March, 5)

	assert.Equal(t, date(2025, time.March, 8), SeasonFirstSaturday(seasonStart))
	assert.Equal(t, date(2025, time.March, 1), SaturdayOfWeek(seasonStart))
	assert.Equal(t, 0, GameweekNumber(seasonStart, seasonStart))
	assert.Equal(t, 0, GameweekNumber(date(2025, time.March, 7), seasonStart))
	assert.Equal(t, 1, GameweekNumber(date(2025, time.March, 8), seasonStart))
	assert.Equal(t, 2, GameweekNumber(date(2025, time.March, 15), seasonStart))
}

func TestGameweekNumberAcrossDST(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Skip("tzdata not available")
	}
	seasonStart := time.Date(2025, time.March, 22, 0, 0, 0, 0, london)

	assert.Equal(t, 1, GameweekNumber(seasonStart, seasonStart))
	assert.Equal(t, 2, GameweekNumber(time.Date(2025, time.March, 29, 0, 30, 0, 0, london), seasonStart))
	assert.Equal(t, 3, GameweekNumber(time.Date(2025, time.April, 5, 0, 0, 0, 0, london), seasonStart))
}

func TestMonthStart(t *testing.T) {
	assert.Equal(t, date(2025, time.February, 1), MonthStart(time.Date(2025, time.February, 28, 23, 59, 0, 0, time.UTC)))
}

func TestClamp(t *testing.T) {
	start := date(2025, time.March, 1)
	now := date(2025, time.June, 1)

	assert.Equal(t, start, Clamp(date(2024, time.December, 25), start, now))
	assert.Equal(t, now, Clamp(date(2025, time.July, 4), start, now))
	assert.Equal(t, date(2025, time.April, 2), Clamp(date(2025, time.April, 2), start, now))
}

func TestParsePeriodType(t *testing.T) {
	for in, want := range map[string]PeriodType{"week": PeriodWeek, " Month": PeriodMonth, "SEASON": PeriodSeason} {
		got, err := ParsePeriodType(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParsePeriodType("fortnight")
	assert.Error(t, err)
	_, err = ParsePeriodType("")
	assert.Error(t, err)
}

func TestWeekPeriod(t *testing.T) {
	seasonStart := date(2025, time.March, 1)

	p := WeekPeriod(date(2025, time.March, 19), &seasonStart)
	assert.Equal(t, PeriodWeek, p.Type)
	assert.Equal(t, date(2025, time.March, 15), p.Start)
	assert.Equal(t, date(2025, time.March, 22), p.End)
	assert.Equal(t, "2025-03-15", p.Key)
	assert.Equal(t, "GW 3: 15 Mar - 21 Mar 2025", p.Label)
	assert.True(t, p.Contains(date(2025, time.March, 21).Add(23*time.Hour)))
	assert.False(t, p.Contains(p.End))

	anon := WeekPeriod(date(2025, time.March, 19), nil)
	assert.Equal(t, "15 Mar - 21 Mar 2025", anon.Label)

	pre := WeekPeriod(date(2025, time.February, 26), &seasonStart)
	assert.NotContains(t, pre.Label, "GW")
}

func TestMonthAndSeasonPeriod(t *testing.T) {
	m := MonthPeriod(date(2025, time.December, 14))
	assert.Equal(t, date(2025, time.December, 1), m.Start)
	assert.Equal(t, date(2026, time.January, 1), m.End)
	assert.Equal(t, "December 2025", m.Label)

	s := SeasonPeriod(date(2025, time.March, 1).Add(9*time.Hour), date(2025, time.October, 1), "")
	assert.Equal(t, date(2025, time.March, 1), s.Start)
	assert.Equal(t, "Season 2025", s.Label)
}

func TestPrevious(t *testing.T) {
	seasonStart := date(2025, time.March, 1)

	prev, ok := Previous(WeekPeriod(date(2025, time.March, 15), &seasonStart), &seasonStart)
	require.True(t, ok)
	assert.Equal(t, date(2025, time.March, 8), prev.Start)
	assert.Contains(t, prev.Label, "GW 2")

	prev, ok = Previous(MonthPeriod(date(2025, time.January, 10)), nil)
	require.True(t, ok)
	assert.Equal(t, date(2024, time.December, 1), prev.Start)

	_, ok = Previous(SeasonPeriod(seasonStart, date(2025, time.October, 1), "2025"), nil)
	assert.False(t, ok)
}

func TestNavigation(t *testing.T) {
	seasonStart := date(2025, time.March, 1)
	now := date(2025, time.March, 19)

	first := WeekPeriod(seasonStart, &seasonStart)
	hasPrev, hasNext := Navigation(first, seasonStart, now)
	assert.False(t, hasPrev)
	assert.True(t, hasNext)

	current := WeekPeriod(now, &seasonStart)
	hasPrev, hasNext = Navigation(current, seasonStart, now)
	assert.True(t, hasPrev)
	assert.False(t, hasNext)

	hasPrev, hasNext = Navigation(SeasonPeriod(seasonStart, date(2025, time.October, 1), ""), seasonStart, now)
	assert.False(t, hasPrev)
	assert.False(t, hasNext)
}

func TestWeekOptions(t *testing.T) {
	seasonStart := date(2025, time.March, 5)
	now := date(2025, time.March, 20)

	options := WeekOptions(&seasonStart, now)
	require.Len(t, options, 3)
	assert.Equal(t, "2025-03-15", options[0].Key)
	assert.Equal(t, "2025-03-08", options[1].Key)
	assert.Equal(t, "2025-03-01", options[2].Key)
	assert.Contains(t, options[0].Label, "GW 2")
	assert.Contains(t, options[1].Label, "GW 1")
	assert.NotContains(t, options[2].Label, "GW")

	for i := 1; i < len(options); i++ {
		assert.True(t, options[i].Start.Before(options[i-1].Start))
	}

	assert.Equal(t, options, WeekOptions(&seasonStart, now), "options must be reproducible")
	assert.Len(t, WeekOptions(nil, now), DefaultWeekHistory)
	assert.Empty(t, WeekOptions(&seasonStart, date(2025, time.February, 1)))
}

func TestMonthOptions(t *testing.T) {
	options := MonthOptions(date(2025, time.January, 15), date(2025, time.March, 20))
	require.Len(t, options, 3)
	assert.Equal(t, "March 2025", options[0].Label)
	assert.Equal(t, "February 2025", options[1].Label)
	assert.Equal(t, "January 2025", options[2].Label)
	assert.Equal(t, "2025-01-01", options[2].Key)

	assert.Empty(t, MonthOptions(date(2025, time.June, 1), date(2025, time.March, 20)))
}
