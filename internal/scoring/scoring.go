// Package scoring turns raw tournament results into fantasy points and
// validates a tournament's full result set before it is accepted.
package scoring

import (
	"github.com/stitts-dev/fantasy-golf/internal/rules"
)

// Result is one golfer's raw outcome in a tournament as entered by an operator
type Result struct {
	GolferID     string   `json:"golfer_id"`
	Participated bool     `json:"participated"`
	Position     *int     `json:"position"`
	RawScore     *float64 `json:"raw_score"`
}

// Context carries the tournament settings points depend on
type Context struct {
	Format     rules.ScoringFormat
	MultiDay   bool
	Multiplier int
}

// Points are the derived fields stored on a score record
type Points struct {
	Base       int `json:"base_points"`
	Bonus      int `json:"bonus_points"`
	Multiplied int `json:"multiplied_points"`
}

// Scored pairs a result with its derived points
type Scored struct {
	Result
	Points
}

// Bonus returns the bonus earned by a raw score. A nil score earns nothing.
func Bonus(format rules.ScoringFormat, multiDay bool, raw *float64) int {
	if raw == nil {
		return 0
	}
	return rules.BonusThresholds(format, multiDay).Award(*raw)
}

// Compute derives base, bonus and multiplied points for one result. A golfer
// who did not participate scores zero across the board so that re-entering a
// tournament without them wipes any previous points.
func Compute(r Result, ctx Context) Points {
	if !r.Participated {
		return Points{}
	}

	p := Points{
		Base:  rules.PositionPoints(r.Position),
		Bonus: Bonus(ctx.Format, ctx.MultiDay, r.RawScore),
	}
	p.Multiplied = (p.Base + p.Bonus) * ctx.Multiplier
	return p
}

// Resolve validates a tournament's results and scores every row. Either all
// rows are returned or none are.
func Resolve(ctx Context, results []Result, field []string) ([]Scored, error) {
	if err := Validate(results, field); err != nil {
		return nil, err
	}

	scored := make([]Scored, 0, len(results))
	for _, r := range results {
		if !r.Participated {
			r.Position = nil
			r.RawScore = nil
		}
		scored = append(scored, Scored{Result: r, Points: Compute(r, ctx)})
	}
	return scored, nil
}

// Counters are the seasonal performance counts a tournament adds to a golfer
type Counters struct {
	Played       int
	FirstPlaces  int
	SecondPlaces int
	ThirdPlaces  int
	BonusHits    int
}

// Add accumulates other into c
func (c *Counters) Add(other Counters) {
	c.Played += other.Played
	c.FirstPlaces += other.FirstPlaces
	c.SecondPlaces += other.SecondPlaces
	c.ThirdPlaces += other.ThirdPlaces
	c.BonusHits += other.BonusHits
}

// Tally returns the counter increments each participating golfer earns from
// one tournament's scored rows.
func Tally(rows []Scored) map[string]Counters {
	out := make(map[string]Counters, len(rows))
	for _, row := range rows {
		if !row.Participated {
			continue
		}
		c := out[row.GolferID]
		c.Played++
		if row.Position != nil {
			switch *row.Position {
			case 1:
				c.FirstPlaces++
			case 2:
				c.SecondPlaces++
			case 3:
				c.ThirdPlaces++
			}
		}
		if row.Bonus > 0 {
			c.BonusHits++
		}
		out[row.GolferID] = c
	}
	return out
}
