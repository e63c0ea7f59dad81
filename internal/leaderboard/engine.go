package leaderboard

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/stitts-dev/fantasy-golf/internal/gameweek"
)

const (
	DefaultPerPage = 50
	MaxPerPage     = 200
)

// Deps are the collaborators an Engine reads from. Snapshots and Clock are
// optional.
type Deps struct {
	Seasons     SeasonProvider
	Tournaments TournamentSource
	Scores      ScoreSource
	Teams       TeamSource
	Snapshots   SnapshotStore
	Clock       func() time.Time
}

// Engine recomputes leaderboards on demand from its collaborators. It holds
// no mutable state and is safe for concurrent use.
type Engine struct {
	seasons     SeasonProvider
	tournaments TournamentSource
	scores      ScoreSource
	teams       TeamSource
	snapshots   SnapshotStore
	now         func() time.Time
	logger      *logrus.Logger
}

func NewEngine(deps Deps, logger *logrus.Logger) *Engine {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Engine{
		seasons:     deps.Seasons,
		tournaments: deps.Tournaments,
		scores:      deps.Scores,
		teams:       deps.Teams,
		snapshots:   deps.Snapshots,
		now:         clock,
		logger:      logger,
	}
}

// Build resolves the requested period, ranks every active team over it and
// attaches movement against the previous period. With no active season the
// response is empty.
func (e *Engine) Build(ctx context.Context, req Request) (*Response, error) {
	season, err := e.seasons.ActiveSeason(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve active season: %w", err)
	}
	if season == nil {
		e.logger.WithField("period", req.Period).Debug("No active season, returning empty leaderboard")
		return emptyResponse(req), nil
	}

	now := e.now()
	anchor := now
	if req.Anchor != nil {
		anchor = *req.Anchor
	}
	anchor = gameweek.Clamp(anchor, season.StartDate, now)

	period, err := resolvePeriod(req.Period, anchor, season)
	if err != nil {
		return nil, err
	}

	standings, _, err := e.standings(ctx, season, period)
	if err != nil {
		return nil, err
	}
	entries := Rank(standings)

	previous, err := e.previousRanks(ctx, season, period, now)
	if err != nil {
		return nil, err
	}
	ApplyMovement(entries, previous)

	hasPrev, hasNext := gameweek.Navigation(period, season.StartDate, now)
	resp := &Response{
		Period: periodInfo(period, hasPrev, hasNext),
		Meta:   Meta{SeasonID: season.ID, Total: len(entries)},
	}

	if period.Type.Paginated() {
		resp.Entries, resp.Meta = paginate(entries, req.Page, req.PerPage)
		resp.Meta.SeasonID = season.ID
	} else {
		resp.Entries = entries
		resp.Meta.Page = 1
		resp.Meta.PerPage = len(entries)
		resp.Meta.TotalPages = 1
	}

	e.logger.WithFields(logrus.Fields{
		"period":    period.Type,
		"key":       period.Key,
		"season_id": season.ID,
		"entries":   len(entries),
	}).Debug("Leaderboard built")

	return resp, nil
}

// SnapshotPrevious stores the ranks that a request made at now would compare
// against, so later requests in the same period read them instead of
// recomputing. It returns the period that was stored.
func (e *Engine) SnapshotPrevious(ctx context.Context, periodType gameweek.PeriodType, now time.Time) (*gameweek.Period, error) {
	if e.snapshots == nil {
		return nil, fmt.Errorf("no snapshot store configured")
	}

	season, err := e.seasons.ActiveSeason(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve active season: %w", err)
	}
	if season == nil {
		return nil, nil
	}

	current, err := resolvePeriod(periodType, gameweek.Clamp(now, season.StartDate, now), season)
	if err != nil {
		return nil, err
	}
	prev, ok := comparisonPeriod(current, season, now)
	if !ok {
		return nil, nil
	}

	standings, _, err := e.standings(ctx, season, prev)
	if err != nil {
		return nil, err
	}
	ranks := RankMap(Rank(standings))
	if err := e.snapshots.SaveSnapshot(ctx, prev.Type, prev.Key, ranks); err != nil {
		return nil, fmt.Errorf("failed to save %s snapshot %s: %w", prev.Type, prev.Key, err)
	}

	e.logger.WithFields(logrus.Fields{
		"period":  prev.Type,
		"key":     prev.Key,
		"entries": len(ranks),
	}).Info("Leaderboard snapshot stored")

	return &prev, nil
}

// standings loads tournaments and teams concurrently, then the scores for the
// counted tournaments, and aggregates them. It also returns how many
// tournaments counted.
func (e *Engine) standings(ctx context.Context, season *Season, period gameweek.Period) ([]Standing, int, error) {
	var (
		tournaments []Tournament
		teams       []Team
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tournaments, err = e.tournaments.TournamentsBetween(gctx, season.ID, period.Start, period.End)
		if err != nil {
			return fmt.Errorf("failed to load tournaments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		teams, err = e.teams.ActiveTeams(gctx, season.ID)
		if err != nil {
			return fmt.Errorf("failed to load teams: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	ids := countedIDs(tournaments)
	var scores []ScoreRow
	if len(ids) > 0 {
		var err error
		scores, err = e.scores.ScoresFor(ctx, ids)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to load scores: %w", err)
		}
	}

	return Aggregate(tournaments, scores, teams), len(ids), nil
}

// previousRanks returns the ranks to compare the current period against. A
// stored snapshot wins; otherwise the previous period is recomputed. A
// previous period without counted tournaments has no ranks.
func (e *Engine) previousRanks(ctx context.Context, season *Season, period gameweek.Period, now time.Time) (map[string]int, error) {
	prev, ok := comparisonPeriod(period, season, now)
	if !ok {
		return nil, nil
	}

	if e.snapshots != nil {
		ranks, found, err := e.snapshots.LoadSnapshot(ctx, prev.Type, prev.Key)
		if err != nil {
			e.logger.WithError(err).WithField("key", prev.Key).Warn("Failed to load leaderboard snapshot, recomputing")
		} else if found {
			return ranks, nil
		}
	}

	standings, counted, err := e.standings(ctx, season, prev)
	if err != nil {
		return nil, err
	}
	if counted == 0 {
		return nil, nil
	}
	return RankMap(Rank(standings)), nil
}

// comparisonPeriod is the window whose ranks movement is measured against.
// Weeks and months compare with the one before. The season compares with
// the season-to-date standings at the start of the current gameweek.
func comparisonPeriod(period gameweek.Period, season *Season, now time.Time) (gameweek.Period, bool) {
	if period.Type != gameweek.PeriodSeason {
		start := season.StartDate
		prev, ok := gameweek.Previous(period, &start)
		if !ok || !prev.End.After(gameweek.DayStart(season.StartDate)) {
			return gameweek.Period{}, false
		}
		return prev, true
	}

	cutoff := gameweek.SaturdayOfWeek(now)
	if cutoff.After(period.End) {
		cutoff = period.End
	}
	if !cutoff.After(period.Start) {
		return gameweek.Period{}, false
	}
	return gameweek.Period{
		Type:  gameweek.PeriodSeason,
		Start: period.Start,
		End:   cutoff,
		Label: period.Label,
		Key:   cutoff.Format(gameweek.KeyLayout),
	}, true
}

func resolvePeriod(t gameweek.PeriodType, anchor time.Time, season *Season) (gameweek.Period, error) {
	switch t {
	case gameweek.PeriodWeek:
		start := season.StartDate
		return gameweek.WeekPeriod(anchor, &start), nil
	case gameweek.PeriodMonth:
		return gameweek.MonthPeriod(anchor), nil
	case gameweek.PeriodSeason:
		end := season.EndDate
		if end.IsZero() {
			end = season.StartDate.AddDate(1, 0, 0)
		}
		return gameweek.SeasonPeriod(season.StartDate, end, season.Name), nil
	default:
		return gameweek.Period{}, fmt.Errorf("unknown period %q", t)
	}
}

func countedIDs(tournaments []Tournament) []string {
	ids := make([]string, 0, len(tournaments))
	for _, t := range tournaments {
		if t.Status.Counts() {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

func paginate(entries []Entry, page, perPage int) ([]Entry, Meta) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	total := len(entries)
	meta := Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + perPage - 1) / perPage,
	}

	start := (page - 1) * perPage
	if start >= total {
		return []Entry{}, meta
	}
	end := min(start+perPage, total)
	return entries[start:end], meta
}

func periodInfo(p gameweek.Period, hasPrev, hasNext bool) PeriodInfo {
	start, end := p.Start, p.End
	return PeriodInfo{
		Type:        p.Type,
		Key:         p.Key,
		StartDate:   &start,
		EndDate:     &end,
		Label:       p.Label,
		HasPrevious: hasPrev,
		HasNext:     hasNext,
	}
}

func emptyResponse(req Request) *Response {
	return &Response{
		Entries: []Entry{},
		Period:  PeriodInfo{Type: req.Period},
		Meta:    Meta{Page: 1, PerPage: 0},
	}
}
