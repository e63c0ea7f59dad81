// Package leaderboard ranks users over week, month and season windows and
// tracks how their rank moved since the previous window.
package leaderboard

import (
	"context"
	"time"

	"github.com/stitts-dev/fantasy-golf/internal/gameweek"
)

type TournamentStatus string

const (
	StatusDraft     TournamentStatus = "draft"
	StatusPublished TournamentStatus = "published"
	StatusComplete  TournamentStatus = "complete"
)

// Counts reports whether tournaments in this status contribute points
func (s TournamentStatus) Counts() bool {
	return s == StatusPublished || s == StatusComplete
}

type Season struct {
	ID        string
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

type Tournament struct {
	ID        string
	StartDate time.Time
	Status    TournamentStatus
}

// ScoreRow is the persisted outcome of one golfer in one tournament
type ScoreRow struct {
	TournamentID     string
	GolferID         string
	MultipliedPoints int
}

type Team struct {
	UserID    string
	Username  string
	GolferIDs []string
	CaptainID *string
}

// SeasonProvider returns the active season, or nil when none is active
type SeasonProvider interface {
	ActiveSeason(ctx context.Context) (*Season, error)
}

// TournamentSource lists a season's counted tournaments starting in [start, end)
type TournamentSource interface {
	TournamentsBetween(ctx context.Context, seasonID string, start, end time.Time) ([]Tournament, error)
}

type ScoreSource interface {
	ScoresFor(ctx context.Context, tournamentIDs []string) ([]ScoreRow, error)
}

type TeamSource interface {
	ActiveTeams(ctx context.Context, seasonID string) ([]Team, error)
}

// SnapshotStore keeps ranks computed for closed periods, keyed by period type
// and period key
type SnapshotStore interface {
	LoadSnapshot(ctx context.Context, periodType gameweek.PeriodType, key string) (map[string]int, bool, error)
	SaveSnapshot(ctx context.Context, periodType gameweek.PeriodType, key string, ranks map[string]int) error
}

type Movement string

const (
	MovementUp   Movement = "up"
	MovementDown Movement = "down"
	MovementSame Movement = "same"
	MovementNew  Movement = "new"
)

// Standing is a user's unranked total for a period
type Standing struct {
	UserID   string
	Username string
	Points   int
}

type Entry struct {
	UserID       string   `json:"userId"`
	Username     string   `json:"username"`
	Points       int      `json:"points"`
	Rank         int      `json:"rank"`
	PreviousRank *int     `json:"previousRank"`
	Movement     Movement `json:"movement"`
	Change       int      `json:"change"`
}

type Request struct {
	Period  gameweek.PeriodType
	Anchor  *time.Time
	Page    int
	PerPage int
}

type PeriodInfo struct {
	Type        gameweek.PeriodType `json:"type"`
	Key         string              `json:"key,omitempty"`
	StartDate   *time.Time          `json:"startDate"`
	EndDate     *time.Time          `json:"endDate"`
	Label       string              `json:"label"`
	HasPrevious bool                `json:"hasPrevious"`
	HasNext     bool                `json:"hasNext"`
}

type Meta struct {
	SeasonID   string `json:"seasonId,omitempty"`
	Page       int    `json:"page"`
	PerPage    int    `json:"perPage"`
	Total      int    `json:"total"`
	TotalPages int    `json:"totalPages"`
}

type Response struct {
	Entries []Entry    `json:"entries"`
	Period  PeriodInfo `json:"period"`
	Meta    Meta       `json:"meta"`
}
