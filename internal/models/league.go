package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stitts-dev/fantasy-golf/internal/rules"
	"github.com/stitts-dev/fantasy-golf/internal/scoring"
)

// Season bounds a league year. At most one season is active at a time.
type Season struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	IsActive  bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Season) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}

// TournamentStatus is the publication state of a tournament
type TournamentStatus string

const (
	TournamentDraft     TournamentStatus = "draft"
	TournamentPublished TournamentStatus = "published"
	TournamentComplete  TournamentStatus = "complete"
)

// CanTransition reports whether a tournament may move from s to next.
// Complete tournaments may be reopened to published for corrections.
func (s TournamentStatus) CanTransition(next TournamentStatus) bool {
	switch s {
	case TournamentDraft:
		return next == TournamentPublished
	case TournamentPublished:
		return next == TournamentComplete || next == TournamentDraft
	case TournamentComplete:
		return next == TournamentPublished
	default:
		return false
	}
}

func ParseTournamentStatus(s string) (TournamentStatus, bool) {
	switch st := TournamentStatus(s); st {
	case TournamentDraft, TournamentPublished, TournamentComplete:
		return st, true
	default:
		return "", false
	}
}

// Tournament is one scored event. Multiplier is copied from the rule table
// when the tournament is created and stored rather than recomputed.
type Tournament struct {
	ID            uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	SeasonID      uuid.UUID            `gorm:"type:uuid;not null;index:idx_tournament_season_start" json:"season_id"`
	Name          string               `gorm:"size:150;not null" json:"name"`
	Type          rules.TournamentType `gorm:"type:varchar(50);not null" json:"tournament_type"`
	ScoringFormat rules.ScoringFormat  `gorm:"type:varchar(20);not null" json:"scoring_format"`
	IsMultiDay    bool                 `gorm:"not null" json:"is_multi_day"`
	Multiplier    int                  `gorm:"not null" json:"multiplier"`
	Status        TournamentStatus     `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	StartDate     time.Time            `gorm:"not null;index:idx_tournament_season_start" json:"start_date"`
	Field         []string             `gorm:"type:text;serializer:json" json:"participating_golfer_ids"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`

	Season *Season `gorm:"foreignKey:SeasonID;constraint:OnDelete:CASCADE" json:"-"`
}

func (t *Tournament) BeforeCreate(tx *gorm.DB) error {
	assignID(&t.ID)
	return nil
}

// ScoringContext returns the settings points are computed with
func (t *Tournament) ScoringContext() scoring.Context {
	return scoring.Context{
		Format:     t.ScoringFormat,
		MultiDay:   t.IsMultiDay,
		Multiplier: t.Multiplier,
	}
}

// Score is one golfer's result in one tournament. Points columns are derived
// and rewritten together with the rest of the tournament's rows.
type Score struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TournamentID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_score_tournament_golfer" json:"tournament_id"`
	GolferID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_score_tournament_golfer;index" json:"golfer_id"`
	Participated     bool      `gorm:"not null" json:"participated"`
	Position         *int      `json:"position"`
	RawScore         *float64  `json:"raw_score"`
	BasePoints       int       `gorm:"not null" json:"base_points"`
	BonusPoints      int       `gorm:"not null" json:"bonus_points"`
	MultipliedPoints int       `gorm:"not null" json:"multiplied_points"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Tournament *Tournament `gorm:"foreignKey:TournamentID;constraint:OnDelete:CASCADE" json:"-"`
}

func (s *Score) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}

// NewScore builds the row for a scored result
func NewScore(tournamentID, golferID uuid.UUID, scored scoring.Scored) Score {
	return Score{
		TournamentID:     tournamentID,
		GolferID:         golferID,
		Participated:     scored.Participated,
		Position:         scored.Position,
		RawScore:         scored.RawScore,
		BasePoints:       scored.Base,
		BonusPoints:      scored.Bonus,
		MultipliedPoints: scored.Multiplied,
	}
}
