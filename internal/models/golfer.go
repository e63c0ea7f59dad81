package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stitts-dev/fantasy-golf/internal/pricing"
	"github.com/stitts-dev/fantasy-golf/internal/scoring"
)

// Golfer is a pickable player with a market price and season counters
type Golfer struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null;index" json:"name"`
	Price        int64     `gorm:"not null" json:"price"`
	IsActive     bool      `gorm:"not null;index" json:"is_active"`
	TimesPlayed  int       `gorm:"not null" json:"times_played"`
	FirstPlaces  int       `gorm:"not null" json:"first_places"`
	SecondPlaces int       `gorm:"not null" json:"second_places"`
	ThirdPlaces  int       `gorm:"not null" json:"third_places"`
	BonusHits    int       `gorm:"not null" json:"bonus_hits"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (g *Golfer) BeforeCreate(tx *gorm.DB) error {
	assignID(&g.ID)
	if g.Price == 0 {
		g.Price = pricing.MinPrice
	}
	return nil
}

// SetCounters replaces the season counters
func (g *Golfer) SetCounters(c scoring.Counters) {
	g.TimesPlayed = c.Played
	g.FirstPlaces = c.FirstPlaces
	g.SecondPlaces = c.SecondPlaces
	g.ThirdPlaces = c.ThirdPlaces
	g.BonusHits = c.BonusHits
}
