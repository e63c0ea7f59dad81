package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LeaderboardSnapshot stores the ranks of a closed leaderboard period so
// movement can be read back instead of recomputed. One row per season, period
// type and period key.
type LeaderboardSnapshot struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SeasonID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_snapshot_period" json:"season_id"`
	PeriodType string         `gorm:"size:10;not null;uniqueIndex:idx_snapshot_period" json:"period_type"`
	PeriodKey  string         `gorm:"size:10;not null;uniqueIndex:idx_snapshot_period" json:"period_key"`
	Ranks      datatypes.JSON `json:"ranks"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (s *LeaderboardSnapshot) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}

// RankMap decodes the stored ranks keyed by user id
func (s *LeaderboardSnapshot) RankMap() (map[string]int, error) {
	ranks := map[string]int{}
	if len(s.Ranks) == 0 {
		return ranks, nil
	}
	if err := json.Unmarshal(s.Ranks, &ranks); err != nil {
		return nil, err
	}
	return ranks, nil
}

// SetRanks encodes ranks into the JSON column
func (s *LeaderboardSnapshot) SetRanks(ranks map[string]int) error {
	data, err := json.Marshal(ranks)
	if err != nil {
		return err
	}
	s.Ranks = datatypes.JSON(data)
	return nil
}
