package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User mirrors an authenticated account. Credentials live with the identity
// provider; only the display name and role are kept here.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Role      string    `gorm:"size:20;not null;default:'user'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	assignID(&u.ID)
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Team is a user's squad for a season. Saving a new squad deactivates the
// previous one so there is one active team per user and season.
type Team struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_team_user_season" json:"user_id"`
	SeasonID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_team_user_season;index" json:"season_id"`
	GolferIDs  []string   `gorm:"type:text;serializer:json;not null" json:"golfer_ids"`
	CaptainID  *uuid.UUID `gorm:"type:uuid" json:"captain_id"`
	TotalSpent int64      `gorm:"not null" json:"total_spent"`
	IsActive   bool       `gorm:"not null;index" json:"is_active"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Season *Season `gorm:"foreignKey:SeasonID;constraint:OnDelete:CASCADE" json:"-"`
}

func (t *Team) BeforeCreate(tx *gorm.DB) error {
	assignID(&t.ID)
	return nil
}

// HasGolfer reports whether id is in the squad
func (t *Team) HasGolfer(id string) bool {
	for _, g := range t.GolferIDs {
		if g == id {
			return true
		}
	}
	return false
}
