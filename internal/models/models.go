package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AllModels lists every table in migration order
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Season{},
		&Golfer{},
		&Tournament{},
		&Score{},
		&Team{},
		&LeaderboardSnapshot{},
	}
}

// AutoMigrate creates or updates every table
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
