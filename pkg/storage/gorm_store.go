package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/arnavshah/seat-lottery-go/pkg/database"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps documents in the kv_entries table of a SQL database
type GormStore struct {
	DB *gorm.DB
}

// NewGormStore wraps an already migrated connection (see database.InitDB)
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

// Save upserts the document in a single statement (supported by both Postgres and SQLite)
func (s *GormStore) Save(key string, value []byte) error {
	entry := database.Entry{
		Key:       key,
		Value:     datatypes.JSON(value),
		UpdatedAt: time.Now(),
	}
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) Load(key string) ([]byte, bool, error) {
	var entry database.Entry
	err := s.DB.Where(&database.Entry{Key: key}).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", key, err)
	}
	return []byte(entry.Value), true, nil
}

func (s *GormStore) Remove(key string) error {
	if err := s.DB.Where(&database.Entry{Key: key}).Delete(&database.Entry{}).Error; err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
