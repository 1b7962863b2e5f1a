package database

import (
	"log"
	"time"

	"github.com/arnavshah/seat-lottery-go/pkg/config"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Entry represents the kv_entries table. Each row holds one JSON document of the lottery state.
type Entry struct {
	Key       string         `gorm:"column:entry_key;primaryKey;size:191" json:"key"`
	Value     datatypes.JSON `gorm:"not null" json:"value"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (Entry) TableName() string {
	return "kv_entries"
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Open connects to postgres when DatabaseURL is set, otherwise to the sqlite file at DataPath,
// and migrates the schema
func Open(cfg config.Config) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	if cfg.DatabaseURL != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DatabaseURL,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		db, err = gorm.Open(sqlite.Open(cfg.DataPath), &gorm.Config{})
	}
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&Entry{}, &MasterUser{}); err != nil {
		return nil, err
	}
	return db, nil
}

// InitDB is Open for process startup: any failure is fatal
func InitDB(cfg config.Config) *gorm.DB {
	db, err := Open(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	return db
}
