package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// StateEntry is one persisted key in the sqlite file.
type StateEntry struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (StateEntry) TableName() string {
	return "fitperso_state"
}

type SqliteKV struct {
	db *gorm.DB
}

func NewSqliteKV(path string) (*SqliteKV, error) {
	if path == "" {
		return nil, errors.New("sqlite path empty")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite [%s]: %w", path, err)
	}

	if err := db.AutoMigrate(&StateEntry{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	return &SqliteKV{
		db: db,
	}, nil
}

func (kv *SqliteKV) Get(ctx context.Context, key string) (string, bool, error) {
	var entry StateEntry
	err := kv.db.WithContext(ctx).Where(clause.Eq{Column: "key", Value: key}).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (kv *SqliteKV) Set(ctx context.Context, key, value string) error {
	entry := StateEntry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return kv.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

func (kv *SqliteKV) Close() error {
	sqlDB, err := kv.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
