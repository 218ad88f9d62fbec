package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/squareeyes/storefront/pkg/db"
)

// Record is the row shape for the database-backed store.
type Record struct {
	Key       string `gorm:"primaryKey;size:255"`
	Value     []byte
	UpdatedAt time.Time
}

// TableName keeps the table name stable across gorm naming strategies.
func (Record) TableName() string {
	return "kv_records"
}

// DB is a Store persisted through the shared GORM client, so cart and
// favourites state survive process restarts without a Redis dependency.
type DB struct {
	client *db.Client
}

// NewDB migrates the backing table and returns the store.
func NewDB(ctx context.Context, client *db.Client) (*DB, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if err := client.DB().WithContext(ctx).AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrating kv table: %w", err)
	}
	return &DB{client: client}, nil
}

func (d *DB) Get(ctx context.Context, key string) ([]byte, error) {
	var record Record
	err := d.client.DB().WithContext(ctx).First(&record, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return record.Value, nil
}

func (d *DB) Set(ctx context.Context, key string, value []byte) error {
	record := Record{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return d.client.DB().WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
}

func (d *DB) Delete(ctx context.Context, key string) error {
	return d.client.DB().WithContext(ctx).Delete(&Record{}, "key = ?", key).Error
}

// Ping verifies the datasource is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx)
}
