package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/bangalorecabs/service-booking/pkg/maps"
)

// PlaceLookupModel is the GORM model for cached autocomplete lookups. Only
// place lookups are ever persisted; bookings never touch the database.
type PlaceLookupModel struct {
	Key        string          `gorm:"primaryKey;size:300"`
	Candidates json.RawMessage `gorm:"type:jsonb;not null"`
	ExpiresAt  time.Time       `gorm:"index;not null"`
	CreatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (PlaceLookupModel) TableName() string {
	return "place_lookups"
}

// GormPlaceCacheRepository is the GORM-based autocomplete cache. Entries
// expire after a TTL; expired rows are treated as misses and overwritten on
// the next write.
type GormPlaceCacheRepository struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewGormPlaceCacheRepository creates a GormPlaceCacheRepository with the
// given entry TTL.
func NewGormPlaceCacheRepository(db *gorm.DB, ttl time.Duration) *GormPlaceCacheRepository {
	return &GormPlaceCacheRepository{db: db, ttl: ttl}
}

// Get returns the cached candidate list for the key, or a miss when the key
// is absent or expired.
func (r *GormPlaceCacheRepository) Get(ctx context.Context, key string) ([]maps.Candidate, bool, error) {
	var model PlaceLookupModel
	err := r.db.WithContext(ctx).
		Where("key = ? AND expires_at > ?", key, time.Now().UTC()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read place lookup: %w", err)
	}

	var candidates []maps.Candidate
	if err := json.Unmarshal(model.Candidates, &candidates); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached candidates: %w", err)
	}
	return candidates, true, nil
}

// Put stores the candidate list under the key, replacing any previous entry.
func (r *GormPlaceCacheRepository) Put(ctx context.Context, key string, candidates []maps.Candidate) error {
	data, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("failed to marshal candidates: %w", err)
	}

	now := time.Now().UTC()
	model := PlaceLookupModel{
		Key:        key,
		Candidates: data,
		ExpiresAt:  now.Add(r.ttl),
		CreatedAt:  now,
	}

	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return fmt.Errorf("failed to save place lookup: %w", err)
	}
	return nil
}

// PurgeExpired deletes rows past their expiry. Intended for a periodic
// maintenance call from the server loop.
func (r *GormPlaceCacheRepository) PurgeExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now().UTC()).
		Delete(&PlaceLookupModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge expired place lookups: %w", result.Error)
	}
	return result.RowsAffected, nil
}
