package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pomovity/internal/model"
)

// EntryRepository reads and writes named blobs of device storage.
type EntryRepository struct {
	db *gorm.DB
}

func NewEntryRepository(db *gorm.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Get returns the stored value. ok is false when the key is absent.
func (r *EntryRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var entry model.LocalEntry
	err := r.db.WithContext(ctx).Where("name = ?", key).First(&entry).Error
	switch {
	case err == nil:
		return entry.Value, true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "", false, nil
	default:
		return "", false, fmt.Errorf("get entry %q: %w", key, err)
	}
}

// Set stores value under key, replacing any previous value.
func (r *EntryRepository) Set(ctx context.Context, key, value string) error {
	entry := model.LocalEntry{Name: key, Value: value}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("set entry %q: %w", key, err)
	}
	return nil
}

// Delete removes the given keys. Missing keys are ignored.
func (r *EntryRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("name IN ?", keys).Delete(&model.LocalEntry{}).Error; err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}
	return nil
}
