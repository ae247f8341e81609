package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/souqly/internal/models"
)

// SettingsPtr is satisfied by pointers to settings documents.
type SettingsPtr[T any] interface {
	*T
	models.Singleton
}

func singletonName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().Name()
}

// LoadSettings returns the settings document of type T, storing the defaults
// the first time it is requested.
func LoadSettings[T any, P SettingsPtr[T]](ctx context.Context, db *gorm.DB) (P, error) {
	id := models.SingletonID(singletonName[T]())

	var doc T
	p := P(&doc)
	err := db.WithContext(ctx).First(p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var fresh T
		fp := P(&fresh)
		fp.InitDefaults()
		fp.Base().ID = id
		if err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(fp).Error; err != nil {
			return nil, fmt.Errorf("create %s: %w", singletonName[T](), err)
		}
		log.Info().Str("settings", singletonName[T]()).Msg("settings: stored defaults")
		err = db.WithContext(ctx).First(p, "id = ?", id).Error
	}
	if err != nil {
		return nil, err
	}

	p.ApplyDefaults()
	return p, nil
}

// SaveSettings replaces the settings document of type T with input.
// The row id and creation time are kept.
func SaveSettings[T any, P SettingsPtr[T]](ctx context.Context, db *gorm.DB, input P) (P, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSettings, err.Error())
	}

	existing, err := LoadSettings[T, P](ctx, db)
	if err != nil {
		return nil, err
	}

	base := input.Base()
	base.ID = existing.Base().ID
	base.CreatedAt = existing.Base().CreatedAt

	if err := db.WithContext(ctx).Save(input).Error; err != nil {
		return nil, fmt.Errorf("save %s: %w", singletonName[T](), err)
	}
	log.Info().Str("settings", singletonName[T]()).Msg("settings: updated")

	input.ApplyDefaults()
	return input, nil
}
