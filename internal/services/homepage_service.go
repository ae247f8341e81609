package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/souqly/internal/models"
)

var homepageID = models.SingletonID("homepage_configs")

// HomepageService stores the homepage configuration with versioned
// compare-and-swap writes.
type HomepageService struct {
	db      *gorm.DB
	retries int
	newID   IDFunc
}

// NewHomepageService constructs HomepageService. retries bounds CAS attempts
// for writes that do not pin a version.
func NewHomepageService(db *gorm.DB, retries int) *HomepageService {
	if retries < 1 {
		retries = 1
	}
	return &HomepageService{db: db, retries: retries, newID: uuid.NewString}
}

// Get returns the configuration, creating an empty one on first use.
func (s *HomepageService) Get(ctx context.Context) (*models.HomepageConfig, error) {
	cfg, err := s.load(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fresh := models.HomepageConfig{Active: true, Sections: []models.Section{}, Version: 1}
		fresh.ID = homepageID
		if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
			return nil, fmt.Errorf("create homepage config: %w", err)
		}
		log.Info().Stringer("config_id", fresh.ID).Msg("homepage: created default configuration")
		cfg, err = s.load(ctx)
	}
	if err != nil {
		return nil, err
	}

	SortSections(cfg.Sections)
	return cfg, nil
}

func (s *HomepageService) load(ctx context.Context) (*models.HomepageConfig, error) {
	var cfg models.HomepageConfig
	if err := s.db.WithContext(ctx).First(&cfg, "id = ?", homepageID).Error; err != nil {
		return nil, err
	}
	if cfg.Sections == nil {
		cfg.Sections = []models.Section{}
	}
	return &cfg, nil
}

// Mutate applies fn to the current configuration and writes it back only if
// nobody else wrote in between. With expected set, a stale version fails
// immediately with ErrVersionConflict; otherwise the write is retried.
func (s *HomepageService) Mutate(ctx context.Context, action string, expected *int, fn func(cfg *models.HomepageConfig) error) (*models.HomepageConfig, error) {
	attempts := s.retries
	if expected != nil {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		cfg, err := s.Get(ctx)
		if err != nil {
			return nil, err
		}
		if expected != nil && cfg.Version != *expected {
			return nil, fmt.Errorf("%w: have version %d, current is %d", ErrVersionConflict, *expected, cfg.Version)
		}

		if err := fn(cfg); err != nil {
			return nil, err
		}

		now := time.Now()
		res := s.db.WithContext(ctx).Model(&models.HomepageConfig{}).
			Where("id = ? AND version = ?", cfg.ID, cfg.Version).
			Updates(map[string]any{
				"sections":   cfg.Sections,
				"active":     cfg.Active,
				"version":    cfg.Version + 1,
				"updated_at": now,
			})
		if res.Error != nil {
			return nil, fmt.Errorf("save homepage config: %w", res.Error)
		}
		if res.RowsAffected == 1 {
			cfg.Version++
			cfg.UpdatedAt = now
			SortSections(cfg.Sections)
			log.Info().
				Str("action", action).
				Int("version", cfg.Version).
				Int("sections", len(cfg.Sections)).
				Msg("homepage: configuration updated")
			return cfg, nil
		}

		log.Warn().Str("action", action).Int("attempt", attempt).Msg("homepage: concurrent write detected, retrying")
	}

	return nil, ErrVersionConflict
}

// AddSection appends a section.
func (s *HomepageService) AddSection(ctx context.Context, expected *int, in SectionInput) (*models.HomepageConfig, models.Section, error) {
	var added models.Section
	cfg, err := s.Mutate(ctx, "add", expected, func(cfg *models.HomepageConfig) error {
		var err error
		added, err = AddSection(cfg, in, s.newID)
		return err
	})
	return cfg, added, err
}

// UpdateSection merges patch into a section.
func (s *HomepageService) UpdateSection(ctx context.Context, expected *int, id string, patch SectionPatch) (*models.HomepageConfig, models.Section, error) {
	var updated models.Section
	cfg, err := s.Mutate(ctx, "update", expected, func(cfg *models.HomepageConfig) error {
		var err error
		updated, err = UpdateSection(cfg, id, patch)
		return err
	})
	return cfg, updated, err
}

// DeleteSection removes a section.
func (s *HomepageService) DeleteSection(ctx context.Context, expected *int, id string) (*models.HomepageConfig, error) {
	return s.Mutate(ctx, "delete", expected, func(cfg *models.HomepageConfig) error {
		return DeleteSection(cfg, id)
	})
}

// ReorderSections rewrites section orders from ids.
func (s *HomepageService) ReorderSections(ctx context.Context, expected *int, ids []string) (*models.HomepageConfig, error) {
	return s.Mutate(ctx, "reorder", expected, func(cfg *models.HomepageConfig) error {
		return ReorderSections(cfg, ids)
	})
}

// DuplicateSection copies a section next to the original.
func (s *HomepageService) DuplicateSection(ctx context.Context, expected *int, id string) (*models.HomepageConfig, models.Section, error) {
	var clone models.Section
	cfg, err := s.Mutate(ctx, "duplicate", expected, func(cfg *models.HomepageConfig) error {
		var err error
		clone, err = DuplicateSection(cfg, id, s.newID)
		return err
	})
	return cfg, clone, err
}

// ToggleSection flips a section's active flag.
func (s *HomepageService) ToggleSection(ctx context.Context, expected *int, id string) (*models.HomepageConfig, models.Section, error) {
	var toggled models.Section
	cfg, err := s.Mutate(ctx, "toggle", expected, func(cfg *models.HomepageConfig) error {
		var err error
		toggled, err = ToggleSection(cfg, id)
		return err
	})
	return cfg, toggled, err
}

// Replace overwrites the whole configuration.
func (s *HomepageService) Replace(ctx context.Context, expected *int, sections []models.Section, active bool) (*models.HomepageConfig, error) {
	return s.Mutate(ctx, "replace", expected, func(cfg *models.HomepageConfig) error {
		return ReplaceSections(cfg, sections, active, s.newID)
	})
}
