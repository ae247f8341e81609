package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/souqly/internal/database/dbtest"
	"github.com/example/souqly/internal/models"
)

func TestHomepageService_GetCreatesEmptyConfig(t *testing.T) {
	svc := NewHomepageService(dbtest.Open(t), 3)

	cfg, err := svc.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, homepageID, cfg.ID)
	assert.Equal(t, 1, cfg.Version)
	assert.True(t, cfg.Active)
	assert.Empty(t, cfg.Sections)

	again, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cfg.ID, again.ID)
}

func TestHomepageService_ConcurrentAddsAreAllKept(t *testing.T) {
	const writers = 12
	svc := NewHomepageService(dbtest.Open(t), writers*2)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := svc.AddSection(ctx, nil, SectionInput{Type: models.SectionText, Title: fmt.Sprintf("s%d", i)})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	cfg, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, cfg.Sections, writers)
	assert.Equal(t, writers+1, cfg.Version)
}

func TestHomepageService_StalePinnedVersionConflicts(t *testing.T) {
	svc := NewHomepageService(dbtest.Open(t), 3)
	ctx := context.Background()

	first, added, err := svc.AddSection(ctx, nil, SectionInput{Type: models.SectionHero})
	require.NoError(t, err)
	require.Equal(t, 2, first.Version)

	stale := 1
	_, _, err = svc.ToggleSection(ctx, &stale, added.ID)
	assert.ErrorIs(t, err, ErrVersionConflict)

	cfg, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Version)
	assert.True(t, cfg.Sections[0].Active, "rejected write must not be stored")

	current := 2
	cfg, toggled, err := svc.ToggleSection(ctx, &current, added.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Active)
	assert.Equal(t, 3, cfg.Version)
}

func TestHomepageService_UnpinnedWriteRetriesAfterConcurrentChange(t *testing.T) {
	svc := NewHomepageService(dbtest.Open(t), 2)
	ctx := context.Background()

	calls := 0
	cfg, err := svc.Mutate(ctx, "test", nil, func(cfg *models.HomepageConfig) error {
		calls++
		if calls == 1 {
			// Another writer lands between our read and our write.
			_, _, err := svc.AddSection(ctx, nil, SectionInput{Type: models.SectionBanner})
			require.NoError(t, err)
		}
		_, err := AddSection(cfg, SectionInput{Type: models.SectionDeals}, svc.newID)
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.Len(t, cfg.Sections, 2)
	assert.Equal(t, 3, cfg.Version)
}

func TestHomepageService_RetriesExhausted(t *testing.T) {
	svc := NewHomepageService(dbtest.Open(t), 1)
	ctx := context.Background()

	_, err := svc.Mutate(ctx, "test", nil, func(cfg *models.HomepageConfig) error {
		_, _, err := svc.AddSection(ctx, nil, SectionInput{Type: models.SectionBanner})
		require.NoError(t, err)
		return nil
	})
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestHomepageService_ReplaceStoresInactiveFlag(t *testing.T) {
	svc := NewHomepageService(dbtest.Open(t), 3)
	ctx := context.Background()

	_, err := svc.Replace(ctx, nil, []models.Section{{Type: models.SectionHero}, {Type: models.SectionText}}, false)
	require.NoError(t, err)

	cfg, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.False(t, cfg.Active)
	assert.Len(t, cfg.Sections, 2)
}

func TestHomepageService_MissingSection(t *testing.T) {
	svc := NewHomepageService(dbtest.Open(t), 3)

	_, err := svc.DeleteSection(context.Background(), nil, "nope")
	assert.ErrorIs(t, err, ErrSectionNotFound)
}
