package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/souqly/internal/models"
)

func sequentialIDs(prefix string) IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func configWith(sections ...models.Section) *models.HomepageConfig {
	return &models.HomepageConfig{Active: true, Sections: sections, Version: 1}
}

func section(id string, typ models.SectionType, order int) models.Section {
	return models.Section{ID: id, Type: typ, Order: order, Active: true, Settings: map[string]any{}, Content: map[string]any{}}
}

func orders(cfg *models.HomepageConfig) map[string]int {
	out := make(map[string]int, len(cfg.Sections))
	for _, s := range cfg.Sections {
		out[s.ID] = s.Order
	}
	return out
}

func TestAddSection_AppendsWithNextOrder(t *testing.T) {
	cfg := configWith(section("hero", models.SectionHero, 1))

	added, err := AddSection(cfg, SectionInput{Type: models.SectionBanner}, sequentialIDs("new-"))
	require.NoError(t, err)

	require.Len(t, cfg.Sections, 2)
	assert.Equal(t, "new-1", added.ID)
	assert.Equal(t, 2, added.Order)
	assert.True(t, added.Active)
	assert.NotNil(t, added.Settings)
	assert.NotNil(t, added.Content)
}

func TestAddSection_ExplicitOrderAndInactive(t *testing.T) {
	cfg := configWith(section("hero", models.SectionHero, 1))
	inactive := false

	added, err := AddSection(cfg, SectionInput{Type: models.SectionText, Order: 7, Active: &inactive}, sequentialIDs("s"))
	require.NoError(t, err)

	assert.Equal(t, 7, added.Order)
	assert.False(t, added.Active)
}

func TestAddSection_RejectsUnknownType(t *testing.T) {
	cfg := configWith()

	_, err := AddSection(cfg, SectionInput{Type: "carousel"}, sequentialIDs("s"))

	assert.ErrorIs(t, err, ErrInvalidSectionType)
	assert.Empty(t, cfg.Sections)
}

func TestAddSection_UniqueIDsUnderRapidCalls(t *testing.T) {
	cfg := configWith()
	gen := sequentialIDs("id-")
	for i := 0; i < 50; i++ {
		_, err := AddSection(cfg, SectionInput{Type: models.SectionText}, gen)
		require.NoError(t, err)
	}

	seen := map[string]bool{}
	for _, s := range cfg.Sections {
		assert.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true
	}
}

func TestUpdateSection_ShallowMerge(t *testing.T) {
	cfg := configWith(section("a", models.SectionHero, 1))
	cfg.Sections[0].Title = "Old"
	cfg.Sections[0].Settings = map[string]any{"autoplay": true}
	title := "New"

	updated, err := UpdateSection(cfg, "a", SectionPatch{Title: &title, Content: map[string]any{"image": "x.png"}})
	require.NoError(t, err)

	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, models.SectionHero, updated.Type)
	assert.Equal(t, map[string]any{"autoplay": true}, updated.Settings)
	assert.Equal(t, map[string]any{"image": "x.png"}, updated.Content)
	assert.Equal(t, "New", cfg.Sections[0].Title)
}

func TestUpdateSection_Errors(t *testing.T) {
	cfg := configWith(section("a", models.SectionHero, 1))
	bad := models.SectionType("slider")

	_, err := UpdateSection(cfg, "missing", SectionPatch{})
	assert.ErrorIs(t, err, ErrSectionNotFound)

	_, err = UpdateSection(cfg, "a", SectionPatch{Type: &bad})
	assert.ErrorIs(t, err, ErrInvalidSectionType)
	assert.Equal(t, models.SectionHero, cfg.Sections[0].Type)
}

func TestDeleteSection_LeavesGaps(t *testing.T) {
	cfg := configWith(
		section("a", models.SectionHero, 1),
		section("b", models.SectionBanner, 2),
		section("c", models.SectionText, 3),
	)

	require.NoError(t, DeleteSection(cfg, "b"))

	assert.Equal(t, map[string]int{"a": 1, "c": 3}, orders(cfg))
	assert.ErrorIs(t, DeleteSection(cfg, "b"), ErrSectionNotFound)
}

func TestReorderSections(t *testing.T) {
	cfg := configWith(
		section("a", models.SectionHero, 1),
		section("b", models.SectionBanner, 2),
		section("c", models.SectionText, 3),
	)

	require.NoError(t, ReorderSections(cfg, []string{"c", "a", "b"}))

	assert.Equal(t, map[string]int{"c": 1, "a": 2, "b": 3}, orders(cfg))
	assert.Equal(t, "c", cfg.Sections[0].ID)
}

func TestReorderSections_RejectsNonPermutation(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
	}{
		{"too_few", []string{"a", "b"}},
		{"duplicate", []string{"a", "a", "b"}},
		{"unknown", []string{"a", "b", "z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := configWith(
				section("a", models.SectionHero, 1),
				section("b", models.SectionBanner, 2),
				section("c", models.SectionText, 3),
			)
			err := ReorderSections(cfg, tt.ids)
			assert.ErrorIs(t, err, ErrInvalidReorder)
			assert.Equal(t, map[string]int{"a": 1, "b": 2, "c": 3}, orders(cfg))
		})
	}
}

func TestDuplicateSection_InsertsAfterAndRenumbers(t *testing.T) {
	cfg := configWith(
		section("a", models.SectionHero, 1),
		section("c", models.SectionText, 5),
		section("b", models.SectionBanner, 3),
	)
	cfg.Sections[2].Settings = map[string]any{"nested": map[string]any{"k": "v"}}

	clone, err := DuplicateSection(cfg, "b", sequentialIDs("copy-"))
	require.NoError(t, err)

	require.Len(t, cfg.Sections, 4)
	assert.Equal(t, "copy-1", clone.ID)
	assert.Equal(t, models.SectionBanner, clone.Type)

	ids := make([]string, 0, 4)
	for i, s := range cfg.Sections {
		assert.Equal(t, i+1, s.Order)
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"a", "b", "copy-1", "c"}, ids)

	// The copy must not share nested maps with the original.
	clone.Settings["nested"].(map[string]any)["k"] = "changed"
	assert.Equal(t, "v", cfg.Sections[1].Settings["nested"].(map[string]any)["k"])
}

func TestDuplicateSection_NotFound(t *testing.T) {
	cfg := configWith(section("a", models.SectionHero, 1))

	_, err := DuplicateSection(cfg, "zzz", sequentialIDs("x"))

	assert.ErrorIs(t, err, ErrSectionNotFound)
	assert.Len(t, cfg.Sections, 1)
}

func TestToggleSection_FlipsEachCall(t *testing.T) {
	cfg := configWith(section("a", models.SectionHero, 1))

	first, err := ToggleSection(cfg, "a")
	require.NoError(t, err)
	assert.False(t, first.Active)

	second, err := ToggleSection(cfg, "a")
	require.NoError(t, err)
	assert.True(t, second.Active)

	_, err = ToggleSection(cfg, "b")
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestReplaceSections(t *testing.T) {
	cfg := configWith(section("old", models.SectionHero, 1))

	err := ReplaceSections(cfg, []models.Section{
		{Type: models.SectionDeals},
		{ID: "keep", Type: models.SectionProducts},
		{ID: "keep", Type: models.SectionImageGrid},
	}, false, sequentialIDs("gen-"))
	require.NoError(t, err)

	assert.False(t, cfg.Active)
	require.Len(t, cfg.Sections, 3)
	assert.Equal(t, "gen-1", cfg.Sections[0].ID)
	assert.Equal(t, "keep", cfg.Sections[1].ID)
	assert.Equal(t, "gen-2", cfg.Sections[2].ID)
	for i, s := range cfg.Sections {
		assert.Equal(t, i+1, s.Order)
		assert.NotNil(t, s.Settings)
	}
}

func TestReplaceSections_KeepsExplicitOrder(t *testing.T) {
	cfg := configWith()

	err := ReplaceSections(cfg, []models.Section{
		{ID: "x", Type: models.SectionText, Order: 2},
		{ID: "y", Type: models.SectionHero, Order: 1},
	}, true, sequentialIDs("g"))
	require.NoError(t, err)

	assert.Equal(t, "y", cfg.Sections[0].ID)
	assert.Equal(t, "x", cfg.Sections[1].ID)
}

func TestReplaceSections_MixedOrdersStayDense(t *testing.T) {
	cfg := configWith()

	err := ReplaceSections(cfg, []models.Section{
		{ID: "a", Type: models.SectionBanner},
		{ID: "b", Type: models.SectionHero, Order: 5},
		{ID: "c", Type: models.SectionText},
		{ID: "d", Type: models.SectionDeals, Order: 2},
	}, true, sequentialIDs("g"))
	require.NoError(t, err)

	var ids []string
	for i, s := range cfg.Sections {
		ids = append(ids, s.ID)
		assert.Equal(t, i+1, s.Order)
	}
	assert.Equal(t, []string{"d", "b", "a", "c"}, ids)
}

func TestReplaceSections_RejectsUnknownType(t *testing.T) {
	cfg := configWith(section("old", models.SectionHero, 1))

	err := ReplaceSections(cfg, []models.Section{{Type: "video"}}, true, sequentialIDs("g"))

	assert.ErrorIs(t, err, ErrInvalidSectionType)
	assert.Equal(t, "old", cfg.Sections[0].ID)
}
