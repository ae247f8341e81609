package services

import (
	"fmt"
	"slices"
	"sort"

	"github.com/example/souqly/internal/models"
)

// IDFunc generates identifiers for new sections.
type IDFunc func() string

// SectionInput describes a section to add.
type SectionInput struct {
	Type     models.SectionType `json:"type" validate:"required"`
	Title    string             `json:"title"`
	Subtitle string             `json:"subtitle"`
	Order    int                `json:"order" validate:"gte=0"`
	Active   *bool              `json:"active"`
	Settings map[string]any     `json:"settings"`
	Content  map[string]any     `json:"content"`
}

// SectionPatch holds the fields an update overwrites; nil fields are left alone.
type SectionPatch struct {
	Type     *models.SectionType `json:"type"`
	Title    *string             `json:"title"`
	Subtitle *string             `json:"subtitle"`
	Order    *int                `json:"order" validate:"omitnil,gte=0"`
	Active   *bool               `json:"active"`
	Settings map[string]any      `json:"settings"`
	Content  map[string]any      `json:"content"`
}

// SortSections orders sections by their order field, keeping ties stable.
func SortSections(sections []models.Section) {
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Order < sections[j].Order
	})
}

func findSection(cfg *models.HomepageConfig, id string) int {
	return slices.IndexFunc(cfg.Sections, func(s models.Section) bool { return s.ID == id })
}

func validateType(t models.SectionType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSectionType, t)
	}
	return nil
}

// AddSection appends a section. Without an explicit order it goes last (len+1).
func AddSection(cfg *models.HomepageConfig, in SectionInput, newID IDFunc) (models.Section, error) {
	if err := validateType(in.Type); err != nil {
		return models.Section{}, err
	}

	section := models.Section{
		ID:       newID(),
		Type:     in.Type,
		Title:    in.Title,
		Subtitle: in.Subtitle,
		Order:    in.Order,
		Active:   true,
		Settings: nonNilMap(in.Settings),
		Content:  nonNilMap(in.Content),
	}
	if section.Order <= 0 {
		section.Order = len(cfg.Sections) + 1
	}
	if in.Active != nil {
		section.Active = *in.Active
	}

	cfg.Sections = append(cfg.Sections, section)
	return section, nil
}

// UpdateSection merges the supplied fields into the section with the given id.
func UpdateSection(cfg *models.HomepageConfig, id string, patch SectionPatch) (models.Section, error) {
	idx := findSection(cfg, id)
	if idx < 0 {
		return models.Section{}, ErrSectionNotFound
	}
	if patch.Type != nil {
		if err := validateType(*patch.Type); err != nil {
			return models.Section{}, err
		}
	}

	s := &cfg.Sections[idx]
	if patch.Type != nil {
		s.Type = *patch.Type
	}
	if patch.Title != nil {
		s.Title = *patch.Title
	}
	if patch.Subtitle != nil {
		s.Subtitle = *patch.Subtitle
	}
	if patch.Order != nil {
		s.Order = *patch.Order
	}
	if patch.Active != nil {
		s.Active = *patch.Active
	}
	if patch.Settings != nil {
		s.Settings = patch.Settings
	}
	if patch.Content != nil {
		s.Content = patch.Content
	}
	return *s, nil
}

// DeleteSection removes a section. Remaining orders keep their gaps.
func DeleteSection(cfg *models.HomepageConfig, id string) error {
	idx := findSection(cfg, id)
	if idx < 0 {
		return ErrSectionNotFound
	}
	cfg.Sections = slices.Delete(cfg.Sections, idx, idx+1)
	return nil
}

// ReorderSections assigns order = position+1 following ids, which must name
// every section exactly once.
func ReorderSections(cfg *models.HomepageConfig, ids []string) error {
	if len(ids) != len(cfg.Sections) {
		return fmt.Errorf("%w: got %d ids for %d sections", ErrInvalidReorder, len(ids), len(cfg.Sections))
	}

	position := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, dup := position[id]; dup {
			return fmt.Errorf("%w: %q listed twice", ErrInvalidReorder, id)
		}
		position[id] = i
	}
	for _, s := range cfg.Sections {
		if _, ok := position[s.ID]; !ok {
			return fmt.Errorf("%w: %q missing", ErrInvalidReorder, s.ID)
		}
	}

	for i := range cfg.Sections {
		cfg.Sections[i].Order = position[cfg.Sections[i].ID] + 1
	}
	SortSections(cfg.Sections)
	return nil
}

// DuplicateSection inserts a copy right after the original and renumbers
// every section from 1.
func DuplicateSection(cfg *models.HomepageConfig, id string, newID IDFunc) (models.Section, error) {
	SortSections(cfg.Sections)
	idx := findSection(cfg, id)
	if idx < 0 {
		return models.Section{}, ErrSectionNotFound
	}

	clone := cfg.Sections[idx]
	clone.ID = newID()
	clone.Settings = copyMap(clone.Settings)
	clone.Content = copyMap(clone.Content)

	cfg.Sections = slices.Insert(cfg.Sections, idx+1, clone)
	renumber(cfg.Sections)
	return cfg.Sections[idx+1], nil
}

// ToggleSection flips the active flag of a section.
func ToggleSection(cfg *models.HomepageConfig, id string) (models.Section, error) {
	idx := findSection(cfg, id)
	if idx < 0 {
		return models.Section{}, ErrSectionNotFound
	}
	cfg.Sections[idx].Active = !cfg.Sections[idx].Active
	return cfg.Sections[idx], nil
}

// ReplaceSections swaps in a whole section list. Missing or repeated ids are
// regenerated. Sections without an order follow the ordered ones in list
// position, and the result is renumbered 1..N.
func ReplaceSections(cfg *models.HomepageConfig, sections []models.Section, active bool, newID IDFunc) error {
	seen := make(map[string]bool, len(sections))
	highest := 0
	next := make([]models.Section, len(sections))

	for i, s := range sections {
		if err := validateType(s.Type); err != nil {
			return err
		}
		if s.ID == "" || seen[s.ID] {
			s.ID = newID()
		}
		seen[s.ID] = true
		if s.Order > highest {
			highest = s.Order
		}
		s.Settings = nonNilMap(s.Settings)
		s.Content = nonNilMap(s.Content)
		next[i] = s
	}

	for i := range next {
		if next[i].Order <= 0 {
			highest++
			next[i].Order = highest
		}
	}
	SortSections(next)
	renumber(next)

	cfg.Sections = next
	cfg.Active = active
	return nil
}

func renumber(sections []models.Section) {
	for i := range sections {
		sections[i].Order = i + 1
	}
}

func nonNilMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyMap(val)
	case []any:
		out := make([]any, len(val))
		for i := range val {
			out[i] = copyValue(val[i])
		}
		return out
	default:
		return val
	}
}
