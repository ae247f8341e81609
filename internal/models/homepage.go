package models

import "gorm.io/datatypes"

// SectionType names the kind of content block a homepage section renders.
type SectionType string

const (
	SectionHero            SectionType = "hero"
	SectionCategories      SectionType = "categories"
	SectionProducts        SectionType = "products"
	SectionBanner          SectionType = "banner"
	SectionText            SectionType = "text"
	SectionImageGrid       SectionType = "imageGrid"
	SectionExclusiveOffers SectionType = "exclusiveOffers"
	SectionDeals           SectionType = "deals"
)

func (t SectionType) Valid() bool {
	switch t {
	case SectionHero, SectionCategories, SectionProducts, SectionBanner,
		SectionText, SectionImageGrid, SectionExclusiveOffers, SectionDeals:
		return true
	}
	return false
}

// Section is one configurable block of the homepage.
type Section struct {
	ID       string         `json:"id"`
	Type     SectionType    `json:"type"`
	Title    string         `json:"title,omitempty"`
	Subtitle string         `json:"subtitle,omitempty"`
	Order    int            `json:"order"`
	Active   bool           `json:"active"`
	Settings map[string]any `json:"settings"`
	Content  map[string]any `json:"content"`
}

// HomepageConfig is the singleton homepage layout. Version increments on every write.
type HomepageConfig struct {
	BaseModel
	Active   bool                         `gorm:"index" json:"active"`
	Sections datatypes.JSONSlice[Section] `gorm:"type:jsonb" json:"sections"`
	Version  int                          `gorm:"not null;default:1" json:"version"`
}
