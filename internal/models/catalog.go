package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Category struct {
	BaseModel
	NameAr   string    `json:"name_ar"`
	NameEn   string    `json:"name_en"`
	Slug     string    `gorm:"uniqueIndex" json:"slug"`
	ImageURL string    `json:"image_url"`
	Products []Product `json:"products,omitempty"`
}

type Product struct {
	BaseModel
	Slug           string          `gorm:"uniqueIndex" json:"slug"`
	NameAr         string          `json:"name_ar"`
	NameEn         string          `json:"name_en"`
	DescriptionAr  string          `json:"description_ar"`
	DescriptionEn  string          `json:"description_en"`
	Price          decimal.Decimal `gorm:"type:numeric(12,2)" json:"price"`
	ImageURL       string          `json:"image_url"`
	Stock          int             `json:"stock"`
	Active         bool            `json:"active"`
	Colors         pq.StringArray  `gorm:"type:text[]" json:"colors"`
	StorageOptions pq.StringArray  `gorm:"type:text[]" json:"storage_options"`
	CategoryID     *uuid.UUID      `gorm:"type:uuid;index" json:"category_id"`
	Category       *Category       `json:"category,omitempty"`
}

// CategoryName is the label used for order analytics; English wins over Arabic.
func (p *Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	if p.Category.NameEn != "" {
		return p.Category.NameEn
	}
	return p.Category.NameAr
}
