package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Money is rendered as a JSON number for the storefront.
	decimal.MarshalJSONWithoutQuotes = true
}

// BaseModel provides shared columns for all tables.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate ensures UUIDs are generated for new records.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Base exposes the embedded columns to generic helpers.
func (b *BaseModel) Base() *BaseModel {
	return b
}

var singletonNamespace = uuid.MustParse("6f1c7a52-3d0e-4b8e-9a35-2a51c7e0b7d4")

// SingletonID is the fixed primary key of the single row of a settings table,
// so concurrent first reads cannot create two documents.
func SingletonID(name string) uuid.UUID {
	return uuid.NewSHA1(singletonNamespace, []byte(name))
}
