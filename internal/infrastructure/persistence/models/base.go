package models

import (
	"time"

	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for uuid keyed models.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// AllModels lists every model for schema creation in tests and local sqlite databases.
func AllModels() []any {
	return []any{
		&VendorModel{},
		&ProductModel{},
		&VariationTypeModel{},
		&VariationOptionModel{},
		&VariationModel{},
		&CartLineModel{},
		&MergedGuestLineModel{},
	}
}
