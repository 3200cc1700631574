package models

import "github.com/google/uuid"

// ProductExtra links a product to an extra applicable to it.
type ProductExtra struct {
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
	ExtraID   uuid.UUID `gorm:"column:extra_id;type:uuid;primaryKey"`
}
