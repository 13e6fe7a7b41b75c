package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a product offered by a store.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string          `json:"name" validate:"required,min=3,max=255"`
	Slug        string          `json:"slug" gorm:"uniqueIndex;type:varchar(255)" validate:"required,max=255"`
	CategoryID  string          `json:"category_id" gorm:"index;type:varchar(36)" validate:"required"`
	StoreID     string          `json:"store_id" gorm:"index;type:varchar(36)" validate:"required"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(19,2)"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	Available   bool            `json:"available" gorm:"default:true"`
	gorm.Model                  // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
