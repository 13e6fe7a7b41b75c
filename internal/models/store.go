package models

import "gorm.io/gorm"

// Store is a shop whose products can be ordered for delivery.
type Store struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Slug        string `json:"slug" gorm:"uniqueIndex;type:varchar(255)" validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty,max=500"`
	gorm.Model
}

// Category groups products within a store.
type Category struct {
	ID      string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name    string `json:"name" validate:"required,min=2,max=255"`
	Slug    string `json:"slug" gorm:"uniqueIndex;type:varchar(255)" validate:"required,max=255"`
	StoreID string `json:"store_id" gorm:"index;type:varchar(36)" validate:"required"`
	gorm.Model
}
