package repositories

import (
	"delivery/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}

// StoreRepository defines the interface for store data access.
type StoreRepository interface {
	GetAll() ([]models.Store, error)
	GetBySlug(slug string) (*models.Store, error)
	Create(store *models.Store) error
}

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	GetBySlug(slug string) (*models.Category, error)
	ForStore(storeID string) ([]models.Category, error)
	Create(category *models.Category) error
}
