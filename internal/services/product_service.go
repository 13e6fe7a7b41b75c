package services

import (
	"delivery/internal/models"
	"delivery/internal/repositories"
)

// ProductService handles business logic related to the catalog: products and
// the stores and categories they belong to.
type ProductService struct {
	repo         repositories.ProductRepository
	storeRepo    repositories.StoreRepository
	categoryRepo repositories.CategoryRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, storeRepo repositories.StoreRepository, categoryRepo repositories.CategoryRepository) *ProductService {
	return &ProductService{
		repo:         repo,
		storeRepo:    storeRepo,
		categoryRepo: categoryRepo,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductBySlug retrieves a single product by its slug.
func (s *ProductService) GetProductBySlug(slug string) (*models.Product, error) {
	return s.repo.GetBySlug(slug)
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	return s.repo.Update(product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}

// GetStoreBySlug retrieves a single store by its slug.
func (s *ProductService) GetStoreBySlug(slug string) (*models.Store, error) {
	return s.storeRepo.GetBySlug(slug)
}

// GetAllStores retrieves all stores.
func (s *ProductService) GetAllStores() ([]models.Store, error) {
	return s.storeRepo.GetAll()
}

// CreateStore creates a new store.
func (s *ProductService) CreateStore(store *models.Store) error {
	return s.storeRepo.Create(store)
}

// CreateCategory creates a new category.
func (s *ProductService) CreateCategory(category *models.Category) error {
	return s.categoryRepo.Create(category)
}

// CategoriesForStore retrieves the categories of a store by the store's slug.
func (s *ProductService) CategoriesForStore(storeSlug string) ([]models.Category, error) {
	store, err := s.storeRepo.GetBySlug(storeSlug)
	if err != nil {
		return nil, err
	}
	return s.categoryRepo.ForStore(store.ID)
}
