package handlers

import (
	"fmt"
	"log"

	"delivery/internal/models"
	"delivery/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:slug", h.HandleGetProductBySlug)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:slug", h.HandleUpdateProduct)
	productRoutes.Delete("/:slug", h.HandleDeleteProduct)

	storeRoutes := router.Group("/stores")
	storeRoutes.Get("/", h.HandleGetStores)
	storeRoutes.Post("/", h.HandleCreateStore)
	storeRoutes.Get("/:slug/categories", h.HandleStoreCategories)
	storeRoutes.Post("/:slug/categories", h.HandleCreateCategory)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleGetProductBySlug retrieves a single product by its slug.
func (h *ProductHandler) HandleGetProductBySlug(c *fiber.Ctx) error {
	product, err := h.service.GetProductBySlug(c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(product); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	if err := h.service.CreateProduct(&product); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	existing, err := h.service.GetProductBySlug(c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}

	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	product.ID = existing.ID

	if err := h.service.UpdateProduct(&product); err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProductBySlug(c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteProduct(product.ID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product %s deleted successfully", product.Slug),
	})
}

// HandleGetStores retrieves all stores.
func (h *ProductHandler) HandleGetStores(c *fiber.Ctx) error {
	stores, err := h.service.GetAllStores()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stores)
}

// HandleCreateStore creates a new store.
func (h *ProductHandler) HandleCreateStore(c *fiber.Ctx) error {
	var store models.Store
	if err := c.BodyParser(&store); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(store); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	if err := h.service.CreateStore(&store); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(store)
}

// HandleStoreCategories lists the categories of a store.
func (h *ProductHandler) HandleStoreCategories(c *fiber.Ctx) error {
	categories, err := h.service.CategoriesForStore(c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(categories)
}

// HandleCreateCategory creates a category within a store.
func (h *ProductHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	// The store slug in the path wins over whatever the body carries.
	store, err := h.service.GetStoreBySlug(c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	category.StoreID = store.ID

	if err := h.validate.Struct(category); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	if err := h.service.CreateCategory(&category); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}
