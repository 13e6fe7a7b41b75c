package handlers

import (
	"log"

	"delivery/internal/middleware"
	"delivery/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the shopping cart.
type CartHandler struct {
	service *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service: service,
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Get("/count", h.HandleItemCount)
	cartRoutes.Post("/items/:slug", h.HandleAddItem)
	cartRoutes.Delete("/items/:slug", h.HandleRemoveItem)
	cartRoutes.Patch("/items/:slug/decrement", h.HandleDecrementItem)
	cartRoutes.Post("/checkout", h.HandleCheckout)
}

// HandleGetCart returns the caller's active order with its lines and total.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	order, oc, err := h.service.ActiveOrder(middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	if order == nil {
		return respondOutcome(c, oc, nil)
	}
	return respondOutcome(c, oc, fiber.Map{
		"order": order,
		"total": order.Total(),
	})
}

// HandleItemCount returns the number of lines in the caller's cart, for the
// cart badge.
func (h *CartHandler) HandleItemCount(c *fiber.Ctx) error {
	count, err := h.service.CartItemCount(middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// HandleAddItem adds one unit of the product to the caller's cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	order, oc, err := h.service.AddItem(middleware.UserID(c), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOutcome(c, oc, fiber.Map{"order": order})
}

// HandleRemoveItem removes the product from the caller's cart entirely.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	oc, err := h.service.RemoveItem(middleware.UserID(c), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOutcome(c, oc, nil)
}

// HandleDecrementItem lowers the product's quantity in the cart by one.
func (h *CartHandler) HandleDecrementItem(c *fiber.Ctx) error {
	oc, err := h.service.DecrementItem(middleware.UserID(c), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOutcome(c, oc, nil)
}

// HandleCheckout places the caller's active order with the supplied delivery
// details.
func (h *CartHandler) HandleCheckout(c *fiber.Ctx) error {
	var form services.CheckoutForm
	if err := c.BodyParser(&form); err != nil {
		log.Printf("Error parsing checkout request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	order, oc, err := h.service.Checkout(middleware.UserID(c), form)
	if err != nil {
		return respondError(c, err)
	}
	if order == nil {
		return respondOutcome(c, oc, nil)
	}
	return respondOutcome(c, oc, fiber.Map{"order": order})
}
