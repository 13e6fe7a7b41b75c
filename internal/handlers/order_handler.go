package handlers

import (
	"delivery/internal/middleware"
	"delivery/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for the order lifecycle.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleAvailableOrders)
	orderRoutes.Get("/taken", h.HandleTakenOrders)
	orderRoutes.Get("/mine", h.HandleMyOrders)
	orderRoutes.Post("/:id/take", h.HandleTakeOrder)
	orderRoutes.Post("/:id/release", h.HandleReleaseOrder)
	orderRoutes.Post("/:id/confirm", h.HandleConfirmCompletion)
}

// HandleAvailableOrders lists the checked-out orders for the courier board.
func (h *OrderHandler) HandleAvailableOrders(c *fiber.Ctx) error {
	orders, oc, err := h.service.AvailableOrders(middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	if !oc.OK {
		return respondOutcome(c, oc, nil)
	}
	return respondOutcome(c, oc, fiber.Map{"orders": orders})
}

// HandleTakenOrders lists the orders the acting courier currently holds.
func (h *OrderHandler) HandleTakenOrders(c *fiber.Ctx) error {
	orders, oc, err := h.service.TakenOrders(middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	if !oc.OK {
		return respondOutcome(c, oc, nil)
	}
	return respondOutcome(c, oc, fiber.Map{"orders": orders})
}

// HandleMyOrders lists the caller's own checked-out orders.
func (h *OrderHandler) HandleMyOrders(c *fiber.Ctx) error {
	orders, err := h.service.MyOrders(middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// HandleTakeOrder assigns the caller as the order's courier.
func (h *OrderHandler) HandleTakeOrder(c *fiber.Ctx) error {
	oc, err := h.service.TakeOrder(middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOutcome(c, oc, nil)
}

// HandleReleaseOrder drops the caller from the order and resets it.
func (h *OrderHandler) HandleReleaseOrder(c *fiber.Ctx) error {
	oc, err := h.service.ReleaseOrder(middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOutcome(c, oc, nil)
}

// HandleConfirmCompletion confirms that the caller's order was delivered.
func (h *OrderHandler) HandleConfirmCompletion(c *fiber.Ctx) error {
	oc, err := h.service.ConfirmCompletion(middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOutcome(c, oc, nil)
}
