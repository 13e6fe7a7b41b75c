package handlers

import (
	"log"

	"delivery/internal/middleware"
	"delivery/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles HTTP requests for courier applications.
type ApplicationHandler struct {
	service *services.ApplicationService
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(service *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		service: service,
	}
}

// RegisterRoutes registers the application routes with the Fiber app.
func (h *ApplicationHandler) RegisterRoutes(router fiber.Router) {
	appRoutes := router.Group("/applications")
	appRoutes.Get("/", h.HandlePendingApplications)
	appRoutes.Post("/", h.HandleSubmit)
	appRoutes.Post("/:id/accept", h.HandleAccept)
	appRoutes.Post("/:id/refuse", h.HandleRefuse)
}

// HandleSubmit files a courier application for the caller.
func (h *ApplicationHandler) HandleSubmit(c *fiber.Ctx) error {
	var form services.ApplicationForm
	if err := c.BodyParser(&form); err != nil {
		log.Printf("Error parsing application request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	app, oc, err := h.service.Submit(middleware.UserID(c), form)
	if err != nil {
		return respondError(c, err)
	}
	if app == nil {
		return respondOutcome(c, oc, nil)
	}
	return respondOutcome(c, oc, fiber.Map{"application": app})
}

// HandlePendingApplications lists the undecided applications for staff.
func (h *ApplicationHandler) HandlePendingApplications(c *fiber.Ctx) error {
	apps, oc, err := h.service.PendingApplications(middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	if !oc.OK {
		return respondOutcome(c, oc, nil)
	}
	return respondOutcome(c, oc, fiber.Map{"applications": apps})
}

// HandleAccept approves an application, promoting the applicant to courier.
func (h *ApplicationHandler) HandleAccept(c *fiber.Ctx) error {
	oc, err := h.service.Accept(middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOutcome(c, oc, nil)
}

// HandleRefuse declines an application.
func (h *ApplicationHandler) HandleRefuse(c *fiber.Ctx) error {
	oc, err := h.service.Refuse(middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOutcome(c, oc, nil)
}
