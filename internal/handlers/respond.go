package handlers

import (
	"errors"
	"log"

	"delivery/internal/outcome"
	"delivery/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

// respondError maps repository errors onto HTTP statuses: missing resources
// become 404, everything else 500.
func respondError(c *fiber.Ctx, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Resource not found",
			"error":   err.Error(),
		})
	}
	log.Printf("Unhandled error for %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
		"error":   err.Error(),
	})
}

// respondOutcome renders an operation's (message, destination) pair. Both
// successes and business-rule rejections are 200s; the UI layer reads ok,
// shows the message, and navigates to the destination.
func respondOutcome(c *fiber.Ctx, oc outcome.Outcome, extra fiber.Map) error {
	body := fiber.Map{
		"ok":          oc.OK,
		"message":     oc.Message,
		"destination": oc.Destination,
	}
	for k, v := range extra {
		body[k] = v
	}
	return c.JSON(body)
}
