package services

import (
	"errors"
	"fmt"
	"log"

	"delivery/internal/models"
	"delivery/internal/outcome"
	"delivery/internal/repositories"
	"delivery/pkg/rabbitmq"

	"github.com/go-playground/validator/v10"
)

// CartService mutates the user's single in-progress order as items are added
// and removed, and turns it into a placed order at checkout. Every operation
// resolves to one (message, destination) outcome; business-rule rejections
// are outcomes, not errors.
type CartService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	mqClient    *rabbitmq.Client
	validate    *validator.Validate
}

// NewCartService creates a new CartService.
func NewCartService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, mqClient *rabbitmq.Client) *CartService {
	return &CartService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		mqClient:    mqClient,
		validate:    validator.New(),
	}
}

// CheckoutForm carries the delivery details collected at checkout. All
// fields are required.
type CheckoutForm struct {
	Name    string `json:"name" validate:"required,max=255"`
	Phone   string `json:"phone" validate:"required,max=255"`
	Address string `json:"address" validate:"required,max=2000"`
}

// AddItem puts one unit of the product into the user's cart. The cart line
// and the active order are created on first use; repeated adds keep
// incrementing the quantity.
func (s *CartService) AddItem(userID, slug string) (*models.Order, outcome.Outcome, error) {
	product, err := s.productRepo.GetBySlug(slug)
	if err != nil {
		return nil, outcome.Outcome{}, err
	}

	order, incremented, err := s.orderRepo.AddItem(userID, product)
	if err != nil {
		return nil, outcome.Outcome{}, fmt.Errorf("failed to add product %s to cart: %w", slug, err)
	}

	if incremented {
		return order, outcome.Success("Cart item quantity updated.", outcome.CartSummary), nil
	}
	return order, outcome.Success("Product added to your cart.", outcome.CartSummary), nil
}

// RemoveItem removes the product's line from the cart entirely, whatever its
// quantity.
func (s *CartService) RemoveItem(userID, slug string) (outcome.Outcome, error) {
	product, err := s.productRepo.GetBySlug(slug)
	if err != nil {
		return outcome.Outcome{}, err
	}

	err = s.orderRepo.RemoveLine(userID, product.ID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return outcome.Reject("You have no active order.", outcome.ProductDetail), nil
	case errors.Is(err, repositories.ErrLineMissing):
		return outcome.Reject("That product is not in your cart.", outcome.ProductDetail), nil
	case err != nil:
		return outcome.Outcome{}, fmt.Errorf("failed to remove product %s from cart: %w", slug, err)
	}
	return outcome.Success("Product removed from your cart.", outcome.CartSummary), nil
}

// DecrementItem lowers the product's quantity by one; at quantity one the
// line is removed, mirroring RemoveItem.
func (s *CartService) DecrementItem(userID, slug string) (outcome.Outcome, error) {
	product, err := s.productRepo.GetBySlug(slug)
	if err != nil {
		return outcome.Outcome{}, err
	}

	err = s.orderRepo.DecrementLine(userID, product.ID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return outcome.Reject("You have no active order.", outcome.ProductDetail), nil
	case errors.Is(err, repositories.ErrLineMissing):
		return outcome.Reject("That product is not in your cart.", outcome.ProductDetail), nil
	case err != nil:
		return outcome.Outcome{}, fmt.Errorf("failed to decrement product %s in cart: %w", slug, err)
	}
	return outcome.Success("Cart item quantity updated.", outcome.CartSummary), nil
}

// Checkout stamps the delivery details onto the active order and marks it
// placed. The order's status stays new; it only advances once a courier
// takes it.
func (s *CartService) Checkout(userID string, form CheckoutForm) (*models.Order, outcome.Outcome, error) {
	// The active-order precondition comes before form validation: without a
	// cart the form does not matter.
	active, err := s.orderRepo.ActiveOrder(userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, outcome.Reject("You have no active order.", outcome.Home), nil
	}
	if err != nil {
		return nil, outcome.Outcome{}, err
	}

	if err := s.validate.Struct(form); err != nil {
		return nil, outcome.Reject("Please fill in all delivery fields.", outcome.CheckoutForm), nil
	}

	order, err := s.orderRepo.Checkout(active.ID, form.Name, form.Phone, form.Address)
	if err != nil {
		return nil, outcome.Outcome{}, fmt.Errorf("failed to check out order %s: %w", active.ID, err)
	}

	s.publish(rabbitmq.EventOrderCheckedOut, map[string]interface{}{
		"orderID": order.ID,
		"userID":  order.UserID,
		"total":   order.Total().String(),
		"status":  order.Status,
	})

	return order, outcome.Success("Your order has been placed.", outcome.OrdersMine), nil
}

// ActiveOrder returns the user's cart, or a "no active order" outcome when
// there is none.
func (s *CartService) ActiveOrder(userID string) (*models.Order, outcome.Outcome, error) {
	order, err := s.orderRepo.ActiveOrder(userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, outcome.Reject("You have no active order.", outcome.Home), nil
	}
	if err != nil {
		return nil, outcome.Outcome{}, err
	}
	return order, outcome.Success("", outcome.CartSummary), nil
}

// CartItemCount returns the number of distinct lines in the user's cart,
// zero when there is no active order.
func (s *CartService) CartItemCount(userID string) (int, error) {
	return s.orderRepo.CountActiveLines(userID)
}

func (s *CartService) publish(eventType string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.PublishEvent(eventType, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}
