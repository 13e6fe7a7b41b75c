package services

import (
	"errors"
	"fmt"
	"log"

	"delivery/internal/authz"
	"delivery/internal/models"
	"delivery/internal/outcome"
	"delivery/internal/repositories"
	"delivery/pkg/rabbitmq"
)

// OrderService governs the lifecycle of checked-out orders: couriers take
// and drop them, owners confirm the delivery. Transitions are gated by the
// authz policy table and by ownership; any failed precondition resolves to a
// rejection outcome with no state change.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	courierRepo repositories.CourierRepository
	userRepo    repositories.UserRepository
	authorizer  *authz.Authorizer
	mqClient    *rabbitmq.Client
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, courierRepo repositories.CourierRepository, userRepo repositories.UserRepository, authorizer *authz.Authorizer, mqClient *rabbitmq.Client) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		courierRepo: courierRepo,
		userRepo:    userRepo,
		authorizer:  authorizer,
		mqClient:    mqClient,
	}
}

// courierFor resolves the acting courier, or nil when the actor lacks the
// capability or is not a registered courier.
func (s *OrderService) courierFor(actorID string, action authz.Action) (*models.Courier, error) {
	actor, err := s.userRepo.GetByID(actorID)
	if err != nil {
		return nil, err
	}
	if !s.authorizer.Can(actor.Role, action) {
		return nil, nil
	}
	courier, err := s.courierRepo.GetByUserID(actorID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return courier, nil
}

// TakeOrder assigns the acting courier to an unclaimed order and moves it to
// pending. Couriers cannot take their own orders.
func (s *OrderService) TakeOrder(actorID, orderID string) (outcome.Outcome, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return outcome.Outcome{}, err
	}

	courier, err := s.courierFor(actorID, authz.ActionTakeOrder)
	if err != nil {
		return outcome.Outcome{}, err
	}
	if courier == nil {
		return outcome.Reject("You do not have permission for that.", outcome.OrdersAvailable), nil
	}

	if order.UserID == actorID {
		return outcome.Reject("You cannot take your own order.", outcome.OrdersAvailable), nil
	}
	if !order.Ordered {
		return outcome.Reject("You cannot take this order.", outcome.OrdersAvailable), nil
	}

	err = s.orderRepo.AssignCourier(orderID, courier.ID)
	switch {
	case errors.Is(err, repositories.ErrOrderTaken), errors.Is(err, repositories.ErrWrongStatus):
		return outcome.Reject("You cannot take this order.", outcome.OrdersAvailable), nil
	case err != nil:
		return outcome.Outcome{}, fmt.Errorf("failed to take order %s: %w", orderID, err)
	}

	s.publish(rabbitmq.EventOrderTaken, map[string]interface{}{
		"orderID":   orderID,
		"courierID": courier.ID,
	})
	return outcome.Success("You took the order.", outcome.OrdersTaken), nil
}

// ReleaseOrder unassigns the courier from an order and resets its status to
// new, whatever the prior status was.
func (s *OrderService) ReleaseOrder(actorID, orderID string) (outcome.Outcome, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return outcome.Outcome{}, err
	}

	courier, err := s.courierFor(actorID, authz.ActionReleaseOrder)
	if err != nil {
		return outcome.Outcome{}, err
	}
	if courier == nil {
		return outcome.Reject("You do not have permission for that.", outcome.OrdersAvailable), nil
	}

	if err := s.orderRepo.ClearCourier(order.ID); err != nil {
		return outcome.Outcome{}, fmt.Errorf("failed to release order %s: %w", orderID, err)
	}

	s.publish(rabbitmq.EventOrderReleased, map[string]interface{}{
		"orderID":   orderID,
		"courierID": courier.ID,
	})
	return outcome.Success("You dropped the order.", outcome.OrdersTaken), nil
}

// ConfirmCompletion lets the order's owner confirm the delivery of a pending,
// courier-assigned order. Each failed precondition gets its own message so
// the owner can tell "no courier yet" from "already completed".
func (s *OrderService) ConfirmCompletion(actorID, orderID string) (outcome.Outcome, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return outcome.Outcome{}, err
	}

	if order.UserID != actorID {
		return outcome.Reject("This is not your order.", outcome.OrdersMine), nil
	}
	if order.CourierID == nil || order.Status == models.OrderStatusNew {
		return outcome.Reject("Your order has no courier yet.", outcome.OrdersMine), nil
	}
	if order.Status == models.OrderStatusCompleted {
		return outcome.Reject("This order has already been completed.", outcome.OrdersMine), nil
	}
	if order.Status != models.OrderStatusPending {
		return outcome.Reject("Something went wrong, contact the administration.", outcome.OrdersMine), nil
	}

	err = s.orderRepo.CompleteOrder(order.ID)
	if errors.Is(err, repositories.ErrWrongStatus) {
		// The order changed between the read and the write.
		return outcome.Reject("Something went wrong, contact the administration.", outcome.OrdersMine), nil
	}
	if err != nil {
		return outcome.Outcome{}, fmt.Errorf("failed to complete order %s: %w", orderID, err)
	}

	s.publish(rabbitmq.EventOrderCompleted, map[string]interface{}{
		"orderID": orderID,
		"userID":  order.UserID,
	})
	return outcome.Success("You confirmed the order was completed.", outcome.OrdersMine), nil
}

// AvailableOrders lists all checked-out orders for the courier board.
func (s *OrderService) AvailableOrders(actorID string) ([]models.Order, outcome.Outcome, error) {
	actor, err := s.userRepo.GetByID(actorID)
	if err != nil {
		return nil, outcome.Outcome{}, err
	}
	if !s.authorizer.Can(actor.Role, authz.ActionViewOrders) {
		return nil, outcome.Reject("You do not have permission for that.", outcome.Home), nil
	}

	orders, err := s.orderRepo.CheckedOut()
	if err != nil {
		return nil, outcome.Outcome{}, err
	}
	return orders, outcome.Success("", outcome.OrdersAvailable), nil
}

// TakenOrders lists the orders the acting courier currently holds.
func (s *OrderService) TakenOrders(actorID string) ([]models.Order, outcome.Outcome, error) {
	courier, err := s.courierFor(actorID, authz.ActionViewOrders)
	if err != nil {
		return nil, outcome.Outcome{}, err
	}
	if courier == nil {
		return nil, outcome.Reject("You do not have permission for that.", outcome.Home), nil
	}

	orders, err := s.orderRepo.TakenBy(courier.ID)
	if err != nil {
		return nil, outcome.Outcome{}, err
	}
	return orders, outcome.Success("", outcome.OrdersTaken), nil
}

// MyOrders lists the caller's own checked-out orders.
func (s *OrderService) MyOrders(userID string) ([]models.Order, error) {
	return s.orderRepo.OrdersOf(userID)
}

func (s *OrderService) publish(eventType string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.PublishEvent(eventType, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}
