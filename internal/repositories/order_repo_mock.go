package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"delivery/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
// The mutex gives each method the same all-or-nothing atomicity the GORM
// implementation gets from its transactions.
type MockOrderRepository struct {
	orders map[string]models.Order
	lines  map[string]models.CartLine
	mu     sync.Mutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
		lines:  make(map[string]models.CartLine),
	}
}

// withLines returns a copy of the order with its attached lines filled in.
func (r *MockOrderRepository) withLines(order models.Order) models.Order {
	order.Lines = nil
	for _, line := range r.lines {
		if line.OrderID != nil && *line.OrderID == order.ID {
			order.Lines = append(order.Lines, line)
		}
	}
	sort.Slice(order.Lines, func(i, j int) bool {
		return order.Lines[i].CreatedAt.Before(order.Lines[j].CreatedAt)
	})
	return order
}

func (r *MockOrderRepository) activeOrder(userID string) (models.Order, bool) {
	for _, order := range r.orders {
		if order.UserID == userID && !order.Ordered {
			return order, true
		}
	}
	return models.Order{}, false
}

// ActiveOrder returns the user's active order.
func (r *MockOrderRepository) ActiveOrder(userID string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.activeOrder(userID)
	if !ok {
		return nil, fmt.Errorf("active order for user %s: %w", userID, ErrNotFound)
	}
	order = r.withLines(order)
	return &order, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	order = r.withLines(order)
	return &order, nil
}

// AddItem attaches the product to the active order or bumps the quantity.
func (r *MockOrderRepository) AddItem(userID string, product *models.Product) (*models.Order, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var line models.CartLine
	found := false
	for _, l := range r.lines {
		if l.UserID == userID && l.ProductID == product.ID && !l.Ordered {
			line = l
			found = true
			break
		}
	}
	if !found {
		line = models.CartLine{
			ID:        uuid.New().String(),
			UserID:    userID,
			ProductID: product.ID,
			Product:   product,
			Quantity:  1,
			Price:     product.Price,
			CreatedAt: time.Now(),
		}
	}

	order, ok := r.activeOrder(userID)
	if !ok {
		order = models.Order{
			ID:        uuid.New().String(),
			UserID:    userID,
			Status:    models.OrderStatusNew,
			CreatedAt: time.Now(),
		}
		r.orders[order.ID] = order
	}

	incremented := false
	if line.OrderID != nil && *line.OrderID == order.ID {
		line.Quantity++
		incremented = true
	} else {
		orderID := order.ID
		line.OrderID = &orderID
	}
	line.UpdatedAt = time.Now()
	r.lines[line.ID] = line

	result := r.withLines(order)
	return &result, incremented, nil
}

func (r *MockOrderRepository) attachedLine(userID, productID string) (models.CartLine, models.Order, error) {
	order, ok := r.activeOrder(userID)
	if !ok {
		return models.CartLine{}, models.Order{}, fmt.Errorf("active order for user %s: %w", userID, ErrNotFound)
	}
	for _, line := range r.lines {
		if line.UserID == userID && line.ProductID == productID &&
			line.OrderID != nil && *line.OrderID == order.ID {
			return line, order, nil
		}
	}
	return models.CartLine{}, models.Order{}, fmt.Errorf("product %s in order %s: %w", productID, order.ID, ErrLineMissing)
}

// RemoveLine detaches and deletes the line regardless of quantity.
func (r *MockOrderRepository) RemoveLine(userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	line, _, err := r.attachedLine(userID, productID)
	if err != nil {
		return err
	}
	delete(r.lines, line.ID)
	return nil
}

// DecrementLine lowers the quantity by one, deleting the line at quantity one.
func (r *MockOrderRepository) DecrementLine(userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	line, _, err := r.attachedLine(userID, productID)
	if err != nil {
		return err
	}
	if line.Quantity > 1 {
		line.Quantity--
		line.UpdatedAt = time.Now()
		r.lines[line.ID] = line
		return nil
	}
	delete(r.lines, line.ID)
	return nil
}

// Checkout marks the order and its lines as ordered.
func (r *MockOrderRepository) Checkout(orderID, name, phone, address string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", orderID, ErrNotFound)
	}
	if order.Ordered {
		return nil, fmt.Errorf("order %s is already checked out: %w", orderID, ErrWrongStatus)
	}

	order.DeliveryName = name
	order.DeliveryPhone = phone
	order.DeliveryAddress = address
	order.Ordered = true
	order.UpdatedAt = time.Now()
	r.orders[orderID] = order

	for id, line := range r.lines {
		if line.OrderID != nil && *line.OrderID == orderID {
			line.Ordered = true
			r.lines[id] = line
		}
	}

	result := r.withLines(order)
	return &result, nil
}

// AssignCourier sets the courier on an unassigned order.
func (r *MockOrderRepository) AssignCourier(orderID, courierID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return fmt.Errorf("order with ID %s: %w", orderID, ErrNotFound)
	}
	if order.CourierID != nil {
		return fmt.Errorf("order %s: %w", orderID, ErrOrderTaken)
	}
	if !order.Status.CanTransitionTo(models.OrderStatusPending) {
		return fmt.Errorf("order %s in status %s: %w", orderID, order.Status, ErrWrongStatus)
	}

	order.CourierID = &courierID
	order.Status = models.OrderStatusPending
	order.UpdatedAt = time.Now()
	r.orders[orderID] = order
	return nil
}

// ClearCourier unsets the courier and resets the status to new.
func (r *MockOrderRepository) ClearCourier(orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return fmt.Errorf("order with ID %s: %w", orderID, ErrNotFound)
	}

	order.CourierID = nil
	order.Status = models.OrderStatusNew
	order.UpdatedAt = time.Now()
	r.orders[orderID] = order
	return nil
}

// CompleteOrder moves a pending, courier-assigned order to completed.
func (r *MockOrderRepository) CompleteOrder(orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return fmt.Errorf("order with ID %s: %w", orderID, ErrNotFound)
	}
	if order.CourierID == nil || !order.Status.CanTransitionTo(models.OrderStatusCompleted) {
		return fmt.Errorf("order %s in status %s: %w", orderID, order.Status, ErrWrongStatus)
	}

	order.Status = models.OrderStatusCompleted
	order.UpdatedAt = time.Now()
	r.orders[orderID] = order
	return nil
}

func (r *MockOrderRepository) list(match func(models.Order) bool) []models.Order {
	var orders []models.Order
	for _, order := range r.orders {
		if match(order) {
			orders = append(orders, r.withLines(order))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders
}

// CheckedOut lists all checked-out orders, newest first.
func (r *MockOrderRepository) CheckedOut() ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.list(func(o models.Order) bool { return o.Ordered }), nil
}

// TakenBy lists the orders currently assigned to a courier.
func (r *MockOrderRepository) TakenBy(courierID string) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.list(func(o models.Order) bool {
		return o.CourierID != nil && *o.CourierID == courierID
	}), nil
}

// OrdersOf lists a user's checked-out orders.
func (r *MockOrderRepository) OrdersOf(userID string) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.list(func(o models.Order) bool {
		return o.UserID == userID && o.Ordered
	}), nil
}

// CountActiveLines returns the number of lines in the user's active order.
func (r *MockOrderRepository) CountActiveLines(userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.activeOrder(userID)
	if !ok {
		return 0, nil
	}
	count := 0
	for _, line := range r.lines {
		if line.OrderID != nil && *line.OrderID == order.ID {
			count++
		}
	}
	return count, nil
}
