package repositories

import (
	"delivery/internal/models"
)

// OrderRepository defines the interface for order and cart-line data access.
// Every mutating method is a single atomic unit of work: implementations must
// re-check preconditions under whatever mutual exclusion they provide, so two
// concurrent requests can never both pass a find-or-create or an "unassigned"
// check.
type OrderRepository interface {
	// ActiveOrder returns the user's single not-yet-checked-out order with
	// its lines and products preloaded, or ErrNotFound when there is none.
	ActiveOrder(userID string) (*models.Order, error)
	GetByID(id string) (*models.Order, error)

	// AddItem finds or creates the cart line for (user, product), finds or
	// creates the active order, and either attaches the line or increments
	// its quantity. The returned bool is true when the quantity was
	// incremented rather than the line newly attached.
	AddItem(userID string, product *models.Product) (*models.Order, bool, error)
	// RemoveLine detaches and deletes the product's line from the active
	// order regardless of quantity. ErrNotFound when there is no active
	// order, ErrLineMissing when the product is not attached.
	RemoveLine(userID, productID string) error
	// DecrementLine lowers the line's quantity by one, deleting the line
	// when the quantity was one. Same errors as RemoveLine.
	DecrementLine(userID, productID string) error
	// Checkout stamps the delivery details onto the order and marks the
	// order and all of its lines as ordered. The status stays new; it only
	// advances once a courier acts. ErrWrongStatus when already ordered.
	Checkout(orderID, name, phone, address string) (*models.Order, error)

	// AssignCourier sets the courier on an unassigned order and moves it to
	// pending. ErrOrderTaken when a courier is already set.
	AssignCourier(orderID, courierID string) error
	// ClearCourier unsets the courier and resets the status to new,
	// whatever the prior status was.
	ClearCourier(orderID string) error
	// CompleteOrder moves a pending, courier-assigned order to completed.
	// ErrWrongStatus when the order is in any other state.
	CompleteOrder(orderID string) error

	// CheckedOut lists all checked-out orders, newest first.
	CheckedOut() ([]models.Order, error)
	// TakenBy lists the orders currently assigned to a courier.
	TakenBy(courierID string) ([]models.Order, error)
	// OrdersOf lists a user's checked-out orders.
	OrdersOf(userID string) ([]models.Order, error)
	// CountActiveLines returns the number of lines in the user's active
	// order, zero when there is none.
	CountActiveLines(userID string) (int, error)
}
