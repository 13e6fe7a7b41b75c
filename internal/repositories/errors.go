package repositories

import "errors"

// Sentinel errors shared by all repository implementations. Services match
// them with errors.Is to tell business-rule rejections apart from faults.
var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrLineMissing is returned when a product is not attached to the
	// user's active order.
	ErrLineMissing = errors.New("product not in cart")
	// ErrOrderTaken is returned when an order already has a courier.
	ErrOrderTaken = errors.New("order already has a courier")
	// ErrWrongStatus is returned when a record's status does not allow the
	// requested transition.
	ErrWrongStatus = errors.New("status does not allow this transition")
)
