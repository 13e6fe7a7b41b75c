package models

// OrderStatus is the lifecycle state of a checked-out order.
type OrderStatus string

const (
	// OrderStatusNew is a checked-out order no courier has claimed yet.
	OrderStatusNew OrderStatus = "new"
	// OrderStatusPending is an order a courier has taken and is delivering.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusCompleted is an order whose owner confirmed the delivery.
	OrderStatusCompleted OrderStatus = "completed"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNew, OrderStatusPending, OrderStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether the transition from s to next is allowed.
// Transitions move forward (new -> pending -> completed), except that any
// status may reset to new when a courier drops the order.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	switch next {
	case OrderStatusNew:
		return true
	case OrderStatusPending:
		return s == OrderStatusNew
	case OrderStatusCompleted:
		return s == OrderStatusPending
	}
	return false
}

// ApplicationStatus is the review state of a courier application.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Terminal reports whether the application has been decided. A terminal
// application can never change status again.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationStatusAccepted || s == ApplicationStatusRejected
}
