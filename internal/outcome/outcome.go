// Package outcome defines the result every storefront operation hands back to
// the UI layer: a short user-facing message plus a named destination to
// redirect to. Business-rule rejections are outcomes, not errors.
package outcome

// Destination is a named navigation target. The UI layer owns the mapping
// from destination to concrete URL.
type Destination string

const (
	Home            Destination = "home"
	CartSummary     Destination = "cart-summary"
	ProductDetail   Destination = "product-detail"
	CheckoutForm    Destination = "checkout-form"
	OrdersAvailable Destination = "orders-available"
	OrdersTaken     Destination = "orders-taken"
	OrdersMine      Destination = "orders-mine"
	Applications    Destination = "applications"
)

// Outcome is the (message, destination) pair an operation resolves to.
// OK distinguishes a successful mutation from a rejected one; rejected
// operations leave all state unchanged.
type Outcome struct {
	OK          bool        `json:"ok"`
	Message     string      `json:"message"`
	Destination Destination `json:"destination"`
}

// Success builds an outcome for an operation that changed state.
func Success(message string, dest Destination) Outcome {
	return Outcome{OK: true, Message: message, Destination: dest}
}

// Reject builds an outcome for an operation refused by a business rule.
func Reject(message string, dest Destination) Outcome {
	return Outcome{OK: false, Message: message, Destination: dest}
}
