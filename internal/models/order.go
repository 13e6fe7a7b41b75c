package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one (user, product) entry of a cart. While Ordered is false it
// belongs to the user's active order; once checked out it is frozen as an
// order line. Price is a snapshot taken when the line was first created, so
// later product price changes do not affect placed orders.
//
// The partial unique index backs the find-or-create in AddItem: two
// concurrent first adds of the same product cannot both insert a line.
type CartLine struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string          `json:"user_id" gorm:"index;uniqueIndex:udx_cart_lines_active,where:ordered = false;type:varchar(36)"`
	ProductID string          `json:"product_id" gorm:"index;uniqueIndex:udx_cart_lines_active;type:varchar(36)"`
	Product   *Product        `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	OrderID   *string         `json:"order_id,omitempty" gorm:"index;type:varchar(36)"` // nil until attached to an order
	Quantity  int             `json:"quantity" gorm:"default:1"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(19,2)"` // Price at the time the line was created
	Ordered   bool            `json:"ordered" gorm:"default:false"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// LineTotal returns Price * Quantity.
func (l *CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is a customer's order. Until checkout it is the user's active cart
// (Ordered false, at most one per user); after checkout it carries delivery
// details and moves through the courier lifecycle. Orders are never deleted.
//
// The partial unique index enforces the at-most-one-active-order invariant at
// the database level; AddItem relies on it when two first adds race.
type Order struct {
	ID        string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string      `json:"user_id" gorm:"index;uniqueIndex:udx_orders_active,where:ordered = false;type:varchar(36)"`
	Lines     []CartLine  `json:"lines" gorm:"foreignKey:OrderID"`
	Status    OrderStatus `json:"status" gorm:"type:varchar(16);default:new"`
	Ordered   bool        `json:"ordered" gorm:"default:false"`
	CourierID *string     `json:"courier_id,omitempty" gorm:"type:varchar(36)"`
	Courier   *Courier    `json:"courier,omitempty" gorm:"foreignKey:CourierID"`

	// Delivery details, populated at checkout.
	DeliveryName    string `json:"delivery_name"`
	DeliveryPhone   string `json:"delivery_phone"`
	DeliveryAddress string `json:"delivery_address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Total returns the sum of the line totals.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Lines {
		total = total.Add(o.Lines[i].LineTotal())
	}
	return total
}

// LineFor returns the line for the given product, or nil if the product is
// not part of the order.
func (o *Order) LineFor(productID string) *CartLine {
	for i := range o.Lines {
		if o.Lines[i].ProductID == productID {
			return &o.Lines[i]
		}
	}
	return nil
}
