package repositories

import (
	"errors"
	"fmt"

	"delivery/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMOrderRepository is a GORM implementation of OrderRepository. Mutating
// methods run inside a transaction with SELECT ... FOR UPDATE row locks, so
// the find-or-create-then-increment and check-then-assign sequences are
// serialized per user and per order.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// locked applies a FOR UPDATE lock where the dialect supports it. SQLite
// rejects the clause and serializes writers at the database level instead.
func locked(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// ActiveOrder returns the user's active order with lines preloaded.
func (r *GORMOrderRepository) ActiveOrder(userID string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Lines.Product").Preload("Lines").
		First(&order, "user_id = ? AND ordered = ?", userID, false).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("active order for user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get active order for user %s: %w", userID, err)
	}
	return &order, nil
}

// GetByID returns an order by its ID with lines and courier preloaded.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Lines.Product").Preload("Lines").Preload("Courier").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// AddItem attaches the product to the user's active order, creating the cart
// line and the order as needed, or bumps the quantity when already attached.
//
// Row locks do not cover rows that do not exist yet, so two concurrent first
// adds can both pass the lookups and both insert. The partial unique indexes
// on orders and cart_lines reject the loser; the transaction is retried and
// the second attempt finds the winner's rows and takes the increment path.
func (r *GORMOrderRepository) AddItem(userID string, product *models.Product) (*models.Order, bool, error) {
	var orderID string
	var incremented bool

	var err error
	for attempt := 0; attempt < 3; attempt++ {
		orderID, incremented, err = r.addItem(userID, product)
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	if err != nil {
		return nil, false, err
	}

	order, err := r.GetByID(orderID)
	if err != nil {
		return nil, false, err
	}
	return order, incremented, nil
}

func (r *GORMOrderRepository) addItem(userID string, product *models.Product) (string, bool, error) {
	var orderID string
	incremented := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var line models.CartLine
		err := locked(tx).First(&line,
			"user_id = ? AND product_id = ? AND ordered = ?", userID, product.ID, false).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			line = models.CartLine{
				ID:        uuid.New().String(),
				UserID:    userID,
				ProductID: product.ID,
				Quantity:  1,
				Price:     product.Price, // snapshot at first add
			}
			if err := tx.Create(&line).Error; err != nil {
				return fmt.Errorf("failed to create cart line: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to look up cart line: %w", err)
		}

		var order models.Order
		err = locked(tx).First(&order, "user_id = ? AND ordered = ?", userID, false).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			order = models.Order{
				ID:     uuid.New().String(),
				UserID: userID,
				Status: models.OrderStatusNew,
			}
			if err := tx.Create(&order).Error; err != nil {
				return fmt.Errorf("failed to create order: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to look up active order: %w", err)
		}

		if line.OrderID != nil && *line.OrderID == order.ID {
			line.Quantity++
			incremented = true
		} else {
			line.OrderID = &order.ID
		}
		if err := tx.Save(&line).Error; err != nil {
			return fmt.Errorf("failed to save cart line: %w", err)
		}

		orderID = order.ID
		return nil
	})
	return orderID, incremented, err
}

// mutateLine locks the active order and the attached line for the product and
// hands them to fn inside the same transaction.
func (r *GORMOrderRepository) mutateLine(userID, productID string, fn func(tx *gorm.DB, line *models.CartLine) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := locked(tx).First(&order, "user_id = ? AND ordered = ?", userID, false).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("active order for user %s: %w", userID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to look up active order: %w", err)
		}

		var line models.CartLine
		err = locked(tx).First(&line,
			"user_id = ? AND product_id = ? AND order_id = ?", userID, productID, order.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %s in order %s: %w", productID, order.ID, ErrLineMissing)
		}
		if err != nil {
			return fmt.Errorf("failed to look up cart line: %w", err)
		}

		return fn(tx, &line)
	})
}

// RemoveLine detaches and deletes the line regardless of quantity.
func (r *GORMOrderRepository) RemoveLine(userID, productID string) error {
	return r.mutateLine(userID, productID, func(tx *gorm.DB, line *models.CartLine) error {
		if err := tx.Delete(line).Error; err != nil {
			return fmt.Errorf("failed to delete cart line: %w", err)
		}
		return nil
	})
}

// DecrementLine lowers the quantity by one, deleting the line at quantity one.
func (r *GORMOrderRepository) DecrementLine(userID, productID string) error {
	return r.mutateLine(userID, productID, func(tx *gorm.DB, line *models.CartLine) error {
		if line.Quantity > 1 {
			line.Quantity--
			if err := tx.Save(line).Error; err != nil {
				return fmt.Errorf("failed to save cart line: %w", err)
			}
			return nil
		}
		if err := tx.Delete(line).Error; err != nil {
			return fmt.Errorf("failed to delete cart line: %w", err)
		}
		return nil
	})
}

// Checkout marks the order and its lines as ordered and stamps the delivery
// details. The status stays new until a courier takes the order.
func (r *GORMOrderRepository) Checkout(orderID, name, phone, address string) (*models.Order, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := locked(tx).First(&order, "id = ?", orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("order with ID %s: %w", orderID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to look up order: %w", err)
		}
		if order.Ordered {
			return fmt.Errorf("order %s is already checked out: %w", orderID, ErrWrongStatus)
		}

		order.DeliveryName = name
		order.DeliveryPhone = phone
		order.DeliveryAddress = address
		order.Ordered = true
		if err := tx.Save(&order).Error; err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}

		err = tx.Model(&models.CartLine{}).
			Where("order_id = ?", orderID).
			Update("ordered", true).Error
		if err != nil {
			return fmt.Errorf("failed to mark cart lines ordered: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(orderID)
}

// AssignCourier sets the courier on an unassigned order and moves it to
// pending. The unassigned check runs under the row lock, so two couriers can
// never both claim the same order.
func (r *GORMOrderRepository) AssignCourier(orderID, courierID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := locked(tx).First(&order, "id = ?", orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("order with ID %s: %w", orderID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to look up order: %w", err)
		}
		if order.CourierID != nil {
			return fmt.Errorf("order %s: %w", orderID, ErrOrderTaken)
		}
		if !order.Status.CanTransitionTo(models.OrderStatusPending) {
			return fmt.Errorf("order %s in status %s: %w", orderID, order.Status, ErrWrongStatus)
		}

		order.CourierID = &courierID
		order.Status = models.OrderStatusPending
		if err := tx.Save(&order).Error; err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}
		return nil
	})
}

// ClearCourier unsets the courier and resets the status to new, regardless of
// the prior status.
func (r *GORMOrderRepository) ClearCourier(orderID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := locked(tx).First(&order, "id = ?", orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("order with ID %s: %w", orderID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to look up order: %w", err)
		}

		err = tx.Model(&order).Select("CourierID", "Status").
			Updates(map[string]interface{}{
				"courier_id": nil,
				"status":     models.OrderStatusNew,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to clear courier: %w", err)
		}
		return nil
	})
}

// CompleteOrder moves a pending, courier-assigned order to completed.
func (r *GORMOrderRepository) CompleteOrder(orderID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := locked(tx).First(&order, "id = ?", orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("order with ID %s: %w", orderID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to look up order: %w", err)
		}
		if order.CourierID == nil || !order.Status.CanTransitionTo(models.OrderStatusCompleted) {
			return fmt.Errorf("order %s in status %s: %w", orderID, order.Status, ErrWrongStatus)
		}

		order.Status = models.OrderStatusCompleted
		if err := tx.Save(&order).Error; err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}
		return nil
	})
}

// CheckedOut lists all checked-out orders, newest first.
func (r *GORMOrderRepository) CheckedOut() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Lines").Preload("Courier").
		Where("ordered = ?", true).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list checked-out orders: %w", err)
	}
	return orders, nil
}

// TakenBy lists the orders currently assigned to a courier.
func (r *GORMOrderRepository) TakenBy(courierID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Lines").
		Where("courier_id = ?", courierID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders taken by courier %s: %w", courierID, err)
	}
	return orders, nil
}

// OrdersOf lists a user's checked-out orders.
func (r *GORMOrderRepository) OrdersOf(userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Lines").Preload("Courier").
		Where("user_id = ? AND ordered = ?", userID, true).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders of user %s: %w", userID, err)
	}
	return orders, nil
}

// CountActiveLines returns the number of lines in the user's active order.
func (r *GORMOrderRepository) CountActiveLines(userID string) (int, error) {
	var order models.Order
	err := r.db.First(&order, "user_id = ? AND ordered = ?", userID, false).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up active order: %w", err)
	}

	var count int64
	err = r.db.Model(&models.CartLine{}).Where("order_id = ?", order.ID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count cart lines: %w", err)
	}
	return int(count), nil
}
