package services_test

import (
	"testing"

	"delivery/internal/authz"
	"delivery/internal/models"
	"delivery/internal/outcome"
	"delivery/internal/repositories"
	"delivery/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type orderFixture struct {
	orders   *repositories.MockOrderRepository
	couriers *repositories.MockCourierRepository
	users    *repositories.MockUserRepository
	service  *services.OrderService
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	f := &orderFixture{
		orders:   repositories.NewMockOrderRepository(),
		couriers: repositories.NewMockCourierRepository(),
		users:    repositories.NewMockUserRepository(),
	}
	f.service = services.NewOrderService(f.orders, f.couriers, f.users, authz.New(), nil)
	return f
}

func (f *orderFixture) addUser(t *testing.T, id string, role models.Role) {
	t.Helper()
	user := models.User{ID: id, Username: id, Email: id + "@example.com", Password: "x", Role: role}
	assert.NoError(t, f.users.Create(&user))
}

func (f *orderFixture) addCourier(t *testing.T, userID string) string {
	t.Helper()
	courier := models.Courier{UserID: userID, Name: "Courier " + userID, Phone: "123"}
	assert.NoError(t, f.couriers.Create(&courier))
	return courier.ID
}

// placedOrder builds a checked-out order for the user and returns its ID.
func (f *orderFixture) placedOrder(t *testing.T, userID string) string {
	t.Helper()
	product := models.Product{ID: "prod-" + userID, Name: "Eggs", Slug: "eggs-" + userID, Price: decimal.NewFromFloat(3.20), Available: true}
	order, _, err := f.orders.AddItem(userID, &product)
	assert.NoError(t, err)
	placed, err := f.orders.Checkout(order.ID, "Name", "123", "Addr")
	assert.NoError(t, err)
	return placed.ID
}

func TestOrderService_TakeOrder(t *testing.T) {
	f := newOrderFixture(t)
	f.addUser(t, "owner", models.RoleCustomer)
	f.addUser(t, "rider", models.RoleCourier)
	riderCourier := f.addCourier(t, "rider")
	orderID := f.placedOrder(t, "owner")

	oc, err := f.service.TakeOrder("rider", orderID)
	assert.NoError(t, err)
	assert.True(t, oc.OK)
	assert.Equal(t, "You took the order.", oc.Message)
	assert.Equal(t, outcome.OrdersTaken, oc.Destination)

	order, err := f.orders.GetByID(orderID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	if assert.NotNil(t, order.CourierID) {
		assert.Equal(t, riderCourier, *order.CourierID)
	}
}

func TestOrderService_TakeOrderRequiresCourier(t *testing.T) {
	f := newOrderFixture(t)
	f.addUser(t, "owner", models.RoleCustomer)
	f.addUser(t, "shopper", models.RoleCustomer)
	f.addUser(t, "unregistered", models.RoleCourier) // courier role, no courier record
	orderID := f.placedOrder(t, "owner")

	for _, actor := range []string{"shopper", "unregistered"} {
		oc, err := f.service.TakeOrder(actor, orderID)
		assert.NoError(t, err)
		assert.False(t, oc.OK)
		assert.Equal(t, "You do not have permission for that.", oc.Message)
		assert.Equal(t, outcome.OrdersAvailable, oc.Destination)
	}

	order, err := f.orders.GetByID(orderID)
	assert.NoError(t, err)
	assert.Nil(t, order.CourierID)
	assert.Equal(t, models.OrderStatusNew, order.Status)
}

func TestOrderService_TakeOwnOrder(t *testing.T) {
	f := newOrderFixture(t)
	f.addUser(t, "rider", models.RoleCourier)
	f.addCourier(t, "rider")
	orderID := f.placedOrder(t, "rider")

	oc, err := f.service.TakeOrder("rider", orderID)
	assert.NoError(t, err)
	assert.False(t, oc.OK)
	assert.Equal(t, "You cannot take your own order.", oc.Message)
}

func TestOrderService_TakeUnplacedOrder(t *testing.T) {
	f := newOrderFixture(t)
	f.addUser(t, "owner", models.RoleCustomer)
	f.addUser(t, "rider", models.RoleCourier)
	f.addCourier(t, "rider")

	// The owner's cart exists but has not been checked out.
	product := models.Product{ID: "prod-1", Name: "Milk", Slug: "milk", Price: decimal.NewFromFloat(1.80), Available: true}
	order, _, err := f.orders.AddItem("owner", &product)
	assert.NoError(t, err)

	oc, err := f.service.TakeOrder("rider", order.ID)
	assert.NoError(t, err)
	assert.False(t, oc.OK)
	assert.Equal(t, "You cannot take this order.", oc.Message)
}

func TestOrderService_TakeOrderAlreadyTaken(t *testing.T) {
	f := newOrderFixture(t)
	f.addUser(t, "owner", models.RoleCustomer)
	f.addUser(t, "rider-1", models.RoleCourier)
	f.addUser(t, "rider-2", models.RoleCourier)
	f.addCourier(t, "rider-1")
	f.addCourier(t, "rider-2")
	orderID := f.placedOrder(t, "owner")

	oc, err := f.service.TakeOrder("rider-1", orderID)
	assert.NoError(t, err)
	assert.True(t, oc.OK)

	// The second courier loses the race.
	oc, err = f.service.TakeOrder("rider-2", orderID)
	assert.NoError(t, err)
	assert.False(t, oc.OK)
	assert.Equal(t, "You cannot take this order.", oc.Message)
}

func TestOrderService_TakeOrderNotFound(t *testing.T) {
	f := newOrderFixture(t)
	f.addUser(t, "rider", models.RoleCourier)
	f.addCourier(t, "rider")

	_, err := f.service.TakeOrder("rider", "missing")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestOrderService_ReleaseOrder(t *testing.T) {
	f := newOrderFixture(t)
	f.addUser(t, "owner", models.RoleCustomer)
	f.addUser(t, "rider", models.RoleCourier)
	f.addCourier(t, "rider")
	orderID := f.placedOrder(t, "owner")

	_, err := f.service.TakeOrder("rider", orderID)
	assert.NoError(t, err)

	oc, err := f.service.ReleaseOrder("rider", orderID)
	assert.NoError(t, err)
	assert.True(t, oc.OK)
	assert.Equal(t, "You dropped the order.", oc.Message)

	order, err := f.orders.GetByID(orderID)
	assert.NoError(t, err)
	assert.Nil(t, order.CourierID)
	assert.Equal(t, models.OrderStatusNew, order.Status)

	// Released orders go back on the board and can be taken again.
	oc, err = f.service.TakeOrder("rider", orderID)
	assert.NoError(t, err)
	assert.True(t, oc.OK)
}

func TestOrderService_ReleaseResetsCompletedOrder(t *testing.T) {
	f := newOrderFixture(t)
	f.addUser(t, "owner", models.RoleCustomer)
	f.addUser(t, "rider", models.RoleCourier)
	f.addCourier(t, "rider")
	orderID := f.placedOrder(t, "owner")

	_, err := f.service.TakeOrder("rider", orderID)
	assert.NoError(t, err)
	_, err = f.service.ConfirmCompletion("owner", orderID)
	assert.NoError(t, err)

	// Dropping resets the status whatever it was.
	oc, err := f.service.ReleaseOrder("rider", orderID)
	assert.NoError(t, err)
	assert.True(t, oc.OK)

	order, err := f.orders.GetByID(orderID)
	assert.NoError(t, err)
	assert.Nil(t, order.CourierID)
	assert.Equal(t, models.OrderStatusNew, order.Status)
}

func TestOrderService_ReleaseOrderRequiresCourier(t *testing.T) {
	f := newOrderFixture(t)
	f.addUser(t, "owner", models.RoleCustomer)
	orderID := f.placedOrder(t, "owner")

	oc, err := f.service.ReleaseOrder("owner", orderID)
	assert.NoError(t, err)
	assert.False(t, oc.OK)
	assert.Equal(t, "You do not have permission for that.", oc.Message)
}

func TestOrderService_ConfirmCompletion(t *testing.T) {
	f := newOrderFixture(t)
	f.addUser(t, "owner", models.RoleCustomer)
	f.addUser(t, "stranger", models.RoleCustomer)
	f.addUser(t, "rider", models.RoleCourier)
	f.addCourier(t, "rider")
	orderID := f.placedOrder(t, "owner")

	// No courier yet.
	oc, err := f.service.ConfirmCompletion("owner", orderID)
	assert.NoError(t, err)
	assert.False(t, oc.OK)
	assert.Equal(t, "Your order has no courier yet.", oc.Message)
	assert.Equal(t, outcome.OrdersMine, oc.Destination)

	_, err = f.service.TakeOrder("rider", orderID)
	assert.NoError(t, err)

	// Only the owner may confirm.
	oc, err = f.service.ConfirmCompletion("stranger", orderID)
	assert.NoError(t, err)
	assert.False(t, oc.OK)
	assert.Equal(t, "This is not your order.", oc.Message)

	oc, err = f.service.ConfirmCompletion("owner", orderID)
	assert.NoError(t, err)
	assert.True(t, oc.OK)
	assert.Equal(t, "You confirmed the order was completed.", oc.Message)

	order, err := f.orders.GetByID(orderID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, order.Status)

	// A repeat confirmation is rejected, not an error.
	oc, err = f.service.ConfirmCompletion("owner", orderID)
	assert.NoError(t, err)
	assert.False(t, oc.OK)
	assert.Equal(t, "This order has already been completed.", oc.Message)
}

func TestOrderService_AvailableOrders(t *testing.T) {
	f := newOrderFixture(t)
	f.addUser(t, "owner", models.RoleCustomer)
	f.addUser(t, "rider", models.RoleCourier)
	f.addCourier(t, "rider")
	orderID := f.placedOrder(t, "owner")

	// Customers cannot see the courier board.
	_, oc, err := f.service.AvailableOrders("owner")
	assert.NoError(t, err)
	assert.False(t, oc.OK)
	assert.Equal(t, "You do not have permission for that.", oc.Message)

	orders, oc, err := f.service.AvailableOrders("rider")
	assert.NoError(t, err)
	assert.True(t, oc.OK)
	assert.Len(t, orders, 1)
	assert.Equal(t, orderID, orders[0].ID)
}

func TestOrderService_TakenOrders(t *testing.T) {
	f := newOrderFixture(t)
	f.addUser(t, "owner", models.RoleCustomer)
	f.addUser(t, "rider", models.RoleCourier)
	f.addCourier(t, "rider")
	orderID := f.placedOrder(t, "owner")

	orders, oc, err := f.service.TakenOrders("rider")
	assert.NoError(t, err)
	assert.True(t, oc.OK)
	assert.Empty(t, orders)

	_, err = f.service.TakeOrder("rider", orderID)
	assert.NoError(t, err)

	orders, _, err = f.service.TakenOrders("rider")
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, orderID, orders[0].ID)
}

func TestOrderService_MyOrders(t *testing.T) {
	f := newOrderFixture(t)
	f.addUser(t, "owner", models.RoleCustomer)
	orderID := f.placedOrder(t, "owner")

	// The active cart does not show up among placed orders.
	product := models.Product{ID: "prod-x", Name: "Bread", Slug: "bread", Price: decimal.NewFromFloat(4.50), Available: true}
	_, _, err := f.orders.AddItem("owner", &product)
	assert.NoError(t, err)

	orders, err := f.service.MyOrders("owner")
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, orderID, orders[0].ID)
}
