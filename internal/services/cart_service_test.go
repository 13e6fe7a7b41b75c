package services_test

import (
	"testing"

	"delivery/internal/models"
	"delivery/internal/outcome"
	"delivery/internal/repositories"
	"delivery/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newCartFixture(t *testing.T) (*services.CartService, *repositories.MockOrderRepository, *repositories.MockProductRepository) {
	t.Helper()
	orderRepo := repositories.NewMockOrderRepository()
	productRepo := repositories.NewMockProductRepository()

	products := []models.Product{
		{ID: "prod-1", Name: "Sourdough Bread", Slug: "sourdough-bread", Price: decimal.NewFromFloat(10.00), Available: true},
		{ID: "prod-2", Name: "Whole Milk", Slug: "whole-milk", Price: decimal.NewFromFloat(1.80), Available: true},
	}
	for i := range products {
		assert.NoError(t, productRepo.Create(&products[i]))
	}

	return services.NewCartService(orderRepo, productRepo, nil), orderRepo, productRepo
}

func TestCartService_AddItemMergesQuantity(t *testing.T) {
	cart, orderRepo, _ := newCartFixture(t)

	order, oc, err := cart.AddItem("user-1", "sourdough-bread")
	assert.NoError(t, err)
	assert.True(t, oc.OK)
	assert.Equal(t, "Product added to your cart.", oc.Message)
	assert.Equal(t, outcome.CartSummary, oc.Destination)
	assert.Len(t, order.Lines, 1)
	assert.Equal(t, 1, order.Lines[0].Quantity)

	// Second add of the same product merges into the existing line.
	order, oc, err = cart.AddItem("user-1", "sourdough-bread")
	assert.NoError(t, err)
	assert.True(t, oc.OK)
	assert.Equal(t, "Cart item quantity updated.", oc.Message)
	assert.Len(t, order.Lines, 1)
	assert.Equal(t, 2, order.Lines[0].Quantity)

	// A different product gets its own line on the same order.
	order, _, err = cart.AddItem("user-1", "whole-milk")
	assert.NoError(t, err)
	assert.Len(t, order.Lines, 2)

	count, err := cart.CartItemCount("user-1")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)

	// Still exactly one active order for the user.
	active, err := orderRepo.ActiveOrder("user-1")
	assert.NoError(t, err)
	assert.Equal(t, order.ID, active.ID)
	assert.False(t, active.Ordered)
}

func TestCartService_AddItemUnknownProduct(t *testing.T) {
	cart, _, _ := newCartFixture(t)

	_, _, err := cart.AddItem("user-1", "no-such-product")
	assert.Error(t, err)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCartService_RemoveItem(t *testing.T) {
	cart, _, _ := newCartFixture(t)

	// No active order yet.
	oc, err := cart.RemoveItem("user-1", "sourdough-bread")
	assert.NoError(t, err)
	assert.False(t, oc.OK)
	assert.Equal(t, "You have no active order.", oc.Message)
	assert.Equal(t, outcome.ProductDetail, oc.Destination)

	_, _, err = cart.AddItem("user-1", "sourdough-bread")
	assert.NoError(t, err)
	_, _, err = cart.AddItem("user-1", "sourdough-bread")
	assert.NoError(t, err)

	// Product not attached to the order.
	oc, err = cart.RemoveItem("user-1", "whole-milk")
	assert.NoError(t, err)
	assert.False(t, oc.OK)
	assert.Equal(t, "That product is not in your cart.", oc.Message)

	// Removal deletes the line entirely, even at quantity 2.
	oc, err = cart.RemoveItem("user-1", "sourdough-bread")
	assert.NoError(t, err)
	assert.True(t, oc.OK)

	count, err := cart.CartItemCount("user-1")
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCartService_DecrementItem(t *testing.T) {
	cart, orderRepo, _ := newCartFixture(t)

	_, _, err := cart.AddItem("user-1", "sourdough-bread")
	assert.NoError(t, err)
	_, _, err = cart.AddItem("user-1", "sourdough-bread")
	assert.NoError(t, err)

	// Quantity 2 -> 1.
	oc, err := cart.DecrementItem("user-1", "sourdough-bread")
	assert.NoError(t, err)
	assert.True(t, oc.OK)

	active, err := orderRepo.ActiveOrder("user-1")
	assert.NoError(t, err)
	assert.Len(t, active.Lines, 1)
	assert.Equal(t, 1, active.Lines[0].Quantity)

	// Quantity 1 -> line deleted, mirroring RemoveItem.
	oc, err = cart.DecrementItem("user-1", "sourdough-bread")
	assert.NoError(t, err)
	assert.True(t, oc.OK)

	active, err = orderRepo.ActiveOrder("user-1")
	assert.NoError(t, err)
	assert.Len(t, active.Lines, 0)
}

func TestCartService_CheckoutValidation(t *testing.T) {
	cart, orderRepo, _ := newCartFixture(t)

	_, _, err := cart.AddItem("user-1", "sourdough-bread")
	assert.NoError(t, err)

	// Any empty field leaves the order untouched.
	forms := []services.CheckoutForm{
		{Name: "", Phone: "123", Address: "Addr"},
		{Name: "A", Phone: "", Address: "Addr"},
		{Name: "A", Phone: "123", Address: ""},
	}
	for _, form := range forms {
		order, oc, err := cart.Checkout("user-1", form)
		assert.NoError(t, err)
		assert.Nil(t, order)
		assert.False(t, oc.OK)
		assert.Equal(t, "Please fill in all delivery fields.", oc.Message)
		assert.Equal(t, outcome.CheckoutForm, oc.Destination)

		active, err := orderRepo.ActiveOrder("user-1")
		assert.NoError(t, err)
		assert.False(t, active.Ordered)
		assert.Equal(t, models.OrderStatusNew, active.Status)
	}
}

func TestCartService_CheckoutWithoutActiveOrder(t *testing.T) {
	cart, _, _ := newCartFixture(t)

	order, oc, err := cart.Checkout("user-1", services.CheckoutForm{Name: "A", Phone: "123", Address: "Addr"})
	assert.NoError(t, err)
	assert.Nil(t, order)
	assert.False(t, oc.OK)
	assert.Equal(t, "You have no active order.", oc.Message)

	// The missing cart wins over an incomplete form.
	order, oc, err = cart.Checkout("user-1", services.CheckoutForm{})
	assert.NoError(t, err)
	assert.Nil(t, order)
	assert.False(t, oc.OK)
	assert.Equal(t, "You have no active order.", oc.Message)
	assert.Equal(t, outcome.Home, oc.Destination)
}

func TestCartService_CheckoutPlacesOrder(t *testing.T) {
	cart, orderRepo, _ := newCartFixture(t)

	_, _, err := cart.AddItem("user-1", "sourdough-bread")
	assert.NoError(t, err)
	_, _, err = cart.AddItem("user-1", "sourdough-bread")
	assert.NoError(t, err)

	order, oc, err := cart.Checkout("user-1", services.CheckoutForm{Name: "A", Phone: "123", Address: "Addr"})
	assert.NoError(t, err)
	assert.True(t, oc.OK)
	assert.Equal(t, outcome.OrdersMine, oc.Destination)
	assert.True(t, order.Ordered)
	// Checkout does not advance the status; only a courier does.
	assert.Equal(t, models.OrderStatusNew, order.Status)
	assert.Equal(t, "A", order.DeliveryName)
	assert.Equal(t, "123", order.DeliveryPhone)
	assert.Equal(t, "Addr", order.DeliveryAddress)
	for _, line := range order.Lines {
		assert.True(t, line.Ordered)
	}
	assert.True(t, order.Total().Equal(decimal.NewFromFloat(20.00)))

	// The checked-out order no longer counts as the active cart, so the
	// next add starts a fresh order.
	_, err = orderRepo.ActiveOrder("user-1")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	fresh, _, err := cart.AddItem("user-1", "whole-milk")
	assert.NoError(t, err)
	assert.NotEqual(t, order.ID, fresh.ID)
	assert.False(t, fresh.Ordered)
}

func TestCartService_PriceSnapshotAtAddTime(t *testing.T) {
	cart, _, productRepo := newCartFixture(t)

	order, _, err := cart.AddItem("user-1", "sourdough-bread")
	assert.NoError(t, err)

	// A price change after the add must not affect the cart line.
	product, err := productRepo.GetBySlug("sourdough-bread")
	assert.NoError(t, err)
	product.Price = decimal.NewFromFloat(99.99)
	assert.NoError(t, productRepo.Update(product))

	order, _, err = cart.AddItem("user-1", "sourdough-bread")
	assert.NoError(t, err)
	assert.Len(t, order.Lines, 1)
	assert.True(t, order.Lines[0].Price.Equal(decimal.NewFromFloat(10.00)))
	assert.True(t, order.Total().Equal(decimal.NewFromFloat(20.00)))
}
