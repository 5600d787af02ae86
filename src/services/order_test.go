package services

import (
	"strings"
	"testing"

	"bts/src/models"
	"bts/src/types"

	"github.com/stretchr/testify/assert"
)

func buyer() types.Principal {
	return types.Principal{UserID: 1, Username: "alice", Role: types.ROLE_USER}
}

func standardTicketType() *models.TicketType {
	return &models.TicketType{
		ID:            1,
		EventID:       10,
		Name:          "Standard",
		Price:         vnd(100000),
		TotalQuantity: 50,
		PerOrderLimit: 4,
	}
}

func TestCreateOrder(t *testing.T) {
	store := newMemOrderStore()
	store.addTicketType(standardTicketType())
	svc := NewOrderService(store)

	order, err := svc.CreateOrder(buyer(), types.CreateOrderRequestBody{
		TicketTypeID:  1,
		Quantity:      2,
		PaymentMethod: "momo",
	})
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(order.OrderCode, "ORD"))
	assert.Len(t, order.OrderCode, 20)
	assert.Equal(t, types.ORDER_PENDING, order.Status)
	assert.Equal(t, types.PAYMENT_UNPAID, order.PaymentStatus)
	assert.True(t, order.TotalAmount.Equal(vnd(200000)))
	assert.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].UnitPrice.Equal(vnd(100000)))
	assert.Equal(t, 2, store.ticketTypes[1].SoldQuantity)
}

func TestCreateOrderInvalidQuantity(t *testing.T) {
	store := newMemOrderStore()
	store.addTicketType(standardTicketType())
	svc := NewOrderService(store)

	_, err := svc.CreateOrder(buyer(), types.CreateOrderRequestBody{TicketTypeID: 1, Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.CreateOrder(buyer(), types.CreateOrderRequestBody{TicketTypeID: 1, Quantity: 5})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCreateOrderUnknownTicketType(t *testing.T) {
	svc := NewOrderService(newMemOrderStore())
	_, err := svc.CreateOrder(buyer(), types.CreateOrderRequestBody{TicketTypeID: 99, Quantity: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateOrderSoldOut(t *testing.T) {
	store := newMemOrderStore()
	tt := standardTicketType()
	tt.TotalQuantity = 3
	tt.SoldQuantity = 2
	store.addTicketType(tt)
	svc := NewOrderService(store)

	_, err := svc.CreateOrder(buyer(), types.CreateOrderRequestBody{TicketTypeID: 1, Quantity: 2})
	assert.ErrorIs(t, err, ErrSoldOut)
	assert.Equal(t, 2, store.ticketTypes[1].SoldQuantity)

	order, err := svc.CreateOrder(buyer(), types.CreateOrderRequestBody{TicketTypeID: 1, Quantity: 1})
	assert.NoError(t, err)
	assert.NotNil(t, order)
	assert.Equal(t, 3, store.ticketTypes[1].SoldQuantity)
}

func TestOrderDetailOwnership(t *testing.T) {
	store := newMemOrderStore()
	store.addTicketType(standardTicketType())
	svc := NewOrderService(store)

	order, err := svc.CreateOrder(buyer(), types.CreateOrderRequestBody{TicketTypeID: 1, Quantity: 1})
	assert.NoError(t, err)

	got, err := svc.OrderDetail(buyer(), order.ID)
	assert.NoError(t, err)
	assert.Equal(t, order.OrderCode, got.OrderCode)

	stranger := types.Principal{UserID: 2, Username: "bob", Role: types.ROLE_USER}
	_, err = svc.OrderDetail(stranger, order.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelOrderReleasesStock(t *testing.T) {
	store := newMemOrderStore()
	store.addTicketType(standardTicketType())
	svc := NewOrderService(store)

	order, err := svc.CreateOrder(buyer(), types.CreateOrderRequestBody{TicketTypeID: 1, Quantity: 3})
	assert.NoError(t, err)
	assert.Equal(t, 3, store.ticketTypes[1].SoldQuantity)

	cancelled, err := svc.CancelOrder(buyer(), order.ID)
	assert.NoError(t, err)
	assert.Equal(t, types.ORDER_CANCELLED, cancelled.Status)
	assert.Equal(t, 0, store.ticketTypes[1].SoldQuantity)
}

func TestCancelOrderRejectsNonPending(t *testing.T) {
	store := newMemOrderStore()
	store.addTicketType(standardTicketType())
	svc := NewOrderService(store)

	order, err := svc.CreateOrder(buyer(), types.CreateOrderRequestBody{TicketTypeID: 1, Quantity: 1})
	assert.NoError(t, err)

	store.orders[order.ID].Status = types.ORDER_PAID
	_, err = svc.CancelOrder(buyer(), order.ID)
	assert.ErrorIs(t, err, ErrOrderNotCancelable)

	store.orders[order.ID].Status = types.ORDER_CANCELLED
	_, err = svc.CancelOrder(buyer(), order.ID)
	assert.ErrorIs(t, err, ErrOrderNotCancelable)
	assert.Equal(t, 1, store.ticketTypes[1].SoldQuantity)
}
