package services

import (
	"log"
	"time"

	"bts/src/config"
	"bts/src/models"
	"bts/src/types"
	"bts/src/utils"

	"github.com/shopspring/decimal"
)

// OrderService owns order creation and cancellation. Stock accounting and
// row persistence happen inside the store in a single atomic unit, so two
// concurrent orders can never push sold quantity past the total.
type OrderService struct {
	store OrderStore

	// Publish sends a domain event to the broker. Nil disables publishing;
	// failures are logged and never fail the order.
	Publish func(topic string, payload map[string]any) error
}

func NewOrderService(store OrderStore) *OrderService {
	return &OrderService{store: store}
}

func (s *OrderService) CreateOrder(p types.Principal, body types.CreateOrderRequestBody) (*models.Order, error) {
	tt, err := s.store.TicketTypeByID(body.TicketTypeID)
	if err != nil {
		return nil, err
	}
	if tt == nil {
		return nil, ErrNotFound
	}
	if body.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if tt.PerOrderLimit > 0 && body.Quantity > tt.PerOrderLimit {
		return nil, ErrInvalidQuantity
	}

	now := time.Now()
	subtotal := tt.Price.Mul(decimal.NewFromInt(int64(body.Quantity)))
	order := &models.Order{
		OrderCode:     utils.NewOrderCode(now),
		UserID:        p.UserID,
		Status:        types.ORDER_PENDING,
		PaymentMethod: body.PaymentMethod,
		PaymentStatus: types.PAYMENT_UNPAID,
		TotalAmount:   subtotal,
		Note:          body.Note,
	}
	item := &models.OrderItem{
		EventID:      tt.EventID,
		TicketTypeID: tt.ID,
		Quantity:     body.Quantity,
		UnitPrice:    tt.Price,
		Subtotal:     subtotal,
	}
	ok, err := s.store.ReserveAndCreate(order, item)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSoldOut
	}

	s.publish("order.created", order)
	return order, nil
}

func (s *OrderService) MyOrders(p types.Principal) ([]models.Order, error) {
	return s.store.OrdersByUser(p.UserID)
}

func (s *OrderService) OrderDetail(p types.Principal, id uint) (*models.Order, error) {
	order, err := s.store.OrderDetail(id)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID != p.UserID {
		return nil, ErrNotFound
	}
	return order, nil
}

func (s *OrderService) CancelOrder(p types.Principal, id uint) (*models.Order, error) {
	order, err := s.store.OrderDetail(id)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID != p.UserID {
		return nil, ErrNotFound
	}
	if order.Status != types.ORDER_PENDING {
		return nil, ErrOrderNotCancelable
	}
	ok, err := s.store.CancelAndRelease(order.ID, "user requested")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrOrderNotCancelable
	}
	order, err = s.store.OrderDetail(id)
	if err != nil {
		return nil, err
	}

	s.publish("order.cancelled", order)
	return order, nil
}

func (s *OrderService) publish(event string, order *models.Order) {
	if s.Publish == nil || order == nil {
		return
	}
	err := s.Publish(config.ORDERS_KAFKA_TOPIC, map[string]any{
		"event":     event,
		"orderId":   order.ID,
		"orderCode": order.OrderCode,
		"userId":    order.UserID,
		"total":     order.TotalAmount.String(),
		"status":    order.Status,
	})
	if err != nil {
		log.Printf("Could not publish %s for order [%s]: %s\n", event, order.OrderCode, err.Error())
	}
}
