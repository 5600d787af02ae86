package db

import (
	"errors"
	"time"

	"bts/src/models"
	"bts/src/models/scopes"
	"bts/src/services"
	"bts/src/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderStore is the gorm-backed services.OrderStore.
type OrderStore struct{}

var errNoStock = errors.New("no stock")

func (s *OrderStore) TicketTypeByID(id uint) (*models.TicketType, error) {
	var tt models.TicketType
	err := GetDb().Model(&models.TicketType{}).Scopes(scopes.WithID(id)).First(&tt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tt, nil
}

func (s *OrderStore) ReserveAndCreate(order *models.Order, item *models.OrderItem) (bool, error) {
	err := GetDb().Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&models.TicketType{}).
			Where("id = ? AND sold_quantity + ? <= total_quantity", item.TicketTypeID, item.Quantity).
			UpdateColumn("sold_quantity", gorm.Expr("sold_quantity + ?", item.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errNoStock
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		item.OrderID = order.ID
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return nil
	})
	if errors.Is(err, errNoStock) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	order.Items = []models.OrderItem{*item}
	return true, nil
}

func (s *OrderStore) OrdersByUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := GetDb().
		Model(&models.Order{}).
		Scopes(scopes.WithUser(userID), scopes.NewestFirst).
		Preload("Items").
		Preload("Items.Event").
		Find(&orders).
		Error
	return orders, err
}

func (s *OrderStore) OrderDetail(id uint) (*models.Order, error) {
	var order models.Order
	err := GetDb().
		Model(&models.Order{}).
		Scopes(scopes.WithID(id)).
		Preload("Items").
		Preload("Items.Event").
		Preload("Items.TicketType").
		Preload("Items.Tickets").
		Preload("Transactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&order).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderStore) CancelAndRelease(orderID uint, reason string) (bool, error) {
	cancelled := false
	err := GetDb().Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.
			Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, types.ORDER_PENDING).
			Updates(map[string]any{
				"status":       types.ORDER_CANCELLED,
				"cancelled_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		var items []models.OrderItem
		if err := tx.Model(&models.OrderItem{}).Where("order_id = ?", orderID).Find(&items).Error; err != nil {
			return err
		}
		for _, item := range items {
			err := tx.
				Model(&models.TicketType{}).
				Scopes(scopes.WithID(item.TicketTypeID)).
				UpdateColumn("sold_quantity", gorm.Expr("sold_quantity - ?", item.Quantity)).
				Error
			if err != nil {
				return err
			}
		}
		cancelled = true
		return nil
	})
	return cancelled, err
}

// PaymentStore is the gorm-backed services.PaymentStore.
type PaymentStore struct{}

func (s *PaymentStore) OwnedOrder(orderID, userID uint) (*models.Order, error) {
	var order models.Order
	err := GetDb().
		Model(&models.Order{}).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *PaymentStore) CreateTransaction(txn *models.PaymentTransaction) error {
	return GetDb().Create(txn).Error
}

func (s *PaymentStore) TransactionsByUser(userID uint) ([]models.PaymentTransaction, error) {
	var txns []models.PaymentTransaction
	err := GetDb().
		Model(&models.PaymentTransaction{}).
		Joins("JOIN orders ON orders.id = payment_transactions.order_id").
		Where("orders.user_id = ?", userID).
		Order("payment_transactions.created_at DESC").
		Preload("Order").
		Find(&txns).
		Error
	return txns, err
}

// Settle locks the transaction row so concurrent callbacks for the same
// providerRef serialize; the second one observes the terminal state.
func (s *PaymentStore) Settle(providerRef string, fn services.SettleFunc) error {
	return GetDb().Transaction(func(tx *gorm.DB) error {
		var txn models.PaymentTransaction
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("provider_ref = ?", providerRef).
			First(&txn).
			Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.ErrNotFound
		}
		if err != nil {
			return err
		}
		var order models.Order
		err = tx.
			Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "orders"}}).
			Preload("User").
			Where("id = ?", txn.OrderID).
			First(&order).
			Error
		if err != nil {
			return err
		}
		return fn(&settlementTx{tx: tx}, &txn, &order)
	})
}

type settlementTx struct {
	tx *gorm.DB
}

func (s *settlementTx) SaveTransaction(txn *models.PaymentTransaction) error {
	return s.tx.Omit(clause.Associations).Save(txn).Error
}

func (s *settlementTx) SaveOrder(order *models.Order) error {
	return s.tx.Omit(clause.Associations).Save(order).Error
}

func (s *settlementTx) ItemsByOrder(orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.tx.Model(&models.OrderItem{}).Where("order_id = ?", orderID).Find(&items).Error
	return items, err
}

func (s *settlementTx) HasTickets(orderItemID uint) (bool, error) {
	var count int64
	err := s.tx.Model(&models.Ticket{}).Where("order_item_id = ?", orderItemID).Count(&count).Error
	return count > 0, err
}

func (s *settlementTx) AddTickets(tickets []models.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	return s.tx.Create(&tickets).Error
}

func (s *settlementTx) AddNotification(n *models.Notification) error {
	return s.tx.Create(n).Error
}

// TicketStore is the gorm-backed services.TicketStore.
type TicketStore struct{}

func (s *TicketStore) TicketByCode(code string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := GetDb().
		Model(&models.Ticket{}).
		Where("ticket_code = ?", code).
		Preload("Event").
		First(&ticket).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (s *TicketStore) TicketsByUser(userID uint) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := GetDb().
		Model(&models.Ticket{}).
		Joins("JOIN order_items ON order_items.id = tickets.order_item_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ?", userID).
		Order("tickets.created_at DESC").
		Preload("Event").
		Preload("TicketType").
		Find(&tickets).
		Error
	return tickets, err
}

func (s *TicketStore) TicketForUser(id, userID uint) (*models.Ticket, error) {
	var ticket models.Ticket
	err := GetDb().
		Model(&models.Ticket{}).
		Joins("JOIN order_items ON order_items.id = tickets.order_item_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("tickets.id = ? AND orders.user_id = ?", id, userID).
		Preload("Event").
		Preload("TicketType").
		First(&ticket).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (s *TicketStore) MarkUsed(ticket *models.Ticket) error {
	return GetDb().
		Model(&models.Ticket{}).
		Where("id = ? AND status = ?", ticket.ID, types.TICKET_ISSUED).
		Updates(map[string]any{
			"status":  types.TICKET_USED,
			"used_at": ticket.UsedAt,
		}).
		Error
}

func (s *TicketStore) AddScan(scan *models.TicketScan) error {
	return GetDb().Create(scan).Error
}

// UserStore is the gorm-backed services.UserStore.
type UserStore struct{}

func (s *UserStore) UserByUsername(username string) (*models.User, error) {
	var user models.User
	err := GetDb().Model(&models.User{}).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) UserByID(id uint) (*models.User, error) {
	var user models.User
	err := GetDb().Model(&models.User{}).Scopes(scopes.WithID(id)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) CreateUser(user *models.User) error {
	return GetDb().Create(user).Error
}

func (s *UserStore) SaveUser(user *models.User) error {
	return GetDb().Omit(clause.Associations).Save(user).Error
}
