package services

import (
	"errors"

	"bts/src/models"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrSoldOut            = errors.New("not enough tickets left")
	ErrOrderNotPayable    = errors.New("order cannot be paid")
	ErrOrderNotCancelable = errors.New("order cannot be cancelled")
	ErrAmountMismatch     = errors.New("callback amount does not match transaction")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordMismatch   = errors.New("old password does not match")
)

// OrderStore is the persistence boundary of the order workflow. The gorm
// implementation lives in the db package; tests use in-memory stand-ins.
type OrderStore interface {
	TicketTypeByID(id uint) (*models.TicketType, error)

	// ReserveAndCreate must, in one atomic unit, increment the ticket
	// type's sold quantity when the stock allows it and persist the order
	// together with its item. It returns false when the remaining stock
	// cannot cover the item's quantity; nothing is written in that case.
	ReserveAndCreate(order *models.Order, item *models.OrderItem) (bool, error)

	OrdersByUser(userID uint) ([]models.Order, error)
	OrderDetail(id uint) (*models.Order, error)

	// CancelAndRelease flips a Pending order to Cancelled and gives the
	// reserved quantity back, atomically. It returns false when the order
	// was no longer Pending.
	CancelAndRelease(orderID uint, reason string) (bool, error)
}

// SettlementTx exposes the writes a settlement can perform while the
// callback transaction holds the row lock.
type SettlementTx interface {
	SaveTransaction(txn *models.PaymentTransaction) error
	SaveOrder(order *models.Order) error
	ItemsByOrder(orderID uint) ([]models.OrderItem, error)
	HasTickets(orderItemID uint) (bool, error)
	AddTickets(tickets []models.Ticket) error
	AddNotification(n *models.Notification) error
}

type SettleFunc func(stx SettlementTx, txn *models.PaymentTransaction, order *models.Order) error

type PaymentStore interface {
	OwnedOrder(orderID, userID uint) (*models.Order, error)
	CreateTransaction(txn *models.PaymentTransaction) error
	TransactionsByUser(userID uint) ([]models.PaymentTransaction, error)

	// Settle locks the transaction row identified by providerRef, loads its
	// order and runs fn inside the same database transaction.
	Settle(providerRef string, fn SettleFunc) error
}

type TicketStore interface {
	TicketByCode(code string) (*models.Ticket, error)
	TicketsByUser(userID uint) ([]models.Ticket, error)
	TicketForUser(id, userID uint) (*models.Ticket, error)
	MarkUsed(ticket *models.Ticket) error
	AddScan(scan *models.TicketScan) error
}

type UserStore interface {
	UserByUsername(username string) (*models.User, error)
	UserByID(id uint) (*models.User, error)
	CreateUser(user *models.User) error
	SaveUser(user *models.User) error
}
