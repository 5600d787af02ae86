package services

import (
	"bts/src/models"
	"bts/src/types"

	"github.com/shopspring/decimal"
)

// In-memory store implementations. They honor the same atomicity contracts
// as the gorm stores, minus real locking, which single-goroutine tests do
// not need.

type memOrderStore struct {
	ticketTypes map[uint]*models.TicketType
	orders      map[uint]*models.Order
	items       map[uint][]models.OrderItem
	nextID      uint
}

func newMemOrderStore() *memOrderStore {
	return &memOrderStore{
		ticketTypes: map[uint]*models.TicketType{},
		orders:      map[uint]*models.Order{},
		items:       map[uint][]models.OrderItem{},
	}
}

func (s *memOrderStore) addTicketType(tt *models.TicketType) *models.TicketType {
	s.ticketTypes[tt.ID] = tt
	return tt
}

func (s *memOrderStore) TicketTypeByID(id uint) (*models.TicketType, error) {
	tt, ok := s.ticketTypes[id]
	if !ok {
		return nil, nil
	}
	cp := *tt
	return &cp, nil
}

func (s *memOrderStore) ReserveAndCreate(order *models.Order, item *models.OrderItem) (bool, error) {
	tt := s.ticketTypes[item.TicketTypeID]
	if tt == nil || tt.SoldQuantity+item.Quantity > tt.TotalQuantity {
		return false, nil
	}
	tt.SoldQuantity += item.Quantity
	s.nextID++
	order.ID = s.nextID
	s.nextID++
	item.ID = s.nextID
	item.OrderID = order.ID
	s.orders[order.ID] = order
	s.items[order.ID] = append(s.items[order.ID], *item)
	order.Items = []models.OrderItem{*item}
	return true, nil
}

func (s *memOrderStore) OrdersByUser(userID uint) ([]models.Order, error) {
	var out []models.Order
	for _, order := range s.orders {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (s *memOrderStore) OrderDetail(id uint) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *order
	cp.Items = append([]models.OrderItem{}, s.items[id]...)
	return &cp, nil
}

func (s *memOrderStore) CancelAndRelease(orderID uint, reason string) (bool, error) {
	order, ok := s.orders[orderID]
	if !ok || order.Status != types.ORDER_PENDING {
		return false, nil
	}
	order.Status = types.ORDER_CANCELLED
	for _, item := range s.items[orderID] {
		if tt := s.ticketTypes[item.TicketTypeID]; tt != nil {
			tt.SoldQuantity -= item.Quantity
		}
	}
	return true, nil
}

type memPaymentStore struct {
	orders        map[uint]*models.Order
	items         map[uint][]models.OrderItem
	txns          map[string]*models.PaymentTransaction
	tickets       map[uint][]models.Ticket
	notifications []models.Notification
}

func newMemPaymentStore() *memPaymentStore {
	return &memPaymentStore{
		orders:  map[uint]*models.Order{},
		items:   map[uint][]models.OrderItem{},
		txns:    map[string]*models.PaymentTransaction{},
		tickets: map[uint][]models.Ticket{},
	}
}

func (s *memPaymentStore) addOrder(order *models.Order, items ...models.OrderItem) *models.Order {
	s.orders[order.ID] = order
	s.items[order.ID] = items
	return order
}

func (s *memPaymentStore) OwnedOrder(orderID, userID uint) (*models.Order, error) {
	order, ok := s.orders[orderID]
	if !ok || order.UserID != userID {
		return nil, nil
	}
	return order, nil
}

func (s *memPaymentStore) CreateTransaction(txn *models.PaymentTransaction) error {
	txn.ID = uint(len(s.txns) + 1)
	s.txns[txn.ProviderRef] = txn
	return nil
}

func (s *memPaymentStore) TransactionsByUser(userID uint) ([]models.PaymentTransaction, error) {
	var out []models.PaymentTransaction
	for _, txn := range s.txns {
		if order, ok := s.orders[txn.OrderID]; ok && order.UserID == userID {
			out = append(out, *txn)
		}
	}
	return out, nil
}

func (s *memPaymentStore) Settle(providerRef string, fn SettleFunc) error {
	txn, ok := s.txns[providerRef]
	if !ok {
		return ErrNotFound
	}
	order := s.orders[txn.OrderID]
	return fn(&memSettlementTx{store: s}, txn, order)
}

type memSettlementTx struct {
	store *memPaymentStore
}

func (s *memSettlementTx) SaveTransaction(txn *models.PaymentTransaction) error {
	s.store.txns[txn.ProviderRef] = txn
	return nil
}

func (s *memSettlementTx) SaveOrder(order *models.Order) error {
	s.store.orders[order.ID] = order
	return nil
}

func (s *memSettlementTx) ItemsByOrder(orderID uint) ([]models.OrderItem, error) {
	return s.store.items[orderID], nil
}

func (s *memSettlementTx) HasTickets(orderItemID uint) (bool, error) {
	return len(s.store.tickets[orderItemID]) > 0, nil
}

func (s *memSettlementTx) AddTickets(tickets []models.Ticket) error {
	for _, ticket := range tickets {
		s.store.tickets[ticket.OrderItemID] = append(s.store.tickets[ticket.OrderItemID], ticket)
	}
	return nil
}

func (s *memSettlementTx) AddNotification(n *models.Notification) error {
	s.store.notifications = append(s.store.notifications, *n)
	return nil
}

type memTicketStore struct {
	tickets map[string]*models.Ticket
	owners  map[uint]uint // ticket id -> user id
	scans   []models.TicketScan
}

func newMemTicketStore() *memTicketStore {
	return &memTicketStore{
		tickets: map[string]*models.Ticket{},
		owners:  map[uint]uint{},
	}
}

func (s *memTicketStore) addTicket(ticket *models.Ticket, ownerID uint) *models.Ticket {
	s.tickets[ticket.TicketCode] = ticket
	s.owners[ticket.ID] = ownerID
	return ticket
}

func (s *memTicketStore) TicketByCode(code string) (*models.Ticket, error) {
	ticket, ok := s.tickets[code]
	if !ok {
		return nil, nil
	}
	return ticket, nil
}

func (s *memTicketStore) TicketsByUser(userID uint) ([]models.Ticket, error) {
	var out []models.Ticket
	for _, ticket := range s.tickets {
		if s.owners[ticket.ID] == userID {
			out = append(out, *ticket)
		}
	}
	return out, nil
}

func (s *memTicketStore) TicketForUser(id, userID uint) (*models.Ticket, error) {
	for _, ticket := range s.tickets {
		if ticket.ID == id && s.owners[ticket.ID] == userID {
			return ticket, nil
		}
	}
	return nil, nil
}

func (s *memTicketStore) MarkUsed(ticket *models.Ticket) error {
	s.tickets[ticket.TicketCode] = ticket
	return nil
}

func (s *memTicketStore) AddScan(scan *models.TicketScan) error {
	s.scans = append(s.scans, *scan)
	return nil
}

type memUserStore struct {
	users  map[string]*models.User
	nextID uint
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]*models.User{}}
}

func (s *memUserStore) UserByUsername(username string) (*models.User, error) {
	user, ok := s.users[username]
	if !ok {
		return nil, nil
	}
	return user, nil
}

func (s *memUserStore) UserByID(id uint) (*models.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, nil
}

func (s *memUserStore) CreateUser(user *models.User) error {
	s.nextID++
	user.ID = s.nextID
	s.users[user.Username] = user
	return nil
}

func (s *memUserStore) SaveUser(user *models.User) error {
	s.users[user.Username] = user
	return nil
}

func vnd(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount)
}
