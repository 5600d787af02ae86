package models

import (
	"bts/src/types"
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID            uint                `gorm:"primarykey" json:"id"`
	OrderCode     string              `gorm:"uniqueIndex;size:32" json:"orderCode"`
	UserID        uint                `json:"userId"`
	Status        types.OrderStatus   `gorm:"size:16;default:'Pending'" json:"status"`
	PaymentMethod string              `gorm:"size:32" json:"paymentMethod,omitempty"`
	PaymentStatus types.PaymentStatus `gorm:"size:16;default:'Unpaid'" json:"paymentStatus"`
	TotalAmount   decimal.Decimal     `gorm:"type:decimal(18,2)" json:"totalAmount"`
	Note          string              `json:"note,omitempty"`
	PaidAt        *time.Time          `json:"paidAt,omitempty"`
	CancelledAt   *time.Time          `json:"cancelledAt,omitempty"`

	User         *User                `json:"user,omitempty"`
	Items        []OrderItem          `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Transactions []PaymentTransaction `gorm:"foreignKey:OrderID" json:"transactions,omitempty"`

	types.Timestamps
}

type OrderItem struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	OrderID      uint            `json:"orderId"`
	EventID      uint            `json:"eventId"`
	TicketTypeID uint            `json:"ticketTypeId"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,2)" json:"unitPrice"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(18,2)" json:"subtotal"`

	Event      *Event      `json:"event,omitempty"`
	TicketType *TicketType `json:"ticketType,omitempty"`
	Tickets    []Ticket    `gorm:"foreignKey:OrderItemID" json:"tickets,omitempty"`

	types.Timestamps
}
