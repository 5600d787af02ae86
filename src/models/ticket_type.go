package models

import (
	"bts/src/types"

	"github.com/shopspring/decimal"
)

// TicketType carries the sellable stock for one tier of one event.
// SoldQuantity never exceeds TotalQuantity; reservations bump it with a
// conditional update so concurrent orders cannot oversell.
type TicketType struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	EventID       uint            `json:"eventId"`
	Name          string          `gorm:"size:128" json:"name"`
	Price         decimal.Decimal `gorm:"type:decimal(18,2)" json:"price"`
	TotalQuantity int             `json:"totalQuantity"`
	SoldQuantity  int             `json:"soldQuantity"`
	PerOrderLimit int             `json:"perOrderLimit,omitempty"`

	Event *Event `json:"event,omitempty"`

	types.Timestamps
}
