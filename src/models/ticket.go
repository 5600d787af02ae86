package models

import (
	"bts/src/types"
	"time"
)

type Ticket struct {
	ID           uint               `gorm:"primarykey" json:"id"`
	TicketCode   string             `gorm:"uniqueIndex;size:64" json:"ticketCode"`
	OrderItemID  uint               `json:"orderItemId"`
	EventID      uint               `json:"eventId"`
	TicketTypeID uint               `json:"ticketTypeId"`
	QRPayload    string             `json:"-"`
	QRImageURL   string             `json:"qrImageUrl,omitempty"`
	Status       types.TicketStatus `gorm:"size:16;default:'Issued'" json:"status"`
	IssuedAt     *time.Time         `json:"issuedAt,omitempty"`
	UsedAt       *time.Time         `json:"usedAt,omitempty"`
	CancelledAt  *time.Time         `json:"cancelledAt,omitempty"`

	OrderItem  *OrderItem  `json:"orderItem,omitempty"`
	Event      *Event      `json:"event,omitempty"`
	TicketType *TicketType `json:"ticketType,omitempty"`

	types.Timestamps
}

// TicketScan is an append-only audit row. Failed scans are recorded too,
// with TicketID left nil when the code did not resolve.
type TicketScan struct {
	ID        uint             `gorm:"primarykey" json:"id"`
	TicketID  *uint            `json:"ticketId,omitempty"`
	ScannedAt time.Time        `json:"scannedAt"`
	Gate      string           `gorm:"size:64" json:"gate,omitempty"`
	DeviceID  string           `gorm:"size:64" json:"deviceId,omitempty"`
	Result    types.ScanResult `gorm:"size:16" json:"result"`

	types.Timestamps
}
