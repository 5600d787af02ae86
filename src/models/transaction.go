package models

import (
	"bts/src/types"

	"github.com/shopspring/decimal"
)

// PaymentTransaction records one attempt to pay an order through an external
// provider. ProviderRef is the callback correlation key and is unique across
// providers. A transaction in a terminal state (Success or Failed) is never
// moved back to Pending or flipped to the other terminal state.
type PaymentTransaction struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	OrderID     uint   `json:"orderId"`
	Provider    string `gorm:"size:32" json:"provider"`
	ProviderRef string `gorm:"uniqueIndex;size:64" json:"providerRef"`

	// ProviderTxnID is the provider's own id for the payment, taken from
	// the callback payload.
	ProviderTxnID string `gorm:"size:64" json:"providerTxnId,omitempty"`

	Amount     decimal.Decimal         `gorm:"type:decimal(18,2)" json:"amount"`
	Currency   string                  `gorm:"size:8;default:'VND'" json:"currency"`
	Status     types.TransactionStatus `gorm:"size:16;default:'Pending'" json:"status"`
	RawPayload string                  `json:"-"`

	Order *Order `json:"order,omitempty"`

	types.Timestamps
}
