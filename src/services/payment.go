package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"bts/src/config"
	"bts/src/lib"
	"bts/src/models"
	"bts/src/types"
	"bts/src/utils"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

type PaymentService struct {
	store PaymentStore

	// CheckoutURL builds a hosted checkout link for the given order total.
	// Nil falls back to the sandbox redirect for every provider.
	CheckoutURL func(orderCode string, amount decimal.Decimal, currency string) (string, error)

	// Publish and Mail are best-effort side effects of a successful
	// settlement. Either may be nil.
	Publish func(topic string, payload map[string]any) error
	Mail    func(input *lib.SendMailInput) error
}

func NewPaymentService(store PaymentStore) *PaymentService {
	return &PaymentService{store: store}
}

type InitiateResult struct {
	Transaction *models.PaymentTransaction `json:"transaction"`
	RedirectURL string                     `json:"redirectUrl"`
}

func (s *PaymentService) Initiate(p types.Principal, body types.InitiatePaymentRequestBody) (*InitiateResult, error) {
	order, err := s.store.OwnedOrder(body.OrderID, p.UserID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	if order.Status != types.ORDER_PENDING || order.PaymentStatus == types.PAYMENT_PAID {
		return nil, ErrOrderNotPayable
	}

	provider := strings.ToLower(strings.TrimSpace(body.Provider))
	now := time.Now()
	txn := &models.PaymentTransaction{
		OrderID:     order.ID,
		Provider:    provider,
		ProviderRef: utils.NewProviderRef(provider, order.ID, now),
		Amount:      order.TotalAmount,
		Currency:    config.DEFAULT_CURRENCY,
		Status:      types.TRANSACTION_PENDING,
	}
	if err := s.store.CreateTransaction(txn); err != nil {
		return nil, err
	}

	redirect := s.redirectURL(provider, order, txn)
	return &InitiateResult{Transaction: txn, RedirectURL: redirect}, nil
}

func (s *PaymentService) redirectURL(provider string, order *models.Order, txn *models.PaymentTransaction) string {
	if provider == "stripe" && s.CheckoutURL != nil {
		url, err := s.CheckoutURL(order.OrderCode, order.TotalAmount, txn.Currency)
		if err == nil && url != "" {
			return url
		}
		if err != nil {
			log.Printf("Could not create checkout session for [%s]: %s\n", order.OrderCode, err.Error())
		}
	}
	return fmt.Sprintf("%s/%s/pay?ref=%s&amount=%s", config.SANDBOX_PAY_URL, provider, txn.ProviderRef, txn.Amount.String())
}

type SettlementResult struct {
	Transaction *models.PaymentTransaction `json:"transaction"`
	Order       *models.Order              `json:"order"`

	// Replay marks a callback that arrived after the transaction reached a
	// terminal state. Nothing was mutated.
	Replay bool `json:"replay"`
}

// ProcessCallback settles a provider callback. Settlement is one way and
// idempotent: a transaction leaves Pending exactly once, replays return the
// current state untouched, and tickets are issued at most once per item.
func (s *PaymentService) ProcessCallback(body types.PaymentCallbackRequestBody) (*SettlementResult, error) {
	result := &SettlementResult{}
	err := s.store.Settle(body.ProviderRef, func(stx SettlementTx, txn *models.PaymentTransaction, order *models.Order) error {
		result.Transaction = txn
		result.Order = order
		if txn.Status != types.TRANSACTION_PENDING {
			result.Replay = true
			return nil
		}

		// A payload reporting a different amount than the transaction was
		// opened with is rejected before any state moves; the transaction
		// stays Pending so a corrected callback can still settle it.
		if reported := gjson.Get(body.RawPayload, "amount"); reported.Exists() {
			if !decimal.NewFromFloat(reported.Float()).Equal(txn.Amount) {
				log.Printf("Amount mismatch for [%s]: got %s, want %s\n", txn.ProviderRef, reported.String(), txn.Amount.String())
				return ErrAmountMismatch
			}
		}

		txn.RawPayload = body.RawPayload
		if ref := gjson.Get(body.RawPayload, "transactionId"); ref.Exists() {
			txn.ProviderTxnID = ref.String()
		}

		if !strings.EqualFold(body.Status, "Success") {
			txn.Status = types.TRANSACTION_FAILED
			return stx.SaveTransaction(txn)
		}

		txn.Status = types.TRANSACTION_SUCCESS
		if err := stx.SaveTransaction(txn); err != nil {
			return err
		}

		now := time.Now()
		order.Status = types.ORDER_PAID
		order.PaymentStatus = types.PAYMENT_PAID
		order.PaidAt = &now
		if err := stx.SaveOrder(order); err != nil {
			return err
		}

		items, err := stx.ItemsByOrder(order.ID)
		if err != nil {
			return err
		}
		for i := range items {
			if _, err := IssueTickets(stx, &items[i]); err != nil {
				return err
			}
		}

		return stx.AddNotification(&models.Notification{
			UserID:  order.UserID,
			Type:    "order",
			Title:   "Payment received",
			Content: fmt.Sprintf("Order %s was paid successfully.", order.OrderCode),
		})
	})
	if err != nil {
		return nil, err
	}

	if !result.Replay && result.Transaction.Status == types.TRANSACTION_SUCCESS {
		s.afterSettlement(result.Order)
	}
	return result, nil
}

func (s *PaymentService) afterSettlement(order *models.Order) {
	if s.Publish != nil {
		err := s.Publish(config.ORDERS_KAFKA_TOPIC, map[string]any{
			"event":     "order.paid",
			"orderId":   order.ID,
			"orderCode": order.OrderCode,
			"userId":    order.UserID,
			"total":     order.TotalAmount.String(),
		})
		if err != nil {
			log.Printf("Could not publish order.paid for [%s]: %s\n", order.OrderCode, err.Error())
		}
	}
	if s.Mail != nil && order.User != nil && order.User.Email != "" {
		go func() {
			err := s.Mail(&lib.SendMailInput{
				From:     "no-reply@bts.local",
				FromName: "Booking Tickets",
				To:       []string{order.User.Email},
				Subject:  fmt.Sprintf("Receipt for order %s", order.OrderCode),
				Body:     fmt.Sprintf("Your order %s for %s %s has been paid. See you at the event!", order.OrderCode, order.TotalAmount.String(), config.DEFAULT_CURRENCY),
			})
			if err != nil {
				log.Printf("Could not send receipt for [%s]: %s\n", order.OrderCode, err.Error())
			}
		}()
	}
}

func (s *PaymentService) MyPayments(p types.Principal) ([]models.PaymentTransaction, error) {
	return s.store.TransactionsByUser(p.UserID)
}
