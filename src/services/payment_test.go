package services

import (
	"fmt"
	"testing"

	"bts/src/models"
	"bts/src/types"

	"github.com/stretchr/testify/assert"
)

func pendingOrder(id, userID uint) *models.Order {
	return &models.Order{
		ID:            id,
		OrderCode:     fmt.Sprintf("ORD2025031409265358%d", id),
		UserID:        userID,
		Status:        types.ORDER_PENDING,
		PaymentStatus: types.PAYMENT_UNPAID,
		TotalAmount:   vnd(200000),
		User:          &models.User{ID: userID, Username: "alice"},
	}
}

func TestInitiatePayment(t *testing.T) {
	store := newMemPaymentStore()
	store.addOrder(pendingOrder(1, 1))
	svc := NewPaymentService(store)

	result, err := svc.Initiate(buyer(), types.InitiatePaymentRequestBody{OrderID: 1, Provider: "MoMo"})
	assert.NoError(t, err)
	assert.Equal(t, "momo", result.Transaction.Provider)
	assert.Equal(t, types.TRANSACTION_PENDING, result.Transaction.Status)
	assert.Equal(t, "VND", result.Transaction.Currency)
	assert.True(t, result.Transaction.Amount.Equal(vnd(200000)))
	assert.Regexp(t, `^momo-\d{17}-1$`, result.Transaction.ProviderRef)
	assert.Equal(t,
		fmt.Sprintf("https://sandbox-pay.example.com/momo/pay?ref=%s&amount=200000", result.Transaction.ProviderRef),
		result.RedirectURL)
}

func TestInitiatePaymentStripeFallback(t *testing.T) {
	store := newMemPaymentStore()
	store.addOrder(pendingOrder(1, 1))
	svc := NewPaymentService(store)

	// No checkout builder configured: stripe falls back to the sandbox URL.
	result, err := svc.Initiate(buyer(), types.InitiatePaymentRequestBody{OrderID: 1, Provider: "stripe"})
	assert.NoError(t, err)
	assert.Contains(t, result.RedirectURL, "sandbox-pay.example.com/stripe/pay")
}

func TestInitiatePaymentRejectsForeignOrder(t *testing.T) {
	store := newMemPaymentStore()
	store.addOrder(pendingOrder(1, 2))
	svc := NewPaymentService(store)

	_, err := svc.Initiate(buyer(), types.InitiatePaymentRequestBody{OrderID: 1, Provider: "momo"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInitiatePaymentRejectsSettledOrder(t *testing.T) {
	store := newMemPaymentStore()
	paid := pendingOrder(1, 1)
	paid.Status = types.ORDER_PAID
	paid.PaymentStatus = types.PAYMENT_PAID
	store.addOrder(paid)
	cancelled := pendingOrder(2, 1)
	cancelled.Status = types.ORDER_CANCELLED
	store.addOrder(cancelled)
	svc := NewPaymentService(store)

	_, err := svc.Initiate(buyer(), types.InitiatePaymentRequestBody{OrderID: 1, Provider: "momo"})
	assert.ErrorIs(t, err, ErrOrderNotPayable)
	_, err = svc.Initiate(buyer(), types.InitiatePaymentRequestBody{OrderID: 2, Provider: "momo"})
	assert.ErrorIs(t, err, ErrOrderNotPayable)
}

func settleReady(t *testing.T) (*memPaymentStore, *PaymentService, string) {
	t.Helper()
	t.Setenv("API_FILES_DIR", t.TempDir())
	store := newMemPaymentStore()
	order := pendingOrder(1, 1)
	store.addOrder(order, models.OrderItem{
		ID:           11,
		OrderID:      1,
		EventID:      10,
		TicketTypeID: 1,
		Quantity:     2,
		UnitPrice:    vnd(100000),
		Subtotal:     vnd(200000),
	})
	svc := NewPaymentService(store)
	result, err := svc.Initiate(buyer(), types.InitiatePaymentRequestBody{OrderID: 1, Provider: "momo"})
	assert.NoError(t, err)
	return store, svc, result.Transaction.ProviderRef
}

func TestProcessCallbackSuccess(t *testing.T) {
	store, svc, ref := settleReady(t)

	result, err := svc.ProcessCallback(types.PaymentCallbackRequestBody{
		ProviderRef: ref,
		Status:      "success",
		RawPayload:  `{"transactionId":"prov-778","amount":200000}`,
	})
	assert.NoError(t, err)
	assert.False(t, result.Replay)
	assert.Equal(t, types.TRANSACTION_SUCCESS, result.Transaction.Status)
	assert.Equal(t, "prov-778", result.Transaction.ProviderTxnID)
	assert.Equal(t, types.ORDER_PAID, result.Order.Status)
	assert.Equal(t, types.PAYMENT_PAID, result.Order.PaymentStatus)
	assert.NotNil(t, result.Order.PaidAt)

	tickets := store.tickets[11]
	assert.Len(t, tickets, 2)
	for _, ticket := range tickets {
		assert.Equal(t, types.TICKET_ISSUED, ticket.Status)
		assert.Contains(t, ticket.TicketCode, "TCK-")
	}
	assert.Len(t, store.notifications, 1)
	assert.Equal(t, uint(1), store.notifications[0].UserID)
}

func TestProcessCallbackFailure(t *testing.T) {
	store, svc, ref := settleReady(t)

	result, err := svc.ProcessCallback(types.PaymentCallbackRequestBody{ProviderRef: ref, Status: "Failed"})
	assert.NoError(t, err)
	assert.Equal(t, types.TRANSACTION_FAILED, result.Transaction.Status)
	assert.Equal(t, types.ORDER_PENDING, result.Order.Status)
	assert.Empty(t, store.tickets[11])
	assert.Empty(t, store.notifications)
}

func TestProcessCallbackAmountMismatch(t *testing.T) {
	store, svc, ref := settleReady(t)

	_, err := svc.ProcessCallback(types.PaymentCallbackRequestBody{
		ProviderRef: ref,
		Status:      "Success",
		RawPayload:  `{"transactionId":"prov-778","amount":150000}`,
	})
	assert.ErrorIs(t, err, ErrAmountMismatch)
	assert.Equal(t, types.TRANSACTION_PENDING, store.txns[ref].Status)
	assert.Empty(t, store.tickets[11])

	// The transaction is still Pending, so a callback reporting the right
	// amount settles it normally.
	result, err := svc.ProcessCallback(types.PaymentCallbackRequestBody{
		ProviderRef: ref,
		Status:      "Success",
		RawPayload:  `{"transactionId":"prov-778","amount":200000}`,
	})
	assert.NoError(t, err)
	assert.Equal(t, types.TRANSACTION_SUCCESS, result.Transaction.Status)
	assert.Len(t, store.tickets[11], 2)
}

func TestProcessCallbackReplayIsIdempotent(t *testing.T) {
	store, svc, ref := settleReady(t)

	first, err := svc.ProcessCallback(types.PaymentCallbackRequestBody{ProviderRef: ref, Status: "Success"})
	assert.NoError(t, err)
	paidAt := first.Order.PaidAt

	replay, err := svc.ProcessCallback(types.PaymentCallbackRequestBody{ProviderRef: ref, Status: "Success"})
	assert.NoError(t, err)
	assert.True(t, replay.Replay)
	assert.Equal(t, types.TRANSACTION_SUCCESS, replay.Transaction.Status)
	assert.Equal(t, paidAt, replay.Order.PaidAt)
	assert.Len(t, store.tickets[11], 2)
	assert.Len(t, store.notifications, 1)
}

func TestProcessCallbackFailureAfterSuccessDoesNotRevert(t *testing.T) {
	_, svc, ref := settleReady(t)

	_, err := svc.ProcessCallback(types.PaymentCallbackRequestBody{ProviderRef: ref, Status: "Success"})
	assert.NoError(t, err)

	result, err := svc.ProcessCallback(types.PaymentCallbackRequestBody{ProviderRef: ref, Status: "Failed"})
	assert.NoError(t, err)
	assert.True(t, result.Replay)
	assert.Equal(t, types.TRANSACTION_SUCCESS, result.Transaction.Status)
	assert.Equal(t, types.ORDER_PAID, result.Order.Status)
}

func TestProcessCallbackUnknownRef(t *testing.T) {
	_, svc, _ := settleReady(t)
	_, err := svc.ProcessCallback(types.PaymentCallbackRequestBody{ProviderRef: "momo-0-99", Status: "Success"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIssueTicketsIdempotent(t *testing.T) {
	t.Setenv("API_FILES_DIR", t.TempDir())
	store := newMemPaymentStore()
	stx := &memSettlementTx{store: store}
	item := &models.OrderItem{ID: 11, OrderID: 1, EventID: 10, TicketTypeID: 1, Quantity: 2}

	tickets, err := IssueTickets(stx, item)
	assert.NoError(t, err)
	assert.Len(t, tickets, 2)

	again, err := IssueTickets(stx, item)
	assert.NoError(t, err)
	assert.Nil(t, again)
	assert.Len(t, store.tickets[11], 2)
}
