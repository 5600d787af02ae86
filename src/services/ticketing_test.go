package services

import (
	"testing"

	"bts/src/models"
	"bts/src/types"

	"github.com/stretchr/testify/assert"
)

func issuedTicket(id uint, code string) *models.Ticket {
	return &models.Ticket{
		ID:           id,
		TicketCode:   code,
		OrderItemID:  11,
		EventID:      10,
		TicketTypeID: 1,
		Status:       types.TICKET_ISSUED,
	}
}

func TestScanIssuedTicket(t *testing.T) {
	store := newMemTicketStore()
	store.addTicket(issuedTicket(1, "TCK-a"), 1)
	svc := NewTicketService(store)

	outcome, err := svc.Scan(types.ScanTicketRequestBody{TicketCode: "TCK-a", Gate: "G1", DeviceID: "dev-1"})
	assert.NoError(t, err)
	assert.Equal(t, types.SCAN_OK, outcome.Result)
	assert.Equal(t, types.TICKET_USED, outcome.Ticket.Status)
	assert.NotNil(t, outcome.Ticket.UsedAt)

	assert.Len(t, store.scans, 1)
	assert.Equal(t, types.SCAN_OK, store.scans[0].Result)
	assert.Equal(t, "G1", store.scans[0].Gate)
}

func TestScanUsedTicketIsOneWay(t *testing.T) {
	store := newMemTicketStore()
	store.addTicket(issuedTicket(1, "TCK-a"), 1)
	svc := NewTicketService(store)

	first, err := svc.Scan(types.ScanTicketRequestBody{TicketCode: "TCK-a"})
	assert.NoError(t, err)
	usedAt := first.Ticket.UsedAt

	second, err := svc.Scan(types.ScanTicketRequestBody{TicketCode: "TCK-a"})
	assert.NoError(t, err)
	assert.Equal(t, types.SCAN_ALREADY_USED, second.Result)
	assert.Equal(t, usedAt, second.Ticket.UsedAt)
	assert.Len(t, store.scans, 2)
}

func TestScanCancelledTicket(t *testing.T) {
	store := newMemTicketStore()
	ticket := issuedTicket(1, "TCK-a")
	ticket.Status = types.TICKET_CANCELLED
	store.addTicket(ticket, 1)
	svc := NewTicketService(store)

	outcome, err := svc.Scan(types.ScanTicketRequestBody{TicketCode: "TCK-a"})
	assert.NoError(t, err)
	assert.Equal(t, types.SCAN_CANCELLED, outcome.Result)
	assert.Equal(t, types.TICKET_CANCELLED, outcome.Ticket.Status)
}

func TestScanUnknownCode(t *testing.T) {
	store := newMemTicketStore()
	svc := NewTicketService(store)

	outcome, err := svc.Scan(types.ScanTicketRequestBody{TicketCode: "TCK-ghost"})
	assert.NoError(t, err)
	assert.Equal(t, types.SCAN_NOT_FOUND, outcome.Result)
	assert.Nil(t, outcome.Ticket)
	assert.Len(t, store.scans, 1)
	assert.Nil(t, store.scans[0].TicketID)
}

func TestMyTicketsScopedToOwner(t *testing.T) {
	store := newMemTicketStore()
	store.addTicket(issuedTicket(1, "TCK-a"), 1)
	store.addTicket(issuedTicket(2, "TCK-b"), 2)
	svc := NewTicketService(store)

	tickets, err := svc.MyTickets(buyer())
	assert.NoError(t, err)
	assert.Len(t, tickets, 1)
	assert.Equal(t, "TCK-a", tickets[0].TicketCode)

	_, err = svc.TicketDetail(buyer(), 2)
	assert.ErrorIs(t, err, ErrNotFound)

	ticket, err := svc.TicketDetail(buyer(), 1)
	assert.NoError(t, err)
	assert.Equal(t, "TCK-a", ticket.TicketCode)
}
