package services

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path"
	"time"

	"bts/src/models"
	"bts/src/types"
	"bts/src/utils"

	"github.com/yeqown/go-qrcode"
)

type TicketService struct {
	store TicketStore
}

func NewTicketService(store TicketStore) *TicketService {
	return &TicketService{store: store}
}

// IssueTickets creates one ticket per quantity unit of a paid order item.
// Issuance is idempotent: an item that already has tickets gets none. It
// runs inside the settlement transaction through stx.
func IssueTickets(stx SettlementTx, item *models.OrderItem) ([]models.Ticket, error) {
	exists, err := stx.HasTickets(item.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}
	now := time.Now()
	tickets := make([]models.Ticket, 0, item.Quantity)
	for i := 0; i < item.Quantity; i++ {
		code := utils.NewTicketCode()
		ticket := models.Ticket{
			TicketCode:   code,
			OrderItemID:  item.ID,
			EventID:      item.EventID,
			TicketTypeID: item.TicketTypeID,
			QRPayload:    buildQRPayload(code, item.ID),
			Status:       types.TICKET_ISSUED,
			IssuedAt:     &now,
		}
		ticket.QRImageURL = renderQRImage(code, ticket.QRPayload)
		tickets = append(tickets, ticket)
	}
	if err := stx.AddTickets(tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// buildQRPayload encrypts the ticket identity so a scanned code cannot be
// forged from the visible ticket number. An unset or malformed key leaves
// the payload empty.
func buildQRPayload(ticketCode string, orderItemID uint) string {
	keyEnv := os.Getenv("API_QRC_SECRET")
	if keyEnv == "" {
		return ""
	}
	key, err := hex.DecodeString(keyEnv)
	if err != nil {
		log.Printf("Could not read key from string: %s\n", err.Error())
		return ""
	}
	raw, _ := json.Marshal(map[string]any{
		"ticketCode":  ticketCode,
		"orderItemId": orderItemID,
	})
	enc, err := utils.EncryptMessage(key, string(raw))
	if err != nil {
		log.Printf("Error encrypting message: %s\n", err.Error())
		return ""
	}
	return enc
}

// renderQRImage writes the QR jpeg next to the server. Rendering is best
// effort; a failure leaves the URL empty and the ticket stays valid.
func renderQRImage(ticketCode, payload string) string {
	if payload == "" {
		payload = ticketCode
	}
	dir := os.Getenv("API_FILES_DIR")
	if dir == "" {
		cwd, _ := os.Getwd()
		dir = path.Join(cwd, "files")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Could not create files dir [%s]: %s\n", dir, err.Error())
		return ""
	}
	qrc, err := qrcode.New(payload)
	if err != nil {
		log.Printf("Could not build qrcode for [%s]: %s\n", ticketCode, err.Error())
		return ""
	}
	filepath := path.Join(dir, fmt.Sprintf("%s.jpeg", ticketCode))
	if err := qrc.Save(filepath); err != nil {
		log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
		return ""
	}
	return filepath
}

func (s *TicketService) MyTickets(p types.Principal) ([]models.Ticket, error) {
	return s.store.TicketsByUser(p.UserID)
}

func (s *TicketService) TicketDetail(p types.Principal, id uint) (*models.Ticket, error) {
	ticket, err := s.store.TicketForUser(id, p.UserID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, ErrNotFound
	}
	return ticket, nil
}

type ScanOutcome struct {
	Result types.ScanResult `json:"result"`
	Ticket *models.Ticket   `json:"ticket,omitempty"`
}

// Scan admits a ticket at the gate. The state change is one way: a ticket
// is marked Used at most once, and every attempt leaves an audit row.
func (s *TicketService) Scan(body types.ScanTicketRequestBody) (*ScanOutcome, error) {
	now := time.Now()
	scan := models.TicketScan{
		ScannedAt: now,
		Gate:      body.Gate,
		DeviceID:  body.DeviceID,
	}

	ticket, err := s.store.TicketByCode(body.TicketCode)
	if err != nil {
		return nil, err
	}
	outcome := &ScanOutcome{Ticket: ticket}
	switch {
	case ticket == nil:
		outcome.Result = types.SCAN_NOT_FOUND
	case ticket.Status == types.TICKET_USED:
		outcome.Result = types.SCAN_ALREADY_USED
	case ticket.Status == types.TICKET_CANCELLED:
		outcome.Result = types.SCAN_CANCELLED
	default:
		ticket.Status = types.TICKET_USED
		ticket.UsedAt = &now
		if err := s.store.MarkUsed(ticket); err != nil {
			return nil, err
		}
		outcome.Result = types.SCAN_OK
	}
	if ticket != nil {
		scan.TicketID = &ticket.ID
	}
	scan.Result = outcome.Result
	if err := s.store.AddScan(&scan); err != nil {
		log.Printf("Could not record scan for [%s]: %s\n", body.TicketCode, err.Error())
	}
	return outcome, nil
}
