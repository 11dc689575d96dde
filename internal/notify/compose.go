package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/dine24/dine24-api/internal/bill"
	"github.com/dine24/dine24-api/internal/models"
	"github.com/dine24/dine24-api/internal/pricing"
)

const ConfirmationSubject = "Table Reserved Successfully - DINE24 Restaurant"

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: #d4af37; padding: 30px; text-align: center;">
    <h1 style="color: #000; margin: 0;">DINE24</h1>
    <p style="color: #333; margin: 10px 0 0 0;">Premium Dining Experience</p>
  </div>
  <div style="padding: 30px;">
    <h2 style="color: #d4af37;">Reservation Confirmed!</h2>
    <p>Dear <strong>{{.Res.FullName}}</strong>,</p>
    <p>We're delighted to confirm your table reservation at DINE24.</p>
    <table style="width: 100%;">
      <tr><td><strong>Reservation ID:</strong></td><td>#{{.ShortID}}</td></tr>
      <tr><td><strong>Date:</strong></td><td>{{.Res.ArrivalDate}}</td></tr>
      <tr><td><strong>Time:</strong></td><td>{{.Res.ArrivalTime}}</td></tr>
      <tr><td><strong>Table Number:</strong></td><td>{{.Res.TableNumber}}</td></tr>
      <tr><td><strong>Number of Guests:</strong></td><td>{{.Res.NumPeople}}</td></tr>
      <tr><td><strong>Purpose:</strong></td><td>{{.Res.Purpose}}</td></tr>
    </table>
    {{if .Items}}
    <h3 style="color: #d4af37;">Pre-ordered Items:</h3>
    <table style="width: 100%; border-collapse: collapse;">
      <thead><tr><th>Item</th><th>Qty</th><th>Price</th><th>Total</th></tr></thead>
      <tbody>
      {{range .Items}}<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>Rs.{{.Price}}</td><td>Rs.{{.LineTotal}}</td></tr>
      {{end}}</tbody>
      <tfoot>
        <tr><td colspan="3">Subtotal:</td><td>Rs.{{.Totals.Subtotal}}</td></tr>
        <tr><td colspan="3">GST (18%):</td><td>Rs.{{.Totals.Tax}}</td></tr>
        <tr><td colspan="3"><strong>Total Amount:</strong></td><td><strong>Rs.{{.Totals.Total}}</strong></td></tr>
      </tfoot>
    </table>
    <p><strong>Payment:</strong> Pay on Arrival</p>
    {{end}}
    <ul>
      <li>Please arrive on time for your reservation</li>
      <li>{{.Policy}}</li>
    </ul>
    <p>Your bill is attached to this email.</p>
  </div>
</div>`))

type confirmationData struct {
	Res     models.Reservation
	ShortID string
	Items   []models.ReservationItem
	Totals  pricing.Breakdown
	Policy  string
}

// ComposeConfirmation builds the confirmation email for a reservation.
// The bill, when given, is attached.
func ComposeConfirmation(res models.Reservation, items []models.ReservationItem, totals pricing.Breakdown, doc *bill.Document) (Email, error) {
	if err := checkRecipient(res.Email); err != nil {
		return Email{}, err
	}

	var buf bytes.Buffer
	err := confirmationTmpl.Execute(&buf, confirmationData{
		Res:     res,
		ShortID: bill.ShortID(res.ID),
		Items:   items,
		Totals:  totals,
		Policy:  bill.DiningPolicy,
	})
	if err != nil {
		return Email{}, fmt.Errorf("render confirmation: %w", err)
	}

	email := Email{
		To:      res.Email,
		Subject: ConfirmationSubject,
		HTML:    buf.String(),
	}
	if doc != nil {
		email.Attachment = &Attachment{Filename: doc.Filename, ContentBase64: doc.Base64()}
	}
	return email, nil
}
