// Package bill renders the downloadable reservation bill.
package bill

import (
	"encoding/base64"
	"strings"

	"github.com/dine24/dine24-api/internal/models"
	"github.com/dine24/dine24-api/internal/pricing"
)

const ContentTypePDF = "application/pdf"

// Document is a rendered bill
type Document struct {
	Filename    string
	ContentType string
	Content     []byte
}

// DataURI returns the document as a base64 data URI
func (d Document) DataURI() string {
	return "data:" + d.ContentType + ";base64," + base64.StdEncoding.EncodeToString(d.Content)
}

// Base64 returns the raw document bytes base64 encoded, as mail attachments expect
func (d Document) Base64() string {
	return base64.StdEncoding.EncodeToString(d.Content)
}

// Renderer turns a reservation and its items into a document
type Renderer interface {
	Render(res models.Reservation, items []models.ReservationItem) (*Document, error)
}

// ShortID is the upper-cased first eight characters of a reservation id
func ShortID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}

// Filename is the download name for a reservation's bill
func Filename(res models.Reservation) string {
	id := res.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return "Dine24-Reservation-" + id + ".pdf"
}

// Totals prices the item snapshots of a bill
func Totals(items []models.ReservationItem) pricing.Breakdown {
	lines := make([]pricing.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, pricing.Line{UnitPrice: it.Price, Quantity: it.Quantity})
	}
	return pricing.Quote(lines)
}
