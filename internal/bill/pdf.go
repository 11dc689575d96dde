package bill

import (
	"bytes"
	"fmt"
	"time"

	"github.com/dine24/dine24-api/internal/models"
	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"
)

// DiningPolicy is printed on every bill
const DiningPolicy = "Dining duration: 1 hour from service start. Extended time: +15% charge."

var ist = time.FixedZone("IST", 5*3600+1800)

// PDFRenderer renders an A4 bill with a QR code of the reservation id
type PDFRenderer struct {
	now func() time.Time
}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{now: time.Now}
}

type rgb struct{ r, g, b int }

var (
	gold      = rgb{184, 134, 11}
	paleGold  = rgb{252, 240, 181}
	brown     = rgb{146, 64, 14}
	black     = rgb{0, 0, 0}
	mutedGrey = rgb{90, 90, 90}
)

func (p *PDFRenderer) Render(res models.Reservation, items []models.ReservationItem) (*Document, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	generated := p.now().In(ist)

	pdf.SetCreationDate(generated)
	pdf.SetModificationDate(generated)
	pdf.SetTitle("DINE24 Reservation "+ShortID(res.ID), false)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	text := func(c rgb, style string, size float64) {
		pdf.SetTextColor(c.r, c.g, c.b)
		pdf.SetFont("Times", style, size)
	}

	// header band
	pdf.SetFillColor(paleGold.r, paleGold.g, paleGold.b)
	pdf.Rect(0, 0, 210, 40, "F")
	text(gold, "B", 28)
	pdf.SetXY(0, 12)
	pdf.CellFormat(210, 10, "DINE24", "", 1, "C", false, 0, "")
	text(brown, "I", 12)
	pdf.CellFormat(190, 8, "Premium Royal Dining Experience", "", 1, "C", false, 0, "")

	text(black, "", 9)
	pdf.SetXY(20, 42)
	pdf.CellFormat(170, 5, "Generated: "+generated.Format("02/01/2006, 15:04"), "", 1, "R", false, 0, "")

	png, err := qrcode.Encode("DINE24-"+ShortID(res.ID), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("reservation-qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("reservation-qr", 155, 66, 35, 35, false, opts, 0, "")
	text(black, "B", 8)
	pdf.SetXY(155, 101)
	pdf.CellFormat(35, 4, "ID: "+ShortID(res.ID), "", 0, "C", false, 0, "")

	text(gold, "B", 18)
	pdf.SetXY(0, 50)
	pdf.CellFormat(210, 8, "RESERVATION CONFIRMATION", "", 1, "C", false, 0, "")
	pdf.SetDrawColor(gold.r, gold.g, gold.b)
	pdf.SetLineWidth(1)
	pdf.Line(20, 60, 190, 60)
	pdf.SetLineWidth(0.3)
	pdf.Line(20, 62, 190, 62)

	section := func(title string, y float64) {
		text(gold, "B", 13)
		pdf.SetXY(20, y)
		pdf.CellFormat(130, 7, title, "", 1, "L", false, 0, "")
	}
	rows := func(y float64, pairs [][2]string) float64 {
		for _, kv := range pairs {
			pdf.SetXY(22, y)
			text(black, "B", 10)
			pdf.CellFormat(35, 6, kv[0], "", 0, "L", false, 0, "")
			text(black, "", 10)
			pdf.CellFormat(90, 6, tr(kv[1]), "", 1, "L", false, 0, "")
			y += 6
		}
		return y
	}

	section("CUSTOMER INFORMATION", 68)
	y := rows(76, [][2]string{
		{"Name:", orNA(res.FullName)},
		{"Email:", orNA(res.Email)},
		{"Phone:", orNA(res.Phone)},
		{"Purpose:", orNA(res.Purpose)},
	})

	section("RESERVATION DETAILS", y+4)
	y = rows(y+12, [][2]string{
		{"Date:", orNA(res.ArrivalDate)},
		{"Time:", orNA(res.ArrivalTime)},
		{"Guests:", fmt.Sprintf("%d", res.NumPeople)},
		{"Table:", fmt.Sprintf("%s (%d seats)", res.TableNumber, res.TableCapacity)},
		{"Order:", orderTypeLabel(res.OrderType)},
		{"Status:", orNA(res.Status)},
	})

	y += 6
	if len(items) > 0 {
		section("ORDER SUMMARY", y)
		y += 9

		pdf.SetFillColor(paleGold.r, paleGold.g, paleGold.b)
		pdf.SetXY(20, y)
		text(black, "B", 10)
		pdf.CellFormat(95, 7, "Item Name", "1", 0, "L", true, 0, "")
		pdf.CellFormat(20, 7, "Qty", "1", 0, "C", true, 0, "")
		pdf.CellFormat(27, 7, "Price (Rs.)", "1", 0, "R", true, 0, "")
		pdf.CellFormat(28, 7, "Total (Rs.)", "1", 1, "R", true, 0, "")

		text(black, "", 10)
		for _, it := range items {
			name := it.Name
			if name == "" {
				name = "Unknown Item"
			}
			if len(name) > 40 {
				name = name[:40]
			}
			pdf.SetX(20)
			pdf.CellFormat(95, 7, tr(name), "1", 0, "L", false, 0, "")
			pdf.CellFormat(20, 7, fmt.Sprintf("%d", it.Quantity), "1", 0, "C", false, 0, "")
			pdf.CellFormat(27, 7, fmt.Sprintf("%d", it.Price), "1", 0, "R", false, 0, "")
			pdf.CellFormat(28, 7, fmt.Sprintf("%d", it.LineTotal()), "1", 1, "R", false, 0, "")
		}

		totals := Totals(items)
		y = pdf.GetY() + 4
		for _, row := range []struct {
			label string
			value int64
			bold  bool
		}{
			{"Subtotal:", totals.Subtotal, false},
			{"GST (18%):", totals.Tax, false},
			{"GRAND TOTAL:", totals.Total, true},
		} {
			style := ""
			if row.bold {
				style = "B"
			}
			text(black, style, 11)
			pdf.SetXY(120, y)
			pdf.CellFormat(40, 6, row.label, "", 0, "R", false, 0, "")
			pdf.CellFormat(30, 6, fmt.Sprintf("Rs.%d", row.value), "", 1, "R", false, 0, "")
			y += 6
		}
	} else {
		text(mutedGrey, "I", 11)
		pdf.SetXY(20, y)
		pdf.CellFormat(170, 7, "No food pre-ordered. You can order at the restaurant.", "", 1, "L", false, 0, "")
		y += 7
	}

	y += 6
	text(brown, "B", 11)
	pdf.SetXY(20, y)
	pdf.CellFormat(170, 7, "Payment: Pay on Arrival", "", 1, "L", false, 0, "")

	pdf.SetFillColor(paleGold.r, paleGold.g, paleGold.b)
	pdf.Rect(20, y+9, 170, 14, "F")
	text(brown, "B", 10)
	pdf.SetXY(25, y+10)
	pdf.CellFormat(160, 6, "IMPORTANT DINING POLICY", "", 1, "L", false, 0, "")
	text(black, "", 9)
	pdf.SetX(25)
	pdf.CellFormat(160, 6, DiningPolicy, "", 1, "L", false, 0, "")

	text(gold, "B", 12)
	pdf.SetXY(0, y+28)
	pdf.CellFormat(210, 7, "Thank you for choosing DINE24!", "", 1, "C", false, 0, "")
	text(mutedGrey, "", 8)
	pdf.CellFormat(190, 5, "Contact: +91 98765 43210 | Email: info@dine24.com | www.dine24.com", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	return &Document{
		Filename:    Filename(res),
		ContentType: ContentTypePDF,
		Content:     buf.Bytes(),
	}, nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func orderTypeLabel(orderType string) string {
	switch orderType {
	case models.OrderNow:
		return "Food pre-ordered"
	case models.OrderLater:
		return "Order at restaurant"
	}
	return orNA(orderType)
}
