package reservation

import (
	"context"
	"log/slog"

	"github.com/dine24/dine24-api/internal/bill"
	"github.com/dine24/dine24-api/internal/events"
	"github.com/dine24/dine24-api/internal/models"
	"github.com/dine24/dine24-api/internal/notify"
	"github.com/dine24/dine24-api/internal/storage"
)

// Notices shown to the customer when a follow-up step fails
const (
	NoticeBillFailed  = "Your reservation is confirmed, but the bill could not be generated. You can download it later."
	NoticeEmailFailed = "Your reservation is confirmed, but we could not send the confirmation email."
)

// Finalizer runs the follow-up work after a reservation is stored: bill,
// email, event and archive. Every step is best effort and none of them undo
// the reservation.
type Finalizer struct {
	renderer  bill.Renderer
	mailer    notify.Mailer
	publisher events.Publisher
	archive   storage.BillArchive
	logger    *slog.Logger
}

// NewFinalizer creates a finalizer. mailer, publisher and archive may be nil.
func NewFinalizer(renderer bill.Renderer, mailer notify.Mailer, publisher events.Publisher, archive storage.BillArchive, logger *slog.Logger) *Finalizer {
	return &Finalizer{
		renderer:  renderer,
		mailer:    mailer,
		publisher: publisher,
		archive:   archive,
		logger:    logger,
	}
}

// AfterConfirm runs the follow-up steps and returns customer notices
func (f *Finalizer) AfterConfirm(ctx context.Context, res *models.Reservation) []string {
	_, notices := f.Finalize(ctx, res)
	return notices
}

// Finalize runs the follow-up steps and returns the rendered bill, if any
func (f *Finalizer) Finalize(ctx context.Context, res *models.Reservation) (*bill.Document, []string) {
	var notices []string
	log := f.logger.With("reservation_id", res.ID)

	doc, err := f.renderer.Render(*res, res.Items)
	if err != nil {
		log.Error("failed to render bill", "error", err)
		notices = append(notices, NoticeBillFailed)
		doc = nil
	}

	if f.mailer != nil {
		if err := f.sendConfirmation(ctx, res, doc); err != nil {
			log.Error("failed to send confirmation email", "error", err)
			notices = append(notices, NoticeEmailFailed)
		}
	}

	if f.publisher != nil {
		if err := f.publisher.PublishConfirmed(ctx, events.FromReservation(res)); err != nil {
			log.Error("failed to publish reservation event", "error", err)
		}
	}

	if f.archive != nil && doc != nil {
		url, err := f.archive.Put(ctx, storage.BillKey(res.ID, doc.Filename), doc.Content)
		if err != nil {
			log.Error("failed to archive bill", "error", err)
		} else {
			log.Info("bill archived", "url", url)
		}
	}

	return doc, notices
}

func (f *Finalizer) sendConfirmation(ctx context.Context, res *models.Reservation, doc *bill.Document) error {
	email, err := notify.ComposeConfirmation(*res, res.Items, bill.Totals(res.Items), doc)
	if err != nil {
		return err
	}
	return f.mailer.Send(ctx, email)
}

// Render renders the bill of a stored reservation
func (f *Finalizer) Render(res *models.Reservation) (*bill.Document, error) {
	return f.renderer.Render(*res, res.Items)
}
