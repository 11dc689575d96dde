package reservation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dine24/dine24-api/internal/bill"
	"github.com/dine24/dine24-api/internal/models"
	"github.com/dine24/dine24-api/internal/pricing"
	"github.com/dine24/dine24-api/internal/repository"
	"github.com/dine24/dine24-api/internal/service"
	"github.com/dine24/dine24-api/internal/slothold"
	"github.com/dine24/dine24-api/internal/validation"
	"github.com/google/uuid"
)

const DefaultHoldTTL = 10 * time.Minute

// Deps are the collaborators shared by every wizard
type Deps struct {
	Store     repository.Store
	Tables    *service.TableService
	Validator *validation.Validator
	Advisor   Advisor
	Finalizer *Finalizer
	// Holds is optional. Without it tables are never hidden from other wizards.
	Holds   slothold.Holder
	HoldTTL time.Duration
	Logger  *slog.Logger
}

func (d *Deps) withDefaults() *Deps {
	c := *d
	if c.HoldTTL <= 0 {
		c.HoldTTL = DefaultHoldTTL
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return &c
}

// TableOptions is the floor plan for the wizard's slot
type TableOptions struct {
	Date        string                   `json:"date"`
	Time        string                   `json:"time"`
	PartySize   int                      `json:"party_size"`
	Sections    []service.SectionTables  `json:"sections"`
	Recommended []models.RestaurantTable `json:"recommended"`
}

// Selection is the chosen table. Conflict is set when the table looked taken;
// the choice still stands.
type Selection struct {
	Table    models.RestaurantTable `json:"table"`
	Conflict string                 `json:"conflict,omitempty"`
}

// Suggestion is text from the assistant
type Suggestion struct {
	Text     string `json:"text"`
	Fallback bool   `json:"fallback"`
}

// Applied lists the suggested items that were added to the cart
type Applied struct {
	Added []string `json:"added"`
	Cart  Cart     `json:"cart"`
}

// Confirmation is the result of finishing the wizard
type Confirmation struct {
	Reservation  *models.Reservation `json:"reservation"`
	Breakdown    pricing.Breakdown   `json:"breakdown"`
	BillFilename string              `json:"bill_filename,omitempty"`
	Notices      []string            `json:"notices,omitempty"`
}

// State is a read-only view of a wizard
type State struct {
	ID          string                     `json:"id"`
	Step        Step                       `json:"step"`
	Details     *models.ReservationDetails `json:"details,omitempty"`
	Table       *models.RestaurantTable    `json:"table,omitempty"`
	Cart        Cart                       `json:"cart"`
	Reservation *models.Reservation        `json:"reservation,omitempty"`
}

// Wizard is one customer's booking in progress. Methods are safe for
// concurrent use; calls on the same wizard run one at a time.
type Wizard struct {
	id   string
	deps *Deps
	now  func() time.Time

	lastActive atomic.Int64

	mu          sync.Mutex
	step        Step
	details     models.ReservationDetails
	table       *models.RestaurantTable
	held        bool
	cart        cart
	suggestion  string
	reservation *models.Reservation
	document    *bill.Document
}

// NewWizard starts a wizard at StepCollectingDetails
func NewWizard(deps *Deps) *Wizard {
	return newWizard(uuid.New().String(), deps, time.Now)
}

func newWizard(id string, deps *Deps, now func() time.Time) *Wizard {
	w := &Wizard{id: id, deps: deps.withDefaults(), now: now, step: StepCollectingDetails}
	w.touch()
	return w
}

func (w *Wizard) ID() string {
	return w.id
}

// Step returns the current step
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Wizard) touch() {
	w.lastActive.Store(w.now().UnixNano())
}

func (w *Wizard) idleSince() time.Time {
	return time.Unix(0, w.lastActive.Load())
}

// require must be called with w.mu held
func (w *Wizard) require(op string, want Step) error {
	w.touch()
	if w.step != want {
		return &StepError{Op: op, Current: w.step, Want: want}
	}
	return nil
}

// State returns a snapshot of the wizard
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	st := State{ID: w.id, Step: w.step, Cart: w.cart.snapshot()}
	if w.step > StepCollectingDetails {
		d := w.details
		st.Details = &d
	}
	if w.table != nil {
		t := *w.table
		st.Table = &t
	}
	if w.reservation != nil {
		r := *w.reservation
		st.Reservation = &r
	}
	return st
}

// SubmitDetails validates the customer inputs and moves to table selection.
// Invalid input returns a validation.Result and leaves the wizard where it was.
func (w *Wizard) SubmitDetails(details models.ReservationDetails) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.require("submit details", StepCollectingDetails); err != nil {
		return err
	}
	if err := w.deps.Validator.Details(details); err != nil {
		return err
	}

	w.details = details
	w.step = StepTableSelection
	return nil
}

// Tables returns every table grouped by section with availability for the
// wizard's slot, plus up to three recommendations
func (w *Wizard) Tables(ctx context.Context) (*TableOptions, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.require("list tables", StepTableSelection); err != nil {
		return nil, err
	}

	statuses, err := w.deps.Tables.Availability(ctx, w.details.ArrivalDate, w.details.ArrivalTime, w.id)
	if err != nil {
		return nil, err
	}

	return &TableOptions{
		Date:        w.details.ArrivalDate,
		Time:        w.details.ArrivalTime,
		PartySize:   w.details.NumPeople,
		Sections:    service.GroupBySection(statuses),
		Recommended: service.Recommend(service.FreeTables(statuses), w.details.NumPeople, w.details.Purpose),
	}, nil
}

// SelectTable picks a table and moves to ordering. A table that looks taken is
// still accepted with a Conflict notice.
func (w *Wizard) SelectTable(ctx context.Context, tableNumber string) (*Selection, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.require("select table", StepTableSelection); err != nil {
		return nil, err
	}

	statuses, err := w.deps.Tables.Availability(ctx, w.details.ArrivalDate, w.details.ArrivalTime, w.id)
	if err != nil {
		return nil, err
	}

	var chosen *service.TableStatus
	for i := range statuses {
		if statuses[i].TableNumber == tableNumber {
			chosen = &statuses[i]
			break
		}
	}
	if chosen == nil {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, tableNumber)
	}

	sel := &Selection{Table: chosen.RestaurantTable, Conflict: conflictNotice(*chosen, w.details.NumPeople)}

	if w.deps.Holds != nil {
		slot := models.Slot{Date: w.details.ArrivalDate, Time: w.details.ArrivalTime, TableNumber: tableNumber}
		ok, err := w.deps.Holds.Hold(ctx, slot, w.id, w.deps.HoldTTL)
		switch {
		case err != nil:
			w.deps.Logger.Warn("failed to hold table", "wizard_id", w.id, "table", tableNumber, "error", err)
		case !ok && sel.Conflict == "":
			sel.Conflict = fmt.Sprintf("Table %s is being booked by another guest right now.", tableNumber)
		case ok:
			w.held = true
		}
	}

	table := chosen.RestaurantTable
	w.table = &table
	w.step = StepOrderSelection
	return sel, nil
}

func conflictNotice(st service.TableStatus, partySize int) string {
	switch {
	case st.Booked:
		return fmt.Sprintf("Table %s is already booked for this time. You can continue, but the restaurant may seat you elsewhere.", st.TableNumber)
	case st.Held:
		return fmt.Sprintf("Table %s is being booked by another guest right now.", st.TableNumber)
	case !st.IsAvailable:
		return fmt.Sprintf("Table %s is currently marked unavailable.", st.TableNumber)
	case st.SeatingCapacity < partySize:
		return fmt.Sprintf("Table %s seats %d, fewer than your party of %d.", st.TableNumber, st.SeatingCapacity, partySize)
	}
	return ""
}

// AISuggestTable asks the assistant which free table suits the party.
// Failures return a fixed fallback text, not an error.
func (w *Wizard) AISuggestTable(ctx context.Context) (*Suggestion, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.require("suggest table", StepTableSelection); err != nil {
		return nil, err
	}

	var free []models.RestaurantTable
	statuses, err := w.deps.Tables.Availability(ctx, w.details.ArrivalDate, w.details.ArrivalTime, w.id)
	if err != nil {
		w.deps.Logger.Warn("failed to load tables for suggestion", "wizard_id", w.id, "error", err)
	} else {
		free = service.FreeTables(statuses)
	}

	text, err := w.ask(ctx, tableSuggestionQuestion, tableContext(w.details, free))
	if err != nil {
		w.deps.Logger.Error("table suggestion failed", "wizard_id", w.id, "error", err)
		return &Suggestion{Text: TableSuggestionFallback, Fallback: true}, nil
	}
	return &Suggestion{Text: text}, nil
}

func (w *Wizard) ask(ctx context.Context, message, extra string) (string, error) {
	if w.deps.Advisor == nil {
		return "", errors.New("no advisor configured")
	}
	return w.deps.Advisor.Ask(ctx, message, extra)
}

// AddItem adds one of the menu item to the cart
func (w *Wizard) AddItem(ctx context.Context, menuItemID int64) (*Cart, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.require("add item", StepOrderSelection); err != nil {
		return nil, err
	}

	item, err := w.deps.Store.GetMenuItem(ctx, menuItemID)
	if errors.Is(err, repository.ErrMenuItemNotFound) {
		return nil, service.ErrInvalidMenuItem
	}
	if err != nil {
		return nil, fmt.Errorf("load menu item: %w", err)
	}

	w.cart.add(*item)
	c := w.cart.snapshot()
	return &c, nil
}

// SetQuantity replaces an item's quantity. Zero removes the line; a negative
// quantity is rejected.
func (w *Wizard) SetQuantity(menuItemID int64, quantity int) (*Cart, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.require("set quantity", StepOrderSelection); err != nil {
		return nil, err
	}

	switch {
	case quantity < 0:
		return nil, service.ErrInvalidQuantity
	case quantity == 0:
		w.cart.remove(menuItemID)
	default:
		i := w.cart.index(menuItemID)
		if i < 0 {
			return nil, ErrNotInCart
		}
		w.cart.lines[i].Quantity = quantity
	}

	c := w.cart.snapshot()
	return &c, nil
}

// RemoveItem drops a line from the cart. Removing an absent item is a no-op.
func (w *Wizard) RemoveItem(menuItemID int64) (*Cart, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.require("remove item", StepOrderSelection); err != nil {
		return nil, err
	}

	w.cart.remove(menuItemID)
	c := w.cart.snapshot()
	return &c, nil
}

// Cart returns the priced cart
func (w *Wizard) Cart() (*Cart, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.require("view cart", StepOrderSelection); err != nil {
		return nil, err
	}
	c := w.cart.snapshot()
	return &c, nil
}

// AISuggestDishes asks the assistant for dishes matching both preferences.
// Missing preferences and assistant failures return guidance text instead.
func (w *Wizard) AISuggestDishes(ctx context.Context, dietary, cuisine string) (*Suggestion, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.require("suggest dishes", StepOrderSelection); err != nil {
		return nil, err
	}

	if dietary == "" || cuisine == "" {
		return &Suggestion{Text: DishPreferencesRequired, Fallback: true}, nil
	}

	menu, err := w.deps.Store.ListMenu(ctx, models.MenuFilter{})
	if err != nil {
		w.deps.Logger.Warn("failed to load menu for suggestion", "wizard_id", w.id, "error", err)
	}

	text, err := w.ask(ctx, fmt.Sprintf(dishSuggestionQuestion, dietary, cuisine), dishContext(dietary, cuisine, menu))
	if err != nil {
		w.deps.Logger.Error("dish suggestion failed", "wizard_id", w.id, "error", err)
		return &Suggestion{Text: DishSuggestionFallback, Fallback: true}, nil
	}

	w.suggestion = stripMarkdown(text)
	return &Suggestion{Text: w.suggestion}, nil
}

// ApplySuggestion adds every menu item named in a numbered list to the cart.
// An empty text applies the last dish suggestion. Unmatched names are ignored.
func (w *Wizard) ApplySuggestion(ctx context.Context, text string) (*Applied, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.require("apply suggestion", StepOrderSelection); err != nil {
		return nil, err
	}

	if text == "" {
		text = w.suggestion
	}
	names := ParseSuggestedNames(text)

	applied := &Applied{Added: []string{}}
	if len(names) > 0 {
		menu, err := w.deps.Store.ListMenu(ctx, models.MenuFilter{})
		if err != nil {
			return nil, fmt.Errorf("load menu: %w", err)
		}
		for _, name := range names {
			item, ok := MatchMenuItem(menu, name)
			if !ok {
				continue
			}
			w.cart.add(item)
			applied.Added = append(applied.Added, item.Name)
		}
	}

	applied.Cart = w.cart.snapshot()
	return applied, nil
}

// SkipOrdering confirms the reservation without pre-ordered food
func (w *Wizard) SkipOrdering(ctx context.Context) (*Confirmation, error) {
	return w.Confirm(ctx, false)
}

// Confirm stores the reservation and its items in one write. With orderNow the
// cart is ordered; otherwise the cart is dropped and food is ordered on arrival.
// Bill, email, event and archive run afterwards and only add notices.
func (w *Wizard) Confirm(ctx context.Context, orderNow bool) (*Confirmation, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.require("confirm", StepOrderSelection); err != nil {
		return nil, err
	}

	orderType := models.OrderLater
	var items []models.ReservationItem
	breakdown := pricing.Breakdown{}
	if orderNow {
		if len(w.cart.lines) == 0 {
			return nil, ErrEmptyCart
		}
		orderType = models.OrderNow
		items = w.cart.items()
		breakdown = w.cart.snapshot().Breakdown
	}

	res := &models.Reservation{
		ID:            uuid.New().String(),
		FullName:      w.details.FullName,
		Email:         w.details.Email,
		Phone:         w.details.Phone,
		NumPeople:     w.details.NumPeople,
		Purpose:       w.details.Purpose,
		ArrivalDate:   w.details.ArrivalDate,
		ArrivalTime:   w.details.ArrivalTime,
		TableNumber:   w.table.TableNumber,
		TableCapacity: w.table.SeatingCapacity,
		OrderType:     orderType,
		TotalAmount:   breakdown.Total,
		Status:        models.StatusConfirmed,
	}
	if err := w.deps.Store.CreateWithItems(ctx, res, items); err != nil {
		return nil, fmt.Errorf("store reservation: %w", err)
	}

	w.reservation = res
	w.step = StepConfirmed
	if !orderNow {
		w.cart = cart{}
	}

	conf := &Confirmation{Reservation: res, Breakdown: breakdown}
	if w.deps.Finalizer != nil {
		doc, notices := w.deps.Finalizer.Finalize(ctx, res)
		w.document = doc
		conf.Notices = notices
		if doc != nil {
			conf.BillFilename = doc.Filename
		}
	}

	w.releaseHold(ctx)
	return conf, nil
}

// Bill returns the confirmed reservation's bill, rendering it if needed
func (w *Wizard) Bill(ctx context.Context) (*bill.Document, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.require("bill", StepConfirmed); err != nil {
		return nil, err
	}
	if w.document != nil {
		return w.document, nil
	}
	if w.deps.Finalizer == nil {
		return nil, errors.New("bill rendering is not configured")
	}

	doc, err := w.deps.Finalizer.Render(w.reservation)
	if err != nil {
		return nil, err
	}
	w.document = doc
	return doc, nil
}

// releaseHold must be called with w.mu held
func (w *Wizard) releaseHold(ctx context.Context) {
	if !w.held || w.deps.Holds == nil || w.table == nil {
		return
	}
	slot := models.Slot{Date: w.details.ArrivalDate, Time: w.details.ArrivalTime, TableNumber: w.table.TableNumber}
	if err := w.deps.Holds.Release(ctx, slot, w.id); err != nil {
		w.deps.Logger.Warn("failed to release table hold", "wizard_id", w.id, "error", err)
		return
	}
	w.held = false
}

// Close releases any hold the wizard still has
func (w *Wizard) Close(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.releaseHold(ctx)
}
