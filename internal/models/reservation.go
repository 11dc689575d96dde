package models

import "time"

// Reservation statuses
const (
	StatusConfirmed = "confirmed"
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Order types
const (
	OrderNow   = "now"
	OrderLater = "later"
)

// ValidStatus reports whether s is a known reservation status
func ValidStatus(s string) bool {
	switch s {
	case StatusConfirmed, StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ReservationDetails are the customer inputs captured in the first wizard step
type ReservationDetails struct {
	FullName    string `json:"full_name" validate:"required"`
	Email       string `json:"email" validate:"required,dineemail"`
	Phone       string `json:"phone" validate:"required,phonelen"`
	NumPeople   int    `json:"num_people" validate:"required,min=1"`
	Purpose     string `json:"purpose" validate:"required"`
	ArrivalDate string `json:"arrival_date" validate:"required,datetime=2006-01-02"`
	ArrivalTime string `json:"arrival_time" validate:"required,datetime=15:04"`
}

// Reservation is a booked dining slot
type Reservation struct {
	ID            string            `json:"id"`
	FullName      string            `json:"full_name"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	NumPeople     int               `json:"num_people"`
	Purpose       string            `json:"purpose"`
	ArrivalDate   string            `json:"arrival_date"`
	ArrivalTime   string            `json:"arrival_time"`
	TableNumber   string            `json:"table_number"`
	TableCapacity int               `json:"table_capacity"`
	OrderType     string            `json:"order_type"`
	TotalAmount   int64             `json:"total_amount"`
	Status        string            `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	Items         []ReservationItem `json:"items,omitempty"`
}

// Slot returns the table slot held by the reservation
func (r Reservation) Slot() Slot {
	return Slot{Date: r.ArrivalDate, Time: r.ArrivalTime, TableNumber: r.TableNumber}
}

// ReservationItem is a pre-ordered line. Price is a snapshot taken at order time.
type ReservationItem struct {
	ID            string    `json:"id"`
	ReservationID string    `json:"reservation_id"`
	MenuItemID    int64     `json:"menu_item_id"`
	Name          string    `json:"name"`
	Quantity      int       `json:"quantity"`
	Price         int64     `json:"price"`
	CreatedAt     time.Time `json:"created_at"`
}

// LineTotal is price times quantity
func (i ReservationItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}
