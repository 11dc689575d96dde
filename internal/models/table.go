package models

import "time"

// Known seating sections
const (
	SectionWindowSide   = "Window Side"
	SectionPrivateCabin = "Private Cabin"
	SectionMainHall     = "Main Hall"
)

// RestaurantTable is a physical table in the dining room
type RestaurantTable struct {
	ID              int64     `json:"id"`
	TableNumber     string    `json:"table_number" validate:"required"`
	SeatingCapacity int       `json:"seating_capacity" validate:"gt=0"`
	Section         string    `json:"section" validate:"required"`
	IsAvailable     bool      `json:"is_available"`
	CreatedAt       time.Time `json:"created_at"`
}

// Slot identifies a dining slot for a single table
type Slot struct {
	Date        string `json:"arrival_date"`
	Time        string `json:"arrival_time"`
	TableNumber string `json:"table_number"`
}

// Key returns a stable string form of the slot
func (s Slot) Key() string {
	return s.Date + "|" + s.Time + "|" + s.TableNumber
}
