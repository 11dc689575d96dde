package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dine24/dine24-api/internal/models"
	"github.com/dine24/dine24-api/internal/repository"
	"github.com/dine24/dine24-api/internal/slothold"
)

// MaxRecommendations caps the recommended table list
const MaxRecommendations = 3

// purposeSections maps purpose keywords to the section that suits them
var purposeSections = []struct {
	keyword string
	section string
}{
	{"romantic", models.SectionWindowSide},
	{"corporate", models.SectionPrivateCabin},
	{"family", models.SectionMainHall},
}

// TableStatus is a table with its availability for one slot
type TableStatus struct {
	models.RestaurantTable
	Booked bool `json:"booked"`
	Held   bool `json:"held"`
	Free   bool `json:"free"`
}

// SectionTables groups tables of one seating section
type SectionTables struct {
	Section string        `json:"section"`
	Tables  []TableStatus `json:"tables"`
}

// TableService answers availability questions about the floor plan
type TableService struct {
	tables       repository.TableRepository
	reservations repository.ReservationRepository
	holds        slothold.Holder
}

// NewTableService creates a table service. holds may be nil.
func NewTableService(tables repository.TableRepository, reservations repository.ReservationRepository, holds slothold.Holder) *TableService {
	return &TableService{
		tables:       tables,
		reservations: reservations,
		holds:        holds,
	}
}

// Availability returns every table with its status for the slot at date and time.
// A table is free when the admin flag allows it, no confirmed reservation holds
// the exact slot, and no other owner has a hold on it. Holds owned by owner are ignored.
func (s *TableService) Availability(ctx context.Context, date, at, owner string) ([]TableStatus, error) {
	tables, err := s.tables.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	booked, err := s.reservations.BookedTables(ctx, date, at)
	if err != nil {
		return nil, fmt.Errorf("booked tables: %w", err)
	}
	bookedSet := make(map[string]bool, len(booked))
	for _, n := range booked {
		bookedSet[n] = true
	}

	statuses := make([]TableStatus, 0, len(tables))
	for _, t := range tables {
		st := TableStatus{RestaurantTable: t, Booked: bookedSet[t.TableNumber]}

		if s.holds != nil && !st.Booked {
			holder, held, err := s.holds.HeldBy(ctx, models.Slot{Date: date, Time: at, TableNumber: t.TableNumber})
			if err != nil {
				return nil, fmt.Errorf("check hold: %w", err)
			}
			st.Held = held && holder != owner
		}

		st.Free = t.IsAvailable && !st.Booked && !st.Held
		statuses = append(statuses, st)
	}
	return statuses, nil
}

// Get returns a table by number
func (s *TableService) Get(ctx context.Context, tableNumber string) (*models.RestaurantTable, error) {
	return s.tables.GetTable(ctx, tableNumber)
}

// GroupBySection groups tables in first-seen section order
func GroupBySection(statuses []TableStatus) []SectionTables {
	index := make(map[string]int)
	groups := make([]SectionTables, 0)
	for _, st := range statuses {
		i, ok := index[st.Section]
		if !ok {
			i = len(groups)
			index[st.Section] = i
			groups = append(groups, SectionTables{Section: st.Section})
		}
		groups[i].Tables = append(groups[i].Tables, st)
	}
	return groups
}

// FreeTables returns the tables that can be booked
func FreeTables(statuses []TableStatus) []models.RestaurantTable {
	free := make([]models.RestaurantTable, 0, len(statuses))
	for _, st := range statuses {
		if st.Free {
			free = append(free, st.RestaurantTable)
		}
	}
	return free
}

// SectionFor returns the section suited to purpose, or "" if none matches
func SectionFor(purpose string) string {
	p := strings.ToLower(purpose)
	for _, ps := range purposeSections {
		if strings.Contains(p, ps.keyword) {
			return ps.section
		}
	}
	return ""
}

// Recommend picks up to three tables seating between partySize and partySize+2.
// Tables in the section matching purpose come first; otherwise input order is kept.
func Recommend(tables []models.RestaurantTable, partySize int, purpose string) []models.RestaurantTable {
	preferred := SectionFor(purpose)

	matching := make([]models.RestaurantTable, 0)
	rest := make([]models.RestaurantTable, 0)
	for _, t := range tables {
		if t.SeatingCapacity < partySize || t.SeatingCapacity > partySize+2 {
			continue
		}
		if preferred != "" && t.Section == preferred {
			matching = append(matching, t)
		} else {
			rest = append(rest, t)
		}
	}

	result := append(matching, rest...)
	if len(result) > MaxRecommendations {
		result = result[:MaxRecommendations]
	}
	return result
}
