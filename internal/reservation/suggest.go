package reservation

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dine24/dine24-api/internal/models"
)

const (
	TableSuggestionFallback = "Failed to get AI table recommendations."
	DishSuggestionFallback  = "Unable to get AI recommendation at the moment. Please browse our menu manually."
	DishPreferencesRequired = "Please select your dietary preference and cuisine type first."
	tableSuggestionQuestion = "What table would you recommend for my reservation?"
	dishSuggestionQuestion  = "Recommend food items based on my preferences: %s and %s cuisine"
)

// Advisor answers a question with extra context, backed by the chat assistant
type Advisor interface {
	Ask(ctx context.Context, message, extra string) (string, error)
}

var numberedLine = regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]*([^(\r\n]+)`)

// ParseSuggestedNames extracts the lower-cased item names from a numbered list.
// A name ends at "(" or at the end of its line.
func ParseSuggestedNames(text string) []string {
	matches := numberedLine.FindAllStringSubmatch(strings.ToLower(text), -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		name := strings.TrimSpace(m[1])
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// MatchMenuItem returns the first item whose lower-cased name contains name or
// is contained in it
func MatchMenuItem(menu []models.MenuItem, name string) (models.MenuItem, bool) {
	for _, item := range menu {
		itemName := strings.ToLower(item.Name)
		if strings.Contains(itemName, name) || strings.Contains(name, itemName) {
			return item, true
		}
	}
	return models.MenuItem{}, false
}

func stripMarkdown(text string) string {
	return strings.ReplaceAll(text, "*", "")
}

func tableContext(details models.ReservationDetails, free []models.RestaurantTable) string {
	tables := make([]string, 0, len(free))
	for _, t := range free {
		tables = append(tables, fmt.Sprintf("%s (%s, %d seats)", t.TableNumber, t.Section, t.SeatingCapacity))
	}
	available := "none"
	if len(tables) > 0 {
		available = strings.Join(tables, ", ")
	}
	return fmt.Sprintf("Customer details: %d people, purpose: %s. Available tables: %s. Please recommend the best table from our available tables.",
		details.NumPeople, details.Purpose, available)
}

func dishContext(dietary, cuisine string, menu []models.MenuItem) string {
	items := make([]string, 0, len(menu))
	for _, item := range menu {
		kind := "Non-Veg"
		if item.IsVeg {
			kind = "Veg"
		}
		items = append(items, fmt.Sprintf("%s (%s, %s, Rs.%d)", item.Name, item.Category, kind, item.Price))
	}
	return fmt.Sprintf("Customer preferences: %s food, %s cuisine. Available menu items: %s. Recommend 3-5 items that match their preferences.",
		dietary, cuisine, strings.Join(items, ", "))
}
