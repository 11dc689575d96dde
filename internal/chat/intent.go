package chat

import "strings"

// Kind tags an Intent
type Kind string

const (
	KindNone     Kind = "none"
	KindNavigate Kind = "navigate"
)

// Intent is what the client should do after showing a reply.
// Route and Page are only set when Kind is KindNavigate.
type Intent struct {
	Kind  Kind   `json:"kind"`
	Route string `json:"route,omitempty"`
	Page  string `json:"page,omitempty"`
}

// None is the intent that asks for nothing
var None = Intent{Kind: KindNone}

// Navigate builds a navigation intent
func Navigate(page, route string) Intent {
	return Intent{Kind: KindNavigate, Route: route, Page: page}
}

// Classifier derives an intent from a user message and the assistant's reply
type Classifier interface {
	Classify(message, reply string) Intent
}

// Pattern maps keywords to a site page
type Pattern struct {
	Page     string
	Route    string
	Keywords []string
}

// DefaultPatterns lists the site pages in match priority order
func DefaultPatterns() []Pattern {
	return []Pattern{
		{Page: "Menu", Route: "/menu", Keywords: []string{"menu", "dishes", "food", "what can i eat", "order food", "cuisine"}},
		{Page: "About", Route: "/about", Keywords: []string{"about", "restaurant", "story", "info", "tell me about"}},
		{Page: "Contact", Route: "/contact", Keywords: []string{"contact", "phone", "address", "location", "reach you", "call"}},
		{Page: "Reserve Table", Route: "/reserve-table", Keywords: []string{"reserve", "book", "table", "reservation", "booking"}},
		{Page: "Today's Special", Route: "/todays-special", Keywords: []string{"special", "today", "offer", "discount", "todays special"}},
		{Page: "Services", Route: "/services", Keywords: []string{"service", "services", "delivery", "catering", "what do you offer"}},
		{Page: "Admin", Route: "/admin", Keywords: []string{"admin", "dashboard", "management", "login"}},
		{Page: "Home", Route: "/", Keywords: []string{"home", "homepage", "main page", "start"}},
	}
}

// KeywordClassifier picks the first pattern with a keyword in either text.
// Matching is a case-insensitive substring check, and multi-word keywords
// also match with their spaces removed.
type KeywordClassifier struct {
	Patterns []Pattern
}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{Patterns: DefaultPatterns()}
}

func (c *KeywordClassifier) Classify(message, reply string) Intent {
	message = strings.ToLower(message)
	reply = strings.ToLower(reply)

	for _, p := range c.Patterns {
		if matchesAny(message, p.Keywords) || matchesAny(reply, p.Keywords) {
			return Navigate(p.Page, p.Route)
		}
	}
	return None
}

func matchesAny(text string, keywords []string) bool {
	if text == "" {
		return false
	}
	for _, kw := range keywords {
		if strings.Contains(text, kw) || strings.Contains(text, strings.Join(strings.Fields(kw), "")) {
			return true
		}
	}
	return false
}
