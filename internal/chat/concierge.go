// Package chat implements the AI concierge behind the site's chat widget.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dine24/dine24-api/internal/llm"
	"github.com/dine24/dine24-api/internal/models"
)

// FallbackReply is returned when the model produced no text
const FallbackReply = "I'm here to help! Could you please rephrase your question?"

// DefaultContext describes the site to the model when the caller sends none
const DefaultContext = "User is browsing DINE24 restaurant website. Available pages: /menu (food menu), " +
	"/about (restaurant info), /contact (contact details), /reserve-table (table booking), " +
	"/todays-special (daily specials), /services (restaurant services), /admin (admin dashboard)"

var (
	ErrEmptyMessage = errors.New("message is required")
	ErrUnavailable  = errors.New("assistant is unavailable")
)

// MenuSource provides the menu, best rated first
type MenuSource interface {
	ByRating(ctx context.Context) ([]models.MenuItem, error)
}

// Request is a single chat turn. There is no memory between turns beyond
// what the caller puts in Context.
type Request struct {
	Message string `json:"message"`
	Context string `json:"context"`
}

// Reply is the assistant's answer and the intent derived from it
type Reply struct {
	Response string `json:"response"`
	Intent   Intent `json:"intent"`
}

// Concierge answers customer questions using the menu as grounding
type Concierge struct {
	gen        llm.Generator
	menu       MenuSource
	classifier Classifier
	logger     *slog.Logger
}

func NewConcierge(gen llm.Generator, menu MenuSource, classifier Classifier, logger *slog.Logger) *Concierge {
	if classifier == nil {
		classifier = NewKeywordClassifier()
	}
	return &Concierge{
		gen:        gen,
		menu:       menu,
		classifier: classifier,
		logger:     logger,
	}
}

// Reply answers a chat turn and classifies where the client might navigate next
func (c *Concierge) Reply(ctx context.Context, req Request) (*Reply, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}

	text, err := c.Ask(ctx, req.Message, req.Context)
	if err != nil {
		return nil, err
	}
	return &Reply{Response: text, Intent: c.classifier.Classify(req.Message, text)}, nil
}

// Ask sends one question with the menu and extra context, returning the raw answer.
// An empty answer becomes FallbackReply.
func (c *Concierge) Ask(ctx context.Context, message, extra string) (string, error) {
	menu, err := c.menu.ByRating(ctx)
	if err != nil {
		// the assistant still works without the menu
		c.logger.Warn("failed to load menu for chat context", "error", err)
		menu = nil
	}

	text, err := c.gen.Generate(ctx, BuildPrompt(menu, extra, message))
	if err != nil {
		c.logger.Error("text generation failed", "error", err)
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if strings.TrimSpace(text) == "" {
		return FallbackReply, nil
	}
	return text, nil
}

// MenuLine formats one menu item for the prompt
func MenuLine(item models.MenuItem) string {
	kind := "Non-Veg"
	if item.IsVeg {
		kind = "Veg"
	}
	return fmt.Sprintf("%s (%s) - Rs.%d - Rating: %.1f - %s", item.Name, item.Category, item.EffectivePrice(), item.Rating, kind)
}

// BuildPrompt assembles the system instructions, menu, caller context and the user message
func BuildPrompt(menu []models.MenuItem, extra, message string) string {
	lines := make([]string, 0, len(menu))
	for _, item := range menu {
		lines = append(lines, MenuLine(item))
	}
	if strings.TrimSpace(extra) == "" {
		extra = "No additional context"
	}

	var b strings.Builder
	b.WriteString("You are a helpful assistant for Dine 24 restaurant. You can help with:\n")
	b.WriteString("1. Food recommendations based on our menu\n")
	b.WriteString("2. Table reservations (ask for name, email, phone, number of people)\n")
	b.WriteString("3. General restaurant information\n")
	b.WriteString("4. Navigation help\n\n")
	b.WriteString("Our menu includes:\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\nContext about the user: ")
	b.WriteString(extra)
	b.WriteString("\n\nBe friendly, concise, and helpful. If asked about reservations, guide them through the process or suggest they use the reservation form.")
	b.WriteString("\n\nUser: ")
	b.WriteString(message)
	return b.String()
}
