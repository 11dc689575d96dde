package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dine24/dine24-api/internal/chat"
)

// UnavailableNotice is shown in place of a reply when the assistant fails
const UnavailableNotice = "I'm experiencing some technical difficulties. Please try again later or contact our support team."

type concierge interface {
	Reply(ctx context.Context, req chat.Request) (*chat.Reply, error)
}

// ChatHandler serves the AI concierge
type ChatHandler struct {
	concierge concierge
	logger    *slog.Logger
}

func NewChatHandler(c concierge, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		concierge: c,
		logger:    logger,
	}
}

// Chat handles POST /api/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	reply, err := h.concierge.Reply(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			WriteError(w, http.StatusBadRequest, "Message is required", h.logger)
		case errors.Is(err, chat.ErrUnavailable):
			WriteJSON(w, http.StatusBadGateway, map[string]interface{}{
				"error":    "Assistant is unavailable",
				"response": UnavailableNotice,
				"intent":   chat.None,
			}, h.logger)
		default:
			h.logger.Error("chat failed", "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		}
		return
	}

	WriteJSON(w, http.StatusOK, reply, h.logger)
}
