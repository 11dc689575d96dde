// Package notify sends customer email through a JSON relay.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

var (
	ErrInvalidRecipient = errors.New("invalid email address")
	ErrNotConfigured    = errors.New("email relay is not configured")
)

// Attachment is a base64 encoded file sent alongside the message
type Attachment struct {
	Filename      string `json:"filename"`
	ContentBase64 string `json:"content"`
}

// Email is an outgoing message
type Email struct {
	To         string      `json:"to"`
	Subject    string      `json:"subject"`
	HTML       string      `json:"html"`
	Attachment *Attachment `json:"attachment,omitempty"`
}

// Mailer delivers email
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

func checkRecipient(to string) error {
	if !strings.Contains(to, "@") {
		return fmt.Errorf("%w: %q", ErrInvalidRecipient, to)
	}
	return nil
}

// RelayConfig configures an HTTPRelay
type RelayConfig struct {
	URL      string
	APIKey   string
	FromName string
	ReplyTo  string
	Timeout  time.Duration
}

// HTTPRelay posts messages to a transactional mail relay
type HTTPRelay struct {
	cfg  RelayConfig
	http *http.Client
}

func NewHTTPRelay(cfg RelayConfig) *HTTPRelay {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.FromName == "" {
		cfg.FromName = "DINE24 Restaurant"
	}
	return &HTTPRelay{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type relayRequest struct {
	Email
	FromName string `json:"from_name"`
	ReplyTo  string `json:"reply_to,omitempty"`
}

func (r *HTTPRelay) Send(ctx context.Context, email Email) error {
	if err := checkRecipient(email.To); err != nil {
		return err
	}
	if r.cfg.URL == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(relayRequest{Email: email, FromName: r.cfg.FromName, ReplyTo: r.cfg.ReplyTo})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("email relay request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("email relay error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, email Email) error {
	if err := checkRecipient(email.To); err != nil {
		return err
	}
	attachment := ""
	if email.Attachment != nil {
		attachment = email.Attachment.Filename
	}
	m.logger.InfoContext(ctx, "email not sent, no relay configured",
		"to", email.To,
		"subject", email.Subject,
		"attachment", attachment,
	)
	return nil
}
