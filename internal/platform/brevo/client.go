package brevo

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

const (
	defaultBaseURL   = "https://api.brevo.com"
	defaultFromName  = "FAANG Prep Platform"
	defaultFromEmail = "noreply@faangprep.com"
	sendPath         = "/v3/smtp/email"
)

// ErrMissingAPIKey is returned by New when no API key is configured.
var ErrMissingAPIKey = errors.New("brevo: missing api key")

// Client sends transactional email.
type Client interface {
	Send(ctx context.Context, req SendEmailRequest) (*SendEmailResult, error)
}

type Config struct {
	APIKey    string
	BaseURL   string
	FromEmail string
	FromName  string
	Timeout   time.Duration
}

func New(cfg Config, logger *slog.Logger) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.FromEmail == "" {
		cfg.FromEmail = defaultFromEmail
	}
	if cfg.FromName == "" {
		cfg.FromName = defaultFromName
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With("client", "brevo"),
	}, nil
}

type client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

type EmailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type SendEmailRequest struct {
	To      []EmailAddress
	Subject string
	HTML    string
	Text    string
}

type SendEmailResult struct {
	StatusCode int
	MessageID  string
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("brevo: HTTP %d: %s", e.StatusCode, e.Body)
}

type sendRequest struct {
	Sender      EmailAddress   `json:"sender"`
	To          []EmailAddress `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent,omitempty"`
	TextContent string         `json:"textContent,omitempty"`
}

type sendResponse struct {
	MessageID string `json:"messageId"`
}

func (c *client) Send(ctx context.Context, req SendEmailRequest) (*SendEmailResult, error) {
	if len(req.To) == 0 {
		return nil, fmt.Errorf("brevo: at least one recipient required")
	}
	if strings.TrimSpace(req.Subject) == "" {
		return nil, fmt.Errorf("brevo: subject required")
	}
	if req.HTML == "" && req.Text == "" {
		return nil, fmt.Errorf("brevo: html or text content required")
	}

	body, err := json.Marshal(sendRequest{
		Sender:      EmailAddress{Email: c.cfg.FromEmail, Name: c.cfg.FromName},
		To:          req.To,
		Subject:     req.Subject,
		HTMLContent: req.HTML,
		TextContent: req.Text,
	})
	if err != nil {
		return nil, fmt.Errorf("brevo: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+sendPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("brevo: build request: %w", err)
	}
	httpReq.Header.Set("accept", "application/json")
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("brevo: send: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var out sendResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("brevo: decode response: %w", err)
		}
	}

	c.logger.Debug("email sent", "subject", req.Subject, "message_id", out.MessageID)
	return &SendEmailResult{StatusCode: resp.StatusCode, MessageID: out.MessageID}, nil
}
