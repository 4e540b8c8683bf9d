package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RecipientStatusSuccess is the per-recipient status the gateway reports
// when a message was accepted for delivery.
const RecipientStatusSuccess = "Success"

// Recipient is one entry of the gateway's per-recipient delivery report.
type Recipient struct {
	Number     string `json:"number"`
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
	Cost       string `json:"cost"`
	MessageID  string `json:"messageId"`
}

// SendResponse is the structured payload the gateway returns for a send.
type SendResponse struct {
	MessageData struct {
		Message    string      `json:"Message"`
		Recipients []Recipient `json:"Recipients"`
	} `json:"SMSMessageData"`
}

// Gateway sends a text message to a destination phone number through an
// external SMS provider. Implementations may fail with transport or auth
// errors; callers decide how to absorb them.
type Gateway interface {
	Send(ctx context.Context, to, message string) (*SendResponse, error)
}

// Config holds SMS gateway credentials and connection settings.
type Config struct {
	BaseURL  string
	Username string
	APIKey   string
	SenderID string
	Timeout  time.Duration
}

// httpGateway talks to an Africa's Talking compatible bulk-SMS API.
type httpGateway struct {
	cfg    Config
	client *http.Client
}

// NewHTTPGateway creates a gateway client from configuration. The client is
// built once at process start and injected wherever messages are sent.
func NewHTTPGateway(cfg Config) Gateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &httpGateway{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Send posts the message to the provider's messaging endpoint.
func (g *httpGateway) Send(ctx context.Context, to, message string) (*SendResponse, error) {
	form := url.Values{}
	form.Set("username", g.cfg.Username)
	form.Set("to", to)
	form.Set("message", message)
	if g.cfg.SenderID != "" {
		form.Set("from", g.cfg.SenderID)
	}

	endpoint := strings.TrimRight(g.cfg.BaseURL, "/") + "/version1/messaging"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apiKey", g.cfg.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var sendResp SendResponse
	if err := json.NewDecoder(resp.Body).Decode(&sendResp); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	return &sendResp, nil
}
