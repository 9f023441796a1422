// Package mailer sends transactional email through the Resend HTTP API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const resendEndpoint = "https://api.resend.com/emails"

// Client is a minimal Resend API client. With Enabled=false it logs instead
// of sending, so local environments never need an API key.
type Client struct {
	apiKey  string
	from    string
	enabled bool
	httpc   *http.Client
}

// New creates a mailer client.
func New(apiKey, from string, enabled bool) *Client {
	return &Client{
		apiKey:  apiKey,
		from:    from,
		enabled: enabled,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// Send delivers one email. Implements ports.Mailer.
func (c *Client) Send(ctx context.Context, to, subject, html, text string) error {
	if !c.enabled {
		slog.Info("mail disabled, not sending", "to", to, "subject", subject)
		return nil
	}
	if c.apiKey == "" {
		return fmt.Errorf("mailer: missing api key")
	}

	body, err := json.Marshal(sendRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
		Text:    text,
	})
	if err != nil {
		return fmt.Errorf("mailer: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("mailer: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("mailer: resend returned %d: %s", resp.StatusCode, data)
	}
	return nil
}
