// Package sendgrid sends tracked email through the SendGrid v3 API.
package sendgrid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.sendgrid.com"

// Email is an outbound message. A non-zero SendAt defers delivery.
type Email struct {
	To      string
	Subject string
	HTML    string
	SendAt  time.Time
}

// SendResult reports the provider's acceptance of a message.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Client sends email with click and open tracking always enabled.
type Client struct {
	baseURL   string
	apiKey    string
	fromEmail string
	http      *http.Client
	now       func() time.Time
}

type Option func(*Client)

func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func NewClient(apiKey, fromEmail string, opts ...Option) *Client {
	c := &Client{
		baseURL:   defaultBaseURL,
		apiKey:    apiKey,
		fromEmail: fromEmail,
		http:      &http.Client{Timeout: 30 * time.Second},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type address struct {
	Email string `json:"email"`
}

type personalization struct {
	To     []address `json:"to"`
	SendAt int64     `json:"send_at,omitempty"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type trackingSettings struct {
	ClickTracking struct {
		Enable     bool `json:"enable"`
		EnableText bool `json:"enable_text"`
	} `json:"click_tracking"`
	OpenTracking struct {
		Enable bool `json:"enable"`
	} `json:"open_tracking"`
}

type mailRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []mailContent     `json:"content"`
	TrackingSettings trackingSettings  `json:"tracking_settings"`
}

// Send submits the message. Acceptance (2xx) yields the provider message id
// used to correlate later delivery events.
func (c *Client) Send(ctx context.Context, email Email) (SendResult, error) {
	p := personalization{To: []address{{Email: email.To}}}
	if !email.SendAt.IsZero() {
		p.SendAt = email.SendAt.UTC().Unix()
	}

	reqBody := mailRequest{
		Personalizations: []personalization{p},
		From:             address{Email: c.fromEmail},
		Subject:          email.Subject,
		Content:          []mailContent{{Type: "text/html", Value: email.HTML}},
	}
	reqBody.TrackingSettings.ClickTracking.Enable = true
	reqBody.TrackingSettings.ClickTracking.EnableText = true
	reqBody.TrackingSettings.OpenTracking.Enable = true

	body, err := json.Marshal(reqBody)
	if err != nil {
		return SendResult{}, fmt.Errorf("marshal mail request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return SendResult{}, fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return SendResult{}, fmt.Errorf("call sendgrid: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return SendResult{}, fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	return SendResult{
		MessageID: resp.Header.Get("X-Message-Id"),
		SentAt:    c.now().UTC(),
	}, nil
}
