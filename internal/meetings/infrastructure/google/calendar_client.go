// Package google books events on Google Calendar.
package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const defaultBaseURL = "https://www.googleapis.com/calendar/v3"

// CalendarClient creates events on a single calendar using an OAuth2 token
// source for authentication.
type CalendarClient struct {
	baseURL    string
	calendarID string
	http       *http.Client
}

type Option func(*CalendarClient)

func WithBaseURL(base string) Option {
	return func(c *CalendarClient) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithHTTPClient replaces the OAuth2-wrapped client, used in tests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *CalendarClient) { c.http = client }
}

func NewCalendarClient(ctx context.Context, tokenSource oauth2.TokenSource, calendarID string, opts ...Option) *CalendarClient {
	c := &CalendarClient{
		baseURL:    defaultBaseURL,
		calendarID: calendarID,
		http:       oauth2.NewClient(ctx, tokenSource),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Event is a calendar booking request.
type Event struct {
	Summary   string
	StartsAt  time.Time
	EndsAt    time.Time
	Attendees []string
}

type eventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type eventRequest struct {
	Summary   string    `json:"summary"`
	Start     eventTime `json:"start"`
	End       eventTime `json:"end"`
	Attendees []struct {
		Email string `json:"email"`
	} `json:"attendees,omitempty"`
}

// CreateEvent books the event and returns the provider's event id.
func (c *CalendarClient) CreateEvent(ctx context.Context, event Event) (string, error) {
	req := eventRequest{
		Summary: event.Summary,
		Start:   eventTime{DateTime: event.StartsAt.Format(time.RFC3339), TimeZone: "UTC"},
		End:     eventTime{DateTime: event.EndsAt.Format(time.RFC3339), TimeZone: "UTC"},
	}
	for _, attendee := range event.Attendees {
		req.Attendees = append(req.Attendees, struct {
			Email string `json:"email"`
		}{Email: attendee})
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal event request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events", c.baseURL, url.PathEscape(c.calendarID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build event request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("call google calendar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("google calendar returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode event response: %w", err)
	}
	return out.ID, nil
}
