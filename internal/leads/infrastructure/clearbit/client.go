// Package clearbit enriches leads with person data from the Clearbit API.
package clearbit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/fernwehr/salesloop/internal/leads/domain"
)

const defaultBaseURL = "https://person.clearbit.com"

// Client looks up person profiles by email. Enrichment is optional: with no
// API key configured every lookup returns an empty enrichment, matching the
// behavior of running without a Clearbit subscription.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[domain.Enrichment]
}

type Option func(*Client)

func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	c.breaker = gobreaker.NewCircuitBreaker[domain.Enrichment](gobreaker.Settings{
		Name:    "clearbit",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enrich fetches profile data for an email. A 404 means the person is
// unknown and yields an empty enrichment rather than an error.
func (c *Client) Enrich(ctx context.Context, email string) (domain.Enrichment, error) {
	if c.apiKey == "" {
		return domain.Enrichment{}, nil
	}
	return c.breaker.Execute(func() (domain.Enrichment, error) {
		return c.fetch(ctx, email)
	})
}

func (c *Client) fetch(ctx context.Context, email string) (domain.Enrichment, error) {
	endpoint := fmt.Sprintf("%s/v2/people/find?email=%s", c.baseURL, url.QueryEscape(email))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Enrichment{}, fmt.Errorf("build enrich request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Enrichment{}, fmt.Errorf("call clearbit: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return domain.Enrichment{}, nil
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.Enrichment{}, fmt.Errorf("clearbit returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out struct {
		Name struct {
			FullName string `json:"fullName"`
		} `json:"name"`
		Email      string `json:"email"`
		Location   string `json:"location"`
		Employment struct {
			Title     string `json:"title"`
			Name      string `json:"name"`
			Seniority string `json:"seniority"`
		} `json:"employment"`
		LinkedIn struct {
			Handle string `json:"handle"`
		} `json:"linkedin"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.Enrichment{}, fmt.Errorf("decode clearbit response: %w", err)
	}

	return domain.Enrichment{
		Email:     out.Email,
		FullName:  out.Name.FullName,
		Title:     out.Employment.Title,
		Company:   out.Employment.Name,
		Location:  out.Location,
		LinkedIn:  out.LinkedIn.Handle,
		Seniority: out.Employment.Seniority,
	}, nil
}
