// Package apollo implements prospect search against the Apollo.io API.
package apollo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/fernwehr/salesloop/internal/leads/domain"
)

const defaultBaseURL = "https://api.apollo.io/v1"

// maxPageSize is the largest per_page Apollo accepts.
const maxPageSize = 100

// Client searches people on Apollo. Requests run through a circuit breaker
// so a degraded upstream fails fast.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]person]
	now     func() time.Time
}

type person struct {
	ID           string `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Title        string `json:"title"`
	LinkedInURL  string `json:"linkedin_url"`
	Organization struct {
		Name     string `json:"name"`
		Size     string `json:"size"`
		Industry string `json:"industry"`
	} `json:"organization"`
}

type Option func(*Client)

// WithBaseURL points the client at a different API host, used in tests.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithClock overrides the lead timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
		now:     time.Now,
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]person](gobreaker.Settings{
		Name:    "apollo",
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

// Search returns leads matching the criteria, normalized into domain.Lead.
func (c *Client) Search(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Lead, error) {
	people, err := c.breaker.Execute(func() ([]person, error) {
		return c.search(ctx, criteria)
	})
	if err != nil {
		return nil, err
	}

	now := c.now().UTC()
	leads := make([]domain.Lead, 0, len(people))
	for _, p := range people {
		leads = append(leads, domain.Lead{
			ID:          p.ID,
			FirstName:   p.FirstName,
			LastName:    p.LastName,
			Email:       p.Email,
			Company:     p.Organization.Name,
			Title:       p.Title,
			LinkedInURL: p.LinkedInURL,
			CompanySize: p.Organization.Size,
			Industry:    p.Organization.Industry,
			CreatedAt:   now,
		})
	}
	return leads, nil
}

func (c *Client) search(ctx context.Context, criteria domain.SearchCriteria) ([]person, error) {
	perPage := criteria.Limit
	if perPage <= 0 || perPage > maxPageSize {
		perPage = maxPageSize
	}

	body, err := json.Marshal(map[string]any{
		"q_organization_industry_text": criteria.Industry,
		"q_organization_company_size":  criteria.CompanySize,
		"q_titles":                     criteria.JobTitles,
		"page":                         1,
		"per_page":                     perPage,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/mixed_people/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call apollo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("apollo returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out struct {
		People []person `json:"people"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode apollo response: %w", err)
	}
	return out.People, nil
}
