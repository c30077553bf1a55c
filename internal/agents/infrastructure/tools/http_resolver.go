// Package tools resolves tool identifiers against a remote tool gateway.
package tools

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

	"github.com/fernwehr/salesloop/internal/agents/domain"
)

// HTTPResolver resolves tools over a JSON gateway API. Calls run through a
// circuit breaker so a flapping gateway fails fast instead of stalling every
// agent construction.
type HTTPResolver struct {
	baseURL string
	token   string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]toolDescriptor]
}

type toolDescriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func NewHTTPResolver(baseURL, token string) *HTTPResolver {
	r := &HTTPResolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	r.breaker = gobreaker.NewCircuitBreaker[[]toolDescriptor](gobreaker.Settings{
		Name:    "tool-gateway",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return r
}

func (r *HTTPResolver) Resolve(ctx context.Context, ids []string) ([]domain.Tool, error) {
	descriptors, err := r.breaker.Execute(func() ([]toolDescriptor, error) {
		return r.fetch(ctx, ids)
	})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]toolDescriptor, len(descriptors))
	for _, d := range descriptors {
		byID[d.ID] = d
	}
	tools := make([]domain.Tool, 0, len(ids))
	for _, id := range ids {
		d, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("tool gateway does not know %q", id)
		}
		tools = append(tools, &remoteTool{resolver: r, descriptor: d})
	}
	return tools, nil
}

func (r *HTTPResolver) fetch(ctx context.Context, ids []string) ([]toolDescriptor, error) {
	body, err := json.Marshal(map[string][]string{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("marshal resolve request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/tools/resolve", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build resolve request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call tool gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("tool gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out struct {
		Tools []toolDescriptor `json:"tools"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode resolve response: %w", err)
	}
	return out.Tools, nil
}

type remoteTool struct {
	resolver   *HTTPResolver
	descriptor toolDescriptor
}

func (t *remoteTool) Name() string { return t.descriptor.Name }

func (t *remoteTool) Invoke(ctx context.Context, input string) (string, error) {
	body, err := json.Marshal(map[string]string{"input": input})
	if err != nil {
		return "", fmt.Errorf("marshal invoke request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/tools/%s/invoke", t.resolver.baseURL, t.descriptor.ID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build invoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if t.resolver.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.resolver.token)
	}

	resp, err := t.resolver.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("invoke tool %q: %w", t.descriptor.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("tool %q returned %d: %s", t.descriptor.ID, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out struct {
		Output string `json:"output"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode invoke response: %w", err)
	}
	return out.Output, nil
}
