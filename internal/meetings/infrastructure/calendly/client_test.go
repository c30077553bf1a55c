package calendly

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulingLink(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/scheduling_links", r.URL.Path)
		assert.Equal(t, "Bearer pat-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"resource": map[string]string{
				"booking_url": "https://calendly.com/d/abc-def",
			},
		})
	}))
	defer server.Close()

	client := NewClient("pat-token", WithBaseURL(server.URL))

	link, err := client.SchedulingLink(context.Background(), "https://api.calendly.com/event_types/et-1")
	require.NoError(t, err)
	assert.Equal(t, "https://calendly.com/d/abc-def", link)

	assert.Equal(t, float64(1), captured["max_event_count"])
	assert.Equal(t, "https://api.calendly.com/event_types/et-1", captured["owner"])
	assert.Equal(t, "EventType", captured["owner_type"])
}

func TestSchedulingLinkServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient("bad", WithBaseURL(server.URL))

	_, err := client.SchedulingLink(context.Background(), "https://api.calendly.com/event_types/et-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
