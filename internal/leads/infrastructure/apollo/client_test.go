package apollo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwehr/salesloop/internal/leads/domain"
)

func TestClientSearch(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("normalizes people into leads", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/mixed_people/search", r.URL.Path)
			assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "software", body["q_organization_industry_text"])
			assert.Equal(t, "11-50", body["q_organization_company_size"])
			assert.Equal(t, float64(25), body["per_page"])

			w.Write([]byte(`{"people":[{
				"id":"p1","first_name":"Ada","last_name":"Lovelace","email":"ada@tensor.io",
				"title":"CTO","linkedin_url":"https://linkedin.com/in/ada",
				"organization":{"name":"Tensor GmbH","size":"11-50","industry":"software"}
			}]}`))
		}))
		defer srv.Close()

		c := NewClient("key", WithBaseURL(srv.URL), WithClock(func() time.Time { return fixed }))
		leads, err := c.Search(context.Background(), domain.SearchCriteria{
			Industry:    "software",
			CompanySize: "11-50",
			JobTitles:   []string{"CTO"},
			Limit:       25,
		})
		require.NoError(t, err)
		require.Len(t, leads, 1)

		lead := leads[0]
		assert.Equal(t, "p1", lead.ID)
		assert.Equal(t, "Ada Lovelace", lead.FullName())
		assert.Equal(t, "Tensor GmbH", lead.Company)
		assert.Equal(t, "software", lead.Industry)
		assert.Equal(t, fixed, lead.CreatedAt)
	})

	t.Run("limit is capped at the API maximum", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, float64(100), body["per_page"])
			w.Write([]byte(`{"people":[]}`))
		}))
		defer srv.Close()

		c := NewClient("key", WithBaseURL(srv.URL))
		_, err := c.Search(context.Background(), domain.SearchCriteria{Limit: 500})
		require.NoError(t, err)
	})

	t.Run("api failure surfaces", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "invalid key", http.StatusUnauthorized)
		}))
		defer srv.Close()

		c := NewClient("bad", WithBaseURL(srv.URL))
		_, err := c.Search(context.Background(), domain.SearchCriteria{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})
}
