package clearbit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientEnrich(t *testing.T) {
	ctx := context.Background()

	t.Run("maps person fields", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/v2/people/find", r.URL.Path)
			assert.Equal(t, "ada@tensor.io", r.URL.Query().Get("email"))
			assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
			w.Write([]byte(`{
				"email":"ada@tensor.io",
				"name":{"fullName":"Ada Lovelace"},
				"location":"Berlin",
				"employment":{"title":"CTO","name":"Tensor GmbH","seniority":"executive"},
				"linkedin":{"handle":"in/ada"}
			}`))
		}))
		defer srv.Close()

		c := NewClient("key", WithBaseURL(srv.URL))
		enrichment, err := c.Enrich(ctx, "ada@tensor.io")
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", enrichment.FullName)
		assert.Equal(t, "CTO", enrichment.Title)
		assert.Equal(t, "Tensor GmbH", enrichment.Company)
		assert.Equal(t, "executive", enrichment.Seniority)
	})

	t.Run("no api key means empty enrichment without a call", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			t.Fatal("unexpected call")
		}))
		defer srv.Close()

		c := NewClient("", WithBaseURL(srv.URL))
		enrichment, err := c.Enrich(ctx, "ada@tensor.io")
		require.NoError(t, err)
		assert.True(t, enrichment.IsEmpty())
	})

	t.Run("unknown person is empty, not an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		}))
		defer srv.Close()

		c := NewClient("key", WithBaseURL(srv.URL))
		enrichment, err := c.Enrich(ctx, "ghost@example.com")
		require.NoError(t, err)
		assert.True(t, enrichment.IsEmpty())
	})

	t.Run("server error surfaces", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "oops", http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewClient("key", WithBaseURL(srv.URL))
		_, err := c.Enrich(ctx, "ada@tensor.io")
		require.Error(t, err)
	})
}
