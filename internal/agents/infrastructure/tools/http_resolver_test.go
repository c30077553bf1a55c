package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPResolverResolve(t *testing.T) {
	t.Run("resolves ids in request order", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/v1/tools/resolve", r.URL.Path)
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			var req map[string][]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, []string{"sendgrid", "calendar"}, req["ids"])
			// Deliberately out of order; the resolver restores request order.
			w.Write([]byte(`{"tools":[
				{"id":"calendar","name":"Calendar","description":"books meetings"},
				{"id":"sendgrid","name":"SendGrid","description":"sends email"}
			]}`))
		}))
		defer srv.Close()

		r := NewHTTPResolver(srv.URL, "tok")
		tools, err := r.Resolve(context.Background(), []string{"sendgrid", "calendar"})
		require.NoError(t, err)
		require.Len(t, tools, 2)
		assert.Equal(t, "SendGrid", tools[0].Name())
		assert.Equal(t, "Calendar", tools[1].Name())
	})

	t.Run("unknown id is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"tools":[]}`))
		}))
		defer srv.Close()

		r := NewHTTPResolver(srv.URL, "")
		_, err := r.Resolve(context.Background(), []string{"ghost"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ghost")
	})

	t.Run("gateway failure surfaces as an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer srv.Close()

		r := NewHTTPResolver(srv.URL, "")
		_, err := r.Resolve(context.Background(), []string{"sendgrid"})
		require.Error(t, err)
	})
}

func TestRemoteToolInvoke(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/tools/resolve":
			w.Write([]byte(`{"tools":[{"id":"search","name":"Search","description":"web search"}]}`))
		case "/v1/tools/search/invoke":
			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "acme corp", req["input"])
			w.Write([]byte(`{"output":"3 results"}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	r := NewHTTPResolver(srv.URL, "")
	tools, err := r.Resolve(context.Background(), []string{"search"})
	require.NoError(t, err)
	require.Len(t, tools, 1)

	out, err := tools[0].Invoke(context.Background(), "acme corp")
	require.NoError(t, err)
	assert.Equal(t, "3 results", out)
}
