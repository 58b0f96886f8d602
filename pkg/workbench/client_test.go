package workbench

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const assetsBody = `{
  "assets": [
    {
      "id": "a-1",
      "ipv4": ["10.0.0.5", "10.0.0.6"],
      "fqdn": ["five.internal"],
      "sources": [
        {"name": "AWS", "first_seen": "2023-01-02T03:04:05.000Z", "last_seen": "2023-02-02T03:04:05.000Z"}
      ]
    },
    {
      "id": "a-2",
      "ipv4": ["10.0.0.7"],
      "sources": [{"name": "GCP", "first_seen": "2023-03-01T00:00:00.000Z"}]
    }
  ],
  "total": 2
}`

func TestAssets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/workbenches/assets", r.URL.Path)
		assert.Equal(t, "accessKey=ak;secretKey=sk", r.Header.Get("X-ApiKeys"))

		q := r.URL.Query()
		assert.Equal(t, "sources", q.Get("filter.0.filter"))
		assert.Equal(t, "set-hasonly", q.Get("filter.0.quality"))
		assert.Equal(t, "AWS", q.Get("filter.0.value"))
		assert.Equal(t, "and", q.Get("filter.search_type"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(assetsBody))
	}))
	defer srv.Close()

	cli := New(srv.URL+"/", "ak", "sk", 0)

	got, err := cli.Assets(context.Background(), Filter{"sources", "set-hasonly", "AWS"})
	require.NoError(t, err)

	want := []Asset{
		{
			ID:   "a-1",
			IPv4: []string{"10.0.0.5", "10.0.0.6"},
			FQDN: []string{"five.internal"},
			Sources: []Source{
				{Name: "AWS", FirstSeen: "2023-01-02T03:04:05.000Z", LastSeen: "2023-02-02T03:04:05.000Z"},
			},
		},
		{
			ID:      "a-2",
			IPv4:    []string{"10.0.0.7"},
			FQDN:    []string{},
			Sources: []Source{{Name: "GCP", FirstSeen: "2023-03-01T00:00:00.000Z"}},
		},
	}
	assert.Equal(t, want, got)
}

func TestAssetsErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		errMsg string
	}{
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"error":"Invalid Credentials"}`,
			errMsg: "401",
		},
		{
			name:   "invalid json",
			status: http.StatusOK,
			body:   `<html>`,
			errMsg: "not valid json",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL, "ak", "sk", 0).Assets(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestAssetsMissingKeys(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	_, err := New(srv.URL, "", "sk", 0).Assets(context.Background())
	assert.ErrorIs(t, err, ErrMissingKeys)
	assert.False(t, called)
}

func TestNewDefaultURL(t *testing.T) {
	assert.Equal(t, DefaultURL, New("", "a", "b", 0).URL)
}
