package wakatime

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/huangsam/codepulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const summariesBody = `{
  "data": [
    {
      "range": {"date": "2026-01-09", "timezone": "UTC"},
      "grand_total": {"hours": 1, "minutes": 30, "total_seconds": 5400.6, "digital": "1:30", "text": "1 hr 30 mins"},
      "languages": [{"name": "Go", "total_seconds": 3600.2, "percent": 66.66, "digital": "1:00", "text": "1 hr"}],
      "projects": [],
      "editors": [{"name": "Neovim", "total_seconds": 5400.6, "percent": 100}],
      "operating_systems": null
    },
    {
      "range": {"date": "2026-01-10"},
      "grand_total": {"total_seconds": 0}
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, env map[string]string) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(server.URL+"/", time.Second)
	client.lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	return client
}

func TestFetchRange(t *testing.T) {
	var gotAuth, gotPath, gotStart, gotEnd string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotStart = r.URL.Query().Get("start")
		gotEnd = r.URL.Query().Get("end")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(summariesBody))
	}, map[string]string{"WAKATIME_API_KEY_AKSHAY": "waka_123"})

	summaries, err := client.FetchRange(context.Background(), "akshay", "2026-01-09", "2026-01-10")
	require.NoError(t, err)

	assert.Equal(t, "/users/current/summaries", gotPath)
	assert.Equal(t, "2026-01-09", gotStart)
	assert.Equal(t, "2026-01-10", gotEnd)
	assert.Equal(t, "Basic "+base64.StdEncoding.EncodeToString([]byte("waka_123:")), gotAuth)

	require.Len(t, summaries, 2)
	first := summaries[0]
	assert.Equal(t, "2026-01-09", first.Date)
	assert.InDelta(t, 5400.6, first.GrandTotal.TotalSeconds, 1e-9)
	require.Len(t, first.Languages, 1)
	assert.Equal(t, "Go", first.Languages[0].Name)
	assert.Empty(t, first.Projects)
	assert.Nil(t, first.OperatingSystems)
	assert.Equal(t, "2026-01-10", summaries[1].Date)
}

func TestFetchRange_ErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
	}, map[string]string{"WAKATIME_API_KEY": "shared"})

	_, err := client.FetchRange(context.Background(), "me", "2026-01-01", "2026-01-02")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "Unauthorized")
	assert.Contains(t, err.Error(), "401")
}

func TestFetchRange_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data": [`))
	}, map[string]string{"WAKATIME_API_KEY": "shared"})

	_, err := client.FetchRange(context.Background(), "me", "2026-01-01", "2026-01-02")
	assert.ErrorContains(t, err, "failed to parse summaries")
}

func TestFetchRange_EmptyData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}, map[string]string{"WAKATIME_API_KEY": "shared"})

	summaries, err := client.FetchRange(context.Background(), "me", "2026-01-01", "2026-01-02")
	require.NoError(t, err)
	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)
}

func TestAPIKey(t *testing.T) {
	tests := []struct {
		name    string
		user    string
		env     map[string]string
		want    string
		wantErr bool
	}{
		{"per-user key", "monika", map[string]string{"WAKATIME_API_KEY_MONIKA": "m", "WAKATIME_API_KEY": "shared"}, "m", false},
		{"shared fallback", "me", map[string]string{"WAKATIME_API_KEY": "shared"}, "shared", false},
		{"blank per-user key falls back", "me", map[string]string{"WAKATIME_API_KEY_ME": " ", "WAKATIME_API_KEY": "shared"}, "shared", false},
		{"missing", "himanshu", map[string]string{}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient("http://unused", time.Second)
			client.lookupEnv = func(key string) (string, bool) {
				v, ok := tt.env[key]
				return v, ok
			}
			got, err := client.APIKey(tt.user)
			if tt.wantErr {
				assert.ErrorIs(t, err, schema.ErrConfiguration)
				assert.ErrorContains(t, err, "WAKATIME_API_KEY_HIMANSHU")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFetchRange_MissingKeySkipsRequest(t *testing.T) {
	called := false
	client := newTestClient(t, func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	}, map[string]string{})

	_, err := client.FetchRange(context.Background(), "me", "2026-01-01", "2026-01-02")
	assert.ErrorIs(t, err, schema.ErrConfiguration)
	assert.False(t, called)
}
