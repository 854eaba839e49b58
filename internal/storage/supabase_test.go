package storage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperjump/moyu/internal/models"
)

func TestSupabaseSource_Fetch(t *testing.T) {
	var got rpcRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, supabaseRPCPath, r.URL.Path)
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 7, "title": "젖양 늘리기", "content": "자주 물리세요", "category": 2, "urgency": "24시간내확인", "keywords": ["젖양"]},
			{"id": "x-1", "title": "트림", "content": null, "keywords": null}
		]`))
	}))
	defer server.Close()

	src := NewSupabaseSource(server.URL+"/", "anon", WithCandidateLimit(20))
	units, err := src.Fetch(context.Background(), "2")
	require.NoError(t, err)

	require.NotNil(t, got.CategoryFilter)
	assert.Equal(t, "2", *got.CategoryFilter)
	assert.Equal(t, "", got.SearchQuery)
	assert.Equal(t, 20, got.ResultLimit)

	require.Len(t, units, 2)
	assert.Equal(t, models.ID("7"), units[0].ID)
	assert.Equal(t, models.UrgencyWithin24h, units[0].Urgency)
	assert.Equal(t, models.ID("2"), units[0].Category)
	assert.Equal(t, models.ID("x-1"), units[1].ID)
	assert.Empty(t, units[1].Keywords)
}

func TestSupabaseSource_FetchWithoutCategory(t *testing.T) {
	var raw map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	units, err := NewSupabaseSource(server.URL, "anon").Fetch(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, units)
	assert.Contains(t, raw, "category_filter")
	assert.Nil(t, raw["category_filter"])
	assert.EqualValues(t, defaultCandidateLimit, raw["result_limit"])
}

func TestSupabaseSource_Errors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		_, err := NewSupabaseSource("", "").Fetch(context.Background(), "")
		assert.True(t, errors.Is(err, models.ErrUpstreamUnavailable))
	})

	t.Run("non-2xx", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"bad key"}`, http.StatusUnauthorized)
		}))
		defer server.Close()
		_, err := NewSupabaseSource(server.URL, "bad").Fetch(context.Background(), "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrUpstreamRejected))
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"not": "a list"}`))
		}))
		defer server.Close()
		_, err := NewSupabaseSource(server.URL, "anon").Fetch(context.Background(), "")
		assert.True(t, errors.Is(err, models.ErrUpstreamRejected))
	})

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()
		_, err := NewSupabaseSource(url, "anon").Fetch(context.Background(), "")
		assert.True(t, errors.Is(err, models.ErrUpstreamUnavailable))
	})
}
