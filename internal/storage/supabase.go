package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hyperjump/moyu/internal/models"
)

const supabaseRPCPath = "/rest/v1/rpc/search_knowledge"

// SupabaseSource fetches units through the search_knowledge RPC of a Supabase
// project's REST API.
type SupabaseSource struct {
	baseURL string
	apiKey  string
	limit   int
	client  *http.Client
}

type rpcRequest struct {
	SearchQuery    string  `json:"search_query"`
	CategoryFilter *string `json:"category_filter"`
	ResultLimit    int     `json:"result_limit"`
}

// NewSupabaseSource creates a source for the project at baseURL. An empty
// baseURL or apiKey is accepted; Fetch then reports the store as unconfigured.
func NewSupabaseSource(baseURL, apiKey string, opts ...Option) *SupabaseSource {
	o := buildOptions(opts)
	return &SupabaseSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		limit:   o.candidateLimit,
		client:  o.httpClient,
	}
}

// Kind returns KindSupabase.
func (s *SupabaseSource) Kind() string {
	return KindSupabase
}

// Fetch calls the RPC with an empty search query so that every unit in the
// category comes back for local ranking.
func (s *SupabaseSource) Fetch(ctx context.Context, categoryID models.ID) ([]*models.KnowledgeUnit, error) {
	if s.baseURL == "" || s.apiKey == "" {
		return nil, fmt.Errorf("%w: Supabase not configured", models.ErrUpstreamUnavailable)
	}

	payload := rpcRequest{ResultLimit: s.limit}
	if categoryID != "" {
		c := categoryID.String()
		payload.CategoryFilter = &c
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+supabaseRPCPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", models.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: store returned %d: %s", models.ErrUpstreamRejected, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var units []*models.KnowledgeUnit
	if err := json.NewDecoder(resp.Body).Decode(&units); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", models.ErrUpstreamRejected, err)
	}
	return units, nil
}

// Close is a no-op.
func (s *SupabaseSource) Close() error {
	return nil
}
