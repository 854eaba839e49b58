package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/hyperjump/moyu/internal/chat"
	"github.com/hyperjump/moyu/internal/config"
	"github.com/hyperjump/moyu/internal/llm"
	"github.com/hyperjump/moyu/internal/metrics"
	"github.com/hyperjump/moyu/internal/models"
	"github.com/hyperjump/moyu/internal/ranking"
	"github.com/hyperjump/moyu/internal/search"
	"github.com/hyperjump/moyu/internal/storage"
)

type stubGenerator struct {
	err error
}

func (g *stubGenerator) Name() string { return "stub" }

func (g *stubGenerator) Generate(ctx context.Context, p *llm.Prompt) (*llm.Generation, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &llm.Generation{Text: "답변: " + p.User, Model: llm.LabelOpenAI}, nil
}

type failingSource struct{}

func (failingSource) Fetch(context.Context, models.ID) ([]*models.KnowledgeUnit, error) {
	return nil, fmt.Errorf("%w: database not configured", models.ErrUpstreamUnavailable)
}
func (failingSource) Kind() string { return "failing" }
func (failingSource) Close() error { return nil }

type staticWatcher []string

func (w staticWatcher) Roots() []string { return w }

func testConfig(dbPath string) *config.Config {
	cfg := &config.Config{Store: config.StoreConfig{Type: config.StoreSQLite, DatabasePath: dbPath}}
	config.ApplyDefaults(cfg)
	cfg.LLM.OpenAIAPIKey = "sk-test"
	return cfg
}

func newTestServer(t *testing.T, gen llm.Generator, opts ...Option) *Server {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "k.db")
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	units := []*models.KnowledgeUnit{
		{ID: "1", Title: "유선염 대처법", Content: "열이 나고 가슴이 붓습니다.", Category: "1", Keywords: []string{"유선염"}},
		{ID: "2", Title: "분유 타는 법", Content: "물 온도를 확인합니다.", Category: "2"},
	}
	if err := store.ReplaceSource(context.Background(), "fixture", units); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig(dbPath)
	engine := search.NewEngine(store, ranking.NewRanker(nil), &cfg.Search)
	return NewServer(engine, chat.NewService(gen, time.Minute, nil), cfg, zap.NewNop(), opts...)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHandleSearch(t *testing.T) {
	srv := newTestServer(t, &stubGenerator{})
	rec := do(t, srv.Router(), http.MethodPost, "/api/search", `{"query":"열","categoryId":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var resp models.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Count != 1 || resp.Results[0].ID != "1" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow origin = %q", got)
	}
}

func TestHandleSearch_BadRequest(t *testing.T) {
	srv := newTestServer(t, &stubGenerator{})
	for _, body := range []string{`{}`, `{"query":"   "}`} {
		rec := do(t, srv.Router(), http.MethodPost, "/api/search", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d", body, rec.Code)
			continue
		}
		got := decodeMap(t, rec)
		if got["error"] != "query or categoryId required" || got["success"] != false {
			t.Errorf("%s: body = %v", body, got)
		}
	}
	if rec := do(t, srv.Router(), http.MethodPost, "/api/search", `{not json`); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body: status = %d", rec.Code)
	}
}

func TestHandleSearch_UpstreamFailure(t *testing.T) {
	cfg := testConfig("")
	engine := search.NewEngine(failingSource{}, ranking.NewRanker(nil), &cfg.Search)
	srv := NewServer(engine, chat.NewService(&stubGenerator{}, 0, nil), cfg, zap.NewNop())

	rec := do(t, srv.Router(), http.MethodPost, "/api/search", `{"query":"열"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decodeMap(t, rec)
	if got["error"] != "Search failed" || !strings.Contains(got["message"].(string), "database not configured") {
		t.Errorf("body = %v", got)
	}
}

func TestHandleChat(t *testing.T) {
	srv := newTestServer(t, &stubGenerator{})
	rec := do(t, srv.Router(), http.MethodPost, "/api/chat", `{"query":"열이 나요","context":[{"title":"유선염","content":"쉬세요"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var resp models.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Model != "gpt-4o-mini" || !strings.Contains(resp.Answer, "[1] 유선염") {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHandleChat_Errors(t *testing.T) {
	srv := newTestServer(t, &stubGenerator{})
	rec := do(t, srv.Router(), http.MethodPost, "/api/chat", `{"query":""}`)
	if rec.Code != http.StatusBadRequest || decodeMap(t, rec)["error"] != "query required" {
		t.Errorf("missing query: %d %s", rec.Code, rec.Body.String())
	}

	failing := newTestServer(t, &stubGenerator{err: fmt.Errorf("%w: No AI API configured", models.ErrUpstreamUnavailable)})
	rec = do(t, failing.Router(), http.MethodPost, "/api/chat", `{"query":"안녕"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decodeMap(t, rec)
	if got["error"] != "Chat failed" || !strings.Contains(got["message"].(string), "No AI API configured") {
		t.Errorf("body = %v", got)
	}
}

func TestMethodHandling(t *testing.T) {
	srv := newTestServer(t, &stubGenerator{})
	h := srv.Router()

	rec := do(t, h, http.MethodOptions, "/api/chat", "")
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Errorf("OPTIONS: %d %q", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/api/search", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET /api/search: status = %d", rec.Code)
	}
	if decodeMap(t, rec)["error"] != "Method not allowed" {
		t.Errorf("405 body = %s", rec.Body.String())
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, &stubGenerator{})
	rec := do(t, srv.Router(), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || decodeMap(t, rec)["status"] != "ok" {
		t.Errorf("health: %d %s", rec.Code, rec.Body.String())
	}
}

func TestHandleStatus(t *testing.T) {
	srv := newTestServer(t, &stubGenerator{}, WithVersion("v0.1.0"), WithSeedWatcher(staticWatcher{"/seed"}))
	rec := do(t, srv.Router(), http.MethodGet, "/api/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Store != storage.KindSQLite || resp.Units == nil || *resp.Units != 2 {
		t.Errorf("store status: %+v", resp)
	}
	if resp.KeywordEntries == 0 || len(resp.Rules) != 2 {
		t.Errorf("ranker status: %+v", resp)
	}
	if len(resp.Providers) != 1 || resp.Providers[0] != config.ProviderOpenAI {
		t.Errorf("providers = %v", resp.Providers)
	}
	if resp.Version != "v0.1.0" || len(resp.SeedDirs) != 1 {
		t.Errorf("status = %+v", resp)
	}
	if resp.DiskUsageBytes == nil || *resp.DiskUsageBytes == 0 {
		t.Error("sqlite disk usage should be reported")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New()
	if err := m.Register(reg); err != nil {
		t.Fatal(err)
	}
	srv := newTestServer(t, &stubGenerator{}, WithMetrics(m, reg))
	h := srv.Router()
	do(t, h, http.MethodPost, "/api/search", `{"query":"열"}`)

	rec := do(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/api/search") {
		t.Error("metrics should include the search route")
	}
}
