package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/moyu/internal/chat"
	"github.com/hyperjump/moyu/internal/config"
	"github.com/hyperjump/moyu/internal/models"
	"github.com/hyperjump/moyu/internal/ranking"
	"github.com/hyperjump/moyu/internal/search"
	"github.com/hyperjump/moyu/internal/seed"
	"github.com/hyperjump/moyu/internal/storage"
)

const seedYAML = `
units:
  - id: 11
    title: 밤중 수면 환경 만들기
    content: 아기가 졸려하면 재우기 전에 수유합니다.
    category: 1
  - id: 12
    title: 젖 거부 대처법
    content: 아기가 젖을 안 물 때 피부 접촉을 늘립니다.
    category: 1
    urgency: 24시간내확인
  - title: 젖병 소독
    content: 끓는 물에 5분 소독합니다.
    category: 2
`

func TestIntegration_SeedImportThenSearch(t *testing.T) {
	dir := t.TempDir()
	seedDir := filepath.Join(dir, "seed")
	if err := os.MkdirAll(seedDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(seedDir, "units.yaml"), []byte(seedYAML), 0600); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{Store: config.StoreConfig{Type: config.StoreSQLite, DatabasePath: filepath.Join(dir, "k.db")}}
	config.ApplyDefaults(cfg)
	source, err := storage.NewSource(&cfg.Store)
	if err != nil {
		t.Fatal(err)
	}
	defer source.Close()

	writer, ok := source.(storage.Writer)
	if !ok {
		t.Fatal("sqlite source should accept seeded units")
	}
	files, units, err := seed.NewImporter(writer).ImportDirectory(context.Background(), seedDir, cfg.Seed.Extensions, true)
	if err != nil {
		t.Fatal(err)
	}
	if files != 1 || units != 3 {
		t.Fatalf("imported %d files / %d units", files, units)
	}

	engine := search.NewEngine(source, ranking.NewRanker(&cfg.Search.Ranking), &cfg.Search, search.WithFetchTimeout(5*time.Second))
	srv := NewServer(engine, chat.NewService(&stubGenerator{}, time.Minute, nil), cfg, zap.NewNop())
	h := srv.Router()

	rec := do(t, h, http.MethodPost, "/api/search", `{"query":"안물","categoryId":"1","explain":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var resp models.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count == 0 || resp.Results[0].ID != "12" {
		t.Fatalf("refusal unit should rank first: %+v", resp.Results)
	}
	if resp.Results[0].Breakdown == nil {
		t.Error("explain should attach a breakdown")
	}

	rec = do(t, h, http.MethodPost, "/api/search", `{"categoryId":2}`)
	resp = models.SearchResponse{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 || resp.Results[0].Title != "젖병 소독" || resp.Results[0].ID == "" {
		t.Errorf("category listing = %+v", resp.Results)
	}
}
