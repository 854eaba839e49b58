package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/moyu/internal/config"
	"github.com/hyperjump/moyu/internal/middleware"
	"github.com/hyperjump/moyu/internal/models"
	"github.com/hyperjump/moyu/internal/storage"
)

const statusCountTimeout = 5 * time.Second

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	s.logger.Debug("search request",
		zap.String("query", query.Query),
		zap.String("category", query.CategoryID.String()),
		zap.Int("limit", query.Limit),
		zap.String("request_id", middleware.GetRequestID(r.Context())))

	response, err := s.engine.Search(r.Context(), &query)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			s.respondError(w, http.StatusBadRequest, "query or categoryId required", "")
			return
		}
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Search failed", err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	s.logger.Debug("chat request",
		zap.Int("query_len", len(req.Query)),
		zap.String("request_id", middleware.GetRequestID(r.Context())))

	response, err := s.chat.Answer(r.Context(), &req)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			s.respondError(w, http.StatusBadRequest, "query required", "")
			return
		}
		s.logger.Error("chat failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Chat failed", err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	Version        string   `json:"version,omitempty"`
	Store          string   `json:"store"`
	Units          *int64   `json:"units,omitempty"`
	KeywordEntries int      `json:"keyword_entries"`
	Rules          []string `json:"rules"`
	Providers      []string `json:"providers"`
	SeedDirs       []string `json:"seed_directories,omitempty"`
	DiskUsageBytes *int64   `json:"disk_usage_bytes,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	source := s.engine.Source()
	ranker := s.engine.Ranker()
	resp := StatusResponse{
		Version:        s.version,
		Store:          source.Kind(),
		KeywordEntries: ranker.TableSize(),
		Rules:          ranker.RuleNames(),
		Providers:      s.configuredProviders(),
	}

	if counter, ok := source.(storage.Counter); ok {
		ctx, cancel := context.WithTimeout(r.Context(), statusCountTimeout)
		defer cancel()
		if n, err := counter.CountUnits(ctx); err == nil {
			resp.Units = &n
		} else {
			s.logger.Warn("status: count units failed", zap.Error(err))
		}
	}
	if s.watch != nil {
		resp.SeedDirs = s.watch.Roots()
	}
	if sized, ok := source.(storage.DiskSizer); ok {
		if n, err := sized.DiskUsageBytes(); err == nil {
			resp.DiskUsageBytes = &n
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// configuredProviders lists the providers in fallback order that have a key.
func (s *Server) configuredProviders() []string {
	llm := s.config.LLM
	out := []string{}
	for _, name := range llm.Providers {
		var key string
		switch name {
		case config.ProviderAnthropic:
			key = llm.AnthropicAPIKey
		case config.ProviderOpenAI:
			key = llm.OpenAIAPIKey
		case config.ProviderGemini:
			key = llm.GeminiAPIKey
		}
		if key != "" {
			out = append(out, name)
		}
	}
	return out
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message, detail string) {
	s.respondJSON(w, status, models.ErrorResponse{Success: false, Error: message, Message: detail})
}
