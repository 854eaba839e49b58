// Package main is the moyu CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/hyperjump/moyu/internal/chat"
	"github.com/hyperjump/moyu/internal/cli"
	"github.com/hyperjump/moyu/internal/config"
	"github.com/hyperjump/moyu/internal/llm"
	"github.com/hyperjump/moyu/internal/metrics"
	"github.com/hyperjump/moyu/internal/models"
	"github.com/hyperjump/moyu/internal/ranking"
	"github.com/hyperjump/moyu/internal/search"
	"github.com/hyperjump/moyu/internal/seed"
	"github.com/hyperjump/moyu/internal/server"
	"github.com/hyperjump/moyu/internal/storage"
	"github.com/hyperjump/moyu/internal/watcher"
	"github.com/hyperjump/moyu/pkg/utils"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/moyu/config.yaml"
	defaultServerURL  = "http://localhost:8080"
	httpClientTimeout = 90 * time.Second
)

// loadConfig loads config from path. When path is the default, config.yaml in
// the current directory takes precedence; when neither exists the config is
// built from defaults and the environment. Returns the config and the path
// that was actually loaded ("" for environment-only).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return nil, "", err
			}
			return cfg, "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "ask":
		runAsk()
	case "import":
		runImport()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("moyu version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// setup loads the config and builds a logger. debug forces debug logging.
func setup(configPath string, debug bool) (*config.Config, string, *zap.Logger) {
	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	return cfg, resolved, logger
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, logger := setup(*configPath, *debug)
	defer logger.Sync()
	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.String("store", cfg.Store.Type),
		zap.Bool("debug", cfg.Debug || *debug),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New()
	if err := m.Register(reg); err != nil {
		logger.Fatal("Failed to register metrics", zap.Error(err))
	}

	components, err := initializeComponents(context.Background(), cfg, logger, m)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	opts := []server.Option{server.WithMetrics(m, reg), server.WithVersion(version)}

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Seed.Watch && len(cfg.Seed.Directories) > 0 {
		if components.Importer == nil {
			logger.Warn("seed watch requires store.type sqlite; not watching", zap.String("store", cfg.Store.Type))
		} else {
			w := newSeedWatcher(cfg, components.Importer, logger, m)
			if err := w.Start(watchCtx); err != nil {
				logger.Fatal("Failed to start seed watcher", zap.Error(err))
			}
			defer w.Stop()
			w.SyncExistingFiles()
			opts = append(opts, server.WithSeedWatcher(w))
		}
	}

	srv := server.NewServer(components.Engine, components.Chat, cfg, logger, opts...)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// newSeedWatcher re-imports changed seed files and drops units of removed ones.
func newSeedWatcher(cfg *config.Config, importer *seed.Importer, logger *zap.Logger, m *metrics.Metrics) *watcher.Watcher {
	exts := cfg.Seed.Extensions
	return watcher.New(
		cfg.Seed.Directories,
		exts,
		cfg.Seed.RecursiveOrDefault(),
		func(path string) {
			if _, err := importer.ImportFile(context.Background(), path, exts); err != nil {
				m.IncSeedImport(metrics.OutcomeError)
				logger.Warn("seed import failed", zap.String("path", path), zap.Error(err))
				return
			}
			m.IncSeedImport(metrics.OutcomeSuccess)
		},
		func(path string) {
			if err := importer.RemoveFile(context.Background(), path); err != nil {
				logger.Warn("seed remove failed", zap.String("path", path), zap.Error(err))
			}
		},
		watcher.WithLogger(logger),
	)
}

// printSearchUsage prints search subcommand usage.
func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: moyu search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. An empty query with --category lists the category.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  moyu search 젖몸살
  moyu search --category 3 --limit 10 열
  moyu search --explain --output json 안 물어요
  moyu search --server "" 유선염        # direct store access
`)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the
// query to the front of the slice so that flag.Parse() sees them. Go's flag
// package stops at the first non-flag argument.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct store mode)")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = query the record source directly)")
	category := fs.String("category", "", "restrict results to a category id")
	limit := fs.Int("limit", 0, "number of results (default from config)")
	explain := fs.Bool("explain", false, "include score breakdowns")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	query := &models.SearchQuery{
		Query:      buildSearchQuery(fs.Args()),
		CategoryID: models.ID(strings.TrimSpace(*category)),
		Limit:      *limit,
		Explain:    *explain,
	}
	if query.Query == "" && query.CategoryID == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}

	var response *models.SearchResponse
	if *serverURL != "" {
		response = new(models.SearchResponse)
		err = postJSON(*serverURL+"/api/search", query, response)
	} else {
		cfg, _, logger := setup(*configPath, false)
		defer logger.Sync()
		components, initErr := initializeComponents(context.Background(), cfg, logger, nil)
		if initErr != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", initErr)
			os.Exit(1)
		}
		defer components.Close()
		response, err = components.Engine.Search(context.Background(), query)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = call providers directly)")
	withContext := fs.Bool("context", true, "search first and pass the top results as context")
	limit := fs.Int("limit", 3, "number of context results")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	question := buildSearchQuery(fs.Args())
	if question == "" {
		fmt.Println("Usage: moyu ask [flags] <question>")
		os.Exit(1)
	}

	var (
		searchFn func(*models.SearchQuery) (*models.SearchResponse, error)
		chatFn   func(*models.ChatRequest) (*models.ChatResponse, error)
	)
	if *serverURL != "" {
		searchFn = func(q *models.SearchQuery) (*models.SearchResponse, error) {
			var out models.SearchResponse
			return &out, postJSON(*serverURL+"/api/search", q, &out)
		}
		chatFn = func(r *models.ChatRequest) (*models.ChatResponse, error) {
			var out models.ChatResponse
			return &out, postJSON(*serverURL+"/api/chat", r, &out)
		}
	} else {
		cfg, _, logger := setup(*configPath, false)
		defer logger.Sync()
		components, initErr := initializeComponents(context.Background(), cfg, logger, nil)
		if initErr != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", initErr)
			os.Exit(1)
		}
		defer components.Close()
		searchFn = func(q *models.SearchQuery) (*models.SearchResponse, error) {
			return components.Engine.Search(context.Background(), q)
		}
		chatFn = func(r *models.ChatRequest) (*models.ChatResponse, error) {
			return components.Chat.Answer(context.Background(), r)
		}
	}

	req := &models.ChatRequest{Query: question}
	if *withContext {
		results, err := searchFn(&models.SearchQuery{Query: question, Limit: *limit})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed, asking without context: %v\n", err)
		} else {
			req.Context, err = contextFromResults(results)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Encode context failed: %v\n", err)
				os.Exit(1)
			}
		}
	}
	answer, err := chatFn(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Chat failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteAnswer(os.Stdout, answer, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// contextFromResults encodes ranked results as a chat context array.
func contextFromResults(resp *models.SearchResponse) (json.RawMessage, error) {
	items := make([]models.ContextItem, 0, len(resp.Results))
	for _, r := range resp.Results {
		items = append(items, models.ContextItem{Title: r.Title, Content: r.Content})
	}
	return json.Marshal(items)
}

// postJSON posts body to url and decodes a 200 response into out. Error
// responses are reported with their error and message fields.
func postJSON(url string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	client := &http.Client{Timeout: httpClientTimeout}
	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out interface{}) error {
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		var e models.ErrorResponse
		if json.Unmarshal(b, &e) == nil && e.Error != "" {
			if e.Message != "" {
				return fmt.Errorf("server returned %d: %s: %s", resp.StatusCode, e.Error, e.Message)
			}
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, e.Error)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func runImport() {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	paths := fs.Args()
	cfg, _, logger := setup(*configPath, false)
	defer logger.Sync()
	if len(paths) == 0 {
		paths = cfg.Seed.Directories
	}
	if len(paths) == 0 {
		fmt.Println("Usage: moyu import [flags] <file-or-directory>...")
		os.Exit(1)
	}

	store, err := storage.NewSQLiteStorage(cfg.Store.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()
	importer := seed.NewImporter(store, seed.WithLogger(logger))

	ctx := context.Background()
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to stat path: %v\n", err)
			os.Exit(1)
		}
		if info.IsDir() {
			files, units, err := importer.ImportDirectory(ctx, path, cfg.Seed.Extensions, cfg.Seed.RecursiveOrDefault())
			if err != nil {
				fmt.Fprintf(os.Stderr, "Importing directory failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Imported %d unit(s) from %d file(s) in %s\n", units, files, path)
			continue
		}
		// Single file: no extension filter
		n, err := importer.ImportFile(ctx, path, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Import failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Imported %d unit(s) from %s\n", n, path)
	}
	fmt.Printf("Store: %s\n", store.Path())
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = inspect the record source directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var status server.StatusResponse
	if *serverURL != "" {
		client := &http.Client{Timeout: httpClientTimeout}
		resp, err := client.Get(*serverURL + "/api/status")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if err := decodeResponse(resp, &status); err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg, _, logger := setup(*configPath, false)
		defer logger.Sync()
		status, err = directStatus(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
	}

	if format == cli.OutputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}
	writeStatusText(os.Stdout, &status)
}

func directStatus(cfg *config.Config, logger *zap.Logger) (server.StatusResponse, error) {
	components, err := initializeComponents(context.Background(), cfg, logger, nil)
	if err != nil {
		return server.StatusResponse{}, err
	}
	defer components.Close()

	ranker := components.Engine.Ranker()
	status := server.StatusResponse{
		Version:        version,
		Store:          components.Source.Kind(),
		KeywordEntries: ranker.TableSize(),
		Rules:          ranker.RuleNames(),
		Providers:      components.Providers,
	}
	if counter, ok := components.Source.(storage.Counter); ok {
		n, err := counter.CountUnits(context.Background())
		if err != nil {
			return status, err
		}
		status.Units = &n
	}
	if sized, ok := components.Source.(storage.DiskSizer); ok {
		if n, err := sized.DiskUsageBytes(); err == nil {
			status.DiskUsageBytes = &n
		}
	}
	return status, nil
}

func writeStatusText(w io.Writer, s *server.StatusResponse) {
	if s.Version != "" {
		fmt.Fprintf(w, "version:            %s\n", s.Version)
	}
	fmt.Fprintf(w, "store:              %s\n", s.Store)
	if s.Units != nil {
		fmt.Fprintf(w, "units:              %d   # knowledge units in the store\n", *s.Units)
	}
	fmt.Fprintf(w, "keyword_entries:    %d   # association table entries\n", s.KeywordEntries)
	fmt.Fprintf(w, "rules:              %s\n", strings.Join(s.Rules, ", "))
	fmt.Fprintf(w, "providers:          %s\n", strings.Join(s.Providers, ", "))
	if len(s.SeedDirs) > 0 {
		fmt.Fprintf(w, "seed_directories:   %s\n", strings.Join(s.SeedDirs, ", "))
	}
	if s.DiskUsageBytes != nil {
		fmt.Fprintf(w, "disk_usage_bytes:   %d\n", *s.DiskUsageBytes)
	}
}

// Components holds initialized services.
type Components struct {
	Source    storage.Source
	Engine    *search.Engine
	Chat      *chat.Service
	Importer  *seed.Importer // nil unless the source accepts seeded units
	Providers []string
}

func (c *Components) Close() {
	if c.Source != nil {
		_ = c.Source.Close()
	}
}

func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (*Components, error) {
	source, err := storage.NewSource(&cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize record source: %w", err)
	}

	ranker := ranking.NewRanker(&cfg.Search.Ranking)
	engine := search.NewEngine(source, ranker, &cfg.Search,
		search.WithLogger(logger),
		search.WithMetrics(m),
		search.WithFetchTimeout(time.Duration(cfg.Store.TimeoutSec)*time.Second),
	)

	chain, err := llm.NewFromConfig(ctx, &cfg.LLM, logger, m)
	if err != nil {
		_ = source.Close()
		return nil, fmt.Errorf("failed to initialize generation providers: %w", err)
	}
	if len(chain.Providers()) == 0 {
		logger.Warn("no generation provider has an API key; /api/chat will fail")
	}
	chatSvc := chat.NewService(chain, time.Duration(cfg.LLM.TimeoutSec)*time.Second, logger)

	components := &Components{
		Source:    source,
		Engine:    engine,
		Chat:      chatSvc,
		Providers: chain.Providers(),
	}
	if w, ok := source.(storage.Writer); ok {
		components.Importer = seed.NewImporter(w, seed.WithLogger(logger))
	}
	return components, nil
}

func printUsage() {
	fmt.Println(`moyu - Breastfeeding knowledge search and companion chat

Usage:
  moyu server [flags]              Start the HTTP server
  moyu search [flags] <query>      Search the knowledge base
  moyu ask [flags] <question>      Ask the companion a question
  moyu import [flags] <path>...    Import seed files into the SQLite store
  moyu status [flags]              Show store, ranking and provider status
  moyu version                     Show version
  moyu help                        Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/moyu/config.yaml)
  --debug            Enable debug logging

Search Flags:
  --config string    Config file path (for direct store mode)
  --server string    Server URL (default: http://localhost:8080). Use --server "" to query the record source directly.
  --category string  Restrict results to a category id
  --limit int        Number of results (default from config)
  --explain          Include score breakdowns
  --output string    Output format: text or json (default: text)

Ask Flags:
  --server string    Server URL (default: http://localhost:8080). Use --server "" to call providers directly.
  --context          Search first and pass the top results as context (default: true)
  --limit int        Number of context results (default: 3)
  --output string    Output format: text or json (default: text)

Import Flags:
  --config string    Config file path. Without paths, imports seed.directories.

Status Flags:
  --config string    Config file path (for direct mode)
  --server string    Server URL (default: http://localhost:8080). Use --server "" for direct mode.
  --output string    Output format: text or json (default: text)

Examples:
  moyu server
  moyu import ./seed
  moyu search 젖몸살
  moyu search --output json --explain 열
  moyu ask "아기가 젖을 안 물어요"
  moyu status --output json`)
}
