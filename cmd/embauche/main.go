// CLAUDE:SUMMARY CLI entry point for embauche: HN job scraping served over stdio, HTTP or QUIC MCP.
// Command embauche scrapes HackerNews "Who is hiring?" threads and serves
// the postings to MCP clients.
//
// Usage:
//
//	embauche                                # MCP over stdio (default)
//	embauche -transport http -addr :8085    # MCP over streamable HTTP
//	embauche -transport quic -addr :9444    # MCP over QUIC
//	embauche -search "python"               # search and exit
//	embauche -refresh                       # force a scrape and exit
//	embauche -stats                         # show cache stats and exit
package main

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/embauche"
	"github.com/hazyhaar/embauche/mcpquic"
	"github.com/hazyhaar/embauche/shield"
)

type options struct {
	configPath  string
	transport   string
	addr        string
	cacheDir    string
	threadID    string
	searchQuery string
	refresh     bool
	showStats   bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to embauche.yaml config file")
	flag.StringVar(&opts.transport, "transport", "stdio", "MCP transport: stdio, http, quic")
	flag.StringVar(&opts.addr, "addr", "", "listen address (http/quic transports)")
	flag.StringVar(&opts.cacheDir, "cache-dir", "", "override cache directory")
	flag.StringVar(&opts.threadID, "thread", "", "override HN thread ID")
	flag.StringVar(&opts.searchQuery, "search", "", "search query (exit after results)")
	flag.BoolVar(&opts.refresh, "refresh", false, "force a scrape and exit")
	flag.BoolVar(&opts.showStats, "stats", false, "show cache stats and exit")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	// Logs go to stderr: stdout is the protocol channel in stdio mode.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, opts); err != nil {
		logger.Error("embauche: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, opts options) error {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	svc, err := embauche.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer svc.Close()

	// One-shot: search.
	if opts.searchQuery != "" {
		jobs, err := svc.SearchJobs(ctx, opts.searchQuery)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		return writeJSON(jobs)
	}

	// One-shot: refresh.
	if opts.refresh {
		n, err := svc.Refresh(ctx)
		if err != nil {
			return fmt.Errorf("refresh: %w", err)
		}
		return writeJSON(map[string]int{"postings": n})
	}

	// One-shot: stats.
	if opts.showStats {
		stats, err := svc.Stats(ctx)
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}
		return writeJSON(stats)
	}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "hn-job-scraper",
		Version: "1.0.0",
	}, nil)
	svc.RegisterMCP(srv)

	switch opts.transport {
	case "stdio":
		return serveStdio(ctx, logger, srv)
	case "http":
		return serveHTTP(ctx, logger, srv, opts.addr)
	case "quic":
		return serveQUIC(ctx, logger, srv, opts.addr)
	default:
		return fmt.Errorf("unknown transport %q", opts.transport)
	}
}

func resolveConfig(opts options) (*embauche.Config, error) {
	cfg := &embauche.Config{}
	if opts.configPath != "" {
		loaded, err := embauche.LoadConfigFile(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if opts.threadID != "" {
		cfg.ThreadID = opts.threadID
	}
	if opts.cacheDir != "" {
		cfg.Cache.Dir = opts.cacheDir
	}
	return cfg, nil
}

func serveStdio(ctx context.Context, logger *slog.Logger, srv *mcp.Server) error {
	logger.Info("MCP stdio serving")
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func serveHTTP(ctx context.Context, logger *slog.Logger, mcpSrv *mcp.Server, addr string) error {
	if addr == "" {
		addr = ":8085"
	}

	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return mcpSrv }, nil)

	r := chi.NewRouter()
	for _, mw := range shield.DefaultStack() {
		r.Use(mw)
	}
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/mcp", handler)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("MCP HTTP serving", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func serveQUIC(ctx context.Context, logger *slog.Logger, mcpSrv *mcp.Server, addr string) error {
	if addr == "" {
		addr = ":9444"
	}

	certFile := env("TLS_CERT", "")
	keyFile := env("TLS_KEY", "")

	var tlsCfg *tls.Config
	var err error
	if certFile != "" && keyFile != "" {
		tlsCfg, err = mcpquic.ServerTLSConfig(certFile, keyFile)
	} else {
		logger.Warn("TLS_CERT/TLS_KEY not set, using a self-signed certificate")
		tlsCfg, err = mcpquic.SelfSignedTLSConfig()
	}
	if err != nil {
		return fmt.Errorf("quic tls: %w", err)
	}

	l, err := mcpquic.NewListener(addr, tlsCfg, mcpSrv, logger)
	if err != nil {
		return fmt.Errorf("quic listen: %w", err)
	}
	defer l.Close()

	logger.Info("MCP QUIC serving", "addr", addr)
	if err := l.Serve(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
