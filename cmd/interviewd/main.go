// Entry point for the interviewd HTTP service: chi router, SQLite store,
// room hub, session registry, exporter, optional MCP stdio surface.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/meetkit/interviewd/config"
	"github.com/meetkit/interviewd/export"
	"github.com/meetkit/interviewd/gateway"
	"github.com/meetkit/interviewd/internal/store"
	"github.com/meetkit/interviewd/realtime"
	"github.com/meetkit/interviewd/session"
	"github.com/meetkit/interviewd/shield"
)

func main() {
	cfg, err := config.LoadFile(os.Getenv("CONFIG_PATH"))
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	// Environment overrides the file.
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
	cfg.Database.Path = env("DB_PATH", cfg.Database.Path)
	cfg.Media.Dir = env("MEDIA_DIR", cfg.Media.Dir)
	cfg.Upload.Endpoint = env("UPLOAD_ENDPOINT", cfg.Upload.Endpoint)
	cfg.LogLevel = env("LOG_LEVEL", cfg.LogLevel)
	if raw := os.Getenv("MAX_CHUNK_SIZE"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil && v > 0 {
			cfg.Media.MaxChunkSize = v
		}
	}
	mcpTransport := env("MCP_TRANSPORT", "")

	// Logging.
	var lvl slog.Level
	switch cfg.LogLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		slog.Error("open store", "path", cfg.Database.Path, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	var uploader export.Uploader
	if cfg.Upload.Endpoint != "" {
		uploader = export.NewHTTPUploader(cfg.Upload.Endpoint, cfg.Upload.Timeout, logger)
	}

	hub := realtime.NewHub(logger)
	sessions := session.NewRegistry(st)
	exporter := export.NewExporter(logger, cfg.Media.Dir, uploader)
	svc := gateway.NewService(logger, st, hub, sessions, exporter, cfg.Media.MaxChunkSize)

	// Optional MCP stdio surface for agent access to the read-only tools.
	if mcpTransport == "stdio" {
		mcpSrv := mcp.NewServer(&mcp.Implementation{
			Name:    "interviewd",
			Version: "1.0.0",
		}, nil)
		svc.RegisterMCP(mcpSrv)
		go func() {
			if err := mcpSrv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
				slog.Error("MCP stdio", "error", err)
			}
		}()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(shield.SecurityHeaders(shield.DefaultHeaders()))
	r.Use(shield.MaxJSONBody(1 << 20))
	r.Use(shield.RequestLog)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	svc.RegisterHTTP(r)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("interviewd listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
