package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mkoval/newsfuse/internal/cluster"
	"github.com/mkoval/newsfuse/internal/config"
	"github.com/mkoval/newsfuse/internal/feed"
	"github.com/mkoval/newsfuse/internal/feedcache"
	"github.com/mkoval/newsfuse/internal/logger"
	"github.com/mkoval/newsfuse/internal/models"
	"github.com/mkoval/newsfuse/internal/sources"
)

func main() {
	log := logger.New("api")
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	srcCfg, err := sources.LoadConfig(cfg.SourcesPath)
	if err != nil {
		log.Error("load sources config", slog.Any("err", err))
		os.Exit(1)
	}

	adapters, err := sources.NewRegistry().Build(srcCfg, &http.Client{Timeout: cfg.FetchTimeout})
	if err != nil {
		log.Error("build adapters", slog.Any("err", err))
		os.Exit(1)
	}

	store, err := feedcache.OpenSQLite(cfg.CachePath)
	if err != nil {
		log.Error("open feed cache", slog.Any("err", err))
		os.Exit(1)
	}
	defer store.Close()

	svc := feed.New(adapters, store, feed.Config{
		CacheTTL:     cfg.CacheTTL,
		FetchTimeout: cfg.FetchTimeout,
		Cluster: cluster.Config{
			SimilarityThreshold: cfg.SimilarityThreshold,
			MinTokenLength:      cfg.MinTokenLength,
		},
		Ranks:       srcCfg.CategoryRanks,
		DefaultRank: srcCfg.DefaultRank,
	}, log)

	srv := &server{log: log, cfg: cfg, svc: svc}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", srv.handleHealth)
	r.Get("/feed", srv.handleFeed)
	r.Get("/stats", srv.handleStats)

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.FetchTimeout + 10*time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		log.Info("api server starting",
			slog.String("addr", cfg.BindAddr), slog.Int("providers", len(adapters)))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}

type server struct {
	log *slog.Logger
	cfg *config.API
	svc *feed.Service
}

type errorResponse struct {
	Error string `json:"error"`
}

type feedResponse struct {
	Count    int                      `json:"count"`
	Entities []models.FusedNewsEntity `json:"entities"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleFeed(w http.ResponseWriter, r *http.Request) {
	// The assembler may have to wait out the slowest provider.
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.FetchTimeout+5*time.Second)
	defer cancel()

	limit := clampInt(r.URL.Query().Get("limit"), s.cfg.FeedLimit, s.cfg.MaxLimit)
	refresh := parseBool(r.URL.Query().Get("refresh"))

	entities, err := s.svc.GetFeed(ctx, feed.Options{Limit: limit, BypassCache: refresh})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, feedResponse{Count: len(entities), Entities: entities})
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Stats())
}

func parseBool(raw string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return value
}

func clampInt(raw string, fallback, max int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	if value <= 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// nothing better to do
	}
}
