package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/animora/vetassist/internal/config"
	"github.com/animora/vetassist/internal/db"
	dbRedis "github.com/animora/vetassist/internal/db/redis"
	logpkg "github.com/animora/vetassist/internal/logger"
	"github.com/animora/vetassist/internal/metrics"
	diseaserepo "github.com/animora/vetassist/internal/repository/disease"
	sessionrepo "github.com/animora/vetassist/internal/repository/session"
	snapshotrepo "github.com/animora/vetassist/internal/repository/snapshot"
	chiTransport "github.com/animora/vetassist/internal/transport/chi"
	openaiTransport "github.com/animora/vetassist/internal/transport/openai"
	websearchTransport "github.com/animora/vetassist/internal/transport/websearch"
	chatuc "github.com/animora/vetassist/internal/usecase/chat"
	healthuc "github.com/animora/vetassist/internal/usecase/health"
	lookupuc "github.com/animora/vetassist/internal/usecase/lookup"
	visionuc "github.com/animora/vetassist/internal/usecase/vision"
	websearchuc "github.com/animora/vetassist/internal/usecase/websearch"
	"github.com/animora/vetassist/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting vetassist API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()
	metrics.RegisterHTTPMetrics()

	ctx := context.Background()

	// Primary knowledge store. No addresses means snapshot-only mode: the
	// bundled record file serves every lookup and admin routes answer 503.
	var store db.Store
	if len(cfg.Database.Addrs) > 0 {
		redisStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer redisStore.Close()

		readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
		if err := redisStore.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		store = redisStore
		logger.Info("Connected to database")
	} else {
		logger.Warn("No database configured, running in snapshot-only mode")
	}

	// Bundled snapshot is always available.
	snap, err := snapshotrepo.New()
	if err != nil {
		logger.Fatal("Failed to load disease snapshot", zap.Error(err))
	}
	logger.Info("Loaded disease snapshot", zap.Int("records", snap.Len()))

	// Pass nil interface (not typed nil pointer!) when no store is configured.
	// Go gotcha: (*diseaserepo.Repo)(nil) wrapped in an interface != nil.
	var diseaseRepo *diseaserepo.Repo
	var primary lookupuc.PrimaryStore
	if store != nil {
		diseaseRepo = diseaserepo.New(store, cfg.Database.KeyPrefix)
		primary = diseaseRepo
	}

	lookupSvc := lookupuc.New(primary, snap, cfg.Matching.FuzzyThreshold, metrics.KnowledgeLookupsTotal, logger)

	sessions := sessionrepo.New(
		time.Duration(cfg.Session.TTLMinutes)*time.Minute,
		cfg.Session.MaxTurns,
		metrics.SessionsActive,
	)
	go sweepSessions(ctx, sessions)

	// Generation provider. Every supported provider speaks the OpenAI
	// chat-completions API, so one transport covers groq, together,
	// ollama, and openai proper.
	provCfg := cfg.AIProvider()
	completer := openaiTransport.NewCompleter(&openaiTransport.Config{
		APIKey:   provCfg.APIKey,
		BaseURL:  provCfg.BaseURL,
		Model:    provCfg.Model,
		Provider: cfg.AI.Provider,
		Timeout:  time.Duration(cfg.AI.TimeoutSec) * time.Second,
		Logger:   logger,
	})
	logger.Info("Completion provider created",
		zap.String("provider", cfg.AI.Provider),
		zap.String("model", provCfg.Model),
	)

	visionDescriber := openaiTransport.NewVision(&openaiTransport.Config{
		APIKey:   cfg.Vision.APIKey,
		BaseURL:  cfg.Vision.BaseURL,
		Model:    cfg.Vision.Model,
		Provider: cfg.Vision.Provider,
		Timeout:  time.Duration(cfg.Vision.TimeoutSec) * time.Second,
		Logger:   logger,
	})

	// Web enrichment fan-out, optional.
	var searcher chatuc.WebSearcher
	if cfg.WebSearch.Enabled {
		hc := websearchTransport.NewHTTPClient(time.Duration(cfg.WebSearch.TimeoutSec) * time.Second)
		searcher = websearchuc.New(
			websearchTransport.NewDuckDuckGo(hc, cfg.WebSearch.DuckDuckGoURL),
			websearchTransport.NewWikipedia(hc, cfg.WebSearch.WikipediaURL),
			websearchTransport.NewPubMed(hc, cfg.WebSearch.PubMedURL),
			websearchTransport.NewSearXNG(hc, cfg.WebSearch.SearXNGInstance),
			cfg.WebSearch.SummaryMaxChars,
			metrics.WebSearchLegsTotal,
			logger,
		)
		logger.Info("Web search enabled")
	}

	chatSvc := chatuc.New(lookupSvc, searcher, sessions, completer, cfg.AI.MaxTokens, cfg.AI.HistoryWindow, logger)
	visionSvc := visionuc.New(visionDescriber, completer, lookupSvc, logger)

	var dbPinger healthuc.DBPinger
	if store != nil {
		dbPinger = store
	}
	healthSvc := healthuc.New(dbPinger, completer)

	var diseases chiTransport.DiseaseStore // stays nil in snapshot-only mode
	if diseaseRepo != nil {
		diseases = diseaseRepo
	}
	server := chiTransport.NewServer(chatSvc, visionSvc, healthSvc, diseases, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r, chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// sweepSessions periodically drops expired sessions. Append already sweeps
// lazily; the ticker keeps the active-sessions gauge honest during idle
// periods.
func sweepSessions(ctx context.Context, sessions *sessionrepo.Store) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions.Sweep()
		}
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"error": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
