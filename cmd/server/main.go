package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/macrotrack/internal/aggregator"
	"github.com/mmynk/macrotrack/internal/analysis"
	"github.com/mmynk/macrotrack/internal/auth"
	"github.com/mmynk/macrotrack/internal/calendar"
	"github.com/mmynk/macrotrack/internal/config"
	"github.com/mmynk/macrotrack/internal/grouping"
	"github.com/mmynk/macrotrack/internal/journal"
	"github.com/mmynk/macrotrack/internal/middleware"
	"github.com/mmynk/macrotrack/internal/service"
	"github.com/mmynk/macrotrack/internal/storage/sqlite"
	"github.com/mmynk/macrotrack/pkg/api/apiconnect"
	"github.com/mmynk/macrotrack/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	cal := calendar.New(cfg.Location)
	cache := aggregator.NewDayCache(cal)
	engine := grouping.NewEngine(store, cal, cache)
	agg := aggregator.New(store, cal, cache)

	var analyzer analysis.Analyzer
	if cfg.GeminiAPIKey != "" {
		analyzer = analysis.NewGeminiAnalyzer(analysis.GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			Timeout: cfg.AnalysisTimeout,
		})
		slog.Info("Meal analysis enabled", "model", cfg.GeminiModel)
	} else {
		slog.Warn("GEMINI_API_KEY not set, meal analysis disabled")
	}
	j := journal.New(store, store, engine, analyzer, cal, cache)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(registry)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, 30*time.Second)
	interceptors := connect.WithInterceptors(
		metrics.Interceptor(),
		middleware.LoggingInterceptor(),
		middleware.RequireAuth(jwtManager),
	)

	mux := http.NewServeMux()

	// Register Connect services
	mux.Handle(apiconnect.NewMealServiceHandler(service.NewMealService(j, engine, agg, store, cal), interceptors))
	mux.Handle(apiconnect.NewQuickItemServiceHandler(service.NewQuickItemService(store), interceptors))
	mux.Handle(apiconnect.NewProfileServiceHandler(service.NewProfileService(store), interceptors))

	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h2cHandler := h2c.NewHandler(corsMiddleware(mux), &http2.Server{})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2cHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("Connect server starting", "address", cfg.Addr(), "timezone", cfg.Location.String())
	if err := server.ListenAndServe(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
