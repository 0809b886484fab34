package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/username/kabufolio/src/config"
	"github.com/username/kabufolio/src/handlers"
	"github.com/username/kabufolio/src/ledger"
	"github.com/username/kabufolio/src/logger"
	"github.com/username/kabufolio/src/processors"
	"github.com/username/kabufolio/src/services"
	"github.com/username/kabufolio/src/storage"
	"github.com/username/kabufolio/src/weights"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000": true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Kabufolio backend server starting...")

	logger.L.Info("Initializing storage...", "path", config.Cfg.DatabasePath)
	store, err := storage.OpenSQLite(config.Cfg.DatabasePath)
	if err != nil {
		logger.L.Error("Failed to open storage", "error", err)
		stdlog.Fatalf("Failed to open storage: %v", err)
	}
	defer store.Close()
	logger.L.Info("Storage initialized successfully.")

	weightLookup, err := weights.LoadFileLookup(config.Cfg.WeightDataPath)
	if err != nil {
		logger.L.Error("Failed to load weight data, exposure falls back to unclassified buckets", "error", err)
		weightLookup = weights.Empty()
	}

	logger.L.Info("Initializing report cache...")
	reportCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)

	logger.L.Info("Initializing services and handlers...")
	txLedger := ledger.New(store)
	positionProcessor := processors.NewPositionProcessor()
	exposureProcessor := processors.NewExposureProcessor(weightLookup)
	acceptanceChecker := processors.NewAcceptanceChecker(config.Cfg.BaseCurrency)

	importService := services.NewImportService(
		txLedger, positionProcessor, exposureProcessor, acceptanceChecker, reportCache,
	)

	importHandler := handlers.NewImportHandler(importService)
	txHandler := handlers.NewTransactionHandler(importService)
	portfolioHandler := handlers.NewPortfolioHandler(importService)

	logger.L.Info("Configuring routes...")
	router := chi.NewRouter()
	router.Use(handlers.RequestLogging)

	router.Route("/api", func(r chi.Router) {
		r.Post("/import", importHandler.HandleImport)
		r.Get("/transactions", txHandler.HandleGetTransactions)
		r.Get("/positions", portfolioHandler.HandleGetPositions)
		r.Get("/exposure", portfolioHandler.HandleGetExposure)
	})

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Kabufolio backend is running"})
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(router))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
