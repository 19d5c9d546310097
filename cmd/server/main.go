package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aerofare-service/internal/infrastructure/config"
	"aerofare-service/internal/infrastructure/persistence"
	gormRepo "aerofare-service/internal/interface/repository"
	"aerofare-service/internal/interface/rest"
	"aerofare-service/internal/interface/scraper"
	"aerofare-service/internal/usecase"
	"aerofare-service/pkg/logger"
	"aerofare-service/pkg/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Aerofare Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up PostgreSQL connection
	log.Info("Connecting to PostgreSQL")
	db, err := persistence.NewPostgresDB(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	// Set up repositories
	runRepo := gormRepo.NewGormRunRepository(db)
	quoteRepo := gormRepo.NewGormQuoteRepository(db)
	summaryRepo := gormRepo.NewGormSummaryRepository(db)
	notifRepo := gormRepo.NewGormNotificationRepository(db)
	settingRepo := gormRepo.NewGormSettingRepository(db)

	// Set up core services
	m := metrics.NewMetrics("aerofare")
	tracker := usecase.NewProgressTracker()
	sources := scraper.NewSourceSet(log)
	aggregator := usecase.NewAggregator(quoteRepo, summaryRepo, notifRepo, log)
	scrapeService := usecase.NewScrapeService(
		runRepo, quoteRepo, notifRepo,
		sources, aggregator, tracker,
		m, log, cfg.ScrapeDelay,
	)
	settingsService := usecase.NewSettingsService(
		settingRepo, cfg.ScheduleTime, cfg.DefaultEndDate, cfg.CitilinkToken, log,
	)

	routes := make([]usecase.RoutePair, 0, len(cfg.Routes))
	for _, r := range cfg.Routes {
		routes = append(routes, usecase.RoutePair{Origin: r.Origin, Destination: r.Destination})
	}

	scheduler, err := usecase.NewScrapeScheduler(scrapeService, settingsService, routes, cfg.Timezone, log)
	if err != nil {
		log.Fatal("Failed to create scheduler", "error", err)
	}
	if err := scheduler.Start(ctx); err != nil {
		log.Fatal("Failed to start scheduler", "error", err)
	}

	// Set up HTTP server
	router := mux.NewRouter()
	handler := rest.NewHandler(scrapeService, tracker, scheduler, settingsService, notifRepo, log)
	handler.Register(router)

	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	scheduler.Stop()
	cancel() // Cancel the context to stop all goroutines

	log.Info("Aerofare Service stopped")
}
