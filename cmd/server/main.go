package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/restaurant-menu/internal/catalog"
	"github.com/Lixing-Zhang/restaurant-menu/internal/config"
	"github.com/Lixing-Zhang/restaurant-menu/internal/handlers"
	"github.com/Lixing-Zhang/restaurant-menu/internal/importer"
	"github.com/Lixing-Zhang/restaurant-menu/internal/metrics"
	"github.com/Lixing-Zhang/restaurant-menu/internal/middleware"
	"github.com/Lixing-Zhang/restaurant-menu/internal/repository"
	"github.com/Lixing-Zhang/restaurant-menu/internal/service"
	"github.com/Lixing-Zhang/restaurant-menu/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting restaurant menu server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	menu := catalog.New()
	if !cfg.Menu.SkipDefault {
		menu = catalog.Default()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	menuRepo := repository.NewInMemoryMenuRepositoryFrom(menu)
	menuService := service.NewMenuService(menuRepo, log, m)

	ctx := context.Background()
	if len(cfg.Menu.SeedFiles) > 0 {
		log.Info("loading menu files...", "sources", len(cfg.Menu.SeedFiles))

		products, err := importer.NewLoader().Load(ctx, cfg.Menu.SeedFiles)
		if err != nil {
			log.Error("failed to load menu files", "error", err)
			os.Exit(1)
		}
		if err := menuService.AddProducts(ctx, products...); err != nil {
			log.Error("failed to add imported products", "error", err)
			os.Exit(1)
		}
		log.Info("menu files loaded", "products", len(products))
	}
	if products, err := menuService.ListProducts(ctx); err == nil {
		m.SetProducts(len(products))
	}

	healthHandler := handlers.NewHealthHandler(menuService, log)
	menuHandler := handlers.NewMenuHandler(menuService, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(middleware.CORS())

	r.Get("/health", healthHandler.ServeHTTP)
	r.Get("/menu", menuHandler.ShowMenu)
	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/product", menuHandler.ListProducts)
		r.Get("/product/search", menuHandler.SearchProducts)
		r.Get("/product/export.xlsx", menuHandler.ExportProducts)

		// Menu changes require an API key
		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(cfg.Auth))
			r.Post("/product", menuHandler.AddProduct)
			r.Delete("/product", menuHandler.RemoveProducts)
			r.Post("/product/sort", menuHandler.SortProducts)
		})
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
