package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/primecutstudio/outreach/internal/catalog"
	"github.com/primecutstudio/outreach/internal/config"
	"github.com/primecutstudio/outreach/internal/database"
	"github.com/primecutstudio/outreach/internal/handler"
	middlewarepkg "github.com/primecutstudio/outreach/internal/middleware"
	"github.com/primecutstudio/outreach/internal/pipeline"
	"github.com/primecutstudio/outreach/internal/repository"
	"github.com/primecutstudio/outreach/internal/router"
	"github.com/primecutstudio/outreach/internal/search"
	"github.com/primecutstudio/outreach/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	cat, err := catalog.Load()
	if err != nil {
		log.Fatalf("failed to load catalog: %v", err)
	}

	var auditRepo repository.AuditRepository
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			log.Fatalf("failed to connect database: %v", err)
		}
		defer pool.Close()
		auditRepo = repository.NewPGXAuditRepository(pool)
	} else {
		log.Printf("DATABASE_URL not set, search history disabled")
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	searcher := search.NewClient(httpClient, cfg.SearchBaseURL, cfg.SearchAPIKey)
	composer := pipeline.NewComposer(cat)
	pipe := pipeline.New(cat, searcher, composer)
	recorder := service.NewAuditRecorder(auditRepo)

	discoverHandler := handler.NewDiscoverHandler(pipe, recorder)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())

	router.Register(e, cfg, router.Handlers{Discover: discoverHandler})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
