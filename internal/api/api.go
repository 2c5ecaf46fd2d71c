package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	api_utils "github.com/ethanbaker/api/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	cards_module "github.com/ethanbaker/cardbot/internal/api/modules/cards"
	health_module "github.com/ethanbaker/cardbot/internal/api/modules/health"
	"github.com/ethanbaker/cardbot/pkg/logger"
	"github.com/ethanbaker/cardbot/pkg/utils"
)

// NewEngine builds the gin engine with every module registered
func NewEngine(cfg *utils.Config, resolver cards_module.Resolver) (*gin.Engine, error) {
	log := logger.WithModule("api")

	// Add app level settings/routes
	engine := gin.New()
	engine.Use(requestID(), requestLogger(log), gin.Recovery())
	engine.NoRoute(api_utils.NoRouteHandler)

	// Add trusted proxies
	if err := engine.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	// Add CORS using gin-contrib/cors (https://github.com/gin-contrib/cors for documentation)
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.GetWithDefault("CORS_ALLOWED_ORIGINS", "*"), ","),
		AllowMethods:     []string{"OPTIONS", "GET"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-API-KEY", requestIDHeader},
		ExposeHeaders:    []string{"Content-Length", requestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Prometheus scrape endpoint
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Base group '/api' for all API routes
	baseGroup := engine.Group("/api")

	// Adding custom modules
	health_module.RegisterRoutes(baseGroup)

	if err := cards_module.RegisterRoutes(baseGroup, cfg); err != nil {
		return nil, fmt.Errorf("failed to register cards module: %w", err)
	}
	cards_module.Init(resolver)

	return engine, nil
}

// Start serves the API until ctx is cancelled, then shuts down gracefully
func Start(ctx context.Context, cfg *utils.Config, resolver cards_module.Resolver) error {
	log := logger.WithModule("api")

	// Initialized configuration settings
	port := cfg.GetWithDefault("API_PORT", "8080")

	engine, err := NewEngine(cfg, resolver)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting API server", zap.String("port", port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
