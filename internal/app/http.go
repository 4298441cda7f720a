package app

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"social-login/internal/auth/handler"
	"social-login/internal/auth/manager"
	"social-login/internal/config"
	"social-login/internal/metrics"
	"social-login/internal/middleware"
	"social-login/internal/session"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {
	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	router, err := newRouter(ctx, cfg, infra.Sessions)
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}
	return router, infra.Close, nil
}

func newRouter(ctx context.Context, cfg config.Config, store session.Store) (*gin.Engine, error) {
	// ----------------------------
	// Dependencies
	// ----------------------------

	registry, err := setupProviders(ctx, cfg)
	if err != nil {
		return nil, err
	}

	signer, err := session.NewSigner(cfg.SessionSecret)
	if err != nil {
		return nil, err
	}

	authManager, err := manager.New(manager.Options{
		Registry:        registry,
		Store:           store,
		Signer:          signer,
		Cookie:          session.CookieOptions{Secure: cfg.CookieSecure},
		SessionTTL:      cfg.SessionTTL,
		ProviderTimeout: cfg.ProviderTimeout,
	})
	if err != nil {
		return nil, err
	}

	authHandler := handler.NewHandler(authManager, cfg.CookieSecure)

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics.InitMetrics(promRegistry)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(),
		middleware.Metrics(),
	)

	authHandler.RegisterRoutes(router)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{})))

	return router, nil
}
