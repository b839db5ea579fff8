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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/eventplanner/config"
	"github.com/oksasatya/eventplanner/internal/auth"
	"github.com/oksasatya/eventplanner/internal/container"
	"github.com/oksasatya/eventplanner/internal/infrastructure/broker"
	"github.com/oksasatya/eventplanner/internal/infrastructure/search"
	"github.com/oksasatya/eventplanner/internal/infrastructure/storage"
	"github.com/oksasatya/eventplanner/internal/interface/middleware"
	"github.com/oksasatya/eventplanner/internal/router"
	"github.com/oksasatya/eventplanner/pkg/helpers"
	"github.com/oksasatya/eventplanner/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	stores, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer stores.Close()

	c := &container.Container{
		Config: cfg,
		Logger: logger,
		JWT:    auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL, cfg.JWTIssuer),
		Users:  stores.Users,
		Events: stores.Events,
		Store:  stores,
	}

	// Redis (rate limiting); the API runs without limits when it is unreachable
	if cfg.RateLimitEnabled {
		rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			helpers.LogWarn(logger, "redis unavailable, rate limiting disabled", err, nil)
		} else {
			c.Redis = rdb
			defer func(rdb *redis.Client) { _ = rdb.Close() }(rdb)
		}
	}

	// Elasticsearch
	if cfg.SearchEnabled {
		if idx := initSearch(ctx, cfg, logger); idx != nil {
			c.Search = idx
		}
	}

	// RabbitMQ notifications
	if cfg.NotifyEnabled {
		pub, err := broker.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQNotifyQueue)
		if err != nil {
			helpers.LogWarn(logger, "rabbitmq unavailable, notifications disabled", err, nil)
		} else {
			c.Publisher = pub
			defer pub.Close()
		}
	}

	// Gin engine and global middleware
	r := gin.New()
	// forwarded headers only count when the socket peer is a listed proxy
	if err := r.SetTrustedProxies(cfg.TrustedProxyList()); err != nil {
		logger.Fatalf("invalid TRUSTED_PROXIES: %v", err)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	// CORS
	corsCfg := cors.Config{
		AllowOrigins:  cfg.CORSOrigins(),
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	// soft per-IP ceiling for the whole API; health probes and private callers skip it
	reg.Use(middleware.RateLimit(c.Redis, logger, 300, time.Minute, middleware.KeyByIP(),
		middleware.AnyOf(middleware.AllowPaths(router.APIPrefix+"/health"), middleware.AllowPrivateIP())))
	router.InitModules(reg, c)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s (store=%s)", cfg.Port, cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
		return
	}
	logger.Info("server exited properly")
}

func initSearch(ctx context.Context, cfg *config.Config, logger *logrus.Logger) *search.EventIndex {
	es, err := search.NewClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		helpers.LogWarn(logger, "elasticsearch client init failed, search disabled", err, nil)
		return nil
	}
	idx := search.NewEventIndex(es, cfg.ESEventsIndex)
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := idx.EnsureIndex(c); err != nil {
		helpers.LogWarn(logger, "elasticsearch unavailable, search disabled", err, nil)
		return nil
	}
	return idx
}
