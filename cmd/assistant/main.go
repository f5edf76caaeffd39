// Avenue assistant entry point: the conversational support backend for
// the Avenue job portal.
package main

import (
	"context"
	"flag"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/avenue-assistant/internal/guard"
	"github.com/avenue-assistant/internal/persist"
	"github.com/avenue-assistant/internal/publish"
	"github.com/avenue-assistant/internal/resolve"
	"github.com/avenue-assistant/internal/server"
	"github.com/avenue-assistant/internal/session"
	"github.com/avenue-assistant/internal/knowledge"
)

type config struct {
	Port               string `yaml:"port"`
	SnapshotPath       string `yaml:"snapshot_path"`
	PersistBackend     string `yaml:"persist_backend"` // "file" or "redis"
	RedisAddr          string `yaml:"redis_addr"`
	NATSURL            string `yaml:"nats_url"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`
}

func loadConfig(path string, logger *zap.Logger) config {
	cfg := config{
		Port:               getEnv("PORT", "4000"),
		SnapshotPath:       getEnv("SNAPSHOT_PATH", "data/sessions.json"),
		PersistBackend:     getEnv("PERSIST_BACKEND", "file"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		NATSURL:            getEnv("NATS_URL", ""),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", guard.DefaultPerMinute),
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Fatal("failed to read config file", zap.String("path", path), zap.Error(err))
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			logger.Fatal("failed to parse config file", zap.String("path", path), zap.Error(err))
		}
	}
	return cfg
}

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	logger.Info("starting avenue assistant")

	cfg := loadConfig(*configPath, logger)

	// Shared Redis client for rate limiting and the optional snapshot
	// backend.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis unreachable, continuing without it", zap.Error(err))
			redisClient = nil
		}
	}

	store := session.NewStore(logger)

	var backend persist.Backend
	if cfg.PersistBackend == "redis" && redisClient != nil {
		backend = persist.NewRedisBackend(redisClient, logger)
	} else {
		backend = persist.NewFileBackend(cfg.SnapshotPath, logger)
	}
	manager := persist.NewManager(store, backend, logger)
	manager.Load(context.Background())

	cache, err := resolve.NewAnswerCache(logger)
	if err != nil {
		logger.Fatal("failed to create answer cache", zap.Error(err))
	}
	defer cache.Close()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	resolver := resolve.NewResolver(
		resolve.NewFAQMatcher(knowledge.FAQ),
		resolve.NewRouter(),
		resolve.NewFallback(rng),
		cache,
		logger,
	)

	limiter := guard.NewRateLimiter(redisClient, cfg.RateLimitPerMinute, logger)

	var publisher *publish.Publisher
	if cfg.NATSURL != "" {
		publisher, err = publish.Connect(cfg.NATSURL, logger)
		if err != nil {
			logger.Warn("nats unreachable, transcript publishing disabled", zap.Error(err))
			publisher = nil
		}
	}
	defer publisher.Close()

	srv := server.New(store, resolver, limiter, publisher, server.DefaultConfig(), rng, logger)

	// Background sweeps: 5-minute persistence flush and daily reaping,
	// each cancelled independently at shutdown.
	bgCtx, cancelBg := context.WithCancel(context.Background())
	go manager.Run(bgCtx)
	go session.NewReaper(store, logger).Run(bgCtx)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("http server starting", zap.String("port", cfg.Port))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	httpServer.Shutdown(shutdownCtx)

	cancelBg()

	// Final synchronous flush before exit.
	manager.Save(shutdownCtx)

	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("shutdown complete")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
