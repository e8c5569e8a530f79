package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gameoflife/config"
	"gameoflife/internal/httpapi"
	"gameoflife/internal/repository"
	"gameoflife/internal/store"

	"github.com/redis/go-redis/v9"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownGrace     = 10 * time.Second
	localTierMaxCost  = 64 * 1024 * 1024
)

func main() {
	var (
		configPath = flag.String("config", "", "path to an optional YAML config file")
		addr       = flag.String("addr", "", "listen address, overrides config/PORT when set")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	listenAddr := *addr
	if listenAddr == "" {
		listenAddr = ":" + cfg.Port
	}

	repo, err := buildRepository(cfg)
	if err != nil {
		log.Fatalf("build repository: %v", err)
	}

	router := httpapi.Router(repo, cfg.MaxAttemptsCeiling)
	server := &http.Server{
		Addr:              listenAddr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErrs := make(chan error, 1)
	go func() {
		log.Printf("gameoflife listening on %s", listenAddr)
		serverErrs <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrs:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	case <-ctx.Done():
		log.Println("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("graceful shutdown failed: %v", err)
		}
	}
}

// buildRepository wires the durable backend, shared cache, and optional
// local tier into a single board repository, per the three-tier storage
// layout named in the config's MONGO_URI/REDIS_ADDR settings.
func buildRepository(cfg *config.Config) (*repository.BoardRepository, error) {
	durable, err := store.NewMongoStore(cfg.MongoURI, cfg.Database)
	if err != nil {
		return nil, err
	}

	var redisClient *redis.Client
	if cfg.RedisURI != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
	}
	shared := store.NewRedisCache(redisClient)

	localTier, err := store.NewLocalTier(shared, localTierMaxCost)
	if err != nil {
		return nil, err
	}

	ttls := repository.TTLs{
		Current:    cfg.CacheTTLCurrent,
		Generation: cfg.CacheTTLGeneration,
		Final:      cfg.CacheTTLFinal,
	}

	return repository.New(durable, localTier, ttls), nil
}
