package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/telar-erp/telar-admin/internal/app"
	"github.com/telar-erp/telar-admin/internal/erp"
	"github.com/telar-erp/telar-admin/internal/platform/cache"
	"github.com/telar-erp/telar-admin/internal/resolver"
	"github.com/telar-erp/telar-admin/internal/session"
)

// runtime bundles the pieces every command needs: config, logging, the
// session store over its configured vault, and the ERP client.
type runtime struct {
	cfg      *app.Config
	logger   *slog.Logger
	store    *session.Store
	erp      *erp.Client
	resolver *resolver.Resolver
	redis    *redis.Client
}

func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := app.NewLogger(cfg)

	var (
		vault       session.Vault
		redisClient *redis.Client
	)
	switch cfg.SessionBackend {
	case "redis":
		redisClient, err = cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		vault = session.NewRedisVault(redisClient, cfg.SessionTTL)
	default:
		vault, err = session.NewFileVault(cfg.SessionDir, cfg.SessionSecret)
		if err != nil {
			return nil, err
		}
	}

	store := session.NewStore(vault, logger)
	client, err := erp.NewClient(cfg.ERPBaseURL, store, logger, cfg.ERPTimeout)
	if err != nil {
		return nil, err
	}

	return &runtime{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		erp:      client,
		resolver: resolver.New(store, client, logger, cfg.ResolveTimeout),
		redis:    redisClient,
	}, nil
}

func (rt *runtime) close() {
	if rt.redis != nil {
		_ = rt.redis.Close()
	}
}
