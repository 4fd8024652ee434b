package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"chatwarden/sources/configuration"
	"chatwarden/sources/platform"
	"chatwarden/sources/tracing"

	"github.com/redis/go-redis/v9"
)

const historyKeyFormat = "menu_history:%s"

// NavigationRepository backs menu.HistoryStore with Redis. Stacks expire
// after the history TTL, which doubles as a stale-menu cleanup.
type NavigationRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewNavigationRepository(config *configuration.Config, rdb *redis.Client) *NavigationRepository {
	ttl := config.Menu.HistoryTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &NavigationRepository{rdb: rdb, ttl: ttl}
}

func (x *NavigationRepository) Get(logger *tracing.Logger, surface string) ([]string, error) {
	ctx, cancel := platform.ContextTimeout(context.Background())
	defer cancel()

	raw, err := x.rdb.Get(ctx, fmt.Sprintf(historyKeyFormat, surface)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		logger.E("Failed to load navigation history", tracing.SurfaceId, surface, tracing.InnerError, err)
		return nil, err
	}

	var stack []string
	if err := json.Unmarshal([]byte(raw), &stack); err != nil {
		logger.E("Failed to decode navigation history", tracing.SurfaceId, surface, tracing.InnerError, err)
		return nil, err
	}
	return stack, nil
}

func (x *NavigationRepository) Put(logger *tracing.Logger, surface string, stack []string) error {
	ctx, cancel := platform.ContextTimeout(context.Background())
	defer cancel()

	raw, err := json.Marshal(stack)
	if err != nil {
		logger.E("Failed to encode navigation history", tracing.SurfaceId, surface, tracing.InnerError, err)
		return err
	}

	if err := x.rdb.Set(ctx, fmt.Sprintf(historyKeyFormat, surface), raw, x.ttl).Err(); err != nil {
		logger.E("Failed to store navigation history", tracing.SurfaceId, surface, tracing.InnerError, err)
		return err
	}
	return nil
}

func (x *NavigationRepository) Clear(logger *tracing.Logger, surface string) error {
	ctx, cancel := platform.ContextTimeout(context.Background())
	defer cancel()

	if err := x.rdb.Del(ctx, fmt.Sprintf(historyKeyFormat, surface)).Err(); err != nil {
		logger.E("Failed to clear navigation history", tracing.SurfaceId, surface, tracing.InnerError, err)
		return err
	}
	return nil
}
