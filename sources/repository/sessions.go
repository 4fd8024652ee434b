package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"chatwarden/sources/configuration"
	"chatwarden/sources/menu"
	"chatwarden/sources/platform"
	"chatwarden/sources/tracing"

	"github.com/redis/go-redis/v9"
)

const sessionKeyFormat = "alias_flow:%s"

// SessionsRepository backs menu.FlowStore with Redis so an abandoned
// capture flow evaporates on its own instead of wedging the surface.
type SessionsRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionsRepository(config *configuration.Config, rdb *redis.Client) *SessionsRepository {
	ttl := config.Menu.SessionTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &SessionsRepository{rdb: rdb, ttl: ttl}
}

func (x *SessionsRepository) Get(logger *tracing.Logger, surface string) (*menu.FlowState, error) {
	ctx, cancel := platform.ContextTimeout(context.Background())
	defer cancel()

	raw, err := x.rdb.Get(ctx, fmt.Sprintf(sessionKeyFormat, surface)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		logger.E("Failed to load flow session", tracing.SurfaceId, surface, tracing.InnerError, err)
		return nil, err
	}

	var state menu.FlowState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		logger.E("Failed to decode flow session", tracing.SurfaceId, surface, tracing.InnerError, err)
		return nil, err
	}
	return &state, nil
}

func (x *SessionsRepository) Put(logger *tracing.Logger, surface string, state *menu.FlowState) error {
	ctx, cancel := platform.ContextTimeout(context.Background())
	defer cancel()

	raw, err := json.Marshal(state)
	if err != nil {
		logger.E("Failed to encode flow session", tracing.SurfaceId, surface, tracing.InnerError, err)
		return err
	}

	if err := x.rdb.Set(ctx, fmt.Sprintf(sessionKeyFormat, surface), raw, x.ttl).Err(); err != nil {
		logger.E("Failed to store flow session", tracing.SurfaceId, surface, tracing.InnerError, err)
		return err
	}
	return nil
}

func (x *SessionsRepository) Clear(logger *tracing.Logger, surface string) error {
	ctx, cancel := platform.ContextTimeout(context.Background())
	defer cancel()

	if err := x.rdb.Del(ctx, fmt.Sprintf(sessionKeyFormat, surface)).Err(); err != nil {
		logger.E("Failed to clear flow session", tracing.SurfaceId, surface, tracing.InnerError, err)
		return err
	}
	return nil
}
