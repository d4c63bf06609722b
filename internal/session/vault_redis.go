package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/telar-erp/telar-admin/internal/identity"
)

const (
	redisTokenKey   = "telaradmin:session:token"
	redisProfileKey = "telaradmin:session:profile"
)

// RedisVault persists the two session records in Redis, for consoles that
// follow the operator across workstations. Both keys are written in one
// pipelined transaction and deleted in one call, so a credential is never
// observable without its profile or vice versa.
type RedisVault struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisVault constructs a vault on the given client. A zero ttl keeps
// records until logout.
func NewRedisVault(client *redis.Client, ttl time.Duration) *RedisVault {
	return &RedisVault{client: client, ttl: ttl}
}

// Save writes token and profile atomically.
func (v *RedisVault) Save(ctx context.Context, token string, id *identity.Identity) error {
	if token == "" {
		return errors.New("session: empty token")
	}
	profile, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("session: encode identity: %w", err)
	}
	_, err = v.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisTokenKey, token, v.ttl)
		pipe.Set(ctx, redisProfileKey, profile, v.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("session: persist: %w", err)
	}
	return nil
}

// Load reads both records. A missing token means no session. A profile that
// is missing or does not parse yields a snapshot with a nil identity; the
// resolver re-fetches the profile from the backend in that case.
func (v *RedisVault) Load(ctx context.Context) (Snapshot, error) {
	token, err := v.client.Get(ctx, redisTokenKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, ErrNoSession
		}
		return Snapshot{}, fmt.Errorf("session: read token: %w", err)
	}
	if token == "" {
		return Snapshot{}, ErrNoSession
	}
	snap := Snapshot{Token: token}
	profile, err := v.client.Get(ctx, redisProfileKey).Bytes()
	if err != nil {
		return snap, nil
	}
	var id identity.Identity
	if err := json.Unmarshal(profile, &id); err == nil {
		id.Token = token
		snap.Identity = &id
	}
	return snap, nil
}

// Clear deletes both records together. Idempotent.
func (v *RedisVault) Clear(ctx context.Context) error {
	if err := v.client.Del(ctx, redisTokenKey, redisProfileKey).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}
