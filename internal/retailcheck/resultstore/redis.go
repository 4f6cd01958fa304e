// Package resultstore shares composed retail-check results across processes.
// The in-process TTL cache stays authoritative; this store only lets a warm
// result skip the provider fan-out on another instance.
package resultstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"forecourt/internal/retailcheck"
)

const keyPrefix = "retailcheck:result:"

// Redis stores composed results as JSON with redis-side expiry.
type Redis struct {
	client redis.Cmdable
}

func NewRedis(client redis.Cmdable) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) (*retailcheck.Result, bool, error) {
	raw, err := r.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("result store get: %w", err)
	}

	var result retailcheck.Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, false, fmt.Errorf("result store decode: %w", err)
	}
	return &result, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, result *retailcheck.Result, ttl time.Duration) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("result store encode: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("result store set: %w", err)
	}
	return nil
}
