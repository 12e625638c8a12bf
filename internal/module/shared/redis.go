package shared

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/knadh/koanf/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const redisKeyPrefix = "coin-definitions:"

// RedisClient is optional: with an empty redis.url every call is a cache miss.
type RedisClient struct {
	Client  *redis.Client
	url     string
	options *redis.Options
	noCache bool
	logger  zerolog.Logger
}

func NewRedisClient(cfg *koanf.Koanf, logger zerolog.Logger) (*RedisClient, error) {
	url := cfg.String("redis.url")
	r := &RedisClient{
		url:     url,
		noCache: cfg.Bool("redis.disabled"),
		logger:  logger,
	}
	if url == "" {
		return r, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis.url: %w", err)
	}
	r.options = opts
	return r, nil
}

// Enabled reports whether a connection was opened and reads are allowed.
func (r *RedisClient) Enabled() bool {
	return r != nil && r.Client != nil && !r.noCache
}

func (r *RedisClient) Connect(ctx context.Context) error {
	if r.options == nil {
		return nil
	}
	r.Client = redis.NewClient(r.options)
	if _, err := r.Client.Ping(ctx).Result(); err != nil {
		r.logger.Warn().Err(err).Msg("Redis is unreachable, continuing without cache")
		r.Client.Close()
		r.Client = nil
		return nil
	}
	r.logger.Info().Msg("Connected to Redis succesfully!")
	return nil
}

func (r *RedisClient) Close() error {
	if r.Client == nil {
		return nil
	}
	return r.Client.Close()
}

// GetJSON decodes a cached value into v. It returns false on a miss or when the cache is disabled.
func (r *RedisClient) GetJSON(ctx context.Context, key string, v interface{}) bool {
	if !r.Enabled() {
		return false
	}

	cached, err := r.Client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn().Err(err).Msgf("failed to read %s from cache", key)
		}
		return false
	}
	if err := json.Unmarshal(cached, v); err != nil {
		r.logger.Warn().Err(err).Msgf("dropping undecodable cache entry %s", key)
		r.Client.Del(ctx, redisKeyPrefix+key)
		return false
	}
	return true
}

// SetJSON stores v for ttl. Writes still happen with --no-cache so the next run is warm.
func (r *RedisClient) SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if r == nil || r.Client == nil {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		r.logger.Warn().Err(err).Msgf("failed to encode %s for cache", key)
		return
	}
	if err := r.Client.Set(ctx, redisKeyPrefix+key, data, ttl).Err(); err != nil {
		r.logger.Warn().Err(err).Msgf("failed to write %s to cache", key)
	}
}
