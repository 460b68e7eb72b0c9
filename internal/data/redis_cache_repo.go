package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/drivelot/inventory-api/internal/domain/model"
)

// RedisCacheRepo implements the CacheRepository interface using Redis. The
// sync workers keep each owner's published listings cached here so search can
// serve a last-known-good snapshot while the database is unavailable.
type RedisCacheRepo struct {
	client redis.UniversalClient
}

// NewRedisCacheRepo creates a new RedisCacheRepo with the given Redis client.
func NewRedisCacheRepo(client redis.UniversalClient) *RedisCacheRepo {
	return &RedisCacheRepo{client: client}
}

func ownerListingsKey(ownerID string) string {
	return "listings:owner:" + ownerID
}

// StoreOwnerListings caches an owner's published listing snapshot.
func (r *RedisCacheRepo) StoreOwnerListings(
	ctx context.Context,
	ownerID string,
	listings []*model.Listing,
	ttl time.Duration,
) error {
	if ownerID == "" {
		return errors.New("owner id cannot be empty")
	}

	payload, err := json.Marshal(listings)
	if err != nil {
		return fmt.Errorf("marshal listings snapshot: %w", err)
	}
	return r.client.Set(ctx, ownerListingsKey(ownerID), payload, ttl).Err()
}

// GetOwnerListings returns the cached listing snapshot for an owner, or nil
// when no snapshot is cached.
func (r *RedisCacheRepo) GetOwnerListings(ctx context.Context, ownerID string) ([]*model.Listing, error) {
	if ownerID == "" {
		return nil, errors.New("owner id cannot be empty")
	}

	payload, err := r.client.Get(ctx, ownerListingsKey(ownerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var listings []*model.Listing
	if err := json.Unmarshal(payload, &listings); err != nil {
		return nil, fmt.Errorf("unmarshal listings snapshot: %w", err)
	}
	return listings, nil
}

// InvalidateOwnerListings drops the cached snapshot for an owner.
func (r *RedisCacheRepo) InvalidateOwnerListings(ctx context.Context, ownerID string) (bool, error) {
	if ownerID == "" {
		return false, errors.New("owner id cannot be empty")
	}

	deleted, err := r.client.Del(ctx, ownerListingsKey(ownerID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis del: %w", err)
	}
	return deleted > 0, nil
}

// Health checks the health of the Redis connection.
func (r *RedisCacheRepo) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// RedisConfig holds configuration for Redis connection.
type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// NewRedisClient creates a new Redis client with the given configuration.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
