package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hznasser/falconair/config"
	"github.com/hznasser/falconair/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL: flightsTTL,
	}
}

// GetFlights returns the cached search result for a route, or nil on miss.
func (c *RedisCache) GetFlights(ctx context.Context, departure, arrival, date string) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, routeKey(departure, arrival, date)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, departure, arrival, date string, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, routeKey(departure, arrival, date), payload, c.flightsTTL).Err()
}

// DenyToken records a logged-out token until it would have expired anyway.
func (c *RedisCache) DenyToken(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, denyKey(token), "revoked", ttl).Err()
}

func (c *RedisCache) IsTokenDenied(ctx context.Context, token string) (bool, error) {
	n, err := c.client.Exists(ctx, denyKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func routeKey(departure, arrival, date string) string {
	return fmt.Sprintf("cache:flights:%s:%s:%s", departure, arrival, date)
}

func denyKey(token string) string {
	return "auth:denied:" + token
}
