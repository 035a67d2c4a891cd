package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var ErrMiss = errors.New("cache miss")

type IRedis interface {
	SetProbe(ctx context.Context, key string, value string, expiration time.Duration) error
	GetProbe(ctx context.Context, key string) (string, error)
	DeleteProbe(ctx context.Context, key string) error
	Close() error
}

type Config struct {
	Address  string
	Password string
	DB       int
}

type redisClient struct {
	client *redis.Client
}

// New connects to Redis. An empty address yields a cache that never hits.
func New(cfg Config) IRedis {
	if cfg.Address == "" {
		logrus.Info("Redis address not set, probe cache disabled")
		return noopCache{}
	}

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", cfg.Address))

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func (r *redisClient) SetProbe(ctx context.Context, key string, value string, expiration time.Duration) error {
	logrus.Debug(fmt.Sprintf("Caching probe result for key %s with expiration %v", key, expiration))
	err := r.client.Set(ctx, key, value, expiration).Err()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error caching probe result for key %s: %v", key, err))
		return err
	}
	return nil
}

func (r *redisClient) GetProbe(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		logrus.Debug(fmt.Sprintf("Probe result not cached for key %s", key))
		return "", ErrMiss
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error reading probe result for key %s: %v", key, err))
		return "", err
	}
	logrus.Debug(fmt.Sprintf("Probe cache hit for key %s", key))
	return val, nil
}

func (r *redisClient) DeleteProbe(ctx context.Context, key string) error {
	result, err := r.client.Del(ctx, key).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error deleting probe result for key %s: %v", key, err))
		return err
	}

	if result == 0 {
		logrus.Debug(fmt.Sprintf("Probe key %s not found for deletion", key))
	}
	return nil
}

func (r *redisClient) Close() error {
	return r.client.Close()
}

type noopCache struct{}

func (noopCache) SetProbe(context.Context, string, string, time.Duration) error { return nil }
func (noopCache) GetProbe(context.Context, string) (string, error) { return "", ErrMiss }
func (noopCache) DeleteProbe(context.Context, string) error { return nil }
func (noopCache) Close() error { return nil }
