package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rpattn/metacat/internal/domain"
)

// RedisConfig holds Redis-specific configuration.
type RedisConfig struct {
	// Addr is the Redis server address (host:port)
	Addr string
	// Password is the Redis password (optional)
	Password string
	// DB is the Redis database number
	DB int
}

// DefaultRedisConfig returns a default Redis configuration.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:     "localhost:6379",
		Password: "",
		DB:       0,
	}
}

// Redis stores each collection document under metacat:<location>:<collection>.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Redis-backed adapter and verifies the connection.
func NewRedis(config RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &Redis{client: client}, nil
}

// NewRedisWithClient creates an adapter around an existing client.
func NewRedisWithClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func redisKey(location string, c domain.Collection) string {
	return fmt.Sprintf("metacat:%s:%s", location, string(c))
}

func (r *Redis) Exists(ctx context.Context, location string) (bool, error) {
	keys := make([]string, 0, len(domain.Collections))
	for _, c := range domain.Collections {
		keys = append(keys, redisKey(location, c))
	}
	count, err := r.client.Exists(ctx, keys...).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check location: %w", err)
	}
	return count > 0, nil
}

func (r *Redis) Create(ctx context.Context, location string) error {
	exists, err := r.Exists(ctx, location)
	if err != nil {
		return err
	}
	if exists {
		return alreadyExists(location)
	}
	for _, c := range createCollections {
		if err := r.client.Set(ctx, redisKey(location, c), emptyDocument(c), 0).Err(); err != nil {
			return fmt.Errorf("failed to create %s: %w", c, err)
		}
	}
	return nil
}

func (r *Redis) Read(ctx context.Context, location string, c domain.Collection) ([]byte, error) {
	if err := checkCollection(c); err != nil {
		return nil, err
	}
	doc, err := r.client.Get(ctx, redisKey(location, c)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s in %q", ErrNotFound, c, location)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c, err)
	}
	return doc, nil
}

func (r *Redis) Write(ctx context.Context, location string, c domain.Collection, doc []byte) error {
	if err := checkCollection(c); err != nil {
		return err
	}
	if err := r.client.Set(ctx, redisKey(location, c), doc, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", c, err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
