package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/goodtune/tollfee/internal/config"
	"github.com/goodtune/tollfee/internal/storage"
	"github.com/redis/go-redis/v9"
)

// Store implements the storage.Store interface using Redis
type Store struct {
	client       *redis.Client
	passageStore *passageStore
	chargeStore  *chargeStore
}

// Open creates a new Redis-backed storage instance. Keys written through the
// store expire after ttl; a zero ttl keeps them until DeleteBefore removes them.
func Open(cfg config.RedisConfig, ttl time.Duration) (*Store, error) {
	// Parse timeouts
	dialTimeout, err := time.ParseDuration(cfg.DialTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid dial_timeout: %w", err)
	}

	readTimeout, err := time.ParseDuration(cfg.ReadTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid read_timeout: %w", err)
	}

	writeTimeout, err := time.ParseDuration(cfg.WriteTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid write_timeout: %w", err)
	}

	// Determine address
	addr := cfg.Host
	if cfg.Port > 0 {
		addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  dialTimeout,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	})

	// Ping to verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttlSeconds := int64(ttl / time.Second)

	return &Store{
		client:       client,
		passageStore: &passageStore{client: client, ttl: ttlSeconds},
		chargeStore:  &chargeStore{client: client, ttl: ttlSeconds},
	}, nil
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

// Passages returns the PassageStore implementation
func (s *Store) Passages() storage.PassageStore {
	return s.passageStore
}

// Charges returns the ChargeStore implementation
func (s *Store) Charges() storage.ChargeStore {
	return s.chargeStore
}

// Key layout. Dates are "2006-01-02" local days and plates are normalised.
const keyPrefix = "tollfee"

func passageKey(id string) string {
	return fmt.Sprintf("%s:passage:%s", keyPrefix, id)
}

func dayPassagesKey(date, plate string) string {
	return fmt.Sprintf("%s:passages:%s:%s", keyPrefix, date, plate)
}

func dayVehiclesKey(date string) string {
	return fmt.Sprintf("%s:vehicles:%s", keyPrefix, date)
}

func chargeKey(date, plate string) string {
	return fmt.Sprintf("%s:charge:%s:%s", keyPrefix, date, plate)
}

func dayChargesKey(date string) string {
	return fmt.Sprintf("%s:charges:%s", keyPrefix, date)
}

// daysKey indexes every date that has passages or charges, for pruning.
const daysKey = keyPrefix + ":days"
