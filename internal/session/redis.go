package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Michael-Zapivahin/fish-market-bot/internal/config"
	"github.com/Michael-Zapivahin/fish-market-bot/internal/logger"
)

const (
	statePrefix    = "state_"
	emailPrefix    = "email_"
	customerPrefix = "customer_"
)

// RedisStore is the durable Store implementation shared across restarts.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis, verifies connectivity, and returns the store.
func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		DB:       cfg.DB,
		Password: cfg.Password,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Error(ctx, "session", "redis.connect",
			slog.String("status", "fail"),
			slog.String("host", cfg.Host),
			slog.Int("port", cfg.Port),
			slog.Int("db", cfg.DB),
			slog.String("err", err.Error()),
		)
		_ = client.Close()
		return nil, fmt.Errorf("session: redis connect: %w", err)
	}
	logger.Info(ctx, "session", "redis.connect",
		slog.String("status", "ok"),
		slog.String("host", cfg.Host),
		slog.Int("port", cfg.Port),
		slog.Int("db", cfg.DB),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)

	return &RedisStore{client: client}, nil
}

// GetState returns the stored conversation state for a chat.
func (s *RedisStore) GetState(ctx context.Context, chatID int64) (State, error) {
	val, err := s.client.Get(ctx, stateKey(chatID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("session: get state: %w", err)
	}
	return State(val), nil
}

// SetState persists the conversation state for a chat. Sessions carry no TTL.
func (s *RedisStore) SetState(ctx context.Context, chatID int64, st State) error {
	if err := s.client.Set(ctx, stateKey(chatID), string(st), 0).Err(); err != nil {
		return fmt.Errorf("session: set state: %w", err)
	}
	return nil
}

// SetEmail stores the pending checkout email for a chat.
func (s *RedisStore) SetEmail(ctx context.Context, chatID int64, email string) error {
	if err := s.client.Set(ctx, emailKey(chatID), email, 0).Err(); err != nil {
		return fmt.Errorf("session: set email: %w", err)
	}
	return nil
}

// Email returns the pending checkout email for a chat.
func (s *RedisStore) Email(ctx context.Context, chatID int64) (string, error) {
	val, err := s.client.Get(ctx, emailKey(chatID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("session: get email: %w", err)
	}
	return val, nil
}

// SetCustomerID stores the CMS customer id created or reused at checkout.
func (s *RedisStore) SetCustomerID(ctx context.Context, chatID int64, customerID int64) error {
	if err := s.client.Set(ctx, customerKey(chatID), customerID, 0).Err(); err != nil {
		return fmt.Errorf("session: set customer: %w", err)
	}
	return nil
}

// CustomerID returns the stored CMS customer id for a chat.
func (s *RedisStore) CustomerID(ctx context.Context, chatID int64) (int64, error) {
	val, err := s.client.Get(ctx, customerKey(chatID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("session: get customer: %w", err)
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("session: parse customer id %q: %w", val, err)
	}
	return id, nil
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func stateKey(chatID int64) string {
	return statePrefix + strconv.FormatInt(chatID, 10)
}

func emailKey(chatID int64) string {
	return emailPrefix + strconv.FormatInt(chatID, 10)
}

func customerKey(chatID int64) string {
	return customerPrefix + strconv.FormatInt(chatID, 10)
}
