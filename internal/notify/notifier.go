package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/islaguezul/portfolio-backend/internal/domain"
	"github.com/islaguezul/portfolio-backend/internal/infrastructure/redis"
	"github.com/islaguezul/portfolio-backend/internal/reliability/circuitbreaker"
	"github.com/islaguezul/portfolio-backend/internal/reliability/retry"
)

// Channel is the Redis pub/sub channel content updates go out on. The
// cache refresher and the websocket feed both subscribe to it.
const Channel = "content:updates"

// RedisNotifier publishes content updates over Redis pub/sub. Publish
// failures are retried with backoff; a broker that keeps failing trips
// the breaker so copies stop paying the retry cost.
type RedisNotifier struct {
	client  *redis.Client
	breaker *circuitbreaker.CircuitBreaker
	retry   *retry.Config
	logger  *slog.Logger
}

func NewRedisNotifier(client *redis.Client, logger *slog.Logger) *RedisNotifier {
	breaker := circuitbreaker.NewCircuitBreaker(5, 2, 30*time.Second)
	breaker.SetStateChangeCallback(func(from, to circuitbreaker.State) {
		logger.Warn("notifier circuit state changed",
			slog.Int("from", int(from)),
			slog.Int("to", int(to)),
		)
	})
	cfg := retry.DefaultConfig()
	cfg.MaxBackoff = 2 * time.Second
	return &RedisNotifier{
		client:  client,
		breaker: breaker,
		retry:   cfg,
		logger:  logger,
	}
}

// Publish implements domain.Notifier.
func (n *RedisNotifier) Publish(ctx context.Context, update domain.ContentUpdate) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal content update: %w", err)
	}

	return n.breaker.Do(ctx, func(ctx context.Context) error {
		_, err := retry.Do(ctx, n.retry, n.logger, "publish content update", func(ctx context.Context) (struct{}, error) {
			return struct{}{}, n.client.Publish(ctx, Channel, payload)
		})
		return err
	})
}
