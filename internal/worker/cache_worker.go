package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/islaguezul/portfolio-backend/internal/domain"
	"github.com/islaguezul/portfolio-backend/internal/infrastructure/redis"
	"github.com/islaguezul/portfolio-backend/internal/notify"
	"github.com/islaguezul/portfolio-backend/internal/service"
)

// CacheWorker keeps the public content cache warm. It re-primes both
// tenants on a fixed interval and immediately refreshes the affected
// tenant when a content-update event arrives.
type CacheWorker struct {
	content     *service.ContentService
	redisClient *redis.Client
	logger      *slog.Logger
	interval    time.Duration
}

func NewCacheWorker(
	content *service.ContentService,
	redisClient *redis.Client,
	logger *slog.Logger,
	interval time.Duration,
) *CacheWorker {
	return &CacheWorker{
		content:     content,
		redisClient: redisClient,
		logger:      logger,
		interval:    interval,
	}
}

// Start begins the refresh loop. It blocks until ctx is cancelled.
func (w *CacheWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("cache worker started", slog.Duration("interval", w.interval))

	var events <-chan *goredis.Message
	if w.redisClient != nil {
		pubsub := w.redisClient.Subscribe(ctx, notify.Channel)
		defer pubsub.Close()
		events = pubsub.Channel()
	}

	w.refreshAll(ctx, "worker")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("cache worker stopped")
			return
		case <-ticker.C:
			w.refreshAll(ctx, "worker")
		case msg, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			w.handleUpdate(ctx, msg.Payload)
		}
	}
}

func (w *CacheWorker) refreshAll(ctx context.Context, source string) {
	for _, tenant := range []domain.Tenant{domain.TenantInternal, domain.TenantExternal} {
		if _, err := w.content.Refresh(ctx, tenant, source); err != nil {
			w.logger.Error("cache refresh failed",
				slog.String("tenant", string(tenant)),
				slog.String("error", err.Error()),
			)
		}
	}
}

// handleUpdate refreshes the tenant a copy just wrote to.
func (w *CacheWorker) handleUpdate(ctx context.Context, payload string) {
	var update domain.ContentUpdate
	if err := json.Unmarshal([]byte(payload), &update); err != nil {
		w.logger.Warn("ignoring malformed content update", slog.String("error", err.Error()))
		return
	}

	w.content.Invalidate(update.TargetTenant)
	if _, err := w.content.Refresh(ctx, update.TargetTenant, "invalidation"); err != nil {
		w.logger.Error("cache refresh after update failed",
			slog.String("tenant", string(update.TargetTenant)),
			slog.String("error", err.Error()),
		)
		return
	}
	w.logger.Info("cache refreshed after content update",
		slog.String("tenant", string(update.TargetTenant)),
		slog.String("entity_type", update.EntityType),
		slog.String("action", update.Action),
	)
}
