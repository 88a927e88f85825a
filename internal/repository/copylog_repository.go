package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/islaguezul/portfolio-backend/internal/domain"
)

// copyRecordTTL bounds how long history entries are kept.
const copyRecordTTL = 30 * 24 * time.Hour

// RedisCopyLogRepository implements domain.CopyLogRepository using
// Redis: one JSON value per record plus a per-tenant set index.
type RedisCopyLogRepository struct {
	client *redis.Client
}

// NewRedisCopyLogRepository creates a new copy log repository
func NewRedisCopyLogRepository(client *redis.Client) *RedisCopyLogRepository {
	return &RedisCopyLogRepository{client: client}
}

// Record saves a completed copy
func (r *RedisCopyLogRepository) Record(ctx context.Context, rec *domain.CopyRecord) error {
	if rec.ID == "" {
		rec.ID = generateRecordID()
	}
	if rec.CopiedAt.IsZero() {
		rec.CopiedAt = time.Now()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal copy record: %w", err)
	}

	key := fmt.Sprintf("copyrecord:%s", rec.ID)
	if err := r.client.Set(ctx, key, data, copyRecordTTL).Err(); err != nil {
		return fmt.Errorf("failed to store copy record: %w", err)
	}

	indexKey := fmt.Sprintf("tenant_copies:%s", rec.TargetTenant)
	if err := r.client.SAdd(ctx, indexKey, rec.ID).Err(); err != nil {
		return fmt.Errorf("failed to index copy record: %w", err)
	}
	return nil
}

// ListRecent returns up to limit records for a target tenant, newest
// first. Records whose value has expired are pruned from the index.
func (r *RedisCopyLogRepository) ListRecent(ctx context.Context, tenant domain.Tenant, limit int) ([]*domain.CopyRecord, error) {
	indexKey := fmt.Sprintf("tenant_copies:%s", tenant)
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list copy records: %w", err)
	}

	var out []*domain.CopyRecord
	for _, id := range ids {
		data, err := r.client.Get(ctx, fmt.Sprintf("copyrecord:%s", id)).Result()
		if err != nil {
			// Value expired; drop the dangling index entry.
			_ = r.client.SRem(ctx, indexKey, id).Err()
			continue
		}
		rec := &domain.CopyRecord{}
		if err := json.Unmarshal([]byte(data), rec); err != nil {
			continue
		}
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CopiedAt.After(out[j].CopiedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func generateRecordID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}
	return fmt.Sprintf("rec-%d", time.Now().UnixNano())
}
