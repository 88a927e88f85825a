package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/islaguezul/portfolio-backend/internal/domain"
	"github.com/islaguezul/portfolio-backend/internal/observability/metrics"
)

// Resolution strategies for a detected conflict.
const (
	ResolutionSkip      = "skip"
	ResolutionReplace   = "replace"
	ResolutionCreateNew = "create-new"
)

// Actions reported in copy responses and notifications.
const (
	ActionCreated     = "created"
	ActionReplaced    = "replaced"
	ActionSkipped     = "skipped"
	ActionFieldCopied = "field-copied"
	ActionAllCopied   = "all-copied"
)

const copyLockTTL = 10 * time.Second

// CopyLocker guards against concurrent copies of the same source into
// the same tenant. Implementations are expected to be short-TTL.
type CopyLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// CopyRequest is one cross-tenant copy invocation. Target is the acting
// tenant; the source is always its opposite.
type CopyRequest struct {
	EntityType     string
	EntityID       int
	Resolution     string // empty means create-new
	TargetEntityID int    // required for replace; missing falls back to create-new
	Field          string // personal only: copy a single field
	Target         domain.Tenant
}

// CopyResult is what a successful copy reports back.
type CopyResult struct {
	Entity       domain.Entity
	Action       string
	EntityName   string
	Field        string
	SourceTenant domain.Tenant
}

// ConflictCheck is the pre-copy preview the admin UI renders before
// asking for a resolution. Match carries the target row with children
// loaded.
type ConflictCheck struct {
	Conflict bool
	Source   domain.Entity
	Match    domain.Entity
}

// CopyService orchestrates the cross-tenant conflict-resolution copy
// protocol over the adapter registry.
type CopyService struct {
	adapters map[string]EntityAdapter
	personal domain.PersonalInfoRepository
	notifier domain.Notifier
	copyLog  domain.CopyLogRepository
	locker   CopyLocker
	logger   *slog.Logger
}

// NewCopyService creates the copy service. locker may be nil, in which
// case concurrent same-pair copies are not guarded (the historical
// behavior).
func NewCopyService(
	adapters []EntityAdapter,
	personal domain.PersonalInfoRepository,
	notifier domain.Notifier,
	copyLog domain.CopyLogRepository,
	locker CopyLocker,
	logger *slog.Logger,
) *CopyService {
	registry := make(map[string]EntityAdapter, len(adapters))
	for _, a := range adapters {
		registry[a.Kind()] = a
	}
	return &CopyService{
		adapters: registry,
		personal: personal,
		notifier: notifier,
		copyLog:  copyLog,
		locker:   locker,
		logger:   logger,
	}
}

// Copy runs one copy request end to end: read source from the opposite
// tenant, branch on the resolution strategy, write the target tenant,
// then record and notify best-effort.
func (s *CopyService) Copy(ctx context.Context, req CopyRequest) (*CopyResult, error) {
	start := time.Now()
	result, err := s.copy(ctx, req)
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.ObserveCopy(req.EntityType, outcome, time.Since(start))
	return result, err
}

func (s *CopyService) copy(ctx context.Context, req CopyRequest) (*CopyResult, error) {
	if req.EntityType == KindPersonal {
		return s.copyPersonal(ctx, req)
	}

	adapter, ok := s.adapters[req.EntityType]
	if !ok {
		return nil, fmt.Errorf("unknown entity type %q: %w", req.EntityType, domain.ErrBadRequest)
	}

	// A skip resolves the conflict by doing nothing; no store access.
	if req.Resolution == ResolutionSkip {
		return &CopyResult{Action: ActionSkipped, SourceTenant: req.Target.Opposite()}, nil
	}

	source := req.Target.Opposite()
	src, err := adapter.FetchSource(ctx, source, req.EntityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("source %s not found: %w", req.EntityType, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load source %s: %w", req.EntityType, err)
	}
	entityName := src.EntityName()

	release, err := s.acquireLock(ctx, req)
	if err != nil {
		return nil, err
	}
	defer release()

	var written domain.Entity
	action := ActionCreated
	if req.Resolution == ResolutionReplace && req.TargetEntityID > 0 {
		written, err = adapter.ReplaceInPlace(ctx, req.TargetEntityID, src, req.Target)
		action = ActionReplaced
	} else {
		// create-new, and the documented fallback for replace without
		// a target id.
		written, err = adapter.CopyDeep(ctx, src, req.Target)
	}
	if err != nil {
		return nil, err
	}
	if written == nil {
		return nil, fmt.Errorf("failed to copy entity: %w", domain.ErrCopyFailed)
	}

	s.recordAndNotify(ctx, req.EntityType, action, entityName, source, req.Target)

	return &CopyResult{
		Entity:       written,
		Action:       action,
		EntityName:   entityName,
		SourceTenant: source,
	}, nil
}

// copyPersonal is the singleton sub-protocol: no skip, no create-new,
// always an upsert against the target tenant.
func (s *CopyService) copyPersonal(ctx context.Context, req CopyRequest) (*CopyResult, error) {
	source := req.Target.Opposite()

	src, err := s.personal.Get(ctx, source)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("source personal info not found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load source personal info: %w", err)
	}

	target, err := s.personal.Get(ctx, req.Target)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to load target personal info: %w", err)
	}

	if req.Field != "" {
		srcRef, ok := src.FieldRef(req.Field)
		if !ok {
			return nil, fmt.Errorf("field %q not found in source: %w", req.Field, domain.ErrNotFound)
		}
		merged := target
		if merged == nil {
			merged = src.Clone()
			merged.ID = 0
		} else {
			merged = target.Clone()
		}
		merged.Tenant = req.Target
		dstRef, _ := merged.FieldRef(req.Field)
		*dstRef = *srcRef
		if err := s.personal.Upsert(ctx, merged); err != nil {
			return nil, fmt.Errorf("failed to copy field: %w", err)
		}
		return &CopyResult{
			Entity:       merged,
			Action:       ActionFieldCopied,
			EntityName:   merged.Name,
			Field:        req.Field,
			SourceTenant: source,
		}, nil
	}

	merged := target
	if merged == nil {
		merged = &domain.PersonalInfo{}
	} else {
		merged = target.Clone()
	}
	merged.Tenant = req.Target
	merged.CopyFieldsFrom(src)
	if err := s.personal.Upsert(ctx, merged); err != nil {
		return nil, fmt.Errorf("failed to copy personal info: %w", err)
	}

	s.recordAndNotify(ctx, KindPersonal, "updated", merged.Name, source, req.Target)

	return &CopyResult{
		Entity:       merged,
		Action:       ActionAllCopied,
		EntityName:   merged.Name,
		SourceTenant: source,
	}, nil
}

// CheckConflict looks up the target-tenant match for a source entity so
// the UI can present resolution choices. A lookup failure reads as "no
// conflict".
func (s *CopyService) CheckConflict(ctx context.Context, entityType string, entityID int, target domain.Tenant) (*ConflictCheck, error) {
	if entityType == KindPersonal {
		return nil, fmt.Errorf("conflict check is not supported for personal info: %w", domain.ErrBadRequest)
	}
	adapter, ok := s.adapters[entityType]
	if !ok {
		return nil, fmt.Errorf("unknown entity type %q: %w", entityType, domain.ErrBadRequest)
	}

	src, err := adapter.FetchSource(ctx, target.Opposite(), entityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("source %s not found: %w", entityType, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load source %s: %w", entityType, err)
	}

	match := adapter.FindConflict(ctx, src, target)
	metrics.ObserveConflictCheck(entityType, match != nil)
	return &ConflictCheck{Conflict: match != nil, Source: src, Match: match}, nil
}

// acquireLock takes the optional same-pair copy lock. Lock store
// failures log and fail open: the copy must not block on the guard.
func (s *CopyService) acquireLock(ctx context.Context, req CopyRequest) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	key := fmt.Sprintf("copy:lock:%s:%d:%s", req.EntityType, req.EntityID, req.Target)
	acquired, err := s.locker.Acquire(ctx, key, copyLockTTL)
	if err != nil {
		s.logger.Warn("copy lock unavailable, proceeding without guard",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return func() {}, nil
	}
	if !acquired {
		return nil, fmt.Errorf("copy of %s %d already running: %w", req.EntityType, req.EntityID, domain.ErrCopyInFlight)
	}
	return func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), key); err != nil {
			s.logger.Warn("failed to release copy lock", slog.String("key", key), slog.String("error", err.Error()))
		}
	}, nil
}

// recordAndNotify persists the history record and publishes the change
// notification. Both are best-effort; the copy has already committed.
func (s *CopyService) recordAndNotify(ctx context.Context, entityType, action, entityName string, source, target domain.Tenant) {
	if s.copyLog != nil {
		rec := &domain.CopyRecord{
			EntityType:   entityType,
			EntityName:   entityName,
			Action:       action,
			SourceTenant: source,
			TargetTenant: target,
			CopiedAt:     time.Now(),
		}
		if err := s.copyLog.Record(ctx, rec); err != nil {
			s.logger.Warn("failed to record copy history",
				slog.String("entity_type", entityType),
				slog.String("error", err.Error()),
			)
		}
	}

	if s.notifier == nil {
		return
	}
	update := domain.ContentUpdate{
		EntityType:      entityType,
		Action:          action,
		EntityName:      entityName,
		CrossTenantCopy: true,
		SourceTenant:    source,
		TargetTenant:    target,
		Timestamp:       time.Now(),
	}
	if err := s.notifier.Publish(ctx, update); err != nil {
		metrics.ObserveNotification("error")
		s.logger.Warn("content update notification failed",
			slog.String("entity_type", entityType),
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
		return
	}
	metrics.ObserveNotification("success")
}
