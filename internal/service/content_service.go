package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/islaguezul/portfolio-backend/internal/domain"
	"github.com/islaguezul/portfolio-backend/internal/observability/metrics"
	"github.com/islaguezul/portfolio-backend/pkg/cache"
)

// SiteContent is the full public payload for one tenant's site.
type SiteContent struct {
	Personal          *domain.PersonalInfo         `json:"personal,omitempty"`
	Projects          []*domain.Project            `json:"projects"`
	Experience        []*domain.WorkExperience     `json:"experience"`
	Education         []*domain.Education          `json:"education"`
	TechStack         []*domain.TechStackItem      `json:"techStack"`
	Skills            []*domain.SkillCategory      `json:"skills"`
	ProcessStrategies []*domain.ProcessStrategy    `json:"processStrategies"`
	ExpertiseRadar    []*domain.ExpertiseRadarItem `json:"expertiseRadar"`
}

// ContentService serves the aggregated public content for a tenant,
// fronted by a TTL cache so the read path stays off the database.
type ContentService struct {
	personal   domain.PersonalInfoRepository
	projects   domain.ProjectRepository
	experience domain.ExperienceRepository
	education  domain.EducationRepository
	techStack  domain.TechStackRepository
	skills     domain.SkillCategoryRepository
	process    domain.ProcessStrategyRepository
	radar      domain.ExpertiseRadarRepository
	cache      *cache.Cache
	cacheTTL   time.Duration
	logger     *slog.Logger
}

func NewContentService(
	personal domain.PersonalInfoRepository,
	projects domain.ProjectRepository,
	experience domain.ExperienceRepository,
	education domain.EducationRepository,
	techStack domain.TechStackRepository,
	skills domain.SkillCategoryRepository,
	process domain.ProcessStrategyRepository,
	radar domain.ExpertiseRadarRepository,
	contentCache *cache.Cache,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *ContentService {
	return &ContentService{
		personal:   personal,
		projects:   projects,
		experience: experience,
		education:  education,
		techStack:  techStack,
		skills:     skills,
		process:    process,
		radar:      radar,
		cache:      contentCache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

func contentCacheKey(tenant domain.Tenant) string {
	return fmt.Sprintf("content:%s", tenant)
}

// Get returns the tenant's site content, from cache when fresh.
func (s *ContentService) Get(ctx context.Context, tenant domain.Tenant) (*SiteContent, error) {
	if cached, ok := s.cache.Get(contentCacheKey(tenant)); ok {
		return cached.(*SiteContent), nil
	}
	return s.Refresh(ctx, tenant, "request")
}

// Refresh rebuilds the tenant's content from the database and primes
// the cache. source labels the metrics: "request", "worker" or
// "invalidation".
func (s *ContentService) Refresh(ctx context.Context, tenant domain.Tenant, source string) (*SiteContent, error) {
	content, err := s.load(ctx, tenant)
	if err != nil {
		metrics.ObserveCacheRefresh(source, "error")
		return nil, err
	}
	s.cache.Set(contentCacheKey(tenant), content, s.cacheTTL)
	metrics.ObserveCacheRefresh(source, "success")
	return content, nil
}

// Invalidate drops the cached payload for a tenant.
func (s *ContentService) Invalidate(tenant domain.Tenant) {
	s.cache.Delete(contentCacheKey(tenant))
}

func (s *ContentService) load(ctx context.Context, tenant domain.Tenant) (*SiteContent, error) {
	content := &SiteContent{}

	personal, err := s.personal.Get(ctx, tenant)
	if err == nil {
		content.Personal = personal
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("failed to load personal info: %w", err)
	}

	if content.Projects, err = s.projects.List(ctx, tenant); err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	if content.Experience, err = s.experience.List(ctx, tenant); err != nil {
		return nil, fmt.Errorf("failed to load experience: %w", err)
	}
	if content.Education, err = s.education.List(ctx, tenant); err != nil {
		return nil, fmt.Errorf("failed to load education: %w", err)
	}
	if content.TechStack, err = s.techStack.List(ctx, tenant); err != nil {
		return nil, fmt.Errorf("failed to load tech stack: %w", err)
	}
	if content.Skills, err = s.skills.List(ctx, tenant); err != nil {
		return nil, fmt.Errorf("failed to load skills: %w", err)
	}
	if content.ProcessStrategies, err = s.process.List(ctx, tenant); err != nil {
		return nil, fmt.Errorf("failed to load process strategies: %w", err)
	}
	if content.ExpertiseRadar, err = s.radar.List(ctx, tenant); err != nil {
		return nil, fmt.Errorf("failed to load expertise radar: %w", err)
	}
	return content, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
