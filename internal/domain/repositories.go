package domain

import (
	"context"
	"time"
)

// ProjectRepository defines data access for projects. Create and Update
// write the parent row and all child collections in one transaction;
// Update replaces children wholesale.
type ProjectRepository interface {
	GetByID(ctx context.Context, tenant Tenant, id int) (*Project, error)
	List(ctx context.Context, tenant Tenant) ([]*Project, error)
	Create(ctx context.Context, p *Project) error
	Update(ctx context.Context, p *Project) error
	FindByName(ctx context.Context, tenant Tenant, name string) (*Project, error)
}

// ExperienceRepository defines data access for work experience.
type ExperienceRepository interface {
	GetByID(ctx context.Context, tenant Tenant, id int) (*WorkExperience, error)
	List(ctx context.Context, tenant Tenant) ([]*WorkExperience, error)
	Create(ctx context.Context, w *WorkExperience) error
	Update(ctx context.Context, w *WorkExperience) error
	FindByCompanyTitle(ctx context.Context, tenant Tenant, company, title string) (*WorkExperience, error)
}

// EducationRepository defines data access for education entries.
type EducationRepository interface {
	GetByID(ctx context.Context, tenant Tenant, id int) (*Education, error)
	List(ctx context.Context, tenant Tenant) ([]*Education, error)
	Create(ctx context.Context, e *Education) error
	Update(ctx context.Context, e *Education) error
	FindBySchoolDegree(ctx context.Context, tenant Tenant, school, degree string) (*Education, error)
}

// TechStackRepository defines data access for tech stack items.
type TechStackRepository interface {
	GetByID(ctx context.Context, tenant Tenant, id int) (*TechStackItem, error)
	List(ctx context.Context, tenant Tenant) ([]*TechStackItem, error)
	Create(ctx context.Context, t *TechStackItem) error
	Update(ctx context.Context, t *TechStackItem) error
	FindByName(ctx context.Context, tenant Tenant, name string) (*TechStackItem, error)
}

// SkillCategoryRepository defines data access for skill categories.
type SkillCategoryRepository interface {
	GetByID(ctx context.Context, tenant Tenant, id int) (*SkillCategory, error)
	List(ctx context.Context, tenant Tenant) ([]*SkillCategory, error)
	Create(ctx context.Context, s *SkillCategory) error
	Update(ctx context.Context, s *SkillCategory) error
	FindByName(ctx context.Context, tenant Tenant, name string) (*SkillCategory, error)
}

// ProcessStrategyRepository defines data access for process strategies.
type ProcessStrategyRepository interface {
	GetByID(ctx context.Context, tenant Tenant, id int) (*ProcessStrategy, error)
	List(ctx context.Context, tenant Tenant) ([]*ProcessStrategy, error)
	Create(ctx context.Context, p *ProcessStrategy) error
	Update(ctx context.Context, p *ProcessStrategy) error
	FindByTitle(ctx context.Context, tenant Tenant, title string) (*ProcessStrategy, error)
}

// ExpertiseRadarRepository defines data access for radar items.
type ExpertiseRadarRepository interface {
	GetByID(ctx context.Context, tenant Tenant, id int) (*ExpertiseRadarItem, error)
	List(ctx context.Context, tenant Tenant) ([]*ExpertiseRadarItem, error)
	Create(ctx context.Context, e *ExpertiseRadarItem) error
	Update(ctx context.Context, e *ExpertiseRadarItem) error
	FindBySkillName(ctx context.Context, tenant Tenant, skillName string) (*ExpertiseRadarItem, error)
}

// PersonalInfoRepository defines data access for the per-tenant
// singleton. Upsert creates the row on first write.
type PersonalInfoRepository interface {
	Get(ctx context.Context, tenant Tenant) (*PersonalInfo, error)
	Upsert(ctx context.Context, p *PersonalInfo) error
}

// AdminUser is an account allowed into the admin area.
type AdminUser struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AdminUserRepository defines data access for admin accounts.
type AdminUserRepository interface {
	GetByEmail(ctx context.Context, email string) (*AdminUser, error)
	Create(ctx context.Context, u *AdminUser) error
}

// CopyRecord is one completed cross-tenant copy, kept for the admin
// history view.
type CopyRecord struct {
	ID           string    `json:"id"`
	EntityType   string    `json:"entityType"`
	EntityName   string    `json:"entityName"`
	Action       string    `json:"action"`
	SourceTenant Tenant    `json:"sourceTenant"`
	TargetTenant Tenant    `json:"targetTenant"`
	CopiedAt     time.Time `json:"copiedAt"`
}

// CopyLogRepository records completed copies. Best-effort: callers
// ignore failures.
type CopyLogRepository interface {
	Record(ctx context.Context, rec *CopyRecord) error
	ListRecent(ctx context.Context, tenant Tenant, limit int) ([]*CopyRecord, error)
}

// ContentUpdate is the change notification emitted after a successful
// copy. CrossTenantCopy is always true for events from the copy
// protocol.
type ContentUpdate struct {
	EntityType      string    `json:"entityType"`
	Action          string    `json:"action"`
	EntityName      string    `json:"entityName"`
	CrossTenantCopy bool      `json:"crossTenantCopy"`
	SourceTenant    Tenant    `json:"sourceTenant"`
	TargetTenant    Tenant    `json:"targetTenant"`
	Timestamp       time.Time `json:"timestamp"`
}

// Notifier publishes content-update events. Publishing is fire-and-
// forget from the protocol's perspective: a failed publish must never
// fail the copy that triggered it.
type Notifier interface {
	Publish(ctx context.Context, update ContentUpdate) error
}
