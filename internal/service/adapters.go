package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/islaguezul/portfolio-backend/internal/domain"
)

// Entity kind values used on the wire.
const (
	KindProjects          = "projects"
	KindExperience        = "experience"
	KindEducation         = "education"
	KindTechStack         = "tech-stack"
	KindSkills            = "skills"
	KindProcessStrategies = "process-strategies"
	KindExpertiseRadar    = "expertise-radar"
	KindPersonal          = "personal"
)

// EntityAdapter is the per-kind seam the copy protocol runs through.
// One adapter per non-singleton kind, looked up by its wire name.
//
// FindConflict never returns an error: a lookup failure is reported as
// "no conflict" so the create-new path can always proceed.
type EntityAdapter interface {
	Kind() string
	FetchSource(ctx context.Context, tenant domain.Tenant, id int) (domain.Entity, error)
	FindConflict(ctx context.Context, src domain.Entity, tenant domain.Tenant) domain.Entity
	CopyDeep(ctx context.Context, src domain.Entity, target domain.Tenant) (domain.Entity, error)
	ReplaceInPlace(ctx context.Context, targetID int, src domain.Entity, target domain.Tenant) (domain.Entity, error)
}

// swallowLookup logs unexpected matcher failures and maps everything to
// "no conflict".
func swallowLookup(logger *slog.Logger, kind string, err error) {
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Warn("conflict lookup failed, treating as no conflict",
			slog.String("entity_type", kind),
			slog.String("error", err.Error()),
		)
	}
}

type projectAdapter struct {
	repo   domain.ProjectRepository
	logger *slog.Logger
}

// NewProjectAdapter wires projects into the copy protocol
func NewProjectAdapter(repo domain.ProjectRepository, logger *slog.Logger) EntityAdapter {
	return &projectAdapter{repo: repo, logger: logger}
}

func (a *projectAdapter) Kind() string { return KindProjects }

func (a *projectAdapter) FetchSource(ctx context.Context, tenant domain.Tenant, id int) (domain.Entity, error) {
	return a.repo.GetByID(ctx, tenant, id)
}

func (a *projectAdapter) FindConflict(ctx context.Context, src domain.Entity, tenant domain.Tenant) domain.Entity {
	p := src.(*domain.Project)
	match, err := a.repo.FindByName(ctx, tenant, p.Name)
	if err != nil {
		swallowLookup(a.logger, a.Kind(), err)
		return nil
	}
	return match
}

func (a *projectAdapter) CopyDeep(ctx context.Context, src domain.Entity, target domain.Tenant) (domain.Entity, error) {
	cp := src.(*domain.Project).Clone()
	cp.ID = 0
	cp.Tenant = target
	if err := a.repo.Create(ctx, cp); err != nil {
		return nil, err
	}
	return cp, nil
}

func (a *projectAdapter) ReplaceInPlace(ctx context.Context, targetID int, src domain.Entity, target domain.Tenant) (domain.Entity, error) {
	cp := src.(*domain.Project).Clone()
	cp.ID = targetID
	cp.Tenant = target
	if err := a.repo.Update(ctx, cp); err != nil {
		return nil, err
	}
	return cp, nil
}

type experienceAdapter struct {
	repo   domain.ExperienceRepository
	logger *slog.Logger
}

// NewExperienceAdapter wires work experience into the copy protocol
func NewExperienceAdapter(repo domain.ExperienceRepository, logger *slog.Logger) EntityAdapter {
	return &experienceAdapter{repo: repo, logger: logger}
}

func (a *experienceAdapter) Kind() string { return KindExperience }

func (a *experienceAdapter) FetchSource(ctx context.Context, tenant domain.Tenant, id int) (domain.Entity, error) {
	return a.repo.GetByID(ctx, tenant, id)
}

func (a *experienceAdapter) FindConflict(ctx context.Context, src domain.Entity, tenant domain.Tenant) domain.Entity {
	w := src.(*domain.WorkExperience)
	match, err := a.repo.FindByCompanyTitle(ctx, tenant, w.Company, w.Title)
	if err != nil {
		swallowLookup(a.logger, a.Kind(), err)
		return nil
	}
	return match
}

func (a *experienceAdapter) CopyDeep(ctx context.Context, src domain.Entity, target domain.Tenant) (domain.Entity, error) {
	cp := src.(*domain.WorkExperience).Clone()
	cp.ID = 0
	cp.Tenant = target
	if err := a.repo.Create(ctx, cp); err != nil {
		return nil, err
	}
	return cp, nil
}

func (a *experienceAdapter) ReplaceInPlace(ctx context.Context, targetID int, src domain.Entity, target domain.Tenant) (domain.Entity, error) {
	cp := src.(*domain.WorkExperience).Clone()
	cp.ID = targetID
	cp.Tenant = target
	if err := a.repo.Update(ctx, cp); err != nil {
		return nil, err
	}
	return cp, nil
}

type educationAdapter struct {
	repo   domain.EducationRepository
	logger *slog.Logger
}

// NewEducationAdapter wires education into the copy protocol
func NewEducationAdapter(repo domain.EducationRepository, logger *slog.Logger) EntityAdapter {
	return &educationAdapter{repo: repo, logger: logger}
}

func (a *educationAdapter) Kind() string { return KindEducation }

func (a *educationAdapter) FetchSource(ctx context.Context, tenant domain.Tenant, id int) (domain.Entity, error) {
	return a.repo.GetByID(ctx, tenant, id)
}

func (a *educationAdapter) FindConflict(ctx context.Context, src domain.Entity, tenant domain.Tenant) domain.Entity {
	e := src.(*domain.Education)
	match, err := a.repo.FindBySchoolDegree(ctx, tenant, e.School, e.Degree)
	if err != nil {
		swallowLookup(a.logger, a.Kind(), err)
		return nil
	}
	return match
}

func (a *educationAdapter) CopyDeep(ctx context.Context, src domain.Entity, target domain.Tenant) (domain.Entity, error) {
	cp := src.(*domain.Education).Clone()
	cp.ID = 0
	cp.Tenant = target
	if err := a.repo.Create(ctx, cp); err != nil {
		return nil, err
	}
	return cp, nil
}

func (a *educationAdapter) ReplaceInPlace(ctx context.Context, targetID int, src domain.Entity, target domain.Tenant) (domain.Entity, error) {
	cp := src.(*domain.Education).Clone()
	cp.ID = targetID
	cp.Tenant = target
	if err := a.repo.Update(ctx, cp); err != nil {
		return nil, err
	}
	return cp, nil
}

type techStackAdapter struct {
	repo   domain.TechStackRepository
	logger *slog.Logger
}

// NewTechStackAdapter wires tech stack items into the copy protocol
func NewTechStackAdapter(repo domain.TechStackRepository, logger *slog.Logger) EntityAdapter {
	return &techStackAdapter{repo: repo, logger: logger}
}

func (a *techStackAdapter) Kind() string { return KindTechStack }

func (a *techStackAdapter) FetchSource(ctx context.Context, tenant domain.Tenant, id int) (domain.Entity, error) {
	return a.repo.GetByID(ctx, tenant, id)
}

func (a *techStackAdapter) FindConflict(ctx context.Context, src domain.Entity, tenant domain.Tenant) domain.Entity {
	t := src.(*domain.TechStackItem)
	match, err := a.repo.FindByName(ctx, tenant, t.Name)
	if err != nil {
		swallowLookup(a.logger, a.Kind(), err)
		return nil
	}
	return match
}

func (a *techStackAdapter) CopyDeep(ctx context.Context, src domain.Entity, target domain.Tenant) (domain.Entity, error) {
	cp := src.(*domain.TechStackItem).Clone()
	cp.ID = 0
	cp.Tenant = target
	if err := a.repo.Create(ctx, cp); err != nil {
		return nil, err
	}
	return cp, nil
}

func (a *techStackAdapter) ReplaceInPlace(ctx context.Context, targetID int, src domain.Entity, target domain.Tenant) (domain.Entity, error) {
	cp := src.(*domain.TechStackItem).Clone()
	cp.ID = targetID
	cp.Tenant = target
	if err := a.repo.Update(ctx, cp); err != nil {
		return nil, err
	}
	return cp, nil
}

type skillCategoryAdapter struct {
	repo   domain.SkillCategoryRepository
	logger *slog.Logger
}

// NewSkillCategoryAdapter wires skill categories into the copy protocol
func NewSkillCategoryAdapter(repo domain.SkillCategoryRepository, logger *slog.Logger) EntityAdapter {
	return &skillCategoryAdapter{repo: repo, logger: logger}
}

func (a *skillCategoryAdapter) Kind() string { return KindSkills }

func (a *skillCategoryAdapter) FetchSource(ctx context.Context, tenant domain.Tenant, id int) (domain.Entity, error) {
	return a.repo.GetByID(ctx, tenant, id)
}

func (a *skillCategoryAdapter) FindConflict(ctx context.Context, src domain.Entity, tenant domain.Tenant) domain.Entity {
	s := src.(*domain.SkillCategory)
	match, err := a.repo.FindByName(ctx, tenant, s.Name)
	if err != nil {
		swallowLookup(a.logger, a.Kind(), err)
		return nil
	}
	return match
}

func (a *skillCategoryAdapter) CopyDeep(ctx context.Context, src domain.Entity, target domain.Tenant) (domain.Entity, error) {
	cp := src.(*domain.SkillCategory).Clone()
	cp.ID = 0
	cp.Tenant = target
	if err := a.repo.Create(ctx, cp); err != nil {
		return nil, err
	}
	return cp, nil
}

func (a *skillCategoryAdapter) ReplaceInPlace(ctx context.Context, targetID int, src domain.Entity, target domain.Tenant) (domain.Entity, error) {
	cp := src.(*domain.SkillCategory).Clone()
	cp.ID = targetID
	cp.Tenant = target
	if err := a.repo.Update(ctx, cp); err != nil {
		return nil, err
	}
	return cp, nil
}

type processStrategyAdapter struct {
	repo   domain.ProcessStrategyRepository
	logger *slog.Logger
}

// NewProcessStrategyAdapter wires process strategies into the copy protocol
func NewProcessStrategyAdapter(repo domain.ProcessStrategyRepository, logger *slog.Logger) EntityAdapter {
	return &processStrategyAdapter{repo: repo, logger: logger}
}

func (a *processStrategyAdapter) Kind() string { return KindProcessStrategies }

func (a *processStrategyAdapter) FetchSource(ctx context.Context, tenant domain.Tenant, id int) (domain.Entity, error) {
	return a.repo.GetByID(ctx, tenant, id)
}

func (a *processStrategyAdapter) FindConflict(ctx context.Context, src domain.Entity, tenant domain.Tenant) domain.Entity {
	p := src.(*domain.ProcessStrategy)
	match, err := a.repo.FindByTitle(ctx, tenant, p.Title)
	if err != nil {
		swallowLookup(a.logger, a.Kind(), err)
		return nil
	}
	return match
}

func (a *processStrategyAdapter) CopyDeep(ctx context.Context, src domain.Entity, target domain.Tenant) (domain.Entity, error) {
	cp := src.(*domain.ProcessStrategy).Clone()
	cp.ID = 0
	cp.Tenant = target
	if err := a.repo.Create(ctx, cp); err != nil {
		return nil, err
	}
	return cp, nil
}

func (a *processStrategyAdapter) ReplaceInPlace(ctx context.Context, targetID int, src domain.Entity, target domain.Tenant) (domain.Entity, error) {
	cp := src.(*domain.ProcessStrategy).Clone()
	cp.ID = targetID
	cp.Tenant = target
	if err := a.repo.Update(ctx, cp); err != nil {
		return nil, err
	}
	return cp, nil
}

type expertiseRadarAdapter struct {
	repo   domain.ExpertiseRadarRepository
	logger *slog.Logger
}

// NewExpertiseRadarAdapter wires radar items into the copy protocol.
func NewExpertiseRadarAdapter(repo domain.ExpertiseRadarRepository, logger *slog.Logger) EntityAdapter {
	return &expertiseRadarAdapter{repo: repo, logger: logger}
}

func (a *expertiseRadarAdapter) Kind() string { return KindExpertiseRadar }

func (a *expertiseRadarAdapter) FetchSource(ctx context.Context, tenant domain.Tenant, id int) (domain.Entity, error) {
	return a.repo.GetByID(ctx, tenant, id)
}

func (a *expertiseRadarAdapter) FindConflict(ctx context.Context, src domain.Entity, tenant domain.Tenant) domain.Entity {
	e := src.(*domain.ExpertiseRadarItem)
	match, err := a.repo.FindBySkillName(ctx, tenant, e.SkillName)
	if err != nil {
		swallowLookup(a.logger, a.Kind(), err)
		return nil
	}
	return match
}

func (a *expertiseRadarAdapter) CopyDeep(ctx context.Context, src domain.Entity, target domain.Tenant) (domain.Entity, error) {
	cp := src.(*domain.ExpertiseRadarItem).Clone()
	cp.ID = 0
	cp.Tenant = target
	if err := a.repo.Create(ctx, cp); err != nil {
		return nil, err
	}
	return cp, nil
}

func (a *expertiseRadarAdapter) ReplaceInPlace(ctx context.Context, targetID int, src domain.Entity, target domain.Tenant) (domain.Entity, error) {
	cp := src.(*domain.ExpertiseRadarItem).Clone()
	cp.ID = targetID
	cp.Tenant = target
	if err := a.repo.Update(ctx, cp); err != nil {
		return nil, err
	}
	return cp, nil
}
