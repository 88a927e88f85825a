package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/islaguezul/portfolio-backend/internal/domain"
)

type memProjectRepo struct {
	rows    map[domain.Tenant]map[int]*domain.Project
	nextID  int
	writes  int
	reads   int
	findErr error
}

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{rows: map[domain.Tenant]map[int]*domain.Project{}, nextID: 1}
}

func (m *memProjectRepo) put(p *domain.Project) {
	if m.rows[p.Tenant] == nil {
		m.rows[p.Tenant] = map[int]*domain.Project{}
	}
	m.rows[p.Tenant][p.ID] = p
	if p.ID >= m.nextID {
		m.nextID = p.ID + 1
	}
}

func (m *memProjectRepo) GetByID(_ context.Context, tenant domain.Tenant, id int) (*domain.Project, error) {
	m.reads++
	if p, ok := m.rows[tenant][id]; ok {
		return p.Clone(), nil
	}
	return nil, domain.ErrNotFound
}

func (m *memProjectRepo) List(_ context.Context, tenant domain.Tenant) ([]*domain.Project, error) {
	m.reads++
	var out []*domain.Project
	for _, p := range m.rows[tenant] {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (m *memProjectRepo) Create(_ context.Context, p *domain.Project) error {
	m.writes++
	p.ID = m.nextID
	m.nextID++
	m.put(p.Clone())
	return nil
}

func (m *memProjectRepo) Update(_ context.Context, p *domain.Project) error {
	m.writes++
	if _, ok := m.rows[p.Tenant][p.ID]; !ok {
		return domain.ErrCopyFailed
	}
	m.put(p.Clone())
	return nil
}

func (m *memProjectRepo) FindByName(_ context.Context, tenant domain.Tenant, name string) (*domain.Project, error) {
	m.reads++
	if m.findErr != nil {
		return nil, m.findErr
	}
	best := 0
	for id, p := range m.rows[tenant] {
		if strings.EqualFold(p.Name, name) && (best == 0 || id < best) {
			best = id
		}
	}
	if best == 0 {
		return nil, domain.ErrNotFound
	}
	return m.rows[tenant][best].Clone(), nil
}

type memExperienceRepo struct {
	rows   map[domain.Tenant]map[int]*domain.WorkExperience
	nextID int
	writes int
}

func newMemExperienceRepo() *memExperienceRepo {
	return &memExperienceRepo{rows: map[domain.Tenant]map[int]*domain.WorkExperience{}, nextID: 1}
}

func (m *memExperienceRepo) put(w *domain.WorkExperience) {
	if m.rows[w.Tenant] == nil {
		m.rows[w.Tenant] = map[int]*domain.WorkExperience{}
	}
	m.rows[w.Tenant][w.ID] = w
	if w.ID >= m.nextID {
		m.nextID = w.ID + 1
	}
}

func (m *memExperienceRepo) GetByID(_ context.Context, tenant domain.Tenant, id int) (*domain.WorkExperience, error) {
	if w, ok := m.rows[tenant][id]; ok {
		return w.Clone(), nil
	}
	return nil, domain.ErrNotFound
}

func (m *memExperienceRepo) List(_ context.Context, tenant domain.Tenant) ([]*domain.WorkExperience, error) {
	var out []*domain.WorkExperience
	for _, w := range m.rows[tenant] {
		out = append(out, w.Clone())
	}
	return out, nil
}

func (m *memExperienceRepo) Create(_ context.Context, w *domain.WorkExperience) error {
	m.writes++
	w.ID = m.nextID
	m.nextID++
	m.put(w.Clone())
	return nil
}

func (m *memExperienceRepo) Update(_ context.Context, w *domain.WorkExperience) error {
	m.writes++
	if _, ok := m.rows[w.Tenant][w.ID]; !ok {
		return domain.ErrCopyFailed
	}
	m.put(w.Clone())
	return nil
}

func (m *memExperienceRepo) FindByCompanyTitle(_ context.Context, tenant domain.Tenant, company, title string) (*domain.WorkExperience, error) {
	best := 0
	for id, w := range m.rows[tenant] {
		if strings.EqualFold(w.Company, company) && strings.EqualFold(w.Title, title) && (best == 0 || id < best) {
			best = id
		}
	}
	if best == 0 {
		return nil, domain.ErrNotFound
	}
	return m.rows[tenant][best].Clone(), nil
}

type memPersonalRepo struct {
	rows   map[domain.Tenant]*domain.PersonalInfo
	writes int
}

func newMemPersonalRepo() *memPersonalRepo {
	return &memPersonalRepo{rows: map[domain.Tenant]*domain.PersonalInfo{}}
}

func (m *memPersonalRepo) Get(_ context.Context, tenant domain.Tenant) (*domain.PersonalInfo, error) {
	if p, ok := m.rows[tenant]; ok {
		return p.Clone(), nil
	}
	return nil, domain.ErrNotFound
}

func (m *memPersonalRepo) Upsert(_ context.Context, p *domain.PersonalInfo) error {
	m.writes++
	if existing, ok := m.rows[p.Tenant]; ok {
		p.ID = existing.ID
	} else if p.ID == 0 {
		p.ID = len(m.rows) + 1
	}
	m.rows[p.Tenant] = p.Clone()
	return nil
}

type memNotifier struct {
	updates []domain.ContentUpdate
	err     error
}

func (m *memNotifier) Publish(_ context.Context, u domain.ContentUpdate) error {
	if m.err != nil {
		return m.err
	}
	m.updates = append(m.updates, u)
	return nil
}

type memCopyLog struct {
	records []*domain.CopyRecord
}

func (m *memCopyLog) Record(_ context.Context, rec *domain.CopyRecord) error {
	m.records = append(m.records, rec)
	return nil
}

func (m *memCopyLog) ListRecent(_ context.Context, _ domain.Tenant, _ int) ([]*domain.CopyRecord, error) {
	return m.records, nil
}

type stubLocker struct {
	acquired bool
	err      error
	releases int
}

func (s *stubLocker) Acquire(_ context.Context, _ string, _ time.Duration) (bool, error) {
	return s.acquired, s.err
}

func (s *stubLocker) Release(_ context.Context, _ string) error {
	s.releases++
	return nil
}

type fixture struct {
	projects   *memProjectRepo
	experience *memExperienceRepo
	personal   *memPersonalRepo
	notifier   *memNotifier
	copyLog    *memCopyLog
	svc        *CopyService
}

func newFixture(locker CopyLocker) *fixture {
	f := &fixture{
		projects:   newMemProjectRepo(),
		experience: newMemExperienceRepo(),
		personal:   newMemPersonalRepo(),
		notifier:   &memNotifier{},
		copyLog:    &memCopyLog{},
	}
	logger := slog.Default()
	adapters := []EntityAdapter{
		NewProjectAdapter(f.projects, logger),
		NewExperienceAdapter(f.experience, logger),
	}
	f.svc = NewCopyService(adapters, f.personal, f.notifier, f.copyLog, locker, logger)
	return f
}

func TestCopyCreateNewLeavesSourceUntouched(t *testing.T) {
	f := newFixture(nil)
	src := &domain.Project{
		ID: 1, Tenant: domain.TenantExternal, Name: "Konnosaur",
		Technologies: []string{"Go", "Postgres"}, Features: []string{"search"},
	}
	f.projects.put(src.Clone())

	result, err := f.svc.Copy(context.Background(), CopyRequest{
		EntityType: KindProjects,
		EntityID:   1,
		Target:     domain.TenantInternal,
	})
	if err != nil {
		t.Fatalf("copy failed: %v", err)
	}
	if result.Action != ActionCreated {
		t.Fatalf("expected action %q, got %q", ActionCreated, result.Action)
	}
	if result.EntityName != "Konnosaur" {
		t.Fatalf("expected entity name Konnosaur, got %q", result.EntityName)
	}

	written := result.Entity.(*domain.Project)
	if written.ID == 1 || written.ID == 0 {
		t.Fatalf("expected a fresh id on the target tenant, got %d", written.ID)
	}
	if written.Tenant != domain.TenantInternal {
		t.Fatalf("expected target tenant, got %s", written.Tenant)
	}
	if len(written.Technologies) != 2 || written.Technologies[0] != "Go" {
		t.Fatalf("children not copied: %v", written.Technologies)
	}

	orig := f.projects.rows[domain.TenantExternal][1]
	if orig.Name != "Konnosaur" || len(orig.Technologies) != 2 || len(orig.Features) != 1 {
		t.Fatalf("source row mutated by copy: %+v", orig)
	}

	if len(f.notifier.updates) != 1 {
		t.Fatalf("expected one notification, got %d", len(f.notifier.updates))
	}
	u := f.notifier.updates[0]
	if !u.CrossTenantCopy || u.Action != ActionCreated || u.SourceTenant != domain.TenantExternal {
		t.Fatalf("bad notification: %+v", u)
	}
	if len(f.copyLog.records) != 1 {
		t.Fatalf("expected one history record, got %d", len(f.copyLog.records))
	}
}

func TestConflictCheckIsCaseInsensitive(t *testing.T) {
	f := newFixture(nil)
	f.experience.put(&domain.WorkExperience{
		ID: 1, Tenant: domain.TenantExternal, Company: "Blue Origin", Title: "Analyst",
		Responsibilities: []string{"modeling"},
	})
	f.experience.put(&domain.WorkExperience{
		ID: 7, Tenant: domain.TenantInternal, Company: "blue origin", Title: "analyst",
		Responsibilities: []string{"old duty"},
	})

	check, err := f.svc.CheckConflict(context.Background(), KindExperience, 1, domain.TenantInternal)
	if err != nil {
		t.Fatalf("conflict check failed: %v", err)
	}
	if !check.Conflict {
		t.Fatalf("expected conflict for case-different key")
	}
	match := check.Match.(*domain.WorkExperience)
	if match.ID != 7 {
		t.Fatalf("expected match id 7, got %d", match.ID)
	}
	if len(match.Responsibilities) != 1 {
		t.Fatalf("expected match children loaded for preview")
	}
}

func TestReplaceIsFullOverwrite(t *testing.T) {
	f := newFixture(nil)
	f.experience.put(&domain.WorkExperience{
		ID: 1, Tenant: domain.TenantExternal, Company: "Blue Origin", Title: "Analyst",
		Responsibilities: []string{"forecasting", "reporting"},
	})
	f.experience.put(&domain.WorkExperience{
		ID: 7, Tenant: domain.TenantInternal, Company: "blue origin", Title: "analyst",
		Responsibilities: []string{"stale one", "stale two", "stale three"},
	})

	result, err := f.svc.Copy(context.Background(), CopyRequest{
		EntityType:     KindExperience,
		EntityID:       1,
		Resolution:     ResolutionReplace,
		TargetEntityID: 7,
		Target:         domain.TenantInternal,
	})
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if result.Action != ActionReplaced {
		t.Fatalf("expected action %q, got %q", ActionReplaced, result.Action)
	}
	if result.EntityName != "Analyst at Blue Origin" {
		t.Fatalf("unexpected entity name %q", result.EntityName)
	}

	target := f.experience.rows[domain.TenantInternal][7]
	if target.Company != "Blue Origin" || target.Title != "Analyst" {
		t.Fatalf("target fields not overwritten: %+v", target)
	}
	if len(target.Responsibilities) != 2 || target.Responsibilities[0] != "forecasting" {
		t.Fatalf("residual old children after replace: %v", target.Responsibilities)
	}
}

func TestSkipPerformsNoStoreAccess(t *testing.T) {
	f := newFixture(nil)
	f.projects.put(&domain.Project{ID: 1, Tenant: domain.TenantExternal, Name: "Konnosaur"})

	result, err := f.svc.Copy(context.Background(), CopyRequest{
		EntityType: KindProjects,
		EntityID:   1,
		Resolution: ResolutionSkip,
		Target:     domain.TenantInternal,
	})
	if err != nil {
		t.Fatalf("skip failed: %v", err)
	}
	if result.Action != ActionSkipped {
		t.Fatalf("expected action %q, got %q", ActionSkipped, result.Action)
	}
	if f.projects.writes != 0 {
		t.Fatalf("skip issued %d writes", f.projects.writes)
	}
	if len(f.notifier.updates) != 0 {
		t.Fatalf("skip must not notify")
	}
}

func TestPersonalSingleFieldCopy(t *testing.T) {
	f := newFixture(nil)
	f.personal.rows[domain.TenantExternal] = &domain.PersonalInfo{
		ID: 1, Tenant: domain.TenantExternal, Bio: "A", Email: "a@x.com",
	}
	f.personal.rows[domain.TenantInternal] = &domain.PersonalInfo{
		ID: 2, Tenant: domain.TenantInternal, Bio: "B", Email: "b@x.com",
	}

	result, err := f.svc.Copy(context.Background(), CopyRequest{
		EntityType: KindPersonal,
		Field:      "bio",
		Target:     domain.TenantInternal,
	})
	if err != nil {
		t.Fatalf("field copy failed: %v", err)
	}
	if result.Action != ActionFieldCopied || result.Field != "bio" {
		t.Fatalf("unexpected result: %+v", result)
	}

	target := f.personal.rows[domain.TenantInternal]
	if target.Bio != "A" {
		t.Fatalf("bio not copied, got %q", target.Bio)
	}
	if target.Email != "b@x.com" {
		t.Fatalf("unrelated field changed: %q", target.Email)
	}
	if target.ID != 2 {
		t.Fatalf("identity changed: %d", target.ID)
	}
}

func TestPersonalFullCopyOverwritesEverythingButIdentity(t *testing.T) {
	f := newFixture(nil)
	f.personal.rows[domain.TenantExternal] = &domain.PersonalInfo{
		ID: 1, Tenant: domain.TenantExternal, Name: "Brian", Bio: "A", Email: "a@x.com", Phone: "555",
	}
	f.personal.rows[domain.TenantInternal] = &domain.PersonalInfo{
		ID: 2, Tenant: domain.TenantInternal, Name: "Other", Bio: "B", Email: "b@x.com", Phone: "111",
	}

	result, err := f.svc.Copy(context.Background(), CopyRequest{
		EntityType: KindPersonal,
		Target:     domain.TenantInternal,
	})
	if err != nil {
		t.Fatalf("full copy failed: %v", err)
	}
	if result.Action != ActionAllCopied {
		t.Fatalf("expected action %q, got %q", ActionAllCopied, result.Action)
	}

	target := f.personal.rows[domain.TenantInternal]
	if target.Name != "Brian" || target.Bio != "A" || target.Email != "a@x.com" || target.Phone != "555" {
		t.Fatalf("fields not fully copied: %+v", target)
	}
	if target.ID != 2 || target.Tenant != domain.TenantInternal {
		t.Fatalf("identity not preserved: %+v", target)
	}
	if len(f.notifier.updates) != 1 || f.notifier.updates[0].Action != "updated" {
		t.Fatalf("expected one updated notification, got %+v", f.notifier.updates)
	}
}

func TestPersonalFullCopyCreatesTargetOnFirstWrite(t *testing.T) {
	f := newFixture(nil)
	f.personal.rows[domain.TenantExternal] = &domain.PersonalInfo{
		ID: 1, Tenant: domain.TenantExternal, Name: "Brian", Bio: "A",
	}

	if _, err := f.svc.Copy(context.Background(), CopyRequest{
		EntityType: KindPersonal,
		Target:     domain.TenantInternal,
	}); err != nil {
		t.Fatalf("full copy into empty tenant failed: %v", err)
	}
	target := f.personal.rows[domain.TenantInternal]
	if target == nil || target.Name != "Brian" {
		t.Fatalf("target not created: %+v", target)
	}
}

func TestPersonalUnknownFieldIsNotFound(t *testing.T) {
	f := newFixture(nil)
	f.personal.rows[domain.TenantExternal] = &domain.PersonalInfo{ID: 1, Tenant: domain.TenantExternal}

	_, err := f.svc.Copy(context.Background(), CopyRequest{
		EntityType: KindPersonal,
		Field:      "favoriteColor",
		Target:     domain.TenantInternal,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found for unknown field, got %v", err)
	}
	if f.personal.writes != 0 {
		t.Fatalf("unknown field copy must not write")
	}
}

func TestMissingSourceIsNotFoundAndWritesNothing(t *testing.T) {
	f := newFixture(nil)

	_, err := f.svc.Copy(context.Background(), CopyRequest{
		EntityType: KindProjects,
		EntityID:   42,
		Target:     domain.TenantInternal,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
	if f.projects.writes != 0 {
		t.Fatalf("missing source still wrote %d times", f.projects.writes)
	}
}

func TestReplaceWithoutTargetFallsBackToCreateNew(t *testing.T) {
	f := newFixture(nil)
	f.projects.put(&domain.Project{ID: 1, Tenant: domain.TenantExternal, Name: "Konnosaur"})

	result, err := f.svc.Copy(context.Background(), CopyRequest{
		EntityType: KindProjects,
		EntityID:   1,
		Resolution: ResolutionReplace, // no TargetEntityID supplied
		Target:     domain.TenantInternal,
	})
	if err != nil {
		t.Fatalf("fallback copy failed: %v", err)
	}
	if result.Action != ActionCreated {
		t.Fatalf("expected fallback to create-new, got %q", result.Action)
	}
	if len(f.projects.rows[domain.TenantInternal]) != 1 {
		t.Fatalf("expected one new target row")
	}
}

func TestUnknownEntityTypeIsBadRequest(t *testing.T) {
	f := newFixture(nil)

	_, err := f.svc.Copy(context.Background(), CopyRequest{
		EntityType: "blog-posts",
		EntityID:   1,
		Target:     domain.TenantInternal,
	})
	if !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("expected bad-request, got %v", err)
	}
	if f.projects.writes != 0 || f.experience.writes != 0 {
		t.Fatalf("unknown type must not write")
	}
}

func TestConflictLookupFailureReadsAsNoConflict(t *testing.T) {
	f := newFixture(nil)
	f.projects.put(&domain.Project{ID: 1, Tenant: domain.TenantExternal, Name: "Konnosaur"})
	f.projects.findErr = errors.New("store is down")

	check, err := f.svc.CheckConflict(context.Background(), KindProjects, 1, domain.TenantInternal)
	if err != nil {
		t.Fatalf("lookup failure must not surface: %v", err)
	}
	if check.Conflict {
		t.Fatalf("lookup failure must read as no conflict")
	}
}

func TestNotifierFailureDoesNotFailCopy(t *testing.T) {
	f := newFixture(nil)
	f.notifier.err = errors.New("broker unreachable")
	f.projects.put(&domain.Project{ID: 1, Tenant: domain.TenantExternal, Name: "Konnosaur"})

	result, err := f.svc.Copy(context.Background(), CopyRequest{
		EntityType: KindProjects,
		EntityID:   1,
		Target:     domain.TenantInternal,
	})
	if err != nil {
		t.Fatalf("copy must succeed despite notifier failure: %v", err)
	}
	if result.Action != ActionCreated {
		t.Fatalf("unexpected action %q", result.Action)
	}
}

func TestHeldLockRejectsCopy(t *testing.T) {
	locker := &stubLocker{acquired: false}
	f := newFixture(locker)
	f.projects.put(&domain.Project{ID: 1, Tenant: domain.TenantExternal, Name: "Konnosaur"})

	_, err := f.svc.Copy(context.Background(), CopyRequest{
		EntityType: KindProjects,
		EntityID:   1,
		Target:     domain.TenantInternal,
	})
	if !errors.Is(err, domain.ErrCopyInFlight) {
		t.Fatalf("expected copy-in-flight, got %v", err)
	}
	if f.projects.writes != 0 {
		t.Fatalf("held lock must block writes")
	}
}

func TestLockStoreFailureFailsOpen(t *testing.T) {
	locker := &stubLocker{err: errors.New("redis down")}
	f := newFixture(locker)
	f.projects.put(&domain.Project{ID: 1, Tenant: domain.TenantExternal, Name: "Konnosaur"})

	if _, err := f.svc.Copy(context.Background(), CopyRequest{
		EntityType: KindProjects,
		EntityID:   1,
		Target:     domain.TenantInternal,
	}); err != nil {
		t.Fatalf("copy must proceed when lock store is down: %v", err)
	}
}

func TestLockReleasedAfterCopy(t *testing.T) {
	locker := &stubLocker{acquired: true}
	f := newFixture(locker)
	f.projects.put(&domain.Project{ID: 1, Tenant: domain.TenantExternal, Name: "Konnosaur"})

	if _, err := f.svc.Copy(context.Background(), CopyRequest{
		EntityType: KindProjects,
		EntityID:   1,
		Target:     domain.TenantInternal,
	}); err != nil {
		t.Fatalf("copy failed: %v", err)
	}
	if locker.releases != 1 {
		t.Fatalf("expected one release, got %d", locker.releases)
	}
}
