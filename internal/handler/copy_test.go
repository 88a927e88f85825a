package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/islaguezul/portfolio-backend/internal/domain"
	"github.com/islaguezul/portfolio-backend/internal/security/middleware"
	"github.com/islaguezul/portfolio-backend/internal/service"
)

type fakeProjectRepo struct {
	rows   map[domain.Tenant]map[int]*domain.Project
	nextID int
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{rows: map[domain.Tenant]map[int]*domain.Project{}, nextID: 1}
}

func (f *fakeProjectRepo) seed(p *domain.Project) {
	if f.rows[p.Tenant] == nil {
		f.rows[p.Tenant] = map[int]*domain.Project{}
	}
	f.rows[p.Tenant][p.ID] = p
	if p.ID >= f.nextID {
		f.nextID = p.ID + 1
	}
}

func (f *fakeProjectRepo) GetByID(_ context.Context, tenant domain.Tenant, id int) (*domain.Project, error) {
	if p, ok := f.rows[tenant][id]; ok {
		return p.Clone(), nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeProjectRepo) List(_ context.Context, tenant domain.Tenant) ([]*domain.Project, error) {
	var out []*domain.Project
	for _, p := range f.rows[tenant] {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (f *fakeProjectRepo) Create(_ context.Context, p *domain.Project) error {
	p.ID = f.nextID
	f.nextID++
	f.seed(p.Clone())
	return nil
}

func (f *fakeProjectRepo) Update(_ context.Context, p *domain.Project) error {
	if _, ok := f.rows[p.Tenant][p.ID]; !ok {
		return domain.ErrCopyFailed
	}
	f.seed(p.Clone())
	return nil
}

func (f *fakeProjectRepo) FindByName(_ context.Context, tenant domain.Tenant, name string) (*domain.Project, error) {
	for _, p := range f.rows[tenant] {
		if strings.EqualFold(p.Name, name) {
			return p.Clone(), nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakePersonalRepo struct {
	rows map[domain.Tenant]*domain.PersonalInfo
}

func (f *fakePersonalRepo) Get(_ context.Context, tenant domain.Tenant) (*domain.PersonalInfo, error) {
	if p, ok := f.rows[tenant]; ok {
		return p.Clone(), nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakePersonalRepo) Upsert(_ context.Context, p *domain.PersonalInfo) error {
	f.rows[p.Tenant] = p.Clone()
	return nil
}

func newCopyHandler(t *testing.T, projects *fakeProjectRepo) *CopyHandler {
	t.Helper()
	logger := slog.Default()
	personal := &fakePersonalRepo{rows: map[domain.Tenant]*domain.PersonalInfo{}}
	svc := service.NewCopyService(
		[]service.EntityAdapter{service.NewProjectAdapter(projects, logger)},
		personal, nil, nil, nil, logger,
	)
	return NewCopyHandler(svc, logger)
}

func doCopy(t *testing.T, h http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/copy", bytes.NewReader(payload))
	ctx := context.WithValue(req.Context(), middleware.TenantContextKey{}, domain.TenantInternal)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCopyHandlerCreatesEntity(t *testing.T) {
	projects := newFakeProjectRepo()
	projects.seed(&domain.Project{ID: 3, Tenant: domain.TenantExternal, Name: "Konnosaur"})
	h := newCopyHandler(t, projects)

	rec := doCopy(t, h, CopyRequest{EntityType: "projects", EntityID: 3})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp CopyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if !resp.Success || resp.Action != "created" || resp.EntityName != "Konnosaur" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(projects.rows[domain.TenantInternal]) != 1 {
		t.Fatalf("expected one copied row on the acting tenant")
	}
}

func doCopyRaw(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/copy", strings.NewReader(body))
	ctx := context.WithValue(req.Context(), middleware.TenantContextKey{}, domain.TenantInternal)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCopyHandlerSkipWireKeyWritesNothing(t *testing.T) {
	projects := newFakeProjectRepo()
	projects.seed(&domain.Project{ID: 1, Tenant: domain.TenantExternal, Name: "Konnosaur"})
	projects.seed(&domain.Project{ID: 5, Tenant: domain.TenantInternal, Name: "KONNOSAUR"})
	h := newCopyHandler(t, projects)

	rec := doCopyRaw(t, h, `{"entityType":"projects","entityId":1,"conflictResolution":"skip"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp CopyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if resp.Action != "skipped" {
		t.Fatalf("expected skipped, got %q", resp.Action)
	}
	if len(projects.rows[domain.TenantInternal]) != 1 {
		t.Fatalf("skip must not write: target has %d rows", len(projects.rows[domain.TenantInternal]))
	}
}

func TestCopyHandlerReplaceWireKeyOverwritesTarget(t *testing.T) {
	projects := newFakeProjectRepo()
	projects.seed(&domain.Project{ID: 1, Tenant: domain.TenantExternal, Name: "Konnosaur"})
	projects.seed(&domain.Project{ID: 7, Tenant: domain.TenantInternal, Name: "KONNOSAUR"})
	h := newCopyHandler(t, projects)

	rec := doCopyRaw(t, h, `{"entityType":"projects","entityId":1,"conflictResolution":"replace","targetEntityId":7}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp CopyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if resp.Action != "replaced" {
		t.Fatalf("expected replaced, got %q", resp.Action)
	}
	if got := len(projects.rows[domain.TenantInternal]); got != 1 {
		t.Fatalf("replace must overwrite in place: target has %d rows", got)
	}
	if projects.rows[domain.TenantInternal][7].Name != "Konnosaur" {
		t.Fatalf("target id 7 was not overwritten: %q", projects.rows[domain.TenantInternal][7].Name)
	}
}

func TestCopyHandlerRejectsMissingEntityID(t *testing.T) {
	h := newCopyHandler(t, newFakeProjectRepo())
	rec := doCopy(t, h, CopyRequest{EntityType: "projects"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCopyHandlerRejectsUnknownResolution(t *testing.T) {
	h := newCopyHandler(t, newFakeProjectRepo())
	rec := doCopy(t, h, CopyRequest{EntityType: "projects", EntityID: 1, Resolution: "merge"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCopyHandlerMissingSourceIs404(t *testing.T) {
	h := newCopyHandler(t, newFakeProjectRepo())
	rec := doCopy(t, h, CopyRequest{EntityType: "projects", EntityID: 99})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("error body not json: %v", err)
	}
	if resp["error"] == "" {
		t.Fatalf("expected error message in body")
	}
}

func TestCopyHandlerUnknownEntityTypeIs400(t *testing.T) {
	h := newCopyHandler(t, newFakeProjectRepo())
	rec := doCopy(t, h, CopyRequest{EntityType: "blog-posts", EntityID: 1})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestConflictCheckHandler(t *testing.T) {
	projects := newFakeProjectRepo()
	projects.seed(&domain.Project{ID: 1, Tenant: domain.TenantExternal, Name: "Konnosaur"})
	projects.seed(&domain.Project{ID: 5, Tenant: domain.TenantInternal, Name: "KONNOSAUR"})

	logger := slog.Default()
	personal := &fakePersonalRepo{rows: map[domain.Tenant]*domain.PersonalInfo{}}
	svc := service.NewCopyService(
		[]service.EntityAdapter{service.NewProjectAdapter(projects, logger)},
		personal, nil, nil, nil, logger,
	)
	h := NewConflictCheckHandler(svc, logger)

	payload, _ := json.Marshal(ConflictCheckRequest{EntityType: "projects", EntityID: 1})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/copy/check", bytes.NewReader(payload))
	ctx := context.WithValue(req.Context(), middleware.TenantContextKey{}, domain.TenantInternal)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp ConflictCheckResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if !resp.Conflict || resp.Match == nil {
		t.Fatalf("expected a conflict with a match, got %+v", resp)
	}
}
