package domain

import (
	"fmt"
	"time"
)

// Entity is implemented by every copyable content record. EntityName is
// the human-readable label used in copy responses and update
// notifications.
type Entity interface {
	EntityID() int
	EntityName() string
}

// Project is a portfolio project with its ordered child collections.
type Project struct {
	ID           int       `json:"id"`
	Tenant       Tenant    `json:"tenant"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	Role         string    `json:"role"`
	DisplayOrder int       `json:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Technologies []string `json:"technologies"`
	Features     []string `json:"features"`
	Impacts      []string `json:"impacts"`
	Challenges   []string `json:"challenges"`
	Outcomes     []string `json:"outcomes"`
	Screenshots  []string `json:"screenshots"`
}

func (p *Project) EntityID() int      { return p.ID }
func (p *Project) EntityName() string { return p.Name }

// Clone returns a deep copy with fresh child slices so no child row is
// ever shared between two parents.
func (p *Project) Clone() *Project {
	cp := *p
	cp.Technologies = cloneStrings(p.Technologies)
	cp.Features = cloneStrings(p.Features)
	cp.Impacts = cloneStrings(p.Impacts)
	cp.Challenges = cloneStrings(p.Challenges)
	cp.Outcomes = cloneStrings(p.Outcomes)
	cp.Screenshots = cloneStrings(p.Screenshots)
	return &cp
}

// WorkExperience is a single resume position and its ordered
// responsibilities.
type WorkExperience struct {
	ID           int    `json:"id"`
	Tenant       Tenant `json:"tenant"`
	Company      string `json:"company"`
	Title        string `json:"title"`
	Location     string `json:"location"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Current      bool   `json:"current"`
	DisplayOrder int    `json:"displayOrder"`

	Responsibilities []string `json:"responsibilities"`
}

func (w *WorkExperience) EntityID() int { return w.ID }
func (w *WorkExperience) EntityName() string {
	return fmt.Sprintf("%s at %s", w.Title, w.Company)
}

func (w *WorkExperience) Clone() *WorkExperience {
	cp := *w
	cp.Responsibilities = cloneStrings(w.Responsibilities)
	return &cp
}

// Education is a degree entry and its ordered course list.
type Education struct {
	ID        int    `json:"id"`
	Tenant    Tenant `json:"tenant"`
	School    string `json:"school"`
	Degree    string `json:"degree"`
	Field     string `json:"field"`
	StartYear string `json:"startYear"`
	EndYear   string `json:"endYear"`

	Courses []string `json:"courses"`
}

func (e *Education) EntityID() int { return e.ID }
func (e *Education) EntityName() string {
	return fmt.Sprintf("%s from %s", e.Degree, e.School)
}

func (e *Education) Clone() *Education {
	cp := *e
	cp.Courses = cloneStrings(e.Courses)
	return &cp
}

// TechStackItem is a single technology entry. No child records.
type TechStackItem struct {
	ID          int    `json:"id"`
	Tenant      Tenant `json:"tenant"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Proficiency int    `json:"proficiency"`
}

func (t *TechStackItem) EntityID() int      { return t.ID }
func (t *TechStackItem) EntityName() string { return t.Name }

func (t *TechStackItem) Clone() *TechStackItem {
	cp := *t
	return &cp
}

// SkillCategory groups an ordered list of skills under a heading.
type SkillCategory struct {
	ID           int    `json:"id"`
	Tenant       Tenant `json:"tenant"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"displayOrder"`

	Skills []string `json:"skills"`
}

func (s *SkillCategory) EntityID() int      { return s.ID }
func (s *SkillCategory) EntityName() string { return s.Name }

func (s *SkillCategory) Clone() *SkillCategory {
	cp := *s
	cp.Skills = cloneStrings(s.Skills)
	return &cp
}

// ProcessStrategy is a how-I-work card. No child records.
type ProcessStrategy struct {
	ID           int    `json:"id"`
	Tenant       Tenant `json:"tenant"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	DisplayOrder int    `json:"displayOrder"`
}

func (p *ProcessStrategy) EntityID() int      { return p.ID }
func (p *ProcessStrategy) EntityName() string { return p.Title }

func (p *ProcessStrategy) Clone() *ProcessStrategy {
	cp := *p
	return &cp
}

// ExpertiseRadarItem is one axis of the expertise radar chart.
type ExpertiseRadarItem struct {
	ID        int    `json:"id"`
	Tenant    Tenant `json:"tenant"`
	SkillName string `json:"skillName"`
	Category  string `json:"category"`
	Level     int    `json:"level"`
}

func (e *ExpertiseRadarItem) EntityID() int      { return e.ID }
func (e *ExpertiseRadarItem) EntityName() string { return e.SkillName }

func (e *ExpertiseRadarItem) Clone() *ExpertiseRadarItem {
	cp := *e
	return &cp
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
