package domain

import "time"

// PersonalInfo is a singleton per tenant: at most one row, matched by
// tenant alone. It has no create-new path; writes are always an upsert.
type PersonalInfo struct {
	ID        int       `json:"id"`
	Tenant    Tenant    `json:"tenant"`
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	Bio       string    `json:"bio"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Location  string    `json:"location"`
	LinkedIn  string    `json:"linkedin"`
	GitHub    string    `json:"github"`
	Tagline   string    `json:"tagline"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *PersonalInfo) EntityID() int      { return p.ID }
func (p *PersonalInfo) EntityName() string { return p.Name }

func (p *PersonalInfo) Clone() *PersonalInfo {
	cp := *p
	return &cp
}

// FieldRef returns a pointer to the named copyable field. Identity and
// tenant are deliberately not addressable this way.
func (p *PersonalInfo) FieldRef(name string) (*string, bool) {
	switch name {
	case "name":
		return &p.Name, true
	case "title":
		return &p.Title, true
	case "bio":
		return &p.Bio, true
	case "email":
		return &p.Email, true
	case "phone":
		return &p.Phone, true
	case "location":
		return &p.Location, true
	case "linkedin":
		return &p.LinkedIn, true
	case "github":
		return &p.GitHub, true
	case "tagline":
		return &p.Tagline, true
	default:
		return nil, false
	}
}

// CopyFieldsFrom overwrites every copyable field with src's values,
// preserving id and tenant.
func (p *PersonalInfo) CopyFieldsFrom(src *PersonalInfo) {
	p.Name = src.Name
	p.Title = src.Title
	p.Bio = src.Bio
	p.Email = src.Email
	p.Phone = src.Phone
	p.Location = src.Location
	p.LinkedIn = src.LinkedIn
	p.GitHub = src.GitHub
	p.Tagline = src.Tagline
}
