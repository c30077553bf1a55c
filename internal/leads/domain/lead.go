package domain

import "time"

// Lead is a normalized prospect record assembled from search and enrichment
// providers.
type Lead struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Company     string    `json:"company"`
	Title       string    `json:"title"`
	LinkedInURL string    `json:"linkedin_url"`
	CompanySize string    `json:"company_size"`
	Industry    string    `json:"industry"`
	CreatedAt   time.Time `json:"created_at"`
}

// FullName joins first and last name, tolerating missing parts.
func (l Lead) FullName() string {
	switch {
	case l.FirstName == "":
		return l.LastName
	case l.LastName == "":
		return l.FirstName
	default:
		return l.FirstName + " " + l.LastName
	}
}

// SearchCriteria narrows a prospect search.
type SearchCriteria struct {
	Industry    string
	CompanySize string
	JobTitles   []string
	Limit       int
}

// Enrichment is supplementary profile data keyed by email.
type Enrichment struct {
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Title     string `json:"title"`
	Company   string `json:"company"`
	Location  string `json:"location"`
	LinkedIn  string `json:"linkedin"`
	Seniority string `json:"seniority"`
}

// IsEmpty reports whether enrichment returned no data.
func (e Enrichment) IsEmpty() bool {
	return e == (Enrichment{})
}
