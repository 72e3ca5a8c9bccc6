package models

import (
	"time"

	"gorm.io/gorm"
)

type CandidateStatus string

const (
	CandidateStatusActive   CandidateStatus = "active"
	CandidateStatusInactive CandidateStatus = "inactive"
	CandidateStatusHired    CandidateStatus = "hired"
)

// Candidate is the searchable profile of a job seeker.
type Candidate struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// UserID links the profile to an account. Imported profiles have none.
	UserID *uint `gorm:"uniqueIndex" json:"user_id,omitempty"`

	Name              string          `gorm:"size:255;not null" json:"name"`
	Email             string          `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Phone             string          `gorm:"size:50" json:"phone"`
	Location          string          `gorm:"size:255" json:"location"`
	Skills            []string        `gorm:"serializer:json;type:text" json:"skills"`
	Experience        []string        `gorm:"serializer:json;type:text" json:"experience"`
	Education         []string        `gorm:"serializer:json;type:text" json:"education"`
	ExperienceYears   int             `gorm:"not null;default:0" json:"experience_years"`
	PreferredRoles    []string        `gorm:"serializer:json;type:text" json:"preferred_roles"`
	SalaryExpectation string          `gorm:"size:100" json:"salary_expectation"`
	ResumeURL         string          `gorm:"size:500" json:"resume_url"`
	RemotePreference  bool            `gorm:"not null;default:false" json:"remote_preference"`
	Status            CandidateStatus `gorm:"size:20;not null;default:active;index" json:"status"`
}

// GetUserID implements Ownable.
func (c *Candidate) GetUserID() uint {
	if c.UserID == nil {
		return 0
	}
	return *c.UserID
}

// CandidateInput is the create payload.
type CandidateInput struct {
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	Phone             string   `json:"phone"`
	Location          string   `json:"location"`
	Skills            []string `json:"skills"`
	Experience        []string `json:"experience"`
	Education         []string `json:"education"`
	ExperienceYears   int      `json:"experience_years"`
	PreferredRoles    []string `json:"preferred_roles"`
	SalaryExpectation string   `json:"salary_expectation"`
	RemotePreference  bool     `json:"remote_preference"`
}

// CandidatePatch carries a partial candidate update; nil fields are left untouched.
type CandidatePatch struct {
	Name              *string          `json:"name,omitempty"`
	Phone             *string          `json:"phone,omitempty"`
	Location          *string          `json:"location,omitempty"`
	Skills            *[]string        `json:"skills,omitempty"`
	Experience        *[]string        `json:"experience,omitempty"`
	Education         *[]string        `json:"education,omitempty"`
	ExperienceYears   *int             `json:"experience_years,omitempty"`
	PreferredRoles    *[]string        `json:"preferred_roles,omitempty"`
	SalaryExpectation *string          `json:"salary_expectation,omitempty"`
	RemotePreference  *bool            `json:"remote_preference,omitempty"`
	Status            *CandidateStatus `json:"status,omitempty"`
}

// Apply copies the non-nil fields onto c.
func (p CandidatePatch) Apply(c *Candidate) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Location != nil {
		c.Location = *p.Location
	}
	if p.Skills != nil {
		c.Skills = *p.Skills
	}
	if p.Experience != nil {
		c.Experience = *p.Experience
	}
	if p.Education != nil {
		c.Education = *p.Education
	}
	if p.ExperienceYears != nil {
		c.ExperienceYears = *p.ExperienceYears
	}
	if p.PreferredRoles != nil {
		c.PreferredRoles = *p.PreferredRoles
	}
	if p.SalaryExpectation != nil {
		c.SalaryExpectation = *p.SalaryExpectation
	}
	if p.RemotePreference != nil {
		c.RemotePreference = *p.RemotePreference
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
}

// CandidateStats aggregates the candidate pool.
type CandidateStats struct {
	Total             int64            `json:"total_candidates"`
	Active            int64            `json:"active_candidates"`
	ByLocation        map[string]int64 `json:"by_location"`
	ByExperienceLevel map[string]int64 `json:"by_experience_level"`
	AverageExperience float64          `json:"average_experience_years"`
	TopSkills         []Count          `json:"top_skills"`
	TopPreferredRoles []Count          `json:"top_preferred_roles"`
}

// Count is a label with its number of occurrences.
type Count struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// ExperienceBucket maps years of experience to the stats bucket.
func ExperienceBucket(years int) string {
	switch {
	case years < 2:
		return "entry"
	case years < 5:
		return "mid"
	default:
		return "senior"
	}
}
