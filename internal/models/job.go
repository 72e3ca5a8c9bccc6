package models

import (
	"time"

	"gorm.io/gorm"
)

type JobStatus string

const (
	JobStatusDraft  JobStatus = "draft"
	JobStatusActive JobStatus = "active"
	JobStatusClosed JobStatus = "closed"
)

// Job types.
const (
	JobTypeFullTime   = "full-time"
	JobTypePartTime   = "part-time"
	JobTypeContract   = "contract"
	JobTypeInternship = "internship"
)

// ExperienceLevels lists the accepted job seniority levels.
var ExperienceLevels = []string{"entry", "junior", "mid", "senior", "lead", "principal"}

// JobTypes lists the accepted employment types.
var JobTypes = []string{JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship}

// Job is a posting owned by a company and created by one of its HR users.
type Job struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	CompanyID *uint `gorm:"index" json:"company_id,omitempty"`
	CreatedBy uint  `gorm:"index;not null" json:"created_by"`

	Title           string    `gorm:"size:255;not null" json:"title"`
	CompanyName     string    `gorm:"column:company;size:255;not null" json:"company"`
	Location        string    `gorm:"size:255" json:"location"`
	Description     string    `gorm:"type:text" json:"description"`
	Requirements    []string  `gorm:"serializer:json;type:text" json:"requirements"`
	Skills          []string  `gorm:"serializer:json;type:text" json:"skills"`
	ExperienceLevel string    `gorm:"size:20" json:"experience_level"`
	SalaryRange     string    `gorm:"size:100" json:"salary_range"`
	JobType         string    `gorm:"size:20" json:"job_type"`
	RemoteFriendly  bool      `gorm:"not null;default:false" json:"remote_friendly"`
	Status          JobStatus `gorm:"size:20;not null;default:active;index" json:"status"`
}

// GetUserID implements Ownable: the creator of the posting.
func (j *Job) GetUserID() uint {
	return j.CreatedBy
}

// GetCompanyID returns the tenant of the posting, or 0.
func (j *Job) GetCompanyID() uint {
	if j.CompanyID == nil {
		return 0
	}
	return *j.CompanyID
}

// IsOpen reports whether candidates may still apply.
func (j *Job) IsOpen() bool {
	return j.Status == JobStatusActive
}

// JobInput is the create payload. Update uses JobPatch.
type JobInput struct {
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	Location        string    `json:"location"`
	Description     string    `json:"description"`
	Requirements    []string  `json:"requirements"`
	Skills          []string  `json:"skills"`
	ExperienceLevel string    `json:"experience_level"`
	SalaryRange     string    `json:"salary_range"`
	JobType         string    `json:"job_type"`
	RemoteFriendly  bool      `json:"remote_friendly"`
	Status          JobStatus `json:"status"`
}

// JobPatch carries a partial job update; nil fields are left untouched.
type JobPatch struct {
	Title           *string    `json:"title,omitempty"`
	Location        *string    `json:"location,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Requirements    *[]string  `json:"requirements,omitempty"`
	Skills          *[]string  `json:"skills,omitempty"`
	ExperienceLevel *string    `json:"experience_level,omitempty"`
	SalaryRange     *string    `json:"salary_range,omitempty"`
	JobType         *string    `json:"job_type,omitempty"`
	RemoteFriendly  *bool      `json:"remote_friendly,omitempty"`
	Status          *JobStatus `json:"status,omitempty"`
}

// Apply copies the non-nil fields onto j.
func (p JobPatch) Apply(j *Job) {
	if p.Title != nil {
		j.Title = *p.Title
	}
	if p.Location != nil {
		j.Location = *p.Location
	}
	if p.Description != nil {
		j.Description = *p.Description
	}
	if p.Requirements != nil {
		j.Requirements = *p.Requirements
	}
	if p.Skills != nil {
		j.Skills = *p.Skills
	}
	if p.ExperienceLevel != nil {
		j.ExperienceLevel = *p.ExperienceLevel
	}
	if p.SalaryRange != nil {
		j.SalaryRange = *p.SalaryRange
	}
	if p.JobType != nil {
		j.JobType = *p.JobType
	}
	if p.RemoteFriendly != nil {
		j.RemoteFriendly = *p.RemoteFriendly
	}
	if p.Status != nil {
		j.Status = *p.Status
	}
}
