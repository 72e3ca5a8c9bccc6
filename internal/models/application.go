package models

import (
	"time"

	"gorm.io/gorm"
)

type ApplicationStatus string

const (
	StatusApplied     ApplicationStatus = "applied"
	StatusReviewing   ApplicationStatus = "reviewing"
	StatusInterview   ApplicationStatus = "interview"
	StatusRejected    ApplicationStatus = "rejected"
	StatusAccepted    ApplicationStatus = "accepted"
	StatusWithdrawn   ApplicationStatus = "withdrawn"
	StatusRecommended ApplicationStatus = "recommended"
)

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusRecommended: {StatusApplied, StatusWithdrawn},
	StatusApplied:     {StatusReviewing, StatusRejected, StatusWithdrawn},
	StatusReviewing:   {StatusInterview, StatusRejected, StatusWithdrawn},
	StatusInterview:   {StatusAccepted, StatusRejected, StatusWithdrawn},
}

// CanTransition reports whether the lifecycle allows moving from s to next.
func (s ApplicationStatus) CanTransition(next ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s ApplicationStatus) IsTerminal() bool {
	return len(applicationTransitions[s]) == 0
}

// Application links a user to a job posting.
type Application struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UserID uint              `gorm:"index;not null" json:"user_id"`
	JobID  uint              `gorm:"index;not null" json:"job_id"`
	Status ApplicationStatus `gorm:"size:20;not null;default:applied;index" json:"status"`

	CoverLetter  *string   `gorm:"type:text" json:"cover_letter,omitempty"`
	ResumeURL    *string   `gorm:"size:500" json:"resume_url,omitempty"`
	PortfolioURL *string   `gorm:"size:500" json:"portfolio_url,omitempty"`
	GitHubURL    *string   `gorm:"size:500" json:"github_url,omitempty"`
	LinkedInURL  *string   `gorm:"size:500" json:"linkedin_url,omitempty"`
	AppliedAt    time.Time `json:"applied_at"`

	InterviewDate  *time.Time `json:"interview_date,omitempty"`
	InterviewType  *string    `gorm:"size:20" json:"interview_type,omitempty"` // phone, video, onsite
	InterviewNotes *string    `gorm:"type:text" json:"interview_notes,omitempty"`

	AgentFeedback *string  `gorm:"type:text" json:"agent_feedback,omitempty"`
	MatchScore    *float64 `json:"match_score,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Job  *Job  `gorm:"foreignKey:JobID" json:"job,omitempty"`
}

// GetUserID implements Ownable: the applicant.
func (a *Application) GetUserID() uint {
	return a.UserID
}

// CreateApplicationRequest is the apply payload.
type CreateApplicationRequest struct {
	JobID        uint    `json:"job_id"`
	CoverLetter  *string `json:"cover_letter,omitempty"`
	ResumeURL    *string `json:"resume_url,omitempty"`
	PortfolioURL *string `json:"portfolio_url,omitempty"`
	GitHubURL    *string `json:"github_url,omitempty"`
	LinkedInURL  *string `json:"linkedin_url,omitempty"`
}

// UpdateApplicationStatusRequest moves an application through its lifecycle.
type UpdateApplicationStatusRequest struct {
	Status         ApplicationStatus `json:"status"`
	InterviewDate  *time.Time        `json:"interview_date,omitempty"`
	InterviewType  *string           `json:"interview_type,omitempty"`
	InterviewNotes *string           `json:"interview_notes,omitempty"`
	AgentFeedback  *string           `json:"agent_feedback,omitempty"`
}
