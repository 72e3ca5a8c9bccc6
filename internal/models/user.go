package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role is the account type. It also selects the authorization profile.
type Role string

const (
	RoleCandidate Role = "candidate"
	RoleHR        Role = "hr"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleCandidate, RoleHR, RoleAdmin:
		return true
	}
	return false
}

// User represents an authenticated user in the system.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Email         string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password      string     `gorm:"size:255;not null" json:"-"` // Hashed, never exposed in JSON
	FirstName     string     `gorm:"size:100;not null" json:"first_name"`
	LastName      string     `gorm:"size:100;not null" json:"last_name"`
	Role          Role       `gorm:"size:20;not null;default:candidate;index" json:"role"`
	IsActive      bool       `gorm:"not null;default:true" json:"is_active"`
	EmailVerified bool       `gorm:"not null;default:false" json:"email_verified"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`

	// Profile information
	Phone             *string `gorm:"size:50" json:"phone,omitempty"`
	Location          *string `gorm:"size:255" json:"location,omitempty"`
	Bio               *string `gorm:"type:text" json:"bio,omitempty"`
	ProfilePictureURL *string `gorm:"size:500" json:"profile_picture_url,omitempty"`

	// CompanyID is the tenant of HR users. Candidates have none.
	CompanyID   *uint    `gorm:"index" json:"company_id,omitempty"`
	Company     *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	CompanyName *string  `gorm:"size:255" json:"company_name,omitempty"`
	JobTitle    *string  `gorm:"size:255" json:"job_title,omitempty"`

	CandidateProfile *Candidate    `gorm:"foreignKey:UserID" json:"candidate_profile,omitempty"`
	Jobs             []Job         `gorm:"foreignKey:CreatedBy" json:"jobs,omitempty"`
	Applications     []Application `gorm:"foreignKey:UserID" json:"applications,omitempty"`
}

// Name returns the display name.
func (u *User) Name() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// TenantID returns the company the user belongs to, or 0.
func (u *User) TenantID() uint {
	if u.CompanyID == nil {
		return 0
	}
	return *u.CompanyID
}

// NormalizeEmail lower-cases and trims an address before storage or lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterRequest is the self-service sign-up payload.
type RegisterRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Role      Role    `json:"role"`
	Phone     *string `json:"phone,omitempty"`
	Location  *string `json:"location,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// UpdateProfileRequest carries a partial profile update; nil fields are left untouched.
type UpdateProfileRequest struct {
	FirstName         *string `json:"first_name,omitempty"`
	LastName          *string `json:"last_name,omitempty"`
	Phone             *string `json:"phone,omitempty"`
	Location          *string `json:"location,omitempty"`
	Bio               *string `json:"bio,omitempty"`
	ProfilePictureURL *string `json:"profile_picture_url,omitempty"`
	CompanyName       *string `json:"company_name,omitempty"`
	JobTitle          *string `json:"job_title,omitempty"`
}

// AdminUserUpdate is the admin-only user patch.
type AdminUserUpdate struct {
	Role          *Role `json:"role,omitempty"`
	IsActive      *bool `json:"is_active,omitempty"`
	EmailVerified *bool `json:"email_verified,omitempty"`
	CompanyID     *uint `json:"company_id,omitempty"`
}

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
