package models

import (
	"time"

	"gorm.io/gorm"
)

// Company is a tenant. HR users and the jobs they post belong to one company.
type Company struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name        string `gorm:"size:255;not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Website     string `gorm:"size:255" json:"website,omitempty"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Location    string `gorm:"size:255" json:"location,omitempty"`
	LogoURL     string `gorm:"size:500" json:"logo_url,omitempty"`
	Size        string `gorm:"size:50" json:"size,omitempty"` // e.g. "1-10", "11-50"
}

// GetCompanyID implements the tenant interface used by authorization policies.
func (c *Company) GetCompanyID() uint {
	return c.ID
}

// CompanyInput is the create/update payload for companies.
type CompanyInput struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Website     string `json:"website"`
	Description string `json:"description"`
	Location    string `json:"location"`
	LogoURL     string `json:"logo_url"`
	Size        string `json:"size"`
}
