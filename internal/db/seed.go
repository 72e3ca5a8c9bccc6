package db

import (
	"errors"
	"fmt"

	"github.com/jobzee/jobzee/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOptions configures the bootstrap data.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	BcryptCost    int
}

// Seed creates the bootstrap admin account when credentials are configured.
// It is safe to run on every start.
func Seed(db *gorm.DB, opts SeedOptions) error {
	if opts.AdminEmail == "" || opts.AdminPassword == "" {
		return nil
	}
	email := models.NormalizeEmail(opts.AdminEmail)

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if existing.Role != models.RoleAdmin {
			return db.Model(&existing).Update("role", models.RoleAdmin).Error
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}

	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), cost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := models.User{
		Email:         email,
		Password:      string(hash),
		FirstName:     "Admin",
		LastName:      "Jobzee",
		Role:          models.RoleAdmin,
		IsActive:      true,
		EmailVerified: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}
