package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jobzee/jobzee/internal/models"
	"github.com/jobzee/jobzee/internal/repository"
	"github.com/jobzee/jobzee/validation"
)

// UserService is the admin view over accounts. Routes reach it only
// through RequireAdmin.
type UserService struct {
	users     repository.UserStore
	companies repository.CompanyStore
	authz     Authorizer
}

func NewUserService(users repository.UserStore, companies repository.CompanyStore, authz Authorizer) *UserService {
	return &UserService{users: users, companies: companies, authz: authz}
}

func (s *UserService) List(ctx context.Context, f repository.UserFilter) (repository.Paginated[models.User], error) {
	return s.users.Filter(ctx, f)
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetUserWithProfile(ctx, id)
}

func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.users.CountUsers(ctx)
}

// Update changes role, status or tenant. A company ID of 0 detaches the user.
func (s *UserService) Update(ctx context.Context, id uint, req models.AdminUserUpdate) (*models.User, error) {
	v := validation.Violations{}
	if req.Role != nil && !req.Role.Valid() {
		v.Add("role", "invalid_choice")
	}
	if req.CompanyID != nil && *req.CompanyID != 0 {
		if _, err := s.companies.GetByID(ctx, *req.CompanyID); err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			v.Add("company_id", "not_found")
		}
	}
	if err := invalid(v); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.EmailVerified != nil {
		user.EmailVerified = *req.EmailVerified
	}
	if req.CompanyID != nil {
		if *req.CompanyID == 0 {
			user.CompanyID = nil
		} else {
			companyID := *req.CompanyID
			user.CompanyID = &companyID
		}
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.authz.InvalidateUser(id)
	return user, nil
}

// Delete soft-deletes an account. Admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	if pr := s.authz.Principal(ctx); pr != nil && pr.UserID == id {
		return ErrForbidden
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.authz.InvalidateUser(id)
	return nil
}
