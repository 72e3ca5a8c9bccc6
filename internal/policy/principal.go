package policy

import (
	"context"
	"errors"

	"github.com/jobzee/jobzee/gate"
	"github.com/jobzee/jobzee/internal/models"
	"github.com/jobzee/jobzee/internal/repository"
)

// Principal is the resolved caller: its role permissions plus the tenant it
// belongs to. It is what the gate caches per user.
type Principal struct {
	*gate.RoleProfile
	UserID    uint
	Role      models.Role
	CompanyID uint
}

func (p *Principal) IsAdmin() bool { return p.Role == models.RoleAdmin }

// InCompany reports whether the principal is HR staff of companyID.
func (p *Principal) InCompany(companyID uint) bool {
	return companyID != 0 && p.Role == models.RoleHR && p.CompanyID == companyID
}

// UserLookup is the part of the user repository the resolver needs.
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// RoleResolver maps a user ID to its Principal. Unknown and inactive users
// resolve to nil, which the gate treats as no permissions.
type RoleResolver struct {
	users UserLookup
}

func NewRoleResolver(users UserLookup) *RoleResolver {
	return &RoleResolver{users: users}
}

func (r *RoleResolver) Resolve(ctx context.Context, userID uint) (gate.Profile, error) {
	u, err := r.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, nil
	}
	profile := ProfileFor(u.Role)
	if profile == nil {
		return nil, nil
	}
	return &Principal{
		RoleProfile: profile,
		UserID:      u.ID,
		Role:        u.Role,
		CompanyID:   u.TenantID(),
	}, nil
}
