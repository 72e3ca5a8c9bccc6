package policy

import (
	"context"

	"github.com/jobzee/jobzee/gate"
	"github.com/jobzee/jobzee/internal/models"
)

// Ownable is implemented by records that belong to one user.
type Ownable interface {
	GetUserID() uint
}

// Tenanted is implemented by records that belong to a company.
type Tenanted interface {
	GetCompanyID() uint
}

// OwnershipPolicy allows a user to act on records they own. Records that do
// not implement Ownable are denied.
type OwnershipPolicy struct{}

func NewOwnershipPolicy() *OwnershipPolicy {
	return &OwnershipPolicy{}
}

func (p *OwnershipPolicy) Can(_ context.Context, userID uint, _ gate.Action, resource any) bool {
	if resource == nil {
		return true
	}
	ownable, ok := resource.(Ownable)
	if !ok {
		return false
	}
	return ownable.GetUserID() == userID
}

// AdminBypassPolicy lets admins through before consulting inner.
type AdminBypassPolicy struct {
	inner   gate.Policy[uint]
	isAdmin func(ctx context.Context, userID uint) bool
}

func NewAdminBypassPolicy(inner gate.Policy[uint], isAdmin func(ctx context.Context, userID uint) bool) *AdminBypassPolicy {
	return &AdminBypassPolicy{inner: inner, isAdmin: isAdmin}
}

func (p *AdminBypassPolicy) Can(ctx context.Context, userID uint, action gate.Action, resource any) bool {
	if p.isAdmin(ctx, userID) {
		return true
	}
	return p.inner.Can(ctx, userID, action, resource)
}

// TenantPolicy confines HR staff to the records of their own company.
type TenantPolicy struct {
	principal func(ctx context.Context, userID uint) *Principal
	owner     *OwnershipPolicy
}

func NewTenantPolicy(principal func(ctx context.Context, userID uint) *Principal) *TenantPolicy {
	return &TenantPolicy{principal: principal, owner: NewOwnershipPolicy()}
}

func (p *TenantPolicy) Can(ctx context.Context, userID uint, action gate.Action, resource any) bool {
	if resource == nil {
		return true
	}
	pr := p.principal(ctx, userID)
	if pr == nil {
		return false
	}

	switch r := resource.(type) {
	case *models.Job:
		if action == gate.ActionView || action == gate.ActionList {
			return r.IsOpen() || pr.InCompany(r.GetCompanyID())
		}
		return pr.InCompany(r.GetCompanyID())

	case *models.Company:
		if action == gate.ActionView || action == gate.ActionList {
			return true
		}
		return pr.InCompany(r.ID)

	case *models.Application:
		if action == ActionWithdraw {
			return p.owner.Can(ctx, userID, action, r)
		}
		if r.Job != nil && pr.InCompany(r.Job.GetCompanyID()) {
			return true
		}
		return action == gate.ActionView && p.owner.Can(ctx, userID, action, r)

	case *models.Candidate:
		if action == gate.ActionView && pr.Role == models.RoleHR {
			return true
		}
		return p.owner.Can(ctx, userID, action, r)
	}

	if t, ok := resource.(Tenanted); ok {
		return pr.InCompany(t.GetCompanyID())
	}
	return p.owner.Can(ctx, userID, action, resource)
}
