package services

import (
	"context"
	"testing"

	"github.com/jobzee/jobzee/gate"
	"github.com/jobzee/jobzee/internal/models"
	"github.com/jobzee/jobzee/internal/policy"
	"github.com/jobzee/jobzee/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_UpdateInvalidatesPermissions(t *testing.T) {
	f := newFixture(t)
	acme := f.company(t, "Acme Corp")
	admin := f.user(t, "admin@jobzee.test", models.RoleAdmin, nil)
	target := f.user(t, "someone@example.com", models.RoleCandidate, nil)
	svc := NewUserService(f.users, f.companies, f.gate)
	ctx := as(target)

	assert.False(t, f.gate.CanProfile(ctx, gate.ActionCreate, policy.ResourceJob))

	updated, err := svc.Update(as(admin), target.ID, models.AdminUserUpdate{
		Role:      ptr(models.RoleHR),
		CompanyID: ptr(acme.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleHR, updated.Role)
	assert.Equal(t, acme.ID, updated.TenantID())
	assert.True(t, f.gate.CanProfile(ctx, gate.ActionCreate, policy.ResourceJob), "cached principal must be refreshed")

	_, err = svc.Update(as(admin), target.ID, models.AdminUserUpdate{IsActive: ptr(false)})
	require.NoError(t, err)
	assert.Nil(t, f.gate.Principal(ctx), "disabled users resolve to no principal")

	detached, err := svc.Update(as(admin), target.ID, models.AdminUserUpdate{CompanyID: ptr(uint(0))})
	require.NoError(t, err)
	assert.Nil(t, detached.CompanyID)

	_, err = svc.Update(as(admin), target.ID, models.AdminUserUpdate{Role: ptr(models.Role("root")), CompanyID: ptr(uint(999))})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "invalid_choice", verr.Violations["role"])
	assert.Equal(t, "not_found", verr.Violations["company_id"])
}

func TestUserService_ListAndDelete(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, "admin@jobzee.test", models.RoleAdmin, nil)
	f.user(t, "ada@example.com", models.RoleCandidate, nil)
	grace := f.user(t, "grace@example.com", models.RoleCandidate, nil)
	svc := NewUserService(f.users, f.companies, f.gate)

	page, err := svc.List(context.Background(), repository.UserFilter{Role: models.RoleCandidate})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	assert.ErrorIs(t, svc.Delete(as(admin), admin.ID), ErrForbidden)
	require.NoError(t, svc.Delete(as(admin), grace.ID))
	assert.ErrorIs(t, svc.Delete(as(admin), grace.ID), ErrNotFound)

	n, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	got, err := svc.Get(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)
}
