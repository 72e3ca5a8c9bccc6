package services

import (
	"testing"

	"github.com/jobzee/jobzee/internal/models"
	"github.com/jobzee/jobzee/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Acme Corp":         "acme-corp",
		"  Globex, Inc.  ":  "globex-inc",
		"Société Générale":  "société-générale",
		"--already-a-slug-": "already-a-slug",
		"":                  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestCompanyService(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, "admin@jobzee.test", models.RoleAdmin, nil)
	seeker := f.user(t, "seeker@example.com", models.RoleCandidate, nil)
	svc := NewCompanyService(f.companies, f.gate)

	acme, err := svc.Create(as(admin), models.CompanyInput{Name: "Acme Corp", Size: "11-50"})
	require.NoError(t, err)
	assert.Equal(t, "acme-corp", acme.Slug)

	_, err = svc.Create(as(admin), models.CompanyInput{Name: "ACME corp"})
	assert.ErrorIs(t, err, ErrCompanyTaken)
	_, err = svc.Create(as(admin), models.CompanyInput{Name: "Weird", Slug: "Not A Slug"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "invalid_choice", verr.Violations["slug"])

	hr := f.user(t, "hr@acme.test", models.RoleHR, acme)
	globex := f.company(t, "Globex")
	rival := f.user(t, "hr@globex.test", models.RoleHR, globex)

	_, err = svc.Create(as(hr), models.CompanyInput{Name: "Initech"})
	assert.ErrorIs(t, err, ErrForbidden, "only admins create tenants")

	updated, err := svc.Update(as(hr), acme.ID, models.CompanyInput{Name: "Acme Corporation", Website: "https://acme.test"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corporation", updated.Name)
	assert.Equal(t, "acme-corp", updated.Slug, "slug is kept when omitted")

	_, err = svc.Update(as(rival), acme.ID, models.CompanyInput{Name: "Taken over"})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Update(as(seeker), acme.ID, models.CompanyInput{Name: "Taken over"})
	assert.ErrorIs(t, err, ErrForbidden)

	page, err := svc.List(as(seeker), "", repository.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	got, err := svc.Get(as(seeker), acme.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corporation", got.Name)

	bySlug, err := svc.GetBySlug(as(seeker), " ACME-corp ")
	require.NoError(t, err)
	assert.Equal(t, acme.ID, bySlug.ID)
	_, err = svc.GetBySlug(as(seeker), "initech")
	assert.ErrorIs(t, err, ErrNotFound)
}
