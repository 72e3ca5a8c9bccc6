package services

import (
	"context"
	"testing"

	"github.com/jobzee/jobzee/internal/events"
	"github.com/jobzee/jobzee/internal/models"
	"github.com/jobzee/jobzee/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobService_CreateJob(t *testing.T) {
	f := newFixture(t)
	acme := f.company(t, "Acme Corp")
	hr := f.user(t, "hr@acme.test", models.RoleHR, acme)
	loner := f.user(t, "hr@nowhere.test", models.RoleHR, nil)
	seeker := f.user(t, "seeker@example.com", models.RoleCandidate, nil)
	svc := NewJobService(f.jobs, f.companies, f.cache, f.gate, f.events)

	in := models.JobInput{Title: "Go Developer", Description: "APIs", Skills: []string{"go"}, ExperienceLevel: "mid", JobType: models.JobTypeFullTime}
	job, err := svc.CreateJob(as(hr), in)
	require.NoError(t, err)
	assert.Equal(t, acme.ID, job.GetCompanyID())
	assert.Equal(t, "Acme Corp", job.CompanyName)
	assert.Equal(t, models.JobStatusActive, job.Status)
	assert.Equal(t, hr.ID, job.CreatedBy)
	assert.Equal(t, []string{events.JobCreated}, f.events.Types())

	_, err = svc.CreateJob(as(loner), in)
	assert.ErrorIs(t, err, ErrForbidden, "HR without a company cannot post")
	_, err = svc.CreateJob(as(seeker), in)
	assert.ErrorIs(t, err, ErrForbidden)

	bad := in
	bad.Title = ""
	bad.JobType = "gig"
	_, err = svc.CreateJob(as(hr), bad)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "required", verr.Violations["title"])
	assert.Equal(t, "invalid_choice", verr.Violations["job_type"])
}

func TestJobService_GetJobReadsThroughCache(t *testing.T) {
	f := newFixture(t)
	acme := f.company(t, "Acme Corp")
	hr := f.user(t, "hr@acme.test", models.RoleHR, acme)
	seeker := f.user(t, "seeker@example.com", models.RoleCandidate, nil)
	job := f.job(t, acme, hr, models.JobStatusActive, "go")
	svc := NewJobService(f.jobs, f.companies, f.cache, f.gate, f.events)
	ctx := as(seeker)

	got, err := svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", got.Title)

	// Writes that bypass the service are not seen until the entry expires.
	job.Title = "Stale"
	require.NoError(t, f.jobs.Update(context.Background(), job))
	got, err = svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", got.Title)

	_, err = svc.UpdateJob(as(hr), job.ID, models.JobPatch{Title: ptr("Platform Engineer")})
	require.NoError(t, err)
	got, err = svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Platform Engineer", got.Title)

	require.NoError(t, svc.DeleteJob(as(hr), job.ID))
	_, err = svc.GetJob(ctx, job.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []string{events.JobUpdated, events.JobDeleted}, f.events.Types())
}

func TestJobService_TenantIsolation(t *testing.T) {
	f := newFixture(t)
	acme := f.company(t, "Acme Corp")
	globex := f.company(t, "Globex")
	hr := f.user(t, "hr@acme.test", models.RoleHR, acme)
	rival := f.user(t, "hr@globex.test", models.RoleHR, globex)
	admin := f.user(t, "admin@jobzee.test", models.RoleAdmin, nil)
	job := f.job(t, acme, hr, models.JobStatusActive)
	svc := NewJobService(f.jobs, f.companies, f.cache, f.gate, f.events)

	_, err := svc.UpdateJob(as(rival), job.ID, models.JobPatch{Title: ptr("Hijacked")})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.CloseJob(as(rival), job.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.DeleteJob(as(rival), job.ID), ErrForbidden)

	closed, err := svc.CloseJob(as(admin), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusClosed, closed.Status)
	assert.Equal(t, []string{events.JobClosed}, f.events.Types())

	_, err = svc.UpdateJob(as(hr), job.ID, models.JobPatch{Status: ptr(models.JobStatus("archived"))})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestJobService_Visibility(t *testing.T) {
	f := newFixture(t)
	acme := f.company(t, "Acme Corp")
	hr := f.user(t, "hr@acme.test", models.RoleHR, acme)
	seeker := f.user(t, "seeker@example.com", models.RoleCandidate, nil)
	open := f.job(t, acme, hr, models.JobStatusActive)
	draft := f.job(t, acme, hr, models.JobStatusDraft)
	svc := NewJobService(f.jobs, f.companies, f.cache, f.gate, f.events)

	_, err := svc.GetJob(as(seeker), draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetJob(as(hr), draft.ID)
	assert.NoError(t, err)

	page, err := svc.SearchJobs(as(seeker), "", "", nil, repository.Page{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, open.ID, page.Items[0].ID)

	page, err = svc.ListJobs(as(hr), repository.JobFilter{CompanyID: acme.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total, "HR sees its own drafts")

	counts, err := svc.CountByStatus(as(hr), acme.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[models.JobStatusDraft])
	_, err = svc.CountByStatus(as(seeker), acme.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}
