package services

import (
	"context"
	"strings"
	"testing"

	"github.com/jobzee/jobzee/internal/models"
	"github.com/jobzee/jobzee/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateService_CreateAndOwnership(t *testing.T) {
	f := newFixture(t)
	acme := f.company(t, "Acme Corp")
	hr := f.user(t, "hr@acme.test", models.RoleHR, acme)
	seeker := f.user(t, "seeker@example.com", models.RoleCandidate, nil)
	other := f.user(t, "other@example.com", models.RoleCandidate, nil)
	svc := NewCandidateService(f.candidates, f.users, f.objects, f.gate)

	c, err := svc.CreateCandidate(as(seeker), models.CandidateInput{Skills: []string{"go"}, ExperienceYears: 3})
	require.NoError(t, err)
	assert.Equal(t, seeker.Name(), c.Name)
	assert.Equal(t, "seeker@example.com", c.Email)
	assert.Equal(t, seeker.ID, c.GetUserID())

	_, err = svc.CreateCandidate(as(seeker), models.CandidateInput{})
	assert.ErrorIs(t, err, ErrCandidateExists)
	_, err = svc.CreateCandidate(as(hr), models.CandidateInput{})
	assert.ErrorIs(t, err, ErrForbidden)

	mine, err := svc.GetMine(as(seeker))
	require.NoError(t, err)
	assert.Equal(t, c.ID, mine.ID)
	_, err = svc.GetMine(as(other))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetCandidate(as(hr), c.ID)
	assert.NoError(t, err, "HR may view profiles")
	_, err = svc.GetCandidate(as(other), c.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateCandidate(as(hr), c.ID, models.CandidatePatch{Location: ptr("Lyon")})
	assert.ErrorIs(t, err, ErrForbidden)
	updated, err := svc.UpdateCandidate(as(seeker), c.ID, models.CandidatePatch{Location: ptr("Lyon"), ExperienceYears: ptr(5)})
	require.NoError(t, err)
	assert.Equal(t, "Lyon", updated.Location)
	assert.Equal(t, 5, updated.ExperienceYears)

	_, err = svc.UpdateCandidate(as(seeker), c.ID, models.CandidatePatch{ExperienceYears: ptr(-1)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "out_of_range", verr.Violations["experience_years"])

	assert.ErrorIs(t, svc.DeleteCandidate(as(other), c.ID), ErrForbidden)
	require.NoError(t, svc.DeleteCandidate(as(seeker), c.ID))
	_, err = svc.GetCandidate(as(hr), c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCandidateService_UploadResume(t *testing.T) {
	f := newFixture(t)
	seeker := f.user(t, "seeker@example.com", models.RoleCandidate, nil)
	c := f.candidate(t, seeker, 2, "go")
	svc := NewCandidateService(f.candidates, f.users, f.objects, f.gate)
	ctx := as(seeker)

	_, err := svc.UploadResume(ctx, c.ID, "malware.exe", 10, strings.NewReader("MZ"))
	assert.ErrorIs(t, err, ErrInvalidFileType)
	_, err = svc.UploadResume(ctx, c.ID, "cv.pdf", MaxResumeSize+1, strings.NewReader("%PDF"))
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Empty(t, f.objects.Keys())

	updated, err := svc.UploadResume(ctx, c.ID, "My CV.PDF", 4, strings.NewReader("%PDF"))
	require.NoError(t, err)
	keys := f.objects.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], "resumes/"), keys[0])
	assert.True(t, strings.HasSuffix(keys[0], ".pdf"), keys[0])
	assert.Equal(t, f.objects.URL(keys[0]), updated.ResumeURL)

	obj, err := f.objects.Get(ctx, keys[0])
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", obj.ContentType)

	replaced, err := svc.UploadResume(ctx, c.ID, "cv-2024.docx", 4, strings.NewReader("PK.."))
	require.NoError(t, err)
	keys = f.objects.Keys()
	require.Len(t, keys, 1, "the previous resume is removed")
	assert.True(t, strings.HasSuffix(keys[0], ".docx"), keys[0])
	assert.Equal(t, f.objects.URL(keys[0]), replaced.ResumeURL)
}

func TestCandidateService_UploadResumeKeepsForeignURL(t *testing.T) {
	f := newFixture(t)
	seeker := f.user(t, "seeker@example.com", models.RoleCandidate, nil)
	c := f.candidate(t, seeker, 2, "go")
	c.ResumeURL = "https://cdn.example.com/legacy/cv.pdf"
	require.NoError(t, f.candidates.Update(context.Background(), c))
	require.NoError(t, f.objects.Put(context.Background(), "legacy/cv.pdf", strings.NewReader("%PDF"), 4, "application/pdf"))
	svc := NewCandidateService(f.candidates, f.users, f.objects, f.gate)

	_, err := svc.UploadResume(as(seeker), c.ID, "cv.pdf", 4, strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.Len(t, f.objects.Keys(), 2, "URLs the store did not issue are left alone")
}

func TestCandidateService_SearchAndStats(t *testing.T) {
	f := newFixture(t)
	acme := f.company(t, "Acme Corp")
	hr := f.user(t, "hr@acme.test", models.RoleHR, acme)
	junior := f.user(t, "junior@example.com", models.RoleCandidate, nil)
	senior := f.user(t, "senior@example.com", models.RoleCandidate, nil)
	f.candidate(t, junior, 1, "go")
	f.candidate(t, senior, 6, "go", "kafka", "sql")
	svc := NewCandidateService(f.candidates, f.users, f.objects, f.gate)

	page, err := svc.SearchCandidates(as(hr), repository.CandidateFilter{Skills: []string{"go", "kafka"}, MinExperienceYears: 0})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "senior@example.com", page.Items[0].Email, "best match first")
	assert.GreaterOrEqual(t, page.Items[0].RelevanceScore, page.Items[1].RelevanceScore)

	_, err = svc.SearchCandidates(as(junior), repository.CandidateFilter{})
	assert.ErrorIs(t, err, ErrForbidden, "candidates cannot browse the pool")

	stats, err := svc.Stats(as(hr), repository.CandidateFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Total)
	assert.EqualValues(t, 1, stats.ByExperienceLevel["entry"])
	assert.EqualValues(t, 1, stats.ByExperienceLevel["senior"])
	_, err = svc.Stats(as(junior), repository.CandidateFilter{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestLevelForYears(t *testing.T) {
	tests := []struct {
		years int
		want  string
	}{
		{0, ""},
		{2, "entry"},
		{4, "mid"},
		{7, "senior"},
		{10, "lead"},
		{15, "principal"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levelForYears(tt.years), "years=%d", tt.years)
	}
}
