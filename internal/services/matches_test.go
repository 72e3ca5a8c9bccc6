package services

import (
	"testing"

	"github.com/jobzee/jobzee/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchService(t *testing.T) {
	f := newFixture(t)
	acme := f.company(t, "Acme Corp")
	globex := f.company(t, "Globex")
	hr := f.user(t, "hr@acme.test", models.RoleHR, acme)
	rival := f.user(t, "hr@globex.test", models.RoleHR, globex)
	seeker := f.user(t, "seeker@example.com", models.RoleCandidate, nil)
	other := f.user(t, "other@example.com", models.RoleCandidate, nil)
	profile := f.candidate(t, seeker, 4, "go", "sql")
	f.candidate(t, other, 15, "cobol")

	strong := f.job(t, acme, hr, models.JobStatusActive, "go", "sql")
	weak := f.job(t, acme, hr, models.JobStatusActive, "java")
	f.job(t, acme, hr, models.JobStatusClosed, "go", "sql")
	svc := NewMatchService(f.jobs, f.candidates, f.gate)

	jobs, err := svc.MatchJobsForCandidate(as(seeker), profile.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 2, "closed postings are not matched")
	assert.Equal(t, strong.ID, jobs[0].Job.ID)
	assert.Equal(t, weak.ID, jobs[1].Job.ID)
	assert.Equal(t, []string{"go", "sql"}, jobs[0].MatchedSkills)

	jobs, err = svc.MatchJobsForCandidate(as(seeker), profile.ID, 0.9, 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	jobs, err = svc.MatchJobsForCandidate(as(seeker), profile.ID, 0, 1)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)

	_, err = svc.MatchJobsForCandidate(as(other), profile.ID, 0, 0)
	assert.ErrorIs(t, err, ErrForbidden)

	cands, err := svc.MatchCandidatesForJob(as(hr), strong.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, cands, 2)
	assert.Equal(t, profile.ID, cands[0].Candidate.ID)
	for _, c := range cands {
		assert.GreaterOrEqual(t, c.Score, 0.0)
		assert.LessOrEqual(t, c.Score, 1.0)
	}

	_, err = svc.MatchCandidatesForJob(as(rival), strong.ID, 0, 0)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.MatchCandidatesForJob(as(seeker), strong.ID, 0, 0)
	assert.ErrorIs(t, err, ErrForbidden)
}
