package services

import (
	"context"
	"sort"

	"github.com/jobzee/jobzee/internal/matching"
	"github.com/jobzee/jobzee/internal/models"
	"github.com/jobzee/jobzee/internal/policy"
	"github.com/jobzee/jobzee/internal/repository"
)

const (
	// matchPool bounds how many records are scored per request.
	matchPool         = 500
	defaultMatchLimit = 10
	maxMatchLimit     = 100
)

// JobMatch is an open job scored against a candidate.
type JobMatch struct {
	Job models.Job `json:"job"`
	matching.Result
}

// CandidateMatch is an active candidate scored against a job.
type CandidateMatch struct {
	Candidate models.Candidate `json:"candidate"`
	matching.Result
}

// MatchService ranks jobs and candidates against each other.
type MatchService struct {
	jobs       repository.JobStore
	candidates repository.CandidateStore
	authz      Authorizer
}

func NewMatchService(jobs repository.JobStore, candidates repository.CandidateStore, authz Authorizer) *MatchService {
	return &MatchService{jobs: jobs, candidates: candidates, authz: authz}
}

// MatchJobsForCandidate returns open jobs scoring at least minScore for the
// candidate, best first.
func (s *MatchService) MatchJobsForCandidate(ctx context.Context, candidateID uint, minScore float64, limit int) ([]JobMatch, error) {
	c, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, policy.ActionMatch, policy.ResourceCandidate, c); err != nil {
		return nil, err
	}
	jobs, err := s.jobs.ListActive(ctx, matchPool)
	if err != nil {
		return nil, err
	}

	out := make([]JobMatch, 0, len(jobs))
	for _, j := range jobs {
		if r := matching.Score(c, &j); r.Score >= minScore {
			out = append(out, JobMatch{Job: j, Result: r})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out[:min(len(out), clampLimit(limit))], nil
}

// MatchCandidatesForJob returns active candidates scoring at least minScore
// for the job, best first. Only HR of the job's company and admins may ask.
func (s *MatchService) MatchCandidatesForJob(ctx context.Context, jobID uint, minScore float64, limit int) ([]CandidateMatch, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, policy.ActionMatch, policy.ResourceJob, job); err != nil {
		return nil, err
	}
	candidates, err := s.candidates.ListActive(ctx, matchPool)
	if err != nil {
		return nil, err
	}

	out := make([]CandidateMatch, 0, len(candidates))
	for _, c := range candidates {
		if r := matching.Score(&c, job); r.Score >= minScore {
			out = append(out, CandidateMatch{Candidate: c, Result: r})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out[:min(len(out), clampLimit(limit))], nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultMatchLimit
	}
	return min(limit, maxMatchLimit)
}
