package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jobzee/jobzee/gate"
	"github.com/jobzee/jobzee/internal/cache"
	"github.com/jobzee/jobzee/internal/events"
	"github.com/jobzee/jobzee/internal/log"
	"github.com/jobzee/jobzee/internal/metrics"
	"github.com/jobzee/jobzee/internal/models"
	"github.com/jobzee/jobzee/internal/policy"
	"github.com/jobzee/jobzee/internal/repository"
	"github.com/jobzee/jobzee/validation"
)

const jobCacheTTL = 5 * time.Minute

var editableJobStatuses = []string{string(models.JobStatusDraft), string(models.JobStatusActive), string(models.JobStatusClosed)}

func jobCacheKey(id uint) string { return fmt.Sprintf("job:%d", id) }

// JobService manages postings. Reads go through the cache.
type JobService struct {
	jobs      repository.JobStore
	companies repository.CompanyStore
	cache     cache.Cache
	authz     Authorizer
	events    events.Publisher
}

func NewJobService(jobs repository.JobStore, companies repository.CompanyStore, c cache.Cache, authz Authorizer, pub events.Publisher) *JobService {
	return &JobService{jobs: jobs, companies: companies, cache: c, authz: authz, events: pub}
}

// CreateJob posts a job for the caller's company. HR users without a
// company cannot post.
func (s *JobService) CreateJob(ctx context.Context, in models.JobInput) (*models.Job, error) {
	pr, err := caller(ctx, s.authz)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, gate.ActionCreate, policy.ResourceJob, nil); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = models.JobStatusActive
	}
	v := validation.Violations{}
	validation.Required("title", in.Title, v)
	validation.Required("description", in.Description, v)
	validation.OneOf("experience_level", in.ExperienceLevel, models.ExperienceLevels, v)
	validation.OneOf("job_type", in.JobType, models.JobTypes, v)
	validation.OneOf("status", string(in.Status), editableJobStatuses, v)
	if err := invalid(v); err != nil {
		return nil, err
	}

	job := &models.Job{
		CreatedBy:       pr.UserID,
		Title:           strings.TrimSpace(in.Title),
		CompanyName:     strings.TrimSpace(in.Company),
		Location:        in.Location,
		Description:     in.Description,
		Requirements:    in.Requirements,
		Skills:          in.Skills,
		ExperienceLevel: in.ExperienceLevel,
		SalaryRange:     in.SalaryRange,
		JobType:         in.JobType,
		RemoteFriendly:  in.RemoteFriendly,
		Status:          in.Status,
	}
	if !pr.IsAdmin() {
		if pr.CompanyID == 0 {
			return nil, ErrForbidden
		}
		companyID := pr.CompanyID
		job.CompanyID = &companyID
		company, err := s.companies.GetByID(ctx, companyID)
		if err != nil {
			return nil, fmt.Errorf("load company: %w", err)
		}
		job.CompanyName = company.Name
	}
	if job.CompanyName == "" {
		return nil, invalid(validation.Violations{"company": "required"})
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	publish(ctx, s.events, events.JobCreated, job.ID, job)
	return job, nil
}

// GetJob returns a posting the caller may see. Postings that are not open
// are reported as not found to anyone outside the company.
func (s *JobService) GetJob(ctx context.Context, id uint) (*models.Job, error) {
	job, err := s.cachedJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, gate.ActionView, policy.ResourceJob, job); err != nil {
		if errors.Is(err, ErrForbidden) && !job.IsOpen() {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

func (s *JobService) cachedJob(ctx context.Context, id uint) (*models.Job, error) {
	key := jobCacheKey(id)
	var job models.Job
	found, err := s.cache.Get(ctx, key, &job)
	if err != nil {
		log.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("cache read failed")
	}
	if found {
		metrics.CacheRequestsTotal.WithLabelValues("job", "hit").Inc()
		return &job, nil
	}
	metrics.CacheRequestsTotal.WithLabelValues("job", "miss").Inc()

	fresh, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, fresh, jobCacheTTL); err != nil {
		log.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return fresh, nil
}

func (s *JobService) invalidate(ctx context.Context, id uint) {
	if err := s.cache.Delete(ctx, jobCacheKey(id)); err != nil {
		log.FromContext(ctx).Warn().Err(err).Uint("job_id", id).Msg("cache invalidation failed")
	}
}

// ListJobs returns open postings. HR staff filtering on their own company
// and admins also see drafts and closed postings.
func (s *JobService) ListJobs(ctx context.Context, f repository.JobFilter) (repository.Paginated[models.Job], error) {
	pr, err := caller(ctx, s.authz)
	if err != nil {
		return repository.Paginated[models.Job]{}, err
	}
	if err := s.authz.Authorize(ctx, gate.ActionList, policy.ResourceJob, nil); err != nil {
		return repository.Paginated[models.Job]{}, err
	}
	if !pr.IsAdmin() && !pr.InCompany(f.CompanyID) {
		f.Status = models.JobStatusActive
	}
	return s.jobs.Search(ctx, f)
}

// SearchJobs is the free-text search behind GET /jobs.
func (s *JobService) SearchJobs(ctx context.Context, query, location string, skills []string, p repository.Page) (repository.Paginated[models.Job], error) {
	return s.ListJobs(ctx, repository.JobFilter{Query: query, Location: location, Skills: skills, Page: p})
}

func (s *JobService) UpdateJob(ctx context.Context, id uint, patch models.JobPatch) (*models.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, gate.ActionUpdate, policy.ResourceJob, job); err != nil {
		return nil, err
	}
	v := validation.Violations{}
	if patch.Title != nil {
		validation.Required("title", *patch.Title, v)
	}
	if patch.ExperienceLevel != nil {
		validation.OneOf("experience_level", *patch.ExperienceLevel, models.ExperienceLevels, v)
	}
	if patch.JobType != nil {
		validation.OneOf("job_type", *patch.JobType, models.JobTypes, v)
	}
	if patch.Status != nil {
		validation.Required("status", string(*patch.Status), v)
		validation.OneOf("status", string(*patch.Status), editableJobStatuses, v)
	}
	if err := invalid(v); err != nil {
		return nil, err
	}

	patch.Apply(job)
	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	s.invalidate(ctx, id)
	publish(ctx, s.events, events.JobUpdated, job.ID, job)
	return job, nil
}

// CloseJob stops a posting from accepting applications.
func (s *JobService) CloseJob(ctx context.Context, id uint) (*models.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, policy.ActionClose, policy.ResourceJob, job); err != nil {
		return nil, err
	}
	if job.Status == models.JobStatusClosed {
		return job, nil
	}
	job.Status = models.JobStatusClosed
	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("close job: %w", err)
	}
	s.invalidate(ctx, id)
	publish(ctx, s.events, events.JobClosed, job.ID, map[string]any{"job_id": job.ID})
	return job, nil
}

func (s *JobService) DeleteJob(ctx context.Context, id uint) error {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.Authorize(ctx, gate.ActionDelete, policy.ResourceJob, job); err != nil {
		return err
	}
	if err := s.jobs.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	publish(ctx, s.events, events.JobDeleted, id, map[string]any{"job_id": id})
	return nil
}

// CountByStatus summarizes the postings of a company.
func (s *JobService) CountByStatus(ctx context.Context, companyID uint) (map[models.JobStatus]int64, error) {
	pr, err := caller(ctx, s.authz)
	if err != nil {
		return nil, err
	}
	if !pr.IsAdmin() && !pr.InCompany(companyID) {
		return nil, ErrForbidden
	}
	return s.jobs.CountByStatus(ctx, companyID)
}
