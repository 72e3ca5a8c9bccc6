package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jobzee/jobzee/gate"
	"github.com/jobzee/jobzee/internal/events"
	"github.com/jobzee/jobzee/internal/log"
	"github.com/jobzee/jobzee/internal/matching"
	"github.com/jobzee/jobzee/internal/metrics"
	"github.com/jobzee/jobzee/internal/models"
	"github.com/jobzee/jobzee/internal/policy"
	"github.com/jobzee/jobzee/internal/repository"
	"github.com/jobzee/jobzee/validation"
)

var (
	applicationStatuses = []string{
		string(models.StatusApplied), string(models.StatusReviewing), string(models.StatusInterview),
		string(models.StatusRejected), string(models.StatusAccepted), string(models.StatusWithdrawn),
		string(models.StatusRecommended),
	}
	interviewTypes = []string{"phone", "video", "onsite"}
)

// ApplicationService runs the application lifecycle.
type ApplicationService struct {
	apps       repository.ApplicationStore
	jobs       repository.JobStore
	candidates repository.CandidateStore
	authz      Authorizer
	events     events.Publisher
	now        func() time.Time
}

func NewApplicationService(apps repository.ApplicationStore, jobs repository.JobStore, candidates repository.CandidateStore, authz Authorizer, pub events.Publisher) *ApplicationService {
	return &ApplicationService{
		apps:       apps,
		jobs:       jobs,
		candidates: candidates,
		authz:      authz,
		events:     pub,
		now:        time.Now,
	}
}

var _ events.RecommendationHandler = (*ApplicationService)(nil)

// Apply submits the caller's application to an open job. An agent
// recommendation for the same job is promoted instead of duplicated.
func (s *ApplicationService) Apply(ctx context.Context, req models.CreateApplicationRequest) (*models.Application, error) {
	pr, err := caller(ctx, s.authz)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, gate.ActionApply, policy.ResourceApplication, nil); err != nil {
		return nil, err
	}
	if req.JobID == 0 {
		return nil, invalid(validation.Violations{"job_id": "required"})
	}
	job, err := s.jobs.GetByID(ctx, req.JobID)
	if err != nil {
		return nil, err
	}
	if !job.IsOpen() {
		return nil, ErrJobNotOpen
	}

	app, err := s.apps.FindLive(ctx, pr.UserID, job.ID)
	switch {
	case err == nil && app.Status != models.StatusRecommended:
		return nil, ErrAlreadyApplied
	case err == nil:
		app.Status = models.StatusApplied
	case errors.Is(err, repository.ErrNotFound):
		app = &models.Application{UserID: pr.UserID, JobID: job.ID, Status: models.StatusApplied}
	default:
		return nil, err
	}
	app.CoverLetter = req.CoverLetter
	app.ResumeURL = req.ResumeURL
	app.PortfolioURL = req.PortfolioURL
	app.GitHubURL = req.GitHubURL
	app.LinkedInURL = req.LinkedInURL
	app.AppliedAt = s.now()

	if c, err := s.candidates.GetByUserID(ctx, pr.UserID); err == nil {
		score := matching.Score(c, job).Score
		app.MatchScore = &score
		if app.ResumeURL == nil && c.ResumeURL != "" {
			resume := c.ResumeURL
			app.ResumeURL = &resume
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if app.ID == 0 {
		err = s.apps.Create(ctx, app)
	} else {
		err = s.apps.Update(ctx, app)
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrAlreadyApplied
	}
	if err != nil {
		return nil, fmt.Errorf("save application: %w", err)
	}
	app.Job = job
	metrics.ApplicationsTotal.WithLabelValues("user").Inc()
	publish(ctx, s.events, events.ApplicationCreated, app.ID, map[string]any{
		"application_id": app.ID,
		"job_id":         app.JobID,
		"user_id":        app.UserID,
		"match_score":    app.MatchScore,
	})
	return app, nil
}

func (s *ApplicationService) Get(ctx context.Context, id uint) (*models.Application, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, gate.ActionView, policy.ResourceApplication, app); err != nil {
		return nil, err
	}
	return app, nil
}

// ListMine returns the caller's applications, newest first.
func (s *ApplicationService) ListMine(ctx context.Context, p repository.Page) (repository.Paginated[models.Application], error) {
	pr, err := caller(ctx, s.authz)
	if err != nil {
		return repository.Paginated[models.Application]{}, err
	}
	if err := s.authz.Authorize(ctx, gate.ActionList, policy.ResourceApplication, nil); err != nil {
		return repository.Paginated[models.Application]{}, err
	}
	return s.apps.ListByUser(ctx, pr.UserID, p)
}

// ListForJob returns the applications to a job for HR of its company.
func (s *ApplicationService) ListForJob(ctx context.Context, jobID uint, p repository.Page) (repository.Paginated[models.Application], error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return repository.Paginated[models.Application]{}, err
	}
	scope := &models.Application{JobID: job.ID, Job: job}
	if err := s.authz.Authorize(ctx, gate.ActionList, policy.ResourceApplication, scope); err != nil {
		return repository.Paginated[models.Application]{}, err
	}
	return s.apps.ListByJob(ctx, job.ID, p)
}

// UpdateStatus moves an application along its lifecycle on behalf of the
// hiring company. Withdrawal belongs to the applicant and goes through Withdraw.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id uint, req models.UpdateApplicationStatusRequest) (*models.Application, error) {
	v := validation.Violations{}
	validation.Required("status", string(req.Status), v)
	validation.OneOf("status", string(req.Status), applicationStatuses, v)
	if req.InterviewType != nil {
		validation.OneOf("interview_type", *req.InterviewType, interviewTypes, v)
	}
	if err := invalid(v); err != nil {
		return nil, err
	}

	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, gate.ActionUpdate, policy.ResourceApplication, app); err != nil {
		return nil, err
	}
	if req.Status == models.StatusWithdrawn {
		return nil, ErrForbidden
	}
	if !app.Status.CanTransition(req.Status) {
		return nil, ErrInvalidTransition
	}

	from := app.Status
	app.Status = req.Status
	if req.InterviewDate != nil {
		app.InterviewDate = req.InterviewDate
	}
	if req.InterviewType != nil {
		app.InterviewType = req.InterviewType
	}
	if req.InterviewNotes != nil {
		app.InterviewNotes = req.InterviewNotes
	}
	if req.AgentFeedback != nil {
		app.AgentFeedback = req.AgentFeedback
	}
	if err := s.apps.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("update application: %w", err)
	}
	s.statusChanged(ctx, app, from)
	return app, nil
}

// Withdraw lets the applicant retract a non-terminal application.
func (s *ApplicationService) Withdraw(ctx context.Context, id uint) (*models.Application, error) {
	pr, err := caller(ctx, s.authz)
	if err != nil {
		return nil, err
	}
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, policy.ActionWithdraw, policy.ResourceApplication, app); err != nil {
		return nil, err
	}
	if app.UserID != pr.UserID {
		return nil, ErrForbidden
	}
	if !app.Status.CanTransition(models.StatusWithdrawn) {
		return nil, ErrInvalidTransition
	}
	from := app.Status
	app.Status = models.StatusWithdrawn
	if err := s.apps.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("withdraw application: %w", err)
	}
	s.statusChanged(ctx, app, from)
	return app, nil
}

func (s *ApplicationService) statusChanged(ctx context.Context, app *models.Application, from models.ApplicationStatus) {
	publish(ctx, s.events, events.ApplicationStatusChanged, app.ID, map[string]any{
		"application_id": app.ID,
		"job_id":         app.JobID,
		"user_id":        app.UserID,
		"from":           from,
		"to":             app.Status,
	})
}

// RecordRecommendation stores an agent's match as a "recommended"
// application. Repeated deliveries for the same user and job only refresh
// the score of a pending recommendation, and losing a race against a live
// application is a no-op.
func (s *ApplicationService) RecordRecommendation(ctx context.Context, rec events.Recommendation) error {
	job, err := s.jobs.GetByID(ctx, rec.JobID)
	if err != nil {
		return fmt.Errorf("load job %d: %w", rec.JobID, err)
	}
	if !job.IsOpen() {
		log.FromContext(ctx).Debug().Uint("job_id", job.ID).Msg("recommendation for closed job ignored")
		return nil
	}

	score := rec.MatchScore
	var feedback *string
	if rec.Reasoning != "" {
		feedback = &rec.Reasoning
	}

	existing, err := s.apps.FindLive(ctx, rec.UserID, rec.JobID)
	if err == nil {
		if existing.Status != models.StatusRecommended {
			return nil
		}
		existing.MatchScore = &score
		existing.AgentFeedback = feedback
		return s.apps.Update(ctx, existing)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	app := &models.Application{
		UserID:        rec.UserID,
		JobID:         rec.JobID,
		Status:        models.StatusRecommended,
		MatchScore:    &score,
		AgentFeedback: feedback,
		AppliedAt:     s.now(),
	}
	if err := s.apps.Create(ctx, app); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// a concurrent apply or delivery got there first
			return nil
		}
		return fmt.Errorf("create recommendation: %w", err)
	}
	metrics.ApplicationsTotal.WithLabelValues("agent").Inc()
	publish(ctx, s.events, events.ApplicationCreated, app.ID, map[string]any{
		"application_id": app.ID,
		"job_id":         app.JobID,
		"user_id":        app.UserID,
		"match_score":    app.MatchScore,
		"source":         "agent",
	})
	return nil
}
