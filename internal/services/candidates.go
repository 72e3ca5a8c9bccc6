package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jobzee/jobzee/gate"
	"github.com/jobzee/jobzee/internal/log"
	"github.com/jobzee/jobzee/internal/matching"
	"github.com/jobzee/jobzee/internal/models"
	"github.com/jobzee/jobzee/internal/policy"
	"github.com/jobzee/jobzee/internal/repository"
	"github.com/jobzee/jobzee/internal/storage"
	"github.com/jobzee/jobzee/validation"
)

// MaxResumeSize is the largest accepted resume upload.
const MaxResumeSize = 10 << 20

var resumeTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

var candidateStatuses = []string{
	string(models.CandidateStatusActive),
	string(models.CandidateStatusInactive),
	string(models.CandidateStatusHired),
}

// ScoredCandidate is a search hit with its relevance to the search criteria.
type ScoredCandidate struct {
	models.Candidate
	RelevanceScore float64 `json:"relevance_score"`
}

// CandidateService manages candidate profiles and their resumes.
type CandidateService struct {
	candidates repository.CandidateStore
	users      repository.UserStore
	objects    storage.ObjectStore
	authz      Authorizer
}

func NewCandidateService(candidates repository.CandidateStore, users repository.UserStore, objects storage.ObjectStore, authz Authorizer) *CandidateService {
	return &CandidateService{candidates: candidates, users: users, objects: objects, authz: authz}
}

// CreateCandidate creates the caller's own profile. Name and email default
// to the account's.
func (s *CandidateService) CreateCandidate(ctx context.Context, in models.CandidateInput) (*models.Candidate, error) {
	pr, err := caller(ctx, s.authz)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, gate.ActionCreate, policy.ResourceCandidate, nil); err != nil {
		return nil, err
	}
	if _, err := s.candidates.GetByUserID(ctx, pr.UserID); err == nil {
		return nil, ErrCandidateExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, pr.UserID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		in.Name = user.Name()
	}
	if strings.TrimSpace(in.Email) == "" {
		in.Email = user.Email
	}
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.Email("email", in.Email, v)
	validation.RangeInt("experience_years", in.ExperienceYears, 0, 60, v)
	if err := invalid(v); err != nil {
		return nil, err
	}

	userID := pr.UserID
	c := &models.Candidate{
		UserID:            &userID,
		Name:              strings.TrimSpace(in.Name),
		Email:             in.Email,
		Phone:             in.Phone,
		Location:          in.Location,
		Skills:            in.Skills,
		Experience:        in.Experience,
		Education:         in.Education,
		ExperienceYears:   in.ExperienceYears,
		PreferredRoles:    in.PreferredRoles,
		SalaryExpectation: in.SalaryExpectation,
		RemotePreference:  in.RemotePreference,
		Status:            models.CandidateStatusActive,
	}
	if err := s.candidates.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCandidateExists
		}
		return nil, fmt.Errorf("create candidate: %w", err)
	}
	return c, nil
}

func (s *CandidateService) GetCandidate(ctx context.Context, id uint) (*models.Candidate, error) {
	c, err := s.candidates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, gate.ActionView, policy.ResourceCandidate, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetMine returns the caller's own profile.
func (s *CandidateService) GetMine(ctx context.Context) (*models.Candidate, error) {
	pr, err := caller(ctx, s.authz)
	if err != nil {
		return nil, err
	}
	return s.candidates.GetByUserID(ctx, pr.UserID)
}

func (s *CandidateService) ListCandidates(ctx context.Context, f repository.CandidateFilter) (repository.Paginated[models.Candidate], error) {
	if err := s.authz.Authorize(ctx, gate.ActionList, policy.ResourceCandidate, nil); err != nil {
		return repository.Paginated[models.Candidate]{}, err
	}
	return s.candidates.Search(ctx, f)
}

// SearchCandidates filters the pool and ranks the page by how well each
// profile fits the criteria, highest first.
func (s *CandidateService) SearchCandidates(ctx context.Context, f repository.CandidateFilter) (repository.Paginated[ScoredCandidate], error) {
	page, err := s.ListCandidates(ctx, f)
	if err != nil {
		return repository.Paginated[ScoredCandidate]{}, err
	}
	criteria := criteriaJob(f)
	out := repository.Paginated[ScoredCandidate]{
		Items:    make([]ScoredCandidate, 0, len(page.Items)),
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}
	for _, c := range page.Items {
		out.Items = append(out.Items, ScoredCandidate{
			Candidate:      c,
			RelevanceScore: matching.Score(&c, criteria).Score,
		})
	}
	sort.SliceStable(out.Items, func(i, j int) bool {
		return out.Items[i].RelevanceScore > out.Items[j].RelevanceScore
	})
	return out, nil
}

// criteriaJob expresses search criteria as a posting the matcher can score against.
func criteriaJob(f repository.CandidateFilter) *models.Job {
	return &models.Job{
		Skills:          f.Skills,
		Location:        f.Location,
		SalaryRange:     f.SalaryExpectation,
		ExperienceLevel: levelForYears(f.MinExperienceYears),
	}
}

func levelForYears(years int) string {
	switch {
	case years <= 0:
		return ""
	case years <= 2:
		return "entry"
	case years <= 5:
		return "mid"
	case years <= 8:
		return "senior"
	case years <= 12:
		return "lead"
	default:
		return "principal"
	}
}

func (s *CandidateService) UpdateCandidate(ctx context.Context, id uint, patch models.CandidatePatch) (*models.Candidate, error) {
	c, err := s.candidates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, gate.ActionUpdate, policy.ResourceCandidate, c); err != nil {
		return nil, err
	}
	v := validation.Violations{}
	if patch.Name != nil {
		validation.Required("name", *patch.Name, v)
	}
	if patch.ExperienceYears != nil {
		validation.RangeInt("experience_years", *patch.ExperienceYears, 0, 60, v)
	}
	if patch.Status != nil {
		validation.Required("status", string(*patch.Status), v)
		validation.OneOf("status", string(*patch.Status), candidateStatuses, v)
	}
	if err := invalid(v); err != nil {
		return nil, err
	}
	patch.Apply(c)
	if err := s.candidates.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update candidate: %w", err)
	}
	return c, nil
}

func (s *CandidateService) DeleteCandidate(ctx context.Context, id uint) error {
	c, err := s.candidates.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.Authorize(ctx, gate.ActionDelete, policy.ResourceCandidate, c); err != nil {
		return err
	}
	return s.candidates.Delete(ctx, id)
}

// UploadResume stores a PDF or Word resume and links it to the profile.
// The content type is derived from the extension, not from the client.
func (s *CandidateService) UploadResume(ctx context.Context, id uint, filename string, size int64, body io.Reader) (*models.Candidate, error) {
	c, err := s.candidates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, gate.ActionUpdate, policy.ResourceCandidate, c); err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := resumeTypes[ext]
	if !ok {
		return nil, ErrInvalidFileType
	}
	if size > MaxResumeSize {
		return nil, ErrFileTooLarge
	}

	key := fmt.Sprintf("resumes/%d/%s%s", c.ID, uuid.NewString(), ext)
	if err := s.objects.Put(ctx, key, io.LimitReader(body, MaxResumeSize), size, contentType); err != nil {
		return nil, fmt.Errorf("store resume: %w", err)
	}
	previous := c.ResumeURL
	c.ResumeURL = s.objects.URL(key)
	if err := s.candidates.Update(ctx, c); err != nil {
		_ = s.objects.Delete(ctx, key)
		return nil, fmt.Errorf("update candidate: %w", err)
	}
	if oldKey, ok := s.objects.Key(previous); ok && oldKey != key {
		if err := s.objects.Delete(ctx, oldKey); err != nil {
			log.FromContext(ctx).Warn().Err(err).Str("key", oldKey).Msg("delete replaced resume failed")
		}
	}
	return c, nil
}

func (s *CandidateService) Stats(ctx context.Context, f repository.CandidateFilter) (*models.CandidateStats, error) {
	if err := s.authz.Authorize(ctx, policy.ActionStats, policy.ResourceCandidate, nil); err != nil {
		return nil, err
	}
	return s.candidates.Stats(ctx, f)
}
