package repository

import (
	"context"
	"strings"

	"github.com/jobzee/jobzee/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JobStore is the data access contract for postings.
type JobStore interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id uint) (*models.Job, error)
	Update(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, f JobFilter) (Paginated[models.Job], error)
	ListActive(ctx context.Context, limit int) ([]models.Job, error)
	CountByStatus(ctx context.Context, companyID uint) (map[models.JobStatus]int64, error)
}

// JobFilter narrows a job listing. Zero values mean "any".
type JobFilter struct {
	Query           string
	Location        string
	Skills          []string
	Status          models.JobStatus
	CompanyID       uint
	CreatedBy       uint
	JobType         string
	ExperienceLevel string
	Remote          *bool
	Page            Page
}

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

var _ JobStore = (*JobRepository)(nil)

func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	return translate(r.db.WithContext(ctx).Create(job).Error)
}

func (r *JobRepository) GetByID(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).First(&job, id).Error; err != nil {
		return nil, translate(err)
	}
	return &job, nil
}

func (r *JobRepository) Update(ctx context.Context, job *models.Job) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(job).Error)
}

func (r *JobRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Job{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Search matches title/description and location case-insensitively. A job
// matches the skills filter when it lists any of the requested skills.
func (r *JobRepository) Search(ctx context.Context, f JobFilter) (Paginated[models.Job], error) {
	q := r.db.WithContext(ctx).Model(&models.Job{})
	if f.Query != "" {
		p := likePattern(f.Query)
		q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, p, p)
	}
	if f.Location != "" {
		q = q.Where(`LOWER(location) LIKE ? ESCAPE '\'`, likePattern(f.Location))
	}
	if len(f.Skills) > 0 {
		q = q.Where(anyJSONElement("skills", f.Skills))
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CompanyID != 0 {
		q = q.Where("company_id = ?", f.CompanyID)
	}
	if f.CreatedBy != 0 {
		q = q.Where("created_by = ?", f.CreatedBy)
	}
	if f.JobType != "" {
		q = q.Where("job_type = ?", f.JobType)
	}
	if f.ExperienceLevel != "" {
		q = q.Where("experience_level = ?", f.ExperienceLevel)
	}
	if f.Remote != nil {
		q = q.Where("remote_friendly = ?", *f.Remote)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return Paginated[models.Job]{}, err
	}
	var jobs []models.Job
	if err := q.Order("created_at DESC, id DESC").Offset(f.Page.Offset()).Limit(f.Page.Limit()).Find(&jobs).Error; err != nil {
		return Paginated[models.Job]{}, err
	}
	return newPaginated(jobs, total, f.Page), nil
}

// ListActive returns open postings, newest first.
func (r *JobRepository) ListActive(ctx context.Context, limit int) ([]models.Job, error) {
	var jobs []models.Job
	q := r.db.WithContext(ctx).Where("status = ?", models.JobStatusActive).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return jobs, q.Find(&jobs).Error
}

// CountByStatus counts postings per status, optionally for one company.
func (r *JobRepository) CountByStatus(ctx context.Context, companyID uint) (map[models.JobStatus]int64, error) {
	var rows []struct {
		Status models.JobStatus
		Count  int64
	}
	q := r.db.WithContext(ctx).Model(&models.Job{}).Select("status, COUNT(*) AS count")
	if companyID != 0 {
		q = q.Where("company_id = ?", companyID)
	}
	if err := q.Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[models.JobStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

// anyJSONElement matches rows whose JSON array column holds any of values.
func anyJSONElement(column string, values []string) clause.Expression {
	var (
		conds []string
		args  []any
	)
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		conds = append(conds, "LOWER("+column+`) LIKE ? ESCAPE '\'`)
		args = append(args, jsonElementPattern(v))
	}
	if len(conds) == 0 {
		return clause.Expr{SQL: "1 = 1"}
	}
	return clause.Expr{SQL: "(" + strings.Join(conds, " OR ") + ")", Vars: args}
}
