package repository

import (
	"context"

	"github.com/jobzee/jobzee/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplicationStore is the data access contract for job applications.
type ApplicationStore interface {
	Create(ctx context.Context, a *models.Application) error
	GetByID(ctx context.Context, id uint) (*models.Application, error)
	Update(ctx context.Context, a *models.Application) error
	ListByUser(ctx context.Context, userID uint, p Page) (Paginated[models.Application], error)
	ListByJob(ctx context.Context, jobID uint, p Page) (Paginated[models.Application], error)
	FindLive(ctx context.Context, userID, jobID uint) (*models.Application, error)
}

// liveExcluded lists statuses that free the user to apply again.
var liveExcluded = []models.ApplicationStatus{models.StatusWithdrawn}

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

var _ ApplicationStore = (*ApplicationRepository)(nil)

func (r *ApplicationRepository) Create(ctx context.Context, a *models.Application) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error)
}

// GetByID loads the application with its job.
func (r *ApplicationRepository) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	var a models.Application
	if err := r.db.WithContext(ctx).Preload("Job").First(&a, id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *ApplicationRepository) Update(ctx context.Context, a *models.Application) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(a).Error)
}

func (r *ApplicationRepository) ListByUser(ctx context.Context, userID uint, p Page) (Paginated[models.Application], error) {
	return r.list(r.db.WithContext(ctx).Model(&models.Application{}).Where("user_id = ?", userID), p, "Job")
}

func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID uint, p Page) (Paginated[models.Application], error) {
	return r.list(r.db.WithContext(ctx).Model(&models.Application{}).Where("job_id = ?", jobID), p, "User")
}

// FindLive returns the user's non-withdrawn application to a job.
func (r *ApplicationRepository) FindLive(ctx context.Context, userID, jobID uint) (*models.Application, error) {
	var a models.Application
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND job_id = ? AND status NOT IN ?", userID, jobID, liveExcluded).
		Order("id DESC").
		First(&a).Error
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *ApplicationRepository) list(q *gorm.DB, p Page, preload string) (Paginated[models.Application], error) {
	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return Paginated[models.Application]{}, err
	}
	var out []models.Application
	if err := q.Preload(preload).Order("applied_at DESC, id DESC").Offset(p.Offset()).Limit(p.Limit()).Find(&out).Error; err != nil {
		return Paginated[models.Application]{}, err
	}
	return newPaginated(out, total, p), nil
}
