package repository

import (
	"context"

	"github.com/jobzee/jobzee/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompanyStore is the data access contract for tenants.
type CompanyStore interface {
	Create(ctx context.Context, c *models.Company) error
	GetByID(ctx context.Context, id uint) (*models.Company, error)
	GetBySlug(ctx context.Context, slug string) (*models.Company, error)
	Update(ctx context.Context, c *models.Company) error
	List(ctx context.Context, query string, p Page) (Paginated[models.Company], error)
}

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

var _ CompanyStore = (*CompanyRepository)(nil)

func (r *CompanyRepository) Create(ctx context.Context, c *models.Company) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *CompanyRepository) GetByID(ctx context.Context, id uint) (*models.Company, error) {
	var c models.Company
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CompanyRepository) GetBySlug(ctx context.Context, slug string) (*models.Company, error) {
	var c models.Company
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CompanyRepository) Update(ctx context.Context, c *models.Company) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(c).Error)
}

func (r *CompanyRepository) List(ctx context.Context, query string, p Page) (Paginated[models.Company], error) {
	q := r.db.WithContext(ctx).Model(&models.Company{})
	if query != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(query))
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return Paginated[models.Company]{}, err
	}
	var out []models.Company
	if err := q.Order("name").Offset(p.Offset()).Limit(p.Limit()).Find(&out).Error; err != nil {
		return Paginated[models.Company]{}, err
	}
	return newPaginated(out, total, p), nil
}
