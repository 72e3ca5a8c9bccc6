package repository

import (
	"context"

	"github.com/jobzee/jobzee/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserStore is the data access contract for accounts.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]models.User, error)
	GetByRole(ctx context.Context, role models.Role) ([]models.User, error)
	GetActiveUsers(ctx context.Context) ([]models.User, error)
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
	GetUsersByCompany(ctx context.Context, companyID uint) ([]models.User, error)
	CountUsers(ctx context.Context) (int64, error)
	GetUserWithProfile(ctx context.Context, userID uint) (*models.User, error)
	GetUserWithJobs(ctx context.Context, userID uint) (*models.User, error)
	GetUserWithApplications(ctx context.Context, userID uint) (*models.User, error)
	Filter(ctx context.Context, f UserFilter) (Paginated[models.User], error)
}

// UserFilter drives the admin user listing.
type UserFilter struct {
	Query     string
	Role      models.Role
	CompanyID uint
	Active    *bool
	Page      Page
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ UserStore = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = models.NormalizeEmail(user.Email)
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// Update saves every column of user. Associations are not touched.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.Email = models.NormalizeEmail(user.Email)
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error)
}

// Delete soft-deletes the account.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&users).Error
	return users, err
}

func (r *UserRepository) GetByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Where("role = ?", role).Order("id").Find(&users).Error
	return users, err
}

func (r *UserRepository) GetActiveUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&users).Error
	return users, err
}

// SearchUsers matches first name, last name or email, case-insensitively.
func (r *UserRepository) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	var users []models.User
	err := r.searchScope(r.db.WithContext(ctx), query).Order("id").Find(&users).Error
	return users, err
}

func (r *UserRepository) GetUsersByCompany(ctx context.Context, companyID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Where("company_id = ?", companyID).Order("id").Find(&users).Error
	return users, err
}

func (r *UserRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

// GetUserWithProfile loads the user with its candidate profile.
func (r *UserRepository) GetUserWithProfile(ctx context.Context, userID uint) (*models.User, error) {
	return r.getWith(ctx, userID, "CandidateProfile")
}

// GetUserWithJobs loads the user with the jobs it created.
func (r *UserRepository) GetUserWithJobs(ctx context.Context, userID uint) (*models.User, error) {
	return r.getWith(ctx, userID, "Jobs")
}

// GetUserWithApplications loads the user with its applications and their jobs.
func (r *UserRepository) GetUserWithApplications(ctx context.Context, userID uint) (*models.User, error) {
	return r.getWith(ctx, userID, "Applications", "Applications.Job")
}

func (r *UserRepository) Filter(ctx context.Context, f UserFilter) (Paginated[models.User], error) {
	q := r.db.WithContext(ctx).Model(&models.User{})
	if f.Query != "" {
		q = r.searchScope(q, f.Query)
	}
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.CompanyID != 0 {
		q = q.Where("company_id = ?", f.CompanyID)
	}
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return Paginated[models.User]{}, err
	}
	var users []models.User
	if err := q.Order("id").Offset(f.Page.Offset()).Limit(f.Page.Limit()).Find(&users).Error; err != nil {
		return Paginated[models.User]{}, err
	}
	return newPaginated(users, total, f.Page), nil
}

func (r *UserRepository) searchScope(q *gorm.DB, query string) *gorm.DB {
	p := likePattern(query)
	return q.Where(
		`(LOWER(first_name) LIKE ? ESCAPE '\' OR LOWER(last_name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')`,
		p, p, p,
	)
}

func (r *UserRepository) getWith(ctx context.Context, userID uint, preloads ...string) (*models.User, error) {
	q := r.db.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	var user models.User
	if err := q.First(&user, userID).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}
