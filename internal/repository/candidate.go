package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/jobzee/jobzee/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CandidateStore is the data access contract for candidate profiles.
type CandidateStore interface {
	Create(ctx context.Context, c *models.Candidate) error
	GetByID(ctx context.Context, id uint) (*models.Candidate, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Candidate, error)
	Update(ctx context.Context, c *models.Candidate) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, f CandidateFilter) (Paginated[models.Candidate], error)
	ListActive(ctx context.Context, limit int) ([]models.Candidate, error)
	Stats(ctx context.Context, f CandidateFilter) (*models.CandidateStats, error)
}

// CandidateFilter narrows a candidate listing. Zero values mean "any".
type CandidateFilter struct {
	Query              string
	Location           string
	Skills             []string
	PreferredRoles     []string
	MinExperienceYears int
	MaxExperienceYears int
	SalaryExpectation  string
	Status             models.CandidateStatus
	Page               Page
}

const topN = 10

type CandidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

var _ CandidateStore = (*CandidateRepository)(nil)

func (r *CandidateRepository) Create(ctx context.Context, c *models.Candidate) error {
	c.Email = models.NormalizeEmail(c.Email)
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *CandidateRepository) GetByID(ctx context.Context, id uint) (*models.Candidate, error) {
	var c models.Candidate
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CandidateRepository) GetByUserID(ctx context.Context, userID uint) (*models.Candidate, error) {
	var c models.Candidate
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CandidateRepository) Update(ctx context.Context, c *models.Candidate) error {
	c.Email = models.NormalizeEmail(c.Email)
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(c).Error)
}

func (r *CandidateRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Candidate{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CandidateRepository) Search(ctx context.Context, f CandidateFilter) (Paginated[models.Candidate], error) {
	q := r.filtered(ctx, f).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return Paginated[models.Candidate]{}, err
	}
	var out []models.Candidate
	if err := q.Order("updated_at DESC, id DESC").Offset(f.Page.Offset()).Limit(f.Page.Limit()).Find(&out).Error; err != nil {
		return Paginated[models.Candidate]{}, err
	}
	return newPaginated(out, total, f.Page), nil
}

// ListActive returns profiles open to offers.
func (r *CandidateRepository) ListActive(ctx context.Context, limit int) ([]models.Candidate, error) {
	var out []models.Candidate
	q := r.db.WithContext(ctx).Where("status = ?", models.CandidateStatusActive).Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return out, q.Find(&out).Error
}

// Stats aggregates the filtered pool in memory so the same code runs on
// every supported driver.
func (r *CandidateRepository) Stats(ctx context.Context, f CandidateFilter) (*models.CandidateStats, error) {
	var rows []models.Candidate
	err := r.filtered(ctx, f).
		Select("id", "location", "skills", "preferred_roles", "experience_years", "status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &models.CandidateStats{
		ByLocation:        map[string]int64{},
		ByExperienceLevel: map[string]int64{},
		TopSkills:         []models.Count{},
		TopPreferredRoles: []models.Count{},
	}
	skills := map[string]int64{}
	roles := map[string]int64{}
	var years int64
	for _, c := range rows {
		stats.Total++
		if c.Status == models.CandidateStatusActive {
			stats.Active++
		}
		stats.ByLocation[c.Location]++
		stats.ByExperienceLevel[models.ExperienceBucket(c.ExperienceYears)]++
		years += int64(c.ExperienceYears)
		for _, s := range c.Skills {
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				skills[s]++
			}
		}
		for _, role := range c.PreferredRoles {
			if role = strings.ToLower(strings.TrimSpace(role)); role != "" {
				roles[role]++
			}
		}
	}
	if stats.Total > 0 {
		stats.AverageExperience = float64(years) / float64(stats.Total)
	}
	stats.TopSkills = topCounts(skills, topN)
	stats.TopPreferredRoles = topCounts(roles, topN)
	return stats, nil
}

func (r *CandidateRepository) filtered(ctx context.Context, f CandidateFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Candidate{})
	if f.Query != "" {
		p := likePattern(f.Query)
		q = q.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')`, p, p)
	}
	if f.Location != "" {
		q = q.Where(`LOWER(location) LIKE ? ESCAPE '\'`, likePattern(f.Location))
	}
	if len(f.Skills) > 0 {
		q = q.Where(anyJSONElement("skills", f.Skills))
	}
	if len(f.PreferredRoles) > 0 {
		q = q.Where(anyJSONElement("preferred_roles", f.PreferredRoles))
	}
	if f.MinExperienceYears > 0 {
		q = q.Where("experience_years >= ?", f.MinExperienceYears)
	}
	if f.MaxExperienceYears > 0 {
		q = q.Where("experience_years <= ?", f.MaxExperienceYears)
	}
	if f.SalaryExpectation != "" {
		q = q.Where("salary_expectation = ?", f.SalaryExpectation)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return q
}

func topCounts(m map[string]int64, n int) []models.Count {
	out := make([]models.Count, 0, len(m))
	for label, count := range m {
		out = append(out, models.Count{Label: label, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
