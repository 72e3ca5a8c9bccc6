package services

import (
	"context"
	"testing"
	"time"

	"github.com/jobzee/jobzee/auth"
	"github.com/jobzee/jobzee/internal/cache"
	"github.com/jobzee/jobzee/internal/db"
	"github.com/jobzee/jobzee/internal/events"
	"github.com/jobzee/jobzee/internal/models"
	"github.com/jobzee/jobzee/internal/policy"
	"github.com/jobzee/jobzee/internal/repository"
	"github.com/jobzee/jobzee/internal/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fixture struct {
	users      *repository.UserRepository
	companies  *repository.CompanyRepository
	jobs       *repository.JobRepository
	candidates *repository.CandidateRepository
	apps       *repository.ApplicationRepository
	gate       *policy.AuthGate
	cache      *cache.MemoryCache
	events     *events.Recorder
	objects    *storage.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	d, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(d))
	t.Cleanup(func() { _ = db.Close(d) })

	users := repository.NewUserRepository(d)
	c := cache.NewMemoryCache(0)
	t.Cleanup(func() { _ = c.Close() })
	return &fixture{
		users:      users,
		companies:  repository.NewCompanyRepository(d),
		jobs:       repository.NewJobRepository(d),
		candidates: repository.NewCandidateRepository(d),
		apps:       repository.NewApplicationRepository(d),
		gate:       policy.NewAuthGate(policy.NewRoleResolver(users), time.Minute),
		cache:      c,
		events:     &events.Recorder{},
		objects:    storage.NewMemoryStore("http://files.test/jobzee"),
	}
}

func (f *fixture) company(t *testing.T, name string) *models.Company {
	t.Helper()
	c := &models.Company{Name: name, Slug: Slugify(name)}
	require.NoError(t, f.companies.Create(context.Background(), c))
	return c
}

func (f *fixture) user(t *testing.T, email string, role models.Role, company *models.Company) *models.User {
	t.Helper()
	u := &models.User{Email: email, Password: "x", FirstName: "Test", LastName: string(role), Role: role, IsActive: true}
	if company != nil {
		u.CompanyID = &company.ID
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) job(t *testing.T, company *models.Company, by *models.User, status models.JobStatus, skills ...string) *models.Job {
	t.Helper()
	j := &models.Job{
		CompanyID:       &company.ID,
		CreatedBy:       by.ID,
		Title:           "Backend Engineer",
		CompanyName:     company.Name,
		Location:        "Paris",
		Description:     "Build APIs",
		Skills:          skills,
		ExperienceLevel: "mid",
		SalaryRange:     "50k-60k",
		Status:          status,
	}
	require.NoError(t, f.jobs.Create(context.Background(), j))
	return j
}

func (f *fixture) candidate(t *testing.T, u *models.User, years int, skills ...string) *models.Candidate {
	t.Helper()
	c := &models.Candidate{
		UserID:            &u.ID,
		Name:              u.Name(),
		Email:             u.Email,
		Location:          "Paris",
		Skills:            skills,
		ExperienceYears:   years,
		SalaryExpectation: "55k",
		Status:            models.CandidateStatusActive,
	}
	require.NoError(t, f.candidates.Create(context.Background(), c))
	return c
}

// as returns a context authenticated as u.
func as(u *models.User) context.Context {
	return auth.WithClaims(context.Background(), &auth.Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   string(u.Role),
		Type:   auth.AccessToken,
	})
}

func ptr[T any](v T) *T { return &v }
