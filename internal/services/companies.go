package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/jobzee/jobzee/gate"
	"github.com/jobzee/jobzee/internal/models"
	"github.com/jobzee/jobzee/internal/policy"
	"github.com/jobzee/jobzee/internal/repository"
	"github.com/jobzee/jobzee/validation"
)

var companySizes = []string{"1-10", "11-50", "51-200", "201-500", "501-1000", "1000+"}

// CompanyService manages tenants.
type CompanyService struct {
	companies repository.CompanyStore
	authz     Authorizer
}

func NewCompanyService(companies repository.CompanyStore, authz Authorizer) *CompanyService {
	return &CompanyService{companies: companies, authz: authz}
}

func (s *CompanyService) List(ctx context.Context, query string, p repository.Page) (repository.Paginated[models.Company], error) {
	if err := s.authz.Authorize(ctx, gate.ActionList, policy.ResourceCompany, nil); err != nil {
		return repository.Paginated[models.Company]{}, err
	}
	return s.companies.List(ctx, query, p)
}

func (s *CompanyService) Get(ctx context.Context, id uint) (*models.Company, error) {
	c, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, gate.ActionView, policy.ResourceCompany, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetBySlug looks a company up by its public slug.
func (s *CompanyService) GetBySlug(ctx context.Context, slug string) (*models.Company, error) {
	c, err := s.companies.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, gate.ActionView, policy.ResourceCompany, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Create registers a tenant. The slug defaults to one derived from the name.
func (s *CompanyService) Create(ctx context.Context, in models.CompanyInput) (*models.Company, error) {
	if err := s.authz.Authorize(ctx, gate.ActionCreate, policy.ResourceCompany, nil); err != nil {
		return nil, err
	}
	if in.Slug == "" {
		in.Slug = Slugify(in.Name)
	}
	if err := validateCompany(in); err != nil {
		return nil, err
	}
	c := &models.Company{}
	applyCompany(c, in)
	if err := s.companies.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCompanyTaken
		}
		return nil, fmt.Errorf("create company: %w", err)
	}
	return c, nil
}

// Update replaces the company fields. Only its HR staff and admins may.
func (s *CompanyService) Update(ctx context.Context, id uint, in models.CompanyInput) (*models.Company, error) {
	c, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, gate.ActionUpdate, policy.ResourceCompany, c); err != nil {
		return nil, err
	}
	if in.Slug == "" {
		in.Slug = c.Slug
	}
	if err := validateCompany(in); err != nil {
		return nil, err
	}
	applyCompany(c, in)
	if err := s.companies.Update(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCompanyTaken
		}
		return nil, fmt.Errorf("update company: %w", err)
	}
	return c, nil
}

func validateCompany(in models.CompanyInput) error {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.Required("slug", in.Slug, v)
	if in.Slug != "" && Slugify(in.Slug) != in.Slug {
		v.Add("slug", "invalid_choice")
	}
	validation.OneOf("size", in.Size, companySizes, v)
	return invalid(v)
}

func applyCompany(c *models.Company, in models.CompanyInput) {
	c.Name = strings.TrimSpace(in.Name)
	c.Slug = in.Slug
	c.Website = in.Website
	c.Description = in.Description
	c.Location = in.Location
	c.LogoURL = in.LogoURL
	c.Size = in.Size
}

// Slugify lower-cases s and joins its letter and digit runs with dashes.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
