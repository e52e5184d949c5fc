package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/companyadmin/internal/client/api"
	"github.com/dmitrijs2005/companyadmin/internal/client/models"
	"github.com/dmitrijs2005/companyadmin/internal/validation"
)

// CompaniesAPI is the part of the companies API the service calls.
type CompaniesAPI interface {
	ListMine(ctx context.Context, page, limit int) (models.Page[models.Company], error)
	ListAll(ctx context.Context, p api.ListParams) (models.Page[models.Company], error)
	Get(ctx context.Context, id int64) (*models.Company, error)
	Create(ctx context.Context, in models.CompanyInput) (*models.Company, error)
	Update(ctx context.Context, id int64, in models.CompanyInput) (*models.Company, error)
	Delete(ctx context.Context, id int64) error
	UploadLogo(ctx context.Context, id int64, filename string, r io.Reader) (*models.Company, error)
}

// CompanyService validates company forms and listing options before they
// reach the backend.
type CompanyService struct {
	api CompaniesAPI
}

func NewCompanyService(api CompaniesAPI) *CompanyService {
	return &CompanyService{api: api}
}

// ListMine lists the caller's companies. Pages below 1 read as the first page.
func (s *CompanyService) ListMine(ctx context.Context, page int) (models.Page[models.Company], error) {
	if page < 1 {
		page = 1
	}
	return s.api.ListMine(ctx, page, api.DefaultPageLimit)
}

// ListAll lists every company. Empty sortBy and order default to name ASC.
func (s *CompanyService) ListAll(ctx context.Context, page int, sortBy, order string) (models.Page[models.Company], error) {
	if page < 1 {
		page = 1
	}
	if sortBy == "" {
		sortBy = "name"
	}
	order = strings.ToUpper(order)
	if order == "" {
		order = "ASC"
	}

	form := validation.ListForm{Page: page, Limit: api.DefaultPageLimit, SortBy: sortBy, Order: order}
	if err := validation.Struct(&form); err != nil {
		return models.Page[models.Company]{}, err
	}
	return s.api.ListAll(ctx, api.ListParams{Page: form.Page, Limit: form.Limit, SortBy: form.SortBy, Order: form.Order})
}

func (s *CompanyService) Get(ctx context.Context, id int64) (*models.Company, error) {
	return s.api.Get(ctx, id)
}

func (s *CompanyService) Create(ctx context.Context, in models.CompanyInput) (*models.Company, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}
	c, err := s.api.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}
	return c, nil
}

func (s *CompanyService) Update(ctx context.Context, id int64, in models.CompanyInput) (*models.Company, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}
	c, err := s.api.Update(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("update company: %w", err)
	}
	return c, nil
}

func (s *CompanyService) Delete(ctx context.Context, id int64) error {
	return s.api.Delete(ctx, id)
}

func (s *CompanyService) UploadLogo(ctx context.Context, id int64, filename string, r io.Reader) (*models.Company, error) {
	return s.api.UploadLogo(ctx, id, filename, r)
}
