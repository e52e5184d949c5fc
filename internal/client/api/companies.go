package api

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/companyadmin/internal/client/models"
)

const (
	companiesPath    = "/companies"
	myCompaniesPath  = "/companies/my"
	DefaultPageLimit = 10
)

type CompaniesAPI struct {
	t Transport
}

type pageParams struct {
	Page  int `url:"page"`
	Limit int `url:"limit"`
}

// ListParams are the paging and sorting options of the all-companies listing.
type ListParams struct {
	Page   int    `url:"page"`
	Limit  int    `url:"limit"`
	SortBy string `url:"sortBy,omitempty"`
	Order  string `url:"order,omitempty"`
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	return page, limit
}

// ListMine returns a page of the caller's own companies.
func (c *CompaniesAPI) ListMine(ctx context.Context, page, limit int) (models.Page[models.Company], error) {
	page, limit = normalizePage(page, limit)
	return c.list(ctx, myCompaniesPath, pageParams{Page: page, Limit: limit}, page, limit)
}

// ListAll returns a page of every company. Privileged.
func (c *CompaniesAPI) ListAll(ctx context.Context, p ListParams) (models.Page[models.Company], error) {
	p.Page, p.Limit = normalizePage(p.Page, p.Limit)
	return c.list(ctx, companiesPath, p, p.Page, p.Limit)
}

func (c *CompaniesAPI) list(ctx context.Context, path string, params any, page, limit int) (models.Page[models.Company], error) {
	var out models.Page[models.Company]

	q, err := encodeQuery(params)
	if err != nil {
		return out, err
	}
	if err := c.t.GetJSON(ctx, path, q, &out); err != nil {
		return out, err
	}
	if out.Page == 0 {
		out.Page = page
	}
	if out.Limit == 0 {
		out.Limit = limit
	}
	return out, nil
}

func companyPath(id int64) string {
	return fmt.Sprintf("%s/%d", companiesPath, id)
}

func (c *CompaniesAPI) Get(ctx context.Context, id int64) (*models.Company, error) {
	var out models.Company
	if err := c.t.GetJSON(ctx, companyPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CompaniesAPI) Create(ctx context.Context, in models.CompanyInput) (*models.Company, error) {
	var out models.Company
	if err := c.t.PostJSON(ctx, companiesPath, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CompaniesAPI) Update(ctx context.Context, id int64, in models.CompanyInput) (*models.Company, error) {
	var out models.Company
	if err := c.t.PatchJSON(ctx, companyPath(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CompaniesAPI) Delete(ctx context.Context, id int64) error {
	return c.t.Delete(ctx, companyPath(id), nil)
}

// UploadLogo sends the image read from r as the company's logo.
func (c *CompaniesAPI) UploadLogo(ctx context.Context, id int64, filename string, r io.Reader) (*models.Company, error) {
	var out models.Company
	if err := c.t.PostMultipart(ctx, companyPath(id)+"/logo", "logo", filename, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
