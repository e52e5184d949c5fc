package services

import (
	"context"

	"github.com/dmitrijs2005/companyadmin/internal/client/models"
	"github.com/dmitrijs2005/companyadmin/internal/validation"
)

type DashboardAPI interface {
	Stats(ctx context.Context) (models.AdminStats, error)
	Admins(ctx context.Context) ([]models.Admin, error)
	AddAdmin(ctx context.Context, email string) (*models.Admin, error)
	DeleteAdmin(ctx context.Context, id int64) error
}

// AdminService covers the privileged dashboard.
type AdminService struct {
	api DashboardAPI
}

func NewAdminService(api DashboardAPI) *AdminService {
	return &AdminService{api: api}
}

func (s *AdminService) Stats(ctx context.Context) (models.AdminStats, error) {
	return s.api.Stats(ctx)
}

func (s *AdminService) Admins(ctx context.Context) ([]models.Admin, error) {
	return s.api.Admins(ctx)
}

// AddAdmin promotes the account registered under email.
func (s *AdminService) AddAdmin(ctx context.Context, email string) (*models.Admin, error) {
	if err := validation.Struct(&validation.AdminForm{Email: email}); err != nil {
		return nil, err
	}
	return s.api.AddAdmin(ctx, email)
}

func (s *AdminService) DeleteAdmin(ctx context.Context, id int64) error {
	return s.api.DeleteAdmin(ctx, id)
}
