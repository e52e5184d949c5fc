package api

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/companyadmin/internal/client/models"
)

const (
	statsPath  = "/dashboard/stats"
	adminsPath = "/dashboard/admins"
)

// DashboardAPI covers the privileged dashboard endpoints.
type DashboardAPI struct {
	t Transport
}

func (d *DashboardAPI) Stats(ctx context.Context) (models.AdminStats, error) {
	var out models.AdminStats
	err := d.t.GetJSON(ctx, statsPath, nil, &out)
	return out, err
}

func (d *DashboardAPI) Admins(ctx context.Context) ([]models.Admin, error) {
	var out []models.Admin
	if err := d.t.GetJSON(ctx, adminsPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *DashboardAPI) AddAdmin(ctx context.Context, email string) (*models.Admin, error) {
	var out models.Admin
	if err := d.t.PostJSON(ctx, adminsPath, map[string]string{"email": email}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *DashboardAPI) DeleteAdmin(ctx context.Context, id int64) error {
	return d.t.Delete(ctx, fmt.Sprintf("%s/%d", adminsPath, id), nil)
}
