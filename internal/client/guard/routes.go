package guard

import (
	"strings"

	"github.com/dmitrijs2005/companyadmin/internal/client/models"
	"github.com/dmitrijs2005/companyadmin/internal/common"
)

const (
	CompaniesPath     = "/companies"
	CreateCompanyPath = "/companies/create"
	CompanyPath       = "/companies/:id"
	EditCompanyPath   = "/companies/:id/edit"
	CompanyLogoPath   = "/companies/:id/logo"
	AdminsPath        = "/admins"
	HistoryPath       = "/history"
	ProfilePath       = "/profile"
)

var privileged = []models.Role{models.RoleAdmin, models.RoleSuperAdmin}

// Route is a screen pattern and the roles allowed to see it. Segments
// starting with ':' match any single path segment.
type Route struct {
	Pattern string
	Roles   []models.Role
	Public  bool
}

var Routes = []Route{
	{Pattern: common.LoginPath, Public: true},
	{Pattern: common.RegisterPath, Public: true},
	{Pattern: common.DashboardPath},
	{Pattern: CompaniesPath, Roles: privileged},
	{Pattern: CreateCompanyPath},
	{Pattern: CompanyPath},
	{Pattern: EditCompanyPath},
	{Pattern: CompanyLogoPath},
	{Pattern: AdminsPath, Roles: []models.Role{models.RoleSuperAdmin}},
	{Pattern: HistoryPath},
	{Pattern: ProfilePath},
}

// Match returns the first route whose pattern matches path. Literal
// segments win over parameters because literal routes are listed first.
func Match(path string) (Route, bool) {
	path, _, _ = strings.Cut(path, "?")
	for _, r := range Routes {
		if matches(r.Pattern, path) {
			return r, true
		}
	}
	return Route{}, false
}

func matches(pattern, path string) bool {
	ps := splitPath(pattern)
	xs := splitPath(path)
	if len(ps) != len(xs) {
		return false
	}
	for i, p := range ps {
		if strings.HasPrefix(p, ":") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if p != xs[i] {
			return false
		}
	}
	return true
}

func splitPath(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}

// Fill substitutes the pattern's parameters in order.
func Fill(pattern string, params ...string) string {
	parts := splitPath(pattern)
	for i, p := range parts {
		if strings.HasPrefix(p, ":") && len(params) > 0 {
			parts[i] = params[0]
			params = params[1:]
		}
	}
	return "/" + strings.Join(parts, "/")
}

type NavItem struct {
	Label string
	Path  string
}

// NavItems is the menu shown to role. Unknown roles get no menu.
func NavItems(role models.Role) []NavItem {
	switch role {
	case models.RoleSuperAdmin:
		return []NavItem{
			{Label: "Dashboard", Path: common.DashboardPath},
			{Label: "Companies", Path: CompaniesPath},
			{Label: "Admins", Path: AdminsPath},
			{Label: "History", Path: HistoryPath},
		}
	case models.RoleAdmin:
		return []NavItem{
			{Label: "Dashboard", Path: common.DashboardPath},
			{Label: "Companies", Path: CompaniesPath},
			{Label: "History", Path: HistoryPath},
		}
	case models.RoleUser:
		return []NavItem{
			{Label: "Create Company", Path: CreateCompanyPath},
			{Label: "My History", Path: HistoryPath},
		}
	default:
		return nil
	}
}
