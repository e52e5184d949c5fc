package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/companyadmin/internal/client/guard"
	"github.com/dmitrijs2005/companyadmin/internal/client/models"
)

// ListCompanies shows every company: companies [page] [sortBy] [order].
func (a *App) ListCompanies(ctx context.Context, args []string) error {
	page := 1
	var sortBy, order string

	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid page %q", args[0])
		}
		page = n
	}
	if len(args) > 1 {
		sortBy = args[1]
	}
	if len(args) > 2 {
		order = args[2]
	}

	p, err := a.companies.ListAll(ctx, page, sortBy, order)
	if err != nil {
		return err
	}
	renderCompanies(a.out, p, true)
	return nil
}

// MyCompanies shows the caller's companies: mine [page].
func (a *App) MyCompanies(ctx context.Context, args []string) error {
	page := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid page %q", args[0])
		}
		page = n
	}

	p, err := a.companies.ListMine(ctx, page)
	if err != nil {
		return err
	}
	a.println("My companies")
	renderCompanies(a.out, p, false)
	return nil
}

func (a *App) ShowCompany(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	c, err := a.companies.Get(ctx, id)
	if err != nil {
		return err
	}
	renderCompany(a.out, c)
	return nil
}

func (a *App) CreateCompany(ctx context.Context, _ []string) error {
	in, err := a.readCompany(models.CompanyInput{})
	if err != nil {
		return err
	}

	c, err := a.companies.Create(ctx, in)
	if err != nil {
		return err
	}

	a.printf("Company created (id %d). Add a logo with: logo %d <file>\n", c.ID, c.ID)
	a.Navigate(guard.Fill(guard.CompanyLogoPath, strconv.FormatInt(c.ID, 10)), false)
	return nil
}

// EditCompany prompts for every field showing the current value; an empty
// answer keeps it.
func (a *App) EditCompany(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	current, err := a.companies.Get(ctx, id)
	if err != nil {
		return err
	}

	in := models.CompanyInput{Name: current.Name, Service: current.Service, Capital: current.Capital}
	if current.Location != nil {
		in.Location = *current.Location
	}
	in, err = a.readCompany(in)
	if err != nil {
		return err
	}

	c, err := a.companies.Update(ctx, id, in)
	if err != nil {
		return err
	}
	a.println("Company updated")
	renderCompany(a.out, c)
	return nil
}

func (a *App) DeleteCompany(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	ok, err := Confirm(a.reader, fmt.Sprintf("Delete company %d?", id), a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.companies.Delete(ctx, id); err != nil {
		return err
	}
	a.println("Company deleted")
	return nil
}

func (a *App) UploadLogo(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	f, err := os.Open(args[1])
	if err != nil {
		return fmt.Errorf("open logo: %w", err)
	}
	defer f.Close()

	if _, err := a.companies.UploadLogo(ctx, id, filepath.Base(args[1]), f); err != nil {
		return err
	}
	a.println("Logo uploaded")
	a.Navigate(guard.CompaniesPath, false)
	return nil
}

// readCompany prompts for the company form starting from cur.
func (a *App) readCompany(cur models.CompanyInput) (models.CompanyInput, error) {
	in := cur

	name, err := getSimpleText(a.reader, withDefault("Company name", cur.Name), a.out)
	if err != nil {
		return in, err
	}
	if name != "" {
		in.Name = name
	}

	service, err := getSimpleText(a.reader, withDefault("Service", cur.Service), a.out)
	if err != nil {
		return in, err
	}
	if service != "" {
		in.Service = service
	}

	in.Capital, err = GetFloat(a.reader, withDefault("Capital", capitalDefault(cur)), a.out, cur.Capital)
	if err != nil {
		return in, err
	}

	loc, err := getSimpleText(a.reader, withDefault("Location as x, y", locationDefault(cur.Location)), a.out)
	if err != nil {
		return in, err
	}
	if loc != "" {
		p, err := models.ParsePoint("(" + strings.Trim(loc, "() ") + ")")
		if err != nil {
			return in, err
		}
		in.Location = p
	}
	return in, nil
}

func withDefault(prompt, def string) string {
	if def == "" {
		return prompt
	}
	return fmt.Sprintf("%s [%s]", prompt, def)
}

func capitalDefault(in models.CompanyInput) string {
	if in.Capital == 0 {
		return ""
	}
	return strconv.FormatFloat(in.Capital, 'f', -1, 64)
}

func locationDefault(p models.Point) string {
	if p.IsZero() {
		return ""
	}
	return strings.Trim(p.String(), "()")
}
