package cli

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/dmitrijs2005/companyadmin/internal/client/client"
	"github.com/dmitrijs2005/companyadmin/internal/client/guard"
	"github.com/dmitrijs2005/companyadmin/internal/client/session"
	"github.com/dmitrijs2005/companyadmin/internal/common"
	"github.com/dmitrijs2005/companyadmin/internal/validation"
)

func (a *App) commands() []command {
	return []command{
		{name: "register", route: common.RegisterPath, usage: "register", run: a.Register},
		{name: "login", route: common.LoginPath, usage: "login", run: a.Login},
		{name: "logout", usage: "logout", run: a.Logout},
		{name: "status", usage: "status", run: a.Status},

		{name: "dashboard", route: common.DashboardPath, usage: "dashboard", run: a.Dashboard},
		{name: "companies", route: guard.CompaniesPath, usage: "companies [page] [name|capital|created_at] [asc|desc]", run: a.ListCompanies},
		{name: "mine", route: common.DashboardPath, usage: "mine [page]", run: a.MyCompanies},
		{name: "show", route: guard.CompanyPath, usage: "show <id>", minArgs: 1, run: a.ShowCompany},
		{name: "create", route: guard.CreateCompanyPath, usage: "create", run: a.CreateCompany},
		{name: "edit", route: guard.EditCompanyPath, usage: "edit <id>", minArgs: 1, run: a.EditCompany},
		{name: "delete", route: guard.CompanyPath, usage: "delete <id>", minArgs: 1, run: a.DeleteCompany},
		{name: "logo", route: guard.CompanyLogoPath, usage: "logo <id> <file>", minArgs: 2, run: a.UploadLogo},

		{name: "admins", route: guard.AdminsPath, usage: "admins", run: a.ListAdmins},
		{name: "addadmin", route: guard.AdminsPath, usage: "addadmin <email>", minArgs: 1, run: a.AddAdmin},
		{name: "deladmin", route: guard.AdminsPath, usage: "deladmin <id>", minArgs: 1, run: a.DeleteAdmin},

		{name: "history", route: guard.HistoryPath, usage: "history", run: a.History},

		{name: "profile", route: guard.ProfilePath, usage: "profile", run: a.Profile},
		{name: "avatar", route: guard.ProfilePath, usage: "avatar <file>", minArgs: 1, run: a.UploadAvatar},
		{name: "passwd", route: guard.ProfilePath, usage: "passwd", run: a.ChangePassword},
	}
}

func (a *App) lookup(name string) (command, bool) {
	for _, c := range a.commands() {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// help lists the commands the current session may run.
func (a *App) help() string {
	st := a.session.Snapshot()

	names := []string{"help"}
	for _, c := range a.commands() {
		if c.route == "" {
			if st.IsAuthenticated() {
				names = append(names, c.name)
			}
			continue
		}
		r, _ := guard.Match(c.route)
		switch {
		case r.Public && !st.IsAuthenticated():
			names = append(names, c.name)
		case !r.Public && guard.Check(st, r) == guard.Allow:
			names = append(names, c.name)
		}
	}
	names = append(names, "exit")

	var b strings.Builder
	b.WriteString("Available commands: " + strings.Join(names, ", "))
	if items := guard.NavItems(st.Role); st.IsAuthenticated() && len(items) > 0 {
		labels := make([]string, 0, len(items))
		for _, it := range items {
			labels = append(labels, it.Label+" "+it.Path)
		}
		b.WriteString("\nMenu: " + strings.Join(labels, " | "))
	}
	return b.String()
}

// exec runs cmd behind the route guard.
func (a *App) exec(ctx context.Context, cmd command, args []string) error {
	if cmd.route == "" {
		return cmd.run(ctx, args)
	}

	target := guard.Fill(cmd.route, args...)
	route, ok := guard.Match(target)
	if !ok {
		route, _ = guard.Match(cmd.route)
		target = cmd.route
	}

	m := session.MustFromContext(ctx)
	decision := guard.Check(m.Snapshot(), route)
	if decision == guard.Pending {
		a.println("loading...")
		m.Init(ctx)
		decision = guard.Check(m.Snapshot(), route)
	}

	switch decision {
	case guard.RedirectLogin:
		a.Navigate(decision.Target(), true)
		a.println("Please log in to continue.")
		return nil
	case guard.RedirectDefault:
		a.Navigate(decision.Target(), true)
		return a.Dashboard(ctx, nil)
	case guard.Allow:
		a.Navigate(target, false)
		return cmd.run(ctx, args)
	default:
		return nil
	}
}

// report prints err unless the gateway already notified the user about it.
func (a *App) report(err error) {
	if err == nil || client.Reported(err) || errors.Is(err, context.Canceled) {
		return
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for f := range verrs {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		a.println("[error] Please fix the highlighted errors")
		for _, f := range fields {
			a.printf("  %s: %s\n", f, verrs[f])
		}
		return
	}

	a.Notify(context.Background(), client.Notification{Level: client.LevelError, Message: client.UserMessage(err)})
}
