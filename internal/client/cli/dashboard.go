package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/companyadmin/internal/client/models"
	"github.com/dmitrijs2005/companyadmin/internal/client/session"
)

// Dashboard is the default landing screen: statistics for admins, the
// caller's own companies for everyone else.
func (a *App) Dashboard(ctx context.Context, _ []string) error {
	st := session.MustFromContext(ctx).Snapshot()
	if !st.Role.In(models.RoleAdmin, models.RoleSuperAdmin) {
		return a.MyCompanies(ctx, nil)
	}

	stats, err := a.admins.Stats(ctx)
	if err != nil {
		return err
	}
	a.printf("Dashboard (%s)\n", st.Role)
	a.printf("  Users:     %d\n", stats.TotalUsers)
	a.printf("  Companies: %d\n", stats.TotalCompanies)
	return nil
}

func (a *App) ListAdmins(ctx context.Context, _ []string) error {
	admins, err := a.admins.Admins(ctx)
	if err != nil {
		return err
	}
	if len(admins) == 0 {
		a.println("No admins found.")
		return nil
	}

	tw := newTable(a.out, "ID", "EMAIL")
	for _, ad := range admins {
		row(tw, fmt.Sprint(ad.ID), ad.Email)
	}
	return tw.Flush()
}

func (a *App) AddAdmin(ctx context.Context, args []string) error {
	ad, err := a.admins.AddAdmin(ctx, args[0])
	if err != nil {
		return err
	}
	a.printf("Admin added: %s\n", ad.Email)
	return nil
}

func (a *App) DeleteAdmin(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	ok, err := Confirm(a.reader, fmt.Sprintf("Remove admin %d?", id), a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.admins.DeleteAdmin(ctx, id); err != nil {
		return err
	}
	a.println("Admin removed")
	return nil
}

// History shows the audit log: every user's actions for admins, the
// caller's own otherwise.
func (a *App) History(ctx context.Context, _ []string) error {
	st := session.MustFromContext(ctx).Snapshot()
	all := st.Role.In(models.RoleAdmin, models.RoleSuperAdmin)

	actions, err := a.history.List(ctx, all)
	if err != nil {
		return err
	}
	if all {
		a.println("Action history (all users)")
	} else {
		a.println("My action history")
	}
	renderHistory(a.out, actions, all)
	return nil
}

func (a *App) Profile(ctx context.Context, _ []string) error {
	st := session.MustFromContext(ctx).Snapshot()
	if st.User == nil {
		return nil
	}
	a.printf("Email:  %s\n", st.User.Email)
	a.printf("Role:   %s\n", st.Role)
	a.printf("Avatar: %s\n", orDash(st.User.AvatarURL))
	return nil
}

func (a *App) UploadAvatar(ctx context.Context, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open avatar: %w", err)
	}
	defer f.Close()

	u, err := a.profile.UploadAvatar(ctx, filepath.Base(args[0]), f)
	if err != nil {
		return err
	}
	a.printf("Avatar updated: %s\n", orDash(u.AvatarURL))
	return nil
}

func (a *App) ChangePassword(ctx context.Context, _ []string) error {
	current, err := getPassword(a.reader, "Current password", a.out)
	if err != nil {
		return err
	}
	next, err := getPassword(a.reader, "New password", a.out)
	if err != nil {
		return err
	}
	confirm, err := getPassword(a.reader, "Confirm new password", a.out)
	if err != nil {
		return err
	}

	if err := a.profile.ChangePassword(ctx, current, next, confirm); err != nil {
		return err
	}
	a.println("Password changed successfully")
	return nil
}
