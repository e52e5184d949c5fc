package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/companyadmin/internal/common"
	"github.com/dustin/go-humanize"
)

// Register prompts for an email and a password (twice) and creates the
// account. The user is sent to the login screen afterwards.
func (a *App) Register(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}

	if err := a.authService.Register(ctx, email, password, confirm); err != nil {
		return err
	}

	a.println("Registration successful. Please log in.")
	a.Navigate(common.LoginPath, false)
	return nil
}

// Login prompts for credentials, starts the session and shows the dashboard.
func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}

	if err := a.authService.Login(ctx, email, password); err != nil {
		a.logger.Info(ctx, "login unsuccessful", "email", email)
		return err
	}

	a.println("Login successful")
	a.Navigate(common.DashboardPath, false)
	return a.Dashboard(ctx, nil)
}

// Logout ends the session. It is safe to call when not logged in.
func (a *App) Logout(ctx context.Context, _ []string) error {
	a.authService.Logout(ctx)
	a.Navigate(common.LoginPath, true)
	a.println("Logged out")
	return nil
}

func (a *App) Status(ctx context.Context, _ []string) error {
	st, err := a.authService.Status(ctx)
	if err != nil {
		return err
	}

	if a.config != nil {
		a.printf("Server:  %s\n", a.config.ServerURL)
	}
	a.printf("Session: %s\n", st.Status)
	if !st.IsAuthenticated() {
		return nil
	}
	a.printf("User:    %s (%s)\n", st.User.Email, st.Role)
	if !st.ExpiresAt.IsZero() {
		a.printf("Token:   expires %s\n", humanize.Time(st.ExpiresAt))
	}
	if !st.CanRefresh {
		a.println("Refresh: unavailable")
	}
	a.println(fmt.Sprintf("Screen:  %s", a.currentScreen()))
	return nil
}
