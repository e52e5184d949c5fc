// Package services contains application services for the company admin
// client. Services validate input before anything reaches the backend, call
// the API wrappers and drive the session.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/companyadmin/internal/client/client"
	"github.com/dmitrijs2005/companyadmin/internal/client/models"
	"github.com/dmitrijs2005/companyadmin/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/companyadmin/internal/client/session"
	"github.com/dmitrijs2005/companyadmin/internal/common"
	"github.com/dmitrijs2005/companyadmin/internal/validation"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: validate, authenticate against the backend and start the session.
//   - Register: validate and create a new account; does not log in.
//   - Logout: end the session; idempotent.
//   - Status: current session plus the access credential's expiry, if known.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, email, password, confirm string) error
	Logout(ctx context.Context)
	Status(ctx context.Context) (Status, error)
}

// Authenticator is the part of the auth API the service calls.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (models.TokenPair, error)
	Signup(ctx context.Context, email, password string) error
}

// Session is the part of the session manager the service drives.
type Session interface {
	Login(ctx context.Context, access, refresh string) error
	Logout(ctx context.Context)
	Snapshot() session.State
}

// Status describes the current session.
type Status struct {
	session.State
	// ExpiresAt is the access credential's expiry; zero when unknown.
	ExpiresAt time.Time
	// CanRefresh is set when a refresh credential is persisted.
	CanRefresh bool
}

type authService struct {
	api     Authenticator
	session Session
	store   credentials.Store
}

func NewAuthService(api Authenticator, s Session, store credentials.Store) AuthService {
	return &authService{api: api, session: s, store: store}
}

func (a *authService) Login(ctx context.Context, email, password string) error {
	if err := validation.Struct(&validation.LoginForm{Email: email, Password: password}); err != nil {
		return err
	}

	pair, err := a.api.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return fmt.Errorf("login error: %w", common.ErrInvalidToken)
	}

	if err := a.session.Login(ctx, pair.AccessToken, pair.RefreshToken); err != nil {
		return fmt.Errorf("session error: %w", err)
	}
	return nil
}

func (a *authService) Register(ctx context.Context, email, password, confirm string) error {
	form := validation.SignupForm{Email: email, Password: password, ConfirmPassword: confirm}
	if err := validation.Struct(&form); err != nil {
		return err
	}
	if err := a.api.Signup(ctx, email, password); err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	return nil
}

func (a *authService) Logout(ctx context.Context) {
	a.session.Logout(ctx)
}

func (a *authService) Status(ctx context.Context) (Status, error) {
	st := Status{State: a.session.Snapshot()}
	if !st.IsAuthenticated() {
		return st, nil
	}

	access, refresh, err := credentials.LoadPair(ctx, a.store)
	if err != nil {
		return st, fmt.Errorf("read credentials: %w", err)
	}
	st.CanRefresh = refresh != ""
	exp, err := client.TokenExpiry(access)
	if err != nil && !errors.Is(err, common.ErrInvalidToken) {
		return st, err
	}
	st.ExpiresAt = exp
	return st, nil
}
