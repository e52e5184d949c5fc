package api

import (
	"context"

	"github.com/dmitrijs2005/companyadmin/internal/client/models"
)

const (
	loginPath  = "/auth/login"
	signupPath = "/auth/signup"
	mePath     = "/auth/me"
)

type AuthAPI struct {
	t Transport
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *AuthAPI) Login(ctx context.Context, email, password string) (models.TokenPair, error) {
	var out models.TokenPair
	err := a.t.PostJSON(ctx, loginPath, credentialsBody{Email: email, Password: password}, &out)
	return out, err
}

func (a *AuthAPI) Signup(ctx context.Context, email, password string) error {
	return a.t.PostJSON(ctx, signupPath, credentialsBody{Email: email, Password: password}, nil)
}

// Me returns the identity behind the current access credential.
func (a *AuthAPI) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := a.t.GetJSON(ctx, mePath, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
