package api

import (
	"context"
	"io"

	"github.com/dmitrijs2005/companyadmin/internal/client/models"
)

const (
	avatarPath         = "/users/me/avatar"
	changePasswordPath = "/users/me/change-password"
)

type ProfileAPI struct {
	t Transport
}

// UploadAvatar sends the image read from r as the caller's avatar.
func (p *ProfileAPI) UploadAvatar(ctx context.Context, filename string, r io.Reader) (*models.User, error) {
	var out models.User
	if err := p.t.PostMultipart(ctx, avatarPath, "avatar", filename, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type changePasswordBody struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (p *ProfileAPI) ChangePassword(ctx context.Context, current, next, confirm string) error {
	return p.t.PostJSON(ctx, changePasswordPath, changePasswordBody{
		CurrentPassword: current,
		NewPassword:     next,
		ConfirmPassword: confirm,
	}, nil)
}
