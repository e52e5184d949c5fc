package services

import (
	"context"
	"io"

	"github.com/dmitrijs2005/companyadmin/internal/client/models"
	"github.com/dmitrijs2005/companyadmin/internal/validation"
)

type ProfileAPI interface {
	UploadAvatar(ctx context.Context, filename string, r io.Reader) (*models.User, error)
	ChangePassword(ctx context.Context, current, next, confirm string) error
}

type ProfileService struct {
	api ProfileAPI
}

func NewProfileService(api ProfileAPI) *ProfileService {
	return &ProfileService{api: api}
}

func (s *ProfileService) ChangePassword(ctx context.Context, current, next, confirm string) error {
	form := validation.ChangePasswordForm{CurrentPassword: current, NewPassword: next, ConfirmPassword: confirm}
	if err := validation.Struct(&form); err != nil {
		return err
	}
	return s.api.ChangePassword(ctx, current, next, confirm)
}

func (s *ProfileService) UploadAvatar(ctx context.Context, filename string, r io.Reader) (*models.User, error) {
	return s.api.UploadAvatar(ctx, filename, r)
}
