package service

import (
	"context"
	"errors"

	"github.com/platewatch/api/internal/dto"
	apperrors "github.com/platewatch/api/internal/errors"
	"gorm.io/gorm"
)

// UserService serves the authenticated user's own profile.
type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*dto.ProfileResponse, error) {
	user, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := &dto.ProfileResponse{
		UserPublic: publicUser(user),
		Cars:       make([]dto.CarResponse, 0, len(user.Cars)),
		Reports:    make([]dto.ReportResponse, 0, len(user.Reports)),
	}
	for i := range user.Cars {
		resp.Cars = append(resp.Cars, carResponse(&user.Cars[i]))
	}
	for i := range user.Reports {
		resp.Reports = append(resp.Reports, reportResponse(&user.Reports[i]))
	}
	return resp, nil
}
