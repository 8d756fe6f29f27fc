package users

import (
	"context"
	"errors"
	"strings"

	"campuspark/internal/shared/constants"
	"campuspark/internal/shared/utils/validation"
	"campuspark/pkg/cache"
	"campuspark/pkg/logger"
)

var ErrOKUIDRequired = errors.New("oku id is required for OKU cardholders")

type Service interface {
	GetProfile(ctx context.Context, userID string) (*ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*ProfileResponse, error)
	SetCacheService(cacheService cache.Service)
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) GetProfile(ctx context.Context, userID string) (*ProfileResponse, error) {
	if s.cacheService == nil {
		user, err := s.repo.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		return ToProfileResponse(user), nil
	}

	var profile ProfileResponse
	err := s.cacheService.GetOrSet(ctx, constants.BuildUserProfileKey(userID), constants.TTL_USER_PROFILE,
		func() (interface{}, error) {
			user, err := s.repo.GetByID(ctx, userID)
			if err != nil {
				return nil, err
			}
			return ToProfileResponse(user), nil
		}, &profile)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*ProfileResponse, error) {
	current, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.StudentID != nil {
		updates["student_id"] = validation.NormalizeStudentID(*req.StudentID)
	}
	if req.CarPlate != nil {
		updates["car_plate"] = validation.NormalizeCarPlate(*req.CarPlate)
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.ProfileImage != nil {
		updates["profile_image"] = *req.ProfileImage
	}

	isOKU := current.IsOKU
	okuID := current.OKUID
	if req.IsOKU != nil {
		isOKU = *req.IsOKU
		updates["is_oku"] = isOKU
	}
	if req.OKUID != nil {
		okuID = strings.TrimSpace(*req.OKUID)
		updates["oku_id"] = okuID
	}
	if isOKU && len(okuID) < 3 {
		return nil, ErrOKUIDRequired
	}
	if !isOKU && req.IsOKU != nil {
		updates["oku_id"] = ""
	}

	if len(updates) == 0 {
		return ToProfileResponse(current), nil
	}

	user, err := s.repo.UpdateProfile(ctx, userID, updates)
	if err != nil {
		return nil, err
	}

	if s.cacheService != nil {
		if err := s.cacheService.Delete(ctx, constants.BuildUserProfileKey(userID)); err != nil {
			logger.GetDefault().WithUserID(userID).WithError(err).Warn("failed to invalidate profile cache")
		}
	}

	return ToProfileResponse(user), nil
}
