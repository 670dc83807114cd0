package service

import (
	"context"
	"strings"

	"eventhub_backend/internals/features/users/user/dto"
	"eventhub_backend/internals/features/users/user/model"
	"eventhub_backend/internals/features/users/user/repository"

	"eventhub_backend/internals/apperror"
	"eventhub_backend/internals/constants"
)

// UserStore is the persistence slice profile operations need.
type UserStore interface {
	GetByID(ctx context.Context, userID uint) (*model.UserModel, error)
	UpdateFields(ctx context.Context, userID uint, updates map[string]interface{}) error
	Search(ctx context.Context, query string, offset, limit int) ([]model.PublicUser, error)
	AttendedEvents(ctx context.Context, userID uint, offset, limit int) ([]repository.UserEventRow, error)
	OrganizedEvents(ctx context.Context, userID uint, offset, limit int) ([]repository.UserEventRow, error)
}

type UserService struct {
	store UserStore
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

func (s *UserService) Profile(ctx context.Context, userID uint) (*model.UserModel, error) {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, apperror.NotFound(apperror.CodeUserNotFound, "User not found")
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req dto.UpdateProfileRequest) (*model.UserModel, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["user_name"] = *req.Name
	}
	if req.Governorate != nil {
		governorate := strings.ToLower(strings.TrimSpace(*req.Governorate))
		if !constants.IsValidGovernorate(governorate) {
			return nil, apperror.Validation(apperror.CodeInvalidData, "Validation failed",
				apperror.Detail{Field: "governorate", Code: "unknown_governorate"})
		}
		updates["user_governorate"] = governorate
	}
	if req.ImageURL != nil {
		updates["user_profile_image_url"] = *req.ImageURL
	}

	if len(updates) > 0 {
		if err := s.store.UpdateFields(ctx, userID, updates); err != nil {
			return nil, apperror.Internal(err)
		}
	}
	return s.Profile(ctx, userID)
}

func (s *UserService) SearchUsers(ctx context.Context, query string, offset, limit int) ([]model.PublicUser, error) {
	users, err := s.store.Search(ctx, query, offset, limit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return users, nil
}

func (s *UserService) AttendedEvents(ctx context.Context, userID uint, offset, limit int) ([]repository.UserEventRow, error) {
	rows, err := s.store.AttendedEvents(ctx, userID, offset, limit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return rows, nil
}

func (s *UserService) OrganizedEvents(ctx context.Context, userID uint, offset, limit int) ([]repository.UserEventRow, error) {
	rows, err := s.store.OrganizedEvents(ctx, userID, offset, limit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return rows, nil
}
