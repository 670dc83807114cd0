package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"eventhub_backend/internals/features/users/user/model"
)

type UserRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.UserModel) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetByID(ctx context.Context, userID uint) (*model.UserModel, error) {
	return r.one(ctx, "user_id = ?", userID)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.UserModel, error) {
	return r.one(ctx, "user_email = ?", email)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.UserModel, error) {
	return r.one(ctx, "user_username = ?", username)
}

func (r *UserRepository) one(ctx context.Context, query string, arg interface{}) (*model.UserModel, error) {
	var user model.UserModel
	err := r.db.WithContext(ctx).First(&user, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpdateFields(ctx context.Context, userID uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.UserModel{}).
		Where("user_id = ?", userID).
		Updates(updates).Error
}

// Search matches usernames and display names, prefix-first.
func (r *UserRepository) Search(ctx context.Context, query string, offset, limit int) ([]model.PublicUser, error) {
	var users []model.UserModel
	pattern := query + "%"
	err := r.db.WithContext(ctx).
		Where("user_username ILIKE ? OR user_name ILIKE ?", pattern, pattern).
		Order("user_username ASC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	results := make([]model.PublicUser, 0, len(users))
	for i := range users {
		results = append(results, users[i].Public())
	}
	return results, nil
}
