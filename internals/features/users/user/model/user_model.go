package model

import "time"

type UserModel struct {
	UserID uint `gorm:"column:user_id;primaryKey" json:"user_id"`

	UserUsername     string  `gorm:"column:user_username;type:varchar(32);unique;not null" json:"user_username"`
	UserEmail        string  `gorm:"column:user_email;type:varchar(255);unique;not null" json:"user_email"`
	UserPasswordHash string  `gorm:"column:user_password_hash;not null" json:"-"`
	UserName         string  `gorm:"column:user_name;type:varchar(100);not null" json:"user_name"`
	UserGovernorate  *string `gorm:"column:user_governorate;type:varchar(30)" json:"user_governorate,omitempty"`
	UserImageURL     *string `gorm:"column:user_profile_image_url" json:"user_profile_image_url,omitempty"`
	UserIsVerified   bool    `gorm:"column:user_is_verified;not null;default:false" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

// PublicUser is the sanitized projection embedded in listings and
// notification payloads.
type PublicUser struct {
	UserID       uint    `json:"user_id"`
	UserUsername string  `json:"user_username"`
	UserName     string  `json:"user_name"`
	UserImageURL *string `json:"user_profile_image_url,omitempty"`
}

func (u *UserModel) Public() PublicUser {
	return PublicUser{
		UserID:       u.UserID,
		UserUsername: u.UserUsername,
		UserName:     u.UserName,
		UserImageURL: u.UserImageURL,
	}
}
