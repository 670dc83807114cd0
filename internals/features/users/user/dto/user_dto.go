package dto

type UpdateProfileRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Governorate *string `json:"governorate"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
}

type SearchUsersRequest struct {
	Query string `query:"q" validate:"required,min=2,max=50"`
}
