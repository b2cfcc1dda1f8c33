package dto

import (
	"time"

	"machinaka-be/internal/model"
)

type RegisterUserRequest struct {
	Username       string   `json:"username" validate:"required,min=1,max=50"`
	Age            int      `json:"age" validate:"required,min=18,max=120"`
	Gender         string   `json:"gender" validate:"required,oneof=male female other"`
	Interests      []string `json:"interests"`
	SeekingType    string   `json:"seeking_type" validate:"omitempty,oneof=romance friendship hobby"`
	ProfilePicture string   `json:"profile_picture"`
	Bio            string   `json:"bio" validate:"max=500"`
}

type UpdateUserRequest struct {
	Username       *string  `json:"username" validate:"omitempty,min=1,max=50"`
	Age            *int     `json:"age" validate:"omitempty,min=18,max=120"`
	Gender         *string  `json:"gender" validate:"omitempty,oneof=male female other"`
	Interests      []string `json:"interests"`
	SeekingType    *string  `json:"seeking_type" validate:"omitempty,oneof=romance friendship hobby"`
	ProfilePicture *string  `json:"profile_picture"`
	Bio            *string  `json:"bio" validate:"omitempty,max=500"`
}

type UserResponse struct {
	Success bool        `json:"success"`
	User    *model.User `json:"user"`
}

type UserListResponse struct {
	Users []model.User `json:"users"`
	Total int64        `json:"total"`
}

// HealthResponse mirrors the /health probe payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
