package dto

import (
	"ShengHang/internal/model"
	"time"
)

type UserProfileResponse struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	Gender    string    `json:"gender"`
	Region    string    `json:"region"`
	Email     string    `json:"email"`
	Profile   string    `json:"profile"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

func ToUserProfileResponse(user *model.User) UserProfileResponse {
	return UserProfileResponse{
		ID:        user.ID,
		Username:  user.Username,
		Gender:    user.Gender,
		Region:    user.Region,
		Email:     user.Email,
		Profile:   user.Profile,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
	}
}

func ToUserInfos(users []model.User) []UserInfo {
	response := make([]UserInfo, 0, len(users))
	for _, u := range users {
		response = append(response, UserInfo{ID: u.ID, Username: u.Username})
	}
	return response
}
