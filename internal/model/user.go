package model

import "github.com/pixelfit/backend/internal/entity"

type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Gender    string `json:"gender"`
	Email     string `json:"email"`
	Provider  string `json:"provider"`
	AvatarURL string `json:"avatar_url"`
}

func ConvertUser(user *entity.User) User {
	return User{
		ID:        user.ID,
		Name:      user.Name,
		Username:  user.Username.String,
		Gender:    user.Gender,
		Email:     user.Email,
		Provider:  user.Provider,
		AvatarURL: user.AvatarURL,
	}
}

type GetMeRequest struct{}

type GetMeResponse struct {
	User User `json:"user"`
}

type UpdateUsernameRequest struct {
	Username string `json:"username"`
}

type UpdateUsernameResponse struct {
	Username string `json:"username"`
}
