package user

import "openears-backend/internal/models"

type UserResponse struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Location string      `json:"location"`
	Role     models.Role `json:"role"`
	Balance  float64     `json:"balance"`
	Token    string      `json:"token,omitempty"`
}

func NewUserResponse(u models.User, token string) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Location: u.Location,
		Role:     u.Role,
		Balance:  u.Balance,
		Token:    token,
	}
}

type UpdateProfileInput struct {
	Username *string `json:"username"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Location *string `json:"location"`
}
