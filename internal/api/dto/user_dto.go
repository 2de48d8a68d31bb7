package dto

import (
	"time"

	"github.com/spec-kit/trend-blog/internal/domain"
)

// RegisterRequest payload for new users.
type RegisterRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email_format"`
	Password  string `json:"password" validate:"required,password_complexity"`
	Timestamp int64  `json:"timestamp"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
	Timestamp int64  `json:"timestamp"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,password_complexity"`
	Timestamp       int64  `json:"timestamp"`
}

// UpdateProfileRequest payload for self-service profile edits.
type UpdateProfileRequest struct {
	Name      string `json:"name" validate:"required"`
	Timestamp int64  `json:"timestamp"`
}

// ApproveUserRequest payload for the admin approval flow.
type ApproveUserRequest struct {
	UserID    string `json:"userId" validate:"required"`
	Approved  bool   `json:"approved"`
	Timestamp int64  `json:"timestamp"`
}

// DeleteUserRequest payload for admin deletes.
type DeleteUserRequest struct {
	UserID    string `json:"userId" validate:"required"`
	Timestamp int64  `json:"timestamp"`
}

// AdminUpdateUserRequest payload for admin edits of any account. Empty
// fields keep their stored values.
type AdminUpdateUserRequest struct {
	UserID     string `json:"userId" validate:"required"`
	Name       string `json:"name"`
	Email      string `json:"email" validate:"omitempty,email_format"`
	ApprovedYN string `json:"approvedYN" validate:"omitempty,oneof=Y N"`
	Timestamp  int64  `json:"timestamp"`
}

// UserResponse is the client-visible account shape. No password field, ever.
type UserResponse struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	ApprovedYN string      `json:"approvedYN"`
	Role       domain.Role `json:"role"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// NewUserResponse maps the domain record.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		ApprovedYN: user.ApprovedYN,
		Role:       user.Role,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}

// NewUserResponses maps a slice of domain records.
func NewUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
