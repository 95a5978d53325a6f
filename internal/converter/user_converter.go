package converter

import (
	"time"

	"clinical-followup-platform/internal/delivery/dto"
	"clinical-followup-platform/internal/domain/entity"
)

func UserToResponse(user *entity.User) dto.UserResponse {
	isActive := true
	if user.IsActive != nil {
		isActive = *user.IsActive
	}
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		IsActive:  isActive,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}
