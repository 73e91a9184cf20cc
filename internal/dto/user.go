package dto

import "github.com/planflow/planboard-api/internal/models"

// UserDTO represents a user in API responses
type UserDTO struct {
	ID    uint64 `json:"id"`
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// ToUserDTO converts a user to DTO, with the directory uid the
// comment endpoints expect as userId.
func ToUserDTO(user models.User, uid string) UserDTO {
	return UserDTO{
		ID:    user.ID,
		UID:   uid,
		Email: user.Email,
	}
}

// UserEmailsResponse lists the directory emails for mention
// suggestions.
type UserEmailsResponse struct {
	Emails []string `json:"emails"`
}
