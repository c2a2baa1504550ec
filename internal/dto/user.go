package dto

import "github.com/yukikurage/pickpic-api/internal/models"

// UserDTO represents a user in API responses
type UserDTO struct {
	ID             uint64 `json:"id"`
	DisplayName    string `json:"display_name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:             user.ID,
		DisplayName:    user.DisplayName,
		Email:          user.Email,
		ProfilePicture: user.ProfilePicture,
	}
}

// EmailLookupDTO pairs a requested email with the resolved user, if any
type EmailLookupDTO struct {
	Email string   `json:"email"`
	User  *UserDTO `json:"user"`
}

// ToEmailLookupDTOs builds the per-email resolution list
func ToEmailLookupDTOs(emails []string, users []*models.User) []EmailLookupDTO {
	results := make([]EmailLookupDTO, len(emails))
	for i, email := range emails {
		results[i] = EmailLookupDTO{Email: email}
		if users[i] != nil {
			u := ToUserDTO(*users[i])
			results[i].User = &u
		}
	}
	return results
}
