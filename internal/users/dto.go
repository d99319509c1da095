package users

import (
	"github.com/giftconnect/giftconnect-backend/pkg/db/models"
	"github.com/giftconnect/giftconnect-backend/pkg/enums"
)

// UserDTO is the transport shape of an account. The password hash is never
// part of it.
type UserDTO struct {
	ID       int64          `json:"id"`
	Username string         `json:"username"`
	Email    string         `json:"email"`
	Name     string         `json:"name"`
	Company  *string        `json:"company"`
	Role     enums.UserRole `json:"role"`
}

// ProfileDTO is the public view of a user shown next to their gifts.
type ProfileDTO struct {
	ID       int64          `json:"id"`
	Username string         `json:"username"`
	Name     string         `json:"name"`
	Company  *string        `json:"company"`
	Role     enums.UserRole `json:"role"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Name:     u.Name,
		Company:  copyString(u.Company),
		Role:     u.Role,
	}
}

// FromModels strips credentials from a batch of users.
func FromModels(list []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}

func ProfileFromModel(u *models.User) ProfileDTO {
	return ProfileDTO{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Company:  copyString(u.Company),
		Role:     u.Role,
	}
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
