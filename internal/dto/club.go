package dto

import (
	"time"

	"github.com/clubhub/clubhub-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64 `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ClubDTO represents a club in API responses
type ClubDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	AccessCode  string `json:"access_code,omitempty"`
}

// ClubWithRoleDTO represents a club together with the caller's role in it
type ClubWithRoleDTO struct {
	ClubDTO
	Role     RoleDTO   `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// MemberDTO represents a club member in API responses
type MemberDTO struct {
	User          UserDTO   `json:"user"`
	Role          RoleDTO   `json:"role"`
	IsOwnerHolder bool      `json:"is_owner_holder"`
	JoinedAt      time.Time `json:"joined_at"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

// ToClubDTO converts a Club model to ClubDTO. The access code is only
// included for callers allowed to share it.
func ToClubDTO(club models.Club, includeAccessCode bool) ClubDTO {
	dto := ClubDTO{
		ID:          club.ID,
		Name:        club.Name,
		Description: club.Description,
	}
	if includeAccessCode {
		dto.AccessCode = club.AccessCode
	}
	return dto
}

// ToClubWithRoleDTO converts a membership to a club listing entry
func ToClubWithRoleDTO(member models.Membership) ClubWithRoleDTO {
	return ClubWithRoleDTO{
		ClubDTO:  ToClubDTO(member.Club, false),
		Role:     ToRoleDTO(member.Role),
		JoinedAt: member.JoinedAt,
	}
}

// ToMemberDTO converts a membership to MemberDTO
func ToMemberDTO(member models.Membership) MemberDTO {
	return MemberDTO{
		User:          ToUserDTO(member.User),
		Role:          ToRoleDTO(member.Role),
		IsOwnerHolder: member.IsOwnerHolder,
		JoinedAt:      member.JoinedAt,
	}
}

// ToMemberDTOs converts a membership slice
func ToMemberDTOs(members []models.Membership) []MemberDTO {
	dtos := make([]MemberDTO, len(members))
	for i, member := range members {
		dtos[i] = ToMemberDTO(member)
	}
	return dtos
}
