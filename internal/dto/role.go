package dto

import (
	"github.com/clubhub/clubhub-api/internal/models"
	"github.com/clubhub/clubhub-api/internal/permissions"
)

// RoleDTO represents a role in API responses
type RoleDTO struct {
	ID          uint64          `json:"id"`
	ClubID      uint64          `json:"club_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Kind        models.RoleKind `json:"kind"`
}

// RoleDetailDTO represents a role with its stored grants
type RoleDetailDTO struct {
	RoleDTO
	Permissions map[permissions.Capability]bool `json:"permissions"`
}

// ToRoleDTO converts a Role model to RoleDTO
func ToRoleDTO(role models.Role) RoleDTO {
	return RoleDTO{
		ID:          role.ID,
		ClubID:      role.ClubID,
		Name:        role.Name,
		Description: role.Description,
		Kind:        role.Kind,
	}
}

// ToRoleDTOs converts a role slice
func ToRoleDTOs(roles []models.Role) []RoleDTO {
	dtos := make([]RoleDTO, len(roles))
	for i, role := range roles {
		dtos[i] = ToRoleDTO(role)
	}
	return dtos
}

// ToRoleDetailDTO converts a role and its grant map to a detailed DTO
func ToRoleDetailDTO(role models.Role, grants map[permissions.Capability]bool) RoleDetailDTO {
	if grants == nil {
		grants = map[permissions.Capability]bool{}
	}
	return RoleDetailDTO{
		RoleDTO:     ToRoleDTO(role),
		Permissions: grants,
	}
}
