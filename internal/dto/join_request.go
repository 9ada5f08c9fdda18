package dto

import (
	"time"

	"github.com/clubhub/clubhub-api/internal/models"
)

// JoinRequestDTO represents a join request in API responses
type JoinRequestDTO struct {
	ID        uint64                   `json:"id"`
	ClubID    uint64                   `json:"club_id"`
	User      UserDTO                  `json:"user"`
	Message   string                   `json:"message"`
	Status    models.JoinRequestStatus `json:"status"`
	CreatedAt time.Time                `json:"created_at"`
}

// ToJoinRequestDTO converts a JoinRequest model to JoinRequestDTO
func ToJoinRequestDTO(req models.JoinRequest) JoinRequestDTO {
	return JoinRequestDTO{
		ID:        req.ID,
		ClubID:    req.ClubID,
		User:      ToUserDTO(req.User),
		Message:   req.Message,
		Status:    req.Status,
		CreatedAt: req.CreatedAt,
	}
}

// ToJoinRequestDTOs converts a join request slice
func ToJoinRequestDTOs(reqs []models.JoinRequest) []JoinRequestDTO {
	dtos := make([]JoinRequestDTO, len(reqs))
	for i, req := range reqs {
		dtos[i] = ToJoinRequestDTO(req)
	}
	return dtos
}
