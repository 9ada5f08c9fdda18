package repository

import (
	"errors"
	"fmt"

	"github.com/clubhub/clubhub-api/internal/models"
	"gorm.io/gorm"
)

// GormClubRepository is a GORM implementation of ClubRepository
type GormClubRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateClub is returned when creating the club fails inside the bootstrap transaction.
	ErrCreateClub = errors.New("club repository: create club failed")
	// ErrCreateRole is returned when creating a bootstrap role fails.
	ErrCreateRole = errors.New("club repository: create role failed")
	// ErrCreateMembership is returned when creating the owner membership fails.
	ErrCreateMembership = errors.New("club repository: create membership failed")
)

// NewClubRepository creates a new ClubRepository
func NewClubRepository(db *gorm.DB) ClubRepository {
	return &GormClubRepository{db: db}
}

// CreateWithOwner creates the club, both bootstrap roles, the creator's
// owner-holder membership, and the default role's baseline grants atomically.
func (r *GormClubRepository) CreateWithOwner(club *models.Club, ownerRole, defaultRole *models.Role, member *models.Membership, grants []models.RolePermission) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(club).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateClub, err)
		}

		ownerRole.ClubID = club.ID
		defaultRole.ClubID = club.ID
		if err := tx.Create(ownerRole).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateRole, err)
		}
		if err := tx.Create(defaultRole).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateRole, err)
		}

		member.ClubID = club.ID
		member.RoleID = ownerRole.ID
		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateMembership, err)
		}

		for i := range grants {
			grants[i].RoleID = defaultRole.ID
		}
		if len(grants) > 0 {
			if err := tx.Create(&grants).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrCreateRole, err)
			}
		}

		return nil
	})
}

// FindByID finds a club by ID
func (r *GormClubRepository) FindByID(id uint64) (*models.Club, error) {
	var club models.Club
	if err := r.db.First(&club, id).Error; err != nil {
		return nil, err
	}
	return &club, nil
}

// FindActiveByAccessCode finds an active club by its join code
func (r *GormClubRepository) FindActiveByAccessCode(code string) (*models.Club, error) {
	var club models.Club
	if err := r.db.Where("access_code = ? AND is_active = ?", code, true).
		First(&club).Error; err != nil {
		return nil, err
	}
	return &club, nil
}

// Update updates a club
func (r *GormClubRepository) Update(club *models.Club) error {
	return r.db.Save(club).Error
}

// AccessCodeExists reports whether any club already holds the code
func (r *GormClubRepository) AccessCodeExists(code string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Club{}).Where("access_code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
