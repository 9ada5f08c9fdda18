package repository

import (
	"github.com/clubhub/clubhub-api/internal/models"
	"github.com/clubhub/clubhub-api/internal/permissions"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRoleRepository is a GORM implementation of RoleRepository
type GormRoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &GormRoleRepository{db: db}
}

// Create creates a new role
func (r *GormRoleRepository) Create(role *models.Role) error {
	return r.db.Create(role).Error
}

// FindByID finds a role by ID
func (r *GormRoleRepository) FindByID(id uint64) (*models.Role, error) {
	var role models.Role
	if err := r.db.First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// ListByClub lists all roles of a club, owner role first
func (r *GormRoleRepository) ListByClub(clubID uint64) ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.Where("club_id = ?", clubID).
		Order("kind = 'owner' DESC, name ASC").
		Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// DeleteWithPermissions deletes a role and its grants atomically
func (r *GormRoleRepository) DeleteWithPermissions(roleID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", roleID).
			Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Role{}, roleID).Error
	})
}

// CountActiveMembers counts active memberships referencing the role
func (r *GormRoleRepository) CountActiveMembers(roleID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Membership{}).
		Where("role_id = ? AND status = ?", roleID, models.MembershipStatusActive).
		Count(&count).Error
	return count, err
}

// UpsertPermission writes a grant, overwriting an existing value
func (r *GormRoleRepository) UpsertPermission(grant *models.RolePermission) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "role_id"}, {Name: "permission_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(grant).Error
}

// GetPermissions returns the role's stored grants as a map keyed by capability
func (r *GormRoleRepository) GetPermissions(roleID uint64) (map[permissions.Capability]bool, error) {
	var grants []models.RolePermission
	if err := r.db.Where("role_id = ?", roleID).Find(&grants).Error; err != nil {
		return nil, err
	}

	result := make(map[permissions.Capability]bool, len(grants))
	for _, grant := range grants {
		result[grant.PermissionKey] = grant.Value
	}
	return result, nil
}
