package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/startrack/intake-backend/internal/models"
	"gorm.io/gorm"
)

type RoleService struct {
	db *gorm.DB
}

func NewRoleService(db *gorm.DB) *RoleService {
	return &RoleService{db: db}
}

// DeleteRole removes a role that no user holds.
func (s *RoleService) DeleteRole(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role models.Role
		if err := tx.First(&role, id).Error; err != nil {
			return lookupError("role", id, err)
		}

		holders := tx.Model(&role).Association("Users").Count()
		if holders > 0 {
			return fmt.Errorf("role %s held by %d users: %w", role.Name, holders, ErrRoleInUse)
		}
		if err := tx.Delete(&role).Error; err != nil {
			return fmt.Errorf("delete role %d: %w", id, err)
		}
		slog.Info("role deleted", "id", id, "name", role.Name)
		return nil
	})
}

// UpdateRole renames a role.
func (s *RoleService) UpdateRole(ctx context.Context, id uint64, name string) (*models.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("role name is required")
	}

	var role models.Role
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&role, id).Error; err != nil {
			return lookupError("role", id, err)
		}
		role.Name = name
		if err := tx.Save(&role).Error; err != nil {
			return fmt.Errorf("save role %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (s *RoleService) GetRole(ctx context.Context, id uint64) (*models.Role, error) {
	var role models.Role
	if err := s.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return nil, lookupError("role", id, err)
	}
	return &role, nil
}

// AllRoles lists the distinct role names.
func (s *RoleService) AllRoles(ctx context.Context) ([]models.RoleDescription, error) {
	roles := make([]models.RoleDescription, 0)
	err := s.db.WithContext(ctx).
		Table("roles").
		Select("DISTINCT name AS description").
		Order("description ASC").
		Scan(&roles).Error
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}
