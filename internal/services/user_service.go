package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/startrack/intake-backend/internal/config"
	"github.com/startrack/intake-backend/internal/models"
	"gorm.io/gorm"
)

// UserService administers accounts. Email is the business key for every
// mutation except the body driven password and profile updates.
type UserService struct {
	db     *gorm.DB
	config *config.Config
	auth   *AuthService
	email  *EmailService
	now    func() time.Time
}

func NewUserService(db *gorm.DB, cfg *config.Config, auth *AuthService, email *EmailService) *UserService {
	return &UserService{db: db, config: cfg, auth: auth, email: email, now: time.Now}
}

// PasswordUpdateRequest is the body of POST /sybeUser/passwordUpdate/{id}.
type PasswordUpdateRequest struct {
	Password string `json:"password" binding:"required"`
}

// ProfileUpdateRequest is the body of POST /sybeUser/profileUpdate/{id}.
type ProfileUpdateRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" binding:"required,email"`
}

// AllUsers lists every account that has an email address.
func (s *UserService) AllUsers(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	err := s.db.WithContext(ctx).
		Where("email IS NOT NULL AND email <> ''").
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, lookupError("user", id, err)
	}
	return &user, nil
}

// UserManagementData lists users with their role names merged into one
// field. Users holding no role are not listed.
func (s *UserService) UserManagementData(ctx context.Context) ([]models.UserManagementResponse, error) {
	var rows []models.UserRoleRow
	err := s.db.WithContext(ctx).
		Table("users AS su").
		Select("su.id, su.first_name, su.last_name, su.email, su.created_date, su.modified_date, " +
			"su.enabled, su.delete_requested, r.id AS role_id, r.name AS role").
		Joins("JOIN user_roles ur ON ur.user_id = su.id").
		Joins("JOIN roles r ON r.id = ur.role_id").
		Where("su.email IS NOT NULL").
		Order("su.id ASC, r.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list user roles: %w", err)
	}
	return models.MergeUserRoles(rows), nil
}

func findByEmail(tx *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, lookupError("user", email, err)
	}
	return &user, nil
}

// updateByEmail loads a user by email, applies mutate and saves the row.
func (s *UserService) updateByEmail(ctx context.Context, email string, mutate func(*models.User) error) (*models.User, error) {
	var user *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if user, err = findByEmail(tx, email); err != nil {
			return err
		}
		if err := mutate(user); err != nil {
			return err
		}
		user.ModifiedDate = s.now()
		return tx.Save(user).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ActivateUser enables an account. Activating an enabled account is a no-op
// apart from the modified date.
func (s *UserService) ActivateUser(ctx context.Context, email string) (*models.User, error) {
	wasEnabled := false
	user, err := s.updateByEmail(ctx, email, func(u *models.User) error {
		wasEnabled = u.Enabled
		u.Enabled = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !wasEnabled {
		slog.Info("user activated", "email", email)
		s.notify(func(e *EmailService) error { return e.SendAccountActivatedEmail(user) })
	}
	return user, nil
}

// ResetPassword sets the password back to the configured default.
func (s *UserService) ResetPassword(ctx context.Context, email string) (*models.User, error) {
	hash, err := s.auth.HashPassword(s.config.ResetPasswordDefault)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.updateByEmail(ctx, email, func(u *models.User) error {
		u.Password = hash
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("password reset", "email", email)
	s.notify(func(e *EmailService) error { return e.SendPasswordResetEmail(user) })
	return user, nil
}

// RequestDeletion flags an account for removal without deleting it.
func (s *UserService) RequestDeletion(ctx context.Context, email string) (*models.User, error) {
	return s.updateByEmail(ctx, email, func(u *models.User) error {
		u.Delete = true
		return nil
	})
}

// DeleteUser removes an account and its role assignments.
func (s *UserService) DeleteUser(ctx context.Context, email string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := findByEmail(tx, email)
		if err != nil {
			return err
		}
		if err := tx.Select("Roles").Delete(user).Error; err != nil {
			return fmt.Errorf("delete user %s: %w", email, err)
		}
		slog.Info("user deleted", "email", email)
		return nil
	})
}

// UpdateRoles replaces the role set of a user with the named roles. Every
// name must exist.
func (s *UserService) UpdateRoles(ctx context.Context, email string, roleNames []string) (*models.User, error) {
	var user *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if user, err = findByEmail(tx, email); err != nil {
			return err
		}

		roles := make([]models.Role, 0, len(roleNames))
		seen := make(map[string]bool, len(roleNames))
		for _, name := range roleNames {
			name = strings.TrimSpace(name)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true

			var role models.Role
			if err := tx.Where("name = ?", name).First(&role).Error; err != nil {
				return lookupError("role", name, err)
			}
			roles = append(roles, role)
		}

		if err := tx.Model(user).Association("Roles").Replace(roles); err != nil {
			return fmt.Errorf("replace roles of %s: %w", email, err)
		}
		user.ModifiedDate = s.now()
		return tx.Model(user).Update("modified_date", user.ModifiedDate).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePassword stores a new password for the user with the given id.
func (s *UserService) UpdatePassword(ctx context.Context, id uint64, password string) (*models.User, error) {
	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var user models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return lookupError("user", id, err)
		}
		user.Password = hash
		user.ModifiedDate = s.now()
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile changes the name and email of the user with the given id.
func (s *UserService) UpdateProfile(ctx context.Context, id uint64, req *ProfileUpdateRequest) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return lookupError("user", id, err)
		}

		var taken int64
		if err := tx.Model(&models.User{}).Where("email = ? AND id <> ?", req.Email, id).Count(&taken).Error; err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if taken > 0 {
			return fmt.Errorf("%s: %w", req.Email, ErrEmailTaken)
		}

		user.FirstName = req.FirstName
		user.LastName = req.LastName
		user.Email = req.Email
		user.ModifiedDate = s.now()
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) notify(send func(*EmailService) error) {
	if s.email == nil {
		return
	}
	go func() {
		if err := send(s.email); err != nil {
			slog.Warn("notification failed", "error", err)
		}
	}()
}
