package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/startrack/intake-backend/internal/config"
	"github.com/startrack/intake-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	db     *gorm.DB
	config *config.Config
	now    func() time.Time
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, config: cfg, now: time.Now}
}

// Claims carried by access tokens.
type Claims struct {
	UserID uint64   `json:"user_id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// HasRole reports whether the token grants any of the given roles.
func (c *Claims) HasRole(roles ...string) bool {
	for _, held := range c.Roles {
		for _, want := range roles {
			if held == want {
				return true
			}
		}
	}
	return false
}

// SignUpRequest is the local registration form.
type SignUpRequest struct {
	FirstName        string `json:"firstName" binding:"required"`
	LastName         string `json:"lastName" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=6"`
	MatchingPassword string `json:"matchingPassword" binding:"required"`
}

// HashPassword creates a bcrypt hash of the password
func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a password with a hash
func (s *AuthService) CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken creates a JWT token for a user with its roles loaded
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	now := s.now()
	expirationTime := now.Add(time.Duration(s.config.JWTExpiration) * time.Hour)

	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Roles:  user.RoleNames(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.config.AppName,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// ValidateToken validates a JWT token and returns the claims
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Register creates a local account holding ROLE_USER. The account stays
// disabled until an administrator activates it.
func (s *AuthService) Register(ctx context.Context, req *SignUpRequest) (*models.User, error) {
	if req.Password != req.MatchingPassword {
		return nil, ErrPasswordMismatch
	}
	email := strings.TrimSpace(req.Email)

	passwordHash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        email,
		Password:     passwordHash,
		Provider:     models.ProviderLocal,
		CreatedDate:  now,
		ModifiedDate: now,
	}
	if err := s.createWithRole(ctx, user, models.RoleUser); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) createWithRole(ctx context.Context, user *models.User, roleName string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%s: %w", user.Email, ErrEmailTaken)
		}

		var role models.Role
		if err := tx.Where("name = ?", roleName).First(&role).Error; err != nil {
			return lookupError("role", roleName, err)
		}
		user.Roles = []models.Role{role}

		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("create user %s: %w", user.Email, err)
		}
		return nil
	})
}

// Login authenticates a local account and returns an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Roles").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if user.Password == "" || !s.CheckPassword(password, user.Password) {
		return nil, "", ErrInvalidCredentials
	}
	if !user.Enabled || user.Delete {
		return nil, "", ErrAccountDisabled
	}

	token, err := s.GenerateToken(&user)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return &user, token, nil
}

// Authenticate validates a token and refreshes its claims from the stored
// account. Role changes and deactivation apply to tokens already issued.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.Enabled || user.Delete {
		return nil, ErrAccountDisabled
	}

	claims.Email = user.Email
	claims.Roles = user.RoleNames()
	return claims, nil
}

// GetUserByID retrieves a user with its roles
func (s *AuthService) GetUserByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Roles").First(&user, id).Error; err != nil {
		return nil, lookupError("user", id, err)
	}
	return &user, nil
}

// EnsureAdmin creates an enabled administrator when no account with the
// given email exists yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	passwordHash, err := s.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	now := s.now()
	admin := &models.User{
		FirstName:    "Admin",
		LastName:     "User",
		Email:        email,
		Password:     passwordHash,
		Enabled:      true,
		Provider:     models.ProviderLocal,
		CreatedDate:  now,
		ModifiedDate: now,
	}
	if err := s.createWithRole(ctx, admin, models.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}
