package models

import (
	"time"
)

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// Provider values recorded on User.Provider.
const (
	ProviderLocal    = "local"
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
	ProviderGithub   = "github"
	ProviderLinkedin = "linkedin"
	ProviderTwitter  = "twitter"
)

type User struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	Password       string    `json:"-"`
	Delete         bool      `gorm:"column:delete_requested;not null;default:false" json:"delete"`
	Enabled        bool      `gorm:"not null;default:false" json:"enabled"`
	Provider       string    `gorm:"size:20" json:"provider"`
	ProviderUserID string    `json:"providerUserId"`
	CreatedDate    time.Time `json:"createdDate"`
	ModifiedDate   time.Time `json:"modifiedDate"`

	// Relations
	Roles []Role `gorm:"many2many:user_roles" json:"-"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// RoleNames lists the names of the loaded roles.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

type Role struct {
	ID   uint64 `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`

	// Relations
	Users []User `gorm:"many2many:user_roles" json:"-"`
}

// RoleDescription is the listing shape of GET /role/all.
type RoleDescription struct {
	Description string `json:"description"`
}

// UserRoleRow is one (user, role) pair from the user/role join.
type UserRoleRow struct {
	ID           uint64
	FirstName    string
	LastName     string
	Email        string
	CreatedDate  time.Time
	ModifiedDate time.Time
	Enabled      bool
	Delete       bool `gorm:"column:delete_requested"`
	RoleID       uint64
	Role         string
}

// UserManagementResponse is a user with all of its role names merged into
// one string.
type UserManagementResponse struct {
	ID           uint64    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	CreatedDate  time.Time `json:"createdDate"`
	ModifiedDate time.Time `json:"modifiedDate"`
	Enabled      bool      `json:"enabled"`
	Delete       bool      `json:"delete"`
	RoleID       uint64    `json:"role_id"`
	Role         string    `json:"role"`
}

// MergeUserRoles groups join rows by user id and concatenates role names
// with ", ". The first row seen for a user supplies every other field, and
// users keep the order in which they first appear.
func MergeUserRoles(rows []UserRoleRow) []UserManagementResponse {
	merged := make([]UserManagementResponse, 0, len(rows))
	index := make(map[uint64]int, len(rows))

	for _, r := range rows {
		if i, ok := index[r.ID]; ok {
			merged[i].Role = merged[i].Role + ", " + r.Role
			continue
		}
		index[r.ID] = len(merged)
		merged = append(merged, UserManagementResponse{
			ID:           r.ID,
			FirstName:    r.FirstName,
			LastName:     r.LastName,
			Email:        r.Email,
			CreatedDate:  r.CreatedDate,
			ModifiedDate: r.ModifiedDate,
			Enabled:      r.Enabled,
			Delete:       r.Delete,
			RoleID:       r.RoleID,
			Role:         r.Role,
		})
	}
	return merged
}

// UserInfo is the identity summary returned after sign-in.
type UserInfo struct {
	ID        uint64   `json:"id"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
}

func (u *User) ToUserInfo() UserInfo {
	return UserInfo{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Roles:     u.RoleNames(),
	}
}
