package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/startrack/intake-backend/internal/models"
	"gorm.io/gorm"
)

// OAuthUserInfo is the provider independent view of an OAuth2 user-info
// response.
type OAuthUserInfo struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	ImageURL  string
}

type userInfoMapper func(attrs map[string]any) OAuthUserInfo

var userInfoMappers = map[string]userInfoMapper{
	models.ProviderGoogle:   googleUserInfo,
	models.ProviderFacebook: facebookUserInfo,
	models.ProviderGithub:   githubUserInfo,
	models.ProviderLinkedin: linkedinUserInfo,
	models.ProviderTwitter:  githubUserInfo,
}

// ParseOAuthUserInfo maps the attributes returned by a provider. Provider
// names are matched case-insensitively.
func ParseOAuthUserInfo(provider string, attrs map[string]any) (OAuthUserInfo, error) {
	mapper, ok := userInfoMappers[strings.ToLower(provider)]
	if !ok {
		return OAuthUserInfo{}, fmt.Errorf("login with %q: %w", provider, ErrUnsupportedProvider)
	}
	return mapper(attrs), nil
}

func googleUserInfo(attrs map[string]any) OAuthUserInfo {
	return OAuthUserInfo{
		ID:        attrString(attrs, "sub"),
		FirstName: attrString(attrs, "given_name"),
		LastName:  attrString(attrs, "family_name"),
		Email:     attrString(attrs, "email"),
		ImageURL:  attrString(attrs, "picture"),
	}
}

func facebookUserInfo(attrs map[string]any) OAuthUserInfo {
	info := OAuthUserInfo{
		ID:        attrString(attrs, "id"),
		FirstName: attrString(attrs, "first_name"),
		LastName:  attrString(attrs, "last_name"),
		Email:     attrString(attrs, "email"),
	}
	// picture arrives as {"data": {"url": ...}}
	if picture, ok := attrs["picture"].(map[string]any); ok {
		if data, ok := picture["data"].(map[string]any); ok {
			info.ImageURL = attrString(data, "url")
		}
	}
	return info
}

func githubUserInfo(attrs map[string]any) OAuthUserInfo {
	first, last := splitName(attrString(attrs, "name"))
	return OAuthUserInfo{
		ID:        attrString(attrs, "id"),
		FirstName: first,
		LastName:  last,
		Email:     attrString(attrs, "email"),
		ImageURL:  attrString(attrs, "avatar_url"),
	}
}

func linkedinUserInfo(attrs map[string]any) OAuthUserInfo {
	return OAuthUserInfo{
		ID:        attrString(attrs, "id"),
		FirstName: attrString(attrs, "localizedFirstName"),
		LastName:  attrString(attrs, "localizedLastName"),
		Email:     attrString(attrs, "emailAddress"),
		ImageURL:  attrString(attrs, "pictureUrl"),
	}
}

// attrString reads a string attribute. Numeric ids decoded from JSON arrive
// as float64 and are rendered without a fraction.
func attrString(attrs map[string]any, key string) string {
	switch v := attrs[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return ""
}

func splitName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexByte(name, ' '); i > 0 {
		return name[:i], name[i+1:]
	}
	return name, ""
}

// ProcessOAuthUser registers or refreshes the account behind an OAuth2
// login. An account created through a different social provider is
// rejected; local accounts may link any provider.
func (s *AuthService) ProcessOAuthUser(ctx context.Context, provider string, attrs map[string]any) (*models.User, error) {
	info, err := ParseOAuthUserInfo(provider, attrs)
	if err != nil {
		return nil, err
	}
	if info.Email == "" {
		return nil, fmt.Errorf("%s login: email not provided", provider)
	}
	provider = strings.ToLower(provider)

	var existing models.User
	err = s.db.WithContext(ctx).Preload("Roles").Where("email = ?", info.Email).First(&existing).Error
	switch {
	case err == nil:
		if existing.Provider != provider && existing.Provider != models.ProviderLocal {
			return nil, fmt.Errorf("signed up with %s: %w", existing.Provider, ErrProviderMismatch)
		}
		existing.ModifiedDate = s.now()
		if err := s.db.WithContext(ctx).Model(&existing).Update("modified_date", existing.ModifiedDate).Error; err != nil {
			return nil, fmt.Errorf("update user %s: %w", info.Email, err)
		}
		return &existing, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("look up user %s: %w", info.Email, err)
	}

	now := s.now()
	user := &models.User{
		FirstName:      info.FirstName,
		LastName:       info.LastName,
		Email:          info.Email,
		Provider:       provider,
		ProviderUserID: info.ID,
		CreatedDate:    now,
		ModifiedDate:   now,
	}
	if err := s.createWithRole(ctx, user, models.RoleUser); err != nil {
		return nil, err
	}
	slog.Info("registered oauth user", "email", user.Email, "provider", provider)
	return user, nil
}
