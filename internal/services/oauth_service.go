package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/startrack/intake-backend/internal/config"
	"github.com/startrack/intake-backend/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// OAuthProvider is one configured social login.
type OAuthProvider struct {
	Config      *oauth2.Config
	UserInfoURL string
}

// OAuthService runs the authorization code flow against the configured
// providers and turns a completed login into an access token.
type OAuthService struct {
	auth      *AuthService
	providers map[string]*OAuthProvider
}

func NewOAuthService(cfg *config.Config, auth *AuthService) *OAuthService {
	s := &OAuthService{auth: auth, providers: make(map[string]*OAuthProvider)}
	callback := strings.TrimRight(cfg.AppURL, "/") + cfg.BasePath + "/oauth2/callback/"

	add := func(name, clientID, secret string, endpoint oauth2.Endpoint, userInfoURL string, scopes ...string) {
		if clientID == "" {
			return
		}
		s.providers[name] = &OAuthProvider{
			Config: &oauth2.Config{
				ClientID:     clientID,
				ClientSecret: secret,
				Endpoint:     endpoint,
				RedirectURL:  callback + name,
				Scopes:       scopes,
			},
			UserInfoURL: userInfoURL,
		}
	}
	add(models.ProviderGoogle, cfg.GoogleClientID, cfg.GoogleClientSecret, endpoints.Google,
		"https://www.googleapis.com/oauth2/v3/userinfo", "openid", "email", "profile")
	add(models.ProviderGithub, cfg.GithubClientID, cfg.GithubClientSecret, endpoints.GitHub,
		"https://api.github.com/user", "read:user", "user:email")
	add(models.ProviderFacebook, cfg.FacebookClientID, cfg.FacebookClientSecret, endpoints.Facebook,
		"https://graph.facebook.com/me?fields=id,first_name,last_name,email,picture", "email", "public_profile")
	add(models.ProviderLinkedin, cfg.LinkedinClientID, cfg.LinkedinClientSecret, endpoints.LinkedIn,
		"https://api.linkedin.com/v2/me", "r_liteprofile", "r_emailaddress")
	return s
}

func (s *OAuthService) provider(name string) (*OAuthProvider, error) {
	p, ok := s.providers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, name)
	}
	return p, nil
}

// AuthCodeURL returns the provider's consent page URL carrying state.
func (s *OAuthService) AuthCodeURL(provider, state string) (string, error) {
	p, err := s.provider(provider)
	if err != nil {
		return "", err
	}
	return p.Config.AuthCodeURL(state), nil
}

// Complete exchanges an authorization code, registers or refreshes the
// account behind it and issues an access token. Accounts that are not
// active get ErrAccountDisabled, as with a password sign-in.
func (s *OAuthService) Complete(ctx context.Context, provider, code string) (*models.User, string, error) {
	p, err := s.provider(provider)
	if err != nil {
		return nil, "", err
	}

	tok, err := p.Config.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("%s code exchange: %w", provider, err)
	}
	attrs, err := fetchUserInfo(ctx, p, tok)
	if err != nil {
		return nil, "", fmt.Errorf("%s user info: %w", provider, err)
	}

	registered, err := s.auth.ProcessOAuthUser(ctx, provider, attrs)
	if err != nil {
		return nil, "", err
	}
	user, err := s.auth.GetUserByID(ctx, registered.ID)
	if err != nil {
		return nil, "", err
	}
	if !user.Enabled || user.Delete {
		return nil, "", ErrAccountDisabled
	}

	token, err := s.auth.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

func fetchUserInfo(ctx context.Context, p *OAuthProvider, tok *oauth2.Token) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.UserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.Config.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var attrs map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&attrs); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return attrs, nil
}
