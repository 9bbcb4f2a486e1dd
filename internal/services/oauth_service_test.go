package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/startrack/intake-backend/internal/models"
	"github.com/startrack/intake-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// fakeProvider serves a token endpoint accepting code "good" and a user
// info endpoint returning attrs to the matching bearer token.
func fakeProvider(t *testing.T, attrs map[string]any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("code") != "good" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"provider-token","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer provider-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(attrs)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newOAuthFixture(t *testing.T, attrs map[string]any) (*OAuthService, *userFixture) {
	t.Helper()
	f := newUserFixture(t)
	cfg := testutil.Config()
	cfg.GoogleClientID = "client-id"
	cfg.GoogleClientSecret = "client-secret"

	svc := NewOAuthService(cfg, f.auth)
	srv := fakeProvider(t, attrs)
	google := svc.providers[models.ProviderGoogle]
	google.Config.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
	google.UserInfoURL = srv.URL + "/userinfo"
	return svc, f
}

func TestNewOAuthService_OnlyConfiguredProviders(t *testing.T) {
	cfg := testutil.Config()
	cfg.GithubClientID = "gh"
	svc := NewOAuthService(cfg, nil)

	require.Contains(t, svc.providers, models.ProviderGithub)
	assert.NotContains(t, svc.providers, models.ProviderGoogle)
	assert.Equal(t, "http://localhost/oauth2/callback/github", svc.providers[models.ProviderGithub].Config.RedirectURL)

	target, err := svc.AuthCodeURL("GitHub", "state-1")
	require.NoError(t, err)
	u, err := url.Parse(target)
	require.NoError(t, err)
	assert.Equal(t, "state-1", u.Query().Get("state"))
	assert.Equal(t, "gh", u.Query().Get("client_id"))

	_, err = svc.AuthCodeURL(models.ProviderGoogle, "state-1")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestOAuthComplete(t *testing.T) {
	svc, f := newOAuthFixture(t, map[string]any{
		"sub": "g-1", "given_name": "Ada", "family_name": "Lovelace", "email": "ada@y.com",
	})
	ctx := context.Background()

	_, _, err := svc.Complete(ctx, models.ProviderGoogle, "good")
	assert.ErrorIs(t, err, ErrAccountDisabled, "new social accounts wait for activation")
	assert.Equal(t, []string{models.RoleUser}, f.roleNamesOf(t, "ada@y.com"))

	_, err = f.users.ActivateUser(ctx, "ada@y.com")
	require.NoError(t, err)

	user, token, err := svc.Complete(ctx, models.ProviderGoogle, "good")
	require.NoError(t, err)
	assert.Equal(t, "g-1", user.ProviderUserID)

	claims, err := f.auth.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "ada@y.com", claims.Email)
	assert.Equal(t, []string{models.RoleUser}, claims.Roles)

	_, _, err = svc.Complete(ctx, models.ProviderGoogle, "bad")
	assert.Error(t, err)

	_, _, err = svc.Complete(ctx, models.ProviderFacebook, "good")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestOAuthComplete_RequiresEmail(t *testing.T) {
	svc, _ := newOAuthFixture(t, map[string]any{"sub": "g-2", "given_name": "Nobody"})

	_, _, err := svc.Complete(context.Background(), models.ProviderGoogle, "good")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrAccountDisabled)
}
