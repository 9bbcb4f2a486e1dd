package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/startrack/intake-backend/internal/models"
	"github.com/startrack/intake-backend/internal/services"
	"github.com/startrack/intake-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func ok(c *gin.Context) { c.String(http.StatusOK, "ok") }

func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 2}))
	r.GET("/", ok)

	for i := 0; i < 2; i++ {
		rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate limit exceeded")
}

func TestRateLimiter_PerClientIsolation(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1}))
	r.GET("/", ok)

	first := httptest.NewRequest(http.MethodGet, "/", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	require.Equal(t, http.StatusOK, serve(r, first).Code)

	again := httptest.NewRequest(http.MethodGet, "/", nil)
	again.RemoteAddr = "10.0.0.1:1235"
	assert.Equal(t, http.StatusTooManyRequests, serve(r, again).Code)

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	assert.Equal(t, http.StatusOK, serve(r, other).Code)
}

func TestRateLimiter_DisabledWithZeroRate(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(RateLimitConfig{RequestsPerSecond: 0, Burst: 1}))
	r.GET("/", ok)

	for i := 0; i < 5; i++ {
		rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRequestID(t *testing.T) {
	var captured string
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		captured = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, captured)
	assert.Equal(t, captured, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "custom-id-123")
	rec = serve(r, req)
	assert.Equal(t, "custom-id-123", captured)
	assert.Equal(t, "custom-id-123", rec.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "bad id\nwith newline")
	serve(r, req)
	assert.NotEqual(t, "bad id\nwith newline", captured)
	assert.NotEmpty(t, captured)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := gin.New()
	r.Use(RequestID(), RequestLogger(logger))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set("X-Request-ID", "req-1")
	serve(r, req)

	line := buf.String()
	assert.Contains(t, line, "level=WARN")
	assert.Contains(t, line, "path=/missing")
	assert.Contains(t, line, "status=404")
	assert.Contains(t, line, "request_id=req-1")
}

func newAuth(t *testing.T) (*services.AuthService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	return services.NewAuthService(db, testutil.Config()), db
}

// seedUser stores an enabled account holding the named roles.
func seedUser(t *testing.T, db *gorm.DB, email string, roles ...string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Enabled: true, Provider: models.ProviderLocal}
	if len(roles) > 0 {
		require.NoError(t, db.Where("name IN ?", roles).Find(&user.Roles).Error)
		require.Len(t, user.Roles, len(roles))
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func tokenFor(t *testing.T, auth *services.AuthService, user *models.User) string {
	t.Helper()
	token, err := auth.GenerateToken(user)
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	auth, db := newAuth(t)
	caller := seedUser(t, db, "caller@example.com", models.RoleUser)
	r := gin.New()
	r.GET("/me", AuthMiddleware(auth), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentEmail(c))
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"unknown account", "Bearer " + tokenFor(t, auth, &models.User{ID: 999, Email: "ghost@example.com"}), http.StatusUnauthorized},
		{"valid token", "Bearer " + tokenFor(t, auth, caller), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := serve(r, req)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "caller@example.com", rec.Body.String())
			}
		})
	}
}

func TestAuthMiddleware_RejectsDeactivatedAccount(t *testing.T) {
	auth, db := newAuth(t)
	caller := seedUser(t, db, "caller@example.com", models.RoleUser)
	token := tokenFor(t, auth, caller)

	r := gin.New()
	r.GET("/me", AuthMiddleware(auth), ok)
	get := func() int {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		return serve(r, req).Code
	}

	require.Equal(t, http.StatusOK, get())
	require.NoError(t, db.Model(caller).Update("delete_requested", true).Error)
	assert.Equal(t, http.StatusForbidden, get())

	require.NoError(t, db.Model(caller).Updates(map[string]any{"delete_requested": false, "enabled": false}).Error)
	assert.Equal(t, http.StatusForbidden, get())
}

func TestOptionalAuthMiddleware(t *testing.T) {
	auth, db := newAuth(t)
	caller := seedUser(t, db, "caller@example.com")
	r := gin.New()
	r.Use(OptionalAuthMiddleware(auth))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "["+CurrentEmail(c)+"]")
	})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer broken")
	rec = serve(r, req)
	assert.Equal(t, "[]", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, auth, caller))
	rec = serve(r, req)
	assert.Equal(t, "[caller@example.com]", rec.Body.String())
}

func TestRequireRole(t *testing.T) {
	auth, db := newAuth(t)
	member := seedUser(t, db, "member@example.com", models.RoleUser)
	admin := seedUser(t, db, "admin@example.com", models.RoleUser, models.RoleAdmin)
	r := gin.New()
	r.Use(OptionalAuthMiddleware(auth))
	r.GET("/admin", RequireRole(models.RoleAdmin), ok)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, auth, member))
	rec = serve(r, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "Insufficient permissions"))

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, auth, admin))
	rec = serve(r, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_UsesCurrentRoles(t *testing.T) {
	auth, db := newAuth(t)
	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin)
	token := tokenFor(t, auth, admin)

	r := gin.New()
	r.Use(OptionalAuthMiddleware(auth))
	r.GET("/admin", RequireRole(models.RoleAdmin), ok)
	get := func() int {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		return serve(r, req).Code
	}

	require.Equal(t, http.StatusOK, get())
	require.NoError(t, db.Model(admin).Association("Roles").Clear())
	assert.Equal(t, http.StatusForbidden, get(), "a revoked role stops working before the token expires")
}
