package services

import (
	"context"
	"testing"

	"github.com/startrack/intake-backend/internal/models"
	"github.com/startrack/intake-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type userFixture struct {
	db    *gorm.DB
	auth  *AuthService
	users *UserService
	roles *RoleService
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := testutil.Config()
	auth := NewAuthService(db, cfg)
	return &userFixture{
		db:    db,
		auth:  auth,
		users: NewUserService(db, cfg, auth, nil),
		roles: NewRoleService(db),
	}
}

func (f *userFixture) register(t *testing.T, email string) *models.User {
	t.Helper()
	user, err := f.auth.Register(context.Background(), &SignUpRequest{
		FirstName:        "Test",
		LastName:         "User",
		Email:            email,
		Password:         "secret-1",
		MatchingPassword: "secret-1",
	})
	require.NoError(t, err)
	return user
}

func (f *userFixture) roleByName(t *testing.T, name string) models.Role {
	t.Helper()
	var role models.Role
	require.NoError(t, f.db.Where("name = ?", name).First(&role).Error)
	return role
}

func (f *userFixture) roleNamesOf(t *testing.T, email string) []string {
	t.Helper()
	var user models.User
	require.NoError(t, f.db.Preload("Roles").Where("email = ?", email).First(&user).Error)
	return user.RoleNames()
}

func TestActivateUser_IsIdempotent(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	f.register(t, "x@y.com")

	user, err := f.users.ActivateUser(ctx, "x@y.com")
	require.NoError(t, err)
	assert.True(t, user.Enabled)

	user, err = f.users.ActivateUser(ctx, "x@y.com")
	require.NoError(t, err)
	assert.True(t, user.Enabled)

	_, err = f.users.ActivateUser(ctx, "missing@y.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResetPassword_UsesConfiguredDefault(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	f.register(t, "x@y.com")

	user, err := f.users.ResetPassword(ctx, "x@y.com")
	require.NoError(t, err)
	assert.True(t, f.auth.CheckPassword("123456", user.Password))
	assert.False(t, f.auth.CheckPassword("secret-1", user.Password))
}

func TestRequestDeletion_FlagsOnly(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	f.register(t, "x@y.com")

	user, err := f.users.RequestDeletion(ctx, "x@y.com")
	require.NoError(t, err)
	assert.True(t, user.Delete)

	var stored models.User
	require.NoError(t, f.db.Where("email = ?", "x@y.com").First(&stored).Error)
	assert.True(t, stored.Delete)
}

func TestDeleteUser_RemovesRoleAssignments(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	f.register(t, "x@y.com")

	require.NoError(t, f.users.DeleteUser(ctx, "x@y.com"))

	var users, links int64
	require.NoError(t, f.db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, f.db.Table("user_roles").Count(&links).Error)
	assert.Zero(t, users)
	assert.Zero(t, links)

	assert.ErrorIs(t, f.users.DeleteUser(ctx, "x@y.com"), ErrNotFound)
}

func TestUpdateRoles_ReplacesRoleSet(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	f.register(t, "x@y.com")
	require.Equal(t, []string{models.RoleUser}, f.roleNamesOf(t, "x@y.com"))

	_, err := f.users.UpdateRoles(ctx, "x@y.com", []string{models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, []string{models.RoleAdmin}, f.roleNamesOf(t, "x@y.com"))

	_, err = f.users.UpdateRoles(ctx, "x@y.com", []string{models.RoleUser, models.RoleAdmin, models.RoleUser})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{models.RoleUser, models.RoleAdmin}, f.roleNamesOf(t, "x@y.com"))
}

func TestUpdateRoles_UnknownRoleLeavesSetUntouched(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	f.register(t, "x@y.com")

	_, err := f.users.UpdateRoles(ctx, "x@y.com", []string{models.RoleAdmin, "ROLE_NOPE"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []string{models.RoleUser}, f.roleNamesOf(t, "x@y.com"))

	_, err = f.users.UpdateRoles(ctx, "nobody@y.com", []string{models.RoleAdmin})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePasswordAndProfile(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	user := f.register(t, "x@y.com")
	f.register(t, "taken@y.com")

	updated, err := f.users.UpdatePassword(ctx, user.ID, "new-password")
	require.NoError(t, err)
	assert.True(t, f.auth.CheckPassword("new-password", updated.Password))

	updated, err = f.users.UpdateProfile(ctx, user.ID, &ProfileUpdateRequest{
		FirstName: "Grace", LastName: "Hopper", Email: "grace@y.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Grace", updated.FirstName)
	assert.Equal(t, "grace@y.com", updated.Email)

	_, err = f.users.UpdateProfile(ctx, user.ID, &ProfileUpdateRequest{Email: "taken@y.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = f.users.UpdatePassword(ctx, 999, "whatever")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserManagementData_MergesRoles(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	first := f.register(t, "a@y.com")
	second := f.register(t, "b@y.com")
	_, err := f.users.UpdateRoles(ctx, "a@y.com", []string{models.RoleUser, models.RoleAdmin})
	require.NoError(t, err)

	data, err := f.users.UserManagementData(ctx)
	require.NoError(t, err)
	require.Len(t, data, 2)

	assert.Equal(t, first.ID, data[0].ID)
	assert.Equal(t, "ROLE_USER, ROLE_ADMIN", data[0].Role)
	assert.Equal(t, "a@y.com", data[0].Email)
	assert.Equal(t, second.ID, data[1].ID)
	assert.Equal(t, "ROLE_USER", data[1].Role)
}

func TestAllUsersAndGetUser(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	user := f.register(t, "a@y.com")

	users, err := f.users.AllUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "a@y.com", users[0].Email)

	got, err := f.users.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = f.users.GetUser(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRole(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	f.register(t, "x@y.com")

	unused := models.Role{Name: "ROLE_AUDITOR"}
	require.NoError(t, f.db.Create(&unused).Error)
	require.NoError(t, f.roles.DeleteRole(ctx, unused.ID))
	_, err := f.roles.GetRole(ctx, unused.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	held := f.roleByName(t, models.RoleUser)
	err = f.roles.DeleteRole(ctx, held.ID)
	assert.ErrorIs(t, err, ErrRoleInUse)
	_, err = f.roles.GetRole(ctx, held.ID)
	assert.NoError(t, err, "a role in use must survive a delete attempt")

	assert.ErrorIs(t, f.roles.DeleteRole(ctx, 999), ErrNotFound)
}

func TestUpdateRoleAndList(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	role := models.Role{Name: "ROLE_REVIEWER"}
	require.NoError(t, f.db.Create(&role).Error)

	updated, err := f.roles.UpdateRole(ctx, role.ID, "ROLE_PANEL")
	require.NoError(t, err)
	assert.Equal(t, "ROLE_PANEL", updated.Name)

	_, err = f.roles.UpdateRole(ctx, 999, "ROLE_X")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.roles.UpdateRole(ctx, role.ID, " ")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	all, err := f.roles.AllRoles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.RoleDescription{
		{Description: "ROLE_ADMIN"},
		{Description: "ROLE_PANEL"},
		{Description: "ROLE_USER"},
	}, all)
}
