package service

import (
	"testing"

	"inc/app_error"
	"inc/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminLogin(t *testing.T) {
	requireDB(t)
	admins := NewAdminService(pg.DB)

	_, err := admins.CreateAdmin("root", "short", []string{auth.RoleAdmin})
	assert.True(t, app_error.Is(err, app_error.KindValidationFailed))
	_, err = admins.CreateAdmin("root", "long-enough", []string{auth.RoleJudge})
	assert.True(t, app_error.Is(err, app_error.KindValidationFailed))
	_, err = admins.CreateAdmin("root", "long-enough", nil)
	assert.True(t, app_error.Is(err, app_error.KindValidationFailed))

	_, err = admins.CreateAdmin(" root ", "first-password", []string{auth.RoleViewer})
	require.NoError(t, err)
	// saving again replaces the account
	_, err = admins.CreateAdmin("root", "second-password", []string{auth.RoleViewer, auth.RoleAdmin})
	require.NoError(t, err)

	_, _, err = admins.Login("root", "first-password")
	assert.True(t, app_error.Is(err, app_error.KindUnauthorized))
	_, _, err = admins.Login("nobody", "second-password")
	assert.True(t, app_error.Is(err, app_error.KindUnauthorized))

	token, admin, err := admins.Login("root", "second-password")
	require.NoError(t, err)
	assert.Equal(t, []string{auth.RoleViewer, auth.RoleAdmin}, []string(admin.Roles))
	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "root", claims.Subject)
	assert.True(t, claims.HasAnyRole([]string{auth.RoleAdmin}))
	assert.False(t, claims.HasAnyRole([]string{auth.RoleWebMaster}))
}
