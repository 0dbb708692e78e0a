package repository

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studentbook/studentbook/internal/credentials"
	"github.com/studentbook/studentbook/internal/models"
)

func adminSettings(t *testing.T, username, password string) []models.Setting {
	t.Helper()
	hash, salt, err := credentials.Hash(password)
	require.NoError(t, err)
	return []models.Setting{
		{ID: 0, Key: models.SettingAdminUsername, Value: username, Scope: models.RoleAdministrator},
		{ID: 1, Key: models.SettingAdminPasswordHash, Value: hash, Scope: models.RoleAdministrator},
		{ID: 2, Key: models.SettingAdminSalt, Value: base64.StdEncoding.EncodeToString(salt), Scope: models.RoleAdministrator},
	}
}

func TestAdminLogin(t *testing.T) {
	settings := adminSettings(t, "root", "root")

	admin := AdminLogin(settings, "root", "root")
	require.NotNil(t, admin)
	assert.Equal(t, models.AdminUserID, admin.ID)
	assert.Equal(t, models.RoleAdministrator, admin.Role)
	assert.Equal(t, models.StatusAdministrator, admin.Status)
	assert.True(t, admin.IsAdmin())
}

func TestAdminLoginRejects(t *testing.T) {
	settings := adminSettings(t, "root", "root")

	assert.Nil(t, AdminLogin(settings, "root", "wrong"))
	assert.Nil(t, AdminLogin(settings, "admin", "root"))
	assert.Nil(t, AdminLogin(nil, "root", "root"))
}

func TestAdminLoginCorruptSalt(t *testing.T) {
	settings := adminSettings(t, "root", "root")
	settings[2].Value = "not-base64!!!"

	assert.Nil(t, AdminLogin(settings, "root", "root"))
}

func TestScanUsers(t *testing.T) {
	hash, salt, err := credentials.Hash("hunter2")
	require.NoError(t, err)
	users := []models.User{
		{ID: 0, Username: "jcruz", Email: "jcruz@institution.com.edu", PasswordHash: hash, PasswordSalt: salt},
	}

	byUsername := ScanUsers(users, "jcruz", "", "hunter2")
	require.NotNil(t, byUsername)
	assert.Equal(t, 0, byUsername.ID)

	byEmail := ScanUsers(users, "", "jcruz@institution.com.edu", "hunter2")
	require.NotNil(t, byEmail)

	assert.Nil(t, ScanUsers(users, "jcruz", "", "wrong"))
	assert.Nil(t, ScanUsers(users, "nobody", "", "hunter2"))
	assert.Nil(t, ScanUsers(nil, "jcruz", "", "hunter2"))
}
