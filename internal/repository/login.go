package repository

import (
	"encoding/base64"

	"github.com/studentbook/studentbook/internal/credentials"
	"github.com/studentbook/studentbook/internal/models"
)

// settingValue returns the value for a key, or "" when absent.
func settingValue(settings []models.Setting, key string) string {
	for _, s := range settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

// AdminLogin checks the supplied credentials against the administrator
// settings. On success it synthesizes the sentinel administrator record;
// it returns nil when the credentials do not match. A corrupt stored salt
// fails verification rather than erroring.
func AdminLogin(settings []models.Setting, username, password string) *models.User {
	adminUsername := settingValue(settings, models.SettingAdminUsername)
	adminHash := settingValue(settings, models.SettingAdminPasswordHash)
	adminSalt := settingValue(settings, models.SettingAdminSalt)

	if username != adminUsername {
		return nil
	}
	salt, err := base64.StdEncoding.DecodeString(adminSalt)
	if err != nil {
		return nil
	}
	if !credentials.Verify(password, adminHash, salt) {
		return nil
	}

	return &models.User{
		ID:           models.AdminUserID,
		Username:     adminUsername,
		PasswordHash: adminHash,
		PasswordSalt: salt,
		Role:         models.RoleAdministrator,
		Status:       models.StatusAdministrator,
		YearLevel:    models.YearNotApplicable,
	}
}

// ScanUsers finds the first user matching by username or email whose
// stored hash verifies the supplied password.
func ScanUsers(users []models.User, username, email, password string) *models.User {
	for i := range users {
		u := &users[i]
		if u.Username != username && u.Email != email {
			continue
		}
		if credentials.Verify(password, u.PasswordHash, u.PasswordSalt) {
			match := *u
			return &match
		}
	}
	return nil
}
