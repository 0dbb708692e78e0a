// Package seed produces the default administrator credentials and the
// initial settings written to every freshly created store.
package seed

import (
	"encoding/base64"
	"fmt"

	"github.com/studentbook/studentbook/internal/credentials"
	"github.com/studentbook/studentbook/internal/models"
)

const (
	defaultAdminUsername = "root"
	defaultAdminPassword = "root"
)

// DefaultSettings builds the eight settings rows seeded at first run. The
// administrator hash is derived with a fresh salt on every call, so two
// seedings never share credentials material.
func DefaultSettings() ([]models.Setting, error) {
	hash, salt, err := credentials.Hash(defaultAdminPassword)
	if err != nil {
		return nil, fmt.Errorf("hash default admin password: %w", err)
	}

	return []models.Setting{
		{ID: 0, Key: models.SettingAdminUsername, Value: defaultAdminUsername, Scope: models.RoleAdministrator, IsString: true},
		{ID: 1, Key: models.SettingAdminPasswordHash, Value: hash, Scope: models.RoleAdministrator, IsString: true},
		{ID: 2, Key: models.SettingAdminSalt, Value: base64.StdEncoding.EncodeToString(salt), Scope: models.RoleAdministrator, IsString: true},
		{ID: 3, Key: models.SettingIDFormat, Value: "SY-EY-####", Scope: models.RoleAdministrator, IsString: true},
		{ID: 4, Key: models.SettingEmailFormat, Value: "FILN@ED", Scope: models.RoleAdministrator, IsString: true},
		{ID: 5, Key: models.SettingEmailDomain, Value: "institution.com.edu", Scope: models.RoleAdministrator, IsString: true},
		{ID: 6, Key: models.SettingBarangayEnabled, Value: "True", Scope: models.RoleAdministrator, IsBool: true},
		{ID: 7, Key: models.SettingDefaultPassword, Value: "defaultpassword", Scope: models.RoleAdministrator, IsString: true},
	}, nil
}

// DefaultUserCredential hashes the institution's default password for a
// user reset. Each call produces a fresh hash and salt pair.
func DefaultUserCredential(defaultPassword string) (hash string, salt []byte, err error) {
	return credentials.Hash(defaultPassword)
}
