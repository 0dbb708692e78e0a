package service

import (
	"context"
	"encoding/base64"
	"strconv"

	"go.uber.org/zap"

	"github.com/studentbook/studentbook/internal/credentials"
	"github.com/studentbook/studentbook/internal/models"
	"github.com/studentbook/studentbook/internal/repository"
	apperrors "github.com/studentbook/studentbook/pkg/errors"
)

// SettingsService reads and edits the configuration rows. All values are
// stored as strings; the typed accessors convert on the way out.
type SettingsService struct {
	repo   repository.Repo
	logger *zap.Logger
}

// NewSettingsService constructs a SettingsService instance.
func NewSettingsService(repo repository.Repo, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, logger: logger}
}

// String returns the value of the named setting.
func (s *SettingsService) String(ctx context.Context, key string) (string, error) {
	setting, err := s.find(ctx, key)
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

// Bool parses the named setting as a boolean. The stored form uses
// title-case True/False for parity with the shipped documents.
func (s *SettingsService) Bool(ctx context.Context, key string) (bool, error) {
	setting, err := s.find(ctx, key)
	if err != nil {
		return false, err
	}
	switch setting.Value {
	case "True", "true", "1":
		return true, nil
	case "False", "false", "0", "":
		return false, nil
	}
	b, err := strconv.ParseBool(setting.Value)
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.ErrValidation.Code, "setting is not a boolean")
	}
	return b, nil
}

// Set updates the named setting's value.
func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	setting, err := s.find(ctx, key)
	if err != nil {
		return err
	}
	return s.repo.UpdateSetting(ctx, setting.ID, value)
}

// RotateAdminCredentials replaces the stored administrator username and
// password hash. The salt is regenerated with the hash and stored base64
// encoded.
func (s *SettingsService) RotateAdminCredentials(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return apperrors.Clone(apperrors.ErrValidation, "username and password are required")
	}

	hash, salt, err := credentials.Hash(password)
	if err != nil {
		return err
	}

	if err := s.Set(ctx, models.SettingAdminUsername, username); err != nil {
		return err
	}
	if err := s.Set(ctx, models.SettingAdminPasswordHash, hash); err != nil {
		return err
	}
	if err := s.Set(ctx, models.SettingAdminSalt, base64.StdEncoding.EncodeToString(salt)); err != nil {
		return err
	}
	s.logger.Info("administrator credentials rotated")
	return nil
}

func (s *SettingsService) find(ctx context.Context, key string) (*models.Setting, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	for i := range settings {
		if settings[i].Key == key {
			return &settings[i], nil
		}
	}
	return nil, apperrors.Clone(apperrors.ErrNotFound, "setting not found: "+key)
}
