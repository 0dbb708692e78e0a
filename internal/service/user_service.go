package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/studentbook/studentbook/internal/countries"
	"github.com/studentbook/studentbook/internal/identity"
	"github.com/studentbook/studentbook/internal/models"
	"github.com/studentbook/studentbook/internal/repository"
	"github.com/studentbook/studentbook/internal/seed"
	apperrors "github.com/studentbook/studentbook/pkg/errors"
)

// UserService manages learner and instructor records.
type UserService struct {
	repo      repository.Repo
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(repo repository.Repo, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// CreateLearnerRequest carries the operator-entered fields for a new
// learner. Username, email, display id and the initial password are all
// generated from settings.
type CreateLearnerRequest struct {
	FirstName          string `validate:"required"`
	MiddleName         string
	LastName           string `validate:"required"`
	BirthDate          string `validate:"required,datetime=2006-01-02"`
	AddressStreet      string `validate:"required"`
	AddressBarangay    string
	AddressCity        string `validate:"required"`
	AddressProvince    string `validate:"required"`
	AddressCountryCode string `validate:"required,len=2"`
	AddressZipCode     string `validate:"required"`
	PhoneNumber        int64  `validate:"required"`
	YearLevel          models.LearnerYear
	StartYear          int `validate:"required"`
	EndYear            int `validate:"required,gtfield=StartYear"`
}

// CreateLearner registers a new learner with generated credentials.
func (s *UserService) CreateLearner(ctx context.Context, req CreateLearnerRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrValidation.Code, "invalid learner payload")
	}
	if err := checkCountryCode(req.AddressCountryCode); err != nil {
		return nil, err
	}

	users, err := s.repo.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	hash, salt, err := seed.DefaultUserCredential(settingByKey(settings, models.SettingDefaultPassword))
	if err != nil {
		return nil, err
	}

	displayID := identity.LearnerID(req.StartYear, req.EndYear, users, settingByKey(settings, models.SettingIDFormat))
	email := identity.Email(req.FirstName, req.MiddleName, req.LastName,
		settingByKey(settings, models.SettingEmailDomain), users, settingByKey(settings, models.SettingEmailFormat))

	yearLevel := req.YearLevel
	if yearLevel == "" {
		yearLevel = models.YearFirst
	}

	user := models.User{
		ID:                 identity.NextID(users, func(u models.User) int { return u.ID }),
		UserIDStr:          displayID,
		Username:           identity.DefaultUsername(req.FirstName, req.LastName, users),
		PasswordHash:       hash,
		PasswordSalt:       salt,
		Email:              email,
		FirstName:          req.FirstName,
		MiddleName:         req.MiddleName,
		LastName:           req.LastName,
		FullName:           fullName(req.FirstName, req.MiddleName, req.LastName),
		BirthDate:          req.BirthDate,
		AddressStreet:      req.AddressStreet,
		AddressBarangay:    req.AddressBarangay,
		AddressCity:        req.AddressCity,
		AddressProvince:    req.AddressProvince,
		AddressCountryCode: req.AddressCountryCode,
		AddressZipCode:     req.AddressZipCode,
		PhoneNumber:        req.PhoneNumber,
		Role:               models.RoleLearner,
		RegistrationDate:   time.Now().UTC(),
		Status:             models.StatusActiveLearner,
		YearLevel:          yearLevel,
	}

	if err := s.repo.AddUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("learner created", zap.Int("id", user.ID), zap.String("display_id", user.UserIDStr))
	return &user, nil
}

// CreateInstructorRequest carries the operator-entered fields for a new
// instructor.
type CreateInstructorRequest struct {
	FirstName          string `validate:"required"`
	MiddleName         string
	LastName           string `validate:"required"`
	BirthDate          string `validate:"required,datetime=2006-01-02"`
	AddressStreet      string `validate:"required"`
	AddressBarangay    string
	AddressCity        string `validate:"required"`
	AddressProvince    string `validate:"required"`
	AddressCountryCode string `validate:"required,len=2"`
	AddressZipCode     string `validate:"required"`
	PhoneNumber        int64  `validate:"required"`
}

// CreateInstructor registers a new instructor with generated credentials.
func (s *UserService) CreateInstructor(ctx context.Context, req CreateInstructorRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrValidation.Code, "invalid instructor payload")
	}
	if err := checkCountryCode(req.AddressCountryCode); err != nil {
		return nil, err
	}

	users, err := s.repo.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	hash, salt, err := seed.DefaultUserCredential(settingByKey(settings, models.SettingDefaultPassword))
	if err != nil {
		return nil, err
	}

	username := identity.InstructorID(req.FirstName, req.MiddleName, req.LastName, users, "")
	email := identity.Email(req.FirstName, req.MiddleName, req.LastName,
		settingByKey(settings, models.SettingEmailDomain), users, settingByKey(settings, models.SettingEmailFormat))

	user := models.User{
		ID:                 identity.NextID(users, func(u models.User) int { return u.ID }),
		UserIDStr:          username,
		Username:           username,
		PasswordHash:       hash,
		PasswordSalt:       salt,
		Email:              email,
		FirstName:          req.FirstName,
		MiddleName:         req.MiddleName,
		LastName:           req.LastName,
		FullName:           fullName(req.FirstName, req.MiddleName, req.LastName),
		BirthDate:          req.BirthDate,
		AddressStreet:      req.AddressStreet,
		AddressBarangay:    req.AddressBarangay,
		AddressCity:        req.AddressCity,
		AddressProvince:    req.AddressProvince,
		AddressCountryCode: req.AddressCountryCode,
		AddressZipCode:     req.AddressZipCode,
		PhoneNumber:        req.PhoneNumber,
		Role:               models.RoleInstructor,
		RegistrationDate:   time.Now().UTC(),
		Status:             models.StatusInstructing,
		YearLevel:          models.YearNotApplicable,
	}

	if err := s.repo.AddUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("instructor created", zap.Int("id", user.ID), zap.String("username", user.Username))
	return &user, nil
}

// SetStatus applies a soft lifecycle transition. The row remains on
// record; only the status changes.
func (s *UserService) SetStatus(ctx context.Context, id int, status models.UserStatus) error {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return err
	}
	updated := *user
	updated.Status = status
	return s.repo.UpdateUser(ctx, id, updated)
}

// ResetPassword replaces the user's credentials with a fresh hash of the
// institution's default password.
func (s *UserService) ResetPassword(ctx context.Context, id int) error {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return err
	}
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return err
	}
	hash, salt, err := seed.DefaultUserCredential(settingByKey(settings, models.SettingDefaultPassword))
	if err != nil {
		return err
	}
	updated := *user
	updated.PasswordHash = hash
	updated.PasswordSalt = salt
	if err := s.repo.UpdateUser(ctx, id, updated); err != nil {
		return err
	}
	s.logger.Info("password reset to institutional default", zap.Int("id", id))
	return nil
}

// HardDelete removes the user permanently. Learner removal cascades to
// their tracker and completions inside the backend; instructor removal
// first reassigns their courses to the removed-instructor sentinel.
func (s *UserService) HardDelete(ctx context.Context, id int) error {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return err
	}

	if user.Role == models.RoleInstructor {
		courses, err := s.repo.GetCourses(ctx)
		if err != nil {
			return err
		}
		for _, c := range courses {
			if c.InstructorID != id {
				continue
			}
			c.InstructorID = models.RemovedInstructorID
			if err := s.repo.UpdateCourse(ctx, c.ID, c); err != nil {
				return fmt.Errorf("reassign course %d: %w", c.ID, err)
			}
		}
	}

	if err := s.repo.RemoveUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user hard-deleted", zap.Int("id", id), zap.String("role", string(user.Role)))
	return nil
}

// checkCountryCode resolves the ISO alpha-2 code against the bundled
// country table.
func checkCountryCode(code string) error {
	country, err := countries.Get(code)
	if err != nil {
		return err
	}
	if country == nil {
		return apperrors.Clone(apperrors.ErrValidation, "unknown country code: "+code)
	}
	return nil
}

func fullName(first, middle, last string) string {
	if middle == "" {
		return first + " " + last
	}
	return first + " " + middle + " " + last
}

// settingByKey returns the value of the first setting with the key, or ""
// when absent.
func settingByKey(settings []models.Setting, key string) string {
	for _, s := range settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}
