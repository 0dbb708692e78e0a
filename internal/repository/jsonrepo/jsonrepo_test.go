package jsonrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studentbook/studentbook/internal/credentials"
	"github.com/studentbook/studentbook/internal/models"
	apperrors "github.com/studentbook/studentbook/pkg/errors"
)

func newRepo(t *testing.T) *Repo {
	t.Helper()
	path := filepath.Join(t.TempDir(), "StudentRecord.dat")
	repo, err := New(path, zap.NewNop())
	require.NoError(t, err)
	return repo
}

func learner(id int, username string) models.User {
	hash, salt, _ := credentials.Hash("secret")
	return models.User{
		ID:                 id,
		UserIDStr:          "24-25-0001",
		Username:           username,
		PasswordHash:       hash,
		PasswordSalt:       salt,
		Email:              username + "@institution.com.edu",
		FirstName:          "Juan",
		LastName:           "Cruz",
		FullName:           "Juan Cruz",
		BirthDate:          "2004-05-06",
		AddressStreet:      "1 Main St",
		AddressCity:        "Quezon City",
		AddressProvince:    "Metro Manila",
		AddressCountryCode: "PH",
		AddressZipCode:     "1100",
		PhoneNumber:        639171234567,
		Role:               models.RoleLearner,
		RegistrationDate:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Status:             models.StatusActiveLearner,
		YearLevel:          models.YearFirst,
	}
}

func TestNewSeedsSettings(t *testing.T) {
	repo := newRepo(t)

	settings, err := repo.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Len(t, settings, 8)

	users, err := repo.GetUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestAddAndGetUserRoundTrip(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	want := learner(0, "jcruz")
	require.NoError(t, repo.AddUser(ctx, want))

	got, err := repo.GetUser(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestDatasetRoundTrip(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AddUser(ctx, learner(0, "jcruz")))
	require.NoError(t, repo.AddProgram(ctx, models.Program{
		ID: 0, Title: "BS Computer Science", Code: "BSCS", Description: "CS", Status: models.ProgramActive,
	}))
	require.NoError(t, repo.AddCourse(ctx, models.Course{
		ID: 0, Title: "Intro to Programming", Code: "CS101", InstructorID: 5,
		DurationInHours: 54, Type: models.CourseLecture, Units: 3,
	}))
	require.NoError(t, repo.AddCourseCompletion(ctx, models.CourseCompletion{
		ID: 0, UserID: 0, CourseID: 0, InstructorID: 5, Status: models.StatusNotStarted,
	}))
	require.NoError(t, repo.AddProgramTracker(ctx, models.ProgramTracker{
		ID: 0, UserID: 0,
		Programs: []models.ProgramProgress{{ID: 0, ProgramID: 0, Status: models.StatusInProgress}},
	}))

	users, err := repo.GetUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	programs, err := repo.GetPrograms(ctx)
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Equal(t, "BSCS", programs[0].Code)

	courses, err := repo.GetCourses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "CS101", courses[0].Code)

	tracker, err := repo.GetProgramTracker(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, tracker.Programs, 1)
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	_, err := repo.GetUser(ctx, 42)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, repo.UpdateUser(ctx, 42, learner(42, "ghost")), apperrors.ErrNotFound)
	assert.ErrorIs(t, repo.RemoveUser(ctx, 42), apperrors.ErrNotFound)
	assert.ErrorIs(t, repo.RemoveProgram(ctx, 42), apperrors.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateSetting(ctx, 42, "x"), apperrors.ErrNotFound)
}

func TestRemoveUserThenGetIndicatesAbsence(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AddUser(ctx, learner(0, "jcruz")))
	require.NoError(t, repo.RemoveUser(ctx, 0))

	_, err := repo.GetUser(ctx, 0)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRemoveLearnerCascades(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AddUser(ctx, learner(3, "jcruz")))
	require.NoError(t, repo.AddProgramTracker(ctx, models.ProgramTracker{ID: 0, UserID: 3}))
	require.NoError(t, repo.AddCourseCompletions(ctx, []models.CourseCompletion{
		{ID: 0, UserID: 3, CourseID: 1, InstructorID: 7, Status: models.StatusNotStarted},
		{ID: 1, UserID: 3, CourseID: 2, InstructorID: 7, Status: models.StatusNotStarted},
	}))

	require.NoError(t, repo.RemoveUser(ctx, 3))

	_, err := repo.GetProgramTracker(ctx, 3)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	completions, err := repo.GetCourseCompletions(ctx)
	require.NoError(t, err)
	for _, c := range completions {
		assert.NotEqual(t, 3, c.UserID)
	}
	assert.Empty(t, completions)
}

func TestAdminLoginFromSeededSettings(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	user, err := repo.Login(ctx, "root", "", "root")
	require.NoError(t, err)
	assert.Equal(t, models.AdminUserID, user.ID)
	assert.Equal(t, models.RoleAdministrator, user.Role)

	_, err = repo.Login(ctx, "root", "", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginByUsernameAndEmail(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	hash, salt, err := credentials.Hash("hunter2")
	require.NoError(t, err)
	u := learner(0, "jcruz")
	u.PasswordHash = hash
	u.PasswordSalt = salt
	require.NoError(t, repo.AddUser(ctx, u))

	byUsername, err := repo.Login(ctx, "jcruz", "", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, 0, byUsername.ID)

	byEmail, err := repo.Login(ctx, "", "jcruz@institution.com.edu", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, 0, byEmail.ID)

	_, err = repo.Login(ctx, "jcruz", "", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestUpdateSetting(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpdateSetting(ctx, 5, "school.example.edu"))

	setting, err := repo.GetSetting(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "school.example.edu", setting.Value)
}

func TestLoadAcceptsTrailingCommas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "StudentRecord.dat")
	repo, err := New(path, zap.NewNop())
	require.NoError(t, err)

	// Documents written by the previous serializer carry trailing commas.
	// Commas inside string values must survive untouched.
	doc := `{
  "Users": [
    {"Id": 0, "Username": "jcruz", "AddressStreet": "1, Main St,}",},
  ],
  "Settings": [],
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	users, err := repo.GetUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "jcruz", users[0].Username)
	assert.Equal(t, "1, Main St,}", users[0].AddressStreet)
}

func TestCorruptFileFallsBackToSeededDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "StudentRecord.dat")
	repo, err := New(path, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	settings, err := repo.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Len(t, settings, 8)

	users, err := repo.GetUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestWholeDocumentPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "StudentRecord.dat")
	first, err := New(path, zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, first.AddUser(ctx, learner(0, "jcruz")))

	second, err := New(path, zap.NewNop())
	require.NoError(t, err)
	users, err := second.GetUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, "jcruz", users[0].Username)
}
