package sqlrepo

import (
	"context"
	"database/sql"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studentbook/studentbook/internal/credentials"
	"github.com/studentbook/studentbook/internal/models"
	apperrors "github.com/studentbook/studentbook/pkg/errors"
)

func newMock(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := &Repo{db: sqlx.NewDb(db, "sqlmock"), dialect: DialectSQLite, logger: zap.NewNop()}
	return repo, mock
}

func userRow(id int, role models.UserRole) *sqlmock.Rows {
	return sqlmock.NewRows(strings.Split(userCols, ", ")).AddRow(
		id, "24-25-0001", "jcruz", "hash", []byte("salt"), "jcruz@institution.com.edu",
		"Juan", "", "Cruz", "Juan Cruz", "2004-05-06",
		"1 Main St", "", "Quezon City", "Metro Manila", "PH", "1100",
		int64(639171234567), string(role), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		string(models.StatusActiveLearner), string(models.YearFirst),
	)
}

func TestGetUser(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = (.+) LIMIT 1`).
		WithArgs(3).
		WillReturnRows(userRow(3, models.RoleLearner))

	user, err := repo.GetUser(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, user.ID)
	assert.Equal(t, "jcruz", user.Username)
	assert.Equal(t, models.RoleLearner, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = (.+) LIMIT 1`).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetUser(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddProgram(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`INSERT INTO programs`).
		WithArgs(0, "BS Computer Science", "BSCS", "CS", string(models.ProgramActive)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.AddProgram(context.Background(), models.Program{
		ID: 0, Title: "BS Computer Science", Code: "BSCS", Description: "CS", Status: models.ProgramActive,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveLearnerCascades(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = (.+) LIMIT 1`).
		WithArgs(3).
		WillReturnRows(userRow(3, models.RoleLearner))
	mock.ExpectExec(`DELETE FROM users WHERE id = (.+)`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM program_progress WHERE tracker_id IN`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM course_completions WHERE user_id = (.+)`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM program_trackers WHERE user_id = (.+)`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RemoveUser(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveInstructorDoesNotCascade(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = (.+) LIMIT 1`).
		WithArgs(7).
		WillReturnRows(userRow(7, models.RoleInstructor))
	mock.ExpectExec(`DELETE FROM users WHERE id = (.+)`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RemoveUser(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSetting(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`UPDATE settings SET value = (.+) WHERE id = (.+)`).
		WithArgs("school.example.edu", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateSetting(context.Background(), 5, "school.example.edu"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSettingNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`UPDATE settings SET value = (.+) WHERE id = (.+)`).
		WithArgs("x", 42).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateSetting(context.Background(), 42, "x")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedIfEmptySeedsWhenSettingsTableIsEmpty(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT COUNT(.+) FROM settings`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	for i := 0; i < 8; i++ {
		mock.ExpectExec(`INSERT INTO settings`).
			WillReturnResult(sqlmock.NewResult(int64(i+1), 1))
	}

	require.NoError(t, repo.seedIfEmpty())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedIfEmptySkipsWhenSettingsExist(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT COUNT(.+) FROM settings`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(8))

	require.NoError(t, repo.seedIfEmpty())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func settingsRows(t *testing.T, password string) *sqlmock.Rows {
	t.Helper()
	hash, salt, err := credentials.Hash(password)
	require.NoError(t, err)
	encoded := base64.StdEncoding.EncodeToString(salt)

	cols := []string{"id", "key", "value", "is_bool", "is_int", "is_long", "is_string", "scope"}
	return sqlmock.NewRows(cols).
		AddRow(0, models.SettingAdminUsername, "root", false, false, false, true, string(models.RoleAdministrator)).
		AddRow(1, models.SettingAdminPasswordHash, hash, false, false, false, true, string(models.RoleAdministrator)).
		AddRow(2, models.SettingAdminSalt, encoded, false, false, false, true, string(models.RoleAdministrator))
}

func TestLoginAdmin(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`FROM settings`).WillReturnRows(settingsRows(t, "root"))

	user, err := repo.Login(context.Background(), "root", "", "root")
	require.NoError(t, err)
	assert.Equal(t, models.AdminUserID, user.ID)
	assert.Equal(t, models.RoleAdministrator, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`FROM settings`).WillReturnRows(settingsRows(t, "root"))
	mock.ExpectQuery(`SELECT (.+) FROM users`).
		WillReturnRows(userRow(0, models.RoleLearner))

	_, err := repo.Login(context.Background(), "root", "", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProgramWithCourses(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT id, title, code, description, status FROM programs WHERE id = (.+) LIMIT 1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "code", "description", "status"}).
			AddRow(1, "BS Computer Science", "BSCS", "CS", string(models.ProgramActive)))
	mock.ExpectQuery(`SELECT (.+) FROM courses WHERE program_id = (.+)`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(strings.Split(courseCols, ", ")).
			AddRow(0, "Intro to Programming", "CS101", "CS", 5, 54, 1, 1, string(models.CourseLecture), 3, 1))

	program, err := repo.GetProgram(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "BSCS", program.Code)
	require.Len(t, program.Courses, 1)
	assert.Equal(t, "CS101", program.Courses[0].Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProgramTracker(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT id, user_id FROM program_trackers WHERE user_id = (.+) LIMIT 1`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(0, 3))
	mock.ExpectQuery(`SELECT id, program_id, status, date_completed, tracker_id FROM program_progress WHERE tracker_id = (.+)`).
		WithArgs(0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "program_id", "status", "date_completed", "tracker_id"}).
			AddRow(0, 1, string(models.StatusInProgress), nil, 0))
	mock.ExpectQuery(`SELECT (.+) FROM course_completions WHERE user_id = (.+)`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(strings.Split(completionCols, ", ")).
			AddRow(0, 3, 1, 7, string(models.StatusNotStarted), nil, nil, 0))

	tracker, err := repo.GetProgramTracker(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, tracker.UserID)
	require.Len(t, tracker.Programs, 1)
	require.Len(t, tracker.Courses, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
