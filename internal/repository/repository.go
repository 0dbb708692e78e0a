// Package repository defines the storage contract shared by the JSON,
// SQLite and MySQL backends.
package repository

import (
	"context"

	"github.com/studentbook/studentbook/internal/models"
)

// Repo is the full capability set consumed by the services. Get, Update
// and Remove return errors.ErrNotFound for unknown ids on every backend.
// Identifier assignment is the caller's responsibility; backends never
// generate ids. All mutations are synchronously durable before returning.
type Repo interface {
	AddUser(ctx context.Context, user models.User) error
	// RemoveUser hard-deletes a user. For learners the removal cascades to
	// their program tracker and course completions.
	RemoveUser(ctx context.Context, id int) error
	UpdateUser(ctx context.Context, id int, user models.User) error
	GetUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int) (*models.User, error)

	AddProgram(ctx context.Context, program models.Program) error
	RemoveProgram(ctx context.Context, id int) error
	UpdateProgram(ctx context.Context, id int, program models.Program) error
	GetPrograms(ctx context.Context) ([]models.Program, error)
	GetProgram(ctx context.Context, id int) (*models.Program, error)

	AddCourse(ctx context.Context, course models.Course) error
	RemoveCourse(ctx context.Context, id int) error
	UpdateCourse(ctx context.Context, id int, course models.Course) error
	GetCourses(ctx context.Context) ([]models.Course, error)
	GetCourse(ctx context.Context, id int) (*models.Course, error)

	AddCourseCompletion(ctx context.Context, completion models.CourseCompletion) error
	RemoveCourseCompletion(ctx context.Context, id int) error
	UpdateCourseCompletion(ctx context.Context, id int, completion models.CourseCompletion) error
	GetCourseCompletions(ctx context.Context) ([]models.CourseCompletion, error)
	GetCourseCompletion(ctx context.Context, id int) (*models.CourseCompletion, error)

	// Program tracker operations key on the learner's user id, not the
	// tracker's own id.
	AddProgramTracker(ctx context.Context, tracker models.ProgramTracker) error
	RemoveProgramTracker(ctx context.Context, userID int) error
	UpdateProgramTracker(ctx context.Context, userID int, tracker models.ProgramTracker) error
	GetProgramTrackers(ctx context.Context) ([]models.ProgramTracker, error)
	GetProgramTracker(ctx context.Context, userID int) (*models.ProgramTracker, error)

	AddSetting(ctx context.Context, setting models.Setting) error
	UpdateSetting(ctx context.Context, id int, value string) error
	GetSettings(ctx context.Context) ([]models.Setting, error)
	GetSetting(ctx context.Context, id int) (*models.Setting, error)

	// Login checks the administrator credentials held in settings first,
	// synthesizing the sentinel administrator record on a match, then scans
	// stored users by username or email. A failed login reports
	// errors.ErrInvalidCredentials without distinguishing unknown users
	// from wrong passwords.
	Login(ctx context.Context, username, email, password string) (*models.User, error)

	AddUsers(ctx context.Context, users []models.User) error
	AddPrograms(ctx context.Context, programs []models.Program) error
	AddCourses(ctx context.Context, courses []models.Course) error
	AddCourseCompletions(ctx context.Context, completions []models.CourseCompletion) error
	AddProgramTrackers(ctx context.Context, trackers []models.ProgramTracker) error

	Close() error
}
