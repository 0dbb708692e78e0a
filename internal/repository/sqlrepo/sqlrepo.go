// Package sqlrepo implements the repository contract against a relational
// schema shared by SQLite and MySQL.
package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/studentbook/studentbook/internal/models"
	"github.com/studentbook/studentbook/internal/repository"
	"github.com/studentbook/studentbook/internal/seed"
	apperrors "github.com/studentbook/studentbook/pkg/errors"
)

const userCols = `id, user_id_str, username, password_hash, password_salt, email, first_name, middle_name, last_name, full_name, birth_date, address_street, address_barangay, address_city, address_province, address_country_code, address_zip_code, phone_number, role, registration_date, status, year_level`

const courseCols = `id, title, code, description, instructor_id, duration_in_hours, year, term, type, units, program_id`

const completionCols = `id, user_id, course_id, instructor_id, status, date_completed, grade, tracker_id`

// Repo is the relational backend. One instance serves exactly one engine.
type Repo struct {
	db      *sqlx.DB
	dialect Dialect
	logger  *zap.Logger
}

var _ repository.Repo = (*Repo)(nil)

// New bootstraps the schema for the dialect and seeds the settings table
// when it is empty. The empty-table check doubles as the MySQL self-heal:
// a database whose schema exists but lost its seed rows is reseeded.
func New(db *sqlx.DB, dialect Dialect, logger *zap.Logger) (*Repo, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Repo{db: db, dialect: dialect, logger: logger}

	switch dialect {
	case DialectSQLite:
		for _, stmt := range sqliteSchema {
			if _, err := db.Exec(stmt); err != nil {
				return nil, fmt.Errorf("create sqlite schema: %w", err)
			}
		}
	case DialectMySQL:
		if err := r.migrateMySQL(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown sql dialect %q", dialect)
	}

	if err := r.seedIfEmpty(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Repo) migrateMySQL() error {
	const table = `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := r.db.Exec(table); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current sql.NullInt64
	if err := r.db.Get(&current, `SELECT MAX(version) FROM schema_migrations`); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range mysqlMigrations {
		if current.Valid && int64(m.Version) <= current.Int64 {
			continue
		}
		for _, stmt := range m.Statements {
			if _, err := r.db.Exec(stmt); err != nil {
				return fmt.Errorf("apply migration %d: %w", m.Version, err)
			}
		}
		if _, err := r.db.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, m.Version); err != nil {
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
		r.logger.Info("applied migration", zap.Int("version", m.Version))
	}
	return nil
}

func (r *Repo) seedIfEmpty() error {
	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM settings`); err != nil {
		return fmt.Errorf("count settings: %w", err)
	}
	if count > 0 {
		return nil
	}

	settings, err := seed.DefaultSettings()
	if err != nil {
		return err
	}
	for _, s := range settings {
		if err := r.insertSetting(context.Background(), s); err != nil {
			return err
		}
	}
	r.logger.Info("seeded default settings", zap.Int("count", len(settings)))
	return nil
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func checkAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *Repo) AddUser(ctx context.Context, user models.User) error {
	const query = `INSERT INTO users (` + userCols + `) VALUES (:id, :user_id_str, :username, :password_hash, :password_salt, :email, :first_name, :middle_name, :last_name, :full_name, :birth_date, :address_street, :address_barangay, :address_city, :address_province, :address_country_code, :address_zip_code, :phone_number, :role, :registration_date, :status, :year_level)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// RemoveUser hard-deletes the user. Learner removal cascades to the
// tracker ledger and completions; the steps are not wrapped in one
// transaction, matching the per-statement autocommit model.
func (r *Repo) RemoveUser(ctx context.Context, id int) error {
	user, err := r.GetUser(ctx, id)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if err := checkAffected(res, "delete user"); err != nil {
		return err
	}

	if user.Role != models.RoleLearner {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM program_progress WHERE tracker_id IN (SELECT id FROM program_trackers WHERE user_id = ?)`, id); err != nil {
		return fmt.Errorf("delete program progress: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM course_completions WHERE user_id = ?`, id); err != nil {
		return fmt.Errorf("delete course completions: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM program_trackers WHERE user_id = ?`, id); err != nil {
		return fmt.Errorf("delete program tracker: %w", err)
	}
	return nil
}

func (r *Repo) UpdateUser(ctx context.Context, id int, user models.User) error {
	user.ID = id
	const query = `UPDATE users SET user_id_str = :user_id_str, username = :username, password_hash = :password_hash, password_salt = :password_salt, email = :email, first_name = :first_name, middle_name = :middle_name, last_name = :last_name, full_name = :full_name, birth_date = :birth_date, address_street = :address_street, address_barangay = :address_barangay, address_city = :address_city, address_province = :address_province, address_country_code = :address_country_code, address_zip_code = :address_zip_code, phone_number = :phone_number, role = :role, registration_date = :registration_date, status = :status, year_level = :year_level WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return checkAffected(res, "update user")
}

func (r *Repo) GetUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, `SELECT `+userCols+` FROM users`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *Repo) GetUser(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, `SELECT `+userCols+` FROM users WHERE id = ? LIMIT 1`, id); err != nil {
		return nil, notFoundOr(err, "find user by id")
	}
	return &user, nil
}

func (r *Repo) AddProgram(ctx context.Context, program models.Program) error {
	const query = `INSERT INTO programs (id, title, code, description, status) VALUES (:id, :title, :code, :description, :status)`
	if _, err := r.db.NamedExecContext(ctx, query, program); err != nil {
		return fmt.Errorf("create program: %w", err)
	}
	return nil
}

func (r *Repo) RemoveProgram(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM programs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	return checkAffected(res, "delete program")
}

func (r *Repo) UpdateProgram(ctx context.Context, id int, program models.Program) error {
	program.ID = id
	const query = `UPDATE programs SET title = :title, code = :code, description = :description, status = :status WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, program)
	if err != nil {
		return fmt.Errorf("update program: %w", err)
	}
	return checkAffected(res, "update program")
}

func (r *Repo) GetPrograms(ctx context.Context) ([]models.Program, error) {
	var programs []models.Program
	if err := r.db.SelectContext(ctx, &programs, `SELECT id, title, code, description, status FROM programs`); err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	for i := range programs {
		courses, err := r.coursesByProgram(ctx, programs[i].ID)
		if err != nil {
			return nil, err
		}
		programs[i].Courses = courses
	}
	return programs, nil
}

func (r *Repo) GetProgram(ctx context.Context, id int) (*models.Program, error) {
	var program models.Program
	if err := r.db.GetContext(ctx, &program, `SELECT id, title, code, description, status FROM programs WHERE id = ? LIMIT 1`, id); err != nil {
		return nil, notFoundOr(err, "find program by id")
	}
	courses, err := r.coursesByProgram(ctx, id)
	if err != nil {
		return nil, err
	}
	program.Courses = courses
	return &program, nil
}

func (r *Repo) coursesByProgram(ctx context.Context, programID int) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, `SELECT `+courseCols+` FROM courses WHERE program_id = ?`, programID); err != nil {
		return nil, fmt.Errorf("list program courses: %w", err)
	}
	return courses, nil
}

func (r *Repo) AddCourse(ctx context.Context, course models.Course) error {
	const query = `INSERT INTO courses (` + courseCols + `) VALUES (:id, :title, :code, :description, :instructor_id, :duration_in_hours, :year, :term, :type, :units, :program_id)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

func (r *Repo) RemoveCourse(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return checkAffected(res, "delete course")
}

func (r *Repo) UpdateCourse(ctx context.Context, id int, course models.Course) error {
	course.ID = id
	const query = `UPDATE courses SET title = :title, code = :code, description = :description, instructor_id = :instructor_id, duration_in_hours = :duration_in_hours, year = :year, term = :term, type = :type, units = :units, program_id = :program_id WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, course)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return checkAffected(res, "update course")
}

func (r *Repo) GetCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, `SELECT `+courseCols+` FROM courses`); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

func (r *Repo) GetCourse(ctx context.Context, id int) (*models.Course, error) {
	var course models.Course
	if err := r.db.GetContext(ctx, &course, `SELECT `+courseCols+` FROM courses WHERE id = ? LIMIT 1`, id); err != nil {
		return nil, notFoundOr(err, "find course by id")
	}
	return &course, nil
}

func (r *Repo) AddCourseCompletion(ctx context.Context, completion models.CourseCompletion) error {
	const query = `INSERT INTO course_completions (` + completionCols + `) VALUES (:id, :user_id, :course_id, :instructor_id, :status, :date_completed, :grade, :tracker_id)`
	if _, err := r.db.NamedExecContext(ctx, query, completion); err != nil {
		return fmt.Errorf("create course completion: %w", err)
	}
	return nil
}

func (r *Repo) RemoveCourseCompletion(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM course_completions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete course completion: %w", err)
	}
	return checkAffected(res, "delete course completion")
}

func (r *Repo) UpdateCourseCompletion(ctx context.Context, id int, completion models.CourseCompletion) error {
	completion.ID = id
	const query = `UPDATE course_completions SET user_id = :user_id, course_id = :course_id, instructor_id = :instructor_id, status = :status, date_completed = :date_completed, grade = :grade, tracker_id = :tracker_id WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, completion)
	if err != nil {
		return fmt.Errorf("update course completion: %w", err)
	}
	return checkAffected(res, "update course completion")
}

func (r *Repo) GetCourseCompletions(ctx context.Context) ([]models.CourseCompletion, error) {
	var completions []models.CourseCompletion
	if err := r.db.SelectContext(ctx, &completions, `SELECT `+completionCols+` FROM course_completions`); err != nil {
		return nil, fmt.Errorf("list course completions: %w", err)
	}
	return completions, nil
}

func (r *Repo) GetCourseCompletion(ctx context.Context, id int) (*models.CourseCompletion, error) {
	var completion models.CourseCompletion
	if err := r.db.GetContext(ctx, &completion, `SELECT `+completionCols+` FROM course_completions WHERE id = ? LIMIT 1`, id); err != nil {
		return nil, notFoundOr(err, "find course completion by id")
	}
	return &completion, nil
}

// AddProgramTracker inserts the tracker row and its program progress
// children. Course completions travel through their own table and are
// reattached on read.
func (r *Repo) AddProgramTracker(ctx context.Context, tracker models.ProgramTracker) error {
	if _, err := r.db.ExecContext(ctx, `INSERT INTO program_trackers (id, user_id) VALUES (?, ?)`, tracker.ID, tracker.UserID); err != nil {
		return fmt.Errorf("create program tracker: %w", err)
	}
	for _, p := range tracker.Programs {
		p.TrackerID = &tracker.ID
		const query = `INSERT INTO program_progress (id, program_id, status, date_completed, tracker_id) VALUES (:id, :program_id, :status, :date_completed, :tracker_id)`
		if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
			return fmt.Errorf("create program progress: %w", err)
		}
	}
	return nil
}

func (r *Repo) RemoveProgramTracker(ctx context.Context, userID int) error {
	tracker, err := r.GetProgramTracker(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM program_progress WHERE tracker_id = ?`, tracker.ID); err != nil {
		return fmt.Errorf("delete program progress: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM program_trackers WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete program tracker: %w", err)
	}
	return checkAffected(res, "delete program tracker")
}

// UpdateProgramTracker replaces the tracker's progress rows with the
// supplied set. The tracker row itself only carries identity.
func (r *Repo) UpdateProgramTracker(ctx context.Context, userID int, tracker models.ProgramTracker) error {
	existing, err := r.GetProgramTracker(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM program_progress WHERE tracker_id = ?`, existing.ID); err != nil {
		return fmt.Errorf("replace program progress: %w", err)
	}
	for _, p := range tracker.Programs {
		p.TrackerID = &existing.ID
		const query = `INSERT INTO program_progress (id, program_id, status, date_completed, tracker_id) VALUES (:id, :program_id, :status, :date_completed, :tracker_id)`
		if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
			return fmt.Errorf("replace program progress: %w", err)
		}
	}
	return nil
}

func (r *Repo) GetProgramTrackers(ctx context.Context) ([]models.ProgramTracker, error) {
	var trackers []models.ProgramTracker
	if err := r.db.SelectContext(ctx, &trackers, `SELECT id, user_id FROM program_trackers`); err != nil {
		return nil, fmt.Errorf("list program trackers: %w", err)
	}
	for i := range trackers {
		if err := r.fillTracker(ctx, &trackers[i]); err != nil {
			return nil, err
		}
	}
	return trackers, nil
}

func (r *Repo) GetProgramTracker(ctx context.Context, userID int) (*models.ProgramTracker, error) {
	var tracker models.ProgramTracker
	if err := r.db.GetContext(ctx, &tracker, `SELECT id, user_id FROM program_trackers WHERE user_id = ? LIMIT 1`, userID); err != nil {
		return nil, notFoundOr(err, "find program tracker by user")
	}
	if err := r.fillTracker(ctx, &tracker); err != nil {
		return nil, err
	}
	return &tracker, nil
}

func (r *Repo) fillTracker(ctx context.Context, tracker *models.ProgramTracker) error {
	var progress []models.ProgramProgress
	if err := r.db.SelectContext(ctx, &progress, `SELECT id, program_id, status, date_completed, tracker_id FROM program_progress WHERE tracker_id = ?`, tracker.ID); err != nil {
		return fmt.Errorf("list program progress: %w", err)
	}
	tracker.Programs = progress

	var completions []models.CourseCompletion
	if err := r.db.SelectContext(ctx, &completions, `SELECT `+completionCols+` FROM course_completions WHERE user_id = ?`, tracker.UserID); err != nil {
		return fmt.Errorf("list tracker completions: %w", err)
	}
	tracker.Courses = completions
	return nil
}

func (r *Repo) AddSetting(ctx context.Context, setting models.Setting) error {
	return r.insertSetting(ctx, setting)
}

func (r *Repo) insertSetting(ctx context.Context, setting models.Setting) error {
	const query = "INSERT INTO settings (id, `key`, value, is_bool, is_int, is_long, is_string, scope) VALUES (:id, :key, :value, :is_bool, :is_int, :is_long, :is_string, :scope)"
	if _, err := r.db.NamedExecContext(ctx, query, setting); err != nil {
		return fmt.Errorf("create setting: %w", err)
	}
	return nil
}

func (r *Repo) UpdateSetting(ctx context.Context, id int, value string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE settings SET value = ? WHERE id = ?`, value, id)
	if err != nil {
		return fmt.Errorf("update setting: %w", err)
	}
	return checkAffected(res, "update setting")
}

func (r *Repo) GetSettings(ctx context.Context) ([]models.Setting, error) {
	var settings []models.Setting
	if err := r.db.SelectContext(ctx, &settings, "SELECT id, `key`, value, is_bool, is_int, is_long, is_string, scope FROM settings"); err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return settings, nil
}

func (r *Repo) GetSetting(ctx context.Context, id int) (*models.Setting, error) {
	var setting models.Setting
	if err := r.db.GetContext(ctx, &setting, "SELECT id, `key`, value, is_bool, is_int, is_long, is_string, scope FROM settings WHERE id = ? LIMIT 1", id); err != nil {
		return nil, notFoundOr(err, "find setting by id")
	}
	return &setting, nil
}

func (r *Repo) Login(ctx context.Context, username, email, password string) (*models.User, error) {
	settings, err := r.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if admin := repository.AdminLogin(settings, username, password); admin != nil {
		return admin, nil
	}
	users, err := r.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	if user := repository.ScanUsers(users, username, email, password); user != nil {
		return user, nil
	}
	return nil, apperrors.ErrInvalidCredentials
}

func (r *Repo) AddUsers(ctx context.Context, users []models.User) error {
	for _, u := range users {
		if err := r.AddUser(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) AddPrograms(ctx context.Context, programs []models.Program) error {
	for _, p := range programs {
		if err := r.AddProgram(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) AddCourses(ctx context.Context, courses []models.Course) error {
	for _, c := range courses {
		if err := r.AddCourse(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) AddCourseCompletions(ctx context.Context, completions []models.CourseCompletion) error {
	for _, c := range completions {
		if err := r.AddCourseCompletion(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) AddProgramTrackers(ctx context.Context, trackers []models.ProgramTracker) error {
	for _, t := range trackers {
		if err := r.AddProgramTracker(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func (r *Repo) Close() error {
	return r.db.Close()
}
