// Package jsonrepo persists the entire dataset as one JSON document on
// disk. Every operation reads the whole document and every mutation
// rewrites it.
package jsonrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/studentbook/studentbook/internal/models"
	"github.com/studentbook/studentbook/internal/repository"
	"github.com/studentbook/studentbook/internal/seed"
	apperrors "github.com/studentbook/studentbook/pkg/errors"
)

// Repo is the flat-file backend. It offers no inter-process locking; two
// processes writing the same file race and the last writer wins.
type Repo struct {
	path   string
	logger *zap.Logger
}

var _ repository.Repo = (*Repo)(nil)

// New opens the document at path, creating it with seeded settings when
// absent.
func New(path string, logger *zap.Logger) (*Repo, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Repo{path: path, logger: logger}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		data := models.NewDataset()
		settings, err := seed.DefaultSettings()
		if err != nil {
			return nil, err
		}
		data.Settings = settings
		if err := r.save(data); err != nil {
			return nil, fmt.Errorf("initialize json store: %w", err)
		}
		logger.Info("created json store", zap.String("path", path))
	} else if err != nil {
		return nil, fmt.Errorf("stat json store: %w", err)
	}
	return r, nil
}

// load reads and parses the whole document. Documents written with
// trailing commas are accepted; the previous serializer emitted them.
// A genuinely unparseable file yields a freshly seeded dataset; the
// previous contents are abandoned, which is logged loudly because it
// loses data.
func (r *Repo) load() (*models.Dataset, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read json store: %w", err)
	}
	data := models.NewDataset()
	if err := json.Unmarshal(raw, data); err != nil {
		data = models.NewDataset()
		if retryErr := json.Unmarshal(stripTrailingCommas(raw), data); retryErr == nil {
			return data, nil
		}
		r.logger.Error("json store is corrupt, falling back to a seeded empty dataset",
			zap.String("path", r.path), zap.Error(err))
		fresh := models.NewDataset()
		settings, seedErr := seed.DefaultSettings()
		if seedErr != nil {
			return nil, seedErr
		}
		fresh.Settings = settings
		return fresh, nil
	}
	return data, nil
}

// stripTrailingCommas drops commas that directly precede a closing
// bracket or brace, skipping string literals. A comma in that position
// is never valid JSON, so removing it cannot change the meaning of a
// well-formed document.
func stripTrailingCommas(raw []byte) []byte {
	out := make([]byte, 0, len(raw))
	inString := false
	escaped := false
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if inString {
			out = append(out, c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			out = append(out, c)
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(raw) && (raw[j] == ' ' || raw[j] == '\t' || raw[j] == '\r' || raw[j] == '\n') {
				j++
			}
			if j < len(raw) && (raw[j] == ']' || raw[j] == '}') {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// save rewrites the whole document through a temp file and rename so a
// crash mid-write cannot leave a half-written store.
func (r *Repo) save(data *models.Dataset) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json store: %w", err)
	}
	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".studentbook-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp store: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace json store: %w", err)
	}
	return nil
}

// mutate loads the document, applies fn and saves the result.
func (r *Repo) mutate(fn func(*models.Dataset) error) error {
	data, err := r.load()
	if err != nil {
		return err
	}
	if err := fn(data); err != nil {
		return err
	}
	return r.save(data)
}

func (r *Repo) AddUser(ctx context.Context, user models.User) error {
	return r.mutate(func(d *models.Dataset) error {
		d.Users = append(d.Users, user)
		return nil
	})
}

func (r *Repo) RemoveUser(ctx context.Context, id int) error {
	return r.mutate(func(d *models.Dataset) error {
		idx := -1
		for i := range d.Users {
			if d.Users[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return apperrors.ErrNotFound
		}
		learner := d.Users[idx].Role == models.RoleLearner
		d.Users = append(d.Users[:idx], d.Users[idx+1:]...)
		if learner {
			d.ProgramTrackers = filterTrackers(d.ProgramTrackers, id)
			d.CourseCompletions = filterCompletions(d.CourseCompletions, id)
		}
		return nil
	})
}

func filterTrackers(trackers []models.ProgramTracker, userID int) []models.ProgramTracker {
	kept := trackers[:0]
	for _, t := range trackers {
		if t.UserID != userID {
			kept = append(kept, t)
		}
	}
	return kept
}

func filterCompletions(completions []models.CourseCompletion, userID int) []models.CourseCompletion {
	kept := completions[:0]
	for _, c := range completions {
		if c.UserID != userID {
			kept = append(kept, c)
		}
	}
	return kept
}

func (r *Repo) UpdateUser(ctx context.Context, id int, user models.User) error {
	return r.mutate(func(d *models.Dataset) error {
		for i := range d.Users {
			if d.Users[i].ID == id {
				d.Users[i] = user
				return nil
			}
		}
		return apperrors.ErrNotFound
	})
}

func (r *Repo) GetUsers(ctx context.Context) ([]models.User, error) {
	data, err := r.load()
	if err != nil {
		return nil, err
	}
	return data.Users, nil
}

func (r *Repo) GetUser(ctx context.Context, id int) (*models.User, error) {
	data, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range data.Users {
		if data.Users[i].ID == id {
			return &data.Users[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *Repo) AddProgram(ctx context.Context, program models.Program) error {
	return r.mutate(func(d *models.Dataset) error {
		d.Programs = append(d.Programs, program)
		return nil
	})
}

func (r *Repo) RemoveProgram(ctx context.Context, id int) error {
	return r.mutate(func(d *models.Dataset) error {
		for i := range d.Programs {
			if d.Programs[i].ID == id {
				d.Programs = append(d.Programs[:i], d.Programs[i+1:]...)
				return nil
			}
		}
		return apperrors.ErrNotFound
	})
}

func (r *Repo) UpdateProgram(ctx context.Context, id int, program models.Program) error {
	return r.mutate(func(d *models.Dataset) error {
		for i := range d.Programs {
			if d.Programs[i].ID == id {
				d.Programs[i] = program
				return nil
			}
		}
		return apperrors.ErrNotFound
	})
}

func (r *Repo) GetPrograms(ctx context.Context) ([]models.Program, error) {
	data, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range data.Programs {
		data.Programs[i].Courses = coursesByProgram(data, data.Programs[i].ID)
	}
	return data.Programs, nil
}

func (r *Repo) GetProgram(ctx context.Context, id int) (*models.Program, error) {
	data, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range data.Programs {
		if data.Programs[i].ID == id {
			data.Programs[i].Courses = coursesByProgram(data, id)
			return &data.Programs[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// coursesByProgram derives a program's course list from the top-level
// course collection, the same projection the relational backend makes.
func coursesByProgram(data *models.Dataset, programID int) []models.Course {
	var courses []models.Course
	for _, c := range data.Courses {
		if c.ProgramID != nil && *c.ProgramID == programID {
			courses = append(courses, c)
		}
	}
	return courses
}

func (r *Repo) AddCourse(ctx context.Context, course models.Course) error {
	return r.mutate(func(d *models.Dataset) error {
		d.Courses = append(d.Courses, course)
		return nil
	})
}

func (r *Repo) RemoveCourse(ctx context.Context, id int) error {
	return r.mutate(func(d *models.Dataset) error {
		for i := range d.Courses {
			if d.Courses[i].ID == id {
				d.Courses = append(d.Courses[:i], d.Courses[i+1:]...)
				return nil
			}
		}
		return apperrors.ErrNotFound
	})
}

func (r *Repo) UpdateCourse(ctx context.Context, id int, course models.Course) error {
	return r.mutate(func(d *models.Dataset) error {
		for i := range d.Courses {
			if d.Courses[i].ID == id {
				d.Courses[i] = course
				return nil
			}
		}
		return apperrors.ErrNotFound
	})
}

func (r *Repo) GetCourses(ctx context.Context) ([]models.Course, error) {
	data, err := r.load()
	if err != nil {
		return nil, err
	}
	return data.Courses, nil
}

func (r *Repo) GetCourse(ctx context.Context, id int) (*models.Course, error) {
	data, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range data.Courses {
		if data.Courses[i].ID == id {
			return &data.Courses[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *Repo) AddCourseCompletion(ctx context.Context, completion models.CourseCompletion) error {
	return r.mutate(func(d *models.Dataset) error {
		d.CourseCompletions = append(d.CourseCompletions, completion)
		return nil
	})
}

func (r *Repo) RemoveCourseCompletion(ctx context.Context, id int) error {
	return r.mutate(func(d *models.Dataset) error {
		for i := range d.CourseCompletions {
			if d.CourseCompletions[i].ID == id {
				d.CourseCompletions = append(d.CourseCompletions[:i], d.CourseCompletions[i+1:]...)
				return nil
			}
		}
		return apperrors.ErrNotFound
	})
}

func (r *Repo) UpdateCourseCompletion(ctx context.Context, id int, completion models.CourseCompletion) error {
	return r.mutate(func(d *models.Dataset) error {
		for i := range d.CourseCompletions {
			if d.CourseCompletions[i].ID == id {
				d.CourseCompletions[i] = completion
				return nil
			}
		}
		return apperrors.ErrNotFound
	})
}

func (r *Repo) GetCourseCompletions(ctx context.Context) ([]models.CourseCompletion, error) {
	data, err := r.load()
	if err != nil {
		return nil, err
	}
	return data.CourseCompletions, nil
}

func (r *Repo) GetCourseCompletion(ctx context.Context, id int) (*models.CourseCompletion, error) {
	data, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range data.CourseCompletions {
		if data.CourseCompletions[i].ID == id {
			return &data.CourseCompletions[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *Repo) AddProgramTracker(ctx context.Context, tracker models.ProgramTracker) error {
	return r.mutate(func(d *models.Dataset) error {
		d.ProgramTrackers = append(d.ProgramTrackers, tracker)
		return nil
	})
}

func (r *Repo) RemoveProgramTracker(ctx context.Context, userID int) error {
	return r.mutate(func(d *models.Dataset) error {
		for i := range d.ProgramTrackers {
			if d.ProgramTrackers[i].UserID == userID {
				d.ProgramTrackers = filterTrackers(d.ProgramTrackers, userID)
				return nil
			}
		}
		return apperrors.ErrNotFound
	})
}

func (r *Repo) UpdateProgramTracker(ctx context.Context, userID int, tracker models.ProgramTracker) error {
	return r.mutate(func(d *models.Dataset) error {
		for i := range d.ProgramTrackers {
			if d.ProgramTrackers[i].UserID == userID {
				d.ProgramTrackers[i] = tracker
				return nil
			}
		}
		return apperrors.ErrNotFound
	})
}

func (r *Repo) GetProgramTrackers(ctx context.Context) ([]models.ProgramTracker, error) {
	data, err := r.load()
	if err != nil {
		return nil, err
	}
	return data.ProgramTrackers, nil
}

func (r *Repo) GetProgramTracker(ctx context.Context, userID int) (*models.ProgramTracker, error) {
	data, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range data.ProgramTrackers {
		if data.ProgramTrackers[i].UserID == userID {
			return &data.ProgramTrackers[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *Repo) AddSetting(ctx context.Context, setting models.Setting) error {
	return r.mutate(func(d *models.Dataset) error {
		d.Settings = append(d.Settings, setting)
		return nil
	})
}

func (r *Repo) UpdateSetting(ctx context.Context, id int, value string) error {
	return r.mutate(func(d *models.Dataset) error {
		for i := range d.Settings {
			if d.Settings[i].ID == id {
				d.Settings[i].Value = value
				return nil
			}
		}
		return apperrors.ErrNotFound
	})
}

func (r *Repo) GetSettings(ctx context.Context) ([]models.Setting, error) {
	data, err := r.load()
	if err != nil {
		return nil, err
	}
	return data.Settings, nil
}

func (r *Repo) GetSetting(ctx context.Context, id int) (*models.Setting, error) {
	data, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range data.Settings {
		if data.Settings[i].ID == id {
			return &data.Settings[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *Repo) Login(ctx context.Context, username, email, password string) (*models.User, error) {
	data, err := r.load()
	if err != nil {
		return nil, err
	}
	if admin := repository.AdminLogin(data.Settings, username, password); admin != nil {
		return admin, nil
	}
	if user := repository.ScanUsers(data.Users, username, email, password); user != nil {
		return user, nil
	}
	return nil, apperrors.ErrInvalidCredentials
}

func (r *Repo) AddUsers(ctx context.Context, users []models.User) error {
	return r.mutate(func(d *models.Dataset) error {
		d.Users = append(d.Users, users...)
		return nil
	})
}

func (r *Repo) AddPrograms(ctx context.Context, programs []models.Program) error {
	return r.mutate(func(d *models.Dataset) error {
		d.Programs = append(d.Programs, programs...)
		return nil
	})
}

func (r *Repo) AddCourses(ctx context.Context, courses []models.Course) error {
	return r.mutate(func(d *models.Dataset) error {
		d.Courses = append(d.Courses, courses...)
		return nil
	})
}

func (r *Repo) AddCourseCompletions(ctx context.Context, completions []models.CourseCompletion) error {
	return r.mutate(func(d *models.Dataset) error {
		d.CourseCompletions = append(d.CourseCompletions, completions...)
		return nil
	})
}

func (r *Repo) AddProgramTrackers(ctx context.Context, trackers []models.ProgramTracker) error {
	return r.mutate(func(d *models.Dataset) error {
		d.ProgramTrackers = append(d.ProgramTrackers, trackers...)
		return nil
	})
}

// Close is a no-op; the file is opened per call.
func (r *Repo) Close() error { return nil }
