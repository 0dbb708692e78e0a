package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/studentbook/studentbook/internal/identity"
	"github.com/studentbook/studentbook/internal/models"
	"github.com/studentbook/studentbook/internal/repository"
	apperrors "github.com/studentbook/studentbook/pkg/errors"
)

// CourseService manages courses and their instructor assignments.
type CourseService struct {
	repo      repository.Repo
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs a CourseService instance.
func NewCourseService(repo repository.Repo, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, validator: validate, logger: logger}
}

// CreateCourseRequest carries the fields for a new course.
type CreateCourseRequest struct {
	Title           string `validate:"required,max=255"`
	Code            string `validate:"required,max=255"`
	Description     string `validate:"max=255"`
	InstructorID    int    `validate:"required"`
	DurationInHours int    `validate:"required,gt=0"`
	Year            int
	Term            int
	Type            models.CourseType
	Units           int
	ProgramID       *int
}

// Create registers a new course. The (code, title) pair must be unique
// within the repository.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrValidation.Code, "invalid course payload")
	}

	courses, err := s.repo.GetCourses(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range courses {
		if strings.EqualFold(c.Code, req.Code) && strings.EqualFold(c.Title, req.Title) {
			return nil, apperrors.Clone(apperrors.ErrConflict, "a course with this code and title already exists")
		}
	}

	courseType := req.Type
	if courseType == "" {
		courseType = models.CourseLecture
	}

	course := models.Course{
		ID:              identity.NextID(courses, func(c models.Course) int { return c.ID }),
		Title:           req.Title,
		Code:            req.Code,
		Description:     req.Description,
		InstructorID:    req.InstructorID,
		DurationInHours: req.DurationInHours,
		Year:            req.Year,
		Term:            req.Term,
		Type:            courseType,
		Units:           req.Units,
		ProgramID:       req.ProgramID,
	}
	if err := s.repo.AddCourse(ctx, course); err != nil {
		return nil, err
	}
	s.logger.Info("course created", zap.Int("id", course.ID), zap.String("code", course.Code))
	return &course, nil
}

// Reassign changes the instructor for a course.
func (s *CourseService) Reassign(ctx context.Context, id, instructorID int) error {
	course, err := s.repo.GetCourse(ctx, id)
	if err != nil {
		return err
	}
	updated := *course
	updated.InstructorID = instructorID
	return s.repo.UpdateCourse(ctx, id, updated)
}

// HardDelete removes a course permanently.
func (s *CourseService) HardDelete(ctx context.Context, id int) error {
	if err := s.repo.RemoveCourse(ctx, id); err != nil {
		return err
	}
	s.logger.Info("course hard-deleted", zap.Int("id", id))
	return nil
}
