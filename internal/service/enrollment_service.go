package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/studentbook/studentbook/internal/identity"
	"github.com/studentbook/studentbook/internal/models"
	"github.com/studentbook/studentbook/internal/repository"
	apperrors "github.com/studentbook/studentbook/pkg/errors"
)

// EnrollmentService drives learner enrollment and progress recording.
type EnrollmentService struct {
	repo   repository.Repo
	logger *zap.Logger
}

// NewEnrollmentService constructs an EnrollmentService instance.
func NewEnrollmentService(repo repository.Repo, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, logger: logger}
}

// Enroll places a learner in a program: one NotStarted completion per
// program course with the course's instructor copied in, and a program
// progress entry on the learner's tracker. The tracker is created on the
// learner's first enrollment. The steps are not atomic across entities;
// a failure between them leaves partial state.
func (s *EnrollmentService) Enroll(ctx context.Context, learnerID, programID int) error {
	learner, err := s.repo.GetUser(ctx, learnerID)
	if err != nil {
		return err
	}
	if learner.Role != models.RoleLearner {
		return apperrors.Clone(apperrors.ErrValidation, "only learners can be enrolled in a program")
	}

	program, err := s.repo.GetProgram(ctx, programID)
	if err != nil {
		return err
	}

	all, err := s.repo.GetCourseCompletions(ctx)
	if err != nil {
		return err
	}

	completions := make([]models.CourseCompletion, 0, len(program.Courses))
	for _, course := range program.Courses {
		completion := models.CourseCompletion{
			ID:           identity.NextID(all, func(c models.CourseCompletion) int { return c.ID }),
			UserID:       learner.ID,
			CourseID:     course.ID,
			InstructorID: course.InstructorID,
			Status:       models.StatusNotStarted,
		}
		completions = append(completions, completion)
		all = append(all, completion)
	}

	progress := models.ProgramProgress{
		ProgramID: program.ID,
		Status:    models.StatusInProgress,
	}

	tracker, err := s.repo.GetProgramTracker(ctx, learner.ID)
	switch {
	case err == nil:
		progress.ID = identity.NextID(tracker.Programs, func(p models.ProgramProgress) int { return p.ID })
		updated := *tracker
		updated.Programs = append(updated.Programs, progress)
		updated.Courses = append(updated.Courses, completions...)
		if err := s.repo.UpdateProgramTracker(ctx, learner.ID, updated); err != nil {
			return err
		}
	case errors.Is(err, apperrors.ErrNotFound):
		trackers, err := s.repo.GetProgramTrackers(ctx)
		if err != nil {
			return err
		}
		fresh := models.ProgramTracker{
			ID:       identity.NextID(trackers, func(t models.ProgramTracker) int { return t.ID }),
			UserID:   learner.ID,
			Programs: []models.ProgramProgress{progress},
			Courses:  completions,
		}
		if err := s.repo.AddProgramTracker(ctx, fresh); err != nil {
			return err
		}
	default:
		return err
	}

	if err := s.repo.AddCourseCompletions(ctx, completions); err != nil {
		return err
	}

	s.logger.Info("learner enrolled",
		zap.Int("learner_id", learner.ID),
		zap.Int("program_id", program.ID),
		zap.Int("courses", len(completions)))
	return nil
}

// RecordGrade sets the grade for a completion and, when the grade closes
// the course, marks it completed with a completion date.
func (s *EnrollmentService) RecordGrade(ctx context.Context, completionID int, grade float64, completed bool) error {
	completion, err := s.repo.GetCourseCompletion(ctx, completionID)
	if err != nil {
		return err
	}
	updated := *completion
	updated.Grade = &grade
	if completed {
		now := time.Now().UTC()
		updated.Status = models.StatusCompleted
		updated.DateCompleted = &now
	} else {
		updated.Status = models.StatusInProgress
	}
	return s.repo.UpdateCourseCompletion(ctx, completionID, updated)
}

// SetCourseStatus transitions a completion without touching the grade.
func (s *EnrollmentService) SetCourseStatus(ctx context.Context, completionID int, status models.CompletionStatus) error {
	completion, err := s.repo.GetCourseCompletion(ctx, completionID)
	if err != nil {
		return err
	}
	updated := *completion
	updated.Status = status
	if status == models.StatusCompleted && updated.DateCompleted == nil {
		now := time.Now().UTC()
		updated.DateCompleted = &now
	}
	return s.repo.UpdateCourseCompletion(ctx, completionID, updated)
}

// CompleteProgram marks the learner's progress entry for a program as
// completed.
func (s *EnrollmentService) CompleteProgram(ctx context.Context, learnerID, programID int) error {
	tracker, err := s.repo.GetProgramTracker(ctx, learnerID)
	if err != nil {
		return err
	}
	updated := *tracker
	found := false
	now := time.Now().UTC()
	for i := range updated.Programs {
		if updated.Programs[i].ProgramID == programID {
			updated.Programs[i].Status = models.StatusCompleted
			updated.Programs[i].DateCompleted = &now
			found = true
		}
	}
	if !found {
		return apperrors.Clone(apperrors.ErrNotFound, "learner is not enrolled in this program")
	}
	return s.repo.UpdateProgramTracker(ctx, learnerID, updated)
}
