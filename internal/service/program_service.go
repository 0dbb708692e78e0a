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

// ProgramService manages academic programs.
type ProgramService struct {
	repo      repository.Repo
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProgramService constructs a ProgramService instance.
func NewProgramService(repo repository.Repo, validate *validator.Validate, logger *zap.Logger) *ProgramService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramService{repo: repo, validator: validate, logger: logger}
}

// CreateProgramRequest carries the fields for a new program.
type CreateProgramRequest struct {
	Title       string `validate:"required,max=255"`
	Code        string `validate:"required,max=255"`
	Description string `validate:"max=255"`
}

// Create registers a new program. Code and title must be unique across
// all programs regardless of status; collisions are rejected and nothing
// is inserted.
func (s *ProgramService) Create(ctx context.Context, req CreateProgramRequest) (*models.Program, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrValidation.Code, "invalid program payload")
	}

	programs, err := s.repo.GetPrograms(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range programs {
		if strings.EqualFold(p.Code, req.Code) {
			return nil, apperrors.Clone(apperrors.ErrConflict, "a program with this code already exists")
		}
		if strings.EqualFold(p.Title, req.Title) {
			return nil, apperrors.Clone(apperrors.ErrConflict, "a program with this title already exists")
		}
	}

	program := models.Program{
		ID:          identity.NextID(programs, func(p models.Program) int { return p.ID }),
		Title:       req.Title,
		Code:        req.Code,
		Description: req.Description,
		Courses:     []models.Course{},
		Status:      models.ProgramActive,
	}
	if err := s.repo.AddProgram(ctx, program); err != nil {
		return nil, err
	}
	s.logger.Info("program created", zap.Int("id", program.ID), zap.String("code", program.Code))
	return &program, nil
}

// SetStatus applies a lifecycle transition to a program.
func (s *ProgramService) SetStatus(ctx context.Context, id int, status models.ProgramStatus) error {
	program, err := s.repo.GetProgram(ctx, id)
	if err != nil {
		return err
	}
	updated := *program
	updated.Status = status
	return s.repo.UpdateProgram(ctx, id, updated)
}

// HardDelete removes a program permanently.
func (s *ProgramService) HardDelete(ctx context.Context, id int) error {
	if err := s.repo.RemoveProgram(ctx, id); err != nil {
		return err
	}
	s.logger.Info("program hard-deleted", zap.Int("id", id))
	return nil
}
