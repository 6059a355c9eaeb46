package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ajmalakeel/tuition-center-api/internal/dto"
	"github.com/ajmalakeel/tuition-center-api/internal/models"
	appErrors "github.com/ajmalakeel/tuition-center-api/pkg/errors"
)

// leaderboardSize caps the most-remarked list shown on the remarks
// page.
const leaderboardSize = 6

type remarkRepository interface {
	List(ctx context.Context) ([]models.RemarkDetail, error)
	Create(ctx context.Context, remark *models.Remark) error
	CountByStudent(ctx context.Context) ([]models.RemarkCount, error)
}

// AddRemarkRequest holds the remark form payload.
type AddRemarkRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Body      string `json:"body" validate:"required"`
}

// RemarkService manages the append-only remark log and its
// leaderboard.
type RemarkService struct {
	repo      remarkRepository
	students  studentFinder
	validator *validator.Validate
	cache     *CacheService
	logger    *zap.Logger
}

// NewRemarkService constructs the remark service.
func NewRemarkService(repo remarkRepository, students studentFinder, validate *validator.Validate, cache *CacheService, logger *zap.Logger) *RemarkService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemarkService{repo: repo, students: students, validator: validate, cache: cache, logger: logger}
}

// List returns every remark newest-first along with the leaderboard of
// most-remarked students. The tallies come back from the store
// unordered; ranking happens here.
func (s *RemarkService) List(ctx context.Context) (*dto.RemarkListResponse, error) {
	remarks, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list remarks")
	}
	counts, err := s.repo.CountByStudent(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count remarks")
	}
	return &dto.RemarkListResponse{
		Remarks:     remarks,
		Leaderboard: models.RankRemarks(counts, leaderboardSize),
	}, nil
}

// Add appends a remark to a student's log.
func (s *RemarkService) Add(ctx context.Context, req AddRemarkRequest) (*models.Remark, error) {
	req.Body = strings.TrimSpace(req.Body)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "student and remark text are required")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	remark := &models.Remark{StudentID: req.StudentID, Body: req.Body}
	if err := s.repo.Create(ctx, remark); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create remark")
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, DashboardCachePattern); err != nil {
			s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
		}
	}
	return remark, nil
}
