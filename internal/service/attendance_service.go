package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ajmalakeel/tuition-center-api/internal/dto"
	"github.com/ajmalakeel/tuition-center-api/internal/models"
	appErrors "github.com/ajmalakeel/tuition-center-api/pkg/errors"
)

type attendanceRepository interface {
	ListByDate(ctx context.Context, date time.Time) ([]models.AttendanceRecord, error)
	SaveSheet(ctx context.Context, records []models.AttendanceRecord) error
}

type rosterProvider interface {
	Roster(ctx context.Context) ([]models.Student, error)
}

// AttendanceService builds daily attendance sheets and persists
// batch saves. Only today's sheet is editable; past dates are served
// read-only and future dates are rejected.
type AttendanceService struct {
	students  rosterProvider
	repo      attendanceRepository
	validator *validator.Validate
	cache     *CacheService
	logger    *zap.Logger
	now       func() time.Time
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(students rosterProvider, repo attendanceRepository, validate *validator.Validate, cache *CacheService, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		students:  students,
		repo:      repo,
		validator: validate,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *AttendanceService) today() time.Time {
	return normalizeDate(s.now())
}

func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Sheet returns the attendance sheet for the given date. A zero date
// means today. Students without a stored record default to absent.
func (s *AttendanceService) Sheet(ctx context.Context, date time.Time) (*dto.AttendanceSheetResponse, error) {
	today := s.today()
	if date.IsZero() {
		date = today
	} else {
		date = normalizeDate(date)
	}
	if date.After(today) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "attendance date cannot be in the future")
	}

	students, err := s.students.Roster(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}

	sheet := models.BuildAttendanceSheet(date, date.Equal(today), students, records)
	return &dto.AttendanceSheetResponse{Sheet: sheet, Stats: sheet.Stats()}, nil
}

// Save persists a full sheet for today. Each submitted entry
// overwrites any record already stored for that student and date.
// Saving for any other date is rejected.
func (s *AttendanceService) Save(ctx context.Context, date time.Time, req dto.SaveAttendanceRequest) (*dto.AttendanceSheetResponse, error) {
	today := s.today()
	if date.IsZero() {
		date = today
	} else {
		date = normalizeDate(date)
	}
	if !date.Equal(today) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "attendance can only be saved for today")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	records := make([]models.AttendanceRecord, 0, len(req.Entries))
	for _, entry := range req.Entries {
		if !entry.Status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid attendance status: "+string(entry.Status))
		}
		records = append(records, models.AttendanceRecord{
			StudentID: entry.StudentID,
			Date:      date,
			Status:    entry.Status,
		})
	}
	if err := s.repo.SaveSheet(ctx, records); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save attendance")
	}
	s.logger.Info("attendance saved", zap.String("date", date.Format(models.DateLayout)), zap.Int("entries", len(records)))
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, DashboardCachePattern); err != nil {
			s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
		}
	}
	return s.Sheet(ctx, date)
}
