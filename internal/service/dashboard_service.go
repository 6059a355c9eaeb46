package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ajmalakeel/tuition-center-api/internal/dto"
	"github.com/ajmalakeel/tuition-center-api/internal/models"
	appErrors "github.com/ajmalakeel/tuition-center-api/pkg/errors"
)

// DashboardCachePattern matches every cached dashboard overview. Any
// write that moves a dashboard number invalidates with this pattern.
const DashboardCachePattern = "dashboard:*"

type studentCounter interface {
	Count(ctx context.Context) (int, error)
}

type presenceCounter interface {
	CountPresent(ctx context.Context, date time.Time) (int, error)
}

type unpaidCounter interface {
	CountUnpaid(ctx context.Context) (int, error)
}

type remarkCounter interface {
	Count(ctx context.Context) (int, error)
}

// DashboardService assembles the overview counts. The four counts are
// fetched concurrently and the overview is all-or-nothing: one failed
// count fails the whole request rather than serving a partial mix of
// stale and fresh numbers.
type DashboardService struct {
	students   studentCounter
	attendance presenceCounter
	fees       unpaidCounter
	remarks    remarkCounter
	cache      *CacheService
	logger     *zap.Logger
	now        func() time.Time
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(students studentCounter, attendance presenceCounter, fees unpaidCounter, remarks remarkCounter, cache *CacheService, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		students:   students,
		attendance: attendance,
		fees:       fees,
		remarks:    remarks,
		cache:      cache,
		logger:     logger,
		now:        time.Now,
	}
}

// Overview returns the four dashboard counts. The second return value
// reports whether the overview came from cache.
func (s *DashboardService) Overview(ctx context.Context) (*dto.DashboardOverview, bool, error) {
	today := normalizeDate(s.now())
	cacheKey := "dashboard:overview:" + today.Format(models.DateLayout)

	if s.cache != nil && s.cache.Enabled() {
		var cached dto.DashboardOverview
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	var (
		overview dto.DashboardOverview
		errs     [4]error
		wg       sync.WaitGroup
	)
	wg.Add(4)
	go func() {
		defer wg.Done()
		overview.TotalStudents, errs[0] = s.students.Count(ctx)
	}()
	go func() {
		defer wg.Done()
		overview.PresentToday, errs[1] = s.attendance.CountPresent(ctx, today)
	}()
	go func() {
		defer wg.Done()
		overview.UnpaidFees, errs[2] = s.fees.CountUnpaid(ctx)
	}()
	go func() {
		defer wg.Done()
		overview.TotalRemarks, errs[3] = s.remarks.Count(ctx)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dashboard overview")
		}
	}

	if s.cache != nil && s.cache.Enabled() {
		if err := s.cache.Set(ctx, cacheKey, overview, 0); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return &overview, false, nil
}
