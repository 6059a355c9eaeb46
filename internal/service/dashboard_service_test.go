package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockCounts struct {
	students int
	present  int
	unpaid   int
	remarks  int

	studentsErr error
	presentErr  error
	unpaidErr   error
	remarksErr  error

	presentDate time.Time
}

func (m *mockCounts) Count(ctx context.Context) (int, error) {
	return m.students, m.studentsErr
}

func (m *mockCounts) CountPresent(ctx context.Context, date time.Time) (int, error) {
	m.presentDate = date
	return m.present, m.presentErr
}

func (m *mockCounts) CountUnpaid(ctx context.Context) (int, error) {
	return m.unpaid, m.unpaidErr
}

type mockRemarkCounter struct {
	count int
	err   error
}

func (m *mockRemarkCounter) Count(ctx context.Context) (int, error) {
	return m.count, m.err
}

func TestDashboardOverview(t *testing.T) {
	counts := &mockCounts{students: 42, present: 30, unpaid: 7}
	remarks := &mockRemarkCounter{count: 19}
	svc := NewDashboardService(counts, counts, counts, remarks, nil, zap.NewNop())
	today := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return today.Add(14 * time.Hour) }

	overview, cached, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 42, overview.TotalStudents)
	assert.Equal(t, 30, overview.PresentToday)
	assert.Equal(t, 7, overview.UnpaidFees)
	assert.Equal(t, 19, overview.TotalRemarks)
	assert.Equal(t, today, counts.presentDate)
}

func TestDashboardOverviewAllOrNothing(t *testing.T) {
	counts := &mockCounts{students: 42, unpaidErr: assert.AnError}
	svc := NewDashboardService(counts, counts, counts, &mockRemarkCounter{}, nil, zap.NewNop())

	overview, _, err := svc.Overview(context.Background())
	require.Error(t, err)
	assert.Nil(t, overview)
}
