package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ajmalakeel/tuition-center-api/internal/dto"
	"github.com/ajmalakeel/tuition-center-api/internal/models"
	appErrors "github.com/ajmalakeel/tuition-center-api/pkg/errors"
)

type mockRoster struct {
	students []models.Student
	err      error
}

func (m *mockRoster) Roster(ctx context.Context) ([]models.Student, error) {
	return m.students, m.err
}

type mockAttendanceRepo struct {
	records map[string][]models.AttendanceRecord
	saved   []models.AttendanceRecord
	err     error
}

func (m *mockAttendanceRepo) ListByDate(ctx context.Context, date time.Time) ([]models.AttendanceRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.records[date.Format(models.DateLayout)], nil
}

func (m *mockAttendanceRepo) SaveSheet(ctx context.Context, records []models.AttendanceRecord) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, records...)
	if m.records == nil {
		m.records = make(map[string][]models.AttendanceRecord)
	}
	for _, r := range records {
		key := r.Date.Format(models.DateLayout)
		m.records[key] = append(m.records[key], r)
	}
	return nil
}

func newAttendanceFixture(t *testing.T) (*AttendanceService, *mockAttendanceRepo, time.Time) {
	t.Helper()
	roster := &mockRoster{students: []models.Student{
		{ID: "s1", Name: "Arun"},
		{ID: "s2", Name: "Bala"},
	}}
	repo := &mockAttendanceRepo{}
	svc := NewAttendanceService(roster, repo, validator.New(), nil, zap.NewNop())
	today := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return today.Add(9 * time.Hour) }
	return svc, repo, today
}

func TestAttendanceSheetDefaultsAbsent(t *testing.T) {
	svc, repo, today := newAttendanceFixture(t)
	repo.records = map[string][]models.AttendanceRecord{
		today.Format(models.DateLayout): {{StudentID: "s1", Date: today, Status: models.AttendancePresent}},
	}

	resp, err := svc.Sheet(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.True(t, resp.Sheet.Editable)
	require.Len(t, resp.Sheet.Entries, 2)
	assert.Equal(t, models.AttendancePresent, resp.Sheet.Entries[0].Status)
	assert.Equal(t, models.AttendanceAbsent, resp.Sheet.Entries[1].Status)
	assert.Equal(t, models.AttendanceStats{Present: 1, Absent: 1, Total: 2}, resp.Stats)
}

func TestAttendanceSheetPastReadOnly(t *testing.T) {
	svc, _, today := newAttendanceFixture(t)

	resp, err := svc.Sheet(context.Background(), today.AddDate(0, 0, -3))
	require.NoError(t, err)
	assert.False(t, resp.Sheet.Editable)
}

func TestAttendanceSheetFutureRejected(t *testing.T) {
	svc, _, today := newAttendanceFixture(t)

	_, err := svc.Sheet(context.Background(), today.AddDate(0, 0, 1))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAttendanceSaveToday(t *testing.T) {
	svc, repo, today := newAttendanceFixture(t)

	resp, err := svc.Save(context.Background(), today, dto.SaveAttendanceRequest{
		Entries: []dto.SaveAttendanceEntry{
			{StudentID: "s1", Status: "present"},
			{StudentID: "s2", Status: "absent"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, repo.saved, 2)
	assert.Equal(t, models.AttendanceStats{Present: 1, Absent: 1, Total: 2}, resp.Stats)
}

func TestAttendanceSaveRejectsOtherDates(t *testing.T) {
	svc, repo, today := newAttendanceFixture(t)

	_, err := svc.Save(context.Background(), today.AddDate(0, 0, -1), dto.SaveAttendanceRequest{
		Entries: []dto.SaveAttendanceEntry{{StudentID: "s1", Status: "present"}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.saved)
}

func TestAttendanceSaveRejectsUnknownStatus(t *testing.T) {
	svc, repo, today := newAttendanceFixture(t)

	_, err := svc.Save(context.Background(), today, dto.SaveAttendanceRequest{
		Entries: []dto.SaveAttendanceEntry{{StudentID: "s1", Status: "late"}},
	})
	require.Error(t, err)
	assert.Empty(t, repo.saved)
}

func TestAttendanceSaveEmptySheet(t *testing.T) {
	svc, repo, today := newAttendanceFixture(t)

	resp, err := svc.Save(context.Background(), today, dto.SaveAttendanceRequest{})
	require.NoError(t, err)
	assert.Empty(t, repo.saved)
	assert.Equal(t, 2, resp.Stats.Total)
	assert.Equal(t, 0, resp.Stats.Present)
}
