package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ajmalakeel/tuition-center-api/internal/models"
	appErrors "github.com/ajmalakeel/tuition-center-api/pkg/errors"
)

type mockFeeRepo struct {
	fees map[string]models.FeeDetail
	err  error
}

func (m *mockFeeRepo) List(ctx context.Context) ([]models.FeeDetail, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.FeeDetail, 0, len(m.fees))
	for _, f := range m.fees {
		out = append(out, f)
	}
	return out, nil
}

func (m *mockFeeRepo) FindByID(ctx context.Context, id string) (*models.FeeDetail, error) {
	if f, ok := m.fees[id]; ok {
		return &f, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockFeeRepo) Create(ctx context.Context, fee *models.Fee) error {
	if m.err != nil {
		return m.err
	}
	if m.fees == nil {
		m.fees = make(map[string]models.FeeDetail)
	}
	if fee.ID == "" {
		fee.ID = "generated"
	}
	fee.Status = models.FeeNotPaid
	m.fees[fee.ID] = models.FeeDetail{Fee: *fee}
	return nil
}

func (m *mockFeeRepo) MarkPaid(ctx context.Context, id string, paidAt time.Time) (bool, error) {
	f, ok := m.fees[id]
	if !ok || f.Status == models.FeePaid {
		return false, nil
	}
	f.Status = models.FeePaid
	f.PaidDate = &paidAt
	m.fees[id] = f
	return true, nil
}

func newFeeFixture(repo *mockFeeRepo, students *mockStudentRepo) *FeeService {
	reminder := ReminderConfig{CenterName: "Ajmal Akeel Tuition Center", CenterNameTamil: "அஜ்மல் அகீல் டியூஷன் சென்டர்"}
	return NewFeeService(repo, students, validator.New(), nil, reminder, zap.NewNop())
}

func TestFeeServiceListPartitionsAndTotals(t *testing.T) {
	paidAt := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	repo := &mockFeeRepo{fees: map[string]models.FeeDetail{
		"f1": {Fee: models.Fee{ID: "f1", AmountPaise: 50000, Status: models.FeeNotPaid}},
		"f2": {Fee: models.Fee{ID: "f2", AmountPaise: 75050, Status: models.FeePaid, PaidDate: &paidAt}},
		"f3": {Fee: models.Fee{ID: "f3", AmountPaise: 30000, Status: models.FeeNotPaid}},
	}}
	svc := newFeeFixture(repo, &mockStudentRepo{})

	resp, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, resp.Book.Unpaid, 2)
	assert.Len(t, resp.Book.Paid, 1)
	assert.Equal(t, int64(80000), resp.Totals.PendingPaise)
	assert.Equal(t, int64(75050), resp.Totals.CollectedPaise)
	assert.Equal(t, resp.Totals.PendingPaise+resp.Totals.CollectedPaise, resp.Totals.TotalPaise)
}

func TestFeeServiceAdd(t *testing.T) {
	repo := &mockFeeRepo{}
	students := &mockStudentRepo{students: map[string]models.Student{"s1": {ID: "s1", Name: "Arun"}}}
	svc := newFeeFixture(repo, students)

	fee, err := svc.Add(context.Background(), AddFeeRequest{StudentID: "s1", Amount: "500.50", DueDate: "2026-03-01"})
	require.NoError(t, err)
	assert.Equal(t, int64(50050), fee.AmountPaise)
	assert.Equal(t, models.FeeNotPaid, fee.Status)
}

func TestFeeServiceAddZeroAmount(t *testing.T) {
	students := &mockStudentRepo{students: map[string]models.Student{"s1": {ID: "s1"}}}
	svc := newFeeFixture(&mockFeeRepo{}, students)

	fee, err := svc.Add(context.Background(), AddFeeRequest{StudentID: "s1", Amount: "0", DueDate: "2026-03-01"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), fee.AmountPaise)
}

func TestFeeServiceAddRejectsBadAmounts(t *testing.T) {
	students := &mockStudentRepo{students: map[string]models.Student{"s1": {ID: "s1"}}}
	svc := newFeeFixture(&mockFeeRepo{}, students)

	for _, amount := range []string{"-500", "-0.01", "abc", "1.2.3", "5.001", ""} {
		_, err := svc.Add(context.Background(), AddFeeRequest{StudentID: "s1", Amount: amount, DueDate: "2026-03-01"})
		require.Error(t, err, "amount %q", amount)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
}

func TestFeeServiceAddUnknownStudent(t *testing.T) {
	svc := newFeeFixture(&mockFeeRepo{}, &mockStudentRepo{})

	_, err := svc.Add(context.Background(), AddFeeRequest{StudentID: "ghost", Amount: "100", DueDate: "2026-03-01"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestFeeServiceMarkPaid(t *testing.T) {
	repo := &mockFeeRepo{fees: map[string]models.FeeDetail{
		"f1": {Fee: models.Fee{ID: "f1", AmountPaise: 50000, Status: models.FeeNotPaid}},
	}}
	svc := newFeeFixture(repo, &mockStudentRepo{})

	fee, err := svc.MarkPaid(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, models.FeePaid, fee.Status)
	require.NotNil(t, fee.PaidDate)
}

func TestFeeServiceMarkPaidTwiceConflicts(t *testing.T) {
	repo := &mockFeeRepo{fees: map[string]models.FeeDetail{
		"f1": {Fee: models.Fee{ID: "f1", AmountPaise: 50000, Status: models.FeeNotPaid}},
	}}
	svc := newFeeFixture(repo, &mockStudentRepo{})

	_, err := svc.MarkPaid(context.Background(), "f1")
	require.NoError(t, err)

	_, err = svc.MarkPaid(context.Background(), "f1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestFeeServiceReminder(t *testing.T) {
	repo := &mockFeeRepo{fees: map[string]models.FeeDetail{
		"f1": {
			Fee: models.Fee{
				ID:          "f1",
				AmountPaise: 150000,
				DueDate:     time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC),
				Status:      models.FeeNotPaid,
			},
			StudentName:   "Arun Kumar",
			GuardianName:  "Kumar",
			GuardianPhone: "+91 98765-43210",
		},
	}}
	svc := newFeeFixture(repo, &mockStudentRepo{})

	reminder, err := svc.Reminder(context.Background(), "f1")
	require.NoError(t, err)
	assert.Contains(t, reminder.Message, "Dear Kumar")
	assert.Contains(t, reminder.Message, "Arun Kumar's tuition fee of ₹1500 is due on 05/03/2026")
	assert.Contains(t, reminder.Message, "Ajmal Akeel Tuition Center")
	assert.Contains(t, reminder.Message, "அன்புள்ள Kumar")
	assert.Contains(t, reminder.Message, "அஜ்மல் அகீல் டியூஷன் சென்டர்")
	assert.True(t, strings.HasPrefix(reminder.WhatsAppURL, "https://wa.me/919876543210?text="))
}

func TestFeeServiceExportCSV(t *testing.T) {
	repo := &mockFeeRepo{fees: map[string]models.FeeDetail{
		"f1": {
			Fee:         models.Fee{ID: "f1", AmountPaise: 50000, DueDate: time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC), Status: models.FeeNotPaid},
			StudentName: "Arun Kumar",
		},
	}}
	svc := newFeeFixture(repo, &mockStudentRepo{})

	data, contentType, err := svc.Export(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, string(data), "Arun Kumar")
	assert.Contains(t, string(data), "₹500")
}

func TestFeeServiceExportUnknownFormat(t *testing.T) {
	svc := newFeeFixture(&mockFeeRepo{}, &mockStudentRepo{})

	_, _, err := svc.Export(context.Background(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestParseAmountPaise(t *testing.T) {
	cases := map[string]int64{
		"500":    50000,
		"500.5":  50050,
		"500.50": 50050,
		"0":      0,
		"0.01":   1,
	}
	for raw, want := range cases {
		got, err := parseAmountPaise(raw)
		require.NoError(t, err, "amount %q", raw)
		assert.Equal(t, want, got, "amount %q", raw)
	}
}
