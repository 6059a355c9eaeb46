package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ajmalakeel/tuition-center-api/internal/models"
	"github.com/ajmalakeel/tuition-center-api/internal/service"
)

var fixedToday = time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

type studentStore struct {
	students map[string]models.Student
	deleted  []string
}

func (s *studentStore) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	out := make([]models.Student, 0, len(s.students))
	for _, st := range s.students {
		out = append(out, st)
	}
	return out, len(out), nil
}

func (s *studentStore) Roster(ctx context.Context) ([]models.Student, error) {
	out := make([]models.Student, 0, len(s.students))
	for _, st := range s.students {
		out = append(out, st)
	}
	return out, nil
}

func (s *studentStore) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if st, ok := s.students[id]; ok {
		return &st, nil
	}
	return nil, sql.ErrNoRows
}

func (s *studentStore) Create(ctx context.Context, student *models.Student) error {
	if s.students == nil {
		s.students = make(map[string]models.Student)
	}
	if student.ID == "" {
		student.ID = "new-student"
	}
	s.students[student.ID] = *student
	return nil
}

func (s *studentStore) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	delete(s.students, id)
	return nil
}

type attendanceStore struct {
	saved []models.AttendanceRecord
}

func (s *attendanceStore) ListByDate(ctx context.Context, date time.Time) ([]models.AttendanceRecord, error) {
	return nil, nil
}

func (s *attendanceStore) SaveSheet(ctx context.Context, records []models.AttendanceRecord) error {
	s.saved = append(s.saved, records...)
	return nil
}

type feeStore struct {
	fees map[string]models.FeeDetail
}

func (s *feeStore) List(ctx context.Context) ([]models.FeeDetail, error) {
	out := make([]models.FeeDetail, 0, len(s.fees))
	for _, f := range s.fees {
		out = append(out, f)
	}
	return out, nil
}

func (s *feeStore) FindByID(ctx context.Context, id string) (*models.FeeDetail, error) {
	if f, ok := s.fees[id]; ok {
		return &f, nil
	}
	return nil, sql.ErrNoRows
}

func (s *feeStore) Create(ctx context.Context, fee *models.Fee) error {
	if s.fees == nil {
		s.fees = make(map[string]models.FeeDetail)
	}
	if fee.ID == "" {
		fee.ID = "new-fee"
	}
	fee.Status = models.FeeNotPaid
	s.fees[fee.ID] = models.FeeDetail{Fee: *fee}
	return nil
}

func (s *feeStore) MarkPaid(ctx context.Context, id string, paidAt time.Time) (bool, error) {
	f, ok := s.fees[id]
	if !ok || f.Status == models.FeePaid {
		return false, nil
	}
	f.Status = models.FeePaid
	f.PaidDate = &paidAt
	s.fees[id] = f
	return true, nil
}

type remarkStore struct {
	remarks []models.RemarkDetail
	counts  []models.RemarkCount
}

func (s *remarkStore) List(ctx context.Context) ([]models.RemarkDetail, error) {
	return s.remarks, nil
}

func (s *remarkStore) Create(ctx context.Context, remark *models.Remark) error {
	if remark.ID == "" {
		remark.ID = "new-remark"
	}
	s.remarks = append(s.remarks, models.RemarkDetail{Remark: *remark})
	return nil
}

func (s *remarkStore) CountByStudent(ctx context.Context) ([]models.RemarkCount, error) {
	return s.counts, nil
}

type fixture struct {
	router   *gin.Engine
	students *studentStore
	fees     *feeStore
}

func buildTestRouter(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	students := &studentStore{students: map[string]models.Student{
		"s1": {ID: "s1", Name: "Arun Kumar", GuardianName: "Kumar", GuardianPhone: "+91 98765 43210", Address: "12 Beach Road"},
	}}
	fees := &feeStore{fees: map[string]models.FeeDetail{
		"f1": {
			Fee:           models.Fee{ID: "f1", StudentID: "s1", AmountPaise: 150000, DueDate: fixedToday.AddDate(0, 0, 5), Status: models.FeeNotPaid},
			StudentName:   "Arun Kumar",
			GuardianName:  "Kumar",
			GuardianPhone: "+91 98765 43210",
		},
	}}
	remarks := &remarkStore{counts: []models.RemarkCount{{StudentID: "s1", StudentName: "Arun Kumar", Count: 2}}}

	validate := validator.New()
	logger := zap.NewNop()
	reminder := service.ReminderConfig{CenterName: "Ajmal Akeel Tuition Center", CenterNameTamil: "அஜ்மல் அகீல் டியூஷன் சென்டர்"}

	studentSvc := service.NewStudentService(students, validate, nil, logger)
	attendanceSvc := service.NewAttendanceService(students, &attendanceStore{}, validate, nil, logger)
	feeSvc := service.NewFeeService(fees, students, validate, nil, reminder, logger)
	remarkSvc := service.NewRemarkService(remarks, students, validate, nil, logger)

	router := gin.New()
	studentHandler := NewStudentHandler(studentSvc)
	attendanceHandler := NewAttendanceHandler(attendanceSvc)
	feeHandler := NewFeeHandler(feeSvc)
	remarkHandler := NewRemarkHandler(remarkSvc)

	router.GET("/students", studentHandler.List)
	router.POST("/students", studentHandler.Create)
	router.GET("/students/:id", studentHandler.Get)
	router.DELETE("/students/:id", studentHandler.Delete)
	router.GET("/attendance", attendanceHandler.Sheet)
	router.PUT("/attendance", attendanceHandler.Save)
	router.GET("/fees", feeHandler.List)
	router.POST("/fees", feeHandler.Add)
	router.POST("/fees/:id/pay", feeHandler.MarkPaid)
	router.GET("/fees/:id/reminder", feeHandler.Reminder)
	router.GET("/fees/export", feeHandler.Export)
	router.GET("/remarks", remarkHandler.List)
	router.POST("/remarks", remarkHandler.Add)

	return &fixture{router: router, students: students, fees: fees}
}

func performRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestStudentRoutes(t *testing.T) {
	fx := buildTestRouter(t)

	t.Run("list", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/students", nil)
		resp := performRequest(fx.router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), "Arun Kumar")
	})

	t.Run("create", func(t *testing.T) {
		payload := `{"name":"Bala","guardian_name":"Raj","guardian_phone":"9876501234","address":"4 Hill St"}`
		req, _ := http.NewRequest(http.MethodPost, "/students", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(fx.router, req)
		require.Equal(t, http.StatusCreated, resp.Code)
	})

	t.Run("create missing field", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, "/students", bytes.NewBufferString(`{"name":"Only Name"}`))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(fx.router, req)
		require.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("get missing", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/students/ghost", nil)
		resp := performRequest(fx.router, req)
		require.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("delete", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodDelete, "/students/s1", nil)
		resp := performRequest(fx.router, req)
		require.Equal(t, http.StatusNoContent, resp.Code)
		assert.Contains(t, fx.students.deleted, "s1")
	})
}

func TestAttendanceRoutes(t *testing.T) {
	fx := buildTestRouter(t)

	t.Run("sheet defaults to today", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/attendance", nil)
		resp := performRequest(fx.router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `"absent"`)
	})

	t.Run("sheet bad date", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/attendance?date=tomorrow", nil)
		resp := performRequest(fx.router, req)
		require.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("save past date rejected", func(t *testing.T) {
		payload := `{"entries":[{"student_id":"s1","status":"present"}]}`
		req, _ := http.NewRequest(http.MethodPut, "/attendance?date=2020-01-01", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(fx.router, req)
		require.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("save today", func(t *testing.T) {
		payload := `{"entries":[{"student_id":"s1","status":"present"}]}`
		req, _ := http.NewRequest(http.MethodPut, "/attendance", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(fx.router, req)
		require.Equal(t, http.StatusOK, resp.Code)
	})
}

func TestFeeRoutes(t *testing.T) {
	fx := buildTestRouter(t)

	t.Run("ledger", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/fees", nil)
		resp := performRequest(fx.router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `"unpaid"`)
		require.Contains(t, resp.Body.String(), `"pending_paise":150000`)
	})

	t.Run("add negative amount", func(t *testing.T) {
		payload := `{"student_id":"s1","amount":"-50","due_date":"2026-04-01"}`
		req, _ := http.NewRequest(http.MethodPost, "/fees", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(fx.router, req)
		require.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("pay then pay again conflicts", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, "/fees/f1/pay", nil)
		resp := performRequest(fx.router, req)
		require.Equal(t, http.StatusOK, resp.Code)

		req, _ = http.NewRequest(http.MethodPost, "/fees/f1/pay", nil)
		resp = performRequest(fx.router, req)
		require.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("reminder", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/fees/f1/reminder", nil)
		resp := performRequest(fx.router, req)
		require.Equal(t, http.StatusOK, resp.Code)

		var envelope struct {
			Data struct {
				Message     string `json:"message"`
				WhatsAppURL string `json:"whatsapp_url"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
		assert.Contains(t, envelope.Data.Message, "Dear Kumar")
		assert.Contains(t, envelope.Data.WhatsAppURL, "https://wa.me/919876543210")
	})

	t.Run("export csv", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/fees/export?format=csv", nil)
		resp := performRequest(fx.router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "text/csv", resp.Header().Get("Content-Type"))
		assert.Contains(t, resp.Header().Get("Content-Disposition"), "attachment")
	})

	t.Run("export unknown format", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/fees/export?format=xlsx", nil)
		resp := performRequest(fx.router, req)
		require.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestRemarkRoutes(t *testing.T) {
	fx := buildTestRouter(t)

	t.Run("list with leaderboard", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/remarks", nil)
		resp := performRequest(fx.router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `"leaderboard"`)
	})

	t.Run("add", func(t *testing.T) {
		payload := `{"student_id":"s1","body":"great progress in algebra"}`
		req, _ := http.NewRequest(http.MethodPost, "/remarks", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(fx.router, req)
		require.Equal(t, http.StatusCreated, resp.Code)
	})

	t.Run("add blank body", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, "/remarks", bytes.NewBufferString(`{"student_id":"s1","body":"  "}`))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(fx.router, req)
		require.Equal(t, http.StatusBadRequest, resp.Code)
	})
}
