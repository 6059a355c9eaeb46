package service

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ajmalakeel/tuition-center-api/internal/dto"
	"github.com/ajmalakeel/tuition-center-api/internal/models"
	appErrors "github.com/ajmalakeel/tuition-center-api/pkg/errors"
	"github.com/ajmalakeel/tuition-center-api/pkg/export"
)

type feeRepository interface {
	List(ctx context.Context) ([]models.FeeDetail, error)
	FindByID(ctx context.Context, id string) (*models.FeeDetail, error)
	Create(ctx context.Context, fee *models.Fee) error
	MarkPaid(ctx context.Context, id string, paidAt time.Time) (bool, error)
}

type studentFinder interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// AddFeeRequest holds the fee entry form payload. Amount is taken as a
// decimal rupee string and the due date as YYYY-MM-DD.
type AddFeeRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Amount    string `json:"amount" validate:"required"`
	DueDate   string `json:"due_date" validate:"required"`
}

// ReminderConfig identifies the center in outgoing reminder messages.
type ReminderConfig struct {
	CenterName      string
	CenterNameTamil string
}

// FeeService manages the fee ledger: entry, collection, reminders and
// export.
type FeeService struct {
	repo      feeRepository
	students  studentFinder
	validator *validator.Validate
	cache     *CacheService
	logger    *zap.Logger
	reminder  ReminderConfig
	now       func() time.Time
}

// NewFeeService constructs the fee service.
func NewFeeService(repo feeRepository, students studentFinder, validate *validator.Validate, cache *CacheService, reminder ReminderConfig, logger *zap.Logger) *FeeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeeService{
		repo:      repo,
		students:  students,
		validator: validate,
		cache:     cache,
		logger:    logger,
		reminder:  reminder,
		now:       time.Now,
	}
}

// List returns the fee ledger partitioned into unpaid and paid buckets
// together with the monetary aggregates.
func (s *FeeService) List(ctx context.Context) (*dto.FeeBookResponse, error) {
	fees, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fees")
	}
	book := models.NewFeeBook(fees)
	return &dto.FeeBookResponse{Book: book, Totals: book.Totals()}, nil
}

// Add records a new unpaid fee for a student. Zero amounts are
// accepted; negative ones are not.
func (s *FeeService) Add(ctx context.Context, req AddFeeRequest) (*models.Fee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "student, amount and due date are required")
	}
	amount, err := parseAmountPaise(req.Amount)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "amount must be a number greater than or equal to zero")
	}
	dueDate, err := time.Parse(models.DateLayout, req.DueDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "due date must be in YYYY-MM-DD format")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	fee := &models.Fee{
		StudentID:   req.StudentID,
		AmountPaise: amount,
		DueDate:     dueDate,
	}
	if err := s.repo.Create(ctx, fee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create fee")
	}
	s.invalidateDashboard(ctx)
	return fee, nil
}

// MarkPaid collects a fee. Collecting an already-paid fee is a
// conflict, never a silent no-op.
func (s *FeeService) MarkPaid(ctx context.Context, id string) (*models.FeeDetail, error) {
	fee, err := s.findFee(ctx, id)
	if err != nil {
		return nil, err
	}
	if fee.Status == models.FeePaid {
		return nil, appErrors.Clone(appErrors.ErrConflict, "fee is already paid")
	}

	paidAt := s.now()
	updated, err := s.repo.MarkPaid(ctx, id, paidAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark fee as paid")
	}
	if !updated {
		// Lost the race against a concurrent collection.
		return nil, appErrors.Clone(appErrors.ErrConflict, "fee is already paid")
	}

	fee.Status = models.FeePaid
	fee.PaidDate = &paidAt
	s.logger.Info("fee collected", zap.String("fee_id", id), zap.Int64("amount_paise", fee.AmountPaise))
	s.invalidateDashboard(ctx)
	return fee, nil
}

// Reminder prepares the bilingual payment reminder for a fee and the
// WhatsApp deep link targeting the guardian's phone.
func (s *FeeService) Reminder(ctx context.Context, id string) (*dto.FeeReminder, error) {
	fee, err := s.findFee(ctx, id)
	if err != nil {
		return nil, err
	}
	message := s.reminderMessage(fee)
	return &dto.FeeReminder{
		Message:     message,
		WhatsAppURL: whatsAppURL(fee.GuardianPhone, message),
	}, nil
}

// Export renders the full fee ledger as CSV or PDF bytes.
func (s *FeeService) Export(ctx context.Context, format string) ([]byte, string, error) {
	fees, err := s.repo.List(ctx)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fees")
	}
	dataset := feeDataset(fees)

	switch format {
	case "csv", "":
		data, err := export.NewCSVExporter().Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return data, "text/csv", nil
	case "pdf":
		data, err := export.NewPDFExporter().Render(dataset, "Fee Ledger")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return data, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format: "+format)
	}
}

func (s *FeeService) findFee(ctx context.Context, id string) (*models.FeeDetail, error) {
	fee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "fee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fee")
	}
	return fee, nil
}

func (s *FeeService) reminderMessage(fee *models.FeeDetail) string {
	amount := models.FormatRupees(fee.AmountPaise)
	dueDate := fee.DueDate.Format("02/01/2006")
	english := fmt.Sprintf(
		"Dear %s, this is a reminder that %s's tuition fee of %s is due on %s. Please make the payment at your earliest convenience. - %s",
		fee.GuardianName, fee.StudentName, amount, dueDate, s.reminder.CenterName,
	)
	tamil := fmt.Sprintf(
		"அன்புள்ள %s, %s இன் பயிற்சி கட்டணம் %s, %s அன்று செலுத்த வேண்டும் என்பதை நினைவூட்டுகிறோம். தயவுசெய்து விரைவில் கட்டணத்தை செலுத்தவும். - %s",
		fee.GuardianName, fee.StudentName, amount, dueDate, s.reminder.CenterNameTamil,
	)
	return english + "\n\n" + tamil
}

func (s *FeeService) invalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, DashboardCachePattern); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

// parseAmountPaise converts a decimal rupee string into paise. At most
// two decimal places are accepted and the value must not be negative.
func parseAmountPaise(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "-") {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	whole, frac, _ := strings.Cut(raw, ".")
	rupees, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || rupees < 0 {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	var paise int64
	if frac != "" {
		if len(frac) > 2 {
			return 0, fmt.Errorf("invalid amount %q", raw)
		}
		for len(frac) < 2 {
			frac += "0"
		}
		paise, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || paise < 0 {
			return 0, fmt.Errorf("invalid amount %q", raw)
		}
	}
	return rupees*100 + paise, nil
}

// whatsAppURL builds a wa.me deep link with the message prefilled. All
// non-digit characters are stripped from the phone number.
func whatsAppURL(phone, message string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return "https://wa.me/" + digits.String() + "?text=" + url.QueryEscape(message)
}

func feeDataset(fees []models.FeeDetail) export.Dataset {
	dataset := export.Dataset{
		Headers: []string{"Student", "Guardian", "Phone", "Amount", "Due Date", "Status", "Paid Date"},
	}
	for _, fee := range fees {
		paidDate := ""
		if fee.PaidDate != nil {
			paidDate = fee.PaidDate.Format(models.DateLayout)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Student":   fee.StudentName,
			"Guardian":  fee.GuardianName,
			"Phone":     fee.GuardianPhone,
			"Amount":    models.FormatRupees(fee.AmountPaise),
			"Due Date":  fee.DueDate.Format(models.DateLayout),
			"Status":    string(fee.Status),
			"Paid Date": paidDate,
		})
	}
	return dataset
}
