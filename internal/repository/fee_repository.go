package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ajmalakeel/tuition-center-api/internal/models"
)

// FeeRepository manages persistence for fee records.
type FeeRepository struct {
	db *sqlx.DB
}

// NewFeeRepository constructs a FeeRepository.
func NewFeeRepository(db *sqlx.DB) *FeeRepository {
	return &FeeRepository{db: db}
}

// List returns every fee with the owning student's contact fields
// denormalized, newest due date first.
func (r *FeeRepository) List(ctx context.Context) ([]models.FeeDetail, error) {
	const query = `SELECT f.id, f.student_id, f.amount_paise, f.due_date, f.status, f.paid_date, f.created_at,
        s.name AS student_name, s.guardian_name, s.guardian_phone
FROM fees f
JOIN students s ON s.id = f.student_id
ORDER BY f.due_date DESC, f.created_at DESC`
	var fees []models.FeeDetail
	if err := r.db.SelectContext(ctx, &fees, query); err != nil {
		return nil, fmt.Errorf("list fees: %w", err)
	}
	return fees, nil
}

// FindByID fetches a fee with denormalized student fields.
func (r *FeeRepository) FindByID(ctx context.Context, id string) (*models.FeeDetail, error) {
	const query = `SELECT f.id, f.student_id, f.amount_paise, f.due_date, f.status, f.paid_date, f.created_at,
        s.name AS student_name, s.guardian_name, s.guardian_phone
FROM fees f
JOIN students s ON s.id = f.student_id
WHERE f.id = $1`
	var fee models.FeeDetail
	if err := r.db.GetContext(ctx, &fee, query, id); err != nil {
		return nil, err
	}
	return &fee, nil
}

// Create inserts a new fee with status not_paid and no paid date.
func (r *FeeRepository) Create(ctx context.Context, fee *models.Fee) error {
	if fee.ID == "" {
		fee.ID = uuid.NewString()
	}
	if fee.Status == "" {
		fee.Status = models.FeeNotPaid
	}
	if fee.CreatedAt.IsZero() {
		fee.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO fees (id, student_id, amount_paise, due_date, status, paid_date, created_at)
VALUES (:id, :student_id, :amount_paise, :due_date, :status, :paid_date, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, fee); err != nil {
		return fmt.Errorf("create fee: %w", err)
	}
	return nil
}

// MarkPaid transitions a pending fee to paid, stamping the paid date.
// It reports false when the fee was not in the not_paid state, so the
// caller can distinguish an already-settled fee from a successful
// transition without a read-modify-write race.
func (r *FeeRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) (bool, error) {
	const query = `UPDATE fees SET status = $2, paid_date = $3 WHERE id = $1 AND status = $4`
	res, err := r.db.ExecContext(ctx, query, id, models.FeePaid, paidAt, models.FeeNotPaid)
	if err != nil {
		return false, fmt.Errorf("mark fee paid: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark fee paid: %w", err)
	}
	return affected == 1, nil
}

// CountUnpaid counts fees still pending collection.
func (r *FeeRepository) CountUnpaid(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM fees WHERE status = $1", models.FeeNotPaid); err != nil {
		return 0, fmt.Errorf("count unpaid fees: %w", err)
	}
	return total, nil
}
