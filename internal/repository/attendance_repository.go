package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ajmalakeel/tuition-center-api/internal/models"
)

// AttendanceRepository persists daily attendance rows. The table keeps
// at most one row per (student_id, date), enforced by the conflict key.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ListByDate returns the stored records for one calendar date.
func (r *AttendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]models.AttendanceRecord, error) {
	const query = `SELECT student_id, date, status FROM attendance WHERE date = $1`
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, date); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// SaveSheet writes every record in one transaction, upserting on the
// (student_id, date) conflict key. The whole batch succeeds or fails
// together; re-saving an unchanged sheet stores the same rows again.
func (r *AttendanceRepository) SaveSheet(ctx context.Context, records []models.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save attendance: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO attendance (student_id, date, status, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (student_id, date)
DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`
	now := time.Now().UTC()
	for _, rec := range records {
		if _, err := tx.ExecContext(ctx, query, rec.StudentID, rec.Date, rec.Status, now); err != nil {
			return fmt.Errorf("save attendance for %s: %w", rec.StudentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save attendance: %w", err)
	}
	committed = true
	return nil
}

// CountPresent counts students marked present on the date.
func (r *AttendanceRepository) CountPresent(ctx context.Context, date time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM attendance WHERE date = $1 AND status = $2`
	var total int
	if err := r.db.GetContext(ctx, &total, query, date, models.AttendancePresent); err != nil {
		return 0, fmt.Errorf("count present: %w", err)
	}
	return total, nil
}
