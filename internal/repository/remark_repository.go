package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ajmalakeel/tuition-center-api/internal/models"
)

// RemarkRepository persists the append-only remark log.
type RemarkRepository struct {
	db *sqlx.DB
}

// NewRemarkRepository constructs a RemarkRepository.
func NewRemarkRepository(db *sqlx.DB) *RemarkRepository {
	return &RemarkRepository{db: db}
}

// List returns every remark newest-first with the owning student's
// name denormalized.
func (r *RemarkRepository) List(ctx context.Context) ([]models.RemarkDetail, error) {
	const query = `SELECT rm.id, rm.student_id, rm.body, rm.created_at, s.name AS student_name
FROM remarks rm
JOIN students s ON s.id = rm.student_id
ORDER BY rm.created_at DESC`
	var remarks []models.RemarkDetail
	if err := r.db.SelectContext(ctx, &remarks, query); err != nil {
		return nil, fmt.Errorf("list remarks: %w", err)
	}
	return remarks, nil
}

// Create appends a remark. Remarks are immutable once written.
func (r *RemarkRepository) Create(ctx context.Context, remark *models.Remark) error {
	if remark.ID == "" {
		remark.ID = uuid.NewString()
	}
	if remark.CreatedAt.IsZero() {
		remark.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO remarks (id, student_id, body, created_at)
VALUES (:id, :student_id, :body, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, remark); err != nil {
		return fmt.Errorf("create remark: %w", err)
	}
	return nil
}

// CountByStudent tallies remarks per student for students having at
// least one. Ordering is left to the caller.
func (r *RemarkRepository) CountByStudent(ctx context.Context) ([]models.RemarkCount, error) {
	const query = `SELECT rm.student_id, s.name AS student_name, COUNT(*) AS remark_count
FROM remarks rm
JOIN students s ON s.id = rm.student_id
GROUP BY rm.student_id, s.name`
	var counts []models.RemarkCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count remarks by student: %w", err)
	}
	return counts, nil
}

// Count returns the total number of remarks.
func (r *RemarkRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM remarks"); err != nil {
		return 0, fmt.Errorf("count remarks: %w", err)
	}
	return total, nil
}
