package models

import (
	"fmt"
	"time"
)

// FeeStatus tracks whether a fee has been collected.
type FeeStatus string

const (
	FeeNotPaid FeeStatus = "not_paid"
	FeePaid    FeeStatus = "paid"
)

// Fee is a single fee obligation for a student. Amounts are stored in
// paise so that monetary aggregates are exact; PaidDate is set if and
// only if Status is paid.
type Fee struct {
	ID          string     `db:"id" json:"id"`
	StudentID   string     `db:"student_id" json:"student_id"`
	AmountPaise int64      `db:"amount_paise" json:"amount_paise"`
	DueDate     time.Time  `db:"due_date" json:"due_date"`
	Status      FeeStatus  `db:"status" json:"status"`
	PaidDate    *time.Time `db:"paid_date" json:"paid_date,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// FeeDetail is a fee with the owning student's contact fields
// denormalized at the read boundary for display and reminders.
type FeeDetail struct {
	Fee
	StudentName   string `db:"student_name" json:"student_name"`
	GuardianName  string `db:"guardian_name" json:"guardian_name"`
	GuardianPhone string `db:"guardian_phone" json:"guardian_phone"`
}

// FeeTotals are the three monetary aggregates over a fee set. They are
// derived, never stored, and always satisfy Total = Pending + Collected.
type FeeTotals struct {
	TotalPaise     int64 `json:"total_paise"`
	PendingPaise   int64 `json:"pending_paise"`
	CollectedPaise int64 `json:"collected_paise"`
}

// FeeBook partitions a fee set into unpaid and paid buckets. Status has
// no third value, so the partition is total.
type FeeBook struct {
	Unpaid []FeeDetail `json:"unpaid"`
	Paid   []FeeDetail `json:"paid"`
}

// NewFeeBook buckets every fee by status.
func NewFeeBook(fees []FeeDetail) FeeBook {
	book := FeeBook{Unpaid: []FeeDetail{}, Paid: []FeeDetail{}}
	for _, fee := range fees {
		if fee.Status == FeePaid {
			book.Paid = append(book.Paid, fee)
		} else {
			book.Unpaid = append(book.Unpaid, fee)
		}
	}
	return book
}

// Totals folds the book into its monetary aggregates.
func (b FeeBook) Totals() FeeTotals {
	var totals FeeTotals
	for _, fee := range b.Unpaid {
		totals.PendingPaise += fee.AmountPaise
	}
	for _, fee := range b.Paid {
		totals.CollectedPaise += fee.AmountPaise
	}
	totals.TotalPaise = totals.PendingPaise + totals.CollectedPaise
	return totals
}

// FormatRupees renders a paise amount as a rupee string, dropping the
// decimal part for whole-rupee values.
func FormatRupees(paise int64) string {
	if paise%100 == 0 {
		return fmt.Sprintf("₹%d", paise/100)
	}
	return fmt.Sprintf("₹%d.%02d", paise/100, paise%100)
}
