package models

import (
	"fmt"
	"time"
)

// AttendanceStatus is the recorded state for a student on a given day.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
)

// Valid reports whether the status is one of the two recognised values.
func (s AttendanceStatus) Valid() bool {
	return s == AttendancePresent || s == AttendanceAbsent
}

// AttendanceRecord is a stored attendance row. At most one row exists per
// (student, date) pair; the store enforces this with a conflict key.
type AttendanceRecord struct {
	StudentID string           `db:"student_id" json:"student_id"`
	Date      time.Time        `db:"date" json:"date"`
	Status    AttendanceStatus `db:"status" json:"status"`
}

// AttendanceEntry is one line of an attendance sheet.
type AttendanceEntry struct {
	StudentID   string           `json:"student_id"`
	StudentName string           `json:"student_name"`
	Status      AttendanceStatus `json:"status"`
}

// AttendanceStats are derived counts over a sheet. They are recomputed
// after every load or toggle, never stored.
type AttendanceStats struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Total   int `json:"total"`
}

// AttendanceSheet is the in-memory snapshot of one day's attendance:
// every enrolled student with a status, in roster order. A student with
// no stored record for the day is absent, not unknown; a date that was
// never marked reads as all absent.
type AttendanceSheet struct {
	Date     time.Time         `json:"date"`
	Editable bool              `json:"editable"`
	Entries  []AttendanceEntry `json:"entries"`
}

// BuildAttendanceSheet left-joins the student roster with the stored
// records for the date, filling absent where no record exists. Entry
// order follows the roster order.
func BuildAttendanceSheet(date time.Time, editable bool, students []Student, records []AttendanceRecord) AttendanceSheet {
	byStudent := make(map[string]AttendanceStatus, len(records))
	for _, rec := range records {
		if rec.Status.Valid() {
			byStudent[rec.StudentID] = rec.Status
		}
	}

	entries := make([]AttendanceEntry, 0, len(students))
	for _, student := range students {
		status, ok := byStudent[student.ID]
		if !ok {
			status = AttendanceAbsent
		}
		entries = append(entries, AttendanceEntry{
			StudentID:   student.ID,
			StudentName: student.Name,
			Status:      status,
		})
	}

	return AttendanceSheet{Date: date, Editable: editable, Entries: entries}
}

// Toggle flips a single student's status in memory. It fails when the
// sheet is read-only or the student is not on it.
func (s *AttendanceSheet) Toggle(studentID string) error {
	if !s.Editable {
		return fmt.Errorf("attendance sheet for %s is read-only", s.Date.Format(DateLayout))
	}
	for i := range s.Entries {
		if s.Entries[i].StudentID != studentID {
			continue
		}
		if s.Entries[i].Status == AttendancePresent {
			s.Entries[i].Status = AttendanceAbsent
		} else {
			s.Entries[i].Status = AttendancePresent
		}
		return nil
	}
	return fmt.Errorf("student %s not on attendance sheet", studentID)
}

// Stats folds the sheet into present/absent counts. The counts always
// satisfy Present + Absent == Total == len(Entries).
func (s *AttendanceSheet) Stats() AttendanceStats {
	stats := AttendanceStats{Total: len(s.Entries)}
	for _, entry := range s.Entries {
		if entry.Status == AttendancePresent {
			stats.Present++
		} else {
			stats.Absent++
		}
	}
	return stats
}

// Records converts the sheet into storable rows for the batch upsert.
func (s *AttendanceSheet) Records() []AttendanceRecord {
	records := make([]AttendanceRecord, 0, len(s.Entries))
	for _, entry := range s.Entries {
		records = append(records, AttendanceRecord{
			StudentID: entry.StudentID,
			Date:      s.Date,
			Status:    entry.Status,
		})
	}
	return records
}
