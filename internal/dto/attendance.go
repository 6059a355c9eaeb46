package dto

import "github.com/ajmalakeel/tuition-center-api/internal/models"

// AttendanceSheetResponse is the sheet plus its derived stats.
type AttendanceSheetResponse struct {
	Sheet models.AttendanceSheet `json:"sheet"`
	Stats models.AttendanceStats `json:"stats"`
}

// SaveAttendanceRequest carries the full day's statuses for the batch
// upsert. Every student's current status is written, not a diff.
type SaveAttendanceRequest struct {
	Entries []SaveAttendanceEntry `json:"entries" validate:"dive"`
}

// SaveAttendanceEntry is a single student's status in a save request.
type SaveAttendanceEntry struct {
	StudentID string                  `json:"student_id" validate:"required"`
	Status    models.AttendanceStatus `json:"status" validate:"required"`
}
