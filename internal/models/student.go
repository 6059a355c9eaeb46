package models

import "time"

// Student represents a learner enrolled at the center.
type Student struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	GuardianName  string    `db:"guardian_name" json:"guardian_name"`
	GuardianPhone string    `db:"guardian_phone" json:"guardian_phone"`
	Address       string    `db:"address" json:"address"`
	EnrolledDate  time.Time `db:"enrolled_date" json:"enrolled_date"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search   string
	Page     int
	PageSize int
}
