package dto

// DashboardOverview carries the four independent counts shown on the
// landing page. The counts are fetched concurrently and have no
// ordering relationship to each other.
type DashboardOverview struct {
	TotalStudents int `json:"total_students"`
	PresentToday  int `json:"present_today"`
	UnpaidFees    int `json:"unpaid_fees"`
	TotalRemarks  int `json:"total_remarks"`
}
